package ledger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zsmartex/vaultex/models"
)

func TestWrapStorageErr_PassesDomainErrorsThrough(t *testing.T) {
	err := wrapStorageErr(models.ErrInsufficientFunds)

	assert.ErrorIs(t, err, models.ErrInsufficientFunds)
	assert.NotErrorIs(t, err, models.ErrStorageUnavailable)
}

func TestWrapStorageErr_WrapsNonDomainWithCause(t *testing.T) {
	cause := errors.New("connection refused")

	err := wrapStorageErr(cause)

	assert.ErrorIs(t, err, models.ErrStorageUnavailable)
	assert.Contains(t, err.Error(), "connection refused")
}
