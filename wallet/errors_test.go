package wallet

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zsmartex/vaultex/models"
)

func TestStorageErrKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")

	err := storageErr(cause)

	assert.ErrorIs(t, err, models.ErrStorageUnavailable)
	assert.Contains(t, err.Error(), "connection refused")
}
