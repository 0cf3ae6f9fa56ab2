package helpers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gookit/validate"

	"github.com/zsmartex/vaultex/models"
)

type Errors struct {
	Errors []string `json:"errors"`
}

func (e Errors) Size() int {
	return len(e.Errors)
}

func Vaildate(payload interface{}, err_src *Errors) {
	v := validate.Struct(payload)
	if !v.Validate() {
		for _, errs := range v.Errors.All() {
			for _, err := range errs {
				err_src.Errors = append(err_src.Errors, err)
			}
		}
	}
}

// HandleError renders a domain error as its dotted code. Validation
// failures get 422, missing records 404, anything non-domain is an
// opaque 500.
func HandleError(c *fiber.Ctx, err error) error {
	var domainErr *models.DomainError
	if errors.As(err, &domainErr) {
		status := 422

		switch {
		case errors.Is(err, models.ErrNotFound):
			status = 404
		case errors.Is(err, models.ErrStorageUnavailable):
			status = 503
		case errors.Is(err, models.ErrInvariantViolation):
			status = 500
		}

		return c.Status(status).JSON(Errors{
			Errors: []string{domainErr.Code},
		})
	}

	return c.Status(500).JSON(Errors{
		Errors: []string{"server.internal_error"},
	})
}
