package admin_controllers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/zsmartex/vaultex/config"
	"github.com/zsmartex/vaultex/controllers/helpers"
	"github.com/zsmartex/vaultex/models"
	"github.com/zsmartex/vaultex/workers"
)

type createFillParams struct {
	OrderUUID uuid.UUID       `json:"order_uuid" form:"order_uuid"`
	Amount    decimal.Decimal `json:"amount" form:"amount"`
	Price     decimal.Decimal `json:"price" form:"price"`
}

// CreateFill publishes a simulated execution to the fills subject. The
// engine worker picks it up the same way it would a real matcher's
// output, so simulated and real fills settle through one code path.
func CreateFill(c *fiber.Ctx) error {
	payload := new(createFillParams)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(500).JSON(helpers.Errors{
			Errors: []string{"server.method.invalid_message_body"},
		})
	}

	if !payload.Amount.IsPositive() || !payload.Price.IsPositive() {
		return c.Status(422).JSON(helpers.Errors{
			Errors: []string{"admin.fill.invalid_amount"},
		})
	}

	order, err := findOrderByUUID(payload.OrderUUID)
	if err != nil {
		return helpers.HandleError(c, err)
	}

	fill_payload, _ := json.Marshal(workers.FillPayload{
		OrderID: order.ID,
		Amount:  payload.Amount,
		Price:   payload.Price,
	})

	if err := config.Nats.Publish(workers.FillsSubject, fill_payload); err != nil {
		return helpers.HandleError(c, err)
	}

	return c.Status(202).JSON(order.ToJSON())
}

func findOrderByUUID(order_uuid uuid.UUID) (*models.Order, error) {
	var order *models.Order

	result := config.DataBase.Where("uuid = ?", order_uuid).First(&order)
	if result.Error != nil {
		return nil, models.ErrNotFound
	}

	return order, nil
}
