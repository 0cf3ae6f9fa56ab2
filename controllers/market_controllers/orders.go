package market_controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/zsmartex/vaultex/config"
	"github.com/zsmartex/vaultex/controllers/auth"
	"github.com/zsmartex/vaultex/controllers/helpers"
	"github.com/zsmartex/vaultex/models"
	"github.com/zsmartex/vaultex/services"
	"github.com/zsmartex/vaultex/types"
)

func CreateOrder(c *fiber.Ctx) error {
	CurrentUser := auth.GetCurrentUser(c)
	if CurrentUser == nil {
		return c.Status(500).JSON(helpers.Errors{
			Errors: []string{"jwt.decode_and_verify"},
		})
	}

	errors := new(helpers.Errors)
	payload := new(helpers.CreateOrderParams)

	if err := c.BodyParser(payload); err != nil {
		return c.Status(500).JSON(helpers.Errors{
			Errors: []string{"server.method.invalid_message_body"},
		})
	}

	helpers.Vaildate(payload, errors)
	if errors.Size() > 0 {
		return c.Status(422).JSON(errors)
	}

	order, err := services.Trading.PlaceOrder(CurrentUser, payload.BuildOrder(CurrentUser))
	if err != nil {
		return helpers.HandleError(c, err)
	}

	return c.Status(201).JSON(order.ToJSON())
}

func GetOrders(c *fiber.Ctx) error {
	CurrentUser := auth.GetCurrentUser(c)
	if CurrentUser == nil {
		return c.Status(500).JSON(helpers.Errors{
			Errors: []string{"jwt.decode_and_verify"},
		})
	}

	var orders []models.Order
	orders_json := make([]models.OrderJSON, 0)

	order_by := c.Query("order_by")
	if order_by != types.OrderByAsc {
		order_by = types.OrderByDesc
	}

	tx := config.DataBase.Order("updated_at "+order_by).Where("member_id = ?", CurrentUser.ID)

	if base := c.Query("base_asset"); len(base) > 0 {
		tx = tx.Where("base_asset_id = ?", base)
	}

	if quote := c.Query("quote_asset"); len(quote) > 0 {
		tx = tx.Where("quote_asset_id = ?", quote)
	}

	switch c.Query("status") {
	case types.OrderCancelled:
		tx = tx.Where("cancelled = ?", true)
	case types.OrderOpen:
		tx = tx.Where("cancelled = ? AND filled_amount = 0", false)
	case types.OrderPartial:
		tx = tx.Where("cancelled = ? AND filled_amount > 0 AND filled_amount < amount", false)
	case types.OrderFilled:
		tx = tx.Where("cancelled = ? AND filled_amount >= amount", false)
	}

	tx.Limit(100).Find(&orders)

	for _, order := range orders {
		orders_json = append(orders_json, order.ToJSON())
	}

	return c.Status(200).JSON(orders_json)
}

func GetOrderByUUID(c *fiber.Ctx) error {
	CurrentUser := auth.GetCurrentUser(c)
	if CurrentUser == nil {
		return c.Status(500).JSON(helpers.Errors{
			Errors: []string{"jwt.decode_and_verify"},
		})
	}

	order, err := findMemberOrder(c, CurrentUser)
	if err != nil {
		return helpers.HandleError(c, err)
	}

	return c.Status(200).JSON(order.ToJSON())
}

func CancelOrderByUUID(c *fiber.Ctx) error {
	CurrentUser := auth.GetCurrentUser(c)
	if CurrentUser == nil {
		return c.Status(500).JSON(helpers.Errors{
			Errors: []string{"jwt.decode_and_verify"},
		})
	}

	order, err := findMemberOrder(c, CurrentUser)
	if err != nil {
		return helpers.HandleError(c, err)
	}

	order, err = services.Trading.Cancel(order.ID)
	if err != nil {
		return helpers.HandleError(c, err)
	}

	return c.Status(200).JSON(order.ToJSON())
}

func GetFills(c *fiber.Ctx) error {
	CurrentUser := auth.GetCurrentUser(c)
	if CurrentUser == nil {
		return c.Status(500).JSON(helpers.Errors{
			Errors: []string{"jwt.decode_and_verify"},
		})
	}

	var fills []models.Fill
	fills_json := make([]models.FillJSON, 0)

	tx := config.DataBase.Order("created_at desc").Where("member_id = ?", CurrentUser.ID)

	if base := c.Query("base_asset"); len(base) > 0 {
		tx = tx.Where("base_asset_id = ?", base)
	}

	tx.Limit(100).Find(&fills)

	for _, fill := range fills {
		fills_json = append(fills_json, fill.ToJSON())
	}

	return c.Status(200).JSON(fills_json)
}

func findMemberOrder(c *fiber.Ctx, member *models.Member) (*models.Order, error) {
	order_uuid, err := uuid.Parse(c.Params("uuid"))
	if err != nil {
		return nil, models.ErrNotFound
	}

	var order *models.Order

	result := config.DataBase.Where("uuid = ? AND member_id = ?", order_uuid, member.ID).First(&order)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	} else if result.Error != nil {
		return nil, result.Error
	}

	return order, nil
}
