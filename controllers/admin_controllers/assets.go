package admin_controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/zsmartex/vaultex/config"
	"github.com/zsmartex/vaultex/controllers/helpers"
	"github.com/zsmartex/vaultex/models"
)

type updatePriceParams struct {
	Price    decimal.NullDecimal `json:"price" form:"price"`
	DeltaPct decimal.NullDecimal `json:"delta_pct" form:"delta_pct"`
}

// UpdateAssetPrice reprices an asset either by absolute value or by a
// percentage delta. Exactly one of the two must be given.
func UpdateAssetPrice(c *fiber.Ctx) error {
	asset, err := models.FindAsset(c.Params("id"))
	if err != nil {
		return helpers.HandleError(c, err)
	}

	payload := new(updatePriceParams)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(500).JSON(helpers.Errors{
			Errors: []string{"server.method.invalid_message_body"},
		})
	}

	if payload.Price.Valid == payload.DeltaPct.Valid {
		return c.Status(422).JSON(helpers.Errors{
			Errors: []string{"admin.asset.invalid_price_update"},
		})
	}

	price := payload.Price.Decimal
	if payload.DeltaPct.Valid {
		price = models.AdjustedPrice(asset.Price, payload.DeltaPct.Decimal)
	}

	err = config.DataBase.Transaction(func(tx *gorm.DB) error {
		return asset.SetPrice(tx, price)
	})
	if err != nil {
		return helpers.HandleError(c, err)
	}

	config.Redis.DeleteKey("vaultex:public:assets")

	return c.Status(200).JSON(asset.ToJSON())
}
