package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/zsmartex/vaultex/config"
	"github.com/zsmartex/vaultex/controllers/helpers"
	"github.com/zsmartex/vaultex/models"
)

const assetsCacheKey = "vaultex:public:assets"

func GetTimestamp(c *fiber.Ctx) error {
	return c.Status(200).JSON(time.Now().Unix())
}

func GetAssets(c *fiber.Ctx) error {
	assets_json := make([]models.AssetJSON, 0)

	if err := config.Redis.GetKey(assetsCacheKey, &assets_json); err == nil && len(assets_json) > 0 {
		return c.Status(200).JSON(assets_json)
	}

	var assets []models.Asset
	config.DataBase.Order("position asc").Where("active = ?", true).Find(&assets)

	for _, asset := range assets {
		assets_json = append(assets_json, asset.ToJSON())
	}

	config.Redis.SetKey(assetsCacheKey, assets_json, 15*time.Second)

	return c.Status(200).JSON(assets_json)
}

func GetAsset(c *fiber.Ctx) error {
	asset, err := models.FindAsset(c.Params("id"))
	if err != nil {
		return helpers.HandleError(c, err)
	}

	return c.Status(200).JSON(asset.ToJSON())
}
