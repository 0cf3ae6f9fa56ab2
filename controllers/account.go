package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/zsmartex/vaultex/config"
	"github.com/zsmartex/vaultex/controllers/auth"
	"github.com/zsmartex/vaultex/controllers/helpers"
	"github.com/zsmartex/vaultex/models"
)

func GetBalances(c *fiber.Ctx) error {
	CurrentUser := auth.GetCurrentUser(c)
	if CurrentUser == nil {
		return c.Status(500).JSON(helpers.Errors{
			Errors: []string{"jwt.decode_and_verify"},
		})
	}

	var balances []models.Balance
	balances_json := make([]models.BalanceJSON, 0)

	config.DataBase.Order("asset_id asc").Where("member_id = ?", CurrentUser.ID).Find(&balances)

	for _, balance := range balances {
		balances_json = append(balances_json, balance.ToJSON())
	}

	return c.Status(200).JSON(balances_json)
}

func GetLedgerEntries(c *fiber.Ctx) error {
	CurrentUser := auth.GetCurrentUser(c)
	if CurrentUser == nil {
		return c.Status(500).JSON(helpers.Errors{
			Errors: []string{"jwt.decode_and_verify"},
		})
	}

	var entries []models.LedgerEntry

	tx := config.DataBase.Order("id desc").Where("member_id = ?", CurrentUser.ID)

	if asset := c.Query("asset"); len(asset) > 0 {
		tx = tx.Where("asset_id = ?", asset)
	}

	tx.Limit(100).Find(&entries)

	return c.Status(200).JSON(entries)
}
