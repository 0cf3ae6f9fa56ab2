package main

import (
	"fmt"
	"os"

	"github.com/zsmartex/vaultex/config"
	"github.com/zsmartex/vaultex/models"
	"github.com/zsmartex/vaultex/services"
)

// vaultex-seed migrates the schema and loads the seed file: assets plus
// the liquidity member and its starting inventory. Inventory credits go
// through the ledger store so even seeded funds leave an audit trail.
func main() {
	config.NewLoggerService()
	if err := config.ConnectDatabase(); err != nil {
		fmt.Println(err.Error())
		return
	}

	services.Initialize()

	if err := config.DataBase.AutoMigrate(
		&models.Member{},
		&models.Asset{},
		&models.Balance{},
		&models.Transaction{},
		&models.Order{},
		&models.Fill{},
		&models.LedgerEntry{},
	); err != nil {
		config.Logger.Fatalf("Migration failed: %v", err)
	}

	path := os.Getenv("SEEDS_FILE")
	if len(path) == 0 {
		path = "config/seeds.yml"
	}

	seeds, err := config.LoadSeeds(path)
	if err != nil {
		config.Logger.Fatalf("Failed to load seeds from %s: %v", path, err)
	}

	for _, seed := range seeds.Assets {
		asset := models.Asset{ID: seed.ID}

		config.DataBase.Where("id = ?", seed.ID).Assign(models.Asset{
			Symbol:    seed.Symbol,
			Name:      seed.Name,
			Price:     seed.Price,
			Supply:    seed.Supply,
			MarketCap: seed.Price.Mul(seed.Supply),
			PriceFeed: seed.PriceFeed,
			Active:    seed.Active,
			Position:  seed.Position,
		}).FirstOrCreate(&asset)

		config.Logger.Infof("Seeded asset %s (%s)", asset.ID, asset.Symbol)
	}

	liquidity := &models.Member{}
	config.DataBase.Where("uid = ?", seeds.Liquidity.Member.UID).Assign(models.Member{
		Email: seeds.Liquidity.Member.Email,
		Role:  seeds.Liquidity.Member.Role,
		State: "active",
	}).FirstOrCreate(liquidity)

	for assetID, amount := range seeds.Liquidity.Inventory {
		if !amount.IsPositive() {
			continue
		}

		balance, err := services.Ledger.GetBalance(liquidity.ID, assetID)
		if err != nil {
			config.Logger.Fatalf("Failed to load liquidity balance for %s: %v", assetID, err)
		}

		// Top up only the gap, so reruns don't inflate inventory.
		missing := amount.Sub(balance.Amount())
		if !missing.IsPositive() {
			continue
		}

		if err := services.Ledger.Credit(liquidity.ID, assetID, missing, models.Reference{
			ID:   liquidity.ID,
			Type: "Seed",
		}); err != nil {
			config.Logger.Fatalf("Failed to seed liquidity inventory for %s: %v", assetID, err)
		}

		config.Logger.Infof("Seeded liquidity inventory: %s %s", missing.String(), assetID)
	}
}
