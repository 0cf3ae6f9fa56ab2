package cron

import (
	"encoding/json"
	"io/ioutil"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/zsmartex/vaultex/config"
	"github.com/zsmartex/vaultex/models"
	"github.com/zsmartex/vaultex/types"
)

const priceSnapshotPrefix = "vaultex:h24:price:"

// MarketPriceJob reprices market-fed assets from the public ticker API
// and refreshes the 24h stats. Manual assets are skipped: their price
// belongs to the admin surface alone.
type MarketPriceJob struct {
}

func (j *MarketPriceJob) Process() {
	var assets []models.Asset

	config.DataBase.Where("price_feed = ? AND active = ?", types.FeedMarket, true).Find(&assets)
	if len(assets) == 0 {
		return
	}

	symbols := make([]string, 0, len(assets))
	for _, asset := range assets {
		symbols = append(symbols, asset.Symbol)
	}

	prices, err := fetchPrices(symbols)
	if err != nil {
		config.Logger.Errorf("Failed to fetch market prices: %v", err)
		return
	}

	for i := range assets {
		asset := &assets[i]

		quote, ok := prices[asset.Symbol]
		if !ok {
			continue
		}

		price := decimal.NewFromFloat(quote["USD"])
		if price.IsNegative() {
			continue
		}

		asset.PriceChange24h = j.priceChange24h(asset, price)
		asset.Volume24h = models.Volume24h(asset.ID)

		err := config.DataBase.Transaction(func(tx *gorm.DB) error {
			return asset.SetPrice(tx, price)
		})
		if err != nil {
			config.Logger.Errorf("Failed to reprice asset %s: %v", asset.ID, err)
		}
	}

	config.Redis.DeleteKey("vaultex:public:assets")
}

func fetchPrices(symbols []string) (map[string]map[string]float64, error) {
	resp, err := http.Get("https://min-api.cryptocompare.com/data/pricemulti?fsyms=" + strings.Join(symbols, ",") + "&tsyms=USD")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	prices := make(map[string]map[string]float64)
	if err := json.Unmarshal(body, &prices); err != nil {
		return nil, err
	}

	return prices, nil
}

// priceChange24h compares against a rolling snapshot held in Redis. The
// snapshot is written once and expires after a day, so the delta always
// measures against a price roughly 24h old.
func (j *MarketPriceJob) priceChange24h(asset *models.Asset, price decimal.Decimal) decimal.Decimal {
	key := priceSnapshotPrefix + asset.ID

	config.Redis.Connection.SetNX(config.Redis.Ctx, key, price.String(), 24*time.Hour)

	snapshot, err := config.Redis.Connection.Get(config.Redis.Ctx, key).Result()
	if err != nil {
		return decimal.Zero
	}

	old, err := decimal.NewFromString(snapshot)
	if err != nil || !old.IsPositive() {
		return decimal.Zero
	}

	return price.Sub(old).Div(old).Mul(decimal.NewFromInt(100))
}
