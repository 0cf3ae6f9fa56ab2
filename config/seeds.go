package config

import (
	"io/ioutil"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v2"
)

type AssetSeed struct {
	ID        string          `yaml:"id"`
	Symbol    string          `yaml:"symbol"`
	Name      string          `yaml:"name"`
	Price     decimal.Decimal `yaml:"price"`
	Supply    decimal.Decimal `yaml:"supply"`
	PriceFeed string          `yaml:"price_feed"`
	Active    bool            `yaml:"active"`
	Position  int32           `yaml:"position"`
}

type MemberSeed struct {
	UID   string `yaml:"uid"`
	Email string `yaml:"email"`
	Role  string `yaml:"role"`
}

// LiquiditySeed describes the exchange-operated counterparty account and
// the inventory it starts out with, keyed by asset id.
type LiquiditySeed struct {
	Member    MemberSeed                 `yaml:"member"`
	Inventory map[string]decimal.Decimal `yaml:"inventory"`
}

type Seeds struct {
	Assets    []AssetSeed   `yaml:"assets"`
	Liquidity LiquiditySeed `yaml:"liquidity"`
}

func LoadSeeds(path string) (*Seeds, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}

	seeds := &Seeds{}
	if err := yaml.Unmarshal(raw, seeds); err != nil {
		return nil, err
	}

	return seeds, nil
}
