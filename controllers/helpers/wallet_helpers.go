package helpers

import (
	"github.com/gookit/validate"
	"github.com/shopspring/decimal"
)

type CreateTransactionParams struct {
	Asset         string          `json:"asset" form:"asset" validate:"required"`
	Amount        decimal.Decimal `json:"amount" form:"amount" validate:"VaildateAmount"`
	WalletAddress string          `json:"wallet_address" form:"wallet_address"`
}

func (p CreateTransactionParams) Messages() map[string]string {
	return validate.MS{
		"required":       "wallet.transaction.invalid_{field}",
		"VaildateAmount": "wallet.transaction.invalid_amount",
	}
}

func (p CreateTransactionParams) VaildateAmount(val decimal.Decimal) bool {
	return val.IsPositive()
}
