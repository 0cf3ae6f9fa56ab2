package admin_controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/zsmartex/vaultex/config"
	"github.com/zsmartex/vaultex/controllers/auth"
	"github.com/zsmartex/vaultex/controllers/helpers"
	"github.com/zsmartex/vaultex/models"
	"github.com/zsmartex/vaultex/services"
	"github.com/zsmartex/vaultex/types"
)

func GetPendingTransactions(c *fiber.Ctx) error {
	var transactions []models.Transaction
	transactions_json := make([]models.TransactionJSON, 0)

	config.DataBase.Order("created_at asc").
		Where("status = ?", types.TransactionPending).
		Limit(100).Find(&transactions)

	for _, transaction := range transactions {
		transactions_json = append(transactions_json, transaction.ToJSON())
	}

	return c.Status(200).JSON(transactions_json)
}

type approveParams struct {
	Decision types.ApproveDecision `json:"decision" form:"decision"`
}

func ApproveTransaction(c *fiber.Ctx) error {
	CurrentUser := auth.GetCurrentUser(c)
	if CurrentUser == nil {
		return c.Status(500).JSON(helpers.Errors{
			Errors: []string{"jwt.decode_and_verify"},
		})
	}

	tid, err := uuid.Parse(c.Params("tid"))
	if err != nil {
		return c.Status(422).JSON(helpers.Errors{
			Errors: []string{"admin.transaction.invalid_tid"},
		})
	}

	payload := new(approveParams)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(500).JSON(helpers.Errors{
			Errors: []string{"server.method.invalid_message_body"},
		})
	}

	if payload.Decision != types.DecisionApprove && payload.Decision != types.DecisionReject {
		return c.Status(422).JSON(helpers.Errors{
			Errors: []string{"admin.transaction.invalid_decision"},
		})
	}

	transaction, err := services.Wallet.Approve(CurrentUser, tid, payload.Decision)
	if err != nil {
		return helpers.HandleError(c, err)
	}

	return c.Status(200).JSON(transaction.ToJSON())
}
