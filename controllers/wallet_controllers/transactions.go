package wallet_controllers

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

func CreateDeposit(c *fiber.Ctx) error {
	return createTransaction(c, types.KindDeposit)
}

func CreateWithdrawal(c *fiber.Ctx) error {
	return createTransaction(c, types.KindWithdrawal)
}

func createTransaction(c *fiber.Ctx, kind types.TransactionKind) error {
	CurrentUser := auth.GetCurrentUser(c)
	if CurrentUser == nil {
		return c.Status(500).JSON(helpers.Errors{
			Errors: []string{"jwt.decode_and_verify"},
		})
	}

	errors := new(helpers.Errors)
	payload := new(helpers.CreateTransactionParams)

	if err := c.BodyParser(payload); err != nil {
		return c.Status(500).JSON(helpers.Errors{
			Errors: []string{"server.method.invalid_message_body"},
		})
	}

	helpers.Vaildate(payload, errors)
	if errors.Size() > 0 {
		return c.Status(422).JSON(errors)
	}

	asset, err := models.FindAsset(payload.Asset)
	if err != nil {
		return helpers.HandleError(c, err)
	}

	var transaction *models.Transaction
	if kind == types.KindDeposit {
		transaction, err = services.Wallet.RequestDeposit(CurrentUser, asset, payload.Amount, payload.WalletAddress)
	} else {
		transaction, err = services.Wallet.RequestWithdrawal(CurrentUser, asset, payload.Amount, payload.WalletAddress)
	}

	if err != nil {
		return helpers.HandleError(c, err)
	}

	return c.Status(201).JSON(transaction.ToJSON())
}

func GetTransactions(c *fiber.Ctx) error {
	CurrentUser := auth.GetCurrentUser(c)
	if CurrentUser == nil {
		return c.Status(500).JSON(helpers.Errors{
			Errors: []string{"jwt.decode_and_verify"},
		})
	}

	var transactions []models.Transaction
	transactions_json := make([]models.TransactionJSON, 0)

	tx := config.DataBase.Order("created_at desc").Where("member_id = ?", CurrentUser.ID)

	if kind := c.Query("kind"); len(kind) > 0 {
		tx = tx.Where("kind = ?", kind)
	}

	if status := c.Query("status"); len(status) > 0 {
		tx = tx.Where("status = ?", status)
	}

	tx.Limit(100).Find(&transactions)

	for _, transaction := range transactions {
		transactions_json = append(transactions_json, transaction.ToJSON())
	}

	return c.Status(200).JSON(transactions_json)
}

func CancelTransaction(c *fiber.Ctx) error {
	CurrentUser := auth.GetCurrentUser(c)
	if CurrentUser == nil {
		return c.Status(500).JSON(helpers.Errors{
			Errors: []string{"jwt.decode_and_verify"},
		})
	}

	tid, err := uuid.Parse(c.Params("tid"))
	if err != nil {
		return c.Status(422).JSON(helpers.Errors{
			Errors: []string{"wallet.transaction.invalid_tid"},
		})
	}

	transaction, err := services.Wallet.Cancel(CurrentUser, tid)
	if err != nil {
		return helpers.HandleError(c, err)
	}

	return c.Status(200).JSON(transaction.ToJSON())
}
