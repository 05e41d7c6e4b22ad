package services

import (
	"errors"

	"github.com/anjiri1684/tutor_marketplace/models"
	"github.com/anjiri1684/tutor_marketplace/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrWalletNotFound = errors.New("wallet not found")

// WalletEntry describes a single balance mutation plus its audit row.
// Amount is positive for credits and negative for debits.
type WalletEntry struct {
	UserID          uuid.UUID
	Amount          float64
	Type            models.TransactionType
	Description     string
	PayoutRequestID *uuid.UUID
	SessionID       *uuid.UUID
}

// ApplyWalletEntry mutates the wallet and writes the matching Transaction row.
// Must be called inside a DB transaction; the wallet row is locked FOR UPDATE
// so two admins acting at once cannot produce a lost update.
func ApplyWalletEntry(tx *gorm.DB, entry WalletEntry) (*models.Transaction, error) {
	var wallet models.Wallet
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&wallet, "user_id = ?", entry.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, err
	}

	if entry.Amount < 0 && wallet.Balance+entry.Amount < 0 {
		return nil, &InsufficientBalanceError{Available: wallet.Balance, Requested: -entry.Amount}
	}

	wallet.Balance += entry.Amount
	if err := tx.Save(&wallet).Error; err != nil {
		return nil, err
	}

	reference, err := utils.GenerateTransactionReference()
	if err != nil {
		return nil, err
	}

	txn := models.Transaction{
		WalletID:        wallet.ID,
		Type:            entry.Type,
		Amount:          entry.Amount,
		Currency:        wallet.Currency,
		Reference:       reference,
		Description:     entry.Description,
		PayoutRequestID: entry.PayoutRequestID,
		SessionID:       entry.SessionID,
	}

	if err := tx.Create(&txn).Error; err != nil {
		return nil, err
	}

	return &txn, nil
}
