package services

import (
	"DentServe/database"
	"DentServe/models"
	"DentServe/repositories"
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InitialPaymentNote labels the installment row written alongside a new
// installment-type transaction.
const InitialPaymentNote = "Initial payment"

// LedgerService enforces the transaction/installment invariants on every
// mutating path: paid + remaining == total_amount, remaining >= 0, and
// status derived from remaining. The storage layer guarantees none of
// this, so each write runs under a per-transaction distributed lock and a
// single database transaction, recomputing the cached aggregates from a
// fresh read inside the critical section.
type LedgerService struct {
	db           *gorm.DB
	transactions *repositories.TransactionRepository
	installments *repositories.InstallmentRepository
	catalog      *repositories.ServiceRepository
}

func NewLedgerService(
	db *gorm.DB,
	transactions *repositories.TransactionRepository,
	installments *repositories.InstallmentRepository,
	catalog *repositories.ServiceRepository,
) *LedgerService {
	return &LedgerService{
		db:           db,
		transactions: transactions,
		installments: installments,
		catalog:      catalog,
	}
}

// OpenTransactionInput is a point-of-sale request: one service engagement
// for one patient, paid in full or opened as an installment plan with an
// optional upfront amount.
type OpenTransactionInput struct {
	PatientID     string
	ServiceID     string
	PaymentType   string
	InitialAmount decimal.Decimal
	Note          string
}

// PatientLedgerSummary is the roll-up the patient payment screen shows.
type PatientLedgerSummary struct {
	TotalPaid      decimal.Decimal `json:"total_paid"`
	TotalRemaining decimal.Decimal `json:"total_remaining"`
	Count          int             `json:"count"`
}

// OpenTransaction prices the engagement from the service catalog and
// persists the transaction, plus the initial installment row when an
// upfront amount is supplied, in one database transaction.
func (s *LedgerService) OpenTransaction(ctx context.Context, input OpenTransactionInput) (*models.Transaction, *models.Installment, error) {
	if input.PaymentType != models.PaymentTypeFull && input.PaymentType != models.PaymentTypeInstallment {
		return nil, nil, errors.Wrapf(ErrValidationRejected, "unknown payment type %q", input.PaymentType)
	}

	service, err := s.catalog.GetByID(ctx, input.ServiceID)
	if err != nil {
		return nil, nil, err
	}
	totalAmount := service.ServicePrice

	if input.InitialAmount.Sign() < 0 || input.InitialAmount.GreaterThan(totalAmount) {
		return nil, nil, ErrAmountOutOfRange
	}

	transaction := &models.Transaction{
		PatientID:   input.PatientID,
		ServiceID:   service.ID,
		ServiceName: service.ServiceName,
		TotalAmount: totalAmount,
		PaymentType: input.PaymentType,
	}

	var installment *models.Installment
	switch input.PaymentType {
	case models.PaymentTypeFull:
		transaction.Paid = totalAmount
		transaction.Remaining = decimal.Zero
		transaction.Status = models.StatusPaid
	case models.PaymentTypeInstallment:
		transaction.Paid = input.InitialAmount
		transaction.Remaining = flooredRemaining(totalAmount, input.InitialAmount)
		transaction.Status = statusFor(models.PaymentTypeInstallment, transaction.Remaining)
		if input.InitialAmount.Sign() > 0 {
			note := input.Note
			if note == "" {
				note = InitialPaymentNote
			}
			installment = &models.Installment{
				Amount:       input.InitialAmount,
				DateTransact: time.Now(),
				Remaining:    transaction.Remaining,
				ServiceName:  service.ServiceName,
				Note:         note,
			}
		}
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.transactions.WithTx(tx).Create(ctx, transaction); err != nil {
			return err
		}
		if installment != nil {
			installment.TransactionID = transaction.ID
			return s.installments.WithTx(tx).Create(ctx, installment)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	s.invalidate(ctx, transaction.ID, transaction.PatientID)
	return transaction, installment, nil
}

// AddInstallment applies one payment event to an open transaction. The
// amount must satisfy 0 < amount <= remaining against a fresh read taken
// under the transaction's lock; on rejection nothing is written.
func (s *LedgerService) AddInstallment(ctx context.Context, transactionID string, amount decimal.Decimal, note string) (*models.Transaction, *models.Installment, error) {
	var transaction *models.Transaction
	var installment *models.Installment

	err := database.WithLock(ctx, lockKey(transactionID), func() error {
		return s.db.Transaction(func(tx *gorm.DB) error {
			fresh, err := s.transactions.WithTx(tx).GetByID(ctx, transactionID)
			if err != nil {
				return err
			}

			remaining := fresh.TotalAmount.Sub(fresh.Paid)
			if amount.Sign() <= 0 || amount.GreaterThan(remaining) {
				return ErrAmountOutOfRange
			}

			newPaid := fresh.Paid.Add(amount)
			newRemaining := flooredRemaining(fresh.TotalAmount, newPaid)

			installment = &models.Installment{
				TransactionID: fresh.ID,
				Amount:        amount,
				DateTransact:  time.Now(),
				Remaining:     newRemaining,
				ServiceName:   fresh.ServiceName,
				Note:          note,
			}
			if err := s.installments.WithTx(tx).Create(ctx, installment); err != nil {
				return err
			}

			fresh.Paid = newPaid
			fresh.Remaining = newRemaining
			fresh.Status = statusFor(fresh.PaymentType, newRemaining)
			if err := s.transactions.WithTx(tx).Update(ctx, fresh); err != nil {
				return err
			}
			transaction = fresh
			return nil
		})
	})
	if err != nil {
		return nil, nil, err
	}

	s.invalidate(ctx, transactionID, transaction.PatientID)
	return transaction, installment, nil
}

// RemoveInstallment deletes one payment event and recomputes the parent
// transaction's cached fields from the surviving history, in the same
// database transaction. A missing parent just means the installment was
// already orphaned; removing it is then the whole job.
func (s *LedgerService) RemoveInstallment(ctx context.Context, installmentID string) error {
	installment, err := s.installments.GetByID(ctx, installmentID)
	if err != nil {
		return err
	}
	transactionID := installment.TransactionID

	var patientID string
	err = database.WithLock(ctx, lockKey(transactionID), func() error {
		return s.db.Transaction(func(tx *gorm.DB) error {
			if err := s.installments.WithTx(tx).Delete(ctx, installmentID); err != nil {
				return err
			}

			fresh, err := s.transactions.WithTx(tx).GetByID(ctx, transactionID)
			if errors.Is(err, repositories.ErrNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			patientID = fresh.PatientID

			paid, err := s.installments.WithTx(tx).SumByTransaction(ctx, transactionID)
			if err != nil {
				return err
			}
			fresh.Paid = paid
			fresh.Remaining = flooredRemaining(fresh.TotalAmount, paid)
			fresh.Status = statusFor(fresh.PaymentType, fresh.Remaining)
			return s.transactions.WithTx(tx).Update(ctx, fresh)
		})
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, transactionID, patientID)
	return nil
}

// RemoveTransaction deletes the transaction together with its installment
// history, so reporting deletes never orphan payment rows.
func (s *LedgerService) RemoveTransaction(ctx context.Context, transactionID string) error {
	var patientID string
	err := database.WithLock(ctx, lockKey(transactionID), func() error {
		return s.db.Transaction(func(tx *gorm.DB) error {
			fresh, err := s.transactions.WithTx(tx).GetByID(ctx, transactionID)
			if err != nil {
				return err
			}
			patientID = fresh.PatientID

			if err := s.installments.WithTx(tx).DeleteByTransaction(ctx, transactionID); err != nil {
				return err
			}
			return s.transactions.WithTx(tx).Delete(ctx, transactionID)
		})
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, transactionID, patientID)
	return nil
}

// GetTransaction reads a transaction and, for installment plans, verifies
// the cached paid total against the live installment sum. A divergence
// (a crash between the two ledger writes, or a lost update from the old
// last-writer-wins days) is repaired in place before the record is
// returned.
func (s *LedgerService) GetTransaction(ctx context.Context, transactionID string) (*models.Transaction, error) {
	transaction, err := s.transactions.GetByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if transaction.PaymentType != models.PaymentTypeInstallment {
		return transaction, nil
	}

	derived, err := s.installments.SumByTransaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if derived.Equal(transaction.Paid) {
		return transaction, nil
	}

	err = database.WithLock(ctx, lockKey(transactionID), func() error {
		return s.db.Transaction(func(tx *gorm.DB) error {
			fresh, err := s.transactions.WithTx(tx).GetByID(ctx, transactionID)
			if err != nil {
				return err
			}
			paid, err := s.installments.WithTx(tx).SumByTransaction(ctx, transactionID)
			if err != nil {
				return err
			}
			fresh.Paid = paid
			fresh.Remaining = flooredRemaining(fresh.TotalAmount, paid)
			fresh.Status = statusFor(fresh.PaymentType, fresh.Remaining)
			if err := s.transactions.WithTx(tx).Update(ctx, fresh); err != nil {
				return err
			}
			transaction = fresh
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, transactionID, transaction.PatientID)
	return transaction, nil
}

// ListPatientTransactions returns the patient's transactions newest first
// with the paid/remaining roll-up shown on the payment screen.
func (s *LedgerService) ListPatientTransactions(ctx context.Context, patientID string) ([]models.Transaction, PatientLedgerSummary, error) {
	transactions, err := s.transactions.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, PatientLedgerSummary{}, err
	}

	summary := PatientLedgerSummary{
		TotalPaid:      decimal.Zero,
		TotalRemaining: decimal.Zero,
		Count:          len(transactions),
	}
	for _, t := range transactions {
		summary.TotalPaid = summary.TotalPaid.Add(t.Paid)
		summary.TotalRemaining = summary.TotalRemaining.Add(t.Remaining)
	}
	return transactions, summary, nil
}

// ListInstallments returns a transaction's payment history newest first.
func (s *LedgerService) ListInstallments(ctx context.Context, transactionID string) ([]models.Installment, error) {
	if _, err := s.transactions.GetByID(ctx, transactionID); err != nil {
		return nil, err
	}
	return s.installments.ListByTransaction(ctx, transactionID)
}

func (s *LedgerService) invalidate(ctx context.Context, transactionID, patientID string) {
	if err := s.transactions.InvalidateCache(ctx, transactionID, patientID); err != nil {
		logCacheError(err)
	}
	if err := s.installments.InvalidateCache(ctx, transactionID); err != nil {
		logCacheError(err)
	}
}

func lockKey(transactionID string) string {
	return fmt.Sprintf("transaction_lock:%s", transactionID)
}

// flooredRemaining derives the balance, never letting it go negative.
func flooredRemaining(total, paid decimal.Decimal) decimal.Decimal {
	remaining := total.Sub(paid)
	if remaining.Sign() < 0 {
		return decimal.Zero
	}
	return remaining
}

// statusFor derives the status from the balance: settled transactions are
// paid; an open balance is ongoing on the installment path and unpaid on
// the full-payment path.
func statusFor(paymentType string, remaining decimal.Decimal) string {
	if remaining.Sign() <= 0 {
		return models.StatusPaid
	}
	if paymentType == models.PaymentTypeInstallment {
		return models.StatusOngoing
	}
	return models.StatusUnpaid
}
