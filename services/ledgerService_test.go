package services

import (
	"DentServe/database"
	"DentServe/models"
	"DentServe/repositories"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type ledgerFixture struct {
	db           *gorm.DB
	transactions *repositories.TransactionRepository
	installments *repositories.InstallmentRepository
	catalog      *repositories.ServiceRepository
	expenses     *repositories.ExpenseRepository
	ledger       *LedgerService
	report       *ReportService
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	transactions := repositories.NewTransactionRepository(db, nil)
	installments := repositories.NewInstallmentRepository(db, nil)
	catalog := repositories.NewServiceRepository(db, nil)
	expenses := repositories.NewExpenseRepository(db, nil)
	ledger := NewLedgerService(db, transactions, installments, catalog)
	report := NewReportService(ledger, transactions, installments, expenses)

	return &ledgerFixture{
		db:           db,
		transactions: transactions,
		installments: installments,
		catalog:      catalog,
		expenses:     expenses,
		ledger:       ledger,
		report:       report,
	}
}

func (f *ledgerFixture) seedService(t *testing.T, name string, price int64) *models.Service {
	t.Helper()
	service := &models.Service{
		ServiceName:  name,
		ServicePrice: decimal.NewFromInt(price),
	}
	if err := f.catalog.Create(context.Background(), service); err != nil {
		t.Fatalf("failed to seed service %s: %v", name, err)
	}
	return service
}

func wantAmount(t *testing.T, label string, got decimal.Decimal, want int64) {
	t.Helper()
	if !got.Equal(decimal.NewFromInt(want)) {
		t.Fatalf("%s = %s, want %d", label, got.String(), want)
	}
}

func TestOpenTransactionFullPayment(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	service := f.seedService(t, "Root Canal", 1500)

	transaction, installment, err := f.ledger.OpenTransaction(ctx, OpenTransactionInput{
		PatientID:   "patient-1",
		ServiceID:   service.ID,
		PaymentType: models.PaymentTypeFull,
	})
	if err != nil {
		t.Fatalf("OpenTransaction failed: %v", err)
	}
	if installment != nil {
		t.Fatalf("full payment created an installment row: %+v", installment)
	}

	wantAmount(t, "paid", transaction.Paid, 1500)
	wantAmount(t, "remaining", transaction.Remaining, 0)
	if transaction.Status != models.StatusPaid {
		t.Fatalf("status = %q, want %q", transaction.Status, models.StatusPaid)
	}
	if transaction.ServiceName != "Root Canal" {
		t.Fatalf("service name = %q, want snapshot of catalog name", transaction.ServiceName)
	}

	history, err := f.ledger.ListInstallments(ctx, transaction.ID)
	if err != nil {
		t.Fatalf("ListInstallments failed: %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("expected empty history, got %d rows", len(history))
	}
}

func TestOpenTransactionInstallmentWithInitialPayment(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	service := f.seedService(t, "Braces", 1000)

	transaction, installment, err := f.ledger.OpenTransaction(ctx, OpenTransactionInput{
		PatientID:     "patient-1",
		ServiceID:     service.ID,
		PaymentType:   models.PaymentTypeInstallment,
		InitialAmount: decimal.NewFromInt(300),
	})
	if err != nil {
		t.Fatalf("OpenTransaction failed: %v", err)
	}

	wantAmount(t, "paid", transaction.Paid, 300)
	wantAmount(t, "remaining", transaction.Remaining, 700)
	if transaction.Status != models.StatusOngoing {
		t.Fatalf("status = %q, want %q", transaction.Status, models.StatusOngoing)
	}

	if installment == nil {
		t.Fatal("expected an initial installment row")
	}
	wantAmount(t, "installment amount", installment.Amount, 300)
	wantAmount(t, "installment remaining snapshot", installment.Remaining, 700)
	if installment.Note != InitialPaymentNote {
		t.Fatalf("note = %q, want %q", installment.Note, InitialPaymentNote)
	}
	if installment.TransactionID != transaction.ID {
		t.Fatal("installment not linked to its transaction")
	}
}

func TestOpenTransactionInstallmentWithoutUpfront(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	service := f.seedService(t, "Whitening", 400)

	transaction, installment, err := f.ledger.OpenTransaction(ctx, OpenTransactionInput{
		PatientID:   "patient-1",
		ServiceID:   service.ID,
		PaymentType: models.PaymentTypeInstallment,
	})
	if err != nil {
		t.Fatalf("OpenTransaction failed: %v", err)
	}
	if installment != nil {
		t.Fatal("zero upfront amount must not create an installment row")
	}
	wantAmount(t, "paid", transaction.Paid, 0)
	wantAmount(t, "remaining", transaction.Remaining, 400)
	if transaction.Status != models.StatusOngoing {
		t.Fatalf("status = %q, want %q", transaction.Status, models.StatusOngoing)
	}
}

func TestOpenTransactionRejectsBadInput(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	service := f.seedService(t, "Extraction", 1000)

	_, _, err := f.ledger.OpenTransaction(ctx, OpenTransactionInput{
		PatientID:     "patient-1",
		ServiceID:     service.ID,
		PaymentType:   models.PaymentTypeInstallment,
		InitialAmount: decimal.NewFromInt(1001),
	})
	if !errors.Is(err, ErrAmountOutOfRange) {
		t.Fatalf("initial amount above total: got %v, want ErrAmountOutOfRange", err)
	}

	_, _, err = f.ledger.OpenTransaction(ctx, OpenTransactionInput{
		PatientID:   "patient-1",
		ServiceID:   service.ID,
		PaymentType: "layaway",
	})
	if !errors.Is(err, ErrValidationRejected) {
		t.Fatalf("unknown payment type: got %v, want ErrValidationRejected", err)
	}

	_, _, err = f.ledger.OpenTransaction(ctx, OpenTransactionInput{
		PatientID:   "patient-1",
		ServiceID:   "no-such-service",
		PaymentType: models.PaymentTypeFull,
	})
	if !errors.Is(err, repositories.ErrNotFound) {
		t.Fatalf("unknown service: got %v, want ErrNotFound", err)
	}

	all, err := f.transactions.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("rejected requests persisted %d transactions", len(all))
	}
}

func TestAddInstallmentSettlesTransaction(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	service := f.seedService(t, "Braces", 1000)

	opened, _, err := f.ledger.OpenTransaction(ctx, OpenTransactionInput{
		PatientID:     "patient-1",
		ServiceID:     service.ID,
		PaymentType:   models.PaymentTypeInstallment,
		InitialAmount: decimal.NewFromInt(300),
	})
	if err != nil {
		t.Fatalf("OpenTransaction failed: %v", err)
	}

	transaction, installment, err := f.ledger.AddInstallment(ctx, opened.ID, decimal.NewFromInt(700), "final payment")
	if err != nil {
		t.Fatalf("AddInstallment failed: %v", err)
	}
	wantAmount(t, "paid", transaction.Paid, 1000)
	wantAmount(t, "remaining", transaction.Remaining, 0)
	if transaction.Status != models.StatusPaid {
		t.Fatalf("status = %q, want %q", transaction.Status, models.StatusPaid)
	}
	wantAmount(t, "installment remaining snapshot", installment.Remaining, 0)

	// Settled transactions accept no further payments
	_, _, err = f.ledger.AddInstallment(ctx, opened.ID, decimal.NewFromInt(1), "")
	if !errors.Is(err, ErrAmountOutOfRange) {
		t.Fatalf("payment against settled transaction: got %v, want ErrAmountOutOfRange", err)
	}
}

func TestAddInstallmentRejectionHasNoSideEffects(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	service := f.seedService(t, "Braces", 1000)

	opened, _, err := f.ledger.OpenTransaction(ctx, OpenTransactionInput{
		PatientID:     "patient-1",
		ServiceID:     service.ID,
		PaymentType:   models.PaymentTypeInstallment,
		InitialAmount: decimal.NewFromInt(300),
	})
	if err != nil {
		t.Fatalf("OpenTransaction failed: %v", err)
	}

	for _, amount := range []int64{-5, 0, 701} {
		_, _, err := f.ledger.AddInstallment(ctx, opened.ID, decimal.NewFromInt(amount), "")
		if !errors.Is(err, ErrAmountOutOfRange) {
			t.Fatalf("amount %d: got %v, want ErrAmountOutOfRange", amount, err)
		}
	}

	fresh, err := f.transactions.GetByID(ctx, opened.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	wantAmount(t, "paid after rejections", fresh.Paid, 300)
	wantAmount(t, "remaining after rejections", fresh.Remaining, 700)

	history, err := f.installments.ListByTransaction(ctx, opened.ID)
	if err != nil {
		t.Fatalf("ListByTransaction failed: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("rejected payments wrote installment rows: got %d, want 1", len(history))
	}
}

func TestAddInstallmentUnknownTransaction(t *testing.T) {
	f := newLedgerFixture(t)

	_, _, err := f.ledger.AddInstallment(context.Background(), "no-such-id", decimal.NewFromInt(10), "")
	if !errors.Is(err, repositories.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestRemoveInstallmentRecomputesParent(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	service := f.seedService(t, "Braces", 1000)

	opened, initial, err := f.ledger.OpenTransaction(ctx, OpenTransactionInput{
		PatientID:     "patient-1",
		ServiceID:     service.ID,
		PaymentType:   models.PaymentTypeInstallment,
		InitialAmount: decimal.NewFromInt(300),
	})
	if err != nil {
		t.Fatalf("OpenTransaction failed: %v", err)
	}
	_, second, err := f.ledger.AddInstallment(ctx, opened.ID, decimal.NewFromInt(200), "")
	if err != nil {
		t.Fatalf("AddInstallment failed: %v", err)
	}

	if err := f.ledger.RemoveInstallment(ctx, second.ID); err != nil {
		t.Fatalf("RemoveInstallment failed: %v", err)
	}
	fresh, err := f.transactions.GetByID(ctx, opened.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	wantAmount(t, "paid after removal", fresh.Paid, 300)
	wantAmount(t, "remaining after removal", fresh.Remaining, 700)
	if fresh.Status != models.StatusOngoing {
		t.Fatalf("status = %q, want %q", fresh.Status, models.StatusOngoing)
	}

	if err := f.ledger.RemoveInstallment(ctx, initial.ID); err != nil {
		t.Fatalf("RemoveInstallment failed: %v", err)
	}
	fresh, err = f.transactions.GetByID(ctx, opened.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	wantAmount(t, "paid with empty history", fresh.Paid, 0)
	wantAmount(t, "remaining with empty history", fresh.Remaining, 1000)
}

func TestRemoveTransactionCascades(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	service := f.seedService(t, "Braces", 1000)

	opened, _, err := f.ledger.OpenTransaction(ctx, OpenTransactionInput{
		PatientID:     "patient-1",
		ServiceID:     service.ID,
		PaymentType:   models.PaymentTypeInstallment,
		InitialAmount: decimal.NewFromInt(300),
	})
	if err != nil {
		t.Fatalf("OpenTransaction failed: %v", err)
	}
	if _, _, err := f.ledger.AddInstallment(ctx, opened.ID, decimal.NewFromInt(200), ""); err != nil {
		t.Fatalf("AddInstallment failed: %v", err)
	}

	if err := f.ledger.RemoveTransaction(ctx, opened.ID); err != nil {
		t.Fatalf("RemoveTransaction failed: %v", err)
	}

	if _, err := f.transactions.GetByID(ctx, opened.ID); !errors.Is(err, repositories.ErrNotFound) {
		t.Fatalf("transaction still readable after delete: %v", err)
	}
	orphans, err := f.installments.ListByTransaction(ctx, opened.ID)
	if err != nil {
		t.Fatalf("ListByTransaction failed: %v", err)
	}
	if len(orphans) != 0 {
		t.Fatalf("delete orphaned %d installment rows", len(orphans))
	}
}

func TestGetTransactionRepairsDrift(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	service := f.seedService(t, "Braces", 1000)

	opened, _, err := f.ledger.OpenTransaction(ctx, OpenTransactionInput{
		PatientID:     "patient-1",
		ServiceID:     service.ID,
		PaymentType:   models.PaymentTypeInstallment,
		InitialAmount: decimal.NewFromInt(300),
	})
	if err != nil {
		t.Fatalf("OpenTransaction failed: %v", err)
	}

	// Simulate a cached aggregate diverging from the installment history
	err = f.db.Model(&models.Transaction{}).
		Where("id = ?", opened.ID).
		Updates(map[string]interface{}{
			"paid":      decimal.NewFromInt(999),
			"remaining": decimal.NewFromInt(1),
			"status":    models.StatusOngoing,
		}).Error
	if err != nil {
		t.Fatalf("failed to corrupt transaction: %v", err)
	}

	repaired, err := f.ledger.GetTransaction(ctx, opened.ID)
	if err != nil {
		t.Fatalf("GetTransaction failed: %v", err)
	}
	wantAmount(t, "repaired paid", repaired.Paid, 300)
	wantAmount(t, "repaired remaining", repaired.Remaining, 700)
	if repaired.Status != models.StatusOngoing {
		t.Fatalf("status = %q, want %q", repaired.Status, models.StatusOngoing)
	}

	stored, err := f.transactions.GetByID(ctx, opened.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	wantAmount(t, "persisted paid", stored.Paid, 300)
}

func TestListPatientTransactionsSummary(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	cleaning := f.seedService(t, "Cleaning", 500)
	braces := f.seedService(t, "Braces", 1000)

	if _, _, err := f.ledger.OpenTransaction(ctx, OpenTransactionInput{
		PatientID:   "patient-1",
		ServiceID:   cleaning.ID,
		PaymentType: models.PaymentTypeFull,
	}); err != nil {
		t.Fatalf("OpenTransaction failed: %v", err)
	}
	if _, _, err := f.ledger.OpenTransaction(ctx, OpenTransactionInput{
		PatientID:     "patient-1",
		ServiceID:     braces.ID,
		PaymentType:   models.PaymentTypeInstallment,
		InitialAmount: decimal.NewFromInt(300),
	}); err != nil {
		t.Fatalf("OpenTransaction failed: %v", err)
	}
	if _, _, err := f.ledger.OpenTransaction(ctx, OpenTransactionInput{
		PatientID:   "patient-2",
		ServiceID:   cleaning.ID,
		PaymentType: models.PaymentTypeFull,
	}); err != nil {
		t.Fatalf("OpenTransaction failed: %v", err)
	}

	transactions, summary, err := f.ledger.ListPatientTransactions(ctx, "patient-1")
	if err != nil {
		t.Fatalf("ListPatientTransactions failed: %v", err)
	}
	if len(transactions) != 2 {
		t.Fatalf("got %d transactions, want 2", len(transactions))
	}
	if summary.Count != 2 {
		t.Fatalf("summary count = %d, want 2", summary.Count)
	}
	wantAmount(t, "total paid", summary.TotalPaid, 800)
	wantAmount(t, "total remaining", summary.TotalRemaining, 700)

	for _, transaction := range transactions {
		if !transaction.Paid.Add(transaction.Remaining).Equal(transaction.TotalAmount) {
			t.Fatalf("paid %s + remaining %s != total %s",
				transaction.Paid, transaction.Remaining, transaction.TotalAmount)
		}
	}
}

func TestListInstallmentsUnknownTransaction(t *testing.T) {
	f := newLedgerFixture(t)

	_, err := f.ledger.ListInstallments(context.Background(), "no-such-id")
	if !errors.Is(err, repositories.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}
