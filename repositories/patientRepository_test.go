package repositories

import (
	"DentServe/models"
	"context"
	"testing"
	"time"

	stderrors "errors"
)

func newPatient(name string) *models.Patient {
	return &models.Patient{
		PatientName: name,
		Gender:      "Female",
		BirthDate:   "1990-04-12",
		Contact:     "0917-000-0000",
	}
}

func TestPatientRepositoryCreateRejectsDuplicate(t *testing.T) {
	repo := NewPatientRepository(openTestDB(t), nil)
	ctx := context.Background()

	if err := repo.Create(ctx, newPatient("Maria Santos")); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := repo.Create(ctx, newPatient("Maria Santos")); err == nil {
		t.Fatal("duplicate intake was accepted")
	}

	// Same name, different birth date is a different person
	other := newPatient("Maria Santos")
	other.BirthDate = "1984-09-30"
	if err := repo.Create(ctx, other); err != nil {
		t.Fatalf("Create failed for distinct patient: %v", err)
	}
}

func TestPatientRepositoryUpdate(t *testing.T) {
	repo := NewPatientRepository(openTestDB(t), nil)
	ctx := context.Background()

	patient := newPatient("Maria Santos")
	if err := repo.Create(ctx, patient); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	patient.Address = "123 Mabini St"
	if err := repo.Update(ctx, patient); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	stored, err := repo.GetByID(ctx, patient.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if stored.Address != "123 Mabini St" {
		t.Fatalf("address = %q, update not persisted", stored.Address)
	}

	missing := newPatient("Nobody")
	missing.ID = "no-such-id"
	if err := repo.Update(ctx, missing); !stderrors.Is(err, ErrNotFound) {
		t.Fatalf("update of missing patient: got %v, want ErrNotFound", err)
	}
}

func TestPatientRepositoryDeleteRefusesDependents(t *testing.T) {
	db := openTestDB(t)
	repo := NewPatientRepository(db, nil)
	transactions := NewTransactionRepository(db, nil)
	ctx := context.Background()

	patient := newPatient("Maria Santos")
	if err := repo.Create(ctx, patient); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := transactions.Create(ctx, newTransaction(patient.ID, 500, time.Time{})); err != nil {
		t.Fatalf("failed to seed transaction: %v", err)
	}

	if err := repo.Delete(ctx, patient.ID); !stderrors.Is(err, ErrHasDependents) {
		t.Fatalf("delete with dependents: got %v, want ErrHasDependents", err)
	}
	if _, err := repo.GetByID(ctx, patient.ID); err != nil {
		t.Fatalf("patient should survive the refused delete: %v", err)
	}
}

func TestPatientRepositoryDeletePatientAndRelated(t *testing.T) {
	db := openTestDB(t)
	repo := NewPatientRepository(db, nil)
	transactions := NewTransactionRepository(db, nil)
	installments := NewInstallmentRepository(db, nil)
	notes := NewSectionRepository(db, nil, models.Note{}.TableName(), "notes")
	ctx := context.Background()

	patient := newPatient("Maria Santos")
	if err := repo.Create(ctx, patient); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	transaction := newTransaction(patient.ID, 500, time.Time{})
	if err := transactions.Create(ctx, transaction); err != nil {
		t.Fatalf("failed to seed transaction: %v", err)
	}
	if err := installments.Create(ctx, newInstallment(transaction.ID, 200, time.Now())); err != nil {
		t.Fatalf("failed to seed installment: %v", err)
	}
	if err := notes.Create(ctx, &models.SectionRecord{
		PatientID: patient.ID,
		Title:     "Post-op check",
	}); err != nil {
		t.Fatalf("failed to seed note: %v", err)
	}

	if err := repo.DeletePatientAndRelated(ctx, patient.ID); err != nil {
		t.Fatalf("DeletePatientAndRelated failed: %v", err)
	}

	if _, err := repo.GetByID(ctx, patient.ID); !stderrors.Is(err, ErrNotFound) {
		t.Fatalf("patient still readable: %v", err)
	}
	if _, err := transactions.GetByID(ctx, transaction.ID); !stderrors.Is(err, ErrNotFound) {
		t.Fatalf("transaction still readable: %v", err)
	}
	sum, err := installments.SumByTransaction(ctx, transaction.ID)
	if err != nil {
		t.Fatalf("SumByTransaction failed: %v", err)
	}
	if !sum.IsZero() {
		t.Fatalf("installments survived the cascade, sum = %s", sum)
	}
	records, err := notes.ListByPatient(ctx, patient.ID)
	if err != nil {
		t.Fatalf("ListByPatient failed: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("notes survived the cascade: %d rows", len(records))
	}
}

func TestPatientRepositoryListNewestFirst(t *testing.T) {
	db := openTestDB(t)
	repo := NewPatientRepository(db, nil)
	ctx := context.Background()

	first := newPatient("Ana Cruz")
	first.CreatedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	second := newPatient("Ben Reyes")
	second.CreatedAt = time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	for _, patient := range []*models.Patient{first, second} {
		if err := repo.Create(ctx, patient); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	listed, err := repo.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("got %d patients, want 2", len(listed))
	}
	if listed[0].PatientName != "Ben Reyes" {
		t.Fatalf("newest patient should list first, got %q", listed[0].PatientName)
	}
}
