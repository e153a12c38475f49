package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment type of a transaction.
const (
	PaymentTypeFull        = "full"
	PaymentTypeInstallment = "installment"
)

// Transaction status values. The machine is monotonic:
// unpaid -> paid (full payment) or unpaid -> ongoing -> paid (installments).
const (
	StatusUnpaid  = "unpaid"
	StatusOngoing = "ongoing"
	StatusPaid    = "paid"
)

// Patient model
type Patient struct {
	ID               string    `gorm:"primaryKey;column:id" json:"id"`
	PatientName      string    `gorm:"column:patient_name;not null;index" json:"patient_name"`
	Gender           string    `gorm:"column:gender;check:gender IN ('Male', 'Female', 'Other')" json:"gender"`
	BirthDate        string    `gorm:"column:birth_date" json:"birth_date"`
	Address          string    `gorm:"column:address" json:"address"`
	Contact          string    `gorm:"column:contact" json:"contact"`
	EmergencyContact string    `gorm:"column:emergency_contact" json:"emergency_contact"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Patient) TableName() string {
	return "patient"
}

// Service is a catalog entry whose price seeds a transaction's total amount.
type Service struct {
	ID                 string          `gorm:"primaryKey;column:id" json:"id"`
	ServiceName        string          `gorm:"column:service_name;unique;not null" json:"service_name"`
	ServiceDescription string          `gorm:"column:service_description" json:"service_description"`
	ServicePrice       decimal.Decimal `gorm:"column:service_price;type:decimal(12,2);not null" json:"service_price"`
	CreatedAt          time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Service) TableName() string {
	return "service"
}

// Transaction is one billable service engagement and its running payment
// state. Paid, Remaining and Status are cached aggregates over the
// installment history; every write path recomputes them from a fresh read
// inside a locked database transaction, and reads repair them if they have
// drifted. Invariant: paid + remaining == total_amount, remaining >= 0.
type Transaction struct {
	ID          string          `gorm:"primaryKey;column:id" json:"id"`
	PatientID   string          `gorm:"column:patient_id;not null;index" json:"patient_id"`
	ServiceID   string          `gorm:"column:service_id;not null" json:"service_id"`
	ServiceName string          `gorm:"column:service_name;not null" json:"service_name"`
	TotalAmount decimal.Decimal `gorm:"column:total_amount;type:decimal(12,2);not null" json:"total_amount"`
	PaymentType string          `gorm:"column:payment_type;check:payment_type IN ('full', 'installment');not null" json:"payment_type"`
	Paid        decimal.Decimal `gorm:"column:paid;type:decimal(12,2);not null" json:"paid"`
	Remaining   decimal.Decimal `gorm:"column:remaining;type:decimal(12,2);not null" json:"remaining"`
	Status      string          `gorm:"column:status;check:status IN ('unpaid', 'ongoing', 'paid');not null;index" json:"status"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`
}

func (Transaction) TableName() string {
	return "transaction"
}

// Installment is one payment event applied against a transaction's balance.
// Rows are never mutated; Remaining is the parent's balance snapshot taken
// right after this payment landed.
type Installment struct {
	ID            string          `gorm:"primaryKey;column:id" json:"id"`
	TransactionID string          `gorm:"column:transaction_id;not null;index" json:"transaction_id"`
	Amount        decimal.Decimal `gorm:"column:amount;type:decimal(12,2);not null" json:"amount"`
	DateTransact  time.Time       `gorm:"column:date_transact;not null;index" json:"date_transact"`
	Remaining     decimal.Decimal `gorm:"column:remaining;type:decimal(12,2);not null" json:"remaining"`
	ServiceName   string          `gorm:"column:service_name" json:"service_name"`
	Note          string          `gorm:"column:note" json:"note"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Installment) TableName() string {
	return "installment"
}

// Expense model
type Expense struct {
	ID        string          `gorm:"primaryKey;column:id" json:"id"`
	Title     string          `gorm:"column:title;not null" json:"title"`
	Category  string          `gorm:"column:category" json:"category"`
	Amount    decimal.Decimal `gorm:"column:amount;type:decimal(12,2);not null" json:"amount"`
	DateSpent time.Time       `gorm:"column:date_spent;not null;index" json:"date_spent"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Expense) TableName() string {
	return "expense"
}
