package utils

import (
	"DentServe/models"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
)

// ValidatePatient checks a patient intake or edit payload.
func ValidatePatient(patient models.Patient) error {
	return validation.ValidateStruct(&patient,
		validation.Field(&patient.PatientName, validation.Required, validation.Length(1, 120)),
		validation.Field(&patient.Gender, validation.In("Male", "Female", "Other")),
		validation.Field(&patient.Contact, validation.Length(0, 40)),
	)
}

// ValidateService checks a catalog entry; the price must be positive
// because it becomes a transaction's immutable total.
func ValidateService(service models.Service) error {
	return validation.ValidateStruct(&service,
		validation.Field(&service.ServiceName, validation.Required, validation.Length(1, 120)),
		validation.Field(&service.ServicePrice, validation.Required, validation.By(positiveAmount)),
	)
}

// ValidateExpense checks an expense payload.
func ValidateExpense(expense models.Expense) error {
	return validation.ValidateStruct(&expense,
		validation.Field(&expense.Title, validation.Required, validation.Length(1, 120)),
		validation.Field(&expense.Amount, validation.Required, validation.By(positiveAmount)),
	)
}

// ValidateSectionRecord checks a notes/medical history/treatment plan
// entry. Only the title is mandatory.
func ValidateSectionRecord(record models.SectionRecord) error {
	return validation.ValidateStruct(&record,
		validation.Field(&record.Title, validation.Required, validation.Length(1, 200)),
	)
}

func positiveAmount(value interface{}) error {
	amount, ok := value.(decimal.Decimal)
	if !ok || amount.Sign() <= 0 {
		return validation.NewError("validation_amount_positive", "must be a positive amount")
	}
	return nil
}
