package services

import (
	"DentServe/models"
	"DentServe/repositories"
	"bytes"
	"context"
	"encoding/csv"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Feed entry types, as the reporting screen labels them.
const (
	FeedEntryFull        = "Full"
	FeedEntryInstallment = "Installment"
)

// FeedEntry is one payment event in the cross-patient reporting feed.
type FeedEntry struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	PatientID   string          `json:"patient_id"`
	ServiceName string          `json:"service_name"`
}

// PaymentSummary carries the derived aggregates under the feed.
type PaymentSummary struct {
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	TotalFull         decimal.Decimal `json:"total_full"`
	TotalInstallments decimal.Decimal `json:"total_installments"`
	TotalExpenses     decimal.Decimal `json:"total_expenses"`
	NetRevenue        decimal.Decimal `json:"net_revenue"`
}

// PaymentReport is the reporting screen's payload.
type PaymentReport struct {
	Entries []FeedEntry    `json:"entries"`
	Summary PaymentSummary `json:"summary"`
}

// ReportService builds the flat, date-filtered payment feed and routes
// administrative deletes back through the ledger so both sides of a
// transaction/installment pair stay consistent.
type ReportService struct {
	ledger       *LedgerService
	transactions *repositories.TransactionRepository
	installments *repositories.InstallmentRepository
	expenses     *repositories.ExpenseRepository
}

func NewReportService(
	ledger *LedgerService,
	transactions *repositories.TransactionRepository,
	installments *repositories.InstallmentRepository,
	expenses *repositories.ExpenseRepository,
) *ReportService {
	return &ReportService{
		ledger:       ledger,
		transactions: transactions,
		installments: installments,
		expenses:     expenses,
	}
}

// BuildPaymentFeed combines transactions and installments into one feed,
// newest first, bounded inclusively by the optional date range.
//
// Revenue here means cash collected: a full-payment transaction
// contributes one Full entry for its total, while an installment plan
// contributes only its installment rows. Summing the plan's total AND its
// payments would count the same money twice, which is exactly what the
// screen this replaces used to do.
func (s *ReportService) BuildPaymentFeed(ctx context.Context, from, to *time.Time) (*PaymentReport, error) {
	transactions, err := s.transactions.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	installments, err := s.installments.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	expenses, err := s.expenses.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	patientByTransaction := make(map[string]string, len(transactions))
	for _, t := range transactions {
		patientByTransaction[t.ID] = t.PatientID
	}

	entries := make([]FeedEntry, 0, len(transactions)+len(installments))
	for _, t := range transactions {
		if t.PaymentType != models.PaymentTypeFull {
			continue
		}
		entries = append(entries, FeedEntry{
			ID:          t.ID,
			Type:        FeedEntryFull,
			Amount:      t.TotalAmount,
			Date:        t.CreatedAt,
			PatientID:   t.PatientID,
			ServiceName: t.ServiceName,
		})
	}
	for _, i := range installments {
		entries = append(entries, FeedEntry{
			ID:          i.ID,
			Type:        FeedEntryInstallment,
			Amount:      i.Amount,
			Date:        i.DateTransact,
			PatientID:   patientByTransaction[i.TransactionID],
			ServiceName: i.ServiceName,
		})
	}

	filtered := entries[:0]
	for _, e := range entries {
		if inRange(e.Date, from, to) {
			filtered = append(filtered, e)
		}
	}
	entries = filtered

	sort.Slice(entries, func(a, b int) bool {
		if !entries[a].Date.Equal(entries[b].Date) {
			return entries[a].Date.After(entries[b].Date)
		}
		return entries[a].ID > entries[b].ID
	})

	summary := PaymentSummary{
		TotalRevenue:      decimal.Zero,
		TotalFull:         decimal.Zero,
		TotalInstallments: decimal.Zero,
		TotalExpenses:     decimal.Zero,
	}
	for _, e := range entries {
		summary.TotalRevenue = summary.TotalRevenue.Add(e.Amount)
		if e.Type == FeedEntryFull {
			summary.TotalFull = summary.TotalFull.Add(e.Amount)
		} else {
			summary.TotalInstallments = summary.TotalInstallments.Add(e.Amount)
		}
	}
	for _, expense := range expenses {
		if inRange(expense.DateSpent, from, to) {
			summary.TotalExpenses = summary.TotalExpenses.Add(expense.Amount)
		}
	}
	summary.NetRevenue = summary.TotalRevenue.Sub(summary.TotalExpenses)

	return &PaymentReport{Entries: entries, Summary: summary}, nil
}

// DeleteFeedEntry removes the record behind a feed entry. Transaction
// deletes cascade to their installments; installment deletes recompute the
// parent's balance.
func (s *ReportService) DeleteFeedEntry(ctx context.Context, id, entryType string) error {
	switch strings.ToLower(entryType) {
	case strings.ToLower(FeedEntryFull), "transaction":
		return s.ledger.RemoveTransaction(ctx, id)
	case strings.ToLower(FeedEntryInstallment):
		return s.ledger.RemoveInstallment(ctx, id)
	default:
		return errors.Wrapf(ErrValidationRejected, "unknown feed entry type %q", entryType)
	}
}

// ExportCSV renders the feed as a date/patient/type/amount table for
// download.
func (s *ReportService) ExportCSV(ctx context.Context, from, to *time.Time) ([]byte, error) {
	report, err := s.BuildPaymentFeed(ctx, from, to)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"Date", "Patient", "Type", "Amount"}); err != nil {
		return nil, err
	}
	for _, e := range report.Entries {
		record := []string{
			e.Date.Format("2006-01-02"),
			e.PatientID,
			e.Type,
			e.Amount.StringFixed(2),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func inRange(date time.Time, from, to *time.Time) bool {
	if from != nil && date.Before(*from) {
		return false
	}
	if to != nil && date.After(*to) {
		return false
	}
	return true
}
