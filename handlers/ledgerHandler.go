package handlers

import (
	"DentServe/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type LedgerHandler struct {
	service *services.LedgerService
}

func NewLedgerHandler(service *services.LedgerService) *LedgerHandler {
	return &LedgerHandler{service: service}
}

type openTransactionRequest struct {
	ServiceID     string          `json:"service_id"`
	PaymentType   string          `json:"payment_type"`
	InitialAmount decimal.Decimal `json:"initial_amount"`
	Note          string          `json:"note"`
}

type addInstallmentRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Note   string          `json:"note"`
}

// OpenTransaction handles POST /patients/:patient_id/transactions.
func (h *LedgerHandler) OpenTransaction(c *gin.Context) {
	var req openTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	transaction, installment, err := h.service.OpenTransaction(c, services.OpenTransactionInput{
		PatientID:     c.Param("patient_id"),
		ServiceID:     req.ServiceID,
		PaymentType:   req.PaymentType,
		InitialAmount: req.InitialAmount,
		Note:          req.Note,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(201, gin.H{"transaction": transaction, "installment": installment})
}

// ListPatientTransactions handles GET /patients/:patient_id/transactions.
func (h *LedgerHandler) ListPatientTransactions(c *gin.Context) {
	transactions, summary, err := h.service.ListPatientTransactions(c, c.Param("patient_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, gin.H{"transactions": transactions, "summary": summary})
}

// GetTransaction handles GET /transactions/:transaction_id.
func (h *LedgerHandler) GetTransaction(c *gin.Context) {
	transaction, err := h.service.GetTransaction(c, c.Param("transaction_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, transaction)
}

// DeleteTransaction handles DELETE /transactions/:transaction_id.
func (h *LedgerHandler) DeleteTransaction(c *gin.Context) {
	if err := h.service.RemoveTransaction(c, c.Param("transaction_id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(204, gin.H{"message": "Transaction deleted"})
}

// AddInstallment handles POST /transactions/:transaction_id/installments.
func (h *LedgerHandler) AddInstallment(c *gin.Context) {
	var req addInstallmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	transaction, installment, err := h.service.AddInstallment(c, c.Param("transaction_id"), req.Amount, req.Note)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(201, gin.H{"transaction": transaction, "installment": installment})
}

// ListInstallments handles GET /transactions/:transaction_id/installments.
func (h *LedgerHandler) ListInstallments(c *gin.Context) {
	installments, err := h.service.ListInstallments(c, c.Param("transaction_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, installments)
}

// DeleteInstallment handles DELETE /installments/:installment_id.
func (h *LedgerHandler) DeleteInstallment(c *gin.Context) {
	if err := h.service.RemoveInstallment(c, c.Param("installment_id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(204, gin.H{"message": "Installment deleted"})
}
