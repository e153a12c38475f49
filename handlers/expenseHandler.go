package handlers

import (
	"DentServe/models"
	"DentServe/services"
	"DentServe/utils"

	"github.com/gin-gonic/gin"
)

type ExpenseHandler struct {
	service *services.ExpenseService
}

func NewExpenseHandler(service *services.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{service: service}
}

func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	var expense models.Expense
	if err := c.ShouldBindJSON(&expense); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateExpense(expense); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	if err := h.service.Create(c, &expense); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(201, expense)
}

func (h *ExpenseHandler) GetAllExpenses(c *gin.Context) {
	expenses, err := h.service.GetAll(c)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, expenses)
}

func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
	var expense models.Expense
	if err := c.ShouldBindJSON(&expense); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	expense.ID = c.Param("id")
	if err := utils.ValidateExpense(expense); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	if err := h.service.Update(c, &expense); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, expense)
}

func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	if err := h.service.Delete(c, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(204, gin.H{"message": "Expense deleted"})
}
