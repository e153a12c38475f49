package controllers

import (
	"DentServe/handlers"

	"github.com/gin-gonic/gin"
)

// SetupClinicRoutes registers every clinic route on the router.
func SetupClinicRoutes(
	router *gin.Engine,
	patientHandler *handlers.PatientHandler,
	catalogHandler *handlers.CatalogHandler,
	ledgerHandler *handlers.LedgerHandler,
	reportHandler *handlers.ReportHandler,
	expenseHandler *handlers.ExpenseHandler,
	sectionHandler *handlers.SectionHandler,
) {
	router.POST("/patients", patientHandler.CreatePatient)
	router.GET("/patients", patientHandler.GetAllPatients)
	router.GET("/patients/:patient_id", patientHandler.GetPatientByID)
	router.PUT("/patients/:patient_id", patientHandler.UpdatePatient)
	router.DELETE("/patients/:patient_id", patientHandler.DeletePatient)
	router.DELETE("/patients/:patient_id/related", patientHandler.DeletePatientAndRelated)

	router.POST("/services", catalogHandler.CreateService)
	router.GET("/services", catalogHandler.GetAllServices)
	router.GET("/services/:id", catalogHandler.GetServiceByID)
	router.PUT("/services/:id", catalogHandler.UpdateService)
	router.DELETE("/services/:id", catalogHandler.DeleteService)

	router.POST("/patients/:patient_id/transactions", ledgerHandler.OpenTransaction)
	router.GET("/patients/:patient_id/transactions", ledgerHandler.ListPatientTransactions)
	router.GET("/transactions/:transaction_id", ledgerHandler.GetTransaction)
	router.DELETE("/transactions/:transaction_id", ledgerHandler.DeleteTransaction)
	router.POST("/transactions/:transaction_id/installments", ledgerHandler.AddInstallment)
	router.GET("/transactions/:transaction_id/installments", ledgerHandler.ListInstallments)
	router.DELETE("/installments/:installment_id", ledgerHandler.DeleteInstallment)

	router.GET("/reports/payments", reportHandler.GetPaymentFeed)
	router.GET("/reports/payments/export", reportHandler.ExportPaymentFeed)
	router.DELETE("/reports/payments/:type/:id", reportHandler.DeleteFeedEntry)

	router.POST("/expenses", expenseHandler.CreateExpense)
	router.GET("/expenses", expenseHandler.GetAllExpenses)
	router.PUT("/expenses/:id", expenseHandler.UpdateExpense)
	router.DELETE("/expenses/:id", expenseHandler.DeleteExpense)

	router.POST("/patients/:patient_id/sections/:section", sectionHandler.CreateRecord)
	router.GET("/patients/:patient_id/sections/:section", sectionHandler.ListRecords)
	router.PUT("/patients/:patient_id/sections/:section/:record_id", sectionHandler.UpdateRecord)
	router.DELETE("/patients/:patient_id/sections/:section/:record_id", sectionHandler.DeleteRecord)
}
