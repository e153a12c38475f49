package handlers

import (
	"DentServe/models"
	"DentServe/services"
	"DentServe/utils"

	"github.com/gin-gonic/gin"
)

type PatientHandler struct {
	service *services.PatientService
}

func NewPatientHandler(service *services.PatientService) *PatientHandler {
	return &PatientHandler{service: service}
}

func (h *PatientHandler) CreatePatient(c *gin.Context) {
	var patient models.Patient
	if err := c.ShouldBindJSON(&patient); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidatePatient(patient); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	if err := h.service.Create(c, &patient); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(201, patient)
}

func (h *PatientHandler) GetPatientByID(c *gin.Context) {
	patient, err := h.service.GetByID(c, c.Param("patient_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, patient)
}

func (h *PatientHandler) GetAllPatients(c *gin.Context) {
	patients, err := h.service.GetAll(c)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, patients)
}

func (h *PatientHandler) UpdatePatient(c *gin.Context) {
	var patient models.Patient
	if err := c.ShouldBindJSON(&patient); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	patient.ID = c.Param("patient_id")
	if err := utils.ValidatePatient(patient); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	if err := h.service.Update(c, &patient); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, patient)
}

// DeletePatient refuses when dependent records exist; the client is
// expected to fall back to the /related route after confirmation.
func (h *PatientHandler) DeletePatient(c *gin.Context) {
	if err := h.service.Delete(c, c.Param("patient_id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(204, gin.H{"message": "Patient deleted"})
}

func (h *PatientHandler) DeletePatientAndRelated(c *gin.Context) {
	if err := h.service.DeleteWithRelated(c, c.Param("patient_id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(204, gin.H{"message": "Patient and related records deleted"})
}
