package handlers

import (
	"DentServe/models"
	"DentServe/services"
	"DentServe/utils"

	"github.com/gin-gonic/gin"
)

// SectionHandler serves the notes, medical history and treatment plan
// collections through one set of routes keyed by section name.
type SectionHandler struct {
	service *services.SectionService
}

func NewSectionHandler(service *services.SectionService) *SectionHandler {
	return &SectionHandler{service: service}
}

func (h *SectionHandler) CreateRecord(c *gin.Context) {
	var record models.SectionRecord
	if err := c.ShouldBindJSON(&record); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	record.PatientID = c.Param("patient_id")
	if err := utils.ValidateSectionRecord(record); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	if err := h.service.Create(c, c.Param("section"), &record); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(201, record)
}

func (h *SectionHandler) ListRecords(c *gin.Context) {
	records, err := h.service.ListByPatient(c, c.Param("section"), c.Param("patient_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, records)
}

func (h *SectionHandler) UpdateRecord(c *gin.Context) {
	var record models.SectionRecord
	if err := c.ShouldBindJSON(&record); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	record.ID = c.Param("record_id")
	record.PatientID = c.Param("patient_id")
	if err := utils.ValidateSectionRecord(record); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	if err := h.service.Update(c, c.Param("section"), &record); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, record)
}

func (h *SectionHandler) DeleteRecord(c *gin.Context) {
	if err := h.service.Delete(c, c.Param("section"), c.Param("record_id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(204, gin.H{"message": "Record deleted"})
}
