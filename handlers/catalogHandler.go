package handlers

import (
	"DentServe/models"
	"DentServe/services"
	"DentServe/utils"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	service *services.CatalogService
}

func NewCatalogHandler(service *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

func (h *CatalogHandler) CreateService(c *gin.Context) {
	var service models.Service
	if err := c.ShouldBindJSON(&service); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateService(service); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	if err := h.service.Create(c, &service); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(201, service)
}

func (h *CatalogHandler) GetServiceByID(c *gin.Context) {
	service, err := h.service.GetByID(c, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, service)
}

func (h *CatalogHandler) GetAllServices(c *gin.Context) {
	services, err := h.service.GetAll(c)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, services)
}

func (h *CatalogHandler) UpdateService(c *gin.Context) {
	var service models.Service
	if err := c.ShouldBindJSON(&service); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	service.ID = c.Param("id")
	if err := utils.ValidateService(service); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	if err := h.service.Update(c, &service); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, service)
}

func (h *CatalogHandler) DeleteService(c *gin.Context) {
	if err := h.service.Delete(c, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(204, gin.H{"message": "Service deleted"})
}
