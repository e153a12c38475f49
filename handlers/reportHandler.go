package handlers

import (
	"DentServe/services"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	service *services.ReportService
}

func NewReportHandler(service *services.ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

// GetPaymentFeed handles GET /reports/payments?from=&to=. Bounds accept
// YYYY-MM-DD (the whole day is included) or RFC 3339 timestamps.
func (h *ReportHandler) GetPaymentFeed(c *gin.Context) {
	from, to, err := parseDateRange(c.Query("from"), c.Query("to"))
	if err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	report, err := h.service.BuildPaymentFeed(c, from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, report)
}

// DeleteFeedEntry handles DELETE /reports/payments/:type/:id.
func (h *ReportHandler) DeleteFeedEntry(c *gin.Context) {
	if err := h.service.DeleteFeedEntry(c, c.Param("id"), c.Param("type")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(204, gin.H{"message": "Payment record deleted"})
}

// ExportPaymentFeed handles GET /reports/payments/export?from=&to=.
func (h *ReportHandler) ExportPaymentFeed(c *gin.Context) {
	from, to, err := parseDateRange(c.Query("from"), c.Query("to"))
	if err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	payload, err := h.service.ExportCSV(c, from, to)
	if err != nil {
		respondError(c, err)
		return
	}

	filename := fmt.Sprintf("payments_%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(200, "text/csv", payload)
}

func parseDateRange(fromRaw, toRaw string) (*time.Time, *time.Time, error) {
	from, err := parseBound(fromRaw, false)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid from date: %w", err)
	}
	to, err := parseBound(toRaw, true)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid to date: %w", err)
	}
	return from, to, nil
}

// parseBound parses one optional range bound. Date-only upper bounds are
// stretched to the end of that day so the range stays inclusive.
func parseBound(raw string, upper bool) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	if upper {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
