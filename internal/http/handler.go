package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/wessamh/edara-actions/internal/service"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	pdfContentType  = "application/pdf"
)

type Handler struct {
	actions *service.ActionService
	exports *service.ExportService
	log     zerolog.Logger
}

func NewHandler(actions *service.ActionService, exports *service.ExportService, log zerolog.Logger) *Handler {
	return &Handler{actions: actions, exports: exports, log: log}
}

func (h *Handler) Register(router *gin.Engine, apiKeyMiddleware, authMiddleware gin.HandlerFunc) {
	webhook := router.Group("/webhook")
	webhook.Use(apiKeyMiddleware)
	webhook.POST("/accounting-actions", h.runAction)

	exports := router.Group("/exports")
	exports.Use(authMiddleware)
	exports.GET("/units/:id/expenses.xlsx", h.exportUnitExpenses)
	exports.GET("/payrolls/:id.xlsx", h.exportPayroll)
	exports.GET("/invoices/:id/receipt.pdf", h.exportInvoiceReceipt)
}

func (h *Handler) runAction(c *gin.Context) {
	var env service.Envelope
	if err := c.ShouldBindJSON(&env); err != nil {
		c.JSON(http.StatusBadRequest, service.Response{
			Success: false,
			Error:   service.CodeInvalidPayload,
			Message: "malformed request body",
			Issues:  []string{err.Error()},
		})
		return
	}

	outcome := h.actions.Execute(c.Request.Context(), env)
	c.JSON(outcome.Status, outcome.Body)
}

func (h *Handler) exportUnitExpenses(c *gin.Context) {
	unitID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid unit id"})
		return
	}

	input := service.UnitExpensesInput{
		UnitID: unitID,
		Search: strings.TrimSpace(c.Query("search")),
	}
	if input.From, err = parseDateQuery(c.Query("from")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date"})
		return
	}
	if input.To, err = parseDateQuery(c.Query("to")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date"})
		return
	}

	file, err := h.exports.UnitExpensesWorkbook(c.Request.Context(), input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	writeAttachment(c, xlsxContentType, file)
}

func (h *Handler) exportPayroll(c *gin.Context) {
	payrollID, err := uuid.Parse(strings.TrimSuffix(c.Param("id"), ".xlsx"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payroll id"})
		return
	}

	file, err := h.exports.PayrollWorkbook(c.Request.Context(), payrollID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	writeAttachment(c, xlsxContentType, file)
}

func (h *Handler) exportInvoiceReceipt(c *gin.Context) {
	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid invoice id"})
		return
	}

	file, err := h.exports.InvoiceReceipt(c.Request.Context(), invoiceID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	writeAttachment(c, pdfContentType, file)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Msg("export failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func writeAttachment(c *gin.Context, contentType string, file *service.ExportFile) {
	c.Header("Content-Disposition", "attachment; filename=\""+file.FileName+"\"")
	c.Data(http.StatusOK, contentType, file.Content)
}

func parseDateQuery(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	layouts := []string{
		"2006-01-02",
		time.RFC3339,
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return &parsed, nil
		}
	}
	return nil, service.ErrInvalidInput
}
