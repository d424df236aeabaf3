package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sjperalta/cobuy-api/internal/services"
	"github.com/sjperalta/cobuy-api/internal/storage"
)

type PlanHandler struct {
	paymentService *services.PaymentService
	exportService  *services.ExportService
}

func NewPlanHandler(paymentService *services.PaymentService, exportService *services.ExportService) *PlanHandler {
	return &PlanHandler{paymentService: paymentService, exportService: exportService}
}

// @Summary Plan Summary
// @Description Totals, overdue list, next due date and classified payments at as_of
// @Tags Plans
// @Produce json
// @Param plan_id path string true "Plan ID"
// @Param as_of query string false "Evaluation date (YYYY-MM-DD)"
// @Success 200 {object} billing.PlanSummary
// @Failure 404 {object} map[string]string
// @Router /plans/{plan_id} [get]
func (h *PlanHandler) Show(c *gin.Context) {
	now, ok := requestNow(c)
	if !ok {
		return
	}
	summary, err := h.paymentService.Summary(c.Request.Context(), c.Param("plan_id"), now)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plan": summary})
}

// @Summary Plan Schedule
// @Description Download the installment schedule as XLSX
// @Tags Plans
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param plan_id path string true "Plan ID"
// @Param as_of query string false "Evaluation date (YYYY-MM-DD)"
// @Success 200 {file} file "schedule"
// @Router /plans/{plan_id}/schedule.xlsx [get]
func (h *PlanHandler) Schedule(c *gin.Context) {
	now, ok := requestNow(c)
	if !ok {
		return
	}
	data, filename, err := h.exportService.ScheduleXLSX(c.Request.Context(), c.Param("plan_id"), now)
	if err != nil {
		respondError(c, err)
		return
	}
	attachment(c, filename, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// @Summary Plan Statement
// @Description Download the payment statement as PDF
// @Tags Plans
// @Produce application/pdf
// @Param plan_id path string true "Plan ID"
// @Param as_of query string false "Evaluation date (YYYY-MM-DD)"
// @Success 200 {file} file "statement"
// @Router /plans/{plan_id}/statement.pdf [get]
func (h *PlanHandler) Statement(c *gin.Context) {
	now, ok := requestNow(c)
	if !ok {
		return
	}
	data, filename, err := h.exportService.StatementPDF(c.Request.Context(), c.Param("plan_id"), now)
	if err != nil {
		respondError(c, err)
		return
	}
	attachment(c, filename, "application/pdf", data)
}

// @Summary Record Payment
// @Description Mark a pending installment as paid. The receipt file is optional.
// @Tags Plans
// @Accept multipart/form-data
// @Produce json
// @Param plan_id path string true "Plan ID"
// @Param payment_id path string true "Payment ID"
// @Param payment_method formData string false "Payment method"
// @Param receipt formData file false "Receipt (pdf, jpeg or png)"
// @Param as_of query string false "Payment date (YYYY-MM-DD)"
// @Success 200 {object} models.MonthlyPayment
// @Failure 403 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /plans/{plan_id}/payments/{payment_id}/pay [post]
func (h *PlanHandler) RecordPayment(c *gin.Context) {
	now, ok := requestNow(c)
	if !ok {
		return
	}

	in := services.RecordPaymentInput{
		PlanID:    c.Param("plan_id"),
		PaymentID: c.Param("payment_id"),
		Method:    c.PostForm("payment_method"),
	}

	if c.Request.ContentLength > storage.MaxFileSize() {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		return
	}
	file, header, err := c.Request.FormFile("receipt")
	if err == nil {
		defer file.Close()
		if !storage.IsValidContentType(header.Header.Get("Content-Type")) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid receipt type"})
			return
		}
		in.Receipt = file
		in.ReceiptName = header.Filename
	} else if err != http.ErrMissingFile && err != http.ErrNotMultipart {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payment, err := h.paymentService.RecordPayment(c.Request.Context(), currentActor(c), in, now)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment": payment})
}

// @Summary Append Installment
// @Description Schedule the next expected installment (Admin)
// @Tags Plans
// @Produce json
// @Param plan_id path string true "Plan ID"
// @Success 201 {object} models.MonthlyPayment
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /plans/{plan_id}/payments [post]
func (h *PlanHandler) AppendInstallment(c *gin.Context) {
	payment, err := h.paymentService.AppendNextInstallment(c.Request.Context(), currentActor(c), c.Param("plan_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"payment": payment})
}

// @Summary Cancel Plan
// @Tags Plans
// @Produce json
// @Param plan_id path string true "Plan ID"
// @Success 200 {object} models.InstallmentPlan
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /plans/{plan_id}/cancel [post]
func (h *PlanHandler) Cancel(c *gin.Context) {
	plan, err := h.paymentService.CancelPlan(c.Request.Context(), currentActor(c), c.Param("plan_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plan": plan})
}

// @Summary Download Receipt
// @Tags Plans
// @Produce application/octet-stream
// @Param plan_id path string true "Plan ID"
// @Param payment_id path string true "Payment ID"
// @Success 200 {file} file "receipt"
// @Security BearerAuth
// @Router /plans/{plan_id}/payments/{payment_id}/receipt [get]
func (h *PlanHandler) DownloadReceipt(c *gin.Context) {
	f, name, err := h.paymentService.OpenReceipt(c.Request.Context(), currentActor(c), c.Param("plan_id"), c.Param("payment_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.DataFromReader(http.StatusOK, info.Size(), "application/octet-stream", f, nil)
}

func attachment(c *gin.Context, filename, contentType string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, data)
}
