package http

import (
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stormline/roofcrm/internal/application/service"
	"github.com/stormline/roofcrm/internal/domain/deal"
)

// GenerateContract handles POST /api/deals/:id/documents/contract
func (h *Handlers) GenerateContract(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	doc, err := h.documentService.GenerateContract(c.Request.Context(), id, h.actor(c))
	if err != nil {
		h.serviceError(c, err, "failed to generate contract")
		return
	}

	c.JSON(http.StatusCreated, Response{Success: true, Data: doc})
}

// GenerateInvoice handles POST /api/deals/:id/documents/invoice
func (h *Handlers) GenerateInvoice(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	doc, err := h.documentService.GenerateInvoice(c.Request.Context(), id, h.actor(c))
	if err != nil {
		h.serviceError(c, err, "failed to generate invoice")
		return
	}

	c.JSON(http.StatusCreated, Response{Success: true, Data: doc})
}

// ListDocuments handles GET /api/deals/:id/documents
func (h *Handlers) ListDocuments(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	docs, err := h.documentService.ListForDeal(c.Request.Context(), id)
	if err != nil {
		h.serviceError(c, err, "failed to list documents")
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: docs})
}

// RecordCommission handles POST /api/deals/:id/commission
func (h *Handlers) RecordCommission(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	var in service.RecordCommissionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	commission, err := h.commissionService.Record(c.Request.Context(), id, in)
	if err != nil {
		h.serviceError(c, err, "failed to record commission")
		return
	}

	c.JSON(http.StatusCreated, Response{Success: true, Data: commission})
}

// GetCommission handles GET /api/deals/:id/commission
func (h *Handlers) GetCommission(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	commission, err := h.commissionService.GetForDeal(c.Request.Context(), id)
	if err != nil {
		h.serviceError(c, err, "failed to get commission")
		return
	}
	if commission == nil {
		c.JSON(http.StatusNotFound, Response{Success: false, Error: "no commission recorded for deal"})
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: commission})
}

// DateRangeRequest represents a from/to date window (inclusive from,
// exclusive to)
type DateRangeRequest struct {
	From string `form:"from" json:"from" binding:"required"`
	To   string `form:"to" json:"to" binding:"required"`
}

func (r *DateRangeRequest) parse() (time.Time, time.Time, error) {
	from, err := time.Parse("2006-01-02", r.From)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid from date: %w", err)
	}
	to, err := time.Parse("2006-01-02", r.To)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid to date: %w", err)
	}
	return from, to.AddDate(0, 0, 1), nil
}

// ListCommissions handles GET /api/commissions
func (h *Handlers) ListCommissions(c *gin.Context) {
	var req DateRangeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.badRequest(c, "from and to query parameters are required")
		return
	}
	from, to, err := req.parse()
	if err != nil {
		h.badRequest(c, err.Error())
		return
	}

	commissions, err := h.commissionService.ListBetween(c.Request.Context(), from, to)
	if err != nil {
		h.serviceError(c, err, "failed to list commissions")
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: commissions})
}

// ExportResponse represents the commission export result
type ExportResponse struct {
	Path string `json:"path"`
	Rows int    `json:"rows"`
}

// ExportCommissions handles POST /api/commissions/export
func (h *Handlers) ExportCommissions(c *gin.Context) {
	var req DateRangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}
	from, to, err := req.parse()
	if err != nil {
		h.badRequest(c, err.Error())
		return
	}

	path := filepath.Join(h.reportsDir, fmt.Sprintf("commissions_%s_%s.xlsx", req.From, req.To))
	rows, err := h.commissionService.Export(c.Request.Context(), from, to, path)
	if err != nil {
		h.serviceError(c, err, "failed to export commissions")
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: ExportResponse{Path: path, Rows: rows}})
}

// InsuranceSplitRequest carries the claim figures for a split estimate
type InsuranceSplitRequest struct {
	RCV                 float64 `json:"rcv"`
	DepreciationPercent float64 `json:"depreciation_percent"`
	Deductible          float64 `json:"deductible"`
}

// InsuranceSplit handles POST /api/estimates/insurance-split
func (h *Handlers) InsuranceSplit(c *gin.Context) {
	var req InsuranceSplitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	split, err := deal.SplitInsurance(req.RCV, req.DepreciationPercent, req.Deductible)
	if err != nil {
		h.serviceError(c, err, "failed to compute insurance split")
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: split})
}

// WasteEstimateRequest carries the measured squares and roof type
type WasteEstimateRequest struct {
	MeasuredSquares float64 `json:"measured_squares"`
	RoofType        string  `json:"roof_type"`
}

// WasteEstimateResponse represents a material order estimate
type WasteEstimateResponse struct {
	MeasuredSquares float64 `json:"measured_squares"`
	RoofType        string  `json:"roof_type"`
	WasteSquares    float64 `json:"waste_squares"`
	TotalSquares    float64 `json:"total_squares"`
}

// WasteEstimate handles POST /api/estimates/waste
func (h *Handlers) WasteEstimate(c *gin.Context) {
	var req WasteEstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	waste, err := deal.Waste(req.MeasuredSquares, deal.RoofType(req.RoofType))
	if err != nil {
		h.serviceError(c, err, "failed to compute waste")
		return
	}
	total, err := deal.TotalSquares(req.MeasuredSquares, deal.RoofType(req.RoofType))
	if err != nil {
		h.serviceError(c, err, "failed to compute total squares")
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: WasteEstimateResponse{
			MeasuredSquares: req.MeasuredSquares,
			RoofType:        req.RoofType,
			WasteSquares:    waste,
			TotalSquares:    total,
		},
	})
}
