package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stormline/roofcrm/internal/application/service"
	"github.com/stormline/roofcrm/internal/domain/deal"
	"github.com/stormline/roofcrm/internal/domain/entity"
)

// Handlers contains all HTTP request handlers
type Handlers struct {
	dealService       service.DealService
	customerService   service.CustomerService
	documentService   service.DocumentService
	commissionService service.CommissionService
	reportsDir        string
	logger            Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	dealService service.DealService,
	customerService service.CustomerService,
	documentService service.DocumentService,
	commissionService service.CommissionService,
	reportsDir string,
	logger Logger,
) *Handlers {
	return &Handlers{
		dealService:       dealService,
		customerService:   customerService,
		documentService:   documentService,
		commissionService: commissionService,
		reportsDir:        reportsDir,
		logger:            logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// ListRequest represents pagination query parameters
type ListRequest struct {
	Limit  int    `form:"limit"`
	Offset int    `form:"offset"`
	Status string `form:"status"`
}

func (r *ListRequest) normalize() {
	if r.Limit <= 0 || r.Limit > 100 {
		r.Limit = 20
	}
	if r.Offset < 0 {
		r.Offset = 0
	}
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   "1.0.0",
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    response,
	})
}

// CreateCustomer handles POST /api/customers
func (h *Handlers) CreateCustomer(c *gin.Context) {
	var customer entity.Customer
	if err := c.ShouldBindJSON(&customer); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	created, err := h.customerService.Create(c.Request.Context(), &customer)
	if err != nil {
		h.logger.Error("Failed to create customer", "error", err)
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, Response{Success: true, Data: created})
}

// ListCustomers handles GET /api/customers
func (h *Handlers) ListCustomers(c *gin.Context) {
	var req ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.badRequest(c, "invalid query parameters")
		return
	}
	req.normalize()

	customers, err := h.customerService.List(c.Request.Context(), req.Limit, req.Offset)
	if err != nil {
		h.serviceError(c, err, "failed to list customers")
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: customers})
}

// GetCustomer handles GET /api/customers/:id
func (h *Handlers) GetCustomer(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	customer, err := h.customerService.Get(c.Request.Context(), id)
	if err != nil {
		h.serviceError(c, err, "failed to get customer")
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: customer})
}

// CreateDeal handles POST /api/deals
func (h *Handlers) CreateDeal(c *gin.Context) {
	var in service.CreateDealInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	d, err := h.dealService.Create(c.Request.Context(), in)
	if err != nil {
		h.serviceError(c, err, "failed to create deal")
		return
	}

	c.JSON(http.StatusCreated, Response{Success: true, Data: d})
}

// ListDeals handles GET /api/deals
func (h *Handlers) ListDeals(c *gin.Context) {
	var req ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.badRequest(c, "invalid query parameters")
		return
	}
	req.normalize()

	var deals []*entity.Deal
	var err error
	if req.Status != "" {
		deals, err = h.dealService.ListByStatus(c.Request.Context(), req.Status, req.Limit, req.Offset)
	} else {
		deals, err = h.dealService.List(c.Request.Context(), req.Limit, req.Offset)
	}
	if err != nil {
		h.serviceError(c, err, "failed to list deals")
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: deals})
}

// GetDeal handles GET /api/deals/:id. The path segment may be the numeric
// ID or the public UUID.
func (h *Handlers) GetDeal(c *gin.Context) {
	idStr := c.Param("id")

	var d *entity.Deal
	var err error
	if id, parseErr := strconv.ParseInt(idStr, 10, 64); parseErr == nil {
		d, err = h.dealService.Get(c.Request.Context(), id)
	} else {
		d, err = h.dealService.GetByPublicID(c.Request.Context(), idStr)
	}
	if err != nil {
		h.serviceError(c, err, "failed to get deal")
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: d})
}

// UpdateDeal handles PATCH /api/deals/:id
func (h *Handlers) UpdateDeal(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	var patch service.DealPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	d, err := h.dealService.UpdateFields(c.Request.Context(), id, patch, h.actor(c))
	if err != nil {
		h.serviceError(c, err, "failed to update deal")
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: d})
}

// GetDealStatus handles GET /api/deals/:id/status
func (h *Handlers) GetDealStatus(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	report, err := h.dealService.StatusOf(c.Request.Context(), id)
	if err != nil {
		h.serviceError(c, err, "failed to get deal status")
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: report})
}

// AdvanceDeal handles POST /api/deals/:id/advance
func (h *Handlers) AdvanceDeal(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	d, err := h.dealService.Advance(c.Request.Context(), id, h.actor(c))
	if err != nil {
		h.serviceError(c, err, "failed to advance deal")
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: d})
}

// RevertDeal handles POST /api/deals/:id/revert
func (h *Handlers) RevertDeal(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	d, err := h.dealService.Revert(c.Request.Context(), id, h.actor(c))
	if err != nil {
		h.serviceError(c, err, "failed to revert deal")
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: d})
}

// OverrideStatusRequest carries a manual status override
type OverrideStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// OverrideDealStatus handles PUT /api/deals/:id/status
func (h *Handlers) OverrideDealStatus(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	var req OverrideStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	d, err := h.dealService.OverrideStatus(c.Request.Context(), id, deal.Status(req.Status), h.actor(c))
	if err != nil {
		h.serviceError(c, err, "failed to override deal status")
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: d})
}

// GetDealHistory handles GET /api/deals/:id/history
func (h *Handlers) GetDealHistory(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	history, err := h.dealService.History(c.Request.Context(), id)
	if err != nil {
		h.serviceError(c, err, "failed to get deal history")
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: history})
}

// pathID parses the :id path parameter, writing the error response itself
func (h *Handlers) pathID(c *gin.Context) (int64, bool) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.logger.Error("Invalid ID", "id", idStr, "error", err)
		h.badRequest(c, "invalid ID")
		return 0, false
	}
	return id, true
}

// actor identifies who performed the request, for the audit trail
func (h *Handlers) actor(c *gin.Context) string {
	return c.GetHeader("X-Rep-ID")
}

func (h *Handlers) badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, Response{Success: false, Error: msg})
}

// serviceError maps service sentinel errors to HTTP status codes
func (h *Handlers) serviceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrDealNotFound),
		errors.Is(err, service.ErrCustomerNotFound):
		c.JSON(http.StatusNotFound, Response{Success: false, Error: err.Error()})
	case errors.Is(err, service.ErrRequirementsNotMet),
		errors.Is(err, service.ErrTerminalStatus),
		errors.Is(err, service.ErrEndOfWorkflow),
		errors.Is(err, service.ErrCommissionExists),
		errors.Is(err, service.ErrDealNotComplete):
		c.JSON(http.StatusConflict, Response{Success: false, Error: err.Error()})
	case errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidApprovalType),
		errors.Is(err, deal.ErrInvalidAmount),
		errors.Is(err, deal.ErrInvalidPercent),
		errors.Is(err, deal.ErrUnknownRoofType):
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
	default:
		h.logger.Error(fallback, "error", err)
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: fallback})
	}
}
