package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stormline/roofcrm/internal/application/service"
	"github.com/stormline/roofcrm/internal/domain/deal"
	"github.com/stormline/roofcrm/internal/domain/entity"
)

type testLogger struct{}

func (testLogger) Info(msg string, keysAndValues ...interface{})  {}
func (testLogger) Error(msg string, keysAndValues ...interface{}) {}

// stubDealService satisfies service.DealService with canned responses
type stubDealService struct {
	getFunc      func(ctx context.Context, id int64) (*entity.Deal, error)
	advanceFunc  func(ctx context.Context, id int64, actor string) (*entity.Deal, error)
	statusOfFunc func(ctx context.Context, id int64) (*service.StatusReport, error)
}

func (s *stubDealService) Create(ctx context.Context, in service.CreateDealInput) (*entity.Deal, error) {
	return &entity.Deal{ID: 1, CustomerID: in.CustomerID, RepID: in.RepID, Status: "lead"}, nil
}

func (s *stubDealService) Get(ctx context.Context, id int64) (*entity.Deal, error) {
	if s.getFunc != nil {
		return s.getFunc(ctx, id)
	}
	return &entity.Deal{ID: id, Status: "lead"}, nil
}

func (s *stubDealService) GetByPublicID(ctx context.Context, publicID string) (*entity.Deal, error) {
	return &entity.Deal{ID: 1, PublicID: publicID, Status: "lead"}, nil
}

func (s *stubDealService) List(ctx context.Context, limit, offset int) ([]*entity.Deal, error) {
	return []*entity.Deal{}, nil
}

func (s *stubDealService) ListByStatus(ctx context.Context, status string, limit, offset int) ([]*entity.Deal, error) {
	return []*entity.Deal{}, nil
}

func (s *stubDealService) UpdateFields(ctx context.Context, id int64, patch service.DealPatch, actor string) (*entity.Deal, error) {
	return &entity.Deal{ID: id, Status: "lead"}, nil
}

func (s *stubDealService) Advance(ctx context.Context, id int64, actor string) (*entity.Deal, error) {
	if s.advanceFunc != nil {
		return s.advanceFunc(ctx, id, actor)
	}
	return &entity.Deal{ID: id, Status: "inspection_scheduled"}, nil
}

func (s *stubDealService) Revert(ctx context.Context, id int64, actor string) (*entity.Deal, error) {
	return &entity.Deal{ID: id, Status: "lead"}, nil
}

func (s *stubDealService) OverrideStatus(ctx context.Context, id int64, status deal.Status, actor string) (*entity.Deal, error) {
	return &entity.Deal{ID: id, Status: status.String()}, nil
}

func (s *stubDealService) StatusOf(ctx context.Context, id int64) (*service.StatusReport, error) {
	if s.statusOfFunc != nil {
		return s.statusOfFunc(ctx, id)
	}
	return &service.StatusReport{Stored: deal.StatusLead, Derived: deal.StatusLead}, nil
}

func (s *stubDealService) History(ctx context.Context, id int64) ([]*entity.StatusHistory, error) {
	return []*entity.StatusHistory{}, nil
}

func newTestServer(deals service.DealService) *Server {
	return NewServer(DefaultServerConfig(), deals, nil, nil, nil, testLogger{})
}

func doRequest(t *testing.T, srv *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHealthCheck(t *testing.T) {
	srv := newTestServer(&stubDealService{})

	w := doRequest(t, srv, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
}

func TestGetDeal_InvalidIDFallsBackToPublicID(t *testing.T) {
	srv := newTestServer(&stubDealService{})

	w := doRequest(t, srv, http.MethodGet, "/api/deals/3f2c9a64", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
}

func TestGetDeal_NotFound(t *testing.T) {
	deals := &stubDealService{
		getFunc: func(ctx context.Context, id int64) (*entity.Deal, error) {
			return nil, service.ErrDealNotFound
		},
	}
	srv := newTestServer(deals)

	w := doRequest(t, srv, http.MethodGet, "/api/deals/42", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	resp := decodeResponse(t, w)
	assert.False(t, resp.Success)
}

func TestAdvanceDeal_RequirementsConflict(t *testing.T) {
	deals := &stubDealService{
		advanceFunc: func(ctx context.Context, id int64, actor string) (*entity.Deal, error) {
			return nil, &service.RequirementsError{Missing: []string{"inspection_images"}}
		},
	}
	srv := newTestServer(deals)

	w := doRequest(t, srv, http.MethodPost, "/api/deals/1/advance", nil)

	assert.Equal(t, http.StatusConflict, w.Code)
	resp := decodeResponse(t, w)
	assert.Contains(t, resp.Error, "inspection_images")
}

func TestOverrideDealStatus(t *testing.T) {
	srv := newTestServer(&stubDealService{})

	w := doRequest(t, srv, http.MethodPut, "/api/deals/1/status", OverrideStatusRequest{Status: "on_hold"})

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestInsuranceSplit(t *testing.T) {
	srv := newTestServer(&stubDealService{})

	w := doRequest(t, srv, http.MethodPost, "/api/estimates/insurance-split", InsuranceSplitRequest{
		RCV:                 10000,
		DepreciationPercent: 30,
		Deductible:          1000,
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool                `json:"success"`
		Data    deal.InsuranceSplit `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3000.0, resp.Data.Depreciation)
	assert.Equal(t, 7000.0, resp.Data.ACV)
	assert.Equal(t, 6000.0, resp.Data.FirstCheck)
	assert.Equal(t, 3000.0, resp.Data.SecondCheck)
}

func TestInsuranceSplit_BadPercent(t *testing.T) {
	srv := newTestServer(&stubDealService{})

	w := doRequest(t, srv, http.MethodPost, "/api/estimates/insurance-split", InsuranceSplitRequest{
		RCV:                 10000,
		DepreciationPercent: 130,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWasteEstimate(t *testing.T) {
	srv := newTestServer(&stubDealService{})

	w := doRequest(t, srv, http.MethodPost, "/api/estimates/waste", WasteEstimateRequest{
		MeasuredSquares: 30,
		RoofType:        "hip",
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data WasteEstimateResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 4.5, resp.Data.WasteSquares)
	assert.Equal(t, 34.5, resp.Data.TotalSquares)
}

func TestWasteEstimate_UnknownRoofType(t *testing.T) {
	srv := newTestServer(&stubDealService{})

	w := doRequest(t, srv, http.MethodPost, "/api/estimates/waste", WasteEstimateRequest{
		MeasuredSquares: 30,
		RoofType:        "flat",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
