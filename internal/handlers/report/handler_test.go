package report_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"restopos/infras/otel/mocks"
	"restopos/internal/domains/report/model/dto"
	serviceMocks "restopos/internal/domains/report/service/mocks"
	"restopos/internal/handlers/report"
	"restopos/shared/failure"
)

func newServer(t *testing.T) (*serviceMocks.MockReport, http.Handler) {
	t.Helper()

	svc := serviceMocks.NewMockReport(gomock.NewController(t))
	handler := report.New(svc, mocks.NewOtel())

	router := chi.NewRouter()
	handler.Router(router)

	return svc, router
}

func get(router http.Handler, target string) (*httptest.ResponseRecorder, map[string]any) {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	var decoded map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &decoded)

	return rec, decoded
}

func TestHandler_GetSalesReport(t *testing.T) {
	tests := []struct {
		name      string
		target    string
		setupMock func(svc *serviceMocks.MockReport)
		wantCode  int
		wantField string
	}{
		{
			name:   "range and grouping",
			target: "/reports/sales?start_date=2026-03-01&end_date=2026-03-31&group_by=week",
			setupMock: func(svc *serviceMocks.MockReport) {
				svc.EXPECT().Sales(gomock.Any(), dto.RangeRequest{StartDate: "2026-03-01", EndDate: "2026-03-31", GroupBy: "week"}).
					Return(dto.SalesReport{GroupBy: "week", Summary: dto.SalesSummary{TotalOrders: 3, TotalRevenue: "90.00"}}, nil)
			},
			wantCode: http.StatusOK,
		},
		{
			name:   "no parameters",
			target: "/reports/sales",
			setupMock: func(svc *serviceMocks.MockReport) {
				svc.EXPECT().Sales(gomock.Any(), dto.RangeRequest{}).Return(dto.SalesReport{GroupBy: "day"}, nil)
			},
			wantCode: http.StatusOK,
		},
		{
			name:      "unknown grouping",
			target:    "/reports/sales?group_by=year",
			wantCode:  http.StatusBadRequest,
			wantField: "group_by",
		},
		{
			name:      "malformed date",
			target:    "/reports/sales?start_date=03/01/2026",
			wantCode:  http.StatusBadRequest,
			wantField: "start_date",
		},
		{
			name:   "reversed range",
			target: "/reports/sales?start_date=2026-03-09&end_date=2026-03-01",
			setupMock: func(svc *serviceMocks.MockReport) {
				svc.EXPECT().Sales(gomock.Any(), gomock.Any()).
					Return(dto.SalesReport{}, failure.Validation("start_date must not be after end_date", "start_date"))
			},
			wantCode:  http.StatusBadRequest,
			wantField: "start_date",
		},
		{
			name:   "database down",
			target: "/reports/sales",
			setupMock: func(svc *serviceMocks.MockReport) {
				svc.EXPECT().Sales(gomock.Any(), gomock.Any()).Return(dto.SalesReport{}, errors.New("failed to aggregate sales"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, router := newServer(t)
			if tt.setupMock != nil {
				tt.setupMock(svc)
			}

			rec, body := get(router, tt.target)

			assert.Equal(t, tt.wantCode, rec.Code)

			if tt.wantField != "" {
				assert.Equal(t, map[string]any{"field": tt.wantField}, body["details"])
			}
		})
	}
}

func TestHandler_GetInventoryReport(t *testing.T) {
	svc, router := newServer(t)

	svc.EXPECT().Inventory(gomock.Any()).Return(dto.InventoryReport{
		ExpiringWithinDays: 7,
		Summary:            dto.InventorySummary{TotalItems: 10, TotalValue: "60.50", LowStock: 3},
	}, nil)

	rec, body := get(router, "/reports/inventory")

	require.Equal(t, http.StatusOK, rec.Code)
	data := body["data"].(map[string]any)
	assert.EqualValues(t, 7, data["expiring_within_days"])
	assert.Equal(t, "60.50", data["summary"].(map[string]any)["total_value"])
}

func TestHandler_GetStaffReport(t *testing.T) {
	svc, router := newServer(t)

	svc.EXPECT().Staff(gomock.Any(), dto.RangeRequest{EndDate: "2026-03-31"}).
		DoAndReturn(func(_ context.Context, _ dto.RangeRequest) (dto.StaffReport, error) {
			return dto.StaffReport{TotalStaff: 4, ActiveStaff: 3}, nil
		})

	rec, body := get(router, "/reports/staff?end_date=2026-03-31")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 3, body["data"].(map[string]any)["active_staff"])
}

func TestHandler_GetMenuReport(t *testing.T) {
	svc, router := newServer(t)

	svc.EXPECT().Menu(gomock.Any(), dto.RangeRequest{}).Return(dto.MenuReport{
		Unsold: []dto.ItemStat{{MenuItemID: "m-4", Name: "Tart", Revenue: "0.00"}},
	}, nil)

	rec, body := get(router, "/reports/menu")

	require.Equal(t, http.StatusOK, rec.Code)
	unsold := body["data"].(map[string]any)["unsold"].([]any)
	require.Len(t, unsold, 1)
	assert.Equal(t, "Tart", unsold[0].(map[string]any)["name"])
}
