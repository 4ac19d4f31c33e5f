package table_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"restopos/infras/otel/mocks"
	"restopos/internal/domains/table/model/dto"
	serviceMocks "restopos/internal/domains/table/service/mocks"
	"restopos/internal/handlers/table"
	"restopos/shared/failure"
)

func newServer(t *testing.T) (*serviceMocks.MockTable, http.Handler) {
	t.Helper()

	svc := serviceMocks.NewMockTable(gomock.NewController(t))
	handler := table.New(svc, mocks.NewOtel())

	router := chi.NewRouter()
	handler.Router(router)

	return svc, router
}

func do(router http.Handler, method, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	var decoded map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &decoded)

	return rec, decoded
}

func TestHandler_CreateTable(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		setupMock func(svc *serviceMocks.MockTable)
		wantCode  int
		wantKind  string
	}{
		{
			name: "created",
			body: `{"table_number":"A1","capacity":4,"location":"indoor"}`,
			setupMock: func(svc *serviceMocks.MockTable) {
				svc.EXPECT().
					Create(gomock.Any(), dto.CreateTableRequest{TableNumber: "A1", Capacity: 4, Location: "indoor"}).
					Return(dto.TableResponse{ID: "t-1", TableNumber: "A1", Capacity: 4, Status: "available"}, nil)
			},
			wantCode: http.StatusCreated,
		},
		{
			name:     "capacity out of range",
			body:     `{"table_number":"A1","capacity":40}`,
			wantCode: http.StatusBadRequest,
			wantKind: "ValidationError",
		},
		{
			name:     "malformed json",
			body:     `{"table_number":`,
			wantCode: http.StatusBadRequest,
			wantKind: "ValidationError",
		},
		{
			name: "duplicate number",
			body: `{"table_number":"A1","capacity":4}`,
			setupMock: func(svc *serviceMocks.MockTable) {
				svc.EXPECT().Create(gomock.Any(), gomock.Any()).
					Return(dto.TableResponse{}, failure.Conflict("table number already exists", map[string]any{"table_number": "A1"}))
			},
			wantCode: http.StatusConflict,
			wantKind: "ConflictError",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, router := newServer(t)
			if tt.setupMock != nil {
				tt.setupMock(svc)
			}

			rec, body := do(router, http.MethodPost, "/tables", tt.body)

			assert.Equal(t, tt.wantCode, rec.Code)

			if tt.wantKind != "" {
				assert.Equal(t, tt.wantKind, body["kind"])

				return
			}

			assert.Equal(t, true, body["success"])
			data, ok := body["data"].(map[string]any)
			require.True(t, ok)
			assert.Equal(t, "A1", data["table_number"])
		})
	}
}

func TestHandler_GetTables(t *testing.T) {
	svc, router := newServer(t)

	svc.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), dto.TableFilter{Status: "available", Location: "outdoor", MinCapacity: 4}).
		Return(dto.GetTablesResponse{}, nil)

	rec, _ := do(router, http.MethodGet, "/tables?status=available&location=outdoor&min_capacity=4", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, body := do(router, http.MethodGet, "/tables?min_capacity=many", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, map[string]any{"field": "min_capacity"}, body["details"])
}

func TestHandler_UpdateTableStatus(t *testing.T) {
	svc, router := newServer(t)

	svc.EXPECT().
		UpdateStatus(gomock.Any(), "t-1", dto.UpdateTableStatusRequest{Status: "occupied", CustomerName: "Ann", PartySize: 6}).
		Return(dto.TableResponse{}, failure.Capacity("party size exceeds table capacity", map[string]any{"capacity": 4, "party_size": 6}))

	rec, body := do(router, http.MethodPut, "/tables/t-1/status", `{"status":"occupied","customer_name":"Ann","party_size":6}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "CapacityError", body["kind"])
	assert.Equal(t, map[string]any{"capacity": float64(4), "party_size": float64(6)}, body["details"])

	rec, _ = do(router, http.MethodPut, "/tables/t-1/status", `{"status":"closed"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_ReportMaintenanceAndDelete(t *testing.T) {
	svc, router := newServer(t)

	svc.EXPECT().ReportMaintenance(gomock.Any(), "t-1", dto.MaintenanceRequest{Issue: "wobbly leg"}).
		Return(dto.TableResponse{ID: "t-1", Status: "maintenance"}, nil)
	svc.EXPECT().Delete(gomock.Any(), "t-2").
		Return(failure.InvalidState("table is occupied", map[string]any{"status": "occupied"}))

	rec, body := do(router, http.MethodPost, "/tables/t-1/maintenance", `{"issue":"wobbly leg"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "maintenance", body["data"].(map[string]any)["status"])

	rec, _ = do(router, http.MethodPost, "/tables/t-1/maintenance", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, body = do(router, http.MethodDelete, "/tables/t-2", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "InvalidStateError", body["kind"])
}
