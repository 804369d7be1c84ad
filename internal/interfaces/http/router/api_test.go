package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	appcatalog "github.com/itemtrack/backend/internal/application/catalog"
	appidentity "github.com/itemtrack/backend/internal/application/identity"
	appinventory "github.com/itemtrack/backend/internal/application/inventory"
	"github.com/itemtrack/backend/internal/domain/identity"
	"github.com/itemtrack/backend/internal/infrastructure/auth"
	"github.com/itemtrack/backend/internal/infrastructure/config"
	"github.com/itemtrack/backend/internal/infrastructure/export"
	"github.com/itemtrack/backend/internal/infrastructure/persistence"
	"github.com/itemtrack/backend/internal/infrastructure/telemetry"
	"github.com/itemtrack/backend/internal/interfaces/http/handler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

type apiFixture struct {
	t        *testing.T
	engine   *gin.Engine
	jwt      *auth.JWTService
	tenantID uuid.UUID
	owner    *identity.User
	employee *identity.User
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	log := zaptest.NewLogger(t)

	database, err := persistence.NewDatabase(&config.DatabaseConfig{
		Driver:   "sqlite",
		Path:     ":memory:",
		LogLevel: "silent",
	}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	db := database.DB

	tenantRepo := persistence.NewGormTenantRepository(db)
	userRepo := persistence.NewGormUserRepository(db)
	tenants := appidentity.NewTenantService(tenantRepo, log)
	users := appidentity.NewUserService(userRepo, log)
	itemTypes := appcatalog.NewItemTypeService(persistence.NewGormItemTypeRepository(db), nil, log)
	items := appinventory.NewItemService(
		persistence.NewGormItemRepository(db),
		persistence.NewGormTransactionScope(db),
		itemTypes,
		users,
		appinventory.DefaultConfig(),
		log,
	)

	ctx := context.Background()
	tenant, err := identity.NewTenant("NORTH", "North Agency")
	require.NoError(t, err)
	require.NoError(t, tenantRepo.Save(ctx, tenant))
	owner, err := identity.NewUser(tenant.ID, "owner", "Owner", identity.RoleOwner)
	require.NoError(t, err)
	employee, err := identity.NewUser(tenant.ID, "field.rep", "Field Rep", identity.RoleEmployee)
	require.NoError(t, err)
	require.NoError(t, userRepo.Save(ctx, owner))
	require.NoError(t, userRepo.Save(ctx, employee))

	jwtService := auth.NewJWTService(config.JWTConfig{Secret: "test-secret", Issuer: "itemtrack"})
	metrics := telemetry.NewMetrics("")
	items.SetRecorder(metrics)

	engine, err := NewEngine(EngineConfig{
		Logger:      log,
		JWTService:  jwtService,
		Tenants:     tenants,
		Metrics:     metrics,
		MaxBodySize: 1 << 20,
	}, Handlers{
		Tenants:   handler.NewTenantHandler(tenants),
		Users:     handler.NewUserHandler(users),
		ItemTypes: handler.NewItemTypeHandler(itemTypes),
		Items:     handler.NewItemHandler(items),
		System: handler.NewSystemHandler("test", map[string]handler.HealthCheck{
			"database": database.Ping,
		}),
	})
	require.NoError(t, err)

	return &apiFixture{
		t:        t,
		engine:   engine,
		jwt:      jwtService,
		tenantID: tenant.ID,
		owner:    owner,
		employee: employee,
	}
}

func (f *apiFixture) token(tenantID, userID uuid.UUID, role identity.Role) string {
	f.t.Helper()
	tok, err := f.jwt.GenerateToken(auth.TokenInput{TenantID: tenantID, UserID: userID, Role: role, TTL: time.Minute})
	require.NoError(f.t, err)
	return tok
}

func (f *apiFixture) ownerToken() string {
	return f.token(f.tenantID, f.owner.ID, identity.RoleOwner)
}

func (f *apiFixture) employeeToken() string {
	return f.token(f.tenantID, f.employee.ID, identity.RoleEmployee)
}

func (f *apiFixture) adminToken() string {
	return f.token(uuid.Nil, uuid.New(), identity.RoleSuperAdmin)
}

type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code      string                 `json:"code"`
		Message   string                 `json:"message"`
		Details   map[string]interface{} `json:"details"`
		RequestID string                 `json:"request_id"`
	} `json:"error"`
	Meta *struct {
		Total int64 `json:"total"`
	} `json:"meta"`
}

func (f *apiFixture) do(method, path, token string, body interface{}, headers ...string) (*httptest.ResponseRecorder, apiResponse) {
	f.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(f.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)

	var resp apiResponse
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(f.t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	}
	return w, resp
}

func decode[T any](t *testing.T, resp apiResponse) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(resp.Data, &out))
	return out
}

func (f *apiFixture) createWidgetType() uuid.UUID {
	f.t.Helper()
	w, resp := f.do(http.MethodPost, "/api/v1/item-types", f.ownerToken(), map[string]interface{}{
		"name":      "Widget",
		"groupings": []map[string]interface{}{{"name": "Box", "units_per_group": 16, "weight_label": "2kg"}},
	})
	require.Equal(f.t, http.StatusCreated, w.Code, w.Body.String())
	return decode[appcatalog.ItemTypeResponse](f.t, resp).ID
}

func TestAPI_PublicEndpoints(t *testing.T) {
	f := newAPIFixture(t)

	t.Run("health needs no token", func(t *testing.T) {
		w, resp := f.do(http.MethodGet, "/api/v1/health", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		health := decode[handler.HealthResponse](t, resp)
		assert.Equal(t, "ok", health.Status)
		assert.Equal(t, "ok", health.Checks["database"])

		w, _ = f.do(http.MethodGet, "/health", "", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("metrics are exposed in text format", func(t *testing.T) {
		f.do(http.MethodGet, "/api/v1/items", "", nil)
		w, _ := f.do(http.MethodGet, "/metrics", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `itemtrack_http_requests_total{method="GET",route="/api/v1/items",status="401"} 1`)
	})

	t.Run("unknown routes return a JSON 404", func(t *testing.T) {
		w, resp := f.do(http.MethodGet, "/api/v1/nothing-here", f.ownerToken(), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "NOT_FOUND", resp.Error.Code)
	})
}

func TestAPI_Authentication(t *testing.T) {
	f := newAPIFixture(t)

	t.Run("missing token", func(t *testing.T) {
		w, resp := f.do(http.MethodGet, "/api/v1/items", "", nil, "X-Request-ID", "req-123")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "UNAUTHORIZED", resp.Error.Code)
		assert.Equal(t, "req-123", resp.Error.RequestID)
		assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		other := auth.NewJWTService(config.JWTConfig{Secret: "other", Issuer: "itemtrack"})
		tok, err := other.GenerateToken(auth.TokenInput{TenantID: f.tenantID, UserID: f.owner.ID, Role: identity.RoleOwner})
		require.NoError(t, err)

		w, resp := f.do(http.MethodGet, "/api/v1/items", tok, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "TOKEN_INVALID", resp.Error.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		claims := &auth.Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "itemtrack",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
				IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			},
			TenantID: f.tenantID.String(),
			UserID:   f.owner.ID.String(),
			Role:     identity.RoleOwner.String(),
		}
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
		require.NoError(t, err)

		w, resp := f.do(http.MethodGet, "/api/v1/items", tok, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "TOKEN_EXPIRED", resp.Error.Code)
	})

	t.Run("owners cannot pick another tenant", func(t *testing.T) {
		w, resp := f.do(http.MethodGet, "/api/v1/items", f.ownerToken(), nil, "X-Tenant-ID", uuid.NewString())
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "ACCESS_DENIED", resp.Error.Code)
	})
}

func TestAPI_StockLifecycle(t *testing.T) {
	f := newAPIFixture(t)
	typeID := f.createWidgetType()
	base := "/api/v1/item-types/" + typeID.String() + "/items"

	w, resp := f.do(http.MethodPost, base, f.ownerToken(), map[string]interface{}{"group_name": "box", "group_count": 3})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[appinventory.BulkResult](t, resp)
	assert.Equal(t, 48, created.Count)
	assert.Len(t, created.Sample, 20)

	w, resp = f.do(http.MethodPost, base+"/status", f.ownerToken(), map[string]interface{}{
		"quantity":       20,
		"current_status": "IN_INVENTORY",
		"target_status":  "WITH_EMPLOYEE",
		"holder_id":      f.employee.ID,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 20, decode[appinventory.BulkResult](t, resp).Count)

	t.Run("employee sells from their own stock", func(t *testing.T) {
		w, resp := f.do(http.MethodPost, base+"/status", f.employeeToken(), map[string]interface{}{
			"quantity":       5,
			"current_status": "WITH_EMPLOYEE",
			"target_status":  "SOLD",
			"sell_price":     "12.50",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		sold := decode[appinventory.BulkResult](t, resp)
		require.Len(t, sold.Sample, 5)
		assert.Equal(t, "12.5", sold.Sample[0].SellPrice.String())
	})

	t.Run("asking for more than is available changes nothing", func(t *testing.T) {
		w, resp := f.do(http.MethodPost, base+"/status", f.ownerToken(), map[string]interface{}{
			"quantity":       100,
			"current_status": "IN_INVENTORY",
			"target_status":  "WITH_EMPLOYEE",
			"holder_id":      f.employee.ID,
		})
		assert.Equal(t, http.StatusConflict, w.Code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "INSUFFICIENT_INVENTORY", resp.Error.Code)
		assert.Equal(t, float64(28), resp.Error.Details["available"])
		assert.Equal(t, float64(100), resp.Error.Details["requested"])
		assert.NotEmpty(t, resp.Error.RequestID)
	})

	t.Run("list filters by status", func(t *testing.T) {
		w, resp := f.do(http.MethodGet, "/api/v1/items?status=WITH_EMPLOYEE&page_size=5", f.ownerToken(), nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		require.NotNil(t, resp.Meta)
		assert.Equal(t, int64(15), resp.Meta.Total)
		assert.Len(t, decode[[]appinventory.ItemResponse](t, resp), 5)
	})

	t.Run("employees only see what they hold or sold", func(t *testing.T) {
		w, resp := f.do(http.MethodGet, "/api/v1/items?page_size=100", f.employeeToken(), nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, int64(20), resp.Meta.Total)
	})

	t.Run("single item lifecycle", func(t *testing.T) {
		_, resp := f.do(http.MethodGet, "/api/v1/items?status=WITH_EMPLOYEE&page_size=1", f.employeeToken(), nil)
		itemID := decode[[]appinventory.ItemResponse](t, resp)[0].ID
		path := "/api/v1/items/" + itemID.String()

		w, resp := f.do(http.MethodPatch, path+"/status", f.employeeToken(), map[string]interface{}{"target_status": "SOLD"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		detail := decode[appinventory.ItemDetailResponse](t, resp)
		assert.Equal(t, "SOLD", detail.Status)

		w, resp = f.do(http.MethodPatch, path+"/status", f.employeeToken(), map[string]interface{}{"target_status": "SOLD"})
		assert.Equal(t, http.StatusConflict, w.Code)
		require.NotNil(t, resp.Error)

		w, resp = f.do(http.MethodGet, path+"/history", f.ownerToken(), nil)
		require.Equal(t, http.StatusOK, w.Code)
		history := decode[[]appinventory.HistoryEntryResponse](t, resp)
		require.Len(t, history, 3)
		assert.Equal(t, "IN_INVENTORY", history[0].Status)
		assert.Equal(t, "SOLD", history[2].Status)

		w, _ = f.do(http.MethodGet, path, f.ownerToken(), nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("sold items cannot be deleted", func(t *testing.T) {
		w, resp := f.do(http.MethodPost, base+"/delete", f.ownerToken(), map[string]interface{}{
			"quantity":       1,
			"current_status": "SOLD",
		})
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "CANNOT_DELETE_SOLD", resp.Error.Code)
	})

	t.Run("bulk delete removes unsold stock", func(t *testing.T) {
		w, resp := f.do(http.MethodPost, base+"/delete", f.ownerToken(), map[string]interface{}{
			"quantity":       8,
			"current_status": "IN_INVENTORY",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, 8, decode[appinventory.BulkDeleteResult](t, resp).Deleted)
	})

	t.Run("summary", func(t *testing.T) {
		w, resp := f.do(http.MethodGet, "/api/v1/summary?item_type_id="+typeID.String(), f.ownerToken(), nil)
		require.Equal(t, http.StatusOK, w.Code)
		summary := decode[appinventory.SummaryResponse](t, resp)
		require.Len(t, summary.Types, 1)
		assert.Equal(t, "Widget", summary.Types[0].ItemTypeName)
		assert.Equal(t, 20, summary.Types[0].InInventory)
		assert.Equal(t, 14, summary.Types[0].WithEmployee)
		assert.Equal(t, 6, summary.Types[0].Sold)
		assert.Equal(t, 40, summary.Types[0].Total)
	})

	t.Run("summary export", func(t *testing.T) {
		w, _ := f.do(http.MethodGet, "/api/v1/summary/export", f.ownerToken(), nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, export.XLSXContentType, w.Header().Get("Content-Type"))
		assert.Contains(t, w.Header().Get("Content-Disposition"), "inventory_summary_")
		assert.NotZero(t, w.Body.Len())
	})
}

func TestAPI_InputErrors(t *testing.T) {
	f := newAPIFixture(t)
	typeID := f.createWidgetType()
	base := "/api/v1/item-types/" + typeID.String() + "/items"

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
		status int
		code   string
	}{
		{"unknown target status", http.MethodPost, base + "/status", map[string]interface{}{"quantity": 1, "target_status": "LOST"}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"malformed body", http.MethodPost, base, "not an object", http.StatusBadRequest, "INVALID_JSON"},
		{"bad item type id", http.MethodPost, "/api/v1/item-types/nope/items", map[string]interface{}{"quantity": 1}, http.StatusBadRequest, "INVALID_ID"},
		{"unknown grouping", http.MethodPost, base, map[string]interface{}{"group_name": "pallet", "group_count": 1}, http.StatusBadRequest, "UNKNOWN_GROUPING"},
		{"zero quantity", http.MethodPost, base, map[string]interface{}{}, http.StatusBadRequest, "INVALID_QUANTITY"},
		{"holder that is not an employee", http.MethodPost, base + "/status", map[string]interface{}{
			"quantity": 1, "target_status": "WITH_EMPLOYEE", "holder_id": uuid.New(),
		}, http.StatusBadRequest, "INVALID_HOLDER"},
		{"missing item", http.MethodGet, "/api/v1/items/" + uuid.NewString(), nil, http.StatusNotFound, "NOT_FOUND"},
		{"bad holder filter", http.MethodGet, "/api/v1/items?holder_id=abc", nil, http.StatusBadRequest, "INVALID_ID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, resp := f.do(tt.method, tt.path, f.ownerToken(), tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}

func TestAPI_Permissions(t *testing.T) {
	f := newAPIFixture(t)
	typeID := f.createWidgetType()
	base := "/api/v1/item-types/" + typeID.String() + "/items"

	t.Run("employees cannot manage the catalog", func(t *testing.T) {
		w, resp := f.do(http.MethodPost, "/api/v1/item-types", f.employeeToken(), map[string]interface{}{"name": "Gadget"})
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "ACCESS_DENIED", resp.Error.Code)
	})

	t.Run("employees cannot create stock", func(t *testing.T) {
		w, _ := f.do(http.MethodPost, base, f.employeeToken(), map[string]interface{}{"quantity": 1})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("only super admins manage tenants", func(t *testing.T) {
		w, _ := f.do(http.MethodGet, "/api/v1/tenants", f.ownerToken(), nil)
		assert.Equal(t, http.StatusForbidden, w.Code)

		w, resp := f.do(http.MethodPost, "/api/v1/tenants", f.adminToken(), map[string]interface{}{"code": "SOUTH", "name": "South Agency"})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.Equal(t, "SOUTH", decode[appidentity.TenantResponse](t, resp).Code)

		w, resp = f.do(http.MethodGet, "/api/v1/tenants", f.adminToken(), nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, int64(2), resp.Meta.Total)
	})

	t.Run("owners manage their users", func(t *testing.T) {
		w, resp := f.do(http.MethodPost, "/api/v1/users", f.ownerToken(), map[string]interface{}{"username": "second.rep", "role": "EMPLOYEE"})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		userID := decode[appidentity.UserResponse](t, resp).ID

		w, resp = f.do(http.MethodGet, "/api/v1/users", f.ownerToken(), nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, int64(3), resp.Meta.Total)

		w, resp = f.do(http.MethodPost, "/api/v1/users/"+userID.String()+"/deactivate", f.ownerToken(), nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.False(t, decode[appidentity.UserResponse](t, resp).Active)
	})
}

func TestAPI_SuperAdminImpersonation(t *testing.T) {
	f := newAPIFixture(t)
	typeID := f.createWidgetType()
	base := "/api/v1/item-types/" + typeID.String() + "/items"
	admin := f.adminToken()

	t.Run("reads across tenants without impersonating", func(t *testing.T) {
		w, _ := f.do(http.MethodGet, "/api/v1/summary", admin, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("mutations require impersonation", func(t *testing.T) {
		w, resp := f.do(http.MethodPost, base, admin, map[string]interface{}{"quantity": 2})
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "ACCESS_DENIED", resp.Error.Code)
	})

	t.Run("impersonating acts as the tenant owner", func(t *testing.T) {
		w, resp := f.do(http.MethodPost, base, admin, map[string]interface{}{"quantity": 2}, "X-Tenant-ID", f.tenantID.String())
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.Equal(t, 2, decode[appinventory.BulkResult](t, resp).Count)
	})

	t.Run("unknown tenant", func(t *testing.T) {
		w, resp := f.do(http.MethodGet, "/api/v1/items", admin, nil, "X-Tenant-ID", uuid.NewString())
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "NOT_FOUND", resp.Error.Code)
	})

	t.Run("malformed tenant header", func(t *testing.T) {
		w, resp := f.do(http.MethodGet, "/api/v1/items", admin, nil, "X-Tenant-ID", "north")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "INVALID_TENANT", resp.Error.Code)
	})
}

func TestAPI_ItemTypeManagement(t *testing.T) {
	f := newAPIFixture(t)
	typeID := f.createWidgetType()
	path := "/api/v1/item-types/" + typeID.String()

	w, resp := f.do(http.MethodPut, path, f.ownerToken(), map[string]interface{}{"name": "Widget XL", "description": "Larger"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Widget XL", decode[appcatalog.ItemTypeResponse](t, resp).Name)

	w, resp = f.do(http.MethodPut, path+"/groupings", f.ownerToken(), map[string]interface{}{
		"groupings": []map[string]interface{}{{"name": "Crate", "units_per_group": 40}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	groupings := decode[appcatalog.ItemTypeResponse](t, resp).Groupings
	require.Len(t, groupings, 1)
	assert.Equal(t, "Crate", groupings[0].Name)

	w, _ = f.do(http.MethodPost, path+"/deactivate", f.ownerToken(), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, resp = f.do(http.MethodPost, path+"/items", f.ownerToken(), map[string]interface{}{"quantity": 1})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "INVALID_STATE", resp.Error.Code)

	w, _ = f.do(http.MethodPost, path+"/activate", f.ownerToken(), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, resp = f.do(http.MethodGet, "/api/v1/item-types?active=true", f.ownerToken(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1), resp.Meta.Total)

	w, _ = f.do(http.MethodGet, path, f.employeeToken(), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
