package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func okHandler(body string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(http.StatusOK, body)
	}
}

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())
	assert.Equal(t, "v1", r.version)

	r = NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "v2", r.version)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	var seen []string
	r := NewRouter(engine, WithMiddleware(func(c *gin.Context) {
		seen = append(seen, c.FullPath())
		c.Next()
	}))
	r.Register(NewDomainGroup("widgets", "/widgets").GET("", okHandler("list")))
	r.Setup()

	w := serve(engine, http.MethodGet, "/api/v1/widgets")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "list", w.Body.String())
	assert.Equal(t, []string{"/api/v1/widgets"}, seen)
}

func TestDomainGroup(t *testing.T) {
	engine := gin.New()
	calls := 0
	group := NewDomainGroup("item-types", "/item-types").
		Use(func(c *gin.Context) { calls++; c.Next() }).
		GET("/:id", okHandler("get")).
		POST("", okHandler("create")).
		PUT("/:id", okHandler("update")).
		PATCH("/:id", okHandler("patch"))
	group.Group("items", "/:id/items").POST("/status", okHandler("status"))

	assert.Equal(t, "item-types", group.Name())
	assert.Equal(t, "/item-types", group.Prefix())

	NewRouter(engine).Register(group).Setup()

	tests := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodGet, "/api/v1/item-types/42", "get"},
		{http.MethodPost, "/api/v1/item-types", "create"},
		{http.MethodPut, "/api/v1/item-types/42", "update"},
		{http.MethodPatch, "/api/v1/item-types/42", "patch"},
		{http.MethodPost, "/api/v1/item-types/42/items/status", "status"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := serve(engine, tt.method, tt.path)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.body, w.Body.String())
		})
	}
	require.Equal(t, len(tests), calls, "group middleware runs for sub-groups too")

	assert.Equal(t, http.StatusNotFound, serve(engine, http.MethodDelete, "/api/v1/item-types/42").Code)
}
