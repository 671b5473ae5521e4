package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/crm/backend/internal/infrastructure/auth"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func permissionTestContext(t *testing.T, method string, permissions []string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, "/test", nil)

	if permissions != nil {
		c.Set(JWTClaimsKey, &auth.Claims{
			UserID:      "user-1",
			Username:    "tester",
			Permissions: permissions,
		})
	}
	return c, w
}

func TestRequirePermission(t *testing.T) {
	t.Run("passes with permission", func(t *testing.T) {
		c, w := permissionTestContext(t, http.MethodGet, []string{"contacts:read"})

		RequirePermission("contacts:read")(c)

		assert.False(t, c.IsAborted())
		assert.NotEqual(t, http.StatusForbidden, w.Code)
	})

	t.Run("denies without permission", func(t *testing.T) {
		c, w := permissionTestContext(t, http.MethodGet, []string{"contacts:read"})

		RequirePermission("users:delete")(c)

		assert.True(t, c.IsAborted())
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_FORBIDDEN")
	})

	t.Run("denies without claims", func(t *testing.T) {
		c, w := permissionTestContext(t, http.MethodGet, nil)

		RequirePermission("contacts:read")(c)

		assert.True(t, c.IsAborted())
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestRequireAnyPermission(t *testing.T) {
	t.Run("passes when one matches", func(t *testing.T) {
		c, _ := permissionTestContext(t, http.MethodGet, []string{"leads:read"})

		RequireAnyPermission("contacts:read", "leads:read")(c)

		assert.False(t, c.IsAborted())
	})

	t.Run("denies when none match", func(t *testing.T) {
		c, w := permissionTestContext(t, http.MethodGet, []string{"tasks:read"})

		RequireAnyPermission("contacts:read", "leads:read")(c)

		assert.True(t, c.IsAborted())
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestRequireResource(t *testing.T) {
	cases := []struct {
		method     string
		permission string
	}{
		{http.MethodGet, "contacts:read"},
		{http.MethodPost, "contacts:create"},
		{http.MethodPut, "contacts:update"},
		{http.MethodPatch, "contacts:update"},
		{http.MethodDelete, "contacts:delete"},
	}

	for _, tc := range cases {
		t.Run(tc.method+" requires "+tc.permission, func(t *testing.T) {
			c, _ := permissionTestContext(t, tc.method, []string{tc.permission})
			RequireResource("contacts")(c)
			assert.False(t, c.IsAborted())

			c, w := permissionTestContext(t, tc.method, []string{"something:else"})
			RequireResource("contacts")(c)
			assert.True(t, c.IsAborted())
			assert.Equal(t, http.StatusForbidden, w.Code)
		})
	}
}
