package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	activityapp "github.com/crm/backend/internal/application/activity"
	contactapp "github.com/crm/backend/internal/application/contact"
	identityapp "github.com/crm/backend/internal/application/identity"
	leadapp "github.com/crm/backend/internal/application/lead"
	pipelineapp "github.com/crm/backend/internal/application/pipeline"
	reportapp "github.com/crm/backend/internal/application/report"
	taskapp "github.com/crm/backend/internal/application/task"
	"github.com/crm/backend/internal/domain/identity"
	"github.com/crm/backend/internal/infrastructure/auth"
	"github.com/crm/backend/internal/infrastructure/config"
	"github.com/crm/backend/internal/infrastructure/persistence/memory"
	"github.com/crm/backend/internal/interfaces/http/dto"
	"github.com/crm/backend/internal/interfaces/http/middleware"
	"github.com/crm/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testServer wires the full stack against in-memory repositories
type testServer struct {
	engine   *gin.Engine
	userRepo identity.UserRepository
	jwtSvc   *auth.JWTService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()

	contactRepo := memory.NewContactRepository()
	leadRepo := memory.NewLeadRepository()
	opportunityRepo := memory.NewOpportunityRepository()
	taskRepo := memory.NewTaskRepository()
	activityRepo := memory.NewActivityRepository()
	userRepo := memory.NewUserRepository()
	reportRepo := memory.NewCRMReportRepository(contactRepo, leadRepo, opportunityRepo, taskRepo, activityRepo, userRepo)

	jwtSvc := auth.NewJWTService(config.JWTConfig{
		Secret:                 "handler-test-secret",
		AccessTokenExpiration:  time.Hour,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "crm-test",
	})
	recorder := activityapp.NewRecorder(activityRepo, nil, true)

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(middleware.JWTAuthMiddleware(jwtSvc))

	r := router.NewRouter(engine)
	r.Register(NewSystemHandler())
	r.Register(NewAuthHandler(identityapp.NewAuthService(userRepo, jwtSvc, nil)))
	r.Register(NewContactHandler(contactapp.NewContactService(contactRepo, recorder)))
	r.Register(NewLeadHandler(leadapp.NewLeadService(leadRepo, recorder)))
	r.Register(NewOpportunityHandler(pipelineapp.NewOpportunityService(opportunityRepo, recorder)))
	r.Register(NewTaskHandler(taskapp.NewTaskService(taskRepo, contactRepo, leadRepo, opportunityRepo, recorder)))
	r.Register(NewActivityHandler(activityapp.NewActivityService(activityRepo)))
	r.Register(NewUserHandler(identityapp.NewUserService(userRepo)))
	r.Register(NewReportHandler(reportapp.NewReportService(reportRepo, activityRepo, nil, nil)))
	r.Setup()

	return &testServer{engine: engine, userRepo: userRepo, jwtSvc: jwtSvc}
}

// tokenFor seeds a user with the given role and returns a bearer token
func (s *testServer) tokenFor(t *testing.T, username string, role identity.Role) string {
	t.Helper()
	u, err := identity.NewUser(username, username+"@example.com", "password1", role)
	require.NoError(t, err)
	require.NoError(t, s.userRepo.Save(context.Background(), u))

	pair, err := s.jwtSvc.GenerateTokenPair(auth.GenerateTokenInput{
		UserID:      u.ID,
		Username:    u.Username,
		Role:        string(u.Role),
		Permissions: u.EffectivePermissions(),
	})
	require.NoError(t, err)
	return pair.AccessToken
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHealthNeedsNoAuth(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMissingTokenReturns401(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/contacts", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	resp := decodeResponse(t, w)
	assert.False(t, resp.Success)
	assert.Equal(t, "ERR_TOKEN_INVALID", resp.Error.Code)
}

func TestExpiredTokenReturns401(t *testing.T) {
	s := newTestServer(t)

	expiredSvc := auth.NewJWTService(config.JWTConfig{
		Secret:                 "handler-test-secret",
		AccessTokenExpiration:  -time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "crm-test",
	})
	u, err := identity.NewUser("ghost", "ghost@example.com", "password1", identity.RoleSales)
	require.NoError(t, err)
	pair, err := expiredSvc.GenerateTokenPair(auth.GenerateTokenInput{
		UserID: u.ID, Username: u.Username, Role: string(u.Role),
	})
	require.NoError(t, err)

	w := s.do(t, http.MethodGet, "/api/v1/contacts", pair.AccessToken, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	resp := decodeResponse(t, w)
	assert.Equal(t, "ERR_TOKEN_EXPIRED", resp.Error.Code)
}

func TestMissingPermissionReturns403(t *testing.T) {
	s := newTestServer(t)
	token := s.tokenFor(t, "support", identity.RoleSupport)

	// Support can read contacts but not create them
	w := s.do(t, http.MethodGet, "/api/v1/contacts", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/contacts", token, gin.H{
		"first_name": "Jane", "last_name": "Doe", "email": "jane@example.com",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	resp := decodeResponse(t, w)
	assert.Equal(t, "ERR_FORBIDDEN", resp.Error.Code)
}

func TestContactLifecycle(t *testing.T) {
	s := newTestServer(t)
	token := s.tokenFor(t, "admin", identity.RoleAdmin)

	w := s.do(t, http.MethodPost, "/api/v1/contacts", token, gin.H{
		"first_name": "Jane", "last_name": "Doe", "email": "jane@example.com",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	resp := decodeResponse(t, w)
	created := resp.Data.(map[string]any)
	id := created["id"].(string)

	// Duplicate email conflicts
	w = s.do(t, http.MethodPost, "/api/v1/contacts", token, gin.H{
		"first_name": "John", "last_name": "Smith", "email": "jane@example.com",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	resp = decodeResponse(t, w)
	assert.Equal(t, "ERR_ALREADY_EXISTS", resp.Error.Code)

	w = s.do(t, http.MethodGet, "/api/v1/contacts/"+id, token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodDelete, "/api/v1/contacts/"+id, token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	// Gone now
	w = s.do(t, http.MethodGet, "/api/v1/contacts/"+id, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodDelete, "/api/v1/contacts/"+id, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPipelineViewEndpoint(t *testing.T) {
	s := newTestServer(t)
	token := s.tokenFor(t, "sales", identity.RoleSales)

	for _, deal := range []gin.H{
		{"name": "Deal A", "account_name": "Acme", "amount": "1000", "probability": 50, "expected_close_date": time.Now().AddDate(0, 1, 0).Format(time.RFC3339)},
		{"name": "Deal B", "account_name": "Acme", "amount": "2000", "probability": 50, "expected_close_date": time.Now().AddDate(0, 1, 0).Format(time.RFC3339)},
		{"name": "Deal C", "account_name": "Acme", "amount": "3000", "probability": 50, "expected_close_date": time.Now().AddDate(0, 1, 0).Format(time.RFC3339)},
	} {
		w := s.do(t, http.MethodPost, "/api/v1/opportunities", token, deal)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w := s.do(t, http.MethodGet, "/api/v1/opportunities/pipeline", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	view := resp.Data.(map[string]any)
	assert.EqualValues(t, 3, view["total_count"])
	assert.Equal(t, "6000", view["total_value"])
	assert.Equal(t, "3000", view["weighted_value"])
	assert.Len(t, view["stages"], 6)
}

func TestOpportunityStageChangeEndpoint(t *testing.T) {
	s := newTestServer(t)
	token := s.tokenFor(t, "manager", identity.RoleManager)

	w := s.do(t, http.MethodPost, "/api/v1/opportunities", token, gin.H{
		"name": "Deal", "account_name": "Acme", "amount": "1000", "probability": 50,
		"expected_close_date": time.Now().AddDate(0, 1, 0).Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := decodeResponse(t, w).Data.(map[string]any)["id"].(string)

	w = s.do(t, http.MethodPatch, "/api/v1/opportunities/"+id+"/stage", token, gin.H{"stage": "Closed Won"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Closed Won", decodeResponse(t, w).Data.(map[string]any)["stage"])

	// Unknown stages are rejected by binding
	w = s.do(t, http.MethodPatch, "/api/v1/opportunities/"+id+"/stage", token, gin.H{"stage": "Nowhere"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.tokenFor(t, "jane", identity.RoleSales)

	w := s.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"username": "jane", "password": "password1",
	})
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	data := resp.Data.(map[string]any)
	assert.NotEmpty(t, data["access_token"])

	w = s.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"username": "jane", "password": "wrong-pass1",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "ERR_INVALID_CREDENTIALS", decodeResponse(t, w).Error.Code)
}

func TestDashboardEndpoint(t *testing.T) {
	s := newTestServer(t)
	adminToken := s.tokenFor(t, "admin", identity.RoleAdmin)

	w := s.do(t, http.MethodGet, "/api/v1/reports/dashboard", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	stats := decodeResponse(t, w).Data.(map[string]any)
	assert.Contains(t, stats, "total_contacts")
	assert.Contains(t, stats, "conversion_rate")

	// Support role lacks reports:read
	supportToken := s.tokenFor(t, "support", identity.RoleSupport)
	w = s.do(t, http.MethodGet, "/api/v1/reports/dashboard", supportToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestReportRangeParam(t *testing.T) {
	s := newTestServer(t)
	token := s.tokenFor(t, "admin", identity.RoleAdmin)

	for _, name := range []string{"weekly", "monthly", "quarterly", "yearly"} {
		w := s.do(t, http.MethodGet, "/api/v1/reports/activities?range="+name, token, nil)
		assert.Equal(t, http.StatusOK, w.Code, "range %q", name)
	}

	w := s.do(t, http.MethodGet, "/api/v1/reports/activities?range=daily", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestActivityReportEndpointByUser(t *testing.T) {
	s := newTestServer(t)
	token := s.tokenFor(t, "admin", identity.RoleAdmin)

	body := map[string]any{
		"first_name": "Jane",
		"last_name":  "Doe",
		"email":      "jane@example.com",
	}
	w := s.do(t, http.MethodPost, "/api/v1/contacts", token, body)
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/reports/activities?range=weekly", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	data := decodeResponse(t, w).Data.(map[string]any)
	byUser, ok := data["by_user"].([]any)
	require.True(t, ok)
	require.Len(t, byUser, 1)
	row := byUser[0].(map[string]any)
	assert.Equal(t, "admin", row["user_name"])
	assert.EqualValues(t, 1, row["contacts"])
	assert.EqualValues(t, 1, row["total"])

	totals := data["totals"].(map[string]any)
	assert.EqualValues(t, 1, totals["contacts"])
}

func TestTaskRelatedToValidation(t *testing.T) {
	s := newTestServer(t)
	token := s.tokenFor(t, "admin", identity.RoleAdmin)

	// Linking to a record that does not exist fails with 404
	w := s.do(t, http.MethodPost, "/api/v1/tasks", token, gin.H{
		"title": "Follow up",
		"related_to": gin.H{
			"type": "Contact",
			"id":   "6b1e4f5a-8f4c-4e94-9f3b-2f8d3f5a6c7e",
		},
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
