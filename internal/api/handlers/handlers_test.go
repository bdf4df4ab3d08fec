package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"

	"github.com/sitegrid/sitegrid-backend/internal/api/middleware"
	"github.com/sitegrid/sitegrid-backend/internal/config"
	"github.com/sitegrid/sitegrid-backend/internal/models"
	"github.com/sitegrid/sitegrid-backend/internal/repository"
	"github.com/sitegrid/sitegrid-backend/internal/service"
	"github.com/sitegrid/sitegrid-backend/internal/socket"
	"github.com/sitegrid/sitegrid-backend/internal/tokenstore"
)

type apiFixture struct {
	router *gin.Engine
}

// newAPIFixture wires handlers over in-memory repositories behind the same
// route shapes the server registers.
func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Environment:   "test",
		JWTSecret:     "handler-test-secret",
		JWTExpiry:     1,
		RefreshExpiry: 7,
	}
	svcs := service.NewServices(&service.ServiceDeps{
		Config:     cfg,
		Repos:      repository.NewRepositories(),
		TokenStore: tokenstore.NewMemoryStore(),
	})
	h := NewHandlers(svcs)

	hub := socket.NewHub()
	go hub.Run()
	wsHandler := socket.NewHandler(hub, cfg.JWTSecret, svcs.Auth)

	r := gin.New()
	api := r.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.Refresh)

	api.GET("/ws", wsHandler.HandleWebSocket)

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(svcs.Auth))

	protected.POST("/auth/socket-ticket", h.Auth.SocketTicket)

	orgs := protected.Group("/organizations")
	orgs.POST("", h.Organization.Create)
	orgs.POST("/:id/projects", h.Project.Create)

	projects := protected.Group("/projects")
	projects.GET("/:id", h.Project.Get)
	projects.POST("/:id/members", h.Project.AddMember)
	projects.GET("/:id/permissions/check", h.Permission.Check)
	projects.POST("/:id/submittals", h.Submittal.Create)

	submittals := protected.Group("/submittals")
	submittals.POST("/:submittalId/submit", h.Submittal.Submit)

	approvals := protected.Group("/approvals")
	approvals.GET("/:requestId", h.Approval.Get)

	steps := protected.Group("/approval-steps")
	steps.POST("/:stepId/decision", h.Approval.Decide)

	return &apiFixture{router: r}
}

func (f *apiFixture) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decodeJSON[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return out
}

// register creates an account and returns its id and access token.
func (f *apiFixture) register(t *testing.T, name, email string) (string, string) {
	t.Helper()
	w := f.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     name,
		"email":    email,
		"password": "password123",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register %s: status = %d, body %s", email, w.Code, w.Body.String())
	}
	resp := decodeJSON[models.AuthResponse](t, w)
	return resp.User.ID, resp.AccessToken
}

// newProject registers a workspace with one org and one project owned by the
// given token's user, returning the project id.
func (f *apiFixture) newProject(t *testing.T, token string) string {
	t.Helper()
	w := f.do(t, http.MethodPost, "/api/organizations", token, gin.H{"name": "Northgate Construction"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create org: status = %d, body %s", w.Code, w.Body.String())
	}
	org := decodeJSON[models.OrganizationResponse](t, w)

	w = f.do(t, http.MethodPost, "/api/organizations/"+org.ID+"/projects", token, gin.H{
		"name": "Harborview Tower",
		"code": "HVT-01",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create project: status = %d, body %s", w.Code, w.Body.String())
	}
	return decodeJSON[models.ProjectResponse](t, w).ID
}

func TestRegisterLoginRefresh(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     "Dana Reyes",
		"email":    "dana@example.com",
		"password": "password123",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register: status = %d, body %s", w.Code, w.Body.String())
	}
	created := decodeJSON[models.AuthResponse](t, w)
	if created.AccessToken == "" || created.RefreshToken == "" {
		t.Fatal("register returned empty tokens")
	}
	if created.User.Email != "dana@example.com" {
		t.Fatalf("registered email = %q", created.User.Email)
	}

	// Duplicate email
	w = f.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     "Dana Again",
		"email":    "dana@example.com",
		"password": "password123",
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate register: status = %d", w.Code)
	}

	w = f.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "dana@example.com",
		"password": "wrong-password",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad-password login: status = %d", w.Code)
	}

	w = f.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "dana@example.com",
		"password": "password123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login: status = %d, body %s", w.Code, w.Body.String())
	}

	w = f.do(t, http.MethodPost, "/api/auth/refresh", "", gin.H{"refreshToken": created.RefreshToken})
	if w.Code != http.StatusOK {
		t.Fatalf("refresh: status = %d, body %s", w.Code, w.Body.String())
	}

	w = f.do(t, http.MethodPost, "/api/auth/refresh", "", gin.H{"refreshToken": "not-a-token"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bogus refresh: status = %d", w.Code)
	}
}

func TestAuthMiddlewareRejectsBadTokens(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodGet, "/api/projects/p1", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("missing token: status = %d", w.Code)
	}

	w = f.do(t, http.MethodGet, "/api/projects/p1", "garbage.jwt.value", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("garbage token: status = %d", w.Code)
	}
}

func TestPermissionCheckEndpoint(t *testing.T) {
	f := newAPIFixture(t)
	_, danaToken := f.register(t, "Dana Reyes", "dana@example.com")
	_, miloToken := f.register(t, "Milo Tanaka", "milo@example.com")
	projectID := f.newProject(t, danaToken)

	w := f.do(t, http.MethodGet, "/api/projects/"+projectID+"/permissions/check?permission=project.view", danaToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("owner check: status = %d, body %s", w.Code, w.Body.String())
	}
	check := decodeJSON[models.PermissionCheckResponse](t, w)
	if !check.Allowed {
		t.Fatal("project creator should hold project.view")
	}

	// Non-members get a clean denial, not an error
	w = f.do(t, http.MethodGet, "/api/projects/"+projectID+"/permissions/check?permission=project.view", miloToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("outsider check: status = %d", w.Code)
	}
	if decodeJSON[models.PermissionCheckResponse](t, w).Allowed {
		t.Fatal("non-member should be denied")
	}

	w = f.do(t, http.MethodGet, "/api/projects/"+projectID+"/permissions/check", danaToken, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing permission param: status = %d", w.Code)
	}
}

func TestSubmittalApprovalFlow(t *testing.T) {
	f := newAPIFixture(t)
	_, danaToken := f.register(t, "Dana Reyes", "dana@example.com")
	miloID, miloToken := f.register(t, "Milo Tanaka", "milo@example.com")
	projectID := f.newProject(t, danaToken)

	w := f.do(t, http.MethodPost, "/api/projects/"+projectID+"/members", danaToken, gin.H{"userId": miloID})
	if w.Code != http.StatusCreated {
		t.Fatalf("add member: status = %d, body %s", w.Code, w.Body.String())
	}

	w = f.do(t, http.MethodPost, "/api/projects/"+projectID+"/submittals", danaToken, gin.H{
		"kind":     "equipment",
		"name":     "Rooftop HVAC Unit RTU-3",
		"quantity": 2,
		"unitCost": "1840.50",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create submittal: status = %d, body %s", w.Code, w.Body.String())
	}
	submittal := decodeJSON[models.SubmittalResponse](t, w)
	if submittal.Status != "draft" {
		t.Fatalf("new submittal status = %q", submittal.Status)
	}
	if !submittal.TotalCost.Equal(decimal.RequireFromString("3681.00")) {
		t.Fatalf("total cost = %s", submittal.TotalCost)
	}

	w = f.do(t, http.MethodPost, "/api/submittals/"+submittal.ID+"/submit", danaToken, gin.H{
		"workflow": []gin.H{{"name": "Engineering review", "approverId": miloID}},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("submit: status = %d, body %s", w.Code, w.Body.String())
	}
	request := decodeJSON[models.ApprovalRequestResponse](t, w)
	if request.CurrentStatus != "under_review" {
		t.Fatalf("request status after submit = %q", request.CurrentStatus)
	}
	if len(request.Steps) != 1 || request.Steps[0].Status != "pending" {
		t.Fatalf("unexpected steps after submit: %+v", request.Steps)
	}
	stepID := request.Steps[0].ID

	// The creator is not the step approver
	w = f.do(t, http.MethodPost, "/api/approval-steps/"+stepID+"/decision", danaToken, gin.H{"decision": "approved"})
	if w.Code != http.StatusForbidden {
		t.Fatalf("non-approver decision: status = %d, body %s", w.Code, w.Body.String())
	}

	w = f.do(t, http.MethodPost, "/api/approval-steps/"+stepID+"/decision", miloToken, gin.H{
		"decision": "approved",
		"comments": "Meets spec section 23 74 13",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("approve: status = %d, body %s", w.Code, w.Body.String())
	}
	request = decodeJSON[models.ApprovalRequestResponse](t, w)
	if request.CurrentStatus != "approved" {
		t.Fatalf("request status after approval = %q", request.CurrentStatus)
	}

	// A decided step cannot be decided again
	w = f.do(t, http.MethodPost, "/api/approval-steps/"+stepID+"/decision", miloToken, gin.H{"decision": "rejected"})
	if w.Code != http.StatusConflict {
		t.Fatalf("re-decision: status = %d", w.Code)
	}
	if got := decodeJSON[map[string]string](t, w)["error"]; got != "Operation not allowed in current state" {
		t.Fatalf("re-decision error = %q", got)
	}

	w = f.do(t, http.MethodGet, fmt.Sprintf("/api/approvals/%s", request.ID), danaToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get request: status = %d", w.Code)
	}

	w = f.do(t, http.MethodGet, "/api/approvals/missing-id", danaToken, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("get missing request: status = %d", w.Code)
	}
}

func TestSocketTicketHandshake(t *testing.T) {
	f := newAPIFixture(t)
	_, danaToken := f.register(t, "Dana Reyes", "dana@example.com")

	w := f.do(t, http.MethodPost, "/api/auth/socket-ticket", danaToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("issue ticket: status = %d, body %s", w.Code, w.Body.String())
	}
	ticket := decodeJSON[map[string]string](t, w)["ticket"]
	if ticket == "" {
		t.Fatal("issued an empty ticket")
	}

	// Unauthenticated callers cannot mint tickets
	if w := f.do(t, http.MethodPost, "/api/auth/socket-ticket", "", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated ticket: status = %d", w.Code)
	}

	srv := httptest.NewServer(f.router)
	defer srv.Close()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws?token="

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL+ticket, nil)
	if err != nil {
		t.Fatalf("dial with ticket: %v", err)
	}
	defer conn.Close()
	if resp.StatusCode != http.StatusSwitchingProtocols {
		t.Fatalf("handshake status = %d", resp.StatusCode)
	}

	// A redeemed ticket cannot be replayed
	_, resp, err = websocket.DefaultDialer.Dial(wsURL+ticket, nil)
	if err == nil {
		t.Fatal("replayed ticket should not connect")
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("replay status = %d", resp.StatusCode)
	}
}
