package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sautihub/sauti/internal/model"
	"github.com/sautihub/sauti/internal/service"
	"github.com/sautihub/sauti/internal/store"
)

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

const (
	testJWTSecret = "test-secret-for-jwt-integration-tests"
	testPassword  = "supersecretpassword"
)

// testEnv holds all the shared state for integration tests.
type testEnv struct {
	server  *Server
	store   *store.Store
	authSvc *service.AuthService
}

// newTestEnv creates a fresh test environment with an in-memory store and a
// fully wired Server.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st, err := store.OpenDefault("") // in-memory SQLite
	if err != nil {
		t.Fatalf("store.OpenDefault: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	authSvc := service.NewAuthService(st, testJWTSecret)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	srv := New(DefaultConfig(), st, authSvc, logger)

	return &testEnv{
		server:  srv,
		store:   st,
		authSvc: authSvc,
	}
}

// seedAdmin creates an admin account with the shared test password.
func (e *testEnv) seedAdmin(t *testing.T, username string, role model.Role) *model.Admin {
	t.Helper()
	admin, err := e.authSvc.CreateAdmin(context.Background(), username, testPassword, role)
	if err != nil {
		t.Fatalf("seedAdmin(%q): %v", username, err)
	}
	return admin
}

// login authenticates via the HTTP API and returns the bearer token.
func (e *testEnv) login(t *testing.T, username string) string {
	t.Helper()
	body := jsonBody(t, map[string]string{
		"username": username,
		"password": testPassword,
	})
	rr := e.do(t, "POST", "/api/auth/login", body, nil)
	assertStatus(t, rr, http.StatusOK)

	var resp struct {
		Token string `json:"access_token"`
	}
	decodeJSON(t, rr, &resp)
	if resp.Token == "" {
		t.Fatal("login: got empty token")
	}
	return resp.Token
}

// do executes an HTTP request against the test server and returns the recorder.
// headers is an optional map of header key-value pairs.
func (e *testEnv) do(t *testing.T, method, path string, body io.Reader, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	e.server.ServeHTTP(rr, req)
	return rr
}

// doAuth executes an authenticated HTTP request using a JWT.
func (e *testEnv) doAuth(t *testing.T, method, path string, body io.Reader, token string) *httptest.ResponseRecorder {
	t.Helper()
	return e.do(t, method, path, body, map[string]string{
		"Authorization": "Bearer " + token,
	})
}

func jsonBody(t *testing.T, v interface{}) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(v); err != nil {
		t.Fatalf("jsonBody: %v", err)
	}
	return buf
}

func assertStatus(t *testing.T, rr *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rr.Code != want {
		t.Errorf("status = %d, want %d; body = %s", rr.Code, want, rr.Body.String())
	}
}

func decodeJSON(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
		t.Fatalf("decodeJSON: %v; body = %s", err, rr.Body.String())
	}
}

func submitFeedback(t *testing.T, env *testEnv, subcounty, ward, village, willVote string) {
	t.Helper()
	body := jsonBody(t, map[string]string{
		"subcounty":   subcounty,
		"ward":        ward,
		"village":     village,
		"age_bracket": "25-34",
		"will_vote":   willVote,
	})
	rr := env.do(t, "POST", "/api/feedback/submit", body, nil)
	assertStatus(t, rr, http.StatusCreated)
}

// ---------------------------------------------------------------------------
// Health checks
// ---------------------------------------------------------------------------

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, "GET", "/healthz", nil, nil)
	assertStatus(t, rr, http.StatusOK)

	var resp map[string]string
	decodeJSON(t, rr, &resp)
	if resp["status"] != "ok" {
		t.Errorf("status = %q, want %q", resp["status"], "ok")
	}
}

func TestReadyz(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, "GET", "/readyz", nil, nil)
	assertStatus(t, rr, http.StatusOK)
}

// ---------------------------------------------------------------------------
// Login
// ---------------------------------------------------------------------------

func TestLogin_Success(t *testing.T) {
	env := newTestEnv(t)
	env.seedAdmin(t, "alice", model.RoleAdmin)

	body := jsonBody(t, map[string]string{
		"username": "alice",
		"password": testPassword,
	})
	rr := env.do(t, "POST", "/api/auth/login", body, nil)
	assertStatus(t, rr, http.StatusOK)

	var resp struct {
		Token     string `json:"access_token"`
		TokenType string `json:"token_type"`
		ExpiresIn int    `json:"expires_in"`
		Username  string `json:"username"`
		Role      string `json:"role"`
	}
	decodeJSON(t, rr, &resp)

	if resp.Token == "" {
		t.Error("expected non-empty access_token")
	}
	if resp.TokenType != "bearer" {
		t.Errorf("token_type = %q, want bearer", resp.TokenType)
	}
	if resp.ExpiresIn != 86400 {
		t.Errorf("expires_in = %d, want 86400", resp.ExpiresIn)
	}
	if resp.Username != "alice" {
		t.Errorf("username = %q, want alice", resp.Username)
	}
	if resp.Role != "admin" {
		t.Errorf("role = %q, want admin", resp.Role)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	env := newTestEnv(t)
	env.seedAdmin(t, "alice", model.RoleAdmin)

	body := jsonBody(t, map[string]string{
		"username": "alice",
		"password": "wrongpassword",
	})
	rr := env.do(t, "POST", "/api/auth/login", body, nil)
	assertStatus(t, rr, http.StatusUnauthorized)
}

func TestLogin_SameErrorForUnknownUserAndWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	env.seedAdmin(t, "alice", model.RoleAdmin)

	wrongPw := env.do(t, "POST", "/api/auth/login", jsonBody(t, map[string]string{
		"username": "alice",
		"password": "wrongpassword",
	}), nil)
	unknownUser := env.do(t, "POST", "/api/auth/login", jsonBody(t, map[string]string{
		"username": "nobody",
		"password": testPassword,
	}), nil)

	assertStatus(t, wrongPw, http.StatusUnauthorized)
	assertStatus(t, unknownUser, http.StatusUnauthorized)
	if wrongPw.Body.String() != unknownUser.Body.String() {
		t.Errorf("login failures must be indistinguishable:\n  wrong password: %s\n  unknown user:   %s",
			wrongPw.Body.String(), unknownUser.Body.String())
	}
}

func TestLogin_MissingFields(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, "POST", "/api/auth/login", jsonBody(t, map[string]string{"username": "alice"}), nil)
	assertStatus(t, rr, http.StatusBadRequest)

	rr = env.do(t, "POST", "/api/auth/login", bytes.NewBufferString("{not json"), nil)
	assertStatus(t, rr, http.StatusBadRequest)
}

// ---------------------------------------------------------------------------
// Token verification and password change
// ---------------------------------------------------------------------------

func TestVerify(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedAdmin(t, "alice", model.RoleSuperAdmin)
	token := env.login(t, "alice")

	rr := env.doAuth(t, "GET", "/api/auth/verify", nil, token)
	assertStatus(t, rr, http.StatusOK)

	var resp struct {
		AdminID  int64  `json:"admin_id"`
		Username string `json:"username"`
		Role     string `json:"role"`
	}
	decodeJSON(t, rr, &resp)
	if resp.AdminID != admin.ID {
		t.Errorf("admin_id = %d, want %d", resp.AdminID, admin.ID)
	}
	if resp.Username != "alice" {
		t.Errorf("username = %q", resp.Username)
	}
	if resp.Role != "superadmin" {
		t.Errorf("role = %q", resp.Role)
	}
}

func TestVerify_RequiresToken(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, "GET", "/api/auth/verify", nil, nil)
	assertStatus(t, rr, http.StatusUnauthorized)

	rr = env.doAuth(t, "GET", "/api/auth/verify", nil, "garbage-token")
	assertStatus(t, rr, http.StatusUnauthorized)
}

func TestChangePassword(t *testing.T) {
	env := newTestEnv(t)
	env.seedAdmin(t, "alice", model.RoleAdmin)
	token := env.login(t, "alice")

	body := jsonBody(t, map[string]string{
		"old_password": testPassword,
		"new_password": "a-brand-new-password",
	})
	rr := env.doAuth(t, "POST", "/api/auth/change-password", body, token)
	assertStatus(t, rr, http.StatusOK)

	// Old password rejected, new one accepted.
	rr = env.do(t, "POST", "/api/auth/login", jsonBody(t, map[string]string{
		"username": "alice",
		"password": testPassword,
	}), nil)
	assertStatus(t, rr, http.StatusUnauthorized)

	rr = env.do(t, "POST", "/api/auth/login", jsonBody(t, map[string]string{
		"username": "alice",
		"password": "a-brand-new-password",
	}), nil)
	assertStatus(t, rr, http.StatusOK)
}

func TestChangePassword_WrongCurrent(t *testing.T) {
	env := newTestEnv(t)
	env.seedAdmin(t, "alice", model.RoleAdmin)
	token := env.login(t, "alice")

	body := jsonBody(t, map[string]string{
		"old_password": "nottherightone",
		"new_password": "whatever-new",
	})
	rr := env.doAuth(t, "POST", "/api/auth/change-password", body, token)
	assertStatus(t, rr, http.StatusUnauthorized)
}

func TestChangePassword_TokenStaysValid(t *testing.T) {
	env := newTestEnv(t)
	env.seedAdmin(t, "alice", model.RoleAdmin)
	token := env.login(t, "alice")

	body := jsonBody(t, map[string]string{
		"old_password": testPassword,
		"new_password": "a-brand-new-password",
	})
	rr := env.doAuth(t, "POST", "/api/auth/change-password", body, token)
	assertStatus(t, rr, http.StatusOK)

	// Tokens are stateless; the pre-change token works until expiry.
	rr = env.doAuth(t, "GET", "/api/auth/verify", nil, token)
	assertStatus(t, rr, http.StatusOK)
}

// ---------------------------------------------------------------------------
// Admin management and the super-admin gate
// ---------------------------------------------------------------------------

func TestAdminRoutes_RequireAuthentication(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, "GET", "/api/admin/all", nil, nil)
	assertStatus(t, rr, http.StatusUnauthorized)

	rr = env.doAuth(t, "GET", "/api/admin/all", nil, "not-a-real-token")
	assertStatus(t, rr, http.StatusUnauthorized)
}

func TestAdminRoutes_RegularAdminForbidden(t *testing.T) {
	env := newTestEnv(t)
	env.seedAdmin(t, "root", model.RoleSuperAdmin)
	env.seedAdmin(t, "alice", model.RoleAdmin)
	token := env.login(t, "alice")

	// Valid token, insufficient role: 403, not 401.
	rr := env.doAuth(t, "GET", "/api/admin/all", nil, token)
	assertStatus(t, rr, http.StatusForbidden)
}

func TestAdminGate_RunsBeforeValidation(t *testing.T) {
	env := newTestEnv(t)
	env.seedAdmin(t, "root", model.RoleSuperAdmin)
	env.seedAdmin(t, "alice", model.RoleAdmin)
	token := env.login(t, "alice")

	// Malformed body, but the caller is not a super-admin. The gate answers
	// first, leaking nothing about request validity.
	rr := env.doAuth(t, "POST", "/api/admin/add", bytes.NewBufferString("{not json"), token)
	assertStatus(t, rr, http.StatusForbidden)
}

func TestAdminGate_StaleTokenForDeletedAdmin(t *testing.T) {
	env := newTestEnv(t)
	root := env.seedAdmin(t, "root", model.RoleSuperAdmin)
	env.seedAdmin(t, "backup", model.RoleSuperAdmin)
	token := env.login(t, "root")

	if err := env.store.DeleteAdmin(context.Background(), root.ID); err != nil {
		t.Fatalf("DeleteAdmin: %v", err)
	}

	// The signature still verifies, but the account is gone.
	rr := env.doAuth(t, "GET", "/api/admin/all", nil, token)
	assertStatus(t, rr, http.StatusForbidden)
}

func TestAdminGate_StaleTokenForDemotedAdmin(t *testing.T) {
	env := newTestEnv(t)
	env.seedAdmin(t, "root", model.RoleSuperAdmin)
	token := env.login(t, "root")

	// Demote behind the token's back. The gate re-reads the store, so the
	// role baked into the token no longer matters.
	if _, err := env.store.DB().Exec(`UPDATE admins SET role = 'admin' WHERE username = 'root'`); err != nil {
		t.Fatalf("demote: %v", err)
	}

	rr := env.doAuth(t, "GET", "/api/admin/all", nil, token)
	assertStatus(t, rr, http.StatusForbidden)
}

func TestAddAdmin(t *testing.T) {
	env := newTestEnv(t)
	env.seedAdmin(t, "root", model.RoleSuperAdmin)
	token := env.login(t, "root")

	body := jsonBody(t, map[string]interface{}{
		"username": "alice",
		"password": "alicepassword",
		"is_super": false,
	})
	rr := env.doAuth(t, "POST", "/api/admin/add", body, token)
	assertStatus(t, rr, http.StatusCreated)

	var resp struct {
		Admin model.Admin `json:"admin"`
	}
	decodeJSON(t, rr, &resp)
	if resp.Admin.Username != "alice" {
		t.Errorf("username = %q", resp.Admin.Username)
	}
	if resp.Admin.Role != model.RoleAdmin {
		t.Errorf("role = %q, want admin", resp.Admin.Role)
	}

	// The new account can log in immediately.
	rr = env.do(t, "POST", "/api/auth/login", jsonBody(t, map[string]string{
		"username": "alice",
		"password": "alicepassword",
	}), nil)
	assertStatus(t, rr, http.StatusOK)
}

func TestAddAdmin_Duplicate(t *testing.T) {
	env := newTestEnv(t)
	env.seedAdmin(t, "root", model.RoleSuperAdmin)
	env.seedAdmin(t, "alice", model.RoleAdmin)
	token := env.login(t, "root")

	body := jsonBody(t, map[string]interface{}{
		"username": "alice",
		"password": "whatever",
	})
	rr := env.doAuth(t, "POST", "/api/admin/add", body, token)
	assertStatus(t, rr, http.StatusConflict)
}

func TestListAdmins_NeverExposesPasswordHashes(t *testing.T) {
	env := newTestEnv(t)
	env.seedAdmin(t, "root", model.RoleSuperAdmin)
	env.seedAdmin(t, "alice", model.RoleAdmin)
	token := env.login(t, "root")

	rr := env.doAuth(t, "GET", "/api/admin/all", nil, token)
	assertStatus(t, rr, http.StatusOK)

	var admins []map[string]interface{}
	decodeJSON(t, rr, &admins)
	if len(admins) != 2 {
		t.Fatalf("len = %d, want 2", len(admins))
	}
	for _, a := range admins {
		for key := range a {
			if key == "password_hash" || key == "password" {
				t.Errorf("admin payload leaks %q: %v", key, a)
			}
		}
	}
}

func TestRemoveAdmin(t *testing.T) {
	env := newTestEnv(t)
	env.seedAdmin(t, "root", model.RoleSuperAdmin)
	alice := env.seedAdmin(t, "alice", model.RoleAdmin)
	token := env.login(t, "root")

	rr := env.doAuth(t, "DELETE", fmt.Sprintf("/api/admin/%d", alice.ID), nil, token)
	assertStatus(t, rr, http.StatusOK)

	rr = env.doAuth(t, "DELETE", fmt.Sprintf("/api/admin/%d", alice.ID), nil, token)
	assertStatus(t, rr, http.StatusNotFound)

	// The removed account can no longer log in.
	rr = env.do(t, "POST", "/api/auth/login", jsonBody(t, map[string]string{
		"username": "alice",
		"password": testPassword,
	}), nil)
	assertStatus(t, rr, http.StatusUnauthorized)
}

func TestRemoveAdmin_LastSuperAdmin(t *testing.T) {
	env := newTestEnv(t)
	root := env.seedAdmin(t, "root", model.RoleSuperAdmin)
	token := env.login(t, "root")

	rr := env.doAuth(t, "DELETE", fmt.Sprintf("/api/admin/%d", root.ID), nil, token)
	assertStatus(t, rr, http.StatusConflict)
}

func TestRemoveAdmin_InvalidID(t *testing.T) {
	env := newTestEnv(t)
	env.seedAdmin(t, "root", model.RoleSuperAdmin)
	token := env.login(t, "root")

	rr := env.doAuth(t, "DELETE", "/api/admin/not-a-number", nil, token)
	assertStatus(t, rr, http.StatusBadRequest)
}

// ---------------------------------------------------------------------------
// Feedback
// ---------------------------------------------------------------------------

func TestSubmitFeedback(t *testing.T) {
	env := newTestEnv(t)

	submitFeedback(t, env, "Central", "Ward A", "Village 1", "Yes")
	submitFeedback(t, env, "Central", "Ward A", "Village 2", "no") // case-insensitive

	rr := env.do(t, "GET", "/api/feedback/summary", nil, nil)
	assertStatus(t, rr, http.StatusOK)

	var resp struct {
		Total int64 `json:"total_responses"`
		Yes   int64 `json:"total_yes"`
		No    int64 `json:"total_no"`
	}
	decodeJSON(t, rr, &resp)
	if resp.Total != 2 || resp.Yes != 1 || resp.No != 1 {
		t.Errorf("summary = %+v, want total 2, yes 1, no 1", resp)
	}
}

func TestSubmitFeedback_Validation(t *testing.T) {
	env := newTestEnv(t)

	// Missing village.
	rr := env.do(t, "POST", "/api/feedback/submit", jsonBody(t, map[string]string{
		"subcounty":   "Central",
		"ward":        "Ward A",
		"age_bracket": "25-34",
		"will_vote":   "Yes",
	}), nil)
	assertStatus(t, rr, http.StatusBadRequest)

	// Bad will_vote value.
	rr = env.do(t, "POST", "/api/feedback/submit", jsonBody(t, map[string]string{
		"subcounty":   "Central",
		"ward":        "Ward A",
		"village":     "Village 1",
		"age_bracket": "25-34",
		"will_vote":   "maybe",
	}), nil)
	assertStatus(t, rr, http.StatusBadRequest)
}

func TestFeedbackByRegion(t *testing.T) {
	env := newTestEnv(t)
	submitFeedback(t, env, "Central", "Ward A", "Village 1", "Yes")
	submitFeedback(t, env, "East", "Ward B", "Village 2", "No")

	rr := env.do(t, "GET", "/api/feedback/by-region", nil, nil)
	assertStatus(t, rr, http.StatusOK)

	var rows []model.RegionBreakdown
	decodeJSON(t, rr, &rows)
	if len(rows) != 2 {
		t.Fatalf("len = %d, want 2", len(rows))
	}
}

// ---------------------------------------------------------------------------
// Dashboard
// ---------------------------------------------------------------------------

func TestDashboard_GroupedViews(t *testing.T) {
	env := newTestEnv(t)
	submitFeedback(t, env, "Central", "Ward A", "Village 1", "Yes")
	submitFeedback(t, env, "Central", "Ward B", "Village 2", "No")
	submitFeedback(t, env, "East", "Ward C", "Village 3", "Yes")

	cases := []struct {
		path     string
		wantRows int
	}{
		{"/api/dashboard/summary", 0},
		{"/api/dashboard/by-subcounty", 2},
		{"/api/dashboard/by-ward", 3},
		{"/api/dashboard/by-village", 3},
	}
	for _, tc := range cases {
		rr := env.do(t, "GET", tc.path, nil, nil)
		assertStatus(t, rr, http.StatusOK)
		if tc.wantRows > 0 {
			var rows []model.RegionBreakdown
			decodeJSON(t, rr, &rows)
			if len(rows) != tc.wantRows {
				t.Errorf("%s: rows = %d, want %d", tc.path, len(rows), tc.wantRows)
			}
		}
	}
}

func TestDashboard_QuickStats(t *testing.T) {
	env := newTestEnv(t)
	env.seedAdmin(t, "root", model.RoleSuperAdmin)
	submitFeedback(t, env, "Central", "Ward A", "Village 1", "Yes")

	rr := env.do(t, "GET", "/api/dashboard/quick-stats", nil, nil)
	assertStatus(t, rr, http.StatusOK)

	var stats model.QuickStats
	decodeJSON(t, rr, &stats)
	if stats.TotalAdmins != 1 {
		t.Errorf("total_admins = %d, want 1", stats.TotalAdmins)
	}
	if stats.TotalFeedback != 1 {
		t.Errorf("total_feedback = %d, want 1", stats.TotalFeedback)
	}
	if stats.LatestFeedback == nil {
		t.Error("expected latest_feedback to be set")
	}
}

// ---------------------------------------------------------------------------
// Slides and hero image
// ---------------------------------------------------------------------------

func TestSlides_MutationsRequireAuth(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, "POST", "/api/slides/upload", jsonBody(t, map[string]string{
		"image_url": "https://cdn.example.com/a.jpg",
	}), nil)
	assertStatus(t, rr, http.StatusUnauthorized)

	rr = env.do(t, "PATCH", "/api/slides/1/toggle", nil, nil)
	assertStatus(t, rr, http.StatusUnauthorized)

	rr = env.do(t, "DELETE", "/api/slides/1", nil, nil)
	assertStatus(t, rr, http.StatusUnauthorized)
}

func TestSlides_Lifecycle(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedAdmin(t, "alice", model.RoleAdmin)
	token := env.login(t, "alice")

	// Upload. A regular admin is enough; no super-admin gate on content.
	rr := env.doAuth(t, "POST", "/api/slides/upload", jsonBody(t, map[string]string{
		"image_url": "https://cdn.example.com/a.jpg",
		"caption":   "Rally in Central",
	}), token)
	assertStatus(t, rr, http.StatusCreated)

	var slide model.Slide
	decodeJSON(t, rr, &slide)
	if slide.UploadedBy != admin.ID {
		t.Errorf("uploaded_by = %d, want %d", slide.UploadedBy, admin.ID)
	}
	if slide.IsActive {
		t.Error("new slide should start inactive")
	}

	// Public active listing is empty until the slide is toggled on.
	rr = env.do(t, "GET", "/api/slides/active", nil, nil)
	assertStatus(t, rr, http.StatusOK)
	var active []model.Slide
	decodeJSON(t, rr, &active)
	if len(active) != 0 {
		t.Errorf("active slides = %d, want 0", len(active))
	}

	rr = env.doAuth(t, "PATCH", fmt.Sprintf("/api/slides/%d/toggle", slide.ID), nil, token)
	assertStatus(t, rr, http.StatusOK)
	var toggled struct {
		IsActive bool `json:"is_active"`
	}
	decodeJSON(t, rr, &toggled)
	if !toggled.IsActive {
		t.Error("expected is_active true after toggle")
	}

	rr = env.do(t, "GET", "/api/slides/active", nil, nil)
	assertStatus(t, rr, http.StatusOK)
	decodeJSON(t, rr, &active)
	if len(active) != 1 {
		t.Errorf("active slides = %d, want 1", len(active))
	}

	rr = env.doAuth(t, "DELETE", fmt.Sprintf("/api/slides/%d", slide.ID), nil, token)
	assertStatus(t, rr, http.StatusOK)

	rr = env.do(t, "GET", "/api/slides/", nil, nil)
	assertStatus(t, rr, http.StatusOK)
	var all []model.Slide
	decodeJSON(t, rr, &all)
	if len(all) != 0 {
		t.Errorf("slides = %d, want 0 after delete", len(all))
	}
}

func TestSlides_UploadRequiresImageURL(t *testing.T) {
	env := newTestEnv(t)
	env.seedAdmin(t, "alice", model.RoleAdmin)
	token := env.login(t, "alice")

	rr := env.doAuth(t, "POST", "/api/slides/upload", jsonBody(t, map[string]string{
		"caption": "no image",
	}), token)
	assertStatus(t, rr, http.StatusBadRequest)
}

func TestHero_GetAndSet(t *testing.T) {
	env := newTestEnv(t)
	env.seedAdmin(t, "alice", model.RoleAdmin)
	token := env.login(t, "alice")

	// Unset hero reads as null, not 404.
	rr := env.do(t, "GET", "/api/hero/", nil, nil)
	assertStatus(t, rr, http.StatusOK)
	var resp map[string]interface{}
	decodeJSON(t, rr, &resp)
	if resp["image_url"] != nil {
		t.Errorf("image_url = %v, want null", resp["image_url"])
	}

	// Setting requires auth.
	rr = env.do(t, "POST", "/api/hero/", jsonBody(t, map[string]string{
		"image_url": "https://cdn.example.com/hero.jpg",
	}), nil)
	assertStatus(t, rr, http.StatusUnauthorized)

	rr = env.doAuth(t, "POST", "/api/hero/", jsonBody(t, map[string]string{
		"image_url": "https://cdn.example.com/hero.jpg",
	}), token)
	assertStatus(t, rr, http.StatusOK)

	rr = env.do(t, "GET", "/api/hero/", nil, nil)
	assertStatus(t, rr, http.StatusOK)
	decodeJSON(t, rr, &resp)
	if resp["image_url"] != "https://cdn.example.com/hero.jpg" {
		t.Errorf("image_url = %v", resp["image_url"])
	}
}

// ---------------------------------------------------------------------------
// Error envelope and request ID
// ---------------------------------------------------------------------------

func TestErrorEnvelope(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, "GET", "/api/admin/all", nil, nil)
	assertStatus(t, rr, http.StatusUnauthorized)

	var resp model.ErrorResponse
	decodeJSON(t, rr, &resp)
	if resp.Error.Code != http.StatusUnauthorized {
		t.Errorf("error.code = %d, want 401", resp.Error.Code)
	}
	if resp.Error.Message == "" {
		t.Error("expected non-empty error.message")
	}
}

func TestRequestIDHeader(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, "GET", "/healthz", nil, nil)
	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID response header")
	}

	rr = env.do(t, "GET", "/healthz", nil, map[string]string{"X-Request-ID": "client-supplied-id"})
	if got := rr.Header().Get("X-Request-ID"); got != "client-supplied-id" {
		t.Errorf("X-Request-ID = %q, want passthrough of client value", got)
	}
}
