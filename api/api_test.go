package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rpupo63/chantier-backend/database"
	"github.com/rpupo63/chantier-backend/models"
	"github.com/rpupo63/chantier-backend/usecases"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testPassword = "chantier-2026"

func testEmail(local string) string {
	return local + "@example.com"
}

type memoryBlobs struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (m *memoryBlobs) Put(ctx context.Context, key string, body io.Reader, contentType string) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	return nil
}

func (m *memoryBlobs) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

type testServer struct {
	db     database.Database
	router http.Handler
	blobs  *memoryBlobs
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	if err := database.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	db := database.New(gdb)
	blobs := &memoryBlobs{objects: map[string][]byte{}}
	uc := usecases.New(db, usecases.Options{Blobs: blobs, JWTSecret: "api-test-secret", TokenTTL: time.Hour})
	router := newRouter(db, uc,
		withConfig(map[string]string{"REQUEST_LOGGING": "false"}),
		withStartupTime(time.Now()),
	)
	return &testServer{db: db, router: router, blobs: blobs}
}

// signUp creates an account with one owner and returns the owner's token.
func (s *testServer) signUp(t *testing.T, slug, status string) string {
	t.Helper()
	ctx := context.Background()

	account := models.Account{Name: slug, Slug: slug, SubscriptionStatus: status}
	if err := s.db.AccountRepo().Add(ctx, &account); err != nil {
		t.Fatalf("create account: %v", err)
	}
	user := s.user(t, "owner."+slug)
	membership := models.Membership{UserID: user.ID, Role: models.RoleOwner}
	if err := s.db.MembershipRepo().Create(ctx, account.ID, &membership); err != nil {
		t.Fatalf("create membership: %v", err)
	}
	return s.login(t, user.Email)
}

func (s *testServer) user(t *testing.T, name string) models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	user := models.User{Name: name, Email: testEmail(name), PasswordHash: string(hash)}
	if err := s.db.UserRepo().Add(context.Background(), &user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func (s *testServer) login(t *testing.T, email string) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/auth/login", "", map[string]string{"email": email, "password": testPassword})
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d: %s", rec.Code, rec.Body)
	}
	var result struct {
		Token string `json:"token"`
	}
	decode(t, rec, &result)
	return result.Token
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encode body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body healthResponse
	decode(t, rec, &body)
	if body.Status != "ok" || body.Database != "ok" {
		t.Errorf("health = %+v", body)
	}
}

func TestAuthentication(t *testing.T) {
	s := newTestServer(t)
	token := s.signUp(t, "batisud", models.SubscriptionActive)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"valid token", "Bearer " + token, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/projects", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			s.router.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d: %s", rec.Code, tt.want, rec.Body)
			}
		})
	}

	rec := s.do(t, http.MethodPost, "/auth/login", "", map[string]string{"email": testEmail("owner.batisud"), "password": "wrong"})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong password status = %d", rec.Code)
	}
}

func TestAccountAndSubscriptionGates(t *testing.T) {
	s := newTestServer(t)

	loner := s.user(t, "loner")
	token := s.login(t, loner.Email)
	if rec := s.do(t, http.MethodGet, "/billing", token, nil); rec.Code != http.StatusForbidden {
		t.Errorf("no membership: status = %d, want 403", rec.Code)
	}

	lapsed := s.signUp(t, "lapsed", models.SubscriptionCanceled)
	rec := s.do(t, http.MethodGet, "/projects", lapsed, nil)
	if rec.Code != http.StatusPaymentRequired {
		t.Fatalf("lapsed: status = %d, want 402", rec.Code)
	}
	var body ErrorResponse
	decode(t, rec, &body)
	if body.Redirect != "/billing" {
		t.Errorf("redirect = %q", body.Redirect)
	}

	rec = s.do(t, http.MethodGet, "/billing", lapsed, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("billing: status = %d", rec.Code)
	}
	var overview usecases.BillingOverview
	decode(t, rec, &overview)
	if overview.HasAccess || overview.Account.Slug != "lapsed" {
		t.Errorf("overview = %+v", overview)
	}
}

func TestProjectLifecycle(t *testing.T) {
	s := newTestServer(t)
	token := s.signUp(t, "batisud", models.SubscriptionActive)
	other := s.signUp(t, "concurrent", models.SubscriptionTrialing)

	rec := s.do(t, http.MethodPost, "/projects", token, map[string]any{
		"name":       "Résidence Les Pins",
		"city":       "Nantes",
		"budget":     "480000",
		"start_date": "2026-04-01",
		"end_date":   "2026-12-15T00:00:00Z",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body)
	}
	var project models.Project
	decode(t, rec, &project)
	if project.Status != models.ProjectStatusPreparation || project.BudgetAlertThreshold != 10 {
		t.Errorf("defaults = %+v", project)
	}
	path := "/projects/" + project.ID.String()

	if rec := s.do(t, http.MethodGet, path, token, nil); rec.Code != http.StatusOK {
		t.Errorf("get status = %d", rec.Code)
	}
	if rec := s.do(t, http.MethodGet, path, other, nil); rec.Code != http.StatusNotFound {
		t.Errorf("other tenant get status = %d, want 404", rec.Code)
	}
	if rec := s.do(t, http.MethodDelete, path, other, nil); rec.Code != http.StatusNotFound {
		t.Errorf("other tenant delete status = %d, want 404", rec.Code)
	}

	rec = s.do(t, http.MethodPut, path, token, map[string]any{
		"name":       "Résidence Les Pins",
		"start_date": "2026-04-01",
		"end_date":   "2026-03-01",
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("inverted dates status = %d", rec.Code)
	}
	var verr ErrorResponse
	decode(t, rec, &verr)
	if verr.Field != "end_date" {
		t.Errorf("field = %q", verr.Field)
	}

	rec = s.do(t, http.MethodGet, "/projects?city=Nantes", token, nil)
	var page usecases.ProjectPage
	decode(t, rec, &page)
	if page.Total != 1 || len(page.Projects) != 1 {
		t.Errorf("page = %+v", page)
	}
	rec = s.do(t, http.MethodGet, "/projects", other, nil)
	decode(t, rec, &page)
	if page.Total != 0 {
		t.Errorf("other tenant sees %d projects", page.Total)
	}

	if rec := s.do(t, http.MethodGet, "/projects/not-a-uuid", token, nil); rec.Code != http.StatusBadRequest {
		t.Errorf("bad id status = %d, want 400", rec.Code)
	}
	if rec := s.do(t, http.MethodDelete, path, token, nil); rec.Code != http.StatusNoContent {
		t.Errorf("delete status = %d", rec.Code)
	}
	if rec := s.do(t, http.MethodGet, path, token, nil); rec.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d", rec.Code)
	}
}

func TestTaskDateOnlySchedule(t *testing.T) {
	s := newTestServer(t)
	token := s.signUp(t, "batisud", models.SubscriptionActive)

	rec := s.do(t, http.MethodPost, "/projects", token, map[string]any{"name": "Gymnase"})
	var project models.Project
	decode(t, rec, &project)

	rec = s.do(t, http.MethodPost, "/tasks", token, map[string]any{
		"project_id":    project.ID,
		"title":         "Fondations",
		"start_date":    "2026-04-01",
		"duration_days": 10,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create task status = %d: %s", rec.Code, rec.Body)
	}
	var body map[string]any
	decode(t, rec, &body)
	if body["start_date"] != "2026-04-01" || body["end_date"] != "2026-04-10" {
		t.Errorf("dates = %v / %v, want 2026-04-01 / 2026-04-10", body["start_date"], body["end_date"])
	}

	rec = s.do(t, http.MethodPost, "/tasks", token, map[string]any{
		"project_id": project.ID,
		"title":      "Charpente",
		"start_date": "01/04/2026",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unparseable date status = %d, want 400", rec.Code)
	}
}

func TestMalformedBody(t *testing.T) {
	s := newTestServer(t)
	token := s.signUp(t, "batisud", models.SubscriptionActive)

	req := httptest.NewRequest(http.MethodPost, "/tasks", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	if rec.Code < 400 || rec.Code >= 500 {
		t.Errorf("status = %d, want a 4xx", rec.Code)
	}
}

func TestReportExport(t *testing.T) {
	s := newTestServer(t)
	token := s.signUp(t, "batisud", models.SubscriptionActive)

	rec := s.do(t, http.MethodGet, "/reports/export?from=2026-01-01&to=2026-12-31", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("content type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, usecases.ReportFilename) {
		t.Errorf("content disposition = %q", cd)
	}
	if !strings.HasPrefix(rec.Body.String(), "Rapport chantier") {
		t.Errorf("body starts with %q", rec.Body.String()[:min(40, rec.Body.Len())])
	}

	if rec := s.do(t, http.MethodGet, "/reports?from=01/02/2026", token, nil); rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("bad date status = %d, want 422", rec.Code)
	}
}

func TestPhotoUpload(t *testing.T) {
	s := newTestServer(t)
	token := s.signUp(t, "batisud", models.SubscriptionActive)

	rec := s.do(t, http.MethodPost, "/projects", token, map[string]any{"name": "Gymnase"})
	var project models.Project
	decode(t, rec, &project)

	if rec := s.do(t, http.MethodPost, "/photos", token, map[string]any{"project_id": project.ID}); rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("json without file status = %d, want 422", rec.Code)
	}

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	data, _ := json.Marshal(map[string]any{"project_id": project.ID, "caption": "Dalle coulée"})
	if err := form.WriteField("data", string(data)); err != nil {
		t.Fatal(err)
	}
	part, err := form.CreateFormFile("photo", "dalle.jpg")
	if err != nil {
		t.Fatal(err)
	}
	part.Write([]byte("jpeg-bytes"))
	form.Close()

	req := httptest.NewRequest(http.MethodPost, "/photos", &body)
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("upload status = %d: %s", rec.Code, rec.Body)
	}

	var photo models.Photo
	decode(t, rec, &photo)
	if photo.Caption == nil || *photo.Caption != "Dalle coulée" {
		t.Errorf("caption = %v", photo.Caption)
	}
	if got := string(s.blobs.objects[photo.MediaKey]); got != "jpeg-bytes" {
		t.Errorf("stored blob = %q", got)
	}
}

func TestNotificationRoutes(t *testing.T) {
	s := newTestServer(t)
	token := s.signUp(t, "batisud", models.SubscriptionActive)

	rec := s.do(t, http.MethodPost, "/projects", token, map[string]any{"name": "Crèche"})
	var project models.Project
	decode(t, rec, &project)

	if rec := s.do(t, http.MethodPost, "/incidents", token, map[string]any{"project_id": project.ID, "title": "Grue en panne"}); rec.Code != http.StatusCreated {
		t.Fatalf("incident status = %d: %s", rec.Code, rec.Body)
	}

	rec = s.do(t, http.MethodGet, "/notifications", token, nil)
	var page usecases.NotificationPage
	decode(t, rec, &page)
	if page.Unread != 1 || len(page.Notifications) != 1 {
		t.Fatalf("inbox = %+v", page)
	}

	if rec := s.do(t, http.MethodPatch, "/notifications/"+page.Notifications[0].ID.String(), token, nil); rec.Code != http.StatusNoContent {
		t.Errorf("mark read status = %d", rec.Code)
	}
	rec = s.do(t, http.MethodPatch, "/notifications", token, nil)
	var marked map[string]int64
	decode(t, rec, &marked)
	if marked["marked"] != 0 {
		t.Errorf("marked = %d, want 0", marked["marked"])
	}
}

func TestCORSCredentials(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	tests := []struct {
		name            string
		origins         []string
		origin          string
		wantOrigin      string
		wantCredentials string
	}{
		{"wildcard never allows credentials", []string{"*"}, "https://evil.test", "*", ""},
		{"listed origin gets credentials", []string{"https://app.chantier.test"}, "https://app.chantier.test", "https://app.chantier.test", "true"},
		{"unlisted origin is not answered", []string{"https://app.chantier.test"}, "https://evil.test", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/projects", nil)
			req.Header.Set("Origin", tt.origin)
			rec := httptest.NewRecorder()
			corsMiddleware(tt.origins)(ok).ServeHTTP(rec, req)

			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Errorf("allow origin = %q, want %q", got, tt.wantOrigin)
			}
			if got := rec.Header().Get("Access-Control-Allow-Credentials"); got != tt.wantCredentials {
				t.Errorf("allow credentials = %q, want %q", got, tt.wantCredentials)
			}
		})
	}
}
