package api

import (
	"alcyxob/traindoc/internal/capability"
	"alcyxob/traindoc/internal/domain"
	"alcyxob/traindoc/internal/enhance"
	"alcyxob/traindoc/internal/extractor"
	"alcyxob/traindoc/internal/integrity"
	"alcyxob/traindoc/internal/repository"
	"alcyxob/traindoc/internal/service"
	"alcyxob/traindoc/internal/storage"
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repositories backing the full router under test.

type memDocRepo struct {
	mu   sync.Mutex
	docs map[primitive.ObjectID]domain.Document
}

func (r *memDocRepo) Create(ctx context.Context, doc *domain.Document) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}
	r.docs[doc.ID] = *doc
	return doc.ID, nil
}

func (r *memDocRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := doc
	return &copied, nil
}

func (r *memDocRepo) GetByOwnerID(ctx context.Context, ownerID primitive.ObjectID) ([]domain.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Document
	for _, doc := range r.docs {
		if doc.OwnerID == ownerID {
			out = append(out, doc)
		}
	}
	return out, nil
}

func (r *memDocRepo) Update(ctx context.Context, doc *domain.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[doc.ID]; !ok {
		return repository.ErrNotFound
	}
	r.docs[doc.ID] = *doc
	return nil
}

func (r *memDocRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.docs, id)
	return nil
}

type memPlanRepo struct {
	mu    sync.Mutex
	plans map[primitive.ObjectID]domain.TrainingPlan
}

func (r *memPlanRepo) Create(ctx context.Context, plan *domain.TrainingPlan) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if plan.ID.IsZero() {
		plan.ID = primitive.NewObjectID()
	}
	r.plans[plan.ID] = *plan
	return plan.ID, nil
}

func (r *memPlanRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.TrainingPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	plan, ok := r.plans[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := plan
	return &copied, nil
}

func (r *memPlanRepo) GetActiveBySourceDocumentID(ctx context.Context, documentID primitive.ObjectID) (*domain.TrainingPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, plan := range r.plans {
		if plan.SourceDocumentID == documentID && !plan.Reprocessed {
			copied := plan
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memPlanRepo) GetByCreatorID(ctx context.Context, userID primitive.ObjectID) ([]domain.TrainingPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.TrainingPlan
	for _, plan := range r.plans {
		if plan.CreatedBy.UserID == userID {
			out = append(out, plan)
		}
	}
	return out, nil
}

func (r *memPlanRepo) Update(ctx context.Context, plan *domain.TrainingPlan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.plans[plan.ID]; !ok {
		return repository.ErrNotFound
	}
	r.plans[plan.ID] = *plan
	return nil
}

type memUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]domain.User
}

func (r *memUserRepo) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	r.users[user.ID] = *user
	return user.ID, nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			copied := user
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := user
	return &copied, nil
}

const testJWTSecret = "router-test-secret"

// newTestRouter wires the full API over in-memory infrastructure.
func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	backend := storage.NewMemoryBackend()
	docRepo := &memDocRepo{docs: make(map[primitive.ObjectID]domain.Document)}
	planRepo := &memPlanRepo{plans: make(map[primitive.ObjectID]domain.TrainingPlan)}
	userRepo := &memUserRepo{users: make(map[primitive.ObjectID]domain.User)}

	caps := capability.New(nil, 0)
	ex := extractor.New(caps)
	checker := integrity.NewChecker(backend, docRepo, caps, ex)
	repairer := integrity.NewRepairer(docRepo, backend, checker)

	authService := service.NewAuthService(userRepo, testJWTSecret, time.Hour)
	documentService := service.NewDocumentService(docRepo, backend, caps, checker, repairer)
	processingService := service.NewProcessingService(docRepo, planRepo, userRepo, backend, ex, enhance.NoopGateway{}, 3, 0)

	router := gin.New()
	SetupRoutes(router, testJWTSecret, authService, documentService, processingService)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func registerAndLogin(t *testing.T, router *gin.Engine) string {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"name":     "Coach Carter",
		"email":    "coach@example.com",
		"password": "longenough",
		"role":     "coach",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d, body = %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    "coach@example.com",
		"password": "longenough",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var login LoginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &login); err != nil {
		t.Fatal(err)
	}
	if login.Token == "" {
		t.Fatal("login returned no token")
	}
	return login.Token
}

func uploadDocument(t *testing.T, router *gin.Engine, token, filename, mimeType string, data []byte) DocumentResponse {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := writer.WriteField("mimeType", mimeType); err != nil {
		t.Fatal(err)
	}
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("upload status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var doc DocumentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router := newTestRouter()

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/documents"},
		{http.MethodGet, "/api/v1/plans"},
		{http.MethodGet, "/api/v1/me"},
	}
	for _, p := range paths {
		rec := doJSON(t, router, p.method, p.path, "", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s status = %d, want 401", p.method, p.path, rec.Code)
		}
	}

	rec := doJSON(t, router, http.MethodGet, "/api/v1/documents", "not-a-token", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("garbage token status = %d, want 401", rec.Code)
	}
}

func TestPing(t *testing.T) {
	router := newTestRouter()
	rec := doJSON(t, router, http.MethodGet, "/ping", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("ping status = %d", rec.Code)
	}
}

func TestDocumentLifecycleOverHTTP(t *testing.T) {
	router := newTestRouter()
	token := registerAndLogin(t, router)

	doc := uploadDocument(t, router, token, "plan.txt", "text/plain",
		[]byte("Week 1\nMonday 90 minutes\n- Passing drills\nWeek 2\nTuesday 60 minutes\n- Runs\n"))
	if doc.ID == "" || doc.Processed {
		t.Fatalf("unexpected upload response: %+v", doc)
	}

	// Verify produces a passing integrity result.
	rec := doJSON(t, router, http.MethodPost, "/api/v1/documents/"+doc.ID+"/verify", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("verify status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var result domain.IntegrityResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatal(err)
	}
	if result.OverallStatus != domain.IntegrityPassed {
		t.Errorf("overall = %v", result.OverallStatus)
	}

	// Process yields a plan; the document shows up processed afterwards.
	rec = doJSON(t, router, http.MethodPost, "/api/v1/documents/"+doc.ID+"/process", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("process status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var plan TrainingPlanResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &plan); err != nil {
		t.Fatal(err)
	}
	if len(plan.Weeks) != 2 || plan.Version != 1 {
		t.Fatalf("plan = %+v", plan)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/v1/documents/"+doc.ID, token, nil)
	if rec.Code != http.StatusOK {
		t.Fatal(rec.Code)
	}
	var updated DocumentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
		t.Fatal(err)
	}
	if !updated.Processed || updated.LinkedTrainingPlanID == nil || *updated.LinkedTrainingPlanID != plan.ID {
		t.Errorf("document after processing = %+v", updated)
	}

	// Reprocess bumps the version on the same plan.
	rec = doJSON(t, router, http.MethodPost, "/api/v1/documents/"+doc.ID+"/reprocess", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("reprocess status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var reprocessed TrainingPlanResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &reprocessed); err != nil {
		t.Fatal(err)
	}
	if reprocessed.ID != plan.ID || reprocessed.Version != 2 {
		t.Errorf("reprocessed = id %s version %d", reprocessed.ID, reprocessed.Version)
	}

	// The plan is retrievable directly and listed for the creator.
	rec = doJSON(t, router, http.MethodGet, "/api/v1/plans/"+plan.ID, token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get plan status = %d", rec.Code)
	}
	rec = doJSON(t, router, http.MethodGet, "/api/v1/plans", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list plans status = %d", rec.Code)
	}
	var plans []TrainingPlanResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &plans); err != nil {
		t.Fatal(err)
	}
	if len(plans) != 1 {
		t.Errorf("plans = %d, want 1", len(plans))
	}

	// Delete removes the document.
	rec = doJSON(t, router, http.MethodDelete, "/api/v1/documents/"+doc.ID, token, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
	rec = doJSON(t, router, http.MethodGet, "/api/v1/documents/"+doc.ID, token, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d", rec.Code)
	}
}

func TestUploadRejectionCarriesSuggestions(t *testing.T) {
	router := newTestRouter()
	token := registerAndLogin(t, router)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, _ := writer.CreateFormFile("file", "image.png")
	part.Write([]byte{0x89, 'P', 'N', 'G'})
	writer.WriteField("mimeType", "image/png")
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var payload struct {
		Error       string   `json:"error"`
		Suggestions []string `json:"suggestions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatal(err)
	}
	if payload.Error == "" || len(payload.Suggestions) == 0 {
		t.Errorf("payload = %+v, want error with suggestions", payload)
	}
}

func TestProcessUnknownDocumentReturns404(t *testing.T) {
	router := newTestRouter()
	token := registerAndLogin(t, router)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/documents/"+primitive.NewObjectID().Hex()+"/process", token, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestRegisterValidation(t *testing.T) {
	router := newTestRouter()

	rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"name":     "X",
		"email":    "not-an-email",
		"password": "longenough",
		"role":     "coach",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad email status = %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"name":     "X",
		"email":    "x@example.com",
		"password": "longenough",
		"role":     "admin",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad role status = %d", rec.Code)
	}
}
