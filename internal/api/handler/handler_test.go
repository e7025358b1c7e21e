package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/ninojusay/Teacher-Evaluation-System-Golden-Success-College-sub000/internal/dto"
	"github.com/ninojusay/Teacher-Evaluation-System-Golden-Success-College-sub000/internal/service"
	"github.com/ninojusay/Teacher-Evaluation-System-Golden-Success-College-sub000/pkg/jwt"
	"github.com/ninojusay/Teacher-Evaluation-System-Golden-Success-College-sub000/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock AuthService ──

type mockAuthService struct {
	loginResult   *dto.TokenResponse
	loginErr      error
	logoutErr     error
	refreshResult *dto.TokenResponse
	refreshErr    error
	changePassErr error
}

func (m *mockAuthService) Login(_ context.Context, _ *dto.LoginRequest, _, _ string) (*dto.TokenResponse, error) {
	return m.loginResult, m.loginErr
}
func (m *mockAuthService) Logout(_ context.Context, _ *jwt.Claims, _, _ string) error {
	return m.logoutErr
}
func (m *mockAuthService) Refresh(_ context.Context, _ string) (*dto.TokenResponse, error) {
	return m.refreshResult, m.refreshErr
}
func (m *mockAuthService) ChangePassword(_ context.Context, _ string, _ *dto.ChangePasswordRequest) error {
	return m.changePassErr
}

// ── Mock PeriodService ──

type mockPeriodService struct {
	createResult  *dto.PeriodResponse
	createErr     error
	getResult     *dto.PeriodResponse
	getErr        error
	currentResult *dto.PeriodResponse
	currentErr    error
	listResult    []dto.PeriodResponse
	listErr       error
	updateResult  *dto.PeriodResponse
	updateErr     error
	setCurrentErr error
	toggleResult  *dto.PeriodResponse
	toggleErr     error
	deleteErr     error
}

func (m *mockPeriodService) Create(_ context.Context, _ *dto.CreatePeriodRequest, _ string) (*dto.PeriodResponse, error) {
	return m.createResult, m.createErr
}
func (m *mockPeriodService) GetByID(_ context.Context, _ string) (*dto.PeriodResponse, error) {
	return m.getResult, m.getErr
}
func (m *mockPeriodService) GetCurrent(_ context.Context) (*dto.PeriodResponse, error) {
	return m.currentResult, m.currentErr
}
func (m *mockPeriodService) List(_ context.Context) ([]dto.PeriodResponse, error) {
	return m.listResult, m.listErr
}
func (m *mockPeriodService) Update(_ context.Context, _ string, _ *dto.UpdatePeriodRequest, _ string) (*dto.PeriodResponse, error) {
	return m.updateResult, m.updateErr
}
func (m *mockPeriodService) SetCurrent(_ context.Context, _, _ string) error {
	return m.setCurrentErr
}
func (m *mockPeriodService) ToggleActive(_ context.Context, _ string, _ bool, _ string) (*dto.PeriodResponse, error) {
	return m.toggleResult, m.toggleErr
}
func (m *mockPeriodService) Delete(_ context.Context, _, _ string) error {
	return m.deleteErr
}

// ── Mock EvaluationService ──

type mockEvaluationService struct {
	submitResult *dto.EvaluationResponse
	submitErr    error
	getResult    *dto.EvaluationResponse
	getErr       error
	listResult   []dto.EvaluationResponse
	listErr      error
	deleteErr    error
}

func (m *mockEvaluationService) Submit(_ context.Context, _ string, _ *dto.SubmitEvaluationRequest, _ service.ActivityEvent) (*dto.EvaluationResponse, error) {
	return m.submitResult, m.submitErr
}
func (m *mockEvaluationService) GetByID(_ context.Context, _, _, _ string) (*dto.EvaluationResponse, error) {
	return m.getResult, m.getErr
}
func (m *mockEvaluationService) ListByPeriod(_ context.Context, _ string) ([]dto.EvaluationResponse, error) {
	return m.listResult, m.listErr
}
func (m *mockEvaluationService) Delete(_ context.Context, _, _ string) error {
	return m.deleteErr
}

// ── Mock EligibilityService ──

type mockEligibilityService struct {
	result *dto.EligibilityResponse
	err    error
}

func (m *mockEligibilityService) ListEligible(_ context.Context, _ string) (*dto.EligibilityResponse, error) {
	return m.result, m.err
}

// ── Mock ReportService ──

type mockReportService struct {
	reportResult  *dto.PeriodReportResponse
	reportErr     error
	topResult     *dto.TopRatedResponse
	topErr        error
	summaryResult *dto.TeacherSummaryResponse
	summaryErr    error
	exportBuf     *bytes.Buffer
	exportName    string
	exportErr     error
}

func (m *mockReportService) PeriodReport(_ context.Context, _ string) (*dto.PeriodReportResponse, error) {
	return m.reportResult, m.reportErr
}
func (m *mockReportService) TopRated(_ context.Context, _ string, _ int) (*dto.TopRatedResponse, error) {
	return m.topResult, m.topErr
}
func (m *mockReportService) TeacherSummary(_ context.Context, _, _ string) (*dto.TeacherSummaryResponse, error) {
	return m.summaryResult, m.summaryErr
}
func (m *mockReportService) ExportPeriodReport(_ context.Context, _ string) (*bytes.Buffer, string, error) {
	return m.exportBuf, m.exportName, m.exportErr
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

func setupGin() *httptest.ResponseRecorder {
	return httptest.NewRecorder()
}

func setAuth(c *gin.Context) {
	c.Set("user_id", "test-user-id")
	c.Set("role", "admin")
	c.Set("session_id", "test-session-id")
}

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

// ═══════════════════════════════════════════════════════════
// AuthHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAuthHandler_Login_Success(t *testing.T) {
	mock := &mockAuthService{
		loginResult: &dto.TokenResponse{
			AccessToken:  "test-access-token",
			RefreshToken: "test-refresh-token",
			ExpiresIn:    900,
		},
	}
	h := NewAuthHandler(mock)

	w := setupGin()
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(dto.LoginRequest{
		Username: "2026001",
		Password: "password123",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
}

func TestAuthHandler_Login_BadJSON(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	w := setupGin()
	req := httptest.NewRequest("POST", "/auth/login", bytes.NewReader([]byte("invalid json")))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{loginErr: service.ErrInvalidCredentials})

	w := setupGin()
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(dto.LoginRequest{
		Username: "2026001",
		Password: "wrong-password",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 11001 {
		t.Errorf("expected error code 11001, got %d", resp.Code)
	}
}

func TestAuthHandler_Login_Disabled(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{loginErr: service.ErrUserDisabled})

	w := setupGin()
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(dto.LoginRequest{
		Username: "2026001",
		Password: "password123",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
}

func TestAuthHandler_Logout_Success(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	w := setupGin()
	req := httptest.NewRequest("POST", "/auth/logout", nil)

	r := gin.New()
	r.POST("/auth/logout", func(c *gin.Context) {
		c.Set("claims", &jwt.Claims{UserID: "test-user-id", Role: "student", SessionID: "test-session-id"})
		h.Logout(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestAuthHandler_Logout_Unauthenticated(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	w := setupGin()
	req := httptest.NewRequest("POST", "/auth/logout", nil)

	r := gin.New()
	r.POST("/auth/logout", h.Logout)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAuthHandler_Refresh_Success(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{
		refreshResult: &dto.TokenResponse{
			AccessToken:  "new-access",
			RefreshToken: "new-refresh",
			ExpiresIn:    900,
		},
	})

	w := setupGin()
	req := httptest.NewRequest("POST", "/auth/refresh", jsonBody(dto.RefreshRequest{
		RefreshToken: "old-refresh",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/refresh", h.Refresh)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestAuthHandler_Refresh_Invalid(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{refreshErr: service.ErrRefreshInvalid})

	w := setupGin()
	req := httptest.NewRequest("POST", "/auth/refresh", jsonBody(dto.RefreshRequest{
		RefreshToken: "expired-refresh",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/refresh", h.Refresh)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 11003 {
		t.Errorf("expected error code 11003, got %d", resp.Code)
	}
}

func TestAuthHandler_ChangePassword_Success(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	w := setupGin()
	req := httptest.NewRequest("PUT", "/auth/password", jsonBody(dto.ChangePasswordRequest{
		OldPassword: "old-password",
		NewPassword: "new-password-1",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.PUT("/auth/password", func(c *gin.Context) {
		setAuth(c)
		h.ChangePassword(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// PeriodHandler Tests
// ═══════════════════════════════════════════════════════════

func TestPeriodHandler_Create_Success(t *testing.T) {
	mock := &mockPeriodService{
		createResult: &dto.PeriodResponse{ID: "p-1", Name: "期末评教"},
	}
	h := NewPeriodHandler(mock)

	w := setupGin()
	req := httptest.NewRequest("POST", "/periods", jsonBody(dto.CreatePeriodRequest{
		Name:         "期末评教",
		AcademicYear: "2025-2026",
		Semester:     "1",
		StartDate:    "2026-09-01",
		EndDate:      "2026-09-30",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/periods", func(c *gin.Context) {
		setAuth(c)
		h.CreatePeriod(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
}

func TestPeriodHandler_Create_BadSemester(t *testing.T) {
	h := NewPeriodHandler(&mockPeriodService{})

	w := setupGin()
	req := httptest.NewRequest("POST", "/periods", jsonBody(dto.CreatePeriodRequest{
		Name:         "期末评教",
		AcademicYear: "2025-2026",
		Semester:     "3", // oneof=1 2 summer
		StartDate:    "2026-09-01",
		EndDate:      "2026-09-30",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/periods", func(c *gin.Context) {
		setAuth(c)
		h.CreatePeriod(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestPeriodHandler_GetCurrent_NotFound(t *testing.T) {
	h := NewPeriodHandler(&mockPeriodService{currentErr: service.ErrPeriodNotFound})

	w := setupGin()
	req := httptest.NewRequest("GET", "/periods/current", nil)

	r := gin.New()
	r.GET("/periods/current", h.GetCurrentPeriod)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestPeriodHandler_SetCurrent_Success(t *testing.T) {
	h := NewPeriodHandler(&mockPeriodService{})

	w := setupGin()
	req := httptest.NewRequest("PUT", "/periods/p-1/set-current", nil)

	r := gin.New()
	r.PUT("/periods/:id/set-current", func(c *gin.Context) {
		setAuth(c)
		h.SetCurrentPeriod(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestPeriodHandler_Toggle_Overlap(t *testing.T) {
	h := NewPeriodHandler(&mockPeriodService{toggleErr: service.ErrPeriodOverlap})

	w := setupGin()
	req := httptest.NewRequest("PUT", "/periods/p-1/toggle", jsonBody(dto.TogglePeriodRequest{
		IsActive: true,
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.PUT("/periods/:id/toggle", func(c *gin.Context) {
		setAuth(c)
		h.TogglePeriod(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 14003 {
		t.Errorf("expected error code 14003, got %d", resp.Code)
	}
}

func TestPeriodHandler_Delete_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
	}{
		{"NotFound", service.ErrPeriodNotFound, 404, 14001},
		{"IsCurrent", service.ErrPeriodIsCurrent, 409, 14004},
		{"HasEvaluations", service.ErrPeriodHasEvaluations, 409, 14005},
		{"InternalError", errors.New("unknown"), 500, 50000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewPeriodHandler(&mockPeriodService{deleteErr: tt.err})

			w := setupGin()
			req := httptest.NewRequest("DELETE", "/periods/p-1", nil)

			r := gin.New()
			r.DELETE("/periods/:id", func(c *gin.Context) {
				setAuth(c)
				h.DeletePeriod(c)
			})
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			resp := parseResponse(w)
			if resp.Code != tt.wantCode {
				t.Errorf("expected code %d, got %d", tt.wantCode, resp.Code)
			}
		})
	}
}

// ═══════════════════════════════════════════════════════════
// EvaluationHandler Tests
// ═══════════════════════════════════════════════════════════

func TestEvaluationHandler_Submit_Success(t *testing.T) {
	mock := &mockEvaluationService{
		submitResult: &dto.EvaluationResponse{ID: "eval-1", Average: 4.5},
	}
	h := NewEvaluationHandler(mock, &mockEligibilityService{})

	w := setupGin()
	req := httptest.NewRequest("POST", "/evaluations", jsonBody(dto.SubmitEvaluationRequest{
		TeacherID: "11111111-1111-1111-1111-111111111111",
		SubjectID: "22222222-2222-2222-2222-222222222222",
		Scores: []dto.ScoreItem{
			{QuestionID: "33333333-3333-3333-3333-333333333333", Value: 5},
		},
		IsAnonymous: true,
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/evaluations", func(c *gin.Context) {
		setAuth(c)
		h.SubmitEvaluation(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
}

func TestEvaluationHandler_Submit_ScoreOutOfBinding(t *testing.T) {
	h := NewEvaluationHandler(&mockEvaluationService{}, &mockEligibilityService{})

	w := setupGin()
	req := httptest.NewRequest("POST", "/evaluations", jsonBody(dto.SubmitEvaluationRequest{
		TeacherID: "11111111-1111-1111-1111-111111111111",
		SubjectID: "22222222-2222-2222-2222-222222222222",
		Scores: []dto.ScoreItem{
			{QuestionID: "33333333-3333-3333-3333-333333333333", Value: 6}, // max=5
		},
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/evaluations", func(c *gin.Context) {
		setAuth(c)
		h.SubmitEvaluation(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestEvaluationHandler_Submit_AlreadyEvaluated(t *testing.T) {
	h := NewEvaluationHandler(&mockEvaluationService{submitErr: service.ErrAlreadyEvaluated}, &mockEligibilityService{})

	w := setupGin()
	req := httptest.NewRequest("POST", "/evaluations", jsonBody(dto.SubmitEvaluationRequest{
		TeacherID: "11111111-1111-1111-1111-111111111111",
		SubjectID: "22222222-2222-2222-2222-222222222222",
		Scores: []dto.ScoreItem{
			{QuestionID: "33333333-3333-3333-3333-333333333333", Value: 5},
		},
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/evaluations", func(c *gin.Context) {
		setAuth(c)
		h.SubmitEvaluation(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 15004 {
		t.Errorf("expected error code 15004, got %d", resp.Code)
	}
}

func TestEvaluationHandler_Submit_Unauthenticated(t *testing.T) {
	h := NewEvaluationHandler(&mockEvaluationService{}, &mockEligibilityService{})

	w := setupGin()
	req := httptest.NewRequest("POST", "/evaluations", jsonBody(dto.SubmitEvaluationRequest{
		TeacherID: "11111111-1111-1111-1111-111111111111",
		SubjectID: "22222222-2222-2222-2222-222222222222",
		Scores: []dto.ScoreItem{
			{QuestionID: "33333333-3333-3333-3333-333333333333", Value: 5},
		},
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/evaluations", h.SubmitEvaluation)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestEvaluationHandler_ListEligible_Success(t *testing.T) {
	mock := &mockEligibilityService{
		result: &dto.EligibilityResponse{PeriodOpen: true, Teachers: []dto.EligibleTeacherItem{}},
	}
	h := NewEvaluationHandler(&mockEvaluationService{}, mock)

	w := setupGin()
	req := httptest.NewRequest("GET", "/evaluations/eligible", nil)

	r := gin.New()
	r.GET("/evaluations/eligible", func(c *gin.Context) {
		setAuth(c)
		h.ListEligibleTeachers(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestEvaluationHandler_Get_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
	}{
		{"NotFound", service.ErrEvaluationNotFound, 404, 15001},
		{"Forbidden", service.ErrEvaluationForbidden, 403, 15008},
		{"NotStudent", service.ErrNotStudent, 403, 15009},
		{"PeriodNotOpen", service.ErrPeriodNotOpen, 400, 15002},
		{"NotEnrolled", service.ErrNotEnrolled, 400, 15003},
		{"InternalError", errors.New("unknown"), 500, 50000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewEvaluationHandler(&mockEvaluationService{getErr: tt.err}, &mockEligibilityService{})

			w := setupGin()
			req := httptest.NewRequest("GET", "/evaluations/eval-1", nil)

			r := gin.New()
			r.GET("/evaluations/:id", func(c *gin.Context) {
				setAuth(c)
				h.GetEvaluation(c)
			})
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			resp := parseResponse(w)
			if resp.Code != tt.wantCode {
				t.Errorf("expected code %d, got %d", tt.wantCode, resp.Code)
			}
		})
	}
}

// ═══════════════════════════════════════════════════════════
// ReportHandler Tests
// ═══════════════════════════════════════════════════════════

func TestReportHandler_Export_Success(t *testing.T) {
	buf := bytes.NewBufferString("excel content")
	mock := &mockReportService{
		exportBuf:  buf,
		exportName: "评教统计_期末评教.xlsx",
	}
	h := NewReportHandler(mock)

	w := setupGin()
	req := httptest.NewRequest("GET", "/reports/periods/p-1/export", nil)

	r := gin.New()
	r.GET("/reports/periods/:id/export", h.ExportPeriodReport)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	ct := w.Header().Get("Content-Type")
	if ct != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Errorf("unexpected content type: %s", ct)
	}
	if w.Header().Get("Content-Disposition") == "" {
		t.Error("expected Content-Disposition header")
	}
}

func TestReportHandler_Export_NoData(t *testing.T) {
	h := NewReportHandler(&mockReportService{exportErr: service.ErrReportNoEvaluations})

	w := setupGin()
	req := httptest.NewRequest("GET", "/reports/periods/p-1/export", nil)

	r := gin.New()
	r.GET("/reports/periods/:id/export", h.ExportPeriodReport)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestReportHandler_GetPeriodReport_NotFound(t *testing.T) {
	h := NewReportHandler(&mockReportService{reportErr: service.ErrPeriodNotFound})

	w := setupGin()
	req := httptest.NewRequest("GET", "/reports/periods/p-1", nil)

	r := gin.New()
	r.GET("/reports/periods/:id", h.GetPeriodReport)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestReportHandler_TopRated_Success(t *testing.T) {
	mock := &mockReportService{
		topResult: &dto.TopRatedResponse{
			PeriodID: "p-1",
			Teachers: []dto.TeacherReportItem{{TeacherID: "tch-1", OverallAverage: 4.8}},
		},
	}
	h := NewReportHandler(mock)

	w := setupGin()
	req := httptest.NewRequest("GET", "/reports/periods/p-1/top?limit=5", nil)

	r := gin.New()
	r.GET("/reports/periods/:id/top", h.GetTopRated)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}
