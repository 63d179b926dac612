package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kemurphy3/ignite-fitness-sub004/internal/domain"
	"github.com/kemurphy3/ignite-fitness-sub004/internal/service"

	"github.com/gin-gonic/gin"
)

type stubSubstitutionService struct {
	result *service.SubstitutionResult
	err    error
}

func (s *stubSubstitutionService) SuggestSubstitutions(ctx context.Context, session domain.PlannedSession, targetModality domain.Modality, userCtx domain.UserContext) (*service.SubstitutionResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func newTestRouter(svc service.SubstitutionService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	SetupRoutes(router, "", svc)
	return router
}

func validRequestBody() []byte {
	body, _ := json.Marshal(gin.H{
		"planned_session": gin.H{
			"modality":         "running",
			"duration_minutes": 50,
			"intensity":        "Z2",
			"adaptation":       "aerobic_base",
		},
		"target_modality": "cycling",
	})
	return body
}

func TestSuggestSubstitutions_OK(t *testing.T) {
	svc := &stubSubstitutionService{
		result: &service.SubstitutionResult{
			Substitutions: []domain.ScaledCandidate{
				{
					Template: domain.WorkoutTemplate{
						TemplateID: "bike-endurance-60",
						Name:       "Endurance Ride",
						Modality:   domain.ModalityCycling,
						Adaptation: "aerobic_base",
					},
					ScaledDuration:  75,
					CalculatedLoad:  105,
					ConfidenceScore: 0.95,
					AdaptationMatch: domain.MatchExact,
					GuardrailStatus: domain.GuardrailPassed,
					QualityScore:    100,
					Reasoning:       "Produces equivalent training load (5.0% variance).",
					IsSubstitution:  true,
				},
			},
			TargetLoad: domain.TargetLoad{TotalLoad: 100, MethodUsed: domain.MethodZoneRPE, Confidence: 0.85},
		},
	}
	router := newTestRouter(svc)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/substitutions", bytes.NewReader(validRequestBody()))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", w.Code, w.Body.String())
	}

	var resp SubstitutionResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response not valid JSON: %v", err)
	}
	if !resp.Success {
		t.Error("success = false, want true")
	}
	if len(resp.Substitutions) != 1 {
		t.Fatalf("got %d substitutions, want 1", len(resp.Substitutions))
	}
	if resp.Substitutions[0].TemplateID != "bike-endurance-60" {
		t.Errorf("template_id = %s, want bike-endurance-60", resp.Substitutions[0].TemplateID)
	}
	if resp.Metadata.Count != 1 {
		t.Errorf("metadata.count = %d, want 1", resp.Metadata.Count)
	}
	if resp.Metadata.LoadMethod != "Zone_RPE" {
		t.Errorf("metadata.load_method = %s, want Zone_RPE", resp.Metadata.LoadMethod)
	}
	if resp.Metadata.RequestID == "" {
		t.Error("metadata.request_id is empty, want a generated request ID")
	}
	if got := w.Header().Get("X-Request-Id"); got == "" {
		t.Error("X-Request-Id header missing")
	}
}

func TestSuggestSubstitutions_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{"invalid modality", service.ErrInvalidModality, http.StatusBadRequest},
		{"no templates", service.ErrNoSuitableTemplates, http.StatusNotFound},
		{"safety blocked", service.ErrSafetyBlocked, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&stubSubstitutionService{err: tt.serviceErr})

			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodPost, "/api/v1/substitutions", bytes.NewReader(validRequestBody()))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d; body: %s", w.Code, tt.wantStatus, w.Body.String())
			}

			var resp map[string]interface{}
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("error response not valid JSON: %v", err)
			}
			if success, _ := resp["success"].(bool); success {
				t.Error("success = true on an error response")
			}
			if msg, _ := resp["error"].(string); msg == "" {
				t.Error("error message missing from response")
			}
		})
	}
}

func TestSuggestSubstitutions_BindingValidation(t *testing.T) {
	router := newTestRouter(&stubSubstitutionService{})

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"planned_session": `},
		{"missing target modality", `{"planned_session": {"modality": "running", "duration_minutes": 50}}`},
		{"bad block type", `{"planned_session": {"modality": "running", "structure": [{"block_type": "sprint", "intensity": "Z5"}]}, "target_modality": "cycling"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodPost, "/api/v1/substitutions", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400; body: %s", w.Code, w.Body.String())
			}
		})
	}
}

func TestGetEquivalenceRules(t *testing.T) {
	router := newTestRouter(&stubSubstitutionService{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/substitutions/rules", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp struct {
		Success bool `json:"success"`
		Rules   struct {
			TimeFactors         map[string]float64 `json:"time_factors"`
			LoadFactors         map[string]float64 `json:"load_factors"`
			ZoneLoadMultipliers map[string]float64 `json:"zone_load_multipliers"`
		} `json:"rules"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response not valid JSON: %v", err)
	}
	if !resp.Success {
		t.Error("success = false, want true")
	}
	if got := resp.Rules.TimeFactors["running_to_cycling"]; got != 1.25 {
		t.Errorf("time_factors[running_to_cycling] = %v, want 1.25", got)
	}
	if got := resp.Rules.ZoneLoadMultipliers["Z2"]; got != 2 {
		t.Errorf("zone_load_multipliers[Z2] = %v, want 2", got)
	}
}

func TestPing(t *testing.T) {
	router := newTestRouter(&stubSubstitutionService{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/ping", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestAuthRequiredWhenSecretConfigured(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	SetupRoutes(router, "test-secret", &stubSubstitutionService{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/substitutions", bytes.NewReader(validRequestBody()))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 without a bearer token", w.Code)
	}
}
