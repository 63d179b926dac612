package guardrail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/kemurphy3/ignite-fitness-sub004/internal/domain"
)

// httpManager implements Manager against the policy engine's HTTP API.
type httpManager struct {
	endpoint string
	client   *http.Client
}

// NewHTTPManager creates a guardrail manager that POSTs validation requests
// to the given endpoint. The timeout bounds each call; the engine itself
// imposes no other deadline.
func NewHTTPManager(endpoint string, timeout time.Duration) Manager {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &httpManager{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

type validateRequest struct {
	Workout        domain.ScaledCandidate   `json:"workout"`
	UserProfile    map[string]interface{}   `json:"user_profile,omitempty"`
	RecentSessions []map[string]interface{} `json:"recent_sessions,omitempty"`
	Readiness      map[string]interface{}   `json:"readiness,omitempty"`
}

func (m *httpManager) ValidateWorkout(
	ctx context.Context,
	workout domain.ScaledCandidate,
	userProfile map[string]interface{},
	recentSessions []map[string]interface{},
	readiness map[string]interface{},
) (*domain.GuardrailResult, error) {
	body, err := json.Marshal(validateRequest{
		Workout:        workout,
		UserProfile:    userProfile,
		RecentSessions: recentSessions,
		Readiness:      readiness,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal guardrail request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build guardrail request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("guardrail call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("guardrail call: unexpected status %d", resp.StatusCode)
	}

	var result domain.GuardrailResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode guardrail response: %w", err)
	}
	return &result, nil
}
