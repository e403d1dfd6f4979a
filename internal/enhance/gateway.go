// Package enhance is the boundary to the optional hosted enhancement
// service that personalizes and schedules extracted sessions. The core's
// output is complete without it; every failure here is caught at the call
// site and the deterministic local result stands.
package enhance

import (
	"alcyxob/traindoc/internal/config"
	"alcyxob/traindoc/internal/domain"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Profile carries the user attributes the service personalizes against.
type Profile struct {
	UserID     string `json:"userId"`
	Level      string `json:"level,omitempty"`
	Sport      string `json:"sport,omitempty"`
	WeeklyDays int    `json:"weeklyDays,omitempty"`
}

// Preferences drives the scheduling call.
type Preferences struct {
	StartDate     string   `json:"startDate,omitempty"`
	PreferredDays []string `json:"preferredDays,omitempty"`
	PreferredTime string   `json:"preferredTime,omitempty"`
}

// ScheduleRecord is the service's scheduling answer.
type ScheduleRecord struct {
	PlanID    string            `json:"planId"`
	StartDate string            `json:"startDate"`
	Sessions  []ScheduledEntry  `json:"sessions"`
	Meta      map[string]string `json:"meta,omitempty"`
}

// ScheduledEntry pins one daily session to a calendar slot.
type ScheduledEntry struct {
	WeekNumber int    `json:"weekNumber"`
	DayNumber  int    `json:"dayNumber"`
	Date       string `json:"date"`
	Time       string `json:"time,omitempty"`
}

// Gateway is the enhancement service boundary. Both operations must be
// safely no-op-able.
type Gateway interface {
	Enhance(ctx context.Context, weeks []domain.WeekSession, profile Profile) ([]domain.WeekSession, error)
	Schedule(ctx context.Context, plan *domain.TrainingPlan, prefs Preferences) (*ScheduleRecord, error)
	IsConfigured() bool
}

// NoopGateway returns its input untouched. Selected when enhancement is
// disabled or unconfigured.
type NoopGateway struct{}

func (NoopGateway) Enhance(ctx context.Context, weeks []domain.WeekSession, profile Profile) ([]domain.WeekSession, error) {
	return weeks, nil
}

func (NoopGateway) Schedule(ctx context.Context, plan *domain.TrainingPlan, prefs Preferences) (*ScheduleRecord, error) {
	return nil, nil
}

func (NoopGateway) IsConfigured() bool { return false }

// httpGateway talks JSON to the hosted service.
type httpGateway struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewGateway builds the gateway selected by config: the HTTP implementation
// when enabled and configured, the no-op otherwise.
func NewGateway(cfg config.EnhancementConfig) Gateway {
	if !cfg.Enabled || cfg.BaseURL == "" {
		return NoopGateway{}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &httpGateway{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: timeout},
	}
}

func (g *httpGateway) IsConfigured() bool { return true }

func (g *httpGateway) Enhance(ctx context.Context, weeks []domain.WeekSession, profile Profile) ([]domain.WeekSession, error) {
	payload := struct {
		Weeks   []domain.WeekSession `json:"weeks"`
		Profile Profile              `json:"profile"`
	}{Weeks: weeks, Profile: profile}

	var response struct {
		Weeks []domain.WeekSession `json:"weeks"`
	}
	if err := g.post(ctx, "/v1/enhance", payload, &response); err != nil {
		return nil, err
	}
	if len(response.Weeks) == 0 {
		return nil, fmt.Errorf("enhancement service returned no weeks")
	}
	return response.Weeks, nil
}

func (g *httpGateway) Schedule(ctx context.Context, plan *domain.TrainingPlan, prefs Preferences) (*ScheduleRecord, error) {
	payload := struct {
		Plan        *domain.TrainingPlan `json:"plan"`
		Preferences Preferences          `json:"preferences"`
	}{Plan: plan, Preferences: prefs}

	var record ScheduleRecord
	if err := g.post(ctx, "/v1/schedule", payload, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (g *httpGateway) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("enhancement service returned %d: %s", resp.StatusCode, snippet)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
