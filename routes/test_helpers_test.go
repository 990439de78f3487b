// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/flamego/flamego"
	"github.com/flamego/template"
	"github.com/google/uuid"

	"github.com/humaidq/nutrimark/analysis"
	"github.com/humaidq/nutrimark/db"
	"github.com/humaidq/nutrimark/nutrient"
	"github.com/humaidq/nutrimark/recommend"
)

const testUserID = "user-1"

var errTestBoom = errors.New("boom")

// fakeStore keeps blood tests in memory and runs the process callback
// against an analysis.MemoryStore.
type fakeStore struct {
	mu        sync.Mutex
	tests     map[uuid.UUID]db.BloodTest
	results   map[uuid.UUID][]analysis.StoredResult
	history   []db.NutrientHistoryPoint
	submitErr error
	loadErr   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		tests:   make(map[uuid.UUID]db.BloodTest),
		results: make(map[uuid.UUID][]analysis.StoredResult),
	}
}

func (s *fakeStore) SubmitBloodTest(ctx context.Context, input db.CreateBloodTestInput, process db.ProcessFunc) (*db.BloodTest, []analysis.StoredResult, error) {
	if s.submitErr != nil {
		return nil, nil, s.submitErr
	}

	now := time.Now()
	bt := db.BloodTest{
		ID:          uuid.New(),
		UserID:      input.UserID,
		TestDate:    input.TestDate,
		Source:      input.Source,
		Status:      db.StatusProcessed,
		CreatedAt:   now,
		ProcessedAt: &now,
	}

	stored, err := process(ctx, analysis.NewMemoryStore(), bt.ID)
	if err != nil {
		return nil, nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.tests[bt.ID] = bt
	s.results[bt.ID] = stored

	return &bt, stored, nil
}

func (s *fakeStore) GetBloodTest(_ context.Context, userID string, id uuid.UUID) (*db.BloodTest, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	bt, ok := s.tests[id]
	if !ok || bt.UserID != userID {
		return nil, db.ErrBloodTestNotFound
	}

	return &bt, nil
}

func (s *fakeStore) GetLatestBloodTest(_ context.Context, userID string) (*db.BloodTest, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var latest *db.BloodTest

	for _, bt := range s.tests {
		if bt.UserID != userID {
			continue
		}

		if latest == nil || bt.TestDate.After(latest.TestDate) {
			latest = &bt
		}
	}

	if latest == nil {
		return nil, db.ErrBloodTestNotFound
	}

	return latest, nil
}

func (s *fakeStore) ListBloodTests(_ context.Context, userID string) ([]db.BloodTestSummary, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var out []db.BloodTestSummary

	for id, bt := range s.tests {
		if bt.UserID != userID {
			continue
		}

		out = append(out, db.BloodTestSummary{
			BloodTest:      bt,
			ResultCount:    len(s.results[id]),
			NonNormalCount: len(nutrient.NonNormalNames(analysis.Results(s.results[id]))),
		})
	}

	return out, nil
}

func (s *fakeStore) ListResultsByBloodTest(_ context.Context, testID uuid.UUID) ([]analysis.StoredResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.results[testID], nil
}

func (s *fakeStore) ListResultsByNutrient(_ context.Context, _ string, _ string) ([]db.NutrientHistoryPoint, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}

	return s.history, nil
}

type fakeRecommender struct {
	recipes   []recommend.Recipe
	err       error
	nutrients []string
	prefs     recommend.Preferences
}

func (r *fakeRecommender) Recommend(_ context.Context, nutrients []string, prefs recommend.Preferences) ([]recommend.Recipe, error) {
	r.nutrients = nutrients
	r.prefs = prefs

	if r.err != nil {
		return nil, r.err
	}

	return r.recipes, nil
}

type templateStub struct {
	called bool
	status int
	name   string
}

func (s *templateStub) HTML(status int, name string) {
	s.called = true
	s.status = status
	s.name = name
}

func newTestServices(store Store, recommender recommend.Recommender) *Services {
	svc := NewServices(nutrient.DefaultTable(), store, recommender)
	svc.Validator = nutrient.NewValidator(nutrient.DefaultTable(), func() time.Time {
		return time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	})

	return svc
}

func newAPITestApp(svc *Services) *flamego.Flame {
	f := flamego.New()
	f.Use(Injector(svc))

	f.Post("/api/classify", ClassifyValue)
	f.Get("/api/nutrients/ranges", ListRanges)
	f.Get("/api/deficiencies", RequireUser, ListDeficiencies)
	f.Group("/api/blood-tests", func() {
		f.Get("", ListBloodTests)
		f.Get("/latest", GetLatestBloodTest)
		f.Post("/manual", SubmitManualBloodTest)
		f.Get("/{id}", GetBloodTest)
		f.Get("/{id}/recommendations", GetRecommendations)
	}, RequireUser)

	return f
}

func newPageTestApp(svc *Services, t template.Template, data template.Data) *flamego.Flame {
	f := flamego.New()
	f.Use(Injector(svc))
	f.Use(func(c flamego.Context) {
		c.MapTo(t, (*template.Template)(nil))
		c.Map(data)
		c.Next()
	})

	f.Group("", func() {
		f.Get("/blood-tests/{id}", BloodTestPage)
		f.Get("/nutrients/{name}/chart", NutrientChart)
	}, RequireUser)

	return f
}

func performJSON(t *testing.T, f *flamego.Flame, method, path string, body any, userID string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer

	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		if err := json.NewEncoder(&buf).Encode(b); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	if userID != "" {
		req.Header.Set(UserIDHeader, userID)
	}

	rec := httptest.NewRecorder()
	f.ServeHTTP(rec, req)

	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}

	return out
}

func submitTest(t *testing.T, f *flamego.Flame, nutrients ...map[string]any) submitResponse {
	t.Helper()

	return submitTestOn(t, f, "2025-02-10", nutrients...)
}

func submitTestOn(t *testing.T, f *flamego.Flame, testDate string, nutrients ...map[string]any) submitResponse {
	t.Helper()

	rec := performJSON(t, f, http.MethodPost, "/api/blood-tests/manual", map[string]any{
		"testDate":  testDate,
		"nutrients": nutrients,
	}, testUserID)
	if rec.Code != http.StatusOK {
		t.Fatalf("submit failed with %d: %s", rec.Code, rec.Body.String())
	}

	return decodeBody[submitResponse](t, rec)
}

func entry(name string, value float64, unit string) map[string]any {
	return map[string]any{"name": name, "value": value, "unit": unit}
}
