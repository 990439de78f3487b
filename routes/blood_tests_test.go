// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package routes

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/google/uuid"

	"github.com/humaidq/nutrimark/db"
	"github.com/humaidq/nutrimark/nutrient"
	"github.com/humaidq/nutrimark/recommend"
)

func TestSubmitManualBloodTest(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	f := newAPITestApp(newTestServices(store, nil))

	resp := submitTest(t, f,
		entry("vitamin d", 18, "ng/mL"),
		entry("Calcium", 9.5, "mg/dL"),
		entry("Zinc", 80, "µg/dL"),
	)

	if resp.TestID == uuid.Nil {
		t.Fatal("expected a test id")
	}

	if len(resp.Results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(resp.Results))
	}

	first := resp.Results[0]
	if first.NutrientName != "Vitamin D" || first.Status != nutrient.StatusDeficient {
		t.Fatalf("unexpected first result %+v", first)
	}

	if first.Severity == nil || *first.Severity != nutrient.SeverityMild {
		t.Fatalf("expected mild severity, got %v", first.Severity)
	}

	if first.MinRange != 30 || first.MaxRange != 100 {
		t.Fatalf("expected normal range 30-100, got %v-%v", first.MinRange, first.MaxRange)
	}

	if resp.Results[1].Severity != nil {
		t.Fatalf("expected no severity for normal calcium, got %v", *resp.Results[1].Severity)
	}

	if resp.Results[2].MinRange != nutrient.FallbackMinRange || resp.Results[2].MaxRange != nutrient.FallbackMaxRange {
		t.Fatalf("expected fallback range for zinc, got %+v", resp.Results[2])
	}

	if len(resp.NonNormal) != 1 || resp.NonNormal[0] != "Vitamin D" {
		t.Fatalf("unexpected non-normal names %v", resp.NonNormal)
	}

	bt, ok := store.tests[resp.TestID]
	if !ok {
		t.Fatal("expected blood test to be stored")
	}

	if bt.UserID != testUserID || bt.Source != db.SourceManual {
		t.Fatalf("unexpected stored blood test %+v", bt)
	}
}

func TestSubmitManualBloodTestValidation(t *testing.T) {
	t.Parallel()

	f := newAPITestApp(newTestServices(newFakeStore(), nil))

	rec := performJSON(t, f, "POST", "/api/blood-tests/manual", map[string]any{
		"testDate": "2030-01-01",
		"nutrients": []map[string]any{
			entry("Calcium", 9.5, "ng/mL"),
			entry("calcium", 9.6, "mg/dL"),
			entry("Iron", -1, "µg/dL"),
		},
	}, testUserID)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeBody[validationErrorResponse](t, rec)
	if body.Error != invalidRequestMessage {
		t.Fatalf("unexpected error message %q", body.Error)
	}

	paths := make(map[string]bool, len(body.Details))
	for _, issue := range body.Details {
		paths[issue.Path] = true
	}

	for _, want := range []string{"testDate", "nutrients[0].unit", "nutrients", "nutrients[2].value"} {
		if !paths[want] {
			t.Errorf("expected issue at %q, got %+v", want, body.Details)
		}
	}
}

func TestSubmitManualBloodTestBadRequests(t *testing.T) {
	t.Parallel()

	f := newAPITestApp(newTestServices(newFakeStore(), nil))

	tests := []struct {
		name   string
		body   string
		userID string
		want   int
	}{
		{"missing user", `{"testDate": "2025-01-01", "nutrients": []}`, "", http.StatusUnauthorized},
		{"malformed json", `{"testDate": `, testUserID, http.StatusBadRequest},
		{"unknown field", `{"testDate": "2025-01-01", "nutrients": [], "extra": 1}`, testUserID, http.StatusBadRequest},
		{"empty nutrients", `{"testDate": "2025-01-01", "nutrients": []}`, testUserID, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := performJSON(t, f, http.MethodPost, "/api/blood-tests/manual", tt.body, tt.userID)
			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d: %s", tt.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestSubmitManualBloodTestPersistenceFailure(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	store.submitErr = errTestBoom
	f := newAPITestApp(newTestServices(store, nil))

	rec := performJSON(t, f, http.MethodPost, "/api/blood-tests/manual", map[string]any{
		"testDate":  "2025-02-10",
		"nutrients": []map[string]any{entry("Iron", 90, "µg/dL")},
	}, testUserID)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}

	body := decodeBody[map[string]string](t, rec)
	if body["error"] != persistenceFailedMessage {
		t.Fatalf("unexpected error body %v", body)
	}
}

func TestListBloodTests(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	f := newAPITestApp(newTestServices(store, nil))

	rec := performJSON(t, f, http.MethodGet, "/api/blood-tests", nil, testUserID)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	if got := rec.Body.String(); got != "{\"bloodTests\":[]}\n" {
		t.Fatalf("expected empty list, got %q", got)
	}

	submitTest(t, f, entry("Ferritin", 10, "ng/mL"), entry("Iron", 90, "µg/dL"))

	rec = performJSON(t, f, http.MethodGet, "/api/blood-tests", nil, testUserID)
	body := decodeBody[map[string][]db.BloodTestSummary](t, rec)

	tests := body["bloodTests"]
	if len(tests) != 1 || tests[0].ResultCount != 2 || tests[0].NonNormalCount != 1 {
		t.Fatalf("unexpected summaries %+v", tests)
	}
}

func TestGetBloodTest(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	f := newAPITestApp(newTestServices(store, nil))

	created := submitTest(t, f, entry("Vitamin B12", 120, "pg/mL"), entry("Iron", 90, "µg/dL"))

	rec := performJSON(t, f, http.MethodGet, "/api/blood-tests/"+created.TestID.String(), nil, testUserID)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeBody[bloodTestResponse](t, rec)
	if body.BloodTest == nil || body.BloodTest.ID != created.TestID {
		t.Fatalf("unexpected blood test %+v", body.BloodTest)
	}

	if len(body.Results) != 2 || body.Results[0].NutrientName != "Vitamin B12" {
		t.Fatalf("expected results in input order, got %+v", body.Results)
	}

	if len(body.NonNormal) != 1 || body.NonNormal[0] != "Vitamin B12" {
		t.Fatalf("unexpected non-normal names %v", body.NonNormal)
	}

	tests := []struct {
		name   string
		path   string
		userID string
		want   int
	}{
		{"other user", "/api/blood-tests/" + created.TestID.String(), "user-2", http.StatusNotFound},
		{"unknown id", "/api/blood-tests/" + uuid.NewString(), testUserID, http.StatusNotFound},
		{"invalid id", "/api/blood-tests/not-a-uuid", testUserID, http.StatusBadRequest},
		{"missing user", "/api/blood-tests/" + created.TestID.String(), "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := performJSON(t, f, http.MethodGet, tt.path, nil, tt.userID)
			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d: %s", tt.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestGetBloodTestStoreFailure(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	store.loadErr = errTestBoom
	f := newAPITestApp(newTestServices(store, nil))

	rec := performJSON(t, f, http.MethodGet, "/api/blood-tests/"+uuid.NewString(), nil, testUserID)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestGetLatestBloodTest(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	f := newAPITestApp(newTestServices(store, nil))

	rec := performJSON(t, f, http.MethodGet, "/api/blood-tests/latest", nil, testUserID)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	empty := decodeBody[bloodTestResponse](t, rec)
	if empty.BloodTest != nil || len(empty.Results) != 0 {
		t.Fatalf("expected no latest test, got %+v", empty)
	}

	submitTestOn(t, f, "2025-01-05", entry("Vitamin D", 18, "ng/mL"))
	latest := submitTestOn(t, f, "2025-02-20", entry("Vitamin D", 35, "ng/mL"), entry("Iron", 40, "µg/dL"))
	submitTestOn(t, f, "2025-02-01", entry("Calcium", 9, "mg/dL"))

	rec = performJSON(t, f, http.MethodGet, "/api/blood-tests/latest", nil, testUserID)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeBody[bloodTestResponse](t, rec)
	if body.BloodTest == nil || body.BloodTest.ID != latest.TestID {
		t.Fatalf("expected latest test %s, got %+v", latest.TestID, body.BloodTest)
	}

	if len(body.Results) != 2 || len(body.NonNormal) != 1 || body.NonNormal[0] != "Iron" {
		t.Fatalf("unexpected latest results %+v / %v", body.Results, body.NonNormal)
	}

	if rec := performJSON(t, f, http.MethodGet, "/api/blood-tests/latest", nil, "someone-else"); rec.Code != http.StatusOK ||
		decodeBody[bloodTestResponse](t, rec).BloodTest != nil {
		t.Fatalf("expected no latest test for another user, got %s", rec.Body.String())
	}

	if rec := performJSON(t, f, http.MethodGet, "/api/blood-tests/latest", nil, ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without user, got %d", rec.Code)
	}
}

func TestListDeficiencies(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	f := newAPITestApp(newTestServices(store, nil))

	rec := performJSON(t, f, http.MethodGet, "/api/deficiencies", nil, testUserID)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	if got := rec.Body.String(); got != "{\"testId\":null,\"results\":[]}\n" {
		t.Fatalf("expected empty deficiencies, got %q", got)
	}

	submitTestOn(t, f, "2025-01-05", entry("Ferritin", 10, "ng/mL"))
	latest := submitTestOn(t, f, "2025-02-20",
		entry("Vitamin D", 18, "ng/mL"),
		entry("Calcium", 9.5, "mg/dL"),
		entry("Vitamin B12", 950, "pg/mL"),
	)

	rec = performJSON(t, f, http.MethodGet, "/api/deficiencies", nil, testUserID)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeBody[deficienciesResponse](t, rec)
	if body.TestID == nil || *body.TestID != latest.TestID {
		t.Fatalf("expected deficiencies of %s, got %v", latest.TestID, body.TestID)
	}

	if len(body.Results) != 2 {
		t.Fatalf("expected 2 non-normal results, got %+v", body.Results)
	}

	if body.Results[0].NutrientName != "Vitamin D" || body.Results[0].Status != nutrient.StatusDeficient {
		t.Fatalf("unexpected first result %+v", body.Results[0])
	}

	if body.Results[1].NutrientName != "Vitamin B12" || body.Results[1].Status != nutrient.StatusExcess {
		t.Fatalf("unexpected second result %+v", body.Results[1])
	}
}

func TestLatestAndDeficienciesStoreFailure(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	store.loadErr = errTestBoom
	f := newAPITestApp(newTestServices(store, nil))

	for _, path := range []string{"/api/blood-tests/latest", "/api/deficiencies"} {
		if rec := performJSON(t, f, http.MethodGet, path, nil, testUserID); rec.Code != http.StatusInternalServerError {
			t.Fatalf("%s: expected 500, got %d", path, rec.Code)
		}
	}
}

func TestGetRecommendations(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	recommender := &fakeRecommender{recipes: []recommend.Recipe{{Title: "Lentil Stew"}}}
	f := newAPITestApp(newTestServices(store, recommender))

	created := submitTest(t, f,
		entry("Iron", 50, "µg/dL"),
		entry("Calcium", 9.5, "mg/dL"),
		entry("Vitamin D", 150, "ng/mL"),
	)

	query := url.Values{"diet": {"vegetarian", " "}, "allergy": {"peanuts"}}
	path := "/api/blood-tests/" + created.TestID.String() + "/recommendations?" + query.Encode()

	rec := performJSON(t, f, http.MethodGet, path, nil, testUserID)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeBody[recommendationsResponse](t, rec)
	if len(body.Recipes) != 1 || body.Recipes[0].Title != "Lentil Stew" {
		t.Fatalf("unexpected recipes %+v", body.Recipes)
	}

	if len(recommender.nutrients) != 2 || recommender.nutrients[0] != "Iron" || recommender.nutrients[1] != "Vitamin D" {
		t.Fatalf("expected non-normal nutrients to be requested, got %v", recommender.nutrients)
	}

	if len(recommender.prefs.Dietary) != 1 || recommender.prefs.Dietary[0] != "vegetarian" {
		t.Fatalf("unexpected dietary preferences %v", recommender.prefs.Dietary)
	}

	if len(recommender.prefs.Allergies) != 1 || recommender.prefs.Allergies[0] != "peanuts" {
		t.Fatalf("unexpected allergies %v", recommender.prefs.Allergies)
	}
}

func TestGetRecommendationsUnavailable(t *testing.T) {
	t.Parallel()

	f := newAPITestApp(newTestServices(newFakeStore(), nil))

	rec := performJSON(t, f, http.MethodGet, "/api/blood-tests/"+uuid.NewString()+"/recommendations", nil, testUserID)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestGetRecommendationsFailure(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	f := newAPITestApp(newTestServices(store, &fakeRecommender{err: recommend.ErrInvalidResponse}))

	created := submitTest(t, f, entry("Iron", 50, "µg/dL"))

	rec := performJSON(t, f, http.MethodGet, "/api/blood-tests/"+created.TestID.String()+"/recommendations", nil, testUserID)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
}
