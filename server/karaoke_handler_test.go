package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"OnAirFM/core/live"
	"OnAirFM/model"
	"OnAirFM/repository"

	"github.com/gorilla/mux"
)

// mockKaraokeRepo records calls and returns canned results.
type mockKaraokeRepo struct {
	createdFile  *model.KaraokeFile
	createErr    error
	updateID     int64
	updatePatch  model.KaraokePatch
	updateErr    error
	getFile      *model.KaraokeFile
	getErr       error
	searchParams model.KaraokeSearchParams
	searchResult *model.KaraokeSearchResult
	listParams   model.KaraokeListParams
	listResult   *model.KaraokeListResult
	playedID     int64
	ratedID      int64
	ratedValue   float64
	ratingErr    error
}

func (m *mockKaraokeRepo) Create(ctx context.Context, file *model.KaraokeFile) (int64, error) {
	m.createdFile = file
	if m.createErr != nil {
		return 0, m.createErr
	}
	return 42, nil
}

func (m *mockKaraokeRepo) Update(ctx context.Context, id int64, patch model.KaraokePatch) error {
	m.updateID = id
	m.updatePatch = patch
	return m.updateErr
}

func (m *mockKaraokeRepo) GetByID(ctx context.Context, id int64) (*model.KaraokeFile, error) {
	return m.getFile, m.getErr
}

func (m *mockKaraokeRepo) Search(ctx context.Context, params model.KaraokeSearchParams) (*model.KaraokeSearchResult, error) {
	m.searchParams = params
	if m.searchResult == nil {
		return &model.KaraokeSearchResult{Data: []*model.KaraokeFile{}}, nil
	}
	return m.searchResult, nil
}

func (m *mockKaraokeRepo) List(ctx context.Context, params model.KaraokeListParams) (*model.KaraokeListResult, error) {
	m.listParams = params
	if m.listResult == nil {
		return &model.KaraokeListResult{Files: []*model.KaraokeFile{}}, nil
	}
	return m.listResult, nil
}

func (m *mockKaraokeRepo) IncrementPlayCount(ctx context.Context, id int64) error {
	m.playedID = id
	return nil
}

func (m *mockKaraokeRepo) UpdateRating(ctx context.Context, id int64, rating float64) error {
	m.ratedID = id
	m.ratedValue = rating
	return m.ratingErr
}

func (m *mockKaraokeRepo) GetDuplicates(ctx context.Context) ([]model.KaraokeDuplicate, error) {
	return []model.KaraokeDuplicate{}, nil
}

func (m *mockKaraokeRepo) GetStats(ctx context.Context) (*model.KaraokeStats, error) {
	return &model.KaraokeStats{}, nil
}

func newTestHandler(repo repository.KaraokeRepository) (*APIHandler, *live.Hub) {
	hub := live.NewHub()
	go hub.Run()
	return &APIHandler{karaokeRepo: repo, hub: hub}, hub
}

// muxSetVars invokes a handler with route variables injected the way the
// router would.
func muxSetVars(req *http.Request, vars map[string]string, handler http.HandlerFunc, rec *httptest.ResponseRecorder) {
	handler(rec, mux.SetURLVars(req, vars))
}

func TestSearchKaraokeHandlerParsesParams(t *testing.T) {
	repo := &mockKaraokeRepo{}
	h, _ := newTestHandler(repo)

	req := httptest.NewRequest(http.MethodGet,
		"/api/karaoke/search?query=queen&language=en&rating_min=3.5&difficulty_max=4&is_explicit=false&sort_by=rating&sort_order=asc&page=2&per_page=50", nil)
	rec := httptest.NewRecorder()
	h.SearchKaraokeHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	p := repo.searchParams
	if p.Query != "queen" || p.Language != "en" {
		t.Errorf("text params = %+v", p)
	}
	if p.RatingMin == nil || *p.RatingMin != 3.5 {
		t.Errorf("RatingMin = %v", p.RatingMin)
	}
	if p.RatingMax != nil {
		t.Errorf("absent RatingMax should stay nil, got %v", *p.RatingMax)
	}
	if p.DifficultyMax == nil || *p.DifficultyMax != 4 {
		t.Errorf("DifficultyMax = %v", p.DifficultyMax)
	}
	if p.IsExplicit == nil || *p.IsExplicit != false {
		t.Errorf("IsExplicit = %v", p.IsExplicit)
	}
	if p.SortBy != "rating" || p.SortOrder != "asc" || p.Page != 2 || p.PerPage != 50 {
		t.Errorf("paging params = %+v", p)
	}
}

func TestCreateKaraokeHandlerDefaultsActive(t *testing.T) {
	repo := &mockKaraokeRepo{}
	h, _ := newTestHandler(repo)

	body := `{"title":"Song","artist":"Band","language":"en","fileUrl":"/files/x.mp3","fileSize":1000,"mimeType":"audio/mpeg"}`
	req := httptest.NewRequest(http.MethodPost, "/api/admin/karaoke", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.CreateKaraokeHandler(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if repo.createdFile == nil || !repo.createdFile.IsActive {
		t.Error("omitted isActive should default to true")
	}

	var resp map[string]int64
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["id"] != 42 {
		t.Errorf("id = %d, want 42", resp["id"])
	}
}

func TestCreateKaraokeHandlerExplicitInactive(t *testing.T) {
	repo := &mockKaraokeRepo{}
	h, _ := newTestHandler(repo)

	body := `{"title":"Song","artist":"Band","language":"en","fileUrl":"/files/x.mp3","fileSize":1000,"mimeType":"audio/mpeg","isActive":false}`
	req := httptest.NewRequest(http.MethodPost, "/api/admin/karaoke", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.CreateKaraokeHandler(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d", rec.Code)
	}
	if repo.createdFile.IsActive {
		t.Error("explicit isActive=false was overridden")
	}
}

func TestCreateKaraokeHandlerValidationError(t *testing.T) {
	repo := &mockKaraokeRepo{createErr: &repository.ValidationError{Message: "Title is required"}}
	h, _ := newTestHandler(repo)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/karaoke", strings.NewReader(`{"artist":"Band"}`))
	rec := httptest.NewRecorder()
	h.CreateKaraokeHandler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["error"] != "Title is required" {
		t.Errorf("error = %q, validation message should pass through", resp["error"])
	}
}

func TestUpdateKaraokeHandlerErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not found", fmt.Errorf("karaoke file 9: %w", repository.ErrNotFound), http.StatusNotFound},
		{"validation", &repository.ValidationError{Message: "Invalid mime type"}, http.StatusBadRequest},
		{"internal", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockKaraokeRepo{updateErr: tt.err}
			h, _ := newTestHandler(repo)

			req := httptest.NewRequest(http.MethodPut, "/api/admin/karaoke/9", strings.NewReader(`{"title":"New"}`))
			rec := httptest.NewRecorder()
			muxSetVars(req, map[string]string{"id": "9"}, h.UpdateKaraokeHandler, rec)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusInternalServerError {
				if strings.Contains(rec.Body.String(), "connection reset") {
					t.Error("internal error detail leaked to the client")
				}
			}
		})
	}
}

func TestUpdateKaraokeHandlerPassesPatch(t *testing.T) {
	repo := &mockKaraokeRepo{}
	h, _ := newTestHandler(repo)

	req := httptest.NewRequest(http.MethodPut, "/api/admin/karaoke/7", strings.NewReader(`{"title":"Renamed","isExplicit":true}`))
	rec := httptest.NewRecorder()
	muxSetVars(req, map[string]string{"id": "7"}, h.UpdateKaraokeHandler, rec)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if repo.updateID != 7 {
		t.Errorf("updateID = %d", repo.updateID)
	}
	if repo.updatePatch.Title == nil || *repo.updatePatch.Title != "Renamed" {
		t.Errorf("patch title = %v", repo.updatePatch.Title)
	}
	if repo.updatePatch.Artist != nil {
		t.Error("absent fields should stay nil in the patch")
	}
	if repo.updatePatch.IsExplicit == nil || !*repo.updatePatch.IsExplicit {
		t.Errorf("patch isExplicit = %v", repo.updatePatch.IsExplicit)
	}
}

func TestGetKaraokeHandlerNotFound(t *testing.T) {
	repo := &mockKaraokeRepo{getFile: nil}
	h, _ := newTestHandler(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/karaoke/123", nil)
	rec := httptest.NewRecorder()
	muxSetVars(req, map[string]string{"id": "123"}, h.GetKaraokeHandler, rec)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestGetKaraokeHandlerBadID(t *testing.T) {
	repo := &mockKaraokeRepo{}
	h, _ := newTestHandler(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/karaoke/abc", nil)
	rec := httptest.NewRecorder()
	muxSetVars(req, map[string]string{"id": "abc"}, h.GetKaraokeHandler, rec)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestPlayKaraokeHandler(t *testing.T) {
	repo := &mockKaraokeRepo{}
	h, _ := newTestHandler(repo)

	req := httptest.NewRequest(http.MethodPost, "/api/karaoke/55/play", nil)
	rec := httptest.NewRecorder()
	muxSetVars(req, map[string]string{"id": "55"}, h.PlayKaraokeHandler, rec)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if repo.playedID != 55 {
		t.Errorf("playedID = %d, want 55", repo.playedID)
	}
}

func TestRateKaraokeHandler(t *testing.T) {
	repo := &mockKaraokeRepo{}
	h, _ := newTestHandler(repo)

	req := httptest.NewRequest(http.MethodPost, "/api/karaoke/3/rate", strings.NewReader(`{"rating":4.5}`))
	rec := httptest.NewRecorder()
	muxSetVars(req, map[string]string{"id": "3"}, h.RateKaraokeHandler, rec)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if repo.ratedID != 3 || repo.ratedValue != 4.5 {
		t.Errorf("rated %d with %v", repo.ratedID, repo.ratedValue)
	}
}

func TestRateKaraokeHandlerOutOfRange(t *testing.T) {
	repo := &mockKaraokeRepo{ratingErr: &repository.ValidationError{Message: "Rating must be between 0 and 5"}}
	h, _ := newTestHandler(repo)

	req := httptest.NewRequest(http.MethodPost, "/api/karaoke/3/rate", strings.NewReader(`{"rating":6}`))
	rec := httptest.NewRecorder()
	muxSetVars(req, map[string]string{"id": "3"}, h.RateKaraokeHandler, rec)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestListKaraokeHandlerParsesParams(t *testing.T) {
	repo := &mockKaraokeRepo{}
	h, _ := newTestHandler(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/karaoke?page=3&limit=25&search=abba&sort=title&order=asc&filter=clean", nil)
	rec := httptest.NewRecorder()
	h.ListKaraokeHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	want := model.KaraokeListParams{Page: 3, Limit: 25, Search: "abba", Sort: "title", Order: "asc", Filter: "clean"}
	if repo.listParams != want {
		t.Errorf("params = %+v, want %+v", repo.listParams, want)
	}
}
