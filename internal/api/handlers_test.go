package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopsleuth/engine/internal/database"
	"github.com/shopsleuth/engine/internal/domain"
	"github.com/shopsleuth/engine/internal/fetch"
	"github.com/shopsleuth/engine/internal/listing"
	"github.com/shopsleuth/engine/internal/logger"
	"github.com/shopsleuth/engine/internal/orchestrator"
	"github.com/shopsleuth/engine/internal/platform"
	"github.com/shopsleuth/engine/internal/pod"
	"github.com/shopsleuth/engine/internal/usage"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeAnalyzer struct {
	result *domain.CrossPlatformAnalysis
	err    error
	gotReq orchestrator.Request
}

func (f *fakeAnalyzer) Analyze(_ context.Context, req orchestrator.Request) (*domain.CrossPlatformAnalysis, error) {
	f.gotReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeClassifier struct {
	result *domain.SingleListingAuthenticity
	err    error
	gotIn  listing.Input
}

func (f *fakeClassifier) Classify(_ context.Context, in listing.Input) (*domain.SingleListingAuthenticity, error) {
	f.gotIn = in
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeDetector struct {
	result domain.PODAnalysisResult
	gotIn  pod.Input
}

func (f *fakeDetector) Detect(in pod.Input) domain.PODAnalysisResult {
	f.gotIn = in
	return f.result
}

type fakeFetcher struct {
	page   *fetch.Page
	err    error
	gotURL string
}

func (f *fakeFetcher) Fetch(_ context.Context, pageURL string) (*fetch.Page, error) {
	f.gotURL = pageURL
	if f.err != nil {
		return nil, f.err
	}
	return f.page, nil
}

type fakeHistory struct {
	created   []*database.AnalysisRecord
	createErr error
	records   map[string]*database.AnalysisRecord
	recent    []*database.AnalysisRecord
	gotLimit  int
	stats     *database.HistoryStats
	platforms []*database.PlatformStat
}

func (f *fakeHistory) Create(_ context.Context, record *database.AnalysisRecord) error {
	f.created = append(f.created, record)
	return f.createErr
}

func (f *fakeHistory) GetByAnalysisID(_ context.Context, analysisID string) (*database.AnalysisRecord, error) {
	record, ok := f.records[analysisID]
	if !ok {
		return nil, fmt.Errorf("analysis history not found: %s", analysisID)
	}
	return record, nil
}

func (f *fakeHistory) Recent(_ context.Context, limit int) ([]*database.AnalysisRecord, error) {
	f.gotLimit = limit
	return f.recent, nil
}

func (f *fakeHistory) GetStats(_ context.Context) (*database.HistoryStats, error) {
	return f.stats, nil
}

func (f *fakeHistory) GetPlatformStats(_ context.Context) ([]*database.PlatformStat, error) {
	return f.platforms, nil
}

func sampleAnalysis() *domain.CrossPlatformAnalysis {
	return &domain.CrossPlatformAnalysis{
		ID: "run-123",
		OriginalProduct: domain.ReferenceProduct{
			Title:          "Sony WH-1000XM5 Headphones",
			SourcePlatform: "amazon",
			SourceURL:      "https://amazon.com/dp/B09XS7JWHH",
		},
		Matches: []domain.CandidateMatch{
			{Platform: "ebay", Title: "Sony WH-1000XM5", MatchConfidence: 90},
		},
		TotalMatches:     1,
		SearchConfidence: 75,
		AnalyzedAt:       time.Now().UTC(),
	}
}

func sampleListing() *domain.SingleListingAuthenticity {
	return &domain.SingleListingAuthenticity{
		AuthenticityScore: 72,
		Confidence:        60,
		Risk: domain.RiskAssessment{
			Level:   domain.RiskMedium,
			Factors: []string{"few seller reviews"},
		},
		AnalyzedAt: time.Now().UTC(),
	}
}

func newTestRouter(t *testing.T, cfg HandlerConfig) *gin.Engine {
	t.Helper()

	if cfg.Registry == nil {
		cfg.Registry = platform.NewRegistry()
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.NewNop()
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "engine-test"
		cfg.Version = "test"
	}

	router := gin.New()
	SetupRoutes(router, NewHandler(cfg), nil)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAnalyzeCrossPlatform(t *testing.T) {
	analyzer := &fakeAnalyzer{result: sampleAnalysis()}
	history := &fakeHistory{}
	router := newTestRouter(t, HandlerConfig{
		Analyzer: analyzer,
		History:  history,
	})

	w := doJSON(t, router, http.MethodPost, "/api/v1/analyze/cross-platform", CrossPlatformRequest{
		Product: domain.ReferenceProduct{
			Title:          "Sony WH-1000XM5 Headphones",
			SourcePlatform: "amazon",
			SourceURL:      "https://amazon.com/dp/B09XS7JWHH",
		},
		UserID: "user-1",
		OCR:    &OCRSignals{Barcode: "0027242923423"},
	})

	require.Equal(t, http.StatusOK, w.Code)

	var resp AnalysisResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "run-123", resp.Result.ID)
	assert.Equal(t, 1, resp.Result.TotalMatches)

	assert.Equal(t, "user-1", analyzer.gotReq.UserID)
	require.NotNil(t, analyzer.gotReq.OCR)
	assert.Equal(t, "0027242923423", analyzer.gotReq.OCR.Barcode)

	require.Len(t, history.created, 1)
	assert.Equal(t, "run-123", history.created[0].AnalysisID)
}

func TestAnalyzeCrossPlatformInvalidBody(t *testing.T) {
	router := newTestRouter(t, HandlerConfig{Analyzer: &fakeAnalyzer{}})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze/cross-platform", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalyzeCrossPlatformErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid url", domain.ErrInvalidURL, http.StatusBadRequest},
		{"empty product name", domain.ErrEmptyProductName, http.StatusBadRequest},
		{"quota exceeded", domain.ErrQuotaExceeded, http.StatusTooManyRequests},
		{"cancelled", context.Canceled, http.StatusServiceUnavailable},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(t, HandlerConfig{Analyzer: &fakeAnalyzer{err: tt.err}})

			w := doJSON(t, router, http.MethodPost, "/api/v1/analyze/cross-platform", CrossPlatformRequest{
				Product: domain.ReferenceProduct{Title: "Widget", SourceURL: "https://example.com/p/1"},
			})

			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestAnalyzeListing(t *testing.T) {
	classifier := &fakeClassifier{result: sampleListing()}
	detector := &fakeDetector{result: domain.PODAnalysisResult{
		IsPOD:      true,
		Confidence: 80,
		Provider:   "Printful",
	}}
	history := &fakeHistory{}
	router := newTestRouter(t, HandlerConfig{
		Classifier: classifier,
		Detector:   detector,
		History:    history,
	})

	price := 24.99
	w := doJSON(t, router, http.MethodPost, "/api/v1/analyze/listing", ListingRequest{
		URL:         "https://etsy.com/listing/987",
		Platform:    "etsy",
		Title:       "Handmade Mountain Art Print",
		Description: "Printed on demand and shipped from our fulfillment partner.",
		Price:       &price,
	})

	require.Equal(t, http.StatusOK, w.Code)

	var resp ListingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Result.POD)
	assert.True(t, resp.Result.POD.IsPOD)
	assert.Equal(t, "Printful", resp.Result.POD.Provider)
	assert.Equal(t, "etsy", classifier.gotIn.Platform)

	require.Len(t, history.created, 1)
	record := history.created[0]
	assert.Equal(t, "listing", record.Kind)
	assert.Equal(t, "etsy", record.SourcePlatform)
	require.NotNil(t, record.AuthenticityScore)
	assert.InDelta(t, 72, *record.AuthenticityScore, 0.001)
	assert.Equal(t, []string{"few seller reviews"}, record.Warnings)
	assert.NotEmpty(t, record.AnalysisID)
}

func TestAnalyzeListingFetchesPageContent(t *testing.T) {
	classifier := &fakeClassifier{result: sampleListing()}
	detector := &fakeDetector{}
	fetcher := &fakeFetcher{page: &fetch.Page{
		URL:    "https://etsy.com/listing/987",
		Title:  "Galaxy Cat T-Shirt",
		Text:   "Printed on demand and fulfilled by Printful.",
		Status: fetch.StatusOK,
	}}
	router := newTestRouter(t, HandlerConfig{
		Classifier: classifier,
		Detector:   detector,
		Fetcher:    fetcher,
	})

	w := doJSON(t, router, http.MethodPost, "/api/v1/analyze/listing", ListingRequest{
		URL:      "https://etsy.com/listing/987",
		Platform: "etsy",
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://etsy.com/listing/987", fetcher.gotURL)

	// Both analyzers see the fetched page text, not the empty request body.
	assert.Equal(t, "Galaxy Cat T-Shirt", classifier.gotIn.Title)
	assert.Equal(t, "Printed on demand and fulfilled by Printful.", classifier.gotIn.Description)
	assert.Equal(t, "Printed on demand and fulfilled by Printful.", detector.gotIn.Description)
}

func TestAnalyzeListingClientTextSkipsFetch(t *testing.T) {
	classifier := &fakeClassifier{result: sampleListing()}
	fetcher := &fakeFetcher{page: &fetch.Page{Status: fetch.StatusOK, Text: "should not be used"}}
	router := newTestRouter(t, HandlerConfig{
		Classifier: classifier,
		Detector:   &fakeDetector{},
		Fetcher:    fetcher,
	})

	w := doJSON(t, router, http.MethodPost, "/api/v1/analyze/listing", ListingRequest{
		URL:         "https://etsy.com/listing/987",
		Platform:    "etsy",
		Title:       "Handmade Bowl",
		Description: "Hand carved walnut bowl.",
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, fetcher.gotURL, "a request with its own text must not trigger a fetch")
	assert.Equal(t, "Hand carved walnut bowl.", classifier.gotIn.Description)
}

func TestAnalyzeListingFetchFailureDegrades(t *testing.T) {
	classifier := &fakeClassifier{result: sampleListing()}
	fetcher := &fakeFetcher{page: &fetch.Page{Status: fetch.StatusForbidden, HTTPStatus: http.StatusForbidden}}
	router := newTestRouter(t, HandlerConfig{
		Classifier: classifier,
		Detector:   &fakeDetector{},
		Fetcher:    fetcher,
	})

	w := doJSON(t, router, http.MethodPost, "/api/v1/analyze/listing", ListingRequest{
		URL:      "https://etsy.com/listing/987",
		Platform: "etsy",
		Title:    "Handmade Bowl",
	})

	// The analysis proceeds on the request's own text.
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Handmade Bowl", classifier.gotIn.Title)
	assert.Empty(t, classifier.gotIn.Description)
}

func TestAnalyzeListingQuotaExceeded(t *testing.T) {
	classifier := &fakeClassifier{result: sampleListing()}
	router := newTestRouter(t, HandlerConfig{
		Classifier: classifier,
		Detector:   &fakeDetector{},
		Quota:      usage.NewMemoryTracker(0),
	})

	w := doJSON(t, router, http.MethodPost, "/api/v1/analyze/listing", ListingRequest{
		Platform: "etsy",
		Title:    "Anything",
		UserID:   "user-1",
	})

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Empty(t, classifier.gotIn.Platform, "classifier should not run after rejection")
}

func TestAnalyzeListingClassifierError(t *testing.T) {
	router := newTestRouter(t, HandlerConfig{
		Classifier: &fakeClassifier{err: domain.ErrNoContent},
		Detector:   &fakeDetector{},
	})

	w := doJSON(t, router, http.MethodPost, "/api/v1/analyze/listing", ListingRequest{Platform: "ebay"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetHistory(t *testing.T) {
	history := &fakeHistory{
		recent: []*database.AnalysisRecord{
			{AnalysisID: "run-1", Kind: "cross_platform"},
			{AnalysisID: "run-2", Kind: "listing"},
		},
	}
	router := newTestRouter(t, HandlerConfig{History: history})

	w := doJSON(t, router, http.MethodGet, "/api/v1/analyze/history", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 20, history.gotLimit, "default limit applies")

	var resp struct {
		History []*database.AnalysisRecord `json:"history"`
		Total   int                        `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Total)
}

func TestGetHistoryLimitValidation(t *testing.T) {
	history := &fakeHistory{}
	router := newTestRouter(t, HandlerConfig{History: history})

	w := doJSON(t, router, http.MethodGet, "/api/v1/analyze/history?limit=nope", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/analyze/history?limit=0", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/analyze/history?limit=5000", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 100, history.gotLimit, "limit is clamped to the maximum")
}

func TestGetHistoryNotConfigured(t *testing.T) {
	router := newTestRouter(t, HandlerConfig{})

	w := doJSON(t, router, http.MethodGet, "/api/v1/analyze/history", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/analyze/history/run-1", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/analyze/stats", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestGetHistoryRecord(t *testing.T) {
	history := &fakeHistory{
		records: map[string]*database.AnalysisRecord{
			"run-1": {AnalysisID: "run-1", ProductTitle: "Widget"},
		},
	}
	router := newTestRouter(t, HandlerConfig{History: history})

	w := doJSON(t, router, http.MethodGet, "/api/v1/analyze/history/run-1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var record database.AnalysisRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &record))
	assert.Equal(t, "Widget", record.ProductTitle)

	w = doJSON(t, router, http.MethodGet, "/api/v1/analyze/history/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetStats(t *testing.T) {
	history := &fakeHistory{
		stats: &database.HistoryStats{
			TotalRuns:           12,
			AvgSearchConfidence: 64.2,
			RunsByKind:          map[string]int{"cross_platform": 9, "listing": 3},
		},
		platforms: []*database.PlatformStat{{SourcePlatform: "ebay", Count: 30}},
	}
	router := newTestRouter(t, HandlerConfig{History: history})

	w := doJSON(t, router, http.MethodGet, "/api/v1/analyze/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Stats     *database.HistoryStats   `json:"stats"`
		Platforms []*database.PlatformStat `json:"platforms"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 12, resp.Stats.TotalRuns)
	require.Len(t, resp.Platforms, 1)
	assert.Equal(t, "ebay", resp.Platforms[0].SourcePlatform)
}

func TestListPlatforms(t *testing.T) {
	router := newTestRouter(t, HandlerConfig{})

	w := doJSON(t, router, http.MethodGet, "/api/v1/platforms", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp PlatformsListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, len(resp.Platforms), resp.Total)
	assert.NotEmpty(t, resp.Platforms)

	var found bool
	for _, p := range resp.Platforms {
		if p.Name == "amazon" {
			found = true
			assert.InDelta(t, 90, p.TrustWeight, 0.001)
		}
	}
	assert.True(t, found, "amazon should be registered")
}

func TestGetQuota(t *testing.T) {
	router := newTestRouter(t, HandlerConfig{Quota: usage.NewMemoryTracker(50)})

	w := doJSON(t, router, http.MethodGet, "/api/v1/quota/user-1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Remaining int `json:"remaining"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 50, resp.Remaining)
}

func TestGetQuotaNotConfigured(t *testing.T) {
	router := newTestRouter(t, HandlerConfig{})

	w := doJSON(t, router, http.MethodGet, "/api/v1/quota/user-1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Remaining int `json:"remaining"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, usage.Unlimited, resp.Remaining)
}

func TestHealthCheck(t *testing.T) {
	router := newTestRouter(t, HandlerConfig{ServiceName: "shopsleuth-engine", Version: "1.2.3"})

	w := doJSON(t, router, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp["status"])
	assert.Equal(t, "shopsleuth-engine", resp["service"])
	assert.Equal(t, "1.2.3", resp["version"])
}

func TestReadyCheck(t *testing.T) {
	router := newTestRouter(t, HandlerConfig{
		ReadyChecks: map[string]func() error{
			"database": func() error { return nil },
			"redis":    func() error { return errors.New("connection refused") },
		},
	})

	w := doJSON(t, router, http.MethodGet, "/ready", nil)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	var resp struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "not ready", resp.Status)
	assert.Equal(t, "ok", resp.Checks["database"])
	assert.Equal(t, "connection refused", resp.Checks["redis"])
}

func TestReadyCheckNoDependencies(t *testing.T) {
	router := newTestRouter(t, HandlerConfig{})

	w := doJSON(t, router, http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
