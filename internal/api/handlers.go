package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shopsleuth/engine/internal/config"
	"github.com/shopsleuth/engine/internal/database"
	"github.com/shopsleuth/engine/internal/domain"
	"github.com/shopsleuth/engine/internal/fetch"
	"github.com/shopsleuth/engine/internal/listing"
	"github.com/shopsleuth/engine/internal/logger"
	"github.com/shopsleuth/engine/internal/orchestrator"
	"github.com/shopsleuth/engine/internal/platform"
	"github.com/shopsleuth/engine/internal/pod"
	"github.com/shopsleuth/engine/internal/telemetry"
	"github.com/shopsleuth/engine/internal/usage"
)

// Analyzer runs a full cross-platform analysis.
type Analyzer interface {
	Analyze(ctx context.Context, req orchestrator.Request) (*domain.CrossPlatformAnalysis, error)
}

// ListingClassifier analyzes a single listing's text and metadata.
type ListingClassifier interface {
	Classify(ctx context.Context, in listing.Input) (*domain.SingleListingAuthenticity, error)
}

// PODDetector scores a listing for print-on-demand fulfillment.
type PODDetector interface {
	Detect(in pod.Input) domain.PODAnalysisResult
}

// PageFetcher retrieves listing page content when the client sends a URL
// without the page text.
type PageFetcher interface {
	Fetch(ctx context.Context, pageURL string) (*fetch.Page, error)
}

// HistoryStore persists and retrieves analysis run summaries.
type HistoryStore interface {
	Create(ctx context.Context, record *database.AnalysisRecord) error
	GetByAnalysisID(ctx context.Context, analysisID string) (*database.AnalysisRecord, error)
	Recent(ctx context.Context, limit int) ([]*database.AnalysisRecord, error)
	GetStats(ctx context.Context) (*database.HistoryStats, error)
	GetPlatformStats(ctx context.Context) ([]*database.PlatformStat, error)
}

// Handler handles HTTP requests for the engine API.
type Handler struct {
	analyzer   Analyzer
	classifier ListingClassifier
	detector   PODDetector
	fetcher    PageFetcher // nil disables page-content fetching
	registry   *platform.Registry
	history    HistoryStore // nil when persistence is not configured
	quota      usage.Tracker
	telemetry  *telemetry.Provider
	logger     logger.Logger

	serviceName string
	version     string
	readyChecks map[string]func() error
}

// HandlerConfig bundles the handler's collaborators. History, quota and
// telemetry are optional.
type HandlerConfig struct {
	Analyzer   Analyzer
	Classifier ListingClassifier
	Detector   PODDetector
	Fetcher    PageFetcher
	Registry   *platform.Registry
	History    HistoryStore
	Quota      usage.Tracker
	Telemetry  *telemetry.Provider
	Logger     logger.Logger

	ServiceName string
	Version     string
	ReadyChecks map[string]func() error
}

// NewHandler creates a new API handler.
func NewHandler(cfg HandlerConfig) *Handler {
	log := cfg.Logger
	if log == nil {
		log = logger.NewNop()
	}
	return &Handler{
		analyzer:   cfg.Analyzer,
		classifier: cfg.Classifier,
		detector:   cfg.Detector,
		fetcher:    cfg.Fetcher,
		registry:   cfg.Registry,
		history:    cfg.History,
		quota:      cfg.Quota,
		telemetry:  cfg.Telemetry,
		logger:     log,

		serviceName: cfg.ServiceName,
		version:     cfg.Version,
		readyChecks: cfg.ReadyChecks,
	}
}

// AnalyzeCrossPlatform handles POST /api/v1/analyze/cross-platform.
func (h *Handler) AnalyzeCrossPlatform(c *gin.Context) {
	var req CrossPlatformRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid cross-platform request", logger.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.logger.Info("analyzing product",
		logger.String("title", req.Product.Title),
		logger.String("source_platform", req.Product.SourcePlatform))

	runReq := orchestrator.Request{Product: req.Product, UserID: req.UserID}
	if req.OCR != nil {
		runReq.OCR = &orchestrator.RequestSignals{
			Barcode: req.OCR.Barcode,
			Brand:   req.OCR.Brand,
			Model:   req.OCR.Model,
		}
	}

	analysis, err := h.analyzer.Analyze(c.Request.Context(), runReq)
	if err != nil {
		h.logger.Warn("analysis failed",
			logger.String("title", req.Product.Title),
			logger.Error(err))
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	h.persistRecord(c.Request.Context(), database.RecordFromAnalysis(analysis))

	c.JSON(http.StatusOK, AnalysisResponse{Result: analysis})
}

// AnalyzeListing handles POST /api/v1/analyze/listing.
func (h *Handler) AnalyzeListing(c *gin.Context) {
	var req ListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid listing request", logger.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if h.quota != nil && req.UserID != "" {
		if _, err := h.quota.CheckAndIncrement(c.Request.Context(), req.UserID); err != nil {
			if h.telemetry != nil {
				h.telemetry.RecordQuotaRejection()
			}
			c.JSON(statusForError(err), gin.H{"error": err.Error()})
			return
		}
	}

	started := time.Now()
	if h.telemetry != nil {
		h.telemetry.RecordAnalysisStart(telemetry.KindListing)
	}

	title, description := h.resolveListingText(c.Request.Context(), &req)

	result, err := h.classifier.Classify(c.Request.Context(), listing.Input{
		URL:           req.URL,
		Platform:      req.Platform,
		Title:         title,
		Description:   description,
		Price:         req.Price,
		MarketAverage: req.MarketAverage,
		Store:         req.Store,
	})
	if err != nil {
		if h.telemetry != nil {
			h.telemetry.RecordAnalysisFailure(telemetry.KindListing, "no_content")
		}
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	podResult := h.detector.Detect(pod.Input{
		URL:         req.URL,
		Title:       title,
		Description: description,
	})
	result.POD = &podResult

	if h.telemetry != nil {
		h.telemetry.RecordAnalysisComplete(telemetry.KindListing, time.Since(started))
		if podResult.IsPOD {
			h.telemetry.RecordPODDetection()
		}
	}

	score := result.AuthenticityScore
	h.persistRecord(c.Request.Context(), &database.AnalysisRecord{
		AnalysisID:        uuid.NewString(),
		Kind:              telemetry.KindListing,
		ProductTitle:      title,
		SourcePlatform:    req.Platform,
		SourceURL:         req.URL,
		AuthenticityScore: &score,
		Warnings:          result.Risk.Factors,
		ProcessingTimeMs:  time.Since(started).Milliseconds(),
		AnalyzedAt:        result.AnalyzedAt,
	})

	c.JSON(http.StatusOK, ListingResponse{Result: result})
}

// resolveListingText returns the title and description to analyze. When the
// client sends a URL without a description, the page is fetched and its
// extracted text stands in; a failed or rejected fetch degrades to whatever
// text the request carried.
func (h *Handler) resolveListingText(ctx context.Context, req *ListingRequest) (title, description string) {
	title = req.Title
	description = req.Description

	if h.fetcher == nil || req.URL == "" || description != "" {
		return title, description
	}

	page, err := h.fetcher.Fetch(ctx, req.URL)
	if err != nil {
		h.logger.Warn("listing page fetch failed",
			logger.String("url", req.URL),
			logger.Error(err))
		return title, description
	}
	if page.Status != fetch.StatusOK {
		h.logger.Warn("listing page fetch rejected",
			logger.String("url", req.URL),
			logger.String("status", string(page.Status)),
			logger.Int("http_status", page.HTTPStatus))
		return title, description
	}

	description = page.Text
	if title == "" {
		title = page.Title
	}
	return title, description
}

// GetHistory handles GET /api/v1/analyze/history.
func (h *Handler) GetHistory(c *gin.Context) {
	if h.history == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "analysis history is not configured"})
		return
	}

	defaultLimit, maxLimit := config.HistoryLimits()
	limit := defaultLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = min(parsed, maxLimit)
	}

	records, err := h.history.Recent(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("failed to list history", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load history"})
		return
	}
	if records == nil {
		records = []*database.AnalysisRecord{}
	}

	c.JSON(http.StatusOK, gin.H{"history": records, "total": len(records)})
}

// GetHistoryRecord handles GET /api/v1/analyze/history/:id.
func (h *Handler) GetHistoryRecord(c *gin.Context) {
	if h.history == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "analysis history is not configured"})
		return
	}

	record, err := h.history.GetByAnalysisID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "analysis not found"})
		return
	}

	c.JSON(http.StatusOK, record)
}

// GetStats handles GET /api/v1/analyze/stats.
func (h *Handler) GetStats(c *gin.Context) {
	if h.history == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "analysis history is not configured"})
		return
	}

	stats, err := h.history.GetStats(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to load stats", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load stats"})
		return
	}

	platforms, err := h.history.GetPlatformStats(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to load platform stats", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats, "platforms": platforms})
}

// ListPlatforms handles GET /api/v1/platforms.
func (h *Handler) ListPlatforms(c *gin.Context) {
	infos := h.registry.All()

	response := make([]PlatformResponse, len(infos))
	for i, info := range infos {
		response[i] = toPlatformResponse(info)
	}

	c.JSON(http.StatusOK, PlatformsListResponse{
		Platforms: response,
		Total:     len(response),
	})
}

// GetQuota handles GET /api/v1/quota/:user_id.
func (h *Handler) GetQuota(c *gin.Context) {
	if h.quota == nil {
		c.JSON(http.StatusOK, gin.H{"remaining": usage.Unlimited})
		return
	}

	remaining, err := h.quota.Remaining(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		h.logger.Error("failed to read quota", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read quota"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"remaining": remaining})
}

// persistRecord writes a history row when persistence is configured. A
// failed write degrades to a log entry; the analysis response is unaffected.
func (h *Handler) persistRecord(ctx context.Context, record *database.AnalysisRecord) {
	if h.history == nil {
		return
	}

	err := h.history.Create(ctx, record)
	if h.telemetry != nil {
		h.telemetry.RecordHistoryWrite(err != nil)
	}
	if err != nil {
		h.logger.Error("failed to persist analysis history",
			logger.String("analysis_id", record.AnalysisID),
			logger.Error(err))
	}
}

// statusForError maps engine errors to HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidURL),
		errors.Is(err, domain.ErrEmptyProductName),
		errors.Is(err, domain.ErrNoContent):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrQuotaExceeded):
		return http.StatusTooManyRequests
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
