package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/shopsleuth/engine/internal/domain"
	"github.com/shopsleuth/engine/internal/telemetry"
)

// AnalysisRecord is one persisted analysis run summary. Cross-platform runs
// fill the match columns; single-listing runs fill the authenticity score.
type AnalysisRecord struct {
	ID                int64     `json:"id" db:"id"`
	AnalysisID        string    `json:"analysis_id" db:"analysis_id"`
	Kind              string    `json:"kind" db:"kind"`
	ProductTitle      string    `json:"product_title" db:"product_title"`
	SourcePlatform    string    `json:"source_platform" db:"source_platform"`
	SourceURL         string    `json:"source_url" db:"source_url"`
	TotalMatches      int       `json:"total_matches" db:"total_matches"`
	SearchConfidence  float64   `json:"search_confidence" db:"search_confidence"`
	AuthenticityScore *float64  `json:"authenticity_score,omitempty" db:"authenticity_score"`
	Warnings          []string  `json:"warnings" db:"warnings"`
	ProcessingTimeMs  int64     `json:"processing_time_ms" db:"processing_time_ms"`
	AnalyzedAt        time.Time `json:"analyzed_at" db:"analyzed_at"`
}

// HistoryStats represents overall analysis statistics.
type HistoryStats struct {
	TotalRuns           int            `json:"total_runs"`
	AvgSearchConfidence float64        `json:"avg_search_confidence"`
	AvgProcessingTimeMs float64        `json:"avg_processing_time_ms"`
	RunsByKind          map[string]int `json:"runs_by_kind"`
}

// PlatformStat represents run counts for a single source platform.
type PlatformStat struct {
	SourcePlatform string  `json:"source_platform" db:"source_platform"`
	Count          int     `json:"count" db:"count"`
	AvgConfidence  float64 `json:"avg_confidence" db:"avg_confidence"`
}

// AnalysisHistoryRepository handles database operations for analysis history.
type AnalysisHistoryRepository struct {
	db *sqlx.DB
}

// NewAnalysisHistoryRepository creates a new analysis history repository.
func NewAnalysisHistoryRepository(db *sqlx.DB) *AnalysisHistoryRepository {
	return &AnalysisHistoryRepository{db: db}
}

// RecordFromAnalysis builds the history row for a cross-platform run.
func RecordFromAnalysis(a *domain.CrossPlatformAnalysis) *AnalysisRecord {
	return &AnalysisRecord{
		AnalysisID:       a.ID,
		Kind:             telemetry.KindCrossPlatform,
		ProductTitle:     a.OriginalProduct.Title,
		SourcePlatform:   a.OriginalProduct.SourcePlatform,
		SourceURL:        a.OriginalProduct.SourceURL,
		TotalMatches:     a.TotalMatches,
		SearchConfidence: a.SearchConfidence,
		Warnings:         a.Recommendations.Warnings,
		ProcessingTimeMs: a.ProcessingTimeMs,
		AnalyzedAt:       a.AnalyzedAt,
	}
}

// Create inserts a new analysis history record.
func (r *AnalysisHistoryRepository) Create(ctx context.Context, record *AnalysisRecord) error {
	query := `
		INSERT INTO analysis_history (
			analysis_id, kind, product_title, source_platform, source_url,
			total_matches, search_confidence, authenticity_score, warnings,
			processing_time_ms, analyzed_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		record.AnalysisID,
		record.Kind,
		record.ProductTitle,
		record.SourcePlatform,
		record.SourceURL,
		record.TotalMatches,
		record.SearchConfidence,
		record.AuthenticityScore,
		pq.Array(record.Warnings),
		record.ProcessingTimeMs,
		record.AnalyzedAt,
	).Scan(&record.ID)

	if err != nil {
		return fmt.Errorf("failed to create analysis history: %w", err)
	}

	return nil
}

// GetByAnalysisID retrieves a history record by its analysis run ID.
func (r *AnalysisHistoryRepository) GetByAnalysisID(ctx context.Context, analysisID string) (*AnalysisRecord, error) {
	var record AnalysisRecord
	query := `
		SELECT id, analysis_id, kind, product_title, source_platform, source_url,
		       total_matches, search_confidence, authenticity_score, warnings,
		       processing_time_ms, analyzed_at
		FROM analysis_history
		WHERE analysis_id = $1
		LIMIT 1
	`

	err := r.db.QueryRowContext(ctx, query, analysisID).Scan(
		&record.ID,
		&record.AnalysisID,
		&record.Kind,
		&record.ProductTitle,
		&record.SourcePlatform,
		&record.SourceURL,
		&record.TotalMatches,
		&record.SearchConfidence,
		&record.AuthenticityScore,
		pq.Array(&record.Warnings),
		&record.ProcessingTimeMs,
		&record.AnalyzedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("analysis history not found: %s", analysisID)
		}
		return nil, fmt.Errorf("failed to get analysis history: %w", err)
	}

	return &record, nil
}

// Recent retrieves the most recent history records, newest first.
func (r *AnalysisHistoryRepository) Recent(ctx context.Context, limit int) ([]*AnalysisRecord, error) {
	query := `
		SELECT id, analysis_id, kind, product_title, source_platform, source_url,
		       total_matches, search_confidence, authenticity_score, warnings,
		       processing_time_ms, analyzed_at
		FROM analysis_history
		ORDER BY analyzed_at DESC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list analysis history: %w", err)
	}
	defer rows.Close()

	var records []*AnalysisRecord
	for rows.Next() {
		var record AnalysisRecord
		if err := rows.Scan(
			&record.ID,
			&record.AnalysisID,
			&record.Kind,
			&record.ProductTitle,
			&record.SourcePlatform,
			&record.SourceURL,
			&record.TotalMatches,
			&record.SearchConfidence,
			&record.AuthenticityScore,
			pq.Array(&record.Warnings),
			&record.ProcessingTimeMs,
			&record.AnalyzedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan analysis history: %w", err)
		}
		records = append(records, &record)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating analysis history: %w", err)
	}

	return records, nil
}

// GetStats retrieves overall analysis statistics.
func (r *AnalysisHistoryRepository) GetStats(ctx context.Context) (*HistoryStats, error) {
	var stats HistoryStats

	query := `
		SELECT
			COUNT(*) as total_runs,
			COALESCE(AVG(search_confidence), 0) as avg_search_confidence,
			COALESCE(AVG(processing_time_ms), 0) as avg_processing_time_ms
		FROM analysis_history
	`

	err := r.db.QueryRowContext(ctx, query).Scan(
		&stats.TotalRuns,
		&stats.AvgSearchConfidence,
		&stats.AvgProcessingTimeMs,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis stats: %w", err)
	}

	stats.RunsByKind = make(map[string]int)
	kindQuery := `
		SELECT kind, COUNT(*) as count
		FROM analysis_history
		GROUP BY kind
	`

	rows, err := r.db.QueryContext(ctx, kindQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to get kind distribution: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var kind string
		var count int
		if err := rows.Scan(&kind, &count); err != nil {
			return nil, fmt.Errorf("failed to scan kind: %w", err)
		}
		stats.RunsByKind[kind] = count
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating kinds: %w", err)
	}

	return &stats, nil
}

// GetPlatformStats retrieves run distribution by source platform.
func (r *AnalysisHistoryRepository) GetPlatformStats(ctx context.Context) ([]*PlatformStat, error) {
	var stats []*PlatformStat

	query := `
		SELECT
			source_platform,
			COUNT(*) as count,
			COALESCE(AVG(search_confidence), 0) as avg_confidence
		FROM analysis_history
		WHERE source_platform <> ''
		GROUP BY source_platform
		ORDER BY count DESC
		LIMIT 50
	`

	err := r.db.SelectContext(ctx, &stats, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get platform stats: %w", err)
	}

	return stats, nil
}
