package services

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"healthChallengeAPI/internal/apperrors"
	"healthChallengeAPI/internal/types/metrics"
	"healthChallengeAPI/utils"
)

// HealthService is the health metrics gateway. Devices sync raw samples into
// the health_samples table and the gateway answers cumulative and bucketed
// aggregate queries over them. Reads are side-effect free.
type HealthService struct {
	db *pgxpool.Pool
}

func NewHealthService(db *pgxpool.Pool) *HealthService {
	return &HealthService{db: db}
}

func (s *HealthService) AddSample(ctx context.Context, userID string, req *metrics.AddSampleRequest) error {
	if !req.Metric.Valid() {
		return fmt.Errorf("metric %q: %w", req.Metric, apperrors.ErrUnsupportedInterval)
	}

	recordedAt := req.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = time.Now()
	}

	query := `
	INSERT INTO health_samples (user_id, metric, value, recorded_at)
	VALUES ($1, $2, $3, $4)
	`

	_, err := s.db.Exec(ctx, query, userID, string(req.Metric), req.Value, recordedAt)
	if err != nil {
		return fmt.Errorf("failed to insert health sample: %w", err)
	}

	return nil
}

// QueryTotal returns the cumulative sum of a metric over [start, end), or the
// average for heart rate. Absence of any samples is an error, not a silent
// zero; zero-fill applies only to bucketed series.
func (s *HealthService) QueryTotal(ctx context.Context, userID string, metric metrics.Type, start, end time.Time) (float64, error) {
	if !metric.Valid() {
		return 0, fmt.Errorf("metric %q: %w", metric, apperrors.ErrUnsupportedInterval)
	}

	agg := "SUM(value)"
	if metric == metrics.TypeHeartRate {
		agg = "AVG(value)"
	}

	query := fmt.Sprintf(`
	SELECT COALESCE(%s, 0), COUNT(*)
	FROM health_samples
	WHERE user_id = $1 AND metric = $2 AND recorded_at >= $3 AND recorded_at < $4
	`, agg)

	var total float64
	var count int
	err := s.db.QueryRow(ctx, query, userID, string(metric), start, end).Scan(&total, &count)
	if err != nil {
		return 0, fmt.Errorf("query %s total: %w: %v", metric, apperrors.ErrDataUnavailable, err)
	}

	if count == 0 {
		return 0, fmt.Errorf("no %s samples in range: %w", metric, apperrors.ErrDataUnavailable)
	}

	return normalizeValue(metric, total), nil
}

// QueryBucketed returns a (label, value) series covering [start, end) at the
// requested granularity, zero-filling buckets with no samples. Month buckets
// are averaged over the number of calendar days in that month so values stay
// comparable across months of different lengths.
func (s *HealthService) QueryBucketed(ctx context.Context, userID string, metric metrics.Type, start, end time.Time, granularity metrics.Granularity) ([]metrics.BucketPoint, error) {
	if !granularity.Valid() {
		return []metrics.BucketPoint{}, fmt.Errorf("granularity %q: %w", granularity, apperrors.ErrUnsupportedInterval)
	}
	if !metric.Valid() {
		return []metrics.BucketPoint{}, fmt.Errorf("metric %q: %w", metric, apperrors.ErrUnsupportedInterval)
	}

	agg := "SUM(value)"
	if metric == metrics.TypeHeartRate {
		agg = "AVG(value)"
	}

	// granularity is validated above, never raw user input. Samples are
	// shifted into the request's UTC offset before truncation so buckets
	// follow the caller's calendar, not the server's.
	query := fmt.Sprintf(`
	SELECT date_trunc('%s', recorded_at AT TIME ZONE $5::interval) AS bucket, %s AS total
	FROM health_samples
	WHERE user_id = $1 AND metric = $2 AND recorded_at >= $3 AND recorded_at < $4
	GROUP BY bucket
	ORDER BY bucket
	`, granularity, agg)

	rows, err := s.db.Query(ctx, query, userID, string(metric), start, end, zoneOffset(start))
	if err != nil {
		return []metrics.BucketPoint{}, fmt.Errorf("query %s series: %w: %v", metric, apperrors.ErrDataUnavailable, err)
	}
	defer rows.Close()

	totals := make(map[int64]float64)
	for rows.Next() {
		var bucket time.Time
		var total float64
		if err := rows.Scan(&bucket, &total); err != nil {
			return []metrics.BucketPoint{}, fmt.Errorf("scan %s bucket: %w: %v", metric, apperrors.ErrDataUnavailable, err)
		}
		// the shifted bucket comes back as a bare timestamp carrying the
		// caller's wall clock; restamp it in the request's location
		local := time.Date(bucket.Year(), bucket.Month(), bucket.Day(), bucket.Hour(), 0, 0, 0, start.Location())
		totals[truncateToBucket(local, granularity).Unix()] = total
	}
	if err := rows.Err(); err != nil {
		return []metrics.BucketPoint{}, fmt.Errorf("iterate %s buckets: %w: %v", metric, apperrors.ErrDataUnavailable, err)
	}

	return fillBuckets(metric, start, end, granularity, totals), nil
}

// fillBuckets walks every bucket of the range in order and pairs it with its
// aggregated total, zero when no samples landed in it.
func fillBuckets(metric metrics.Type, start, end time.Time, granularity metrics.Granularity, totals map[int64]float64) []metrics.BucketPoint {
	series := []metrics.BucketPoint{}

	for cursor := truncateToBucket(start, granularity); cursor.Before(end); cursor = nextBucket(cursor, granularity) {
		value := totals[cursor.Unix()]

		if granularity == metrics.GranularityMonth && metric != metrics.TypeHeartRate {
			value = value / float64(utils.DaysInMonth(cursor))
		}

		series = append(series, metrics.BucketPoint{
			Label: bucketLabel(cursor, granularity),
			Start: cursor,
			Value: normalizeValue(metric, value),
		})
	}

	return series
}

func truncateToBucket(t time.Time, granularity metrics.Granularity) time.Time {
	switch granularity {
	case metrics.GranularityHour:
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
	case metrics.GranularityDay:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	case metrics.GranularityMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	}
	return t
}

func nextBucket(t time.Time, granularity metrics.Granularity) time.Time {
	switch granularity {
	case metrics.GranularityHour:
		return t.Add(time.Hour)
	case metrics.GranularityDay:
		return t.AddDate(0, 0, 1)
	case metrics.GranularityMonth:
		return t.AddDate(0, 1, 0)
	}
	return t
}

func bucketLabel(t time.Time, granularity metrics.Granularity) string {
	switch granularity {
	case metrics.GranularityHour:
		return t.Format("15:04")
	case metrics.GranularityDay:
		return t.Format("Mon 02 Jan")
	case metrics.GranularityMonth:
		return t.Format("Jan 2006")
	}
	return t.Format(time.RFC3339)
}

// zoneOffset renders the UTC offset of t's location as a Postgres interval,
// used to shift recorded_at into the caller's calendar before truncation.
func zoneOffset(t time.Time) string {
	_, secs := t.Zone()
	return fmt.Sprintf("%d seconds", secs)
}

// normalizeValue converts a stored aggregate into the reporting unit.
// Samples are stored in native device units; only distance differs from the
// reporting unit (meters on disk, kilometers out).
func normalizeValue(metric metrics.Type, value float64) float64 {
	if metric == metrics.TypeDistance {
		return value / 1000.0
	}
	return value
}
