package metrics

import "time"

type Type string

const (
	TypeSteps         Type = "steps"
	TypeCalories      Type = "calories"
	TypeDistance      Type = "distance"
	TypeHeartRate     Type = "heart_rate"
	TypeActiveMinutes Type = "active_minutes"
)

func (t Type) Valid() bool {
	switch t {
	case TypeSteps, TypeCalories, TypeDistance, TypeHeartRate, TypeActiveMinutes:
		return true
	}
	return false
}

// Unit returns the unit samples of this metric are reported in:
// raw counts for steps, kilocalories for energy, kilometers for distance,
// beats/minute for heart rate, minutes for active time.
func (t Type) Unit() string {
	switch t {
	case TypeSteps:
		return "count"
	case TypeCalories:
		return "kcal"
	case TypeDistance:
		return "km"
	case TypeHeartRate:
		return "bpm"
	case TypeActiveMinutes:
		return "min"
	}
	return ""
}

type Granularity string

const (
	GranularityHour  Granularity = "hour"
	GranularityDay   Granularity = "day"
	GranularityMonth Granularity = "month"
)

func (g Granularity) Valid() bool {
	switch g {
	case GranularityHour, GranularityDay, GranularityMonth:
		return true
	}
	return false
}

// BucketPoint is one labeled bucket of a charted series.
type BucketPoint struct {
	Label string    `json:"label"`
	Start time.Time `json:"start"`
	Value float64   `json:"value"`
}

type Sample struct {
	UserID     string    `json:"user_id" db:"user_id"`
	Metric     Type      `json:"metric" db:"metric"`
	Value      float64   `json:"value" db:"value"`
	RecordedAt time.Time `json:"recorded_at" db:"recorded_at"`
}

type AddSampleRequest struct {
	Metric     Type      `json:"metric"`
	Value      float64   `json:"value"`
	RecordedAt time.Time `json:"recorded_at"`
}
