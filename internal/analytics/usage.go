package analytics

import (
	"context"
	"hash/fnv"
	"time"

	"github.com/tillerlabs/farmcore/internal/infrastructure/tsdb"
	"github.com/tillerlabs/farmcore/internal/zone"
)

// DefaultHistoryDays is the usage window when the caller gives none.
const DefaultHistoryDays = 7

// MaxHistoryDays caps the usage window.
const MaxHistoryDays = 90

// UsageReport is the water usage history for one farm.
type UsageReport struct {
	FarmID      string            `json:"farmId"`
	Days        int               `json:"days"`
	TotalLitres float64           `json:"totalLitres"`
	Daily       []tsdb.DailyUsage `json:"daily"`
	Synthesized bool              `json:"synthesized"` // true when no real samples existed
}

// Service answers dashboard analytics queries.
type Service struct {
	usage *tsdb.Store
	zones *zone.Registry
}

// NewService creates the analytics service.
func NewService(usage *tsdb.Store, zones *zone.Registry) *Service {
	return &Service{usage: usage, zones: zones}
}

// WaterUsage returns the farm's daily usage over the last days days.
// Out-of-range day counts are clamped rather than rejected.
func (s *Service) WaterUsage(ctx context.Context, farmID string, days int) (*UsageReport, error) {
	if days <= 0 {
		days = DefaultHistoryDays
	}
	if days > MaxHistoryDays {
		days = MaxHistoryDays
	}

	daily, err := s.usage.UsageHistory(ctx, farmID, days)
	if err != nil {
		return nil, err
	}

	report := &UsageReport{
		FarmID: farmID,
		Days:   days,
		Daily:  daily,
	}

	if len(daily) == 0 {
		report.Daily, err = s.synthesize(ctx, farmID, days)
		if err != nil {
			return nil, err
		}
		report.Synthesized = true
	}

	for _, day := range report.Daily {
		report.TotalLitres += day.Litres
	}
	return report, nil
}

// synthesize derives a plausible daily series from the zones' cumulative
// usage counters. The farm total is spread over the window with a small
// deterministic per-day variation so the chart is not a flat line.
func (s *Service) synthesize(ctx context.Context, farmID string, days int) ([]tsdb.DailyUsage, error) {
	zones, err := s.zones.ListZones(ctx, farmID)
	if err != nil {
		return nil, err
	}

	var total float64
	for _, z := range zones {
		total += z.WaterUsage
	}
	if total == 0 {
		return []tsdb.DailyUsage{}, nil
	}

	base := total / float64(days)
	today := time.Now().UTC().Truncate(24 * time.Hour)

	daily := make([]tsdb.DailyUsage, 0, days)
	for i := 0; i < days; i++ {
		date := today.AddDate(0, 0, -i).Format("2006-01-02")
		// Variation in [-20%, +20%], stable per farm and date.
		factor := 0.8 + 0.4*float64(seed(farmID+date)%1000)/1000
		daily = append(daily, tsdb.DailyUsage{
			Date:   date,
			Litres: base * factor,
		})
	}
	return daily, nil
}

// seed hashes a string to a stable non-negative value.
func seed(s string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(s))
	return h.Sum32()
}
