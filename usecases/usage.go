package usecases

import (
	"context"
	"sort"
	"time"

	"github.com/rpupo63/chantier-backend/errs"
	"github.com/rpupo63/chantier-backend/metrics"
	"github.com/rpupo63/chantier-backend/models"
)

const (
	FeaturePortfolio = "portfolio"
	FeatureReporting = "reporting"
	FeatureBudgets   = "budgets"
	FeaturePlanning  = "planning"

	usageWindowDays = 30
)

var featureLabels = map[string]string{
	FeaturePortfolio: "Portefeuille",
	FeatureReporting: "Reporting",
	FeatureBudgets:   "Budget",
	FeaturePlanning:  "Planning",
}

// FeatureLabel is the display name of a feature key. Unknown keys are shown as is.
func FeatureLabel(key string) string {
	if label, ok := featureLabels[key]; ok {
		return label
	}
	return key
}

type UsageUseCase struct {
	base
}

type FeatureUsageSummary struct {
	FeatureKey string    `json:"feature_key"`
	Label      string    `json:"label"`
	DaysUsed   int       `json:"days_used"`
	LastUsedAt time.Time `json:"last_used_at"`
}

// Track records that the account used key today. A second call on the same
// UTC day is a no-op.
func (uc *UsageUseCase) Track(ctx context.Context, a Actor, key string) error {
	now := uc.now().UTC()
	from := startOfDay(now)

	count, err := uc.db.FeatureUsageRepo().CountBetween(ctx, a.AccountID, key, from, from.Add(24*time.Hour))
	if err != nil {
		return errs.NewDatabaseError("count", "feature usage", err)
	}
	if count > 0 {
		return nil
	}

	usage := models.FeatureUsage{FeatureKey: key, UsedAt: now}
	if err := uc.db.FeatureUsageRepo().Create(ctx, a.AccountID, &usage); err != nil {
		return errs.NewDatabaseError("create", "feature usage", err)
	}
	metrics.RecordFeatureUsage(key)
	return nil
}

// TrackQuietly is Track for read paths, where a failed write must not fail the page.
func (uc *UsageUseCase) TrackQuietly(ctx context.Context, a Actor, key string) {
	if err := uc.Track(ctx, a, key); err != nil {
		uc.logger.Warn().Err(err).Str("feature", key).Msg("Failed to track feature usage")
	}
}

// Summary groups the last 30 days of usage by feature.
func (uc *UsageUseCase) Summary(ctx context.Context, a Actor) ([]FeatureUsageSummary, error) {
	from := startOfDay(uc.now()).AddDate(0, 0, -usageWindowDays)

	rows, err := uc.db.FeatureUsageRepo().Since(ctx, a.AccountID, from)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "feature usage", err)
	}

	days := map[string]map[string]struct{}{}
	byKey := map[string]*FeatureUsageSummary{}
	for _, row := range rows {
		s, ok := byKey[row.FeatureKey]
		if !ok {
			s = &FeatureUsageSummary{FeatureKey: row.FeatureKey, Label: FeatureLabel(row.FeatureKey)}
			byKey[row.FeatureKey] = s
			days[row.FeatureKey] = map[string]struct{}{}
		}
		days[row.FeatureKey][row.UsedAt.UTC().Format(time.DateOnly)] = struct{}{}
		if row.UsedAt.After(s.LastUsedAt) {
			s.LastUsedAt = row.UsedAt
		}
	}

	summary := make([]FeatureUsageSummary, 0, len(byKey))
	for key, s := range byKey {
		s.DaysUsed = len(days[key])
		summary = append(summary, *s)
	}
	sort.Slice(summary, func(i, j int) bool {
		if summary[i].DaysUsed != summary[j].DaysUsed {
			return summary[i].DaysUsed > summary[j].DaysUsed
		}
		return summary[i].FeatureKey < summary[j].FeatureKey
	})
	return summary, nil
}
