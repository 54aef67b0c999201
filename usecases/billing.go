package usecases

import (
	"context"
	"math"

	"github.com/rpupo63/chantier-backend/errs"
	"github.com/rpupo63/chantier-backend/models"
)

type BillingUseCase struct {
	base
	usage *UsageUseCase
}

type BillingOverview struct {
	Account       models.Account        `json:"account"`
	OnTrial       bool                  `json:"on_trial"`
	TrialDaysLeft int                   `json:"trial_days_left"`
	HasAccess     bool                  `json:"has_access"`
	Usage         []FeatureUsageSummary `json:"usage"`
}

// Overview is reachable without an active subscription so a lapsed account
// can still see its state.
func (uc *BillingUseCase) Overview(ctx context.Context, a Actor) (*BillingOverview, error) {
	account, err := uc.db.AccountRepo().FindByID(ctx, a.AccountID)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "account", err)
	}
	usage, err := uc.usage.Summary(ctx, a)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	overview := &BillingOverview{
		Account:   *account,
		OnTrial:   account.OnTrial(now),
		HasAccess: account.HasAccess(now),
		Usage:     usage,
	}
	if overview.OnTrial {
		overview.TrialDaysLeft = int(math.Ceil(account.TrialEndsAt.Sub(now).Hours() / 24))
	}
	return overview, nil
}
