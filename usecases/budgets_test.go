package usecases

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rpupo63/chantier-backend/database"
	"github.com/rpupo63/chantier-backend/errs"
	"github.com/rpupo63/chantier-backend/models"
	"github.com/shopspring/decimal"
)

func TestOverrunThreshold(t *testing.T) {
	tests := []struct {
		estimated string
		pct       int
		want      string
	}{
		{"1000", 0, "1000"},
		{"1000", 10, "1100"},
		{"999.99", 10, "1099.989"},
		{"0.01", 50, "0.015"},
	}
	for _, tt := range tests {
		got := OverrunThreshold(decimal.RequireFromString(tt.estimated), tt.pct)
		if !got.Equal(decimal.RequireFromString(tt.want)) {
			t.Errorf("OverrunThreshold(%s, %d) = %s, want %s", tt.estimated, tt.pct, got, tt.want)
		}
	}
}

func TestShouldAlert(t *testing.T) {
	alerted := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	enabled := models.Project{BudgetAlertEnabled: true, BudgetAlertThreshold: 10}

	tests := []struct {
		name    string
		item    models.ProjectBudgetItem
		project models.Project
		want    bool
	}{
		{
			name:    "above threshold",
			item:    models.ProjectBudgetItem{EstimatedCost: decimal.NewFromInt(1000), ActualCost: decimal.RequireFromString("1100.01")},
			project: enabled,
			want:    true,
		},
		{
			name:    "exactly at threshold",
			item:    models.ProjectBudgetItem{EstimatedCost: decimal.NewFromInt(1000), ActualCost: decimal.NewFromInt(1100)},
			project: enabled,
		},
		{
			name:    "already alerted",
			item:    models.ProjectBudgetItem{EstimatedCost: decimal.NewFromInt(1000), ActualCost: decimal.NewFromInt(5000), AlertedAt: &alerted},
			project: enabled,
		},
		{
			name:    "alerts disabled",
			item:    models.ProjectBudgetItem{EstimatedCost: decimal.NewFromInt(1000), ActualCost: decimal.NewFromInt(5000)},
			project: models.Project{BudgetAlertEnabled: false},
		},
		{
			name:    "no estimate",
			item:    models.ProjectBudgetItem{ActualCost: decimal.NewFromInt(5000)},
			project: enabled,
		},
		{
			name:    "no actual cost",
			item:    models.ProjectBudgetItem{EstimatedCost: decimal.NewFromInt(1000)},
			project: enabled,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldAlert(tt.item, tt.project); got != tt.want {
				t.Errorf("ShouldAlert = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBudgetOverrunLatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	project, err := f.uc.Projects.Create(ctx, f.owner, ProjectInput{
		Name:                 "Résidence Les Pins",
		BudgetAlertEnabled:   boolPtr(true),
		BudgetAlertThreshold: intPtr(0),
	})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}

	item, err := f.uc.Budgets.Create(ctx, f.owner, BudgetItemInput{
		ProjectID:     project.ID,
		Name:          "Gros oeuvre",
		EstimatedCost: decPtr("1000"),
	})
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	if item.AlertedAt != nil {
		t.Fatal("item without actual cost must not alert")
	}

	item, err = f.uc.Budgets.Update(ctx, f.owner, item.ID, BudgetItemInput{
		ProjectID:     project.ID,
		Name:          "Gros oeuvre",
		EstimatedCost: decPtr("1000"),
		ActualCost:    decPtr("1500"),
	})
	if err != nil {
		t.Fatalf("update item: %v", err)
	}
	if item.AlertedAt == nil {
		t.Fatal("alerted_at not set after overrun")
	}
	if n := f.deliverer.count(NoticeBudgetOverrun); n != 1 {
		t.Fatalf("deliveries = %d, want 1", n)
	}

	stored, err := f.db.BudgetItemRepo().Get(ctx, f.owner.AccountID, item.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.AlertedAt == nil {
		t.Fatal("latch not persisted")
	}

	notifications, _, err := f.db.NotificationRepo().FindByUser(ctx, f.owner.UserID, 1)
	if err != nil {
		t.Fatalf("notifications: %v", err)
	}
	if len(notifications) != 1 || notifications[0].Type != NoticeBudgetOverrun {
		t.Fatalf("in-app notifications = %+v", notifications)
	}
	var data map[string]any
	if err := json.Unmarshal(notifications[0].Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data["name"] != "Gros oeuvre" {
		t.Errorf("notification data = %v", data)
	}

	activities, err := f.db.ActivityRepo().List(ctx, f.owner.AccountID, database.WhereEq("type", models.ActivityBudgetOverrun))
	if err != nil {
		t.Fatalf("activities: %v", err)
	}
	if len(activities) != 1 {
		t.Fatalf("activities = %d, want 1", len(activities))
	}
	if activities[0].ActorID != nil {
		t.Errorf("overrun activity actor = %v, want none", activities[0].ActorID)
	}

	if _, err := f.uc.Budgets.Update(ctx, f.owner, item.ID, BudgetItemInput{
		ProjectID:     project.ID,
		Name:          "Gros oeuvre",
		EstimatedCost: decPtr("1000"),
		ActualCost:    decPtr("2000"),
	}); err != nil {
		t.Fatalf("second update: %v", err)
	}
	if n := f.deliverer.count(NoticeBudgetOverrun); n != 1 {
		t.Errorf("deliveries after second overrun = %d, want 1", n)
	}
}

func TestBudgetOverrunDisabled(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	project, err := f.uc.Projects.Create(ctx, f.owner, ProjectInput{
		Name:               "Entrepôt Nord",
		BudgetAlertEnabled: boolPtr(false),
	})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}

	item, err := f.uc.Budgets.Create(ctx, f.owner, BudgetItemInput{
		ProjectID:     project.ID,
		Name:          "Charpente",
		EstimatedCost: decPtr("1000"),
		ActualCost:    decPtr("90000"),
	})
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	if item.AlertedAt != nil {
		t.Error("alerted_at set with alerts disabled")
	}
	if n := len(f.deliverer.sent); n != 0 {
		t.Errorf("deliveries = %d, want 0", n)
	}
}

func TestBudgetOverrunOnCreate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	project := f.project(t, f.owner, "Groupe scolaire")

	item, err := f.uc.Budgets.Create(ctx, f.owner, BudgetItemInput{
		ProjectID:     project.ID,
		Name:          "Menuiseries",
		EstimatedCost: decPtr("2000"),
		ActualCost:    decPtr("2200.01"),
	})
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	if item.AlertedAt == nil {
		t.Fatal("create above the default 10% threshold must alert")
	}
	if n := f.deliverer.count(NoticeBudgetOverrun); n != 1 {
		t.Errorf("deliveries = %d, want 1", n)
	}
}

func TestBudgetDeliveryFailureKeepsLatch(t *testing.T) {
	f := newFixture(t)
	f.deliverer.fails = errs.NewMailDeliveryError(context.DeadlineExceeded)
	ctx := context.Background()
	project := f.project(t, f.owner, "Halle des sports")

	item, err := f.uc.Budgets.Create(ctx, f.owner, BudgetItemInput{
		ProjectID:     project.ID,
		Name:          "Toiture",
		EstimatedCost: decPtr("100"),
		ActualCost:    decPtr("500"),
	})
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	stored, err := f.db.BudgetItemRepo().Get(ctx, f.owner.AccountID, item.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.AlertedAt == nil {
		t.Error("latch rolled back by a delivery failure")
	}
}

func TestBudgetListSummaryAndTenancy(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	project := f.project(t, f.owner, "Villa Horizon")
	other := f.account(t, "concurrent", "owner")

	for _, in := range []BudgetItemInput{
		{ProjectID: project.ID, Name: "Terrassement", Category: strPtr("Gros oeuvre"), EstimatedCost: decPtr("1200.50"), CommittedCost: decPtr("1000")},
		{ProjectID: project.ID, Name: "Peinture", Category: strPtr("Finitions"), EstimatedCost: decPtr("800.25"), VariationAmount: decPtr("-50")},
	} {
		if _, err := f.uc.Budgets.Create(ctx, f.owner, in); err != nil {
			t.Fatalf("create %s: %v", in.Name, err)
		}
	}

	list, err := f.uc.Budgets.List(ctx, f.owner, database.BudgetFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(list.Items))
	}
	if !list.Summary.Estimated.Equal(decimal.RequireFromString("2000.75")) {
		t.Errorf("estimated = %s", list.Summary.Estimated)
	}
	if !list.Summary.Variation.Equal(decimal.NewFromInt(-50)) {
		t.Errorf("variation = %s", list.Summary.Variation)
	}

	filtered, err := f.uc.Budgets.List(ctx, f.owner, database.BudgetFilter{Category: "finition"})
	if err != nil {
		t.Fatalf("filtered list: %v", err)
	}
	if len(filtered.Items) != 1 || filtered.Items[0].Name != "Peinture" {
		t.Errorf("category filter = %+v", filtered.Items)
	}

	theirs, err := f.uc.Budgets.List(ctx, other, database.BudgetFilter{})
	if err != nil {
		t.Fatalf("other list: %v", err)
	}
	if len(theirs.Items) != 0 {
		t.Errorf("other account sees %d items", len(theirs.Items))
	}

	_, err = f.uc.Budgets.Create(ctx, other, BudgetItemInput{ProjectID: project.ID, Name: "Intrusion"})
	if !errs.IsNotFound(err) {
		t.Errorf("create on foreign project: err = %v, want not found", err)
	}

	if _, err := f.uc.Budgets.Create(ctx, f.owner, BudgetItemInput{ProjectID: project.ID, Name: "Négatif", EstimatedCost: decPtr("-1")}); errs.FieldOf(err) != "estimated_cost" {
		t.Errorf("negative estimate: err = %v", err)
	}
}

func TestBudgetUpdateMovesProject(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	quiet, err := f.uc.Projects.Create(ctx, f.owner, ProjectInput{Name: "Entrepôt Nord", BudgetAlertEnabled: boolPtr(false)})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	watched := f.project(t, f.owner, "Groupe scolaire")

	item, err := f.uc.Budgets.Create(ctx, f.owner, BudgetItemInput{
		ProjectID:     quiet.ID,
		Name:          "Charpente",
		EstimatedCost: decPtr("1000"),
		ActualCost:    decPtr("5000"),
	})
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	if item.AlertedAt != nil {
		t.Fatal("alerted with alerts disabled")
	}

	if _, err := f.uc.Budgets.Update(ctx, f.owner, item.ID, BudgetItemInput{Name: "Charpente"}); errs.FieldOf(err) != "project_id" {
		t.Errorf("update without project: err = %v, want project_id", err)
	}
	foreign := f.project(t, f.account(t, "voisin", "owner"), "Ailleurs")
	if _, err := f.uc.Budgets.Update(ctx, f.owner, item.ID, BudgetItemInput{ProjectID: foreign.ID, Name: "Charpente"}); !errs.IsNotFound(err) {
		t.Errorf("move to another account's project: err = %v, want not found", err)
	}

	moved, err := f.uc.Budgets.Update(ctx, f.owner, item.ID, BudgetItemInput{
		ProjectID:     watched.ID,
		Name:          "Charpente",
		EstimatedCost: decPtr("1000"),
		ActualCost:    decPtr("5000"),
	})
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	stored, err := f.db.BudgetItemRepo().Get(ctx, f.owner.AccountID, moved.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.ProjectID != watched.ID {
		t.Errorf("project = %s, want %s", stored.ProjectID, watched.ID)
	}
	if stored.AlertedAt == nil || f.deliverer.count(NoticeBudgetOverrun) != 1 {
		t.Error("overrun must be evaluated against the new project's alert settings")
	}
}
