package database

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rpupo63/chantier-backend/models"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) Database {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return New(db)
}

func createAccount(t *testing.T, d Database, slug string) uuid.UUID {
	t.Helper()
	account := models.Account{Name: slug, Slug: slug, SubscriptionStatus: models.SubscriptionActive}
	if err := d.AccountRepo().Add(context.Background(), &account); err != nil {
		t.Fatalf("create account: %v", err)
	}
	return account.ID
}

func TestScopedTenantIsolation(t *testing.T) {
	d := setupTestDB(t)
	ctx := context.Background()
	mine := createAccount(t, d, "mine")
	theirs := createAccount(t, d, "theirs")

	project := models.Project{Name: "Maison Dupont", Status: models.ProjectStatusPreparation, Budget: decimal.NewFromInt(50000)}
	if err := d.ProjectRepo().Create(ctx, mine, &project); err != nil {
		t.Fatalf("create project: %v", err)
	}
	if project.AccountID != mine {
		t.Fatalf("account not stamped: %s", project.AccountID)
	}

	if _, err := d.ProjectRepo().Get(ctx, theirs, project.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("Get from other account: got %v, want record not found", err)
	}

	project.Name = "Hijacked"
	if err := d.ProjectRepo().Update(ctx, theirs, &project); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("Update from other account: got %v, want record not found", err)
	}
	if err := d.ProjectRepo().Delete(ctx, theirs, project.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("Delete from other account: got %v, want record not found", err)
	}

	stored, err := d.ProjectRepo().Get(ctx, mine, project.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if stored.Name != "Maison Dupont" {
		t.Errorf("name = %q, cross-tenant update leaked", stored.Name)
	}

	list, err := d.ProjectRepo().List(ctx, theirs)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("other account sees %d projects", len(list))
	}
}

func TestScopedUpdateWritesZeroValues(t *testing.T) {
	d := setupTestDB(t)
	ctx := context.Background()
	account := createAccount(t, d, "acme")

	project := models.Project{
		Name:                 "Extension",
		Status:               models.ProjectStatusPreparation,
		Progress:             40,
		BudgetAlertEnabled:   true,
		BudgetAlertThreshold: 10,
	}
	if err := d.ProjectRepo().Create(ctx, account, &project); err != nil {
		t.Fatalf("create: %v", err)
	}

	project.Progress = 0
	project.BudgetAlertEnabled = false
	project.BudgetAlertThreshold = 0
	if err := d.ProjectRepo().Update(ctx, account, &project); err != nil {
		t.Fatalf("update: %v", err)
	}

	stored, err := d.ProjectRepo().Get(ctx, account, project.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Progress != 0 || stored.BudgetAlertEnabled || stored.BudgetAlertThreshold != 0 {
		t.Errorf("zero values not persisted: %+v", stored)
	}
}

func TestScopedSum(t *testing.T) {
	d := setupTestDB(t)
	ctx := context.Background()
	account := createAccount(t, d, "sums")

	total, err := d.ProjectRepo().Sum(ctx, account, "budget")
	if err != nil {
		t.Fatalf("Sum on empty: %v", err)
	}
	if !total.IsZero() {
		t.Errorf("empty sum = %s, want 0", total)
	}

	for _, b := range []string{"1000.50", "250.25"} {
		p := models.Project{Name: b, Status: models.ProjectStatusPreparation, Budget: decimal.RequireFromString(b)}
		if err := d.ProjectRepo().Create(ctx, account, &p); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	total, err = d.ProjectRepo().Sum(ctx, account, "budget")
	if err != nil {
		t.Fatalf("Sum: %v", err)
	}
	if !total.Equal(decimal.RequireFromString("1250.75")) {
		t.Errorf("sum = %s, want 1250.75", total)
	}
}

func TestProjectSearch(t *testing.T) {
	d := setupTestDB(t)
	ctx := context.Background()
	account := createAccount(t, d, "search")

	lyon, paris := "Lyon", "Paris"
	for i := 0; i < 14; i++ {
		city := &lyon
		if i%2 == 0 {
			city = &paris
		}
		p := models.Project{Name: "Chantier", City: city, Status: models.ProjectStatusInProgress}
		if err := d.ProjectRepo().Create(ctx, account, &p); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	page1, total, err := d.ProjectRepo().Search(ctx, account, ProjectFilter{Page: 1})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if total != 14 || len(page1) != ProjectPageSize {
		t.Errorf("page 1: total=%d len=%d", total, len(page1))
	}

	page2, _, err := d.ProjectRepo().Search(ctx, account, ProjectFilter{Page: 2})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(page2) != 2 {
		t.Errorf("page 2 len = %d, want 2", len(page2))
	}

	_, total, err = d.ProjectRepo().Search(ctx, account, ProjectFilter{City: "lyo"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if total != 7 {
		t.Errorf("city filter total = %d, want 7", total)
	}
}

func TestTransactionRollsBack(t *testing.T) {
	d := setupTestDB(t)
	ctx := context.Background()
	account := createAccount(t, d, "tx")

	boom := errors.New("boom")
	err := d.Transaction(ctx, func(tx Database) error {
		p := models.Project{Name: "Rolled back", Status: models.ProjectStatusPreparation}
		if err := tx.ProjectRepo().Create(ctx, account, &p); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Transaction error = %v, want boom", err)
	}

	count, err := d.ProjectRepo().Count(ctx, account)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 0 {
		t.Errorf("count = %d after rollback", count)
	}
}
