package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
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
	if err := db.AutoMigrate(AllModels()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestBeforeCreateAssignsID(t *testing.T) {
	db := setupTestDB(t)

	account := Account{Name: "Atelier", Slug: "atelier", SubscriptionStatus: SubscriptionActive}
	if err := db.Create(&account).Error; err != nil {
		t.Fatalf("create account: %v", err)
	}
	if account.ID == uuid.Nil {
		t.Fatal("expected generated id")
	}

	fixed := uuid.New()
	other := Account{Base: Base{ID: fixed}, Name: "Other", Slug: "other"}
	if err := db.Create(&other).Error; err != nil {
		t.Fatalf("create account: %v", err)
	}
	if other.ID != fixed {
		t.Errorf("preset id overwritten: got %s, want %s", other.ID, fixed)
	}
}

func TestColumnMismatchesCleanSchema(t *testing.T) {
	db := setupTestDB(t)

	report, err := ColumnMismatches(db)
	if err != nil {
		t.Fatalf("ColumnMismatches: %v", err)
	}
	for table, missing := range report {
		if len(missing) > 0 {
			t.Errorf("table %s has unmapped columns %v", table, missing)
		}
	}

	if err := db.Exec("ALTER TABLE projects ADD COLUMN legacy_code text").Error; err != nil {
		t.Fatalf("alter: %v", err)
	}
	report, err = ColumnMismatches(db)
	if err != nil {
		t.Fatalf("ColumnMismatches: %v", err)
	}
	if got := report["projects"]; len(got) != 1 || got[0] != "legacy_code" {
		t.Errorf("projects mismatches = %v, want [legacy_code]", got)
	}
}

func TestAccountAccess(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(48 * time.Hour)
	past := now.Add(-48 * time.Hour)

	tests := []struct {
		name    string
		account Account
		want    bool
	}{
		{"on trial", Account{TrialEndsAt: &future}, true},
		{"trial expired no subscription", Account{TrialEndsAt: &past}, false},
		{"active subscription", Account{SubscriptionStatus: SubscriptionActive}, true},
		{"trialing subscription", Account{SubscriptionStatus: SubscriptionTrialing}, true},
		{"past due", Account{SubscriptionStatus: SubscriptionPastDue}, false},
		{"nothing", Account{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.account.HasAccess(now); got != tt.want {
				t.Errorf("HasAccess = %v, want %v", got, tt.want)
			}
		})
	}
}
