package models

import (
	"fmt"
	"log"
	"os"
	"sort"
	"sync"

	"gorm.io/gen"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

/*
Column Mismatch Report Usage:

Lists database columns that no field of the corresponding Go model maps to.

1. Set the environment variable: GENERATE_COLUMN_REPORT=true
2. Run the application: go run .

Example output:
=== COLUMN MISMATCH REPORT ===
--- Table: projects ---
Found 1 columns not accounted for in model:
  - legacy_code

=== SUMMARY ===
Total mismatched columns across all tables: 1
*/

// AllModels returns every persisted model in migration order.
func AllModels() []any {
	return []any{
		&Account{},
		&User{},
		&Membership{},
		&Project{},
		&Contractor{},
		&ProjectContractor{},
		&Document{},
		&ProjectBudgetItem{},
		&ProjectPhase{},
		&ProjectTask{},
		&ProjectTaskDependency{},
		&ProjectMilestone{},
		&Incident{},
		&Validation{},
		&Decision{},
		&Photo{},
		&Comment{},
		&ProjectMessage{},
		&ProjectActivity{},
		&Notification{},
		&FeatureUsage{},
	}
}

// GenerateModels migrates the schema verbosely, prints the column report and
// writes typed query helpers to ./generated.
func GenerateModels(db *gorm.DB) error {
	if err := db.Exec("SELECT 1").Error; err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}

	verbose := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             0,
			LogLevel:                  logger.Info,
			IgnoreRecordNotFoundError: false,
			Colorful:                  true,
		},
	)
	db = db.Session(&gorm.Session{
		Logger:                 verbose,
		SkipDefaultTransaction: true,
		PrepareStmt:            false,
	})

	g := gen.NewGenerator(gen.Config{
		OutPath:           "./generated",
		Mode:              gen.WithDefaultQuery | gen.WithQueryInterface,
		FieldNullable:     true,
		FieldCoverable:    true,
		FieldWithIndexTag: true,
		FieldWithTypeTag:  true,
	})
	g.UseDB(db)
	g.ApplyBasic(AllModels()...)

	fmt.Println("Migrating models...")
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("migrate models: %w", err)
	}
	fmt.Println("Database migration completed successfully!")

	report, err := ColumnMismatches(db)
	if err != nil {
		return err
	}
	PrintColumnReport(report)

	g.Execute()
	fmt.Println("Model generation complete!")
	return nil
}

// ColumnMismatches maps table name to the columns present in the database but
// absent from the model.
func ColumnMismatches(db *gorm.DB) (map[string][]string, error) {
	cache := &sync.Map{}
	report := make(map[string][]string)

	for _, model := range AllModels() {
		s, err := schema.Parse(model, cache, db.NamingStrategy)
		if err != nil {
			return nil, fmt.Errorf("parse schema for %T: %w", model, err)
		}

		if !db.Migrator().HasTable(model) {
			continue
		}

		columnTypes, err := db.Migrator().ColumnTypes(model)
		if err != nil {
			return nil, fmt.Errorf("read columns of %s: %w", s.Table, err)
		}

		known := make(map[string]bool, len(s.DBNames))
		for _, name := range s.DBNames {
			known[name] = true
		}

		var missing []string
		for _, ct := range columnTypes {
			if !known[ct.Name()] {
				missing = append(missing, ct.Name())
			}
		}
		sort.Strings(missing)
		report[s.Table] = missing
	}

	return report, nil
}

func PrintColumnReport(report map[string][]string) {
	fmt.Println("=== COLUMN MISMATCH REPORT ===")

	tables := make([]string, 0, len(report))
	for table := range report {
		tables = append(tables, table)
	}
	sort.Strings(tables)

	total := 0
	for _, table := range tables {
		fmt.Printf("\n--- Table: %s ---\n", table)
		missing := report[table]
		if len(missing) == 0 {
			fmt.Println("All columns are accounted for in the model.")
			continue
		}
		fmt.Printf("Found %d columns not accounted for in model:\n", len(missing))
		for _, col := range missing {
			fmt.Printf("  - %s\n", col)
		}
		total += len(missing)
	}

	fmt.Printf("\n=== SUMMARY ===\n")
	fmt.Printf("Total mismatched columns across all tables: %d\n", total)
}
