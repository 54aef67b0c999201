package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDateUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"calendar date", `"2026-04-01"`, "2026-04-01", false},
		{"rfc3339", `"2026-04-01T00:00:00Z"`, "2026-04-01", false},
		{"rfc3339 with offset", `"2026-04-01T09:30:00+02:00"`, "2026-04-01", false},
		{"french layout", `"01/04/2026"`, "", true},
		{"number", `20260401`, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			err := json.Unmarshal([]byte(tt.in), &d)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && d.String() != tt.want {
				t.Errorf("date = %s, want %s", d, tt.want)
			}
		})
	}
}

func TestDateNullAndMarshal(t *testing.T) {
	var in struct {
		Due *Date `json:"due"`
	}
	if err := json.Unmarshal([]byte(`{"due":null}`), &in); err != nil || in.Due != nil {
		t.Fatalf("null: due = %v, err = %v", in.Due, err)
	}

	out, err := json.Marshal(NewDate(2026, time.March, 6))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `"2026-03-06"` {
		t.Errorf("marshal = %s", out)
	}
}

func TestDateRoundTripsThroughDatabase(t *testing.T) {
	db := setupTestDB(t)
	due := NewDate(2026, time.May, 20)
	milestone := ProjectMilestone{Title: "Réception", Status: MilestoneStatusPending, DueDate: &due}
	if err := db.Create(&milestone).Error; err != nil {
		t.Fatalf("create: %v", err)
	}

	var stored ProjectMilestone
	if err := db.First(&stored, "id = ?", milestone.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.DueDate == nil || stored.DueDate.String() != "2026-05-20" {
		t.Errorf("due date = %v", stored.DueDate)
	}
}
