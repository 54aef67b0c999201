package usecases

import (
	"context"
	"testing"

	"github.com/rpupo63/chantier-backend/errs"
	"github.com/rpupo63/chantier-backend/models"
)

func TestTaskCreateDefaultsAndSchedule(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	project := f.project(t, f.owner, "Maison Martin")

	task, err := f.uc.Tasks.Create(ctx, f.owner, TaskInput{
		ProjectID:    project.ID,
		Title:        "  Coulage dalle  ",
		StartDate:    datePtr(2026, 3, 2),
		DurationDays: intPtr(5),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if task.Title != "Coulage dalle" {
		t.Errorf("title = %q", task.Title)
	}
	if task.Status != models.TaskStatusPending || task.Progress != 0 || task.RequiresPhoto {
		t.Errorf("defaults = %q/%d/%v", task.Status, task.Progress, task.RequiresPhoto)
	}
	if !sameDay(task.EndDate, datePtr(2026, 3, 6)) {
		t.Errorf("end = %v, want 2026-03-06", task.EndDate)
	}

	stored, err := f.uc.Tasks.Get(ctx, f.owner, task.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.DurationDays == nil || *stored.DurationDays != 5 {
		t.Errorf("stored duration = %v", stored.DurationDays)
	}
}

func TestTaskValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	project := f.project(t, f.owner, "Immeuble Garonne")

	tests := []struct {
		name  string
		in    TaskInput
		field string
	}{
		{"missing title", TaskInput{ProjectID: project.ID}, "title"},
		{"missing project", TaskInput{Title: "Électricité"}, "project_id"},
		{"progress over 100", TaskInput{ProjectID: project.ID, Title: "Électricité", Progress: intPtr(101)}, "progress"},
		{"negative progress", TaskInput{ProjectID: project.ID, Title: "Électricité", Progress: intPtr(-1)}, "progress"},
		{"end before start", TaskInput{ProjectID: project.ID, Title: "Électricité", StartDate: datePtr(2026, 3, 9), EndDate: datePtr(2026, 3, 2)}, "end_date"},
		{"zero duration", TaskInput{ProjectID: project.ID, Title: "Électricité", DurationDays: intPtr(0)}, "duration_days"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.Tasks.Create(ctx, f.owner, tt.in)
			if errs.StatusOf(err) != 422 {
				t.Fatalf("status = %d (%v), want 422", errs.StatusOf(err), err)
			}
			if errs.FieldOf(err) != tt.field {
				t.Errorf("field = %q, want %q", errs.FieldOf(err), tt.field)
			}
		})
	}
}

func TestTaskPhaseMustBelongToProject(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := f.project(t, f.owner, "Chantier A")
	second := f.project(t, f.owner, "Chantier B")

	phase, err := f.uc.Phases.Create(ctx, f.owner, PhaseInput{ProjectID: second.ID, Title: "Fondations"})
	if err != nil {
		t.Fatalf("create phase: %v", err)
	}

	_, err = f.uc.Tasks.Create(ctx, f.owner, TaskInput{ProjectID: first.ID, PhaseID: &phase.ID, Title: "Ferraillage"})
	if !errs.IsBusinessRule(err) {
		t.Errorf("phase of other project: err = %v, want business rule", err)
	}

	other := f.account(t, "voisin", "owner")
	foreign, err := f.uc.Phases.Create(ctx, other, PhaseInput{ProjectID: f.project(t, other, "Chantier C").ID, Title: "Gros oeuvre"})
	if err != nil {
		t.Fatalf("create foreign phase: %v", err)
	}
	_, err = f.uc.Tasks.Create(ctx, f.owner, TaskInput{ProjectID: first.ID, PhaseID: &foreign.ID, Title: "Ferraillage"})
	if !errs.IsNotFound(err) {
		t.Errorf("phase of other account: err = %v, want not found", err)
	}

	task, err := f.uc.Tasks.Create(ctx, f.owner, TaskInput{ProjectID: second.ID, PhaseID: &phase.ID, Title: "Ferraillage"})
	if err != nil {
		t.Fatalf("phase of same project: %v", err)
	}
	if task.PhaseID == nil || *task.PhaseID != phase.ID {
		t.Errorf("phase = %v", task.PhaseID)
	}
}

func TestTaskUpdateIsFullReplace(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	project := f.project(t, f.owner, "Rénovation mairie")
	task, err := f.uc.Tasks.Create(ctx, f.owner, TaskInput{
		ProjectID:     project.ID,
		Title:         "Plâtrerie",
		AssignedTo:    strPtr("Equipe 2"),
		RequiresPhoto: boolPtr(true),
		Progress:      intPtr(40),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := f.uc.Tasks.Update(ctx, f.owner, task.ID, TaskInput{Title: "Plâtrerie"}); errs.FieldOf(err) != "status" {
		t.Fatalf("update without status: err = %v", err)
	}

	updated, err := f.uc.Tasks.Update(ctx, f.owner, task.ID, TaskInput{Title: "Plâtrerie R+1", Status: strPtr("in_progress")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	stored, err := f.uc.Tasks.Get(ctx, f.owner, updated.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Title != "Plâtrerie R+1" || stored.Status != "in_progress" {
		t.Errorf("stored = %q/%q", stored.Title, stored.Status)
	}
	if stored.AssignedTo != nil || stored.RequiresPhoto || stored.Progress != 0 {
		t.Errorf("omitted fields kept: assigned=%v photo=%v progress=%d", stored.AssignedTo, stored.RequiresPhoto, stored.Progress)
	}
	if stored.ProjectID != project.ID {
		t.Errorf("project changed to %s", stored.ProjectID)
	}
}

func TestTaskCrossTenantAccess(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	task := f.task(t, f.owner, f.project(t, f.owner, "Privé").ID, "Secret")
	other := f.account(t, "intrus", "owner")

	if _, err := f.uc.Tasks.Get(ctx, other, task.ID); !errs.IsNotFound(err) {
		t.Errorf("get: err = %v, want not found", err)
	}
	if _, err := f.uc.Tasks.Update(ctx, other, task.ID, TaskInput{Title: "x", Status: strPtr("done")}); !errs.IsNotFound(err) {
		t.Errorf("update: err = %v, want not found", err)
	}
	if err := f.uc.Tasks.Delete(ctx, other, task.ID); !errs.IsNotFound(err) {
		t.Errorf("delete: err = %v, want not found", err)
	}
	if _, err := f.uc.Tasks.Get(ctx, f.owner, task.ID); err != nil {
		t.Errorf("owner lost the task: %v", err)
	}
}

func TestTaskUpdateMovesProject(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := f.project(t, f.owner, "Chantier A")
	second := f.project(t, f.owner, "Chantier B")
	phase, err := f.uc.Phases.Create(ctx, f.owner, PhaseInput{ProjectID: first.ID, Title: "Fondations"})
	if err != nil {
		t.Fatalf("create phase: %v", err)
	}
	task, err := f.uc.Tasks.Create(ctx, f.owner, TaskInput{ProjectID: first.ID, PhaseID: &phase.ID, Title: "Coffrage"})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	_, err = f.uc.Tasks.Update(ctx, f.owner, task.ID, TaskInput{ProjectID: second.ID, PhaseID: &phase.ID, Title: "Coffrage", Status: strPtr("pending")})
	if !errs.IsBusinessRule(err) {
		t.Errorf("move keeping the old phase: err = %v, want business rule", err)
	}

	foreign := f.project(t, f.account(t, "voisin", "owner"), "Ailleurs")
	_, err = f.uc.Tasks.Update(ctx, f.owner, task.ID, TaskInput{ProjectID: foreign.ID, Title: "Coffrage", Status: strPtr("pending")})
	if !errs.IsNotFound(err) {
		t.Errorf("move to another account's project: err = %v, want not found", err)
	}

	if _, err := f.uc.Tasks.Update(ctx, f.owner, task.ID, TaskInput{ProjectID: second.ID, Title: "Coffrage", Status: strPtr("pending")}); err != nil {
		t.Fatalf("move: %v", err)
	}
	stored, err := f.uc.Tasks.Get(ctx, f.owner, task.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.ProjectID != second.ID || stored.PhaseID != nil {
		t.Errorf("project/phase = %s/%v, want %s/nil", stored.ProjectID, stored.PhaseID, second.ID)
	}
}
