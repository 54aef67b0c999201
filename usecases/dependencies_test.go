package usecases

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rpupo63/chantier-backend/errs"
	"github.com/rpupo63/chantier-backend/models"
)

func TestDependencyRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	project := f.project(t, f.owner, "Pont piéton")
	otherProject := f.project(t, f.owner, "Parking")
	a := f.task(t, f.owner, project.ID, "Piles")
	b := f.task(t, f.owner, project.ID, "Tablier")
	elsewhere := f.task(t, f.owner, otherProject.ID, "Marquage")

	edge, err := f.uc.Dependencies.Create(ctx, f.owner, DependencyInput{ProjectID: project.ID, TaskID: b.ID, DependsOnTaskID: a.ID})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if edge.DependencyType != models.DependencyFinishToStart {
		t.Errorf("type = %q, want default", edge.DependencyType)
	}

	tests := []struct {
		name  string
		in    DependencyInput
		check func(error) bool
	}{
		{"self dependency", DependencyInput{ProjectID: project.ID, TaskID: a.ID, DependsOnTaskID: a.ID}, errs.IsBusinessRule},
		{"other project", DependencyInput{ProjectID: project.ID, TaskID: a.ID, DependsOnTaskID: elsewhere.ID}, errs.IsBusinessRule},
		{"unknown task", DependencyInput{ProjectID: project.ID, TaskID: a.ID, DependsOnTaskID: uuid.New()}, errs.IsNotFound},
		{"duplicate edge", DependencyInput{ProjectID: project.ID, TaskID: b.ID, DependsOnTaskID: a.ID}, errs.IsAlreadyExists},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.Dependencies.Create(ctx, f.owner, tt.in)
			if !tt.check(err) {
				t.Errorf("err = %v", err)
			}
		})
	}

	if _, err := f.uc.Dependencies.Create(ctx, f.owner, DependencyInput{TaskID: a.ID, DependsOnTaskID: b.ID, DependencyType: strPtr("start_to_start")}); err != nil {
		t.Errorf("reverse edge forming a cycle should be stored: %v", err)
	}

	edges, err := f.uc.Dependencies.List(ctx, f.owner, &project.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(edges) != 2 {
		t.Fatalf("edges = %d, want 2", len(edges))
	}

	if err := f.uc.Dependencies.Delete(ctx, f.owner, edge.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if edges, _ := f.uc.Dependencies.List(ctx, f.owner, nil); len(edges) != 1 {
		t.Errorf("edges after delete = %d, want 1", len(edges))
	}
}

func TestDependencyOtherAccountTasks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	mine := f.task(t, f.owner, f.project(t, f.owner, "Chez moi").ID, "Mur")
	other := f.account(t, "ailleurs", "owner")
	theirs := f.task(t, other, f.project(t, other, "Chez eux").ID, "Toit")

	_, err := f.uc.Dependencies.Create(ctx, f.owner, DependencyInput{TaskID: mine.ID, DependsOnTaskID: theirs.ID})
	if !errs.IsNotFound(err) {
		t.Errorf("err = %v, want not found", err)
	}
}
