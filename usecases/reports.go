package usecases

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/chantier-backend/database"
	"github.com/rpupo63/chantier-backend/errs"
	"github.com/rpupo63/chantier-backend/models"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const (
	reportSectionLimit = 10
	ReportFilename     = "rapport-chantier.csv"
	emptySection       = "Aucune donnée"
)

type ReportUseCase struct {
	base
	usage *UsageUseCase
}

// ReportFilter narrows a report to one project and a created_at window. The
// window bounds are calendar days, both included.
type ReportFilter struct {
	ProjectID *uuid.UUID `json:"project_id,omitempty"`
	From      *time.Time `json:"from,omitempty"`
	To        *time.Time `json:"to,omitempty"`
}

func (f ReportFilter) scope(db *gorm.DB) *gorm.DB {
	if f.ProjectID != nil {
		db = db.Where("project_id = ?", *f.ProjectID)
	}
	if f.From != nil {
		db = db.Where("created_at >= ?", startOfDay(*f.From))
	}
	if f.To != nil {
		db = db.Where("created_at < ?", startOfDay(*f.To).AddDate(0, 0, 1))
	}
	return db
}

type ReportSummary struct {
	Incidents          int64 `json:"incidents"`
	OpenIncidents      int64 `json:"open_incidents"`
	Validations        int64 `json:"validations"`
	PendingValidations int64 `json:"pending_validations"`
	Decisions          int64 `json:"decisions"`
	Photos             int64 `json:"photos"`
	Tasks              int64 `json:"tasks"`
	Milestones         int64 `json:"milestones"`
}

type Report struct {
	Filter      ReportFilter              `json:"filter"`
	Project     *models.Project           `json:"project,omitempty"`
	Summary     ReportSummary             `json:"summary"`
	Incidents   []models.Incident         `json:"incidents"`
	Validations []models.Validation       `json:"validations"`
	Decisions   []models.Decision         `json:"decisions"`
	Photos      []models.Photo            `json:"photos"`
	Tasks       []models.ProjectTask      `json:"tasks"`
	Milestones  []models.ProjectMilestone `json:"milestones"`
}

// Build counts every section over the filter and keeps its latest rows.
func (uc *ReportUseCase) Build(ctx context.Context, a Actor, f ReportFilter) (*Report, error) {
	if f.From != nil && f.To != nil && startOfDay(*f.To).Before(startOfDay(*f.From)) {
		return nil, errs.NewValidationError("to", "to must be on or after from")
	}

	report := Report{Filter: f}
	if f.ProjectID != nil {
		project, err := requireProject(ctx, uc.db, a, *f.ProjectID)
		if err != nil {
			return nil, err
		}
		report.Project = project
	}

	latest := []database.Scope{f.scope, database.OrderBy("created_at DESC"), database.Limit(reportSectionLimit)}
	open := database.WhereEq("status", models.IncidentStatusOpen)
	pending := database.WhereEq("status", models.ValidationStatusPending)
	s := &report.Summary

	g, gctx := errgroup.WithContext(ctx)
	count := func(dst *int64, entity string, fn func(context.Context) (int64, error)) {
		g.Go(func() (err error) {
			*dst, err = fn(gctx)
			return wrapCount(entity, err)
		})
	}
	count(&s.Incidents, "incidents", func(ctx context.Context) (int64, error) {
		return uc.db.IncidentRepo().Count(ctx, a.AccountID, f.scope)
	})
	count(&s.OpenIncidents, "incidents", func(ctx context.Context) (int64, error) {
		return uc.db.IncidentRepo().Count(ctx, a.AccountID, f.scope, open)
	})
	count(&s.Validations, "validations", func(ctx context.Context) (int64, error) {
		return uc.db.ValidationRepo().Count(ctx, a.AccountID, f.scope)
	})
	count(&s.PendingValidations, "validations", func(ctx context.Context) (int64, error) {
		return uc.db.ValidationRepo().Count(ctx, a.AccountID, f.scope, pending)
	})
	count(&s.Decisions, "decisions", func(ctx context.Context) (int64, error) {
		return uc.db.DecisionRepo().Count(ctx, a.AccountID, f.scope)
	})
	count(&s.Photos, "photos", func(ctx context.Context) (int64, error) {
		return uc.db.PhotoRepo().Count(ctx, a.AccountID, f.scope)
	})
	count(&s.Tasks, "tasks", func(ctx context.Context) (int64, error) {
		return uc.db.TaskRepo().Count(ctx, a.AccountID, f.scope)
	})
	count(&s.Milestones, "milestones", func(ctx context.Context) (int64, error) {
		return uc.db.MilestoneRepo().Count(ctx, a.AccountID, f.scope)
	})

	g.Go(func() (err error) {
		report.Incidents, err = uc.db.IncidentRepo().List(gctx, a.AccountID, latest...)
		return wrapFind("incidents", err)
	})
	g.Go(func() (err error) {
		report.Validations, err = uc.db.ValidationRepo().List(gctx, a.AccountID, latest...)
		return wrapFind("validations", err)
	})
	g.Go(func() (err error) {
		report.Decisions, err = uc.db.DecisionRepo().List(gctx, a.AccountID, latest...)
		return wrapFind("decisions", err)
	})
	g.Go(func() (err error) {
		report.Photos, err = uc.db.PhotoRepo().List(gctx, a.AccountID, latest...)
		return wrapFind("photos", err)
	})
	g.Go(func() (err error) {
		report.Tasks, err = uc.db.TaskRepo().List(gctx, a.AccountID, latest...)
		return wrapFind("tasks", err)
	})
	g.Go(func() (err error) {
		report.Milestones, err = uc.db.MilestoneRepo().List(gctx, a.AccountID, latest...)
		return wrapFind("milestones", err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	uc.usage.TrackQuietly(ctx, a, FeatureReporting)
	return &report, nil
}

// WriteCSV renders a report as the site report spreadsheet.
func WriteCSV(w io.Writer, r *Report) error {
	cw := csv.NewWriter(w)

	project := "Tous les projets"
	if r.Project != nil {
		project = r.Project.Name
	}
	rows := [][]string{
		{"Rapport chantier"},
		{"Projet", project},
		{"Période", formatPeriod(r.Filter.From, r.Filter.To)},
		{},
		{"Résumé", "Total"},
		{"Incidents", itoa64(r.Summary.Incidents)},
		{"Incidents ouverts", itoa64(r.Summary.OpenIncidents)},
		{"Validations", itoa64(r.Summary.Validations)},
		{"Validations en attente", itoa64(r.Summary.PendingValidations)},
		{"Décisions", itoa64(r.Summary.Decisions)},
		{"Photos", itoa64(r.Summary.Photos)},
		{"Tâches", itoa64(r.Summary.Tasks)},
		{"Jalons", itoa64(r.Summary.Milestones)},
	}

	rows = appendSection(rows, "Incidents", []string{"title", "status", "impact_days", "reported_by", "created_at"}, len(r.Incidents), func(i int) []string {
		x := r.Incidents[i]
		return []string{x.Title, x.Status, strconv.Itoa(x.ImpactDays), deref(x.ReportedBy), formatTime(x.CreatedAt)}
	})
	rows = appendSection(rows, "Validations", []string{"title", "type", "status", "requested_by", "created_at"}, len(r.Validations), func(i int) []string {
		x := r.Validations[i]
		return []string{x.Title, x.Type, x.Status, deref(x.RequestedBy), formatTime(x.CreatedAt)}
	})
	rows = appendSection(rows, "Décisions", []string{"title", "actor_name", "decided_at"}, len(r.Decisions), func(i int) []string {
		x := r.Decisions[i]
		return []string{x.Title, deref(x.ActorName), formatTime(x.DecidedAt)}
	})
	rows = appendSection(rows, "Photos", []string{"caption", "media_key", "created_at"}, len(r.Photos), func(i int) []string {
		x := r.Photos[i]
		return []string{deref(x.Caption), x.MediaKey, formatTime(x.CreatedAt)}
	})
	rows = appendSection(rows, "Tâches", []string{"title", "status", "progress", "start_date", "end_date"}, len(r.Tasks), func(i int) []string {
		x := r.Tasks[i]
		return []string{x.Title, x.Status, strconv.Itoa(x.Progress), formatDate(x.StartDate), formatDate(x.EndDate)}
	})
	rows = appendSection(rows, "Jalons", []string{"title", "status", "due_date", "owner_name"}, len(r.Milestones), func(i int) []string {
		x := r.Milestones[i]
		return []string{x.Title, x.Status, formatDate(x.DueDate), deref(x.OwnerName)}
	})

	if err := cw.WriteAll(rows); err != nil {
		return errs.NewInternalErrorWithCause("write report csv", err)
	}
	return nil
}

// appendSection writes the header row only when the section has rows.
func appendSection(rows [][]string, title string, header []string, n int, row func(int) []string) [][]string {
	rows = append(rows, []string{}, []string{title})
	if n == 0 {
		return append(rows, []string{emptySection})
	}
	rows = append(rows, header)
	for i := 0; i < n; i++ {
		rows = append(rows, row(i))
	}
	return rows
}

func formatPeriod(from, to *time.Time) string {
	switch {
	case from != nil && to != nil:
		return formatDay(from) + " au " + formatDay(to)
	case from != nil:
		return "Depuis " + formatDay(from)
	case to != nil:
		return "Jusqu'au " + formatDay(to)
	}
	return "Toutes dates"
}

func itoa64(n int64) string {
	return strconv.FormatInt(n, 10)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatDay(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.DateOnly)
}

func formatDate(d *models.Date) string {
	if d == nil {
		return ""
	}
	return dayOf(*d).Format(time.DateOnly)
}

func formatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04")
}
