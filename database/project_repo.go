package database

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rpupo63/chantier-backend/models"
	"gorm.io/gorm"
)

const ProjectPageSize = 12

type ProjectRepo struct {
	*Scoped[models.Project]
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{NewScoped[models.Project](db)}
}

type ProjectFilter struct {
	Status string
	City   string
	Client string
	Search string
	Page   int
}

// Search lists projects newest first, one page at a time, and the total match count.
func (r *ProjectRepo) Search(ctx context.Context, accountID uuid.UUID, f ProjectFilter) ([]models.Project, int64, error) {
	filters := []Scope{
		func(db *gorm.DB) *gorm.DB {
			if f.Status == "" {
				return db
			}
			return db.Where("status = ?", f.Status)
		},
		WhereContains("city", f.City),
		WhereContains("client_name", f.Client),
		func(db *gorm.DB) *gorm.DB {
			if f.Search == "" {
				return db
			}
			term := "%" + strings.ToLower(f.Search) + "%"
			return db.Where("LOWER(name) LIKE ? OR LOWER(client_name) LIKE ? OR LOWER(address) LIKE ?", term, term, term)
		},
	}

	total, err := r.Count(ctx, accountID, filters...)
	if err != nil {
		return nil, 0, err
	}

	projects, err := r.List(ctx, accountID, append(filters, OrderBy("created_at DESC"), Page(f.Page, ProjectPageSize))...)
	if err != nil {
		return nil, 0, err
	}
	return projects, total, nil
}

// Detail loads a project with its schedule, contractors and the latest activity.
func (r *ProjectRepo) Detail(ctx context.Context, accountID, id uuid.UUID) (*models.Project, error) {
	return r.Get(ctx, accountID, id,
		func(db *gorm.DB) *gorm.DB {
			return db.
				Preload("Phases", func(db *gorm.DB) *gorm.DB { return db.Order("position, created_at") }).
				Preload("Tasks", func(db *gorm.DB) *gorm.DB { return db.Order("start_date, created_at") }).
				Preload("Milestones", func(db *gorm.DB) *gorm.DB { return db.Order("due_date, created_at") }).
				Preload("Contractors.Contractor").
				Preload("Activities", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC").Limit(20) }).
				Preload("Messages", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC").Limit(20) }).
				Preload("Messages.Author")
		},
	)
}
