package database

import (
	"context"

	"github.com/rpupo63/chantier-backend/models"
	"gorm.io/gorm"
)

type (
	ContractorRepo        = Scoped[models.Contractor]
	ProjectContractorRepo = Scoped[models.ProjectContractor]
	DocumentRepo          = Scoped[models.Document]
	PhaseRepo             = Scoped[models.ProjectPhase]
	TaskRepo              = Scoped[models.ProjectTask]
	MilestoneRepo         = Scoped[models.ProjectMilestone]
	IncidentRepo          = Scoped[models.Incident]
	ValidationRepo        = Scoped[models.Validation]
	DecisionRepo          = Scoped[models.Decision]
	PhotoRepo             = Scoped[models.Photo]
	CommentRepo           = Scoped[models.Comment]
	MessageRepo           = Scoped[models.ProjectMessage]
	ActivityRepo          = Scoped[models.ProjectActivity]
)

type Database struct {
	db                    *gorm.DB
	accountRepo           *AccountRepo
	userRepo              *UserRepo
	membershipRepo        *MembershipRepo
	projectRepo           *ProjectRepo
	contractorRepo        *ContractorRepo
	projectContractorRepo *ProjectContractorRepo
	documentRepo          *DocumentRepo
	budgetItemRepo        *BudgetItemRepo
	phaseRepo             *PhaseRepo
	taskRepo              *TaskRepo
	taskDependencyRepo    *TaskDependencyRepo
	milestoneRepo         *MilestoneRepo
	incidentRepo          *IncidentRepo
	validationRepo        *ValidationRepo
	decisionRepo          *DecisionRepo
	photoRepo             *PhotoRepo
	commentRepo           *CommentRepo
	messageRepo           *MessageRepo
	activityRepo          *ActivityRepo
	notificationRepo      *NotificationRepo
	featureUsageRepo      *FeatureUsageRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		db:                    db,
		accountRepo:           NewAccountRepo(db),
		userRepo:              NewUserRepo(db),
		membershipRepo:        NewMembershipRepo(db),
		projectRepo:           NewProjectRepo(db),
		contractorRepo:        NewScoped[models.Contractor](db),
		projectContractorRepo: NewScoped[models.ProjectContractor](db),
		documentRepo:          NewScoped[models.Document](db),
		budgetItemRepo:        NewBudgetItemRepo(db),
		phaseRepo:             NewScoped[models.ProjectPhase](db),
		taskRepo:              NewScoped[models.ProjectTask](db),
		taskDependencyRepo:    NewTaskDependencyRepo(db),
		milestoneRepo:         NewScoped[models.ProjectMilestone](db),
		incidentRepo:          NewScoped[models.Incident](db),
		validationRepo:        NewScoped[models.Validation](db),
		decisionRepo:          NewScoped[models.Decision](db),
		photoRepo:             NewScoped[models.Photo](db),
		commentRepo:           NewScoped[models.Comment](db),
		messageRepo:           NewScoped[models.ProjectMessage](db),
		activityRepo:          NewScoped[models.ProjectActivity](db),
		notificationRepo:      NewNotificationRepo(db),
		featureUsageRepo:      NewFeatureUsageRepo(db),
	}
}

// Transaction runs fn against repositories bound to a single transaction.
// Returning an error from fn rolls everything back.
func (d Database) Transaction(ctx context.Context, fn func(tx Database) error) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}

// Ping checks the connection, used by the health endpoint.
func (d Database) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Accessor methods for each repository

func (d Database) AccountRepo() *AccountRepo {
	return d.accountRepo
}

func (d Database) UserRepo() *UserRepo {
	return d.userRepo
}

func (d Database) MembershipRepo() *MembershipRepo {
	return d.membershipRepo
}

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

func (d Database) ContractorRepo() *ContractorRepo {
	return d.contractorRepo
}

func (d Database) ProjectContractorRepo() *ProjectContractorRepo {
	return d.projectContractorRepo
}

func (d Database) DocumentRepo() *DocumentRepo {
	return d.documentRepo
}

func (d Database) BudgetItemRepo() *BudgetItemRepo {
	return d.budgetItemRepo
}

func (d Database) PhaseRepo() *PhaseRepo {
	return d.phaseRepo
}

func (d Database) TaskRepo() *TaskRepo {
	return d.taskRepo
}

func (d Database) TaskDependencyRepo() *TaskDependencyRepo {
	return d.taskDependencyRepo
}

func (d Database) MilestoneRepo() *MilestoneRepo {
	return d.milestoneRepo
}

func (d Database) IncidentRepo() *IncidentRepo {
	return d.incidentRepo
}

func (d Database) ValidationRepo() *ValidationRepo {
	return d.validationRepo
}

func (d Database) DecisionRepo() *DecisionRepo {
	return d.decisionRepo
}

func (d Database) PhotoRepo() *PhotoRepo {
	return d.photoRepo
}

func (d Database) CommentRepo() *CommentRepo {
	return d.commentRepo
}

func (d Database) MessageRepo() *MessageRepo {
	return d.messageRepo
}

func (d Database) ActivityRepo() *ActivityRepo {
	return d.activityRepo
}

func (d Database) NotificationRepo() *NotificationRepo {
	return d.notificationRepo
}

func (d Database) FeatureUsageRepo() *FeatureUsageRepo {
	return d.featureUsageRepo
}
