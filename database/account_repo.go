package database

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rpupo63/chantier-backend/models"
	"gorm.io/gorm"
)

type AccountRepo struct {
	db *gorm.DB
}

func NewAccountRepo(db *gorm.DB) *AccountRepo {
	return &AccountRepo{db}
}

func (r *AccountRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).First(&account, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *AccountRepo) Add(ctx context.Context, account *models.Account) error {
	return r.db.WithContext(ctx).Create(account).Error
}

func (r *AccountRepo) Update(ctx context.Context, account *models.Account) error {
	return r.db.WithContext(ctx).Save(account).Error
}

type UserRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db}
}

func (r *UserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail matches case-insensitively.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepo) Add(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *UserRepo) SetCurrentAccount(ctx context.Context, userID, accountID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Update("current_account_id", accountID).Error
}

// FindByAccount returns every user holding a membership in the account.
func (r *UserRepo) FindByAccount(ctx context.Context, accountID uuid.UUID) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Joins("JOIN memberships ON memberships.user_id = users.id").
		Where("memberships.account_id = ?", accountID).
		Order("users.name").
		Find(&users).Error
	return users, err
}

type MembershipRepo struct {
	*Scoped[models.Membership]
}

func NewMembershipRepo(db *gorm.DB) *MembershipRepo {
	return &MembershipRepo{NewScoped[models.Membership](db)}
}

func (r *MembershipRepo) FindByUser(ctx context.Context, accountID, userID uuid.UUID) (*models.Membership, error) {
	var membership models.Membership
	err := r.Query(ctx, accountID).Where("user_id = ?", userID).First(&membership).Error
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

// FirstForUser is the oldest membership of a user across all accounts.
func (r *MembershipRepo) FirstForUser(ctx context.Context, userID uuid.UUID) (*models.Membership, error) {
	var membership models.Membership
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at").
		First(&membership).Error
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

func (r *MembershipRepo) CountOwners(ctx context.Context, accountID uuid.UUID) (int64, error) {
	return r.Count(ctx, accountID, WhereEq("role", models.RoleOwner))
}

func (r *MembershipRepo) ListWithUsers(ctx context.Context, accountID uuid.UUID) ([]models.Membership, error) {
	return r.List(ctx, accountID, Preload("User"), OrderBy("created_at"))
}
