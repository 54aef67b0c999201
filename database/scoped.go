package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rpupo63/chantier-backend/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Scope narrows a query, in the shape gorm's Scopes expects.
type Scope func(*gorm.DB) *gorm.DB

// Scoped is a repository over one account-owned table. Every statement it
// issues is filtered on account_id.
type Scoped[T any] struct {
	db *gorm.DB
}

func NewScoped[T any](db *gorm.DB) *Scoped[T] {
	return &Scoped[T]{db: db}
}

func accountColumn() clause.Column {
	return clause.Column{Table: clause.CurrentTable, Name: "account_id"}
}

func idColumn() clause.Column {
	return clause.Column{Table: clause.CurrentTable, Name: "id"}
}

// Query starts a statement on T restricted to accountID.
func (s *Scoped[T]) Query(ctx context.Context, accountID uuid.UUID) *gorm.DB {
	var zero T
	return s.db.WithContext(ctx).Model(&zero).Where(clause.Eq{Column: accountColumn(), Value: accountID})
}

// Get returns gorm.ErrRecordNotFound when the row is missing or owned by another account.
func (s *Scoped[T]) Get(ctx context.Context, accountID, id uuid.UUID, scopes ...Scope) (*T, error) {
	var entity T
	err := s.Query(ctx, accountID).
		Scopes(toGorm(scopes)...).
		Where(clause.Eq{Column: idColumn(), Value: id}).
		First(&entity).Error
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

func (s *Scoped[T]) List(ctx context.Context, accountID uuid.UUID, scopes ...Scope) ([]T, error) {
	var entities []T
	err := s.Query(ctx, accountID).Scopes(toGorm(scopes)...).Find(&entities).Error
	return entities, err
}

func (s *Scoped[T]) Count(ctx context.Context, accountID uuid.UUID, scopes ...Scope) (int64, error) {
	var count int64
	err := s.Query(ctx, accountID).Scopes(toGorm(scopes)...).Count(&count).Error
	return count, err
}

// Sum totals a decimal column. No matching row sums to zero.
func (s *Scoped[T]) Sum(ctx context.Context, accountID uuid.UUID, column string, scopes ...Scope) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := s.Query(ctx, accountID).
		Scopes(toGorm(scopes)...).
		Select("SUM(" + column + ")").
		Row().
		Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

// CountBy counts rows per value of a uuid column, typically project_id.
func (s *Scoped[T]) CountBy(ctx context.Context, accountID uuid.UUID, column string, scopes ...Scope) (map[uuid.UUID]int64, error) {
	rows, err := s.Query(ctx, accountID).
		Scopes(toGorm(scopes)...).
		Select(column + ", COUNT(*)").
		Group(column).
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[uuid.UUID]int64{}
	for rows.Next() {
		var (
			key   uuid.UUID
			count int64
		)
		if err := rows.Scan(&key, &count); err != nil {
			return nil, err
		}
		counts[key] = count
	}
	return counts, rows.Err()
}

// Exists reports whether a row with id is visible to accountID.
func (s *Scoped[T]) Exists(ctx context.Context, accountID, id uuid.UUID) (bool, error) {
	count, err := s.Count(ctx, accountID, WhereEq("id", id))
	return count > 0, err
}

// Create stamps the account on entity before inserting it.
func (s *Scoped[T]) Create(ctx context.Context, accountID uuid.UUID, entity *T) error {
	tenanted, ok := any(entity).(models.Tenanted)
	if !ok {
		return fmt.Errorf("%T is not account owned", entity)
	}
	tenanted.SetAccountID(accountID)
	return s.db.WithContext(ctx).Omit(clause.Associations).Create(entity).Error
}

// Update writes every column of entity except identity ones. A row of another
// account is never touched and reports gorm.ErrRecordNotFound.
func (s *Scoped[T]) Update(ctx context.Context, accountID uuid.UUID, entity *T) error {
	result := s.db.WithContext(ctx).
		Model(entity).
		Where(clause.Eq{Column: accountColumn(), Value: accountID}).
		Select("*").
		Omit("id", "account_id", "created_at", clause.Associations).
		Updates(entity)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdateColumns applies a partial update by id.
func (s *Scoped[T]) UpdateColumns(ctx context.Context, accountID, id uuid.UUID, values map[string]any) error {
	result := s.Query(ctx, accountID).Where(clause.Eq{Column: idColumn(), Value: id}).Updates(values)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *Scoped[T]) Delete(ctx context.Context, accountID, id uuid.UUID) error {
	var zero T
	result := s.db.WithContext(ctx).
		Where(clause.Eq{Column: accountColumn(), Value: accountID}).
		Where(clause.Eq{Column: idColumn(), Value: id}).
		Delete(&zero)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func toGorm(scopes []Scope) []func(*gorm.DB) *gorm.DB {
	out := make([]func(*gorm.DB) *gorm.DB, len(scopes))
	for i, s := range scopes {
		out[i] = s
	}
	return out
}

// Common scopes.

func WhereEq(column string, value any) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(clause.Eq{Column: clause.Column{Table: clause.CurrentTable, Name: column}, Value: value})
	}
}

// WhereOptional applies WhereEq only when value is non-nil.
func WhereOptional(column string, value *uuid.UUID) Scope {
	return func(db *gorm.DB) *gorm.DB {
		if value == nil {
			return db
		}
		return WhereEq(column, *value)(db)
	}
}

// WhereContains is a case-insensitive substring match.
func WhereContains(column, term string) Scope {
	return func(db *gorm.DB) *gorm.DB {
		if term == "" {
			return db
		}
		return db.Where("LOWER("+column+") LIKE ?", "%"+strings.ToLower(term)+"%")
	}
}

func OrderBy(order string) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(order)
	}
}

func Preload(association string) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Preload(association)
	}
}

func Limit(n int) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Limit(n)
	}
}

// Page returns rows (page-1)*size .. page*size. Pages count from 1.
func Page(page, size int) Scope {
	return func(db *gorm.DB) *gorm.DB {
		if page < 1 {
			page = 1
		}
		return db.Offset((page - 1) * size).Limit(size)
	}
}
