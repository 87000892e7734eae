// Package repository provides the persistence operations shared by every
// entity: lookups of active rows, creation, partial updates, lifecycle
// retirement (soft delete) and paginated listing.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrNotFound is returned when no active row matches.
var ErrNotFound = errors.New("record not found")

// Store is the per-entity persistence contract.
type Store[T any] interface {
	FindActive(ctx context.Context, id uuid.UUID) (*T, error)
	Create(ctx context.Context, entity *T) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

// Repository implements Store on top of gorm for any model embedding models.Base.
type Repository[T any] struct {
	db *gorm.DB
}

var _ Store[struct{}] = (*Repository[struct{}])(nil)

func New[T any](db *gorm.DB) *Repository[T] {
	return &Repository[T]{db: db}
}

// WithTx returns a repository bound to tx.
func (r *Repository[T]) WithTx(tx *gorm.DB) *Repository[T] {
	return &Repository[T]{db: tx}
}

// DB exposes the underlying handle for ad-hoc queries.
func (r *Repository[T]) DB(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

func (r *Repository[T]) model(ctx context.Context) *gorm.DB {
	var zero T
	return r.db.WithContext(ctx).Model(&zero)
}

func (r *Repository[T]) FindActive(ctx context.Context, id uuid.UUID) (*T, error) {
	return r.FindActiveWhere(ctx, nil, "id = ?", id)
}

// FindActiveWith is FindActive with associations preloaded.
func (r *Repository[T]) FindActiveWith(ctx context.Context, id uuid.UUID, preloads ...string) (*T, error) {
	return r.FindActiveWhere(ctx, preloads, "id = ?", id)
}

// FindActiveWhere returns the first active row matching the condition.
func (r *Repository[T]) FindActiveWhere(ctx context.Context, preloads []string, query interface{}, args ...interface{}) (*T, error) {
	q := r.db.WithContext(ctx).Where("is_active = ?", true).Where(query, args...)
	for _, p := range preloads {
		q = q.Preload(p)
	}
	var entity T
	if err := q.First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &entity, nil
}

// FindBy looks a row up by its identity regardless of lifecycle state.
func (r *Repository[T]) FindBy(ctx context.Context, query interface{}, args ...interface{}) (*T, error) {
	var entity T
	if err := r.db.WithContext(ctx).Where(query, args...).First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &entity, nil
}

// ExistsActive reports whether an active row matches the condition.
func (r *Repository[T]) ExistsActive(ctx context.Context, query interface{}, args ...interface{}) (bool, error) {
	var count int64
	err := r.model(ctx).Where("is_active = ?", true).Where(query, args...).Count(&count).Error
	return count > 0, err
}

func (r *Repository[T]) Create(ctx context.Context, entity *T) error {
	return r.db.WithContext(ctx).Create(entity).Error
}

// Update applies a partial update and reloads entity. updated_at is
// refreshed by gorm.
func (r *Repository[T]) Update(ctx context.Context, entity *T, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Model(entity).Updates(updates).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).First(entity).Error
}

func (r *Repository[T]) SoftDelete(ctx context.Context, id uuid.UUID) error {
	res := r.model(ctx).Where("id = ? AND is_active = ?", id, true).Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// MaxInt returns the maximum of column over all rows matching the
// condition, retired ones included, or 0 when none exist.
func (r *Repository[T]) MaxInt(ctx context.Context, column string, query interface{}, args ...interface{}) (int, error) {
	var current sql.NullInt64
	err := r.model(ctx).
		Where(query, args...).
		Select("MAX(" + column + ")").
		Row().
		Scan(&current)
	if err != nil || !current.Valid {
		return 0, err
	}
	return int(current.Int64), nil
}

// ListQuery describes a page request.
type ListQuery struct {
	Page          int
	PerPage       int
	Search        string
	SearchColumns []string
	SortBy        string
	SortDir       string

	// AllowedSorts whitelists SortBy; the first entry is the default.
	AllowedSorts []string
	Preloads     []string

	// Scopes filter both the count and the page query.
	Scopes []func(*gorm.DB) *gorm.DB

	// FindScopes only shape the page query, e.g. conditional preloads.
	FindScopes []func(*gorm.DB) *gorm.DB
}

// Page is one page of results.
type Page[T any] struct {
	Items       []T   `json:"data"`
	Total       int64 `json:"total"`
	Pages       int   `json:"pages"`
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
}

const MaxPerPage = 100

// Normalize clamps paging values and resolves the sort column.
func (q *ListQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 {
		q.PerPage = 10
	}
	if q.PerPage > MaxPerPage {
		q.PerPage = MaxPerPage
	}
	allowed := false
	for _, s := range q.AllowedSorts {
		if s == q.SortBy {
			allowed = true
			break
		}
	}
	if !allowed {
		q.SortBy = ""
		if len(q.AllowedSorts) > 0 {
			q.SortBy = q.AllowedSorts[0]
		}
	}
	if strings.ToLower(q.SortDir) == "desc" {
		q.SortDir = "desc"
	} else {
		q.SortDir = "asc"
	}
}

// List returns a page of active rows.
func (r *Repository[T]) List(ctx context.Context, q ListQuery) (*Page[T], error) {
	q.Normalize()

	base := r.model(ctx).Where("is_active = ?", true).Scopes(q.Scopes...)
	if search := strings.TrimSpace(q.Search); search != "" && len(q.SearchColumns) > 0 {
		like := "%" + strings.ToLower(search) + "%"
		clauses := make([]string, 0, len(q.SearchColumns))
		args := make([]interface{}, 0, len(q.SearchColumns))
		for _, col := range q.SearchColumns {
			clauses = append(clauses, "LOWER("+col+") LIKE ?")
			args = append(args, like)
		}
		base = base.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}

	find := base.Session(&gorm.Session{}).Scopes(q.FindScopes...)
	for _, p := range q.Preloads {
		find = find.Preload(p)
	}
	if q.SortBy != "" {
		find = find.Order(q.SortBy + " " + q.SortDir)
	}

	items := make([]T, 0)
	if err := find.Offset((q.Page - 1) * q.PerPage).Limit(q.PerPage).Find(&items).Error; err != nil {
		return nil, err
	}

	return &Page[T]{
		Items:       items,
		Total:       total,
		Pages:       int(math.Ceil(float64(total) / float64(q.PerPage))),
		CurrentPage: q.Page,
		PerPage:     q.PerPage,
	}, nil
}
