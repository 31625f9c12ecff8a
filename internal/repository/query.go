package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrDuplicateKey is returned when a unique index rejects a write
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrStaleVersion is returned when an optimistic version check fails
	ErrStaleVersion = errors.New("stale version")

	// ErrStateChanged is returned when a guarded status update matched no row
	ErrStateChanged = errors.New("record changed concurrently")
)

// ListQuery represents common query parameters
type ListQuery struct {
	Page    int
	PerPage int
	Search  string
	SortBy  string
	SortDir string
	Filters map[string]string
}

// NewListQuery creates a ListQuery with defaults
func NewListQuery() *ListQuery {
	return &ListQuery{
		Page:    1,
		PerPage: 20,
		Filters: make(map[string]string),
	}
}

// Normalize clamps pagination values
func (q *ListQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 {
		q.PerPage = 20
	}
	if q.PerPage > 200 {
		q.PerPage = 200
	}
	if q.Filters == nil {
		q.Filters = make(map[string]string)
	}
}

// Filter returns a trimmed filter value
func (q *ListQuery) Filter(key string) string {
	if q.Filters == nil {
		return ""
	}
	return strings.TrimSpace(q.Filters[key])
}

// TotalPages computes the page count for total rows
func (q *ListQuery) TotalPages(total int64) int64 {
	if q.PerPage <= 0 {
		return 0
	}
	return (total + int64(q.PerPage) - 1) / int64(q.PerPage)
}

// paginate counts on a separate session, then applies ordering and limits
func paginate(db *gorm.DB, query *ListQuery, allowedSort map[string]string, defaultOrder string, total *int64) (*gorm.DB, error) {
	query.Normalize()

	// Count total using a separate session so the main query is not altered by Count()
	countDB := db.Session(&gorm.Session{})
	if err := countDB.Count(total).Error; err != nil {
		return nil, err
	}

	order := defaultOrder
	if col, ok := allowedSort[query.SortBy]; ok {
		order = col
		if strings.EqualFold(query.SortDir, "desc") {
			order += " DESC"
		}
	}
	db = db.Order(order)

	return db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage), nil
}

// likePattern builds a case-insensitive LIKE pattern usable on both PostgreSQL and SQLite
func likePattern(search string) string {
	return "%" + strings.ToLower(strings.TrimSpace(search)) + "%"
}

func isDuplicateKeyError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func translateWriteError(err error) error {
	if err == nil {
		return nil
	}
	if isDuplicateKeyError(err) {
		return ErrDuplicateKey
	}
	return err
}
