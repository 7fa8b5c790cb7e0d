package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_holiday_store.go -package=mocks holidays-app/internal/storage HolidayStore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
)

// HolidayStore defines the interface for holiday storage operations.
type HolidayStore interface {
	// GetByID returns nil and ErrNotFound if the holiday does not exist.
	GetByID(ctx context.Context, id int64) (*HolidayRecord, error)
	ListAll(ctx context.Context) ([]HolidayRecord, error)
	// ListByYear returns the holidays whose date falls in the given year.
	ListByYear(ctx context.Context, year int) ([]HolidayRecord, error)
	// Create inserts the holiday and sets its ID.
	Create(ctx context.Context, h *HolidayRecord) error
	// Update returns ErrNotFound if no row has the holiday's ID.
	Update(ctx context.Context, h *HolidayRecord) error
	// Delete returns ErrNotFound if no row has the given ID.
	Delete(ctx context.Context, id int64) error
}

// HolidayRepo provides methods for holiday operations.
// It implements the HolidayStore interface.
type HolidayRepo struct {
	db *DB
}

// NewHolidayRepo creates a new HolidayRepo.
func NewHolidayRepo(db *DB) *HolidayRepo {
	return &HolidayRepo{db: db}
}

const holidayColumns = "id, title, holiday_date"

func (r *HolidayRepo) GetByID(ctx context.Context, id int64) (*HolidayRecord, error) {
	row := r.db.QueryRowContext(ctx,
		r.db.Rebind("SELECT "+holidayColumns+" FROM holidays WHERE id = ?"),
		id,
	)
	h, err := scanHoliday(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query holiday: %w", err)
	}
	return h, nil
}

func (r *HolidayRepo) ListAll(ctx context.Context) ([]HolidayRecord, error) {
	return r.list(ctx, "SELECT "+holidayColumns+" FROM holidays ORDER BY holiday_date, id")
}

func (r *HolidayRepo) ListByYear(ctx context.Context, year int) ([]HolidayRecord, error) {
	return r.list(ctx,
		"SELECT "+holidayColumns+" FROM holidays WHERE substr(holiday_date, 1, 4) = ? ORDER BY holiday_date, id",
		fmt.Sprintf("%04d", year),
	)
}

func (r *HolidayRepo) list(ctx context.Context, query string, args ...any) ([]HolidayRecord, error) {
	rows, err := r.db.QueryContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query holidays: %w", err)
	}
	defer rows.Close()

	holidays := []HolidayRecord{}
	for rows.Next() {
		h, err := scanHoliday(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan holiday: %w", err)
		}
		holidays = append(holidays, *h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate holidays: %w", err)
	}
	return holidays, nil
}

func (r *HolidayRepo) Create(ctx context.Context, h *HolidayRecord) error {
	err := r.db.QueryRowContext(ctx,
		r.db.Rebind("INSERT INTO holidays (title, holiday_date) VALUES (?, ?) RETURNING id"),
		h.Title, storedDate(h.Date),
	).Scan(&h.ID)
	if err != nil {
		return fmt.Errorf("failed to insert holiday: %w", err)
	}
	return nil
}

func (r *HolidayRepo) Update(ctx context.Context, h *HolidayRecord) error {
	res, err := r.db.ExecContext(ctx,
		r.db.Rebind("UPDATE holidays SET title = ?, holiday_date = ? WHERE id = ?"),
		h.Title, storedDate(h.Date), h.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update holiday: %w", err)
	}
	return expectAffected(res)
}

func (r *HolidayRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind("DELETE FROM holidays WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("failed to delete holiday: %w", err)
	}
	return expectAffected(res)
}

// storedDate renders dates in UTC so that text ordering and the year prefix
// follow the instant rather than the writer's offset.
func storedDate(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanHoliday(s scanner) (*HolidayRecord, error) {
	var h HolidayRecord
	var dateStr string
	if err := s.Scan(&h.ID, &h.Title, &dateStr); err != nil {
		return nil, err
	}
	date, err := time.Parse(time.RFC3339, dateStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse holiday_date %s: %w", strconv.Quote(dateStr), err)
	}
	h.Date = date
	return &h, nil
}

func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
