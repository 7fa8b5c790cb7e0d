package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_holiday_service.go -package=mocks -mock_names=HolidayService=MockHolidayService holidays-app/internal/service HolidayService

import (
	"context"
	"errors"
	"strings"
	"time"

	"holidays-app/internal/contextutil"
	"holidays-app/internal/storage"
)

// Holiday is a named calendar date.
type Holiday struct {
	ID    int64
	Title string
	Date  time.Time
}

// HolidayService manages holidays.
type HolidayService interface {
	Get(ctx context.Context, id int64) (Holiday, error)
	List(ctx context.Context) ([]Holiday, error)
	ListByYear(ctx context.Context, year int) ([]Holiday, error)
	Create(ctx context.Context, h Holiday) (Holiday, error)
	// Update replaces an existing holiday. The ID is required.
	Update(ctx context.Context, h Holiday) (Holiday, error)
	Delete(ctx context.Context, id int64) error
}

type holidayService struct {
	store storage.HolidayStore
}

// NewHolidayService creates a new HolidayService.
func NewHolidayService(store storage.HolidayStore) HolidayService {
	return &holidayService{store: store}
}

func (s *holidayService) Get(ctx context.Context, id int64) (Holiday, error) {
	if id <= 0 {
		return Holiday{}, &ValidationError{Field: "id", Message: "must be positive"}
	}
	rec, err := s.store.GetByID(ctx, id)
	if err != nil {
		return Holiday{}, mapStoreError(err, "failed to get holiday")
	}
	return fromRecord(*rec), nil
}

func (s *holidayService) List(ctx context.Context) ([]Holiday, error) {
	recs, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, WrapError(err, "failed to list holidays")
	}
	return fromRecords(recs), nil
}

func (s *holidayService) ListByYear(ctx context.Context, year int) ([]Holiday, error) {
	if year < 1 || year > 9999 {
		return nil, &ValidationError{Field: "year", Message: "must be between 1 and 9999"}
	}
	recs, err := s.store.ListByYear(ctx, year)
	if err != nil {
		return nil, WrapError(err, "failed to list holidays by year")
	}
	return fromRecords(recs), nil
}

func (s *holidayService) Create(ctx context.Context, h Holiday) (Holiday, error) {
	if err := validateHoliday(h); err != nil {
		return Holiday{}, err
	}
	rec := storage.HolidayRecord{Title: strings.TrimSpace(h.Title), Date: h.Date}
	if err := s.store.Create(ctx, &rec); err != nil {
		return Holiday{}, WrapError(err, "failed to create holiday")
	}
	contextutil.LoggerFromContext(ctx).InfoContext(ctx, "holiday created", "id", rec.ID, "title", rec.Title)
	return fromRecord(rec), nil
}

func (s *holidayService) Update(ctx context.Context, h Holiday) (Holiday, error) {
	if h.ID <= 0 {
		return Holiday{}, &ValidationError{Field: "id", Message: "is required"}
	}
	if err := validateHoliday(h); err != nil {
		return Holiday{}, err
	}
	rec := storage.HolidayRecord{ID: h.ID, Title: strings.TrimSpace(h.Title), Date: h.Date}
	if err := s.store.Update(ctx, &rec); err != nil {
		return Holiday{}, mapStoreError(err, "failed to update holiday")
	}
	contextutil.LoggerFromContext(ctx).InfoContext(ctx, "holiday updated", "id", rec.ID)
	return fromRecord(rec), nil
}

func (s *holidayService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return &ValidationError{Field: "id", Message: "is required"}
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return mapStoreError(err, "failed to delete holiday")
	}
	contextutil.LoggerFromContext(ctx).InfoContext(ctx, "holiday deleted", "id", id)
	return nil
}

func validateHoliday(h Holiday) error {
	if strings.TrimSpace(h.Title) == "" {
		return &ValidationError{Field: "title", Message: "cannot be empty"}
	}
	if h.Date.IsZero() {
		return &ValidationError{Field: "date", Message: "is required"}
	}
	return nil
}

func mapStoreError(err error, msg string) error {
	if errors.Is(err, storage.ErrNotFound) {
		return ErrNotFound
	}
	return WrapError(err, msg)
}

func fromRecord(r storage.HolidayRecord) Holiday {
	return Holiday{ID: r.ID, Title: r.Title, Date: r.Date}
}

func fromRecords(recs []storage.HolidayRecord) []Holiday {
	out := make([]Holiday, 0, len(recs))
	for _, r := range recs {
		out = append(out, fromRecord(r))
	}
	return out
}
