package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"holidays-app/internal/contextutil"
	"holidays-app/internal/service"
)

// Messages returned alongside holiday payloads.
const (
	MsgHolidayAdded   = "Holiday added"
	MsgHolidayUpdated = "Holiday updated"
	MsgDeleted        = "Deleted"
	MsgNotFound       = "Not found"
)

// HolidayHandler handles HTTP requests for holidays.
type HolidayHandler struct {
	holidayService service.HolidayService
}

// NewHolidayHandler creates a new HolidayHandler.
func NewHolidayHandler(holidayService service.HolidayService) *HolidayHandler {
	return &HolidayHandler{holidayService: holidayService}
}

// HolidayPayload is the JSON form of a holiday. Date accepts RFC3339 or YYYY-MM-DD.
type HolidayPayload struct {
	ID    int64  `json:"id,omitempty"`
	Title string `json:"title"`
	Date  string `json:"date"`
}

// HolidaysResponse wraps single-holiday and write responses. List routes return a bare array.
type HolidaysResponse struct {
	Holidays []HolidayPayload `json:"holidays"`
	Message  string           `json:"message,omitempty"`
}

func toPayload(h service.Holiday) HolidayPayload {
	return HolidayPayload{ID: h.ID, Title: h.Title, Date: h.Date.Format(time.RFC3339)}
}

func toPayloads(hs []service.Holiday) []HolidayPayload {
	out := make([]HolidayPayload, 0, len(hs))
	for _, h := range hs {
		out = append(out, toPayload(h))
	}
	return out
}

func (p HolidayPayload) toService() (service.Holiday, error) {
	h := service.Holiday{ID: p.ID, Title: p.Title}
	raw := strings.TrimSpace(p.Date)
	if raw == "" {
		return h, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		h.Date = t
		return h, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return h, &service.ValidationError{Field: "date", Message: "must be RFC3339 or YYYY-MM-DD"}
	}
	h.Date = t
	return h, nil
}

// Get returns one holiday by id.
func (h *HolidayHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	holiday, err := h.holidayService.Get(ctx, id)
	if errors.Is(err, service.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, HolidaysResponse{Holidays: []HolidayPayload{}, Message: MsgNotFound})
		return
	}
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to get holiday")
		return
	}
	writeJSON(w, http.StatusOK, HolidaysResponse{Holidays: []HolidayPayload{toPayload(holiday)}})
}

// List returns all holidays, or those of ?year= when given, as a bare JSON array.
func (h *HolidayHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		holidays []service.Holiday
		err      error
	)
	if raw := r.URL.Query().Get("year"); raw != "" {
		year, convErr := strconv.Atoi(raw)
		if convErr != nil {
			writeError(w, http.StatusBadRequest, "year must be a number")
			return
		}
		holidays, err = h.holidayService.ListByYear(ctx, year)
	} else {
		holidays, err = h.holidayService.List(ctx)
	}
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to list holidays")
		return
	}
	writeJSON(w, http.StatusOK, toPayloads(holidays))
}

// Create adds a holiday.
func (h *HolidayHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	in, ok := decodeHoliday(w, r)
	if !ok {
		return
	}

	created, err := h.holidayService.Create(ctx, in)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to add holiday")
		return
	}
	contextutil.LoggerFromContext(ctx).InfoContext(ctx, "holiday added", "id", created.ID)
	writeJSON(w, http.StatusCreated, HolidaysResponse{
		Holidays: []HolidayPayload{toPayload(created)},
		Message:  MsgHolidayAdded,
	})
}

// Update replaces an existing holiday. The body must carry the id.
func (h *HolidayHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	in, ok := decodeHoliday(w, r)
	if !ok {
		return
	}

	updated, err := h.holidayService.Update(ctx, in)
	if errors.Is(err, service.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, HolidaysResponse{Holidays: []HolidayPayload{}, Message: MsgNotFound})
		return
	}
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to update holiday")
		return
	}
	writeJSON(w, http.StatusOK, HolidaysResponse{
		Holidays: []HolidayPayload{toPayload(updated)},
		Message:  MsgHolidayUpdated,
	})
}

// Delete removes the holiday named by the path id, or by the id in the body.
func (h *HolidayHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var id int64
	if chi.URLParam(r, "id") != "" {
		var ok bool
		if id, ok = pathID(w, r); !ok {
			return
		}
	} else {
		in, ok := decodeHoliday(w, r)
		if !ok {
			return
		}
		id = in.ID
	}

	err := h.holidayService.Delete(ctx, id)
	if errors.Is(err, service.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, HolidaysResponse{Holidays: []HolidayPayload{}, Message: MsgNotFound})
		return
	}
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to delete holiday")
		return
	}
	writeJSON(w, http.StatusOK, HolidaysResponse{Holidays: []HolidayPayload{}, Message: MsgDeleted})
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "id must be a number")
		return 0, false
	}
	return id, true
}

func decodeHoliday(w http.ResponseWriter, r *http.Request) (service.Holiday, bool) {
	ctx := r.Context()
	var payload HolidayPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "invalid holiday body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return service.Holiday{}, false
	}
	h, err := payload.toService()
	if err != nil {
		handleServiceError(w, ctx, err, "Invalid holiday")
		return service.Holiday{}, false
	}
	return h, true
}
