package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/mock/gomock"

	"holidays-app/internal/service"
	"holidays-app/internal/service/mocks"
)

var christmas = time.Date(2025, time.December, 25, 0, 0, 0, 0, time.UTC)

func holidayRouter(h *HolidayHandler) http.Handler {
	r := chi.NewRouter()
	r.Get("/holidays", h.List)
	r.Get("/holidays/{id}", h.Get)
	r.Post("/holidays", h.Create)
	r.Put("/holidays", h.Update)
	r.Delete("/holidays", h.Delete)
	r.Delete("/holidays/{id}", h.Delete)
	return r
}

func TestHolidayHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name          string
		method        string
		target        string
		body          string
		mockSetup     func(*mocks.MockHolidayService)
		wantStatus    int
		checkResponse func(*testing.T, HolidaysResponse)
	}{
		{
			name:   "get existing",
			method: http.MethodGet,
			target: "/holidays/1",
			mockSetup: func(m *mocks.MockHolidayService) {
				m.EXPECT().Get(gomock.Any(), int64(1)).Return(service.Holiday{ID: 1, Title: "Christmas", Date: christmas}, nil)
			},
			wantStatus: http.StatusOK,
			checkResponse: func(t *testing.T, resp HolidaysResponse) {
				if len(resp.Holidays) != 1 || resp.Holidays[0].Date != "2025-12-25T00:00:00Z" {
					t.Errorf("holidays = %+v", resp.Holidays)
				}
			},
		},
		{
			name:   "get missing",
			method: http.MethodGet,
			target: "/holidays/2",
			mockSetup: func(m *mocks.MockHolidayService) {
				m.EXPECT().Get(gomock.Any(), int64(2)).Return(service.Holiday{}, service.ErrNotFound)
			},
			wantStatus: http.StatusNotFound,
			checkResponse: func(t *testing.T, resp HolidaysResponse) {
				if resp.Message != MsgNotFound || resp.Holidays == nil || len(resp.Holidays) != 0 {
					t.Errorf("response = %+v", resp)
				}
			},
		},
		{
			name:       "get non numeric id",
			method:     http.MethodGet,
			target:     "/holidays/abc",
			mockSetup:  func(m *mocks.MockHolidayService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "list bad year",
			method:     http.MethodGet,
			target:     "/holidays?year=next",
			mockSetup:  func(m *mocks.MockHolidayService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "create with plain date",
			method: http.MethodPost,
			target: "/holidays",
			body:   `{"title":"Christmas","date":"2025-12-25"}`,
			mockSetup: func(m *mocks.MockHolidayService) {
				m.EXPECT().Create(gomock.Any(), service.Holiday{Title: "Christmas", Date: christmas}).
					Return(service.Holiday{ID: 3, Title: "Christmas", Date: christmas}, nil)
			},
			wantStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, resp HolidaysResponse) {
				if resp.Message != MsgHolidayAdded || resp.Holidays[0].ID != 3 {
					t.Errorf("response = %+v", resp)
				}
			},
		},
		{
			name:       "create bad date",
			method:     http.MethodPost,
			target:     "/holidays",
			body:       `{"title":"Christmas","date":"25/12/2025"}`,
			mockSetup:  func(m *mocks.MockHolidayService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "create missing title",
			method: http.MethodPost,
			target: "/holidays",
			body:   `{"date":"2025-12-25T00:00:00Z"}`,
			mockSetup: func(m *mocks.MockHolidayService) {
				m.EXPECT().Create(gomock.Any(), gomock.Any()).
					Return(service.Holiday{}, &service.ValidationError{Field: "title", Message: "cannot be empty"})
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "update",
			method: http.MethodPut,
			target: "/holidays",
			body:   `{"id":3,"title":"Xmas","date":"2025-12-25T00:00:00Z"}`,
			mockSetup: func(m *mocks.MockHolidayService) {
				m.EXPECT().Update(gomock.Any(), service.Holiday{ID: 3, Title: "Xmas", Date: christmas}).
					Return(service.Holiday{ID: 3, Title: "Xmas", Date: christmas}, nil)
			},
			wantStatus: http.StatusOK,
			checkResponse: func(t *testing.T, resp HolidaysResponse) {
				if resp.Message != MsgHolidayUpdated || resp.Holidays[0].Title != "Xmas" {
					t.Errorf("response = %+v", resp)
				}
			},
		},
		{
			name:   "update missing",
			method: http.MethodPut,
			target: "/holidays",
			body:   `{"id":9,"title":"Xmas","date":"2025-12-25"}`,
			mockSetup: func(m *mocks.MockHolidayService) {
				m.EXPECT().Update(gomock.Any(), gomock.Any()).Return(service.Holiday{}, service.ErrNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name:   "delete by path",
			method: http.MethodDelete,
			target: "/holidays/3",
			mockSetup: func(m *mocks.MockHolidayService) {
				m.EXPECT().Delete(gomock.Any(), int64(3)).Return(nil)
			},
			wantStatus: http.StatusOK,
			checkResponse: func(t *testing.T, resp HolidaysResponse) {
				if resp.Message != MsgDeleted {
					t.Errorf("message = %q, want %q", resp.Message, MsgDeleted)
				}
			},
		},
		{
			name:   "delete by body",
			method: http.MethodDelete,
			target: "/holidays",
			body:   `{"id":4}`,
			mockSetup: func(m *mocks.MockHolidayService) {
				m.EXPECT().Delete(gomock.Any(), int64(4)).Return(service.ErrNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name:   "storage failure",
			method: http.MethodDelete,
			target: "/holidays/5",
			mockSetup: func(m *mocks.MockHolidayService) {
				m.EXPECT().Delete(gomock.Any(), int64(5)).Return(errors.New("disk full"))
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockHolidayService := mocks.NewMockHolidayService(ctrl)
			tt.mockSetup(mockHolidayService)
			router := holidayRouter(NewHolidayHandler(mockHolidayService))

			req := httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("%s %s status = %v, want %v (body %s)", tt.method, tt.target, w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.checkResponse != nil {
				var resp HolidaysResponse
				if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
					t.Fatalf("decode: %v", err)
				}
				tt.checkResponse(t, resp)
			}
		})
	}
}

func TestHolidayHandler_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name      string
		target    string
		mockSetup func(*mocks.MockHolidayService)
		wantBody  string
	}{
		{
			name:   "empty list is an empty array",
			target: "/holidays",
			mockSetup: func(m *mocks.MockHolidayService) {
				m.EXPECT().List(gomock.Any()).Return([]service.Holiday{}, nil)
			},
			wantBody: `[]`,
		},
		{
			name:   "by year",
			target: "/holidays?year=2025",
			mockSetup: func(m *mocks.MockHolidayService) {
				m.EXPECT().ListByYear(gomock.Any(), 2025).Return([]service.Holiday{{ID: 1, Title: "Christmas", Date: christmas}}, nil)
			},
			wantBody: `[{"id":1,"title":"Christmas","date":"2025-12-25T00:00:00Z"}]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockHolidayService := mocks.NewMockHolidayService(ctrl)
			tt.mockSetup(mockHolidayService)
			router := holidayRouter(NewHolidayHandler(mockHolidayService))

			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("GET %s status = %v, want %v", tt.target, w.Code, http.StatusOK)
			}
			if got := strings.TrimSpace(w.Body.String()); got != tt.wantBody {
				t.Errorf("GET %s body = %s, want %s", tt.target, got, tt.wantBody)
			}

			var holidays []HolidayPayload
			if err := json.Unmarshal(w.Body.Bytes(), &holidays); err != nil {
				t.Errorf("list body should be a bare JSON array: %v", err)
			}
		})
	}
}
