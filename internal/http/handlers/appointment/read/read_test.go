package read_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/consultancy-scheduler/internal/http/handlers/appointment/read"
	"github.com/magabrotheeeer/consultancy-scheduler/internal/http/middlewarectx"
	"github.com/magabrotheeeer/consultancy-scheduler/internal/lib/apperr"
	"github.com/magabrotheeeer/consultancy-scheduler/internal/models"
)

// Мок для Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Get(ctx context.Context, accountID, id int64) (*models.Appointment, error) {
	args := m.Called(ctx, accountID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Appointment), args.Error(1)
}

func TestReadHandler(t *testing.T) {
	start := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Second)

	tests := []struct {
		name           string
		url            string
		withAccount    bool
		setupMocks     func(s *MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:        "запись найдена",
			url:         "/api/v1/appointments/3",
			withAccount: true,
			setupMocks: func(s *MockService) {
				s.On("Get", mock.Anything, int64(7), int64(3)).
					Return(&models.Appointment{
						ID:          3,
						AccountID:   7,
						ServiceName: "Online Meeting",
						StartTime:   start,
						EndTime:     start.Add(45 * time.Minute),
						Status:      models.StatusRequested,
					}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"service_name":"Online Meeting"`,
		},
		{
			name:           "некорректный id в url",
			url:            "/api/v1/appointments/abc",
			withAccount:    true,
			setupMocks:     func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "failed to decode id from url",
		},
		{
			name:           "нет аккаунта в контексте",
			url:            "/api/v1/appointments/3",
			withAccount:    false,
			setupMocks:     func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "unauthorized",
		},
		{
			name:        "чужая или несуществующая запись",
			url:         "/api/v1/appointments/99",
			withAccount: true,
			setupMocks: func(s *MockService) {
				s.On("Get", mock.Anything, int64(7), int64(99)).
					Return(nil, apperr.New(apperr.KindNotFound, "appointment not found or inaccessible"))
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   "appointment not found or inaccessible",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(MockService)
			tt.setupMocks(service)
			log := slog.New(slog.NewTextHandler(io.Discard, nil))
			handler := read.New(log, service)

			router := chi.NewRouter()
			router.Get("/api/v1/appointments/{id}", handler.ServeHTTP)

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			if tt.withAccount {
				req = req.WithContext(context.WithValue(req.Context(), middlewarectx.AccountID, int64(7)))
			}
			rr := httptest.NewRecorder()

			router.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			body, err := io.ReadAll(rr.Body)
			require.NoError(t, err)
			assert.Contains(t, string(body), tt.expectedBody)
			service.AssertExpectations(t)
		})
	}
}
