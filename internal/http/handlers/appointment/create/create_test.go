package create_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/consultancy-scheduler/internal/http/handlers/appointment/create"
	"github.com/magabrotheeeer/consultancy-scheduler/internal/http/middlewarectx"
	"github.com/magabrotheeeer/consultancy-scheduler/internal/lib/apperr"
	"github.com/magabrotheeeer/consultancy-scheduler/internal/models"
)

// Мок для Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Create(ctx context.Context, accountID int64, req models.DummyAppointment) (*models.Appointment, error) {
	args := m.Called(ctx, accountID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Appointment), args.Error(1)
}

func TestCreateHandler(t *testing.T) {
	start := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Second)
	validBody := `{"service_name":"Standard Session","start_time":"` + start.Format(time.RFC3339) + `"}`

	tests := []struct {
		name           string
		requestBody    string
		withAccount    bool
		setupMocks     func(s *MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:        "успешное создание записи",
			requestBody: validBody,
			withAccount: true,
			setupMocks: func(s *MockService) {
				s.On("Create", mock.Anything, int64(7), mock.Anything).
					Return(&models.Appointment{
						ID:          1,
						AccountID:   7,
						ServiceName: "Standard Session",
						StartTime:   start,
						EndTime:     start.Add(time.Hour),
						Status:      models.StatusRequested,
					}, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"status":"requested"`,
		},
		{
			name:           "некорректный JSON",
			requestBody:    `{"service_name":`,
			withAccount:    true,
			setupMocks:     func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "invalid request body",
		},
		{
			name:           "отсутствует имя услуги",
			requestBody:    `{"start_time":"` + start.Format(time.RFC3339) + `"}`,
			withAccount:    true,
			setupMocks:     func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   "field ServiceName is a required field",
		},
		{
			name:           "нет аккаунта в контексте",
			requestBody:    validBody,
			withAccount:    false,
			setupMocks:     func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "unauthorized",
		},
		{
			name:        "неизвестная услуга",
			requestBody: `{"service_name":"Deep Tissue Massage","start_time":"` + start.Format(time.RFC3339) + `"}`,
			withAccount: true,
			setupMocks: func(s *MockService) {
				s.On("Create", mock.Anything, int64(7), mock.Anything).
					Return(nil, apperr.New(apperr.KindInvalidServiceType, "unknown service type"))
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "unknown service type",
		},
		{
			name:        "слот занят",
			requestBody: validBody,
			withAccount: true,
			setupMocks: func(s *MockService) {
				s.On("Create", mock.Anything, int64(7), mock.Anything).
					Return(nil, apperr.New(apperr.KindSlotConflict, "requested time slot is unavailable"))
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   "slot_conflict",
		},
		{
			name:        "начало в прошлом",
			requestBody: validBody,
			withAccount: true,
			setupMocks: func(s *MockService) {
				s.On("Create", mock.Anything, int64(7), mock.Anything).
					Return(nil, apperr.New(apperr.KindPastStartTime, "start time must be in the future"))
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "past_start_time",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(MockService)
			tt.setupMocks(service)
			log := slog.New(slog.NewTextHandler(io.Discard, nil))
			handler := create.New(log, service)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments",
				bytes.NewBufferString(tt.requestBody))
			req.Header.Set("Content-Type", "application/json")
			if tt.withAccount {
				req = req.WithContext(context.WithValue(req.Context(), middlewarectx.AccountID, int64(7)))
			}
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			body, err := io.ReadAll(rr.Body)
			require.NoError(t, err)
			assert.Contains(t, string(body), tt.expectedBody)
			service.AssertExpectations(t)
		})
	}
}
