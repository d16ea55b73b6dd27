package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{
			name: "domain error",
			err:  New(KindSlotConflict, "slot taken"),
			want: KindSlotConflict,
		},
		{
			name: "wrapped domain error",
			err:  fmt.Errorf("service: %w", New(KindNotFound, "gone")),
			want: KindNotFound,
		},
		{
			name: "plain error collapses to internal",
			err:  errors.New("pq: connection refused"),
			want: KindInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestDetail_HidesInternalErrors(t *testing.T) {
	assert.Equal(t, "slot taken", Detail(New(KindSlotConflict, "slot taken")))
	// Текст внутренней ошибки наружу не отдается.
	assert.Equal(t, "internal server error", Detail(errors.New("pq: relation does not exist")))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindInvalidInput, http.StatusBadRequest},
		{KindInvalidServiceType, http.StatusBadRequest},
		{KindPastStartTime, http.StatusBadRequest},
		{KindDuplicateAccount, http.StatusConflict},
		{KindSlotConflict, http.StatusConflict},
		{KindInvalidCredentials, http.StatusUnauthorized},
		{KindInvalidToken, http.StatusUnauthorized},
		{KindExpiredToken, http.StatusUnauthorized},
		{KindUnauthorized, http.StatusUnauthorized},
		{KindNotFound, http.StatusNotFound},
		{KindInvalidTransition, http.StatusUnprocessableEntity},
		{KindInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.kind))
		})
	}
}
