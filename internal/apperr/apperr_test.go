package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		kind   Kind
		status int
	}{
		{Unauthenticated, http.StatusUnauthorized},
		{InvalidCredential, http.StatusUnauthorized},
		{MalformedCredential, http.StatusUnauthorized},
		{InvalidRequest, http.StatusBadRequest},
		{InvalidReference, http.StatusBadRequest},
		{UnsupportedFormat, http.StatusBadRequest},
		{EmptyContent, http.StatusBadRequest},
		{ExtractionError, http.StatusInternalServerError},
		{GenerationError, http.StatusInternalServerError},
		{NotFound, http.StatusNotFound},
		{Conflict, http.StatusConflict},
		{Downstream, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.status, tt.kind.HTTPStatus())
		})
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(ExtractionError, "Transcript error", cause)

	assert.Equal(t, "Transcript error: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, ExtractionError, KindOf(err))
}

func TestKindOfWrappedChain(t *testing.T) {
	inner := New(NotFound, "Chat not found")
	outer := fmt.Errorf("loading chat: %w", inner)

	assert.Equal(t, NotFound, KindOf(outer))
	assert.Equal(t, http.StatusNotFound, KindOf(outer).HTTPStatus())
}

func TestKindOfUnknownError(t *testing.T) {
	assert.Equal(t, Downstream, KindOf(errors.New("boom")))
}
