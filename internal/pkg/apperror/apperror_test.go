package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	notFound := New(http.StatusNotFound, "zone not found")
	invalid := New(http.StatusBadRequest, "invalid input")
	conflict := New(http.StatusConflict, "slot taken")

	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"not found", notFound, KindNotFound},
		{"wrapped not found", fmt.Errorf("lookup: %w", notFound), KindNotFound},
		{"bad request", invalid, KindInvalid},
		{"conflict is a client error", conflict, KindInvalid},
		{"server error", New(http.StatusInternalServerError, "boom"), KindInternal},
		{"plain error", errors.New("db down"), KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestWrapKeepsSentinelIdentity(t *testing.T) {
	sentinel := New(http.StatusNotFound, "facility not found")
	cause := errors.New("no rows")

	err := Wrap(cause, sentinel.Code, sentinel.Message)

	assert.ErrorIs(t, err, sentinel)
	assert.ErrorIs(t, err, cause)
}
