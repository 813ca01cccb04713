package dErrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasCode(t *testing.T) {
	t.Run("matches direct code", func(t *testing.T) {
		err := New(CodeStorage, "tx failed")
		assert.True(t, HasCode(err, CodeStorage))
		assert.False(t, HasCode(err, CodeNotFound))
	})

	t.Run("matches wrapped code through chain", func(t *testing.T) {
		inner := New(CodeStorage, "tx failed")
		outer := Wrap(inner, CodeUnverifiable, "conflict check failed")
		assert.True(t, HasCode(outer, CodeUnverifiable))
		assert.True(t, HasCode(outer, CodeStorage))
	})

	t.Run("plain error has no code", func(t *testing.T) {
		assert.False(t, HasCode(errors.New("boom"), CodeInternal))
	})
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, CodeStorage, "reset failed")
	require.Error(t, err)
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "connection refused")
}

func TestWrapNil(t *testing.T) {
	assert.NoError(t, Wrap(nil, CodeInternal, "ignored"))
}

func TestToHTTPStatus(t *testing.T) {
	cases := []struct {
		code   Code
		status int
	}{
		{CodeBadRequest, http.StatusBadRequest},
		{CodeValidation, http.StatusBadRequest},
		{CodeMalformedSource, http.StatusUnprocessableEntity},
		{CodeNotFound, http.StatusNotFound},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeClearanceRequired, http.StatusConflict},
		{CodeConflict, http.StatusConflict},
		{CodeStorage, http.StatusServiceUnavailable},
		{CodeUnverifiable, http.StatusServiceUnavailable},
		{CodeInternal, http.StatusInternalServerError},
		{Code("unknown"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(string(tc.code), func(t *testing.T) {
			assert.Equal(t, tc.status, ToHTTPStatus(tc.code))
		})
	}
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeStorage, CodeOf(New(CodeStorage, "x")))
	assert.Equal(t, CodeInternal, CodeOf(fmt.Errorf("plain")))
}
