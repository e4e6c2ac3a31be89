package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"bitacora-backend/internal/apperr"
)

func TestIs_MatchesKindAndCode(t *testing.T) {
	err := fmt.Errorf("login: %w", apperr.Auth(apperr.CodeInvalidCredentials, "invalid credentials"))

	assert.ErrorIs(t, err, apperr.ErrAuth)
	assert.ErrorIs(t, err, &apperr.Error{Kind: apperr.KindAuth, Code: apperr.CodeInvalidCredentials})
	assert.NotErrorIs(t, err, &apperr.Error{Kind: apperr.KindAuth, Code: apperr.CodeUserNotFound})
	assert.NotErrorIs(t, err, apperr.ErrNotFound)
}

func TestStatusAndPublic(t *testing.T) {
	cases := []struct {
		err    *apperr.Error
		status int
		public bool
	}{
		{apperr.Validation("title is required"), http.StatusBadRequest, true},
		{apperr.Conflict("name taken", nil), http.StatusConflict, true},
		{apperr.NotFound("project not found"), http.StatusNotFound, true},
		{apperr.Auth(apperr.CodeUserNotFound, "user not found"), http.StatusUnauthorized, true},
		{apperr.UploadFailed("bucket down", nil), http.StatusBadGateway, false},
		{apperr.StoreUnavailable("db down", nil), http.StatusServiceUnavailable, false},
		{apperr.From(errors.New("boom")), http.StatusInternalServerError, false},
	}
	for _, tc := range cases {
		t.Run(tc.err.Kind.String(), func(t *testing.T) {
			assert.Equal(t, tc.status, tc.err.Status())
			assert.Equal(t, tc.public, tc.err.Public())
		})
	}
}

func TestFrom(t *testing.T) {
	assert.Nil(t, apperr.From(nil))

	cause := errors.New("connection refused")
	wrapped := fmt.Errorf("list: %w", apperr.StoreUnavailable("failed to list projects", cause))
	e := apperr.From(wrapped)
	assert.Equal(t, apperr.KindStoreUnavailable, e.Kind)
	assert.ErrorIs(t, e, cause)
	assert.Equal(t, "failed to list projects: connection refused", e.Error())

	assert.Equal(t, apperr.KindUnknown, apperr.KindOf(cause))
	assert.Equal(t, "internal_error", apperr.From(cause).Kind.String())
}
