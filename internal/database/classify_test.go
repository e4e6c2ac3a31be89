package database

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"bitacora-backend/internal/apperr"
)

func TestClassify(t *testing.T) {
	cases := map[string]struct {
		err  error
		kind apperr.Kind
	}{
		"no rows":          {sql.ErrNoRows, apperr.KindNotFound},
		"unique violation": {&pq.Error{Code: "23505"}, apperr.KindConflict},
		"fk violation":     {&pq.Error{Code: "23503"}, apperr.KindNotFound},
		"check violation":  {&pq.Error{Code: "23514"}, apperr.KindValidation},
		"bad uuid text":    {&pq.Error{Code: "22P02"}, apperr.KindValidation},
		"connection":       {errors.New("dial tcp: connection refused"), apperr.KindStoreUnavailable},
		"other pq code":    {&pq.Error{Code: "57P01"}, apperr.KindStoreUnavailable},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.kind, apperr.KindOf(classify(tc.err, "project", "create")))
		})
	}
	assert.NoError(t, classify(nil, "project", "create"))
}

func TestPatchHelpers(t *testing.T) {
	blank := "  "
	value := "kept"
	assert.Equal(t, "", patchText(nil))
	assert.Equal(t, "", patchText(&blank))
	assert.Equal(t, "kept", patchText(&value))

	assert.False(t, nullString(&blank).Valid)
	assert.Equal(t, sql.NullString{String: "kept", Valid: true}, nullString(&value))
}

func TestForUpdate(t *testing.T) {
	assert.Equal(t, "SELECT 1", (&queries{}).forUpdate("SELECT 1"))
	assert.Equal(t, "SELECT 1 FOR NO KEY UPDATE", (&queries{inTx: true}).forUpdate("SELECT 1"))
}
