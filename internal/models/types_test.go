package models_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"bitacora-backend/internal/models"
)

func TestDate_JSON(t *testing.T) {
	var p models.ProjectPatch
	require.NoError(t, json.Unmarshal([]byte(`{"start_date":"2024-03-01"}`), &p))
	require.NotNil(t, p.StartDate)
	assert.Equal(t, "2024-03-01", p.StartDate.String())

	out, err := json.Marshal(models.Project{StartDate: *p.StartDate})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"start_date":"2024-03-01"`)

	var bad models.ProjectPatch
	assert.Error(t, json.Unmarshal([]byte(`{"start_date":"03/01/2024"}`), &bad))
}

func TestDate_Scan(t *testing.T) {
	var d models.Date
	require.NoError(t, d.Scan(time.Date(2024, 3, 1, 15, 4, 5, 0, time.UTC)))
	assert.Equal(t, "2024-03-01", d.String())

	require.NoError(t, d.Scan([]byte("2024-03-05T00:00:00Z")))
	assert.Equal(t, "2024-03-05", d.String())

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())

	assert.Error(t, d.Scan(42))
}

func TestOptionalID_JSON(t *testing.T) {
	id := uuid.New()

	cases := []struct {
		name    string
		body    string
		want    models.OptionalID
		current uuid.NullUUID
		changes bool
	}{
		{name: "absent keeps", body: `{}`, want: models.OptionalID{}, current: uuid.NullUUID{UUID: id, Valid: true}},
		{name: "null clears", body: `{"project_id":null}`, want: models.ClearID(), current: uuid.NullUUID{UUID: id, Valid: true}, changes: true},
		{name: "sentinel clears", body: `{"project_id":"none"}`, want: models.ClearID(), current: uuid.NullUUID{UUID: id, Valid: true}, changes: true},
		{name: "empty clears", body: `{"project_id":""}`, want: models.ClearID()},
		{name: "uuid sets", body: `{"project_id":"` + id.String() + `"}`, want: models.SetID(id), changes: true},
		{name: "same uuid", body: `{"project_id":"` + id.String() + `"}`, want: models.SetID(id), current: uuid.NullUUID{UUID: id, Valid: true}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var patch models.ClassLogPatch
			require.NoError(t, json.Unmarshal([]byte(tc.body), &patch))
			assert.Equal(t, tc.want, patch.ProjectID)
			assert.Equal(t, tc.changes, patch.ProjectID.Changes(tc.current))
		})
	}

	var patch models.ClassLogPatch
	assert.Error(t, json.Unmarshal([]byte(`{"project_id":"not-a-uuid"}`), &patch))
}

func TestOptionalID_Apply(t *testing.T) {
	current := uuid.NullUUID{UUID: uuid.New(), Valid: true}
	next := uuid.New()

	assert.Equal(t, current, models.OptionalID{}.Apply(current))
	assert.False(t, models.ClearID().Apply(current).Valid)
	assert.Equal(t, next, models.SetID(next).Apply(current).UUID)
}

func TestCoalesce(t *testing.T) {
	assert.Equal(t, "kept", models.Coalesce("kept", nil))
	assert.Equal(t, "kept", models.Coalesce("kept", models.StringPtr("  ")))
	assert.Equal(t, "new", models.Coalesce("kept", models.StringPtr("new")))
}

func TestMediaKindFromContentType(t *testing.T) {
	assert.Equal(t, models.MediaKindVideo, models.MediaKindFromContentType("video/mp4"))
	assert.Equal(t, models.MediaKindImage, models.MediaKindFromContentType("image/png"))
	assert.Equal(t, models.MediaKindImage, models.MediaKindFromContentType(""))
}
