package common

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewID_IsValidUUID(t *testing.T) {
	id := NewID()
	assert.NoError(t, id.Validate())
	assert.NotEqual(t, NewID(), id)
}

func TestID_Validate(t *testing.T) {
	assert.Error(t, ID("").Validate())
	assert.Error(t, ID("not-a-uuid").Validate())
}

func TestTimestamp_JSONRoundTrip(t *testing.T) {
	ts := Timestamp(time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC))
	data, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.Contains(t, string(data), "2024-03-01T12:30:00")

	var back Timestamp
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, time.Time(ts).Equal(time.Time(back)))
}

func TestTimestamp_UnmarshalRejectsGarbage(t *testing.T) {
	var ts Timestamp
	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
	assert.Error(t, json.Unmarshal([]byte(`42`), &ts))
}

func TestAPIResponses(t *testing.T) {
	ok := NewSuccessResponse(map[string]int{"atoms": 6})
	assert.True(t, ok.Success)
	assert.Nil(t, ok.Error)

	bad := NewErrorResponse("SMI_001", "invalid character", `near "C?C"`)
	assert.False(t, bad.Success)
	require.NotNil(t, bad.Error)
	assert.Equal(t, "SMI_001", bad.Error.Code)
	assert.Equal(t, `near "C?C"`, bad.Error.Detail)
}
