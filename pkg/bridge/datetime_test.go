package bridge

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateTimeCanonicalSerialization(t *testing.T) {
	dt := FromTime(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "2024-01-01T00:00:00.000Z", dt.String())

	data, err := json.Marshal(dt)
	require.NoError(t, err)
	assert.Equal(t, `"2024-01-01T00:00:00.000Z"`, string(data))
}

func TestDateTimeNormalizesOffsetsToUTC(t *testing.T) {
	var dt DateTime
	require.NoError(t, json.Unmarshal([]byte(`"2024-06-01T12:30:00.500+02:00"`), &dt))
	assert.Equal(t, "2024-06-01T10:30:00.500Z", dt.String())
}

func TestDateTimeTruncatesToMillis(t *testing.T) {
	dt := FromTime(time.Date(2024, 3, 15, 9, 0, 0, 123_456_789, time.UTC))
	assert.Equal(t, "2024-03-15T09:00:00.123Z", dt.String())
	assert.True(t, dt.Equal(FromMillis(dt.Millis())), "millis round trip changed the instant")
}

func TestDateTimeRoundTripThroughJSON(t *testing.T) {
	original := Now()
	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded DateTime
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, original.Equal(decoded))
	assert.Equal(t, original.String(), decoded.String())
}

func TestWeeksBetween(t *testing.T) {
	start := FromTime(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))

	tests := []struct {
		name  string
		end   DateTime
		weeks int
	}{
		{"exactly two weeks", start.AddDate(0, 0, 14), 2},
		{"two weeks plus overshoot hour", start.AddDate(0, 0, 14).Add(time.Hour), 2},
		{"one hour short of two weeks", start.AddDate(0, 0, 14).Add(-time.Hour), 1},
		{"short span recovered by overshoot", start.AddDate(0, 0, 14).Add(-time.Hour).Add(time.Hour), 2},
		{"under one week", start.AddDate(0, 0, 6), 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.weeks, WeeksBetween(start, tc.end))
		})
	}
}

func TestDateTimeRejectsZonelessInput(t *testing.T) {
	var dt DateTime
	err := json.Unmarshal([]byte(`"2024-01-01T00:00:00"`), &dt)
	assert.Error(t, err)
}
