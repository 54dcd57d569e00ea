package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Time
		ok   bool
	}{
		{"2024-03-02T10:15:00", time.Date(2024, 3, 2, 10, 15, 0, 0, time.UTC), true},
		{"2024-03-02T10:15:00.123456", time.Date(2024, 3, 2, 10, 15, 0, 123456000, time.UTC), true},
		{"2024-03-02 10:15:00", time.Date(2024, 3, 2, 10, 15, 0, 0, time.UTC), true},
		{"2024-03-02T12:15:00+02:00", time.Date(2024, 3, 2, 10, 15, 0, 0, time.UTC), true},
		{"  2024-03-02T10:15:00Z ", time.Date(2024, 3, 2, 10, 15, 0, 0, time.UTC), true},
		{"", time.Time{}, false},
		{"yesterday", time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := ParseTimestamp(tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}
}

func TestCustomerProfileNullTotalCharges(t *testing.T) {
	var p CustomerProfile
	require.NoError(t, json.Unmarshal([]byte(`{"age": 30, "total_charges": null}`), &p))
	assert.Nil(t, p.TotalCharges)

	require.NoError(t, json.Unmarshal([]byte(`{"age": 30, "total_charges": 0}`), &p))
	require.NotNil(t, p.TotalCharges)
	assert.Zero(t, *p.TotalCharges)
}
