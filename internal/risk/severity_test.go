package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeverityForKnownSegments(t *testing.T) {
	cases := map[string]Severity{
		"Low Risk":         SeveritySuccess,
		"Medium-Low Risk":  SeverityInfo,
		"Medium Risk":      SeverityWarning,
		"Medium-High Risk": SeverityWarning,
		"High Risk":        SeverityError,
	}
	for segment, want := range cases {
		assert.Equal(t, want, SeverityFor(segment), segment)
	}
}

func TestSeverityForUnknownSegment(t *testing.T) {
	for _, segment := range []string{"", "high risk", "Critical", "Low Risk "} {
		assert.Equal(t, SeverityDefault, SeverityFor(segment), "%q", segment)
	}
}

func TestSegmentsCoverMapping(t *testing.T) {
	assert.Len(t, Segments, 5)
	for _, s := range Segments {
		assert.NotEqual(t, SeverityDefault, SeverityFor(s))
	}
}
