package risk

// Severity is the visual weight used to color a risk segment label.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
	SeverityDefault Severity = "default"
)

// Known risk segment labels, lowest to highest.
const (
	SegmentLow        = "Low Risk"
	SegmentMediumLow  = "Medium-Low Risk"
	SegmentMedium     = "Medium Risk"
	SegmentMediumHigh = "Medium-High Risk"
	SegmentHigh       = "High Risk"
)

// Segments lists the known labels in ascending order of risk.
var Segments = []string{SegmentLow, SegmentMediumLow, SegmentMedium, SegmentMediumHigh, SegmentHigh}

var severities = map[string]Severity{
	SegmentLow:        SeveritySuccess,
	SegmentMediumLow:  SeverityInfo,
	SegmentMedium:     SeverityWarning,
	SegmentMediumHigh: SeverityWarning,
	SegmentHigh:       SeverityError,
}

// SeverityFor maps a segment label to its severity. Unknown labels get
// SeverityDefault.
func SeverityFor(segment string) Severity {
	if s, ok := severities[segment]; ok {
		return s
	}
	return SeverityDefault
}
