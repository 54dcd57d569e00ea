package models

import (
	"strings"
	"time"
)

// CustomerProfile is the stored profile returned by GET /customer/{id}.
// TotalCharges is nil when the service has no value for it.
type CustomerProfile struct {
	Gender          string   `json:"gender"`
	Age             int      `json:"age"`
	SeniorCitizen   bool     `json:"senior_citizen"`
	Married         bool     `json:"married"`
	Dependents      bool     `json:"dependents"`
	TenureMonths    int      `json:"tenure_months"`
	Contract        string   `json:"contract"`
	MonthlyCharge   float64  `json:"monthly_charge"`
	TotalCharges    *float64 `json:"total_charges"`
	InternetService string   `json:"internet_service"`
}

type Strategy struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Priority    int     `json:"priority"`
}

type PredictionRecord struct {
	ChurnProbability float64    `json:"churn_probability"`
	RiskSegment      string     `json:"risk_segment"`
	PredictionTime   string     `json:"prediction_time"`
	ModelVersion     string     `json:"model_version"`
	Strategies       []Strategy `json:"strategies"`
}

// Time parses PredictionTime. The upstream service writes naive ISO-8601
// timestamps (no zone), so those are accepted and read as UTC.
func (p PredictionRecord) Time() (time.Time, bool) {
	return ParseTimestamp(p.PredictionTime)
}

// CustomerDetails is the full body of GET /customer/{id}.
type CustomerDetails struct {
	CustomerID   string             `json:"customer_id"`
	CustomerData CustomerProfile    `json:"customer_data"`
	Predictions  []PredictionRecord `json:"predictions"`
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

func ParseTimestamp(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
