package wizard

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/BerylCAtieno/churn-dashboard/internal/models"
)

// ConversionError reports a numeric field whose text could not be parsed.
type ConversionError struct {
	Field string
	Label string
	Value string
	Err   error
}

func (e *ConversionError) Error() string {
	if strings.TrimSpace(e.Value) == "" {
		return fmt.Sprintf("%s is required.", e.Label)
	}
	return fmt.Sprintf("%s must be a number, got %q.", e.Label, e.Value)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// ToRequest converts the text form into the typed prediction payload.
// Yes/No fields are true only for the literal "Yes". Blank total charges and
// satisfaction score are left nil so they are omitted from the JSON body.
func (f FormData) ToRequest() (models.PredictRequest, error) {
	req := models.PredictRequest{
		CustomerID:       f.CustomerID,
		Gender:           f.Gender,
		SeniorCitizen:    isYes(f.SeniorCitizen),
		Married:          isYes(f.Married),
		Dependents:       isYes(f.Dependents),
		PhoneService:     isYes(f.PhoneService),
		MultipleLines:    isYes(f.MultipleLines),
		InternetService:  f.InternetService,
		OnlineSecurity:   isYes(f.OnlineSecurity),
		OnlineBackup:     isYes(f.OnlineBackup),
		DeviceProtection: isYes(f.DeviceProtection),
		TechSupport:      isYes(f.TechSupport),
		StreamingTV:      isYes(f.StreamingTV),
		StreamingMovies:  isYes(f.StreamingMovies),
		StreamingMusic:   isYes(f.StreamingMusic),
		UnlimitedData:    isYes(f.UnlimitedData),
		Contract:         f.Contract,
		PaperlessBilling: isYes(f.PaperlessBilling),
		PaymentMethod:    f.PaymentMethod,
	}

	var err error
	if req.Age, err = parseInt("age", f.Age); err != nil {
		return models.PredictRequest{}, err
	}
	if req.TenureMonths, err = parseInt("tenure_months", f.TenureMonths); err != nil {
		return models.PredictRequest{}, err
	}
	if req.MonthlyCharge, err = parseFloat("monthly_charge", f.MonthlyCharge); err != nil {
		return models.PredictRequest{}, err
	}

	if strings.TrimSpace(f.TotalCharges) != "" {
		v, err := parseFloat("total_charges", f.TotalCharges)
		if err != nil {
			return models.PredictRequest{}, err
		}
		req.TotalCharges = &v
	}
	if strings.TrimSpace(f.SatisfactionScore) != "" {
		v, err := parseInt("satisfaction_score", f.SatisfactionScore)
		if err != nil {
			return models.PredictRequest{}, err
		}
		req.SatisfactionScore = &v
	}
	return req, nil
}

func isYes(v string) bool {
	return v == Yes
}

// parseInt accepts a leading integer the way a number input does, so "12"
// and "12.0" both give 12. Values must fit in 32 bits.
func parseInt(name, raw string) (int, error) {
	s := strings.TrimSpace(raw)
	if n, err := strconv.ParseInt(s, 10, 32); err == nil {
		return int(n), nil
	}
	fv, err := parseFloat(name, raw)
	if err != nil {
		return 0, err
	}
	if fv < math.MinInt32 || fv > math.MaxInt32 {
		return 0, conversionError(name, raw, errOutOfRange)
	}
	return int(fv), nil
}

var (
	errNotFinite  = errors.New("value is not a finite number")
	errOutOfRange = errors.New("value is out of range")
)

func parseFloat(name, raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, conversionError(name, raw, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, conversionError(name, raw, errNotFinite)
	}
	return v, nil
}

func conversionError(name, raw string, err error) error {
	label := name
	for _, f := range Fields {
		if f.Name == name {
			label = f.Label
			break
		}
	}
	return &ConversionError{Field: name, Label: label, Value: raw, Err: err}
}
