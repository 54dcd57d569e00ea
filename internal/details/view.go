package details

import (
	"sort"
	"time"

	"github.com/BerylCAtieno/churn-dashboard/internal/churnapi"
	"github.com/BerylCAtieno/churn-dashboard/internal/models"
	"github.com/BerylCAtieno/churn-dashboard/internal/risk"
)

const FetchFailedMessage = "Failed to fetch customer data."

// Prediction is one PredictionRecord prepared for display.
type Prediction struct {
	models.PredictionRecord
	Severity risk.Severity `json:"severity"`
	// At is the parsed PredictionTime; zero when it could not be parsed.
	At time.Time `json:"-"`
}

func (p Prediction) ProbabilityPercent() float64 {
	return p.ChurnProbability * 100
}

// View is everything the customer details page renders. Exactly one of
// Error, Empty or Customer describes the outcome of the fetch.
type View struct {
	CustomerID string                  `json:"customer_id"`
	Error      string                  `json:"error,omitempty"`
	Empty      bool                    `json:"empty,omitempty"`
	Customer   *models.CustomerProfile `json:"customer,omitempty"`

	// Latest is the most recent prediction, nil when there are none.
	Latest *Prediction `json:"latest,omitempty"`
	// History is every prediction in server order, only when there are
	// two or more.
	History []Prediction `json:"history,omitempty"`
}

// ShowStrategies reports whether the retention strategies section renders.
func (v View) ShowStrategies() bool {
	return v.Latest != nil && len(v.Latest.Strategies) > 0
}

func (v View) ShowHistory() bool {
	return len(v.History) > 1
}

// Build turns the result of one customer fetch into a View.
func Build(customerID string, data *models.CustomerDetails, err error) View {
	v := View{CustomerID: customerID}
	if err != nil {
		v.Error = churnapi.UserMessage(err, FetchFailedMessage)
		return v
	}
	if data == nil {
		v.Empty = true
		return v
	}
	if data.CustomerID != "" {
		v.CustomerID = data.CustomerID
	}
	profile := data.CustomerData
	v.Customer = &profile

	if len(data.Predictions) == 0 {
		return v
	}

	preds := make([]Prediction, len(data.Predictions))
	for i, rec := range data.Predictions {
		at, _ := rec.Time()
		preds[i] = Prediction{PredictionRecord: rec, Severity: risk.SeverityFor(rec.RiskSegment), At: at}
	}

	latest := preds[LatestIndex(data.Predictions)]
	v.Latest = &latest
	if len(preds) > 1 {
		v.History = preds
	}
	return v
}

// LatestIndex returns the index of the newest prediction by timestamp.
// Ties keep the earlier position and unparseable timestamps rank last, so a
// server that already sends newest-first gets index 0.
func LatestIndex(preds []models.PredictionRecord) int {
	if len(preds) == 0 {
		return -1
	}
	idx := make([]int, len(preds))
	times := make([]time.Time, len(preds))
	valid := make([]bool, len(preds))
	for i, p := range preds {
		idx[i] = i
		times[i], valid[i] = p.Time()
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ia, ib := idx[a], idx[b]
		if valid[ia] != valid[ib] {
			return valid[ia]
		}
		return times[ia].After(times[ib])
	})
	return idx[0]
}
