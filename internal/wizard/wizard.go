package wizard

import (
	"context"
	"errors"

	"github.com/BerylCAtieno/churn-dashboard/internal/churnapi"
	"github.com/BerylCAtieno/churn-dashboard/internal/models"
)

// Step is the wizard's position. The three input steps move back and forth
// freely; StepResults is terminal and only reachable by a successful submit.
type Step int

const (
	StepCustomerInfo Step = iota
	StepServiceDetails
	StepBillingInfo
	StepResults
)

// InputSteps are the steps that collect form input, in order.
var InputSteps = []Step{StepCustomerInfo, StepServiceDetails, StepBillingInfo}

var stepLabels = map[Step]string{
	StepCustomerInfo:   "Customer Information",
	StepServiceDetails: "Service Details",
	StepBillingInfo:    "Billing Information",
	StepResults:        "Results",
}

func (s Step) Label() string {
	if l, ok := stepLabels[s]; ok {
		return l
	}
	return "Unknown step"
}

func (s Step) Valid() bool {
	return s >= StepCustomerInfo && s <= StepResults
}

const PredictionFailedMessage = "An error occurred during prediction."

var (
	ErrNotSubmittable = errors.New("wizard: submit is only allowed on the billing step")
	ErrSubmitInFlight = errors.New("wizard: a prediction request is already in progress")
)

// Predictor issues the prediction request. *churnapi.Client satisfies it.
type Predictor interface {
	Predict(ctx context.Context, req models.PredictRequest) (*models.PredictResponse, error)
}

// Wizard is the complete state of one prediction flow.
type Wizard struct {
	Step    Step                    `json:"step"`
	Form    FormData                `json:"form"`
	Error   string                  `json:"error,omitempty"`
	Result  *models.PredictResponse `json:"result,omitempty"`
	Pending bool                    `json:"pending,omitempty"`
}

func New() *Wizard {
	return &Wizard{Step: StepCustomerInfo, Form: DefaultForm()}
}

func (w *Wizard) CanBack() bool {
	return w.Step == StepServiceDetails || w.Step == StepBillingInfo
}

func (w *Wizard) CanNext() bool {
	return w.Step == StepCustomerInfo || w.Step == StepServiceDetails
}

func (w *Wizard) CanSubmit() bool {
	return w.Step == StepBillingInfo && !w.Pending
}

// Next advances one input step. It reports whether the step changed.
func (w *Wizard) Next() bool {
	if !w.CanNext() {
		return false
	}
	w.Step++
	return true
}

// Back returns to the previous input step. It is inert on the first step
// and on the results step.
func (w *Wizard) Back() bool {
	if !w.CanBack() {
		return false
	}
	w.Step--
	return true
}

// Update copies the values present in lookup for the fields rendered on
// step s. Fields from other steps are never touched. Nothing changes once
// the wizard has reached the results step.
func (w *Wizard) Update(s Step, lookup func(name string) (string, bool)) {
	if w.Step == StepResults {
		return
	}
	for _, f := range FieldsFor(s) {
		if v, ok := lookup(f.Name); ok {
			w.Form.Set(f.Name, v)
		}
	}
}

// BeginSubmit validates that a submit may start, converts the form and marks
// the wizard pending. A conversion failure is recorded as the wizard's error
// and the step is left unchanged.
func (w *Wizard) BeginSubmit() (models.PredictRequest, error) {
	if w.Step != StepBillingInfo {
		return models.PredictRequest{}, ErrNotSubmittable
	}
	if w.Pending {
		return models.PredictRequest{}, ErrSubmitInFlight
	}
	req, err := w.Form.ToRequest()
	if err != nil {
		w.Error = err.Error()
		return models.PredictRequest{}, err
	}
	w.Error = ""
	w.Pending = true
	return req, nil
}

// CompleteSubmit records the outcome of the request started by BeginSubmit.
// Success jumps straight to the results step; failure stays on the billing
// step with a message for the user.
func (w *Wizard) CompleteSubmit(resp *models.PredictResponse, err error) {
	w.Pending = false
	if err != nil {
		w.Error = churnapi.UserMessage(err, PredictionFailedMessage)
		return
	}
	w.Result = resp
	w.Error = ""
	w.Step = StepResults
}

// Submit runs BeginSubmit, one Predict call and CompleteSubmit.
func (w *Wizard) Submit(ctx context.Context, p Predictor) error {
	req, err := w.BeginSubmit()
	if err != nil {
		return err
	}
	resp, err := p.Predict(ctx, req)
	w.CompleteSubmit(resp, err)
	return err
}
