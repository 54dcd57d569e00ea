package web

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BerylCAtieno/churn-dashboard/internal/churnapi"
	"github.com/BerylCAtieno/churn-dashboard/internal/session"
	"github.com/BerylCAtieno/churn-dashboard/internal/wizard"
)

func stored(t *testing.T, store session.Store, b *browser) *wizard.Wizard {
	t.Helper()
	require.NotNil(t, b.cookie, "session cookie")
	w, err := store.Get(context.Background(), b.cookie.Value)
	require.NoError(t, err)
	return w
}

func stepForm(step wizard.Step, action string, kv ...string) url.Values {
	v := url.Values{"step": {strconv.Itoa(int(step))}, "action": {action}}
	for i := 0; i+1 < len(kv); i += 2 {
		v.Set(kv[i], kv[i+1])
	}
	return v
}

// billingSession stores a wizard that is ready to submit and returns a
// browser holding its cookie.
func billingSession(t *testing.T, router http.Handler, store session.Store) *browser {
	t.Helper()
	w := wizard.New()
	w.Form.CustomerID = "C-9"
	w.Form.Gender = "Female"
	w.Form.Age = "35"
	w.Form.TenureMonths = "12"
	w.Form.InternetService = "DSL"
	w.Form.Contract = "One Year"
	w.Form.PaymentMethod = "Credit Card"
	w.Form.MonthlyCharge = "50.5"
	w.Step = wizard.StepBillingInfo

	id := session.NewID()
	require.NoError(t, store.Put(context.Background(), id, w))
	return &browser{router: router, cookie: &http.Cookie{Name: sessionCookie, Value: id}}
}

func TestWizardFlow(t *testing.T) {
	up := &fakeUpstream{predictResp: samplePrediction()}
	router, store := newTestRouter(t, up, nil)
	b := &browser{router: router}

	rec := b.get("/predict")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Customer Information")
	require.NotNil(t, b.cookie)
	assert.True(t, b.cookie.HttpOnly)
	assert.Equal(t, wizard.StepCustomerInfo, stored(t, store, b).Step)

	rec = b.post("/predict", stepForm(wizard.StepCustomerInfo, "back", "customer_id", "C-9"))
	require.Equal(t, http.StatusOK, rec.Code)
	w := stored(t, store, b)
	assert.Equal(t, wizard.StepCustomerInfo, w.Step, "back is inert on the first step")
	assert.Equal(t, "C-9", w.Form.CustomerID, "input is kept")

	b.post("/predict", stepForm(wizard.StepCustomerInfo, "next", "gender", "Female", "age", "35", "tenure_months", "99"))
	w = stored(t, store, b)
	assert.Equal(t, wizard.StepServiceDetails, w.Step)
	assert.Equal(t, "35", w.Form.Age)
	assert.Empty(t, w.Form.TenureMonths, "fields of other steps are not taken")

	rec = b.post("/predict", stepForm(wizard.StepCustomerInfo, "next"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, wizard.StepServiceDetails, stored(t, store, b).Step, "stale posts are ignored")

	b.post("/predict", stepForm(wizard.StepServiceDetails, "next", "tenure_months", "12", "internet_service", "DSL", "streaming_music", "Yes"))
	b.post("/predict", stepForm(wizard.StepBillingInfo, "back"))
	assert.Equal(t, wizard.StepServiceDetails, stored(t, store, b).Step)
	b.post("/predict", stepForm(wizard.StepServiceDetails, "next"))
	assert.Equal(t, wizard.StepBillingInfo, stored(t, store, b).Step)

	rec = b.post("/predict", stepForm(wizard.StepBillingInfo, "submit",
		"contract", "One Year", "payment_method", "Credit Card", "monthly_charge", "50.5",
		"total_charges", "", "satisfaction_score", ""))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Prediction for C-9")
	assert.Contains(t, rec.Body.String(), `chip-warning">Medium Risk`)

	w = stored(t, store, b)
	assert.Equal(t, wizard.StepResults, w.Step, "success goes straight to results")
	require.NotNil(t, w.Result)
	assert.False(t, w.Pending)

	require.Equal(t, 1, up.calls())
	req := up.lastRequest
	assert.Equal(t, 35, req.Age)
	assert.Equal(t, 12, req.TenureMonths)
	assert.Equal(t, 50.5, req.MonthlyCharge)
	assert.True(t, req.StreamingMusic)
	assert.True(t, req.PhoneService)
	assert.False(t, req.Married)
	assert.Nil(t, req.TotalCharges, "blank optional fields are omitted")
	assert.Nil(t, req.SatisfactionScore)

	b.post("/predict", stepForm(wizard.StepResults, "back"))
	assert.Equal(t, wizard.StepResults, stored(t, store, b).Step, "back is inert on results")

	b.post("/predict", stepForm(wizard.StepResults, "restart"))
	w = stored(t, store, b)
	assert.Equal(t, wizard.StepCustomerInfo, w.Step)
	assert.Nil(t, w.Result)
	assert.Empty(t, w.Form.CustomerID)
}

func TestWizardMarksRequiredFields(t *testing.T) {
	router, store := newTestRouter(t, &fakeUpstream{}, nil)
	b := &browser{router: router}

	body := b.get("/predict").Body.String()
	assert.Contains(t, body, `<input id="customer_id" name="customer_id" type="text" value="" required>`)
	assert.Contains(t, body, `<select id="gender" name="gender" required>`)
	assert.Contains(t, body, `<input id="age" name="age" type="number" value="" min="18" max="100" required>`)
	assert.Contains(t, body, `<select id="senior_citizen" name="senior_citizen">`, "optional selects are not required")
	assert.Contains(t, body, `value="back" formnovalidate disabled`)

	w := stored(t, store, b)
	w.Step = wizard.StepBillingInfo
	require.NoError(t, store.Put(context.Background(), b.cookie.Value, w))
	body = b.post("/predict", stepForm(wizard.StepBillingInfo, "")).Body.String()
	assert.Contains(t, body, `<select id="contract" name="contract" required>`)
	assert.Contains(t, body, `<select id="payment_method" name="payment_method" required>`)
	assert.Contains(t, body, `name="monthly_charge" type="number" value="" min="0" step="0.01" required>`)
	assert.Contains(t, body, `<input id="total_charges" name="total_charges" type="number" value="" min="0" step="0.01">`)
}

func TestWizardForwardButtonIsFormDefault(t *testing.T) {
	router, store := newTestRouter(t, &fakeUpstream{}, nil)
	b := &browser{router: router}

	body := b.get("/predict").Body.String()
	next := strings.Index(body, `value="next"`)
	back := strings.Index(body, `value="back"`)
	require.True(t, next > 0 && back > 0)
	assert.Less(t, next, back, "enter in a field presses next")

	w := stored(t, store, b)
	w.Step = wizard.StepBillingInfo
	require.NoError(t, store.Put(context.Background(), b.cookie.Value, w))
	body = b.post("/predict", stepForm(wizard.StepBillingInfo, "")).Body.String()
	submit := strings.Index(body, `value="submit"`)
	back = strings.Index(body, `value="back"`)
	require.True(t, submit > 0 && back > 0)
	assert.Less(t, submit, back, "enter in a field presses predict")
}

func TestWizardSubmitFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"server message", &churnapi.APIError{StatusCode: 400, Message: "Invalid contract type"}, "Invalid contract type"},
		{"server error without message", &churnapi.APIError{StatusCode: 500}, wizard.PredictionFailedMessage},
		{"transport error", errors.New("connection refused"), churnapi.UnexpectedErrorMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			up := &fakeUpstream{predictErr: tt.err}
			router, store := newTestRouter(t, up, nil)
			b := billingSession(t, router, store)

			rec := b.post("/predict", stepForm(wizard.StepBillingInfo, "submit"))
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.want)

			w := stored(t, store, b)
			assert.Equal(t, wizard.StepBillingInfo, w.Step)
			assert.Equal(t, tt.want, w.Error)
			assert.False(t, w.Pending)
			assert.Nil(t, w.Result)
			assert.Equal(t, 1, up.calls())
		})
	}
}

func TestWizardConversionError(t *testing.T) {
	up := &fakeUpstream{predictResp: samplePrediction()}
	router, store := newTestRouter(t, up, nil)
	b := billingSession(t, router, store)

	rec := b.post("/predict", stepForm(wizard.StepBillingInfo, "submit", "monthly_charge", "abc"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Monthly Charge must be a number")
	assert.Zero(t, up.calls())

	w := stored(t, store, b)
	assert.Equal(t, wizard.StepBillingInfo, w.Step)
	assert.False(t, w.Pending)
	assert.Equal(t, "abc", w.Form.MonthlyCharge)
}

func TestWizardExpiredSession(t *testing.T) {
	up := &fakeUpstream{predictResp: samplePrediction()}
	router, store := newTestRouter(t, up, nil)
	b := &browser{router: router, cookie: &http.Cookie{Name: sessionCookie, Value: session.NewID()}}

	rec := b.post("/predict", stepForm(wizard.StepBillingInfo, "submit", "monthly_charge", "10"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), sessionExpiredMessage)
	assert.Zero(t, up.calls())

	w := stored(t, store, b)
	assert.Equal(t, wizard.StepCustomerInfo, w.Step)
	assert.Empty(t, w.Form.MonthlyCharge)
}

func TestWizardMalformedCookie(t *testing.T) {
	router, store := newTestRouter(t, &fakeUpstream{}, nil)
	b := &browser{router: router, cookie: &http.Cookie{Name: sessionCookie, Value: "../../etc/passwd"}}

	rec := b.get("/predict")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, session.ValidID(b.cookie.Value), "a fresh id replaces the malformed one")
	assert.Equal(t, wizard.StepCustomerInfo, stored(t, store, b).Step)
}

func TestWizardSubmitWhilePending(t *testing.T) {
	up := &fakeUpstream{predictResp: samplePrediction()}
	router, store := newTestRouter(t, up, nil)
	b := billingSession(t, router, store)

	w := stored(t, store, b)
	w.Pending = true
	require.NoError(t, store.Put(context.Background(), b.cookie.Value, w))

	rec := b.post("/predict", stepForm(wizard.StepBillingInfo, "submit"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), submitInFlightMessage)
	assert.Contains(t, rec.Body.String(), "Predicting")
	assert.Zero(t, up.calls())
}

func TestWizardConcurrentSubmitCallsOnce(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	up := &fakeUpstream{predictResp: samplePrediction()}
	up.onPredict = func() {
		once.Do(func() { close(started) })
		<-release
	}
	router, store := newTestRouter(t, up, nil)
	b := billingSession(t, router, store)
	cookie := b.cookie

	firstDone := make(chan *httptest.ResponseRecorder)
	go func() {
		first := &browser{router: router, cookie: cookie}
		firstDone <- first.post("/predict", stepForm(wizard.StepBillingInfo, "submit"))
	}()
	<-started

	second := &browser{router: router, cookie: cookie}
	rec := second.post("/predict", stepForm(wizard.StepBillingInfo, "submit"))
	assert.Contains(t, rec.Body.String(), submitInFlightMessage)

	close(release)
	first := <-firstDone
	assert.Contains(t, first.Body.String(), "Prediction for C-9")
	assert.Equal(t, 1, up.calls())
	assert.Equal(t, wizard.StepResults, stored(t, store, b).Step)
}

func TestWizardResetDuringSubmit(t *testing.T) {
	up := &fakeUpstream{predictResp: samplePrediction()}
	router, store := newTestRouter(t, up, nil)
	b := billingSession(t, router, store)
	up.onPredict = func() {
		_ = store.Put(context.Background(), b.cookie.Value, wizard.New())
	}

	rec := b.post("/predict", stepForm(wizard.StepBillingInfo, "submit"))
	require.Equal(t, http.StatusOK, rec.Code)

	w := stored(t, store, b)
	assert.Equal(t, wizard.StepCustomerInfo, w.Step, "the newer wizard is not overwritten")
	assert.Nil(t, w.Result)
}

func TestNewPredictionResetsWizard(t *testing.T) {
	router, store := newTestRouter(t, &fakeUpstream{}, nil)
	b := billingSession(t, router, store)
	id := b.cookie.Value

	rec := b.get("/predict")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id, b.cookie.Value, "the session id is reused")
	w := stored(t, store, b)
	assert.Equal(t, wizard.StepCustomerInfo, w.Step)
	assert.Empty(t, w.Form.CustomerID)
}
