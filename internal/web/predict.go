package web

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BerylCAtieno/churn-dashboard/internal/logging"
	"github.com/BerylCAtieno/churn-dashboard/internal/models"
	"github.com/BerylCAtieno/churn-dashboard/internal/risk"
	"github.com/BerylCAtieno/churn-dashboard/internal/session"
	"github.com/BerylCAtieno/churn-dashboard/internal/wizard"
)

const sessionCookie = "churn_session"

const (
	actionNext    = "next"
	actionBack    = "back"
	actionSubmit  = "submit"
	actionRestart = "restart"
)

const (
	sessionExpiredMessage = "Your session expired. The form has been reset."
	submitInFlightMessage = "A prediction is already in progress."
	sessionFailedMessage  = "Your session could not be saved. Please try again."
)

type stepView struct {
	Number int
	Label  string
	Active bool
	Done   bool
}

type fieldView struct {
	wizard.Field
	Value string
}

type wizardPage struct {
	Title     string
	Step      int
	StepLabel string
	Steps     []stepView
	Fields    []fieldView
	Error     string
	Notice    string
	Result    *models.PredictResponse
	Severity  risk.Severity
	CanBack   bool
	CanNext   bool
	CanSubmit bool
	Pending   bool
	IsResults bool
}

func newWizardPage(w *wizard.Wizard, notice string) wizardPage {
	page := wizardPage{
		Title:     "Churn Prediction",
		Step:      int(w.Step),
		StepLabel: w.Step.Label(),
		Error:     w.Error,
		Notice:    notice,
		Result:    w.Result,
		CanBack:   w.CanBack(),
		CanNext:   w.CanNext(),
		CanSubmit: w.CanSubmit(),
		Pending:   w.Pending,
		IsResults: w.Step == wizard.StepResults,
	}
	for s := wizard.StepCustomerInfo; s <= wizard.StepResults; s++ {
		page.Steps = append(page.Steps, stepView{
			Number: int(s) + 1,
			Label:  s.Label(),
			Active: s == w.Step,
			Done:   s < w.Step,
		})
	}
	for _, f := range wizard.FieldsFor(w.Step) {
		page.Fields = append(page.Fields, fieldView{Field: f, Value: w.Form.Value(f.Name)})
	}
	if w.Result != nil {
		page.Severity = risk.SeverityFor(w.Result.Prediction.RiskSegment)
	}
	return page
}

// sessionID returns the id from the session cookie, or a new one when the
// cookie is missing or malformed.
func sessionID(c *gin.Context) (string, bool) {
	id, err := c.Cookie(sessionCookie)
	if err != nil || !session.ValidID(id) {
		return session.NewID(), false
	}
	return id, true
}

func setSessionCookie(c *gin.Context, id string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, id, 0, "/", "", c.Request.TLS != nil, true)
}

// NewPrediction opens a fresh wizard on the first step.
func (s *Server) NewPrediction(c *gin.Context) {
	ctx := c.Request.Context()
	id, _ := sessionID(c)

	mu := s.locks.get(id)
	mu.Lock()
	w := wizard.New()
	err := s.sessions.Put(ctx, id, w)
	mu.Unlock()

	if err != nil {
		s.sessionFailure(c, err)
		return
	}
	setSessionCookie(c, id)
	c.HTML(http.StatusOK, "wizard.html", newWizardPage(w, ""))
}

// AdvancePrediction applies one posted step: it saves the fields of the
// current step and then performs the requested action.
func (s *Server) AdvancePrediction(c *gin.Context) {
	ctx := c.Request.Context()
	log := logging.FromContext(c, s.logger)
	id, _ := sessionID(c)
	setSessionCookie(c, id)

	mu := s.locks.get(id)
	mu.Lock()

	w, err := s.sessions.Get(ctx, id)
	if errors.Is(err, session.ErrNotFound) {
		w = wizard.New()
		err = s.sessions.Put(ctx, id, w)
		mu.Unlock()
		if err != nil {
			s.sessionFailure(c, err)
			return
		}
		c.HTML(http.StatusOK, "wizard.html", newWizardPage(w, sessionExpiredMessage))
		return
	}
	if err != nil {
		mu.Unlock()
		s.sessionFailure(c, err)
		return
	}

	// A post from a page that no longer matches the stored step (a second
	// tab, the browser back button) is ignored.
	posted, convErr := strconv.Atoi(c.PostForm("step"))
	if convErr != nil || wizard.Step(posted) != w.Step {
		mu.Unlock()
		log.Debug("ignoring stale wizard post", zap.String("posted_step", c.PostForm("step")), zap.Int("step", int(w.Step)))
		c.HTML(http.StatusOK, "wizard.html", newWizardPage(w, ""))
		return
	}

	notice := ""
	action := c.PostForm("action")
	if action == actionRestart {
		w = wizard.New()
	} else {
		w.Update(w.Step, c.GetPostForm)
	}

	switch action {
	case actionNext:
		w.Next()
	case actionBack:
		w.Back()
	case actionSubmit:
		req, err := w.BeginSubmit()
		if err != nil {
			if errors.Is(err, wizard.ErrSubmitInFlight) {
				notice = submitInFlightMessage
			}
			break
		}
		if err := s.sessions.Put(ctx, id, w); err != nil {
			mu.Unlock()
			s.sessionFailure(c, err)
			return
		}
		mu.Unlock()

		resp, perr := s.api.Predict(ctx, req)
		if perr != nil {
			log.Warn("prediction failed", zap.String("customer_id", req.CustomerID), zap.Error(perr))
		}

		mu.Lock()
		w, err = s.completeSubmit(context.WithoutCancel(ctx), id, w, resp, perr)
		mu.Unlock()
		if err != nil {
			s.sessionFailure(c, err)
			return
		}
		c.HTML(http.StatusOK, "wizard.html", newWizardPage(w, ""))
		return
	}

	err = s.sessions.Put(ctx, id, w)
	mu.Unlock()
	if err != nil {
		s.sessionFailure(c, err)
		return
	}
	c.HTML(http.StatusOK, "wizard.html", newWizardPage(w, notice))
}

// completeSubmit records the outcome on the stored wizard. If the session
// was reset or expired while the request was out, the stored state wins and
// the outcome is only shown on this response.
func (s *Server) completeSubmit(ctx context.Context, id string, started *wizard.Wizard, resp *models.PredictResponse, perr error) (*wizard.Wizard, error) {
	latest, err := s.sessions.Get(ctx, id)
	switch {
	case errors.Is(err, session.ErrNotFound):
		started.CompleteSubmit(resp, perr)
		return started, nil
	case err != nil:
		return nil, err
	case !latest.Pending:
		return latest, nil
	}
	latest.CompleteSubmit(resp, perr)
	if err := s.sessions.Put(ctx, id, latest); err != nil {
		return nil, err
	}
	return latest, nil
}

func (s *Server) sessionFailure(c *gin.Context, err error) {
	logging.FromContext(c, s.logger).Error("session store failed", zap.Error(err))
	w := wizard.New()
	c.HTML(http.StatusInternalServerError, "wizard.html", newWizardPage(w, sessionFailedMessage))
}
