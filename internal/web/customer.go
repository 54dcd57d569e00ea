package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BerylCAtieno/churn-dashboard/internal/briefing"
	"github.com/BerylCAtieno/churn-dashboard/internal/churnapi"
	"github.com/BerylCAtieno/churn-dashboard/internal/details"
	"github.com/BerylCAtieno/churn-dashboard/internal/logging"
	"github.com/BerylCAtieno/churn-dashboard/internal/models"
	"github.com/BerylCAtieno/churn-dashboard/internal/risk"
	"github.com/BerylCAtieno/churn-dashboard/internal/wizard"
)

const briefFailedMessage = "The retention brief could not be generated."

type customerPage struct {
	Title           string
	View            details.View
	BriefingEnabled bool
}

type briefPage struct {
	Title      string
	CustomerID string
	Brief      *briefing.Brief
}

// viewStatus maps the outcome of a customer fetch to a response status.
func viewStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case churnapi.IsNotFound(err):
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}

func (s *Server) fetchCustomer(c *gin.Context) (string, *models.CustomerDetails, error) {
	id := strings.TrimSpace(c.Param("id"))
	data, err := s.api.Customer(c.Request.Context(), id)
	if err != nil && !churnapi.IsNotFound(err) {
		logging.FromContext(c, s.logger).Warn("fetch customer failed", zap.String("customer_id", id), zap.Error(err))
	}
	return id, data, err
}

// CustomerDetails renders the profile and prediction history of one
// customer. It makes exactly one upstream read per request.
func (s *Server) CustomerDetails(c *gin.Context) {
	id, data, err := s.fetchCustomer(c)
	view := details.Build(id, data, err)
	c.HTML(viewStatus(err), "customer.html", customerPage{
		Title:           "Customer " + view.CustomerID,
		View:            view,
		BriefingEnabled: s.briefer != nil,
	})
}

// CustomerBrief generates a retention brief for one customer. It answers
// JSON unless the client prefers HTML.
func (s *Server) CustomerBrief(c *gin.Context) {
	if s.briefer == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "briefing is not enabled"})
		return
	}
	log := logging.FromContext(c, s.logger)

	id, data, err := s.fetchCustomer(c)
	if err != nil {
		c.JSON(viewStatus(err), gin.H{"error": churnapi.UserMessage(err, details.FetchFailedMessage)})
		return
	}
	if data == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No customer data available."})
		return
	}

	brief, err := s.briefer.Brief(c.Request.Context(), data)
	if err != nil {
		log.Error("generate brief failed", zap.String("customer_id", id), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": briefFailedMessage})
		return
	}

	switch c.NegotiateFormat(gin.MIMEJSON, gin.MIMEHTML) {
	case gin.MIMEHTML:
		c.HTML(http.StatusOK, "brief.html", briefPage{
			Title:      "Retention Brief",
			CustomerID: brief.CustomerID,
			Brief:      brief,
		})
	default:
		c.JSON(http.StatusOK, brief)
	}
}

// APICustomer returns the same view the details page renders, as JSON.
func (s *Server) APICustomer(c *gin.Context) {
	id, data, err := s.fetchCustomer(c)
	c.JSON(viewStatus(err), details.Build(id, data, err))
}

// APIPredict runs a whole wizard in one request. The JSON body uses the
// wizard's field names and values; missing selects take the wizard defaults.
func (s *Server) APIPredict(c *gin.Context) {
	log := logging.FromContext(c, s.logger)

	form := wizard.DefaultForm()
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	w := wizard.New()
	w.Form = form
	w.Step = wizard.StepBillingInfo

	err := w.Submit(c.Request.Context(), s.api)
	var convErr *wizard.ConversionError
	switch {
	case errors.As(err, &convErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": w.Error, "field": convErr.Field})
	case err != nil:
		log.Warn("prediction failed", zap.String("customer_id", form.CustomerID), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": w.Error})
	default:
		c.JSON(http.StatusOK, gin.H{
			"result":   w.Result,
			"severity": risk.SeverityFor(w.Result.Prediction.RiskSegment),
		})
	}
}
