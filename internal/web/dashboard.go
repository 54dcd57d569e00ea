package web

import (
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BerylCAtieno/churn-dashboard/internal/logging"
	"github.com/BerylCAtieno/churn-dashboard/internal/models"
	"github.com/BerylCAtieno/churn-dashboard/internal/risk"
)

type segmentStrategies struct {
	Segment    string
	Severity   risk.Severity
	Strategies []string
}

type dashboardPage struct {
	Title         string
	APIURL        string
	Health        *models.HealthStatus
	HealthError   string
	Catalog       []segmentStrategies
	CatalogError  string
	LookupMessage string
}

// Dashboard shows upstream status, a customer lookup and the strategy
// catalog. A lookup (?customer_id=) redirects to the details page.
func (s *Server) Dashboard(c *gin.Context) {
	if raw, ok := c.GetQuery("customer_id"); ok {
		id := strings.TrimSpace(raw)
		if id != "" {
			c.Redirect(http.StatusFound, "/customer/"+url.PathEscape(id))
			return
		}
	}

	log := logging.FromContext(c, s.logger)
	ctx := c.Request.Context()
	page := dashboardPage{Title: "Dashboard"}
	if _, ok := c.GetQuery("customer_id"); ok {
		page.LookupMessage = "Enter a customer ID to look up."
	}
	if b, ok := s.api.(interface{ BaseURL() string }); ok {
		page.APIURL = b.BaseURL()
	}

	health, err := s.api.Health(ctx)
	if err != nil {
		log.Warn("upstream health check failed", zap.Error(err))
		page.HealthError = "The prediction service is unreachable."
	} else {
		page.Health = health
	}

	catalog, err := s.api.Strategies(ctx)
	if err != nil {
		log.Warn("load strategy catalog failed", zap.Error(err))
		page.CatalogError = "Retention strategies are unavailable right now."
	} else {
		page.Catalog = orderCatalog(catalog)
	}

	c.HTML(http.StatusOK, "dashboard.html", page)
}

// orderCatalog lists known segments lowest risk first, then any others by
// name.
func orderCatalog(catalog models.StrategyCatalog) []segmentStrategies {
	out := make([]segmentStrategies, 0, len(catalog))
	seen := make(map[string]bool, len(catalog))
	for _, seg := range risk.Segments {
		if strategies, ok := catalog[seg]; ok {
			out = append(out, segmentStrategies{Segment: seg, Severity: risk.SeverityFor(seg), Strategies: strategies})
			seen[seg] = true
		}
	}
	var rest []string
	for seg := range catalog {
		if !seen[seg] {
			rest = append(rest, seg)
		}
	}
	sort.Strings(rest)
	for _, seg := range rest {
		out = append(out, segmentStrategies{Segment: seg, Severity: risk.SeverityFor(seg), Strategies: catalog[seg]})
	}
	return out
}

// Health reports the dashboard as up and includes upstream reachability.
func (s *Server) Health(c *gin.Context) {
	body := gin.H{"status": "ok"}
	health, err := s.api.Health(c.Request.Context())
	if err != nil {
		body["status"] = "degraded"
		body["upstream"] = gin.H{"status": "unreachable", "error": err.Error()}
	} else {
		body["upstream"] = health
	}
	c.JSON(http.StatusOK, body)
}
