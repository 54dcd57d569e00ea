package web

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BerylCAtieno/churn-dashboard/internal/briefing"
	"github.com/BerylCAtieno/churn-dashboard/internal/logging"
	"github.com/BerylCAtieno/churn-dashboard/internal/models"
	"github.com/BerylCAtieno/churn-dashboard/internal/session"
	"github.com/BerylCAtieno/churn-dashboard/internal/wizard"
)

// Upstream is the prediction service as the dashboard uses it.
// *churnapi.Client implements it.
type Upstream interface {
	wizard.Predictor
	Customer(ctx context.Context, customerID string) (*models.CustomerDetails, error)
	Health(ctx context.Context) (*models.HealthStatus, error)
	Strategies(ctx context.Context) (models.StrategyCatalog, error)
}

// Briefer writes retention briefs. A nil Briefer disables the feature.
type Briefer interface {
	Brief(ctx context.Context, data *models.CustomerDetails) (*briefing.Brief, error)
}

type Deps struct {
	API      Upstream
	Sessions session.Store
	Briefer  Briefer
	Logger   *zap.Logger
}

type Server struct {
	api      Upstream
	sessions session.Store
	briefer  Briefer
	logger   *zap.Logger
	locks    stripedLock
}

// NewRouter builds the dashboard's routing table.
func NewRouter(d Deps) (*gin.Engine, error) {
	tmpl, err := loadPages()
	if err != nil {
		return nil, err
	}
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		api:      d.API,
		sessions: d.Sessions,
		briefer:  d.Briefer,
		logger:   logger,
	}

	router := gin.New()
	router.UseRawPath = true
	router.Use(gin.Recovery(), logging.Middleware(logger))
	router.HTMLRender = tmpl

	router.StaticFS("/static", http.FS(staticFiles()))

	router.GET("/", s.Dashboard)
	router.GET("/predict", s.NewPrediction)
	router.POST("/predict", s.AdvancePrediction)
	router.GET("/customer/:id", s.CustomerDetails)
	router.GET("/customer/:id/brief", s.CustomerBrief)

	router.GET("/health", s.Health)

	api := router.Group("/api")
	api.GET("/customers/:id", s.APICustomer)
	api.POST("/predict", s.APIPredict)

	router.NoRoute(s.NotFound)

	return router, nil
}

// NotFound renders the fallback page, or a JSON error under /api.
func (s *Server) NotFound(c *gin.Context) {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.HTML(http.StatusNotFound, "notfound.html", gin.H{
		"Title": "Page Not Found",
		"Path":  c.Request.URL.Path,
	})
}
