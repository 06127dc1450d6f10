package testserver

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/kellyyangsong/BridgeIntegrationTests/pkg/bridge"
)

// Prometheus metrics for request monitoring. Package-level so repeated
// server construction in one test binary registers them once.
var (
	requestLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bridge_testserver_request_duration_seconds",
			Help:    "Latency of test server requests by route",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
		[]string{"route", "method"},
	)

	requestErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridge_testserver_request_errors_total",
			Help: "Total error responses from the test server",
		},
		[]string{"route", "status"},
	)
)

// Options configures the test server.
type Options struct {
	// AppID is the tenant identifier; sign-ins for other app ids fail.
	AppID string
	// AdminEmail and AdminPassword seed the shared administrative account.
	AdminEmail    string
	AdminPassword string
	// DataGroups seeds the study's declared data-group tags.
	DataGroups []string
	// JWTSecret signs session tokens; a default is used when empty.
	JWTSecret []byte
	// Logger receives request-level logging; nil disables it.
	Logger *zap.Logger
}

// Server is the in-process Bridge API double.
type Server struct {
	store  *store
	jwt    *jwtManager
	engine *gin.Engine
	logger *zap.Logger
	appID  string
}

// New builds a server with a seeded admin account and study.
func New(opts Options) *Server {
	if opts.AppID == "" {
		opts.AppID = "api"
	}
	if len(opts.JWTSecret) == 0 {
		opts.JWTSecret = []byte("bridge-testserver-session-secret")
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if len(opts.DataGroups) == 0 {
		opts.DataGroups = []string{"group1", "group2"}
	}

	app := bridge.App{
		Identifier:            opts.AppID,
		Name:                  "Bridge Test App",
		ActivityEventKeys:     []string{},
		AutomaticCustomEvents: map[string]string{},
		Version:               1,
	}
	study := bridge.Study{
		Identifier: opts.AppID + "-study",
		Name:       "Bridge Test Study",
		DataGroups: append([]string(nil), opts.DataGroups...),
		Version:    1,
	}

	s := &Server{
		store:  newStore(app, study),
		jwt:    newJWTManager(opts.JWTSecret),
		logger: opts.Logger,
		appID:  opts.AppID,
	}

	if opts.AdminEmail != "" {
		if _, err := s.store.createAccount(bridge.SignUp{
			Email:    opts.AdminEmail,
			Password: opts.AdminPassword,
			Roles:    []bridge.Role{bridge.RoleAdmin},
		}); err != nil {
			// The store is empty at this point; a collision is impossible.
			opts.Logger.Error("failed to seed admin account", zap.Error(err))
		}
	}

	s.engine = s.buildRouter()
	return s
}

// Handler returns the HTTP handler, suitable for httptest.NewServer.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) buildRouter() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), s.metricsMiddleware())

	r.GET("/v3/health", s.handleHealth)
	r.POST("/v3/auth/signIn", s.handleSignIn)

	authed := r.Group("/v3", s.requireSession())
	{
		authed.POST("/auth/signOut", s.handleSignOut)
		authed.GET("/studies/self", s.handleGetStudy)
		authed.GET("/users/self/participant", s.handleGetParticipant)
	}

	consented := r.Group("/v3", s.requireSession(), s.requireConsent())
	{
		consented.GET("/activityevents", s.handleGetActivityEvents)
		consented.POST("/activityevents", s.handleCreateCustomActivityEvent)
		consented.POST("/users/self/participant", s.handleUpdateParticipant)
		consented.GET("/users/self/appconfig", s.handleGetUsersAppConfig)
	}

	researchers := r.Group("/v3", s.requireSession(), s.requireRole(bridge.RoleResearcher))
	{
		researchers.GET("/participants/:userId/activityevents", s.handleGetParticipantActivityEvents)
		researchers.POST("/participants/:userId/activityevents", s.handleCreateParticipantActivityEvent)
	}

	developers := r.Group("/v3", s.requireSession(), s.requireRole(bridge.RoleDeveloper))
	{
		developers.GET("/apps/self", s.handleGetApp)
		developers.POST("/apps/self", s.handleUpdateApp)
		developers.POST("/appconfigs", s.handleCreateAppConfig)
		developers.PUT("/appconfigs/:guid", s.handleUpdateAppConfig)
		developers.GET("/appconfigs/:guid", s.handleGetAppConfig)
		developers.GET("/appconfigs", s.handleListAppConfigs)
	}

	admins := r.Group("/v3", s.requireSession(), s.requireRole(bridge.RoleAdmin))
	{
		admins.POST("/users", s.handleCreateUser)
		admins.DELETE("/users/:userId", s.handleDeleteUser)
		admins.DELETE("/appconfigs/:guid", s.handleDeleteAppConfig)
	}

	return r
}

func (s *Server) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		requestLatency.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
		if status := c.Writer.Status(); status >= 400 {
			requestErrors.WithLabelValues(route, strconv.Itoa(status)).Inc()
			s.logger.Debug("request failed",
				zap.String("route", route),
				zap.String("method", c.Request.Method),
				zap.Int("status", status),
			)
		}
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
