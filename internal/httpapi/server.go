package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	svix "github.com/svix/svix-webhooks/go"

	"github.com/openhire/jobdesk/internal/domain/company"
	"github.com/openhire/jobdesk/internal/domain/job"
	"github.com/openhire/jobdesk/internal/domain/screening"
	"github.com/openhire/jobdesk/internal/domain/user"
	"github.com/openhire/jobdesk/pkg/logging"
)

// Server serves the job-board REST API
type Server struct {
	companies company.Service
	jobs      job.Service
	users     user.Service
	screening screening.Service
	tokens    *TokenIssuer
	webhooks  *svix.Webhook
	logger    *logging.Logger

	httpServer *http.Server
}

// NewServer wires the HTTP layer over the domain services. webhooks may
// be nil; sync deliveries are then rejected instead of trusted.
func NewServer(
	host, port string,
	companies company.Service,
	jobs job.Service,
	users user.Service,
	scr screening.Service,
	tokens *TokenIssuer,
	webhooks *svix.Webhook,
	logger *logging.Logger,
) (*Server, error) {
	if companies == nil || jobs == nil || users == nil || scr == nil {
		return nil, fmt.Errorf("httpapi: all services are required")
	}
	if tokens == nil {
		return nil, fmt.Errorf("httpapi: token issuer is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("httpapi: logger is required")
	}

	s := &Server{
		companies: companies,
		jobs:      jobs,
		users:     users,
		screening: scr,
		tokens:    tokens,
		webhooks:  webhooks,
		logger:    logger,
	}
	s.httpServer = &http.Server{
		Addr:              net.JoinHostPort(host, port),
		Handler:           s.router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

func (s *Server) router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization", "token"},
	}))

	r.GET("/", func(c *gin.Context) {
		ok(c, http.StatusOK, gin.H{"message": "API working"})
	})
	r.POST("/webhooks", s.handleWebhook)

	api := r.Group("/api")

	jobs := api.Group("/jobs")
	jobs.GET("", s.handleListJobs)
	jobs.GET("/:id", s.handleGetJob)

	co := api.Group("/company")
	co.POST("/register", s.handleCompanyRegister)
	co.POST("/login", s.handleCompanyLogin)

	coAuth := co.Group("", RequireCompany(s.tokens))
	coAuth.GET("/company", s.handleCompanyGet)
	coAuth.POST("/post-job", s.handlePostJob)
	coAuth.GET("/applicants", s.handleApplicants)
	coAuth.GET("/list-jobs", s.handleListCompanyJobs)
	coAuth.POST("/change-status", s.handleChangeStatus)
	coAuth.POST("/change-visibility", s.handleChangeVisibility)
	coAuth.POST("/analyze-resumes", s.handleAnalyzeResumes)

	us := api.Group("/users", RequireUser(s.tokens))
	us.GET("/user", s.handleGetUser)
	us.POST("/apply", s.handleApply)
	us.GET("/applications", s.handleUserApplications)
	us.POST("/update-resume", s.handleUpdateResume)

	return r
}

// Run serves requests until Shutdown is called
func (s *Server) Run() error {
	s.logger.Info("http server listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests under ctx's deadline
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
