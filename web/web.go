// Package web provides the scorebox API server: routing, middleware
// wiring and background job scheduling.
package web

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"

	"github.com/scorebox/scorebox/config"
	"github.com/scorebox/scorebox/logger"
	"github.com/scorebox/scorebox/mail"
	"github.com/scorebox/scorebox/web/controller"
	"github.com/scorebox/scorebox/web/job"
	"github.com/scorebox/scorebox/web/middleware"
	"github.com/scorebox/scorebox/web/service"
)

// Server is the API server with its controllers, services and cron.
type Server struct {
	httpServer *http.Server
	listener   net.Listener

	settings *config.Settings

	authService *service.AuthService
	userService service.UserService

	cron *cron.Cron

	ctx    context.Context
	cancel context.CancelFunc
}

func NewServer(settings *config.Settings) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{settings: settings, ctx: ctx, cancel: cancel}
}

func (s *Server) dispatcher() mail.Dispatcher {
	smtp := s.settings.SMTP
	if smtp.Host == "" {
		return mail.LogDispatcher{}
	}
	return mail.NewSMTP(smtp.Host, smtp.Port, smtp.From, smtp.Username, smtp.Password)
}

// initRouter configures gin, registers middleware and mounts the
// controllers under /api/v1.
func (s *Server) initRouter() *gin.Engine {
	if config.IsDebug() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.DefaultWriter = io.Discard
		gin.DefaultErrorWriter = io.Discard
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.Default()
	engine.Use(middleware.RequestId())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	s.authService = service.NewAuthService(s.settings, s.dispatcher())
	engine.Use(middleware.Actor(s.authService.Tokens(), &s.userService))

	api := engine.Group("/api/v1")
	{
		controller.NewAuthController(api, s.authService)
		controller.NewUserController(api)
		controller.NewCategoryController(api)
		controller.NewGenreController(api)
		controller.NewTitleController(api)
		controller.NewReviewController(api)
		controller.NewCommentController(api)
	}

	engine.NoRoute(func(c *gin.Context) {
		c.AbortWithStatus(http.StatusNotFound)
	})

	return engine
}

func (s *Server) startTask() {
	s.cron.AddJob("@daily", job.NewCheckpointJob())
}

// Start begins serving and schedules the background jobs.
func (s *Server) Start() (err error) {
	defer func() {
		if err != nil {
			_ = s.Stop()
		}
	}()

	s.cron = cron.New()
	s.cron.Start()
	s.startTask()

	engine := s.initRouter()

	addr := net.JoinHostPort(s.settings.Listen, fmt.Sprintf("%d", s.settings.Port))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.listener = listener

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: engine,
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			logger.Error("serve err:", err)
		}
	}()

	logger.Infof("%s %s serving on %s", config.GetName(), config.GetVersion(), addr)
	return nil
}

// Stop shuts the server down and stops the scheduler.
func (s *Server) Stop() error {
	s.cancel()
	if s.cron != nil {
		s.cron.Stop()
	}

	var err error
	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err = s.httpServer.Shutdown(ctx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
	}
	return err
}
