// Package web assembles the HTTP server for the blogql API: routing,
// middleware, the GraphQL endpoint and the background job scheduler.
package web

import (
	"context"
	"io"
	"net"
	"net/http"
	"strconv"

	"blogql/config"
	"blogql/graph"
	"blogql/logger"
	"blogql/util/common"
	"blogql/web/controller"
	"blogql/web/job"
	"blogql/web/middleware"
	"blogql/web/service"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	gql "github.com/graphql-go/graphql"
	"github.com/robfig/cron/v3"
)

// Server runs the GraphQL API with its scheduled jobs.
type Server struct {
	httpServer *http.Server
	listener   net.Listener

	graphql  *controller.GraphQLController
	graphiql *controller.GraphiQLController

	cron *cron.Cron

	ctx    context.Context
	cancel context.CancelFunc
}

func NewServer() *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{ctx: ctx, cancel: cancel}
}

func (s *Server) initRouter(schema gql.Schema, docs *graph.DocumentStore) (*gin.Engine, error) {
	if config.IsDebug() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.DefaultWriter = io.Discard
		gin.DefaultErrorWriter = io.Discard
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.Default()

	engine.Use(middleware.RequestID())
	engine.Use(middleware.Cors(config.GetAllowedOrigins()))
	engine.Use(gzip.Gzip(
		gzip.DefaultCompression,
		gzip.WithExcludedPaths([]string{"/api/graphql"}),
	))

	validator, err := service.NewTokenValidator(s.ctx)
	if err != nil {
		return nil, err
	}

	api := engine.Group("/api")
	api.Use(middleware.BearerAuth(validator))
	s.graphql = controller.NewGraphQLController(api, schema, docs)
	s.graphiql = controller.NewGraphiQLController(api)

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": config.GetVersion()})
	})

	engine.NoRoute(func(c *gin.Context) {
		c.AbortWithStatus(http.StatusNotFound)
	})

	return engine, nil
}

func (s *Server) startTask() {
	s.cron.AddJob("@daily", job.NewStatsJob())

	if config.GetCPUThreshold() > 0 {
		s.cron.AddJob("@every 1m", job.NewCheckCpuJob())
	}
}

// Start initializes and starts the web server.
func (s *Server) Start() (err error) {
	defer func() {
		if err != nil {
			_ = s.Stop()
		}
	}()

	s.cron = cron.New()
	s.cron.Start()

	schema, err := graph.NewSchema()
	if err != nil {
		return err
	}

	docs, err := graph.LoadDocuments(config.GetPersistedDocsPath())
	if err != nil {
		return err
	}
	if docs.Len() > 0 {
		logger.Infof("loaded %d persisted documents", docs.Len())
	}

	engine, err := s.initRouter(schema, docs)
	if err != nil {
		return err
	}

	listenAddr := net.JoinHostPort(config.GetListen(), strconv.Itoa(config.GetPort()))
	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return err
	}
	logger.Info("web server running on", listener.Addr())

	s.listener = listener
	s.httpServer = &http.Server{Handler: engine}

	go func() {
		_ = s.httpServer.Serve(listener)
	}()

	s.startTask()

	return nil
}

// Stop gracefully shuts down the web server and its cron jobs.
func (s *Server) Stop() error {
	s.cancel()
	if s.cron != nil {
		s.cron.Stop()
	}
	var err1, err2 error
	if s.httpServer != nil {
		err1 = s.httpServer.Shutdown(s.ctx)
	}
	if s.listener != nil {
		err2 = s.listener.Close()
	}
	return common.Combine(err1, err2)
}

// GetCtx returns the server's context.
func (s *Server) GetCtx() context.Context { return s.ctx }
