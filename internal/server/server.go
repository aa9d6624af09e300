package server

import (
	"context"
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/bububa/medagent/components/imaging"
	"github.com/bububa/medagent/pipeline"
)

// Disclaimer is shown on every page
const Disclaimer = "This tool is for educational purposes only and does not replace professional medical evaluation."

// DefaultMaxUploadSize bounds uploaded images when no limit is configured
const DefaultMaxUploadSize int64 = 20 << 20

//go:embed templates/*.html
var templatesFS embed.FS

// Runner runs one pipeline invocation
type Runner interface {
	Run(ctx context.Context, raw *imaging.RawImage, model pipeline.ModelSelection) (*pipeline.Result, error)
}

// ModelSelector exposes the selectable models
type ModelSelector interface {
	Models() []string
	DefaultModel() string
	SelectModel(id string) (pipeline.ModelSelection, error)
}

type Server struct {
	httpServer *http.Server
	handler    *Handler
	log        *zap.Logger
}

type Option func(s *Server)

func WithMaxUploadSize(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.handler.maxUploadSize = n
		}
	}
}

// WithGatherer serves the metrics of g on /metrics
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.handler.gatherer = g
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		s.log = l
		s.handler.log = l
	}
}

// New returns a Server listening on addr
func New(addr string, runner Runner, models ModelSelector, opts ...Option) *Server {
	s := &Server{
		handler: &Handler{
			runner:        runner,
			models:        models,
			maxUploadSize: DefaultMaxUploadSize,
			log:           zap.NewNop(),
		},
		log: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}
	return s
}

// Router builds the gin engine
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), s.accessLog())
	router.MaxMultipartMemory = s.handler.maxUploadSize
	router.SetHTMLTemplate(template.Must(template.ParseFS(templatesFS, "templates/*.html")))

	h := s.handler
	router.GET("/", h.Index)
	router.POST("/analyze", h.AnalyzePage)
	router.GET("/healthz", h.HealthCheck)
	api := router.Group("/api")
	{
		api.GET("/models", h.ListModels)
		api.POST("/analyze", h.Analyze)
	}
	if h.gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{})))
	}
	return router
}

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)))
	}
}

// Run serves until ctx is done then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server is running", zap.String("address", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	s.log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}
