// Package server exposes a Service over HTTP with gin.
package server

import (
	"net/http"
	"time"

	"github.com/ZaguanLabs/agrilingo"
	"github.com/ZaguanLabs/agrilingo/processor"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// DefaultWaitTimeout bounds requests that ask to wait for a remote translation.
const DefaultWaitTimeout = 30 * time.Second

// Server routes HTTP requests to a Service.
type Server struct {
	svc         *agrilingo.Service
	html        *processor.HTMLProcessor
	log         zerolog.Logger
	waitTimeout time.Duration
	engine      *gin.Engine
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the access and error logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Server) {
		s.log = l
	}
}

// WithWaitTimeout sets how long a waiting request may block.
func WithWaitTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.waitTimeout = d
	}
}

// WithHTMLProcessor replaces the default HTML processor.
func WithHTMLProcessor(p *processor.HTMLProcessor) Option {
	return func(s *Server) {
		s.html = p
	}
}

// New builds the router. gin's mode is left to the caller.
func New(svc *agrilingo.Service, opts ...Option) *Server {
	s := &Server{
		svc:         svc,
		html:        processor.NewHTMLProcessor(),
		log:         zerolog.Nop(),
		waitTimeout: DefaultWaitTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With().Str("sys", "http").Logger()

	r := gin.New()
	r.Use(requestID(), accessLog(s.log), gin.Recovery())

	r.GET("/healthz", s.health)

	api := r.Group("/api")
	api.GET("/languages", s.languages)
	api.GET("/language", s.currentLanguage)
	api.PUT("/language", s.changeLanguage)
	api.GET("/language/detect", s.detectLanguage)
	api.GET("/translate", s.translateQuery)
	api.POST("/translate", s.translateBody)
	api.POST("/translate/object", s.translateObject)
	api.POST("/translate/html", s.translateHTML)
	api.PUT("/translations", s.prime)
	api.GET("/stats", s.stats)
	api.GET("/events", s.events)

	s.engine = r
	return s
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": agrilingo.FullVersion()})
}

func abortWithError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
