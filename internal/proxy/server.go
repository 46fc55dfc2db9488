// Package proxy re-exposes the chat endpoint as an OpenAI compatible API.
package proxy

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/baalimago/zai/internal/models"
	"github.com/baalimago/zai/internal/stream"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DashboardURL is where GET / redirects to.
const DashboardURL = "https://z.ai/"

// Streamer opens one upstream chat stream.
type Streamer interface {
	Stream(ctx context.Context, req models.ChatRequest) (*stream.Lines, error)
}

type Config struct {
	// APIKey, when set, is the only bearer accepted. Otherwise any non empty
	// bearer is.
	APIKey string
	// DefaultStream is used for requests which omit "stream".
	DefaultStream bool
	ThinkTags     ThinkTagsMode
	// DefaultModel is used for requests which omit "model".
	DefaultModel string
	// EnableThinking is used for requests which omit "enable_thinking". Nil
	// leaves it to the model name.
	EnableThinking *bool
	// Debug logs every upstream line.
	Debug bool
}

type Server struct {
	conf     Config
	upstream Streamer
	engine   *gin.Engine
	registry *prometheus.Registry
	metrics  *metrics
	catalog  *catalog
	now      func() time.Time
}

// New builds the router. Metrics are kept in a registry owned by the server.
// When upstream is also a Cataloger, /models serves its live catalog.
func New(upstream Streamer, conf Config) *Server {
	reg := prometheus.NewRegistry()
	cat := &catalog{}
	if c, ok := upstream.(Cataloger); ok {
		cat.source = c
	}
	s := &Server{
		conf:     conf,
		upstream: upstream,
		registry: reg,
		metrics:  newMetrics(reg),
		catalog:  cat,
		now:      time.Now,
	}
	s.engine = s.routes()
	return s
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), cors(), s.metrics.middleware())

	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusSeeOther, DashboardURL)
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))
	for _, prefix := range []string{"/v1", "/api/v1", "/hf/v1"} {
		g := r.Group(prefix)
		g.GET("/models", s.handleModels)
		g.POST("/chat/completions", s.requireBearer(), s.handleChatCompletions)
		g.POST("/completions", s.requireBearer(), s.handleCompletions)
	}
	return r
}

// Handler exposes the router, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		ancli.Okf("serving OpenAI compatible API on %v\n", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to serve: %w", err)
	}
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		h.Set("Access-Control-Allow-Credentials", "true")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	}
}
