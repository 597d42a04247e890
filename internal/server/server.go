package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"ctchen222/flaskblog/internal/api/controller"
	"ctchen222/flaskblog/internal/api/middleware"
	"ctchen222/flaskblog/internal/api/response"
	"ctchen222/flaskblog/internal/logger"
	"ctchen222/flaskblog/internal/session"
	"ctchen222/flaskblog/web"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

var (
	tracer = otel.Tracer("server")
	meter  = otel.Meter("server")
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Controllers groups the handlers mounted by the server.
type Controllers struct {
	Pages    *controller.PageController
	Users    *controller.UserController
	Articles *controller.ArticleController
}

type Server struct {
	engine *gin.Engine
}

// NewServer builds the gin engine with every route of the site.
func NewServer(sessions *session.Manager, ctrls Controllers, store Pinger) (*Server, error) {
	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.Use(
		gin.CustomRecovery(func(c *gin.Context, recovered any) {
			response.Fatal(c, fmt.Errorf("panic: %v", recovered))
		}),
		traceRequests(),
		logger.Middleware(),
		sessions.Middleware(),
	)

	r.GET("/", ctrls.Pages.Home)
	r.GET("/about", ctrls.Pages.About)
	r.GET("/articles", ctrls.Articles.Articles)
	r.GET("/article/:id", ctrls.Articles.Article)

	r.GET("/register", ctrls.Users.RegisterPage)
	r.POST("/register", ctrls.Users.Register)
	r.GET("/login", ctrls.Users.LoginPage)
	r.POST("/login", ctrls.Users.Login)
	r.GET("/logout", ctrls.Users.Logout)

	auth := r.Group("/", middleware.RequireLogin())
	{
		auth.GET("/dashboard", ctrls.Articles.Dashboard)
		auth.GET("/add_article", ctrls.Articles.AddArticlePage)
		auth.POST("/add_article", ctrls.Articles.AddArticle)
		auth.GET("/edit_article/:id", ctrls.Articles.EditArticlePage)
		auth.POST("/edit_article/:id", ctrls.Articles.EditArticle)
		auth.GET("/delete_article/:id", ctrls.Articles.DeleteArticle)
	}

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := store.PingContext(ctx); err != nil {
			c.String(http.StatusServiceUnavailable, "database unavailable")
			return
		}
		c.String(http.StatusOK, "ok")
	})

	r.NoRoute(response.NotFound)

	return &Server{engine: r}, nil
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// traceRequests opens a server span per request and records its duration.
func traceRequests() gin.HandlerFunc {
	duration, err := meter.Float64Histogram("http.server.request.duration",
		metric.WithUnit("s"),
		metric.WithDescription("Duration of HTTP server requests"),
	)
	if err != nil {
		otel.Handle(err)
	}

	return func(c *gin.Context) {
		ctx := otel.GetTextMapPropagator().Extract(c.Request.Context(), propagation.HeaderCarrier(c.Request.Header))

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		ctx, span := tracer.Start(ctx, c.Request.Method+" "+route,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", c.Request.Method),
				attribute.String("http.route", route),
				attribute.String("http.url", c.Request.URL.String()),
			))
		defer span.End()

		c.Request = c.Request.WithContext(ctx)
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		span.SetAttributes(attribute.Int("http.status_code", status))
		if status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
		for _, e := range c.Errors {
			span.RecordError(e.Err)
		}

		if duration != nil {
			duration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(
				attribute.String("http.method", c.Request.Method),
				attribute.String("http.route", route),
				attribute.Int("http.status_code", status),
			))
		}
	}
}
