package httpapp

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	appmw "drift_inc/internal/middleware"
	httprouters "drift_inc/internal/transport/http"

	"github.com/arl/statsviz"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

type Server struct {
	m       *http.ServeMux
	log     *slog.Logger
	e       *echo.Echo
	routers *httprouters.Routers
	host    string
	port    string
}

func New(log *slog.Logger, sessionSecret string, host, port string, routers *httprouters.Routers) *Server {
	e := echo.New()
	e.HideBanner = true

	validate := validator.New()
	e.Validator = &CustomValidator{validator: validate}

	e.Use(session.Middleware(sessions.NewCookieStore([]byte(sessionSecret))))

	e.Use(middleware.CORS())
	e.Use(middleware.Recover())
	e.Use(appmw.PrometheusMetrics)

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogRemoteIP: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info("request",
				slog.String("URI", v.URI),
				slog.Int("status", v.Status),
				slog.String("remote ip", v.RemoteIP),
			)

			return nil
		},
	}))

	mux := http.NewServeMux()
	err := statsviz.Register(mux)
	if err != nil {
		log.Info("Statsviz start with error", slog.Any("error:", err.Error()))
	}

	return &Server{
		m:       mux,
		log:     log,
		e:       e,
		routers: routers,
		host:    host,
		port:    port,
	}
}

func (s *Server) MustRun() {
	const op = "http.Server.MustRun"

	s.log.Info(op, slog.String("Start", "server"))

	if err := s.Start(); err != nil {
		panic(err)
	}
}

func (s *Server) Start() error {
	const op = "http.Server.Start"

	if err := s.e.Start(fmt.Sprintf(":%s", s.port)); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("%s server stopped: %w", op, err)
	}

	return nil
}

func (s *Server) Stop() error {
	const op = "http.Server.Stop"

	optCtx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	s.log.Info("stopping", op, "http server")

	if err := s.e.Shutdown(optCtx); err != nil {
		return fmt.Errorf("%s could not shutdown server gracefuly: %w", op, err)
	}

	return nil
}

// adminOnlyMiddleware пускает дальше только запросы с живой админской сессией
func (s *Server) adminOnlyMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		sess, err := session.Get(httprouters.SessionName, c)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "session required"})
		}

		isAdmin, ok := sess.Values["admin"].(bool)
		if !ok || !isAdmin {
			return c.JSON(http.StatusForbidden, map[string]string{"error": "admin access required"})
		}

		return next(c)
	}
}

func (s *Server) BuildRouters() {
	api := s.e.Group("/api/v1")
	{
		api.GET("/gallery", s.routers.GetGallery)
		api.GET("/events", s.routers.GetEvents)
		api.GET("/leaderboard", s.routers.GetLeaderboard)
		api.GET("/content", s.routers.GetContent)

		debug := s.e.Group("/debug")
		{
			debug.GET("/statsviz/", echo.WrapHandler(s.m))
			debug.GET("/statsviz/*", echo.WrapHandler(s.m))
		}

		s.e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

		adminGroup := api.Group("/admin")
		{
			adminGroup.POST("/login", s.routers.AdminLogin)
			adminGroup.POST("/logout", s.routers.AdminLogout)
			adminGroup.POST("/content", s.routers.SaveContent, s.adminOnlyMiddleware)
			adminGroup.GET("/dashboard", s.routers.GetDashboard, s.adminOnlyMiddleware)
		}

		api.POST("/gallery/upload", s.routers.UploadGallery, s.adminOnlyMiddleware)
		api.DELETE("/gallery", s.routers.DeleteGalleryItem, s.adminOnlyMiddleware)
		api.POST("/events", s.routers.CreateEvent, s.adminOnlyMiddleware)
		api.DELETE("/events", s.routers.DeleteEvent, s.adminOnlyMiddleware)
	}
}
