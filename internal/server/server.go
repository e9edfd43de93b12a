package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"github.com/adewaleolaore/youtube-arsenal/internal/logging"
	"github.com/adewaleolaore/youtube-arsenal/internal/storage"
	"github.com/adewaleolaore/youtube-arsenal/internal/usecase"
)

const (
	sessionName   = "session"
	sessionUserID = "user_id"
	sessionMaxAge = 30 * 24 * 60 * 60

	shutdownTimeout = 10 * time.Second
)

// Users checks login credentials.
type Users interface {
	Authenticate(ctx context.Context, username, password string) (storage.User, error)
}

type Options struct {
	Usecase    usecase.Usecase
	Users      Users
	SessionKey []byte
	// Secure marks the session cookie https-only.
	Secure bool
	Log    *logrus.Logger
}

type Server struct {
	e        *echo.Echo
	uc       usecase.Usecase
	users    Users
	sessions *sessions.CookieStore
	log      *logrus.Entry
}

func New(opts Options) *Server {
	log := opts.Log
	if log == nil {
		log = logging.Discard()
	}

	store := sessions.NewCookieStore(opts.SessionKey)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}

	s := &Server{
		e:        echo.New(),
		uc:       opts.Usecase,
		users:    opts.Users,
		sessions: store,
		log:      logging.Component(log, "server"),
	}
	s.e.HideBanner = true
	s.e.HidePort = true
	s.e.Use(s.requestLogger())
	s.e.Use(middleware.Recover())
	s.routes()
	return s
}

func (s *Server) routes() {
	s.e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	s.e.POST("/login", s.loginHandler)
	s.e.POST("/logout", s.logoutHandler)

	api := s.e.Group("/api", s.requireAuth)
	api.GET("/stats", s.statsHandler)
	api.GET("/video/:id", s.videoHandler)

	yt := api.Group("/youtube")
	yt.POST("/transcript", s.transcriptHandler)
	yt.POST("/summary", s.summaryHandler)
	yt.POST("/description", s.descriptionHandler)
	yt.POST("/keywords", s.keywordsHandler)
	yt.POST("/analyze", s.analyzeHandler)
	yt.POST("/clips", s.clipsHandler)
	yt.POST("/download-clip", s.downloadClipHandler)
	yt.GET("/history", s.historyHandler)
}

func (s *Server) Handler() http.Handler { return s.e }

// Start serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("listening on %s", addr)
		errCh <- s.e.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.log.Info("shutting down")
	if err := s.e.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			entry := s.log.WithFields(logrus.Fields{
				"method":  v.Method,
				"uri":     v.URI,
				"status":  v.Status,
				"latency": v.Latency.String(),
			})
			if v.Error != nil {
				entry = entry.WithError(v.Error)
			}
			if v.Status >= http.StatusInternalServerError {
				entry.Error("request")
			} else {
				entry.Info("request")
			}
			return nil
		},
	})
}
