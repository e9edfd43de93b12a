package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/adewaleolaore/youtube-arsenal/internal/storage"
)

const ctxUserID = "user_id"

type loginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

func (s *Server) loginHandler(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid request body")
	}
	if req.Username == "" || req.Password == "" {
		return errorJSON(c, http.StatusBadRequest, "Username and password are required")
	}

	user, err := s.users.Authenticate(c.Request().Context(), req.Username, req.Password)
	if errors.Is(err, storage.ErrInvalidCredentials) {
		s.log.WithField("username", req.Username).Warn("failed login")
		return errorJSON(c, http.StatusUnauthorized, "Invalid credentials")
	}
	if err != nil {
		return s.fail(c, "log in", err)
	}

	session, _ := s.sessions.Get(c.Request(), sessionName)
	session.Values[sessionUserID] = user.ID
	if err := session.Save(c.Request(), c.Response().Writer); err != nil {
		return s.fail(c, "save session", err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"data":    map[string]any{"id": user.ID, "username": user.Username},
	})
}

func (s *Server) logoutHandler(c echo.Context) error {
	session, _ := s.sessions.Get(c.Request(), sessionName)
	delete(session.Values, sessionUserID)
	session.Options.MaxAge = -1
	if err := session.Save(c.Request(), c.Response().Writer); err != nil {
		return s.fail(c, "clear session", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

// requireAuth rejects requests without a logged-in session and exposes the
// user id to handlers.
func (s *Server) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		session, err := s.sessions.Get(c.Request(), sessionName)
		if err != nil {
			return errorJSON(c, http.StatusUnauthorized, "Authentication required")
		}
		userID, ok := session.Values[sessionUserID].(uint)
		if !ok || userID == 0 {
			return errorJSON(c, http.StatusUnauthorized, "Authentication required")
		}
		c.Set(ctxUserID, userID)
		return next(c)
	}
}

func userID(c echo.Context) uint {
	id, _ := c.Get(ctxUserID).(uint)
	return id
}
