package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/adewaleolaore/youtube-arsenal/internal/ports"
	"github.com/adewaleolaore/youtube-arsenal/internal/usecase"
)

const msgQuotaExceeded = "AI quota exceeded. Please try again later."

func errorJSON(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]string{"error": msg})
}

// fail maps a usecase error to its HTTP response. what completes the
// message "Failed to <what>" for unexpected errors.
func (s *Server) fail(c echo.Context, what string, err error) error {
	var inErr *usecase.InputError
	switch {
	case errors.As(err, &inErr):
		return errorJSON(c, http.StatusBadRequest, inErr.Msg)
	case errors.Is(err, ports.ErrQuotaExceeded):
		return errorJSON(c, http.StatusTooManyRequests, msgQuotaExceeded)
	case errors.Is(err, ports.ErrNotFound):
		return errorJSON(c, http.StatusNotFound, "Video not found")
	case errors.Is(err, usecase.ErrNoGenerator), errors.Is(err, usecase.ErrStoreUnavailable):
		s.log.WithError(err).Error(what)
		return errorJSON(c, http.StatusInternalServerError, err.Error())
	}
	s.log.WithError(err).Errorf("failed to %s", what)
	return c.JSON(http.StatusInternalServerError, map[string]string{
		"error":   "Failed to " + what,
		"details": err.Error(),
	})
}
