package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"temperature_monitor/internal/sessionlog"
)

const (
	statusSessionStarted = "session_started"
	statusSessionStopped = "session_stopped"

	errStartSession = "failed to start logging session"
)

// @Summary      Start logging session
// @Description  Opens a timestamped CSV with one column per currently known probe. Column order is frozen for the session.
// @Tags         sessions
// @Produce      json
// @Success      200  {object}  map[string]string  "status, filename"
// @Failure      409  {object}  map[string]string  "a session is already active"
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/sessions/start [post]
func (h *Handler) startSession(c *gin.Context) {
	filename, err := h.services.Sessions.Start(c.Request.Context())
	if err != nil {
		if errors.Is(err, sessionlog.ErrAlreadyLogging) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errStartSession, "session_start_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusSessionStarted, "filename": filename})
}

// @Summary      Stop logging session
// @Tags         sessions
// @Produce      json
// @Success      200  {object}  map[string]string  "status, filename"
// @Failure      409  {object}  map[string]string  "no session is active"
// @Router       /api/v1/sessions/stop [post]
func (h *Handler) stopSession(c *gin.Context) {
	filename, err := h.services.Sessions.Stop(c.Request.Context())
	if err != nil {
		if errors.Is(err, sessionlog.ErrNotLogging) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to stop logging session", "session_stop_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusSessionStopped, "filename": filename})
}

// @Summary      Session status
// @Tags         sessions
// @Produce      json
// @Success      200  {object}  service.SessionStatus
// @Router       /api/v1/sessions/status [get]
func (h *Handler) sessionStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Sessions.Status())
}
