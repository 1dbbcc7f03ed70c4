package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/openbms/OpenBatteryCore/internal/monitor"
	"github.com/openbms/OpenBatteryCore/internal/types"
)

// GET /api/v1/data
func (s *Server) getData(c *gin.Context) {
	c.JSON(http.StatusOK, s.lm.Monitor().Snapshot())
}

// POST /api/v1/poll
func (s *Server) pollOnce(c *gin.Context) {
	m := s.lm.Monitor()

	if err := m.PollOnce(); err != nil {
		switch {
		case errors.Is(err, monitor.ErrNoSession):
			c.JSON(http.StatusConflict, types.NewErrorResponse("MONITOR_409", "No active session", err.Error()))
		case errors.Is(err, monitor.ErrBusy):
			c.JSON(http.StatusConflict, types.NewErrorResponse("MONITOR_409", "Session is busy", err.Error()))
		default:
			s.logger.Error("Poll failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, types.NewErrorResponse("MONITOR_500", "Poll failed", err.Error()))
		}
		return
	}

	c.JSON(http.StatusOK, m.Snapshot())
}

// POST /api/v1/receive/start
func (s *Server) startReceive(c *gin.Context) {
	if err := s.lm.Monitor().StartContinuous(); err != nil {
		switch {
		case errors.Is(err, monitor.ErrNoSession):
			c.JSON(http.StatusConflict, types.NewErrorResponse("MONITOR_409", "No active session", err.Error()))
		case errors.Is(err, monitor.ErrBusy):
			c.JSON(http.StatusConflict, types.NewErrorResponse("MONITOR_409", "Session is busy", err.Error()))
		default:
			s.logger.Error("Failed to start continuous receive", zap.Error(err))
			c.JSON(http.StatusInternalServerError, types.NewErrorResponse("MONITOR_500", "Failed to start continuous receive", err.Error()))
		}
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"message": "Continuous receive started",
	})
}
