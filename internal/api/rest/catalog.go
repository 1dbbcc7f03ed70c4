package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openbms/OpenBatteryCore/internal/types"
)

// GET /api/v1/alarms/catalog
func (s *Server) getAlarmCatalog(c *gin.Context) {
	catalog := types.AlarmCatalog()

	c.JSON(http.StatusOK, gin.H{
		"alarms": catalog,
		"count":  len(catalog),
	})
}

// GET /api/v1/labels
func (s *Server) getLabels(c *gin.Context) {
	systemStatus := make(map[uint8]string)
	for v := types.SystemPowerOn; v <= types.SystemLock; v++ {
		systemStatus[uint8(v)] = v.String()
	}

	workStatus := make(map[uint8]string)
	for v := types.WorkEmpty; v <= types.WorkShutDown; v++ {
		workStatus[uint8(v)] = v.String()
	}

	operationStatus := make(map[uint8]string)
	for v := types.OperationEmpty; v <= types.OperationFault; v++ {
		operationStatus[uint8(v)] = v.String()
	}

	shutdownReason := make(map[uint8]string)
	for v := types.ShutdownInvalid; v <= types.ShutdownCommError; v++ {
		shutdownReason[uint8(v)] = v.String()
	}

	c.JSON(http.StatusOK, gin.H{
		"system_status":    systemStatus,
		"work_status":      workStatus,
		"operation_status": operationStatus,
		"shutdown_reason":  shutdownReason,
	})
}
