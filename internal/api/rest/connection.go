package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/openbms/OpenBatteryCore/internal/canbus"
	"github.com/openbms/OpenBatteryCore/internal/types"
)

// GET /api/v1/ports
func (s *Server) listPorts(c *gin.Context) {
	ports := canbus.ListPorts()

	c.JSON(http.StatusOK, gin.H{
		"ports": ports,
		"count": len(ports),
	})
}

// GET /api/v1/connection
func (s *Server) getConnection(c *gin.Context) {
	c.JSON(http.StatusOK, s.lm.Monitor().Status())
}

// POST /api/v1/connection
func (s *Server) connect(c *gin.Context) {
	var req struct {
		Adapter        string `json:"adapter" binding:"required"`
		SerialPort     string `json:"serial_port"`
		SerialBaud     int    `json:"serial_baud"`
		BMSAddress     uint8  `json:"bms_address"`
		VCIDeviceType  uint32 `json:"vci_device_type"`
		VCIDeviceIndex uint32 `json:"vci_device_index"`
		VCIChannel     uint32 `json:"vci_channel"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse("CONNECTION_400", "Invalid request body", err.Error()))
		return
	}

	kind, err := canbus.ParseKind(req.Adapter)
	if err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse("CONNECTION_400", "Unknown adapter kind", err.Error()))
		return
	}

	// Nicht gesetzte Felder kommen aus der Service-Konfiguration
	cfg := s.lm.Config()
	transport := canbus.Config{
		Kind:           kind,
		SerialPort:     req.SerialPort,
		SerialBaud:     req.SerialBaud,
		CANBaud:        cfg.Adapter.CANBaud,
		VCIDeviceType:  req.VCIDeviceType,
		VCIDeviceIndex: req.VCIDeviceIndex,
		VCIChannel:     req.VCIChannel,
		LocalAddress:   cfg.Addressing.HostAddress,
		RemoteAddress:  req.BMSAddress,
	}
	if transport.SerialPort == "" {
		transport.SerialPort = cfg.Adapter.SerialPort
	}
	if transport.SerialBaud == 0 {
		transport.SerialBaud = cfg.Adapter.SerialBaud
	}
	if transport.VCIDeviceType == 0 {
		transport.VCIDeviceType = cfg.Adapter.VCIDeviceType
	}
	if transport.RemoteAddress == 0 {
		transport.RemoteAddress = cfg.Addressing.BMSAddress
	}

	id, err := s.lm.Monitor().Connect(transport)
	if err != nil {
		s.logger.Error("Connect failed",
			zap.String("adapter", req.Adapter),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse("CONNECTION_500", "Failed to open session", err.Error()))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"session_id": id.String(),
		"adapter":    req.Adapter,
		"message":    "Session connected",
	})
}

// DELETE /api/v1/connection
func (s *Server) disconnect(c *gin.Context) {
	if err := s.lm.Monitor().Disconnect(); err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse("CONNECTION_500", "Failed to disconnect", err.Error()))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Disconnected",
	})
}
