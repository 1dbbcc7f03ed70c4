package websocket

import (
	"time"

	"github.com/openbms/OpenBatteryCore/internal/types"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	// Device data messages
	MessageTypeBMSData MessageType = "bms_data"

	// Session messages
	MessageTypeSessionState MessageType = "session_state"
	MessageTypePollError    MessageType = "poll_error"
)

// Message represents a WebSocket message
type Message struct {
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// SessionStateData announces a session coming or going
type SessionStateData struct {
	SessionID string `json:"session_id,omitempty"`
	Connected bool   `json:"connected"`
}

// PollErrorData carries a transport failure from the poll runner
type PollErrorData struct {
	SessionID string `json:"session_id,omitempty"`
	Error     string `json:"error"`
}

// NewMessage creates a new message with current timestamp
func NewMessage(msgType MessageType, data interface{}) Message {
	return Message{
		Type:      msgType,
		Timestamp: time.Now(),
		Data:      data,
	}
}

// Helper functions for creating specific message types

func NewBMSDataMessage(state *types.DeviceState) Message {
	return NewMessage(MessageTypeBMSData, state)
}

func NewSessionStateMessage(sessionID string, connected bool) Message {
	return NewMessage(MessageTypeSessionState, SessionStateData{
		SessionID: sessionID,
		Connected: connected,
	})
}

func NewPollErrorMessage(sessionID, errText string) Message {
	return NewMessage(MessageTypePollError, PollErrorData{
		SessionID: sessionID,
		Error:     errText,
	})
}
