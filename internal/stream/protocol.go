package stream

import "encoding/json"

// Message is the envelope for every frame on the recognition channel.
type Message struct {
	Type      string          `json:"type"`
	RequestID string          `json:"requestId,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// AnalyzeRequest carries a PNG snapshot, base64 encoded on the wire.
type AnalyzeRequest struct {
	Image   []byte `json:"image"`
	Subject string `json:"subject,omitempty"`
}

type ConvertRequest struct {
	Image []byte `json:"image"`
}

type WelcomePayload struct {
	ConnectionID string `json:"connectionId"`
	SessionID    string `json:"sessionId"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

const (
	TypeWelcome = "welcome"
	TypeError   = "error"

	TypeAnalyzeRequest = "analyze.request"
	TypeAnalyzeResult  = "analyze.result"
	TypeConvertRequest = "convert.request"
	TypeConvertResult  = "convert.result"

	// Sent instead of a result when a newer request of the same kind
	// replaced this one.
	TypeSuperseded = "superseded"
)

func newMessage(typ, requestID string, payload any) *Message {
	msg := &Message{Type: typ, RequestID: requestID}
	if payload != nil {
		msg.Payload, _ = json.Marshal(payload)
	}
	return msg
}
