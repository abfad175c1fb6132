package stream

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/chemcanvas/chemcanvas/backend-go/internal/recognition"
	"github.com/chemcanvas/chemcanvas/backend-go/internal/typeid"
)

// Hub owns the open recognition connections. Each connection gets its own
// recognition session, so requests from one user never supersede another's.
type Hub struct {
	recognizer     recognition.Recognizer
	originPatterns []string

	mu         sync.RWMutex
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	stop       chan struct{}
	done       chan struct{}
	stopOnce   sync.Once
}

func NewHub(r recognition.Recognizer, originPatterns []string) *Hub {
	return &Hub{
		recognizer:     r,
		originPatterns: originPatterns,
		clients:        make(map[string]*Client),
		register:       make(chan *Client),
		unregister:     make(chan *Client),
		stop:           make(chan struct{}),
		done:           make(chan struct{}),
	}
}

func (h *Hub) Run() {
	defer close(h.done)
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case <-h.stop:
			h.closeAll()
			return
		}
	}
}

// Stop closes every connection and waits for Run to return.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.stop) })
	<-h.done
}

func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.stop:
		return false
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.stop:
	}
}

// Len returns the number of open connections.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeHTTP upgrades the request and serves the connection until it closes.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.originPatterns,
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	client := NewClient(h, conn, uuid.New().String(), typeid.NewSessionID())
	if !h.Register(client) {
		conn.Close(websocket.StatusGoingAway, "server shutting down")
		return
	}

	ctx := r.Context()
	go client.WritePump(ctx)
	client.ReadPump(ctx)
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	h.clients[client.ID] = client
	h.mu.Unlock()

	client.Send(newMessage(TypeWelcome, "", WelcomePayload{
		ConnectionID: client.ID,
		SessionID:    client.SessionID,
	}))
	slog.Info("client connected", "client", client.ID, "session", client.SessionID)
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client.ID]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, client.ID)
	h.mu.Unlock()

	client.close()
	slog.Info("client disconnected", "client", client.ID)
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[string]*Client)
	h.mu.Unlock()

	for _, c := range clients {
		c.close()
		c.conn.Close(websocket.StatusGoingAway, "server shutting down")
	}
}

func (h *Hub) handleMessage(ctx context.Context, sender *Client, msg *Message) {
	if msg.RequestID == "" {
		msg.RequestID = typeid.NewRequestID()
	}

	switch msg.Type {
	case TypeAnalyzeRequest:
		var req AnalyzeRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			sender.Send(newMessage(TypeError, msg.RequestID, ErrorPayload{Message: "invalid analyze payload"}))
			return
		}
		go h.analyze(ctx, sender, msg.RequestID, req)
	case TypeConvertRequest:
		var req ConvertRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			sender.Send(newMessage(TypeError, msg.RequestID, ErrorPayload{Message: "invalid convert payload"}))
			return
		}
		go h.convert(ctx, sender, msg.RequestID, req)
	default:
		slog.Warn("unknown message type", "type", msg.Type, "client", sender.ID)
		sender.Send(newMessage(TypeError, msg.RequestID, ErrorPayload{Message: "unknown message type " + msg.Type}))
	}
}

func (h *Hub) analyze(ctx context.Context, c *Client, requestID string, req AnalyzeRequest) {
	res, err := c.session.Analyze(ctx, req.Image, req.Subject)
	h.reply(c, requestID, TypeAnalyzeResult, res, err)
}

func (h *Hub) convert(ctx context.Context, c *Client, requestID string, req ConvertRequest) {
	res, err := c.session.Convert(ctx, req.Image)
	h.reply(c, requestID, TypeConvertResult, res, err)
}

func (h *Hub) reply(c *Client, requestID, typ string, result any, err error) {
	switch {
	case errors.Is(err, recognition.ErrSuperseded):
		c.Send(newMessage(TypeSuperseded, requestID, nil))
	case err != nil:
		slog.Error("recognition request", "error", err, "type", typ, "client", c.ID)
		c.Send(newMessage(TypeError, requestID, ErrorPayload{Message: err.Error()}))
	default:
		c.Send(newMessage(typ, requestID, result))
	}
}
