package web

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/KirkDiggler/diceroom/internal/models"
	"github.com/KirkDiggler/diceroom/internal/services/messaging"
	"github.com/KirkDiggler/diceroom/internal/services/roll"
	"github.com/KirkDiggler/diceroom/internal/services/synchronizer"
)

// Message types sent to and received from WebSocket clients
const (
	MessageTypeSnapshot      = "snapshot"
	MessageTypeRollCompleted = "roll_completed"
	MessageTypeFrame         = "frame"
	MessageTypeError         = "error"
	MessageTypeRoll          = "roll"
)

// ServerMessage is sent to WebSocket clients
type ServerMessage struct {
	Type    string                      `json:"type"`
	Session *models.Session             `json:"session,omitempty"`
	Event   *synchronizer.RollCompleted `json:"event,omitempty"`
	Message string                      `json:"message,omitempty"`
	Label   string                      `json:"label,omitempty"`
	RollID  string                      `json:"rollId,omitempty"`
	Faces   []int                       `json:"faces,omitempty"`
}

// ClientMessage is received from WebSocket clients
type ClientMessage struct {
	Type        string `json:"type"`
	Dice        string `json:"dice"`
	CustomSides string `json:"customSides"`
	Count       int    `json:"count"`
	Comment     string `json:"comment"`
}

// connection is one WebSocket client following a session
type connection struct {
	id        string
	sessionID string
	nick      string
	conn      *websocket.Conn
	send      chan []byte
	handler   *Handler
	sub       *synchronizer.Subscription

	ctx    context.Context
	cancel context.CancelFunc
	rolls  sync.WaitGroup
}

// Socket handles GET /sessions/{id}/ws?nick=. The subscription is made
// before the upgrade so an unknown session is reported as a plain HTTP error.
func (h *Handler) Socket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	nick := strings.TrimSpace(r.URL.Query().Get("nick"))
	if nick == "" {
		h.ServiceError(w, r, roll.ErrMissingNick)
		return
	}

	ctx, cancel := context.WithCancel(context.WithoutCancel(r.Context()))

	sub, err := h.sync.Subscribe(ctx, &synchronizer.SubscribeInput{SessionID: sessionID})
	if err != nil {
		cancel()
		h.ServiceError(w, r, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		cancel()
		_ = sub.Close()
		log.Error().Err(err).Msg("failed to upgrade WebSocket connection")
		return
	}

	c := &connection{
		id:        uuid.New().String(),
		sessionID: sessionID,
		nick:      nick,
		conn:      conn,
		send:      make(chan []byte, h.socket.SendBuffer),
		handler:   h,
		sub:       sub,
		ctx:       ctx,
		cancel:    cancel,
	}

	log.Info().
		Str("connection_id", c.id).
		Str("session_id", sessionID).
		Str("nick", nick).
		Msg("WebSocket connection established")

	go c.writePump()
	go c.forward()
	c.readPump()
}

// close cancels in-flight rolls and ends the subscription
func (c *connection) close() {
	c.cancel()
	_ = c.sub.Close()
	c.conn.Close()
}

// enqueue hands a message to the write pump, dropping it when the client
// is not keeping up
func (c *connection) enqueue(msg *ServerMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal WebSocket message")
		return
	}

	select {
	case c.send <- data:
	case <-c.ctx.Done():
	default:
		log.Warn().
			Str("connection_id", c.id).
			Str("type", msg.Type).
			Msg("connection send buffer full, dropping message")
	}
}

// forward relays snapshots and roll notifications from the subscription
func (c *connection) forward() {
	defer c.close()

	snapshots := c.sub.Snapshots()
	events := c.sub.Events()

	for snapshots != nil || events != nil {
		select {
		case <-c.ctx.Done():
			return
		case s, ok := <-snapshots:
			if !ok {
				snapshots = nil
				continue
			}
			c.enqueue(&ServerMessage{Type: MessageTypeSnapshot, Session: s})
		case e, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			c.enqueue(c.rollCompleted(e))
		}
	}
}

func (c *connection) rollCompleted(e *synchronizer.RollCompleted) *ServerMessage {
	msg := &ServerMessage{Type: MessageTypeRollCompleted, Event: e}

	output, err := c.handler.messaging.GetRollCompletedMessage(c.ctx, &messaging.GetRollCompletedMessageInput{
		Event: &models.RollEvent{
			Seq:        e.Seq,
			RollID:     e.RollID,
			Nick:       e.Nick,
			Dice:       e.Dice,
			NumDice:    e.NumDice,
			Value:      e.Value,
			ResolvedAt: e.ResolvedAt,
		},
	})
	if err == nil {
		msg.Message = output.Message
	}

	// The event carries no faces, the label comes from the stored roll
	latest := c.sub.Latest()
	if idx := latest.FindRoll(e.RollID); idx >= 0 {
		label, err := c.handler.messaging.GetRollLabel(c.ctx, &messaging.GetRollLabelInput{
			Roll: latest.Rolls[idx],
		})
		if err == nil {
			msg.Label = label.Label
		}
	}
	return msg
}

// writePump handles sending messages to the WebSocket connection
func (c *connection) writePump() {
	cfg := c.handler.socket
	ticker := time.NewTicker(cfg.PingInterval)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case <-c.ctx.Done():
			_ = c.conn.SetWriteDeadline(time.Now().Add(cfg.WriteTimeout))
			_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return

		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(cfg.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Debug().
					Err(err).
					Str("connection_id", c.id).
					Msg("failed to write message to WebSocket")
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(cfg.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Debug().
					Err(err).
					Str("connection_id", c.id).
					Msg("failed to send ping")
				return
			}
		}
	}
}

// readPump handles reading messages from the WebSocket connection. It runs
// on the request goroutine and returns once the client is gone.
func (c *connection) readPump() {
	cfg := c.handler.socket
	defer func() {
		c.close()
		c.rolls.Wait()
		log.Info().
			Str("connection_id", c.id).
			Str("session_id", c.sessionID).
			Msg("WebSocket connection closed")
	}()

	c.conn.SetReadLimit(cfg.MaxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				log.Warn().
					Err(err).
					Str("connection_id", c.id).
					Msg("unexpected WebSocket close error")
			}
			return
		}

		c.handleClientMessage(message)
		_ = c.conn.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))
	}
}

// handleClientMessage processes messages received from the client
func (c *connection) handleClientMessage(message []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		c.enqueue(&ServerMessage{Type: MessageTypeError, Message: "invalid message"})
		return
	}

	switch msg.Type {
	case MessageTypeRoll:
		c.rolls.Add(1)
		go func() {
			defer c.rolls.Done()
			c.roll(&msg)
		}()
	default:
		c.enqueue(&ServerMessage{Type: MessageTypeError, Message: "unknown message type"})
	}
}

// roll runs one roll for this connection's player, relaying its frames.
// Closing the socket cancels it.
func (c *connection) roll(msg *ClientMessage) {
	handle, err := c.handler.rolls.RollDice(c.ctx, &roll.RollDiceInput{
		SessionID:   c.sessionID,
		Nick:        c.nick,
		Dice:        msg.Dice,
		CustomSides: msg.CustomSides,
		Count:       msg.Count,
		Comment:     msg.Comment,
	})
	if err != nil {
		c.sendError(err)
		return
	}

	for frame := range handle.Frames() {
		c.enqueue(&ServerMessage{
			Type:   MessageTypeFrame,
			RollID: frame.RollID,
			Faces:  frame.Faces,
		})
	}

	resolved, err := handle.Wait(c.ctx)
	if err != nil {
		if c.ctx.Err() == nil {
			c.sendError(err)
		}
		return
	}

	log.Debug().
		Str("connection_id", c.id).
		Str("roll_id", resolved.ID).
		Msg("roll resolved for WebSocket client")
}

func (c *connection) sendError(err error) {
	_, body := c.handler.errorBody(c.ctx, err)
	c.enqueue(&ServerMessage{Type: MessageTypeError, Message: body.Error})
}
