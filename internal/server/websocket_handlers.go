package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"unimarket/internal/middleware"
	"unimarket/internal/notifications"
	"unimarket/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// wsIncomingFrame is the envelope clients send over the socket.
type wsIncomingFrame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// WebsocketHandler returns a websocket handler that registers connections with
// the Hub. Authentication is handled by route middleware and userID is read
// from connection locals.
func (s *Server) WebsocketHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		middleware.ActiveWebSockets.Inc()
		defer middleware.ActiveWebSockets.Dec()

		userIDVal := conn.Locals("userID")
		uid, ok := userIDVal.(uint)
		if !ok {
			if cerr := conn.Close(); cerr != nil {
				log.Printf("websocket close error: %v", cerr)
			}
			return
		}

		if s.hub == nil {
			_ = conn.Close()
			return
		}

		// Register connection with scaling guardrails
		client, err := s.hub.Register(uid, conn)
		if err != nil {
			log.Printf("WebSocket: Failed to register user %d: %v", uid, err)
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"`+err.Error()+`"}`))
			_ = conn.Close()
			return
		}

		defer s.hub.UnregisterClient(client)

		client.IncomingHandler = s.handleIncomingWS

		// Start pumps; ReadPump blocks until the connection drops
		go client.WritePump()
		client.ReadPump()
	})
}

// handleIncomingWS processes one frame from a connected client. Frames of
// type "message" are an alternative send path and run through the same
// service as the REST endpoint; anything else is ignored.
func (s *Server) handleIncomingWS(client *notifications.Client, raw []byte) {
	var frame wsIncomingFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		client.TrySend([]byte(`{"type":"error","data":{"error":"Malformed frame"}}`))
		return
	}
	if frame.Type != "message" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	allowed, err := middleware.CheckRateLimit(ctx, s.redis, "ws_message",
		fmt.Sprintf("%d", client.UserID), 30, time.Minute)
	if err == nil && !allowed {
		client.TrySend([]byte(`{"type":"error","data":{"error":"Rate limit exceeded"}}`))
		return
	}

	var payload struct {
		ReceiverID uint   `json:"receiverId"`
		Content    string `json:"content"`
	}
	if err := json.Unmarshal(frame.Data, &payload); err != nil {
		client.TrySend([]byte(`{"type":"error","data":{"error":"Malformed frame"}}`))
		return
	}

	message, err := s.messageService.SendMessage(ctx, service.SendMessageInput{
		SenderID:   client.UserID,
		ReceiverID: payload.ReceiverID,
		Content:    payload.Content,
		Via:        "ws",
	})
	if err != nil {
		s.sendWSError(client, err.Error())
		return
	}

	// Confirm back to the sender; the receiver gets the event via pub/sub
	if ack, err := json.Marshal(map[string]any{"type": "message:sent", "data": message}); err == nil {
		client.TrySend(ack)
	}
}

// broadcastPresence tells every connected client that a user came online or
// went offline.
func (s *Server) broadcastPresence(userID uint, online bool) {
	if s.hub == nil {
		return
	}
	frame, err := json.Marshal(map[string]any{
		"type": "presence",
		"data": map[string]any{"userId": userID, "online": online},
	})
	if err != nil {
		return
	}
	s.hub.BroadcastAll(string(frame))
}

func (s *Server) sendWSError(client *notifications.Client, msg string) {
	frame, err := json.Marshal(map[string]any{
		"type": "error",
		"data": map[string]string{"error": msg},
	})
	if err != nil {
		return
	}
	client.TrySend(frame)
}
