package service

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/blockvoltcr7/vector-store-be/types"
)

// WebSocketService runs a retrieval chat over one connection. The
// conversation history lives in the connection handler and is passed
// explicitly into every Ask call; the server keeps no session state beyond
// the socket itself.
type WebSocketService struct {
	search   *SearchService
	upgrader websocket.Upgrader
}

func NewWebSocketService(search *SearchService) *WebSocketService {
	return &WebSocketService{
		search: search,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins (adjust for production)
			},
		},
	}
}

func (s *WebSocketService) HandleChat(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("Upgrade error:", err)
		return
	}
	defer conn.Close()

	conn.SetReadLimit(512 * 1024)
	conn.SetReadDeadline(time.Now().Add(10 * time.Minute))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(10 * time.Minute))
		return nil
	})

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Per-connection conversation history.
	var history []types.Message

	for {
		_, p, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket read error: %v", err)
			}
			return
		}

		var req types.WebsocketRequest
		if err := json.Unmarshal(p, &req); err != nil {
			s.writeError(conn, "Invalid message")
			continue
		}

		switch req.Type {
		case types.TypeWebsocketPing:
			if err := conn.WriteJSON(types.WebsocketResponse{Type: types.TypeWebsocketPong}); err != nil {
				log.Println("Write error:", err)
			}

		case types.TypeWebsocketChat:
			payloadBytes, err := json.Marshal(req.Payload)
			if err != nil {
				s.writeError(conn, "Invalid payload")
				continue
			}
			var payload types.WebsocketChatPayload
			if err := json.Unmarshal(payloadBytes, &payload); err != nil {
				s.writeError(conn, "Invalid payload")
				continue
			}

			res, err := s.search.Ask(ctx, types.AskRequest{
				Question:  payload.Question,
				Namespace: payload.Namespace,
				TopK:      payload.TopK,
				Filter:    payload.Filter,
				History:   history,
			})
			if err != nil {
				log.Println("Ask error:", err)
				s.writeError(conn, err.Error())
				continue
			}

			history = append(history,
				types.Message{Role: "user", Content: payload.Question},
				types.Message{Role: "assistant", Content: res.Answer},
			)

			response := types.WebsocketResponse{
				Type: types.TypeWebsocketChat,
				Payload: types.WebsocketChatResponse{
					Answer:  res.Answer,
					Sources: res.Sources,
				},
			}
			if err := conn.WriteJSON(response); err != nil {
				log.Println("Write error:", err)
			}

		default:
			s.writeError(conn, "Invalid message type")
		}
	}
}

func (s *WebSocketService) writeError(conn *websocket.Conn, message string) {
	res := types.WebsocketResponse{
		Type:    types.TypeWebsocketError,
		Payload: map[string]string{"error": message},
	}
	if err := conn.WriteJSON(res); err != nil {
		log.Println("Write error:", err)
	}
}
