package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"cyberguard-quiz-service/internal/app"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// WSHandler drives a quiz attempt over a websocket. It shares the attempt
// with the HTML pages, so a user can switch between them mid-quiz.
type WSHandler struct {
	service  *app.QuizService
	log      *zap.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.QuizService, log *zap.Logger) *WSHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &WSHandler{
		service: service,
		log:     log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Token   int             `json:"token"`
	Payload json.RawMessage `json:"payload"`
}

type optionPayload struct {
	OptionID string `json:"optionId"`
}

type outboundMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

func stateMessage(view app.View) outboundMessage {
	return outboundMessage{Type: "state", Payload: view}
}

func errorMessage(msg string) outboundMessage {
	return outboundMessage{Type: "error", Payload: errorPayload{Message: msg}}
}

// ServeWS upgrades the request and answers every inbound action with the
// resulting attempt state. Stale or out-of-order actions get an error
// followed by the current state so the client can resync.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	who := identityFrom(r.Context())
	quizID := r.PathValue("id")
	log := h.log.With(zap.String("user_id", who.UserID), zap.String("quiz_id", quizID))

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx := r.Context()
	send := make(chan outboundMessage, 16)
	writerDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Debug("ws write failed", zap.Error(err))
				return
			}
		}
	}()
	defer func() {
		close(send)
		<-writerDone
	}()

	view, err := h.service.Current(ctx, who, quizID)
	if err != nil {
		log.Error("load attempt failed", zap.Error(err))
		send <- errorMessage("could not load quiz")
		return
	}
	send <- stateMessage(view)

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug("ws read failed", zap.Error(err))
			}
			return
		}

		view, err := h.dispatch(ctx, inbound, quizID)
		switch {
		case err == nil:
			send <- stateMessage(view)
		case errors.Is(err, errUnsupportedMessage), errors.Is(err, errInvalidPayload):
			send <- errorMessage(err.Error())
		case isRejected(err):
			send <- errorMessage(err.Error())
			send <- stateMessage(view)
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return
		default:
			log.Error("quiz action failed", zap.String("type", inbound.Type), zap.Error(err))
			send <- errorMessage("internal error")
		}
	}
}

var (
	errUnsupportedMessage = errors.New("unsupported message type")
	errInvalidPayload     = errors.New("invalid payload")
)

func (h *WSHandler) dispatch(ctx context.Context, msg inboundMessage, quizID string) (app.View, error) {
	who := identityFrom(ctx)
	switch msg.Type {
	case "select":
		var p optionPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil || p.OptionID == "" {
			return app.View{}, errInvalidPayload
		}
		return h.service.Select(ctx, who, quizID, msg.Token, p.OptionID)
	case "submit":
		var p optionPayload
		if len(msg.Payload) > 0 {
			if err := json.Unmarshal(msg.Payload, &p); err != nil {
				return app.View{}, errInvalidPayload
			}
		}
		return h.service.Submit(ctx, who, quizID, msg.Token, p.OptionID)
	case "next":
		return h.service.Next(ctx, who, quizID, msg.Token)
	case "restart":
		return h.service.Start(ctx, who, quizID)
	default:
		return app.View{}, errUnsupportedMessage
	}
}
