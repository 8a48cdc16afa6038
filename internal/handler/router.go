package handler

import (
	"encoding/json"
	"log/slog"

	"github.com/ugaemi/wantedsim-server/internal/session"
	"github.com/ugaemi/wantedsim-server/internal/ws"
)

// Router dispatches incoming messages to the appropriate handler.
type Router struct {
	sessions *SessionHandler
	control  *ControlHandler
}

// NewRouter creates a new message router.
func NewRouter(sm *session.Manager) *Router {
	return &Router{
		sessions: NewSessionHandler(sm),
		control:  NewControlHandler(sm),
	}
}

// HandleMessage parses and routes an incoming client message.
func (r *Router) HandleMessage(cm *ws.ClientMessage) {
	var msg ws.Message
	if err := json.Unmarshal(cm.Data, &msg); err != nil {
		slog.Warn("invalid message format", "client", cm.Client.ID, "error", err)
		cm.Client.SendMessage(ws.NewErrorMessage("invalid message format"))
		return
	}

	switch msg.Type {
	case ws.TypeCreateSession:
		r.sessions.HandleCreate(cm.Client, msg)
	case ws.TypeJoinSession:
		r.sessions.HandleJoin(cm.Client, msg)
	case ws.TypeLeaveSession:
		r.sessions.HandleLeave(cm.Client, msg)
	case ws.TypePauseSession:
		r.sessions.HandlePause(cm.Client, msg)
	case ws.TypeResumeSession:
		r.sessions.HandleResume(cm.Client, msg)

	case ws.TypeSetWanted:
		r.control.HandleSetWanted(cm.Client, msg)
	case ws.TypeMoveSubject:
		r.control.HandleMoveSubject(cm.Client, msg)
	case ws.TypeDamageActor:
		r.control.HandleDamageActor(cm.Client, msg)
	case ws.TypeKillActor:
		r.control.HandleKillActor(cm.Client, msg)

	default:
		slog.Warn("unknown message type", "type", msg.Type, "client", cm.Client.ID)
		cm.Client.SendMessage(ws.NewErrorMessage("unknown message type: " + msg.Type))
	}
}

// HandleDisconnect detaches a disconnected client from its session.
func (r *Router) HandleDisconnect(client *ws.Client) {
	r.sessions.detach(client)
}
