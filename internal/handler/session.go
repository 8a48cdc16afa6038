package handler

import (
	"log/slog"
	"strings"

	"github.com/ugaemi/wantedsim-server/internal/session"
	"github.com/ugaemi/wantedsim-server/internal/ws"
)

// SessionHandler handles session lifecycle messages.
type SessionHandler struct {
	sm *session.Manager
}

func NewSessionHandler(sm *session.Manager) *SessionHandler {
	return &SessionHandler{sm: sm}
}

type joinSessionRequest struct {
	Code string `json:"code"`
}

// HandleCreate starts a new session and attaches the client to it.
func (h *SessionHandler) HandleCreate(client *ws.Client, _ ws.Message) {
	if h.sm.FindSessionByClient(client.ID) != nil {
		client.SendMessage(ws.NewErrorMessage("already in a session"))
		return
	}

	s := h.sm.CreateSession()
	if err := s.AddObserver(client); err != nil {
		h.sm.RemoveSession(s.Code)
		client.SendMessage(ws.NewErrorMessage(err.Error()))
		return
	}

	resp, _ := ws.NewMessage(ws.TypeCreateSession, s.Info())
	client.SendMessage(resp)
	slog.Info("client created session", "client", client.ID, "session", s.Code)
}

// HandleJoin attaches the client to an existing session.
func (h *SessionHandler) HandleJoin(client *ws.Client, msg ws.Message) {
	var req joinSessionRequest
	if err := msg.Decode(&req); err != nil || req.Code == "" {
		client.SendMessage(ws.NewErrorMessage("code is required"))
		return
	}
	if h.sm.FindSessionByClient(client.ID) != nil {
		client.SendMessage(ws.NewErrorMessage("already in a session"))
		return
	}

	s := h.sm.GetSession(strings.ToUpper(req.Code))
	if s == nil {
		client.SendMessage(ws.NewErrorMessage("session not found"))
		return
	}
	if err := s.AddObserver(client); err != nil {
		client.SendMessage(ws.NewErrorMessage(err.Error()))
		return
	}

	resp, _ := ws.NewMessage(ws.TypeJoinSession, s.Info())
	client.SendMessage(resp)
	slog.Info("client joined session", "client", client.ID, "session", s.Code)
}

// HandleLeave detaches the client; the last observer out stops the session.
func (h *SessionHandler) HandleLeave(client *ws.Client, _ ws.Message) {
	if !h.detach(client) {
		client.SendMessage(ws.NewErrorMessage("not in a session"))
	}
}

func (h *SessionHandler) HandlePause(client *ws.Client, _ ws.Message) {
	h.withSession(client, (*session.Session).Pause)
}

func (h *SessionHandler) HandleResume(client *ws.Client, _ ws.Message) {
	h.withSession(client, (*session.Session).Resume)
}

func (h *SessionHandler) withSession(client *ws.Client, fn func(*session.Session) error) {
	s := h.sm.FindSessionByClient(client.ID)
	if s == nil {
		client.SendMessage(ws.NewErrorMessage("not in a session"))
		return
	}
	if err := fn(s); err != nil {
		client.SendMessage(ws.NewErrorMessage(err.Error()))
	}
}

func (h *SessionHandler) detach(client *ws.Client) bool {
	s := h.sm.FindSessionByClient(client.ID)
	if s == nil {
		return false
	}
	if s.RemoveObserver(client.ID) == 0 {
		h.sm.RemoveSession(s.Code)
	}
	slog.Info("client left session", "client", client.ID, "session", s.Code)
	return true
}
