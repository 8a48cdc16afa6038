package handler

import (
	"errors"
	"log/slog"

	"github.com/ugaemi/wantedsim-server/internal/game"
	"github.com/ugaemi/wantedsim-server/internal/session"
	"github.com/ugaemi/wantedsim-server/internal/sim"
	"github.com/ugaemi/wantedsim-server/internal/ws"
)

// ControlHandler forwards simulation hooks to the client's session.
type ControlHandler struct {
	sm *session.Manager
}

func NewControlHandler(sm *session.Manager) *ControlHandler {
	return &ControlHandler{sm: sm}
}

type setWantedRequest struct {
	Active *bool `json:"active"`
}

type moveSubjectRequest struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

type actorRequest struct {
	ActorID string `json:"actor_id"`
}

// HandleSetWanted toggles the wanted state.
func (h *ControlHandler) HandleSetWanted(client *ws.Client, msg ws.Message) {
	var req setWantedRequest
	if err := msg.Decode(&req); err != nil || req.Active == nil {
		client.SendMessage(ws.NewErrorMessage("active is required"))
		return
	}
	s := h.session(client)
	if s == nil {
		return
	}
	if err := s.SetWanted(*req.Active); err != nil {
		client.SendMessage(ws.NewErrorMessage(err.Error()))
		return
	}
	slog.Debug("wanted toggled", "session", s.Code, "active", *req.Active)
}

// HandleMoveSubject teleports the tracked subject.
func (h *ControlHandler) HandleMoveSubject(client *ws.Client, msg ws.Message) {
	var req moveSubjectRequest
	if err := msg.Decode(&req); err != nil || req.X == nil || req.Y == nil {
		client.SendMessage(ws.NewErrorMessage("x and y are required"))
		return
	}
	s := h.session(client)
	if s == nil {
		return
	}
	if err := s.MoveSubject(game.Vec{X: *req.X, Y: *req.Y}); err != nil {
		client.SendMessage(ws.NewErrorMessage(err.Error()))
	}
}

func (h *ControlHandler) HandleDamageActor(client *ws.Client, msg ws.Message) {
	h.actorHook(client, msg, (*session.Session).Damage)
}

func (h *ControlHandler) HandleKillActor(client *ws.Client, msg ws.Message) {
	h.actorHook(client, msg, (*session.Session).Kill)
}

func (h *ControlHandler) actorHook(client *ws.Client, msg ws.Message, fn func(*session.Session, string) error) {
	var req actorRequest
	if err := msg.Decode(&req); err != nil || req.ActorID == "" {
		client.SendMessage(ws.NewErrorMessage("actor_id is required"))
		return
	}
	s := h.session(client)
	if s == nil {
		return
	}
	err := fn(s, req.ActorID)
	switch {
	case errors.Is(err, sim.ErrActorNotFound):
		client.SendMessage(ws.NewErrorMessage("actor not found"))
	case err != nil:
		client.SendMessage(ws.NewErrorMessage(err.Error()))
	}
}

func (h *ControlHandler) session(client *ws.Client) *session.Session {
	s := h.sm.FindSessionByClient(client.ID)
	if s == nil {
		client.SendMessage(ws.NewErrorMessage("not in a session"))
	}
	return s
}
