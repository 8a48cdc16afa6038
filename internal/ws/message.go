package ws

import "encoding/json"

// Message is the envelope for every frame in both directions.
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Session control
const (
	TypeCreateSession = "create_session"
	TypeJoinSession   = "join_session"
	TypeLeaveSession  = "leave_session"
	TypePauseSession  = "pause_session"
	TypeResumeSession = "resume_session"
)

// Simulation hooks
const (
	TypeSetWanted   = "set_wanted"
	TypeMoveSubject = "move_subject"
	TypeDamageActor = "damage_actor"
	TypeKillActor   = "kill_actor"
)

// Server pushes
const (
	TypeSimState    = "sim_state"
	TypeSessionInfo = "session_info"
	TypeEpisodeEnd  = "episode_end"
	TypeError       = "error"
)

type ErrorMessage struct {
	Message string `json:"message"`
}

// NewErrorMessage wraps msg in an error envelope.
func NewErrorMessage(msg string) Message {
	data, _ := json.Marshal(ErrorMessage{Message: msg})
	return Message{Type: TypeError, Data: data}
}

// NewMessage marshals payload into an envelope of the given type.
func NewMessage(msgType string, payload any) (Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: msgType, Data: data}, nil
}

// Decode unmarshals the payload into v. An empty payload leaves v untouched.
func (m Message) Decode(v any) error {
	if len(m.Data) == 0 {
		return nil
	}
	return json.Unmarshal(m.Data, v)
}
