package calculator

import (
	"go-calculator/internal/calc"
)

// ActionRequest is the JSON body for POST /calculator/sessions/{id}/actions.
type ActionRequest struct {
	Type      string `json:"type"`                // add-digit, choose-operation, clear, delete-digit, evaluate
	Digit     string `json:"digit,omitempty"`     // add-digit only
	Operation string `json:"operation,omitempty"` // choose-operation only
}

// Action converts the wire form into a reducer action.
func (r ActionRequest) Action() (calc.Action, error) {
	return calc.NewAction(r.Type, r.Digit, r.Operation)
}

// KeysRequest is the JSON body for POST /calculator/sessions/{id}/keys. Keys
// holds key names; Script is a compact key script. Keys run before Script.
type KeysRequest struct {
	Keys   []string `json:"keys,omitempty"`
	Script string   `json:"script,omitempty"`
}

// StreamFrame is one client message on the websocket. Either Key or the
// action fields are set.
type StreamFrame struct {
	Key string `json:"key,omitempty"`
	ActionRequest
}

// StateView is the rendering contract: raw fields plus formatted display.
// Absent operands and operation are null.
type StateView struct {
	CurrentOperand  *string     `json:"current_operand"`
	PreviousOperand *string     `json:"previous_operand"`
	Operation       *string     `json:"operation"`
	Overwrite       bool        `json:"overwrite"`
	Display         DisplayView `json:"display"`
}

// DisplayView holds the formatted strings a front end renders.
type DisplayView struct {
	Previous string `json:"previous"`
	Current  string `json:"current"`
}

// SessionResponse is the JSON response for all session endpoints.
type SessionResponse struct {
	SessionID string    `json:"session_id"`
	State     StateView `json:"state"`
	Changed   *bool     `json:"changed,omitempty"`
}

// ErrorFrame is sent on the websocket when a client message is rejected.
type ErrorFrame struct {
	Error string `json:"error"`
}

func newStateView(d calc.Display) StateView {
	s := d.State
	v := StateView{
		Overwrite: s.Overwrite,
		Display:   DisplayView{Previous: d.Previous, Current: d.Current},
	}
	if cur, ok := s.Current.Value(); ok {
		v.CurrentOperand = &cur
	}
	if prev, ok := s.Previous.Value(); ok {
		v.PreviousOperand = &prev
	}
	if s.Operation != "" {
		op := string(s.Operation)
		v.Operation = &op
	}
	return v
}
