package model

import "fmt"

// ActionKind identifies a command the UI can dispatch
type ActionKind string

const (
	ActionAdd  ActionKind = "add"
	ActionMove ActionKind = "move"
)

// Action is a typed command sent from a UI adapter to the board
type Action struct {
	Kind   ActionKind `json:"kind"`
	Text   string     `json:"text,omitempty"`
	TaskID string     `json:"task_id,omitempty"`
	From   Stage      `json:"from,omitempty"`
	To     Stage      `json:"to,omitempty"`
}

// AddAction builds an add command
func AddAction(text string) Action {
	return Action{Kind: ActionAdd, Text: text}
}

// MoveAction builds a move command
func MoveAction(from Stage, taskID string, to Stage) Action {
	return Action{Kind: ActionMove, TaskID: taskID, From: from, To: to}
}

func (a Action) String() string {
	switch a.Kind {
	case ActionAdd:
		return "add"
	case ActionMove:
		return fmt.Sprintf("move %s %s->%s", a.TaskID, a.From, a.To)
	}
	return string(a.Kind)
}

// CreateTaskRequest represents a request to add a task
type CreateTaskRequest struct {
	Text string `json:"text"`
}

// MoveTaskRequest represents a request to move a task between stages
type MoveTaskRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Validate validates the move request
func (r *MoveTaskRequest) Validate() []FieldError {
	var errors []FieldError
	if !Stage(r.From).Valid() {
		errors = append(errors, FieldError{Field: "from", Message: "from must be todo, completed, or archived"})
	}
	if !Stage(r.To).Valid() {
		errors = append(errors, FieldError{Field: "to", Message: "to must be todo, completed, or archived"})
	}
	return errors
}
