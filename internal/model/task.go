package model

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Validation constants for tasks
const (
	MaxTaskTextLength = 200
)

// Stage is one of the three task buckets
type Stage string

const (
	StageTodo      Stage = "todo"
	StageCompleted Stage = "completed"
	StageArchived  Stage = "archived"
)

// Stages returns all stages in display order
func Stages() []Stage {
	return []Stage{StageTodo, StageCompleted, StageArchived}
}

// ParseStage converts a raw string into a Stage
func ParseStage(s string) (Stage, error) {
	st := Stage(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("unknown stage %q", s)
	}
	return st, nil
}

// Valid returns true if the stage is one of the known stages
func (s Stage) Valid() bool {
	switch s {
	case StageTodo, StageCompleted, StageArchived:
		return true
	}
	return false
}

// Label returns the human readable stage name
func (s Stage) Label() string {
	switch s {
	case StageTodo:
		return "Todo"
	case StageCompleted:
		return "Completed"
	case StageArchived:
		return "Archived"
	}
	return string(s)
}

// Task is a single tracked item. The wire names created/updated are kept
// for compatibility with collections written by earlier clients.
type Task struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created"`
	UpdatedAt time.Time `json:"updated"`
}

// TextLength returns the length of the task text in characters
func TextLength(text string) int {
	return utf8.RuneCountInString(text)
}

// TaskCollection holds the three ordered stage sequences.
// Index 0 of each sequence is the most recently added or moved task.
type TaskCollection struct {
	Todo      []Task `json:"todo"`
	Completed []Task `json:"completed"`
	Archived  []Task `json:"archived"`
}

// NewTaskCollection returns an empty collection with non-nil sequences
func NewTaskCollection() *TaskCollection {
	return &TaskCollection{
		Todo:      []Task{},
		Completed: []Task{},
		Archived:  []Task{},
	}
}

// List returns the sequence for a stage
func (c *TaskCollection) List(stage Stage) []Task {
	switch stage {
	case StageTodo:
		return c.Todo
	case StageCompleted:
		return c.Completed
	case StageArchived:
		return c.Archived
	}
	return nil
}

// SetList replaces the sequence for a stage
func (c *TaskCollection) SetList(stage Stage, tasks []Task) {
	if tasks == nil {
		tasks = []Task{}
	}
	switch stage {
	case StageTodo:
		c.Todo = tasks
	case StageCompleted:
		c.Completed = tasks
	case StageArchived:
		c.Archived = tasks
	}
}

// Prepend inserts a task at the front of a stage
func (c *TaskCollection) Prepend(stage Stage, task Task) {
	list := c.List(stage)
	next := make([]Task, 0, len(list)+1)
	next = append(next, task)
	next = append(next, list...)
	c.SetList(stage, next)
}

// Find returns the index of a task within a stage, or -1
func (c *TaskCollection) Find(stage Stage, id string) int {
	for i, t := range c.List(stage) {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// Remove takes the task at index out of a stage and returns it
func (c *TaskCollection) Remove(stage Stage, index int) Task {
	list := c.List(stage)
	task := list[index]
	next := make([]Task, 0, len(list)-1)
	next = append(next, list[:index]...)
	next = append(next, list[index+1:]...)
	c.SetList(stage, next)
	return task
}

// Len returns the total number of tasks across all stages
func (c *TaskCollection) Len() int {
	return len(c.Todo) + len(c.Completed) + len(c.Archived)
}

// Clone returns a deep copy of the collection
func (c *TaskCollection) Clone() *TaskCollection {
	out := NewTaskCollection()
	for _, stage := range Stages() {
		list := c.List(stage)
		cp := make([]Task, len(list))
		copy(cp, list)
		out.SetList(stage, cp)
	}
	return out
}

// Validate checks that every task has an id and that ids are unique
// across all three sequences
func (c *TaskCollection) Validate() error {
	seen := make(map[string]Stage, c.Len())
	for _, stage := range Stages() {
		for _, t := range c.List(stage) {
			if strings.TrimSpace(t.ID) == "" {
				return fmt.Errorf("task without id in %s", stage)
			}
			if prev, ok := seen[t.ID]; ok {
				return fmt.Errorf("duplicate task id %s in %s and %s", t.ID, prev, stage)
			}
			seen[t.ID] = stage
		}
	}
	return nil
}
