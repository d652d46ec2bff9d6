package model

// StageView is the display-ready projection of one stage
type StageView struct {
	Stage        Stage  `json:"stage"`
	Label        string `json:"label"`
	Items        []Task `json:"items"`
	Count        int    `json:"count"`
	EmptyMessage string `json:"empty_message,omitempty"`
}

// RenderModel is the display-ready projection of a task collection
type RenderModel struct {
	Stages []StageView `json:"stages"`
}

// Stage returns the view for a stage
func (m RenderModel) Stage(stage Stage) StageView {
	for _, v := range m.Stages {
		if v.Stage == stage {
			return v
		}
	}
	return StageView{Stage: stage, Label: stage.Label()}
}

// Total returns the number of tasks across all stages
func (m RenderModel) Total() int {
	total := 0
	for _, v := range m.Stages {
		total += v.Count
	}
	return total
}

// InitKind tells whether a session started from seed data or stored data
type InitKind string

const (
	InitFresh     InitKind = "fresh"
	InitReturning InitKind = "returning"
)

// InitResult is the outcome of loading a user's task collection
type InitResult struct {
	Kind       InitKind        `json:"kind"`
	Collection *TaskCollection `json:"-"`
	SeedSource string          `json:"seed_source,omitempty"` // "remote" or "fallback" when fresh
}

// IsFresh returns true when the collection was seeded during this session
func (r InitResult) IsFresh() bool {
	return r.Kind == InitFresh
}
