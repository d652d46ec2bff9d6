package service

import (
	"github.com/forgo/taskflow/internal/model"
)

// Empty-stage messages shown in place of an empty list
var emptyMessages = map[model.Stage]string{
	model.StageTodo:      "No tasks yet. Add your first task above! 📝",
	model.StageCompleted: "No completed tasks yet. Mark some tasks as complete! ✅",
	model.StageArchived:  "No archived tasks yet. Archive completed tasks to keep them for reference! 📦",
}

// EmptyMessage returns the placeholder text for an empty stage
func EmptyMessage(stage model.Stage) string {
	return emptyMessages[stage]
}

// Present projects a collection into display form. Stage order is kept
// exactly as stored; items are copied so callers may not alias the
// collection.
func Present(c *model.TaskCollection) model.RenderModel {
	if c == nil {
		c = model.NewTaskCollection()
	}

	stages := model.Stages()
	rm := model.RenderModel{Stages: make([]model.StageView, 0, len(stages))}
	for _, stage := range stages {
		list := c.List(stage)
		items := make([]model.Task, len(list))
		copy(items, list)

		view := model.StageView{
			Stage: stage,
			Label: stage.Label(),
			Items: items,
			Count: len(items),
		}
		if len(items) == 0 {
			view.EmptyMessage = EmptyMessage(stage)
		}
		rm.Stages = append(rm.Stages, view)
	}
	return rm
}
