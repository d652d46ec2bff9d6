package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/forgo/taskflow/internal/app"
	"github.com/forgo/taskflow/internal/handler"
	"github.com/forgo/taskflow/internal/model"
	"github.com/forgo/taskflow/internal/service"
)

// session opens the app and starts the board for the stored profile.
// A seed that could not be saved is reported and the session continues.
func (c *cli) session(cmd *cobra.Command) (*app.App, error) {
	a, err := c.open(cmd)
	if err != nil {
		return nil, err
	}

	_, result, err := a.StartSession(cmd.Context())
	if err != nil && !(errors.Is(err, service.ErrPersistence) && result.IsFresh()) {
		_ = a.Close()
		return nil, err
	}
	if err != nil {
		a.Logger.Warn("seeded tasks were not saved", "error", err)
	}
	if result.IsFresh() {
		fmt.Fprintf(c.stdout, "Loaded %d starter tasks (%s)\n", result.Collection.Len(), result.SeedSource)
	}
	return a, nil
}

func (c *cli) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show all tasks by stage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.session(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			c.printBoard(a.Board.Render())
			return nil
		},
	}
}

func (c *cli) addCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <text>",
		Short: "Add a task to Todo",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.session(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			view, err := a.Board.Dispatch(cmd.Context(), model.AddAction(strings.Join(args, " ")))
			if err != nil {
				return err
			}
			added := view.Stage(model.StageTodo).Items[0]
			fmt.Fprintf(c.stdout, "Added %s: %s\n", added.ID, added.Text)
			return nil
		},
	}
}

func (c *cli) moveCmd() *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "move <id> <todo|completed|archived>",
		Short: "Move a task to another stage",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			to, err := model.ParseStage(args[1])
			if err != nil {
				return err
			}

			a, err := c.session(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			source := model.Stage(from)
			if from == "" {
				source = locate(a.Board.Snapshot(), id)
			}

			if _, err := a.Board.Dispatch(cmd.Context(), model.MoveAction(source, id, to)); err != nil {
				return err
			}
			fmt.Fprintf(c.stdout, "Moved %s to %s\n", id, to.Label())
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "current stage of the task (found automatically when omitted)")

	return cmd
}

// locate returns the stage holding id, defaulting to todo
func locate(c *model.TaskCollection, id string) model.Stage {
	if c != nil {
		for _, stage := range model.Stages() {
			if c.Find(stage, id) >= 0 {
				return stage
			}
		}
	}
	return model.StageTodo
}

func (c *cli) printBoard(view model.RenderModel) {
	for i, stage := range view.Stages {
		if i > 0 {
			fmt.Fprintln(c.stdout)
		}
		fmt.Fprintf(c.stdout, "%s (%d)\n", stage.Label, stage.Count)
		if stage.EmptyMessage != "" {
			fmt.Fprintf(c.stdout, "  %s\n", stage.EmptyMessage)
			continue
		}
		for _, task := range stage.Items {
			fmt.Fprintf(c.stdout, "  %s  %s\n", task.ID, task.Text)
			fmt.Fprintf(c.stdout, "      Last modified: %s\n", task.UpdatedAt.Local().Format(handler.LastModifiedLayout))
		}
	}
}
