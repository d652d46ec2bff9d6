package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/forgo/taskflow/internal/app"
	"github.com/forgo/taskflow/internal/config"
	"github.com/forgo/taskflow/internal/service"
)

// cli carries state shared by every subcommand
type cli struct {
	configPath string
	logLevel   string
	stdout     io.Writer
	stderr     io.Writer
}

func main() {
	root := newRootCmd(os.Stdout, os.Stderr)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", service.UserMessage(err))
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	c := &cli{stdout: stdout, stderr: stderr}

	rootCmd := &cobra.Command{
		Use:           "taskflow",
		Short:         "TaskFlow - personal task tracker",
		Version:       app.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	rootCmd.PersistentFlags().StringVar(&c.configPath, "config", "", "path to a YAML config file (default $TASKFLOW_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "override LOG_LEVEL (debug, info, warn, error)")

	// Add subcommands
	rootCmd.AddCommand(c.signupCmd())
	rootCmd.AddCommand(c.whoamiCmd())
	rootCmd.AddCommand(c.signoutCmd())
	rootCmd.AddCommand(c.listCmd())
	rootCmd.AddCommand(c.addCmd())
	rootCmd.AddCommand(c.moveCmd())
	rootCmd.AddCommand(c.serveCmd())

	return rootCmd
}

// open loads configuration and wires the application
func (c *cli) open(cmd *cobra.Command) (*app.App, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	if c.logLevel != "" {
		cfg.LogLevel = c.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := app.NewTextLogger(c.stderr, cfg.LogLevel)
	return app.New(cmd.Context(), cfg, logger)
}
