package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/forgo/taskflow/internal/model"
)

func (c *cli) signupCmd() *cobra.Command {
	var req model.RegisterProfileRequest

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create the local profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.open(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			profile, err := a.Profiles.Register(cmd.Context(), &req)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.stdout, "Welcome, %s!\n", profile.Name)
			return nil
		},
	}

	cmd.Flags().StringVarP(&req.Name, "name", "n", "", "display name (letters and spaces)")
	cmd.Flags().StringVarP(&req.DateOfBirth, "dob", "d", "", "date of birth (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("dob")

	return cmd
}

func (c *cli) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the local profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.open(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			profile, err := a.Profiles.Current(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(c.stdout, "%s (born %s)\n", profile.Name, profile.DateOfBirth)
			fmt.Fprintf(c.stdout, "Member since: %s\n", profile.CreatedAt.Local().Format(time.DateOnly))
			fmt.Fprintf(c.stdout, "Last login:   %s\n", profile.LastLogin.Local().Format("Jan 2, 2006, 3:04 PM"))
			return nil
		},
	}
}

func (c *cli) signoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "signout",
		Short: "Remove the local profile; tasks are kept",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.open(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			if err := a.Profiles.SignOut(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(c.stdout, "Signed out")
			return nil
		},
	}
}
