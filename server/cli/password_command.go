package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newPasswordCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "password",
		Short: "Manage the dashboard admin password",
	}

	cmd.AddCommand(newPasswordSetCommand(ctx))
	cmd.AddCommand(newPasswordStatusCommand(ctx))
	return cmd
}

func newPasswordSetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "set",
		Short: "Overwrite the admin password, read from stdin",
		Long:  "Resets the admin password without checking the current one. The new password is read from the first line of stdin.",
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := readPassword(cmd)
			if err != nil {
				return err
			}

			services, err := ctx.ensureServices(cmd.Context())
			if err != nil {
				return err
			}

			if err := services.Passwords.SetPassword(cmd.Context(), password); err != nil {
				return fmt.Errorf("set password: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Admin password updated")
			return nil
		},
	}
}

func newPasswordStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report whether an admin password is configured",
		RunE: func(cmd *cobra.Command, args []string) error {
			services, err := ctx.ensureServices(cmd.Context())
			if err != nil {
				return err
			}

			configured, err := services.Passwords.IsConfigured(cmd.Context())
			if err != nil {
				return fmt.Errorf("check password: %w", err)
			}
			if configured {
				fmt.Fprintln(cmd.OutOrStdout(), "Admin password is configured")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "Admin password is not configured")
			}
			return nil
		},
	}
}

func readPassword(cmd *cobra.Command) (string, error) {
	scanner := bufio.NewScanner(cmd.InOrStdin())
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return "", errors.New("no password given on stdin")
	}

	password := strings.TrimRight(scanner.Text(), "\r")
	if password == "" {
		return "", errors.New("password must not be empty")
	}
	return password, nil
}
