package main

import (
	"context"
	"fmt"

	"tradejournal/internal/models"
	"tradejournal/internal/services"

	"github.com/spf13/cobra"
)

type userAdmin interface {
	Provision(ctx context.Context, in services.ProvisionInput) (*models.User, error)
	SetRole(ctx context.Context, actorID, userID, role string) (*models.User, error)
	SetActive(ctx context.Context, actorID, userID string, active bool) (*models.User, error)
}

type connectFunc func(ctx context.Context) (userAdmin, func(), error)

func newRootCmd(open connectFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "journalctl",
		Short:        "Operator tools for the trading journal",
		SilenceUsage: true,
	}
	cmd.AddCommand(newUserCmd(open))
	return cmd
}

func newUserCmd(open connectFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}
	cmd.AddCommand(
		newUserCreateCmd(open),
		newUserSetRoleCmd(open),
		newUserActiveCmd(open, "deactivate", false),
		newUserActiveCmd(open, "activate", true),
	)
	return cmd
}

func newUserCreateCmd(open connectFunc) *cobra.Command {
	var in services.ProvisionInput
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user without going through registration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAdmin(cmd, open, func(admin userAdmin) error {
				user, err := admin.Provision(cmd.Context(), in)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s) role=%s\n", user.Username, user.ID, user.Role)
				return nil
			})
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&in.Email, "email", "", "email address")
	flags.StringVar(&in.Username, "username", "", "username")
	flags.StringVar(&in.Password, "password", "", "initial password")
	flags.StringVar(&in.Role, "role", models.RoleUser, "role to assign")
	flags.BoolVar(&in.SkipPasswordPolicy, "skip-password-policy", false, "accept a password that fails the strength rules")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newUserSetRoleCmd(open connectFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "set-role <user-id> <role>",
		Short: "Change a user's role",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAdmin(cmd, open, func(admin userAdmin) error {
				user, err := admin.SetRole(cmd.Context(), "", args[0], args[1])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s role=%s\n", user.Username, user.Role)
				return nil
			})
		},
	}
}

func newUserActiveCmd(open connectFunc, use string, active bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <user-id>",
		Short: fmt.Sprintf("Mark a user account active=%t", active),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAdmin(cmd, open, func(admin userAdmin) error {
				user, err := admin.SetActive(cmd.Context(), "", args[0], active)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s active=%t\n", user.Username, user.IsActive)
				return nil
			})
		},
	}
}

func withAdmin(cmd *cobra.Command, open connectFunc, fn func(userAdmin) error) error {
	admin, closeFn, err := open(cmd.Context())
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer closeFn()
	return fn(admin)
}
