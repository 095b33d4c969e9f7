package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AffanShaikhsurab/foodosys-sub001/internal/profile"
)

var setRoleCmd = &cobra.Command{
	Use:   "set-role <user-id> <trainee|admin>",
	Short: "Change the role of an onboarded user",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		role := profile.Role(args[1])
		if !role.Valid() {
			return fmt.Errorf("invalid role %q (expected trainee or admin)", args[1])
		}

		return withDB(cmd.Context(), func(ctx context.Context, e *env) error {
			svc := profile.NewService(profile.NewPostgresRepository(e.pool), e.log)
			if err := svc.SetRole(ctx, args[0], role); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set role of %s to %s\n", args[0], role)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(setRoleCmd)
}
