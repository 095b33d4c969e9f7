package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/AffanShaikhsurab/foodosys-sub001/internal/auth"
	"github.com/AffanShaikhsurab/foodosys-sub001/internal/config"
)

var tokenTTL time.Duration

var tokenCmd = &cobra.Command{
	Use:   "token <user-id>",
	Short: "Mint a bearer token signed with JWT_SECRET for local testing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if cfg.Env == "production" {
			return fmt.Errorf("refusing to mint tokens with APP_ENV=production")
		}
		if err := cfg.Require("JWT_SECRET"); err != nil {
			return err
		}

		tok, err := auth.GenerateToken(cfg.Auth.JWTSecret, args[0], tokenTTL)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), tok)
		return nil
	},
}

func init() {
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "Token lifetime")
	rootCmd.AddCommand(tokenCmd)
}
