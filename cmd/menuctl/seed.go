package main

import (
	"context"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/AffanShaikhsurab/foodosys-sub001/internal/restaurant"
)

var seedCmd = &cobra.Command{
	Use:   "seed <file.yaml>",
	Short: "Upsert restaurants from a YAML seed file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		seeds, err := loadSeedFile(args[0])
		if err != nil {
			return err
		}

		return withDB(cmd.Context(), func(ctx context.Context, e *env) error {
			svc := restaurant.NewService(restaurant.NewPostgresRepository(e.pool), e.log)
			n, err := svc.Seed(ctx, seeds.Restaurants)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d restaurants from %s\n", n, args[0])
			return nil
		})
	},
}

func loadSeedFile(path string) (*restaurant.SeedFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var file restaurant.SeedFile
	if err := yaml.UnmarshalStrict(raw, &file); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	if err := validator.New().Struct(file); err != nil {
		return nil, fmt.Errorf("invalid seed file %s: %w", path, err)
	}

	seen := make(map[string]bool, len(file.Restaurants))
	for _, r := range file.Restaurants {
		if !restaurant.ValidSlug(r.Slug) {
			return nil, fmt.Errorf("invalid slug %q", r.Slug)
		}
		if seen[r.Slug] {
			return nil, fmt.Errorf("duplicate slug %q", r.Slug)
		}
		seen[r.Slug] = true
	}
	return &file, nil
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
