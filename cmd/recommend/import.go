package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"recipe-recommender/internal/core/dataset"
	"recipe-recommender/internal/pkg/common"
)

func newImportCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Copy recipes from the CSV dataset into a SQL table.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, v)
			if err != nil {
				return err
			}
			if cfg.Dataset.DSN == "" {
				return fmt.Errorf("--dsn is required")
			}

			csvSource := &dataset.CSVSource{
				Path:     cfg.Dataset.Path,
				MaxRows:  cfg.Dataset.MaxRows,
				SkipRows: cfg.Dataset.SkipRows,
			}
			rows, stats, err := csvSource.Rows(cmd.Context())
			if err != nil {
				return err
			}

			db, err := dataset.OpenDB(cfg.Dataset.DSN)
			if err != nil {
				return err
			}
			sqlSource := &dataset.SQLSource{DB: db}
			defer sqlSource.Close()

			n, err := sqlSource.Import(cmd.Context(), rows)
			if err != nil {
				return err
			}

			common.LogInfo("匯入完成",
				zap.Int("read", stats.Read),
				zap.Int("skipped_lines", stats.Skipped),
				zap.Int("imported", n),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d recipes (%d lines skipped)\n", n, stats.Skipped)
			return nil
		},
	}

	return cmd
}
