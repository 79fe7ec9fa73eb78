package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"recipe-recommender/internal/infrastructure/config"
	"recipe-recommender/internal/pkg/common"
)

// newRootCmd 建立命令列根命令，每次呼叫都使用獨立的 viper 實例
func newRootCmd() *cobra.Command {
	v := viper.New()
	var verbose bool

	root := &cobra.Command{
		Use:   "recommend",
		Short: "Recommend recipes from a list of ingredients.",
		Long: `Rank recipes from the dataset by ingredient similarity after filtering by calories.

  recommend query --ingredients eggs,milk --max-calories 300 --limit 5
  recommend import --dataset archive/food-dataset-en.csv --dsn recipes.db`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadDotEnv(); err != nil {
				return err
			}
			level := "warn"
			if verbose {
				level = "debug"
			}
			return common.InitLogger(common.LogOptions{Level: level, Stderr: true})
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			common.Sync()
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log progress to stderr.")
	root.PersistentFlags().String("dataset", "", "Path to the recipe CSV file.")
	root.PersistentFlags().Int("max-rows", 0, "Maximum number of dataset rows to read (0 keeps the configured value).")
	root.PersistentFlags().String("source", "", "Dataset source for queries: csv or sql.")
	root.PersistentFlags().String("dsn", "", "Database DSN: a postgres URL or a sqlite file path.")
	_ = v.BindPFlag("dataset.path", root.PersistentFlags().Lookup("dataset"))
	_ = v.BindPFlag("dataset.source", root.PersistentFlags().Lookup("source"))
	_ = v.BindPFlag("dataset.dsn", root.PersistentFlags().Lookup("dsn"))

	root.AddCommand(newQueryCmd(v), newImportCmd(v))
	return root
}

// loadConfig 合併旗標、環境變數與預設值
func loadConfig(cmd *cobra.Command, v *viper.Viper) (*config.Config, error) {
	if cmd.Flags().Changed("max-rows") {
		n, err := cmd.Flags().GetInt("max-rows")
		if err != nil {
			return nil, err
		}
		v.Set("dataset.max_rows", n)
	}

	cfg, err := config.Load(v)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}
