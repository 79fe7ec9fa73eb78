package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"recipe-recommender/internal/core/dataset"
	"recipe-recommender/internal/core/recipe"
	"recipe-recommender/internal/pkg/common"
)

func newQueryCmd(v *viper.Viper) *cobra.Command {
	var (
		ingredients []string
		maxCalories int
		limit       int
	)

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Print the best matching recipes as JSON.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, v)
			if err != nil {
				return err
			}

			src, err := dataset.Open(cfg.Dataset)
			if err != nil {
				return err
			}
			corpus, err := recipe.LoadCorpus(cmd.Context(), src)
			if closeErr := dataset.Close(src); closeErr != nil {
				common.LogWarn("Failed to close dataset", zap.Error(closeErr))
			}
			if err != nil {
				return err
			}

			svc := recipe.NewRecommendService(corpus, nil, nil, nil, recipe.OptionsFromConfig(cfg))

			req := recipe.Request{Ingredients: ingredients}
			if cmd.Flags().Changed("max-calories") {
				req.MaxCalories = &maxCalories
			}
			if cmd.Flags().Changed("limit") {
				req.Limit = &limit
			}

			result, err := svc.Recommend(cmd.Context(), req)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}

	cmd.Flags().StringSliceVarP(&ingredients, "ingredients", "i", nil, "Comma separated ingredient names.")
	cmd.Flags().IntVar(&maxCalories, "max-calories", 0, "Upper calorie bound (default from config).")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Number of recipes to return (default from config).")
	_ = cmd.MarkFlagRequired("ingredients")

	return cmd
}
