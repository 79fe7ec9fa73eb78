package recipe

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-recommender/internal/core/dataset"
	"recipe-recommender/internal/infrastructure/config"
)

func TestOptionsFromConfig(t *testing.T) {
	cfg, err := config.Load(viper.New())
	require.NoError(t, err)

	opts := OptionsFromConfig(cfg)
	assert.Equal(t, 500, opts.DefaultMaxCalories)
	assert.Equal(t, 5, opts.DefaultLimit)
	assert.Equal(t, 100, opts.Recommend.MaxLimit)
	assert.Equal(t, 4, opts.Recommend.Workers)
	assert.False(t, opts.Recommend.IncludeUnmatched)
}

func TestNewClassifier(t *testing.T) {
	assert.Nil(t, NewClassifier(config.ClassifierConfig{Enabled: false}))
	assert.NotNil(t, NewClassifier(config.ClassifierConfig{Enabled: true, BaseURL: "http://localhost:9000"}))
}

func TestLoadCorpus(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recipes.csv")
	content := "name,text,ingredient,energy,time_cook\n" +
		"Pancakes,,\"eggs: 2, milk: 1 cup\",200 kcal,20 min\n" +
		"Empty,,no attributes here,100 kcal,\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	corpus, err := LoadCorpus(context.Background(), &dataset.CSVSource{Path: path})
	require.NoError(t, err)
	assert.Equal(t, 1, corpus.Len())
	assert.Equal(t, 1, corpus.Stats().DroppedRows)

	_, err = LoadCorpus(context.Background(), &dataset.CSVSource{Path: filepath.Join(t.TempDir(), "missing.csv")})
	assert.Error(t, err)
}
