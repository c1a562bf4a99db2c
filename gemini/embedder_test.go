package gemini_test

import (
	"context"
	"testing"

	"github.com/apiguard/apiguard"
	"github.com/apiguard/apiguard/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbedder_EmbedBatch_RejectsEmptyInput(t *testing.T) {
	t.Parallel()

	e := gemini.NewEmbedder(nil, "") // nil client ok for validation paths

	_, err := e.EmbedBatch(context.Background(), nil)

	require.Error(t, err)
	assert.Equal(t, apiguard.EINVALID, apiguard.ErrorCode(err))
}

func TestEmbedder_EmbedBatch_RejectsEmptyText(t *testing.T) {
	t.Parallel()

	e := gemini.NewEmbedder(nil, "")

	_, err := e.EmbedBatch(context.Background(), []string{"ok", ""})

	require.Error(t, err)
	assert.Equal(t, apiguard.EINVALID, apiguard.ErrorCode(err))
}

func TestNewEmbedder_DefaultsModel(t *testing.T) {
	t.Parallel()

	e := gemini.NewEmbedder(nil, "")

	assert.Equal(t, gemini.DefaultEmbeddingModel, e.Model())
}

func TestNewEmbedder_CustomModel(t *testing.T) {
	t.Parallel()

	e := gemini.NewEmbedder(nil, "custom-embedding-model")

	assert.Equal(t, "custom-embedding-model", e.Model())
}
