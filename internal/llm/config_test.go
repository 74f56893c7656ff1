package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, ProviderGemini, config.Provider)
	assert.Equal(t, "gemini-2.5-flash", config.Model)
	assert.InDelta(t, 0.1, config.Temperature, 1e-6)
}

func TestWithModel(t *testing.T) {
	base := DefaultConfig()

	custom := base.WithModel("gemini-2.5-pro")
	assert.Equal(t, "gemini-2.5-pro", custom.Model)
	assert.Equal(t, DefaultModel, base.Model, "original config must not change")

	assert.Equal(t, DefaultModel, base.WithModel("").Model)
}

