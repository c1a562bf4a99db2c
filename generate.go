package apiguard

import "context"

// GenerationConfig bounds the generative call.
type GenerationConfig struct {
	Temperature     float32 `json:"temperature"`
	TopP            float32 `json:"topP"`
	TopK            float32 `json:"topK"`
	MaxOutputTokens int32   `json:"maxOutputTokens"`
}

// DefaultGenerationConfig returns the generation settings used when the
// caller does not override them.
func DefaultGenerationConfig() GenerationConfig {
	return GenerationConfig{
		Temperature:     0.3,
		TopP:            0.8,
		TopK:            40,
		MaxOutputTokens: 2048,
	}
}

// Validate returns an error if the configuration is unusable.
func (c GenerationConfig) Validate() error {
	if c.Temperature < 0 || c.Temperature > 1 {
		return Errorf(EINVALID, "temperature must be in [0, 1]")
	}
	if c.MaxOutputTokens <= 0 {
		return Errorf(EINVALID, "max output tokens must be positive")
	}
	return nil
}

// Generator produces a grounded natural-language answer from retrieved
// chunks. Failures are returned as errors; the pipeline decides how to
// degrade, not the generator.
type Generator interface {
	Generate(ctx context.Context, question string, chunks []*Chunk, cfg GenerationConfig) (string, error)
}
