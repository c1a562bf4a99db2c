package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/apiguard/apiguard"
	"google.golang.org/genai"
)

// DefaultGenerationModel is the generative model used unless overridden.
const DefaultGenerationModel = "gemini-2.0-flash"

// systemInstruction is the behavioral contract for the generative model.
// The system's credibility rests on the model refusing to answer beyond the
// retrieved context, so this is not optional styling.
const systemInstruction = `You are API Guardian, an expert assistant for API documentation.

Rules:
1. Answer based ONLY on the provided context.
2. If the context does not contain enough information, say "I don't have enough information" instead of guessing.
3. Include code examples verbatim when they are present in the context.
4. Cite the source URLs your answer is based on.`

// Ensure Generator implements apiguard.Generator at compile time.
var _ apiguard.Generator = (*Generator)(nil)

// Generator implements apiguard.Generator using Google Gemini.
type Generator struct {
	client *genai.Client
	model  string
}

// NewGenerator creates a new Generator for the given model.
func NewGenerator(client *genai.Client, model string) *Generator {
	if model == "" {
		model = DefaultGenerationModel
	}
	return &Generator{client: client, model: model}
}

// Generate produces an answer grounded on the retrieved chunks.
// Failures are returned to the caller; the pipeline decides how to degrade.
func (g *Generator) Generate(ctx context.Context, question string, chunks []*apiguard.Chunk, cfg apiguard.GenerationConfig) (string, error) {
	if question == "" {
		return "", apiguard.Errorf(apiguard.EINVALID, "question required")
	}
	if len(chunks) == 0 {
		return "", apiguard.Errorf(apiguard.EINVALID, "at least one context chunk required")
	}
	if err := cfg.Validate(); err != nil {
		return "", err
	}

	prompt := BuildPrompt(question, chunks)

	result, err := g.client.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		BuildConfig(cfg),
	)
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", apiguard.Errorf(apiguard.EINTERNAL, "gemini returned nil result")
	}

	return result.Text(), nil
}

// BuildConfig maps a GenerationConfig onto the Gemini API config.
func BuildConfig(cfg apiguard.GenerationConfig) *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemInstruction}},
		},
		Temperature:     genai.Ptr(cfg.Temperature),
		TopP:            genai.Ptr(cfg.TopP),
		TopK:            genai.Ptr(cfg.TopK),
		MaxOutputTokens: cfg.MaxOutputTokens,
	}
}

// BuildPrompt assembles the grounded user prompt: chunk texts in retrieval
// order separated by blank lines, the originating source URLs, and the
// question.
func BuildPrompt(question string, chunks []*apiguard.Chunk) string {
	var sb strings.Builder

	sb.WriteString("Context from documentation:\n\n")
	for i, chunk := range chunks {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(chunk.Text)
	}

	sb.WriteString("\n\nSources:\n")
	for _, chunk := range chunks {
		fmt.Fprintf(&sb, "- %s\n", chunk.Source)
	}

	fmt.Fprintf(&sb, "\nQuestion: %s", question)
	return sb.String()
}
