package main

import (
	"fmt"

	"github.com/apiguard/apiguard"
)

// Run executes the ask command.
func (c *AskCmd) Run(deps *Dependencies) error {
	answer, err := deps.Answerer.AnswerQuestion(deps.Ctx, c.Question, c.TopK)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", apiguard.ErrorMessage(err))
		return err
	}

	printAnswer(deps, answer)
	return nil
}

// printAnswer writes an answer with its sources and confidence score.
// Duplicate sources are collapsed for display.
func printAnswer(deps *Dependencies, answer *apiguard.Answer) {
	fmt.Fprintln(deps.Stdout, answer.Text)

	if len(answer.Sources) > 0 {
		fmt.Fprintln(deps.Stdout, "\nSources:")
		seen := make(map[string]bool)
		for _, src := range answer.Sources {
			if seen[src] {
				continue
			}
			seen[src] = true
			fmt.Fprintf(deps.Stdout, "  - %s\n", src)
		}
	}

	fmt.Fprintf(deps.Stdout, "Confidence: %.2f\n", answer.Confidence)
}
