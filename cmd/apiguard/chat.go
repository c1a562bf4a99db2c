package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/apiguard/apiguard"
)

// Run executes the chat command: a read-eval-print loop over stdin.
// Failed questions do not end the session.
func (c *ChatCmd) Run(deps *Dependencies) error {
	fmt.Fprintln(deps.Stdout, "apiguard chat. Type 'history' to review the session, 'exit' to quit.")

	var history []apiguard.Exchange

	scanner := bufio.NewScanner(deps.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		fmt.Fprint(deps.Stdout, "> ")
		if !scanner.Scan() {
			break
		}
		question := strings.TrimSpace(scanner.Text())

		switch question {
		case "":
			continue
		case "exit", "quit":
			return scanner.Err()
		case "history":
			if len(history) == 0 {
				fmt.Fprintln(deps.Stdout, "No questions asked yet.")
				continue
			}
			for i, ex := range history {
				fmt.Fprintf(deps.Stdout, "%d. %s\n   %s\n", i+1, ex.Question, firstLine(ex.Answer.Text))
			}
			continue
		}

		answer, err := deps.Answerer.AnswerQuestion(deps.Ctx, question, c.TopK)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", apiguard.ErrorMessage(err))
			continue
		}

		printAnswer(deps, answer)
		history = append(history, apiguard.Exchange{Question: question, Answer: answer})
	}

	return scanner.Err()
}

// firstLine truncates multi-line answers for the history listing.
func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx != -1 {
		return s[:idx]
	}
	return s
}
