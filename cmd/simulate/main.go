package main

import (
	"context"
	"fmt"
	"strings"

	"edu-chatbot-be/pkg/dialog"

	"github.com/fatih/color"
)

// Offline walkthrough of the prerequisite dialog flow with scripted
// collaborators, useful for eyeballing turn transitions without a database
// or an LLM key.

type scriptedAnswerer struct{}

func (scriptedAnswerer) Answer(ctx context.Context, query string) (*dialog.Answer, error) {
	return &dialog.Answer{
		Text: fmt.Sprintf("According to the document, %s is covered in section 3.", strings.TrimSuffix(query, "?")),
		Fragments: []dialog.Fragment{
			{Text: "A derivative measures the instantaneous rate of change of a function.", Page: 12},
			{Text: "The limit definition formalizes this as h approaches zero.", Page: 13},
		},
	}, nil
}

type scriptedKnowledge struct{}

func (scriptedKnowledge) DetectPrerequisite(ctx context.Context, query string) (string, error) {
	if strings.Contains(strings.ToLower(query), "derivative") {
		return "limits", nil
	}
	return "", nil
}

func (scriptedKnowledge) Explain(ctx context.Context, topic string) string {
	return fmt.Sprintf("A quick primer on %s: it is the foundation the next answer builds on.", topic)
}

func main() {
	userC := color.New(color.FgCyan, color.Bold)
	botC := color.New(color.FgGreen)
	stateC := color.New(color.FgYellow)

	ctrl := dialog.NewController(scriptedAnswerer{}, scriptedKnowledge{})
	ctx := context.Background()

	script := []string{
		"What is a derivative?",
		"yes",
		"Show me the exact text about limits",
	}

	fmt.Println("=== Dialog Walkthrough ===")
	for _, utterance := range script {
		userC.Printf("\nUSER: %s\n", utterance)

		messages, err := ctrl.HandleUtterance(ctx, utterance)
		if err != nil {
			color.Red("error: %v", err)
			continue
		}

		for _, m := range messages {
			if m.Role != dialog.RoleAssistant {
				continue
			}
			botC.Printf("BOT:  %s\n", m.Content)
			for _, f := range m.Fragments {
				fmt.Printf("      [p.%d] %s\n", f.Page, f.Text)
			}
		}
		stateC.Printf("state: %s\n", ctrl.State())
	}
}
