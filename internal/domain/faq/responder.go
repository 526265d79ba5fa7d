package faq

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const fallbackNotice = `If you're unsure, say: "Please check the official NJ sick leave website."`

// Responder answers free-text policy questions through the Gemini API,
// grounded on an immutable policy document captured at construction time.
type Responder struct {
	client *genai.Client
	model  string
	policy string
}

// NewResponder builds the Gemini client. policy may be empty when the page
// fetch failed at startup; Answer degrades gracefully in that case.
func NewResponder(ctx context.Context, apiKey, model, policy string) (*Responder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Responder{client: client, model: model, policy: policy}, nil
}

// HasPolicy reports whether the policy document was captured at startup.
func (r *Responder) HasPolicy() bool {
	return strings.TrimSpace(r.policy) != ""
}

// Answer responds to a policy question using only the captured policy text.
// Provider failures come back as a human-readable message, never an error;
// the rest of the interface stays usable.
func (r *Responder) Answer(ctx context.Context, question string) string {
	if !r.HasPolicy() {
		return "The policy document could not be loaded. Please check the official sick leave website."
	}
	return r.generate(ctx, policyPrompt(r.policy, question))
}

// Insights answers an admin question grounded only on the loaded leave and
// rate tables, rendered as text.
func (r *Responder) Insights(ctx context.Context, question, tables string) string {
	prompt := fmt.Sprintf(
		"You are a data assistant. Answer only based on this leave data:\n\n%s\n\nQuestion: %s",
		tables, question,
	)
	return r.generate(ctx, prompt)
}

func (r *Responder) generate(ctx context.Context, prompt string) string {
	result, err := r.client.Models.GenerateContent(ctx, r.model, genai.Text(prompt), nil)
	if err != nil {
		return fmt.Sprintf("Error generating answer: %v", err)
	}
	return strings.TrimSpace(result.Text())
}

func policyPrompt(policy, question string) string {
	return fmt.Sprintf(`You are a helpful assistant answering questions about the official sick leave policy.
Use only the context provided below.

CONTEXT:
%s

QUESTION:
%s

Answer clearly and concisely. %s`, policy, question, fallbackNotice)
}
