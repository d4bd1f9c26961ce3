package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sandevgo/reliefbot/internal/storage/sqlite"
)

const ToolSearchFAQs = "search_faqs"

const faqSearchSchema = `
{
  "type": "object",
  "properties": {
    "query": { "type": "string", "description": "Keywords from the user's question" }
  },
  "required": ["query"]
}
`

type FAQRepo interface {
	Search(ctx context.Context, query string, limit int) ([]sqlite.FAQ, error)
}

// FAQ is the only tool available in degraded mode, so it must stay cheap.
type FAQ struct {
	repo FAQRepo
}

func NewFAQ(repo FAQRepo) *FAQ {
	return &FAQ{repo: repo}
}

func (f *FAQ) SearchFAQs(ctx context.Context, args json.RawMessage) (string, error) {
	var input struct {
		Query string `json:"query"`
	}
	if err := json.Unmarshal(args, &input); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}

	faqs, err := f.repo.Search(ctx, input.Query, 3)
	if err != nil {
		return "", fmt.Errorf("faq search: %w", err)
	}
	if len(faqs) == 0 {
		return "No matching FAQ entries found.", nil
	}

	var b strings.Builder
	for i, faq := range faqs {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "Q: %s\nA: %s", faq.Question, faq.Answer)
	}
	return b.String(), nil
}

func (f *FAQ) GetDefinitions() map[string]Definition {
	return map[string]Definition{
		ToolSearchFAQs: {
			Description: "Look up frequently asked questions about available services",
			Schema:      json.RawMessage(faqSearchSchema),
			Handler:     f.SearchFAQs,
		},
	}
}
