package biz

import (
	"context"
	"strings"

	"github.com/kart-io/logger"

	"github.com/WaliBandawu/Clinical-Notes-Assistant/internal/assistant/store"
	"github.com/WaliBandawu/Clinical-Notes-Assistant/pkg/llm"
	"github.com/WaliBandawu/Clinical-Notes-Assistant/pkg/utils/errors"
)

// NoRelevantContentAnswer is returned when retrieval finds nothing
// above the similarity threshold.
const NoRelevantContentAnswer = "I couldn't find any relevant content in the clinical notes to answer your question."

// Answer is the result of the retrieval-augmented chain.
type Answer struct {
	Answer   string                `json:"answer"`
	Question string                `json:"question"`
	Sources  []*store.SearchResult `json:"sources"`
}

// Generator turns retrieved chunks into an answer via the chat provider.
type Generator struct {
	chatProvider llm.ChatProvider
	systemPrompt string
}

// NewGenerator creates a Generator with the given prompt template. The
// template may reference {{context}} and {{question}}.
func NewGenerator(chatProvider llm.ChatProvider, systemPrompt string) *Generator {
	return &Generator{
		chatProvider: chatProvider,
		systemPrompt: systemPrompt,
	}
}

// Generate produces an answer for question grounded on results. Empty
// results yield the fixed no-content answer without an LLM call.
func (g *Generator) Generate(ctx context.Context, question string, results []*store.SearchResult) (*Answer, error) {
	if len(results) == 0 {
		return &Answer{
			Answer:   NoRelevantContentAnswer,
			Question: question,
			Sources:  []*store.SearchResult{},
		}, nil
	}

	contents := make([]string, len(results))
	for i, result := range results {
		contents[i] = result.Content
	}
	contextText := strings.Join(contents, "\n\n")

	prompt := strings.ReplaceAll(g.systemPrompt, "{{context}}", contextText)
	prompt = strings.ReplaceAll(prompt, "{{question}}", question)

	logger.Debugw("generating answer", "question_length", len(question), "sources", len(results))
	answer, err := g.chatProvider.Generate(ctx, prompt, "")
	if err != nil {
		return nil, errors.ErrGeneration.WithCause(err)
	}

	return &Answer{
		Answer:   answer,
		Question: question,
		Sources:  results,
	}, nil
}
