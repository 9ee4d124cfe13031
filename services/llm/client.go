package llm

import "context"

// Client produces a completion grounded on the supplied context. The
// returned text is used verbatim by the response composer.
type Client interface {
	Complete(ctx context.Context, systemPrompt, contextText, userMessage string, temperature float64, maxTokens int) (string, error)
}

// DryRunPlaceholder is the stable answer returned when real LLM calls are
// disabled, so the pipeline stays deterministic in tests.
const DryRunPlaceholder = "This is a dry-run answer based on the hotel knowledge base. " +
	"Enable live completions to get a generated reply."

// DryRunClient satisfies Client without any network call.
type DryRunClient struct{}

func NewDryRunClient() *DryRunClient {
	return &DryRunClient{}
}

func (c *DryRunClient) Complete(_ context.Context, _, _, _ string, _ float64, _ int) (string, error) {
	return DryRunPlaceholder, nil
}
