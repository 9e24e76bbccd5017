package llm

import (
	"context"
	"sync"
	"time"
)

// scriptedClient returns canned responses in order; the last one repeats.
type scriptedClient struct {
	mu        sync.Mutex
	responses []string
	errs      []error
	calls     int
	prompts   []string
}

func (c *scriptedClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	return c.GenerateJSON(ctx, prompt, tier)
}

func (c *scriptedClient) GenerateJSON(_ context.Context, prompt string, _ ModelTier) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.calls
	c.calls++
	c.prompts = append(c.prompts, prompt)
	if i < len(c.errs) && c.errs[i] != nil {
		return "", c.errs[i]
	}
	if len(c.responses) == 0 {
		return "", nil
	}
	if i >= len(c.responses) {
		i = len(c.responses) - 1
	}
	return c.responses[i], nil
}

func (c *scriptedClient) GetModel(ModelTier) string { return "fake-model" }

func (c *scriptedClient) Close() error { return nil }

func (c *scriptedClient) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// recordSleep replaces the extractor's wait so tests do not block.
func recordSleep(delays *[]time.Duration) func(context.Context, time.Duration) error {
	return func(ctx context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return ctx.Err()
	}
}
