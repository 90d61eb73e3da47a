package middleware

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/aretw0/stylist/pkg/domain"
	"github.com/aretw0/stylist/pkg/ports"
)

// Mask replaces every redacted fragment.
const Mask = "***"

type piiMiddleware struct {
	next     ports.KVStore
	suffix   string
	patterns []*regexp.Regexp
}

// NewPIIMiddleware creates a middleware that masks message content matching the patterns
// before the conversation log is written. Only keys ending in logSuffix are inspected;
// every other slot passes through untouched. The live session keeps the clear text.
func NewPIIMiddleware(logSuffix string, patternStrings []string) Middleware {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return func(next ports.KVStore) ports.KVStore {
		return &piiMiddleware{next: next, suffix: logSuffix, patterns: patterns}
	}
}

func (m *piiMiddleware) Set(ctx context.Context, key string, value []byte) error {
	if !strings.HasSuffix(key, m.suffix) || len(m.patterns) == 0 {
		return m.next.Set(ctx, key, value)
	}

	var messages []domain.Message
	if err := json.Unmarshal(value, &messages); err != nil {
		// Not a log document, nothing we know how to mask.
		return m.next.Set(ctx, key, value)
	}

	for i := range messages {
		messages[i].Content = maskText(messages[i].Content, m.patterns)
	}

	masked, err := json.Marshal(messages)
	if err != nil {
		return err
	}
	return m.next.Set(ctx, key, masked)
}

func (m *piiMiddleware) Get(ctx context.Context, key string) ([]byte, error) {
	return m.next.Get(ctx, key)
}

func (m *piiMiddleware) Delete(ctx context.Context, key string) error {
	return m.next.Delete(ctx, key)
}

func (m *piiMiddleware) List(ctx context.Context, prefix string) ([]string, error) {
	return m.next.List(ctx, prefix)
}

func maskText(s string, patterns []*regexp.Regexp) string {
	for _, p := range patterns {
		s = p.ReplaceAllString(s, Mask)
	}
	return s
}
