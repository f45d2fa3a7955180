package services

import (
	"testing"

	"github.com/shashiranjanraj/stockledger/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractFirstJSONObject(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{
			name: "bare object",
			in:   `{"a": 1}`,
			want: `{"a": 1}`,
			ok:   true,
		},
		{
			name: "object inside prose and code fence",
			in:   "Sure!\n```json\n{\"recommendedQuantity\": 42, \"urgency\": \"low\"}\n```\nHope that helps.",
			want: `{"recommendedQuantity": 42, "urgency": "low"}`,
			ok:   true,
		},
		{
			name: "nested object",
			in:   `prefix {"outer": {"inner": 1}} suffix`,
			want: `{"outer": {"inner": 1}}`,
			ok:   true,
		},
		{
			name: "braces inside string values",
			in:   `{"reasoning": "use {braces} and \"quotes\" freely", "n": 2}`,
			want: `{"reasoning": "use {braces} and \"quotes\" freely", "n": 2}`,
			ok:   true,
		},
		{
			name: "no object at all",
			in:   "order more stock soon",
			ok:   false,
		},
		{
			name: "unbalanced braces",
			in:   `{"a": 1`,
			ok:   false,
		},
		{
			name: "balanced but invalid json",
			in:   `{not json}`,
			ok:   false,
		},
		{
			name: "empty input",
			in:   "",
			ok:   false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := extractFirstJSONObject(tc.in)
			require.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.want, string(got))
			}
		})
	}
}

func TestFallbackSuggestionMath(t *testing.T) {
	// Threshold dominates when velocity is slow.
	s := fallbackSuggestion(productWith(100, 10), 3)
	assert.Equal(t, 20, s.RecommendedQuantity)
	assert.Equal(t, UrgencyLow, s.Urgency)

	// Velocity dominates when it exceeds the threshold term.
	s = fallbackSuggestion(productWith(100, 10), 15)
	assert.Equal(t, 30, s.RecommendedQuantity)

	// Low stock flips urgency to high.
	s = fallbackSuggestion(productWith(5, 10), 1)
	assert.Equal(t, UrgencyHigh, s.Urgency)
}

func productWith(stock, threshold int) models.Product {
	return models.Product{Stock: stock, LowStockThreshold: threshold}
}
