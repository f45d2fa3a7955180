// Package advisory wraps the external text-generation service consulted
// for reorder recommendations. The service is untrusted and best-effort:
// callers must treat every error, timeout, or unusable response as a
// signal to fall back, never as a request failure.
package advisory

import "context"

// Client is a single-shot prompt-in, text-out generation call.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
