package llm

import (
	"context"
	"errors"
	"math/rand"
	"time"
)

// RetryOpts bounds the retry loop around an inference call.
type RetryOpts struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxJitter      time.Duration
}

// DefaultRetryOpts matches the inference provider's published rate-limit
// guidance: 5 attempts, 10s * 2^attempt plus up to one second of jitter.
var DefaultRetryOpts = RetryOpts{
	MaxAttempts:    5,
	InitialBackoff: 10 * time.Second,
	MaxJitter:      time.Second,
}

// ExtractWithRetry calls the provider, retrying only on rate-limit errors
// with exponential backoff. Any other error aborts immediately: a malformed
// response or provider fault will not get better by asking again. Exhausted
// retries return the last rate-limit error.
func ExtractWithRetry(ctx context.Context, client Extractor, text string, opts RetryOpts) (*PlaceInfo, error) {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultRetryOpts.MaxAttempts
	}

	var lastErr error
	for attempt := 0; attempt < opts.MaxAttempts; attempt++ {
		info, err := client.Extract(ctx, text)
		if err == nil {
			return info, nil
		}
		if !errors.Is(err, ErrRateLimited) {
			return nil, err
		}
		lastErr = err

		if attempt == opts.MaxAttempts-1 {
			break
		}

		wait := opts.InitialBackoff << attempt
		if opts.MaxJitter > 0 {
			wait += time.Duration(rand.Float64() * float64(opts.MaxJitter))
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}

	return nil, lastErr
}
