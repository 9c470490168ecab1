package nslsolver

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	initialBackoff        = 1000 * time.Millisecond
	backoffMultiplier     = 2.0
	maxErrorMessageLength = 200
)

// executeWithRetry sends the request and retries 429 and 503 responses with
// exponential backoff, at most MaxRetries times.
func (c *Client) executeWithRetry(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	log := c.logger.With().
		Str("call_id", uuid.NewString()).
		Str("method", method).
		Str("path", path).
		Logger()

	backoff := c.initialBackoff
	for attempt := 0; ; attempt++ {
		respBody, err := c.execute(ctx, method, path, body)
		if err == nil {
			log.Debug().Int("attempt", attempt+1).Msg("request succeeded")
			return respBody, nil
		}

		if !IsRetryable(err) || attempt >= c.cfg.MaxRetries {
			log.Debug().Err(err).Int("attempt", attempt+1).Msg("request failed")
			return nil, err
		}

		log.Warn().
			Err(err).
			Int("attempt", attempt+1).
			Dur("backoff", backoff).
			Msg("retrying request")

		if err := c.sleep(ctx, backoff); err != nil {
			return nil, newInterruptedError("request interrupted during retry backoff", err)
		}
		backoff = time.Duration(float64(backoff) * c.backoffMultiplier)
	}
}

// execute performs a single attempt.
func (c *Client) execute(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, newInterruptedError("request interrupted waiting for rate limiter", err)
		}
	}

	req := c.api.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, newInterruptedError("request interrupted", ctxErr)
		}
		return nil, newNetworkError("network error", err)
	}

	status := resp.StatusCode()
	if status >= 200 && status < 300 {
		return resp.Body(), nil
	}

	return nil, NewAPIError(status, parseErrorMessage(resp.Body(), status))
}

// parseErrorMessage extracts the "error" or "message" field of a JSON error
// body, falling back to the raw body.
func parseErrorMessage(body []byte, statusCode int) string {
	if len(body) == 0 {
		return fmt.Sprintf("HTTP %d", statusCode)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err == nil {
		for _, key := range []string{"error", "message"} {
			raw, ok := fields[key]
			if !ok {
				continue
			}
			if msg, ok := scalarString(raw); ok {
				return msg
			}
			break
		}
	}

	return truncate(string(body), maxErrorMessageLength)
}

// scalarString renders a raw JSON string, number or boolean as text.
func scalarString(raw json.RawMessage) (string, bool) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", false
	}
	return scalarText(v)
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
