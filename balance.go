package nslsolver

import (
	"context"
	"fmt"
	"net/http"
)

// BalanceResult is the account balance, thread limit and enabled captcha types.
// AllowedTypes is never nil.
type BalanceResult struct {
	Balance      float64  `json:"balance"`
	MaxThreads   int      `json:"max_threads"`
	AllowedTypes []string `json:"allowed_types"`
}

func (r BalanceResult) String() string {
	return fmt.Sprintf("BalanceResult{balance=%g, maxThreads=%d, allowedTypes=%v}",
		r.Balance, r.MaxThreads, r.AllowedTypes)
}

// Allows reports whether captchaType ("turnstile", "challenge") is enabled.
func (r BalanceResult) Allows(captchaType string) bool {
	for _, t := range r.AllowedTypes {
		if t == captchaType {
			return true
		}
	}
	return false
}

// GetBalance returns the current account balance and limits.
func (c *Client) GetBalance() (*BalanceResult, error) {
	return c.GetBalanceContext(context.Background())
}

// GetBalanceContext returns the current account balance and limits with context support.
func (c *Client) GetBalanceContext(ctx context.Context) (*BalanceResult, error) {
	respBody, err := c.executeWithRetry(ctx, http.MethodGet, "/balance", nil)
	if err != nil {
		return nil, err
	}

	fields, err := decodeFields(respBody)
	if err != nil {
		return nil, err
	}
	return &BalanceResult{
		Balance:      fields.Float("balance"),
		MaxThreads:   fields.Int("max_threads"),
		AllowedTypes: fields.Strings("allowed_types"),
	}, nil
}
