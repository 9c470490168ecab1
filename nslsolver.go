// Package nslsolver is a client for the NSLSolver captcha solving API.
// It solves Cloudflare Turnstile widgets and Cloudflare Challenge pages and
// reports the account balance.
//
// Basic usage:
//
//	client, err := nslsolver.New("your-api-key")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	res, err := client.SolveTurnstile(nslsolver.TurnstileParams{
//	    SiteKey: "0x4AAAAAAA...",
//	    URL:     "https://example.com/login",
//	})
//
// With options:
//
//	client, err := nslsolver.New(apiKey,
//	    nslsolver.WithBaseURL("https://api.nslsolver.com"),
//	    nslsolver.WithTimeout(60*time.Second),
//	    nslsolver.WithMaxRetries(5),
//	)
//
// Requests rejected with HTTP 429 or 503 are retried with exponential backoff.
// Every other failure is returned as an *Error carrying the HTTP status code,
// or 0 when no response was received.
package nslsolver

// Version is the current version of the SDK.
const Version = "1.0.0"

// DefaultBaseURL is the NSLSolver API endpoint used when no base URL is configured.
const DefaultBaseURL = "https://api.nslsolver.com"

const userAgent = "nslsolver-go/" + Version
