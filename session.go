package nslsolver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Noooste/azuretls-client"
	tls "github.com/Noooste/utls"
	"github.com/cloudflyer-project/masktunnel"
	"github.com/rs/zerolog"
)

const defaultSessionUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/133.0.0.0 Safari/537.36"

// ClearanceSession sends requests to a Cloudflare-protected site using the
// cookies and user agent of a solved challenge. The TLS and HTTP/2
// fingerprints follow the browser named in the user agent.
type ClearanceSession struct {
	cookies   map[string]string
	userAgent string
	proxy     string
	timeout   time.Duration
	logger    zerolog.Logger

	mu      sync.RWMutex
	session *azuretls.Session
}

// SessionOption configures a ClearanceSession.
type SessionOption func(*ClearanceSession)

// WithSessionTimeout sets the timeout of each request sent by the session.
func WithSessionTimeout(timeout time.Duration) SessionOption {
	return func(s *ClearanceSession) {
		s.timeout = timeout
	}
}

// WithSessionLogger sets the session logger.
func WithSessionLogger(logger zerolog.Logger) SessionOption {
	return func(s *ClearanceSession) {
		s.logger = logger
	}
}

// NewClearanceSession creates a session from a solved challenge. proxy must be
// the proxy the challenge was solved through, since cf_clearance is bound to
// the egress IP.
func NewClearanceSession(result *ChallengeResult, proxy string, opts ...SessionOption) (*ClearanceSession, error) {
	if result == nil {
		return nil, &ValidationError{Errors: []FieldError{{Field: "result", Message: "is required"}}}
	}

	s := &ClearanceSession{
		cookies:   make(map[string]string, len(result.Cookies)),
		userAgent: result.UserAgent,
		proxy:     strings.TrimSpace(proxy),
		timeout:   30 * time.Second,
		logger:    zerolog.Nop(),
	}
	for k, v := range result.Cookies {
		s.cookies[k] = v
	}
	if s.userAgent == "" {
		s.userAgent = defaultSessionUserAgent
	}

	for _, opt := range opts {
		opt(s)
	}

	session, err := s.createSession()
	if err != nil {
		return nil, err
	}
	s.session = session
	return s, nil
}

func (s *ClearanceSession) createSession() (*azuretls.Session, error) {
	fp, err := masktunnel.GetBrowserFingerprint(s.userAgent)
	if err != nil {
		s.logger.Warn().Err(err).Msg("unrecognized user agent, using Chrome fingerprint")
		fp = &masktunnel.BrowserFingerprint{
			Browser:          "Chrome",
			HTTP2Fingerprint: "1:65536,2:0,4:6291456,6:262144|15663105|0|m,a,s,p",
			TLSProfile:       "133",
		}
	}

	session := azuretls.NewSession()
	session.UserAgent = s.userAgent
	family := applyBrowser(session, fp.Browser)
	if family != fp.Browser {
		s.logger.Debug().Str("browser", fp.Browser).Msg("no TLS profile for browser, using Chrome")
	}
	s.logger.Debug().
		Str("browser", family).
		Str("tls_profile", fp.TLSProfile).
		Bool("proxied", s.proxy != "").
		Msg("creating clearance session")

	if err := session.ApplyHTTP2(fp.HTTP2Fingerprint); err != nil {
		session.Close()
		return nil, newNetworkError("failed to configure HTTP/2 fingerprint", err)
	}
	if s.proxy != "" {
		if err := session.SetProxy(s.proxy); err != nil {
			session.Close()
			return nil, newNetworkError("failed to set proxy", err)
		}
	}
	return session, nil
}

type browserProfile struct {
	browser string
	hello   func() *tls.ClientHelloSpec
}

// browserProfiles maps a browser family to its azuretls profile. Edge is
// Chromium and shares the Chrome ClientHello.
var browserProfiles = map[string]browserProfile{
	"Chrome":  {azuretls.Chrome, azuretls.GetLastChromeVersion},
	"Edge":    {azuretls.Edge, azuretls.GetLastChromeVersion},
	"Firefox": {azuretls.Firefox, azuretls.GetLastFirefoxVersion},
	"Safari":  {azuretls.Safari, azuretls.GetLastSafariVersion},
	"iOS":     {azuretls.Ios, azuretls.GetLastIosVersion},
}

// applyBrowser selects the TLS ClientHello for the browser family and
// returns the family applied, "Chrome" for unknown families.
func applyBrowser(session *azuretls.Session, browser string) string {
	profile, ok := browserProfiles[browser]
	if !ok {
		browser = "Chrome"
		profile = browserProfiles[browser]
	}
	session.Browser = profile.browser
	session.GetClientHelloSpec = profile.hello
	return browser
}

// UserAgent returns the user agent sent with every request.
func (s *ClearanceSession) UserAgent() string { return s.userAgent }

// Get sends a GET request.
func (s *ClearanceSession) Get(ctx context.Context, targetURL string, headers map[string]string) (*http.Response, error) {
	return s.Do(ctx, http.MethodGet, targetURL, nil, headers)
}

// Do sends a request carrying the clearance cookies. Cancelling ctx aborts
// the request. Close waits for in-flight requests to finish.
func (s *ClearanceSession) Do(ctx context.Context, method, targetURL string, body []byte, headers map[string]string) (*http.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, newInterruptedError("request interrupted", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return nil, newNetworkError("session closed", errors.New("use of closed clearance session"))
	}

	req := &azuretls.Request{
		Method:         method,
		Url:            targetURL,
		OrderedHeaders: s.orderedHeaders(headers),
		TimeOut:        s.timeout,
	}
	if body != nil {
		req.Body = bytes.NewReader(body)
	}
	req.SetContext(ctx)

	resp, err := s.session.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, newInterruptedError("request interrupted", ctxErr)
		}
		return nil, newNetworkError(fmt.Sprintf("%s %s failed", method, targetURL), err)
	}
	return convertResponse(resp), nil
}

// orderedHeaders puts the Cookie header first, followed by caller headers
// in lexical order.
func (s *ClearanceSession) orderedHeaders(headers map[string]string) azuretls.OrderedHeaders {
	ordered := azuretls.OrderedHeaders{}
	if cookie := cookieHeader(s.cookies); cookie != "" {
		ordered = append(ordered, []string{"Cookie", cookie})
	}

	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		ordered = append(ordered, []string{k, headers[k]})
	}
	return ordered
}

func cookieHeader(cookies map[string]string) string {
	names := make([]string, 0, len(cookies))
	for name := range cookies {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+"="+cookies[name])
	}
	return strings.Join(parts, "; ")
}

// convertResponse exposes an azuretls response as a net/http response with
// the body already buffered.
func convertResponse(resp *azuretls.Response) *http.Response {
	header := make(http.Header, len(resp.Header))
	for name, values := range resp.Header {
		header[name] = append([]string(nil), values...)
	}

	proto, major, minor := "HTTP/1.1", 1, 1
	if hr := resp.HttpResponse; hr != nil && hr.ProtoMajor != 0 {
		proto, major, minor = hr.Proto, hr.ProtoMajor, hr.ProtoMinor
	}

	return &http.Response{
		Status:        resp.Status,
		StatusCode:    resp.StatusCode,
		Proto:         proto,
		ProtoMajor:    major,
		ProtoMinor:    minor,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(resp.Body)),
		ContentLength: int64(len(resp.Body)),
	}
}

// Close releases the session once in-flight requests have finished. It is
// safe to call more than once.
func (s *ClearanceSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session != nil {
		s.session.Close()
		s.session = nil
	}
	return nil
}
