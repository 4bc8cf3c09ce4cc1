package sciener

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"
)

// DefaultBaseURL is the EU region of the Sciener / TTLock open platform.
const DefaultBaseURL = "https://euapi.sciener.com"

const (
	addPasscodePath    = "/v3/keyboardPwd/add"
	deletePasscodePath = "/v3/keyboardPwd/delete"
	unlockPath         = "/v3/lock/unlock"

	// addTypeViaGateway and deleteTypeViaGateway push the change to the lock
	// through its gateway instead of requiring a bluetooth session.
	addTypeViaGateway    = 2
	deleteTypeViaGateway = 2

	maxBodyBytes = 1 << 20
)

// DecodeError means the vendor answered with something that is not JSON.
type DecodeError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("sciener: undecodable response (HTTP %d): %v", e.StatusCode, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Client talks to the Sciener lock cloud. It never retries: the vendor
// signals rejections through errcode and callers decide what to do.
type Client struct {
	BaseURL    *url.URL
	HTTPClient *http.Client
	// Now stamps the mandatory "date" field; overridable in tests.
	Now func() time.Time
}

// NewClient builds a client for baseURL (DefaultBaseURL when empty).
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid sciener base URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid sciener base URL %q", baseURL)
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		BaseURL:    parsed,
		HTTPClient: &http.Client{Timeout: timeout},
		Now:        time.Now,
	}, nil
}

// postForm sends fields as application/x-www-form-urlencoded and decodes the
// JSON answer into out whatever the HTTP status. Only transport failures and
// undecodable bodies are returned as errors.
func (c *Client) postForm(ctx context.Context, reqPath string, fields url.Values, out any) error {
	u := *c.BaseURL
	u.Path = path.Join(c.BaseURL.Path, reqPath)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), strings.NewReader(fields.Encode()))
	if err != nil {
		return fmt.Errorf("sciener: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-store")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("sciener: %s: %w", reqPath, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("sciener: read %s response: %w", reqPath, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &DecodeError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body)), Err: err}
	}
	return nil
}

func (c *Client) nowMillis() string {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	return strconv.FormatInt(now().UnixMilli(), 10)
}

// setCredentials writes the identifying fields every lock call carries.
// Empty values are sent as empty fields.
func setCredentials(v url.Values, creds LockCredentials) {
	v.Set("clientId", creds.ClientID)
	v.Set("accessToken", creds.AccessToken)
	v.Set("lockId", creds.LockID)
}
