package sheets

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"spectux-billing/internal/domain"
	"spectux-billing/internal/domain/ports/adapter"
)

// Compile-time check
var _ adapter.SheetAppender = (*Appender)(nil)

const (
	defaultTokenURL = "https://oauth2.googleapis.com/token"
	defaultAPIBase  = "https://sheets.googleapis.com/v4"
	sheetsScope     = "https://www.googleapis.com/auth/spreadsheets"
)

// Appender appends rows to a Google spreadsheet using a service account.
// Access tokens are minted from a signed RS256 assertion and cached until
// shortly before expiry.
type Appender struct {
	serviceEmail string
	key          *rsa.PrivateKey
	sheetID      string
	appendRange  string
	tokenURL     string
	apiBase      string
	client       *http.Client

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewAppender creates the Sheets adapter. tokenURL and apiBase are
// overridable for tests; empty means the live Google endpoints.
func NewAppender(serviceEmail, privateKeyPEM, sheetID, appendRange, tokenURL, apiBase string) (*Appender, error) {
	if serviceEmail == "" || sheetID == "" {
		return nil, fmt.Errorf("%w: sheets service email and sheet id are required", domain.ErrInvalidArgument)
	}
	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(privateKeyPEM))
	if err != nil {
		return nil, fmt.Errorf("parse sheets private key: %w", err)
	}
	if appendRange == "" {
		appendRange = "Sheet1!A:Z"
	}
	if tokenURL == "" {
		tokenURL = defaultTokenURL
	}
	if apiBase == "" {
		apiBase = defaultAPIBase
	}
	return &Appender{
		serviceEmail: serviceEmail,
		key:          key,
		sheetID:      sheetID,
		appendRange:  appendRange,
		tokenURL:     tokenURL,
		apiBase:      apiBase,
		client:       &http.Client{Timeout: 15 * time.Second},
	}, nil
}

func (a *Appender) AppendRow(ctx context.Context, row []string) error {
	token, err := a.accessTokenLocked(ctx)
	if err != nil {
		return err
	}

	values := make([]any, len(row))
	for i, v := range row {
		values[i] = v
	}
	body, err := json.Marshal(map[string]any{"values": []any{values}})
	if err != nil {
		return fmt.Errorf("marshal append payload: %w", err)
	}

	endpoint := fmt.Sprintf("%s/spreadsheets/%s/values/%s:append?valueInputOption=RAW",
		a.apiBase, a.sheetID, url.PathEscape(a.appendRange))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(string(body)))
	if err != nil {
		return fmt.Errorf("build append request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: sheets append: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: sheets append: status %d: %s", domain.ErrUpstream, resp.StatusCode, string(raw))
	}
	return nil
}

// accessTokenLocked returns a cached token or mints a new one. The assertion
// is valid for an hour; refresh a minute early to avoid using a token that
// expires mid-request.
func (a *Appender) accessTokenLocked(ctx context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.accessToken != "" && time.Now().Before(a.tokenExpiry.Add(-time.Minute)) {
		return a.accessToken, nil
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"iss":   a.serviceEmail,
		"scope": sheetsScope,
		"aud":   a.tokenURL,
		"iat":   now.Unix(),
		"exp":   now.Add(time.Hour).Unix(),
	}
	assertion, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(a.key)
	if err != nil {
		return "", fmt.Errorf("sign token assertion: %w", err)
	}

	form := url.Values{
		"grant_type": {"urn:ietf:params:oauth:grant-type:jwt-bearer"},
		"assertion":  {assertion},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: token exchange: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read token response: %v", domain.ErrUpstream, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: token exchange: status %d: %s", domain.ErrUpstream, resp.StatusCode, string(raw))
	}

	var out struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("%w: unmarshal token response: %v", domain.ErrUpstream, err)
	}
	if out.AccessToken == "" {
		return "", fmt.Errorf("%w: token response carries no access token", domain.ErrUpstream)
	}

	a.accessToken = out.AccessToken
	a.tokenExpiry = now.Add(time.Duration(out.ExpiresIn) * time.Second)
	return a.accessToken, nil
}
