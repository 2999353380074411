package sfdc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// assertionTTL is the lifetime of the signed assertion. Salesforce rejects
// assertions valid for more than a few minutes.
const assertionTTL = 3 * time.Minute

// JWTConfig holds the pieces of the OAuth JWT bearer flow for a
// connected app.
type JWTConfig struct {
	// ClientID is the connected app consumer key (the "iss" claim).
	ClientID string
	// Username is the org user to impersonate (the "sub" claim).
	Username string
	// LoginURL is the token audience, e.g. https://login.salesforce.com.
	LoginURL string
	// PrivateKey is the PEM-encoded RSA key matching the app certificate.
	PrivateKey []byte
}

// SessionFromJWT signs a bearer assertion and exchanges it for an access
// token at {LoginURL}/services/oauth2/token.
func SessionFromJWT(ctx context.Context, cfg JWTConfig) (*Session, error) {
	if cfg.ClientID == "" || cfg.Username == "" || cfg.LoginURL == "" {
		return nil, fmt.Errorf("jwt auth requires client ID, username, and login URL")
	}

	key, err := jwt.ParseRSAPrivateKeyFromPEM(cfg.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	loginURL := strings.TrimSuffix(cfg.LoginURL, "/")
	now := time.Now()
	claims := jwt.MapClaims{
		"iss": cfg.ClientID,
		"sub": cfg.Username,
		"aud": loginURL,
		"exp": now.Add(assertionTTL).Unix(),
		"iat": now.Unix(),
	}

	assertion, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign assertion: %w", err)
	}

	form := url.Values{
		"grant_type": {"urn:ietf:params:oauth:grant-type:jwt-bearer"},
		"assertion":  {assertion},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		loginURL+"/services/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var oauthErr struct {
			Error       string `json:"error"`
			Description string `json:"error_description"`
		}
		if json.Unmarshal(body, &oauthErr) == nil && oauthErr.Error != "" {
			return nil, fmt.Errorf("token request rejected: %s (%s)", oauthErr.Error, oauthErr.Description)
		}
		return nil, fmt.Errorf("token request returned %d: %s", resp.StatusCode, snippet(body))
	}

	var token struct {
		AccessToken string `json:"access_token"`
		InstanceURL string `json:"instance_url"`
	}
	if err := json.Unmarshal(body, &token); err != nil {
		return nil, fmt.Errorf("failed to parse token response: %w", err)
	}
	if token.AccessToken == "" || token.InstanceURL == "" {
		return nil, fmt.Errorf("token response missing access_token or instance_url")
	}

	return &Session{
		InstanceURL: strings.TrimSuffix(token.InstanceURL, "/"),
		AccessToken: token.AccessToken,
		Username:    cfg.Username,
	}, nil
}
