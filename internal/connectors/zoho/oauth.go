package zoho

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"

	"stockfinder/internal/config"
)

// SheetReadScope is what the records fetch needs.
const SheetReadScope = "ZohoSheet.dataAPI.READ"

// OAuthConfig builds the oauth2 config for the Zoho accounts server at accountsURL.
func OAuthConfig(clientID, clientSecret, accountsURL string) *oauth2.Config {
	base := strings.TrimRight(accountsURL, "/")
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:   base + "/oauth/v2/auth",
			TokenURL:  base + "/oauth/v2/token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
		Scopes: []string{SheetReadScope},
	}
}

// Bootstrap runs the one-time authorization-code flow that yields the
// refresh token an operator installs as ZOHO_REFRESH_TOKEN.
type Bootstrap struct {
	oauth      *oauth2.Config
	httpClient *http.Client
}

func NewBootstrap(oauth *oauth2.Config) *Bootstrap {
	return &Bootstrap{oauth: oauth}
}

// NewBootstrapFromConfig needs only the client id and secret; the refresh
// token is what the flow produces.
func NewBootstrapFromConfig(cfg config.Config) (*Bootstrap, error) {
	if err := cfg.Require("ZOHO_CLIENT_ID", cfg.ZohoClientID); err != nil {
		return nil, err
	}
	if err := cfg.Require("ZOHO_CLIENT_SECRET", cfg.ZohoClientSecret); err != nil {
		return nil, err
	}
	timeout := time.Duration(cfg.ZohoTimeoutMs) * time.Millisecond
	return NewBootstrap(OAuthConfig(cfg.ZohoClientID, cfg.ZohoClientSecret, cfg.ZohoAccountsURL)).
		WithHTTPClient(&http.Client{Timeout: timeout}), nil
}

func (b *Bootstrap) WithHTTPClient(client *http.Client) *Bootstrap {
	b.httpClient = client
	return b
}

func (b *Bootstrap) withRedirect(redirectURI string) *oauth2.Config {
	cfg := *b.oauth
	cfg.RedirectURL = redirectURI
	return &cfg
}

// AuthCodeURL is the consent page the operator opens once.
func (b *Bootstrap) AuthCodeURL(redirectURI, state string) string {
	return b.withRedirect(redirectURI).AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent"))
}

// Exchange trades an authorization code for tokens and returns the issuer's
// payload as-is, refresh_token included.
func (b *Bootstrap) Exchange(ctx context.Context, code, redirectURI string) (map[string]any, error) {
	if strings.TrimSpace(code) == "" {
		return nil, errors.New("zoho oauth: empty authorization code")
	}
	if b.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, b.httpClient)
	}

	tok, err := b.withRedirect(redirectURI).Exchange(ctx, code)
	if err != nil {
		return nil, errors.Wrap(err, "zoho oauth code exchange failed")
	}

	data := map[string]any{
		"access_token":  tok.AccessToken,
		"refresh_token": tok.RefreshToken,
		"token_type":    tok.TokenType,
	}
	for _, key := range []string{"expires_in", "api_domain", "scope"} {
		if v := tok.Extra(key); v != nil {
			data[key] = v
		}
	}
	return data, nil
}
