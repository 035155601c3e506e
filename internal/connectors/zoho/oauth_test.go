package zoho

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func TestBootstrapAuthCodeURL(t *testing.T) {
	b := NewBootstrap(OAuthConfig("id", "secret", "https://accounts.zoho.com/"))
	raw := b.AuthCodeURL("http://localhost:8080/api/zoho/callback", "state-1")

	u, err := url.Parse(raw)
	if err != nil {
		t.Fatal(err)
	}
	if u.Host != "accounts.zoho.com" || u.Path != "/oauth/v2/auth" {
		t.Fatalf("url=%s", raw)
	}
	q := u.Query()
	if q.Get("scope") != SheetReadScope || q.Get("access_type") != "offline" || q.Get("prompt") != "consent" {
		t.Fatalf("query=%v", q)
	}
	if q.Get("redirect_uri") != "http://localhost:8080/api/zoho/callback" || q.Get("client_id") != "id" {
		t.Fatalf("query=%v", q)
	}
}

func TestBootstrapExchange(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if r.Form.Get("grant_type") != "authorization_code" || r.Form.Get("code") != "code-1" {
			t.Errorf("form=%v", r.Form)
		}
		if r.Form.Get("redirect_uri") != "http://localhost/cb" {
			t.Errorf("redirect_uri=%q", r.Form.Get("redirect_uri"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"a1","refresh_token":"r1","expires_in":3600,"api_domain":"https://www.zohoapis.com","token_type":"Bearer"}`))
	}))
	defer srv.Close()

	b := NewBootstrap(OAuthConfig("id", "secret", srv.URL)).WithHTTPClient(srv.Client())
	data, err := b.Exchange(context.Background(), "code-1", "http://localhost/cb")
	if err != nil {
		t.Fatal(err)
	}
	if data["refresh_token"] != "r1" || data["access_token"] != "a1" {
		t.Fatalf("data=%v", data)
	}
	if data["api_domain"] != "https://www.zohoapis.com" {
		t.Fatalf("api_domain=%v", data["api_domain"])
	}
}

func TestBootstrapExchangeRequiresCode(t *testing.T) {
	b := NewBootstrap(OAuthConfig("id", "secret", "https://accounts.zoho.com"))
	if _, err := b.Exchange(context.Background(), " ", "http://localhost/cb"); err == nil {
		t.Fatal("expected error")
	}
}

func TestNewBootstrapFromConfigNeedsClientSecrets(t *testing.T) {
	if _, err := NewBootstrapFromConfig(testConfig("id", "", "")); err == nil {
		t.Fatal("expected missing secret error")
	}
	if _, err := NewBootstrapFromConfig(testConfig("id", "secret", "")); err != nil {
		t.Fatalf("refresh token is not needed to bootstrap: %v", err)
	}
}
