package zoho

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"golang.org/x/oauth2"
)

const (
	// refreshMargin is how much validity a cached token must still have to be reused.
	refreshMargin   = 60 * time.Second
	defaultLifetime = time.Hour
)

type Credential struct {
	AccessToken string
	APIDomain   string
	ExpiresAt   time.Time
}

// TokenError reports a refresh the issuer rejected or answered without a token.
type TokenError struct {
	Err error
}

func (e *TokenError) Error() string { return "zoho token refresh failed: " + e.Err.Error() }
func (e *TokenError) Unwrap() error { return e.Err }

// CredentialProvider caches the access token obtained from a refresh token.
// Concurrent callers may refresh at the same time; the last one installed wins.
type CredentialProvider struct {
	oauth        *oauth2.Config
	refreshToken string
	apiDomain    string
	httpClient   *http.Client
	now          func() time.Time

	mu     sync.Mutex
	cached *Credential
}

func NewCredentialProvider(oauth *oauth2.Config, refreshToken, apiDomain string) *CredentialProvider {
	return &CredentialProvider{
		oauth:        oauth,
		refreshToken: refreshToken,
		apiDomain:    strings.TrimRight(apiDomain, "/"),
		now:          time.Now,
	}
}

// WithHTTPClient makes token exchanges go through client.
func (p *CredentialProvider) WithHTTPClient(client *http.Client) *CredentialProvider {
	p.httpClient = client
	return p
}

// Current returns the cached credential while more than a minute of validity remains.
func (p *CredentialProvider) Current() (Credential, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cached == nil || p.cached.AccessToken == "" {
		return Credential{}, false
	}
	if p.cached.ExpiresAt.Sub(p.now()) <= refreshMargin {
		return Credential{}, false
	}
	return *p.cached, true
}

// Refresh exchanges the refresh token for a new access token and caches it.
func (p *CredentialProvider) Refresh(ctx context.Context) (Credential, error) {
	started := p.now()
	if p.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	}

	tok, err := p.oauth.TokenSource(ctx, &oauth2.Token{RefreshToken: p.refreshToken}).Token()
	if err != nil {
		return Credential{}, errors.WithStack(&TokenError{Err: err})
	}
	if tok.AccessToken == "" {
		return Credential{}, errors.WithStack(&TokenError{Err: fmt.Errorf("response carried no access_token")})
	}

	lifetime := time.Duration(cast.ToInt64(tok.Extra("expires_in"))) * time.Second
	if lifetime <= 0 {
		lifetime = defaultLifetime
	}

	cred := Credential{
		AccessToken: tok.AccessToken,
		APIDomain:   p.apiDomain,
		ExpiresAt:   started.Add(lifetime),
	}

	p.mu.Lock()
	p.cached = &cred
	p.mu.Unlock()
	return cred, nil
}

// Token returns the cached credential, refreshing it first when needed.
func (p *CredentialProvider) Token(ctx context.Context) (Credential, error) {
	if cred, ok := p.Current(); ok {
		return cred, nil
	}
	return p.Refresh(ctx)
}
