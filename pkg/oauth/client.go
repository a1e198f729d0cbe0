// Package oauth talks to the external OAuth provider that vouches for user identity.
// It exchanges an authorization code for an access token and reads the remote profile;
// nothing is stored locally.
package oauth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const formContentType = "application/x-www-form-urlencoded;charset=utf-8"

const defaultPropertyKeys = `["kakao_account.profile"]`

var (
	ErrIdentityProvider = errors.New("identity provider")
	ErrEmptyProfile     = errors.New("empty profile response")
)

type Config struct {
	TokenURI     string
	ProfileURI   string
	ClientID     string
	GrantType    string
	RedirectURI  string
	PropertyKeys string
	Timeout      time.Duration
}

// CallObserver receives the outcome of every provider call ("ok" or "error").
type CallObserver func(call, outcome string, elapsed time.Duration)

type Client struct {
	cfg        Config
	httpClient *http.Client
	tracer     trace.Tracer
	observe    CallObserver
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithObserver(o CallObserver) Option {
	return func(c *Client) { c.observe = o }
}

func NewClient(cfg Config, opts ...Option) *Client {
	if cfg.PropertyKeys == "" {
		cfg.PropertyKeys = defaultPropertyKeys
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	c := &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		tracer:  otel.Tracer("github.com/nanum-market/nanum/pkg/oauth"),
		observe: func(string, string, time.Duration) {},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type AccessToken struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	Scope        string `json:"scope"`
}

type RemoteProfile struct {
	SubjectID       string
	DisplayName     string
	ProfileImageURL string
}

type profileResponse struct {
	ID           int64 `json:"id"`
	KakaoAccount struct {
		Profile struct {
			Nickname        string `json:"nickname"`
			ProfileImageURL string `json:"profile_image_url"`
		} `json:"profile"`
	} `json:"kakao_account"`
}

// Authenticate runs the whole login exchange under one deadline.
func (c *Client) Authenticate(ctx context.Context, authCode string) (*RemoteProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	token, err := c.ExchangeCodeForToken(ctx, authCode, c.cfg.GrantType, c.cfg.ClientID)
	if err != nil {
		return nil, err
	}
	return c.FetchRemoteProfile(ctx, token.AccessToken)
}

func (c *Client) ExchangeCodeForToken(ctx context.Context, authCode, grantType, clientID string) (*AccessToken, error) {
	ctx, span := c.tracer.Start(ctx, "oauth.exchange_code")
	defer span.End()
	start := time.Now()

	token, err := c.exchange(ctx, authCode, grantType, clientID)
	c.finish(span, "exchange_code", start, err)
	return token, err
}

func (c *Client) exchange(ctx context.Context, authCode, grantType, clientID string) (*AccessToken, error) {
	if strings.TrimSpace(authCode) == "" {
		return nil, fmt.Errorf("%w: authorization code is empty", ErrIdentityProvider)
	}

	form := url.Values{}
	form.Set("grant_type", grantType)
	form.Set("client_id", clientID)
	form.Set("code", authCode)
	if c.cfg.RedirectURI != "" {
		form.Set("redirect_uri", c.cfg.RedirectURI)
	}

	body, err := c.post(ctx, c.cfg.TokenURI, form, "")
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, fmt.Errorf("%w: token response has no body", ErrIdentityProvider)
	}

	var token AccessToken
	if err := json.Unmarshal(body, &token); err != nil {
		return nil, fmt.Errorf("%w: decode token response: %v", ErrIdentityProvider, err)
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("%w: token response has no access token", ErrIdentityProvider)
	}
	return &token, nil
}

func (c *Client) FetchRemoteProfile(ctx context.Context, accessToken string) (*RemoteProfile, error) {
	ctx, span := c.tracer.Start(ctx, "oauth.fetch_profile")
	defer span.End()
	start := time.Now()

	profile, err := c.fetchProfile(ctx, accessToken)
	c.finish(span, "fetch_profile", start, err)
	return profile, err
}

func (c *Client) fetchProfile(ctx context.Context, accessToken string) (*RemoteProfile, error) {
	form := url.Values{}
	form.Set("property_keys", c.cfg.PropertyKeys)

	body, err := c.post(ctx, c.cfg.ProfileURI, form, accessToken)
	if err != nil {
		return nil, err
	}
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, fmt.Errorf("%w: %w", ErrIdentityProvider, ErrEmptyProfile)
	}

	var resp profileResponse
	if err := json.Unmarshal(trimmed, &resp); err != nil {
		return nil, fmt.Errorf("%w: decode profile response: %v", ErrIdentityProvider, err)
	}
	if resp.ID == 0 {
		return nil, fmt.Errorf("%w: profile has no subject id", ErrIdentityProvider)
	}

	return &RemoteProfile{
		SubjectID:       strconv.FormatInt(resp.ID, 10),
		DisplayName:     resp.KakaoAccount.Profile.Nickname,
		ProfileImageURL: resp.KakaoAccount.Profile.ProfileImageURL,
	}, nil
}

func (c *Client) post(ctx context.Context, endpoint string, form url.Values, bearer string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", ErrIdentityProvider, err)
	}
	req.Header.Set("Content-Type", formContentType)
	req.Header.Set("Accept", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: do request: %v", ErrIdentityProvider, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrIdentityProvider, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s responded with status %d", ErrIdentityProvider, endpoint, resp.StatusCode)
	}
	return body, nil
}

func (c *Client) finish(span trace.Span, call string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.SetAttributes(attribute.String("oauth.outcome", outcome))
	c.observe(call, outcome, time.Since(start))
}
