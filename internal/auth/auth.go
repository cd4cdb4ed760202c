// Package auth is a thin client for the hosted identity provider. It keeps
// the current session in memory and a bcrypt-hashed credential record on disk
// so a login can still succeed while offline.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

var (
	// ErrEmailTaken signals the email is already registered.
	ErrEmailTaken = errors.New("that email is already registered")
	// ErrBadCredentials indicates a login failure.
	ErrBadCredentials = errors.New("invalid email or password")
	// ErrNotAuthenticated indicates no active session.
	ErrNotAuthenticated = errors.New("not signed in")
)

// Session is the authenticated identity for this device.
type Session struct {
	UID          string
	Email        string
	IDToken      string
	RefreshToken string
	ExpiresAt    time.Time
	Offline      bool // true when established from the local credential cache
}

// Client talks to the identity provider's REST endpoints.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	creds      *credCache
	log        zerolog.Logger

	mu      sync.RWMutex
	session *Session
}

// NewClient creates an identity client. credPath is the on-disk location of
// the offline credential record; empty disables the offline fallback.
func NewClient(baseURL, apiKey, credPath string, log zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		creds: newCredCache(credPath),
		log:   log,
	}
}

type authRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type authResponse struct {
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
}

type authErrorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Register creates a new account and signs it in.
func (c *Client) Register(ctx context.Context, email, password string) (*Session, error) {
	session, err := c.call(ctx, "accounts:signUp", email, password)
	if err != nil {
		return nil, err
	}

	c.setSession(session)
	c.creds.save(email, password, session.UID)
	return session, nil
}

// Login authenticates an existing account. When the provider is unreachable
// it falls back to the offline credential record from the last online login.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	session, err := c.call(ctx, "accounts:signInWithPassword", email, password)
	if err != nil {
		var netErr *transportError
		if errors.As(err, &netErr) {
			if offline := c.creds.match(email, password); offline != nil {
				c.log.Info().Str("email", email).Msg("provider unreachable, using offline credentials")
				c.setSession(offline)
				return offline, nil
			}
		}
		return nil, err
	}

	c.setSession(session)
	c.creds.save(email, password, session.UID)
	return session, nil
}

// CurrentUID returns the signed-in user's id, if any.
func (c *Client) CurrentUID() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session == nil {
		return "", false
	}
	return c.session.UID, true
}

// CurrentSession returns a copy of the active session.
func (c *Client) CurrentSession() (Session, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session == nil {
		return Session{}, false
	}
	return *c.session, true
}

// SignOut drops the in-memory session. The offline credential record is kept
// so the same account can sign in again without connectivity.
func (c *Client) SignOut() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = nil
}

func (c *Client) setSession(session *Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = session
}

// transportError marks failures to reach the provider at all, as opposed to
// the provider rejecting the request.
type transportError struct {
	err error
}

func (e *transportError) Error() string { return e.err.Error() }
func (e *transportError) Unwrap() error { return e.err }

func (c *Client) call(ctx context.Context, endpoint, email, password string) (*Session, error) {
	body, err := json.Marshal(authRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	url := fmt.Sprintf("%s/%s?key=%s", c.baseURL, endpoint, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &transportError{err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp authErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		return nil, mapProviderError(errResp.Error.Message)
	}

	var ar authResponse
	if err := json.NewDecoder(resp.Body).Decode(&ar); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return sessionFromResponse(ar), nil
}

// mapProviderError turns provider error codes into human-readable messages.
func mapProviderError(code string) error {
	switch code {
	case "EMAIL_EXISTS":
		return ErrEmailTaken
	case "EMAIL_NOT_FOUND", "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS":
		return ErrBadCredentials
	case "WEAK_PASSWORD : Password should be at least 6 characters", "WEAK_PASSWORD":
		return errors.New("password should be at least 6 characters")
	case "TOO_MANY_ATTEMPTS_TRY_LATER":
		return errors.New("too many attempts, try again later")
	case "":
		return errors.New("sign-in failed")
	default:
		return fmt.Errorf("sign-in failed: %s", code)
	}
}

// sessionFromResponse builds the session, preferring the ID token's claims
// for uid and expiry over the response envelope. The token is not verified
// here; verification is the provider's side of the contract and the client
// only routes store calls by uid.
func sessionFromResponse(ar authResponse) *Session {
	session := &Session{
		UID:          ar.LocalID,
		Email:        ar.Email,
		IDToken:      ar.IDToken,
		RefreshToken: ar.RefreshToken,
	}

	if secs, err := strconv.Atoi(ar.ExpiresIn); err == nil && secs > 0 {
		session.ExpiresAt = time.Now().Add(time.Duration(secs) * time.Second)
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(ar.IDToken, claims); err == nil {
		if sub, err := claims.GetSubject(); err == nil && sub != "" {
			session.UID = sub
		}
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			session.ExpiresAt = exp.Time
		}
	}

	return session
}
