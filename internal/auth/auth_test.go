package auth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"showbill/internal/logging"
)

func identityServer(t *testing.T, accounts map[string]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req authRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		writeErr := func(code string) {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"message": code},
			})
		}

		switch {
		case strings.Contains(r.URL.Path, "accounts:signUp"):
			if _, ok := accounts[req.Email]; ok {
				writeErr("EMAIL_EXISTS")
				return
			}
			accounts[req.Email] = req.Password
		case strings.Contains(r.URL.Path, "accounts:signInWithPassword"):
			if pw, ok := accounts[req.Email]; !ok || pw != req.Password {
				writeErr("INVALID_LOGIN_CREDENTIALS")
				return
			}
		default:
			writeErr("UNKNOWN_ENDPOINT")
			return
		}

		_ = json.NewEncoder(w).Encode(authResponse{
			LocalID:      "uid-" + req.Email,
			Email:        req.Email,
			IDToken:      "opaque-token",
			RefreshToken: "refresh-token",
			ExpiresIn:    "3600",
		})
	}))
}

func TestRegisterAndCurrentUID(t *testing.T) {
	srv := identityServer(t, map[string]string{})
	defer srv.Close()

	credPath := filepath.Join(t.TempDir(), "credentials.json")
	c := NewClient(srv.URL, "test-key", credPath, logging.Nop())

	session, err := c.Register(context.Background(), "ada@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, "uid-ada@example.com", session.UID)
	assert.False(t, session.Offline)
	assert.WithinDuration(t, time.Now().Add(time.Hour), session.ExpiresAt, time.Minute)

	uid, ok := c.CurrentUID()
	assert.True(t, ok)
	assert.Equal(t, session.UID, uid)

	assert.FileExists(t, credPath, "offline credential record written")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	srv := identityServer(t, map[string]string{"taken@example.com": "pw"})
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", "", logging.Nop())

	_, err := c.Register(context.Background(), "taken@example.com", "pw")
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, ok := c.CurrentUID()
	assert.False(t, ok)
}

func TestLoginWrongPassword(t *testing.T) {
	srv := identityServer(t, map[string]string{"ada@example.com": "correct"})
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", "", logging.Nop())

	_, err := c.Login(context.Background(), "ada@example.com", "wrong")
	assert.ErrorIs(t, err, ErrBadCredentials)
}

func TestLoginOfflineFallback(t *testing.T) {
	srv := identityServer(t, map[string]string{"ada@example.com": "hunter22"})

	credPath := filepath.Join(t.TempDir(), "credentials.json")
	online := NewClient(srv.URL, "test-key", credPath, logging.Nop())
	_, err := online.Login(context.Background(), "ada@example.com", "hunter22")
	require.NoError(t, err)

	srv.Close() // provider now unreachable

	offline := NewClient(srv.URL, "test-key", credPath, logging.Nop())
	session, err := offline.Login(context.Background(), "ada@example.com", "hunter22")
	require.NoError(t, err)
	assert.True(t, session.Offline)
	assert.Equal(t, "uid-ada@example.com", session.UID)

	_, err = NewClient(srv.URL, "test-key", credPath, logging.Nop()).
		Login(context.Background(), "ada@example.com", "wrong")
	assert.Error(t, err, "offline fallback must still check the password")
}

func TestSignOutKeepsCredentialRecord(t *testing.T) {
	srv := identityServer(t, map[string]string{"ada@example.com": "hunter22"})
	defer srv.Close()

	credPath := filepath.Join(t.TempDir(), "credentials.json")
	c := NewClient(srv.URL, "test-key", credPath, logging.Nop())

	_, err := c.Login(context.Background(), "ada@example.com", "hunter22")
	require.NoError(t, err)

	c.SignOut()
	_, ok := c.CurrentUID()
	assert.False(t, ok)
	assert.FileExists(t, credPath)
}

func TestSessionPrefersTokenClaims(t *testing.T) {
	segment := func(v any) string {
		b, err := json.Marshal(v)
		require.NoError(t, err)
		return base64.RawURLEncoding.EncodeToString(b)
	}
	exp := time.Now().Add(30 * time.Minute).Unix()
	token := segment(map[string]string{"alg": "none", "typ": "JWT"}) + "." +
		segment(map[string]any{"sub": "claim-uid", "exp": exp}) + "."

	session := sessionFromResponse(authResponse{
		LocalID:   "envelope-uid",
		IDToken:   token,
		ExpiresIn: "3600",
	})

	assert.Equal(t, "claim-uid", session.UID)
	assert.WithinDuration(t, time.Unix(exp, 0), session.ExpiresAt, time.Second)
}

func TestSessionFallsBackToEnvelope(t *testing.T) {
	session := sessionFromResponse(authResponse{
		LocalID:   "envelope-uid",
		IDToken:   "not-a-jwt",
		ExpiresIn: "3600",
	})

	assert.Equal(t, "envelope-uid", session.UID)
}
