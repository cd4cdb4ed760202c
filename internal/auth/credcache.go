package auth

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

var dummyPasswordHash = []byte("$2a$10$CwTycUXWue0Thq9StjUM0uJ8n4VWeNseyX2fA9DE.D7su7J6iYGTC")

type credRecord struct {
	Email        string `json:"email"`
	UID          string `json:"uid"`
	PasswordHash []byte `json:"password_hash"`
}

// credCache persists the last successful login so the account can be used
// again without connectivity. A single record; a new login replaces it.
type credCache struct {
	path string
	mu   sync.Mutex
}

func newCredCache(path string) *credCache {
	return &credCache{path: path}
}

func (cc *credCache) save(email, password, uid string) {
	if cc.path == "" {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return
	}

	data, err := json.Marshal(credRecord{Email: email, UID: uid, PasswordHash: hash})
	if err != nil {
		return
	}

	cc.mu.Lock()
	defer cc.mu.Unlock()
	_ = os.MkdirAll(filepath.Dir(cc.path), 0o700)
	_ = os.WriteFile(cc.path, data, 0o600)
}

// match returns an offline session when email and password match the cached
// record, nil otherwise.
func (cc *credCache) match(email, password string) *Session {
	if cc.path == "" {
		return nil
	}

	cc.mu.Lock()
	data, err := os.ReadFile(cc.path)
	cc.mu.Unlock()
	if err != nil {
		_ = bcrypt.CompareHashAndPassword(dummyPasswordHash, []byte(password))
		return nil
	}

	var rec credRecord
	if err := json.Unmarshal(data, &rec); err != nil || rec.Email != email {
		_ = bcrypt.CompareHashAndPassword(dummyPasswordHash, []byte(password))
		return nil
	}

	if err := bcrypt.CompareHashAndPassword(rec.PasswordHash, []byte(password)); err != nil {
		return nil
	}

	return &Session{UID: rec.UID, Email: rec.Email, Offline: true}
}
