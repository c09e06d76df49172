// Package analytics provides consent-gated, privacy-first page view
// tracking. Visitor IPs are never stored; only a salted hash is kept, with
// the salt generated per installation.
package analytics

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"
)

// View is one recorded page view.
type View struct {
	Path      string
	Referrer  string
	IPHash    string
	Timestamp time.Time
}

// PathCount is an aggregated view count for one path.
type PathCount struct {
	Path  string
	Views int64
}

// salt holds the per-installation random salt for IP hashing, protected by
// sync.Once.
var salt struct {
	once  sync.Once
	value string
}

// InitSalt loads or generates a persistent salt for IP hashing. Must be
// called once at startup before any views are recorded.
func InitSalt(store *Store) error {
	var initErr error
	salt.once.Do(func() {
		s, err := store.GetSetting("hash_salt")
		if err != nil {
			initErr = fmt.Errorf("read hash salt: %w", err)
			return
		}
		if s == "" {
			b := make([]byte, 32)
			if _, err := rand.Read(b); err != nil {
				initErr = fmt.Errorf("generate salt: %w", err)
				return
			}
			s = hex.EncodeToString(b)
			if err := store.SetSetting("hash_salt", s); err != nil {
				initErr = fmt.Errorf("store hash salt: %w", err)
				return
			}
		}
		salt.value = s
	})
	return initErr
}

// HashIP returns the salted hash of an IP address.
func HashIP(ip string) string {
	h := sha256.Sum256([]byte(salt.value + ip))
	return hex.EncodeToString(h[:])
}
