package jwtx

import (
	"crypto/ed25519"
	"errors"
	"sync"
)

var ErrNoKey = errors.New("jwtx: key not found")

// KeySet holds all public verification keys in memory, keyed by kid.
// It's thread-safe so issuance and verification can share one instance.
type KeySet struct {
	mu  sync.RWMutex
	pub map[string]ed25519.PublicKey
}

// NewKeySet returns an empty KeySet.
func NewKeySet() *KeySet {
	return &KeySet{
		pub: make(map[string]ed25519.PublicKey),
	}
}

// AddSigner registers a Signer's public key into the KeySet.
func (k *KeySet) AddSigner(s Signer) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.pub[s.KID()] = s.Public()
}

// Get returns the public key for the given kid.
func (k *KeySet) Get(kid string) (ed25519.PublicKey, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	if pk, ok := k.pub[kid]; ok {
		return pk, nil
	}
	return nil, ErrNoKey
}

// IsReady returns true if the KeySet has at least one key loaded.
func (k *KeySet) IsReady() bool {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return len(k.pub) > 0
}
