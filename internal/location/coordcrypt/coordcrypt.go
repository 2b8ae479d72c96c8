// Package coordcrypt seals coordinates before they are persisted.
//
// Each axis is sealed separately with XChaCha20-Poly1305 under a key derived
// from a master secret with HKDF-SHA256. The version tag stored with the row
// names both the algorithm and the key generation, so rows written under an
// older key stay readable after rotation.
package coordcrypt

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"

	"clockgeo/internal/geo"
	"clockgeo/internal/location/models"
)

const (
	// PlaintextVersion marks rows stored without encryption (development only).
	PlaintextVersion = "plain-v0"

	aeadPrefix   = "xc20p-"
	minSecretLen = 32
)

var (
	ErrUnknownVersion = errors.New("unknown encryption version")
	ErrDecrypt        = errors.New("coordinate decryption failed")
)

// Keyring seals with the current key generation and opens any known one.
type Keyring struct {
	current string
	keys    map[string][]byte
}

// NewKeyring derives one key per generation from its master secret.
// current must be one of the generations in secrets.
func NewKeyring(current string, secrets map[string][]byte) (*Keyring, error) {
	if _, ok := secrets[current]; !ok {
		return nil, fmt.Errorf("no secret for current key generation %q", current)
	}
	k := &Keyring{current: aeadPrefix + current, keys: make(map[string][]byte, len(secrets))}
	for gen, secret := range secrets {
		if len(secret) < minSecretLen {
			return nil, fmt.Errorf("secret for key generation %q must be at least %d bytes", gen, minSecretLen)
		}
		key := make([]byte, chacha20poly1305.KeySize)
		r := hkdf.New(sha256.New, secret, nil, []byte("clockgeo coordinates "+gen))
		if _, err := io.ReadFull(r, key); err != nil {
			return nil, fmt.Errorf("derive key %q: %w", gen, err)
		}
		k.keys[aeadPrefix+gen] = key
	}
	return k, nil
}

// NewPlaintext returns a keyring that stores coordinates unencrypted, tagged
// PlaintextVersion.
func NewPlaintext() *Keyring {
	return &Keyring{current: PlaintextVersion}
}

// Version is the tag written with newly sealed rows.
func (k *Keyring) Version() string {
	return k.current
}

// Seal encrypts c. aad binds the ciphertext to its row (record id, direction).
func (k *Keyring) Seal(c geo.Coordinate, aad string) (models.EncryptedCoordinate, error) {
	if k.current == PlaintextVersion {
		return models.EncryptedCoordinate{
			Latitude:  formatFloat(c.Latitude),
			Longitude: formatFloat(c.Longitude),
			Version:   PlaintextVersion,
		}, nil
	}
	aead, err := chacha20poly1305.NewX(k.keys[k.current])
	if err != nil {
		return models.EncryptedCoordinate{}, fmt.Errorf("init cipher: %w", err)
	}
	lat, err := sealValue(aead, c.Latitude, aad+"|lat")
	if err != nil {
		return models.EncryptedCoordinate{}, err
	}
	lng, err := sealValue(aead, c.Longitude, aad+"|lng")
	if err != nil {
		return models.EncryptedCoordinate{}, err
	}
	return models.EncryptedCoordinate{Latitude: lat, Longitude: lng, Version: k.current}, nil
}

// Open decrypts a sealed coordinate using the generation named in its version tag.
func (k *Keyring) Open(enc models.EncryptedCoordinate, aad string) (geo.Coordinate, error) {
	if enc.Version == PlaintextVersion {
		lat, err1 := strconv.ParseFloat(enc.Latitude, 64)
		lng, err2 := strconv.ParseFloat(enc.Longitude, 64)
		if err := errors.Join(err1, err2); err != nil {
			return geo.Coordinate{}, fmt.Errorf("%w: %v", ErrDecrypt, err)
		}
		return geo.Coordinate{Latitude: lat, Longitude: lng}, nil
	}
	if !strings.HasPrefix(enc.Version, aeadPrefix) {
		return geo.Coordinate{}, fmt.Errorf("%w: %q", ErrUnknownVersion, enc.Version)
	}
	key, ok := k.keys[enc.Version]
	if !ok {
		return geo.Coordinate{}, fmt.Errorf("%w: %q", ErrUnknownVersion, enc.Version)
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("init cipher: %w", err)
	}
	lat, err := openValue(aead, enc.Latitude, aad+"|lat")
	if err != nil {
		return geo.Coordinate{}, err
	}
	lng, err := openValue(aead, enc.Longitude, aad+"|lng")
	if err != nil {
		return geo.Coordinate{}, err
	}
	return geo.Coordinate{Latitude: lat, Longitude: lng}, nil
}

type aeadCipher interface {
	NonceSize() int
	Overhead() int
	Seal(dst, nonce, plaintext, additionalData []byte) []byte
	Open(dst, nonce, ciphertext, additionalData []byte) ([]byte, error)
}

func sealValue(aead aeadCipher, v float64, aad string) (string, error) {
	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+32+aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	out := aead.Seal(nonce, nonce, []byte(formatFloat(v)), []byte(aad))
	return base64.RawStdEncoding.EncodeToString(out), nil
}

func openValue(aead aeadCipher, s string, aad string) (float64, error) {
	raw, err := base64.RawStdEncoding.DecodeString(s)
	if err != nil || len(raw) < aead.NonceSize()+aead.Overhead() {
		return 0, ErrDecrypt
	}
	nonce, ct := raw[:aead.NonceSize()], raw[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, ct, []byte(aad))
	if err != nil {
		return 0, ErrDecrypt
	}
	v, err := strconv.ParseFloat(string(plain), 64)
	if err != nil {
		return 0, ErrDecrypt
	}
	return v, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
