// internal/crypto/cipher.go
//
// Authenticated encryption for reflection text. AES-256-GCM under a
// versioned key ring: new writes use the active version, old versions stay
// in the ring so historical ciphertexts survive rotation.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/crypto/hkdf"
)

// KeyVersionNone marks records stored without encryption. Only permitted
// outside production.
const KeyVersionNone = "none"

var (
	ErrNoKey         = errors.New("encryption key not configured")
	ErrUnknownKey    = errors.New("unknown key version")
	ErrBadCiphertext = errors.New("malformed or tampered ciphertext")
)

// Cipher encrypts and decrypts reflection text. Key material is read-only
// after construction, so a single instance is safe for concurrent use.
type Cipher struct {
	aeads         map[string]cipher.AEAD
	activeVersion string
	logger        *slog.Logger
}

// hkdf info string; fixed so derived keys are stable across restarts.
const keyContext = "innerpath/reflection/v1"

// New builds a cipher from version->secret pairs. Secrets of any length are
// accepted; a 32-byte AES key is derived per version via HKDF-SHA256.
//
// With no keys configured: in production the constructor fails so the
// service refuses to start rather than silently store plaintext
// reflections; otherwise a passthrough cipher is returned that stores
// plaintext under version "none" with a loud warning.
func New(keys map[string]string, activeVersion string, prod bool, logger *slog.Logger) (*Cipher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if len(keys) == 0 || activeVersion == "" {
		if prod {
			return nil, fmt.Errorf("refusing to start: %w", ErrNoKey)
		}
		logger.Warn("REFLECTION ENCRYPTION DISABLED: no key configured, storing plaintext",
			"key_version", KeyVersionNone)
		return &Cipher{activeVersion: KeyVersionNone, logger: logger}, nil
	}
	if _, ok := keys[activeVersion]; !ok {
		return nil, fmt.Errorf("active key version %q not present in key ring: %w", activeVersion, ErrUnknownKey)
	}

	aeads := make(map[string]cipher.AEAD, len(keys))
	for version, secret := range keys {
		key := make([]byte, 32)
		kdf := hkdf.New(sha256.New, []byte(secret), nil, []byte(keyContext))
		if _, err := io.ReadFull(kdf, key); err != nil {
			return nil, fmt.Errorf("deriving key for version %q: %w", version, err)
		}
		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, fmt.Errorf("building AES cipher for version %q: %w", version, err)
		}
		aead, err := cipher.NewGCM(block)
		if err != nil {
			return nil, fmt.Errorf("building GCM for version %q: %w", version, err)
		}
		aeads[version] = aead
	}
	logger.Info("Reflection cipher initialized", "active_key_version", activeVersion, "keys", len(aeads))
	return &Cipher{aeads: aeads, activeVersion: activeVersion, logger: logger}, nil
}

// Enabled reports whether real encryption is active.
func (c *Cipher) Enabled() bool {
	return c.activeVersion != KeyVersionNone
}

// ActiveVersion is the key version used for new writes.
func (c *Cipher) ActiveVersion() string {
	return c.activeVersion
}

// Encrypt seals plaintext under the active key and returns the base64
// ciphertext (nonce-prefixed) together with the key version to store
// alongside it.
func (c *Cipher) Encrypt(plaintext string) (string, string, error) {
	if !c.Enabled() {
		return plaintext, KeyVersionNone, nil
	}
	aead := c.aeads[c.activeVersion]
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", "", err
	}
	sealed := aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), c.activeVersion, nil
}

// Decrypt opens a ciphertext produced under keyVersion. Records written
// with version "none" are returned as-is.
func (c *Cipher) Decrypt(ciphertext, keyVersion string) (string, error) {
	if keyVersion == KeyVersionNone {
		return ciphertext, nil
	}
	aead, ok := c.aeads[keyVersion]
	if !ok {
		return "", fmt.Errorf("key version %q: %w", keyVersion, ErrUnknownKey)
	}
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", ErrBadCiphertext
	}
	if len(raw) < aead.NonceSize() {
		return "", ErrBadCiphertext
	}
	nonce, sealed := raw[:aead.NonceSize()], raw[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", ErrBadCiphertext
	}
	return string(plain), nil
}
