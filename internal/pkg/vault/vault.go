package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"io"

	"golang.org/x/crypto/scrypt"

	"lending-engine/internal/pkg/apperrors"
)

// The salt is fixed per deployment generation; the secret itself is the
// rotating key material and lives in process configuration only.
var keySalt = []byte("lending-engine.pii.v1")

// Vault encrypts and reveals PII tokens. The ledger only ever stores the
// opaque ciphertext a Vault produces; plaintext never reaches persistence.
type Vault struct {
	aead cipher.AEAD
}

func New(secret string) (*Vault, error) {
	if secret == "" {
		return nil, fmt.Errorf("%w: vault secret cannot be empty", apperrors.ErrInvalidArgument)
	}

	key, err := scrypt.Key([]byte(secret), keySalt, 1<<15, 8, 1, 32)
	if err != nil {
		return nil, fmt.Errorf("failed to derive vault key: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize AEAD: %w", err)
	}

	return &Vault{aead: aead}, nil
}

// Cipher is one encrypted token bound to the vault that produced it.
type Cipher struct {
	token string
	vault *Vault
}

func (v *Vault) Encrypt(plaintext string) (Cipher, error) {
	nonce := make([]byte, v.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return Cipher{}, fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := v.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return Cipher{token: base64.StdEncoding.EncodeToString(sealed), vault: v}, nil
}

// Wrap rehydrates a Cipher from a stored token.
func (v *Vault) Wrap(token string) Cipher {
	return Cipher{token: token, vault: v}
}

// Token returns the opaque ciphertext for persistence.
func (c Cipher) Token() string {
	return c.token
}

func (c Cipher) Reveal() (string, error) {
	if c.vault == nil {
		return "", fmt.Errorf("%w: cipher is not bound to a vault", apperrors.ErrInternalServer)
	}

	sealed, err := base64.StdEncoding.DecodeString(c.token)
	if err != nil {
		return "", fmt.Errorf("%w: malformed cipher token", apperrors.ErrInvalidArgument)
	}
	if len(sealed) < c.vault.aead.NonceSize() {
		return "", fmt.Errorf("%w: cipher token too short", apperrors.ErrInvalidArgument)
	}

	nonce, ciphertext := sealed[:c.vault.aead.NonceSize()], sealed[c.vault.aead.NonceSize():]
	plaintext, err := c.vault.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("%w: cipher token cannot be opened", apperrors.ErrInvalidArgument)
	}
	return string(plaintext), nil
}

// Matches reports whether the candidate equals the sealed plaintext. A token
// that cannot be revealed never matches.
func (c Cipher) Matches(candidate string) bool {
	plaintext, err := c.Reveal()
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(plaintext), []byte(candidate)) == 1
}
