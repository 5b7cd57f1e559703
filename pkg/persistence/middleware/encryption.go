package middleware

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/spiritual/pkg/domain"
	"github.com/aretw0/spiritual/pkg/ports"
	"github.com/aretw0/spiritual/pkg/wire"
)

const envelopeKey = "__encrypted__"

// EncryptionConfig holds the keys for encryption and decryption.
type EncryptionConfig struct {
	// ActiveKey is the key used for encrypting new data.
	// Must be 32 bytes for AES-256.
	ActiveKey []byte

	// FallbackKeys is a list of old keys to try when decryption fails.
	// This enables zero-downtime key rotation.
	FallbackKeys [][]byte
}

type encryptionMiddleware struct {
	next   ports.ProfileStore
	config EncryptionConfig
}

// NewEncryptionMiddleware creates a middleware that encrypts profiles using AES-GCM.
// The stored profile is an envelope: it keeps player_name and last_update, and
// its only item holds the encrypted dump. The player name is authenticated
// data, so an envelope cannot be replayed under another name.
func NewEncryptionMiddleware(config EncryptionConfig) Middleware {
	if len(config.ActiveKey) != 32 {
		panic("active key must be 32 bytes (AES-256)")
	}
	return func(next ports.ProfileStore) ports.ProfileStore {
		return &encryptionMiddleware{
			next:   next,
			config: config,
		}
	}
}

func (m *encryptionMiddleware) Save(ctx context.Context, profile *domain.Profile) error {
	plainText, err := wire.MarshalJSON(profile.Dump())
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	name := profile.PlayerName()
	ciphertext, err := encrypt(plainText, m.config.ActiveKey, []byte(name))
	if err != nil {
		return fmt.Errorf("failed to encrypt profile: %w", err)
	}

	envelope, err := domain.NewProfile(name)
	if err != nil {
		return err
	}
	envelope.Touch(profile.LastUpdate())
	if err := envelope.AddItem(map[string]any{
		envelopeKey: base64.StdEncoding.EncodeToString(ciphertext),
	}); err != nil {
		return err
	}
	return m.next.Save(ctx, envelope)
}

func (m *encryptionMiddleware) Load(ctx context.Context, playerName string) (*domain.Profile, error) {
	envelope, err := m.next.Load(ctx, playerName)
	if err != nil {
		return nil, err
	}

	encryptedStr, ok := sealed(envelope)
	if !ok {
		// Fail secure: plain profiles are not accepted once encryption is on.
		return nil, fmt.Errorf("%w: missing encrypted data envelope", domain.ErrInvalidProfile)
	}

	ciphertext, err := base64.StdEncoding.DecodeString(encryptedStr)
	if err != nil {
		return nil, fmt.Errorf("failed to decode ciphertext base64: %w", err)
	}

	plainText, err := decryptWithRotation(ciphertext, []byte(playerName), m.config.ActiveKey, m.config.FallbackKeys)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt profile: %w", err)
	}

	data, err := wire.UnmarshalJSON(plainText)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidProfile, err)
	}
	return domain.LoadProfile(data)
}

func (m *encryptionMiddleware) Delete(ctx context.Context, playerName string) error {
	return m.next.Delete(ctx, playerName)
}

func (m *encryptionMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

// sealed returns the encrypted blob of an envelope profile.
func sealed(envelope *domain.Profile) (string, bool) {
	items := envelope.Items()
	if len(items) != 1 {
		return "", false
	}
	m, ok := items[0].(*wire.Map)
	if !ok {
		return "", false
	}
	v, _ := m.Get(envelopeKey)
	s, ok := v.(string)
	return s, ok
}

// Helpers

func encrypt(plaintext, key, aad []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	return gcm.Seal(nonce, nonce, plaintext, aad), nil
}

func decryptWithRotation(ciphertext, aad, activeKey []byte, fallbackKeys [][]byte) ([]byte, error) {
	if plain, err := decrypt(ciphertext, activeKey, aad); err == nil {
		return plain, nil
	}
	for _, key := range fallbackKeys {
		if plain, err := decrypt(ciphertext, key, aad); err == nil {
			return plain, nil
		}
	}
	return nil, errors.New("decryption failed with all available keys")
}

func decrypt(ciphertext, key, aad []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}

	nonce := ciphertext[:gcm.NonceSize()]
	return gcm.Open(nil, nonce, ciphertext[gcm.NonceSize():], aad)
}
