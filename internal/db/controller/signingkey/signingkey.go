// Package signingkey keeps the generated token signing key in the settings table.
package signingkey

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/folio-cms/folio/internal/db/controller/setting"
)

const (
	// SettingKeySigningKey is the key used to store the signing key in the database.
	SettingKeySigningKey = "auth_signing_key"

	keyBytes = 32
)

type (
	// Key is the stored signing key.
	Key struct {
		Secret    string    `json:"secret"`
		CreatedAt time.Time `json:"createdAt"`
	}
)

// Load loads the signing key from the database.
func (k *Key) Load(ctx context.Context, db *gorm.DB) error {
	s, err := setting.Get(ctx, db, SettingKeySigningKey)
	if err != nil {
		return err
	}

	return json.Unmarshal(s.Value, k)
}

// Save saves the signing key to the database.
func (k *Key) Save(ctx context.Context, db *gorm.DB) error {
	data, err := json.Marshal(k)
	if err != nil {
		return err
	}

	_, err = setting.Set(ctx, db, SettingKeySigningKey, data)

	return err
}

// LoadOrCreate returns the stored secret, generating and storing one on first use.
func LoadOrCreate(ctx context.Context, db *gorm.DB) ([]byte, error) {
	var k Key

	err := k.Load(ctx, db)
	if err == nil && k.Secret != "" {
		return []byte(k.Secret), nil
	}

	if err != nil && !errors.Is(err, setting.ErrSettingNotFound) {
		return nil, err
	}

	buf := make([]byte, keyBytes)
	if _, err = rand.Read(buf); err != nil {
		return nil, err
	}

	k = Key{Secret: hex.EncodeToString(buf), CreatedAt: time.Now().UTC()}
	if err = k.Save(ctx, db); err != nil {
		return nil, err
	}

	return []byte(k.Secret), nil
}
