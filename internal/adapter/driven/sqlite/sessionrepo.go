package sqlite

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"github.com/ericfisherdev/schoolportal/internal/domain/model"
	"github.com/ericfisherdev/schoolportal/internal/domain/port/driven"
)

// Token slot names. They match the field names the backend uses in its login
// and refresh responses.
const (
	slotAccess  = "access"
	slotRefresh = "refresh"
)

// sessionRetention bounds how long an abandoned browser session keeps its
// tokens. Sessions idle for longer are pruned on the next login.
const sessionRetention = "-30 days"

// Compile-time interface satisfaction check.
var _ driven.CredentialStore = (*SessionRepo)(nil)

// SessionRepo is the SQLite implementation of the CredentialStore port interface.
// Rows are keyed by the browser session id carried in the context. Token
// values are encrypted with AES-256-GCM before write and decrypted after read.
type SessionRepo struct {
	db  *DB
	key []byte // 32-byte AES-256 key; nil disables reads and writes.
}

// NewSessionRepo creates a new SessionRepo. key must be 32 bytes for AES-256-GCM,
// or nil, in which case every operation except Clear returns ErrEncryptionKeyNotSet.
func NewSessionRepo(db *DB, key []byte) *SessionRepo {
	return &SessionRepo{db: db, key: key}
}

// Save stores both tokens of the context's session in one transaction,
// replacing its previous tokens. An empty token removes its slot.
func (r *SessionRepo) Save(ctx context.Context, session model.Session) error {
	if r.key == nil {
		return driven.ErrEncryptionKeyNotSet
	}
	id, ok := driven.SessionIDFrom(ctx)
	if !ok {
		return driven.ErrNoSessionID
	}

	tx, err := r.db.Writer.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save session: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const pruneQuery = `DELETE FROM session_tokens WHERE updated_at < datetime('now', ?)`
	if _, err := tx.ExecContext(ctx, pruneQuery, sessionRetention); err != nil {
		return fmt.Errorf("prune idle sessions: %w", err)
	}

	const deleteQuery = `DELETE FROM session_tokens WHERE session_id = ?`
	if _, err := tx.ExecContext(ctx, deleteQuery, id); err != nil {
		return fmt.Errorf("reset session: %w", err)
	}

	const insertQuery = `INSERT INTO session_tokens (session_id, slot, value, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)`
	for _, slot := range []struct{ name, value string }{
		{slotAccess, session.AccessToken},
		{slotRefresh, session.RefreshToken},
	} {
		if slot.value == "" {
			continue
		}
		encrypted, err := r.encrypt(slot.value)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, insertQuery, id, slot.name, encrypted); err != nil {
			return fmt.Errorf("save %s token: %w", slot.name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save session: %w", err)
	}
	return nil
}

// Read returns the context's session. Missing slots, and a context without a
// session id, yield empty strings.
func (r *SessionRepo) Read(ctx context.Context) (model.Session, error) {
	if r.key == nil {
		return model.Session{}, driven.ErrEncryptionKeyNotSet
	}
	id, ok := driven.SessionIDFrom(ctx)
	if !ok {
		return model.Session{}, nil
	}

	const query = `SELECT slot, value FROM session_tokens WHERE session_id = ?`
	rows, err := r.db.Reader.QueryContext(ctx, query, id)
	if err != nil {
		return model.Session{}, fmt.Errorf("read session: %w", err)
	}
	defer rows.Close()

	var session model.Session
	for rows.Next() {
		var slot, encrypted string
		if err := rows.Scan(&slot, &encrypted); err != nil {
			return model.Session{}, fmt.Errorf("scan session token: %w", err)
		}

		plaintext, err := r.decrypt(encrypted)
		if err != nil {
			return model.Session{}, fmt.Errorf("decrypt %s token: %w", slot, err)
		}

		switch slot {
		case slotAccess:
			session.AccessToken = plaintext
		case slotRefresh:
			session.RefreshToken = plaintext
		}
	}
	if err := rows.Err(); err != nil {
		return model.Session{}, fmt.Errorf("iterate session tokens: %w", err)
	}

	return session, nil
}

// SetAccessToken replaces the access token in a single statement. The write
// only happens while the same session still has a refresh token.
func (r *SessionRepo) SetAccessToken(ctx context.Context, token string) error {
	encrypted, err := r.encrypt(token)
	if err != nil {
		return err
	}
	id, ok := driven.SessionIDFrom(ctx)
	if !ok {
		return nil
	}

	const query = `INSERT OR REPLACE INTO session_tokens (session_id, slot, value, updated_at)
		SELECT ?, ?, ?, CURRENT_TIMESTAMP
		WHERE EXISTS (SELECT 1 FROM session_tokens WHERE session_id = ? AND slot = ?)`
	if _, err := r.db.Writer.ExecContext(ctx, query, id, slotAccess, encrypted, id, slotRefresh); err != nil {
		return fmt.Errorf("set access token: %w", err)
	}
	return nil
}

// Clear removes both tokens of the context's session. It works without an
// encryption key so a misconfigured deployment can still sign out.
func (r *SessionRepo) Clear(ctx context.Context) error {
	id, ok := driven.SessionIDFrom(ctx)
	if !ok {
		return nil
	}

	const query = `DELETE FROM session_tokens WHERE session_id = ? AND slot IN (?, ?)`
	if _, err := r.db.Writer.ExecContext(ctx, query, id, slotAccess, slotRefresh); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// encrypt encrypts plaintext using AES-256-GCM and returns a base64-encoded string
// containing the nonce (12 bytes) prepended to the ciphertext.
func (r *SessionRepo) encrypt(plaintext string) (string, error) {
	if r.key == nil {
		return "", driven.ErrEncryptionKeyNotSet
	}

	gcm, err := r.gcm()
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("rand nonce: %w", err)
	}

	// Seal appends the ciphertext to nonce, producing: nonce || ciphertext || tag.
	ciphertext := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// decrypt decrypts a base64-encoded AES-256-GCM ciphertext.
func (r *SessionRepo) decrypt(encoded string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("base64 decode: %w", err)
	}

	gcm, err := r.gcm()
	if err != nil {
		return "", err
	}

	nonceSize := gcm.NonceSize()
	if len(data) < nonceSize {
		return "", errors.New("ciphertext too short")
	}

	nonce, ciphertext := data[:nonceSize], data[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("gcm.Open: %w", err)
	}

	return string(plaintext), nil
}

func (r *SessionRepo) gcm() (cipher.AEAD, error) {
	block, err := aes.NewCipher(r.key)
	if err != nil {
		return nil, fmt.Errorf("aes.NewCipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("cipher.NewGCM: %w", err)
	}
	return gcm, nil
}
