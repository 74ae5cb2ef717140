package data

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base32"
	"encoding/hex"
	"time"

	"github.com/Blue-Davinci/WealthWise/internal/validator"
)

// Define the TokenModel type.
type TokenModel struct {
	Store DocumentStore
}

// Timeout constants for our module
const (
	DefaultTokenExpiryTime       = 72 * time.Hour
	DefaultTokenDBContextTimeout = 5 * time.Second
)

const (
	ScopeAuthentication = "authentication"
)

// Token carries the plaintext handed to the client. Only its hash is stored.
type Token struct {
	Plaintext string    `json:"token"`
	Hash      []byte    `json:"-"`
	UserID    string    `json:"-"`
	Expiry    time.Time `json:"expiry"`
	Scope     string    `json:"-"`
}

// tokenRecord is the stored token, keyed by the hex of its hash.
type tokenRecord struct {
	ID     string    `json:"id"`
	UserID string    `json:"user_id"`
	Expiry time.Time `json:"expiry"`
	Scope  string    `json:"scope"`
}

// Check that the plaintext token has been provided and is exactly 26 bytes long.
func ValidateTokenPlaintext(v *validator.Validator, tokenPlaintext string) {
	v.Check(tokenPlaintext != "", "token", "must be provided")
	v.Check(len(tokenPlaintext) == 26, "token", "must be 26 bytes long")
}

// Create a Token instance containing the user ID, expiry, and scope information.
func generateToken(userID string, ttl time.Duration, scope string) (*Token, error) {
	token := &Token{
		UserID: userID,
		Expiry: time.Now().Add(ttl),
		Scope:  scope,
	}
	randomBytes := make([]byte, 16)
	if _, err := rand.Read(randomBytes); err != nil {
		return nil, err
	}
	token.Plaintext = base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(randomBytes)
	hash := sha256.Sum256([]byte(token.Plaintext))
	token.Hash = hash[:]
	return token, nil
}

func (m TokenModel) New(ctx context.Context, userID string, ttl time.Duration, scope string) (*Token, error) {
	token, err := generateToken(userID, ttl, scope)
	if err != nil {
		return nil, err
	}
	err = m.Insert(ctx, token)
	return token, err
}

func (m TokenModel) Insert(ctx context.Context, token *Token) error {
	ctx, cancel := contextGenerator(ctx, DefaultTokenDBContextTimeout)
	defer cancel()
	id := hex.EncodeToString(token.Hash)
	doc, err := toDocument(tokenRecord{ID: id, UserID: token.UserID, Expiry: token.Expiry, Scope: token.Scope})
	if err != nil {
		return err
	}
	return m.Store.Insert(ctx, CollectionTokens, id, doc)
}

// DeleteAllForUser() deletes all tokens for a specific user and scope.
func (m TokenModel) DeleteAllForUser(ctx context.Context, scope string, userID string) error {
	ctx, cancel := contextGenerator(ctx, DefaultTokenDBContextTimeout)
	defer cancel()
	docs, err := m.Store.Find(ctx, CollectionTokens, ByUser(userID, Filter{Field: "scope", Op: OpEqual, Value: scope}))
	if err != nil {
		return err
	}
	for _, doc := range docs {
		id, _ := doc["id"].(string)
		if err := m.Store.Delete(ctx, CollectionTokens, id); err != nil {
			return err
		}
	}
	return nil
}
