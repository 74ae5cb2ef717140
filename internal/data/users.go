package data

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/Blue-Davinci/WealthWise/internal/validator"
	"golang.org/x/crypto/bcrypt"
)

type UserModel struct {
	Store DocumentStore
}

const DefaultUserDBContextTimeout = 5 * time.Second

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  password  `json:"-"`
	Activated bool      `json:"activated"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// userRecord is the stored form of a User. The password hash never leaves
// the data layer.
type userRecord struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash []byte    `json:"password_hash"`
	Activated    bool      `json:"activated"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Define a custom ErrDuplicateEmail error.
var (
	ErrDuplicateEmail = errors.New("duplicate email")
)

// Declare a new AnonymousUser variable.
var AnonymousUser = &User{}

// Check if a User instance is the AnonymousUser.
func (u *User) IsAnonymous() bool {
	return u == AnonymousUser
}

// Create a custom password type which is a struct containing the plaintext and hashed
// versions of the password for a user.
type password struct {
	plaintext *string
	hash      []byte
}

// set() calculates the bcrypt hash of a plaintext password, and stores both
// the hash and the plaintext versions in the struct.
func (p *password) Set(plaintextPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintextPassword), 12)
	if err != nil {
		return err
	}
	p.plaintext = &plaintextPassword
	p.hash = hash
	return nil
}

// The Matches() method checks whether the provided plaintext password matches the
// hashed password stored in the struct, returning true if it matches and false
// otherwise.
func (p *password) Matches(plaintextPassword string) (bool, error) {
	err := bcrypt.CompareHashAndPassword(p.hash, []byte(plaintextPassword))
	if err != nil {
		switch {
		case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
			return false, nil
		default:
			return false, err
		}
	}
	return true, nil
}

func ValidateEmail(v *validator.Validator, email string) {
	v.Check(email != "", "email", "must be provided")
	v.Check(validator.Matches(email, validator.EmailRX), "email", "must be a valid email address")
}

func ValidatePasswordPlaintext(v *validator.Validator, password string) {
	v.Check(password != "", "password", "must be provided")
	v.Check(len(password) >= 8, "password", "must be at least 8 bytes long")
	v.Check(len(password) <= 72, "password", "must not be more than 72 bytes long")
}

func ValidateUser(v *validator.Validator, user *User) {
	v.Check(user.Name != "", "name", "must be provided")
	v.Check(len(user.Name) <= 500, "name", "must not be more than 500 bytes long")
	ValidateEmail(v, user.Email)
	if user.Password.plaintext != nil {
		ValidatePasswordPlaintext(v, *user.Password.plaintext)
	}
	// A missing hash means the handler forgot to call Password.Set.
	if user.Password.hash == nil {
		panic("missing password hash for user")
	}
}

func (u *User) record() userRecord {
	return userRecord{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.Password.hash,
		Activated:    u.Activated,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (r *userRecord) user() *User {
	return &User{
		ID:        r.ID,
		Name:      r.Name,
		Email:     r.Email,
		Password:  password{hash: r.PasswordHash},
		Activated: r.Activated,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// Insert registers a new user. Emails are unique, case-insensitively.
func (m UserModel) Insert(ctx context.Context, user *User) error {
	ctx, cancel := contextGenerator(ctx, DefaultUserDBContextTimeout)
	defer cancel()
	user.Name = SanitizeText(user.Name)
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if _, err := m.getByEmail(ctx, user.Email); err == nil {
		return ErrDuplicateEmail
	} else if !errors.Is(err, ErrGeneralRecordNotFound) {
		return err
	}
	now := time.Now().UTC()
	user.ID = newID()
	user.CreatedAt = now
	user.UpdatedAt = now
	doc, err := toDocument(user.record())
	if err != nil {
		return err
	}
	err = m.Store.Insert(ctx, CollectionUsers, user.ID, doc)
	if errors.Is(err, ErrDuplicateRecord) {
		return ErrDuplicateEmail
	}
	return err
}

func (m UserModel) GetByEmail(ctx context.Context, email string) (*User, error) {
	ctx, cancel := contextGenerator(ctx, DefaultUserDBContextTimeout)
	defer cancel()
	return m.getByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}

func (m UserModel) getByEmail(ctx context.Context, email string) (*User, error) {
	records, err := findAll[userRecord](ctx, m.Store, CollectionUsers, Query{Filters: []Filter{{Field: "email", Op: OpEqual, Value: email}}})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrGeneralRecordNotFound
	}
	return records[0].user(), nil
}

func (m UserModel) Get(ctx context.Context, id string) (*User, error) {
	ctx, cancel := contextGenerator(ctx, DefaultUserDBContextTimeout)
	defer cancel()
	doc, err := m.Store.Get(ctx, CollectionUsers, id)
	if err != nil {
		return nil, err
	}
	record, err := fromDocument[userRecord](CollectionUsers, doc)
	if err != nil {
		return nil, err
	}
	return record.user(), nil
}

// GetForToken returns the owner of an unexpired token of the given scope.
func (m UserModel) GetForToken(ctx context.Context, tokenScope, tokenPlaintext string) (*User, error) {
	ctx, cancel := contextGenerator(ctx, DefaultUserDBContextTimeout)
	defer cancel()
	tokenHash := sha256.Sum256([]byte(tokenPlaintext))
	doc, err := m.Store.Get(ctx, CollectionTokens, hex.EncodeToString(tokenHash[:]))
	if err != nil {
		return nil, err
	}
	token, err := fromDocument[tokenRecord](CollectionTokens, doc)
	if err != nil {
		return nil, err
	}
	if token.Scope != tokenScope || !token.Expiry.After(time.Now()) {
		return nil, ErrGeneralRecordNotFound
	}
	return m.Get(ctx, token.UserID)
}
