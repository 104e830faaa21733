// Package auth implements user authentication and access-token handling:
// bcrypt-hashed credentials checked against an in-memory user store, and
// HS256 JWTs issued on login and verified on every protected request.
package auth

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned when the username or password is wrong
	ErrInvalidCredentials = errors.New("incorrect email or password")

	// ErrInvalidToken is returned when a token fails verification
	ErrInvalidToken = errors.New("could not validate credentials")
)

// User is an account in the store.
type User struct {
	Username       string
	FullName       string
	Email          string
	HashedPassword []byte
	Disabled       bool
}

// Authenticator verifies credentials and issues signed access tokens.
type Authenticator struct {
	mu     sync.RWMutex
	users  map[string]*User
	secret []byte
	expiry time.Duration
}

// NewAuthenticator creates an authenticator signing tokens with the given
// secret. Tokens expire after the given duration.
func NewAuthenticator(secret string, expiry time.Duration) *Authenticator {
	return &Authenticator{
		users:  make(map[string]*User),
		secret: []byte(secret),
		expiry: expiry,
	}
}

// AddUser registers a user with a bcrypt-hashed password.
func (a *Authenticator) AddUser(username, fullName, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.users[username] = &User{
		Username:       username,
		FullName:       fullName,
		Email:          username,
		HashedPassword: hash,
	}
	return nil
}

// Authenticate checks a username/password pair against the store.
func (a *Authenticator) Authenticate(username, password string) (*User, error) {
	a.mu.RLock()
	user, ok := a.users[username]
	a.mu.RUnlock()

	if !ok || user.Disabled {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(user.HashedPassword, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// IssueToken creates a signed HS256 token for the given subject.
func (a *Authenticator) IssueToken(subject string) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(a.expiry)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

// VerifyToken validates a token and returns its subject. The subject must be
// a known, enabled user.
func (a *Authenticator) VerifyToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	subject, err := token.Claims.GetSubject()
	if err != nil || subject == "" {
		return "", ErrInvalidToken
	}

	a.mu.RLock()
	user, ok := a.users[subject]
	a.mu.RUnlock()
	if !ok || user.Disabled {
		return "", ErrInvalidToken
	}

	return subject, nil
}
