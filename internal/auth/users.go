package auth

import (
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// User is the public view of a registered account.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type userRecord struct {
	User
	passwordHash []byte
}

// UserStore keeps accounts in memory, keyed by lower-cased email.
type UserStore struct {
	mu    sync.RWMutex
	users map[string]userRecord
	cost  int
}

func NewUserStore() *UserStore {
	return &UserStore{
		users: make(map[string]userRecord),
		cost:  bcrypt.DefaultCost,
	}
}

func (s *UserStore) Register(name, email, password string) (User, error) {
	key := strings.ToLower(strings.TrimSpace(email))

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[key]; exists {
		return User{}, ErrEmailTaken
	}

	rec := userRecord{
		User:         User{ID: uuid.NewString(), Name: name, Email: key},
		passwordHash: hash,
	}
	s.users[key] = rec
	return rec.User, nil
}

// Authenticate returns the user for a matching email and password.
func (s *UserStore) Authenticate(email, password string) (User, error) {
	key := strings.ToLower(strings.TrimSpace(email))

	s.mu.RLock()
	rec, ok := s.users[key]
	s.mu.RUnlock()
	if !ok {
		return User{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword(rec.passwordHash, []byte(password)); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return rec.User, nil
}
