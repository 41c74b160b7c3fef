package user

import (
	"context"
	"errors"
	"sync"

	"github.com/example/litebay/internal/auth"
	"github.com/example/litebay/internal/events"
	"github.com/example/litebay/internal/infrastructure/kv"
	"github.com/example/litebay/internal/validation"
)

// SessionStorageKey is the dedicated namespace mirroring the session state
const SessionStorageKey = "litebay-user"

var (
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrEmailInUse         = errors.New("email already in use")
)

// RegisterInput is the registration form. ConfirmPassword is checked only when set.
type RegisterInput struct {
	Name            string `json:"name" validate:"notblank"`
	Email           string `json:"email" validate:"notblank,email,max=254"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirmPassword,omitempty" validate:"omitempty,eqfield=Password"`
}

func (in RegisterInput) Validate() error {
	errs := validation.Struct(in)
	if !errs.Has("password") {
		if err := auth.ValidatePassword(in.Password); err != nil {
			errs.Add("password", err.Error())
		}
	}
	if errs.Has("confirmPassword") {
		errs["confirmPassword"] = "passwords do not match"
	}
	return errs.Err()
}

type sessionState struct {
	User            *User `json:"user"`
	IsAuthenticated bool  `json:"isAuthenticated"`
}

// SessionEvent is the payload of the user.* events
type SessionEvent struct {
	UserID int64  `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// SessionStore tracks the single authenticated identity. It mirrors its state
// under SessionStorageKey and keeps the repository's current-user pointer in sync.
type SessionStore struct {
	mu    sync.RWMutex
	repo  *Repository
	store kv.Store
	pub   events.Publisher
	user  *User
}

func NewSessionStore(repo *Repository, store kv.Store, pub events.Publisher) *SessionStore {
	if pub == nil {
		pub = events.Nop{}
	}
	return &SessionStore{repo: repo, store: store, pub: pub}
}

// Init hydrates the session from a persisted current-user pointer
func (s *SessionStore) Init(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u, ok := s.repo.GetCurrent(ctx); ok {
		s.user = &u
		return
	}
	s.user = nil
}

// Current returns the authenticated user, without the password hash
func (s *SessionStore) Current() (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return User{}, false
	}
	return s.user.Public(), true
}

func (s *SessionStore) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// Login authenticates against the stored hash. On failure nothing changes.
func (s *SessionStore) Login(ctx context.Context, email, password string) (User, error) {
	u, ok := s.repo.FindByEmail(ctx, email)
	if !ok || !auth.CheckPassword(password, u.Password) {
		return User{}, ErrInvalidCredentials
	}

	if err := s.setCurrent(ctx, u); err != nil {
		return User{}, err
	}
	s.pub.Publish(ctx, events.UserLoggedIn, CurrentStorageKey, sessionEvent(u))
	return u.Public(), nil
}

// Register validates the form, rejects a taken email, stores the user and
// makes it the current session.
func (s *SessionStore) Register(ctx context.Context, in RegisterInput) (User, error) {
	if err := in.Validate(); err != nil {
		return User{}, err
	}
	if _, exists := s.repo.FindByEmail(ctx, in.Email); exists {
		return User{}, ErrEmailInUse
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return User{}, err
	}

	u, err := s.repo.AddIfEmailFree(ctx, User{Name: in.Name, Email: in.Email, Password: hash})
	if err != nil {
		return User{}, err
	}
	if err := s.setCurrent(ctx, u); err != nil {
		return User{}, err
	}

	s.pub.Publish(ctx, events.UserRegistered, StorageKey, sessionEvent(u))
	return u.Public(), nil
}

func (s *SessionStore) Logout(ctx context.Context) error {
	s.mu.Lock()
	prev := s.user
	if err := s.repo.Logout(ctx); err != nil {
		s.mu.Unlock()
		return err
	}
	s.user = nil
	err := kv.SetJSON(ctx, s.store, SessionStorageKey, sessionState{})
	s.mu.Unlock()
	if err != nil {
		return err
	}

	if prev != nil {
		s.pub.Publish(ctx, events.UserLoggedOut, CurrentStorageKey, sessionEvent(*prev))
	}
	return nil
}

func (s *SessionStore) setCurrent(ctx context.Context, u User) error {
	u = u.Public()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.SetCurrent(ctx, u); err != nil {
		return err
	}
	if err := kv.SetJSON(ctx, s.store, SessionStorageKey, sessionState{User: &u, IsAuthenticated: true}); err != nil {
		return err
	}
	s.user = &u
	return nil
}

func sessionEvent(u User) SessionEvent {
	return SessionEvent{UserID: u.ID, Name: u.Name, Email: u.Email}
}
