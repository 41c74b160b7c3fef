package user

import (
	"context"
	"slices"
	"time"

	"github.com/example/litebay/internal/domain/collection"
	"github.com/example/litebay/internal/infrastructure/kv"
	"github.com/example/litebay/internal/logger"
)

const (
	StorageKey        = "users"
	CurrentStorageKey = "currentUser"
)

// User is a registered customer. Password holds a bcrypt hash.
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"password,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Public strips the password hash
func (u User) Public() User {
	u.Password = ""
	return u
}

// Repository owns the user collection and the current-user pointer
type Repository struct {
	list  *collection.List[User]
	ids   *collection.IDGenerator
	store kv.Store
}

func NewRepository(store kv.Store) *Repository {
	return &Repository{
		list:  collection.NewList[User](store, StorageKey),
		ids:   collection.Default,
		store: store,
	}
}

func (r *Repository) GetAll(ctx context.Context) []User {
	return r.list.All(ctx)
}

// Add assigns id and createdAt and appends the user
func (r *Repository) Add(ctx context.Context, u User) (User, error) {
	u.ID, u.CreatedAt = r.ids.Next()
	if err := r.list.Append(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

// AddIfEmailFree is Add that refuses with ErrEmailInUse when a stored user
// already has u's email. The check and the append happen under one lock.
func (r *Repository) AddIfEmailFree(ctx context.Context, u User) (User, error) {
	err := r.list.TryUpdate(ctx, func(items []User) ([]User, error) {
		if slices.ContainsFunc(items, func(existing User) bool { return existing.Email == u.Email }) {
			return nil, ErrEmailInUse
		}
		u.ID, u.CreatedAt = r.ids.Next()
		return append(items, u), nil
	})
	if err != nil {
		return User{}, err
	}
	return u, nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (User, bool) {
	return collection.Find(r.list.All(ctx), func(u User) bool { return u.ID == id })
}

// FindByEmail returns the first user whose email matches exactly
func (r *Repository) FindByEmail(ctx context.Context, email string) (User, bool) {
	return collection.Find(r.list.All(ctx), func(u User) bool { return u.Email == email })
}

// SetCurrent stores u, without its password hash, as the current user
func (r *Repository) SetCurrent(ctx context.Context, u User) error {
	return kv.SetJSON(ctx, r.store, CurrentStorageKey, u.Public())
}

func (r *Repository) GetCurrent(ctx context.Context) (User, bool) {
	u, ok := kv.GetJSON[*User](ctx, r.store, CurrentStorageKey)
	if !ok || u == nil {
		return User{}, false
	}
	if u.ID == 0 {
		log := logger.Component("user")
		log.Warn().Msg("ignoring current user without id")
		return User{}, false
	}
	return *u, true
}

func (r *Repository) Logout(ctx context.Context) error {
	return r.store.Remove(ctx, CurrentStorageKey)
}
