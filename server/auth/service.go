// Package auth is the single source of truth for who is using the app
// and as what role. The durable store is a mirror, not a second owner:
// writes always go through this service first.
package auth

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/lithammer/shortuuid/v4"

	"github.com/akuaasantewaa/fitta/internal/errors"
	"github.com/akuaasantewaa/fitta/internal/validate"
	"github.com/akuaasantewaa/fitta/store"
)

// DefaultSessionTTL is how long a session token stays valid.
const DefaultSessionTTL = 30 * 24 * time.Hour

// Store is the subset of the durable store the session service needs.
type Store interface {
	CreateUser(ctx context.Context, create *store.User) (*store.User, error)
	GetUser(ctx context.Context, find *store.FindUser) (*store.User, error)
	UpdateUser(ctx context.Context, update *store.UpdateUser) (*store.User, error)
	CreateUserSession(ctx context.Context, create *store.UserSession) (*store.UserSession, error)
	GetUserSession(ctx context.Context, find *store.FindUserSession) (*store.UserSession, error)
	DeleteUserSession(ctx context.Context, delete *store.DeleteUserSession) (int64, error)
}

// Session is the in-memory representation of the current actor.
// Invariant: Authenticated is true iff UID and Role are both set;
// the anonymous session has both empty.
type Session struct {
	UserID        int32      `json:"-"`
	UID           string     `json:"id"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	Role          store.Role `json:"role"`
	Authenticated bool       `json:"authenticated"`
}

// Anonymous returns the unauthenticated session.
func Anonymous() Session {
	return Session{}
}

func sessionFor(user *store.User) Session {
	s := Session{
		UserID: user.ID,
		UID:    user.UID,
		Name:   user.Name,
		Email:  user.Email,
		Role:   user.Role,
	}
	s.Authenticated = s.UID != "" && s.Role.Valid()
	return s
}

// Credentials carries a login attempt.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration carries a new-identity request.
type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// ProfileUpdate carries a partial-field merge for the current identity.
type ProfileUpdate struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Profile *string `json:"profile"`
}

// Service implements the session operations.
type Service struct {
	store      Store
	cache      *sessionCache
	sessionTTL time.Duration
}

// NewService creates a session service backed by the given store.
func NewService(st Store) *Service {
	return &Service{
		store:      st,
		cache:      newSessionCache(sessionCacheCapacity, sessionCacheTTL),
		sessionTTL: DefaultSessionTTL,
	}
}

// CheckAuthStatus resolves a token against the durable store. An absent,
// unknown, or expired token yields the anonymous session without error;
// only a store fault produces a non-nil error, and even then the
// returned session is anonymous so callers can proceed.
func (s *Service) CheckAuthStatus(ctx context.Context, token string) (Session, error) {
	if token == "" {
		return Anonymous(), nil
	}
	if session, ok := s.cache.get(token); ok {
		return session, nil
	}

	record, err := s.store.GetUserSession(ctx, &store.FindUserSession{Token: &token})
	if err != nil {
		return Anonymous(), errors.StoreFailed("failed to read session", err)
	}
	if record == nil {
		return Anonymous(), nil
	}
	if record.ExpiresTs > 0 && record.ExpiresTs < time.Now().Unix() {
		if _, err := s.store.DeleteUserSession(ctx, &store.DeleteUserSession{Token: &token}); err != nil {
			slog.Warn("failed to delete expired session", "error", err)
		}
		return Anonymous(), nil
	}

	user, err := s.store.GetUser(ctx, &store.FindUser{ID: &record.UserID})
	if err != nil {
		return Anonymous(), errors.StoreFailed("failed to read user", err)
	}
	if user == nil || user.RowStatus == store.Archived {
		return Anonymous(), nil
	}

	session := sessionFor(user)
	s.cache.set(token, session)
	return session, nil
}

// Login authenticates credentials against a role-specific identity and,
// on success, writes the durable session record before returning the
// authenticated session and its token.
func (s *Service) Login(ctx context.Context, creds Credentials, role store.Role) (Session, string, error) {
	if !role.Valid() {
		return Anonymous(), "", errors.Unauthenticated("unknown role")
	}

	user, err := s.store.GetUser(ctx, &store.FindUser{Email: &creds.Email})
	if err != nil {
		return Anonymous(), "", errors.StoreFailed("failed to read user", err)
	}
	// A role mismatch gets the same message as a bad password so the
	// response does not leak which accounts exist under which role.
	if user == nil || user.Role != role || !CheckPassword(creds.Password, user.PasswordHash) {
		return Anonymous(), "", errors.Unauthenticated("invalid email or password")
	}

	token, err := s.createSession(ctx, user)
	if err != nil {
		return Anonymous(), "", err
	}
	return sessionFor(user), token, nil
}

// Register creates a new identity and logs it in, same contract as Login.
func (s *Service) Register(ctx context.Context, reg Registration, role store.Role) (Session, string, error) {
	if !role.Valid() {
		return Anonymous(), "", errors.Unauthenticated("unknown role")
	}

	form := map[string]string{
		"name":     reg.Name,
		"email":    reg.Email,
		"phone":    reg.Phone,
		"password": reg.Password,
	}
	for _, field := range []string{"name", "email", "phone", "password"} {
		if err := validate.Field(field, form[field], form); err != nil {
			return Anonymous(), "", err
		}
	}

	existing, err := s.store.GetUser(ctx, &store.FindUser{Email: &reg.Email})
	if err != nil {
		return Anonymous(), "", errors.StoreFailed("failed to read user", err)
	}
	if existing != nil {
		return Anonymous(), "", errors.AlreadyExists("an account with this email already exists")
	}

	hash, err := HashPassword(reg.Password)
	if err != nil {
		return Anonymous(), "", errors.Wrap(err, errors.ErrCodeStoreFailed, "failed to hash password")
	}

	user, err := s.store.CreateUser(ctx, &store.User{
		UID:          shortuuid.New(),
		Email:        reg.Email,
		Name:         reg.Name,
		Phone:        reg.Phone,
		PasswordHash: hash,
		Role:         role,
		Profile:      "{}",
	})
	if err != nil {
		return Anonymous(), "", errors.StoreFailed("failed to create user", err)
	}

	token, err := s.createSession(ctx, user)
	if err != nil {
		return Anonymous(), "", err
	}
	return sessionFor(user), token, nil
}

// Logout deletes the durable session record. The in-memory outcome is
// always anonymous; a storage fault is reported but does not keep the
// caller logged in.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	s.cache.invalidate(token)
	if _, err := s.store.DeleteUserSession(ctx, &store.DeleteUserSession{Token: &token}); err != nil {
		return errors.StoreFailed("failed to clear session", err)
	}
	return nil
}

// UpdateProfile merges partial fields into the current identity and
// re-persists. Fails only when no identity is bound to the token.
func (s *Service) UpdateProfile(ctx context.Context, token string, update ProfileUpdate) (Session, error) {
	current, err := s.CheckAuthStatus(ctx, token)
	if err != nil {
		return Anonymous(), err
	}
	if !current.Authenticated {
		return Anonymous(), errors.Unauthenticated("no identity is currently set")
	}

	storeUpdate := &store.UpdateUser{ID: current.UserID}
	if update.Name != nil {
		if err := validate.Field("name", *update.Name, nil); err != nil {
			return current, err
		}
		storeUpdate.Name = update.Name
	}
	if update.Phone != nil {
		if err := validate.Field("phone", *update.Phone, nil); err != nil {
			return current, err
		}
		storeUpdate.Phone = update.Phone
	}
	if update.Profile != nil {
		if !json.Valid([]byte(*update.Profile)) {
			return current, errors.ValidationFailed("profile", "profile must be a JSON object")
		}
		storeUpdate.Profile = update.Profile
	}

	user, err := s.store.UpdateUser(ctx, storeUpdate)
	if err != nil {
		return current, errors.StoreFailed("failed to update profile", err)
	}
	s.cache.invalidate(token)
	return sessionFor(user), nil
}

func (s *Service) createSession(ctx context.Context, user *store.User) (string, error) {
	token := uuid.New().String()
	_, err := s.store.CreateUserSession(ctx, &store.UserSession{
		Token:     token,
		UserID:    user.ID,
		Role:      user.Role,
		ExpiresTs: time.Now().Add(s.sessionTTL).Unix(),
	})
	if err != nil {
		return "", errors.StoreFailed("failed to persist session", err)
	}
	return token, nil
}
