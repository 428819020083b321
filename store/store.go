package store

import (
	"context"

	"github.com/akuaasantewaa/fitta/internal/profile"
)

// Store provides database access to all raw objects.
type Store struct {
	profile *profile.Profile
	driver  Driver
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	return &Store{
		driver:  driver,
		profile: profile,
	}
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

func (s *Store) Close() error {
	return s.driver.Close()
}

func (s *Store) CreateUser(ctx context.Context, create *User) (*User, error) {
	return s.driver.CreateUser(ctx, create)
}

func (s *Store) ListUsers(ctx context.Context, find *FindUser) ([]*User, error) {
	return s.driver.ListUsers(ctx, find)
}

// GetUser returns the single user matching find, or nil when absent.
func (s *Store) GetUser(ctx context.Context, find *FindUser) (*User, error) {
	list, err := s.driver.ListUsers(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (s *Store) UpdateUser(ctx context.Context, update *UpdateUser) (*User, error) {
	return s.driver.UpdateUser(ctx, update)
}

func (s *Store) DeleteUser(ctx context.Context, delete *DeleteUser) error {
	return s.driver.DeleteUser(ctx, delete)
}

func (s *Store) CreateUserSession(ctx context.Context, create *UserSession) (*UserSession, error) {
	return s.driver.CreateUserSession(ctx, create)
}

// GetUserSession returns the single session matching find, or nil when absent.
func (s *Store) GetUserSession(ctx context.Context, find *FindUserSession) (*UserSession, error) {
	list, err := s.driver.ListUserSessions(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (s *Store) ListUserSessions(ctx context.Context, find *FindUserSession) ([]*UserSession, error) {
	return s.driver.ListUserSessions(ctx, find)
}

func (s *Store) DeleteUserSession(ctx context.Context, delete *DeleteUserSession) (int64, error) {
	return s.driver.DeleteUserSession(ctx, delete)
}

func (s *Store) CreateConversation(ctx context.Context, create *Conversation) (*Conversation, error) {
	return s.driver.CreateConversation(ctx, create)
}

func (s *Store) ListConversations(ctx context.Context, find *FindConversation) ([]*Conversation, error) {
	return s.driver.ListConversations(ctx, find)
}

func (s *Store) UpdateConversation(ctx context.Context, update *UpdateConversation) (*Conversation, error) {
	return s.driver.UpdateConversation(ctx, update)
}

func (s *Store) DeleteConversation(ctx context.Context, delete *DeleteConversation) error {
	return s.driver.DeleteConversation(ctx, delete)
}

func (s *Store) CreateConversationMessage(ctx context.Context, create *ConversationMessage) (*ConversationMessage, error) {
	return s.driver.CreateConversationMessage(ctx, create)
}

func (s *Store) ListConversationMessages(ctx context.Context, find *FindConversationMessage) ([]*ConversationMessage, error) {
	return s.driver.ListConversationMessages(ctx, find)
}

func (s *Store) DeleteConversationMessage(ctx context.Context, delete *DeleteConversationMessage) error {
	return s.driver.DeleteConversationMessage(ctx, delete)
}

func (s *Store) CreatePayment(ctx context.Context, create *Payment) (*Payment, error) {
	return s.driver.CreatePayment(ctx, create)
}

func (s *Store) ListPayments(ctx context.Context, find *FindPayment) ([]*Payment, error) {
	return s.driver.ListPayments(ctx, find)
}

// GetPayment returns the single payment matching find, or nil when absent.
func (s *Store) GetPayment(ctx context.Context, find *FindPayment) (*Payment, error) {
	list, err := s.driver.ListPayments(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (s *Store) UpdatePayment(ctx context.Context, update *UpdatePayment) (*Payment, error) {
	return s.driver.UpdatePayment(ctx, update)
}
