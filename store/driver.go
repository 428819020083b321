package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all methods that store database driver should implement.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	IsInitialized(ctx context.Context) (bool, error)

	// User model related methods.
	CreateUser(ctx context.Context, create *User) (*User, error)
	ListUsers(ctx context.Context, find *FindUser) ([]*User, error)
	UpdateUser(ctx context.Context, update *UpdateUser) (*User, error)
	DeleteUser(ctx context.Context, delete *DeleteUser) error

	// UserSession model related methods.
	CreateUserSession(ctx context.Context, create *UserSession) (*UserSession, error)
	ListUserSessions(ctx context.Context, find *FindUserSession) ([]*UserSession, error)
	DeleteUserSession(ctx context.Context, delete *DeleteUserSession) (int64, error)

	// Conversation model related methods.
	CreateConversation(ctx context.Context, create *Conversation) (*Conversation, error)
	ListConversations(ctx context.Context, find *FindConversation) ([]*Conversation, error)
	UpdateConversation(ctx context.Context, update *UpdateConversation) (*Conversation, error)
	DeleteConversation(ctx context.Context, delete *DeleteConversation) error

	// ConversationMessage model related methods.
	CreateConversationMessage(ctx context.Context, create *ConversationMessage) (*ConversationMessage, error)
	ListConversationMessages(ctx context.Context, find *FindConversationMessage) ([]*ConversationMessage, error)
	DeleteConversationMessage(ctx context.Context, delete *DeleteConversationMessage) error

	// Payment model related methods.
	CreatePayment(ctx context.Context, create *Payment) (*Payment, error)
	ListPayments(ctx context.Context, find *FindPayment) ([]*Payment, error)
	UpdatePayment(ctx context.Context, update *UpdatePayment) (*Payment, error)
}
