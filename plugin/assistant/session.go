package assistant

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/lithammer/shortuuid/v4"

	"github.com/akuaasantewaa/fitta/internal/errors"
	"github.com/akuaasantewaa/fitta/internal/notify"
	"github.com/akuaasantewaa/fitta/store"
)

const (
	// Synthetic latency bounds for reply delivery.
	minReplyDelay = 300 * time.Millisecond
	maxReplyDelay = 1500 * time.Millisecond
	delayPerRune  = 15 * time.Millisecond

	maxInputLength = 2000
)

// Store is the subset of the durable store the assistant needs.
type Store interface {
	CreateConversation(ctx context.Context, create *store.Conversation) (*store.Conversation, error)
	ListConversations(ctx context.Context, find *store.FindConversation) ([]*store.Conversation, error)
	UpdateConversation(ctx context.Context, update *store.UpdateConversation) (*store.Conversation, error)
	DeleteConversation(ctx context.Context, delete *store.DeleteConversation) error
	CreateConversationMessage(ctx context.Context, create *store.ConversationMessage) (*store.ConversationMessage, error)
	ListConversationMessages(ctx context.Context, find *store.FindConversationMessage) ([]*store.ConversationMessage, error)
}

// Message is one transcript turn as exposed over the API.
type Message struct {
	UID       string              `json:"id"`
	Sender    store.MessageSender `json:"sender"`
	Status    store.MessageStatus `json:"status"`
	Content   string              `json:"content"`
	Urgent    bool                `json:"urgent,omitempty"`
	CreatedTs int64               `json:"createdTs"`
}

// Conversation is a transcript handle as exposed over the API.
type Conversation struct {
	UID       string     `json:"id"`
	Role      store.Role `json:"role"`
	Title     string     `json:"title"`
	CreatedTs int64      `json:"createdTs"`
}

// conversationState holds the transient per-conversation flags. sendMu
// serializes sends so two overlapping turns cannot interleave their
// typing flags or append out of order.
type conversationState struct {
	sendMu sync.Mutex

	mu     sync.Mutex
	typing bool
}

func (cs *conversationState) setTyping(v bool) {
	cs.mu.Lock()
	cs.typing = v
	cs.mu.Unlock()
}

func (cs *conversationState) isTyping() bool {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.typing
}

// Service maintains transcripts and produces a reply to every user turn.
type Service struct {
	store  Store
	bus    *notify.Bus
	remote Responder
	canned *CannedResponder

	mu     sync.Mutex
	states map[string]*conversationState

	// delayFor is swappable so tests do not sleep.
	delayFor func(input string) time.Duration
}

// NewService creates the assistant service. remote may be nil, in which
// case every reply comes from the canned responder.
func NewService(st Store, bus *notify.Bus, remote Responder) *Service {
	return &Service{
		store:    st,
		bus:      bus,
		remote:   remote,
		canned:   NewCannedResponder(),
		states:   map[string]*conversationState{},
		delayFor: defaultDelay,
	}
}

// defaultDelay computes the synthetic reply latency for an input.
func defaultDelay(input string) time.Duration {
	d := minReplyDelay + time.Duration(len([]rune(input)))*delayPerRune
	if d > maxReplyDelay {
		d = maxReplyDelay
	}
	return d
}

func (s *Service) state(uid string) *conversationState {
	s.mu.Lock()
	defer s.mu.Unlock()
	cs, ok := s.states[uid]
	if !ok {
		cs = &conversationState{}
		s.states[uid] = cs
	}
	return cs
}

// StartConversation creates a new transcript for the user.
func (s *Service) StartConversation(ctx context.Context, userID int32, role store.Role, title string) (*Conversation, error) {
	if title == "" {
		title = "New conversation"
	}
	conversation, err := s.store.CreateConversation(ctx, &store.Conversation{
		UID:    shortuuid.New(),
		UserID: userID,
		Role:   role,
		Title:  title,
	})
	if err != nil {
		return nil, errors.StoreFailed("failed to create conversation", err)
	}
	return toConversationView(conversation), nil
}

// ListConversations returns the user's transcripts, newest first.
func (s *Service) ListConversations(ctx context.Context, userID int32) ([]*Conversation, error) {
	normal := store.Normal
	list, err := s.store.ListConversations(ctx, &store.FindConversation{
		UserID:    &userID,
		RowStatus: &normal,
	})
	if err != nil {
		return nil, errors.StoreFailed("failed to list conversations", err)
	}
	views := make([]*Conversation, 0, len(list))
	for _, c := range list {
		views = append(views, toConversationView(c))
	}
	return views, nil
}

// DeleteConversation removes a transcript from the user's list. A
// conversation that already holds messages is archived so the rows stay
// readable for support; an empty one is dropped outright.
func (s *Service) DeleteConversation(ctx context.Context, userID int32, conversationUID string) error {
	conversation, err := s.ownedConversation(ctx, userID, conversationUID)
	if err != nil {
		return err
	}

	rows, err := s.store.ListConversationMessages(ctx, &store.FindConversationMessage{
		ConversationID: &conversation.ID,
	})
	if err != nil {
		return errors.StoreFailed("failed to read conversation", err)
	}

	if len(rows) == 0 {
		if err := s.store.DeleteConversation(ctx, &store.DeleteConversation{ID: conversation.ID}); err != nil {
			return errors.StoreFailed("failed to delete conversation", err)
		}
	} else {
		archived := store.Archived
		now := time.Now().Unix()
		if _, err := s.store.UpdateConversation(ctx, &store.UpdateConversation{
			ID:        conversation.ID,
			RowStatus: &archived,
			UpdatedTs: &now,
		}); err != nil {
			return errors.StoreFailed("failed to archive conversation", err)
		}
	}

	s.mu.Lock()
	delete(s.states, conversationUID)
	s.mu.Unlock()
	return nil
}

// ListMessages returns the transcript in insertion order.
func (s *Service) ListMessages(ctx context.Context, userID int32, conversationUID string) ([]*Message, error) {
	conversation, err := s.ownedConversation(ctx, userID, conversationUID)
	if err != nil {
		return nil, err
	}
	rows, err := s.store.ListConversationMessages(ctx, &store.FindConversationMessage{
		ConversationID: &conversation.ID,
	})
	if err != nil {
		return nil, errors.StoreFailed("failed to list messages", err)
	}
	messages := make([]*Message, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, toMessageView(row))
	}
	return messages, nil
}

// IsTyping reports the conversation's transient typing flag.
func (s *Service) IsTyping(conversationUID string) bool {
	return s.state(conversationUID).isTyping()
}

// Send appends the user's turn and produces the reply. The sequence per
// turn is fixed: user message (sent), typing on, bounded delay, reply
// resolution, bot message (delivered), typing off. Any fault after the
// user message lands yields an apologetic bot message with status error
// instead, and the typing flag is always cleared.
func (s *Service) Send(ctx context.Context, userID int32, conversationUID, input string) (*Message, error) {
	if input == "" {
		return nil, errors.ValidationFailed("message", "Message must not be empty")
	}
	if len(input) > maxInputLength {
		return nil, errors.ValidationFailed("message", "Message is too long")
	}

	conversation, err := s.ownedConversation(ctx, userID, conversationUID)
	if err != nil {
		return nil, err
	}

	cs := s.state(conversationUID)
	cs.sendMu.Lock()
	defer cs.sendMu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, errors.ContextCanceled(err)
	}

	// Capture the prior turns before the current input lands, so the
	// responder context holds only what came before this turn.
	history := s.recentHistory(ctx, conversation.ID)

	if _, err := s.store.CreateConversationMessage(ctx, &store.ConversationMessage{
		UID:            shortuuid.New(),
		ConversationID: conversation.ID,
		Sender:         store.MessageSenderUser,
		Status:         store.MessageStatusSent,
		Content:        input,
		Metadata:       "{}",
	}); err != nil {
		return nil, errors.StoreFailed("failed to append message", err)
	}

	cs.setTyping(true)
	defer cs.setTyping(false)

	select {
	case <-time.After(s.delayFor(input)):
	case <-ctx.Done():
		return nil, errors.ContextCanceled(ctx.Err())
	}

	reply := s.resolveReply(ctx, conversation.Role, history, input)

	row, err := s.store.CreateConversationMessage(ctx, &store.ConversationMessage{
		UID:            shortuuid.New(),
		ConversationID: conversation.ID,
		Sender:         store.MessageSenderBot,
		Status:         store.MessageStatusDelivered,
		Content:        reply.Content,
		Metadata:       replyMetadata(reply),
	})
	if err != nil {
		return s.appendApology(ctx, conversation.ID)
	}

	if reply.Urgent {
		s.bus.Error("Emergency flagged", "Your message was flagged as urgent and our response team has been notified.")
	}

	return toMessageView(row), nil
}

// resolveReply tries the remote responder when one is configured and
// falls back to canned text on any failure. The canned path cannot fail.
func (s *Service) resolveReply(ctx context.Context, role store.Role, history []Turn, input string) Reply {
	if s.remote != nil {
		reply, err := s.remote.Respond(ctx, role, history, input)
		if err == nil {
			return reply
		}
		slog.Warn("remote responder failed, falling back to canned reply", "error", err)
	}

	reply, _ := s.canned.Respond(ctx, role, history, input)
	return reply
}

// recentHistory loads the prior turns for responder context. A failed
// read degrades to an empty history rather than failing the turn.
func (s *Service) recentHistory(ctx context.Context, conversationID int32) []Turn {
	rows, err := s.store.ListConversationMessages(ctx, &store.FindConversationMessage{
		ConversationID: &conversationID,
	})
	if err != nil {
		slog.Warn("failed to load conversation history", "error", err)
		return nil
	}
	turns := make([]Turn, 0, len(rows))
	for _, row := range rows {
		if row.Status == store.MessageStatusError {
			continue
		}
		turns = append(turns, Turn{Sender: row.Sender, Content: row.Content})
	}
	return turns
}

// appendApology records the error turn after a mid-turn fault.
func (s *Service) appendApology(ctx context.Context, conversationID int32) (*Message, error) {
	row, err := s.store.CreateConversationMessage(ctx, &store.ConversationMessage{
		UID:            shortuuid.New(),
		ConversationID: conversationID,
		Sender:         store.MessageSenderBot,
		Status:         store.MessageStatusError,
		Content:        apologyTemplate,
		Metadata:       "{}",
	})
	if err != nil {
		return nil, errors.StoreFailed("failed to append message", err)
	}
	return toMessageView(row), nil
}

func (s *Service) ownedConversation(ctx context.Context, userID int32, conversationUID string) (*store.Conversation, error) {
	list, err := s.store.ListConversations(ctx, &store.FindConversation{UID: &conversationUID})
	if err != nil {
		return nil, errors.StoreFailed("failed to read conversation", err)
	}
	if len(list) == 0 || list[0].RowStatus == store.Archived {
		return nil, errors.NotFound("conversation not found")
	}
	if list[0].UserID != userID {
		return nil, errors.PermissionDenied("conversation belongs to another user")
	}
	return list[0], nil
}

func replyMetadata(reply Reply) string {
	raw, err := json.Marshal(map[string]any{"urgent": reply.Urgent})
	if err != nil {
		return "{}"
	}
	return string(raw)
}

func toConversationView(c *store.Conversation) *Conversation {
	return &Conversation{
		UID:       c.UID,
		Role:      c.Role,
		Title:     c.Title,
		CreatedTs: c.CreatedTs,
	}
}

func toMessageView(row *store.ConversationMessage) *Message {
	var meta struct {
		Urgent bool `json:"urgent"`
	}
	if row.Metadata != "" {
		_ = json.Unmarshal([]byte(row.Metadata), &meta)
	}
	return &Message{
		UID:       row.UID,
		Sender:    row.Sender,
		Status:    row.Status,
		Content:   row.Content,
		Urgent:    meta.Urgent,
		CreatedTs: row.CreatedTs,
	}
}
