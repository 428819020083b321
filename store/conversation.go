package store

type Conversation struct {
	ID        int32
	UID       string
	UserID    int32
	Role      Role
	Title     string
	CreatedTs int64
	UpdatedTs int64
	RowStatus RowStatus
}

type FindConversation struct {
	ID        *int32
	UID       *string
	UserID    *int32
	RowStatus *RowStatus
	Limit     *int
}

type UpdateConversation struct {
	ID        int32
	Title     *string
	RowStatus *RowStatus
	UpdatedTs *int64
}

type DeleteConversation struct {
	ID int32
}

type MessageSender string

const (
	MessageSenderUser   MessageSender = "USER"
	MessageSenderBot    MessageSender = "BOT"
	MessageSenderSystem MessageSender = "SYSTEM"
)

type MessageStatus string

const (
	MessageStatusSent      MessageStatus = "SENT"
	MessageStatusDelivered MessageStatus = "DELIVERED"
	MessageStatusRead      MessageStatus = "READ"
	MessageStatusError     MessageStatus = "ERROR"
)

type ConversationMessage struct {
	ID             int32
	UID            string
	ConversationID int32
	Sender         MessageSender
	Status         MessageStatus
	Content        string
	// Metadata is a JSON string (urgent flag, intent tag).
	Metadata  string
	CreatedTs int64
}

type FindConversationMessage struct {
	ID             *int32
	UID            *string
	ConversationID *int32
}

type DeleteConversationMessage struct {
	ID             *int32
	ConversationID *int32
}
