package assistant

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akuaasantewaa/fitta/internal/notify"
	"github.com/akuaasantewaa/fitta/store"
)

// fakeStore is an in-memory assistant store for tests.
type fakeStore struct {
	conversations map[string]*store.Conversation
	messages      map[int32][]*store.ConversationMessage
	nextID        int32

	failBotAppend bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		conversations: map[string]*store.Conversation{},
		messages:      map[int32][]*store.ConversationMessage{},
	}
}

func (f *fakeStore) CreateConversation(_ context.Context, create *store.Conversation) (*store.Conversation, error) {
	f.nextID++
	conversation := *create
	conversation.ID = f.nextID
	conversation.CreatedTs = time.Now().Unix()
	conversation.RowStatus = store.Normal
	f.conversations[conversation.UID] = &conversation
	return &conversation, nil
}

func (f *fakeStore) ListConversations(_ context.Context, find *store.FindConversation) ([]*store.Conversation, error) {
	var list []*store.Conversation
	for _, c := range f.conversations {
		if find.UID != nil && c.UID != *find.UID {
			continue
		}
		if find.UserID != nil && c.UserID != *find.UserID {
			continue
		}
		if find.RowStatus != nil && c.RowStatus != *find.RowStatus {
			continue
		}
		list = append(list, c)
	}
	return list, nil
}

func (f *fakeStore) UpdateConversation(_ context.Context, update *store.UpdateConversation) (*store.Conversation, error) {
	for _, c := range f.conversations {
		if c.ID == update.ID {
			if update.Title != nil {
				c.Title = *update.Title
			}
			if update.RowStatus != nil {
				c.RowStatus = *update.RowStatus
			}
			return c, nil
		}
	}
	return nil, assert.AnError
}

func (f *fakeStore) DeleteConversation(_ context.Context, del *store.DeleteConversation) error {
	for uid, c := range f.conversations {
		if c.ID == del.ID {
			delete(f.conversations, uid)
			delete(f.messages, c.ID)
			return nil
		}
	}
	return nil
}

func (f *fakeStore) CreateConversationMessage(_ context.Context, create *store.ConversationMessage) (*store.ConversationMessage, error) {
	if f.failBotAppend && create.Sender == store.MessageSenderBot && create.Status == store.MessageStatusDelivered {
		return nil, assert.AnError
	}
	message := *create
	message.ID = int32(len(f.messages[create.ConversationID]) + 1)
	message.CreatedTs = time.Now().Unix()
	f.messages[create.ConversationID] = append(f.messages[create.ConversationID], &message)
	return &message, nil
}

func (f *fakeStore) ListConversationMessages(_ context.Context, find *store.FindConversationMessage) ([]*store.ConversationMessage, error) {
	return f.messages[*find.ConversationID], nil
}

// failingResponder always errors, forcing the canned fallback.
type failingResponder struct{}

func (failingResponder) Respond(context.Context, store.Role, []Turn, string) (Reply, error) {
	return Reply{}, assert.AnError
}

// recordingResponder captures the context it is handed per call.
type recordingResponder struct {
	histories [][]Turn
	inputs    []string
}

func (r *recordingResponder) Respond(_ context.Context, _ store.Role, history []Turn, input string) (Reply, error) {
	r.histories = append(r.histories, history)
	r.inputs = append(r.inputs, input)
	return Reply{Content: "noted"}, nil
}

func newTestService(t *testing.T, st *fakeStore, remote Responder) (*Service, *notify.Bus) {
	t.Helper()
	bus := notify.NewBus()
	t.Cleanup(bus.Close)
	svc := NewService(st, bus, remote)
	svc.delayFor = func(string) time.Duration { return 0 }
	return svc, bus
}

func startConversation(t *testing.T, svc *Service, role store.Role) *Conversation {
	t.Helper()
	conversation, err := svc.StartConversation(context.Background(), 1, role, "")
	require.NoError(t, err)
	return conversation
}

func TestSendProducesReply(t *testing.T) {
	st := newFakeStore()
	svc, _ := newTestService(t, st, nil)
	conversation := startConversation(t, svc, store.RoleVehicleOwner)

	reply, err := svc.Send(context.Background(), 1, conversation.UID, "I want to book a service appointment")
	require.NoError(t, err)
	assert.Equal(t, store.MessageSenderBot, reply.Sender)
	assert.Equal(t, store.MessageStatusDelivered, reply.Status)
	assert.False(t, reply.Urgent)
	assert.Contains(t, reply.Content, "Schedule Service")

	messages, err := svc.ListMessages(context.Background(), 1, conversation.UID)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, store.MessageSenderUser, messages[0].Sender)
	assert.Equal(t, store.MessageStatusSent, messages[0].Status)
	assert.Equal(t, store.MessageSenderBot, messages[1].Sender)

	assert.False(t, svc.IsTyping(conversation.UID))
}

func TestSendAccidentFlagsUrgentOnce(t *testing.T) {
	st := newFakeStore()
	svc, bus := newTestService(t, st, nil)
	conversation := startConversation(t, svc, store.RoleVehicleOwner)

	reply, err := svc.Send(context.Background(), 1, conversation.UID, "I just had an accident")
	require.NoError(t, err)
	assert.True(t, reply.Urgent)
	assert.Equal(t, emergencyTemplate, reply.Content)

	errorCount := 0
	for _, n := range bus.List() {
		if n.Kind == notify.KindError {
			errorCount++
		}
	}
	assert.Equal(t, 1, errorCount)
}

func TestSendsAlternateStrictly(t *testing.T) {
	st := newFakeStore()
	svc, _ := newTestService(t, st, nil)
	conversation := startConversation(t, svc, store.RoleVehicleOwner)

	for i := 0; i < 5; i++ {
		_, err := svc.Send(context.Background(), 1, conversation.UID, fmt.Sprintf("message number %d", i))
		require.NoError(t, err)
	}

	messages, err := svc.ListMessages(context.Background(), 1, conversation.UID)
	require.NoError(t, err)
	require.Len(t, messages, 10)
	for i, message := range messages {
		want := store.MessageSenderUser
		if i%2 == 1 {
			want = store.MessageSenderBot
		}
		assert.Equal(t, want, message.Sender, "position %d", i)
	}
}

func TestResponderHistoryExcludesCurrentInput(t *testing.T) {
	st := newFakeStore()
	remote := &recordingResponder{}
	svc, _ := newTestService(t, st, remote)
	conversation := startConversation(t, svc, store.RoleVehicleOwner)

	_, err := svc.Send(context.Background(), 1, conversation.UID, "first question")
	require.NoError(t, err)
	_, err = svc.Send(context.Background(), 1, conversation.UID, "second question")
	require.NoError(t, err)

	require.Len(t, remote.histories, 2)
	assert.Empty(t, remote.histories[0])
	assert.Equal(t, "first question", remote.inputs[0])

	// The second call sees the first exchange and nothing newer.
	require.Len(t, remote.histories[1], 2)
	assert.Equal(t, Turn{Sender: store.MessageSenderUser, Content: "first question"}, remote.histories[1][0])
	assert.Equal(t, store.MessageSenderBot, remote.histories[1][1].Sender)
	assert.Equal(t, "second question", remote.inputs[1])
}

func TestSendFallsBackWhenRemoteFails(t *testing.T) {
	st := newFakeStore()
	svc, _ := newTestService(t, st, failingResponder{})
	conversation := startConversation(t, svc, store.RoleInsurance)

	reply, err := svc.Send(context.Background(), 1, conversation.UID, "what does this policy coverage include")
	require.NoError(t, err)
	assert.Equal(t, replyTemplates[store.RoleInsurance][IntentCoverage], reply.Content)
}

func TestSendFaultYieldsApology(t *testing.T) {
	st := newFakeStore()
	svc, _ := newTestService(t, st, nil)
	conversation := startConversation(t, svc, store.RoleVehicleOwner)

	st.failBotAppend = true
	reply, err := svc.Send(context.Background(), 1, conversation.UID, "how much does a service cost")
	require.NoError(t, err)
	assert.Equal(t, store.MessageStatusError, reply.Status)
	assert.Equal(t, apologyTemplate, reply.Content)

	// The typing flag is never left stuck.
	assert.False(t, svc.IsTyping(conversation.UID))
}

func TestSendHonorsCancellation(t *testing.T) {
	st := newFakeStore()
	svc, _ := newTestService(t, st, nil)
	svc.delayFor = func(string) time.Duration { return time.Minute }
	conversation := startConversation(t, svc, store.RoleVehicleOwner)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := svc.Send(ctx, 1, conversation.UID, "hello")
		done <- err
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.Error(t, err)
	case <-time.After(time.Second):
		t.Fatal("send did not return after cancellation")
	}
	assert.False(t, svc.IsTyping(conversation.UID))
}

func TestSendRejectsForeignConversation(t *testing.T) {
	st := newFakeStore()
	svc, _ := newTestService(t, st, nil)
	conversation := startConversation(t, svc, store.RoleVehicleOwner)

	_, err := svc.Send(context.Background(), 2, conversation.UID, "hello")
	require.Error(t, err)
}

func TestDeleteEmptyConversationDropsRow(t *testing.T) {
	st := newFakeStore()
	svc, _ := newTestService(t, st, nil)
	conversation := startConversation(t, svc, store.RoleVehicleOwner)

	require.NoError(t, svc.DeleteConversation(context.Background(), 1, conversation.UID))

	assert.Empty(t, st.conversations)
	_, err := svc.ListMessages(context.Background(), 1, conversation.UID)
	require.Error(t, err)
}

func TestDeleteConversationWithMessagesArchives(t *testing.T) {
	st := newFakeStore()
	svc, _ := newTestService(t, st, nil)
	conversation := startConversation(t, svc, store.RoleVehicleOwner)

	_, err := svc.Send(context.Background(), 1, conversation.UID, "hello there")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteConversation(context.Background(), 1, conversation.UID))

	// The rows survive but the conversation is gone from the user's view.
	require.Len(t, st.conversations, 1)
	assert.Equal(t, store.Archived, st.conversations[conversation.UID].RowStatus)

	list, err := svc.ListConversations(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = svc.ListMessages(context.Background(), 1, conversation.UID)
	require.Error(t, err)
	_, err = svc.Send(context.Background(), 1, conversation.UID, "still there?")
	require.Error(t, err)
}
