package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/sashabaranov/go-openai"
	"golang.org/x/sync/semaphore"

	"github.com/akuaasantewaa/fitta/store"
)

const (
	// historyWindow bounds how many prior turns the remote call carries.
	historyWindow = 10

	defaultMaxRetries = 2

	// maxConcurrentCompletions bounds in-flight remote calls so a burst
	// of chat traffic cannot exhaust the provider quota.
	maxConcurrentCompletions = 8
)

// RemoteConfig holds the remote text-generation provider configuration.
type RemoteConfig struct {
	BaseURL    string
	APIKey     string
	Model      string
	MaxRetries int
	Timeout    time.Duration
}

// RemoteResponder delegates reply generation to an OpenAI-compatible
// chat-completion endpoint. Callers are expected to fall back to the
// canned responder on any error.
type RemoteResponder struct {
	client *openai.Client
	config RemoteConfig
	sem    *semaphore.Weighted
}

// NewRemoteResponder creates a remote responder.
func NewRemoteResponder(cfg RemoteConfig) *RemoteResponder {
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &RemoteResponder{
		client: openai.NewClientWithConfig(clientConfig),
		config: cfg,
		sem:    semaphore.NewWeighted(maxConcurrentCompletions),
	}
}

// rolePreambles are the role-specific instruction preambles. The remote
// model answers as the in-app assistant for that audience.
var rolePreambles = map[store.Role]string{
	store.RoleVehicleOwner: "You are the in-app assistant of a vehicle " +
		"services platform, talking to a vehicle owner. Help with booking " +
		"services, pricing questions, and repair status. Keep answers short " +
		"and practical. If the user describes an accident or breakdown, " +
		"treat it as an emergency and tell them help is being dispatched.",
	store.RoleGaragePartner: "You are the in-app assistant of a vehicle " +
		"services platform, talking to a garage partner. Help with job " +
		"requests, payouts, and availability. Keep answers short and " +
		"practical.",
	store.RoleInsurance: "You are the in-app assistant of a vehicle " +
		"services platform, talking to an insurance agent. Help with policy " +
		"coverage and claims processing. Keep answers short and practical.",
	store.RoleAdmin: "You are the in-app assistant of a vehicle services " +
		"platform, talking to a platform administrator. Help with reports, " +
		"analytics, and account management. Keep answers short and " +
		"practical.",
}

// Respond performs the chat completion. The urgent flag still comes from
// the local classifier so emergency handling never depends on the remote.
func (r *RemoteResponder) Respond(ctx context.Context, role store.Role, history []Turn, input string) (Reply, error) {
	ctx, cancel := context.WithTimeout(ctx, r.config.Timeout)
	defer cancel()

	if err := r.sem.Acquire(ctx, 1); err != nil {
		return Reply{}, err
	}
	defer r.sem.Release(1)

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: rolePreambles[role]},
	}
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}
	for _, turn := range history {
		msgRole := openai.ChatMessageRoleUser
		if turn.Sender == store.MessageSenderBot {
			msgRole = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    msgRole,
			Content: turn.Content,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: input,
	})

	var content string
	err := r.doWithRetry(ctx, func() error {
		resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:    r.config.Model,
			Messages: messages,
		})
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return fmt.Errorf("empty chat response")
		}
		content = resp.Choices[0].Message.Content
		return nil
	})
	if err != nil {
		return Reply{}, fmt.Errorf("failed to complete chat: %w", err)
	}

	return Reply{
		Content: content,
		Urgent:  Classify(role, input).Urgent,
	}, nil
}

// doWithRetry executes a function with exponential backoff retry.
func (r *RemoteResponder) doWithRetry(ctx context.Context, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt < r.config.MaxRetries; attempt++ {
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			if attempt < r.config.MaxRetries-1 {
				waitTime := time.Duration(math.Pow(2, float64(attempt))) * time.Second
				slog.Debug("assistant request failed, retrying",
					"attempt", attempt+1,
					"wait_time", waitTime,
					"error", err)
				select {
				case <-time.After(waitTime):
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
	}
	return lastErr
}
