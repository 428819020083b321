package payment

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/akuaasantewaa/fitta/internal/errors"
	"github.com/akuaasantewaa/fitta/store"
)

// ReferencePrefix heads every generated payment reference.
const ReferencePrefix = "FITTA"

// Provider is the hosted-checkout surface the service depends on.
type Provider interface {
	Initialize(ctx context.Context, req InitializeRequest) (*InitializeResult, error)
	Verify(ctx context.Context, reference string) (*VerifyResult, error)
}

// Store is the subset of the durable store the payment service needs.
type Store interface {
	CreatePayment(ctx context.Context, create *store.Payment) (*store.Payment, error)
	ListPayments(ctx context.Context, find *store.FindPayment) ([]*store.Payment, error)
	UpdatePayment(ctx context.Context, update *store.UpdatePayment) (*store.Payment, error)
}

// Checkout is the caller-facing view of an initialized payment.
type Checkout struct {
	Reference        string `json:"reference"`
	AuthorizationURL string `json:"authorizationUrl"`
	AccessCode       string `json:"accessCode"`
}

// Service records payments in the durable store around provider calls.
type Service struct {
	provider Provider
	store    Store
	currency string
}

// NewService creates the payment service.
func NewService(provider Provider, st Store, currency string) *Service {
	if currency == "" {
		currency = "GHS"
	}
	return &Service{
		provider: provider,
		store:    st,
		currency: currency,
	}
}

// Initialize opens a hosted checkout and records the payment as pending.
// The pending row is written before the provider call so an interrupted
// flow still leaves a verifiable trace.
func (s *Service) Initialize(ctx context.Context, userID int32, email string, amountSubunits int64, metadata map[string]any) (*Checkout, error) {
	if amountSubunits <= 0 {
		return nil, errors.ValidationFailed("amount", "Amount must be positive")
	}

	reference := GenerateReference(ReferencePrefix)
	metaRaw := "{}"
	if metadata != nil {
		if raw, err := json.Marshal(metadata); err == nil {
			metaRaw = string(raw)
		}
	}

	record, err := s.store.CreatePayment(ctx, &store.Payment{
		Reference:      reference,
		UserID:         userID,
		Email:          email,
		AmountSubunits: amountSubunits,
		Currency:       s.currency,
		Status:         store.PaymentStatusPending,
		Metadata:       metaRaw,
	})
	if err != nil {
		return nil, errors.StoreFailed("failed to record payment", err)
	}

	result, err := s.provider.Initialize(ctx, InitializeRequest{
		Email:          email,
		AmountSubunits: amountSubunits,
		Currency:       s.currency,
		Reference:      reference,
		Metadata:       metadata,
	})
	if err != nil {
		failed := store.PaymentStatusFailed
		if _, updateErr := s.store.UpdatePayment(ctx, &store.UpdatePayment{
			ID:     record.ID,
			Status: &failed,
		}); updateErr != nil {
			slog.Warn("failed to mark payment failed", "reference", reference, "error", updateErr)
		}
		return nil, errors.PaymentFailed("could not open checkout", err)
	}

	return &Checkout{
		Reference:        reference,
		AuthorizationURL: result.AuthorizationURL,
		AccessCode:       result.AccessCode,
	}, nil
}

// Verify resolves a reference against the provider and records the
// outcome. When the provider cannot be reached the payment is marked
// unknown, not successful.
func (s *Service) Verify(ctx context.Context, userID int32, reference string) (*VerifyResult, error) {
	record, err := s.paymentFor(ctx, userID, reference)
	if err != nil {
		return nil, err
	}

	result, verifyErr := s.provider.Verify(ctx, reference)
	if verifyErr != nil {
		slog.Warn("payment verification unresolved", "reference", reference, "error", verifyErr)
	}

	update := &store.UpdatePayment{ID: record.ID, Status: &result.Status}
	if result.ProviderRef != "" {
		update.ProviderRef = &result.ProviderRef
	}
	if _, err := s.store.UpdatePayment(ctx, update); err != nil {
		return nil, errors.StoreFailed("failed to record payment status", err)
	}
	return result, nil
}

// List returns the user's payments, newest first.
func (s *Service) List(ctx context.Context, userID int32) ([]*store.Payment, error) {
	list, err := s.store.ListPayments(ctx, &store.FindPayment{UserID: &userID})
	if err != nil {
		return nil, errors.StoreFailed("failed to list payments", err)
	}
	return list, nil
}

func (s *Service) paymentFor(ctx context.Context, userID int32, reference string) (*store.Payment, error) {
	list, err := s.store.ListPayments(ctx, &store.FindPayment{Reference: &reference})
	if err != nil {
		return nil, errors.StoreFailed("failed to read payment", err)
	}
	if len(list) == 0 {
		return nil, errors.NotFound("payment not found")
	}
	if list[0].UserID != userID {
		return nil, errors.PermissionDenied("payment belongs to another user")
	}
	return list[0], nil
}
