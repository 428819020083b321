package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akuaasantewaa/fitta/store"
)

func TestGenerateReferenceDistinct(t *testing.T) {
	seen := make(map[string]struct{}, 10000)
	for i := 0; i < 10000; i++ {
		ref := GenerateReference("FITTA")
		assert.True(t, strings.HasPrefix(ref, "FITTA_"))
		_, dup := seen[ref]
		require.False(t, dup, "duplicate reference %s", ref)
		seen[ref] = struct{}{}
	}
}

func TestClientInitialize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/transaction/initialize", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_key", r.Header.Get("Authorization"))

		var req InitializeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(15000), req.AmountSubunits)
		assert.Equal(t, "GHS", req.Currency)

		json.NewEncoder(w).Encode(map[string]any{
			"status":  true,
			"message": "Authorization URL created",
			"data": map[string]any{
				"authorization_url": "https://checkout.example.com/abc",
				"access_code":       "abc",
				"reference":         req.Reference,
			},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "sk_test_key")
	result, err := client.Initialize(context.Background(), InitializeRequest{
		Email:          "ama@example.com",
		AmountSubunits: 15000,
		Currency:       "GHS",
		Reference:      "FITTA_1_aa",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.example.com/abc", result.AuthorizationURL)
	assert.Equal(t, "abc", result.AccessCode)
}

func TestClientInitializeRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"status": false, "message": "Invalid key"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "sk_bad")
	_, err := client.Initialize(context.Background(), InitializeRequest{Email: "a@b.co", AmountSubunits: 100})
	require.Error(t, err)
}

func TestClientVerifyOutcomes(t *testing.T) {
	tests := []struct {
		provider string
		want     store.PaymentStatus
	}{
		{"success", store.PaymentStatusSuccess},
		{"abandoned", store.PaymentStatusCancelled},
		{"failed", store.PaymentStatusFailed},
		{"ongoing", store.PaymentStatusPending},
	}
	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.True(t, strings.HasPrefix(r.URL.Path, "/transaction/verify/"))
				json.NewEncoder(w).Encode(map[string]any{
					"status": true,
					"data":   map[string]any{"status": tt.provider, "reference": "FITTA_1_aa", "id": 42},
				})
			}))
			defer srv.Close()

			client := NewClient(srv.URL, "sk_test_key")
			result, err := client.Verify(context.Background(), "FITTA_1_aa")
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.Status)
			assert.True(t, result.Verified)
		})
	}
}

func TestClientVerifyUnreachableIsUnknown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // connection refused from here on

	client := NewClient(srv.URL, "sk_test_key")
	result, err := client.Verify(context.Background(), "FITTA_1_aa")
	require.Error(t, err)
	assert.Equal(t, store.PaymentStatusUnknown, result.Status)
	assert.False(t, result.Verified)
}

// fakePaymentStore is an in-memory payment store.
type fakePaymentStore struct {
	payments []*store.Payment
	nextID   int32
}

func (f *fakePaymentStore) CreatePayment(_ context.Context, create *store.Payment) (*store.Payment, error) {
	f.nextID++
	payment := *create
	payment.ID = f.nextID
	payment.CreatedTs = time.Now().Unix()
	f.payments = append(f.payments, &payment)
	return &payment, nil
}

func (f *fakePaymentStore) ListPayments(_ context.Context, find *store.FindPayment) ([]*store.Payment, error) {
	var list []*store.Payment
	for _, p := range f.payments {
		if find.Reference != nil && p.Reference != *find.Reference {
			continue
		}
		if find.UserID != nil && p.UserID != *find.UserID {
			continue
		}
		list = append(list, p)
	}
	return list, nil
}

func (f *fakePaymentStore) UpdatePayment(_ context.Context, update *store.UpdatePayment) (*store.Payment, error) {
	for _, p := range f.payments {
		if p.ID == update.ID {
			if update.Status != nil {
				p.Status = *update.Status
			}
			if update.ProviderRef != nil {
				p.ProviderRef = *update.ProviderRef
			}
			return p, nil
		}
	}
	return nil, assert.AnError
}

// scriptedProvider returns pre-set results.
type scriptedProvider struct {
	initResult   *InitializeResult
	initErr      error
	verifyResult *VerifyResult
	verifyErr    error
}

func (p *scriptedProvider) Initialize(_ context.Context, req InitializeRequest) (*InitializeResult, error) {
	if p.initErr != nil {
		return nil, p.initErr
	}
	result := *p.initResult
	result.Reference = req.Reference
	return &result, nil
}

func (p *scriptedProvider) Verify(_ context.Context, reference string) (*VerifyResult, error) {
	if p.verifyErr != nil {
		return &VerifyResult{Status: store.PaymentStatusUnknown, Reference: reference}, p.verifyErr
	}
	return p.verifyResult, nil
}

func TestServiceInitializeRecordsPending(t *testing.T) {
	st := &fakePaymentStore{}
	svc := NewService(&scriptedProvider{
		initResult: &InitializeResult{AuthorizationURL: "https://checkout.example.com/x", AccessCode: "x"},
	}, st, "GHS")

	checkout, err := svc.Initialize(context.Background(), 1, "ama@example.com", 15000, map[string]any{"service": "diagnostics"})
	require.NoError(t, err)
	assert.NotEmpty(t, checkout.Reference)
	assert.Equal(t, "https://checkout.example.com/x", checkout.AuthorizationURL)

	require.Len(t, st.payments, 1)
	assert.Equal(t, store.PaymentStatusPending, st.payments[0].Status)
	assert.Equal(t, int64(15000), st.payments[0].AmountSubunits)
}

func TestServiceInitializeProviderFailure(t *testing.T) {
	st := &fakePaymentStore{}
	svc := NewService(&scriptedProvider{initErr: assert.AnError}, st, "GHS")

	_, err := svc.Initialize(context.Background(), 1, "ama@example.com", 15000, nil)
	require.Error(t, err)
	require.Len(t, st.payments, 1)
	assert.Equal(t, store.PaymentStatusFailed, st.payments[0].Status)
}

func TestServiceVerifyRecordsOutcome(t *testing.T) {
	st := &fakePaymentStore{}
	provider := &scriptedProvider{
		initResult: &InitializeResult{AuthorizationURL: "u", AccessCode: "a"},
		verifyResult: &VerifyResult{
			Status:      store.PaymentStatusSuccess,
			ProviderRef: "42",
			Verified:    true,
		},
	}
	svc := NewService(provider, st, "GHS")

	checkout, err := svc.Initialize(context.Background(), 1, "ama@example.com", 15000, nil)
	require.NoError(t, err)

	result, err := svc.Verify(context.Background(), 1, checkout.Reference)
	require.NoError(t, err)
	assert.Equal(t, store.PaymentStatusSuccess, result.Status)
	assert.Equal(t, store.PaymentStatusSuccess, st.payments[0].Status)
	assert.Equal(t, "42", st.payments[0].ProviderRef)
}

func TestServiceVerifyUnreachableRecordsUnknown(t *testing.T) {
	st := &fakePaymentStore{}
	provider := &scriptedProvider{
		initResult: &InitializeResult{AuthorizationURL: "u", AccessCode: "a"},
		verifyErr:  assert.AnError,
	}
	svc := NewService(provider, st, "GHS")

	checkout, err := svc.Initialize(context.Background(), 1, "ama@example.com", 15000, nil)
	require.NoError(t, err)

	result, err := svc.Verify(context.Background(), 1, checkout.Reference)
	require.NoError(t, err)
	assert.Equal(t, store.PaymentStatusUnknown, result.Status)
	assert.False(t, result.Verified)
	assert.Equal(t, store.PaymentStatusUnknown, st.payments[0].Status)
}

func TestServiceVerifyForeignPayment(t *testing.T) {
	st := &fakePaymentStore{}
	provider := &scriptedProvider{initResult: &InitializeResult{AuthorizationURL: "u", AccessCode: "a"}}
	svc := NewService(provider, st, "GHS")

	checkout, err := svc.Initialize(context.Background(), 1, "ama@example.com", 15000, nil)
	require.NoError(t, err)

	_, err = svc.Verify(context.Background(), 2, checkout.Reference)
	require.Error(t, err)
}
