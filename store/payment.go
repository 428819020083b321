package store

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusSuccess   PaymentStatus = "SUCCESS"
	PaymentStatusCancelled PaymentStatus = "CANCELLED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
	// PaymentStatusUnknown records that verification could not reach
	// the provider. It is an explicit state, never coerced to success.
	PaymentStatusUnknown PaymentStatus = "UNKNOWN"
)

type Payment struct {
	ID        int32
	Reference string
	UserID    int32
	Email     string
	// AmountSubunits is the amount in the smallest currency unit.
	AmountSubunits int64
	Currency       string
	Status         PaymentStatus
	// ProviderRef is the provider-supplied reference on success.
	ProviderRef string
	Metadata    string
	CreatedTs   int64
	UpdatedTs   int64
}

type FindPayment struct {
	ID        *int32
	Reference *string
	UserID    *int32
	Status    *PaymentStatus
	Limit     *int
}

type UpdatePayment struct {
	ID          int32
	Status      *PaymentStatus
	ProviderRef *string
	UpdatedTs   *int64
}
