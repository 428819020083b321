package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/akuaasantewaa/fitta/store"
)

func (d *DB) CreatePayment(ctx context.Context, create *store.Payment) (*store.Payment, error) {
	metadata := create.Metadata
	if metadata == "" {
		metadata = "{}"
	}
	status := create.Status
	if status == "" {
		status = store.PaymentStatusPending
	}

	stmt := `INSERT INTO payment (reference, user_id, email, amount_subunits, currency, status, provider_ref, metadata)
		VALUES (` + placeholders(8) + `)
		RETURNING id, created_ts, updated_ts`

	if err := d.db.QueryRowContext(ctx, stmt,
		create.Reference, create.UserID, create.Email, create.AmountSubunits,
		create.Currency, status, create.ProviderRef, metadata,
	).Scan(&create.ID, &create.CreatedTs, &create.UpdatedTs); err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}
	create.Status = status
	create.Metadata = metadata

	return create, nil
}

func (d *DB) ListPayments(ctx context.Context, find *store.FindPayment) ([]*store.Payment, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.Reference; v != nil {
		where, args = append(where, "reference = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.UserID; v != nil {
		where, args = append(where, "user_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.Status; v != nil {
		where, args = append(where, "status = "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `
		SELECT id, reference, user_id, email, amount_subunits, currency, status, provider_ref, metadata, created_ts, updated_ts
		FROM payment
		WHERE ` + strings.Join(where, " AND ") + ` ORDER BY id DESC`
	if find.Limit != nil {
		query = fmt.Sprintf("%s LIMIT %d", query, *find.Limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Payment, 0)
	for rows.Next() {
		var payment store.Payment
		if err := rows.Scan(
			&payment.ID,
			&payment.Reference,
			&payment.UserID,
			&payment.Email,
			&payment.AmountSubunits,
			&payment.Currency,
			&payment.Status,
			&payment.ProviderRef,
			&payment.Metadata,
			&payment.CreatedTs,
			&payment.UpdatedTs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		list = append(list, &payment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", err)
	}

	return list, nil
}

func (d *DB) UpdatePayment(ctx context.Context, update *store.UpdatePayment) (*store.Payment, error) {
	set, args := []string{}, []any{}

	if v := update.Status; v != nil {
		set, args = append(set, "status = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.ProviderRef; v != nil {
		set, args = append(set, "provider_ref = "+placeholder(len(args)+1)), append(args, *v)
	}

	updatedTs := time.Now().Unix()
	if v := update.UpdatedTs; v != nil {
		updatedTs = *v
	}
	set, args = append(set, "updated_ts = "+placeholder(len(args)+1)), append(args, updatedTs)
	args = append(args, update.ID)

	stmt := `UPDATE payment SET ` + strings.Join(set, ", ") + ` WHERE id = ` + placeholder(len(args)) + `
		RETURNING id, reference, user_id, email, amount_subunits, currency, status, provider_ref, metadata, created_ts, updated_ts`

	var payment store.Payment
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(
		&payment.ID,
		&payment.Reference,
		&payment.UserID,
		&payment.Email,
		&payment.AmountSubunits,
		&payment.Currency,
		&payment.Status,
		&payment.ProviderRef,
		&payment.Metadata,
		&payment.CreatedTs,
		&payment.UpdatedTs,
	); err != nil {
		return nil, fmt.Errorf("failed to update payment: %w", err)
	}

	return &payment, nil
}
