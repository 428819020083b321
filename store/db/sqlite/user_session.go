package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/akuaasantewaa/fitta/store"
)

func (d *DB) CreateUserSession(ctx context.Context, create *store.UserSession) (*store.UserSession, error) {
	stmt := `INSERT INTO user_session (token, user_id, role, expires_ts)
		VALUES (` + placeholders(4) + `)
		RETURNING id, created_ts`

	if err := d.db.QueryRowContext(ctx, stmt,
		create.Token, create.UserID, create.Role, create.ExpiresTs,
	).Scan(&create.ID, &create.CreatedTs); err != nil {
		return nil, fmt.Errorf("failed to create user session: %w", err)
	}

	return create, nil
}

func (d *DB) ListUserSessions(ctx context.Context, find *store.FindUserSession) ([]*store.UserSession, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.Token; v != nil {
		where, args = append(where, "token = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.UserID; v != nil {
		where, args = append(where, "user_id = "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `
		SELECT id, token, user_id, role, created_ts, expires_ts
		FROM user_session
		WHERE ` + strings.Join(where, " AND ") + ` ORDER BY id ASC`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query user sessions: %w", err)
	}
	defer rows.Close()

	list := make([]*store.UserSession, 0)
	for rows.Next() {
		var session store.UserSession
		if err := rows.Scan(
			&session.ID,
			&session.Token,
			&session.UserID,
			&session.Role,
			&session.CreatedTs,
			&session.ExpiresTs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan user session: %w", err)
		}
		list = append(list, &session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate user sessions: %w", err)
	}

	return list, nil
}

func (d *DB) DeleteUserSession(ctx context.Context, delete *store.DeleteUserSession) (int64, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := delete.Token; v != nil {
		where, args = append(where, "token = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := delete.UserID; v != nil {
		where, args = append(where, "user_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := delete.ExpiredBefore; v != nil {
		where, args = append(where, "expires_ts < "+placeholder(len(args)+1)), append(args, *v)
	}

	result, err := d.db.ExecContext(ctx, `DELETE FROM user_session WHERE `+strings.Join(where, " AND "), args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete user sessions: %w", err)
	}
	return result.RowsAffected()
}
