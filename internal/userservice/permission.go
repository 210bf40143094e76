package userservice

import (
	"context"
	"database/sql"
)

func (m *DBModel) addUserPermission(tx *sql.Tx, ctx context.Context, id int, permissions ...Permission) error {
	query := `
		INSERT INTO user_permissions (user_id, permission)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`

	for _, p := range permissions {
		_, err := tx.ExecContext(ctx, query, id, p)
		if err != nil {
			return err
		}
	}

	return nil
}

func (m *DBModel) getPermissions(ctx context.Context, id int) (Permissions, error) {
	query := `
		SELECT permission
		FROM user_permissions
		WHERE user_id = $1
		ORDER BY permission`

	rows, err := m.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var permissions Permissions
	for rows.Next() {
		var p Permission
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		permissions = append(permissions, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return permissions, nil
}

func (p Permissions) Include(permission Permission) bool {
	for _, have := range p {
		if have == permission {
			return true
		}
	}
	return false
}
