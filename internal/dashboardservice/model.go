package dashboardservice

import (
	"context"
	"database/sql"

	"github.com/sushihentaime/agencysite/internal/common"
	"github.com/sushihentaime/agencysite/internal/userservice"
)

const moderatorCheck = `
	EXISTS (
		SELECT 1 FROM user_permissions
		WHERE user_id = $1 AND permission = $2
	)`

func newDashboardModel(db *sql.DB) *DashboardModel {
	return &DashboardModel{db: db}
}

// count reads the row count of kind's table. The permission check and the count run as
// one statement; a NULL result means the actor is not a moderator. kind must be valid.
func (m *DashboardModel) count(ctx context.Context, actorID int, kind common.EntityKind) (int, error) {
	query := `
		SELECT CASE WHEN` + moderatorCheck + `
		THEN (SELECT COUNT(*) FROM ` + string(kind) + `)
		END`

	var n sql.NullInt64
	if err := m.db.QueryRowContext(ctx, query, actorID, userservice.PermissionModerate).Scan(&n); err != nil {
		return 0, err
	}
	if !n.Valid {
		return 0, common.ErrForbidden
	}

	return int(n.Int64), nil
}

func (m *DashboardModel) authorize(ctx context.Context, actorID int) error {
	var allowed bool
	if err := m.db.QueryRowContext(ctx, `SELECT`+moderatorCheck, actorID, userservice.PermissionModerate).Scan(&allowed); err != nil {
		return err
	}
	if !allowed {
		return common.ErrForbidden
	}
	return nil
}
