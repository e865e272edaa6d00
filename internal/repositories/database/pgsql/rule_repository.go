package pgsql

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerline/ledgerline_backend/internal/apperrors"
	portsrepo "github.com/ledgerline/ledgerline_backend/internal/core/ports/repositories"
)

type PgxRuleRepository struct {
	BaseRepository
}

func newPgxRuleRepository(pool *pgxpool.Pool) portsrepo.RuleWriter {
	return &PgxRuleRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.RuleWriter = (*PgxRuleRepository)(nil)

// MarkRuleReviewed transitions a SUGGESTED rule with a conditional
// update. Zero rows affected means the rule was already reviewed or
// does not exist.
func (r *PgxRuleRepository) MarkRuleReviewed(ctx context.Context, tenantID, ruleID, status, userID string, at time.Time) (bool, error) {
	query := `
		UPDATE automation_rules
		SET status = $3, reviewed_at = $4, reviewed_by = $5, last_updated_at = $4, last_updated_by = $5
		WHERE rule_id = $1 AND tenant_id = $2 AND status = 'SUGGESTED';
	`
	tag, err := r.Pool.Exec(ctx, query, ruleID, tenantID, status, at, userID)
	if err != nil {
		return false, apperrors.NewAppError(500, "failed to review rule "+ruleID, err)
	}
	return tag.RowsAffected() == 1, nil
}
