package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fpl-team-builder/internal/domain/roster"
	qb "github.com/riskibarqy/fpl-team-builder/internal/platform/querybuilder"
)

const rostersTable = "rosters"

var rosterColumns = qb.Columns(rosterTableModel{})

type RosterRepository struct {
	db *sqlx.DB
}

func NewRosterRepository(db *sqlx.DB) *RosterRepository {
	return &RosterRepository{db: db}
}

func (r *RosterRepository) Create(ctx context.Context, item roster.Roster) error {
	row, err := newRosterWriteModel(item)
	if err != nil {
		return fmt.Errorf("build roster row id=%s: %w", item.ID, err)
	}
	query, args, err := qb.InsertModel(rostersTable, row)
	if err != nil {
		return fmt.Errorf("build insert roster query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: id=%s", roster.ErrAlreadyExists, item.ID)
		}
		return fmt.Errorf("insert roster id=%s: %w", item.ID, err)
	}

	return nil
}

func (r *RosterRepository) Get(ctx context.Context, rosterID string) (roster.Roster, bool, error) {
	query, args, err := qb.Select(rosterColumns...).
		From(rostersTable).
		Where(qb.Eq("public_id", rosterID), qb.IsNull("deleted_at")).
		ToSQL()
	if err != nil {
		return roster.Roster{}, false, fmt.Errorf("build get roster query: %w", err)
	}

	var row rosterTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return roster.Roster{}, false, nil
		}
		return roster.Roster{}, false, fmt.Errorf("get roster id=%s: %w", rosterID, err)
	}

	item, err := row.toDomain()
	if err != nil {
		return roster.Roster{}, false, err
	}
	return item, true, nil
}

func (r *RosterRepository) List(ctx context.Context) ([]roster.Roster, error) {
	query, args, err := qb.Select(rosterColumns...).
		From(rostersTable).
		Where(qb.IsNull("deleted_at")).
		OrderBy("created_at", "public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list rosters query: %w", err)
	}

	var rows []rosterTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list rosters: %w", err)
	}

	out := make([]roster.Roster, 0, len(rows))
	for _, row := range rows {
		item, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *RosterRepository) Update(ctx context.Context, item roster.Roster) (bool, error) {
	row, err := newRosterWriteModel(item)
	if err != nil {
		return false, fmt.Errorf("build roster row id=%s: %w", item.ID, err)
	}
	builder, err := qb.Update(rostersTable).SetModel(row, "public_id", "created_at")
	if err != nil {
		return false, fmt.Errorf("build update roster query: %w", err)
	}
	query, args, err := builder.
		Where(qb.Eq("public_id", item.ID), qb.IsNull("deleted_at")).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build update roster query: %w", err)
	}

	return r.execAffected(ctx, query, args, "update roster id="+item.ID)
}

// Delete soft-deletes; the row stays for audit and its id becomes reusable.
func (r *RosterRepository) Delete(ctx context.Context, rosterID string) (bool, error) {
	query, args, err := qb.Update(rostersTable).
		SetExpr("deleted_at", "NOW()").
		Where(qb.Eq("public_id", rosterID), qb.IsNull("deleted_at")).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build delete roster query: %w", err)
	}

	return r.execAffected(ctx, query, args, "soft delete roster id="+rosterID)
}

func (r *RosterRepository) execAffected(ctx context.Context, query string, args []any, op string) (bool, error) {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s rows affected: %w", op, err)
	}
	return affected > 0, nil
}
