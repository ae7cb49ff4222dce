package accounts

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const accountColumns = `
id, user_id, report_id, account_name, account_type, account_number_masked, bureau,
original_balance,
transunion_balance, equifax_balance, experian_balance,
transunion_status, equifax_status, experian_status,
transunion_date_opened, equifax_date_opened, experian_date_opened,
date_opened, last_activity, disputed, created_at`

// CreateBatch inserts parsed account rows inside one transaction.
func (r *PGRepo) CreateBatch(ctx context.Context, rows []NegativeAccount) error {
	if len(rows) == 0 {
		return nil
	}
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const query = `
INSERT INTO negative_accounts (` + accountColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`

	for _, row := range rows {
		if _, err := tx.ExecContext(ctx, query,
			row.ID,
			row.UserID,
			nullString(row.ReportID),
			row.AccountName,
			row.AccountType,
			row.AccountNumberMasked,
			row.Bureau,
			row.OriginalBalance,
			row.TransUnion.Balance,
			row.Equifax.Balance,
			row.Experian.Balance,
			row.TransUnion.Status,
			row.Equifax.Status,
			row.Experian.Status,
			row.TransUnion.DateOpened,
			row.Equifax.DateOpened,
			row.Experian.DateOpened,
			row.DateOpened,
			row.LastActivity,
			row.Disputed,
			row.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert account %s: %w", row.AccountName, err)
		}
	}
	return tx.Commit()
}

// ListByUser returns all of a user's account rows in insertion order.
func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]NegativeAccount, error) {
	return r.list(ctx, `
SELECT `+accountColumns+`
FROM negative_accounts
WHERE user_id = $1
ORDER BY created_at, id`, userID)
}

// ListUndisputedByUser returns rows not yet included in any round.
func (r *PGRepo) ListUndisputedByUser(ctx context.Context, userID string) ([]NegativeAccount, error) {
	return r.list(ctx, `
SELECT `+accountColumns+`
FROM negative_accounts
WHERE user_id = $1 AND disputed = FALSE
ORDER BY created_at, id`, userID)
}

// MarkDisputed flags the given accounts as included in a round.
func (r *PGRepo) MarkDisputed(ctx context.Context, userID string, accountIDs []string) error {
	if len(accountIDs) == 0 {
		return nil
	}
	placeholders := make([]string, len(accountIDs))
	args := make([]any, 0, len(accountIDs)+1)
	args = append(args, userID)
	for i, id := range accountIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+2)
		args = append(args, id)
	}
	query := fmt.Sprintf(`
UPDATE negative_accounts
SET disputed = TRUE
WHERE user_id = $1 AND id IN (%s)`, strings.Join(placeholders, ", "))
	_, err := r.DB.ExecContext(ctx, query, args...)
	return err
}

// SaveRecommendations persists scoring output onto the account rows.
func (r *PGRepo) SaveRecommendations(ctx context.Context, userID string, recs []Recommendation) error {
	if len(recs) == 0 {
		return nil
	}
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const query = `
UPDATE negative_accounts
SET win_probability = $1,
    recommendation_reason = $2,
    factors = $3::jsonb,
    methods_triggered = $4::jsonb
WHERE user_id = $5 AND id = $6`

	for _, rec := range recs {
		factors, err := json.Marshal(rec.Factors)
		if err != nil {
			return err
		}
		methods, err := json.Marshal(rec.MethodsTriggered)
		if err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, query,
			rec.WinProbability,
			rec.RecommendationReason,
			factors,
			methods,
			userID,
			rec.AccountID,
		)
		if err != nil {
			return fmt.Errorf("save recommendation for %s: %w", rec.AccountID, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrNotFound
		}
	}
	return tx.Commit()
}

func (r *PGRepo) list(ctx context.Context, query, userID string) ([]NegativeAccount, error) {
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []NegativeAccount
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, account)
	}
	return out, rows.Err()
}

func scanAccount(rows *sql.Rows) (NegativeAccount, error) {
	var a NegativeAccount
	var reportID sql.NullString
	var originalBalance sql.NullFloat64
	var tuBalance, eqBalance, exBalance sql.NullFloat64
	var tuStatus, eqStatus, exStatus sql.NullString
	var tuOpened, eqOpened, exOpened sql.NullString
	var dateOpened, lastActivity sql.NullTime

	if err := rows.Scan(
		&a.ID,
		&a.UserID,
		&reportID,
		&a.AccountName,
		&a.AccountType,
		&a.AccountNumberMasked,
		&a.Bureau,
		&originalBalance,
		&tuBalance,
		&eqBalance,
		&exBalance,
		&tuStatus,
		&eqStatus,
		&exStatus,
		&tuOpened,
		&eqOpened,
		&exOpened,
		&dateOpened,
		&lastActivity,
		&a.Disputed,
		&a.CreatedAt,
	); err != nil {
		return NegativeAccount{}, err
	}

	if reportID.Valid {
		a.ReportID = reportID.String
	}
	if originalBalance.Valid {
		a.OriginalBalance = &originalBalance.Float64
	}
	a.TransUnion = bureauData(tuBalance, tuStatus, tuOpened)
	a.Equifax = bureauData(eqBalance, eqStatus, eqOpened)
	a.Experian = bureauData(exBalance, exStatus, exOpened)
	if dateOpened.Valid {
		a.DateOpened = &dateOpened.Time
	}
	if lastActivity.Valid {
		a.LastActivity = &lastActivity.Time
	}
	return a, nil
}

func bureauData(balance sql.NullFloat64, status, opened sql.NullString) BureauData {
	var b BureauData
	if balance.Valid {
		b.Balance = &balance.Float64
	}
	if status.Valid {
		b.Status = &status.String
	}
	if opened.Valid {
		b.DateOpened = &opened.String
	}
	return b
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

var _ Repo = (*PGRepo)(nil)
