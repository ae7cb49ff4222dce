package reports

import (
	"context"
	"database/sql"
	"time"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const reportColumns = `
id, user_id, bureau, file_name, mime_type, size_bytes, storage_key,
extracted_text_key, extraction_strategy, char_count, extracted_at, created_at`

func (r *PGRepo) Create(ctx context.Context, report Report) error {
	const query = `
INSERT INTO reports (` + reportColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.DB.ExecContext(ctx, query,
		report.ID,
		report.UserID,
		report.Bureau,
		report.FileName,
		report.MimeType,
		report.SizeBytes,
		report.StorageKey,
		nullable(report.ExtractedTextKey),
		nullable(report.ExtractionStrategy),
		report.CharCount,
		report.ExtractedAt,
		report.CreatedAt,
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, userID, reportID string) (Report, error) {
	rows, err := r.DB.QueryContext(ctx, `
SELECT `+reportColumns+`
FROM reports
WHERE user_id = $1 AND id = $2`, userID, reportID)
	if err != nil {
		return Report{}, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return Report{}, err
		}
		return Report{}, ErrNotFound
	}
	return scanReport(rows)
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]Report, error) {
	rows, err := r.DB.QueryContext(ctx, `
SELECT `+reportColumns+`
FROM reports
WHERE user_id = $1
ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Report
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, report)
	}
	return out, rows.Err()
}

func (r *PGRepo) SetExtraction(ctx context.Context, userID, reportID, textKey, strategy string, charCount int, at time.Time) error {
	res, err := r.DB.ExecContext(ctx, `
UPDATE reports
SET extracted_text_key = $1, extraction_strategy = $2, char_count = $3, extracted_at = $4
WHERE user_id = $5 AND id = $6`,
		textKey, strategy, charCount, at, userID, reportID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanReport(rows *sql.Rows) (Report, error) {
	var r Report
	var textKey, strategy sql.NullString
	var extractedAt sql.NullTime
	if err := rows.Scan(
		&r.ID,
		&r.UserID,
		&r.Bureau,
		&r.FileName,
		&r.MimeType,
		&r.SizeBytes,
		&r.StorageKey,
		&textKey,
		&strategy,
		&r.CharCount,
		&extractedAt,
		&r.CreatedAt,
	); err != nil {
		return Report{}, err
	}
	if textKey.Valid {
		r.ExtractedTextKey = textKey.String
	}
	if strategy.Valid {
		r.ExtractionStrategy = strategy.String
	}
	if extractedAt.Valid {
		r.ExtractedAt = &extractedAt.Time
	}
	return r, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

var _ Repo = (*PGRepo)(nil)
