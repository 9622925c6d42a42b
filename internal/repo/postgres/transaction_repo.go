package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/Aizen-Agency/dreamster-be/internal/domain/enums"
)

// ErrInvalidReference means an insert pointed at a user or track row
// that does not exist.
var ErrInvalidReference = errors.New("referenced row does not exist")

type TransactionRepo struct {
	pool *pgxpool.Pool
}

type TransactionRecord struct {
	ID           string
	UserID       string
	TrackID      string
	Amount       decimal.Decimal
	PaymentID    string
	Status       string
	ErrorMessage *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func NewTransactionRepo(pool *pgxpool.Pool) *TransactionRepo {
	return &TransactionRepo{pool: pool}
}

const transactionColumns = `
	id,
	user_id,
	track_id,
	amount,
	payment_id,
	status,
	error_message,
	created_at,
	updated_at`

// RecordCompleted writes the completed transaction, grants ownership and
// bumps the track's sales count in one database transaction. payment_id is
// unique, so a redelivered webhook loses the insert race and gets the
// already-stored row back with created=false.
func (r *TransactionRepo) RecordCompleted(
	ctx context.Context,
	userID, trackID string,
	amount decimal.Decimal,
	paymentID string,
) (TransactionRecord, bool, error) {
	if r.pool == nil {
		return TransactionRecord{}, false, fmt.Errorf("postgres pool is nil")
	}
	if userID == "" || trackID == "" || paymentID == "" {
		return TransactionRecord{}, false, fmt.Errorf("invalid completed transaction payload")
	}

	var out TransactionRecord
	created := false
	err := WithTx(ctx, r.pool, func(txCtx context.Context, tx pgx.Tx) error {
		rec, inserted, err := r.insertTx(txCtx, tx, userID, trackID, amount, paymentID, string(enums.TransactionStatusCompleted), nil)
		if err != nil {
			return err
		}
		out = rec
		created = inserted
		if !inserted {
			return nil
		}

		granted, err := r.grantOwnershipTx(txCtx, tx, userID, trackID, rec.ID)
		if err != nil {
			return err
		}
		if !granted {
			return nil
		}

		if _, err := tx.Exec(txCtx, `
UPDATE tracks
SET sales_count = sales_count + 1, updated_at = NOW()
WHERE id = $1
`, trackID); err != nil {
			return fmt.Errorf("bump sales count: %w", err)
		}
		return nil
	})
	if err != nil {
		return TransactionRecord{}, false, err
	}

	return out, created, nil
}

// RecordFailed stores a failed attempt keyed by payment_id. Redeliveries of
// the same failure are absorbed the same way as completed ones.
func (r *TransactionRepo) RecordFailed(
	ctx context.Context,
	userID, trackID string,
	amount decimal.Decimal,
	paymentID, errorMessage string,
) (TransactionRecord, bool, error) {
	if r.pool == nil {
		return TransactionRecord{}, false, fmt.Errorf("postgres pool is nil")
	}
	if userID == "" || trackID == "" || paymentID == "" {
		return TransactionRecord{}, false, fmt.Errorf("invalid failed transaction payload")
	}

	var msg *string
	if errorMessage != "" {
		msg = &errorMessage
	}

	var out TransactionRecord
	created := false
	err := WithTx(ctx, r.pool, func(txCtx context.Context, tx pgx.Tx) error {
		rec, inserted, err := r.insertTx(txCtx, tx, userID, trackID, amount, paymentID, string(enums.TransactionStatusFailed), msg)
		if err != nil {
			return err
		}
		out = rec
		created = inserted
		return nil
	})
	if err != nil {
		return TransactionRecord{}, false, err
	}

	return out, created, nil
}

func (r *TransactionRepo) insertTx(
	ctx context.Context,
	tx pgx.Tx,
	userID, trackID string,
	amount decimal.Decimal,
	paymentID, status string,
	errorMessage *string,
) (TransactionRecord, bool, error) {
	if tx == nil {
		return TransactionRecord{}, false, fmt.Errorf("transaction is required")
	}

	txID := uuid.NewString()
	rec, err := scanTransactionRow(tx.QueryRow(ctx, `
INSERT INTO transactions (
	id,
	user_id,
	track_id,
	amount,
	payment_id,
	status,
	error_message,
	created_at,
	updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
ON CONFLICT (payment_id) DO NOTHING
RETURNING`+transactionColumns,
		txID, userID, trackID, amount, paymentID, status, errorMessage))
	if err == nil {
		return rec, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return TransactionRecord{}, false, ErrInvalidReference
		}
		return TransactionRecord{}, false, fmt.Errorf("insert transaction: %w", err)
	}

	// Lost the race: fetch what the earlier delivery stored.
	rec, err = scanTransactionRow(tx.QueryRow(ctx, `
SELECT`+transactionColumns+`
FROM transactions
WHERE payment_id = $1
`, paymentID))
	if err != nil {
		return TransactionRecord{}, false, fmt.Errorf("load transaction by payment_id: %w", err)
	}
	return rec, false, nil
}

func (r *TransactionRepo) grantOwnershipTx(ctx context.Context, tx pgx.Tx, userID, trackID, transactionID string) (bool, error) {
	result, err := tx.Exec(ctx, `
INSERT INTO track_ownerships (
	id,
	user_id,
	track_id,
	transaction_id,
	purchased_at
) VALUES ($1, $2, $3, $4, NOW())
ON CONFLICT (user_id, track_id) DO NOTHING
`, uuid.NewString(), userID, trackID, transactionID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return false, ErrInvalidReference
		}
		return false, fmt.Errorf("grant ownership: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *TransactionRepo) ListByUser(ctx context.Context, userID string, limit int) ([]TransactionRecord, error) {
	if r.pool == nil {
		return []TransactionRecord{}, nil
	}
	if userID == "" {
		return nil, fmt.Errorf("invalid user id")
	}
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.pool.Query(ctx, `
SELECT`+transactionColumns+`
FROM transactions
WHERE user_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2
`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	items := make([]TransactionRecord, 0, limit)
	for rows.Next() {
		var rec TransactionRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.UserID,
			&rec.TrackID,
			&rec.Amount,
			&rec.PaymentID,
			&rec.Status,
			&rec.ErrorMessage,
			&rec.CreatedAt,
			&rec.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		items = append(items, rec)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate transactions: %w", rows.Err())
	}

	return items, nil
}

func scanTransactionRow(row pgx.Row) (TransactionRecord, error) {
	var rec TransactionRecord
	if err := row.Scan(
		&rec.ID,
		&rec.UserID,
		&rec.TrackID,
		&rec.Amount,
		&rec.PaymentID,
		&rec.Status,
		&rec.ErrorMessage,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	); err != nil {
		return TransactionRecord{}, err
	}
	return rec, nil
}
