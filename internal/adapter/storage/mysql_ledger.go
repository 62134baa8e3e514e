package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MahmoodAbuGneam/BECS-System/internal/core/domain"
)

// MySQLLedger archives accepted transactions durably. Expected schema:
//
//	CREATE TABLE blood_transactions (
//		seq              BIGINT AUTO_INCREMENT PRIMARY KEY,
//		id               VARCHAR(36) NOT NULL UNIQUE,
//		transaction_type VARCHAR(16) NOT NULL,
//		blood_type       VARCHAR(3)  NOT NULL,
//		units            INT         NOT NULL,
//		notes            VARCHAR(255),
//		created_at       DATETIME(6) NOT NULL
//	);
//
// seq preserves insertion order independent of clock resolution.
type MySQLLedger struct {
	db *sql.DB
}

func NewMySQLLedger(db *sql.DB) *MySQLLedger {
	return &MySQLLedger{db: db}
}

func (m *MySQLLedger) Append(ctx context.Context, tx domain.Transaction) error {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO blood_transactions (id, transaction_type, blood_type, units, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		tx.ID, string(tx.Type), string(tx.BloodType), tx.Units, tx.Notes, tx.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (m *MySQLLedger) Recent(ctx context.Context, limit int) ([]domain.Transaction, error) {
	if limit <= 0 {
		return nil, nil
	}

	rows, err := m.db.QueryContext(ctx, `
		SELECT id, transaction_type, blood_type, units, notes, created_at
		FROM blood_transactions
		ORDER BY seq DESC
		LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var out []domain.Transaction
	for rows.Next() {
		var tx domain.Transaction
		var notes sql.NullString
		if err := rows.Scan(&tx.ID, &tx.Type, &tx.BloodType, &tx.Units, &notes, &tx.Timestamp); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		tx.Notes = notes.String
		out = append(out, tx)
	}
	return out, rows.Err()
}
