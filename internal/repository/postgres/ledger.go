package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/clinic-ledger-api/internal/model"
	"github.com/jwalitptl/clinic-ledger-api/internal/repository"
)

const ledgerColumns = `id, patient_id, medicine_details, description, total_price, status, nepali_date, created_at, updated_at`

const ledgerJoinColumns = `
	l.id, l.patient_id, l.medicine_details, l.description, l.total_price, l.status, l.nepali_date, l.created_at, l.updated_at,
	p.id AS p_id, p.name AS p_name, p.contact_number AS p_contact_number, p.address AS p_address,
	p.connected_person_ids AS p_connected_person_ids, p.created_at AS p_created_at, p.updated_at AS p_updated_at`

type ledgerRepository struct {
	db *sqlx.DB
}

func NewLedgerRepository(db *sqlx.DB) repository.LedgerRepository {
	return &ledgerRepository{db: db}
}

// ledgerRow carries a ledger joined to its (possibly absent) patient.
type ledgerRow struct {
	model.Ledger
	PID                 *uuid.UUID       `db:"p_id"`
	PName               *string          `db:"p_name"`
	PContactNumber      *string          `db:"p_contact_number"`
	PAddress            *string          `db:"p_address"`
	PConnectedPersonIDs *model.UUIDArray `db:"p_connected_person_ids"`
	PCreatedAt          *time.Time       `db:"p_created_at"`
	PUpdatedAt          *time.Time       `db:"p_updated_at"`
}

func (row *ledgerRow) toLedger() *model.Ledger {
	ledger := row.Ledger
	if row.PID != nil {
		patient := &model.Patient{
			Name:          *row.PName,
			ContactNumber: *row.PContactNumber,
			Address:       row.PAddress,
		}
		patient.ID = *row.PID
		patient.CreatedAt = *row.PCreatedAt
		patient.UpdatedAt = *row.PUpdatedAt
		if row.PConnectedPersonIDs != nil {
			patient.ConnectedPersonIDs = *row.PConnectedPersonIDs
		}
		ledger.Patient = patient
	}
	return &ledger
}

func (r *ledgerRepository) Create(ctx context.Context, ledger *model.Ledger) error {
	query := `
		INSERT INTO ledgers (id, patient_id, medicine_details, description, total_price, status, nepali_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	ledger.CreatedAt = time.Now()
	ledger.UpdatedAt = ledger.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		ledger.ID,
		ledger.PatientID,
		ledger.MedicineDetails,
		ledger.Description,
		ledger.TotalPrice,
		ledger.Status,
		ledger.NepaliDate,
		ledger.CreatedAt,
		ledger.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create ledger: %w", err)
	}
	return nil
}

func (r *ledgerRepository) Get(ctx context.Context, id uuid.UUID) (*model.Ledger, error) {
	query := `
		SELECT ` + ledgerJoinColumns + `
		FROM ledgers l
		LEFT JOIN patients p ON p.id = l.patient_id
		WHERE l.id = $1
	`
	var row ledgerRow
	err := r.db.GetContext(ctx, &row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger: %w", err)
	}
	return row.toLedger(), nil
}

func (r *ledgerRepository) List(ctx context.Context, page, limit int) ([]*model.Ledger, int, error) {
	query := `
		SELECT ` + ledgerJoinColumns + `
		FROM ledgers l
		LEFT JOIN patients p ON p.id = l.patient_id
		ORDER BY l.created_at DESC
		LIMIT $1 OFFSET $2
	`
	var rows []*ledgerRow
	if err := r.db.SelectContext(ctx, &rows, query, limit, (page-1)*limit); err != nil {
		return nil, 0, fmt.Errorf("failed to list ledgers: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM ledgers`); err != nil {
		return nil, 0, fmt.Errorf("failed to count ledgers: %w", err)
	}

	ledgers := make([]*model.Ledger, len(rows))
	for i, row := range rows {
		ledgers[i] = row.toLedger()
	}
	return ledgers, total, nil
}

func (r *ledgerRepository) Update(ctx context.Context, ledger *model.Ledger) error {
	// Status, patient_id and nepali_date are deliberately absent: the
	// status endpoint owns transitions, the rest is immutable.
	query := `
		UPDATE ledgers
		SET medicine_details = $1, description = $2, total_price = $3, updated_at = $4
		WHERE id = $5
	`
	ledger.UpdatedAt = time.Now()
	res, err := r.db.ExecContext(ctx, query,
		ledger.MedicineDetails,
		ledger.Description,
		ledger.TotalPrice,
		ledger.UpdatedAt,
		ledger.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update ledger: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ledgerRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.LedgerStatus) (*model.Ledger, error) {
	query := `
		UPDATE ledgers
		SET status = $1, updated_at = $2
		WHERE id = $3
		RETURNING ` + ledgerColumns + `
	`
	var ledger model.Ledger
	err := r.db.GetContext(ctx, &ledger, query, status, time.Now(), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update ledger status: %w", err)
	}
	return &ledger, nil
}

func (r *ledgerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM ledgers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete ledger: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ledgerRepository) Search(ctx context.Context, term string) ([]*model.Ledger, error) {
	// Inner join: search matches on patient fields, so ledgers orphaned
	// by a patient delete cannot match.
	query := `
		SELECT ` + ledgerJoinColumns + `
		FROM ledgers l
		JOIN patients p ON p.id = l.patient_id
		WHERE p.name ILIKE $1 ESCAPE '\' OR p.contact_number ILIKE $1 ESCAPE '\'
		ORDER BY l.created_at DESC
	`
	var rows []*ledgerRow
	if err := r.db.SelectContext(ctx, &rows, query, likePattern(term)); err != nil {
		return nil, fmt.Errorf("failed to search ledgers: %w", err)
	}
	ledgers := make([]*model.Ledger, len(rows))
	for i, row := range rows {
		ledgers[i] = row.toLedger()
	}
	return ledgers, nil
}

func (r *ledgerRepository) MarkAllPaid(ctx context.Context, patientID uuid.UUID) (int64, error) {
	query := `
		UPDATE ledgers
		SET status = $1, updated_at = $2
		WHERE patient_id = $3 AND status <> $1
	`
	res, err := r.db.ExecContext(ctx, query, model.LedgerStatusPaid, time.Now(), patientID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark ledgers paid: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n, nil
}
