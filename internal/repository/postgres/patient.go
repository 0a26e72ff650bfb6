package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/jwalitptl/clinic-ledger-api/internal/model"
	"github.com/jwalitptl/clinic-ledger-api/internal/repository"
)

const patientColumns = `id, name, contact_number, address, connected_person_ids, created_at, updated_at`

type patientRepository struct {
	db *sqlx.DB
}

func NewPatientRepository(db *sqlx.DB) repository.PatientRepository {
	return &patientRepository{db: db}
}

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	query := `
		INSERT INTO patients (id, name, contact_number, address, connected_person_ids, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	patient.CreatedAt = time.Now()
	patient.UpdatedAt = patient.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		patient.ID,
		patient.Name,
		patient.ContactNumber,
		patient.Address,
		patient.ConnectedPersonIDs,
		patient.CreatedAt,
		patient.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create patient: %w", err)
	}
	return nil
}

func (r *patientRepository) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE id = $1`
	var patient model.Patient
	err := r.db.GetContext(ctx, &patient, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return &patient, nil
}

func (r *patientRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.Patient, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	strs := make([]string, len(ids))
	for i, id := range ids {
		strs[i] = id.String()
	}
	query := `SELECT ` + patientColumns + ` FROM patients WHERE id = ANY($1)`
	var patients []*model.Patient
	if err := r.db.SelectContext(ctx, &patients, query, pq.Array(strs)); err != nil {
		return nil, fmt.Errorf("failed to get patients by ids: %w", err)
	}
	return patients, nil
}

func (r *patientRepository) GetByIdentity(ctx context.Context, name, contactNumber string) (*model.Patient, error) {
	// Oldest row wins when the direct-create path has produced duplicates.
	query := `
		SELECT ` + patientColumns + ` FROM patients
		WHERE name = $1 AND contact_number = $2
		ORDER BY created_at ASC
		LIMIT 1
	`
	var patient model.Patient
	err := r.db.GetContext(ctx, &patient, query, name, contactNumber)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get patient by identity: %w", err)
	}
	return &patient, nil
}

func (r *patientRepository) FindOrCreate(ctx context.Context, patient *model.Patient) (*model.Patient, error) {
	// Single round trip: insert only when no row carries the identity,
	// return whichever row ends up matching.
	query := `
		WITH existing AS (
			SELECT ` + patientColumns + ` FROM patients
			WHERE name = $2 AND contact_number = $3
			ORDER BY created_at ASC
			LIMIT 1
		), inserted AS (
			INSERT INTO patients (id, name, contact_number, address, connected_person_ids, created_at, updated_at)
			SELECT $1, $2, $3, $4, $5, $6, $6
			WHERE NOT EXISTS (SELECT 1 FROM existing)
			RETURNING ` + patientColumns + `
		)
		SELECT * FROM inserted
		UNION ALL
		SELECT * FROM existing
	`
	now := time.Now()
	var resolved model.Patient
	err := r.db.GetContext(ctx, &resolved, query,
		patient.ID,
		patient.Name,
		patient.ContactNumber,
		patient.Address,
		patient.ConnectedPersonIDs,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to find or create patient: %w", err)
	}
	return &resolved, nil
}

func (r *patientRepository) Update(ctx context.Context, patient *model.Patient) error {
	query := `
		UPDATE patients
		SET name = $1, contact_number = $2, address = $3, connected_person_ids = $4, updated_at = $5
		WHERE id = $6
	`
	patient.UpdatedAt = time.Now()
	res, err := r.db.ExecContext(ctx, query,
		patient.Name,
		patient.ContactNumber,
		patient.Address,
		patient.ConnectedPersonIDs,
		patient.UpdatedAt,
		patient.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update patient: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *patientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *patientRepository) List(ctx context.Context) ([]*model.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients ORDER BY created_at DESC`
	var patients []*model.Patient
	if err := r.db.SelectContext(ctx, &patients, query); err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}

func (r *patientRepository) Search(ctx context.Context, term string) ([]*model.Patient, error) {
	query := `
		SELECT ` + patientColumns + ` FROM patients
		WHERE name ILIKE $1 ESCAPE '\' OR contact_number ILIKE $1 ESCAPE '\'
		ORDER BY created_at DESC
	`
	var patients []*model.Patient
	if err := r.db.SelectContext(ctx, &patients, query, likePattern(term)); err != nil {
		return nil, fmt.Errorf("failed to search patients: %w", err)
	}
	return patients, nil
}

// likePattern wraps term for substring matching, escaping LIKE metacharacters
func likePattern(term string) string {
	escaper := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + escaper.Replace(term) + "%"
}
