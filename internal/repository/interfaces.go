package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-ledger-api/internal/model"
)

// ErrNotFound is returned when a query matches no record
var ErrNotFound = errors.New("record not found")

// All repository interfaces in one file
type (
	// PatientRepository handles patient persistence
	PatientRepository interface {
		Create(ctx context.Context, patient *model.Patient) error
		Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
		GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.Patient, error)
		GetByIdentity(ctx context.Context, name, contactNumber string) (*model.Patient, error)
		// FindOrCreate resolves a patient by exact (name, contact number)
		// identity, inserting the given record when none exists. Runs as a
		// single statement so concurrent ledger creations do not fan out
		// into duplicate patients.
		FindOrCreate(ctx context.Context, patient *model.Patient) (*model.Patient, error)
		Update(ctx context.Context, patient *model.Patient) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context) ([]*model.Patient, error)
		Search(ctx context.Context, term string) ([]*model.Patient, error)
	}

	// LedgerRepository handles ledger persistence
	LedgerRepository interface {
		Create(ctx context.Context, ledger *model.Ledger) error
		// Get returns the ledger with its patient reference expanded.
		Get(ctx context.Context, id uuid.UUID) (*model.Ledger, error)
		// List returns one page of ledgers (patient expanded, newest first)
		// and the total ledger count.
		List(ctx context.Context, page, limit int) ([]*model.Ledger, int, error)
		// Update persists medicine details, description and total price.
		// Status, patient reference and nepali date are not touched.
		Update(ctx context.Context, ledger *model.Ledger) error
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.LedgerStatus) (*model.Ledger, error)
		Delete(ctx context.Context, id uuid.UUID) error
		// Search matches ledgers whose patient name or contact number
		// contains term, case-insensitively.
		Search(ctx context.Context, term string) ([]*model.Ledger, error)
		// MarkAllPaid transitions every non-paid ledger of the patient to
		// paid in one set-based update and reports the affected count.
		MarkAllPaid(ctx context.Context, patientID uuid.UUID) (int64, error)
	}
)
