package ledger

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/clinic-ledger-api/internal/model"
	"github.com/jwalitptl/clinic-ledger-api/internal/repository"
	apperrors "github.com/jwalitptl/clinic-ledger-api/pkg/errors"
	"github.com/jwalitptl/clinic-ledger-api/pkg/nepali"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

type LedgerService interface {
	CreateLedger(ctx context.Context, req *model.CreateLedgerRequest) (*model.Ledger, error)
	GetLedger(ctx context.Context, id uuid.UUID) (*model.Ledger, error)
	ListLedgers(ctx context.Context, page, limit int) (*model.PagedLedgers, error)
	UpdateLedger(ctx context.Context, id uuid.UUID, req *model.UpdateLedgerRequest) (*model.Ledger, error)
	UpdateLedgerStatus(ctx context.Context, id uuid.UUID, status model.LedgerStatus) (*model.Ledger, error)
	DeleteLedger(ctx context.Context, id uuid.UUID) error
	SearchLedgers(ctx context.Context, term string) ([]*model.Ledger, error)
	MarkAllPaidForPatient(ctx context.Context, name, contactNumber string) (*model.MarkLedgersPaidResult, error)
}

type Service struct {
	ledgerRepo  repository.LedgerRepository
	patientRepo repository.PatientRepository
}

func NewService(ledgerRepo repository.LedgerRepository, patientRepo repository.PatientRepository) *Service {
	return &Service{
		ledgerRepo:  ledgerRepo,
		patientRepo: patientRepo,
	}
}

func (s *Service) CreateLedger(ctx context.Context, req *model.CreateLedgerRequest) (*model.Ledger, error) {
	if req.PatientData == nil || req.TotalPrice == nil ||
		strings.TrimSpace(req.PatientData.PatientName) == "" ||
		strings.TrimSpace(req.PatientData.PatientContactNumber) == "" {
		return nil, apperrors.Validation("Required fields missing")
	}
	if *req.TotalPrice < 0 {
		return nil, apperrors.Validation("totalPrice must not be negative")
	}

	status := model.LedgerStatusUnpaid
	if req.LedgerStatus != nil {
		if !req.LedgerStatus.IsValid() {
			return nil, apperrors.Validation("Invalid ledger status")
		}
		status = *req.LedgerStatus
	}

	patient, err := s.resolvePatient(ctx, req.PatientData)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	ledger := &model.Ledger{
		Base:            model.Base{ID: uuid.New()},
		PatientID:       patient.ID,
		MedicineDetails: req.MedicineDetails,
		Description:     trimmed(req.Description),
		TotalPrice:      *req.TotalPrice,
		Status:          status,
		NepaliDate:      nepaliToday(),
	}
	if ledger.MedicineDetails == nil {
		ledger.MedicineDetails = model.JSONList{}
	}

	if err := s.ledgerRepo.Create(ctx, ledger); err != nil {
		return nil, apperrors.Internal(err)
	}
	return ledger, nil
}

func (s *Service) GetLedger(ctx context.Context, id uuid.UUID) (*model.Ledger, error) {
	ledger, err := s.ledgerRepo.Get(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return ledger, nil
}

func (s *Service) ListLedgers(ctx context.Context, page, limit int) (*model.PagedLedgers, error) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}

	ledgers, total, err := s.ledgerRepo.List(ctx, page, limit)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	return &model.PagedLedgers{
		Ledgers:    ledgers,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: (total + limit - 1) / limit,
	}, nil
}

func (s *Service) UpdateLedger(ctx context.Context, id uuid.UUID, req *model.UpdateLedgerRequest) (*model.Ledger, error) {
	if req.LedgerStatus != nil {
		return nil, apperrors.Validation("ledgerStatus cannot be changed through a general update, use the status endpoint")
	}
	if req.PatientID != nil {
		return nil, apperrors.Validation("patientId is immutable")
	}
	if req.TotalPrice != nil && *req.TotalPrice < 0 {
		return nil, apperrors.Validation("totalPrice must not be negative")
	}

	ledger, err := s.ledgerRepo.Get(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}

	if req.MedicineDetails != nil {
		ledger.MedicineDetails = *req.MedicineDetails
	}
	if req.Description != nil {
		ledger.Description = trimmed(req.Description)
	}
	if req.TotalPrice != nil {
		ledger.TotalPrice = *req.TotalPrice
	}

	if err := s.ledgerRepo.Update(ctx, ledger); err != nil {
		return nil, mapRepoError(err)
	}

	ledger.Patient = nil
	return ledger, nil
}

func (s *Service) UpdateLedgerStatus(ctx context.Context, id uuid.UUID, status model.LedgerStatus) (*model.Ledger, error) {
	if !status.IsValid() {
		return nil, apperrors.Validation("Invalid ledger status")
	}

	ledger, err := s.ledgerRepo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return ledger, nil
}

func (s *Service) DeleteLedger(ctx context.Context, id uuid.UUID) error {
	if err := s.ledgerRepo.Delete(ctx, id); err != nil {
		return mapRepoError(err)
	}
	return nil
}

func (s *Service) SearchLedgers(ctx context.Context, term string) ([]*model.Ledger, error) {
	if term == "" {
		return nil, apperrors.Validation("Search query is required")
	}
	ledgers, err := s.ledgerRepo.Search(ctx, term)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return ledgers, nil
}

func (s *Service) MarkAllPaidForPatient(ctx context.Context, name, contactNumber string) (*model.MarkLedgersPaidResult, error) {
	name = strings.TrimSpace(name)
	contactNumber = strings.TrimSpace(contactNumber)
	if name == "" || contactNumber == "" {
		return nil, apperrors.Validation("patientName and patientContactNumber are required")
	}

	patient, err := s.patientRepo.GetByIdentity(ctx, name, contactNumber)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("patient", err)
		}
		return nil, apperrors.Internal(err)
	}

	modified, err := s.ledgerRepo.MarkAllPaid(ctx, patient.ID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	return &model.MarkLedgersPaidResult{
		ModifiedCount: modified,
		Patient:       patient,
	}, nil
}

// resolvePatient finds the patient by (name, contact number), creating one
// from the supplied identity when no match exists.
func (s *Service) resolvePatient(ctx context.Context, data *model.LedgerPatientData) (*model.Patient, error) {
	candidate := &model.Patient{
		Base:               model.Base{ID: uuid.New()},
		Name:               strings.TrimSpace(data.PatientName),
		ContactNumber:      strings.TrimSpace(data.PatientContactNumber),
		Address:            trimmed(data.PatientAddress),
		ConnectedPersonIDs: model.UUIDArray(data.ConnectedPerson),
	}
	return s.patientRepo.FindOrCreate(ctx, candidate)
}

// nepaliToday derives the Bikram Sambat date for the current day. A failed
// conversion is not an error: the ledger is simply stored without one.
func nepaliToday() *string {
	date, err := nepali.Convert(time.Now())
	if err != nil {
		log.Warn().Err(err).Msg("nepali date conversion failed, storing ledger without one")
		return nil
	}
	return &date
}

func mapRepoError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound("ledger", err)
	}
	return apperrors.Internal(err)
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}
