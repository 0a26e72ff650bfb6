package patient

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-ledger-api/internal/model"
	"github.com/jwalitptl/clinic-ledger-api/internal/repository"
	apperrors "github.com/jwalitptl/clinic-ledger-api/pkg/errors"
)

type PatientService interface {
	CreatePatient(ctx context.Context, req *model.CreatePatientRequest) (*model.Patient, error)
	GetPatient(ctx context.Context, id uuid.UUID) (*model.Patient, error)
	ListPatients(ctx context.Context) ([]*model.Patient, error)
	UpdatePatient(ctx context.Context, id uuid.UUID, req *model.UpdatePatientRequest) (*model.Patient, error)
	DeletePatient(ctx context.Context, id uuid.UUID) error
	SearchPatients(ctx context.Context, term string) ([]*model.Patient, error)
}

type Service struct {
	repo repository.PatientRepository
}

func NewService(repo repository.PatientRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreatePatient(ctx context.Context, req *model.CreatePatientRequest) (*model.Patient, error) {
	name := strings.TrimSpace(req.PatientName)
	if name == "" {
		return nil, apperrors.Validation("Patient name is required")
	}
	contact := strings.TrimSpace(req.PatientContactNumber)
	if contact == "" {
		return nil, apperrors.Validation("Patient contact number is required")
	}

	patient := &model.Patient{
		Base:               model.Base{ID: uuid.New()},
		Name:               name,
		ContactNumber:      contact,
		Address:            trimmed(req.PatientAddress),
		ConnectedPersonIDs: model.UUIDArray(req.ConnectedPerson),
	}

	if err := s.repo.Create(ctx, patient); err != nil {
		return nil, apperrors.Internal(err)
	}
	return patient, nil
}

func (s *Service) GetPatient(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}

	if err := s.expandConnectedPersons(ctx, patient); err != nil {
		return nil, apperrors.Internal(err)
	}
	return patient, nil
}

func (s *Service) ListPatients(ctx context.Context) ([]*model.Patient, error) {
	patients, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return patients, nil
}

func (s *Service) UpdatePatient(ctx context.Context, id uuid.UUID, req *model.UpdatePatientRequest) (*model.Patient, error) {
	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}

	if req.PatientName != nil {
		name := strings.TrimSpace(*req.PatientName)
		if name == "" {
			return nil, apperrors.Validation("Patient name is required")
		}
		patient.Name = name
	}
	if req.PatientContactNumber != nil {
		contact := strings.TrimSpace(*req.PatientContactNumber)
		if contact == "" {
			return nil, apperrors.Validation("Patient contact number is required")
		}
		patient.ContactNumber = contact
	}
	if req.PatientAddress != nil {
		patient.Address = trimmed(req.PatientAddress)
	}
	if req.ConnectedPerson != nil {
		patient.ConnectedPersonIDs = model.UUIDArray(*req.ConnectedPerson)
	}

	if err := s.repo.Update(ctx, patient); err != nil {
		return nil, mapRepoError(err)
	}
	return patient, nil
}

func (s *Service) DeletePatient(ctx context.Context, id uuid.UUID) error {
	// Ledgers referencing the patient are left in place; historical
	// billing outlives the patient record.
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapRepoError(err)
	}
	return nil
}

func (s *Service) SearchPatients(ctx context.Context, term string) ([]*model.Patient, error) {
	if term == "" {
		return nil, apperrors.Validation("Search query is required")
	}
	patients, err := s.repo.Search(ctx, term)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return patients, nil
}

// expandConnectedPersons resolves the connected-person ids into full
// records, preserving order and skipping ids that no longer resolve.
func (s *Service) expandConnectedPersons(ctx context.Context, patient *model.Patient) error {
	if len(patient.ConnectedPersonIDs) == 0 {
		return nil
	}

	connected, err := s.repo.GetByIDs(ctx, patient.ConnectedPersonIDs)
	if err != nil {
		return err
	}

	byID := make(map[uuid.UUID]*model.Patient, len(connected))
	for _, p := range connected {
		byID[p.ID] = p
	}

	ordered := make([]*model.Patient, 0, len(patient.ConnectedPersonIDs))
	for _, id := range patient.ConnectedPersonIDs {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}
	patient.ConnectedPersonData = ordered
	return nil
}

func mapRepoError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound("patient", err)
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
