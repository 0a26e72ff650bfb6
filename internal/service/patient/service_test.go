package patient

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinic-ledger-api/internal/model"
	"github.com/jwalitptl/clinic-ledger-api/internal/repository"
	apperrors "github.com/jwalitptl/clinic-ledger-api/pkg/errors"
)

type fakePatientRepo struct {
	patients map[uuid.UUID]*model.Patient
	err      error
}

func newFakePatientRepo() *fakePatientRepo {
	return &fakePatientRepo{patients: make(map[uuid.UUID]*model.Patient)}
}

func (f *fakePatientRepo) Create(_ context.Context, p *model.Patient) error {
	if f.err != nil {
		return f.err
	}
	f.patients[p.ID] = p
	return nil
}

func (f *fakePatientRepo) Get(_ context.Context, id uuid.UUID) (*model.Patient, error) {
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.patients[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return p, nil
}

func (f *fakePatientRepo) GetByIDs(_ context.Context, ids []uuid.UUID) ([]*model.Patient, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*model.Patient
	for _, id := range ids {
		if p, ok := f.patients[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePatientRepo) GetByIdentity(_ context.Context, name, contactNumber string) (*model.Patient, error) {
	if f.err != nil {
		return nil, f.err
	}
	var oldest *model.Patient
	for _, p := range f.patients {
		if p.Name != name || p.ContactNumber != contactNumber {
			continue
		}
		if oldest == nil || p.CreatedAt.Before(oldest.CreatedAt) {
			oldest = p
		}
	}
	if oldest == nil {
		return nil, repository.ErrNotFound
	}
	return oldest, nil
}

func (f *fakePatientRepo) FindOrCreate(ctx context.Context, p *model.Patient) (*model.Patient, error) {
	existing, err := f.GetByIdentity(ctx, p.Name, p.ContactNumber)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	f.patients[p.ID] = p
	return p, nil
}

func (f *fakePatientRepo) Update(_ context.Context, p *model.Patient) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.patients[p.ID]; !ok {
		return repository.ErrNotFound
	}
	f.patients[p.ID] = p
	return nil
}

func (f *fakePatientRepo) Delete(_ context.Context, id uuid.UUID) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.patients[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.patients, id)
	return nil
}

func (f *fakePatientRepo) List(_ context.Context) ([]*model.Patient, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*model.Patient, 0, len(f.patients))
	for _, p := range f.patients {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakePatientRepo) Search(_ context.Context, term string) ([]*model.Patient, error) {
	if f.err != nil {
		return nil, f.err
	}
	return nil, nil
}

func (f *fakePatientRepo) add(name, contact string) *model.Patient {
	p := &model.Patient{
		Base:          model.Base{ID: uuid.New()},
		Name:          name,
		ContactNumber: contact,
	}
	f.patients[p.ID] = p
	return p
}

func TestCreatePatient(t *testing.T) {
	repo := newFakePatientRepo()
	svc := NewService(repo)

	address := "  12 Hill Road  "
	created, err := svc.CreatePatient(context.Background(), &model.CreatePatientRequest{
		PatientName:          "  Sita Sharma  ",
		PatientContactNumber: " 9841000000 ",
		PatientAddress:       &address,
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, "Sita Sharma", created.Name)
	assert.Equal(t, "9841000000", created.ContactNumber)
	require.NotNil(t, created.Address)
	assert.Equal(t, "12 Hill Road", *created.Address)
	assert.Contains(t, repo.patients, created.ID)
}

func TestCreatePatientValidation(t *testing.T) {
	svc := NewService(newFakePatientRepo())

	_, err := svc.CreatePatient(context.Background(), &model.CreatePatientRequest{
		PatientContactNumber: "9841000000",
	})
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.CreatePatient(context.Background(), &model.CreatePatientRequest{
		PatientName:          "Sita Sharma",
		PatientContactNumber: "   ",
	})
	assert.True(t, apperrors.IsValidation(err))
}

func TestGetPatientExpandsConnectedPersons(t *testing.T) {
	repo := newFakePatientRepo()
	svc := NewService(repo)

	first := repo.add("Hari Thapa", "9841000001")
	second := repo.add("Gita Thapa", "9841000002")
	dangling := uuid.New()

	subject := repo.add("Sita Sharma", "9841000000")
	subject.ConnectedPersonIDs = model.UUIDArray{second.ID, dangling, first.ID}

	got, err := svc.GetPatient(context.Background(), subject.ID)
	require.NoError(t, err)

	// Order follows the stored ids, unresolvable ids are dropped.
	require.Len(t, got.ConnectedPersonData, 2)
	assert.Equal(t, second.ID, got.ConnectedPersonData[0].ID)
	assert.Equal(t, first.ID, got.ConnectedPersonData[1].ID)
}

func TestGetPatientNotFound(t *testing.T) {
	svc := NewService(newFakePatientRepo())

	_, err := svc.GetPatient(context.Background(), uuid.New())
	assert.True(t, apperrors.IsNotFound(err))
}

func TestUpdatePatient(t *testing.T) {
	repo := newFakePatientRepo()
	svc := NewService(repo)

	existing := repo.add("Sita Sharma", "9841000000")

	newName := " Sita K. Sharma "
	updated, err := svc.UpdatePatient(context.Background(), existing.ID, &model.UpdatePatientRequest{
		PatientName: &newName,
	})
	require.NoError(t, err)

	assert.Equal(t, "Sita K. Sharma", updated.Name)
	assert.Equal(t, "9841000000", updated.ContactNumber)
}

func TestUpdatePatientBlankNameRejected(t *testing.T) {
	repo := newFakePatientRepo()
	svc := NewService(repo)

	existing := repo.add("Sita Sharma", "9841000000")

	blank := "   "
	_, err := svc.UpdatePatient(context.Background(), existing.ID, &model.UpdatePatientRequest{
		PatientName: &blank,
	})
	assert.True(t, apperrors.IsValidation(err))
}

func TestUpdatePatientNotFound(t *testing.T) {
	svc := NewService(newFakePatientRepo())

	name := "Sita Sharma"
	_, err := svc.UpdatePatient(context.Background(), uuid.New(), &model.UpdatePatientRequest{
		PatientName: &name,
	})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestDeletePatient(t *testing.T) {
	repo := newFakePatientRepo()
	svc := NewService(repo)

	existing := repo.add("Sita Sharma", "9841000000")

	require.NoError(t, svc.DeletePatient(context.Background(), existing.ID))
	assert.NotContains(t, repo.patients, existing.ID)

	err := svc.DeletePatient(context.Background(), existing.ID)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestSearchPatientsRequiresTerm(t *testing.T) {
	svc := NewService(newFakePatientRepo())

	_, err := svc.SearchPatients(context.Background(), "")
	assert.True(t, apperrors.IsValidation(err))
}

func TestRepoFailureSurfacesAsInternal(t *testing.T) {
	repo := newFakePatientRepo()
	repo.err = errors.New("connection refused")
	svc := NewService(repo)

	_, err := svc.ListPatients(context.Background())
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrInternal, appErr.Code)
}
