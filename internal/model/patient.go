package model

import (
	"github.com/google/uuid"
)

type Patient struct {
	Base
	Name               string    `db:"name" json:"patientName"`
	ContactNumber      string    `db:"contact_number" json:"patientContactNumber"`
	Address            *string   `db:"address" json:"patientAddress"`
	ConnectedPersonIDs UUIDArray `db:"connected_person_ids" json:"connectedPerson"`

	// Full records for ConnectedPersonIDs, populated on single-patient reads.
	ConnectedPersonData []*Patient `db:"-" json:"connectedPersonData,omitempty"`
}

type CreatePatientRequest struct {
	PatientName          string      `json:"patientName"`
	PatientAddress       *string     `json:"patientAddress"`
	PatientContactNumber string      `json:"patientContactNumber"`
	ConnectedPerson      []uuid.UUID `json:"connectedPerson"`
}

type UpdatePatientRequest struct {
	PatientName          *string      `json:"patientName"`
	PatientAddress       *string      `json:"patientAddress"`
	PatientContactNumber *string      `json:"patientContactNumber"`
	ConnectedPerson      *[]uuid.UUID `json:"connectedPerson"`
}
