package model

import (
	"github.com/google/uuid"
)

type LedgerStatus string

const (
	LedgerStatusPaid   LedgerStatus = "paid"
	LedgerStatusUnpaid LedgerStatus = "unpaid"
)

func (s LedgerStatus) IsValid() bool {
	return s == LedgerStatusPaid || s == LedgerStatusUnpaid
}

type Ledger struct {
	Base
	PatientID       uuid.UUID    `db:"patient_id" json:"patientId"`
	MedicineDetails JSONList     `db:"medicine_details" json:"medicineDetails"`
	Description     *string      `db:"description" json:"description"`
	TotalPrice      float64      `db:"total_price" json:"totalPrice"`
	Status          LedgerStatus `db:"status" json:"ledgerStatus"`

	// Bikram Sambat date of creation, set once; nil when conversion failed.
	NepaliDate *string `db:"nepali_date" json:"nepaliDate,omitempty"`

	// Full patient record, populated on reads that expand the reference.
	Patient *Patient `db:"-" json:"patientData,omitempty"`
}

// LedgerPatientData is the patient identity embedded in a create-ledger
// request; it deduplicates patients by (name, contact number).
type LedgerPatientData struct {
	PatientName          string      `json:"patientName"`
	PatientContactNumber string      `json:"patientContactNumber"`
	PatientAddress       *string     `json:"patientAddress"`
	ConnectedPerson      []uuid.UUID `json:"connectedPerson"`
}

type CreateLedgerRequest struct {
	PatientData     *LedgerPatientData `json:"patientData"`
	MedicineDetails JSONList           `json:"medicineDetails"`
	Description     *string            `json:"description"`
	TotalPrice      *float64           `json:"totalPrice"`
	LedgerStatus    *LedgerStatus      `json:"ledgerStatus"`
}

type UpdateLedgerRequest struct {
	MedicineDetails *JSONList `json:"medicineDetails"`
	Description     *string   `json:"description"`
	TotalPrice      *float64  `json:"totalPrice"`

	// Accepted on the wire so the service can reject them explicitly:
	// status changes go through the status endpoint, the patient
	// reference is immutable.
	LedgerStatus *LedgerStatus `json:"ledgerStatus"`
	PatientID    *uuid.UUID    `json:"patientId"`
}

type UpdateLedgerStatusRequest struct {
	LedgerStatus LedgerStatus `json:"ledgerStatus"`
}

type MarkLedgersPaidRequest struct {
	PatientName          string `json:"patientName"`
	PatientContactNumber string `json:"patientContactNumber"`
}

// MarkLedgersPaidResult reports a bulk mark-paid outcome.
type MarkLedgersPaidResult struct {
	ModifiedCount int64    `json:"modifiedCount"`
	Patient       *Patient `json:"patient"`
}

// PagedLedgers is one page of ledgers plus the pagination totals.
type PagedLedgers struct {
	Ledgers    []*Ledger
	Total      int
	Page       int
	Limit      int
	TotalPages int
}
