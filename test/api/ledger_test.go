package api_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestLedger(t *testing.T, name, contact string, price float64) TestResponse {
	t.Helper()
	resp := makeRequest(t, "POST", "/ledger", map[string]interface{}{
		"patientData": map[string]interface{}{
			"patientName":          name,
			"patientContactNumber": contact,
		},
		"medicineDetails": []map[string]interface{}{
			{"name": "Paracetamol", "quantity": 2},
		},
		"totalPrice": price,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.True(t, resp.Success)
	return resp
}

func TestLedgerFlow(t *testing.T) {
	resetTables(t)

	createResp := createTestLedger(t, "Sita Sharma", "9841000000", 450)
	ledgerID := createResp.GetString("id")
	require.NotEmpty(t, ledgerID)
	assert.Equal(t, "unpaid", createResp.Data["ledgerStatus"])
	assert.NotEmpty(t, createResp.Data["nepaliDate"])

	// Get with expanded patient
	getResp := makeRequest(t, "GET", "/ledger/details/"+ledgerID, nil)
	require.True(t, getResp.Success)
	patientData, ok := getResp.Data["patientData"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Sita Sharma", patientData["patientName"])

	// General update leaves status and nepali date alone
	updateResp := makeRequest(t, "PATCH", "/ledger/"+ledgerID, map[string]interface{}{
		"totalPrice":  500,
		"description": "follow-up visit",
	})
	require.True(t, updateResp.Success)
	assert.Equal(t, 500.0, updateResp.Data["totalPrice"])
	assert.Equal(t, createResp.Data["nepaliDate"], updateResp.Data["nepaliDate"])
	assert.Equal(t, "unpaid", updateResp.Data["ledgerStatus"])

	// Status changes only through the status endpoint
	rejectResp := makeRequest(t, "PATCH", "/ledger/"+ledgerID, map[string]interface{}{
		"ledgerStatus": "paid",
	})
	assert.Equal(t, http.StatusBadRequest, rejectResp.StatusCode)

	statusResp := makeRequest(t, "PATCH", "/ledger/"+ledgerID+"/status", map[string]interface{}{
		"ledgerStatus": "paid",
	})
	require.True(t, statusResp.Success)
	assert.Equal(t, "paid", statusResp.Data["ledgerStatus"])

	// Delete
	deleteResp := makeRequest(t, "DELETE", "/ledger/"+ledgerID, nil)
	require.True(t, deleteResp.Success)

	getResp = makeRequest(t, "GET", "/ledger/details/"+ledgerID, nil)
	assert.Equal(t, http.StatusNotFound, getResp.StatusCode)
}

func TestLedgerReusesExistingPatient(t *testing.T) {
	resetTables(t)

	first := createTestLedger(t, "Sita Sharma", "9841000000", 450)
	second := createTestLedger(t, "Sita Sharma", "9841000000", 120)

	assert.Equal(t, first.Data["patientId"], second.Data["patientId"])

	listResp := makeRequest(t, "GET", "/patient", nil)
	require.True(t, listResp.Success)
	assert.Len(t, listResp.List, 1)
}

func TestLedgerPagination(t *testing.T) {
	resetTables(t)

	for i := 0; i < 25; i++ {
		createTestLedger(t, "Sita Sharma", "9841000000", float64(i+1))
	}

	resp := makeRequest(t, "GET", "/ledger?page=2&limit=10", nil)
	require.True(t, resp.Success)
	assert.Len(t, resp.List, 10)
	assert.Equal(t, 25.0, resp.Meta["total"])
	assert.Equal(t, 2.0, resp.Meta["page"])
	assert.Equal(t, 3.0, resp.Meta["totalPages"])

	resp = makeRequest(t, "GET", "/ledger?page=3&limit=10", nil)
	require.True(t, resp.Success)
	assert.Len(t, resp.List, 5)
}

func TestLedgerMarkAllPaid(t *testing.T) {
	resetTables(t)

	for i := 0; i < 3; i++ {
		createTestLedger(t, "Sita Sharma", "9841000000", 100)
	}
	createTestLedger(t, "Hari Thapa", "9841111111", 75)

	resp := makeRequest(t, "PATCH", "/ledger/mark-paid", map[string]interface{}{
		"patientName":          "Sita Sharma",
		"patientContactNumber": "9841000000",
	})
	require.True(t, resp.Success)
	assert.Equal(t, "3 ledger(s) marked as paid", resp.Message)
	assert.Equal(t, 3.0, resp.Data["modifiedCount"])

	// Second run finds nothing left to mark
	resp = makeRequest(t, "PATCH", "/ledger/mark-paid", map[string]interface{}{
		"patientName":          "Sita Sharma",
		"patientContactNumber": "9841000000",
	})
	require.True(t, resp.Success)
	assert.Equal(t, 0.0, resp.Data["modifiedCount"])

	// Unknown identity is a 404
	resp = makeRequest(t, "PATCH", "/ledger/mark-paid", map[string]interface{}{
		"patientName":          "Nobody",
		"patientContactNumber": "0000000000",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestLedgerSearchByPatient(t *testing.T) {
	resetTables(t)

	createTestLedger(t, "Sita Sharma", "9841000000", 450)
	createTestLedger(t, "Hari Thapa", "9841111111", 75)

	resp := makeRequest(t, "GET", "/ledger/search?search=sharma", nil)
	require.True(t, resp.Success)
	assert.Len(t, resp.List, 1)

	resp = makeRequest(t, "GET", "/ledger/search?search=9841", nil)
	require.True(t, resp.Success)
	assert.Len(t, resp.List, 2)
}

func TestLedgerValidation(t *testing.T) {
	resetTables(t)

	resp := makeRequest(t, "POST", "/ledger", map[string]interface{}{
		"totalPrice": 100,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Required fields missing", resp.Message)

	resp = makeRequest(t, "POST", "/ledger", map[string]interface{}{
		"patientData": map[string]interface{}{
			"patientName":          "Sita Sharma",
			"patientContactNumber": "9841000000",
		},
		"totalPrice": -5,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = makeRequest(t, "POST", "/ledger", map[string]interface{}{
		"patientData": map[string]interface{}{
			"patientName":          "Sita Sharma",
			"patientContactNumber": "9841000000",
		},
		"totalPrice":   100,
		"ledgerStatus": "pending",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid ledger status", resp.Message)
}
