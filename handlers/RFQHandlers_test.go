package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rsahana30/AUMA-DZ/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func postJSON(t *testing.T, r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func uploadBody(lineItems ...map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"manualFields": map[string]interface{}{
			"customer":     "National Water Board",
			"safetyFactor": 1.5,
		},
		"lineItems": lineItems,
	}
}

func TestUploadRFQ_RejectsMissingData(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	r := gin.New()
	r.POST("/api/rfq", UploadRFQ(db))

	testCases := []struct {
		name string
		body map[string]interface{}
	}{
		{"no manual fields", map[string]interface{}{
			"lineItems": []map[string]interface{}{{"valveType": "Ball"}},
		}},
		{"no line items", map[string]interface{}{
			"manualFields": map[string]interface{}{"customer": "X"},
			"lineItems":    []map[string]interface{}{},
		}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := postJSON(t, r, "/api/rfq", tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestUploadRFQ_AllocatesNumberAndInsertsAllRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO doc_sequence`).
		WillReturnRows(sqlmock.NewRows([]string{"last_no"}).AddRow(1))
	mock.ExpectExec(`INSERT INTO rfqs`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO rfqs`).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	r := gin.New()
	r.POST("/api/rfq", UploadRFQ(db))

	w := postJSON(t, r, "/api/rfq", uploadBody(
		map[string]interface{}{"valveType": "Gate", "valveTorque": 600, "quantity": 2},
		map[string]interface{}{"valveType": "Ball", "valveTorque": 120},
	))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		RFQNo string `json:"rfq_no"`
		Lines int    `json:"lines"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Regexp(t, `^RFQ\d{8}0001$`, resp.RFQNo)
	assert.Equal(t, 2, resp.Lines)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUploadRFQ_RollsBackWholeBatchOnRowFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO doc_sequence`).
		WillReturnRows(sqlmock.NewRows([]string{"last_no"}).AddRow(4))
	mock.ExpectExec(`INSERT INTO rfqs`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO rfqs`).
		WillReturnError(assertableError("value too long"))
	mock.ExpectRollback()

	r := gin.New()
	r.POST("/api/rfq", UploadRFQ(db))

	w := postJSON(t, r, "/api/rfq", uploadBody(
		map[string]interface{}{"valveType": "Gate", "valveTorque": 600},
		map[string]interface{}{"valveType": "Ball", "valveTorque": 120},
	))
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "row 2 could not be saved")

	assert.NoError(t, mock.ExpectationsWereMet())
}

type assertableError string

func (e assertableError) Error() string { return string(e) }

func TestUpdateValveRow_RejectsFamilyMismatch(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT valve_type, valve_torque, safety_factor FROM rfqs`).
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows([]string{"valve_type", "valve_torque", "safety_factor"}).
			AddRow("Gate", 600.0, 1.5))

	// The selected code exists in no multiturn row: family mismatch.
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM multiturn`).
		WithArgs("GS50.3-500Nm [F07/F10, Ratio: 51:1]").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	r := gin.New()
	r.PUT("/api/update-valve-row/:id", UpdateValveRow(db, services.NewMatcherService(db)))

	payload, _ := json.Marshal(map[string]interface{}{
		"auma_model": "GS50.3-500Nm [F07/F10, Ratio: 51:1]",
	})
	req := httptest.NewRequest(http.MethodPut, "/api/update-valve-row/42", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "does not match")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateValveRow_RecomputesCalculatedTorque(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT valve_type, valve_torque, safety_factor FROM rfqs`).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"valve_type", "valve_torque", "safety_factor"}).
			AddRow("Ball", 100.0, 2.0))

	// New torque 300 at the stored factor 2 writes 600 back.
	mock.ExpectExec(`UPDATE rfqs SET`).
		WithArgs(300.0, 2.0, 600.0, 7).
		WillReturnResult(sqlmock.NewResult(0, 1))

	r := gin.New()
	r.PUT("/api/update-valve-row/:id", UpdateValveRow(db, services.NewMatcherService(db)))

	payload, _ := json.Marshal(map[string]interface{}{"valveTorque": 300})
	req := httptest.NewRequest(http.MethodPut, "/api/update-valve-row/7", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
