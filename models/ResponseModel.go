package models

// ErrorResponse is the generic error envelope returned by every handler.
type ErrorResponse struct {
	Error   string `json:"error" example:"Invalid request"`
	Details string `json:"details,omitempty" example:""`
}

// MessageResponse is the generic success envelope for mutations.
type MessageResponse struct {
	Message string `json:"message" example:"Row updated successfully"`
}

// RFQCreatedResponse is returned by POST /api/rfq.
type RFQCreatedResponse struct {
	Message string `json:"message" example:"RFQ uploaded successfully"`
	RFQNo   string `json:"rfq_no" example:"RFQ202501010001"`
	Lines   int    `json:"lines" example:"4"`
}

// QuotationCreatedResponse is returned by POST /api/quotations/:rfqNo.
type QuotationCreatedResponse struct {
	QuotationNo string  `json:"quotation_no" example:"Q202501010001"`
	GrandTotal  float64 `json:"grand_total" example:"418500"`
}

// MatchedModel is one candidate returned by the matcher, including the
// display string the operator picks from.
type MatchedModel struct {
	AumaModel      string  `json:"auma_model" example:"GS 100.3-160Nm [F10, Ratio: 51]"`
	ModelCode      string  `json:"model_code" example:"GS 100.3"`
	MaxValveTorque float64 `json:"max_valve_torque" example:"160"`
	Flange         string  `json:"flange" example:"F10"`
	ReductionRatio string  `json:"reduction_ratio" example:"51"`
	WeightKg       float64 `json:"weight_kg" example:"8.5"`
	UnitPrice      float64 `json:"unit_price" example:"85000"`
}

// MatchResponse wraps matcher results. Reason is set when the valve type is
// outside the supported families and the list is empty for that reason.
type MatchResponse struct {
	Models []MatchedModel `json:"models"`
	Reason string         `json:"reason,omitempty" example:"unsupported valve type"`
}

// ImportRejectedResponse reports a fail-closed spreadsheet import.
type ImportRejectedResponse struct {
	Error          string   `json:"error" example:"Unresolvable column headers"`
	MissingColumns []string `json:"missing_columns"`
}
