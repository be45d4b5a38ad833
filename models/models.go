package models

import (
	"time"

	_ "github.com/lib/pq"
)

type User struct {
	ID        int       `json:"id" example:"1"`
	Email     string    `json:"email" example:"user@example.com"`
	Password  string    `json:"password,omitempty" example:""`
	CreatedAt time.Time `json:"created_at" example:"2025-01-15T10:30:00Z"`
}

type Session struct {
	UserID    int       `json:"user_id" example:"1"`
	SessionID string    `json:"session_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

type Customer struct {
	ID            int    `json:"id" example:"1"`
	Name          string `json:"name" example:"National Water Board"`
	Address       string `json:"address" example:"Plot 12, Industrial Estate"`
	ContactPerson string `json:"contact_person" example:"S. Iyer"`
	Email         string `json:"email" example:"procurement@nwb.example"`
	Phone         string `json:"phone" example:"9876543210"`
}

// ManualFields are the RFQ header attributes shared by every line item of a
// submission batch. The rfqs table keeps them denormalized on each row.
type ManualFields struct {
	Customer        string  `json:"customer" example:"National Water Board"`
	SafetyFactor    float64 `json:"safetyFactor" example:"1.5"`
	ActuatorVoltage string  `json:"actuatorVoltage" example:"415V AC"`
	Communication   string  `json:"communication" example:"Modbus RTU"`
	MotorDuty       string  `json:"motorDuty" example:"S2-15min"`
	ActuatorSeries  string  `json:"actuatorSeries" example:"SA .2"`
	ControllerType  string  `json:"controllerType" example:"AM"`
	GearboxLocation string  `json:"gearBoxLocation" example:"On valve"`
	Weatherproof    string  `json:"weatherproofType" example:"IP68"`
	Certification   string  `json:"certification" example:"ATEX"`
	Painting        string  `json:"painting" example:"Standard"`
}

// LineItemInput is one valve row of an RFQ submission.
type LineItemInput struct {
	Item          string  `json:"item" example:"1"`
	ValveType     string  `json:"valveType" example:"Butterfly"`
	ValveTagNo    string  `json:"valveTagNo" example:"BV-1201"`
	ValveSize     string  `json:"valveSize" example:"12"`
	ValveRating   string  `json:"valveRating" example:"PN16"`
	DutyType      string  `json:"dutyType" example:"On-off"`
	RaisingStem   string  `json:"raisingStem" example:"No"`
	ValveTorque   float64 `json:"valveTorque" example:"500"`
	TopFlange     string  `json:"topFlange" example:"F10"`
	StemDia       string  `json:"stemDia" example:"40"`
	Mast          string  `json:"mast" example:"1200"`
	NumberOfTurns string  `json:"numberOfTurns" example:""`
	Quantity      int     `json:"quantity" example:"2"`
}

// RFQUploadRequest is the body of POST /api/rfq.
type RFQUploadRequest struct {
	ManualFields *ManualFields   `json:"manualFields"`
	LineItems    []LineItemInput `json:"lineItems"`
}

// RFQLineItem is a persisted rfqs row: header fields plus one valve line.
type RFQLineItem struct {
	ID               int       `json:"id" example:"101"`
	RFQNo            string    `json:"rfq_no" example:"RFQ202501010001"`
	Customer         string    `json:"customer"`
	SafetyFactor     float64   `json:"safetyFactor"`
	ActuatorVoltage  string    `json:"actuatorVoltage"`
	Communication    string    `json:"communication"`
	MotorDuty        string    `json:"motorDuty"`
	ActuatorSeries   string    `json:"actuatorSeries"`
	ControllerType   string    `json:"controllerType"`
	GearboxLocation  string    `json:"gearBoxLocation"`
	Weatherproof     string    `json:"weatherproofType"`
	Certification    string    `json:"certification"`
	Painting         string    `json:"painting"`
	Item             string    `json:"item"`
	ValveType        string    `json:"valveType"`
	ValveTagNo       string    `json:"valveTagNo"`
	ValveSize        string    `json:"valveSize"`
	ValveRating      string    `json:"valveRating"`
	DutyType         string    `json:"dutyType"`
	RaisingStem      string    `json:"raisingStem"`
	ValveTorque      float64   `json:"valveTorque"`
	TopFlange        string    `json:"topFlange"`
	StemDia          string    `json:"stemDia"`
	Mast             string    `json:"mast"`
	NumberOfTurns    string    `json:"numberOfTurns"`
	Quantity         int       `json:"quantity"`
	CalculatedTorque float64   `json:"calculatedTorque"`
	AumaModel        string    `json:"auma_model"`
	CreatedAt        time.Time `json:"created_at"`
}

// RFQSummary is one row of the RFQ list view.
type RFQSummary struct {
	RFQNo    string `json:"rfq_no" example:"RFQ202501010001"`
	Customer string `json:"customer" example:"National Water Board"`
}

// LineItemUpdate carries the editable fields of PUT /api/update-valve-row/:id.
// Pointers distinguish "absent" from zero values for a partial update.
type LineItemUpdate struct {
	AumaModel     *string  `json:"auma_model,omitempty"`
	ValveTorque   *float64 `json:"valveTorque,omitempty"`
	SafetyFactor  *float64 `json:"safetyFactor,omitempty"`
	Quantity      *int     `json:"quantity,omitempty"`
	TopFlange     *string  `json:"topFlange,omitempty"`
	ValveTagNo    *string  `json:"valveTagNo,omitempty"`
	DutyType      *string  `json:"dutyType,omitempty"`
	NumberOfTurns *string  `json:"numberOfTurns,omitempty"`
}

// MatchRequest is the body of POST /api/get-matching-models. Torque and safety
// factor arrive as strings because the form sends free text; the matcher
// parses them defensively.
type MatchRequest struct {
	ValveType    string `json:"valveType" example:"Butterfly"`
	ValveTorque  string `json:"valveTorque" example:"500"`
	SafetyFactor string `json:"safetyFactor" example:"1.5"`
	TopFlange    string `json:"topFlange" example:"F10"`
	Weatherproof string `json:"weatherproofType" example:"IP68"`
	Painting     string `json:"painting" example:"Standard"`
}

// DefaultCandidate is one row of GET /api/select-model/:rfqNo: a line item
// joined with a catalog gearbox whose rating covers its required torque.
type DefaultCandidate struct {
	LineID           int     `json:"id"`
	RFQNo            string  `json:"rfq_no"`
	ValveType        string  `json:"valveType"`
	Quantity         int     `json:"quantity"`
	CalculatedTorque float64 `json:"calculatedTorque"`
	MaxValveTorque   float64 `json:"max_valve_torque_nm"`
	GearboxType      string  `json:"gearbox_type"`
	ReductionRatio   string  `json:"gearbox_reduction_ratio"`
	GearboxFactor    float64 `json:"gearbox_factor"`
}
