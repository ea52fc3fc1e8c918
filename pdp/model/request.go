// pdp/model/request.go
package model

import (
	"github.com/peacprotocol/peac-engine/model"
)

// Subject describes who is making a request.
type Subject struct {
	// Type of subject (human, agent, org).
	Type model.SubjectType `json:"type,omitempty"`

	// Labels associated with the subject.
	Labels []string `json:"labels,omitempty"`

	// ID of the subject.
	ID string `json:"id,omitempty"`
}

// EvaluationContext contains the context for a single policy evaluation.
// Constructed per request, never persisted.
type EvaluationContext struct {
	// Subject making the request.
	Subject *Subject `json:"subject,omitempty"`

	// Purpose of the access request.
	Purpose model.ControlPurpose `json:"purpose,omitempty"`

	// LicensingMode of the request.
	LicensingMode model.ControlLicensingMode `json:"licensing_mode,omitempty"`
}

// BatchRequest carries multiple evaluation contexts. Results preserve
// request order.
type BatchRequest struct {
	Contexts []*EvaluationContext `json:"contexts" binding:"required"`
}
