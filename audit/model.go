// audit/model.go
package audit

import (
	"time"
)

// DecisionRecord is one entry in the decision audit trail.
type DecisionRecord struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	SubjectID   string    `json:"subject_id,omitempty"`
	SubjectType string    `json:"subject_type,omitempty"`
	Purpose     string    `json:"purpose,omitempty"`
	Decision    string    `json:"decision"`
	MatchedRule string    `json:"matched_rule,omitempty"`
	IsDefault   bool      `json:"is_default"`
	Profile     string    `json:"profile,omitempty"`
	Reason      string    `json:"reason,omitempty"`
	StatusCode  int       `json:"status_code,omitempty"`
}
