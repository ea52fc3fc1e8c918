// controller/controllers.go
package controller

// Controllers aggregates all HTTP controllers for route registration.
type Controllers struct {
	Decision *DecisionController
	Purpose  *PurposeController
	Policy   *PolicyController
	Audit    *AuditController
}

func NewControllers(
	decision *DecisionController,
	purpose *PurposeController,
	policy *PolicyController,
	audit *AuditController,
) *Controllers {
	return &Controllers{
		Decision: decision,
		Purpose:  purpose,
		Policy:   policy,
		Audit:    audit,
	}
}
