// loader/loader.go

// Package loader reads and validates PEAC policy documents. It is the only
// component that performs I/O on policy data; evaluation receives documents
// that already passed validation here and does no further defensive checks.
package loader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	peac_errors "github.com/peacprotocol/peac-engine/errors"
	"github.com/peacprotocol/peac-engine/model"
	"github.com/peacprotocol/peac-engine/purpose"
)

// LoadFile reads a policy document from disk, picking the codec from the
// file extension (.yaml/.yml or .json).
func LoadFile(path string) (*model.PolicyDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return LoadJSON(data)
	case ".yaml", ".yml":
		return LoadYAML(data)
	default:
		return nil, fmt.Errorf("unsupported policy file extension: %s", filepath.Ext(path))
	}
}

// LoadYAML parses and validates a YAML policy document. Unknown keys are
// rejected.
func LoadYAML(data []byte) (*model.PolicyDocument, error) {
	var doc model.PolicyDocument
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, &peac_errors.ValidationError{
			Code:    peac_errors.CodeInvalidPolicy,
			Message: fmt.Sprintf("malformed YAML: %v", err),
		}
	}
	if err := Validate(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// LoadJSON parses and validates a JSON policy document. Unknown keys are
// rejected.
func LoadJSON(data []byte) (*model.PolicyDocument, error) {
	var doc model.PolicyDocument
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, &peac_errors.ValidationError{
			Code:    peac_errors.CodeInvalidPolicy,
			Message: fmt.Sprintf("malformed JSON: %v", err),
		}
	}
	if err := Validate(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate checks a policy document against the schema: version literal,
// default decision, and per-rule names (non-empty, unique), decisions, and
// enum values.
func Validate(doc *model.PolicyDocument) error {
	if doc == nil {
		return &peac_errors.ValidationError{
			Code:    peac_errors.CodeInvalidPolicy,
			Message: "policy is nil",
		}
	}

	if doc.Version == "" {
		return &peac_errors.ValidationError{
			Code:    peac_errors.CodeInvalidPolicy,
			Message: "version is required",
			Field:   "version",
		}
	}
	if doc.Version != model.PolicyVersion {
		return &peac_errors.ValidationError{
			Code:    peac_errors.CodeInvalidPolicyVersion,
			Message: fmt.Sprintf("unsupported version: %s (expected %s)", doc.Version, model.PolicyVersion),
			Field:   "version",
		}
	}

	if err := validateDecision(doc.Defaults.Decision, "defaults.decision"); err != nil {
		return err
	}

	if doc.Rules == nil {
		return &peac_errors.ValidationError{
			Code:    peac_errors.CodeInvalidPolicy,
			Message: "rules is required",
			Field:   "rules",
		}
	}

	names := make(map[string]bool, len(doc.Rules))
	for i := range doc.Rules {
		if err := validateRule(&doc.Rules[i], i); err != nil {
			return err
		}
		if names[doc.Rules[i].Name] {
			return &peac_errors.ValidationError{
				Code:    peac_errors.CodeInvalidPolicy,
				Message: fmt.Sprintf("duplicate rule name: %s", doc.Rules[i].Name),
				Field:   fmt.Sprintf("rules[%d].name", i),
			}
		}
		names[doc.Rules[i].Name] = true
	}

	return nil
}

func validateRule(rule *model.PolicyRule, index int) error {
	fieldPrefix := fmt.Sprintf("rules[%d]", index)

	if rule.Name == "" {
		return &peac_errors.ValidationError{
			Code:    peac_errors.CodeInvalidPolicy,
			Message: "rule name is required",
			Field:   fieldPrefix + ".name",
		}
	}

	if err := validateDecision(rule.Decision, fieldPrefix+".decision"); err != nil {
		return err
	}

	if rule.Subject != nil {
		for i, st := range rule.Subject.Type {
			field := fmt.Sprintf("%s.subject.type[%d]", fieldPrefix, i)
			if err := validateSubjectType(st, field); err != nil {
				return err
			}
		}
		for i, label := range rule.Subject.Labels {
			if label == "" {
				return &peac_errors.ValidationError{
					Code:    peac_errors.CodeInvalidPolicy,
					Message: "label cannot be empty",
					Field:   fmt.Sprintf("%s.subject.labels[%d]", fieldPrefix, i),
				}
			}
		}
	}

	for i, p := range rule.Purpose {
		field := fmt.Sprintf("%s.purpose[%d]", fieldPrefix, i)
		if err := validatePurpose(p, field); err != nil {
			return err
		}
	}

	for i, m := range rule.LicensingMode {
		field := fmt.Sprintf("%s.licensing_mode[%d]", fieldPrefix, i)
		if err := validateLicensingMode(m, field); err != nil {
			return err
		}
	}

	return nil
}

func validateDecision(decision model.Decision, field string) error {
	switch decision {
	case model.Allow, model.Deny, model.Review:
		return nil
	case "":
		return &peac_errors.ValidationError{
			Code:    peac_errors.CodeInvalidPolicy,
			Message: "decision is required",
			Field:   field,
		}
	default:
		return &peac_errors.ValidationError{
			Code:    peac_errors.CodeInvalidPolicy,
			Message: fmt.Sprintf("invalid decision: %s (must be allow, deny, or review)", decision),
			Field:   field,
		}
	}
}

func validateSubjectType(st model.SubjectType, field string) error {
	switch st {
	case model.Human, model.Agent, model.Org:
		return nil
	default:
		return &peac_errors.ValidationError{
			Code:    peac_errors.CodeInvalidPolicyEnum,
			Message: fmt.Sprintf("unknown subject type: %s (must be human, agent, or org)", st),
			Field:   field,
		}
	}
}

func validatePurpose(p model.ControlPurpose, field string) error {
	if p == "" {
		return &peac_errors.ValidationError{
			Code:    peac_errors.CodeInvalidPolicyEnum,
			Message: "purpose cannot be empty",
			Field:   field,
		}
	}
	if purpose.IsCanonical(p) || purpose.IsLegacy(p) {
		return nil
	}
	return &peac_errors.ValidationError{
		Code:    peac_errors.CodeInvalidPolicyEnum,
		Message: fmt.Sprintf("unknown purpose: %s", p),
		Field:   field,
	}
}

func validateLicensingMode(m model.ControlLicensingMode, field string) error {
	switch m {
	case model.LicensingSubscription, model.LicensingPayPerInference, model.LicensingPayPerCrawl:
		return nil
	case "":
		return &peac_errors.ValidationError{
			Code:    peac_errors.CodeInvalidPolicyEnum,
			Message: "licensing mode cannot be empty",
			Field:   field,
		}
	default:
		return &peac_errors.ValidationError{
			Code:    peac_errors.CodeInvalidPolicyEnum,
			Message: fmt.Sprintf("unknown licensing mode: %s", m),
			Field:   field,
		}
	}
}

// IsValid returns true if the document passes validation.
func IsValid(doc *model.PolicyDocument) bool {
	return Validate(doc) == nil
}
