// loader/loader_test.go
package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	peac_errors "github.com/peacprotocol/peac-engine/errors"
	"github.com/peacprotocol/peac-engine/model"
)

const validYAML = `
version: peac-policy/0.1
name: test policy
defaults:
  decision: deny
  reason: default deny
rules:
  - name: allow-subscribed-crawl
    subject:
      type: human
      labels: [subscribed]
    purpose: crawl
    decision: allow
  - name: deny-agent-train
    subject:
      type: [agent, org]
    purpose: [train, index]
    licensing_mode: subscription
    decision: deny
`

const validJSON = `{
  "version": "peac-policy/0.1",
  "defaults": {"decision": "review"},
  "rules": [
    {"name": "r1", "purpose": "train", "decision": "allow"},
    {"name": "r2", "purpose": ["search", "inference"], "licensing_mode": ["subscription", "pay_per_crawl"], "decision": "review"}
  ]
}`

func assertValidationCode(t *testing.T, err error, code string) {
	t.Helper()
	var verr *peac_errors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, code, verr.Code)
}

func TestLoadYAML(t *testing.T) {
	doc, err := LoadYAML([]byte(validYAML))
	require.NoError(t, err)

	assert.Equal(t, model.PolicyVersion, doc.Version)
	assert.Equal(t, model.Deny, doc.Defaults.Decision)
	require.Len(t, doc.Rules, 2)

	// Single values and arrays both decode to slices.
	r1 := doc.Rules[0]
	assert.Equal(t, model.SubjectTypes{model.Human}, r1.Subject.Type)
	assert.Equal(t, model.Purposes{model.PurposeCrawl}, r1.Purpose)

	r2 := doc.Rules[1]
	assert.Equal(t, model.SubjectTypes{model.Agent, model.Org}, r2.Subject.Type)
	assert.Equal(t, model.Purposes{model.PurposeTrain, model.PurposeIndex}, r2.Purpose)
	assert.Equal(t, model.LicensingModes{model.LicensingSubscription}, r2.LicensingMode)
}

func TestLoadJSON(t *testing.T) {
	doc, err := LoadJSON([]byte(validJSON))
	require.NoError(t, err)

	assert.Equal(t, model.Review, doc.Defaults.Decision)
	require.Len(t, doc.Rules, 2)
	assert.Equal(t, model.Purposes{model.PurposeTrain}, doc.Rules[0].Purpose)
	assert.Equal(t, model.LicensingModes{model.LicensingSubscription, model.LicensingPayPerCrawl}, doc.Rules[1].LicensingMode)
}

func TestLoadYAML_UnknownKeyRejected(t *testing.T) {
	_, err := LoadYAML([]byte(`
version: peac-policy/0.1
defaults:
  decision: deny
rules: []
extra_key: true
`))
	assertValidationCode(t, err, peac_errors.CodeInvalidPolicy)
}

func TestLoadJSON_UnknownKeyRejected(t *testing.T) {
	_, err := LoadJSON([]byte(`{"version": "peac-policy/0.1", "defaults": {"decision": "deny"}, "rules": [], "extra": 1}`))
	assertValidationCode(t, err, peac_errors.CodeInvalidPolicy)
}

func TestLoadYAML_Malformed(t *testing.T) {
	_, err := LoadYAML([]byte("version: [unclosed"))
	assertValidationCode(t, err, peac_errors.CodeInvalidPolicy)
}

func TestValidate_Version(t *testing.T) {
	_, err := LoadJSON([]byte(`{"defaults": {"decision": "deny"}, "rules": []}`))
	assertValidationCode(t, err, peac_errors.CodeInvalidPolicy)

	// The version is an exact literal, not a prefix or range.
	_, err = LoadJSON([]byte(`{"version": "peac-policy/0.2", "defaults": {"decision": "deny"}, "rules": []}`))
	assertValidationCode(t, err, peac_errors.CodeInvalidPolicyVersion)

	_, err = LoadJSON([]byte(`{"version": "peac-policy/0.1.0", "defaults": {"decision": "deny"}, "rules": []}`))
	assertValidationCode(t, err, peac_errors.CodeInvalidPolicyVersion)
}

func TestValidate_Defaults(t *testing.T) {
	_, err := LoadJSON([]byte(`{"version": "peac-policy/0.1", "rules": []}`))
	assertValidationCode(t, err, peac_errors.CodeInvalidPolicy)

	_, err = LoadJSON([]byte(`{"version": "peac-policy/0.1", "defaults": {"decision": "maybe"}, "rules": []}`))
	assertValidationCode(t, err, peac_errors.CodeInvalidPolicy)
}

func TestValidate_RulesRequired(t *testing.T) {
	err := Validate(&model.PolicyDocument{
		Version:  model.PolicyVersion,
		Defaults: model.PolicyDefaults{Decision: model.Deny},
	})
	assertValidationCode(t, err, peac_errors.CodeInvalidPolicy)

	// Empty is fine; only absent is an error.
	assert.NoError(t, Validate(&model.PolicyDocument{
		Version:  model.PolicyVersion,
		Defaults: model.PolicyDefaults{Decision: model.Deny},
		Rules:    []model.PolicyRule{},
	}))
}

func TestValidate_RuleNames(t *testing.T) {
	base := func(rules []model.PolicyRule) *model.PolicyDocument {
		return &model.PolicyDocument{
			Version:  model.PolicyVersion,
			Defaults: model.PolicyDefaults{Decision: model.Deny},
			Rules:    rules,
		}
	}

	err := Validate(base([]model.PolicyRule{{Decision: model.Allow}}))
	assertValidationCode(t, err, peac_errors.CodeInvalidPolicy)

	err = Validate(base([]model.PolicyRule{
		{Name: "dup", Decision: model.Allow},
		{Name: "dup", Decision: model.Deny},
	}))
	assertValidationCode(t, err, peac_errors.CodeInvalidPolicy)
}

func TestValidate_EnumValues(t *testing.T) {
	base := func(rule model.PolicyRule) *model.PolicyDocument {
		return &model.PolicyDocument{
			Version:  model.PolicyVersion,
			Defaults: model.PolicyDefaults{Decision: model.Deny},
			Rules:    []model.PolicyRule{rule},
		}
	}

	err := Validate(base(model.PolicyRule{
		Name:     "r",
		Subject:  &model.SubjectMatcher{Type: model.SubjectTypes{"robot"}},
		Decision: model.Allow,
	}))
	assertValidationCode(t, err, peac_errors.CodeInvalidPolicyEnum)

	err = Validate(base(model.PolicyRule{
		Name:     "r",
		Purpose:  model.Purposes{"telepathy"},
		Decision: model.Allow,
	}))
	assertValidationCode(t, err, peac_errors.CodeInvalidPolicyEnum)

	err = Validate(base(model.PolicyRule{
		Name:          "r",
		LicensingMode: model.LicensingModes{"barter"},
		Decision:      model.Allow,
	}))
	assertValidationCode(t, err, peac_errors.CodeInvalidPolicyEnum)

	err = Validate(base(model.PolicyRule{
		Name:     "r",
		Subject:  &model.SubjectMatcher{Labels: []string{""}},
		Decision: model.Allow,
	}))
	assertValidationCode(t, err, peac_errors.CodeInvalidPolicy)

	// Legacy purposes remain valid in documents.
	assert.NoError(t, Validate(base(model.PolicyRule{
		Name:     "r",
		Purpose:  model.Purposes{model.PurposeAiInput},
		Decision: model.Allow,
	})))
}

func TestValidate_Nil(t *testing.T) {
	assertValidationCode(t, Validate(nil), peac_errors.CodeInvalidPolicy)
	assert.False(t, IsValid(nil))
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "policy.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(validYAML), 0o644))
	doc, err := LoadFile(yamlPath)
	require.NoError(t, err)
	assert.Len(t, doc.Rules, 2)

	jsonPath := filepath.Join(dir, "policy.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(validJSON), 0o644))
	doc, err = LoadFile(jsonPath)
	require.NoError(t, err)
	assert.Len(t, doc.Rules, 2)

	_, err = LoadFile(filepath.Join(dir, "policy.toml"))
	assert.Error(t, err)

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
