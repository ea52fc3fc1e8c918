// model/codec.go

package model

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// The rule fields purpose, licensing_mode, and subject.type accept either a
// scalar or an array in both JSON and YAML. Marshaling collapses single
// element slices back to a scalar so round trips preserve the author's form.

// UnmarshalJSON implements json.Unmarshaler for Purposes.
func (p *Purposes) UnmarshalJSON(data []byte) error {
	var arr []ControlPurpose
	if err := json.Unmarshal(data, &arr); err == nil {
		*p = arr
		return nil
	}

	var single ControlPurpose
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	*p = []ControlPurpose{single}
	return nil
}

// MarshalJSON implements json.Marshaler for Purposes.
func (p Purposes) MarshalJSON() ([]byte, error) {
	if len(p) == 1 {
		return json.Marshal(p[0])
	}
	return json.Marshal([]ControlPurpose(p))
}

// UnmarshalYAML implements yaml.Unmarshaler for Purposes.
func (p *Purposes) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.SequenceNode {
		var arr []ControlPurpose
		if err := value.Decode(&arr); err != nil {
			return err
		}
		*p = arr
		return nil
	}

	var single ControlPurpose
	if err := value.Decode(&single); err != nil {
		return err
	}
	*p = []ControlPurpose{single}
	return nil
}

// UnmarshalJSON implements json.Unmarshaler for LicensingModes.
func (m *LicensingModes) UnmarshalJSON(data []byte) error {
	var arr []ControlLicensingMode
	if err := json.Unmarshal(data, &arr); err == nil {
		*m = arr
		return nil
	}

	var single ControlLicensingMode
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	*m = []ControlLicensingMode{single}
	return nil
}

// MarshalJSON implements json.Marshaler for LicensingModes.
func (m LicensingModes) MarshalJSON() ([]byte, error) {
	if len(m) == 1 {
		return json.Marshal(m[0])
	}
	return json.Marshal([]ControlLicensingMode(m))
}

// UnmarshalYAML implements yaml.Unmarshaler for LicensingModes.
func (m *LicensingModes) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.SequenceNode {
		var arr []ControlLicensingMode
		if err := value.Decode(&arr); err != nil {
			return err
		}
		*m = arr
		return nil
	}

	var single ControlLicensingMode
	if err := value.Decode(&single); err != nil {
		return err
	}
	*m = []ControlLicensingMode{single}
	return nil
}

// UnmarshalJSON implements json.Unmarshaler for SubjectTypes.
func (s *SubjectTypes) UnmarshalJSON(data []byte) error {
	var arr []SubjectType
	if err := json.Unmarshal(data, &arr); err == nil {
		*s = arr
		return nil
	}

	var single SubjectType
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	*s = []SubjectType{single}
	return nil
}

// MarshalJSON implements json.Marshaler for SubjectTypes.
func (s SubjectTypes) MarshalJSON() ([]byte, error) {
	if len(s) == 1 {
		return json.Marshal(s[0])
	}
	return json.Marshal([]SubjectType(s))
}

// UnmarshalYAML implements yaml.Unmarshaler for SubjectTypes.
func (s *SubjectTypes) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.SequenceNode {
		var arr []SubjectType
		if err := value.Decode(&arr); err != nil {
			return err
		}
		*s = arr
		return nil
	}

	var single SubjectType
	if err := value.Decode(&single); err != nil {
		return err
	}
	*s = []SubjectType{single}
	return nil
}
