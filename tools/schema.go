package tools

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// Definition describes a function a model may call
type Definition struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
}

// ParamSchema is the subset of JSON schema providers understand for function parameters
type ParamSchema struct {
	Type        string                  `json:"type,omitempty"`
	Description string                  `json:"description,omitempty"`
	Properties  map[string]*ParamSchema `json:"properties,omitempty"`
	Items       *ParamSchema            `json:"items,omitempty"`
	Required    []string                `json:"required,omitempty"`
	Enum        []string                `json:"enum,omitempty"`
}

// Schema decodes Parameters into a ParamSchema
func (d Definition) Schema() (*ParamSchema, error) {
	ret := new(ParamSchema)
	if len(d.Parameters) == 0 {
		ret.Type = "object"
		return ret, nil
	}
	if err := json.Unmarshal(d.Parameters, ret); err != nil {
		return nil, err
	}
	return ret, nil
}

// Parameters reflects the JSON schema of I from its json and jsonschema tags
func Parameters[I any]() (json.RawMessage, error) {
	r := jsonschema.Reflector{
		DoNotReference:            true,
		ExpandedStruct:            true,
		AllowAdditionalProperties: true,
	}
	s := r.Reflect(new(I))
	s.Version = ""
	s.ID = ""
	return json.Marshal(s)
}
