package cfn

import (
	"encoding/json"
	"sort"
)

type Resource struct {
	Type       string
	Properties map[string]interface{}
	DependsOn  []string

	overrides []override
}

type override struct {
	path   string
	value  interface{}
	delete bool
}

func NewResource(resourceType string, properties map[string]interface{}) *Resource {
	if properties == nil {
		properties = map[string]interface{}{}
	}
	return &Resource{
		Type:       resourceType,
		Properties: properties,
	}
}

func (r *Resource) AddDependency(logicalIDs ...string) {
	for _, id := range logicalIDs {
		found := false
		for _, existing := range r.DependsOn {
			if existing == id {
				found = true
				break
			}
		}
		if !found {
			r.DependsOn = append(r.DependsOn, id)
		}
	}
}

// AddOverride sets a value at a dot-separated path relative to the resource, e.g. "Properties.Tags.0.Value".
// Overrides are applied to the rendered JSON, so they win over anything the constructs produced.
func (r *Resource) AddOverride(path string, value interface{}) {
	r.overrides = append(r.overrides, override{path: path, value: value})
}

func (r *Resource) AddPropertyOverride(path string, value interface{}) {
	r.AddOverride("Properties."+path, value)
}

func (r *Resource) AddDeletionOverride(path string) {
	r.overrides = append(r.overrides, override{path: path, delete: true})
}

func (r *Resource) MarshalJSON() ([]byte, error) {
	out := map[string]interface{}{
		"Type": r.Type,
	}
	if len(r.Properties) > 0 {
		out["Properties"] = r.Properties
	}
	if len(r.DependsOn) > 0 {
		deps := append([]string{}, r.DependsOn...)
		sort.Strings(deps)
		out["DependsOn"] = deps
	}
	return json.Marshal(out)
}

type Output struct {
	Description string
	Value       interface{}
	ExportName  interface{}
}

func (o *Output) MarshalJSON() ([]byte, error) {
	out := map[string]interface{}{
		"Value": o.Value,
	}
	if o.Description != "" {
		out["Description"] = o.Description
	}
	if o.ExportName != nil {
		out["Export"] = map[string]interface{}{"Name": o.ExportName}
	}
	return json.Marshal(out)
}
