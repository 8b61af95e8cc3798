package helper

import (
	"encoding/json"

	"github.com/google/go-cmp/cmp"
	"github.com/tidwall/gjson"
)

// ResourcesOfType returns the Resources entries of the given type, keyed by logical id.
func ResourcesOfType(template []byte, resourceType string) map[string]gjson.Result {
	found := map[string]gjson.Result{}
	gjson.GetBytes(template, "Resources").ForEach(func(id, resource gjson.Result) bool {
		if resource.Get("Type").String() == resourceType {
			found[id.String()] = resource
		}
		return true
	})
	return found
}

// TestingT is implemented by *testing.T and by property-test runners.
type TestingT interface {
	Errorf(format string, args ...interface{})
}

func markHelper(t TestingT) {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}
}

func ResourceCountIs(t TestingT, template []byte, resourceType string, count int) bool {
	markHelper(t)
	if actual := len(ResourcesOfType(template, resourceType)); actual != count {
		t.Errorf("expected %d resource(s) of type %s, but found %d", count, resourceType, actual)
		return false
	}
	return true
}

// HasResourceProperties checks that at least one resource of the given type has every listed property.
// Keys are gjson paths relative to the resource's Properties.
func HasResourceProperties(t TestingT, template []byte, resourceType string, props map[string]interface{}) bool {
	markHelper(t)
	resources := ResourcesOfType(template, resourceType)
	for _, r := range resources {
		if propertiesMatch(r, props) {
			return true
		}
	}
	t.Errorf("none of the %d resource(s) of type %s has properties %v", len(resources), resourceType, props)
	return false
}

func propertiesMatch(resource gjson.Result, props map[string]interface{}) bool {
	for path, expected := range props {
		actual := resource.Get("Properties." + path)
		if !actual.Exists() {
			return false
		}
		if !cmp.Equal(normalize(expected), actual.Value()) {
			return false
		}
	}
	return true
}

// normalize turns v into the types gjson produces, e.g. float64 for numbers.
func normalize(v interface{}) interface{} {
	raw, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return v
	}
	return out
}
