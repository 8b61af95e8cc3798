package api

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// UnknownKeys collects the keys of a yaml mapping that no struct field claimed.
type UnknownKeys map[string]interface{}

// FailWhenUnknownKeysFound errors out on any unclaimed key. A key equal to one of known except for case gets a hint.
func (unknownKeys UnknownKeys) FailWhenUnknownKeysFound(keyPath string, known ...string) error {
	if len(unknownKeys) == 0 {
		return nil
	}

	ks := []string{}
	for k := range unknownKeys {
		ks = append(ks, k)
	}
	sort.Strings(ks)

	for i, k := range ks {
		for _, candidate := range known {
			if strings.EqualFold(k, candidate) {
				ks[i] = fmt.Sprintf("%s (did you mean %s?)", k, candidate)
				break
			}
		}
	}

	if keyPath != "" {
		return fmt.Errorf("unknown keys found in %s: %s", keyPath, strings.Join(ks, ", "))
	}
	return fmt.Errorf("unknown keys found: %s", strings.Join(ks, ", "))
}

// yamlKeys lists the keys a yaml-tagged struct claims, including those of inlined structs.
func yamlKeys(v interface{}) []string {
	t := reflect.TypeOf(v)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	keys := []string{}
	if t.Kind() != reflect.Struct {
		return keys
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := f.Tag.Get("yaml")
		name := strings.Split(tag, ",")[0]
		if strings.Contains(tag, ",inline") {
			if f.Type.Kind() == reflect.Struct {
				keys = append(keys, yamlKeys(reflect.Zero(f.Type).Interface())...)
			}
			continue
		}
		if name == "-" {
			continue
		}
		if name == "" {
			name = strings.ToLower(f.Name)
		}
		keys = append(keys, name)
	}
	return keys
}
