package api

import "fmt"

// jsonCompatible converts the map[interface{}]interface{} values yaml.v2 produces into
// map[string]interface{} so that they can be written into a JSON template.
func jsonCompatible(v interface{}) (interface{}, error) {
	switch t := v.(type) {
	case map[interface{}]interface{}:
		m := make(map[string]interface{}, len(t))
		for k, e := range t {
			key, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("only string keys are supported but found %v", k)
			}
			converted, err := jsonCompatible(e)
			if err != nil {
				return nil, err
			}
			m[key] = converted
		}
		return m, nil
	case []interface{}:
		s := make([]interface{}, len(t))
		for i, e := range t {
			converted, err := jsonCompatible(e)
			if err != nil {
				return nil, err
			}
			s[i] = converted
		}
		return s, nil
	default:
		return v, nil
	}
}

func (c *Config) normalizeOverrides() error {
	for id, paths := range c.Overrides {
		for path, v := range paths {
			converted, err := jsonCompatible(v)
			if err != nil {
				return fmt.Errorf("overrides.%s.%s: %v", id, path, err)
			}
			paths[path] = converted
		}
	}
	return nil
}
