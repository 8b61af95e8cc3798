package api

import (
	"testing"

	"github.com/go-yaml/yaml"
)

func TestCIDRRangeExtractFromYAML(t *testing.T) {
	t.Run("WhenValid", func(t *testing.T) {
		r := struct {
			CIDR CIDRRange `yaml:"cidr"`
		}{}
		err := yaml.Unmarshal([]byte("cidr: \"123.9.0.0/16\"\n"), &r)
		if err != nil {
			t.Errorf("failed ot extract CIDR range from yaml: %v", err)
			t.FailNow()
		}
		expected := "123.9.0.0/16"
		actual := r.CIDR.String()
		if actual != expected {
			t.Errorf("unexpected cidr range extracted. expected = %s, actual = %s", expected, actual)
		}
	})
	t.Run("WhenOmitted", func(t *testing.T) {
		r := struct {
			CIDR CIDRRange `yaml:"cidr"`
		}{}
		err := yaml.Unmarshal([]byte(""), &r)
		if err != nil {
			t.Errorf("failed ot extract CIDR range from yaml: %v", err)
			t.FailNow()
		}
		if !r.CIDR.IsEmpty() {
			t.Errorf("expected cidr range to be empty, but was: %s", r.CIDR)
		}
	})
	t.Run("WhenMalformed", func(t *testing.T) {
		r := struct {
			CIDR CIDRRange `yaml:"cidr"`
		}{}
		err := yaml.Unmarshal([]byte("cidr: 10.0.0.0\n"), &r)
		if err == nil {
			t.Error("expected an error but got none")
		}
	})
	t.Run("WhenIPv6", func(t *testing.T) {
		r := struct {
			CIDR CIDRRange `yaml:"cidr"`
		}{}
		err := yaml.Unmarshal([]byte("cidr: \"2001:db8::/56\"\n"), &r)
		if err == nil {
			t.Error("expected an error but got none")
		}
	})
}
