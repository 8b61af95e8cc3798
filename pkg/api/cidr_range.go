package api

import (
	"fmt"

	"github.com/kubernetes-incubator/kube-aws-network/netutil"
)

// CIDRRange represents an IPv4 network range in CIDR notation
type CIDRRange struct {
	str string
}

func CIDRRangeFromString(cidr string) (CIDRRange, error) {
	if _, err := netutil.ParseIPv4CIDR(cidr); err != nil {
		return CIDRRange{}, fmt.Errorf("failed to parse CIDR range: %v", err)
	}
	return CIDRRange{str: cidr}, nil
}

func (c *CIDRRange) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var cidr string
	if err := unmarshal(&cidr); err != nil {
		return fmt.Errorf("failed to parse CIDR range: %v", err)
	}

	if cidr == "" {
		*c = CIDRRange{}
		return nil
	}

	parsed, err := CIDRRangeFromString(cidr)
	if err != nil {
		return err
	}
	*c = parsed

	return nil
}

func (c CIDRRange) MarshalYAML() (interface{}, error) {
	return c.str, nil
}

// String returns the string representation of this CIDR range
func (c CIDRRange) String() string {
	return c.str
}

func (c CIDRRange) IsEmpty() bool {
	return c.str == ""
}
