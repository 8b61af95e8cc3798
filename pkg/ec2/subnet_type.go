package ec2

import (
	"fmt"
	"strings"
)

type SubnetType string

const (
	// SubnetTypePublic subnets route 0.0.0.0/0 to an internet gateway.
	SubnetTypePublic SubnetType = "Public"
	// SubnetTypePrivate subnets reach the internet through a NAT gateway placed in a public subnet.
	SubnetTypePrivate SubnetType = "Private"
	// SubnetTypeIsolated subnets have no route out of the VPC.
	SubnetTypeIsolated SubnetType = "Isolated"
)

var subnetTypeAliases = map[string]SubnetType{
	"public":              SubnetTypePublic,
	"private":             SubnetTypePrivate,
	"private_with_egress": SubnetTypePrivate,
	"private_with_nat":    SubnetTypePrivate,
	"isolated":            SubnetTypeIsolated,
	"private_isolated":    SubnetTypeIsolated,
}

func ParseSubnetType(s string) (SubnetType, error) {
	key := strings.ToLower(strings.Replace(strings.TrimSpace(s), "-", "_", -1))
	if t, ok := subnetTypeAliases[key]; ok {
		return t, nil
	}
	return "", fmt.Errorf("unknown subnet type %q: must be one of Public, Private or Isolated", s)
}

func (t *SubnetType) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return fmt.Errorf("failed to parse subnet type: %v", err)
	}
	if s == "" {
		*t = ""
		return nil
	}
	parsed, err := ParseSubnetType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t SubnetType) String() string {
	return string(t)
}

// subnetTypePreference is the order in which a selection without a type or group name picks subnets.
var subnetTypePreference = []SubnetType{SubnetTypePrivate, SubnetTypeIsolated, SubnetTypePublic}
