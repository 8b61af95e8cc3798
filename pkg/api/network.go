package api

import (
	"fmt"

	"github.com/kubernetes-incubator/kube-aws-network/pkg/ec2"
	"github.com/kubernetes-incubator/kube-aws-network/pkg/network"
)

// NetworkConfig is one entry of `networks` or `environments`.
type NetworkConfig struct {
	// ID names the construct in the stack. Defaults to VpcName.
	ID string `yaml:"id,omitempty"`

	VpcName                string                    `yaml:"vpcName,omitempty"`
	VpcCIDR                CIDRRange                 `yaml:"vpcCidr,omitempty"`
	VpcID                  string                    `yaml:"vpcId,omitempty"`
	VpcDefault             *bool                     `yaml:"vpcDefault,omitempty"`
	VpcRegion              string                    `yaml:"vpcRegion,omitempty"`
	VpcMaxAzs              int                       `yaml:"vpcMaxAzs,omitempty"`
	VpcNatGateways         *int                      `yaml:"vpcNatGateways,omitempty"`
	VpcSubnetConfiguration []ec2.SubnetConfiguration `yaml:"vpcSubnetConfiguration,omitempty"`

	SubnetsAvailabilityZones []string       `yaml:"subnetsAvailabilityZones,omitempty"`
	SubnetsGroupName         string         `yaml:"subnetsGroupName,omitempty"`
	SubnetsIDs               []string       `yaml:"subnetsIds,omitempty"`
	SubnetsOnePerAz          *bool          `yaml:"subnetsOnePerAz,omitempty"`
	SubnetsType              ec2.SubnetType `yaml:"subnetsType,omitempty"`

	UnknownKeys `yaml:",inline"`
}

func (c NetworkConfig) Props() network.Props {
	return network.Props{
		SubnetsAvailabilityZones: c.SubnetsAvailabilityZones,
		SubnetsGroupName:         c.SubnetsGroupName,
		SubnetsIDs:               c.SubnetsIDs,
		SubnetsOnePerAz:          c.SubnetsOnePerAz,
		SubnetsType:              c.SubnetsType,
		VpcCIDR:                  c.VpcCIDR.String(),
		VpcDefault:               c.VpcDefault,
		VpcID:                    c.VpcID,
		VpcMaxAzs:                c.VpcMaxAzs,
		VpcName:                  c.VpcName,
		VpcRegion:                c.VpcRegion,
		VpcSubnetConfiguration:   c.VpcSubnetConfiguration,
		VpcNatGateways:           c.VpcNatGateways,
	}
}

// IsLookup tells whether the entry imports an existing VPC.
func (c NetworkConfig) IsLookup() bool {
	return c.VpcID != ""
}

func (c NetworkConfig) validate(keyPath string, nameRequired bool) error {
	if err := c.FailWhenUnknownKeysFound(keyPath, yamlKeys(c)...); err != nil {
		return err
	}
	if c.ID == "" {
		return fmt.Errorf("%s: either id or vpcName must be set", keyPath)
	}
	if nameRequired && c.VpcName == "" {
		return fmt.Errorf("%s: vpcName is required", keyPath)
	}
	if c.IsLookup() && !c.VpcCIDR.IsEmpty() {
		return fmt.Errorf("%s: vpcCidr can't be combined with vpcId(=%s). Imported vpcs keep their own cidr", keyPath, c.VpcID)
	}
	if c.VpcMaxAzs < 0 {
		return fmt.Errorf("%s: vpcMaxAzs must not be negative", keyPath)
	}
	for i, g := range c.VpcSubnetConfiguration {
		if err := g.Validate(); err != nil {
			return fmt.Errorf("%s.vpcSubnetConfiguration[%d]: %v", keyPath, i, err)
		}
	}
	return nil
}

// EndpointConfig is one entry of `apiEndpoints`.
type EndpointConfig struct {
	// Network is the id of the network or environment the endpoint is placed in.
	Network         string         `yaml:"network"`
	StackName       string         `yaml:"stackName"`
	SecurityGroupID string         `yaml:"securityGroupId,omitempty"`
	SubnetType      ec2.SubnetType `yaml:"subnetType,omitempty"`
	Port            int            `yaml:"port,omitempty"`
	UnknownKeys     `yaml:",inline"`
}

var defaultEndpointConfig = EndpointConfig{
	SubnetType: ec2.SubnetTypePrivate,
	Port:       443,
}

func (c EndpointConfig) Props() network.EndpointProps {
	return network.EndpointProps{
		StackName:       c.StackName,
		SecurityGroupID: c.SecurityGroupID,
		SubnetType:      c.SubnetType,
		Port:            c.Port,
	}
}

func (c EndpointConfig) validate(keyPath string) error {
	if err := c.FailWhenUnknownKeysFound(keyPath, yamlKeys(c)...); err != nil {
		return err
	}
	if c.Network == "" {
		return fmt.Errorf("%s: network is required", keyPath)
	}
	if c.StackName == "" {
		return fmt.Errorf("%s: stackName is required", keyPath)
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("%s: port must be between 1 and 65535 but was %d", keyPath, c.Port)
	}
	return nil
}
