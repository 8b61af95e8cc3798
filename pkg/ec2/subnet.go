package ec2

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kubernetes-incubator/kube-aws-network/pkg/cfn"
)

const (
	SubnetNameTag = "kube-aws-network:subnet-name"
	SubnetTypeTag = "kube-aws-network:subnet-type"
)

// AvailabilityZone is either a concrete zone name or, in region-agnostic stacks, an index into Fn::GetAZs.
type AvailabilityZone struct {
	Name  string
	Index int
}

func (az AvailabilityZone) Value() interface{} {
	if az.Name != "" {
		return az.Name
	}
	return cfn.Select(az.Index, cfn.GetAZs(""))
}

func (az AvailabilityZone) String() string {
	if az.Name != "" {
		return az.Name
	}
	return fmt.Sprintf("${AZ%d}", az.Index)
}

// SubnetConfiguration describes one subnet group. The group gets one subnet per availability zone.
type SubnetConfiguration struct {
	Name       string     `yaml:"name"`
	SubnetType SubnetType `yaml:"subnetType"`
	// CidrMask is the prefix length of every subnet in the group. Zero splits the remaining space evenly.
	CidrMask int `yaml:"cidrMask,omitempty"`
	// Reserved groups take up address space without creating subnets.
	Reserved            bool  `yaml:"reserved,omitempty"`
	MapPublicIPOnLaunch *bool `yaml:"mapPublicIpOnLaunch,omitempty"`
}

func DefaultSubnetConfiguration() []SubnetConfiguration {
	return []SubnetConfiguration{
		{Name: "Public", SubnetType: SubnetTypePublic},
		{Name: "Private", SubnetType: SubnetTypePrivate},
	}
}

func (c SubnetConfiguration) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("subnet group name must not be empty: %+v", c)
	}
	switch c.SubnetType {
	case SubnetTypePublic, SubnetTypePrivate, SubnetTypeIsolated:
	default:
		return fmt.Errorf("subnet group %s has an invalid subnet type %q", c.Name, c.SubnetType)
	}
	if c.CidrMask != 0 && (c.CidrMask < 16 || c.CidrMask > 28) {
		return fmt.Errorf("subnet group %s: cidrMask must be between 16 and 28 but was %d", c.Name, c.CidrMask)
	}
	if c.MapPublicIPOnLaunch != nil && *c.MapPublicIPOnLaunch && c.SubnetType != SubnetTypePublic {
		return fmt.Errorf("subnet group %s: mapPublicIpOnLaunch can only be enabled for public subnets", c.Name)
	}
	return nil
}

type Subnet struct {
	// LogicalID is set for subnets created in this stack.
	LogicalID string
	// PhysicalID is set for subnets that already exist.
	PhysicalID       string
	AvailabilityZone AvailabilityZone
	CidrBlock        string
	Type             SubnetType
	GroupName        string
	// RouteTableID is a CloudFormation value referencing the subnet's route table.
	RouteTableID interface{}
}

// ID is the CloudFormation value of the subnet id.
func (s Subnet) ID() interface{} {
	if s.PhysicalID != "" {
		return s.PhysicalID
	}
	return cfn.Ref(s.LogicalID)
}

// Matches tells whether id refers to this subnet, either by physical id or by logical id.
func (s Subnet) Matches(id string) bool {
	if id == "" {
		return false
	}
	if s.PhysicalID != "" && s.PhysicalID == id {
		return true
	}
	return s.LogicalID != "" && s.LogicalID == id
}

func (s Subnet) String() string {
	id := s.PhysicalID
	if id == "" {
		id = s.LogicalID
	}
	return fmt.Sprintf("%s(%s %s %s)", id, s.Type, s.AvailabilityZone, s.CidrBlock)
}

func (s Subnet) CidrMask() int {
	i := strings.LastIndex(s.CidrBlock, "/")
	if i < 0 {
		return 0
	}
	mask, err := strconv.Atoi(s.CidrBlock[i+1:])
	if err != nil {
		return 0
	}
	return mask
}
