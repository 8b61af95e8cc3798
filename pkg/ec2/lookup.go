package ec2

import (
	"fmt"

	"github.com/kubernetes-incubator/kube-aws-network/logger"
	"github.com/kubernetes-incubator/kube-aws-network/pkg/cfn"
	"github.com/pkg/errors"
)

const vpcResolverContextKey = "ec2:vpc-resolver"

// LookupOptions narrows down the existing VPC to import. Every non-empty field must match.
type LookupOptions struct {
	VpcID string
	// VpcName matches the Name tag of the VPC.
	VpcName string
	// Region defaults to the region of the stack.
	Region    string
	IsDefault *bool
}

func (o LookupOptions) String() string {
	s := fmt.Sprintf("vpcId=%q vpcName=%q region=%q", o.VpcID, o.VpcName, o.Region)
	if o.IsDefault != nil {
		s += fmt.Sprintf(" isDefault=%t", *o.IsDefault)
	}
	return s
}

type VpcAttributes struct {
	VpcID             string
	CidrBlock         string
	AvailabilityZones []string
	Subnets           []SubnetAttributes
}

type SubnetAttributes struct {
	SubnetID         string
	AvailabilityZone string
	CidrBlock        string
	RouteTableID     string
	Type             SubnetType
	GroupName        string
}

// VpcResolver finds an existing VPC. Implementations talk to the cloud provider.
type VpcResolver interface {
	ResolveVpc(LookupOptions) (*VpcAttributes, error)
}

// SetVpcResolver registers the resolver used by every lookup in the stack.
func SetVpcResolver(stack *cfn.Stack, r VpcResolver) {
	stack.SetContext(vpcResolverContextKey, r)
}

func vpcResolverOf(stack *cfn.Stack) (VpcResolver, error) {
	v, ok := stack.Context(vpcResolverContextKey)
	if !ok {
		return nil, fmt.Errorf("stack %s has no vpc resolver. Looking up an existing vpc requires AWS access", stack.Name)
	}
	r, ok := v.(VpcResolver)
	if !ok || r == nil {
		return nil, fmt.Errorf("stack %s has an invalid vpc resolver: %T", stack.Name, v)
	}
	return r, nil
}

// ImportedVpc is an existing VPC referenced by physical ids. It adds no resources to the stack.
type ImportedVpc struct {
	vpcBase
	attrs VpcAttributes
}

func (v *ImportedVpc) VpcID() interface{} {
	return v.attrs.VpcID
}

func (v *ImportedVpc) CidrBlock() interface{} {
	return v.attrs.CidrBlock
}

// VpcFromLookup imports an existing VPC matching opts. Lookups need a concrete region.
func VpcFromLookup(scope cfn.Scope, id string, opts LookupOptions) (*ImportedVpc, error) {
	s, err := cfn.NewScope(scope, id)
	if err != nil {
		return nil, err
	}
	stack := s.Stack()

	if opts.Region == "" {
		opts.Region = stack.Region
	}
	if opts.Region == "" {
		return nil, fmt.Errorf("vpc lookup %s requires the stack region to be set", cfn.DisplayPath(s))
	}

	resolver, err := vpcResolverOf(stack)
	if err != nil {
		return nil, err
	}

	attrs, err := resolver.ResolveVpc(opts)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to look up vpc for %s (%s)", cfn.DisplayPath(s), opts)
	}

	vpc := &ImportedVpc{
		vpcBase: vpcBase{stack: stack},
		attrs:   *attrs,
	}

	zones := map[string]AvailabilityZone{}
	for i, name := range attrs.AvailabilityZones {
		zones[name] = AvailabilityZone{Name: name, Index: i}
		vpc.azs = append(vpc.azs, zones[name])
	}

	for _, sa := range attrs.Subnets {
		az, ok := zones[sa.AvailabilityZone]
		if !ok {
			az = AvailabilityZone{Name: sa.AvailabilityZone, Index: len(vpc.azs)}
			zones[sa.AvailabilityZone] = az
			vpc.azs = append(vpc.azs, az)
		}
		groupName := sa.GroupName
		if groupName == "" {
			groupName = string(sa.Type)
		}
		var routeTable interface{}
		if sa.RouteTableID != "" {
			routeTable = sa.RouteTableID
		}
		vpc.subnets = append(vpc.subnets, Subnet{
			PhysicalID:       sa.SubnetID,
			AvailabilityZone: az,
			CidrBlock:        sa.CidrBlock,
			Type:             sa.Type,
			GroupName:        groupName,
			RouteTableID:     routeTable,
		})
	}

	logger.Debugf("Imported vpc %s (%s) with %d subnet(s)", attrs.VpcID, attrs.CidrBlock, len(vpc.subnets))

	return vpc, nil
}
