package network

import (
	"github.com/imdario/mergo"
	"github.com/kubernetes-incubator/kube-aws-network/pkg/cfn"
	"github.com/kubernetes-incubator/kube-aws-network/pkg/ec2"
	"github.com/pkg/errors"
)

const (
	DefaultCIDR   = "10.0.0.0/16"
	DefaultMaxAzs = 99
)

// Props configures a Network or an Environment. Setting VpcID imports an existing VPC instead of creating one.
type Props struct {
	SubnetsAvailabilityZones []string
	SubnetsGroupName         string
	SubnetsIDs               []string
	SubnetsOnePerAz          *bool
	SubnetsType              ec2.SubnetType

	VpcCIDR                string
	VpcDefault             *bool
	VpcID                  string
	VpcMaxAzs              int
	VpcName                string
	VpcRegion              string
	VpcSubnetConfiguration []ec2.SubnetConfiguration
	VpcNatGateways         *int
}

var defaultProps = Props{
	VpcCIDR:   DefaultCIDR,
	VpcMaxAzs: DefaultMaxAzs,
}

// WithDefaults returns a copy of p with every unset field defaulted.
func (p Props) WithDefaults() (Props, error) {
	if err := mergo.Merge(&p, defaultProps); err != nil {
		return p, errors.Wrap(err, "failed to apply network defaults")
	}
	if p.SubnetsType == "" && p.SubnetsGroupName == "" {
		p.SubnetsType = ec2.SubnetTypePublic
	}
	return p, nil
}

// Source is where the VPC of a construct comes from: either Create or Lookup.
type Source interface {
	vpc(scope cfn.Scope, id string) (ec2.VPC, error)
}

type Create struct {
	CIDR                string
	MaxAzs              int
	SubnetConfiguration []ec2.SubnetConfiguration
	NatGateways         *int
	Name                string
}

type Lookup struct {
	VpcID     string
	Name      string
	Region    string
	IsDefault *bool
}

func (p Props) Source() Source {
	if p.VpcID != "" {
		return Lookup{
			VpcID:     p.VpcID,
			Name:      p.VpcName,
			Region:    p.VpcRegion,
			IsDefault: p.VpcDefault,
		}
	}
	return Create{
		CIDR:                p.VpcCIDR,
		MaxAzs:              p.VpcMaxAzs,
		SubnetConfiguration: p.VpcSubnetConfiguration,
		NatGateways:         p.VpcNatGateways,
		Name:                p.VpcName,
	}
}

func (c Create) vpc(s cfn.Scope, id string) (ec2.VPC, error) {
	vpc, err := ec2.NewVpc(s, id, ec2.VpcProps{
		CIDR:                c.CIDR,
		MaxAzs:              c.MaxAzs,
		SubnetConfiguration: c.SubnetConfiguration,
		NatGateways:         c.NatGateways,
		VpcName:             c.Name,
	})
	if err != nil {
		return nil, err
	}
	return vpc, nil
}

func (l Lookup) vpc(s cfn.Scope, id string) (ec2.VPC, error) {
	vpc, err := ec2.VpcFromLookup(s, id, ec2.LookupOptions{
		VpcID:     l.VpcID,
		VpcName:   l.Name,
		Region:    l.Region,
		IsDefault: l.IsDefault,
	})
	if err != nil {
		return nil, err
	}
	return vpc, nil
}

// Selection is the subnet selection described by the props.
func (p Props) Selection() ec2.SubnetSelection {
	sel := ec2.SubnetSelection{
		AvailabilityZones: p.SubnetsAvailabilityZones,
		OnePerAz:          p.SubnetsOnePerAz,
		SubnetGroupName:   p.SubnetsGroupName,
		SubnetType:        p.SubnetsType,
	}
	if len(p.SubnetsIDs) > 0 {
		sel.SubnetFilters = []ec2.SubnetFilter{ec2.SubnetFilterByIDs(p.SubnetsIDs)}
	}
	return sel
}
