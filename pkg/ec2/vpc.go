package ec2

import (
	"fmt"
	"net"

	"github.com/kubernetes-incubator/kube-aws-network/logger"
	"github.com/kubernetes-incubator/kube-aws-network/netutil"
	"github.com/kubernetes-incubator/kube-aws-network/pkg/cfn"
	"github.com/pkg/errors"
)

const (
	ResourceTypeVPC                         = "AWS::EC2::VPC"
	ResourceTypeSubnet                      = "AWS::EC2::Subnet"
	ResourceTypeRouteTable                  = "AWS::EC2::RouteTable"
	ResourceTypeRoute                       = "AWS::EC2::Route"
	ResourceTypeSubnetRouteTableAssociation = "AWS::EC2::SubnetRouteTableAssociation"
	ResourceTypeInternetGateway             = "AWS::EC2::InternetGateway"
	ResourceTypeVPCGatewayAttachment        = "AWS::EC2::VPCGatewayAttachment"
	ResourceTypeNatGateway                  = "AWS::EC2::NatGateway"
	ResourceTypeEIP                         = "AWS::EC2::EIP"
	ResourceTypeSecurityGroup               = "AWS::EC2::SecurityGroup"
	ResourceTypeVPCEndpoint                 = "AWS::EC2::VPCEndpoint"
)

// Region-agnostic stacks get this many availability zones.
const agnosticAvailabilityZones = 2

// VPC is a network either created in the stack or looked up from an existing account.
type VPC interface {
	Stack() *cfn.Stack
	// VpcID is the CloudFormation value of the VPC id.
	VpcID() interface{}
	// CidrBlock is the CloudFormation value of the VPC's primary IPv4 block.
	CidrBlock() interface{}
	AvailabilityZones() []AvailabilityZone
	Subnets() []Subnet
	PublicSubnets() []Subnet
	PrivateSubnets() []Subnet
	IsolatedSubnets() []Subnet
	SelectSubnets(SubnetSelection) (*SelectedSubnets, error)
}

type vpcBase struct {
	stack   *cfn.Stack
	azs     []AvailabilityZone
	subnets []Subnet
}

func (v *vpcBase) Stack() *cfn.Stack {
	return v.stack
}

func (v *vpcBase) AvailabilityZones() []AvailabilityZone {
	return v.azs
}

func (v *vpcBase) Subnets() []Subnet {
	return v.subnets
}

func (v *vpcBase) PublicSubnets() []Subnet {
	return subnetsOfType(v.subnets, SubnetTypePublic)
}

func (v *vpcBase) PrivateSubnets() []Subnet {
	return subnetsOfType(v.subnets, SubnetTypePrivate)
}

func (v *vpcBase) IsolatedSubnets() []Subnet {
	return subnetsOfType(v.subnets, SubnetTypeIsolated)
}

func (v *vpcBase) SelectSubnets(sel SubnetSelection) (*SelectedSubnets, error) {
	return selectSubnets(v.subnets, sel)
}

type VpcProps struct {
	CIDR string
	// MaxAzs caps the number of availability zones. Zero means every zone known to the stack.
	MaxAzs int
	// SubnetConfiguration defaults to one Public and one Private group.
	SubnetConfiguration []SubnetConfiguration
	// NatGateways defaults to one per availability zone when private subnets exist.
	NatGateways *int
	VpcName     string
}

// Vpc is a VPC created in the stack together with its subnets, route tables and gateways.
type Vpc struct {
	vpcBase
	LogicalID         string
	CIDR              string
	InternetGatewayID string
	NatGatewayIDs     []string
}

func (v *Vpc) VpcID() interface{} {
	return cfn.Ref(v.LogicalID)
}

func (v *Vpc) CidrBlock() interface{} {
	return cfn.GetAtt(v.LogicalID, "CidrBlock")
}

func NewVpc(scope cfn.Scope, id string, props VpcProps) (*Vpc, error) {
	s, err := cfn.NewScope(scope, id)
	if err != nil {
		return nil, err
	}
	stack := s.Stack()

	alloc, err := netutil.NewAllocator(props.CIDR)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid cidr for vpc %s", cfn.DisplayPath(s))
	}

	groups := props.SubnetConfiguration
	if len(groups) == 0 {
		groups = DefaultSubnetConfiguration()
	}
	if err := validateSubnetGroups(groups); err != nil {
		return nil, errors.Wrapf(err, "invalid subnet configuration for vpc %s", cfn.DisplayPath(s))
	}

	vpc := &Vpc{
		vpcBase: vpcBase{
			stack: stack,
			azs:   availabilityZones(stack, props.MaxAzs),
		},
		LogicalID: scope.LogicalID(id),
		CIDR:      alloc.Network().String(),
	}

	name := props.VpcName
	if name == "" {
		name = cfn.DisplayPath(s)
	}

	if err := stack.AddResource(vpc.LogicalID, cfn.NewResource(ResourceTypeVPC, map[string]interface{}{
		"CidrBlock":          props.CIDR,
		"EnableDnsHostnames": true,
		"EnableDnsSupport":   true,
		"InstanceTenancy":    "default",
		"Tags":               []cfn.Tag{{Key: "Name", Value: name}},
	})); err != nil {
		return nil, err
	}

	if hasGroupOfType(groups, SubnetTypePublic) {
		vpc.InternetGatewayID = s.LogicalID("IGW")
		if err := stack.AddResource(vpc.InternetGatewayID, cfn.NewResource(ResourceTypeInternetGateway, map[string]interface{}{
			"Tags": []cfn.Tag{{Key: "Name", Value: name}},
		})); err != nil {
			return nil, err
		}
		if err := stack.AddResource(s.LogicalID("VPCGW"), cfn.NewResource(ResourceTypeVPCGatewayAttachment, map[string]interface{}{
			"VpcId":             vpc.VpcID(),
			"InternetGatewayId": cfn.Ref(vpc.InternetGatewayID),
		})); err != nil {
			return nil, err
		}
	}

	if err := vpc.createSubnets(s, alloc, groups); err != nil {
		return nil, errors.Wrapf(err, "failed to plan subnets of vpc %s", cfn.DisplayPath(s))
	}

	if err := vpc.createNatGateways(s, groups, props.NatGateways); err != nil {
		return nil, errors.Wrapf(err, "failed to plan nat gateways of vpc %s", cfn.DisplayPath(s))
	}

	exportPrefix := "${AWS::StackName}-" + vpc.LogicalID
	if err := stack.AddOutput(vpc.LogicalID+"Id", &cfn.Output{
		Description: fmt.Sprintf("The id of the vpc %s", cfn.DisplayPath(s)),
		Value:       vpc.VpcID(),
		ExportName:  cfn.Sub(exportPrefix + "-VpcId"),
	}); err != nil {
		return nil, err
	}
	if err := stack.AddOutput(vpc.LogicalID+"CidrBlock", &cfn.Output{
		Description: fmt.Sprintf("The primary IPv4 block of the vpc %s", cfn.DisplayPath(s)),
		Value:       vpc.CidrBlock(),
		ExportName:  cfn.Sub(exportPrefix + "-CidrBlock"),
	}); err != nil {
		return nil, err
	}

	logger.Debugf("Planned vpc %s (%s) with %d subnet(s) across %d availability zone(s)", vpc.LogicalID, vpc.CIDR, len(vpc.subnets), len(vpc.azs))

	return vpc, nil
}

func (v *Vpc) createSubnets(s cfn.Scope, alloc *netutil.Allocator, groups []SubnetConfiguration) error {
	stack := s.Stack()
	zones := len(v.azs)

	var reserved uint64
	remainingGroups := 0
	for _, g := range groups {
		if g.CidrMask != 0 {
			reserved += netutil.Size(g.CidrMask) * uint64(zones)
		} else {
			remainingGroups++
		}
	}

	remainingMask := 0
	if remainingGroups > 0 {
		mask, err := alloc.MaskForRemaining(remainingGroups*zones, reserved)
		if err != nil {
			return err
		}
		remainingMask = mask
	}

	for _, g := range groups {
		mask := g.CidrMask
		if mask == 0 {
			mask = remainingMask
		}

		for i, az := range v.azs {
			block, err := alloc.Next(mask)
			if err != nil {
				return errors.Wrapf(err, "subnet group %s", g.Name)
			}
			if g.Reserved {
				continue
			}

			subnet, err := v.createSubnet(s, g, i, az, block)
			if err != nil {
				return err
			}
			v.subnets = append(v.subnets, subnet)

			if g.SubnetType == SubnetTypePublic {
				route := cfn.NewResource(ResourceTypeRoute, map[string]interface{}{
					"RouteTableId":         subnet.RouteTableID,
					"DestinationCidrBlock": "0.0.0.0/0",
					"GatewayId":            cfn.Ref(v.InternetGatewayID),
				})
				route.AddDependency(s.LogicalID("VPCGW"))
				if err := stack.AddResource(subnet.LogicalID+"DefaultRoute", route); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (v *Vpc) createSubnet(s cfn.Scope, g SubnetConfiguration, index int, az AvailabilityZone, block *net.IPNet) (Subnet, error) {
	stack := s.Stack()
	id := fmt.Sprintf("%sSubnet%d", g.Name, index+1)
	logicalID := s.LogicalID(id)
	routeTableID := logicalID + "RouteTable"
	name := cfn.DisplayPath(s) + "/" + id

	mapPublicIP := g.SubnetType == SubnetTypePublic
	if g.MapPublicIPOnLaunch != nil {
		mapPublicIP = *g.MapPublicIPOnLaunch
	}

	if err := stack.AddResource(logicalID, cfn.NewResource(ResourceTypeSubnet, map[string]interface{}{
		"VpcId":               v.VpcID(),
		"AvailabilityZone":    az.Value(),
		"CidrBlock":           block.String(),
		"MapPublicIpOnLaunch": mapPublicIP,
		"Tags": []cfn.Tag{
			{Key: SubnetNameTag, Value: g.Name},
			{Key: SubnetTypeTag, Value: string(g.SubnetType)},
			{Key: "Name", Value: name},
		},
	})); err != nil {
		return Subnet{}, err
	}

	if err := stack.AddResource(routeTableID, cfn.NewResource(ResourceTypeRouteTable, map[string]interface{}{
		"VpcId": v.VpcID(),
		"Tags":  []cfn.Tag{{Key: "Name", Value: name}},
	})); err != nil {
		return Subnet{}, err
	}

	if err := stack.AddResource(logicalID+"RouteTableAssociation", cfn.NewResource(ResourceTypeSubnetRouteTableAssociation, map[string]interface{}{
		"RouteTableId": cfn.Ref(routeTableID),
		"SubnetId":     cfn.Ref(logicalID),
	})); err != nil {
		return Subnet{}, err
	}

	return Subnet{
		LogicalID:        logicalID,
		AvailabilityZone: az,
		CidrBlock:        block.String(),
		Type:             g.SubnetType,
		GroupName:        g.Name,
		RouteTableID:     cfn.Ref(routeTableID),
	}, nil
}

func (v *Vpc) createNatGateways(s cfn.Scope, groups []SubnetConfiguration, requested *int) error {
	private := v.PrivateSubnets()
	if len(private) == 0 {
		if requested != nil && *requested > 0 {
			logger.Warnf("vpc %s: natGateways(=%d) ignored because there are no private subnets", cfn.DisplayPath(s), *requested)
		}
		return nil
	}

	count := len(v.azs)
	if requested != nil {
		count = *requested
	}
	if count < 0 {
		return fmt.Errorf("natGateways must not be negative but was %d", count)
	}
	if count == 0 {
		return fmt.Errorf("natGateways is 0 but private subnets exist. Use Isolated subnets instead or allow at least one nat gateway")
	}

	var placement []Subnet
	for _, g := range groups {
		if g.SubnetType == SubnetTypePublic && !g.Reserved {
			placement = subnetsInGroup(v.subnets, g.Name)
			break
		}
	}
	if len(placement) == 0 {
		return fmt.Errorf("private subnets need a public subnet group to put the nat gateways into")
	}
	if count > len(placement) {
		logger.Warnf("vpc %s: only %d public subnet(s) available, creating %d nat gateway(s) instead of %d", cfn.DisplayPath(s), len(placement), len(placement), count)
		count = len(placement)
	}

	stack := s.Stack()
	byAZ := map[string]string{}
	for i := 0; i < count; i++ {
		public := placement[i]
		eipID := public.LogicalID + "EIP"
		natID := public.LogicalID + "NATGateway"

		if err := stack.AddResource(eipID, cfn.NewResource(ResourceTypeEIP, map[string]interface{}{
			"Domain": "vpc",
			"Tags":   []cfn.Tag{{Key: "Name", Value: public.LogicalID}},
		})); err != nil {
			return err
		}

		nat := cfn.NewResource(ResourceTypeNatGateway, map[string]interface{}{
			"SubnetId":     public.ID(),
			"AllocationId": cfn.GetAtt(eipID, "AllocationId"),
			"Tags":         []cfn.Tag{{Key: "Name", Value: public.LogicalID}},
		})
		nat.AddDependency(public.LogicalID+"DefaultRoute", public.LogicalID+"RouteTableAssociation")
		if err := stack.AddResource(natID, nat); err != nil {
			return err
		}

		v.NatGatewayIDs = append(v.NatGatewayIDs, natID)
		byAZ[public.AvailabilityZone.String()] = natID
	}

	for i, subnet := range private {
		natID, ok := byAZ[subnet.AvailabilityZone.String()]
		if !ok {
			natID = v.NatGatewayIDs[i%len(v.NatGatewayIDs)]
		}
		if err := stack.AddResource(subnet.LogicalID+"DefaultRoute", cfn.NewResource(ResourceTypeRoute, map[string]interface{}{
			"RouteTableId":         subnet.RouteTableID,
			"DestinationCidrBlock": "0.0.0.0/0",
			"NatGatewayId":         cfn.Ref(natID),
		})); err != nil {
			return err
		}
	}
	return nil
}

func validateSubnetGroups(groups []SubnetConfiguration) error {
	seen := map[string]bool{}
	for _, g := range groups {
		if err := g.Validate(); err != nil {
			return err
		}
		if seen[g.Name] {
			return fmt.Errorf("subnet group names must be unique but %s is used more than once", g.Name)
		}
		seen[g.Name] = true
	}
	return nil
}

func hasGroupOfType(groups []SubnetConfiguration, t SubnetType) bool {
	for _, g := range groups {
		if g.SubnetType == t && !g.Reserved {
			return true
		}
	}
	return false
}

func availabilityZones(stack *cfn.Stack, maxAzs int) []AvailabilityZone {
	var azs []AvailabilityZone
	if len(stack.AvailabilityZones) > 0 {
		for i, name := range stack.AvailabilityZones {
			azs = append(azs, AvailabilityZone{Name: name, Index: i})
		}
	} else {
		for i := 0; i < agnosticAvailabilityZones; i++ {
			azs = append(azs, AvailabilityZone{Index: i})
		}
	}
	if maxAzs > 0 && maxAzs < len(azs) {
		azs = azs[:maxAzs]
	}
	return azs
}
