package ec2

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go/aws"
	awsec2 "github.com/aws/aws-sdk-go/service/ec2"
	"github.com/kubernetes-incubator/kube-aws-network/cfnstack"
	"github.com/kubernetes-incubator/kube-aws-network/logger"
	"github.com/pkg/errors"
)

// EC2Resolver looks up VPCs through the EC2 API. Results are cached per lookup options.
type EC2Resolver struct {
	clientFor func(region string) (cfnstack.EC2Interrogator, error)

	mu    sync.Mutex
	cache map[string]*VpcAttributes
}

// NewEC2Resolver creates a resolver. clientFor returns an EC2 client for the given region.
func NewEC2Resolver(clientFor func(region string) (cfnstack.EC2Interrogator, error)) *EC2Resolver {
	return &EC2Resolver{
		clientFor: clientFor,
		cache:     map[string]*VpcAttributes{},
	}
}

func (r *EC2Resolver) ResolveVpc(opts LookupOptions) (*VpcAttributes, error) {
	key := opts.String()

	r.mu.Lock()
	defer r.mu.Unlock()

	if cached, ok := r.cache[key]; ok {
		return cached, nil
	}

	client, err := r.clientFor(opts.Region)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create ec2 client for region %s", opts.Region)
	}

	attrs, err := resolveVpc(client, opts)
	if err != nil {
		return nil, err
	}
	r.cache[key] = attrs
	return attrs, nil
}

// AvailabilityZones lists the available zones of region in name order.
func (r *EC2Resolver) AvailabilityZones(region string) ([]string, error) {
	client, err := r.clientFor(region)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create ec2 client for region %s", region)
	}
	out, err := client.DescribeAvailabilityZones(&awsec2.DescribeAvailabilityZonesInput{
		Filters: []*awsec2.Filter{
			{Name: aws.String("state"), Values: aws.StringSlice([]string{"available"})},
		},
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to describe availability zones of %s", region)
	}
	zones := []string{}
	for _, z := range out.AvailabilityZones {
		zones = append(zones, aws.StringValue(z.ZoneName))
	}
	sort.Strings(zones)
	return zones, nil
}

func resolveVpc(client cfnstack.EC2Interrogator, opts LookupOptions) (*VpcAttributes, error) {
	filters := []*awsec2.Filter{}
	if opts.VpcID != "" {
		filters = append(filters, &awsec2.Filter{Name: aws.String("vpc-id"), Values: aws.StringSlice([]string{opts.VpcID})})
	}
	if opts.IsDefault != nil {
		filters = append(filters, &awsec2.Filter{Name: aws.String("isDefault"), Values: aws.StringSlice([]string{fmt.Sprintf("%t", *opts.IsDefault)})})
	}
	if opts.VpcName != "" {
		filters = append(filters, &awsec2.Filter{Name: aws.String("tag:Name"), Values: aws.StringSlice([]string{opts.VpcName})})
	}

	vpcs, err := client.DescribeVpcs(&awsec2.DescribeVpcsInput{Filters: filters})
	if err != nil {
		return nil, errors.Wrap(err, "error describing vpcs")
	}
	switch n := len(vpcs.Vpcs); {
	case n == 0:
		return nil, fmt.Errorf("could not find any vpc matching %s", opts)
	case n > 1:
		ids := make([]string, n)
		for i, v := range vpcs.Vpcs {
			ids[i] = aws.StringValue(v.VpcId)
		}
		return nil, fmt.Errorf("found %d vpcs matching %s: %s. Narrow down the lookup", n, opts, strings.Join(ids, ", "))
	}
	vpc := vpcs.Vpcs[0]
	vpcID := aws.StringValue(vpc.VpcId)

	vpcFilter := []*awsec2.Filter{{Name: aws.String("vpc-id"), Values: aws.StringSlice([]string{vpcID})}}

	subnets, err := client.DescribeSubnets(&awsec2.DescribeSubnetsInput{Filters: vpcFilter})
	if err != nil {
		return nil, errors.Wrapf(err, "error describing subnets of %s", vpcID)
	}
	routeTables, err := client.DescribeRouteTables(&awsec2.DescribeRouteTablesInput{Filters: vpcFilter})
	if err != nil {
		return nil, errors.Wrapf(err, "error describing route tables of %s", vpcID)
	}

	attrs := &VpcAttributes{
		VpcID:     vpcID,
		CidrBlock: aws.StringValue(vpc.CidrBlock),
	}

	seenAZ := map[string]bool{}
	for _, s := range sortedSubnets(subnets.Subnets) {
		subnetID := aws.StringValue(s.SubnetId)
		az := aws.StringValue(s.AvailabilityZone)
		rt := routeTableOf(routeTables.RouteTables, subnetID)

		subnetType, groupName := classifySubnet(s, rt)
		sa := SubnetAttributes{
			SubnetID:         subnetID,
			AvailabilityZone: az,
			CidrBlock:        aws.StringValue(s.CidrBlock),
			Type:             subnetType,
			GroupName:        groupName,
		}
		if rt != nil {
			sa.RouteTableID = aws.StringValue(rt.RouteTableId)
		}
		attrs.Subnets = append(attrs.Subnets, sa)

		if !seenAZ[az] {
			seenAZ[az] = true
			attrs.AvailabilityZones = append(attrs.AvailabilityZones, az)
		}
	}
	sort.Strings(attrs.AvailabilityZones)

	logger.Debugf("Found vpc %s with %d subnet(s) and %d route table(s)", vpcID, len(attrs.Subnets), len(routeTables.RouteTables))

	return attrs, nil
}

// sortedSubnets orders subnets by availability zone then cidr so that lookups are deterministic.
func sortedSubnets(subnets []*awsec2.Subnet) []*awsec2.Subnet {
	sorted := append([]*awsec2.Subnet{}, subnets...)
	sort.SliceStable(sorted, func(i, j int) bool {
		ai, aj := aws.StringValue(sorted[i].AvailabilityZone), aws.StringValue(sorted[j].AvailabilityZone)
		if ai != aj {
			return ai < aj
		}
		return aws.StringValue(sorted[i].CidrBlock) < aws.StringValue(sorted[j].CidrBlock)
	})
	return sorted
}

// routeTableOf returns the route table explicitly associated to the subnet, or else the main route table.
func routeTableOf(tables []*awsec2.RouteTable, subnetID string) *awsec2.RouteTable {
	var main *awsec2.RouteTable
	for _, t := range tables {
		for _, a := range t.Associations {
			if aws.StringValue(a.SubnetId) == subnetID {
				return t
			}
			if aws.BoolValue(a.Main) {
				main = t
			}
		}
	}
	return main
}

func classifySubnet(s *awsec2.Subnet, rt *awsec2.RouteTable) (SubnetType, string) {
	var typeTag, nameTag string
	for _, t := range s.Tags {
		switch aws.StringValue(t.Key) {
		case SubnetTypeTag:
			typeTag = aws.StringValue(t.Value)
		case SubnetNameTag:
			nameTag = aws.StringValue(t.Value)
		}
	}

	if typeTag != "" {
		if t, err := ParseSubnetType(typeTag); err == nil {
			return t, nameTag
		}
		logger.Warnf("subnet %s has an unknown %s tag %q. Falling back to its routes", aws.StringValue(s.SubnetId), SubnetTypeTag, typeTag)
	}

	t := SubnetTypeIsolated
	if rt != nil {
		for _, r := range rt.Routes {
			if aws.StringValue(r.DestinationCidrBlock) != "0.0.0.0/0" {
				continue
			}
			if strings.HasPrefix(aws.StringValue(r.GatewayId), "igw-") {
				t = SubnetTypePublic
				break
			}
			t = SubnetTypePrivate
		}
	}
	return t, nameTag
}
