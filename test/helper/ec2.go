package helper

import (
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/ec2"
)

// DummyEC2Service serves canned answers to the network lookups.
// Filters on vpc-id, isDefault and tag:Name are honoured for DescribeVpcs; every other call filters on vpc-id only.
type DummyEC2Service struct {
	Vpcs              []*ec2.Vpc
	Subnets           []*ec2.Subnet
	RouteTables       []*ec2.RouteTable
	AvailabilityZones []string

	DescribeVpcsCalls int
}

func (svc *DummyEC2Service) DescribeVpcs(input *ec2.DescribeVpcsInput) (*ec2.DescribeVpcsOutput, error) {
	svc.DescribeVpcsCalls++

	output := &ec2.DescribeVpcsOutput{}
	for _, vpc := range svc.Vpcs {
		if vpcMatches(vpc, input.Filters) {
			output.Vpcs = append(output.Vpcs, vpc)
		}
	}
	return output, nil
}

func (svc *DummyEC2Service) DescribeSubnets(input *ec2.DescribeSubnetsInput) (*ec2.DescribeSubnetsOutput, error) {
	vpcID, err := vpcIDFilter(input.Filters)
	if err != nil {
		return nil, err
	}
	output := &ec2.DescribeSubnetsOutput{}
	for _, s := range svc.Subnets {
		if aws.StringValue(s.VpcId) == vpcID {
			output.Subnets = append(output.Subnets, s)
		}
	}
	return output, nil
}

func (svc *DummyEC2Service) DescribeRouteTables(input *ec2.DescribeRouteTablesInput) (*ec2.DescribeRouteTablesOutput, error) {
	vpcID, err := vpcIDFilter(input.Filters)
	if err != nil {
		return nil, err
	}
	output := &ec2.DescribeRouteTablesOutput{}
	for _, t := range svc.RouteTables {
		if aws.StringValue(t.VpcId) == vpcID {
			output.RouteTables = append(output.RouteTables, t)
		}
	}
	return output, nil
}

func (svc *DummyEC2Service) DescribeAvailabilityZones(input *ec2.DescribeAvailabilityZonesInput) (*ec2.DescribeAvailabilityZonesOutput, error) {
	output := &ec2.DescribeAvailabilityZonesOutput{}
	for _, name := range svc.AvailabilityZones {
		output.AvailabilityZones = append(output.AvailabilityZones, &ec2.AvailabilityZone{
			ZoneName: aws.String(name),
			State:    aws.String("available"),
		})
	}
	return output, nil
}

func vpcMatches(vpc *ec2.Vpc, filters []*ec2.Filter) bool {
	for _, f := range filters {
		want := aws.StringValueSlice(f.Values)
		var got string
		switch aws.StringValue(f.Name) {
		case "vpc-id":
			got = aws.StringValue(vpc.VpcId)
		case "isDefault":
			got = fmt.Sprintf("%t", aws.BoolValue(vpc.IsDefault))
		case "tag:Name":
			for _, t := range vpc.Tags {
				if aws.StringValue(t.Key) == "Name" {
					got = aws.StringValue(t.Value)
				}
			}
		default:
			return false
		}
		if !contains(want, got) {
			return false
		}
	}
	return true
}

func vpcIDFilter(filters []*ec2.Filter) (string, error) {
	for _, f := range filters {
		if aws.StringValue(f.Name) == "vpc-id" && len(f.Values) == 1 {
			return aws.StringValue(f.Values[0]), nil
		}
	}
	return "", fmt.Errorf("expected exactly one vpc-id filter but got %v", filters)
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

// ExistingVpc is a VPC in us-west-2 with a public and a private subnet in each of two zones.
func ExistingVpc() *DummyEC2Service {
	subnet := func(id, az, cidr string, tags ...*ec2.Tag) *ec2.Subnet {
		return &ec2.Subnet{
			SubnetId:         aws.String(id),
			VpcId:            aws.String("vpc-0a1b2c3d"),
			AvailabilityZone: aws.String(az),
			CidrBlock:        aws.String(cidr),
			Tags:             tags,
		}
	}
	association := func(subnetID string) *ec2.RouteTableAssociation {
		return &ec2.RouteTableAssociation{SubnetId: aws.String(subnetID), Main: aws.Bool(false)}
	}

	return &DummyEC2Service{
		AvailabilityZones: []string{"us-west-2a", "us-west-2b", "us-west-2c"},
		Vpcs: []*ec2.Vpc{
			{
				VpcId:     aws.String("vpc-0a1b2c3d"),
				CidrBlock: aws.String("10.10.0.0/16"),
				IsDefault: aws.Bool(false),
				Tags:      []*ec2.Tag{{Key: aws.String("Name"), Value: aws.String("shared")}},
			},
			{
				VpcId:     aws.String("vpc-default"),
				CidrBlock: aws.String("172.31.0.0/16"),
				IsDefault: aws.Bool(true),
			},
		},
		Subnets: []*ec2.Subnet{
			subnet("subnet-pub-b", "us-west-2b", "10.10.1.0/24"),
			subnet("subnet-pub-a", "us-west-2a", "10.10.0.0/24"),
			subnet("subnet-priv-a", "us-west-2a", "10.10.128.0/24"),
			subnet("subnet-priv-b", "us-west-2b", "10.10.129.0/24"),
			subnet("subnet-db-a", "us-west-2a", "10.10.200.0/24",
				&ec2.Tag{Key: aws.String("kube-aws-network:subnet-type"), Value: aws.String("Isolated")},
				&ec2.Tag{Key: aws.String("kube-aws-network:subnet-name"), Value: aws.String("Database")},
			),
		},
		RouteTables: []*ec2.RouteTable{
			{
				RouteTableId: aws.String("rtb-public"),
				VpcId:        aws.String("vpc-0a1b2c3d"),
				Associations: []*ec2.RouteTableAssociation{association("subnet-pub-a"), association("subnet-pub-b")},
				Routes: []*ec2.Route{
					{DestinationCidrBlock: aws.String("10.10.0.0/16"), GatewayId: aws.String("local")},
					{DestinationCidrBlock: aws.String("0.0.0.0/0"), GatewayId: aws.String("igw-1234")},
				},
			},
			{
				RouteTableId: aws.String("rtb-private-a"),
				VpcId:        aws.String("vpc-0a1b2c3d"),
				Associations: []*ec2.RouteTableAssociation{association("subnet-priv-a")},
				Routes: []*ec2.Route{
					{DestinationCidrBlock: aws.String("0.0.0.0/0"), NatGatewayId: aws.String("nat-a")},
				},
			},
			{
				RouteTableId: aws.String("rtb-main"),
				VpcId:        aws.String("vpc-0a1b2c3d"),
				Associations: []*ec2.RouteTableAssociation{{Main: aws.Bool(true)}},
				Routes: []*ec2.Route{
					{DestinationCidrBlock: aws.String("0.0.0.0/0"), NatGatewayId: aws.String("nat-b")},
				},
			},
		},
	}
}
