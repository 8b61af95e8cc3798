package network

import (
	"fmt"

	"github.com/kubernetes-incubator/kube-aws-network/pkg/cfn"
	"github.com/kubernetes-incubator/kube-aws-network/pkg/ec2"
	"github.com/pkg/errors"
)

type EndpointProps struct {
	// StackName suffixes the ids of the endpoint and its security group.
	StackName string
	// SecurityGroupID reuses an existing security group instead of creating one.
	SecurityGroupID string
	SubnetType      ec2.SubnetType
	// Port is opened to the VPC's CIDR block on the created security group.
	Port int
}

// CreateAPIEndpoint creates a private API Gateway interface endpoint in vpc.
func CreateAPIEndpoint(scope cfn.Scope, vpc ec2.VPC, props EndpointProps) (*ec2.InterfaceEndpoint, error) {
	if vpc == nil {
		return nil, fmt.Errorf("api endpoint %s: vpc is required", props.StackName)
	}

	var sg ec2.SecurityGroup
	if props.SecurityGroupID != "" {
		sg = ec2.SecurityGroupFromID(props.SecurityGroupID)
	} else {
		if props.Port < 1 || props.Port > 65535 {
			return nil, fmt.Errorf("api endpoint %s: port must be between 1 and 65535 but was %d", props.StackName, props.Port)
		}
		created, err := ec2.NewSecurityGroup(scope, "ApiVpcEndpointSecurityGroup"+props.StackName, ec2.SecurityGroupProps{
			Vpc: vpc,
		})
		if err != nil {
			return nil, errors.Wrapf(err, "api endpoint %s", props.StackName)
		}
		if err := created.AddIngressRule(ec2.PeerIPv4(vpc.CidrBlock()), ec2.PortTCP(props.Port), ""); err != nil {
			return nil, err
		}
		sg = created
	}

	endpoint, err := ec2.NewInterfaceEndpoint(scope, "ApiVpcEndpoint"+props.StackName, ec2.InterfaceEndpointProps{
		Vpc:            vpc,
		Service:        ec2.ServiceAPIGateway,
		Subnets:        ec2.SubnetSelection{SubnetType: props.SubnetType},
		SecurityGroups: []ec2.SecurityGroup{sg},
	})
	if err != nil {
		return nil, errors.Wrapf(err, "api endpoint %s", props.StackName)
	}
	return endpoint, nil
}
