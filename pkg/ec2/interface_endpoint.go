package ec2

import (
	"fmt"

	"github.com/kubernetes-incubator/kube-aws-network/filereader/texttemplate"
	"github.com/kubernetes-incubator/kube-aws-network/pkg/cfn"
	"github.com/pkg/errors"
)

// ServiceAPIGateway is the endpoint service of private API Gateway APIs.
const ServiceAPIGateway = "execute-api"

const serviceNameTemplate = `{{ if hasPrefix "cn-" .Region }}cn.{{ end }}com.amazonaws.{{ .Region }}.{{ .Service }}`

// EndpointServiceName returns the regional service name of an AWS service.
// Region-agnostic stacks get an Fn::Sub resolving the region at deployment time.
func EndpointServiceName(stack *cfn.Stack, service string) (interface{}, error) {
	if stack.IsRegionAgnostic() {
		return cfn.Sub(fmt.Sprintf("com.amazonaws.${%s}.%s", cfn.AWSRegion, service)), nil
	}
	name, err := texttemplate.GetString("endpoint-service-name", serviceNameTemplate, map[string]string{
		"Region":  stack.Region,
		"Service": service,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to derive endpoint service name of %s", service)
	}
	return name, nil
}

type InterfaceEndpointProps struct {
	Vpc            VPC
	Service        string
	Subnets        SubnetSelection
	SecurityGroups []SecurityGroup
	// PrivateDNSEnabled defaults to true.
	PrivateDNSEnabled *bool
}

type InterfaceEndpoint struct {
	LogicalID   string
	ServiceName interface{}
	Subnets     *SelectedSubnets
}

func (e *InterfaceEndpoint) EndpointID() interface{} {
	return cfn.Ref(e.LogicalID)
}

// NewInterfaceEndpoint creates an interface VPC endpoint with one network interface per availability zone.
func NewInterfaceEndpoint(scope cfn.Scope, id string, props InterfaceEndpointProps) (*InterfaceEndpoint, error) {
	if props.Vpc == nil {
		return nil, fmt.Errorf("interface endpoint %s requires a vpc", id)
	}
	if props.Service == "" {
		return nil, fmt.Errorf("interface endpoint %s requires a service", id)
	}
	s, err := cfn.NewScope(scope, id)
	if err != nil {
		return nil, err
	}

	serviceName, err := EndpointServiceName(s.Stack(), props.Service)
	if err != nil {
		return nil, err
	}

	sel := props.Subnets
	onePerAz := true
	sel.OnePerAz = &onePerAz
	subnets, err := props.Vpc.SelectSubnets(sel)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to select subnets of interface endpoint %s", cfn.DisplayPath(s))
	}
	if subnets.IsEmpty() {
		return nil, fmt.Errorf("interface endpoint %s: the subnet selection matched no subnets", cfn.DisplayPath(s))
	}

	privateDNS := true
	if props.PrivateDNSEnabled != nil {
		privateDNS = *props.PrivateDNSEnabled
	}

	groupIDs := []interface{}{}
	for _, g := range props.SecurityGroups {
		groupIDs = append(groupIDs, g.GroupID())
	}

	e := &InterfaceEndpoint{
		LogicalID:   scope.LogicalID(id),
		ServiceName: serviceName,
		Subnets:     subnets,
	}
	properties := map[string]interface{}{
		"VpcEndpointType":   "Interface",
		"ServiceName":       serviceName,
		"VpcId":             props.Vpc.VpcID(),
		"SubnetIds":         subnets.SubnetIDs(),
		"PrivateDnsEnabled": privateDNS,
	}
	if len(groupIDs) > 0 {
		properties["SecurityGroupIds"] = groupIDs
	}
	if err := s.Stack().AddResource(e.LogicalID, cfn.NewResource(ResourceTypeVPCEndpoint, properties)); err != nil {
		return nil, err
	}
	return e, nil
}
