package model

import (
	"github.com/kubernetes-incubator/kube-aws-network/pkg/api"
	"github.com/kubernetes-incubator/kube-aws-network/pkg/cfn"
	"github.com/kubernetes-incubator/kube-aws-network/pkg/ec2"
)

// AvailabilityZoneLister lists the zones of a region. ec2.EC2Resolver implements it.
type AvailabilityZoneLister interface {
	AvailabilityZones(region string) ([]string, error)
}

type Options struct {
	// VpcResolver serves lookups of existing vpcs. Configs without lookups compile without one.
	VpcResolver ec2.VpcResolver
	// Zones fills in availabilityZones when the config pins a region but lists no zones.
	Zones AvailabilityZoneLister
}

// Stack is a compiled config: the CloudFormation template plus what the networks resolved to.
type Stack struct {
	Config    *api.Config
	Template  *cfn.Stack
	Networks  []Info
	Endpoints []EndpointInfo
}

func (s *Stack) StackName() string {
	return s.Config.StackName
}

func (s *Stack) Region() api.Region {
	return s.Config.Region
}

// RenderTemplate renders the CloudFormation template of the stack.
func (s *Stack) RenderTemplate(prettyPrint bool) ([]byte, error) {
	return s.Template.Render(prettyPrint)
}

func (s *Stack) TemplateFilename() string {
	return s.StackName() + ".json"
}
