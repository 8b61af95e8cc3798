package network

import (
	"github.com/kubernetes-incubator/kube-aws-network/pkg/cfn"
	"github.com/kubernetes-incubator/kube-aws-network/pkg/ec2"
)

// legacyVpcID keeps the logical ids of stacks deployed with Environment unchanged.
const legacyVpcID = "VPC"

// Environment is the earlier form of Network. VpcName is optional.
type Environment struct {
	scope   cfn.Scope
	vpc     ec2.VPC
	subnets *ec2.SelectedSubnets
}

func NewEnvironment(scope cfn.Scope, id string, props Props) (*Environment, error) {
	s, vpc, subnets, err := build(scope, id, legacyVpcID, props)
	if err != nil {
		return nil, err
	}
	return &Environment{scope: s, vpc: vpc, subnets: subnets}, nil
}

func (e *Environment) VPC() ec2.VPC {
	return e.vpc
}

func (e *Environment) Subnets() *ec2.SelectedSubnets {
	return e.subnets
}

func (e *Environment) Scope() cfn.Scope {
	return e.scope
}
