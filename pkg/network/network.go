// Package network provides constructs that create or import a VPC and pick a set of its subnets.
package network

import (
	"fmt"

	"github.com/kubernetes-incubator/kube-aws-network/logger"
	"github.com/kubernetes-incubator/kube-aws-network/pkg/cfn"
	"github.com/kubernetes-incubator/kube-aws-network/pkg/ec2"
	"github.com/pkg/errors"
)

// Network is a named VPC plus the subnets selected by its props.
type Network struct {
	scope   cfn.Scope
	vpc     ec2.VPC
	subnets *ec2.SelectedSubnets
}

// New creates the Network construct. VpcName is required and names the VPC's child construct.
func New(scope cfn.Scope, id string, props Props) (*Network, error) {
	if props.VpcName == "" {
		return nil, fmt.Errorf("network %s: vpcName is required", id)
	}
	s, vpc, subnets, err := build(scope, id, "Vpc"+props.VpcName, props)
	if err != nil {
		return nil, err
	}
	return &Network{scope: s, vpc: vpc, subnets: subnets}, nil
}

func (n *Network) VirtualPrivateCloud() ec2.VPC {
	return n.vpc
}

func (n *Network) Subnets() *ec2.SelectedSubnets {
	return n.subnets
}

func (n *Network) Scope() cfn.Scope {
	return n.scope
}

func build(parent cfn.Scope, id, vpcID string, props Props) (cfn.Scope, ec2.VPC, *ec2.SelectedSubnets, error) {
	props, err := props.WithDefaults()
	if err != nil {
		return nil, nil, nil, err
	}

	s, err := cfn.NewScope(parent, id)
	if err != nil {
		return nil, nil, nil, err
	}

	source := props.Source()
	logger.Debugf("Network %s: %T source", cfn.DisplayPath(s), source)

	vpc, err := source.vpc(s, vpcID)
	if err != nil {
		return nil, nil, nil, errors.Wrapf(err, "network %s", cfn.DisplayPath(s))
	}

	subnets, err := vpc.SelectSubnets(props.Selection())
	if err != nil {
		return nil, nil, nil, errors.Wrapf(err, "network %s: failed to select subnets", cfn.DisplayPath(s))
	}

	return s, vpc, subnets, nil
}
