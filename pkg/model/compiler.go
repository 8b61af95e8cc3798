package model

import (
	"fmt"
	"sort"

	"github.com/kubernetes-incubator/kube-aws-network/logger"
	"github.com/kubernetes-incubator/kube-aws-network/pkg/api"
	"github.com/kubernetes-incubator/kube-aws-network/pkg/cfn"
	"github.com/kubernetes-incubator/kube-aws-network/pkg/ec2"
	"github.com/kubernetes-incubator/kube-aws-network/pkg/network"
	"github.com/pkg/errors"
)

// Compile turns a validated config into a stack. The config is not modified.
func Compile(cfgRef *api.Config, opts Options) (*Stack, error) {
	c := &api.Config{}
	*c = *cfgRef

	if err := c.SetDefaults(); err != nil {
		return nil, err
	}

	azs := c.AvailabilityZones
	if len(azs) == 0 && !c.Region.IsEmpty() && opts.Zones != nil {
		var err error
		if azs, err = opts.Zones.AvailabilityZones(c.Region.Name); err != nil {
			return nil, errors.Wrapf(err, "failed to list availability zones of %s", c.Region)
		}
		logger.Debugf("Using availability zones %v of %s", azs, c.Region)
	}

	template := cfn.NewStack(c.StackName, cfn.Environment{
		Account:           c.Account,
		Region:            c.Region.Name,
		AvailabilityZones: azs,
	})
	template.Description = c.Description
	if template.Description == "" {
		template.Description = fmt.Sprintf("kube-aws-network %s", c.StackName)
	}

	if opts.VpcResolver != nil {
		ec2.SetVpcResolver(template, opts.VpcResolver)
	}

	stack := &Stack{
		Config:   c,
		Template: template,
	}

	vpcs := map[string]ec2.VPC{}

	for _, n := range c.Networks {
		nw, err := network.New(template, n.ID, n.Props())
		if err != nil {
			return nil, errors.Wrapf(err, "failed to compile network %s", n.ID)
		}
		vpcs[n.ID] = nw.VirtualPrivateCloud()
		stack.Networks = append(stack.Networks, newInfo(n.ID, KindNetwork, nw.VirtualPrivateCloud(), nw.Subnets()))
	}

	for _, e := range c.Environments {
		env, err := network.NewEnvironment(template, e.ID, e.Props())
		if err != nil {
			return nil, errors.Wrapf(err, "failed to compile environment %s", e.ID)
		}
		vpcs[e.ID] = env.VPC()
		stack.Networks = append(stack.Networks, newInfo(e.ID, KindEnvironment, env.VPC(), env.Subnets()))
	}

	for _, e := range c.APIEndpoints {
		vpc, ok := vpcs[e.Network]
		if !ok {
			return nil, fmt.Errorf("api endpoint %s refers to unknown network %s", e.StackName, e.Network)
		}
		endpoint, err := network.CreateAPIEndpoint(template, vpc, e.Props())
		if err != nil {
			return nil, errors.Wrapf(err, "failed to compile api endpoint %s", e.StackName)
		}
		sg := e.SecurityGroupID
		if sg == "" {
			sg = "ApiVpcEndpointSecurityGroup" + e.StackName
		}
		stack.Endpoints = append(stack.Endpoints, EndpointInfo{
			StackName:     e.StackName,
			Network:       e.Network,
			LogicalID:     endpoint.LogicalID,
			ServiceName:   DisplayValue(endpoint.ServiceName),
			SecurityGroup: sg,
			Subnets:       displayValues(endpoint.Subnets.SubnetIDs()),
		})
	}

	if err := applyOverrides(template, c.Overrides); err != nil {
		return nil, err
	}

	logger.Dump("Compiled networks", stack.Networks)

	return stack, nil
}

func applyOverrides(template *cfn.Stack, overrides map[string]map[string]interface{}) error {
	ids := make([]string, 0, len(overrides))
	for id := range overrides {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		r, ok := template.Resource(id)
		if !ok {
			return fmt.Errorf("overrides: the stack has no resource %s", id)
		}
		paths := make([]string, 0, len(overrides[id]))
		for path := range overrides[id] {
			paths = append(paths, path)
		}
		sort.Strings(paths)
		for _, path := range paths {
			v := overrides[id][path]
			if v == nil {
				r.AddDeletionOverride(path)
			} else {
				r.AddOverride(path, v)
			}
		}
	}
	return nil
}

func displayValues(values []interface{}) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = DisplayValue(v)
	}
	return out
}
