package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/kubernetes-incubator/kube-aws-network/pkg/cfn"
	"github.com/kubernetes-incubator/kube-aws-network/pkg/ec2"
)

const (
	KindNetwork     = "network"
	KindEnvironment = "environment"

	SourceCreated  = "created"
	SourceImported = "imported"
)

// Info summarizes one network or environment of the stack.
type Info struct {
	ID      string
	Kind    string
	Source  string
	VpcID   string
	CIDR    string
	Subnets []SubnetInfo
}

type SubnetInfo struct {
	ID               string
	AvailabilityZone string
	CidrBlock        string
	Type             ec2.SubnetType
	GroupName        string
}

type EndpointInfo struct {
	StackName     string
	Network       string
	LogicalID     string
	ServiceName   string
	SecurityGroup string
	Subnets       []string
}

func newInfo(id, kind string, vpc ec2.VPC, selected *ec2.SelectedSubnets) Info {
	source := SourceCreated
	if _, ok := vpc.(*ec2.ImportedVpc); ok {
		source = SourceImported
	}

	info := Info{
		ID:     id,
		Kind:   kind,
		Source: source,
		VpcID:  DisplayValue(vpc.VpcID()),
	}
	if v, ok := vpc.(*ec2.Vpc); ok {
		info.CIDR = v.CIDR
	} else {
		info.CIDR = DisplayValue(vpc.CidrBlock())
	}

	for _, s := range selected.Subnets {
		info.Subnets = append(info.Subnets, SubnetInfo{
			ID:               DisplayValue(s.ID()),
			AvailabilityZone: s.AvailabilityZone.String(),
			CidrBlock:        s.CidrBlock,
			Type:             s.Type,
			GroupName:        s.GroupName,
		})
	}
	return info
}

// SubnetIDs returns the ids of the selected subnets. Created subnets are shown by logical id.
func (c Info) SubnetIDs() []string {
	ids := []string{}
	for _, s := range c.Subnets {
		ids = append(ids, s.ID)
	}
	return ids
}

func (c *Info) String() string {
	buf := new(bytes.Buffer)
	w := new(tabwriter.Writer)
	w.Init(buf, 0, 8, 0, '\t', 0)

	fmt.Fprintf(w, "Network:\t%s (%s, %s)\n", c.ID, c.Kind, c.Source)
	fmt.Fprintf(w, "VPC:\t%s %s\n", c.VpcID, c.CIDR)
	fmt.Fprintf(w, "Subnets:\t%s\n", strings.Join(c.SubnetIDs(), ", "))

	w.Flush()
	return buf.String()
}

// DisplayValue renders a CloudFormation value for humans: literals as is, Refs as the logical id.
func DisplayValue(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	if id, ok := cfn.RefTarget(v); ok {
		return id
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
