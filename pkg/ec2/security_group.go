package ec2

import (
	"fmt"

	"github.com/kubernetes-incubator/kube-aws-network/pkg/cfn"
)

// SecurityGroup is either created in the stack or referenced by id.
type SecurityGroup interface {
	// GroupID is the CloudFormation value of the security group id.
	GroupID() interface{}
	AddIngressRule(peer Peer, port Port, description string) error
}

// Peer is the source of an ingress rule.
type Peer interface {
	ruleProperties() map[string]interface{}
	String() string
}

type ipv4Peer struct {
	cidr interface{}
}

// PeerIPv4 accepts a literal cidr or any CloudFormation value resolving to one.
func PeerIPv4(cidr interface{}) Peer {
	return ipv4Peer{cidr: cidr}
}

func (p ipv4Peer) ruleProperties() map[string]interface{} {
	return map[string]interface{}{"CidrIp": p.cidr}
}

func (p ipv4Peer) String() string {
	if s, ok := p.cidr.(string); ok {
		return s
	}
	return "{IndirectCidr}"
}

type Port struct {
	Protocol string
	FromPort int
	ToPort   int
}

func PortTCP(port int) Port {
	return Port{Protocol: "tcp", FromPort: port, ToPort: port}
}

func (p Port) String() string {
	if p.FromPort == p.ToPort {
		return fmt.Sprintf("%s %d", p.Protocol, p.FromPort)
	}
	return fmt.Sprintf("%s %d-%d", p.Protocol, p.FromPort, p.ToPort)
}

type SecurityGroupProps struct {
	Vpc         VPC
	Description string
	// AllowAllOutbound defaults to true.
	AllowAllOutbound *bool
}

type SecurityGroupResource struct {
	LogicalID string
	resource  *cfn.Resource
}

func (g *SecurityGroupResource) GroupID() interface{} {
	return cfn.GetAtt(g.LogicalID, "GroupId")
}

func (g *SecurityGroupResource) IngressRules() []interface{} {
	rules, _ := g.resource.Properties["SecurityGroupIngress"].([]interface{})
	return rules
}

func (g *SecurityGroupResource) AddIngressRule(peer Peer, port Port, description string) error {
	if port.Protocol == "" {
		return fmt.Errorf("security group %s: ingress rule protocol must not be empty", g.LogicalID)
	}
	rule := peer.ruleProperties()
	rule["IpProtocol"] = port.Protocol
	rule["FromPort"] = port.FromPort
	rule["ToPort"] = port.ToPort
	if description == "" {
		description = fmt.Sprintf("from %s:%s", peer, port)
	}
	rule["Description"] = description

	g.resource.Properties["SecurityGroupIngress"] = append(g.IngressRules(), rule)
	return nil
}

func NewSecurityGroup(scope cfn.Scope, id string, props SecurityGroupProps) (*SecurityGroupResource, error) {
	if props.Vpc == nil {
		return nil, fmt.Errorf("security group %s requires a vpc", id)
	}
	s, err := cfn.NewScope(scope, id)
	if err != nil {
		return nil, err
	}

	description := props.Description
	if description == "" {
		description = cfn.DisplayPath(s)
	}

	egress := map[string]interface{}{
		"CidrIp":      "0.0.0.0/0",
		"IpProtocol":  "-1",
		"Description": "Allow all outbound traffic by default",
	}
	if props.AllowAllOutbound != nil && !*props.AllowAllOutbound {
		// an egress rule matching nothing replaces the default allow-all rule
		egress = map[string]interface{}{
			"CidrIp":      "255.255.255.255/32",
			"IpProtocol":  "icmp",
			"FromPort":    252,
			"ToPort":      86,
			"Description": "Disallow all traffic",
		}
	}

	g := &SecurityGroupResource{
		LogicalID: scope.LogicalID(id),
		resource: cfn.NewResource(ResourceTypeSecurityGroup, map[string]interface{}{
			"GroupDescription":    description,
			"VpcId":               props.Vpc.VpcID(),
			"SecurityGroupEgress": []interface{}{egress},
		}),
	}
	if err := s.Stack().AddResource(g.LogicalID, g.resource); err != nil {
		return nil, err
	}
	return g, nil
}

// ImportedSecurityGroup is an existing security group. Rules can't be added to it from this stack.
type ImportedSecurityGroup struct {
	ID string
}

func SecurityGroupFromID(id string) *ImportedSecurityGroup {
	return &ImportedSecurityGroup{ID: id}
}

func (g *ImportedSecurityGroup) GroupID() interface{} {
	return g.ID
}

func (g *ImportedSecurityGroup) AddIngressRule(peer Peer, port Port, description string) error {
	return fmt.Errorf("cannot add ingress rule %s %s to imported security group %s", peer, port, g.ID)
}
