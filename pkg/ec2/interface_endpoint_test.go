package ec2

import (
	"testing"

	"github.com/kubernetes-incubator/kube-aws-network/pkg/cfn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestEndpointServiceName(t *testing.T) {
	for region, expected := range map[string]string{
		"us-east-1":      "com.amazonaws.us-east-1.execute-api",
		"cn-north-1":     "cn.com.amazonaws.cn-north-1.execute-api",
		"ap-northeast-1": "com.amazonaws.ap-northeast-1.execute-api",
	} {
		name, err := EndpointServiceName(cfn.NewStack("s", cfn.Environment{Region: region}), ServiceAPIGateway)
		require.NoError(t, err)
		assert.Equal(t, expected, name, region)
	}

	name, err := EndpointServiceName(cfn.NewStack("s", cfn.Environment{}), ServiceAPIGateway)
	require.NoError(t, err)
	assert.Equal(t, cfn.Sub("com.amazonaws.${AWS::Region}.execute-api"), name)
}

func TestSecurityGroup(t *testing.T) {
	stack := newTestStack()
	vpc, err := NewVpc(stack, "Vpc", VpcProps{CIDR: "10.0.0.0/16"})
	require.NoError(t, err)

	t.Run("AllowAllOutboundByDefault", func(t *testing.T) {
		sg, err := NewSecurityGroup(stack, "Open", SecurityGroupProps{Vpc: vpc})
		require.NoError(t, err)
		require.NoError(t, sg.AddIngressRule(PeerIPv4(vpc.CidrBlock()), PortTCP(443), ""))

		doc := render(t, stack)
		assert.Equal(t, "-1", gjson.Get(doc, "Resources.Open.Properties.SecurityGroupEgress.0.IpProtocol").String())
		assert.Equal(t, "0.0.0.0/0", gjson.Get(doc, "Resources.Open.Properties.SecurityGroupEgress.0.CidrIp").String())
		assert.Equal(t, "TestStack/Open", gjson.Get(doc, "Resources.Open.Properties.GroupDescription").String())
		assert.Equal(t, int64(1), gjson.Get(doc, "Resources.Open.Properties.SecurityGroupIngress.#").Int())
		assert.Equal(t, "Vpc", gjson.Get(doc, "Resources.Open.Properties.SecurityGroupIngress.0.CidrIp.Fn::GetAtt.0").String())
		assert.Equal(t, int64(443), gjson.Get(doc, "Resources.Open.Properties.SecurityGroupIngress.0.ToPort").Int())
		assert.Equal(t, "from {IndirectCidr}:tcp 443", gjson.Get(doc, "Resources.Open.Properties.SecurityGroupIngress.0.Description").String())
	})

	t.Run("DisallowOutbound", func(t *testing.T) {
		_, err := NewSecurityGroup(stack, "Closed", SecurityGroupProps{Vpc: vpc, AllowAllOutbound: boolPtr(false)})
		require.NoError(t, err)

		doc := render(t, stack)
		assert.Equal(t, "255.255.255.255/32", gjson.Get(doc, "Resources.Closed.Properties.SecurityGroupEgress.0.CidrIp").String())
		assert.Equal(t, "icmp", gjson.Get(doc, "Resources.Closed.Properties.SecurityGroupEgress.0.IpProtocol").String())
	})

	t.Run("Imported", func(t *testing.T) {
		sg := SecurityGroupFromID("sg-12345")
		assert.Equal(t, "sg-12345", sg.GroupID())
		assert.Error(t, sg.AddIngressRule(PeerIPv4("10.0.0.0/16"), PortTCP(443), ""))
	})
}

func TestNewInterfaceEndpoint(t *testing.T) {
	stack := newTestStack()
	vpc, err := NewVpc(stack, "Vpc", VpcProps{
		CIDR: "10.0.0.0/16",
		SubnetConfiguration: []SubnetConfiguration{
			{Name: "Public", SubnetType: SubnetTypePublic},
			{Name: "Private", SubnetType: SubnetTypePrivate},
			{Name: "Backup", SubnetType: SubnetTypePrivate},
		},
		NatGateways: intPtr(1),
	})
	require.NoError(t, err)

	endpoint, err := NewInterfaceEndpoint(stack, "Endpoint", InterfaceEndpointProps{
		Vpc:            vpc,
		Service:        ServiceAPIGateway,
		Subnets:        SubnetSelection{SubnetType: SubnetTypePrivate},
		SecurityGroups: []SecurityGroup{SecurityGroupFromID("sg-12345")},
	})
	require.NoError(t, err)

	assert.Equal(t, "com.amazonaws.us-east-1.execute-api", endpoint.ServiceName)
	assert.Len(t, endpoint.Subnets.Subnets, 3, "one subnet per availability zone")

	doc := render(t, stack)
	assert.Equal(t, "Interface", gjson.Get(doc, "Resources.Endpoint.Properties.VpcEndpointType").String())
	assert.True(t, gjson.Get(doc, "Resources.Endpoint.Properties.PrivateDnsEnabled").Bool())
	assert.Equal(t, `["sg-12345"]`, gjson.Get(doc, "Resources.Endpoint.Properties.SecurityGroupIds").Raw)
	assert.Equal(t, "VpcPrivateSubnet1", gjson.Get(doc, "Resources.Endpoint.Properties.SubnetIds.0.Ref").String())
	assert.Equal(t, "VpcPrivateSubnet3", gjson.Get(doc, "Resources.Endpoint.Properties.SubnetIds.2.Ref").String())

	t.Run("EmptySelection", func(t *testing.T) {
		_, err := NewInterfaceEndpoint(stack, "Other", InterfaceEndpointProps{
			Vpc:     vpc,
			Service: ServiceAPIGateway,
			Subnets: SubnetSelection{SubnetType: SubnetTypePublic, AvailabilityZones: []string{"us-east-1z"}},
		})
		assert.Error(t, err)
	})

	t.Run("UnknownSubnetType", func(t *testing.T) {
		_, err := NewInterfaceEndpoint(stack, "Isolated", InterfaceEndpointProps{
			Vpc:     vpc,
			Service: ServiceAPIGateway,
			Subnets: SubnetSelection{SubnetType: SubnetTypeIsolated},
		})
		assert.Error(t, err)
	})
}
