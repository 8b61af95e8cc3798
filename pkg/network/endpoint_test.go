package network

import (
	"testing"

	"github.com/kubernetes-incubator/kube-aws-network/pkg/cfn"
	"github.com/kubernetes-incubator/kube-aws-network/pkg/ec2"
	"github.com/kubernetes-incubator/kube-aws-network/test/helper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestCreateAPIEndpoint(t *testing.T) {
	t.Run("WithNewSecurityGroup", func(t *testing.T) {
		stack := newStack()
		n, err := New(stack, "TestConstruct", Props{VpcName: "TestVpc"})
		require.NoError(t, err)

		endpoint, err := CreateAPIEndpoint(stack, n.VirtualPrivateCloud(), EndpointProps{
			StackName:  "Test",
			SubnetType: ec2.SubnetTypePrivate,
			Port:       443,
		})
		require.NoError(t, err)
		assert.Equal(t, "ApiVpcEndpointTest", endpoint.LogicalID)

		doc := template(t, stack)
		helper.ResourceCountIs(t, doc, ec2.ResourceTypeSecurityGroup, 1)
		helper.ResourceCountIs(t, doc, ec2.ResourceTypeVPCEndpoint, 1)

		sg := gjson.GetBytes(doc, "Resources.ApiVpcEndpointSecurityGroupTest.Properties")
		require.True(t, sg.Exists())
		assert.Equal(t, int64(1), sg.Get("SecurityGroupIngress.#").Int())
		assert.Equal(t, "tcp", sg.Get("SecurityGroupIngress.0.IpProtocol").String())
		assert.Equal(t, int64(443), sg.Get("SecurityGroupIngress.0.FromPort").Int())
		assert.Equal(t, `["TestConstructVpcTestVpc","CidrBlock"]`, sg.Get("SecurityGroupIngress.0.CidrIp.Fn::GetAtt").Raw)
		assert.Equal(t, "-1", sg.Get("SecurityGroupEgress.0.IpProtocol").String())

		helper.HasResourceProperties(t, doc, ec2.ResourceTypeVPCEndpoint, map[string]interface{}{
			"VpcEndpointType":   "Interface",
			"ServiceName":       "com.amazonaws.us-east-1.execute-api",
			"PrivateDnsEnabled": true,
			"SecurityGroupIds":  []interface{}{cfn.GetAtt("ApiVpcEndpointSecurityGroupTest", "GroupId")},
			"SubnetIds.#":       3,
			"SubnetIds.0":       cfn.Ref("TestConstructVpcTestVpcPrivateSubnet1"),
		})
	})

	t.Run("WithExistingSecurityGroup", func(t *testing.T) {
		stack := newStack()
		n, err := New(stack, "TestConstruct", Props{VpcName: "TestVpc"})
		require.NoError(t, err)

		_, err = CreateAPIEndpoint(stack, n.VirtualPrivateCloud(), EndpointProps{
			StackName:       "Test",
			SecurityGroupID: "sg-0123456789",
			SubnetType:      ec2.SubnetTypePublic,
		})
		require.NoError(t, err)

		doc := template(t, stack)
		helper.ResourceCountIs(t, doc, ec2.ResourceTypeSecurityGroup, 0)
		helper.HasResourceProperties(t, doc, ec2.ResourceTypeVPCEndpoint, map[string]interface{}{
			"SecurityGroupIds": []string{"sg-0123456789"},
		})
	})

	t.Run("ImportedVpc", func(t *testing.T) {
		stack := newStackWithExistingVpc()
		n, err := New(stack, "TestConstruct", Props{VpcName: "shared", VpcID: "vpc-0a1b2c3d"})
		require.NoError(t, err)

		_, err = CreateAPIEndpoint(stack, n.VirtualPrivateCloud(), EndpointProps{
			StackName:  "Test",
			SubnetType: ec2.SubnetTypePrivate,
			Port:       8443,
		})
		require.NoError(t, err)

		doc := template(t, stack)
		helper.HasResourceProperties(t, doc, ec2.ResourceTypeSecurityGroup, map[string]interface{}{
			"VpcId":                           "vpc-0a1b2c3d",
			"SecurityGroupIngress.0.CidrIp":   "10.10.0.0/16",
			"SecurityGroupIngress.0.ToPort":   8443,
			"SecurityGroupIngress.0.FromPort": 8443,
		})
		helper.HasResourceProperties(t, doc, ec2.ResourceTypeVPCEndpoint, map[string]interface{}{
			"ServiceName": "com.amazonaws.us-west-2.execute-api",
			"SubnetIds":   []string{"subnet-priv-a", "subnet-priv-b"},
		})
	})

	t.Run("InvalidPort", func(t *testing.T) {
		stack := newStack()
		n, err := New(stack, "TestConstruct", Props{VpcName: "TestVpc"})
		require.NoError(t, err)

		_, err = CreateAPIEndpoint(stack, n.VirtualPrivateCloud(), EndpointProps{StackName: "Test", SubnetType: ec2.SubnetTypePrivate})
		assert.Error(t, err)
	})

	t.Run("NoSubnetsOfType", func(t *testing.T) {
		stack := newStack()
		n, err := New(stack, "TestConstruct", Props{VpcName: "TestVpc"})
		require.NoError(t, err)

		_, err = CreateAPIEndpoint(stack, n.VirtualPrivateCloud(), EndpointProps{StackName: "Test", SubnetType: ec2.SubnetTypeIsolated, Port: 443})
		assert.Error(t, err)
	})
}
