package root

import (
	"bytes"
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/cloudformation"
	"github.com/kubernetes-incubator/kube-aws-network/cfnstack"
	"github.com/kubernetes-incubator/kube-aws-network/pkg/api"
	"github.com/kubernetes-incubator/kube-aws-network/pkg/ec2"
	"github.com/kubernetes-incubator/kube-aws-network/test/helper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const regionalConfig = `
stackName: network
region: us-west-2
stackTags:
  team: platform
networks:
- vpcName: Main
  vpcMaxAzs: 2
- id: Shared
  vpcName: shared
  vpcId: vpc-0a1b2c3d
  subnetsType: Private
apiEndpoints:
- network: Main
  stackName: Api
`

const offlineConfig = `
stackName: network
networks:
- vpcName: Main
`

func newTestNetworkStack(t *testing.T, config string, cf *helper.DummyCloudformationService) *NetworkStack {
	t.Helper()

	cfg, err := api.ConfigFromBytes([]byte(config))
	require.NoError(t, err)

	svc := Services{
		EC2: func(string) (cfnstack.EC2Interrogator, error) { return helper.ExistingVpc(), nil },
		S3:  &helper.DummyS3ObjectPutterService{},
	}
	if cf != nil {
		svc.CloudFormation = cf
	}

	opts := NewOptions(false, "")
	opts.AssetsDir = t.TempDir()

	s, err := NewNetworkStack(cfg, opts, svc)
	require.NoError(t, err)
	return s
}

func TestRenderFiles(t *testing.T) {
	s := newTestNetworkStack(t, regionalConfig, nil)

	require.NoError(t, s.RenderFiles())
	assert.Equal(t, filepath.Join(s.opts.AssetsDir, "stack-templates", "network.json"), s.TemplatePath())

	data, err := ioutil.ReadFile(s.TemplatePath())
	require.NoError(t, err)
	helper.ResourceCountIs(t, data, ec2.ResourceTypeVPC, 1)
	helper.ResourceCountIs(t, data, ec2.ResourceTypeVPCEndpoint, 1)
	helper.ResourceCountIs(t, data, ec2.ResourceTypeSubnet, 4)
}

func TestRequiresRegionToDeploy(t *testing.T) {
	s := newTestNetworkStack(t, offlineConfig, &helper.DummyCloudformationService{})

	_, err := s.ValidateStack()
	assert.Error(t, err)
	_, err = s.Diff(-1)
	assert.Error(t, err)
	_, err = s.Apply()
	assert.Error(t, err)
}

func TestValidateStack(t *testing.T) {
	cf := &helper.DummyCloudformationService{}
	s := newTestNetworkStack(t, regionalConfig, cf)

	report, err := s.ValidateStack()
	require.NoError(t, err)
	assert.Contains(t, report, "validated")
	require.Len(t, cf.ValidateInputs, 1)
	assert.Contains(t, aws.StringValue(cf.ValidateInputs[0].TemplateBody), ec2.ResourceTypeVPC)
}

func TestApply(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		cf := &helper.DummyCloudformationService{
			ExpectedTags:  []*cloudformation.Tag{{Key: aws.String("team"), Value: aws.String("platform")}},
			StackStatuses: []string{cloudformation.StackStatusCreateComplete},
		}
		s := newTestNetworkStack(t, regionalConfig, cf)

		result, err := s.Apply()
		require.NoError(t, err)
		assert.Equal(t, "stack network created", result)
		require.Len(t, cf.CreateInputs, 1)
		assert.Empty(t, cf.UpdateInputs)
		assert.Contains(t, aws.StringValue(cf.CreateInputs[0].TemplateBody), ec2.ResourceTypeVPCEndpoint)
	})

	t.Run("Update", func(t *testing.T) {
		cf := &helper.DummyCloudformationService{
			Stacks:        []*cloudformation.Stack{{StackName: aws.String("network"), StackStatus: aws.String(cloudformation.StackStatusCreateComplete)}},
			StackStatuses: []string{cloudformation.StackStatusUpdateComplete},
		}
		s := newTestNetworkStack(t, regionalConfig, cf)

		_, err := s.Apply()
		require.NoError(t, err)
		assert.Empty(t, cf.CreateInputs)
		require.Len(t, cf.UpdateInputs, 1)
	})

	t.Run("NoUpdates", func(t *testing.T) {
		cf := &helper.DummyCloudformationService{
			Stacks:    []*cloudformation.Stack{{StackName: aws.String("network")}},
			UpdateErr: awserr.New("ValidationError", "No updates are to be performed.", nil),
		}
		s := newTestNetworkStack(t, regionalConfig, cf)

		result, err := s.Apply()
		require.NoError(t, err)
		assert.Equal(t, cfnstack.NoUpdates, result)
	})
}

func TestDiff(t *testing.T) {
	t.Run("NotDeployed", func(t *testing.T) {
		s := newTestNetworkStack(t, regionalConfig, &helper.DummyCloudformationService{})

		diff, err := s.Diff(-1)
		require.NoError(t, err)
		assert.False(t, diff.Exists)
		assert.True(t, diff.Changed)
		assert.Equal(t, "network", diff.Target)
		assert.Contains(t, diff.String(), ec2.ResourceTypeVPC)
	})

	t.Run("UpToDate", func(t *testing.T) {
		s := newTestNetworkStack(t, regionalConfig, nil)
		deployed, err := s.RenderStackTemplateAsString()
		require.NoError(t, err)

		s.svc.CloudFormation = &helper.DummyCloudformationService{
			Stacks:    []*cloudformation.Stack{{StackName: aws.String("network")}},
			Templates: map[string]string{"network": deployed},
		}

		diff, err := s.Diff(3)
		require.NoError(t, err)
		assert.True(t, diff.Exists)
		assert.False(t, diff.Changed)
	})

	t.Run("Changed", func(t *testing.T) {
		s := newTestNetworkStack(t, regionalConfig, nil)
		rendered, err := s.RenderStackTemplateAsString()
		require.NoError(t, err)
		deployed := strings.Replace(rendered, `"kube-aws-network network"`, `"old description"`, 1)
		require.NotEqual(t, rendered, deployed)

		s.svc.CloudFormation = &helper.DummyCloudformationService{
			Stacks:    []*cloudformation.Stack{{StackName: aws.String("network")}},
			Templates: map[string]string{"network": deployed},
		}

		diff, err := s.Diff(0)
		require.NoError(t, err)
		assert.True(t, diff.Changed)
		assert.Contains(t, diff.String(), `"Description": "old description"`)
		assert.Contains(t, diff.String(), `"Description": "kube-aws-network network"`)
		assert.Contains(t, diff.String(), "...")
		assert.NotContains(t, diff.String(), ec2.ResourceTypeVPC, "unchanged lines are omitted")
	})
}

func TestShow(t *testing.T) {
	t.Run("Offline", func(t *testing.T) {
		s := newTestNetworkStack(t, offlineConfig, nil)

		var buf bytes.Buffer
		require.NoError(t, s.Show(&buf))
		out := buf.String()

		assert.Contains(t, out, "Stack: network")
		assert.NotContains(t, out, "Console:")
		assert.Contains(t, out, "MainVpcMainPublicSubnet1, MainVpcMainPublicSubnet2")
		assert.Contains(t, out, "network-MainVpcMain-VpcId")
		assert.NotContains(t, out, "ENDPOINT")
	})

	t.Run("Deployed", func(t *testing.T) {
		cf := &helper.DummyCloudformationService{
			Stacks: []*cloudformation.Stack{{
				StackName: aws.String("network"),
				Outputs: []*cloudformation.Output{
					{OutputKey: aws.String("MainVpcMainId"), OutputValue: aws.String("vpc-0f00ba11")},
				},
			}},
		}
		s := newTestNetworkStack(t, regionalConfig, cf)

		outputs, err := s.Outputs()
		require.NoError(t, err)
		require.Len(t, outputs, 2, "looked up vpcs have no outputs")
		assert.Equal(t, OutputInfo{Key: "MainVpcMainCidrBlock", ExportName: "network-MainVpcMain-CidrBlock", Value: notDeployed}, outputs[0])
		assert.Equal(t, OutputInfo{Key: "MainVpcMainId", ExportName: "network-MainVpcMain-VpcId", Value: "vpc-0f00ba11"}, outputs[1])

		var buf bytes.Buffer
		require.NoError(t, s.Show(&buf))
		out := buf.String()

		assert.Contains(t, out, "Console: https://")
		assert.Contains(t, out, "vpc-0a1b2c3d")
		assert.Contains(t, out, "subnet-priv-a, subnet-priv-b")
		assert.Contains(t, out, "ApiVpcEndpointApi")
		assert.Contains(t, out, "com.amazonaws.us-west-2.execute-api")
		assert.Contains(t, out, "vpc-0f00ba11")
	})
}
