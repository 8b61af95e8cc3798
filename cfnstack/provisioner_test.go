package cfnstack

import (
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/cloudformation"
	"github.com/kubernetes-incubator/kube-aws-network/test/helper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvisioner(region string) *Provisioner {
	p := NewProvisioner("test-network", map[string]string{"team": "platform", "env": "test"}, "", region)
	p.pollInterval = 0
	return p
}

func TestUploadTemplate(t *testing.T) {
	testCases := []struct {
		name        string
		s3URI       string
		region      string
		expectedKey string
		expectedURL string
	}{
		{
			name:        "WithDirectory",
			s3URI:       "s3://mybucket/mykey",
			region:      "us-east-1",
			expectedKey: "mykey/test-network/stack.json",
			expectedURL: "https://s3.amazonaws.com/mybucket/mykey/test-network/stack.json",
		},
		{
			name:        "WithDirectoryOnChina",
			s3URI:       "s3://mybucket/mykey",
			region:      "cn-north-1",
			expectedKey: "mykey/test-network/stack.json",
			expectedURL: "https://s3.cn-north-1.amazonaws.com.cn/mybucket/mykey/test-network/stack.json",
		},
		{
			name:        "WithoutDirectory",
			s3URI:       "s3://mybucket",
			region:      "us-east-1",
			expectedKey: "test-network/stack.json",
			expectedURL: "https://s3.amazonaws.com/mybucket/test-network/stack.json",
		},
		{
			name:        "WithoutDirectoryOnChina",
			s3URI:       "s3://mybucket/",
			region:      "cn-north-1",
			expectedKey: "test-network/stack.json",
			expectedURL: "https://s3.cn-north-1.amazonaws.com.cn/mybucket/test-network/stack.json",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			body := "{}"
			s3Svc := &helper.DummyS3ObjectPutterService{
				ExpectedBucket:        "mybucket",
				ExpectedKey:           tc.expectedKey,
				ExpectedContentLength: 2,
				ExpectedContentType:   "application/json",
				ExpectedBody:          body,
			}

			url, err := newTestProvisioner(tc.region).UploadTemplate(s3Svc, tc.s3URI, body)
			require.NoError(t, err)
			assert.Equal(t, tc.expectedURL, url)
		})
	}

	t.Run("InvalidURI", func(t *testing.T) {
		_, err := newTestProvisioner("us-east-1").UploadTemplate(&helper.DummyS3ObjectPutterService{}, "mybucket/mykey", "{}")
		assert.Error(t, err)
	})
}

func TestCreateStackAndWait(t *testing.T) {
	t.Run("Complete", func(t *testing.T) {
		cfSvc := &helper.DummyCloudformationService{
			ExpectedTags: []*cloudformation.Tag{
				{Key: aws.String("env"), Value: aws.String("test")},
				{Key: aws.String("team"), Value: aws.String("platform")},
			},
			StackStatuses: []string{
				cloudformation.StackStatusCreateInProgress,
				cloudformation.StackStatusCreateComplete,
			},
		}
		p := NewProvisioner("test-network", map[string]string{"team": "platform", "env": "test"}, "arn:aws:iam::123456789012:role/cfn", "us-east-1")
		p.pollInterval = 0

		require.NoError(t, p.CreateStackAndWait(cfSvc, &helper.DummyS3ObjectPutterService{}, "{}", ""))

		require.Len(t, cfSvc.CreateInputs, 1)
		input := cfSvc.CreateInputs[0]
		assert.Equal(t, "{}", aws.StringValue(input.TemplateBody))
		assert.Nil(t, input.TemplateURL)
		assert.Equal(t, "arn:aws:iam::123456789012:role/cfn", aws.StringValue(input.RoleARN))
		assert.Equal(t, "env", aws.StringValue(input.Tags[0].Key), "tags are sorted by key")
	})

	t.Run("Failed", func(t *testing.T) {
		cfSvc := &helper.DummyCloudformationService{
			StackStatuses: []string{cloudformation.StackStatusRollbackComplete},
			StackEvents: []*cloudformation.StackEvent{{
				ResourceStatus:       aws.String(cloudformation.ResourceStatusCreateFailed),
				ResourceType:         aws.String("AWS::EC2::NatGateway"),
				LogicalResourceId:    aws.String("MainVpcMainPublicSubnet1NATGateway"),
				ResourceStatusReason: aws.String("The maximum number of addresses has been reached."),
			}},
		}

		err := newTestProvisioner("us-east-1").CreateStackAndWait(cfSvc, &helper.DummyS3ObjectPutterService{}, "{}", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "MainVpcMainPublicSubnet1NATGateway")
	})

	t.Run("UploadsLargeTemplates", func(t *testing.T) {
		body := `{"Description":"` + strings.Repeat("a", CFN_TEMPLATE_SIZE_LIMIT) + `"}`
		s3Svc := &helper.DummyS3ObjectPutterService{
			ExpectedBucket:        "mybucket",
			ExpectedKey:           "network/test-network/stack.json",
			ExpectedContentLength: int64(len(body)),
			ExpectedContentType:   "application/json",
			ExpectedBody:          body,
		}
		cfSvc := &helper.DummyCloudformationService{
			StackStatuses: []string{cloudformation.StackStatusCreateComplete},
		}

		require.NoError(t, newTestProvisioner("us-east-1").CreateStackAndWait(cfSvc, s3Svc, body, "s3://mybucket/network"))
		assert.Equal(t, 1, s3Svc.Puts)
		assert.Nil(t, cfSvc.CreateInputs[0].TemplateBody)
		assert.Equal(t, "https://s3.amazonaws.com/mybucket/network/test-network/stack.json", aws.StringValue(cfSvc.CreateInputs[0].TemplateURL))
	})

	t.Run("LargeTemplateWithoutS3URI", func(t *testing.T) {
		body := strings.Repeat("a", CFN_TEMPLATE_SIZE_LIMIT+1)
		cfSvc := &helper.DummyCloudformationService{}

		err := newTestProvisioner("us-east-1").CreateStackAndWait(cfSvc, &helper.DummyS3ObjectPutterService{}, body, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--s3-uri")
		assert.Empty(t, cfSvc.CreateInputs)
	})
}

func TestUpdateStackAndWait(t *testing.T) {
	t.Run("Complete", func(t *testing.T) {
		cfSvc := &helper.DummyCloudformationService{
			StackStatuses: []string{
				cloudformation.StackStatusUpdateInProgress,
				cloudformation.StackStatusUpdateCompleteCleanupInProgress,
				cloudformation.StackStatusUpdateComplete,
			},
		}

		_, err := newTestProvisioner("us-east-1").UpdateStackAndWait(cfSvc, &helper.DummyS3ObjectPutterService{}, "{}", "")
		require.NoError(t, err)
		require.Len(t, cfSvc.UpdateInputs, 1)
		assert.Equal(t, "{}", aws.StringValue(cfSvc.UpdateInputs[0].TemplateBody))
	})

	t.Run("NoUpdates", func(t *testing.T) {
		cfSvc := &helper.DummyCloudformationService{
			UpdateErr: awserr.New("ValidationError", "No updates are to be performed.", nil),
		}

		result, err := newTestProvisioner("us-east-1").UpdateStackAndWait(cfSvc, &helper.DummyS3ObjectPutterService{}, "{}", "")
		require.NoError(t, err)
		assert.Equal(t, NoUpdates, result)
	})

	t.Run("RolledBack", func(t *testing.T) {
		cfSvc := &helper.DummyCloudformationService{
			StackStatuses: []string{
				cloudformation.StackStatusUpdateInProgress,
				cloudformation.StackStatusUpdateRollbackInProgress,
				cloudformation.StackStatusUpdateRollbackComplete,
			},
		}

		_, err := newTestProvisioner("us-east-1").UpdateStackAndWait(cfSvc, &helper.DummyS3ObjectPutterService{}, "{}", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), cloudformation.StackStatusUpdateRollbackComplete)
	})

	t.Run("Rejected", func(t *testing.T) {
		cfSvc := &helper.DummyCloudformationService{
			UpdateErr: awserr.New("ValidationError", "Stack [test-network] does not exist", nil),
		}

		_, err := newTestProvisioner("us-east-1").UpdateStackAndWait(cfSvc, &helper.DummyS3ObjectPutterService{}, "{}", "")
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	cfSvc := &helper.DummyCloudformationService{}
	report, err := newTestProvisioner("us-east-1").Validate(cfSvc, &helper.DummyS3ObjectPutterService{}, "{}", "")
	require.NoError(t, err)
	assert.Contains(t, report, "validated")
	require.Len(t, cfSvc.ValidateInputs, 1)
	assert.Equal(t, "{}", aws.StringValue(cfSvc.ValidateInputs[0].TemplateBody))

	cfSvc = &helper.DummyCloudformationService{
		ValidateErr: awserr.New("ValidationError", "Template format error", nil),
	}
	_, err = newTestProvisioner("us-east-1").Validate(cfSvc, &helper.DummyS3ObjectPutterService{}, "{}", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid cloudformation stack")
}

func TestS3URIFromString(t *testing.T) {
	uri, err := S3URIFromString("s3://mybucket/path/to/dir/")
	require.NoError(t, err)
	assert.Equal(t, "mybucket", uri.Bucket())
	assert.Equal(t, []string{"path/to/dir"}, uri.KeyComponents())
	assert.Equal(t, "s3://mybucket/path/to/dir", uri.String())

	uri, err = S3URIFromString("s3://mybucket")
	require.NoError(t, err)
	assert.Empty(t, uri.KeyComponents())
	assert.Equal(t, "mybucket", uri.BucketAndKey())

	_, err = S3URIFromString("https://mybucket")
	assert.Error(t, err)
}
