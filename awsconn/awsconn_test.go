package awsconn

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/kubernetes-incubator/kube-aws-network/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withoutSharedConfig(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("AWS_CONFIG_FILE", filepath.Join(dir, "config"))
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", filepath.Join(dir, "credentials"))
	t.Setenv("AWS_PROFILE", "")
	os.Unsetenv("AWS_PROFILE")
}

func TestNewSessionFromRegion(t *testing.T) {
	withoutSharedConfig(t)

	s, err := NewSessionFromRegion(api.RegionForName("ap-northeast-1"), true)
	require.NoError(t, err)
	assert.Equal(t, "ap-northeast-1", aws.StringValue(s.Config.Region))
	assert.Equal(t, aws.LogDebug, s.Config.LogLevel.Value())
}

func TestConnectorCachesSessionsPerRegion(t *testing.T) {
	withoutSharedConfig(t)

	c := NewConnector(false)

	west, err := c.Session("us-west-2")
	require.NoError(t, err)
	again, err := c.Session("us-west-2")
	require.NoError(t, err)
	east, err := c.Session("us-east-1")
	require.NoError(t, err)

	assert.True(t, west == again)
	assert.False(t, west == east)
	assert.Equal(t, "us-east-1", aws.StringValue(east.Config.Region))

	client, err := c.EC2("us-west-2")
	require.NoError(t, err)
	assert.NotNil(t, client)
}
