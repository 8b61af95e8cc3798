package cmd

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/kubernetes-incubator/kube-aws-network/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func execute(args ...string) error {
	RootCmd.SetArgs(args)
	return RootCmd.Execute()
}

func TestInitThenRender(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "network.yaml")

	require.NoError(t, execute("init", "--config", path, "--stack-name", "shared-network", "--vpc-name", "Main", "--region", ""))
	require.NoError(t, execute("render", "--config", path, "--silent"))
	assert.True(t, logger.Silent)

	data, err := ioutil.ReadFile(filepath.Join(dir, "stack-templates", "shared-network.json"))
	require.NoError(t, err)
	assert.Equal(t, "AWS::EC2::VPC", gjson.GetBytes(data, "Resources.MainVpcMain.Type").String())

	assert.Error(t, execute("init", "--config", path, "--stack-name", "shared-network", "--vpc-name", "Main"), "init never overwrites a config")
}

func TestRenderRejectsArguments(t *testing.T) {
	assert.Error(t, execute("render", "extra"))
}

func TestValidateRequired(t *testing.T) {
	assert.NoError(t, validateRequired(flag{"--stack-name", "network"}))

	err := validateRequired(flag{"--stack-name", ""}, flag{"--vpc-name", ""}, flag{"--region", "us-west-2"})
	require.Error(t, err)
	assert.Equal(t, `Missing required flag(s): "--stack-name", "--vpc-name"`, err.Error())
}

func TestExitError(t *testing.T) {
	var err error = &ExitError{"Detected changes in: network", 2}
	e, ok := err.(*ExitError)
	require.True(t, ok)
	assert.Equal(t, 2, e.Code)
	assert.Equal(t, "Detected changes in: network", e.Error())
}

func TestValidateS3URI(t *testing.T) {
	assert.NoError(t, validateS3URI(""))
	assert.NoError(t, validateS3URI("s3://mybucket/network"))
	assert.Error(t, validateS3URI("mybucket/network"))

	assert.Error(t, execute("validate", "--s3-uri", "https://mybucket"))
}
