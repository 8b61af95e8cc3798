package filegen

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFileFromTemplate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "network.yaml")

	err := CreateFileFromTemplate(path, map[string]string{"StackName": "network"}, []byte("stackName: {{ .StackName | lower }}\n"))
	require.NoError(t, err)

	data, err := ioutil.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "stackName: network\n", string(data))

	err = CreateFileFromTemplate(path, map[string]string{"StackName": "other"}, []byte("{{ .StackName }}"))
	assert.Error(t, err, "existing files are never overwritten")
}

func TestRender(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stack-templates", "network.json")

	require.NoError(t, Render(File(path, []byte("{}"), 0644)))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())
}

func TestCreateFileFromTemplateLeavesNothingOnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "network.yaml")

	err := CreateFileFromTemplate(path, map[string]string{}, []byte("stackName: {{ .StackName }}\n"))
	require.Error(t, err, "missing keys are errors")

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestRenderReplacesExistingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "network.json")

	require.NoError(t, Render(File(path, []byte(`{"a":1}`), 0644)))
	require.NoError(t, Render(File(path, []byte(`{}`), 0644)))

	data, err := ioutil.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))

	entries, err := ioutil.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files are left behind")
}
