package filegen

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kubernetes-incubator/kube-aws-network/filereader/texttemplate"
)

// CreateFileFromTemplate renders fileTemplate into outputFilePath. It never overwrites an existing file, and
// a template failing to execute leaves nothing behind.
func CreateFileFromTemplate(outputFilePath string, templateOpts interface{}, fileTemplate []byte) error {
	tmpl, err := texttemplate.Parse(filepath.Base(outputFilePath), string(fileTemplate), nil)
	if err != nil {
		return fmt.Errorf("failed to parse template of %s: %v", outputFilePath, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, templateOpts); err != nil {
		return fmt.Errorf("failed to render %s: %v", outputFilePath, err)
	}

	if err := os.MkdirAll(filepath.Dir(outputFilePath), 0755); err != nil {
		return fmt.Errorf("failed to create the directory of %s: %v", outputFilePath, err)
	}

	out, err := os.OpenFile(outputFilePath, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0600)
	if err != nil {
		return fmt.Errorf("failed to create %s: %v", outputFilePath, err)
	}
	defer out.Close()

	if _, err := buf.WriteTo(out); err != nil {
		return fmt.Errorf("failed to write %s: %v", outputFilePath, err)
	}
	return nil
}
