package root

import "path/filepath"

const StackTemplatesDir = "stack-templates"

type options struct {
	// AssetsDir is where stack-templates/ is rendered. Defaults to the directory of the config file.
	AssetsDir   string
	PrettyPrint bool
	S3URI       string
}

func NewOptions(prettyPrint bool, s3URI string) options {
	return options{
		PrettyPrint: prettyPrint,
		S3URI:       s3URI,
	}
}

func (o options) templatePath(filename string) string {
	return filepath.Join(o.AssetsDir, StackTemplatesDir, filename)
}
