package root

import (
	"fmt"

	"github.com/kubernetes-incubator/kube-aws-network/builtin"
	"github.com/kubernetes-incubator/kube-aws-network/filegen"
	"github.com/kubernetes-incubator/kube-aws-network/pkg/api"
)

// InitialConfig holds the values asked by `init`.
type InitialConfig struct {
	StackName string
	Region    string
	VpcName   string
}

func (c InitialConfig) validate() error {
	if c.StackName == "" {
		return fmt.Errorf("stack name is required")
	}
	if c.VpcName == "" {
		return fmt.Errorf("vpc name is required")
	}
	return nil
}

// RenderInitialConfig writes a commented network.yaml to configPath and checks that it loads.
func RenderInitialConfig(configPath string, c InitialConfig) error {
	if err := c.validate(); err != nil {
		return err
	}

	tmpl, err := builtin.MustBytes(builtin.NetworkConfigTmplFile)
	if err != nil {
		return fmt.Errorf("failed to read the default config template: %v", err)
	}

	if err := filegen.CreateFileFromTemplate(configPath, c, tmpl); err != nil {
		return err
	}

	if _, err := api.ConfigFromFile(configPath); err != nil {
		return fmt.Errorf("the generated %s is invalid: %v", configPath, err)
	}
	return nil
}
