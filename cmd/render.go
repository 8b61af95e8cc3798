package cmd

import (
	"fmt"

	"github.com/kubernetes-incubator/kube-aws-network/core/root"
	"github.com/spf13/cobra"
)

var (
	cmdRender = &cobra.Command{
		Use:          "render",
		Short:        "Render the CloudFormation stack template",
		Long:         ``,
		RunE:         runCmdRender,
		SilenceUsage: true,
	}

	renderOpts = struct {
		prettyPrint bool
	}{}
)

func init() {
	RootCmd.AddCommand(cmdRender)
	cmdRender.Flags().BoolVar(&renderOpts.prettyPrint, "pretty-print", true, "Pretty print the resulting CloudFormation")
}

func runCmdRender(_ *cobra.Command, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("render takes no arguments\n")
	}

	stack, err := root.NetworkStackFromFile(configPath, root.NewOptions(renderOpts.prettyPrint, ""), rootOpts.awsDebug)
	if err != nil {
		return fmt.Errorf("Failed to read network config: %v", err)
	}

	if err := stack.RenderFiles(); err != nil {
		return err
	}

	successMsg :=
		`Success! Stack template rendered to %s

Next steps:
1. (Optional) Validate the template with "kube-aws-network validate".
2. Review the changes with "kube-aws-network diff", then deploy with "kube-aws-network up".
`
	fmt.Printf(successMsg, stack.TemplatePath())
	return nil
}
