package cmd

import (
	"fmt"

	"github.com/kubernetes-incubator/kube-aws-network/core/root"
	"github.com/spf13/cobra"
)

var (
	cmdInit = &cobra.Command{
		Use:          "init",
		Short:        "Initialize a default network configuration",
		Long:         ``,
		RunE:         runCmdInit,
		SilenceUsage: true,
	}

	initOpts = root.InitialConfig{}
)

func init() {
	RootCmd.AddCommand(cmdInit)
	cmdInit.Flags().StringVar(&initOpts.StackName, "stack-name", "", "The name of the cloudformation stack holding the networks")
	cmdInit.Flags().StringVar(&initOpts.Region, "region", "", "The AWS region to deploy to. Omit it to render a region-agnostic template")
	cmdInit.Flags().StringVar(&initOpts.VpcName, "vpc-name", "", "The name of the first VPC")
}

func runCmdInit(_ *cobra.Command, _ []string) error {
	if err := validateRequired(
		flag{"--stack-name", initOpts.StackName},
		flag{"--vpc-name", initOpts.VpcName},
	); err != nil {
		return err
	}

	if err := root.RenderInitialConfig(configPath, initOpts); err != nil {
		return fmt.Errorf("Error creating %s: %v", configPath, err)
	}

	successMsg :=
		`Success! Created %s

Next steps:
1. (Optional) Edit %s to add networks, subnet groups and api endpoints.
2. Use the "kube-aws-network render" command to render the CloudFormation stack template.
`

	fmt.Printf(successMsg, configPath, configPath)
	return nil
}
