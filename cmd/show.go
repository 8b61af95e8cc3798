package cmd

import (
	"fmt"
	"os"

	"github.com/kubernetes-incubator/kube-aws-network/core/root"
	"github.com/spf13/cobra"
)

var (
	cmdShow = &cobra.Command{
		Use:          "show",
		Short:        "Show the networks, subnets, endpoints and outputs of the stack",
		Long:         ``,
		RunE:         runCmdShow,
		SilenceUsage: true,
	}
)

func init() {
	RootCmd.AddCommand(cmdShow)
}

func runCmdShow(_ *cobra.Command, _ []string) error {
	stack, err := root.NetworkStackFromFile(configPath, root.NewOptions(false, ""), rootOpts.awsDebug)
	if err != nil {
		return fmt.Errorf("Failed to read network config: %v", err)
	}

	return stack.Show(os.Stdout)
}
