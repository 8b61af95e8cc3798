package cmd

import (
	"github.com/kubernetes-incubator/kube-aws-network/logger"
	"github.com/mgutz/ansi"
	"github.com/spf13/cobra"
)

var (
	RootCmd = &cobra.Command{
		Use:               "kube-aws-network",
		Short:             "Manage the VPCs, subnets and API endpoints shared by clusters on AWS",
		Long:              ``,
		PersistentPreRunE: applyGlobalFlags,
	}

	configPath = "network.yaml"

	rootOpts = struct {
		verbose, silent, color, awsDebug bool
	}{}
)

func init() {
	RootCmd.PersistentFlags().StringVar(&configPath, "config", "network.yaml", "Location of the kube-aws-network config file")
	RootCmd.PersistentFlags().BoolVar(&rootOpts.verbose, "verbose", false, "Print debug output, including the compiled networks")
	RootCmd.PersistentFlags().BoolVar(&rootOpts.silent, "silent", false, "Print nothing but errors")
	RootCmd.PersistentFlags().BoolVar(&rootOpts.color, "color", false, "Colorize the output")
	RootCmd.PersistentFlags().BoolVar(&rootOpts.awsDebug, "aws-debug", false, "Log debug information from aws-sdk-go library")
}

func applyGlobalFlags(_ *cobra.Command, _ []string) error {
	logger.Verbose = rootOpts.verbose
	logger.Silent = rootOpts.silent
	logger.Color = rootOpts.color
	ansi.DisableColors(!rootOpts.color)
	return nil
}
