package cmd

import (
	"github.com/kubernetes-incubator/kube-aws-network/logger"
	"github.com/kubernetes-incubator/kube-aws-network/pkg/api"
	"github.com/spf13/cobra"
)

var (
	cmdVersion = &cobra.Command{
		Use:   "version",
		Short: "Print version information and exit",
		Long:  ``,
		Run:   runCmdVersion,
	}
)

func init() {
	RootCmd.AddCommand(cmdVersion)
}

func runCmdVersion(_ *cobra.Command, _ []string) {
	logger.Infof("kube-aws-network version %s\n", api.VERSION)
}
