package cmd

import (
	"fmt"

	"github.com/kubernetes-incubator/kube-aws-network/core/root"
	"github.com/kubernetes-incubator/kube-aws-network/logger"
	"github.com/spf13/cobra"
)

var (
	cmdDiff = &cobra.Command{
		Use:          "diff",
		Short:        "Compare the deployed and the rendered stack templates",
		Long:         ``,
		RunE:         runCmdDiff,
		SilenceUsage: true,
	}

	diffOpts = struct {
		context int
		s3URI   string
	}{}
)

// ExitError carries the exit code of the process. diff exits with 2 when changes are detected.
type ExitError struct {
	msg  string
	Code int
}

func (e *ExitError) Error() string {
	return e.msg
}

func init() {
	RootCmd.AddCommand(cmdDiff)
	cmdDiff.Flags().IntVarP(&diffOpts.context, "context", "C", -1, "output NUM lines of context around changes")
	cmdDiff.Flags().StringVar(&diffOpts.s3URI, "s3-uri", "", "S3 location to upload the template to when it is too large to validate inline")
}

func runCmdDiff(c *cobra.Command, _ []string) error {
	if err := validateS3URI(diffOpts.s3URI); err != nil {
		return err
	}

	stack, err := root.NetworkStackFromFile(configPath, root.NewOptions(false, diffOpts.s3URI), rootOpts.awsDebug)
	if err != nil {
		return fmt.Errorf("failed to read network config: %v", err)
	}

	if _, err := stack.ValidateStack(); err != nil {
		return err
	}

	diff, err := stack.Diff(diffOpts.context)
	if err != nil {
		return fmt.Errorf("error comparing stack states: %v", err)
	}

	if !diff.Changed {
		logger.Infof("No changes detected in: %s\n", diff.Target)
		return nil
	}

	if !diff.Exists {
		logger.Infof("Stack %s does not exist yet\n", diff.Target)
	}
	logger.Infof("Detected changes in: %s\n%s", diff.Target, diff.String())

	c.SilenceErrors = true
	return &ExitError{fmt.Sprintf("Detected changes in: %s", diff.Target), 2}
}
