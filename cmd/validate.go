package cmd

import (
	"fmt"
	"os"

	"github.com/kubernetes-incubator/kube-aws-network/core/root"
	"github.com/spf13/cobra"
)

var (
	cmdValidate = &cobra.Command{
		Use:          "validate",
		Short:        "Validate the stack template with CloudFormation",
		Long:         ``,
		RunE:         runCmdValidate,
		SilenceUsage: true,
	}

	validateOpts = struct {
		s3URI string
	}{}
)

func init() {
	RootCmd.AddCommand(cmdValidate)
	cmdValidate.Flags().StringVar(&validateOpts.s3URI, "s3-uri", "", "When your template is bigger than the cloudformation limit of 51200 bytes, upload the template to the specified location in S3. S3 location expressed as s3://<bucket>/path/to/dir")
}

func runCmdValidate(_ *cobra.Command, _ []string) error {
	if err := validateS3URI(validateOpts.s3URI); err != nil {
		return err
	}

	stack, err := root.NetworkStackFromFile(configPath, root.NewOptions(false, validateOpts.s3URI), rootOpts.awsDebug)
	if err != nil {
		return fmt.Errorf("Failed to initialize network driver: %v", err)
	}

	fmt.Printf("Validating stack template...\n")

	report, err := stack.ValidateStack()
	if report != "" {
		fmt.Fprintf(os.Stderr, "%s\n", report)
	}
	if err != nil {
		return err
	}

	fmt.Printf("stack template is valid.\n\n")
	fmt.Println("Validation OK!")

	return nil
}
