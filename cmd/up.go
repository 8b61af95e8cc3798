package cmd

import (
	"fmt"
	"io/ioutil"
	"os"

	"github.com/kubernetes-incubator/kube-aws-network/core/root"
	"github.com/spf13/cobra"
)

var (
	cmdUp = &cobra.Command{
		Use:          "up",
		Short:        "Create or update the network stack",
		Long:         ``,
		RunE:         runCmdUp,
		SilenceUsage: true,
	}

	upOpts = struct {
		export, prettyPrint bool
		s3URI               string
	}{}
)

func init() {
	RootCmd.AddCommand(cmdUp)
	cmdUp.Flags().BoolVar(&upOpts.export, "export", false, "Don't create the stack, instead export the cloudformation stack file")
	cmdUp.Flags().BoolVar(&upOpts.prettyPrint, "pretty-print", false, "Pretty print the resulting CloudFormation")
	cmdUp.Flags().StringVar(&upOpts.s3URI, "s3-uri", "", "When your template is bigger than the cloudformation limit of 51200 bytes, upload the template to the specified location in S3. S3 location expressed as s3://<bucket>/path/to/dir")
}

func runCmdUp(_ *cobra.Command, _ []string) error {
	if err := validateS3URI(upOpts.s3URI); err != nil {
		return err
	}

	stack, err := root.NetworkStackFromFile(configPath, root.NewOptions(upOpts.prettyPrint, upOpts.s3URI), rootOpts.awsDebug)
	if err != nil {
		return fmt.Errorf("Failed to initialize network driver: %v", err)
	}

	if upOpts.export {
		stackTemplate, err := stack.RenderStackTemplateAsBytes()
		if err != nil {
			return fmt.Errorf("Failed to render stack template: %v", err)
		}
		templatePath := fmt.Sprintf("%s.stack-template.json", stack.StackName())
		fmt.Printf("Exporting %s\n", templatePath)
		if err := ioutil.WriteFile(templatePath, stackTemplate, 0600); err != nil {
			return fmt.Errorf("Error writing %s : %v", templatePath, err)
		}
		return nil
	}

	if _, err := stack.ValidateStack(); err != nil {
		return fmt.Errorf("Error validating stack: %v", err)
	}

	result, err := stack.Apply()
	if err != nil {
		return fmt.Errorf("Error deploying stack: %v", err)
	}
	fmt.Printf("%s\n\n", result)

	fmt.Printf("Success! Your AWS resources are ready:\n\n")
	return stack.Show(os.Stdout)
}
