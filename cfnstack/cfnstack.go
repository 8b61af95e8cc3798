package cfnstack

import (
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/cloudformation"
	"github.com/aws/aws-sdk-go/service/s3"
)

var CFN_TEMPLATE_SIZE_LIMIT = 51200

type CreationService interface {
	CreateStack(*cloudformation.CreateStackInput) (*cloudformation.CreateStackOutput, error)
}

type UpdateService interface {
	UpdateStack(input *cloudformation.UpdateStackInput) (*cloudformation.UpdateStackOutput, error)
}

type CRUDService interface {
	CreateStack(*cloudformation.CreateStackInput) (*cloudformation.CreateStackOutput, error)
	UpdateStack(input *cloudformation.UpdateStackInput) (*cloudformation.UpdateStackOutput, error)
	DescribeStacks(input *cloudformation.DescribeStacksInput) (*cloudformation.DescribeStacksOutput, error)
	DescribeStackEvents(input *cloudformation.DescribeStackEventsInput) (*cloudformation.DescribeStackEventsOutput, error)
}

// CFInterrogator is what StackExists needs to see the stacks of an account.
type CFInterrogator interface {
	DescribeStacks(input *cloudformation.DescribeStacksInput) (*cloudformation.DescribeStacksOutput, error)
}

type TemplateGetter interface {
	GetTemplate(input *cloudformation.GetTemplateInput) (*cloudformation.GetTemplateOutput, error)
}

type ValidationService interface {
	ValidateTemplate(input *cloudformation.ValidateTemplateInput) (*cloudformation.ValidateTemplateOutput, error)
}

type S3ObjectPutterService interface {
	PutObject(input *s3.PutObjectInput) (*s3.PutObjectOutput, error)
}

// StackExists reports whether a live stack named stackName exists. Deleted stacks are ignored.
func StackExists(cf CFInterrogator, stackName string) (bool, error) {
	resp, err := cf.DescribeStacks(&cloudformation.DescribeStacksInput{})
	if err != nil {
		return false, fmt.Errorf("failed to list stacks: %v", err)
	}
	if resp == nil {
		return false, nil
	}
	for _, s := range resp.Stacks {
		if aws.StringValue(s.StackName) == stackName && s.DeletionTime == nil &&
			aws.StringValue(s.StackStatus) != cloudformation.StackStatusDeleteComplete {
			return true, nil
		}
	}
	return false, nil
}

// GetTemplate returns the template body of the deployed stack.
func GetTemplate(cf TemplateGetter, stackName string) (string, error) {
	resp, err := cf.GetTemplate(&cloudformation.GetTemplateInput{
		StackName: aws.String(stackName),
	})
	if err != nil {
		return "", fmt.Errorf("failed to get the template of stack %s: %v", stackName, err)
	}
	return aws.StringValue(resp.TemplateBody), nil
}

// StackOutputs returns the outputs of the deployed stack keyed by output key.
func StackOutputs(cf CFInterrogator, stackName string) (map[string]string, error) {
	resp, err := cf.DescribeStacks(&cloudformation.DescribeStacksInput{
		StackName: aws.String(stackName),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to describe stack %s: %v", stackName, err)
	}
	outputs := map[string]string{}
	if resp == nil || len(resp.Stacks) == 0 {
		return outputs, nil
	}
	for _, o := range resp.Stacks[0].Outputs {
		outputs[aws.StringValue(o.OutputKey)] = aws.StringValue(o.OutputValue)
	}
	return outputs, nil
}

func StackEventErrMsgs(events []*cloudformation.StackEvent) []string {
	var errMsgs []string

	for _, event := range events {
		status := aws.StringValue(event.ResourceStatus)
		if status == cloudformation.ResourceStatusCreateFailed || status == cloudformation.ResourceStatusUpdateFailed {
			// Only show actual failures, not cancelled dependent resources.
			if !strings.HasPrefix(aws.StringValue(event.ResourceStatusReason), "Resource creation cancelled") &&
				!strings.HasPrefix(aws.StringValue(event.ResourceStatusReason), "Resource update cancelled") {
				errMsgs = append(errMsgs,
					strings.TrimSpace(
						strings.Join([]string{
							status,
							aws.StringValue(event.ResourceType),
							aws.StringValue(event.LogicalResourceId),
							aws.StringValue(event.ResourceStatusReason),
						}, " ")))
			}
		}
	}

	return errMsgs
}
