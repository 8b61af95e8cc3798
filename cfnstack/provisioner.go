package cfnstack

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/cloudformation"
	"github.com/aws/aws-sdk-go/service/s3"
)

// NoUpdates is returned by UpdateStackAndWait when the deployed stack already matches the template.
const NoUpdates = "no updates are to be performed"

type Provisioner struct {
	stackName    string
	stackTags    map[string]string
	roleARN      string
	region       string
	pollInterval time.Duration
}

func NewProvisioner(name string, stackTags map[string]string, roleARN string, region string) *Provisioner {
	return &Provisioner{
		stackName:    name,
		stackTags:    stackTags,
		roleARN:      roleARN,
		region:       region,
		pollInterval: 3 * time.Second,
	}
}

func (c *Provisioner) StackName() string {
	return c.stackName
}

func (c *Provisioner) s3Endpoint() string {
	if strings.HasPrefix(c.region, "cn-") {
		return fmt.Sprintf("s3.%s.amazonaws.com.cn", c.region)
	}
	return "s3.amazonaws.com"
}

// UploadTemplate puts the template under <s3URI>/<stack>/stack.json and returns its https url.
func (c *Provisioner) UploadTemplate(s3Svc S3ObjectPutterService, s3URI string, stackBody string) (string, error) {
	uri, err := S3URIFromString(s3URI)
	if err != nil {
		return "", err
	}

	bucket := uri.Bucket()
	key := strings.Join(append(uri.KeyComponents(), c.stackName, "stack.json"), "/")

	contentLength := int64(len(stackBody))
	body := strings.NewReader(stackBody)

	_, err = s3Svc.PutObject(&s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(contentLength),
		ContentType:   aws.String("application/json"),
	})

	if err != nil {
		return "", err
	}

	templateURL := fmt.Sprintf("https://%s/%s/%s", c.s3Endpoint(), bucket, key)

	return templateURL, nil
}

func (c *Provisioner) uploadTemplateIfNecessary(s3Svc S3ObjectPutterService, stackBody string, s3URI string) (*string, error) {
	if len(stackBody) > CFN_TEMPLATE_SIZE_LIMIT {
		if s3URI == "" {
			return nil, fmt.Errorf("stack template's size(=%d) exceeds the %d bytes limit of cloudformation. `--s3-uri s3://<bucket>/path/to/dir` must be specified to upload it to S3 beforehand", len(stackBody), CFN_TEMPLATE_SIZE_LIMIT)
		}

		templateURL, err := c.UploadTemplate(s3Svc, s3URI, stackBody)
		if err != nil {
			return nil, fmt.Errorf("Template upload failed: %v", err)
		}

		return &templateURL, nil
	}

	return nil, nil
}

func (c *Provisioner) tags() []*cloudformation.Tag {
	keys := make([]string, 0, len(c.stackTags))
	for k := range c.stackTags {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var tags []*cloudformation.Tag
	for _, k := range keys {
		tags = append(tags, &cloudformation.Tag{Key: aws.String(k), Value: aws.String(c.stackTags[k])})
	}
	return tags
}

func (c *Provisioner) baseCreateStackInput() *cloudformation.CreateStackInput {
	input := &cloudformation.CreateStackInput{
		StackName: aws.String(c.stackName),
		OnFailure: aws.String(cloudformation.OnFailureDoNothing),
		Tags:      c.tags(),
	}
	if c.roleARN != "" {
		input.RoleARN = aws.String(c.roleARN)
	}
	return input
}

func (c *Provisioner) CreateStack(cfSvc CreationService, s3Svc S3ObjectPutterService, stackBody string, s3URI string) (*cloudformation.CreateStackOutput, error) {
	templateURL, err := c.uploadTemplateIfNecessary(s3Svc, stackBody, s3URI)
	if err != nil {
		return nil, fmt.Errorf("template upload failed: %v", err)
	}

	input := c.baseCreateStackInput()
	if templateURL != nil {
		input.TemplateURL = templateURL
	} else {
		input.TemplateBody = aws.String(stackBody)
	}

	resp, err := cfSvc.CreateStack(input)
	if err != nil {
		return nil, fmt.Errorf("stack creation failed: %v", err)
	}
	return resp, nil
}

func (c *Provisioner) CreateStackAndWait(cfSvc CRUDService, s3Svc S3ObjectPutterService, stackBody string, s3URI string) error {
	resp, err := c.CreateStack(cfSvc, s3Svc, stackBody, s3URI)
	if err != nil {
		return err
	}

	req := cloudformation.DescribeStacksInput{
		StackName: resp.StackId,
	}

	for {
		resp, err := cfSvc.DescribeStacks(&req)
		if err != nil {
			return err
		}
		if len(resp.Stacks) == 0 {
			return fmt.Errorf("stack not found")
		}
		statusString := aws.StringValue(resp.Stacks[0].StackStatus)
		switch statusString {
		case cloudformation.StackStatusCreateComplete:
			return nil
		case cloudformation.StackStatusCreateFailed, cloudformation.StackStatusRollbackComplete, cloudformation.StackStatusRollbackFailed:
			errMsg := fmt.Sprintf(
				"Stack creation failed: %s : %s",
				statusString,
				aws.StringValue(resp.Stacks[0].StackStatusReason),
			)
			errMsg = errMsg + "\n\nPrinting the most recent failed stack events:\n"

			stackEventsOutput, err := cfSvc.DescribeStackEvents(
				&cloudformation.DescribeStackEventsInput{
					StackName: resp.Stacks[0].StackName,
				})
			if err != nil {
				return err
			}
			errMsg = errMsg + strings.Join(StackEventErrMsgs(stackEventsOutput.StackEvents), "\n")
			return errors.New(errMsg)
		case cloudformation.StackStatusCreateInProgress, cloudformation.StackStatusRollbackInProgress:
			time.Sleep(c.pollInterval)
			continue
		default:
			return fmt.Errorf("unexpected stack status: %s", statusString)
		}
	}
}

func (c *Provisioner) baseUpdateStackInput() *cloudformation.UpdateStackInput {
	input := &cloudformation.UpdateStackInput{
		StackName: aws.String(c.stackName),
		Tags:      c.tags(),
	}
	if c.roleARN != "" {
		input.RoleARN = aws.String(c.roleARN)
	}
	return input
}

func (c *Provisioner) UpdateStack(cfSvc UpdateService, s3Svc S3ObjectPutterService, stackBody string, s3URI string) (*cloudformation.UpdateStackOutput, error) {
	templateURL, err := c.uploadTemplateIfNecessary(s3Svc, stackBody, s3URI)
	if err != nil {
		return nil, fmt.Errorf("template upload failed: %v", err)
	}

	input := c.baseUpdateStackInput()
	if templateURL != nil {
		input.TemplateURL = templateURL
	} else {
		input.TemplateBody = aws.String(stackBody)
	}

	return cfSvc.UpdateStack(input)
}

func isNoUpdates(err error) bool {
	if aerr, ok := err.(awserr.Error); ok {
		return strings.Contains(strings.ToLower(aerr.Message()), NoUpdates)
	}
	return false
}

// UpdateStackAndWait updates the stack and waits for the update to settle.
// It returns NoUpdates without error when CloudFormation finds nothing to change.
func (c *Provisioner) UpdateStackAndWait(cfSvc CRUDService, s3Svc S3ObjectPutterService, stackBody string, s3URI string) (string, error) {
	updateOutput, err := c.UpdateStack(cfSvc, s3Svc, stackBody, s3URI)
	if err != nil {
		if isNoUpdates(err) {
			return NoUpdates, nil
		}
		return "", fmt.Errorf("error updating cloudformation stack: %v", err)
	}
	req := cloudformation.DescribeStacksInput{
		StackName: updateOutput.StackId,
	}
	for {
		resp, err := cfSvc.DescribeStacks(&req)
		if err != nil {
			return "", err
		}
		if len(resp.Stacks) == 0 {
			return "", fmt.Errorf("stack not found")
		}
		statusString := aws.StringValue(resp.Stacks[0].StackStatus)
		switch statusString {
		case cloudformation.StackStatusUpdateComplete:
			return updateOutput.String(), nil
		case cloudformation.StackStatusUpdateRollbackComplete, cloudformation.StackStatusUpdateRollbackFailed:
			errMsg := fmt.Sprintf("Stack status: %s : %s", statusString, aws.StringValue(resp.Stacks[0].StackStatusReason))
			stackEventsOutput, err := cfSvc.DescribeStackEvents(
				&cloudformation.DescribeStackEventsInput{
					StackName: resp.Stacks[0].StackName,
				})
			if err == nil {
				if msgs := StackEventErrMsgs(stackEventsOutput.StackEvents); len(msgs) > 0 {
					errMsg = errMsg + "\n\nPrinting the most recent failed stack events:\n" + strings.Join(msgs, "\n")
				}
			}
			return "", errors.New(errMsg)
		case cloudformation.StackStatusUpdateInProgress,
			cloudformation.StackStatusUpdateCompleteCleanupInProgress,
			cloudformation.StackStatusUpdateRollbackInProgress,
			cloudformation.StackStatusUpdateRollbackCompleteCleanupInProgress:
			time.Sleep(c.pollInterval)
			continue
		default:
			return "", fmt.Errorf("unexpected stack status: %s", statusString)
		}
	}
}

// Validate runs ValidateTemplate on the template, uploading it first when it is too large to inline.
func (c *Provisioner) Validate(cfSvc ValidationService, s3Svc S3ObjectPutterService, stackBody string, s3URI string) (string, error) {
	validateInput := cloudformation.ValidateTemplateInput{}

	templateURL, uploadErr := c.uploadTemplateIfNecessary(s3Svc, stackBody, s3URI)

	if uploadErr != nil {
		return "", fmt.Errorf("template upload failed: %v", uploadErr)
	} else if templateURL != nil {
		validateInput.TemplateURL = templateURL
	} else {
		validateInput.TemplateBody = aws.String(stackBody)
	}

	validationReport, err := cfSvc.ValidateTemplate(&validateInput)
	if err != nil {
		return "", fmt.Errorf("invalid cloudformation stack: %v", err)
	}

	return validationReport.String(), nil
}
