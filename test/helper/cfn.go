package helper

import (
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/cloudformation"
)

// DummyCloudformationService records what it is asked to do and replays canned stack states.
type DummyCloudformationService struct {
	ExpectedTags []*cloudformation.Tag
	StackEvents  []*cloudformation.StackEvent
	// StackStatuses are returned one per DescribeStacks call for the named stack. The last one repeats.
	StackStatuses []string
	Stacks        []*cloudformation.Stack
	Templates     map[string]string

	CreateErr   error
	UpdateErr   error
	ValidateErr error

	CreateInputs   []*cloudformation.CreateStackInput
	UpdateInputs   []*cloudformation.UpdateStackInput
	ValidateInputs []*cloudformation.ValidateTemplateInput
}

func (cfSvc *DummyCloudformationService) checkTags(tags []*cloudformation.Tag) error {
	if cfSvc.ExpectedTags == nil {
		return nil
	}

	if len(cfSvc.ExpectedTags) != len(tags) {
		return fmt.Errorf(
			"expected tag count does not match supplied tag count\nexpected=%v, supplied=%v",
			cfSvc.ExpectedTags,
			tags,
		)
	}

	matchCnt := 0
	for _, eTag := range cfSvc.ExpectedTags {
		for _, tag := range tags {
			if *tag.Key == *eTag.Key && *tag.Value == *eTag.Value {
				matchCnt++
				break
			}
		}
	}

	if matchCnt != len(cfSvc.ExpectedTags) {
		return fmt.Errorf(
			"not all tags matched\nexpected=%v, observed=%v",
			cfSvc.ExpectedTags,
			tags,
		)
	}
	return nil
}

func (cfSvc *DummyCloudformationService) CreateStack(req *cloudformation.CreateStackInput) (*cloudformation.CreateStackOutput, error) {
	cfSvc.CreateInputs = append(cfSvc.CreateInputs, req)
	if cfSvc.CreateErr != nil {
		return nil, cfSvc.CreateErr
	}
	if err := cfSvc.checkTags(req.Tags); err != nil {
		return nil, err
	}

	resp := &cloudformation.CreateStackOutput{
		StackId: req.StackName,
	}

	return resp, nil
}

func (cfSvc *DummyCloudformationService) UpdateStack(req *cloudformation.UpdateStackInput) (*cloudformation.UpdateStackOutput, error) {
	cfSvc.UpdateInputs = append(cfSvc.UpdateInputs, req)
	if cfSvc.UpdateErr != nil {
		return nil, cfSvc.UpdateErr
	}
	if err := cfSvc.checkTags(req.Tags); err != nil {
		return nil, err
	}

	return &cloudformation.UpdateStackOutput{
		StackId: req.StackName,
	}, nil
}

func (cfSvc *DummyCloudformationService) DescribeStacks(req *cloudformation.DescribeStacksInput) (*cloudformation.DescribeStacksOutput, error) {
	if req.StackName == nil {
		return &cloudformation.DescribeStacksOutput{Stacks: cfSvc.Stacks}, nil
	}

	name := aws.StringValue(req.StackName)

	if len(cfSvc.StackStatuses) > 0 {
		status := cfSvc.StackStatuses[0]
		if len(cfSvc.StackStatuses) > 1 {
			cfSvc.StackStatuses = cfSvc.StackStatuses[1:]
		}
		return &cloudformation.DescribeStacksOutput{
			Stacks: []*cloudformation.Stack{
				{
					StackName:   aws.String(name),
					StackStatus: aws.String(status),
				},
			},
		}, nil
	}

	for _, s := range cfSvc.Stacks {
		if aws.StringValue(s.StackName) == name {
			return &cloudformation.DescribeStacksOutput{Stacks: []*cloudformation.Stack{s}}, nil
		}
	}
	return nil, fmt.Errorf("Stack with id %s does not exist", name)
}

func (cfSvc *DummyCloudformationService) DescribeStackEvents(input *cloudformation.DescribeStackEventsInput) (*cloudformation.DescribeStackEventsOutput, error) {
	return &cloudformation.DescribeStackEventsOutput{
		StackEvents: cfSvc.StackEvents,
	}, nil
}

func (cfSvc *DummyCloudformationService) GetTemplate(input *cloudformation.GetTemplateInput) (*cloudformation.GetTemplateOutput, error) {
	body, ok := cfSvc.Templates[aws.StringValue(input.StackName)]
	if !ok {
		return nil, fmt.Errorf("Stack with id %s does not exist", aws.StringValue(input.StackName))
	}
	return &cloudformation.GetTemplateOutput{TemplateBody: aws.String(body)}, nil
}

func (cfSvc *DummyCloudformationService) ValidateTemplate(input *cloudformation.ValidateTemplateInput) (*cloudformation.ValidateTemplateOutput, error) {
	cfSvc.ValidateInputs = append(cfSvc.ValidateInputs, input)
	if cfSvc.ValidateErr != nil {
		return nil, cfSvc.ValidateErr
	}
	return &cloudformation.ValidateTemplateOutput{
		Description: aws.String("validated"),
	}, nil
}
