package root

import (
	"fmt"
	"path/filepath"

	"github.com/aws/aws-sdk-go/service/cloudformation"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/kubernetes-incubator/kube-aws-network/awsconn"
	"github.com/kubernetes-incubator/kube-aws-network/cfnstack"
	"github.com/kubernetes-incubator/kube-aws-network/filegen"
	"github.com/kubernetes-incubator/kube-aws-network/logger"
	"github.com/kubernetes-incubator/kube-aws-network/pkg/api"
	"github.com/kubernetes-incubator/kube-aws-network/pkg/ec2"
	"github.com/kubernetes-incubator/kube-aws-network/pkg/model"
)

// CloudFormationService is the part of the CloudFormation API the driver uses.
type CloudFormationService interface {
	cfnstack.CRUDService
	cfnstack.TemplateGetter
	cfnstack.ValidationService
}

// Services are the AWS clients of a NetworkStack. EC2 may be nil when no network is looked up
// and the config lists its availability zones. CloudFormation and S3 are only needed to deploy.
type Services struct {
	CloudFormation CloudFormationService
	S3             cfnstack.S3ObjectPutterService
	EC2            func(region string) (cfnstack.EC2Interrogator, error)
}

type NetworkStack struct {
	stack *model.Stack
	opts  options
	svc   Services
}

func NetworkStackFromFile(configPath string, opts options, awsDebug bool) (*NetworkStack, error) {
	cfg, err := api.ConfigFromFile(configPath)
	if err != nil {
		return nil, err
	}
	if opts.AssetsDir == "" {
		opts.AssetsDir = filepath.Dir(configPath)
	}
	return NetworkStackFromConfig(cfg, opts, awsDebug)
}

func NetworkStackFromConfig(cfg *api.Config, opts options, awsDebug bool) (*NetworkStack, error) {
	conn := awsconn.NewConnector(awsDebug)
	svc := Services{EC2: conn.EC2}

	if !cfg.Region.IsEmpty() {
		session, err := conn.Session(cfg.Region.Name)
		if err != nil {
			return nil, err
		}
		svc.CloudFormation = cloudformation.New(session)
		svc.S3 = s3.New(session)
	}

	return NewNetworkStack(cfg, opts, svc)
}

func NewNetworkStack(cfg *api.Config, opts options, svc Services) (*NetworkStack, error) {
	if opts.S3URI == "" {
		opts.S3URI = cfg.S3URI
	}

	compileOpts := model.Options{}
	if svc.EC2 != nil {
		resolver := ec2.NewEC2Resolver(svc.EC2)
		compileOpts.VpcResolver = resolver
		compileOpts.Zones = resolver
	}

	stack, err := model.Compile(cfg, compileOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to compile stack %s: %v", cfg.StackName, err)
	}

	return &NetworkStack{
		stack: stack,
		opts:  opts,
		svc:   svc,
	}, nil
}

func (s *NetworkStack) Compiled() *model.Stack {
	return s.stack
}

func (s *NetworkStack) StackName() string {
	return s.stack.StackName()
}

func (s *NetworkStack) RenderStackTemplateAsBytes() ([]byte, error) {
	return s.stack.RenderTemplate(s.opts.PrettyPrint)
}

func (s *NetworkStack) RenderStackTemplateAsString() (string, error) {
	data, err := s.RenderStackTemplateAsBytes()
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// TemplatePath is where RenderFiles writes the template.
func (s *NetworkStack) TemplatePath() string {
	return s.opts.templatePath(s.stack.TemplateFilename())
}

// RenderFiles writes the template to stack-templates/<stack>.json under the assets dir.
func (s *NetworkStack) RenderFiles() error {
	data, err := s.RenderStackTemplateAsBytes()
	if err != nil {
		return fmt.Errorf("failed to render stack template: %v", err)
	}
	if err := filegen.Render(filegen.File(s.TemplatePath(), data, 0644)); err != nil {
		return fmt.Errorf("failed to write %s: %v", s.TemplatePath(), err)
	}
	return nil
}

func (s *NetworkStack) stackProvisioner() *cfnstack.Provisioner {
	cfg := s.stack.Config
	return cfnstack.NewProvisioner(
		cfg.StackName,
		cfg.StackTags,
		cfg.CloudFormation.RoleARN,
		cfg.Region.Name,
	)
}

func (s *NetworkStack) cloudFormation() (CloudFormationService, error) {
	if s.stack.Region().IsEmpty() {
		return nil, fmt.Errorf("stack %s has no region: set `region` in the config to deploy it", s.StackName())
	}
	if s.svc.CloudFormation == nil {
		return nil, fmt.Errorf("no cloudformation client for region %s", s.stack.Region())
	}
	return s.svc.CloudFormation, nil
}

// ValidateStack asks CloudFormation to validate the rendered template.
func (s *NetworkStack) ValidateStack() (string, error) {
	cf, err := s.cloudFormation()
	if err != nil {
		return "", err
	}
	body, err := s.RenderStackTemplateAsString()
	if err != nil {
		return "", err
	}
	report, err := s.stackProvisioner().Validate(cf, s.svc.S3, body, s.opts.S3URI)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Validation Report: %s", report), nil
}

// Diff compares the deployed template with the rendered one. A stack not deployed yet is compared to an empty template.
func (s *NetworkStack) Diff(context int) (*StackDiff, error) {
	cf, err := s.cloudFormation()
	if err != nil {
		return nil, err
	}

	desired, err := s.RenderStackTemplateAsString()
	if err != nil {
		return nil, err
	}

	exists, err := cfnstack.StackExists(cf, s.StackName())
	if err != nil {
		return nil, err
	}

	current := "{}"
	if exists {
		if current, err = cfnstack.GetTemplate(cf, s.StackName()); err != nil {
			return nil, err
		}
	}

	text, changed, err := diffJson(current, desired, context)
	if err != nil {
		return nil, err
	}

	return &StackDiff{
		Target:  s.StackName(),
		Exists:  exists,
		Changed: changed,
		text:    text,
	}, nil
}

// Apply creates the stack, or updates it when it already exists.
func (s *NetworkStack) Apply() (string, error) {
	cf, err := s.cloudFormation()
	if err != nil {
		return "", err
	}

	body, err := s.RenderStackTemplateAsString()
	if err != nil {
		return "", err
	}

	exists, err := cfnstack.StackExists(cf, s.StackName())
	if err != nil {
		return "", err
	}

	p := s.stackProvisioner()

	if exists {
		logger.Infof("Updating stack %s. This may take a few minutes.\n", s.StackName())
		return p.UpdateStackAndWait(cf, s.svc.S3, body, s.opts.S3URI)
	}

	logger.Infof("Creating stack %s. This may take a few minutes.\n", s.StackName())
	if err := p.CreateStackAndWait(cf, s.svc.S3, body, s.opts.S3URI); err != nil {
		return "", err
	}
	return fmt.Sprintf("stack %s created", s.StackName()), nil
}
