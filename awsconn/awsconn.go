package awsconn

import (
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials/stscreds"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/ec2"
	"github.com/kubernetes-incubator/kube-aws-network/cfnstack"
	"github.com/kubernetes-incubator/kube-aws-network/pkg/api"
)

// NewSessionFromRegion creates an AWS session from AWS region and a debug flag
func NewSessionFromRegion(region api.Region, debug bool) (*session.Session, error) {
	awsConfig := aws.NewConfig().
		WithCredentialsChainVerboseErrors(true)

	if !region.IsEmpty() {
		awsConfig = awsConfig.WithRegion(region.String())
	}

	if debug {
		awsConfig = awsConfig.WithLogLevel(aws.LogDebug)
	}

	session, err := newSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to establish aws session: %v", err)
	}
	return session, nil
}

// newSession returns an AWS session which supports source_profile and assume role with MFA
func newSession(config *aws.Config) (*session.Session, error) {
	return session.NewSessionWithOptions(session.Options{
		Config: *config,
		// This seems to be required for AWS_SDK_LOAD_CONFIG
		SharedConfigState: session.SharedConfigEnable,
		// This seems to be required by MFA
		AssumeRoleTokenProvider: stscreds.StdinTokenProvider,
	})
}

// Connector hands out one session per region. Lookups may target a region other than the stack's.
type Connector struct {
	debug bool

	mu       sync.Mutex
	sessions map[string]*session.Session
}

func NewConnector(debug bool) *Connector {
	return &Connector{
		debug:    debug,
		sessions: map[string]*session.Session{},
	}
}

func (c *Connector) Session(region string) (*session.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if s, ok := c.sessions[region]; ok {
		return s, nil
	}
	s, err := NewSessionFromRegion(api.RegionForName(region), c.debug)
	if err != nil {
		return nil, err
	}
	c.sessions[region] = s
	return s, nil
}

// EC2 returns an EC2 client for the region. Its signature matches what ec2.NewEC2Resolver expects.
func (c *Connector) EC2(region string) (cfnstack.EC2Interrogator, error) {
	s, err := c.Session(region)
	if err != nil {
		return nil, err
	}
	return ec2.New(s), nil
}
