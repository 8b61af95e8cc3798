package api

import (
	"fmt"
	"io/ioutil"
	"regexp"

	"github.com/Masterminds/semver"
	"github.com/imdario/mergo"
	"github.com/kubernetes-incubator/kube-aws-network/logger"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// VERSION set by build script
var VERSION = "UNKNOWN"

const DefaultStackName = "network"

var stackNamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9-]{0,127}$`)

// Config is the content of network.yaml.
type Config struct {
	StackName         string   `yaml:"stackName,omitempty"`
	Region            `yaml:",inline"`
	Account           string   `yaml:"account,omitempty"`
	AvailabilityZones []string `yaml:"availabilityZones,omitempty"`
	Description       string   `yaml:"description,omitempty"`
	// RequiredVersion is a semver constraint the running kube-aws-network must satisfy, e.g. ">= 0.2.0".
	RequiredVersion string            `yaml:"requiredVersion,omitempty"`
	StackTags       map[string]string `yaml:"stackTags,omitempty"`
	// S3URI is where templates too large to be sent inline are uploaded.
	S3URI          string         `yaml:"s3URI,omitempty"`
	CloudFormation CloudFormation `yaml:"cloudFormation,omitempty"`

	Networks     []NetworkConfig  `yaml:"networks,omitempty"`
	Environments []NetworkConfig  `yaml:"environments,omitempty"`
	APIEndpoints []EndpointConfig `yaml:"apiEndpoints,omitempty"`

	// Overrides patches the rendered template: logical id, then a dot-separated path relative to the resource.
	Overrides map[string]map[string]interface{} `yaml:"overrides,omitempty"`

	UnknownKeys `yaml:",inline"`
}

var defaultConfig = Config{
	StackName: DefaultStackName,
}

func ConfigFromFile(path string) (*Config, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %v", path, err)
	}

	c, err := ConfigFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("file %s: %v", path, err)
	}

	return c, nil
}

// ConfigFromBytes parses, defaults and validates a config.
func ConfigFromBytes(data []byte) (*Config, error) {
	c := &Config{}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("failed to parse network config: %v", err)
	}
	if err := c.normalizeOverrides(); err != nil {
		return nil, fmt.Errorf("failed to parse network config: %v", err)
	}

	if err := c.SetDefaults(); err != nil {
		return nil, err
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid network config: %v", err)
	}

	return c, nil
}

func (c *Config) SetDefaults() error {
	if err := mergo.Merge(c, defaultConfig); err != nil {
		return errors.Wrap(err, "failed to apply config defaults")
	}
	for i := range c.Networks {
		if c.Networks[i].ID == "" {
			c.Networks[i].ID = c.Networks[i].VpcName
		}
	}
	for i := range c.Environments {
		if c.Environments[i].ID == "" {
			c.Environments[i].ID = c.Environments[i].VpcName
		}
	}
	for i := range c.APIEndpoints {
		if err := mergo.Merge(&c.APIEndpoints[i], defaultEndpointConfig); err != nil {
			return errors.Wrapf(err, "failed to apply defaults to apiEndpoints[%d]", i)
		}
	}
	return nil
}

func (c *Config) Validate() error {
	if err := c.FailWhenUnknownKeysFound("", yamlKeys(c)...); err != nil {
		return err
	}
	if err := c.CloudFormation.FailWhenUnknownKeysFound("cloudFormation", yamlKeys(c.CloudFormation)...); err != nil {
		return err
	}

	if !stackNamePattern.MatchString(c.StackName) {
		return fmt.Errorf("stackName %q must start with a letter and contain only alphanumeric characters and hyphens", c.StackName)
	}

	if err := c.validateRequiredVersion(); err != nil {
		return err
	}

	if len(c.Networks)+len(c.Environments) == 0 {
		return fmt.Errorf("at least one entry in networks or environments is required")
	}

	ids := map[string]string{}
	check := func(key string, entries []NetworkConfig, nameRequired bool) error {
		for i, n := range entries {
			keyPath := fmt.Sprintf("%s[%d]", key, i)
			if err := n.validate(keyPath, nameRequired); err != nil {
				return err
			}
			if other, ok := ids[n.ID]; ok {
				return fmt.Errorf("%s: id %q is already used by %s", keyPath, n.ID, other)
			}
			ids[n.ID] = keyPath
			if n.IsLookup() && c.Region.IsEmpty() && n.VpcRegion == "" {
				return fmt.Errorf("%s: looking up vpc %s requires region to be set", keyPath, n.VpcID)
			}
		}
		return nil
	}
	if err := check("networks", c.Networks, true); err != nil {
		return err
	}
	if err := check("environments", c.Environments, false); err != nil {
		return err
	}

	endpoints := map[string]bool{}
	for i, e := range c.APIEndpoints {
		keyPath := fmt.Sprintf("apiEndpoints[%d]", i)
		if err := e.validate(keyPath); err != nil {
			return err
		}
		if _, ok := ids[e.Network]; !ok {
			return fmt.Errorf("%s: unknown network %q", keyPath, e.Network)
		}
		if endpoints[e.StackName] {
			return fmt.Errorf("%s: stackName %q is used by more than one endpoint", keyPath, e.StackName)
		}
		endpoints[e.StackName] = true
	}

	return nil
}

func (c *Config) validateRequiredVersion() error {
	if c.RequiredVersion == "" {
		return nil
	}
	constraint, err := semver.NewConstraint(c.RequiredVersion)
	if err != nil {
		return fmt.Errorf("invalid requiredVersion %q: %v", c.RequiredVersion, err)
	}
	current, err := semver.NewVersion(VERSION)
	if err != nil {
		logger.Warnf("skipping the requiredVersion check: this build has no valid version (%s)", VERSION)
		return nil
	}
	if !constraint.Check(current) {
		return fmt.Errorf("this config requires kube-aws-network %s but this is %s", c.RequiredVersion, VERSION)
	}
	return nil
}

// NetworkIDs returns the ids of every network and environment, in declaration order.
func (c *Config) NetworkIDs() []string {
	ids := []string{}
	for _, n := range c.Networks {
		ids = append(ids, n.ID)
	}
	for _, n := range c.Environments {
		ids = append(ids, n.ID)
	}
	return ids
}
