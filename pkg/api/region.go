package api

import (
	"fmt"
	"strings"
)

type Region struct {
	Name string `yaml:"region,omitempty"`
}

func RegionForName(name string) Region {
	return Region{
		Name: name,
	}
}

func (r Region) PublicDomainName() string {
	if r.IsChina() {
		return "amazonaws.com.cn"
	}
	return "amazonaws.com"
}

func (r Region) String() string {
	return r.Name
}

// ConsoleURL links to the CloudFormation console page of the stack.
func (r Region) ConsoleURL(stackName string) string {
	host := "console.aws.amazon.com"
	switch {
	case r.IsChina():
		host = "console.amazonaws.cn"
	case r.IsGovcloud():
		host = "console.amazonaws-us-gov.com"
	}
	return fmt.Sprintf("https://%s/cloudformation/home?region=%s#/stacks?filteringText=%s", host, r.Name, stackName)
}

func (r Region) Partition() string {
	if r.IsChina() {
		return "aws-cn"
	}
	if r.IsGovcloud() {
		return "aws-us-gov"
	}
	return "aws"
}

func (r Region) IsChina() bool {
	return strings.HasPrefix(r.Name, "cn-")
}

func (r Region) IsGovcloud() bool {
	return strings.HasPrefix(r.Name, "us-gov-")
}

func (r Region) IsEmpty() bool {
	return r.Name == ""
}
