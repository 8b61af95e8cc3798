package api

type CloudFormation struct {
	// RoleARN is the service role CloudFormation assumes while creating or updating the stack.
	RoleARN     string `yaml:"roleARN,omitempty"`
	UnknownKeys `yaml:",inline"`
}
