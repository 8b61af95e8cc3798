package cfn

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/kubernetes-incubator/kube-aws-network/cfnresource"
	"github.com/kubernetes-incubator/kube-aws-network/filereader/jsontemplate"
	"github.com/kubernetes-incubator/kube-aws-network/naming"
	"github.com/pkg/errors"
	"github.com/tidwall/sjson"
)

const TemplateFormatVersion = "2010-09-09"

// Scope is where constructs register their resources. A Stack is the root scope.
type Scope interface {
	Stack() *Stack
	// Path is the slash-separated construct path relative to the stack. It is empty for the stack itself.
	Path() string
	// LogicalID derives the CloudFormation logical id of a resource named id within this scope.
	LogicalID(id string) string
}

// Environment pins a stack to an account and region. A zero Environment yields a region-agnostic stack.
type Environment struct {
	Account           string
	Region            string
	AvailabilityZones []string
}

type Stack struct {
	Name        string
	Description string
	Environment

	resources map[string]*Resource
	outputs   map[string]*Output
	paths     map[string]bool
	context   map[string]interface{}
}

func NewStack(name string, env Environment) *Stack {
	return &Stack{
		Name:        name,
		Environment: env,
		resources:   map[string]*Resource{},
		outputs:     map[string]*Output{},
		paths:       map[string]bool{},
		context:     map[string]interface{}{},
	}
}

func (s *Stack) Stack() *Stack {
	return s
}

func (s *Stack) Path() string {
	return ""
}

func (s *Stack) LogicalID(id string) string {
	return naming.FromPathToLogicalID(id)
}

func (s *Stack) IsRegionAgnostic() bool {
	return s.Region == ""
}

// SetContext stores a value shared by every construct of the stack, e.g. lookup providers.
func (s *Stack) SetContext(key string, value interface{}) {
	s.context[key] = value
}

func (s *Stack) Context(key string) (interface{}, bool) {
	v, ok := s.context[key]
	return v, ok
}

func (s *Stack) AddResource(logicalID string, r *Resource) error {
	if err := cfnresource.ValidateLogicalID(logicalID); err != nil {
		return fmt.Errorf("stack %s: %v", s.Name, err)
	}
	if existing, ok := s.resources[logicalID]; ok {
		return fmt.Errorf("stack %s: duplicate logical id %s (already used by a %s)", s.Name, logicalID, existing.Type)
	}
	s.resources[logicalID] = r
	return nil
}

func (s *Stack) AddOutput(logicalID string, o *Output) error {
	if err := cfnresource.ValidateLogicalID(logicalID); err != nil {
		return fmt.Errorf("stack %s: output %v", s.Name, err)
	}
	if _, ok := s.outputs[logicalID]; ok {
		return fmt.Errorf("stack %s: duplicate output %s", s.Name, logicalID)
	}
	if sub, ok := o.ExportName.(map[string]interface{}); ok {
		if format, ok := sub["Fn::Sub"].(string); ok {
			if err := cfnresource.ValidateExportNameLength(s.Name, format); err != nil {
				return fmt.Errorf("stack %s: %v", s.Name, err)
			}
		}
	}
	s.outputs[logicalID] = o
	return nil
}

func (s *Stack) Resource(logicalID string) (*Resource, bool) {
	r, ok := s.resources[logicalID]
	return r, ok
}

// ResourcesOfType returns the sorted logical ids of every resource of the given type.
func (s *Stack) ResourcesOfType(resourceType string) []string {
	ids := []string{}
	for id, r := range s.resources {
		if r.Type == resourceType {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

func (s *Stack) Outputs() map[string]*Output {
	return s.outputs
}

type template struct {
	AWSTemplateFormatVersion string               `json:"AWSTemplateFormatVersion"`
	Description              string               `json:"Description,omitempty"`
	Resources                map[string]*Resource `json:"Resources"`
	Outputs                  map[string]*Output   `json:"Outputs,omitempty"`
}

// Render produces the CloudFormation template with every resource override applied.
func (s *Stack) Render(prettyPrint bool) ([]byte, error) {
	raw, err := json.Marshal(template{
		AWSTemplateFormatVersion: TemplateFormatVersion,
		Description:              s.Description,
		Resources:                s.resources,
		Outputs:                  s.outputs,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal template of stack %s", s.Name)
	}

	ids := make([]string, 0, len(s.resources))
	for id := range s.resources {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		for _, o := range s.resources[id].overrides {
			path := "Resources." + id + "." + o.path
			if o.delete {
				raw, err = sjson.DeleteBytes(raw, path)
			} else {
				raw, err = sjson.SetBytes(raw, path, o.value)
			}
			if err != nil {
				return nil, errors.Wrapf(err, "failed to apply override %s", path)
			}
		}
	}

	return jsontemplate.Format(raw, prettyPrint)
}

type construct struct {
	stack      *Stack
	components []string
}

// NewScope creates a child scope of parent. Construct ids must be unique among siblings.
func NewScope(parent Scope, id string) (Scope, error) {
	if id == "" {
		return nil, fmt.Errorf("construct id must not be empty (parent: %q)", parent.Path())
	}
	if strings.Contains(id, "/") {
		return nil, fmt.Errorf("construct id %q must not contain '/'", id)
	}

	var components []string
	if p := parent.Path(); p != "" {
		components = strings.Split(p, "/")
	}
	components = append(components, id)

	stack := parent.Stack()
	path := strings.Join(components, "/")
	if stack.paths[path] {
		return nil, fmt.Errorf("there is already a construct with id %q in scope %q", id, parent.Path())
	}
	stack.paths[path] = true

	return &construct{stack: stack, components: components}, nil
}

func (c *construct) Stack() *Stack {
	return c.stack
}

func (c *construct) Path() string {
	return strings.Join(c.components, "/")
}

func (c *construct) LogicalID(id string) string {
	return naming.FromPathToLogicalID(append(append([]string{}, c.components...), id)...)
}

// DisplayPath is the construct path prefixed by the stack name, as shown in resource descriptions and Name tags.
func DisplayPath(s Scope) string {
	if s.Path() == "" {
		return s.Stack().Name
	}
	return s.Stack().Name + "/" + s.Path()
}
