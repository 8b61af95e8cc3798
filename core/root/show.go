package root

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/kubernetes-incubator/kube-aws-network/cfnstack"
	"github.com/olekukonko/tablewriter"
	"github.com/tidwall/gjson"
)

const notDeployed = "-"

// OutputInfo is one output of the stack along with its deployed value, if any.
type OutputInfo struct {
	Key        string
	ExportName string
	Value      string
}

// Outputs lists the outputs of the rendered template. Deployed values are filled in when the stack exists.
func (s *NetworkStack) Outputs() ([]OutputInfo, error) {
	doc, err := s.stack.RenderTemplate(false)
	if err != nil {
		return nil, err
	}

	deployed := map[string]string{}
	if cf, err := s.cloudFormation(); err == nil {
		exists, err := cfnstack.StackExists(cf, s.StackName())
		if err != nil {
			return nil, err
		}
		if exists {
			if deployed, err = cfnstack.StackOutputs(cf, s.StackName()); err != nil {
				return nil, err
			}
		}
	}

	outputs := []OutputInfo{}
	gjson.GetBytes(doc, "Outputs").ForEach(func(key, value gjson.Result) bool {
		name := value.Get("Export.Name.Fn::Sub").String()
		if name == "" {
			name = value.Get("Export.Name").String()
		}
		v, ok := deployed[key.String()]
		if !ok {
			v = notDeployed
		}
		outputs = append(outputs, OutputInfo{
			Key:        key.String(),
			ExportName: strings.Replace(name, "${AWS::StackName}", s.StackName(), -1),
			Value:      v,
		})
		return true
	})
	sort.Slice(outputs, func(i, j int) bool { return outputs[i].Key < outputs[j].Key })

	return outputs, nil
}

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	return table
}

// Show prints the networks, endpoints and outputs of the stack as tables.
func (s *NetworkStack) Show(w io.Writer) error {
	fmt.Fprintf(w, "Stack: %s\n", s.StackName())
	if !s.stack.Region().IsEmpty() {
		fmt.Fprintf(w, "Console: %s\n", s.stack.Region().ConsoleURL(s.StackName()))
	}
	fmt.Fprintln(w)

	networks := newTable(w, "Network", "Kind", "Source", "Vpc", "Cidr", "Subnets")
	for _, n := range s.stack.Networks {
		networks.Append([]string{n.ID, n.Kind, n.Source, n.VpcID, n.CIDR, strings.Join(n.SubnetIDs(), ", ")})
	}
	networks.Render()

	if len(s.stack.Endpoints) > 0 {
		fmt.Fprintln(w)
		endpoints := newTable(w, "Endpoint", "Network", "Service", "Security Group", "Subnets")
		for _, e := range s.stack.Endpoints {
			endpoints.Append([]string{e.LogicalID, e.Network, e.ServiceName, e.SecurityGroup, strings.Join(e.Subnets, ", ")})
		}
		endpoints.Render()
	}

	outputs, err := s.Outputs()
	if err != nil {
		return err
	}
	fmt.Fprintln(w)
	table := newTable(w, "Output", "Export", "Value")
	for _, o := range outputs {
		table.Append([]string{o.Key, o.ExportName, o.Value})
	}
	table.Render()

	return nil
}
