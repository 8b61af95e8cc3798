package ec2

import (
	"fmt"
	"sort"
	"strings"
)

// SubnetSelection picks subnets of a VPC. Either SubnetGroupName or SubnetType may be set, not both.
type SubnetSelection struct {
	AvailabilityZones []string
	// OnePerAz keeps at most one subnet per availability zone when set to true.
	OnePerAz        *bool
	SubnetFilters   []SubnetFilter
	SubnetGroupName string
	SubnetType      SubnetType
}

type SelectedSubnets struct {
	Subnets   []Subnet
	HasPublic bool
}

func newSelectedSubnets(subnets []Subnet) *SelectedSubnets {
	hasPublic := false
	for _, s := range subnets {
		hasPublic = hasPublic || s.Type == SubnetTypePublic
	}
	return &SelectedSubnets{
		Subnets:   subnets,
		HasPublic: hasPublic,
	}
}

// SubnetIDs returns the CloudFormation values of the selected subnet ids.
func (s *SelectedSubnets) SubnetIDs() []interface{} {
	ids := make([]interface{}, len(s.Subnets))
	for i, subnet := range s.Subnets {
		ids[i] = subnet.ID()
	}
	return ids
}

// AvailabilityZones returns the distinct zones of the selected subnets, in selection order.
func (s *SelectedSubnets) AvailabilityZones() []string {
	seen := map[string]bool{}
	azs := []string{}
	for _, subnet := range s.Subnets {
		az := subnet.AvailabilityZone.String()
		if !seen[az] {
			seen[az] = true
			azs = append(azs, az)
		}
	}
	return azs
}

func (s *SelectedSubnets) IsEmpty() bool {
	return len(s.Subnets) == 0
}

type SubnetFilter interface {
	SelectSubnets(subnets []Subnet) []Subnet
}

type subnetFilterFunc func(subnets []Subnet) []Subnet

func (f subnetFilterFunc) SelectSubnets(subnets []Subnet) []Subnet {
	return f(subnets)
}

// SubnetFilterByIDs keeps subnets whose physical or logical id is listed.
func SubnetFilterByIDs(ids []string) SubnetFilter {
	return subnetFilterFunc(func(subnets []Subnet) []Subnet {
		result := []Subnet{}
		for _, s := range subnets {
			for _, id := range ids {
				if s.Matches(id) {
					result = append(result, s)
					break
				}
			}
		}
		return result
	})
}

func SubnetFilterAvailabilityZones(azs []string) SubnetFilter {
	return subnetFilterFunc(func(subnets []Subnet) []Subnet {
		result := []Subnet{}
		for _, s := range subnets {
			for _, az := range azs {
				if s.AvailabilityZone.String() == az {
					result = append(result, s)
					break
				}
			}
		}
		return result
	})
}

// SubnetFilterOnePerAz keeps the first subnet of each availability zone.
func SubnetFilterOnePerAz() SubnetFilter {
	return subnetFilterFunc(func(subnets []Subnet) []Subnet {
		seen := map[string]bool{}
		result := []Subnet{}
		for _, s := range subnets {
			az := s.AvailabilityZone.String()
			if seen[az] {
				continue
			}
			seen[az] = true
			result = append(result, s)
		}
		return result
	})
}

func SubnetFilterByCidrMask(mask int) SubnetFilter {
	return subnetFilterFunc(func(subnets []Subnet) []Subnet {
		result := []Subnet{}
		for _, s := range subnets {
			if s.CidrMask() == mask {
				result = append(result, s)
			}
		}
		return result
	})
}

// selectSubnets implements SubnetSelection over every subnet of a VPC.
func selectSubnets(all []Subnet, sel SubnetSelection) (*SelectedSubnets, error) {
	if sel.SubnetGroupName != "" && sel.SubnetType != "" {
		return nil, fmt.Errorf("only one of subnetType(=%s) and subnetGroupName(=%s) can be supplied", sel.SubnetType, sel.SubnetGroupName)
	}

	var subnets []Subnet
	if sel.SubnetGroupName != "" {
		subnets = subnetsInGroup(all, sel.SubnetGroupName)
		if len(subnets) == 0 {
			return nil, fmt.Errorf("there are no subnet groups with name %q in this VPC. Available names: %s", sel.SubnetGroupName, strings.Join(groupNames(all), ", "))
		}
	} else {
		subnetType := sel.SubnetType
		if subnetType == "" {
			subnetType = defaultSubnetType(all)
		}
		subnets = subnetsOfType(all, subnetType)
		if len(subnets) == 0 {
			return nil, fmt.Errorf("there are no %q subnet groups in this VPC. Available types: %s", subnetType, strings.Join(subnetTypes(all), ", "))
		}
	}

	filters := []SubnetFilter{}
	if len(sel.AvailabilityZones) > 0 {
		filters = append(filters, SubnetFilterAvailabilityZones(sel.AvailabilityZones))
	}
	filters = append(filters, sel.SubnetFilters...)
	if sel.OnePerAz != nil && *sel.OnePerAz {
		filters = append(filters, SubnetFilterOnePerAz())
	}
	for _, f := range filters {
		subnets = f.SelectSubnets(subnets)
	}

	return newSelectedSubnets(subnets), nil
}

func defaultSubnetType(all []Subnet) SubnetType {
	for _, t := range subnetTypePreference {
		if len(subnetsOfType(all, t)) > 0 {
			return t
		}
	}
	return SubnetTypePrivate
}

func subnetsOfType(all []Subnet, t SubnetType) []Subnet {
	result := []Subnet{}
	for _, s := range all {
		if s.Type == t {
			result = append(result, s)
		}
	}
	return result
}

func subnetsInGroup(all []Subnet, name string) []Subnet {
	result := []Subnet{}
	for _, s := range all {
		if s.GroupName == name {
			result = append(result, s)
		}
	}
	return result
}

func groupNames(all []Subnet) []string {
	seen := map[string]bool{}
	names := []string{}
	for _, s := range all {
		if !seen[s.GroupName] {
			seen[s.GroupName] = true
			names = append(names, s.GroupName)
		}
	}
	sort.Strings(names)
	return names
}

func subnetTypes(all []Subnet) []string {
	seen := map[SubnetType]bool{}
	types := []string{}
	for _, s := range all {
		if !seen[s.Type] {
			seen[s.Type] = true
			types = append(types, string(s.Type))
		}
	}
	sort.Strings(types)
	return types
}
