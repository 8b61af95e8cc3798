package cfnresource

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	// CloudFormation limits on the length of logical ids and export names.
	logicalIDLimit  = 255
	exportNameLimit = 255
)

var logicalIDPattern = regexp.MustCompile(`^[A-Za-z0-9]+$`)

func ValidateLogicalID(logicalID string) error {
	if !logicalIDPattern.MatchString(logicalID) {
		return fmt.Errorf("logical id(=%s) must be non-empty and alphanumeric", logicalID)
	}
	if len(logicalID) > logicalIDLimit {
		return fmt.Errorf("logical id(=%s) is %d characters long. It exceeds the CloudFormation limit of %d characters", logicalID, len(logicalID), logicalIDLimit)
	}
	return nil
}

// ValidateExportNameLength checks the export name as it will be once ${AWS::StackName} is substituted.
func ValidateExportNameLength(stackName string, exportName string) error {
	name := strings.Replace(exportName, "${AWS::StackName}", stackName, -1)
	if len(name) > exportNameLimit {
		limit := exportNameLimit - len(name) + len(stackName)
		return fmt.Errorf("export name(=%s) will be %d characters long. It exceeds the CloudFormation limit of %d characters: stack name(=%s) should be less than or equal to %d", name, len(name), exportNameLimit, stackName, limit)
	}
	return nil
}
