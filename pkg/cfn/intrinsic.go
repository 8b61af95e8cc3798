package cfn

// Pseudo parameters
const (
	AWSRegion    = "AWS::Region"
	AWSStackName = "AWS::StackName"
	AWSAccountID = "AWS::AccountId"
	AWSPartition = "AWS::Partition"
)

func Ref(logicalID string) map[string]interface{} {
	return map[string]interface{}{"Ref": logicalID}
}

func GetAtt(logicalID, attribute string) map[string]interface{} {
	return map[string]interface{}{"Fn::GetAtt": []interface{}{logicalID, attribute}}
}

func Sub(format string) map[string]interface{} {
	return map[string]interface{}{"Fn::Sub": format}
}

func ImportValue(exportName interface{}) map[string]interface{} {
	return map[string]interface{}{"Fn::ImportValue": exportName}
}

func Select(index int, list interface{}) map[string]interface{} {
	return map[string]interface{}{"Fn::Select": []interface{}{index, list}}
}

// GetAZs lists the availability zones of region. An empty region means the stack's own region.
func GetAZs(region string) map[string]interface{} {
	return map[string]interface{}{"Fn::GetAZs": region}
}

func Join(delimiter string, values []interface{}) map[string]interface{} {
	return map[string]interface{}{"Fn::Join": []interface{}{delimiter, values}}
}

// Tag is a single entry of a resource's Tags property.
type Tag struct {
	Key   string      `json:"Key"`
	Value interface{} `json:"Value"`
}

// RefTarget returns the logical id referenced by v when v is a {"Ref": ...} expression.
func RefTarget(v interface{}) (string, bool) {
	m, ok := v.(map[string]interface{})
	if !ok || len(m) != 1 {
		return "", false
	}
	id, ok := m["Ref"].(string)
	return id, ok
}
