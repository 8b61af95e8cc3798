package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kubernetes-incubator/kube-aws-network/cfnstack"
)

type flag struct {
	name string
	val  string
}

func validateRequired(required ...flag) error {
	var missing []string
	for _, req := range required {
		if req.val == "" {
			missing = append(missing, strconv.Quote(req.name))
		}
	}
	if len(missing) != 0 {
		return fmt.Errorf("Missing required flag(s): %s", strings.Join(missing, ", "))
	}
	return nil
}

// validateS3URI rejects a malformed --s3-uri before any AWS call is made. An empty value is allowed.
func validateS3URI(uri string) error {
	if uri == "" {
		return nil
	}
	if _, err := cfnstack.S3URIFromString(uri); err != nil {
		return fmt.Errorf("invalid --s3-uri: %v", err)
	}
	return nil
}
