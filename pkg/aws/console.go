package aws

import (
	"fmt"
	"net/url"
	"strings"
)

// ConsoleURL returns the EC2 console instance list for region, filtered to
// the given instance IDs when any are supplied.
func ConsoleURL(region string, instanceIDs []string) string {
	base := fmt.Sprintf("https://%s.console.aws.amazon.com/ec2/home?region=%s#Instances:",
		region, url.QueryEscape(region))
	if len(instanceIDs) == 0 {
		return base
	}
	return base + "instanceId=" + strings.Join(instanceIDs, ",")
}
