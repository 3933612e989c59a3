package aws

import (
	"strings"

	"reaper/pkg/errors"
)

// RegionMapping maps region codes to AWS region names
var RegionMapping = map[string]string{
	// Canada
	"cac1": "ca-central-1", // Montreal
	"caw1": "ca-west-1",    // Calgary

	// United States
	"use1": "us-east-1", // N. Virginia
	"use2": "us-east-2", // Ohio
	"usw1": "us-west-1", // N. California
	"usw2": "us-west-2", // Oregon

	// Europe
	"euw1": "eu-west-1",    // Ireland
	"euw2": "eu-west-2",    // London
	"euw3": "eu-west-3",    // Paris
	"euc1": "eu-central-1", // Frankfurt
	"euc2": "eu-central-2", // Zurich
	"eun1": "eu-north-1",   // Stockholm
	"eus1": "eu-south-1",   // Milan
	"eus2": "eu-south-2",   // Spain

	// Asia Pacific
	"aps1":  "ap-south-1",     // Mumbai
	"aps2":  "ap-south-2",     // Hyderabad
	"apse1": "ap-southeast-1", // Singapore
	"apse2": "ap-southeast-2", // Sydney
	"apse3": "ap-southeast-3", // Jakarta
	"apse4": "ap-southeast-4", // Melbourne
	"apne1": "ap-northeast-1", // Tokyo
	"apne2": "ap-northeast-2", // Seoul
	"apne3": "ap-northeast-3", // Osaka

	// South America
	"sae1": "sa-east-1", // São Paulo

	// Africa
	"afs1": "af-south-1", // Cape Town

	// Middle East
	"mes1": "me-south-1",   // Bahrain
	"mec1": "me-central-1", // UAE
}

// ResolveRegion turns user input (flag, env or config) into an AWS region
// name. Empty input is a usage error; unknown input is a validation error.
func ResolveRegion(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", errors.NewUsageError("a region is required (use -r/--region, REAPER_REGION or the config file)")
	}
	return ValidateRegionInput(input)
}
