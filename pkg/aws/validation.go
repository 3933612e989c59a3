package aws

import (
	"fmt"
	"strings"

	"reaper/pkg/errors"
)

var validRegionPrefixes = map[string]bool{
	"us":     true,
	"eu":     true,
	"ap":     true,
	"ca":     true,
	"sa":     true,
	"me":     true,
	"af":     true,
	"il":     true,
	"mx":     true,
	"cn":     true,
	"us-gov": true,
}

var validRegionDirections = map[string]bool{
	"east":      true,
	"west":      true,
	"north":     true,
	"south":     true,
	"central":   true,
	"northeast": true,
	"southeast": true,
	"northwest": true,
	"southwest": true,
}

// IsValidAWSRegion validates if a string is a properly formatted AWS region.
// Valid formats:
//   - Standard: xx-xxxx-n (e.g., us-east-1, ca-central-1)
//   - GovCloud: us-gov-xxxx-n (e.g., us-gov-east-1)
func IsValidAWSRegion(region string) bool {
	if region == "" {
		return false
	}

	parts := strings.Split(region, "-")
	if len(parts) == 4 && parts[0] == "us" && parts[1] == "gov" {
		parts = []string{"us-gov", parts[2], parts[3]}
	}
	if len(parts) != 3 {
		return false
	}

	if !validRegionPrefixes[parts[0]] {
		return false
	}

	if parts[0] == "us-gov" {
		if parts[1] != "east" && parts[1] != "west" {
			return false
		}
	} else if !validRegionDirections[parts[1]] {
		return false
	}

	// Third part: 1-99
	number := parts[2]
	if len(number) < 1 || len(number) > 2 || number == "0" || number[0] == '0' {
		return false
	}
	for _, char := range number {
		if char < '0' || char > '9' {
			return false
		}
	}

	return true
}

// ValidateRegionInput accepts either a shortcode (e.g. apse2) or a full
// region name (e.g. ap-southeast-2) and returns the full region name.
func ValidateRegionInput(input string) (string, error) {
	input = strings.TrimSpace(input)

	if input == "" {
		return "", errors.NewValidationError("region cannot be empty").
			WithContext("field", "region")
	}

	if fullRegion, exists := RegionMapping[strings.ToLower(input)]; exists {
		return fullRegion, nil
	}

	if IsValidAWSRegion(input) {
		return input, nil
	}

	return "", errors.NewValidationError(fmt.Sprintf(
		"region '%s' is invalid: must be a valid AWS region (e.g., us-east-1, ap-southeast-2) or shortcode (e.g., use1, apse2)", input)).
		WithContext("field", "region").
		WithContext("value", input)
}
