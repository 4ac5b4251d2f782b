package util

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/antounmoubarak/fsdr-precheck/internal/model"
)

var (
	drpgOCIDPattern  = regexp.MustCompile(`^ocid1\.drprotectiongroup\.[^.]+\.[^.]+\.[^.]+$`)
	topicOCIDPattern = regexp.MustCompile(`^ocid1\.onstopic\.[^.]+\.[^.]+\.[^.]+$`)
)

// ValidateDRPGOCID checks that id has the shape of a DR protection group OCID.
//
// Parameters:
//   - id: The string to validate
//
// Returns:
//   - error: wraps model.ErrInvalidOCID if the format is wrong, nil otherwise
//
// Example:
//
//	if err := util.ValidateDRPGOCID(cfg.DRPGOCID); err != nil {
//	    return err
//	}
func ValidateDRPGOCID(id string) error {
	if !drpgOCIDPattern.MatchString(id) {
		return fmt.Errorf("%w: %q is not a DR protection group OCID", model.ErrInvalidOCID, id)
	}
	return nil
}

// ValidateTopicOCID checks that id has the shape of a Notifications topic OCID.
//
// Parameters:
//   - id: The string to validate
//
// Returns:
//   - error: wraps model.ErrInvalidOCID if the format is wrong, nil otherwise
func ValidateTopicOCID(id string) error {
	if !topicOCIDPattern.MatchString(id) {
		return fmt.Errorf("%w: %q is not a notification topic OCID", model.ErrInvalidOCID, id)
	}
	return nil
}

// RegionKey returns the region field of an OCID (the fourth dot-separated part).
// For "ocid1.drprotectiongroup.oc1.iad.aaaa" it returns "iad".
func RegionKey(ocid string) (string, error) {
	parts := strings.Split(ocid, ".")
	if len(parts) < 5 || parts[3] == "" {
		return "", fmt.Errorf("%w: %q has no region field", model.ErrInvalidOCID, ocid)
	}
	return parts[3], nil
}

// RegionFromOCID resolves the canonical region name an OCID lives in.
func RegionFromOCID(ocid string) (string, error) {
	key, err := RegionKey(ocid)
	if err != nil {
		return "", err
	}
	return NormalizeRegion(key)
}
