package zone

import (
	"fmt"
	"net/http"

	"github.com/nekogravitycat/facility-booking-backend/internal/pkg/apperror"
)

// ValidateHierarchy checks the two-level zone model on a snapshot:
//   - a main zone has no parent and every listed sub-zone exists and points back to it
//   - a sub-zone has a parent, the parent exists and is a main zone
//   - a sub-zone owns no sub-zones (depth is at most 2)
//
// The returned error wraps ErrInvalidHierarchy and names the offending zone.
func ValidateHierarchy(zones []*Zone) error {
	byID := make(map[string]*Zone, len(zones))
	for _, z := range zones {
		if _, dup := byID[z.ID]; dup {
			return hierarchyError("duplicate zone id %s", z.ID)
		}
		byID[z.ID] = z
	}

	for _, z := range zones {
		if z.IsMainZone {
			if z.ParentZoneID != nil {
				return hierarchyError("main zone %s has a parent", z.ID)
			}
			for _, subID := range z.SubZones {
				sub, ok := byID[subID]
				if !ok {
					return hierarchyError("main zone %s lists unknown sub-zone %s", z.ID, subID)
				}
				if sub.ParentZoneID == nil || *sub.ParentZoneID != z.ID {
					return hierarchyError("sub-zone %s does not point back to main zone %s", subID, z.ID)
				}
			}
			continue
		}

		if len(z.SubZones) > 0 {
			return hierarchyError("zone %s is not a main zone but owns sub-zones", z.ID)
		}
		if z.ParentZoneID == nil {
			// A standalone zone without a parent is allowed; it simply has no hierarchy.
			continue
		}
		parent, ok := byID[*z.ParentZoneID]
		if !ok {
			return hierarchyError("sub-zone %s references unknown parent %s", z.ID, *z.ParentZoneID)
		}
		if !parent.IsMainZone {
			return hierarchyError("sub-zone %s is nested below non-main zone %s", z.ID, parent.ID)
		}
		if !contains(parent.SubZones, z.ID) {
			return hierarchyError("main zone %s does not list sub-zone %s", parent.ID, z.ID)
		}
	}
	return nil
}

func hierarchyError(format string, args ...any) error {
	return apperror.Wrap(fmt.Errorf(format, args...), http.StatusUnprocessableEntity, ErrInvalidHierarchy.Message)
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
