package repository

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"docport/internal/model"
)

// ParseOrganizations reads a "CODE:Name,CODE:Name" list. Ids are derived from
// the code so they stay stable across restarts and agree between stores.
func ParseOrganizations(list string) ([]model.Organization, error) {
	var orgs []model.Organization
	seen := make(map[string]bool)
	for _, entry := range strings.Split(list, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		code, name, ok := strings.Cut(entry, ":")
		code, name = strings.TrimSpace(code), strings.TrimSpace(name)
		if !ok || code == "" || name == "" {
			return nil, fmt.Errorf("organization %q: want CODE:Name", entry)
		}
		if seen[code] {
			return nil, fmt.Errorf("organization code %q listed twice", code)
		}
		seen[code] = true
		orgs = append(orgs, model.Organization{
			ID:   uuid.NewSHA1(uuid.NameSpaceOID, []byte(code)).String(),
			Name: name,
			Code: code,
		})
	}
	return orgs, nil
}
