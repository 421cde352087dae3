package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrganizations(t *testing.T) {
	orgs, err := ParseOrganizations(" GH:General Hospital , CC:City Clinic,")
	require.NoError(t, err)
	require.Len(t, orgs, 2)
	assert.Equal(t, "GH", orgs[0].Code)
	assert.Equal(t, "City Clinic", orgs[1].Name)

	again, err := ParseOrganizations("GH:Renamed")
	require.NoError(t, err)
	assert.Equal(t, orgs[0].ID, again[0].ID)

	empty, err := ParseOrganizations("")
	require.NoError(t, err)
	assert.Empty(t, empty)

	for _, bad := range []string{"GH", "GH:", ":Name", "GH:A,GH:B"} {
		_, err := ParseOrganizations(bad)
		assert.Error(t, err, bad)
	}
}
