package brand_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeventbooks/event-gateway/internal/brand"
)

func TestIsValid(t *testing.T) {
	for _, id := range []string{"root", "abc", "cbc", "cbl"} {
		assert.True(t, brand.IsValid(id), id)
	}
	assert.False(t, brand.IsValid("xyz"))
	assert.False(t, brand.IsValid(""))
	assert.False(t, brand.IsValid("ABC"))
}

func TestGet_FallsBackToRoot(t *testing.T) {
	b := brand.Get("nope")
	assert.Equal(t, brand.Root, b.ID)

	b = brand.Get("cbc")
	assert.Equal(t, "cbc", b.ID)
	assert.Equal(t, "CBC League", b.Name)
}

func TestTemplates_FollowAllowlistOrder(t *testing.T) {
	ts := brand.Templates("cbc")
	require.Len(t, ts, 2)
	assert.Equal(t, "classic", ts[0].ID)
	assert.Equal(t, "minimal", ts[1].ID)
}

func TestAllowsTemplate(t *testing.T) {
	assert.True(t, brand.AllowsTemplate("abc", "tournament"))
	assert.False(t, brand.AllowsTemplate("cbc", "tournament"))
	assert.False(t, brand.AllowsTemplate("abc", ""))
}

func TestProjections(t *testing.T) {
	b := brand.Get("abc")

	pub := b.Public()
	assert.Equal(t, "abc", pub.ID)
	assert.NotEmpty(t, pub.Theme.Primary)

	adm := b.Admin()
	assert.Equal(t, b.AllowedTemplates, adm.AllowedTemplates)
	assert.Equal(t, "classic", adm.DefaultTemplateID)
}
