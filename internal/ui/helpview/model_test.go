package helpview

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nhle/lifeos/internal/keys"
)

func TestViewShowsLegendAndTriageHint(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 24)

	out := m.View()
	assert.Contains(t, out, "LifeOS Help")
	assert.Contains(t, out, "idea")
	assert.Contains(t, out, "journal")
	assert.Contains(t, out, "triage with t")
}
