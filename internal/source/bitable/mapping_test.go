package bitable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/lifeos/internal/model"
)

func TestMappingFor(t *testing.T) {
	t.Run("empty selects the default", func(t *testing.T) {
		m, err := MappingFor("")
		require.NoError(t, err)
		assert.Equal(t, DefaultVocabulary, m.Version)
	})

	t.Run("every advertised vocabulary resolves", func(t *testing.T) {
		for _, v := range Vocabularies() {
			m, err := MappingFor(v)
			require.NoError(t, err, v)
			assert.Equal(t, v, m.Version)
		}
	})

	t.Run("unknown vocabulary errors", func(t *testing.T) {
		_, err := MappingFor("fr")
		assert.Error(t, err)
	})
}

func TestMappingCompleteness(t *testing.T) {
	// Every generation must label every enum value and every column,
	// otherwise records silently lose fields on the wire.
	for _, v := range Vocabularies() {
		m, err := MappingFor(v)
		require.NoError(t, err)

		t.Run(v, func(t *testing.T) {
			for _, status := range model.Statuses {
				assert.NotEmpty(t, m.Status[status], "status %q", status)
			}
			for _, typ := range model.Types {
				assert.NotEmpty(t, m.Types[typ], "type %q", typ)
			}
			for _, pri := range model.Priorities {
				assert.NotEmpty(t, m.Priority[pri], "priority %q", pri)
			}
			for _, na := range model.NextActions {
				assert.NotEmpty(t, m.NextActions[na], "next action %q", na)
			}

			cols := m.ExpectedColumns()
			assert.Len(t, cols, 10)
			for _, col := range cols {
				assert.NotEmpty(t, col)
			}
		})
	}
}

func TestMappingReverseLookups(t *testing.T) {
	m, err := MappingFor("zh-v1")
	require.NoError(t, err)

	assert.Equal(t, model.StatusDoing, m.statusValue("进行中"))
	assert.Equal(t, model.TypeTask, m.typeValue("任务"))
	assert.Equal(t, model.PriorityHigh, m.priorityValue("高"))
	assert.Equal(t, "organize", m.nextActionValue("整理"))

	// Labels from another generation fall back to enum defaults.
	assert.Equal(t, model.StatusInbox, m.statusValue("Doing"))
	assert.Equal(t, model.TypeIdea, m.typeValue("Task"))
	assert.Equal(t, model.PriorityNormal, m.priorityValue("High"))
	assert.Equal(t, "", m.nextActionValue("Organize"))
}
