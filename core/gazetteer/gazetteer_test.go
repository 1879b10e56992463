package gazetteer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testingGazetteerTSV = `paris	48.85	2.35	2140000	city	france
paris	33.66	-95.55	24000	city	texas
sydney	-33.87	151.2	5300000	city	australia
# a comment line
nowhere	0.0	0.0	0	locality	atlantis
`

func CreateTestingGazetteer(t *testing.T) *Memory {
	m, e := LoadMemory(strings.NewReader(testingGazetteerTSV))
	require.NoError(t, e)
	return m
}

func TestLoadMemory(t *testing.T) {
	m := CreateTestingGazetteer(t)
	assert.Len(t, m.Locations, 4)

	assert.True(t, m.Contains("paris"))
	assert.True(t, m.Contains("sydney"))
	assert.False(t, m.Contains("gotham"))

	ids := m.Get("paris")
	require.Len(t, ids, 2)

	france, ok := m.Location(ids[0])
	require.True(t, ok)
	assert.Equal(t, "paris", france.Name)
	assert.InDelta(t, 48.85, france.Coord.Lat, 1e-9)
	assert.Equal(t, 2140000, france.Population)
	assert.Equal(t, "france", france.Container)

	texas, ok := m.Location(ids[1])
	require.True(t, ok)
	assert.InDelta(t, -95.55, texas.Coord.Long, 1e-9)
}

func TestLocationOutOfRange(t *testing.T) {
	m := CreateTestingGazetteer(t)
	_, ok := m.Location(-1)
	assert.False(t, ok)
	_, ok = m.Location(99)
	assert.False(t, ok)
}

func TestAddLowercasesNames(t *testing.T) {
	m := NewMemory()
	id := m.Add(Location{Name: "Paris", Coord: Coordinate{48.85, 2.35}})
	assert.True(t, m.Contains("paris"))
	assert.False(t, m.Contains("Paris"))
	loc, ok := m.Location(id)
	require.True(t, ok)
	assert.Equal(t, "paris", loc.Name)
}

func TestLoadMemoryRejectsBadRows(t *testing.T) {
	_, e := LoadMemory(strings.NewReader("paris\t48.85"))
	assert.Error(t, e)
	_, e = LoadMemory(strings.NewReader("paris\tnorth\t2.35"))
	assert.Error(t, e)
}
