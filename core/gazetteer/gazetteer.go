package gazetteer

import (
	"bufio"
	"encoding/gob"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Coordinate is a geographic point in degrees.
type Coordinate struct {
	Lat  float64
	Long float64
}

// Location is one gazetteer entry: a named place with a coordinate
// and metadata.
type Location struct {
	Id         int32
	Name       string
	Coord      Coordinate
	Population int
	Type       string
	Container  string
}

// Gazetteer maps lowercased place names to candidate locations.
// Callers must lowercase names before lookup.
type Gazetteer interface {
	Contains(name string) bool
	Get(name string) []int32
	Location(id int32) (Location, bool)
}

// Memory is an in-process gazetteer backed by slices and maps.
type Memory struct {
	Locations []Location
	Names     map[string][]int32
}

func init() {
	gob.Register(&Memory{})
}

func NewMemory() *Memory {
	return &Memory{
		Locations: make([]Location, 0),
		Names:     make(map[string][]int32),
	}
}

// Add inserts a location and returns its id.
func (m *Memory) Add(loc Location) int32 {
	id := int32(len(m.Locations))
	loc.Id = id
	loc.Name = strings.ToLower(loc.Name)
	m.Locations = append(m.Locations, loc)
	m.Names[loc.Name] = append(m.Names[loc.Name], id)
	return id
}

func (m *Memory) Contains(name string) bool {
	_, ok := m.Names[name]
	return ok
}

func (m *Memory) Get(name string) []int32 {
	return m.Names[name]
}

func (m *Memory) Location(id int32) (Location, bool) {
	if id < 0 || int(id) >= len(m.Locations) {
		return Location{}, false
	}
	return m.Locations[id], true
}

// LoadMemory reads a tab-separated gazetteer dump with columns
// name, lat, long, population, type, container.  Population, type and
// container are optional.
func LoadMemory(reader io.Reader) (*Memory, error) {
	m := NewMemory()
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if len(text) == 0 || strings.HasPrefix(text, "#") {
			continue
		}
		fs := strings.Split(text, "\t")
		if len(fs) < 3 {
			return nil, fmt.Errorf("line %d: expecting at least 3 columns, got %d",
				line, len(fs))
		}

		lat, e := strconv.ParseFloat(fs[1], 64)
		if e != nil {
			return nil, fmt.Errorf("line %d: bad latitude %q: %v", line, fs[1], e)
		}
		long, e := strconv.ParseFloat(fs[2], 64)
		if e != nil {
			return nil, fmt.Errorf("line %d: bad longitude %q: %v", line, fs[2], e)
		}

		loc := Location{Name: fs[0], Coord: Coordinate{lat, long}}
		if len(fs) > 3 && len(fs[3]) > 0 {
			if loc.Population, e = strconv.Atoi(fs[3]); e != nil {
				return nil, fmt.Errorf("line %d: bad population %q: %v",
					line, fs[3], e)
			}
		}
		if len(fs) > 4 {
			loc.Type = fs[4]
		}
		if len(fs) > 5 {
			loc.Container = fs[5]
		}
		m.Add(loc)
	}
	if e := scanner.Err(); e != nil {
		return nil, e
	}
	return m, nil
}
