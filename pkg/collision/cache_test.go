package collision

import (
	"slices"
	"testing"

	"github.com/matzehuels/maplabel/pkg/spatial"
)

func TestCacheDefaultPartition(t *testing.T) {
	c := NewCache(extent)
	box := spatial.Box(10, 10, 20, 20)

	c.Insert(box, "", nil)

	if c.HasPlacement(box, nil) {
		t.Error("box inserted without keys should block default detection")
	}
	if c.Default().Len() != 1 {
		t.Errorf("default Len() = %d, want 1", c.Default().Len())
	}
	if c.Detector(DefaultKey) != c.Default() {
		t.Error("Detector(default) should return the default partition")
	}
}

func TestCachePartitionsAreIndependent(t *testing.T) {
	c := NewCache(extent)
	box := spatial.Box(10, 10, 20, 20)

	c.Insert(box, "", []string{"pois"})

	if !c.HasPlacement(box, nil) {
		t.Error("default partition should not see boxes inserted under pois")
	}
	if c.HasPlacement(box, []string{"pois"}) {
		t.Error("pois partition should block")
	}
	if !c.HasPlacement(box, []string{"roads"}) {
		t.Error("missing partition should never block")
	}
	if c.HasPlacement(box, []string{"roads", "pois"}) {
		t.Error("any blocking partition in the list should reject")
	}
}

func TestCacheInsertMultipleKeys(t *testing.T) {
	c := NewCache(extent)
	box := spatial.Box(10, 10, 20, 20)

	c.Insert(box, "x", []string{"a", "b"})

	if got := c.Keys(); !slices.Equal(got, []string{"a", "b", DefaultKey}) {
		t.Errorf("Keys() = %v", got)
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
	if c.HasPlacementMargin(spatial.Box(22, 10, 30, 20), 3, []string{"b"}) {
		t.Error("margin check should reach named partitions")
	}
	if c.HasPlacementRepeat(spatial.Box(40, 10, 50, 20), 1, "x", 30, []string{"a"}) {
		t.Error("repeat check should reach named partitions")
	}
}

func TestCacheClear(t *testing.T) {
	c := NewCache(extent)
	box := spatial.Box(10, 10, 20, 20)
	c.Insert(box, "", nil)
	c.Insert(box, "", []string{"named"})

	c.Clear()
	if c.Default().Len() != 0 {
		t.Error("Clear should empty the default partition")
	}
	if c.Detector("named").Len() != 1 {
		t.Error("Clear should keep named partitions")
	}

	c.ClearAll()
	if c.Len() != 0 {
		t.Errorf("ClearAll left %d boxes", c.Len())
	}
}

func TestCacheUnknownDetectorFallsBack(t *testing.T) {
	c := NewCache(extent)
	if c.Detector("missing") != c.Default() {
		t.Error("unknown key should fall back to the default partition")
	}
}

func TestParseKeys(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"   ", nil},
		{"pois", []string{"pois"}},
		{"pois, roads", []string{"pois", "roads"}},
		{" a ,, b c ,", []string{"a", "bc"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseKeys(tt.in); !slices.Equal(got, tt.want) {
				t.Errorf("ParseKeys(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
