package collision

import (
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/golang/geo/r2"
)

// DefaultKey names the partition used when a label lists no cache keys.
const DefaultKey = "default"

// Cache is a set of named detectors over one extent.
//
// Detection against a key list only consults partitions that already exist:
// naming a key nobody has inserted into never blocks a placement. Insertion
// creates missing partitions on demand.
type Cache struct {
	extent     r2.Rect
	partitions map[string]*Detector
	def        *Detector
	logger     *log.Logger
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *log.Logger) CacheOption {
	return func(c *Cache) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewCache creates a cache holding only the default partition.
func NewCache(extent r2.Rect, opts ...CacheOption) *Cache {
	def := NewDetector(extent)
	c := &Cache{
		extent:     extent,
		partitions: map[string]*Detector{DefaultKey: def},
		def:        def,
		logger:     log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Extent returns the area covered by every partition.
func (c *Cache) Extent() r2.Rect { return c.extent }

// Default returns the default partition.
func (c *Cache) Default() *Detector { return c.def }

// Detector returns the partition named key. Unknown keys fall back to the
// default partition.
func (c *Cache) Detector(key string) *Detector {
	if d, ok := c.partitions[key]; ok {
		return d
	}
	c.logger.Warn("unknown collision cache key, using default", "key", key)
	return c.def
}

// Keys returns the partition names in sorted order.
func (c *Cache) Keys() []string {
	keys := make([]string, 0, len(c.partitions))
	for k := range c.partitions {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Len returns the number of boxes stored across all partitions.
func (c *Cache) Len() int {
	n := 0
	for _, d := range c.partitions {
		n += d.Len()
	}
	return n
}

// Detect evaluates check against the partitions named by keys. With no keys
// only the default partition is checked.
func (c *Cache) Detect(keys []string, check func(*Detector) bool) bool {
	if len(keys) == 0 {
		return check(c.def)
	}
	for _, k := range keys {
		if d, ok := c.partitions[k]; ok && !check(d) {
			return false
		}
	}
	return true
}

// HasPlacement is [Detector.HasPlacement] across keys.
func (c *Cache) HasPlacement(box r2.Rect, keys []string) bool {
	return c.Detect(keys, func(d *Detector) bool {
		return d.HasPlacement(box)
	})
}

// HasPlacementMargin is [Detector.HasPlacementMargin] across keys.
func (c *Cache) HasPlacementMargin(box r2.Rect, margin float64, keys []string) bool {
	return c.Detect(keys, func(d *Detector) bool {
		return d.HasPlacementMargin(box, margin)
	})
}

// HasPlacementRepeat is [Detector.HasPlacementRepeat] across keys.
func (c *Cache) HasPlacementRepeat(box r2.Rect, margin float64, text string, repeatDistance float64, keys []string) bool {
	return c.Detect(keys, func(d *Detector) bool {
		return d.HasPlacementRepeat(box, margin, text, repeatDistance)
	})
}

// Insert stores box under text in every partition named by keys, creating
// partitions as needed. With no keys the default partition is used.
func (c *Cache) Insert(box r2.Rect, text string, keys []string) {
	if len(keys) == 0 {
		c.def.InsertText(box, text)
		return
	}
	for _, k := range keys {
		d, ok := c.partitions[k]
		if !ok {
			d = NewDetector(c.extent)
			c.partitions[k] = d
		}
		d.InsertText(box, text)
	}
}

// Clear empties the default partition. Named partitions keep their boxes.
func (c *Cache) Clear() {
	c.def.Clear()
}

// ClearAll empties every partition.
func (c *Cache) ClearAll() {
	for _, d := range c.partitions {
		d.Clear()
	}
}

// ParseKeys splits a comma separated list of cache keys. Whitespace is
// ignored and empty items are dropped.
func ParseKeys(s string) []string {
	var keys []string
	for _, part := range strings.Split(s, ",") {
		k := strings.Join(strings.Fields(part), "")
		if k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}
