// Package calibration maps product sizes and rendered container heights to
// pixel and millimeter conversions.
package calibration

import (
	"fmt"
	"regexp"
	"strings"
)

// ReferenceImageHeightPx is the pixel height at which every Record was measured.
const ReferenceImageHeightPx = 720.0

// SizeKey identifies a supported product size.
type SizeKey string

const (
	Size10oz SizeKey = "10oz"
	Size16oz SizeKey = "16oz"
	Size26oz SizeKey = "26oz"
)

// Record holds the reference constants for one product size. All pixel
// fields are expressed against a ReferenceImageHeightPx tall rendering.
type Record struct {
	// TopLineReferencePx is where the top calibration line sits.
	TopLineReferencePx float64 `json:"top_line_reference_px"`
	// BaselineReferencePx is where the baseline sits by default.
	BaselineReferencePx float64 `json:"baseline_reference_px"`
	// PhysicalHeightMm is the real-world height of the calibrated span.
	PhysicalHeightMm float64 `json:"physical_height_mm"`
	// ReferenceHeightPx is the pixel height of the calibrated span.
	ReferenceHeightPx float64 `json:"reference_height_px"`
}

// sizeOrder is the display order of the table.
var sizeOrder = []SizeKey{Size10oz, Size16oz, Size26oz}

// table is never mutated after init. Adding a size is a data change here.
var table = map[SizeKey]Record{
	Size10oz: {
		TopLineReferencePx:  195,
		BaselineReferencePx: 458,
		PhysicalHeightMm:    110,
		ReferenceHeightPx:   526,
	},
	Size16oz: {
		TopLineReferencePx:  150,
		BaselineReferencePx: 445,
		PhysicalHeightMm:    150,
		ReferenceHeightPx:   590,
	},
	Size26oz: {
		TopLineReferencePx:  110,
		BaselineReferencePx: 430,
		PhysicalHeightMm:    200,
		ReferenceHeightPx:   640,
	},
}

func init() {
	for _, key := range sizeOrder {
		rec, ok := table[key]
		if !ok {
			panic(fmt.Sprintf("calibration: size %s has no record", key))
		}
		if rec.ReferenceHeightPx <= 0 || rec.PhysicalHeightMm <= 0 {
			panic(fmt.Sprintf("calibration: size %s has a non-positive span", key))
		}
	}
}

// AllSizes returns every supported size in display order.
func AllSizes() []SizeKey {
	out := make([]SizeKey, len(sizeOrder))
	copy(out, sizeOrder)
	return out
}

// Lookup returns the record for key.
func Lookup(key SizeKey) (Record, bool) {
	rec, ok := table[key]
	return rec, ok
}

// MustLookup is Lookup for keys known at compile time.
func MustLookup(key SizeKey) Record {
	rec, ok := table[key]
	if !ok {
		panic(fmt.Sprintf("calibration: unknown size %q", key))
	}
	return rec
}

// Valid reports whether k names a size in the table.
func (k SizeKey) Valid() bool {
	_, ok := table[k]
	return ok
}

func (k SizeKey) String() string {
	return string(k)
}

var sizePattern = regexp.MustCompile(`(?i)(\d+)\s*oz\b`)

// ParseSizeKey accepts forms like "10oz", "10 OZ" or "Bottle 26oz / Blue".
func ParseSizeKey(s string) (SizeKey, error) {
	m := sizePattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return "", fmt.Errorf("unrecognized size %q", s)
	}
	key := SizeKey(m[1] + "oz")
	if !key.Valid() {
		return "", fmt.Errorf("unsupported size %q", key)
	}
	return key, nil
}
