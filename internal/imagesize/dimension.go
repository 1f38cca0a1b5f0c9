package imagesize

import (
	"fmt"
	"strconv"
	"strings"

	"dsproc/internal/services"
)

// Dimension is a square pixel size used as a keep/discard boundary.
type Dimension int

const (
	Resolution256  Dimension = 256
	Resolution512  Dimension = 512
	Resolution576  Dimension = 576
	Resolution640  Dimension = 640
	Resolution704  Dimension = 704
	Resolution768  Dimension = 768
	Resolution832  Dimension = 832
	Resolution896  Dimension = 896
	Resolution960  Dimension = 960
	Resolution1024 Dimension = 1024
	Resolution1536 Dimension = 1536
	Resolution2048 Dimension = 2048
)

// DefaultDimension is used when nothing is configured.
const DefaultDimension = Resolution512

// Supported lists every accepted dimension, ascending.
var Supported = []Dimension{
	Resolution256, Resolution512, Resolution576, Resolution640,
	Resolution704, Resolution768, Resolution832, Resolution896,
	Resolution960, Resolution1024, Resolution1536, Resolution2048,
}

func (d Dimension) String() string {
	return fmt.Sprintf("%dx%d", int(d), int(d))
}

// Valid reports whether d is one of Supported.
func (d Dimension) Valid() bool {
	for _, candidate := range Supported {
		if d == candidate {
			return true
		}
	}
	return false
}

// ParseDimension accepts "512" or "512x512".
func ParseDimension(value string) (Dimension, error) {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	if w, h, ok := strings.Cut(trimmed, "x"); ok {
		if w != h {
			return 0, services.Wrap(services.ErrInvalidArgument, "dimension", "", fmt.Sprintf("%q is not square", value), nil)
		}
		trimmed = w
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, services.Wrap(services.ErrInvalidArgument, "dimension", "", fmt.Sprintf("parse %q", value), err)
	}
	d := Dimension(n)
	if !d.Valid() {
		return 0, services.Wrap(services.ErrInvalidArgument, "dimension", "", fmt.Sprintf("%d is not a supported size (%s)", n, supportedList()), nil)
	}
	return d, nil
}

func supportedList() string {
	parts := make([]string, len(Supported))
	for i, d := range Supported {
		parts[i] = strconv.Itoa(int(d))
	}
	return strings.Join(parts, ", ")
}
