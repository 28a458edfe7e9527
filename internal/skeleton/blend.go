package skeleton

import (
	"fmt"
	"strings"
)

// BlendMode is the compositing operation used to draw a slot.
type BlendMode int

const (
	BlendNormal BlendMode = iota
	BlendAdditive
	BlendMultiply
	BlendScreen
)

// BlendModes lists every blend mode in declaration order.
var BlendModes = []BlendMode{BlendNormal, BlendAdditive, BlendMultiply, BlendScreen}

func (b BlendMode) String() string {
	switch b {
	case BlendNormal:
		return "Normal"
	case BlendAdditive:
		return "Additive"
	case BlendMultiply:
		return "Multiply"
	case BlendScreen:
		return "Screen"
	}
	return fmt.Sprintf("BlendMode(%d)", int(b))
}

// ParseBlendMode accepts the lower-case names used in skeleton files.
// An empty string is Normal.
func ParseBlendMode(s string) (BlendMode, error) {
	switch strings.ToLower(s) {
	case "", "normal":
		return BlendNormal, nil
	case "additive":
		return BlendAdditive, nil
	case "multiply":
		return BlendMultiply, nil
	case "screen":
		return BlendScreen, nil
	}
	return BlendNormal, fmt.Errorf("skeleton: unknown blend mode %q", s)
}
