package shader

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownMode is returned when parsing a name that is not a shading mode.
var ErrUnknownMode = errors.New("unknown shading mode")

// Mode selects the procedural colouring program applied to fragments.
type Mode int

const (
	// ModeSun is an emissive, turbulent yellow-orange surface. It is the initial mode.
	ModeSun Mode = iota

	// ModeEarth is blue oceans with green continents and a white polar cap.
	ModeEarth

	// ModeNeptune is banded deep blue atmosphere with a dark storm spot.
	ModeNeptune

	// ModeVenus is thick swirling yellow-brown cloud cover.
	ModeVenus

	// ModeRandom is a patchwork of noise-derived colours.
	ModeRandom

	// ModePluton is a grey cratered surface with a pale plain, used for moons.
	ModePluton

	modeCount
)

var modeNames = [modeCount]string{
	ModeSun:     "sun",
	ModeEarth:   "earth",
	ModeNeptune: "neptune",
	ModeVenus:   "venus",
	ModeRandom:  "random",
	ModePluton:  "pluton",
}

// Modes returns every mode in cycle order.
func Modes() []Mode {
	out := make([]Mode, 0, modeCount)
	for m := range modeCount {
		out = append(out, m)
	}
	return out
}

// ParseMode returns the mode with the given case-insensitive name.
//
// Parameters:
//   - name: the mode name, e.g. "earth"
//
// Returns:
//   - Mode: the parsed mode
//   - error: ErrUnknownMode (wrapped) if name matches no mode
func ParseMode(name string) (Mode, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for m, n := range modeNames {
		if n == name {
			return Mode(m), nil
		}
	}
	return ModeSun, fmt.Errorf("%w: %q", ErrUnknownMode, name)
}

// Valid reports whether m is one of the defined modes.
func (m Mode) Valid() bool {
	return m >= 0 && m < modeCount
}

// Next returns the mode after m, wrapping from the last mode to the first.
// It panics if m is not a valid mode.
func (m Mode) Next() Mode {
	m.mustBeValid()
	return (m + 1) % modeCount
}

// Prev returns the mode before m, wrapping from the first mode to the last.
// It panics if m is not a valid mode.
func (m Mode) Prev() Mode {
	m.mustBeValid()
	return (m + modeCount - 1) % modeCount
}

func (m Mode) String() string {
	if !m.Valid() {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

// MarshalText implements encoding.TextMarshaler so modes read naturally in config files.
func (m Mode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMode, int(m))
	}
	return []byte(modeNames[m]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

func (m Mode) mustBeValid() {
	if !m.Valid() {
		panic(fmt.Sprintf("shader: invalid mode %d", int(m)))
	}
}
