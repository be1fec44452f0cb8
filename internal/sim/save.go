package sim

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/vovakirdan/one-and-all/internal/core"
)

// Magic is the identifier every save file starts with.
var Magic = [4]byte{'S', 'A', 'V', 'E'}

// Save format versions.
const (
	// VersionLegacy is the unversioned layout: magic followed directly by
	// the body.
	VersionLegacy byte = 0
	// VersionTagged is magic, a version byte, then the legacy body.
	VersionTagged byte = 1

	// LatestVersion is written by default.
	LatestVersion = VersionTagged
)

var (
	// ErrBadMagic is returned when a buffer does not start with Magic.
	ErrBadMagic = errors.New("bad magic header")
	// ErrUnsupportedVersion is returned for a version byte this build cannot read.
	ErrUnsupportedVersion = errors.New("unsupported save version")
)

// SaveData is the persistent world state.
type SaveData struct {
	Planets []Planet
	Stars   []Star
	Fishes  []Fish
	Player  core.Rectangle
	Joining RotatingParticleSystem
}

// AppendBinary appends the legacy encoding of s to b.
func (s SaveData) AppendBinary(b []byte) ([]byte, error) {
	b = append(b, Magic[:]...)
	return s.appendBody(b), nil
}

// MarshalBinary encodes s in the legacy layout.
func (s SaveData) MarshalBinary() ([]byte, error) {
	return s.AppendBinary(nil)
}

// UnmarshalBinary decodes a legacy-layout buffer into s. s is left untouched
// on failure.
func (s *SaveData) UnmarshalBinary(data []byte) error {
	v, _, err := DecodeSaveData(data, 0)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

func (s SaveData) appendBody(b []byte) []byte {
	b = core.AppendCount(b, len(s.Planets))
	for _, p := range s.Planets {
		b, _ = p.AppendBinary(b)
	}
	b = core.AppendCount(b, len(s.Stars))
	for _, st := range s.Stars {
		b, _ = st.AppendBinary(b)
	}
	b = core.AppendCount(b, len(s.Fishes))
	for _, f := range s.Fishes {
		b, _ = f.AppendBinary(b)
	}
	b, _ = s.Player.AppendBinary(b)
	b, _ = s.Joining.AppendBinary(b)
	return b
}

func decodeBody(d *core.Decoder) SaveData {
	var s SaveData
	s.Planets = core.DecodeList(d, DecodePlanet)
	s.Stars = core.DecodeList(d, DecodeStar)
	s.Fishes = core.DecodeList(d, DecodeFish)
	s.Player = core.Decode(d, core.DecodeRectangle)
	s.Joining = core.Decode(d, DecodeRotatingParticleSystem)
	return s
}

func checkMagic(d *core.Decoder) error {
	m := d.Bytes(len(Magic))
	if err := d.Err(); err != nil {
		return fmt.Errorf("save: magic: %w", err)
	}
	if !bytes.Equal(m, Magic[:]) {
		return fmt.Errorf("save: got % x: %w", m, ErrBadMagic)
	}
	return nil
}

// DecodeSaveData reads a legacy-layout SaveData at offset. The magic header
// is checked before anything else is parsed.
func DecodeSaveData(data []byte, offset int) (SaveData, int, error) {
	d := core.NewDecoder(data, offset)
	if err := checkMagic(d); err != nil {
		return SaveData{}, 0, err
	}
	s := decodeBody(d)
	if err := d.Err(); err != nil {
		return SaveData{}, 0, fmt.Errorf("save: %w", err)
	}
	return s, d.Consumed(), nil
}

// EncodeSave writes s in the given format version.
func EncodeSave(s SaveData, version byte) ([]byte, error) {
	switch version {
	case VersionLegacy:
		return s.MarshalBinary()
	case VersionTagged:
		b := append(Magic[:0:0], Magic[:]...)
		b = append(b, version)
		return s.appendBody(b), nil
	default:
		return nil, fmt.Errorf("save: version %d: %w", version, ErrUnsupportedVersion)
	}
}

// DecodeSave reads a save in any supported version and reports which one it
// was. A legacy file always has 0x00 after the magic because that is the
// high byte of its planet count, so any other byte is a version tag.
func DecodeSave(data []byte) (SaveData, byte, error) {
	d := core.NewDecoder(data, 0)
	if err := checkMagic(d); err != nil {
		return SaveData{}, 0, err
	}
	if d.Remaining() == 0 {
		return SaveData{}, 0, fmt.Errorf("save: version: %w", core.ErrInsufficientData)
	}

	version := data[d.Offset()]
	switch version {
	case VersionLegacy:
	case VersionTagged:
		d.Advance(1)
	default:
		return SaveData{}, version, fmt.Errorf("save: version %d: %w", version, ErrUnsupportedVersion)
	}

	s := decodeBody(d)
	if err := d.Err(); err != nil {
		return SaveData{}, version, fmt.Errorf("save: %w", err)
	}
	return s, version, nil
}

// Summary is a short description of a save's contents.
type Summary struct {
	Planets int
	Stars   int
	Fishes  int
	Moons   int
	Player  core.Vector
}

// Summarize counts the entities in s.
func (s SaveData) Summarize() Summary {
	sum := Summary{
		Planets: len(s.Planets),
		Stars:   len(s.Stars),
		Fishes:  len(s.Fishes),
		Player:  s.Player.Pos(),
	}
	for _, p := range s.Planets {
		sum.Moons += len(p.Moons)
	}
	return sum
}
