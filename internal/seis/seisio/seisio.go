// Package seisio reads and writes per-channel trace gathers in a fixed
// registry of on-disk formats. The formats are deliberately minimal; they
// give the pipeline, tools and tests a real disk surface without taking a
// position on storage-format design.
package seisio

import (
	"errors"
	"fmt"

	"github.com/halfspace-data/seisprep/internal/fsutil"
	"github.com/halfspace-data/seisprep/internal/seis/trace"
)

// Codec reads and writes one channel's trace matrix plus header. A format
// name must resolve to a codec that supports both directions; the
// configured FORMAT is checked against the registry at pipeline setup.
type Codec interface {
	Name() string
	Ext() string
	Read(fsys fsutil.FileSystem, dir, channel string) (*trace.Matrix, *trace.Header, error)
	Write(fsys fsutil.FileSystem, dir, channel string, m *trace.Matrix, h *trace.Header) error
}

// ErrUnknownFormat is returned when a configured format names no
// registered codec.
var ErrUnknownFormat = errors.New("unknown trace format")

var registry = map[string]Codec{
	"ascii": asciiCodec{},
	"bin":   binCodec{},
}

// Lookup resolves a format name to its codec.
func Lookup(name string) (Codec, error) {
	c, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %v)", ErrUnknownFormat, name, Names())
	}
	return c, nil
}

// Names returns the registered format names in a fixed order.
func Names() []string {
	return []string{"ascii", "bin"}
}

// TraceFile returns the per-channel file name used by every codec:
// U<channel>.<ext>, e.g. Ux.ascii.
func TraceFile(channel, ext string) string {
	return "U" + channel + "." + ext
}
