package arena

import (
	"math"

	"github.com/c2h5oh/datasize"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// DefaultBlockCapacity is the capacity of the first block and the minimum
// capacity of every block created later (1 MiB).
const DefaultBlockCapacity = 1 << 20

type options struct {
	blockCapacity int
	source        Source
	log           logrus.FieldLogger
	name          string
}

// Option configures an Arena at construction.
type Option func(*options)

// WithBlockCapacity sets the default block capacity. n <= 0 selects
// DefaultBlockCapacity.
func WithBlockCapacity(n int) Option {
	return func(o *options) {
		if n <= 0 {
			n = DefaultBlockCapacity
		}
		o.blockCapacity = n
	}
}

// WithSource sets where block buffers come from. The default is HeapSource.
func WithSource(src Source) Option {
	return func(o *options) {
		if src != nil {
			o.source = src
		}
	}
}

// WithLogger sets the logger for slow-path events.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithName labels the arena in logs and metrics.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// ParseBlockCapacity parses a human readable size such as "64KB" or "1MB"
// (binary units). It rejects sizes that do not fit in an int.
func ParseBlockCapacity(s string) (int, error) {
	var v datasize.ByteSize
	if err := v.UnmarshalText([]byte(s)); err != nil {
		return 0, errors.Wrapf(err, "invalid block capacity %q", s)
	}
	if v.Bytes() > uint64(math.MaxInt) {
		return 0, errors.Errorf("block capacity %s does not fit in memory", v.HR())
	}
	return int(v.Bytes()), nil
}
