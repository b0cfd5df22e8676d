package arena

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestParseBlockCapacity(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"4096", 4096},
		{"64KB", 64 << 10},
		{"1MB", 1 << 20},
		{"2GB", 2 << 30},
	}
	for _, tt := range tests {
		got, err := ParseBlockCapacity(tt.in)
		require.NoError(t, err, tt.in)
		require.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseBlockCapacity("lots")
	require.Error(t, err)
}

func TestOptions(t *testing.T) {
	src := NewCheckedSource(nil)
	var out bytes.Buffer
	log := logrus.New()
	log.Out = &out
	log.Level = logrus.DebugLevel
	log.Formatter = &logrus.JSONFormatter{}

	a, err := New(
		WithBlockCapacity(256),
		WithSource(src),
		WithSource(nil),
		WithLogger(log),
		WithLogger(nil),
		WithName("lexer"),
	)
	require.NoError(t, err)
	require.Equal(t, "lexer", a.Name())
	require.Equal(t, 256, a.BlockCapacity())
	require.Equal(t, 1, src.Live())

	_, err = a.Allocate(1000, 1)
	require.NoError(t, err)
	require.NoError(t, a.Destroy())

	require.Contains(t, out.String(), `"msg":"reserved block"`)
	require.Contains(t, out.String(), `"arena":"lexer"`)
	require.Contains(t, out.String(), `"prefix":"arena"`)
	require.Contains(t, out.String(), `"msg":"destroyed"`)
}

func TestReservationFailureIsLogged(t *testing.T) {
	var out bytes.Buffer
	log := logrus.New()
	log.Out = &out
	log.Formatter = &logrus.JSONFormatter{}

	a, err := New(WithSource(&CheckedSource{Limit: 128}), WithBlockCapacity(128), WithLogger(log))
	require.NoError(t, err)
	defer a.Destroy()

	_, err = a.Allocate(256, 1)
	require.Error(t, err)
	require.Contains(t, out.String(), `"level":"warning"`)
	require.Contains(t, out.String(), `"size":256`)
}
