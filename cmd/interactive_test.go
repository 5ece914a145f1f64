package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bisegni/jframe/pkg/frame"
	"github.com/bisegni/jframe/pkg/perrors"
)

func newTestSession(t *testing.T) *session {
	input, err := frame.FromRecords([]frame.OrderedMap{
		{{Key: "a", Val: int64(1)}},
		{{Key: "a", Val: int64(2)}},
	})
	require.NoError(t, err)
	s := &session{catalog: frame.NewCatalog(), current: "input"}
	s.catalog.RegisterTable(s.current, input)
	return s
}

func TestSessionExpression(t *testing.T) {
	s := newTestSession(t)
	var buf bytes.Buffer
	require.NoError(t, s.execute("a + 1", &buf))
	require.Equal(t, "{\"apply\":2}\n{\"apply\":3}\n", buf.String())
}

func TestSessionRegistersTableResult(t *testing.T) {
	s := newTestSession(t)
	var buf bytes.Buffer
	require.NoError(t, s.execute("[a, a * 2]", &buf))
	require.Contains(t, buf.String(), "{\"column_0\":1,\"column_1\":2}\n")
	require.Contains(t, buf.String(), "result registered as _")
	require.Equal(t, []string{"_", "input"}, s.catalog.TableNames())

	buf.Reset()
	require.NoError(t, s.execute(`\use _`, &buf))
	require.Equal(t, "_", s.current)
	require.NoError(t, s.execute("column_1", &buf))
	require.Equal(t, "{\"apply\":2}\n{\"apply\":4}\n", buf.String())
}

func TestSessionCommands(t *testing.T) {
	s := newTestSession(t)
	var buf bytes.Buffer
	require.NoError(t, s.execute(`\tables`, &buf))
	require.Equal(t, "* input\n", buf.String())

	buf.Reset()
	require.NoError(t, s.execute(`\schema`, &buf))
	require.Contains(t, buf.String(), "Table: input\nrows: 2\n")

	err := s.execute(`\use missing`, &buf)
	require.Error(t, err)
	require.True(t, perrors.HasCode(err, perrors.InvalidTable))
	require.Equal(t, "input", s.current)

	require.Error(t, s.execute(`\use`, &buf))
	require.Error(t, s.execute(`\drop input`, &buf))
}

func TestSessionUnknownColumn(t *testing.T) {
	s := newTestSession(t)
	err := s.execute("b + 1", &bytes.Buffer{})
	require.True(t, perrors.HasCode(err, perrors.UnknownColumn))
}
