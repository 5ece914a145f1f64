package engine

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bisegni/jframe/pkg/frame"
	"github.com/bisegni/jframe/pkg/perrors"
)

func sensorTable(t *testing.T) *frame.Table {
	t.Helper()
	table, err := frame.FromRecords([]frame.OrderedMap{
		{{Key: "name", Val: "sensor_01"}, {Key: "value", Val: 22.5}, {Key: "room", Val: "living"}},
		{{Key: "name", Val: "sensor_02"}, {Key: "value", Val: nil}, {Key: "room", Val: "living"}},
		{{Key: "name", Val: "sensor_03"}, {Key: "value", Val: 23.1}, {Key: "room", Val: "kitchen"}},
	})
	require.NoError(t, err)
	return table
}

func TestExecuteJSONL(t *testing.T) {
	tests := []struct {
		name     string
		expr     string
		expected string
		isTable  bool
	}{
		{
			name:     "Scalar",
			expr:     "value > 23",
			expected: "{\"apply\":false}\n{\"apply\":null}\n{\"apply\":true}\n",
		},
		{
			name:     "Leading null",
			expr:     "if(room = 'kitchen', upper(name), NULL)",
			expected: "{\"apply\":null}\n{\"apply\":null}\n{\"apply\":\"SENSOR_03\"}\n",
		},
		{
			name: "Struct",
			expr: "{room: room, hot: value > 23}",
			expected: "{\"apply\":{\"room\":\"living\",\"hot\":false}}\n" +
				"{\"apply\":{\"room\":\"living\",\"hot\":null}}\n" +
				"{\"apply\":{\"room\":\"kitchen\",\"hot\":true}}\n",
		},
		{
			name: "Rows",
			expr: "[name, len(room)]",
			expected: "{\"column_0\":\"sensor_01\",\"column_1\":6}\n" +
				"{\"column_0\":\"sensor_02\",\"column_1\":6}\n" +
				"{\"column_0\":\"sensor_03\",\"column_1\":7}\n",
			isTable: true,
		},
		{
			name: "Nested",
			expr: "series(value, value * 2)",
			expected: "{\"apply\":[22.5,45]}\n" +
				"{\"apply\":[null,null]}\n" +
				"{\"apply\":[23.1,46.2]}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			out, err := NewExecutor().Execute(tt.expr, sensorTable(t), &buf)
			require.NoError(t, err)
			require.Equal(t, tt.isTable, out.IsTable)
			require.Equal(t, 3, out.Len())
			require.Equal(t, tt.expected, buf.String())
		})
	}
}

func TestExecuteName(t *testing.T) {
	e := NewExecutor()
	e.Name = "hot"
	var buf bytes.Buffer
	_, err := e.Execute("value > 23", sensorTable(t), &buf)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(buf.String(), "{\"hot\":false}"))
}

func TestExecuteTableFormat(t *testing.T) {
	e := NewExecutor()
	e.Format = FormatTable
	var buf bytes.Buffer
	_, err := e.Execute("[name, value]", sensorTable(t), &buf)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 5)
	require.Contains(t, lines[0], "column_0")
	require.Contains(t, lines[0], "column_1")
	require.Contains(t, lines[2], "sensor_01")
	require.Contains(t, lines[3], "null")
}

func TestExecuteErrors(t *testing.T) {
	tests := []struct {
		name string
		expr string
		code perrors.ErrorCode
	}{
		{name: "unknown column", expr: "temperature * 2", code: perrors.UnknownColumn},
		{name: "syntax", expr: "value >", code: perrors.InvalidExpression},
		{name: "all null", expr: "NULL", code: perrors.IndeterminateOutput},
		{name: "struct shape", expr: "if(room = 'living', {a: 1}, {a: 1, b: 2})", code: perrors.StructShapeMismatch},
		{name: "runtime", expr: "name * 2", code: perrors.InvalidExpression},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			_, err := NewExecutor().Execute(tt.expr, sensorTable(t), &buf)
			require.True(t, perrors.HasCode(err, tt.code), "got %v", err)
			require.Empty(t, buf.String())
		})
	}

	e := NewExecutor()
	e.Format = "xml"
	_, err := e.Execute("value", sensorTable(t), &bytes.Buffer{})
	require.True(t, perrors.HasCode(err, perrors.InvalidConfiguration))
}

func TestFormatSchema(t *testing.T) {
	s := FormatSchema(sensorTable(t))
	require.True(t, strings.HasPrefix(s, "rows: 3\n├─ name: utf8\n"))
	require.Contains(t, s, "└─ room: utf8")
	require.Contains(t, s, "nulls")
}
