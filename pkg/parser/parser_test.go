package parser

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/stretchr/testify/require"

	"github.com/bisegni/jframe/pkg/frame"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func readAll(t *testing.T, filename string) []frame.OrderedMap {
	t.Helper()
	parser, err := NewParser(filename)
	require.NoError(t, err)
	defer parser.Close()
	records, err := parser.ReadAll()
	require.NoError(t, err)
	return records
}

func get(rec frame.OrderedMap, key string) interface{} {
	v, _ := rec.Get(key)
	return v
}

func TestNewParser(t *testing.T) {
	parser, err := NewParser(writeFile(t, "test.json", `[{"name": "Alice", "age": 30}]`))
	require.NoError(t, err)
	defer parser.Close()
	require.False(t, parser.IsJSONL())

	_, err = NewParser(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

func TestReadJSON(t *testing.T) {
	records := readAll(t, writeFile(t, "test.json", `[{"name": "Alice", "age": 30}, {"name": "Bob", "age": 25}]`))
	require.Len(t, records, 2)
	require.Equal(t, "Alice", get(records[0], "name"))
	require.Equal(t, int64(30), get(records[0], "age"))
	require.Equal(t, []string{"name", "age"}, records[1].Keys())
}

func TestReadJSONL(t *testing.T) {
	path := writeFile(t, "test.jsonl", "{\"name\": \"Alice\", \"age\": 30.5}\n{\"name\": \"Bob\", \"age\": 25}")
	parser, err := NewParser(path)
	require.NoError(t, err)
	defer parser.Close()
	require.True(t, parser.IsJSONL())

	records, err := parser.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, 30.5, get(records[0], "age"))
	require.Equal(t, int64(25), get(records[1], "age"))
}

func TestReadJSONShapes(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		count   int
	}{
		{name: "single object", file: "one.json", content: `{"name": "Alice", "age": 30}`, count: 1},
		{name: "concatenated", file: "concat.json", content: `{"name": "Alice"}{"name": "Bob"}`, count: 2},
		{name: "empty lines", file: "empty_lines.jsonl", content: "{\"name\": \"Alice\"}\n\n{\"name\": \"Bob\"}\n", count: 2},
		{name: "empty file", file: "empty.json", content: "", count: 0},
		{name: "whitespace array", file: "ws.json", content: "  \n [ ] ", count: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Len(t, readAll(t, writeFile(t, tt.file, tt.content)), tt.count)
		})
	}
}

func TestReadJSONNested(t *testing.T) {
	records := readAll(t, writeFile(t, "nested.json", `[
		{"name": "Alice", "info": {"city": "New York", "hobbies": ["reading", "cycling"]}},
		{"name": "Bob", "info": {"city": "London", "hobbies": ["drawing"]}}
	]`))
	require.Len(t, records, 2)
	info, ok := get(records[0], "info").(frame.OrderedMap)
	require.True(t, ok)
	require.Equal(t, "New York", get(info, "city"))
	require.Equal(t, []interface{}{"reading", "cycling"}, get(info, "hobbies"))
}

func TestReadMalformed(t *testing.T) {
	tests := map[string]string{
		"malformed.json":  `[{"name": "Alice", "age": 30}, {"name": "Bob", "age": 25`,
		"malformed.jsonl": "{\"name\": \"Alice\"}\n{\"name\": \"Bob\", \"age\": 25\n{\"name\": \"Charlie\"}",
	}
	for file, content := range tests {
		t.Run(file, func(t *testing.T) {
			parser, err := NewParser(writeFile(t, file, content))
			require.NoError(t, err)
			defer parser.Close()
			_, err = parser.ReadAll()
			require.Error(t, err)
		})
	}
}

func TestInlineJSON(t *testing.T) {
	parser, err := NewParser(`[{"name": "Alice"}, {"name": "Bob"}, 3]`)
	require.NoError(t, err)
	defer parser.Close()
	require.False(t, parser.IsJSONL())

	records, err := parser.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	require.Equal(t, frame.OrderedMap{{Key: ValueKey, Val: int64(3)}}, records[2])
}

func TestReadStreaming(t *testing.T) {
	files := map[string]string{
		"stream.jsonl": "{\"id\": 1}\n{\"id\": 2}\n{\"id\": 3}",
		"stream.json":  `[{"id": 1}, {"id": 2}, {"id": 3}]`,
	}
	for file, content := range files {
		t.Run(file, func(t *testing.T) {
			parser, err := NewParser(writeFile(t, file, content))
			require.NoError(t, err)
			defer parser.Close()

			var count int64
			for {
				rec, err := parser.Read()
				if err == io.EOF {
					break
				}
				require.NoError(t, err)
				count++
				require.Equal(t, count, get(rec, "id"))
			}
			require.Equal(t, int64(3), count)
		})
	}
}

func TestLoadTable(t *testing.T) {
	table, err := LoadTable(writeFile(t, "table.jsonl",
		"{\"id\": 1, \"tags\": [\"a\"], \"meta\": {\"ok\": true}}\n"+
			"{\"id\": 2, \"name\": \"b\"}\n"))
	require.NoError(t, err)
	require.Equal(t, 2, table.Height())
	require.Equal(t, []string{"id", "tags", "meta", "name"}, table.Names())

	tags, err := table.ColumnByName("tags")
	require.NoError(t, err)
	require.True(t, arrow.TypeEqual(arrow.ListOf(arrow.BinaryTypes.String), tags.DataType()))
	require.Nil(t, tags.Value(1))
}

func TestWriteJSONL(t *testing.T) {
	var buf bytes.Buffer
	err := WriteJSONL(&buf, []frame.OrderedMap{
		{{Key: "b", Val: 1}, {Key: "a", Val: nil}},
	}, false)
	require.NoError(t, err)
	require.Equal(t, "{\"b\":1,\"a\":null}\n", buf.String())
}
