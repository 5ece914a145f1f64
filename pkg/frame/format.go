package frame

import (
	"fmt"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
)

// FormatSchema generates a visual string representation of a schema, expanding
// list and struct types into subtrees.
func FormatSchema(schema *arrow.Schema) string {
	var sb strings.Builder
	fields := schema.Fields()
	for i, f := range fields {
		formatRecursive(f.Name, f.Type, "", i == len(fields)-1, &sb)
	}
	return sb.String()
}

func formatRecursive(name string, dt arrow.DataType, prefix string, checkLast bool, sb *strings.Builder) {
	sb.WriteString(prefix)
	if checkLast {
		sb.WriteString("└─ ")
		prefix += "   "
	} else {
		sb.WriteString("├─ ")
		prefix += "│  "
	}
	sb.WriteString(fmt.Sprintf("%s: %s\n", name, typeLabel(dt)))

	switch t := dt.(type) {
	case *arrow.ListType:
		formatRecursive("item", t.Elem(), prefix, true, sb)
	case *arrow.StructType:
		for i, f := range t.Fields() {
			formatRecursive(f.Name, f.Type, prefix, i == t.NumFields()-1, sb)
		}
	}
}

func typeLabel(dt arrow.DataType) string {
	switch dt.ID() {
	case arrow.LIST:
		return "list"
	case arrow.STRUCT:
		return "struct"
	default:
		return dt.String()
	}
}
