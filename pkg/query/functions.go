package query

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/bisegni/jframe/pkg/frame"
	"github.com/bisegni/jframe/pkg/perrors"
)

type function struct {
	minArgs int
	maxArgs int // -1 means variadic
	eval    func(args []interface{}) (interface{}, error)
	// lazy functions evaluate their own arguments
	lazy func(args []Expression, row frame.Row) (interface{}, error)
}

var functions map[string]*function

func init() {
	functions = map[string]*function{
		"if":       {minArgs: 3, maxArgs: 3, lazy: ifFunc},
		"coalesce": {minArgs: 1, maxArgs: -1, lazy: coalesceFunc},
		"series":   {minArgs: 0, maxArgs: -1, eval: seriesFunc},
		"len":      {minArgs: 1, maxArgs: 1, eval: lenFunc},
		"upper":    {minArgs: 1, maxArgs: 1, eval: stringFunc(strings.ToUpper)},
		"lower":    {minArgs: 1, maxArgs: 1, eval: stringFunc(strings.ToLower)},
		"str":      {minArgs: 1, maxArgs: 1, eval: strFunc},
		"int":      {minArgs: 1, maxArgs: 1, eval: intFunc},
		"float":    {minArgs: 1, maxArgs: 1, eval: floatFunc},
		"abs":      {minArgs: 1, maxArgs: 1, eval: absFunc},
		"concat":   {minArgs: 1, maxArgs: -1, eval: concatFunc},
		"get":      {minArgs: 2, maxArgs: 2, eval: getFunc},
	}
}

func lookupFunction(name string, arity int) (*function, error) {
	fn, ok := functions[strings.ToLower(name)]
	if !ok {
		return nil, perrors.NewInvalidExpressionError(fmt.Sprintf("unknown function %s", name))
	}
	if arity < fn.minArgs || (fn.maxArgs >= 0 && arity > fn.maxArgs) {
		return nil, perrors.NewInvalidExpressionError(fmt.Sprintf("wrong number of arguments to %s: %d", name, arity))
	}
	return fn, nil
}

func ifFunc(args []Expression, row frame.Row) (interface{}, error) {
	cond, err := evalBool(args[0], row)
	if err != nil {
		return nil, err
	}
	if cond != nil && *cond {
		return args[1].Evaluate(row)
	}
	return args[2].Evaluate(row)
}

func coalesceFunc(args []Expression, row frame.Row) (interface{}, error) {
	for _, a := range args {
		v, err := a.Evaluate(row)
		if err != nil || v != nil {
			return v, err
		}
	}
	return nil, nil
}

// seriesFunc returns a nested column. A single list argument is returned as it is.
func seriesFunc(args []interface{}) (interface{}, error) {
	if len(args) == 1 {
		switch v := args[0].(type) {
		case *frame.Column:
			return v, nil
		case []interface{}:
			return frame.NewColumnFromValues("", v), nil
		}
	}
	return frame.NewColumnFromValues("", args), nil
}

func lenFunc(args []interface{}) (interface{}, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return int64(utf8.RuneCountInString(v)), nil
	case *frame.Column:
		return int64(v.Len()), nil
	case []interface{}:
		return int64(len(v)), nil
	case frame.OrderedMap:
		return int64(len(v)), nil
	}
	return nil, perrors.NewInvalidExpressionError(fmt.Sprintf("len of %s", typeName(args[0])))
}

func stringFunc(f func(string) string) func([]interface{}) (interface{}, error) {
	return func(args []interface{}) (interface{}, error) {
		if args[0] == nil {
			return nil, nil
		}
		s, ok := args[0].(string)
		if !ok {
			return nil, perrors.NewInvalidExpressionError(fmt.Sprintf("expected a string, got %s", typeName(args[0])))
		}
		return f(s), nil
	}
}

func strFunc(args []interface{}) (interface{}, error) {
	if args[0] == nil {
		return nil, nil
	}
	return toString(args[0])
}

func toString(v interface{}) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64), nil
	case bool:
		return strconv.FormatBool(x), nil
	case *frame.Column:
		b, err := x.MarshalJSON()
		return string(b), err
	case frame.OrderedMap:
		return x.String(), nil
	}
	return fmt.Sprint(v), nil
}

func intFunc(args []interface{}) (interface{}, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case int64:
		return v, nil
	case float64:
		// float64(math.MaxInt64) rounds up to 2^63, which is already out of range
		if math.IsNaN(v) || v < math.MinInt64 || v >= math.MaxInt64 {
			return nil, nil
		}
		return int64(v), nil
	case bool:
		if v {
			return int64(1), nil
		}
		return int64(0), nil
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return nil, nil
		}
		return i, nil
	}
	return nil, perrors.NewInvalidExpressionError(fmt.Sprintf("cannot convert %s to integer", typeName(args[0])))
}

func floatFunc(args []interface{}) (interface{}, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case int64:
		return float64(v), nil
	case float64:
		return v, nil
	case bool:
		if v {
			return 1.0, nil
		}
		return 0.0, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, nil
		}
		return f, nil
	}
	return nil, perrors.NewInvalidExpressionError(fmt.Sprintf("cannot convert %s to float", typeName(args[0])))
}

func absFunc(args []interface{}) (interface{}, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case int64:
		if v < 0 {
			return -v, nil
		}
		return v, nil
	case float64:
		return math.Abs(v), nil
	}
	return nil, perrors.NewInvalidExpressionError(fmt.Sprintf("abs of %s", typeName(args[0])))
}

// concatFunc joins the text of its arguments, skipping nulls
func concatFunc(args []interface{}) (interface{}, error) {
	var sb strings.Builder
	for _, a := range args {
		if a == nil {
			continue
		}
		s, err := toString(a)
		if err != nil {
			return nil, err
		}
		sb.WriteString(s)
	}
	return sb.String(), nil
}

// getFunc extracts a nested value by path, e.g. get(meta, 'tags.0')
func getFunc(args []interface{}) (interface{}, error) {
	path, ok := args[1].(string)
	if !ok {
		return nil, perrors.NewInvalidExpressionError(fmt.Sprintf("path must be a string, got %s", typeName(args[1])))
	}
	return Extract(args[0], path), nil
}
