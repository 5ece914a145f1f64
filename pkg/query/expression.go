package query

import (
	"fmt"
	"math"
	"strings"

	"github.com/bisegni/jframe/pkg/frame"
	"github.com/bisegni/jframe/pkg/perrors"
)

// Expression is a compiled node that can be evaluated against a row.
// A nil result is a null value.
type Expression interface {
	Evaluate(row frame.Row) (interface{}, error)
}

// Literal is a constant value
type Literal struct {
	Value interface{}
}

func (l *Literal) Evaluate(frame.Row) (interface{}, error) {
	return l.Value, nil
}

// ColumnRef reads one cell of the row by position
type ColumnRef struct {
	Name  string
	Index int
}

func (c *ColumnRef) Evaluate(row frame.Row) (interface{}, error) {
	if c.Index >= len(row) {
		return nil, perrors.NewUnknownColumnError(c.Name)
	}
	return row[c.Index], nil
}

// AndExpression represents Logical AND. A false operand wins over a null one.
type AndExpression struct {
	Left  Expression
	Right Expression
}

func (a *AndExpression) Evaluate(row frame.Row) (interface{}, error) {
	l, err := evalBool(a.Left, row)
	if err != nil {
		return nil, err
	}
	if l != nil && !*l {
		return false, nil
	}
	r, err := evalBool(a.Right, row)
	if err != nil {
		return nil, err
	}
	switch {
	case r != nil && !*r:
		return false, nil
	case l == nil || r == nil:
		return nil, nil
	}
	return true, nil
}

// OrExpression represents Logical OR. A true operand wins over a null one.
type OrExpression struct {
	Left  Expression
	Right Expression
}

func (o *OrExpression) Evaluate(row frame.Row) (interface{}, error) {
	l, err := evalBool(o.Left, row)
	if err != nil {
		return nil, err
	}
	if l != nil && *l {
		return true, nil
	}
	r, err := evalBool(o.Right, row)
	if err != nil {
		return nil, err
	}
	switch {
	case r != nil && *r:
		return true, nil
	case l == nil || r == nil:
		return nil, nil
	}
	return false, nil
}

// NotExpression represents Logical NOT
type NotExpression struct {
	Operand Expression
}

func (n *NotExpression) Evaluate(row frame.Row) (interface{}, error) {
	b, err := evalBool(n.Operand, row)
	if err != nil || b == nil {
		return nil, err
	}
	return !*b, nil
}

func evalBool(e Expression, row frame.Row) (*bool, error) {
	v, err := e.Evaluate(row)
	if err != nil || v == nil {
		return nil, err
	}
	b, ok := v.(bool)
	if !ok {
		return nil, perrors.NewInvalidExpressionError(fmt.Sprintf("expected a boolean, got %s", typeName(v)))
	}
	return &b, nil
}

// NegateExpression is unary minus
type NegateExpression struct {
	Operand Expression
}

func (n *NegateExpression) Evaluate(row frame.Row) (interface{}, error) {
	v, err := n.Operand.Evaluate(row)
	if err != nil || v == nil {
		return nil, err
	}
	switch x := v.(type) {
	case int64:
		return -x, nil
	case float64:
		return -x, nil
	}
	return nil, perrors.NewInvalidExpressionError(fmt.Sprintf("cannot negate %s", typeName(v)))
}

// BinaryExpression is an arithmetic or comparison operator. Nulls propagate.
type BinaryExpression struct {
	Op    string
	Left  Expression
	Right Expression
}

func (b *BinaryExpression) Evaluate(row frame.Row) (interface{}, error) {
	l, err := b.Left.Evaluate(row)
	if err != nil {
		return nil, err
	}
	r, err := b.Right.Evaluate(row)
	if err != nil {
		return nil, err
	}
	if l == nil || r == nil {
		return nil, nil
	}
	switch b.Op {
	case "+", "-", "*", "/", "%":
		return arithmetic(b.Op, l, r)
	default:
		return compare(b.Op, l, r)
	}
}

func arithmetic(op string, l, r interface{}) (interface{}, error) {
	if ls, ok := l.(string); ok && op == "+" {
		if rs, ok := r.(string); ok {
			return ls + rs, nil
		}
	}
	li, lInt := l.(int64)
	ri, rInt := r.(int64)
	if lInt && rInt {
		switch op {
		case "+":
			return li + ri, nil
		case "-":
			return li - ri, nil
		case "*":
			return li * ri, nil
		case "/":
			if ri == 0 {
				return nil, nil
			}
			return li / ri, nil
		case "%":
			if ri == 0 {
				return nil, nil
			}
			return li % ri, nil
		}
	}
	lf, lok := frame.AsFloat64(l)
	rf, rok := frame.AsFloat64(r)
	if !lok || !rok {
		return nil, perrors.NewInvalidExpressionError(fmt.Sprintf("cannot apply %s to %s and %s", op, typeName(l), typeName(r)))
	}
	switch op {
	case "+":
		return lf + rf, nil
	case "-":
		return lf - rf, nil
	case "*":
		return lf * rf, nil
	case "/":
		return lf / rf, nil
	default:
		return math.Mod(lf, rf), nil
	}
}

func compare(op string, l, r interface{}) (interface{}, error) {
	var cmp int
	switch lv := l.(type) {
	case string:
		rv, ok := r.(string)
		if !ok {
			return mismatch(op, l, r)
		}
		cmp = strings.Compare(lv, rv)
	case bool:
		rv, ok := r.(bool)
		if !ok {
			return mismatch(op, l, r)
		}
		cmp = compareBools(lv, rv)
	default:
		lf, lok := frame.AsFloat64(l)
		rf, rok := frame.AsFloat64(r)
		if !lok || !rok {
			return mismatch(op, l, r)
		}
		li, lInt := l.(int64)
		ri, rInt := r.(int64)
		switch {
		case lInt && rInt:
			cmp = compareOrdered(li, ri)
		default:
			cmp = compareOrdered(lf, rf)
		}
	}
	switch op {
	case "=", "==":
		return cmp == 0, nil
	case "!=":
		return cmp != 0, nil
	case "<":
		return cmp < 0, nil
	case "<=":
		return cmp <= 0, nil
	case ">":
		return cmp > 0, nil
	default:
		return cmp >= 0, nil
	}
}

// mismatch compares values of different kinds: they are never equal and have no order.
func mismatch(op string, l, r interface{}) (interface{}, error) {
	switch op {
	case "=", "==":
		return false, nil
	case "!=":
		return true, nil
	}
	return nil, perrors.NewInvalidExpressionError(fmt.Sprintf("cannot compare %s and %s", typeName(l), typeName(r)))
}

func compareOrdered[T int64 | float64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareBools(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	}
	return 1
}

// ListExpression builds a row record from its items
type ListExpression struct {
	Items []Expression
}

func (l *ListExpression) Evaluate(row frame.Row) (interface{}, error) {
	out := make([]interface{}, len(l.Items))
	for i, item := range l.Items {
		v, err := item.Evaluate(row)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// MapExpression builds a struct value; keys keep their written order
type MapExpression struct {
	Keys   []string
	Values []Expression
}

func (m *MapExpression) Evaluate(row frame.Row) (interface{}, error) {
	out := make(frame.OrderedMap, len(m.Keys))
	for i, key := range m.Keys {
		v, err := m.Values[i].Evaluate(row)
		if err != nil {
			return nil, err
		}
		out[i] = frame.KeyVal{Key: key, Val: v}
	}
	return out, nil
}

// CallExpression invokes a builtin function
type CallExpression struct {
	Name string
	Fn   *function
	Args []Expression
}

func (c *CallExpression) Evaluate(row frame.Row) (interface{}, error) {
	if c.Fn.lazy != nil {
		return c.Fn.lazy(c.Args, row)
	}
	args := make([]interface{}, len(c.Args))
	for i, a := range c.Args {
		v, err := a.Evaluate(row)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return c.Fn.eval(args)
}

func typeName(v interface{}) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case int64:
		return "integer"
	case float64:
		return "float"
	case string:
		return "string"
	case *frame.Column:
		return "list"
	case frame.OrderedMap:
		return "struct"
	case []interface{}:
		return "record"
	}
	return fmt.Sprintf("%T", v)
}
