package query

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bisegni/jframe/pkg/frame"
	"github.com/bisegni/jframe/pkg/perrors"
)

// Program is an expression compiled against the column names of a table.
// Its Call method has the shape of an apply callback.
type Program struct {
	Source  string
	root    Expression
	columns []string
}

// Compile parses src and resolves its column references against names.
// Columns are referenced by name, by `quoted name`, or by zero-based position as $N.
func Compile(src string, names []string) (*Program, error) {
	ast, err := ParseExpression(src)
	if err != nil {
		return nil, err
	}
	c := &compiler{index: make(map[string]int, len(names)), names: names, used: map[int]struct{}{}}
	for i, name := range names {
		if _, ok := c.index[name]; !ok {
			c.index[name] = i
		}
	}
	root, err := c.expression(ast)
	if err != nil {
		return nil, err
	}
	p := &Program{Source: ast.String(), root: root}
	for i, name := range names {
		if _, ok := c.used[i]; ok {
			p.columns = append(p.columns, name)
		}
	}
	return p, nil
}

// Call evaluates the program against one row.
func (p *Program) Call(row frame.Row) (interface{}, error) {
	return p.root.Evaluate(row)
}

// Columns lists the referenced columns in table order.
func (p *Program) Columns() []string {
	return p.columns
}

func (p *Program) String() string {
	return p.Source
}

type compiler struct {
	index map[string]int
	names []string
	used  map[int]struct{}
}

func (c *compiler) expression(e *ASTExpression) (Expression, error) {
	var expr Expression
	for _, and := range e.Or {
		right, err := c.and(and)
		if err != nil {
			return nil, err
		}
		if expr == nil {
			expr = right
		} else {
			expr = &OrExpression{Left: expr, Right: right}
		}
	}
	return expr, nil
}

func (c *compiler) and(a *ASTAndCondition) (Expression, error) {
	var expr Expression
	for _, not := range a.And {
		right, err := c.not(not)
		if err != nil {
			return nil, err
		}
		if expr == nil {
			expr = right
		} else {
			expr = &AndExpression{Left: expr, Right: right}
		}
	}
	return expr, nil
}

func (c *compiler) not(n *ASTNotCondition) (Expression, error) {
	if n.Not != nil {
		operand, err := c.not(n.Not)
		if err != nil {
			return nil, err
		}
		return &NotExpression{Operand: operand}, nil
	}
	left, err := c.additive(n.Comparison.Left)
	if err != nil {
		return nil, err
	}
	if n.Comparison.Op == nil {
		return left, nil
	}
	right, err := c.additive(n.Comparison.Right)
	if err != nil {
		return nil, err
	}
	return &BinaryExpression{Op: *n.Comparison.Op, Left: left, Right: right}, nil
}

func (c *compiler) additive(a *ASTAdditive) (Expression, error) {
	expr, err := c.multiplicative(a.Head)
	if err != nil {
		return nil, err
	}
	for _, t := range a.Tail {
		right, err := c.multiplicative(t.Operand)
		if err != nil {
			return nil, err
		}
		expr = &BinaryExpression{Op: t.Op, Left: expr, Right: right}
	}
	return expr, nil
}

func (c *compiler) multiplicative(m *ASTMultiplicative) (Expression, error) {
	expr, err := c.unary(m.Head)
	if err != nil {
		return nil, err
	}
	for _, t := range m.Tail {
		right, err := c.unary(t.Operand)
		if err != nil {
			return nil, err
		}
		expr = &BinaryExpression{Op: t.Op, Left: expr, Right: right}
	}
	return expr, nil
}

func (c *compiler) unary(u *ASTUnary) (Expression, error) {
	if u.Negate == nil {
		return c.primary(u.Primary)
	}
	operand, err := c.unary(u.Negate)
	if err != nil {
		return nil, err
	}
	// fold negative literals
	if lit, ok := operand.(*Literal); ok {
		switch v := lit.Value.(type) {
		case int64:
			return &Literal{Value: -v}, nil
		case float64:
			return &Literal{Value: -v}, nil
		}
	}
	return &NegateExpression{Operand: operand}, nil
}

func (c *compiler) primary(p *ASTPrimary) (Expression, error) {
	switch {
	case p.Literal != nil:
		return &Literal{Value: p.Literal.ToValue()}, nil
	case p.Function != nil:
		return c.call(p.Function)
	case p.Position != nil:
		i := *p.Position
		if i < 0 || i >= len(c.names) {
			return nil, perrors.NewUnknownColumnError(fmt.Sprintf("$%d", i))
		}
		c.used[i] = struct{}{}
		return &ColumnRef{Name: c.names[i], Index: i}, nil
	case p.Column != nil:
		i, ok := c.index[*p.Column]
		if !ok {
			return nil, perrors.NewUnknownColumnError(*p.Column)
		}
		c.used[i] = struct{}{}
		return &ColumnRef{Name: *p.Column, Index: i}, nil
	case p.List != nil:
		items, err := c.expressions(p.List.Items)
		if err != nil {
			return nil, err
		}
		return &ListExpression{Items: items}, nil
	case p.Map != nil:
		m := &MapExpression{}
		seen := map[string]struct{}{}
		for _, entry := range p.Map.Entries {
			if _, dup := seen[entry.Key]; dup {
				return nil, perrors.NewInvalidExpressionError(fmt.Sprintf("duplicate key %q", entry.Key))
			}
			seen[entry.Key] = struct{}{}
			v, err := c.expression(entry.Value)
			if err != nil {
				return nil, err
			}
			m.Keys = append(m.Keys, entry.Key)
			m.Values = append(m.Values, v)
		}
		return m, nil
	case p.Grouped != nil:
		return c.expression(p.Grouped)
	}
	return nil, perrors.NewInvalidExpressionError("empty expression")
}

func (c *compiler) call(f *ASTFunction) (Expression, error) {
	fn, err := lookupFunction(f.Name, len(f.Args))
	if err != nil {
		return nil, err
	}
	args, err := c.expressions(f.Args)
	if err != nil {
		return nil, err
	}
	return &CallExpression{Name: strings.ToLower(f.Name), Fn: fn, Args: args}, nil
}

func (c *compiler) expressions(exprs []*ASTExpression) ([]Expression, error) {
	out := make([]Expression, len(exprs))
	for i, e := range exprs {
		expr, err := c.expression(e)
		if err != nil {
			return nil, err
		}
		out[i] = expr
	}
	return out, nil
}

// Extract walks a dot-separated path into nested struct and list values.
// Numeric parts index lists; a '*' part maps the rest of the path over every list entry.
func Extract(value interface{}, path string) interface{} {
	path = strings.TrimPrefix(path, ".")
	if path == "" {
		return value
	}
	return extractValue(value, strings.Split(path, "."))
}

func extractValue(value interface{}, parts []string) interface{} {
	if len(parts) == 0 || value == nil {
		return value
	}
	part, rest := parts[0], parts[1:]

	switch v := value.(type) {
	case frame.OrderedMap:
		child, ok := v.Get(part)
		if !ok {
			return nil
		}
		return extractValue(child, rest)
	case *frame.Column:
		return extractValue(v.Values(), parts)
	case []interface{}:
		if part == "*" {
			out := make([]interface{}, 0, len(v))
			for _, item := range v {
				out = append(out, extractValue(item, rest))
			}
			return frame.NewColumnFromValues("", out)
		}
		idx, err := strconv.Atoi(part)
		if err != nil {
			return nil
		}
		if idx < 0 {
			idx += len(v)
		}
		if idx < 0 || idx >= len(v) {
			return nil
		}
		return extractValue(v[idx], rest)
	}
	return nil
}
