package query

import (
	"fmt"
	"strconv"
	"strings"
)

// AST for Participle Parser

type ASTExpression struct {
	Or []*ASTAndCondition `parser:"@@ ('OR' @@)*"`
}

type ASTAndCondition struct {
	And []*ASTNotCondition `parser:"@@ ('AND' @@)*"`
}

type ASTNotCondition struct {
	Not        *ASTNotCondition `parser:"  'NOT' @@"`
	Comparison *ASTComparison   `parser:"| @@"`
}

type ASTComparison struct {
	Left  *ASTAdditive `parser:"@@"`
	Op    *string      `parser:"( @('=='|'='|'!='|'>='|'<='|'>'|'<')"`
	Right *ASTAdditive `parser:"  @@ )?"`
}

type ASTAdditive struct {
	Head *ASTMultiplicative `parser:"@@"`
	Tail []*ASTAddOp        `parser:"@@*"`
}

type ASTAddOp struct {
	Op      string             `parser:"@('+'|'-')"`
	Operand *ASTMultiplicative `parser:"@@"`
}

type ASTMultiplicative struct {
	Head *ASTUnary   `parser:"@@"`
	Tail []*ASTMulOp `parser:"@@*"`
}

type ASTMulOp struct {
	Op      string    `parser:"@('*'|'/'|'%')"`
	Operand *ASTUnary `parser:"@@"`
}

type ASTUnary struct {
	Negate  *ASTUnary   `parser:"  '-' @@"`
	Primary *ASTPrimary `parser:"| @@"`
}

type ASTPrimary struct {
	Literal  *ASTLiteral    `parser:"  @@"`
	Function *ASTFunction   `parser:"| @@"`
	Position *int           `parser:"| '$' @Int"`
	Column   *string        `parser:"| (@Ident | @QuotedIdent)"`
	List     *ASTList       `parser:"| @@"`
	Map      *ASTMap        `parser:"| @@"`
	Grouped  *ASTExpression `parser:"| '(' @@ ')'"`
}

type ASTFunction struct {
	Name string           `parser:"@Ident '('"`
	Args []*ASTExpression `parser:"(@@ (',' @@)*)? ')'"`
}

type ASTList struct {
	Open  string           `parser:"@'['"`
	Items []*ASTExpression `parser:"(@@ (',' @@)*)? ']'"`
}

type ASTMap struct {
	Open    string         `parser:"@'{'"`
	Entries []*ASTMapEntry `parser:"(@@ (',' @@)*)? '}'"`
}

type ASTMapEntry struct {
	Key   string         `parser:"(@Ident | @String | @QuotedIdent)"`
	Value *ASTExpression `parser:"':' @@"`
}

type ASTLiteral struct {
	Float  *float64 `parser:"  @Float"`
	Int    *int64   `parser:"| @Int"`
	StrVal *string  `parser:"| @String"`
	Bool   *string  `parser:"| @('TRUE'|'FALSE')"`
	Null   bool     `parser:"| @'NULL'"`
}

func (l *ASTLiteral) ToValue() interface{} {
	switch {
	case l.Float != nil:
		return *l.Float
	case l.Int != nil:
		return *l.Int
	case l.StrVal != nil:
		return *l.StrVal
	case l.Bool != nil:
		return strings.EqualFold(*l.Bool, "TRUE")
	}
	return nil
}

// String renders the AST back to a normalized expression

func (e *ASTExpression) String() string {
	var parts []string
	for _, and := range e.Or {
		parts = append(parts, and.String())
	}
	return strings.Join(parts, " OR ")
}

func (a *ASTAndCondition) String() string {
	var parts []string
	for _, not := range a.And {
		parts = append(parts, not.String())
	}
	return strings.Join(parts, " AND ")
}

func (n *ASTNotCondition) String() string {
	if n.Not != nil {
		return "NOT " + n.Not.String()
	}
	return n.Comparison.String()
}

func (c *ASTComparison) String() string {
	s := c.Left.String()
	if c.Op != nil && c.Right != nil {
		s += " " + *c.Op + " " + c.Right.String()
	}
	return s
}

func (a *ASTAdditive) String() string {
	s := a.Head.String()
	for _, t := range a.Tail {
		s += " " + t.Op + " " + t.Operand.String()
	}
	return s
}

func (m *ASTMultiplicative) String() string {
	s := m.Head.String()
	for _, t := range m.Tail {
		s += " " + t.Op + " " + t.Operand.String()
	}
	return s
}

func (u *ASTUnary) String() string {
	if u.Negate != nil {
		return "-" + u.Negate.String()
	}
	return u.Primary.String()
}

func (p *ASTPrimary) String() string {
	switch {
	case p.Literal != nil:
		return p.Literal.String()
	case p.Function != nil:
		return p.Function.String()
	case p.Position != nil:
		return fmt.Sprintf("$%d", *p.Position)
	case p.Column != nil:
		return *p.Column
	case p.List != nil:
		return "[" + joinExpressions(p.List.Items) + "]"
	case p.Map != nil:
		var parts []string
		for _, e := range p.Map.Entries {
			parts = append(parts, strconv.Quote(e.Key)+": "+e.Value.String())
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case p.Grouped != nil:
		return "(" + p.Grouped.String() + ")"
	}
	return ""
}

func (f *ASTFunction) String() string {
	return fmt.Sprintf("%s(%s)", f.Name, joinExpressions(f.Args))
}

func (l *ASTLiteral) String() string {
	switch {
	case l.Float != nil:
		s := strconv.FormatFloat(*l.Float, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eEIN") {
			s += ".0"
		}
		return s
	case l.Int != nil:
		return strconv.FormatInt(*l.Int, 10)
	case l.StrVal != nil:
		return fmt.Sprintf("'%s'", *l.StrVal) // simplistic quoting
	case l.Bool != nil:
		return strings.ToUpper(*l.Bool)
	}
	return "NULL"
}

func joinExpressions(exprs []*ASTExpression) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}
