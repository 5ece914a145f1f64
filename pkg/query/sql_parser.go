package query

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/bisegni/jframe/pkg/perrors"
)

// Lexer definition
var (
	exprLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Keyword", Pattern: `(?i)\b(AND|OR|NOT|TRUE|FALSE|NULL)\b`},
		{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
		{Name: "QuotedIdent", Pattern: "`[^`]*`"},
		{Name: "Float", Pattern: `\d+\.\d*([eE][-+]?\d+)?|\d+[eE][-+]?\d+`},
		{Name: "Int", Pattern: `\d+`},
		{Name: "String", Pattern: `'[^']*'|"[^"]*"`},
		{Name: "Operator", Pattern: `==|!=|>=|<=|[=<>]`},
		{Name: "Punct", Pattern: `[-+/*%,()\[\]{}:$]`},
		{Name: "Whitespace", Pattern: `\s+`},
	})

	// Participle Parser
	exprParser = participle.MustBuild[ASTExpression](
		participle.Lexer(exprLexer),
		participle.Unquote("String", "QuotedIdent"),
		participle.CaseInsensitive("Keyword"),
		participle.Elide("Whitespace"),
		participle.UseLookahead(2),
	)
)

// ParseExpression parses an expression string into its AST
func ParseExpression(input string) (*ASTExpression, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, perrors.NewInvalidExpressionError("empty expression")
	}

	ast, err := exprParser.ParseString("", input)
	if err != nil {
		return nil, perrors.NewInvalidExpressionError(err.Error())
	}
	return ast, nil
}
