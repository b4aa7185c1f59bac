// Package tablename finds the table a ClickHouse query reads from.
package tablename

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// ErrNoTable is returned by Parse when the query has no table reference
var ErrNoTable = errors.New("no table reference found")

// Reference is a possibly database-qualified table name
type Reference struct {
	Pos   lexer.Position
	Parts []string `parser:"@(Ident | QuotedIdent | BacktickIdent) ( \".\" @(Ident | QuotedIdent | BacktickIdent) )*"`
}

// Table returns the last part of the reference
func (r *Reference) Table() string {
	if len(r.Parts) == 0 {
		return ""
	}
	return r.Parts[len(r.Parts)-1]
}

// Database returns the qualifier, or "" for an unqualified table
func (r *Reference) Database() string {
	if len(r.Parts) < 2 {
		return ""
	}
	return strings.Join(r.Parts[:len(r.Parts)-1], ".")
}

func (r *Reference) String() string {
	return strings.Join(r.Parts, ".")
}

var referenceParser = participle.MustBuild[Reference](
	participle.Lexer(SQLLexer),
	participle.Elide("Whitespace", "Comment", "BlockComment"),
	participle.Map(unquoteIdent, "QuotedIdent", "BacktickIdent"),
)

// Extract returns the first table the query selects from, written as
// database.table when qualified, or "" when there is none.
func Extract(query string) string {
	ref, err := Parse(query)
	if err != nil {
		return ""
	}
	return ref.String()
}

// Parse finds the first table reference of a FROM clause in query.
//
// Subqueries in FROM are searched in order. Parentheses that do not open a
// subquery, such as EXTRACT(DAY FROM ts), are skipped, and so are table
// functions like numbers(10).
func Parse(query string) (*Reference, error) {
	toks, err := tokens(query)
	if err != nil {
		return nil, fmt.Errorf("failed to tokenize query: %w", err)
	}

	// one entry per open parenthesis: true when it opens a subquery
	var scopes []bool
	inSelectScope := func() bool {
		for _, s := range scopes {
			if !s {
				return false
			}
		}
		return true
	}

	for i := 0; i < len(toks); i++ {
		tok := toks[i]
		switch {
		case tok.Value == "(":
			scopes = append(scopes, i+1 < len(toks) && (isKeyword(toks[i+1], "SELECT") || isKeyword(toks[i+1], "WITH")))
		case tok.Value == ")":
			if len(scopes) > 0 {
				scopes = scopes[:len(scopes)-1]
			}
		case isKeyword(tok, "FROM") && inSelectScope():
			if i+1 >= len(toks) || !isIdent(toks[i+1]) {
				continue
			}
			ref, err := referenceParser.ParseString("", query[toks[i+1].Pos.Offset:], participle.AllowTrailing(true))
			if err != nil {
				continue
			}
			// ident ( "." ident )* spans 2n-1 tokens
			after := i + 1 + 2*len(ref.Parts) - 1
			if after < len(toks) && toks[after].Value == "(" {
				continue
			}
			return ref, nil
		}
	}
	return nil, ErrNoTable
}

func tokens(query string) ([]lexer.Token, error) {
	lex, err := SQLLexer.LexString("", query)
	if err != nil {
		return nil, err
	}
	all, err := lexer.ConsumeAll(lex)
	if err != nil {
		return nil, err
	}

	skip := map[lexer.TokenType]bool{
		lexer.EOF:               true,
		symbols["Whitespace"]:   true,
		symbols["Comment"]:      true,
		symbols["BlockComment"]: true,
	}
	out := make([]lexer.Token, 0, len(all))
	for _, tok := range all {
		if !skip[tok.Type] {
			out = append(out, tok)
		}
	}
	return out, nil
}

func isKeyword(tok lexer.Token, kw string) bool {
	return tok.Type == symbols["Ident"] && strings.EqualFold(tok.Value, kw)
}

func isIdent(tok lexer.Token) bool {
	switch tok.Type {
	case symbols["Ident"], symbols["QuotedIdent"], symbols["BacktickIdent"]:
		return true
	}
	return false
}
