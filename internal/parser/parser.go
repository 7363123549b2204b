// Package parser implements the recursive-descent parser of spec.md §4.2:
// token sequence in, a slice of top-level AST statements out. Structural
// shape (dispatch-on-current-token statement parser, match/check/consume
// cursor helpers, a precedence table driving expression parsing) is
// grounded on sentra-language-sentra's internal/parser/parser.go.
package parser

import (
	"github.com/rmkhurana28/RM-C-Compilor/internal/ast"
	cerrors "github.com/rmkhurana28/RM-C-Compilor/internal/errors"
	"github.com/rmkhurana28/RM-C-Compilor/internal/token"
)

// precedence is the table of spec.md §4.2, minus '(' ')' grouping (handled
// structurally) and '=' (not part of the expression grammar at all — see
// SPEC_FULL.md's resolution of the assignment-as-expression Open Question).
var precedence = map[token.Type]int{
	token.OrOr:   2,
	token.AndAnd: 3,
	token.Eq:     4,
	token.NotEq:  4,
	token.LT:     5,
	token.GT:     5,
	token.LE:     5,
	token.GE:     5,
	token.Plus:   6,
	token.Minus:  6,
	token.Star:   7,
	token.Slash:  7,
}

type Parser struct {
	tokens []token.Token
	pos    int
}

func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse consumes the whole token stream and returns the program node; each
// top-level statement becomes one entry in Program.Stmts, per spec.md §4.2.
func (p *Parser) Parse() (*ast.Program, error) {
	prog := &ast.Program{}
	for !p.isAtEnd() {
		if p.check(token.RBrace) {
			break
		}
		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		prog.Stmts = append(prog.Stmts, stmt)
	}
	if _, err := p.consume(token.RBrace, "02.30", "expected '}' to close main's body"); err != nil {
		return nil, err
	}
	return prog, nil
}

// ---- cursor helpers ----

func (p *Parser) isAtEnd() bool { return p.peek().Type == token.EOF }
func (p *Parser) peek() token.Token {
	if p.pos >= len(p.tokens) {
		return token.Token{Type: token.EOF}
	}
	return p.tokens[p.pos]
}
func (p *Parser) previous() token.Token { return p.tokens[p.pos-1] }
func (p *Parser) check(t token.Type) bool {
	if p.isAtEnd() && t != token.EOF {
		return false
	}
	return p.peek().Type == t
}
func (p *Parser) advance() token.Token {
	if !p.isAtEnd() {
		p.pos++
	}
	return p.previous()
}
func (p *Parser) match(types ...token.Type) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}
func (p *Parser) consume(t token.Type, code, msg string) (token.Token, error) {
	if p.check(t) {
		return p.advance(), nil
	}
	return token.Token{}, cerrors.NewSyntaxError(code, "%s (got %s at line %d)", msg, p.peek().Type, p.peek().Line)
}

// ---- statements ----

func (p *Parser) statement() (ast.Stmt, error) {
	switch {
	case token.DataTypes[p.peek().Type]:
		return p.declaration()
	case p.check(token.If):
		return p.ifStatement()
	case p.check(token.While):
		return p.whileStatement()
	case p.check(token.For):
		return p.forStatement()
	case p.check(token.Ident):
		return p.assignmentOrExprStatement()
	case p.check(token.Not), p.check(token.Incr), p.check(token.Decr):
		return p.exprStatement()
	default:
		return nil, cerrors.NewSyntaxError("02.01", "unexpected token %s at line %d", p.peek().Type, p.peek().Line)
	}
}

func (p *Parser) block() (*ast.Block, error) {
	if _, err := p.consume(token.LBrace, "02.02", "expected '{'"); err != nil {
		return nil, err
	}
	b := &ast.Block{}
	for !p.check(token.RBrace) && !p.isAtEnd() {
		s, err := p.statement()
		if err != nil {
			return nil, err
		}
		b.Stmts = append(b.Stmts, s)
	}
	if _, err := p.consume(token.RBrace, "02.03", "expected '}' to close block"); err != nil {
		return nil, err
	}
	return b, nil
}

func (p *Parser) declaration() (ast.Stmt, error) {
	baseType := p.advance().Lexeme
	nameTok, err := p.consume(token.Ident, "02.04", "expected identifier in declaration")
	if err != nil {
		return nil, err
	}
	decl := &ast.Declaration{Name: nameTok.Lexeme, BaseType: baseType}

	if p.match(token.LBrack) {
		decl.IsArray = true
		sizeTok := p.peek()
		if sizeTok.Type != token.IntLit && sizeTok.Type != token.Ident {
			return nil, cerrors.NewSyntaxError("02.05", "size of array is invalid")
		}
		p.advance()
		decl.ArraySize = sizeTok.Lexeme
		if _, err := p.consume(token.RBrack, "02.06", "expected ]"); err != nil {
			return nil, err
		}
	}

	if p.match(token.Assign) {
		if decl.IsArray {
			if _, err := p.consume(token.LBrace, "02.07", "expected '{' to start array initializer list"); err != nil {
				return nil, err
			}
			if _, ok := intLiteralOfLexeme(decl.ArraySize); !ok {
				return nil, cerrors.NewSyntaxError("02.08", "array size must be an integer literal when an initializer list is present")
			}
			for !p.check(token.RBrace) {
				e, err := p.parseExpression(2)
				if err != nil {
					return nil, err
				}
				decl.InitList = append(decl.InitList, e)
				if !p.match(token.Comma) {
					break
				}
			}
			if _, err := p.consume(token.RBrace, "02.09", "expected '}' to close initializer list"); err != nil {
				return nil, err
			}
		} else {
			e, err := p.parseExpression(2)
			if err != nil {
				return nil, err
			}
			decl.Init = e
		}
	}

	if _, err := p.consume(token.Semi, "02.10", "expected ';' after declaration"); err != nil {
		return nil, err
	}
	return decl, nil
}

func intLiteralOfLexeme(s string) (int64, bool) {
	var n int64
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int64(c-'0')
	}
	if s == "" {
		return 0, false
	}
	return n, true
}

// assignmentOrExprStatement parses `name = expr;`, `name[idx] = expr;`,
// `name++;`/`name--;` (postfix used for effect), according to the
// statement-position dispatch of spec.md §4.2.
func (p *Parser) assignmentOrExprStatement() (ast.Stmt, error) {
	nameTok := p.advance()

	if p.match(token.LBrack) {
		idx, err := p.parseExpression(2)
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.RBrack, "02.11", "expected ']' after array index"); err != nil {
			return nil, err
		}
		target := &ast.ArrayAccess{Name: nameTok.Lexeme, Index: idx}
		if p.match(token.Assign) {
			val, err := p.parseExpression(2)
			if err != nil {
				return nil, err
			}
			if _, err := p.consume(token.Semi, "02.12", "expected ';' after assignment"); err != nil {
				return nil, err
			}
			return &ast.ExprStmt{Expr: &ast.Assignment{Target: target, Value: val}}, nil
		}
		return p.finishExprStatementFrom(target)
	}

	target := &ast.Variable{Name: nameTok.Lexeme}
	if p.match(token.Assign) {
		val, err := p.parseExpression(2)
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.Semi, "02.13", "expected ';' after assignment"); err != nil {
			return nil, err
		}
		return &ast.ExprStmt{Expr: &ast.Assignment{Target: target, Value: val}}, nil
	}
	return p.finishExprStatementFrom(target)
}

// finishExprStatementFrom handles trailing postfix ++/-- on an already
// parsed lvalue, then any remaining binary-operator tail (e.g. "a + b;" as
// a bare, side-effect-free expression statement — legal per the grammar
// dispatch, even if useless), and closes with ';'.
func (p *Parser) finishExprStatementFrom(lv ast.Lvalue) (ast.Stmt, error) {
	var head ast.Expr = lv
	if p.check(token.Incr) || p.check(token.Decr) {
		op := p.advance()
		head = &ast.UnaryOp{Op: string(op.Type), Operand: lv, Prefix: false}
	}
	expr, err := p.continueExpression(head, 2)
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.Semi, "02.14", "expected ';' after expression statement"); err != nil {
		return nil, err
	}
	return &ast.ExprStmt{Expr: expr}, nil
}

func (p *Parser) exprStatement() (ast.Stmt, error) {
	e, err := p.parseExpression(2)
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.Semi, "02.15", "expected ';' after expression statement"); err != nil {
		return nil, err
	}
	return &ast.ExprStmt{Expr: e}, nil
}

func (p *Parser) ifStatement() (ast.Stmt, error) {
	p.advance() // 'if'
	if _, err := p.consume(token.LParen, "02.16", "expected '(' after if"); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression(2)
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.RParen, "02.17", "expected ')' after if condition"); err != nil {
		return nil, err
	}
	thenBlock, err := p.block()
	if err != nil {
		return nil, err
	}
	if p.match(token.Else) {
		if p.check(token.If) {
			elseStmt, err := p.ifStatement()
			if err != nil {
				return nil, err
			}
			return &ast.IfElse{Cond: cond, Then: thenBlock, Else: &ast.Block{Stmts: []ast.Stmt{elseStmt}}}, nil
		}
		elseBlock, err := p.block()
		if err != nil {
			return nil, err
		}
		return &ast.IfElse{Cond: cond, Then: thenBlock, Else: elseBlock}, nil
	}
	return &ast.If{Cond: cond, Then: thenBlock}, nil
}

func (p *Parser) whileStatement() (ast.Stmt, error) {
	p.advance() // 'while'
	if _, err := p.consume(token.LParen, "02.18", "expected '(' after while"); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression(2)
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.RParen, "02.19", "expected ')' after while condition"); err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return &ast.While{Cond: cond, Body: body}, nil
}

func (p *Parser) forStatement() (ast.Stmt, error) {
	p.advance() // 'for'
	if _, err := p.consume(token.LParen, "02.20", "expected '(' after for"); err != nil {
		return nil, err
	}
	var initStmt ast.Stmt
	var err error
	if token.DataTypes[p.peek().Type] {
		initStmt, err = p.declaration()
	} else {
		initStmt, err = p.assignmentOrExprStatement()
	}
	if err != nil {
		return nil, err
	}
	cond, err := p.parseExpression(2)
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.Semi, "02.21", "expected ';' after for condition"); err != nil {
		return nil, err
	}
	update, err := p.forUpdate()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.RParen, "02.22", "expected ')' after for clauses"); err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return &ast.For{Init: initStmt, Cond: cond, Update: update, Body: body}, nil
}

// forUpdate parses the for-loop update clause without its terminating ';'.
// Per spec.md §4.2 the parser forbids '!' in this position: the update must
// be assignment, prefix/postfix ++/--, or a simple increment assignment.
func (p *Parser) forUpdate() (ast.Stmt, error) {
	if p.check(token.Not) {
		return nil, cerrors.NewSyntaxError("02.23", "'!' is not permitted in a for-loop update clause")
	}
	if p.check(token.Incr) || p.check(token.Decr) {
		op := p.advance()
		nameTok, err := p.consume(token.Ident, "02.24", "expected identifier after prefix ++/--")
		if err != nil {
			return nil, err
		}
		target := &ast.Variable{Name: nameTok.Lexeme}
		un := &ast.UnaryOp{Op: string(op.Type), Operand: target, Prefix: true}
		return &ast.ExprStmt{Expr: un}, nil
	}
	nameTok, err := p.consume(token.Ident, "02.25", "expected identifier in for-loop update")
	if err != nil {
		return nil, err
	}
	target := &ast.Variable{Name: nameTok.Lexeme}
	if p.check(token.Incr) || p.check(token.Decr) {
		op := p.advance()
		un := &ast.UnaryOp{Op: string(op.Type), Operand: target, Prefix: false}
		return &ast.ExprStmt{Expr: un}, nil
	}
	if _, err := p.consume(token.Assign, "02.26", "expected '=' in for-loop update"); err != nil {
		return nil, err
	}
	val, err := p.parseExpression(2)
	if err != nil {
		return nil, err
	}
	return &ast.ExprStmt{Expr: &ast.Assignment{Target: target, Value: val}}, nil
}

// ---- expressions (precedence climbing, spec.md §4.2) ----

// parseExpression parses one primary then consumes binary operators whose
// precedence is >= minPrec, recursing with prec+1 to give every supported
// operator left associativity.
func (p *Parser) parseExpression(minPrec int) (ast.Expr, error) {
	left, err := p.primary()
	if err != nil {
		return nil, err
	}
	return p.continueExpression(left, minPrec)
}

func (p *Parser) continueExpression(left ast.Expr, minPrec int) (ast.Expr, error) {
	for {
		prec, ok := precedence[p.peek().Type]
		if !ok || prec < minPrec {
			return left, nil
		}
		op := p.advance()
		right, err := p.primary()
		if err != nil {
			return nil, err
		}
		right, err = p.continueExpression(right, prec+1)
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{Op: string(op.Type), Left: left, Right: right}
	}
}

func (p *Parser) primary() (ast.Expr, error) {
	tok := p.peek()
	switch tok.Type {
	case token.IntLit:
		p.advance()
		return &ast.IntLiteral{Value: tok.IntVal}, nil
	case token.DoubleLit:
		p.advance()
		return &ast.DoubleLiteral{Value: tok.DoubleVal}, nil
	case token.BoolLit:
		p.advance()
		return &ast.BoolLiteral{Value: tok.BoolVal}, nil
	case token.CharLit:
		p.advance()
		var b byte
		if len(tok.Lexeme) > 0 {
			b = tok.Lexeme[0]
		}
		return &ast.CharLiteral{Value: b}, nil
	case token.StringLit:
		p.advance()
		return &ast.StringLiteral{Value: tok.Lexeme}, nil
	case token.LParen:
		p.advance()
		e, err := p.parseExpression(2)
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.RParen, "02.27", "expected ')' to close grouped expression"); err != nil {
			return nil, err
		}
		return e, nil
	case token.Not:
		p.advance()
		operand, err := p.primary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryOp{Op: "!", Operand: operand, Prefix: true}, nil
	case token.Incr, token.Decr:
		op := p.advance()
		operand, err := p.primary()
		if err != nil {
			return nil, err
		}
		lv, ok := operand.(ast.Lvalue)
		if !ok {
			return nil, cerrors.NewSyntaxError("02.28", "prefix %s requires an lvalue operand", op.Type)
		}
		return &ast.UnaryOp{Op: string(op.Type), Operand: lv, Prefix: true}, nil
	case token.Minus:
		p.advance()
		operand, err := p.primary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryOp{Op: "-", Operand: operand, Prefix: true}, nil
	case token.Ident:
		p.advance()
		var expr ast.Expr
		if p.match(token.LBrack) {
			idx, err := p.parseExpression(2)
			if err != nil {
				return nil, err
			}
			if _, err := p.consume(token.RBrack, "02.29", "expected ']' after array index"); err != nil {
				return nil, err
			}
			expr = &ast.ArrayAccess{Name: tok.Lexeme, Index: idx}
		} else {
			expr = &ast.Variable{Name: tok.Lexeme}
		}
		if p.check(token.Incr) || p.check(token.Decr) {
			op := p.advance()
			lv := expr.(ast.Lvalue)
			return &ast.UnaryOp{Op: string(op.Type), Operand: lv, Prefix: false}, nil
		}
		if p.check(token.Assign) {
			return nil, cerrors.NewSyntaxError("02.32", "assignment is not a valid operand of an expression")
		}
		return expr, nil
	default:
		return nil, cerrors.NewSyntaxError("02.31", "unexpected token %s at line %d while parsing an expression", tok.Type, tok.Line)
	}
}
