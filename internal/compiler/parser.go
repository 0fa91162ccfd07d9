package compiler

// Recursive-descent parser. It is predictive with one token of lookahead
// (plus the bounded isTypeAhead probe used to disambiguate a leading
// statement from a variable declaration), and it performs the local
// validation spec.md assigns to this pass: duplicate declaration names,
// unique parameter/local names, break/continue nesting, undeclared
// identifiers, duplicate record fields, and constant folding of unary
// minus on integer literals. Everything else (named-type resolution
// beyond "does this alias exist", subtyping, invoke arity) is left to
// the type checker, which runs a proper two-phase forward-reference pass
// instead of this parser's best-effort single pass.

// scope tracks the variables visible at a point in the grammar. Blocks
// get a cloned copy of the enclosing scope (so declarations inside a
// block, loop body, or branch never leak back out), following spec.md
// §9's "block scopes are branched copies of the enclosing environment".
type scope struct {
	vars   map[string]bool
	inLoop bool
}

func newScope() *scope { return &scope{vars: map[string]bool{}} }

func (s *scope) isDeclared(name string) bool { return s.vars[name] }

func (s *scope) clone() *scope {
	cp := make(map[string]bool, len(s.vars))
	for k := range s.vars {
		cp[k] = true
	}
	return &scope{vars: cp, inLoop: s.inLoop}
}

func (s *scope) loopClone() *scope {
	c := s.clone()
	c.inLoop = true
	return c
}

type Parser struct {
	file   string
	src    string
	tokens []Token
	pos    int

	typeNames   map[string]bool
	methodNames map[string]bool
}

// Parse scans and parses a complete source file into an AST.
func Parse(file, src string) (*File, error) {
	lex := NewLexer(file, src)
	tokens, err := lex.Tokenize()
	if err != nil {
		return nil, err
	}
	p := &Parser{
		file:        file,
		src:         src,
		tokens:      tokens,
		typeNames:   map[string]bool{},
		methodNames: map[string]bool{},
	}
	return p.parseFile()
}

func (p *Parser) cur() Token  { return p.tokens[p.pos] }
func (p *Parser) at(tp TokenType) bool { return p.cur().Type == tp }

func (p *Parser) peekAt(off int) Token {
	i := p.pos + off
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[i]
}

func (p *Parser) advance() Token {
	t := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) expect(tp TokenType) (Token, error) {
	if !p.at(tp) {
		return Token{}, p.errTok(p.cur(), SyntaxError, "expected %s but found %q", tp, p.cur().Text)
	}
	return p.advance(), nil
}

func (p *Parser) errTok(t Token, kind Kind, format string, args ...interface{}) error {
	return newDiag(kind, t.span(p.file), format, args...)
}

func spanOf(start, end Token, file string) Span {
	line, col := start.Line, start.Col
	return Span{File: file, Start: start.Start, End: end.End(), Line: line, Col: col}
}

// ---------------------------------------------------------------------
// File / declarations
// ---------------------------------------------------------------------

func (p *Parser) parseFile() (*File, error) {
	f := &File{}
	for !p.at(TkEOF) {
		d, err := p.parseDecl()
		if err != nil {
			return nil, err
		}
		f.Decls = append(f.Decls, d)
	}
	return f, nil
}

func (p *Parser) parseDecl() (Decl, error) {
	if p.at(TkType) {
		return p.parseTypeAliasDecl()
	}
	return p.parseMethodDecl()
}

func (p *Parser) parseTypeAliasDecl() (Decl, error) {
	start := p.advance() // 'type'
	nameTok, err := p.expect(TkIdentifier)
	if err != nil {
		return nil, err
	}
	if p.typeNames[nameTok.Text] {
		return nil, p.errTok(nameTok, SyntaxError, "type %q already declared", nameTok.Text)
	}
	if _, err := p.expect(TkIs); err != nil {
		return nil, err
	}
	body, err := p.parseType()
	if err != nil {
		return nil, err
	}
	p.typeNames[nameTok.Text] = true
	return &TypeAliasDecl{Span: spanOf(start, p.tokens[p.pos-1], p.file), Name: nameTok.Text, Body: body}, nil
}

func (p *Parser) parseMethodDecl() (Decl, error) {
	start := p.cur()
	retType, err := p.parseType()
	if err != nil {
		return nil, err
	}
	nameTok, err := p.expect(TkIdentifier)
	if err != nil {
		return nil, err
	}
	if p.methodNames[nameTok.Text] {
		return nil, p.errTok(nameTok, SyntaxError, "method %q already declared", nameTok.Text)
	}
	if _, err := p.expect(TkLParen); err != nil {
		return nil, err
	}
	sc := newScope()
	var params []Param
	for !p.at(TkRParen) {
		if len(params) > 0 {
			if _, err := p.expect(TkComma); err != nil {
				return nil, err
			}
		}
		pType, err := p.parseType()
		if err != nil {
			return nil, err
		}
		pNameTok, err := p.expect(TkIdentifier)
		if err != nil {
			return nil, err
		}
		if sc.isDeclared(pNameTok.Text) {
			return nil, p.errTok(pNameTok, SyntaxError, "parameter %q already declared", pNameTok.Text)
		}
		sc.vars[pNameTok.Text] = true
		params = append(params, Param{Type: pType, Name: pNameTok.Text})
	}
	if _, err := p.expect(TkRParen); err != nil {
		return nil, err
	}
	body, err := p.parseBlock(sc)
	if err != nil {
		return nil, err
	}
	p.methodNames[nameTok.Text] = true
	return &MethodDecl{
		Span:   spanOf(start, p.tokens[p.pos-1], p.file),
		Name:   nameTok.Text,
		Return: retType,
		Params: params,
		Body:   body,
	}, nil
}

// ---------------------------------------------------------------------
// Types
// ---------------------------------------------------------------------

func (p *Parser) parseType() (*SynType, error) {
	start := p.cur()
	base, err := p.parseBaseType()
	if err != nil {
		return nil, err
	}
	for p.at(TkLBracket) {
		p.advance()
		if _, err := p.expect(TkRBracket); err != nil {
			return nil, err
		}
		base = &SynType{Kind: KArray, Elem: base, Span: spanOf(start, p.tokens[p.pos-1], p.file)}
	}
	return base, nil
}

func (p *Parser) parseBaseType() (*SynType, error) {
	start := p.cur()
	switch start.Type {
	case TkVoid:
		p.advance()
		return primType(KVoid, start.span(p.file)), nil
	case TkBool:
		p.advance()
		return primType(KBool, start.span(p.file)), nil
	case TkInt:
		p.advance()
		return primType(KInt, start.span(p.file)), nil
	case TkChar:
		p.advance()
		return primType(KChar, start.span(p.file)), nil
	case TkString:
		p.advance()
		return primType(KString, start.span(p.file)), nil
	case TkLBrace:
		return p.parseRecordType()
	case TkIdentifier:
		p.advance()
		if !p.typeNames[start.Text] {
			return nil, p.errTok(start, SyntaxError, "unknown type %q", start.Text)
		}
		return &SynType{Kind: KNamed, Name: start.Text, Span: start.span(p.file)}, nil
	default:
		return nil, p.errTok(start, SyntaxError, "expected a type but found %q", start.Text)
	}
}

func (p *Parser) parseRecordType() (*SynType, error) {
	start := p.advance() // '{'
	var fields []RecordField
	seen := map[string]bool{}
	for !p.at(TkRBrace) {
		if len(fields) > 0 {
			if _, err := p.expect(TkComma); err != nil {
				return nil, err
			}
		}
		fType, err := p.parseType()
		if err != nil {
			return nil, err
		}
		fNameTok, err := p.expect(TkIdentifier)
		if err != nil {
			return nil, err
		}
		if seen[fNameTok.Text] {
			return nil, p.errTok(fNameTok, SyntaxError, "duplicate record field %q", fNameTok.Text)
		}
		seen[fNameTok.Text] = true
		fields = append(fields, RecordField{Type: fType, Name: fNameTok.Text})
	}
	end, err := p.expect(TkRBrace)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, p.errTok(start, SyntaxError, "record type must have at least one field")
	}
	return &SynType{Kind: KRecord, Fields: fields, Span: spanOf(start, end, p.file)}, nil
}

// isTypeAhead probes whether a type starts at token offset off, used to
// disambiguate a leading statement as a variable declaration.
func (p *Parser) isTypeAhead(off int) bool {
	tok := p.peekAt(off)
	switch tok.Type {
	case TkVoid, TkBool, TkInt, TkChar, TkString:
		return true
	case TkIdentifier:
		return p.typeNames[tok.Text]
	case TkLBrace, TkLBracket:
		return p.isTypeAhead(off + 1)
	default:
		return false
	}
}

// ---------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------

func (p *Parser) parseBlock(sc *scope) (*Block, error) {
	start, err := p.expect(TkLBrace)
	if err != nil {
		return nil, err
	}
	var stmts []Stmt
	for !p.at(TkRBrace) {
		st, err := p.parseStatement(sc, true)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, st)
	}
	end, err := p.expect(TkRBrace)
	if err != nil {
		return nil, err
	}
	return &Block{Span: spanOf(start, end, p.file), Stmts: stmts}, nil
}

func (p *Parser) parseStatement(sc *scope, withSemi bool) (Stmt, error) {
	start := p.cur()
	switch {
	case p.at(TkAssert):
		p.advance()
		e, err := p.parseExpr(sc)
		if err != nil {
			return nil, err
		}
		st := &AssertStmt{stmtAttrs{spanOf(start, p.tokens[p.pos-1], p.file)}, e}
		return st, p.maybeSemi(withSemi)
	case p.at(TkReturn):
		p.advance()
		var val Expr
		if !p.at(TkSemi) {
			e, err := p.parseExpr(sc)
			if err != nil {
				return nil, err
			}
			val = e
		}
		st := &ReturnStmt{stmtAttrs{spanOf(start, p.tokens[p.pos-1], p.file)}, val}
		return st, p.maybeSemi(withSemi)
	case p.at(TkPrint):
		p.advance()
		e, err := p.parseExpr(sc)
		if err != nil {
			return nil, err
		}
		st := &PrintStmt{stmtAttrs{spanOf(start, p.tokens[p.pos-1], p.file)}, e}
		return st, p.maybeSemi(withSemi)
	case p.at(TkIf):
		return p.parseIfStmt(sc)
	case p.at(TkWhile):
		return p.parseWhileStmt(sc)
	case p.at(TkFor):
		return p.parseForStmt(sc)
	case p.at(TkBreak):
		p.advance()
		if !sc.inLoop {
			return nil, p.errTok(start, SyntaxError, "break outside of loop")
		}
		st := &BreakStmt{stmtAttrs{start.span(p.file)}}
		return st, p.maybeSemi(withSemi)
	case p.at(TkContinue):
		p.advance()
		if !sc.inLoop {
			return nil, p.errTok(start, SyntaxError, "continue outside of loop")
		}
		st := &ContinueStmt{stmtAttrs{start.span(p.file)}}
		return st, p.maybeSemi(withSemi)
	case p.at(TkIdentifier) && p.peekAt(1).Type == TkLParen:
		call, err := p.parseInvoke(sc)
		if err != nil {
			return nil, err
		}
		st := &ExprStmt{stmtAttrs{call.Span}, call}
		return st, p.maybeSemi(withSemi)
	case p.isTypeAhead(0):
		st, err := p.parseVarDecl(sc)
		if err != nil {
			return nil, err
		}
		return st, p.maybeSemi(withSemi)
	default:
		return p.parseAssignStmt(sc, withSemi)
	}
}

func (p *Parser) maybeSemi(withSemi bool) error {
	if !withSemi {
		return nil
	}
	_, err := p.expect(TkSemi)
	return err
}

func (p *Parser) parseVarDecl(sc *scope) (*VarDeclStmt, error) {
	start := p.cur()
	t, err := p.parseType()
	if err != nil {
		return nil, err
	}
	nameTok, err := p.expect(TkIdentifier)
	if err != nil {
		return nil, err
	}
	if sc.isDeclared(nameTok.Text) {
		return nil, p.errTok(nameTok, SyntaxError, "variable %q already declared", nameTok.Text)
	}
	var init Expr
	if p.at(TkAssign) {
		p.advance()
		e, err := p.parseExpr(sc)
		if err != nil {
			return nil, err
		}
		init = e
	}
	sc.vars[nameTok.Text] = true
	return &VarDeclStmt{stmtAttrs{spanOf(start, p.tokens[p.pos-1], p.file)}, t, nameTok.Text, init}, nil
}

func (p *Parser) parseAssignStmt(sc *scope, withSemi bool) (Stmt, error) {
	start := p.cur()
	lhs, err := p.parseExpr(sc)
	if err != nil {
		return nil, err
	}
	lval, ok := lhs.(LVal)
	if !ok {
		return nil, p.errTok(start, SyntaxError, "expected an assignable expression on the left of '='")
	}
	if _, err := p.expect(TkAssign); err != nil {
		return nil, err
	}
	rhs, err := p.parseExpr(sc)
	if err != nil {
		return nil, err
	}
	st := &AssignStmt{stmtAttrs{spanOf(start, p.tokens[p.pos-1], p.file)}, lval, rhs}
	return st, p.maybeSemi(withSemi)
}

func (p *Parser) parseIfStmt(sc *scope) (Stmt, error) {
	start := p.advance() // 'if'
	if _, err := p.expect(TkLParen); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr(sc)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TkRParen); err != nil {
		return nil, err
	}
	thenBlk, err := p.parseBlock(sc.clone())
	if err != nil {
		return nil, err
	}
	var elseBlk *Block
	if p.at(TkElse) {
		p.advance()
		if p.at(TkIf) {
			nested, err := p.parseIfStmt(sc)
			if err != nil {
				return nil, err
			}
			elseBlk = &Block{Span: nested.SpanOf(), Stmts: []Stmt{nested}}
		} else {
			elseBlk, err = p.parseBlock(sc.clone())
			if err != nil {
				return nil, err
			}
		}
	}
	return &IfStmt{stmtAttrs{spanOf(start, p.tokens[p.pos-1], p.file)}, cond, thenBlk, elseBlk}, nil
}

func (p *Parser) parseWhileStmt(sc *scope) (Stmt, error) {
	start := p.advance() // 'while'
	if _, err := p.expect(TkLParen); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr(sc)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TkRParen); err != nil {
		return nil, err
	}
	body, err := p.parseBlock(sc.loopClone())
	if err != nil {
		return nil, err
	}
	return &WhileStmt{stmtAttrs{spanOf(start, p.tokens[p.pos-1], p.file)}, cond, body}, nil
}

func (p *Parser) parseForStmt(sc *scope) (Stmt, error) {
	start := p.advance() // 'for'
	if _, err := p.expect(TkLParen); err != nil {
		return nil, err
	}
	// The loop-control scope is cloned up front so the induction variable
	// never leaks into the enclosing scope once the loop ends.
	loopScope := sc.clone()
	decl, err := p.parseVarDecl(loopScope)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TkSemi); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr(loopScope)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TkSemi); err != nil {
		return nil, err
	}
	step, err := p.parseStatement(loopScope, false)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TkRParen); err != nil {
		return nil, err
	}
	body, err := p.parseBlock(loopScope.loopClone())
	if err != nil {
		return nil, err
	}
	return &ForStmt{stmtAttrs{spanOf(start, p.tokens[p.pos-1], p.file)}, decl, cond, step, body}, nil
}

// ---------------------------------------------------------------------
// Expressions (precedence climbing, mirroring the grammar in spec.md §4.2)
// ---------------------------------------------------------------------

func (p *Parser) parseExpr(sc *scope) (Expr, error) {
	start := p.cur()
	lhs, err := p.parseRel(sc)
	if err != nil {
		return nil, err
	}
	var op BinOp
	switch {
	case p.at(TkAnd):
		op = AND
	case p.at(TkOr):
		op = OR
	default:
		return lhs, nil
	}
	p.advance()
	rhs, err := p.parseExpr(sc)
	if err != nil {
		return nil, err
	}
	return &BinaryExpr{exprAttrs{Span: spanOf(start, p.tokens[p.pos-1], p.file)}, op, lhs, rhs}, nil
}

func (p *Parser) parseRel(sc *scope) (Expr, error) {
	start := p.cur()
	lhs, err := p.parseAdd(sc)
	if err != nil {
		return nil, err
	}
	var op BinOp
	switch {
	case p.at(TkLtEq):
		op = LTEQ
	case p.at(TkLt):
		op = LT
	case p.at(TkGtEq):
		op = GTEQ
	case p.at(TkGt):
		op = GT
	case p.at(TkEq):
		op = EQ
	case p.at(TkNeq):
		op = NEQ
	default:
		return lhs, nil
	}
	p.advance()
	rhs, err := p.parseAdd(sc)
	if err != nil {
		return nil, err
	}
	return &BinaryExpr{exprAttrs{Span: spanOf(start, p.tokens[p.pos-1], p.file)}, op, lhs, rhs}, nil
}

func (p *Parser) parseAdd(sc *scope) (Expr, error) {
	start := p.cur()
	lhs, err := p.parseMul(sc)
	if err != nil {
		return nil, err
	}
	var op BinOp
	switch {
	case p.at(TkPlus):
		op = ADD
	case p.at(TkMinus):
		op = SUB
	default:
		return lhs, nil
	}
	p.advance()
	rhs, err := p.parseAdd(sc)
	if err != nil {
		return nil, err
	}
	return &BinaryExpr{exprAttrs{Span: spanOf(start, p.tokens[p.pos-1], p.file)}, op, lhs, rhs}, nil
}

func (p *Parser) parseMul(sc *scope) (Expr, error) {
	start := p.cur()
	lhs, err := p.parseIdx(sc)
	if err != nil {
		return nil, err
	}
	var op BinOp
	switch {
	case p.at(TkStar):
		op = MUL
	case p.at(TkSlash):
		op = DIV
	case p.at(TkPercent):
		op = REM
	default:
		return lhs, nil
	}
	p.advance()
	rhs, err := p.parseMul(sc)
	if err != nil {
		return nil, err
	}
	return &BinaryExpr{exprAttrs{Span: spanOf(start, p.tokens[p.pos-1], p.file)}, op, lhs, rhs}, nil
}

func (p *Parser) parseIdx(sc *scope) (Expr, error) {
	start := p.cur()
	lhs, err := p.parseTerm(sc)
	if err != nil {
		return nil, err
	}
	for p.at(TkLBracket) || p.at(TkDot) {
		if p.at(TkLBracket) {
			p.advance()
			idx, err := p.parseExpr(sc)
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(TkRBracket); err != nil {
				return nil, err
			}
			lhs = &IndexExpr{exprAttrs{Span: spanOf(start, p.tokens[p.pos-1], p.file)}, lhs, idx}
		} else {
			p.advance()
			nameTok, err := p.expect(TkIdentifier)
			if err != nil {
				return nil, err
			}
			lhs = &RecordAccessExpr{exprAttrs{Span: spanOf(start, p.tokens[p.pos-1], p.file)}, lhs, nameTok.Text}
		}
	}
	return lhs, nil
}

func (p *Parser) parseTerm(sc *scope) (Expr, error) {
	start := p.cur()
	switch {
	case p.at(TkLParen):
		p.advance()
		e, err := p.parseExpr(sc)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TkRParen); err != nil {
			return nil, err
		}
		return e, nil
	case p.at(TkIdentifier) && p.peekAt(1).Type == TkLParen:
		return p.parseInvoke(sc)
	case p.at(TkTrue):
		p.advance()
		return &ConstantExpr{exprAttrs{Span: start.span(p.file)}, BoolValue(true)}, nil
	case p.at(TkFalse):
		p.advance()
		return &ConstantExpr{exprAttrs{Span: start.span(p.file)}, BoolValue(false)}, nil
	case p.at(TkIdentifier):
		p.advance()
		if !sc.isDeclared(start.Text) {
			return nil, p.errTok(start, SyntaxError, "undeclared identifier %q", start.Text)
		}
		return &VariableExpr{exprAttrs{Span: start.span(p.file)}, start.Text}, nil
	case p.at(TkCharLiteral):
		p.advance()
		return &ConstantExpr{exprAttrs{Span: start.span(p.file)}, CharValue(start.CharVal)}, nil
	case p.at(TkIntLiteral):
		p.advance()
		return &ConstantExpr{exprAttrs{Span: start.span(p.file)}, IntValue(start.IntVal)}, nil
	case p.at(TkStringLiteral):
		p.advance()
		return &ConstantExpr{exprAttrs{Span: start.span(p.file)}, StringValue(start.StrVal)}, nil
	case p.at(TkMinus):
		return p.parseNeg(sc)
	case p.at(TkPipe):
		return p.parseLengthOf(sc)
	case p.at(TkLBracket):
		return p.parseArrayInitOrGen(sc)
	case p.at(TkLBrace):
		return p.parseRecordCtor(sc)
	case p.at(TkNot):
		p.advance()
		operand, err := p.parseTerm(sc)
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{exprAttrs{Span: spanOf(start, p.tokens[p.pos-1], p.file)}, NOT, operand}, nil
	default:
		return nil, p.errTok(start, SyntaxError, "unrecognised term %q", start.Text)
	}
}

func (p *Parser) parseNeg(sc *scope) (Expr, error) {
	start := p.advance() // '-'
	operand, err := p.parseIdx(sc)
	if err != nil {
		return nil, err
	}
	end := p.tokens[p.pos-1]
	if c, ok := operand.(*ConstantExpr); ok && c.Value.Kind == VInt {
		return &ConstantExpr{exprAttrs{Span: spanOf(start, end, p.file)}, IntValue(-c.Value.Int)}, nil
	}
	return &UnaryExpr{exprAttrs{Span: spanOf(start, end, p.file)}, NEG, operand}, nil
}

func (p *Parser) parseLengthOf(sc *scope) (Expr, error) {
	start := p.advance() // '|'
	operand, err := p.parseIdx(sc)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TkPipe); err != nil {
		return nil, err
	}
	return &UnaryExpr{exprAttrs{Span: spanOf(start, p.tokens[p.pos-1], p.file)}, LENGTHOF, operand}, nil
}

func (p *Parser) parseArrayInitOrGen(sc *scope) (Expr, error) {
	start := p.advance() // '['
	if p.at(TkRBracket) {
		p.advance()
		return &ArrayInitExpr{exprAttrs{Span: spanOf(start, p.tokens[p.pos-1], p.file)}, nil}, nil
	}
	first, err := p.parseExpr(sc)
	if err != nil {
		return nil, err
	}
	if p.at(TkSemi) {
		p.advance()
		size, err := p.parseExpr(sc)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TkRBracket); err != nil {
			return nil, err
		}
		return &ArrayGenExpr{exprAttrs{Span: spanOf(start, p.tokens[p.pos-1], p.file)}, first, size}, nil
	}
	elems := []Expr{first}
	for p.at(TkComma) {
		p.advance()
		e, err := p.parseExpr(sc)
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
	}
	if _, err := p.expect(TkRBracket); err != nil {
		return nil, err
	}
	return &ArrayInitExpr{exprAttrs{Span: spanOf(start, p.tokens[p.pos-1], p.file)}, elems}, nil
}

func (p *Parser) parseRecordCtor(sc *scope) (Expr, error) {
	start := p.advance() // '{'
	var fields []RecordFieldInit
	seen := map[string]bool{}
	for !p.at(TkRBrace) {
		if len(fields) > 0 {
			if _, err := p.expect(TkComma); err != nil {
				return nil, err
			}
		}
		nameTok, err := p.expect(TkIdentifier)
		if err != nil {
			return nil, err
		}
		if seen[nameTok.Text] {
			return nil, p.errTok(nameTok, SyntaxError, "duplicate field %q in record constructor", nameTok.Text)
		}
		seen[nameTok.Text] = true
		if _, err := p.expect(TkColon); err != nil {
			return nil, err
		}
		val, err := p.parseExpr(sc)
		if err != nil {
			return nil, err
		}
		fields = append(fields, RecordFieldInit{Name: nameTok.Text, Value: val})
	}
	end, err := p.expect(TkRBrace)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, p.errTok(start, SyntaxError, "record constructor must have at least one field")
	}
	return &RecordConstructorExpr{exprAttrs{Span: spanOf(start, end, p.file)}, fields}, nil
}

func (p *Parser) parseInvoke(sc *scope) (*InvokeExpr, error) {
	start := p.cur()
	nameTok, err := p.expect(TkIdentifier)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TkLParen); err != nil {
		return nil, err
	}
	var args []Expr
	for !p.at(TkRParen) {
		if len(args) > 0 {
			if _, err := p.expect(TkComma); err != nil {
				return nil, err
			}
		}
		a, err := p.parseExpr(sc)
		if err != nil {
			return nil, err
		}
		args = append(args, a)
	}
	end, err := p.expect(TkRParen)
	if err != nil {
		return nil, err
	}
	return &InvokeExpr{exprAttrs{Span: spanOf(start, end, p.file)}, nameTok.Text, args}, nil
}
