package compiler

// TypeCheck elaborates the AST produced by the parser: it resolves named
// types, enforces the operator typing and subtyping rules of spec.md
// §4.3, and attaches the computed type to every expression node. It runs
// in two phases over the file: buildTypeEnv registers every declaration
// up front (so methods and type aliases may be used before their textual
// declaration), then each method body is visited.
func TypeCheck(f *File) error {
	env := buildTypeEnv(f)
	for _, alias := range f.TypeAliases() {
		if err := validateTypeShape(env, alias.Body); err != nil {
			return err
		}
	}
	for _, m := range f.Methods() {
		if err := env.checkMethod(m); err != nil {
			return err
		}
	}
	return nil
}

// validateTypeShape resolves every named reference reachable from t so
// a typo'd alias is reported even if no method ever uses it.
func validateTypeShape(env *typeEnv, t *SynType) error {
	r, err := env.resolve(t)
	if err != nil {
		return err
	}
	switch r.Kind {
	case KArray:
		return validateTypeShape(env, r.Elem)
	case KRecord:
		for _, f := range r.Fields {
			if err := validateTypeShape(env, f.Type); err != nil {
				return err
			}
		}
	}
	return nil
}

func (env *typeEnv) checkMethod(m *MethodDecl) error {
	ve := newVarEnv(nil)
	for _, p := range m.Params {
		if err := env.checkNoVoid(p.Type); err != nil {
			return err
		}
		ve.declare(p.Name, p.Type)
	}
	return env.checkBlock(m.Body, ve, m.Return)
}

func (env *typeEnv) checkBlock(b *Block, parent *varEnv, ret *SynType) error {
	ve := newVarEnv(parent)
	for _, st := range b.Stmts {
		if err := env.checkStmt(st, ve, ret); err != nil {
			return err
		}
	}
	return nil
}

func (env *typeEnv) checkStmt(st Stmt, ve *varEnv, ret *SynType) error {
	switch s := st.(type) {
	case *AssertStmt:
		t, err := env.checkExpr(s.Cond, ve)
		if err != nil {
			return err
		}
		return env.requireKind(t, KBool, s.Cond.SpanOf(), "assert condition")
	case *AssignStmt:
		targetT, err := env.checkExpr(s.Target, ve)
		if err != nil {
			return err
		}
		valT, err := env.checkExpr(s.Value, ve)
		if err != nil {
			return err
		}
		return env.requireSubtype(valT, targetT, s.Value.SpanOf(), "assignment")
	case *VarDeclStmt:
		return env.checkVarDecl(s, ve)
	case *PrintStmt:
		_, err := env.checkExpr(s.Value, ve)
		return err
	case *ReturnStmt:
		return env.checkReturn(s, ve, ret)
	case *IfStmt:
		condT, err := env.checkExpr(s.Cond, ve)
		if err != nil {
			return err
		}
		if err := env.requireKind(condT, KBool, s.Cond.SpanOf(), "if condition"); err != nil {
			return err
		}
		if err := env.checkBlock(s.Then, ve, ret); err != nil {
			return err
		}
		if s.Else != nil {
			return env.checkBlock(s.Else, ve, ret)
		}
		return nil
	case *WhileStmt:
		condT, err := env.checkExpr(s.Cond, ve)
		if err != nil {
			return err
		}
		if err := env.requireKind(condT, KBool, s.Cond.SpanOf(), "while condition"); err != nil {
			return err
		}
		return env.checkBlock(s.Body, ve, ret)
	case *ForStmt:
		inner := newVarEnv(ve)
		if err := env.checkVarDecl(s.Decl, inner); err != nil {
			return err
		}
		condT, err := env.checkExpr(s.Cond, inner)
		if err != nil {
			return err
		}
		if err := env.requireKind(condT, KBool, s.Cond.SpanOf(), "for condition"); err != nil {
			return err
		}
		if err := env.checkStmt(s.Step, inner, ret); err != nil {
			return err
		}
		return env.checkBlock(s.Body, inner, ret)
	case *BreakStmt, *ContinueStmt:
		return nil
	case *ExprStmt:
		_, err := env.checkInvoke(s.Call, ve, true)
		return err
	default:
		return newDiag(InternalError, st.SpanOf(), "unhandled statement kind %T", st)
	}
}

func (env *typeEnv) checkVarDecl(s *VarDeclStmt, ve *varEnv) error {
	if err := env.checkNoVoid(s.Type); err != nil {
		return err
	}
	if s.Init != nil {
		initT, err := env.checkExpr(s.Init, ve)
		if err != nil {
			return err
		}
		if err := env.requireSubtype(initT, s.Type, s.Init.SpanOf(), "variable initialiser"); err != nil {
			return err
		}
	}
	ve.declare(s.Name, s.Type)
	return nil
}

func (env *typeEnv) checkReturn(s *ReturnStmt, ve *varEnv, ret *SynType) error {
	if s.Value == nil {
		ok, err := env.subtype(ret, primType(KVoid, s.Span))
		if err != nil {
			return err
		}
		if ret.Kind != KVoid && !ok {
			return newDiag(TypeError, s.Span, "bare return requires a void method, method returns %s", ret)
		}
		return nil
	}
	t, err := env.checkExpr(s.Value, ve)
	if err != nil {
		return err
	}
	return env.requireSubtype(t, ret, s.Value.SpanOf(), "return value")
}

func (env *typeEnv) requireKind(t *SynType, want TypeKind, span Span, ctx string) error {
	r, err := env.resolve(t)
	if err != nil {
		return err
	}
	if r.Kind != want {
		return newDiag(TypeError, span, "%s must have type %s, found %s", ctx, primType(want, span), t)
	}
	return nil
}

func (env *typeEnv) requireSubtype(have, want *SynType, span Span, ctx string) error {
	ok, err := env.subtype(have, want)
	if err != nil {
		return err
	}
	if !ok {
		return newDiag(TypeError, span, "%s: cannot use %s as %s", ctx, have, want)
	}
	return nil
}

// checkExpr attaches the computed type to e and every descendant, then
// returns that type.
func (env *typeEnv) checkExpr(e Expr, ve *varEnv) (*SynType, error) {
	t, err := env.inferExpr(e, ve)
	if err != nil {
		return nil, err
	}
	e.SetType(t)
	return t, nil
}

func (env *typeEnv) inferExpr(e Expr, ve *varEnv) (*SynType, error) {
	switch n := e.(type) {
	case *VariableExpr:
		t, ok := ve.lookup(n.Name)
		if !ok {
			return nil, newDiag(InternalError, n.Span, "variable %q escaped parser scoping", n.Name)
		}
		return t, nil
	case *ConstantExpr:
		return valueStaticType(n.Value, n.Span), nil
	case *BinaryExpr:
		return env.inferBinary(n, ve)
	case *UnaryExpr:
		return env.inferUnary(n, ve)
	case *IndexExpr:
		return env.inferIndex(n, ve)
	case *RecordAccessExpr:
		return env.inferRecordAccess(n, ve)
	case *RecordConstructorExpr:
		return env.inferRecordCtor(n, ve)
	case *ArrayInitExpr:
		return env.inferArrayInit(n, ve)
	case *ArrayGenExpr:
		return env.inferArrayGen(n, ve)
	case *InvokeExpr:
		return env.checkInvoke(n, ve, false)
	default:
		return nil, newDiag(InternalError, e.SpanOf(), "unhandled expression kind %T", e)
	}
}

func (env *typeEnv) inferBinary(n *BinaryExpr, ve *varEnv) (*SynType, error) {
	lt, err := env.checkExpr(n.Left, ve)
	if err != nil {
		return nil, err
	}
	rt, err := env.checkExpr(n.Right, ve)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case ADD, SUB, MUL, DIV, REM:
		if err := env.requireKind(lt, KInt, n.Left.SpanOf(), "arithmetic operand"); err != nil {
			return nil, err
		}
		if err := env.requireKind(rt, KInt, n.Right.SpanOf(), "arithmetic operand"); err != nil {
			return nil, err
		}
		return primType(KInt, n.Span), nil
	case LT, LTEQ, GT, GTEQ:
		if err := env.requireKind(lt, KInt, n.Left.SpanOf(), "comparison operand"); err != nil {
			return nil, err
		}
		if err := env.requireKind(rt, KInt, n.Right.SpanOf(), "comparison operand"); err != nil {
			return nil, err
		}
		return primType(KBool, n.Span), nil
	case EQ, NEQ:
		return primType(KBool, n.Span), nil
	case AND, OR:
		if err := env.requireKind(lt, KBool, n.Left.SpanOf(), "logical operand"); err != nil {
			return nil, err
		}
		if err := env.requireKind(rt, KBool, n.Right.SpanOf(), "logical operand"); err != nil {
			return nil, err
		}
		return primType(KBool, n.Span), nil
	default:
		return nil, newDiag(InternalError, n.Span, "unhandled binary operator")
	}
}

func (env *typeEnv) inferUnary(n *UnaryExpr, ve *varEnv) (*SynType, error) {
	t, err := env.checkExpr(n.Operand, ve)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case NOT:
		if err := env.requireKind(t, KBool, n.Operand.SpanOf(), "! operand"); err != nil {
			return nil, err
		}
		return primType(KBool, n.Span), nil
	case NEG:
		if err := env.requireKind(t, KInt, n.Operand.SpanOf(), "- operand"); err != nil {
			return nil, err
		}
		return primType(KInt, n.Span), nil
	case LENGTHOF:
		r, err := env.resolve(t)
		if err != nil {
			return nil, err
		}
		if r.Kind != KArray && r.Kind != KString {
			return nil, newDiag(TypeError, n.Operand.SpanOf(), "|e| requires an array or string, found %s", t)
		}
		return primType(KInt, n.Span), nil
	default:
		return nil, newDiag(InternalError, n.Span, "unhandled unary operator")
	}
}

func (env *typeEnv) inferIndex(n *IndexExpr, ve *varEnv) (*SynType, error) {
	st, err := env.checkExpr(n.Source, ve)
	if err != nil {
		return nil, err
	}
	it, err := env.checkExpr(n.Index, ve)
	if err != nil {
		return nil, err
	}
	if err := env.requireKind(it, KInt, n.Index.SpanOf(), "array index"); err != nil {
		return nil, err
	}
	r, err := env.resolve(st)
	if err != nil {
		return nil, err
	}
	switch r.Kind {
	case KArray:
		return r.Elem, nil
	case KString:
		return primType(KChar, n.Span), nil
	default:
		return nil, newDiag(TypeError, n.Source.SpanOf(), "cannot index into %s", st)
	}
}

func (env *typeEnv) inferRecordAccess(n *RecordAccessExpr, ve *varEnv) (*SynType, error) {
	st, err := env.checkExpr(n.Source, ve)
	if err != nil {
		return nil, err
	}
	r, err := env.resolve(st)
	if err != nil {
		return nil, err
	}
	if r.Kind != KRecord {
		return nil, newDiag(TypeError, n.Source.SpanOf(), "cannot access field %q of non-record type %s", n.Field, st)
	}
	for _, f := range r.Fields {
		if f.Name == n.Field {
			return f.Type, nil
		}
	}
	return nil, newDiag(TypeError, n.Span, "record %s has no field %q", st, n.Field)
}

func (env *typeEnv) inferRecordCtor(n *RecordConstructorExpr, ve *varEnv) (*SynType, error) {
	fields := make([]RecordField, len(n.Fields))
	for i, f := range n.Fields {
		t, err := env.checkExpr(f.Value, ve)
		if err != nil {
			return nil, err
		}
		fields[i] = RecordField{Type: t, Name: f.Name}
	}
	return &SynType{Kind: KRecord, Fields: fields, Span: n.Span}, nil
}

func (env *typeEnv) inferArrayInit(n *ArrayInitExpr, ve *varEnv) (*SynType, error) {
	if len(n.Elems) == 0 {
		return arrayOf(primType(KVoid, n.Span), n.Span), nil
	}
	types := make([]*SynType, len(n.Elems))
	for i, el := range n.Elems {
		t, err := env.checkExpr(el, ve)
		if err != nil {
			return nil, err
		}
		types[i] = t
	}
	elem, err := env.lub(types, n.Span)
	if err != nil {
		return nil, err
	}
	return arrayOf(elem, n.Span), nil
}

func (env *typeEnv) inferArrayGen(n *ArrayGenExpr, ve *varEnv) (*SynType, error) {
	vt, err := env.checkExpr(n.Value, ve)
	if err != nil {
		return nil, err
	}
	st, err := env.checkExpr(n.Size, ve)
	if err != nil {
		return nil, err
	}
	if err := env.requireKind(st, KInt, n.Size.SpanOf(), "array generator size"); err != nil {
		return nil, err
	}
	return arrayOf(vt, n.Span), nil
}

// checkInvoke type-checks a method call. asStmt permits a void-returning
// method (invoke-as-statement); in expression position a void return is
// a TypeError.
func (env *typeEnv) checkInvoke(n *InvokeExpr, ve *varEnv, asStmt bool) (*SynType, error) {
	m, ok := env.methods[n.Method]
	if !ok {
		return nil, newDiag(TypeError, n.Span, "call to undeclared method %q", n.Method)
	}
	if len(n.Args) != len(m.Params) {
		return nil, newDiag(TypeError, n.Span, "method %q expects %d argument(s), found %d", n.Method, len(m.Params), len(n.Args))
	}
	for i, arg := range n.Args {
		at, err := env.checkExpr(arg, ve)
		if err != nil {
			return nil, err
		}
		if err := env.requireSubtype(at, m.Params[i].Type, arg.SpanOf(), "argument"); err != nil {
			return nil, err
		}
	}
	if !asStmt && m.Return.Kind == KVoid {
		return nil, newDiag(TypeError, n.Span, "void method %q cannot be used as an expression", n.Method)
	}
	n.SetType(m.Return)
	return m.Return, nil
}
