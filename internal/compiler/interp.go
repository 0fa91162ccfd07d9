package compiler

import "io"

// Interp is a tree-walking interpreter over a type-checked, reachability-
// and definite-assignment-clean File. It evaluates the implicit entry
// point convention described in SPEC_FULL.md: a zero-argument method
// named `main` is located, invoked, and (if it returns non-void) its
// result is printed exactly as `print main();` would run.
type Interp struct {
	methods map[string]*MethodDecl
	out     io.Writer
}

func NewInterp(f *File, out io.Writer) *Interp {
	it := &Interp{methods: map[string]*MethodDecl{}, out: out}
	for _, m := range f.Methods() {
		it.methods[m.Name] = m
	}
	return it
}

// Run locates the `main` method and executes the driver convention: if
// its return type is non-void, the result is printed exactly as
// `print main();` would run; otherwise `main()` is simply called. A
// missing `main` is not itself an error — per spec.md §3, a file with
// no entry point still compiles successfully, it just has nothing to
// run. ran reports whether a main method was found and executed.
func (it *Interp) Run() (ran bool, err error) {
	m, ok := it.methods["main"]
	if !ok {
		return false, nil
	}
	if len(m.Params) != 0 {
		return false, newDiag(RuntimeError, Span{}, "method \"main\" must take no arguments")
	}
	v, err := it.call(m, nil)
	if err != nil {
		return false, err
	}
	if m.Return.Kind != KVoid {
		io.WriteString(it.out, Display(v)+"\n")
	}
	return true, nil
}

// frame is one method activation: a chain of block-scoped variable maps.
type frame struct {
	parent *frame
	vars   map[string]*Value
}

func newFrame(parent *frame) *frame {
	return &frame{parent: parent, vars: map[string]*Value{}}
}

func (fr *frame) declare(name string, v Value) { fr.vars[name] = &v }

func (fr *frame) lookup(name string) *Value {
	for cur := fr; cur != nil; cur = cur.parent {
		if v, ok := cur.vars[name]; ok {
			return v
		}
	}
	return nil
}

// signal is the sentinel threaded back up through block/statement
// execution to implement return, break and continue without Go
// exceptions: spec.md's tree-walker propagates control out of nested
// blocks this way rather than via panic/recover.
type signalKind int

const (
	sigNone signalKind = iota
	sigReturn
	sigBreak
	sigContinue
)

type signal struct {
	kind signalKind
	val  Value
}

func (it *Interp) call(m *MethodDecl, args []Value) (Value, error) {
	fr := newFrame(nil)
	for i, p := range m.Params {
		fr.declare(p.Name, CloneValue(args[i]))
	}
	sig, err := it.execBlock(m.Body, fr)
	if err != nil {
		return Value{}, err
	}
	if sig.kind == sigReturn {
		return sig.val, nil
	}
	return NullValue(), nil
}

func (it *Interp) execBlock(b *Block, parent *frame) (signal, error) {
	fr := newFrame(parent)
	for _, st := range b.Stmts {
		sig, err := it.execStmt(st, fr)
		if err != nil {
			return signal{}, err
		}
		if sig.kind != sigNone {
			return sig, nil
		}
	}
	return signal{kind: sigNone}, nil
}

func (it *Interp) execStmt(st Stmt, fr *frame) (signal, error) {
	switch s := st.(type) {
	case *AssertStmt:
		v, err := it.eval(s.Cond, fr)
		if err != nil {
			return signal{}, err
		}
		if !v.Bool {
			return signal{}, newDiag(RuntimeError, s.Span, "assertion failed")
		}
		return signal{kind: sigNone}, nil
	case *VarDeclStmt:
		v := zeroValue(s.Type)
		if s.Init != nil {
			val, err := it.eval(s.Init, fr)
			if err != nil {
				return signal{}, err
			}
			v = CloneValue(val)
		}
		fr.declare(s.Name, v)
		return signal{kind: sigNone}, nil
	case *AssignStmt:
		val, err := it.eval(s.Value, fr)
		if err != nil {
			return signal{}, err
		}
		if err := it.assign(s.Target, CloneValue(val), fr); err != nil {
			return signal{}, err
		}
		return signal{kind: sigNone}, nil
	case *PrintStmt:
		v, err := it.eval(s.Value, fr)
		if err != nil {
			return signal{}, err
		}
		io.WriteString(it.out, Display(v)+"\n")
		return signal{kind: sigNone}, nil
	case *ReturnStmt:
		if s.Value == nil {
			return signal{kind: sigReturn, val: NullValue()}, nil
		}
		v, err := it.eval(s.Value, fr)
		if err != nil {
			return signal{}, err
		}
		return signal{kind: sigReturn, val: CloneValue(v)}, nil
	case *IfStmt:
		cond, err := it.eval(s.Cond, fr)
		if err != nil {
			return signal{}, err
		}
		if cond.Bool {
			return it.execBlock(s.Then, fr)
		}
		if s.Else != nil {
			return it.execBlock(s.Else, fr)
		}
		return signal{kind: sigNone}, nil
	case *WhileStmt:
		for {
			cond, err := it.eval(s.Cond, fr)
			if err != nil {
				return signal{}, err
			}
			if !cond.Bool {
				return signal{kind: sigNone}, nil
			}
			sig, err := it.execBlock(s.Body, fr)
			if err != nil {
				return signal{}, err
			}
			switch sig.kind {
			case sigBreak:
				return signal{kind: sigNone}, nil
			case sigReturn:
				return sig, nil
			}
		}
	case *ForStmt:
		inner := newFrame(fr)
		if _, err := it.execStmt(s.Decl, inner); err != nil {
			return signal{}, err
		}
		for {
			cond, err := it.eval(s.Cond, inner)
			if err != nil {
				return signal{}, err
			}
			if !cond.Bool {
				return signal{kind: sigNone}, nil
			}
			sig, err := it.execBlock(s.Body, inner)
			if err != nil {
				return signal{}, err
			}
			switch sig.kind {
			case sigBreak:
				return signal{kind: sigNone}, nil
			case sigReturn:
				return sig, nil
			}
			if _, err := it.execStmt(s.Step, inner); err != nil {
				return signal{}, err
			}
		}
	case *BreakStmt:
		return signal{kind: sigBreak}, nil
	case *ContinueStmt:
		return signal{kind: sigContinue}, nil
	case *ExprStmt:
		if _, err := it.evalInvoke(s.Call, fr); err != nil {
			return signal{}, err
		}
		return signal{kind: sigNone}, nil
	default:
		return signal{}, newDiag(InternalError, st.SpanOf(), "unhandled statement kind %T", st)
	}
}

// assign writes val into the storage addressed by target, which the
// type checker has already verified is an LVal (variable, index or
// record-field access).
func (it *Interp) assign(target LVal, val Value, fr *frame) error {
	switch t := target.(type) {
	case *VariableExpr:
		p := fr.lookup(t.Name)
		if p == nil {
			return newDiag(InternalError, t.Span, "variable %q escaped definite-assignment scoping", t.Name)
		}
		*p = val
		return nil
	case *IndexExpr:
		src, err := it.eval(t.Source, fr)
		if err != nil {
			return err
		}
		idxV, err := it.eval(t.Index, fr)
		if err != nil {
			return err
		}
		idx := int(idxV.Int)
		if idx < 0 || idx >= len(src.Elems) {
			return newDiag(RuntimeError, t.Span, "array index %d out of bounds for length %d", idx, len(src.Elems))
		}
		// src.Elems aliases the same backing array as the variable it
		// came from, so mutating it here is visible through every other
		// reference to the same array without an explicit write-back.
		src.Elems[idx] = val
		return nil
	case *RecordAccessExpr:
		src, err := it.eval(t.Source, fr)
		if err != nil {
			return err
		}
		src.SetFieldByName(t.Field, val)
		return it.writeBack(t.Source, src, fr)
	default:
		return newDiag(InternalError, target.SpanOf(), "unhandled lvalue kind %T", target)
	}
}

// writeBack stores a mutated copy of an LVal's base value back into its
// origin (a variable slot, or recursively another index/field access),
// since re-evaluating `eval` for a nested LVal yields an independent
// Value header even though the underlying slice/record storage is
// shared.
func (it *Interp) writeBack(base Expr, v Value, fr *frame) error {
	switch b := base.(type) {
	case *VariableExpr:
		p := fr.lookup(b.Name)
		if p == nil {
			return newDiag(InternalError, b.Span, "variable %q escaped definite-assignment scoping", b.Name)
		}
		*p = v
		return nil
	case *IndexExpr, *RecordAccessExpr:
		// The nested container's slice/field storage is shared by
		// reference, so no further write-back is needed once the leaf
		// mutation above has been applied in place.
		return nil
	default:
		return newDiag(InternalError, base.SpanOf(), "unsupported lvalue base %T", base)
	}
}

func zeroValue(t *SynType) Value {
	switch t.Kind {
	case KBool:
		return BoolValue(false)
	case KInt:
		return IntValue(0)
	case KChar:
		return CharValue(0)
	case KString:
		return StringValue("")
	case KArray:
		return ArrayValue(nil)
	case KRecord:
		fields := make([]FieldValue, len(t.Fields))
		for i, f := range t.Fields {
			fields[i] = FieldValue{Name: f.Name, Value: zeroValue(f.Type)}
		}
		return RecordValue(fields)
	default:
		return NullValue()
	}
}

func (it *Interp) eval(e Expr, fr *frame) (Value, error) {
	switch n := e.(type) {
	case *VariableExpr:
		p := fr.lookup(n.Name)
		if p == nil {
			return Value{}, newDiag(InternalError, n.Span, "variable %q escaped definite-assignment scoping", n.Name)
		}
		return *p, nil
	case *ConstantExpr:
		return n.Value, nil
	case *BinaryExpr:
		return it.evalBinary(n, fr)
	case *UnaryExpr:
		return it.evalUnary(n, fr)
	case *IndexExpr:
		src, err := it.eval(n.Source, fr)
		if err != nil {
			return Value{}, err
		}
		idxV, err := it.eval(n.Index, fr)
		if err != nil {
			return Value{}, err
		}
		idx := int(idxV.Int)
		if src.Kind == VString {
			if idx < 0 || idx >= len(src.Str) {
				return Value{}, newDiag(RuntimeError, n.Span, "string index %d out of bounds for length %d", idx, len(src.Str))
			}
			return CharValue(src.Str[idx]), nil
		}
		if idx < 0 || idx >= len(src.Elems) {
			return Value{}, newDiag(RuntimeError, n.Span, "array index %d out of bounds for length %d", idx, len(src.Elems))
		}
		return src.Elems[idx], nil
	case *RecordAccessExpr:
		src, err := it.eval(n.Source, fr)
		if err != nil {
			return Value{}, err
		}
		v, _ := src.FieldByName(n.Field)
		return v, nil
	case *RecordConstructorExpr:
		fields := make([]FieldValue, len(n.Fields))
		for i, f := range n.Fields {
			v, err := it.eval(f.Value, fr)
			if err != nil {
				return Value{}, err
			}
			fields[i] = FieldValue{Name: f.Name, Value: CloneValue(v)}
		}
		return RecordValue(fields), nil
	case *ArrayInitExpr:
		elems := make([]Value, len(n.Elems))
		for i, el := range n.Elems {
			v, err := it.eval(el, fr)
			if err != nil {
				return Value{}, err
			}
			elems[i] = CloneValue(v)
		}
		return ArrayValue(elems), nil
	case *ArrayGenExpr:
		v, err := it.eval(n.Value, fr)
		if err != nil {
			return Value{}, err
		}
		sizeV, err := it.eval(n.Size, fr)
		if err != nil {
			return Value{}, err
		}
		size := int(sizeV.Int)
		if size < 0 {
			return Value{}, newDiag(RuntimeError, n.Span, "array generator size %d is negative", size)
		}
		elems := make([]Value, size)
		for i := range elems {
			elems[i] = CloneValue(v)
		}
		return ArrayValue(elems), nil
	case *InvokeExpr:
		return it.evalInvoke(n, fr)
	default:
		return Value{}, newDiag(InternalError, e.SpanOf(), "unhandled expression kind %T", e)
	}
}

func (it *Interp) evalInvoke(n *InvokeExpr, fr *frame) (Value, error) {
	m, ok := it.methods[n.Method]
	if !ok {
		return Value{}, newDiag(InternalError, n.Span, "call to undeclared method %q", n.Method)
	}
	args := make([]Value, len(n.Args))
	for i, a := range n.Args {
		v, err := it.eval(a, fr)
		if err != nil {
			return Value{}, err
		}
		args[i] = v
	}
	return it.call(m, args)
}

func (it *Interp) evalBinary(n *BinaryExpr, fr *frame) (Value, error) {
	// && and || short-circuit: the right operand is only evaluated if
	// the left does not already determine the result.
	if n.Op == AND {
		l, err := it.eval(n.Left, fr)
		if err != nil {
			return Value{}, err
		}
		if !l.Bool {
			return BoolValue(false), nil
		}
		return it.eval(n.Right, fr)
	}
	if n.Op == OR {
		l, err := it.eval(n.Left, fr)
		if err != nil {
			return Value{}, err
		}
		if l.Bool {
			return BoolValue(true), nil
		}
		return it.eval(n.Right, fr)
	}

	l, err := it.eval(n.Left, fr)
	if err != nil {
		return Value{}, err
	}
	r, err := it.eval(n.Right, fr)
	if err != nil {
		return Value{}, err
	}
	switch n.Op {
	case ADD:
		return IntValue(l.Int + r.Int), nil
	case SUB:
		return IntValue(l.Int - r.Int), nil
	case MUL:
		return IntValue(l.Int * r.Int), nil
	case DIV:
		if r.Int == 0 {
			return Value{}, newDiag(RuntimeError, n.Span, "division by zero")
		}
		return IntValue(l.Int / r.Int), nil
	case REM:
		if r.Int == 0 {
			return Value{}, newDiag(RuntimeError, n.Span, "division by zero")
		}
		return IntValue(l.Int % r.Int), nil
	case LT:
		return BoolValue(l.Int < r.Int), nil
	case LTEQ:
		return BoolValue(l.Int <= r.Int), nil
	case GT:
		return BoolValue(l.Int > r.Int), nil
	case GTEQ:
		return BoolValue(l.Int >= r.Int), nil
	case EQ:
		return BoolValue(ValuesEqual(l, r)), nil
	case NEQ:
		return BoolValue(!ValuesEqual(l, r)), nil
	default:
		return Value{}, newDiag(InternalError, n.Span, "unhandled binary operator")
	}
}

func (it *Interp) evalUnary(n *UnaryExpr, fr *frame) (Value, error) {
	v, err := it.eval(n.Operand, fr)
	if err != nil {
		return Value{}, err
	}
	switch n.Op {
	case NOT:
		return BoolValue(!v.Bool), nil
	case NEG:
		return IntValue(-v.Int), nil
	case LENGTHOF:
		if v.Kind == VString {
			return IntValue(int32(len(v.Str))), nil
		}
		return IntValue(int32(len(v.Elems))), nil
	default:
		return Value{}, newDiag(InternalError, n.Span, "unhandled unary operator")
	}
}
