package compiler

// CheckDefiniteAssignment implements the forward dataflow analysis of
// spec.md §4.5: a variable must be definitely assigned (declared with an
// initialiser, or assigned on every path reaching a use) before it is
// read. Parameters start definitely assigned; a freshly declared
// variable without an initialiser starts unassigned.
//
// defs is a set of variable names known to be assigned on every path
// reaching the current program point. Runs after CheckReachability per
// spec.md §2's listed pass order, so it can assume every method body is
// already known to be well-formed control flow.
type defs map[string]bool

func (d defs) clone() defs {
	out := make(defs, len(d))
	for k := range d {
		out[k] = true
	}
	return out
}

// state is the dataflow value threaded between statements: either a live
// defs set, or ⊥ (represented by a nil *defs) meaning no path reaches
// this program point at all, per spec.md §4.5's `return`/`continue`/
// `break` rules ("next = ⊥"). ⊥ is the identity element of the join:
// ⊓(⊥, x) = x.
type state = *defs

func live(d defs) state { return &d }

// cloneState copies a live state so mutating the copy (adding a freshly
// assigned variable) never affects a sibling branch that was handed the
// same incoming state. ⊥ clones to itself.
func cloneState(s state) state {
	if s == nil {
		return nil
	}
	c := (*s).clone()
	return &c
}

// intersect computes the join ⊓ of two dataflow states reached by
// alternative paths (if/else branches): a variable is definitely
// assigned after the join only if it was assigned on every incoming
// path that can actually reach this point. A branch that cannot reach
// this point at all (⊥, e.g. it ended in return/break/continue)
// contributes no constraint: ⊓(⊥, x) = x.
func intersect(a, b state) state {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	out := defs{}
	for k := range *a {
		if (*b)[k] {
			out[k] = true
		}
	}
	return &out
}

func CheckDefiniteAssignment(f *File) error {
	for _, m := range f.Methods() {
		d := defs{}
		for _, p := range m.Params {
			d[p.Name] = true
		}
		if _, err := checkBlockAssign(m.Body, live(d)); err != nil {
			return err
		}
	}
	return nil
}

func checkBlockAssign(b *Block, in state) (state, error) {
	cur := in
	for _, st := range b.Stmts {
		if cur == nil {
			// ⊥: nothing reaches the remaining statements. Unreachable
			// per CheckReachability, which already runs before this
			// pass, so this cannot actually trigger on a program that
			// gets this far — but a statement-less terminated state must
			// still not be fed to checkStmtAssign, which assumes a live
			// incoming set.
			break
		}
		var err error
		cur, err = checkStmtAssign(st, cur)
		if err != nil {
			return nil, err
		}
	}
	return cur, nil
}

func checkStmtAssign(st Stmt, in state) (state, error) {
	switch s := st.(type) {
	case *AssertStmt:
		if err := checkExprAssign(s.Cond, in); err != nil {
			return nil, err
		}
		return in, nil
	case *VarDeclStmt:
		out := cloneState(in)
		if s.Init != nil {
			if err := checkExprAssign(s.Init, in); err != nil {
				return nil, err
			}
			(*out)[s.Name] = true
		}
		return out, nil
	case *AssignStmt:
		if err := checkExprAssign(s.Value, in); err != nil {
			return nil, err
		}
		out := in
		if v, ok := s.Target.(*VariableExpr); ok {
			out = cloneState(in)
			(*out)[v.Name] = true
		} else if err := checkExprAssign(s.Target, in); err != nil {
			// Indexed/field assignment targets still read their base
			// expression (e.g. `a[i] = ...` reads `a` and `i`).
			return nil, err
		}
		return out, nil
	case *PrintStmt:
		if err := checkExprAssign(s.Value, in); err != nil {
			return nil, err
		}
		return in, nil
	case *ReturnStmt:
		if s.Value != nil {
			if err := checkExprAssign(s.Value, in); err != nil {
				return nil, err
			}
		}
		// return: next = ⊥, per spec.md §4.5.
		return nil, nil
	case *IfStmt:
		if err := checkExprAssign(s.Cond, in); err != nil {
			return nil, err
		}
		thenOut, err := checkBlockAssign(s.Then, in)
		if err != nil {
			return nil, err
		}
		if s.Else == nil {
			return intersect(thenOut, in), nil
		}
		elseOut, err := checkBlockAssign(s.Else, in)
		if err != nil {
			return nil, err
		}
		return intersect(thenOut, elseOut), nil
	case *WhileStmt:
		if err := checkExprAssign(s.Cond, in); err != nil {
			return nil, err
		}
		// The loop body may run zero times, so nothing it assigns is
		// guaranteed after the loop; it is still checked using `in` as
		// its own entry state.
		if _, err := checkBlockAssign(s.Body, in); err != nil {
			return nil, err
		}
		return in, nil
	case *ForStmt:
		declOut, err := checkStmtAssign(s.Decl, in)
		if err != nil {
			return nil, err
		}
		if err := checkExprAssign(s.Cond, declOut); err != nil {
			return nil, err
		}
		if _, err := checkBlockAssign(s.Body, declOut); err != nil {
			return nil, err
		}
		if _, err := checkStmtAssign(s.Step, declOut); err != nil {
			return nil, err
		}
		return in, nil
	case *BreakStmt, *ContinueStmt:
		// break/continue: next = ⊥, per spec.md §4.5.
		return nil, nil
	case *ExprStmt:
		if err := checkExprAssign(s.Call, in); err != nil {
			return nil, err
		}
		return in, nil
	default:
		return in, nil
	}
}

func checkExprAssign(e Expr, in state) error {
	switch n := e.(type) {
	case *VariableExpr:
		if !(*in)[n.Name] {
			return newDiag(DefiniteAssignmentError, n.Span, "variable %q may not be assigned before this use", n.Name)
		}
		return nil
	case *ConstantExpr:
		return nil
	case *BinaryExpr:
		if err := checkExprAssign(n.Left, in); err != nil {
			return err
		}
		return checkExprAssign(n.Right, in)
	case *UnaryExpr:
		return checkExprAssign(n.Operand, in)
	case *IndexExpr:
		if err := checkExprAssign(n.Source, in); err != nil {
			return err
		}
		return checkExprAssign(n.Index, in)
	case *RecordAccessExpr:
		return checkExprAssign(n.Source, in)
	case *RecordConstructorExpr:
		for _, f := range n.Fields {
			if err := checkExprAssign(f.Value, in); err != nil {
				return err
			}
		}
		return nil
	case *ArrayInitExpr:
		for _, el := range n.Elems {
			if err := checkExprAssign(el, in); err != nil {
				return err
			}
		}
		return nil
	case *ArrayGenExpr:
		if err := checkExprAssign(n.Value, in); err != nil {
			return err
		}
		return checkExprAssign(n.Size, in)
	case *InvokeExpr:
		for _, a := range n.Args {
			if err := checkExprAssign(a, in); err != nil {
				return err
			}
		}
		return nil
	default:
		return newDiag(InternalError, e.SpanOf(), "unhandled expression kind %T", e)
	}
}
