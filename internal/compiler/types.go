package compiler

// typeEnv holds the declarations visible to the type checker: the body of
// every type alias and every method signature, registered in a first
// phase so bodies can be checked in a second phase with full forward
// visibility (spec.md §4.3).
type typeEnv struct {
	aliases map[string]*SynType
	methods map[string]*MethodDecl
}

func buildTypeEnv(f *File) *typeEnv {
	env := &typeEnv{aliases: map[string]*SynType{}, methods: map[string]*MethodDecl{}}
	for _, d := range f.Decls {
		switch n := d.(type) {
		case *TypeAliasDecl:
			env.aliases[n.Name] = n.Body
		case *MethodDecl:
			env.methods[n.Name] = n
		}
	}
	return env
}

// resolve unfolds a Named type through the alias table once, then
// recurses, until it reaches a non-Named body. Named-type resolution
// needs no fixed-point solver: every alias's body was already parsed in
// full, and spec.md's invariants rule out a direct `type X is X` cycle.
func (env *typeEnv) resolve(t *SynType) (*SynType, error) {
	if t.Kind != KNamed {
		return t, nil
	}
	body, ok := env.aliases[t.Name]
	if !ok {
		return nil, newDiag(TypeError, t.Span, "unknown type %q", t.Name)
	}
	return env.resolve(body)
}

// subtype implements the reflexive, transitive relation from spec.md
// §4.3: void is bottom, primitives are subtypes of themselves, arrays
// are covariant, and records support width+depth subtyping by field
// prefix with significant ordering.
func (env *typeEnv) subtype(a, b *SynType) (bool, error) {
	ra, err := env.resolve(a)
	if err != nil {
		return false, err
	}
	rb, err := env.resolve(b)
	if err != nil {
		return false, err
	}
	if ra.Kind == KVoid {
		return true, nil
	}
	if ra.Kind != rb.Kind {
		return false, nil
	}
	switch ra.Kind {
	case KBool, KInt, KChar, KString:
		return true, nil
	case KArray:
		return env.subtype(ra.Elem, rb.Elem)
	case KRecord:
		if len(ra.Fields) < len(rb.Fields) {
			return false, nil
		}
		for i := range rb.Fields {
			if ra.Fields[i].Name != rb.Fields[i].Name {
				return false, nil
			}
			ok, err := env.subtype(ra.Fields[i].Type, rb.Fields[i].Type)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	default:
		return false, nil
	}
}

// lub computes the simplified least-upper-bound used to type array
// initialisers: start from void (bottom) and fold left-to-right,
// requiring every element to be comparable with the running accumulator.
func (env *typeEnv) lub(types []*SynType, fallback Span) (*SynType, error) {
	acc := primType(KVoid, fallback)
	for _, t := range types {
		ok, err := env.subtype(acc, t)
		if err != nil {
			return nil, err
		}
		if ok {
			acc = t
			continue
		}
		ok2, err := env.subtype(t, acc)
		if err != nil {
			return nil, err
		}
		if !ok2 {
			return nil, newDiag(TypeError, t.Span, "array initialiser element of type %s is incompatible with %s", t, acc)
		}
	}
	return acc, nil
}

// checkNoVoid rejects void anywhere it is not permitted: as a variable's,
// parameter's, array element's, or record field's declared type. Method
// return types are exempt and are not passed through this check.
func (env *typeEnv) checkNoVoid(t *SynType) error {
	r, err := env.resolve(t)
	if err != nil {
		return err
	}
	switch r.Kind {
	case KVoid:
		return newDiag(TypeError, t.Span, "void is not permitted here")
	case KArray:
		return env.checkNoVoid(r.Elem)
	case KRecord:
		for _, f := range r.Fields {
			if err := env.checkNoVoid(f.Type); err != nil {
				return err
			}
		}
	}
	return nil
}

func arrayOf(elem *SynType, span Span) *SynType {
	return &SynType{Kind: KArray, Elem: elem, Span: span}
}

func valueStaticType(v Value, span Span) *SynType {
	switch v.Kind {
	case VBool:
		return primType(KBool, span)
	case VInt:
		return primType(KInt, span)
	case VChar:
		return primType(KChar, span)
	case VString:
		return primType(KString, span)
	default: // VNull
		return primType(KVoid, span)
	}
}

// varEnv is a block-scoped mapping from variable name to declared type.
// Each block gets a fresh varEnv parented at the enclosing one, so
// declarations never leak out, mirroring the parser's scope.
type varEnv struct {
	parent *varEnv
	vars   map[string]*SynType
}

func newVarEnv(parent *varEnv) *varEnv {
	return &varEnv{parent: parent, vars: map[string]*SynType{}}
}

func (e *varEnv) declare(name string, t *SynType) { e.vars[name] = t }

func (e *varEnv) lookup(name string) (*SynType, bool) {
	for cur := e; cur != nil; cur = cur.parent {
		if t, ok := cur.vars[name]; ok {
			return t, true
		}
	}
	return nil, false
}
