package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func checkSrc(t *testing.T, src string) error {
	t.Helper()
	f, err := Parse("t.while", src)
	assert.Nil(t, err)
	return TypeCheck(f)
}

func TestTypeCheck_ValidPrograms(t *testing.T) {
	testData := []string{
		`int main() { return 1 + 2; }`,
		`bool main() { return 1 < 2 && true; }`,
		`int main() { int[] a = [1, 2, 3]; return a[0]; }`,
		`int main() { int[] a = []; return |a|; }`,
		`type Point is {int x, int y}
		 int main() { Point p = {x: 1, y: 2}; return p.x; }`,
		`int add(int a, int b) { return a + b; }
		 int main() { return add(1, 2); }`,
		`void log(int x) { print x; }
		 int main() { log(1); return 0; }`,
		`int main() { int[] a = [1, 2]; int[] b = []; return |a| + |b|; }`,
	}
	for _, src := range testData {
		assert.Nil(t, checkSrc(t, src), src)
	}
}

func TestTypeCheck_RejectsMismatch(t *testing.T) {
	testData := []string{
		`int main() { return true; }`,
		`int main() { int x = "hello"; return x; }`,
		`bool main() { return 1 + true; }`,
		`int main() { int x = add(1, true); return x; }
		 int add(int a, int b) { return a + b; }`,
		`int main() { return undeclared(); }`,
		`void f() { } int main() { int x = f(); return x; }`,
	}
	for _, src := range testData {
		assert.NotNil(t, checkSrc(t, src), src)
	}
}

func TestTypeCheck_RecordWidthSubtyping(t *testing.T) {
	// A record with extra trailing fields is a subtype of the narrower
	// prefix, per the structural width+depth rule.
	src := `int takesNarrow({int x} p) { return p.x; }
	        int main() { return takesNarrow({x: 1, y: 2}); }`
	assert.Nil(t, checkSrc(t, src))
}

func TestTypeCheck_ArrayInitLUB(t *testing.T) {
	// Every element must be mutually comparable via subtype for the fold
	// to succeed; mixing int and bool must fail.
	assert.NotNil(t, checkSrc(t, `int main() { int[] a = [1, true]; return 0; }`))
}

func TestTypeCheck_VoidNotPermittedInDecl(t *testing.T) {
	assert.NotNil(t, checkSrc(t, `void main() { void x; }`))
}

func TestTypeCheck_BareReturnRequiresVoidMethod(t *testing.T) {
	assert.NotNil(t, checkSrc(t, `int main() { return; }`))
	assert.Nil(t, checkSrc(t, `void main() { return; }`))
}
