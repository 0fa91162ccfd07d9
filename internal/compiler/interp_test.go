package compiler

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func run(t *testing.T, src string) (string, error) {
	t.Helper()
	f, err := Parse("t.while", src)
	assert.Nil(t, err)
	assert.Nil(t, TypeCheck(f))
	assert.Nil(t, CheckReachability(f))
	assert.Nil(t, CheckDefiniteAssignment(f))
	var buf bytes.Buffer
	_, err = NewInterp(f, &buf).Run()
	return buf.String(), err
}

func TestInterp_MissingMainIsNotAnError(t *testing.T) {
	f, err := Parse("t.while", `int add(int a, int b) { return a + b; }`)
	assert.Nil(t, err)
	assert.Nil(t, TypeCheck(f))
	assert.Nil(t, CheckReachability(f))
	assert.Nil(t, CheckDefiniteAssignment(f))
	var buf bytes.Buffer
	ran, err := NewInterp(f, &buf).Run()
	assert.Nil(t, err)
	assert.False(t, ran)
	assert.Equal(t, "", buf.String())
}

func TestInterp_ArithmeticPrecedence(t *testing.T) {
	out, err := run(t, `int main() { return 2 + 3 * 4; }`)
	assert.Nil(t, err)
	assert.Equal(t, "14\n", out)
}

func TestInterp_ShortCircuitAnd(t *testing.T) {
	// The right side must never run: calling it would trigger a division
	// by zero if evaluated.
	src := `bool bomb() { int x = 1 / 0; return true; }
	        bool main() { return false && bomb(); }`
	out, err := run(t, src)
	assert.Nil(t, err)
	assert.Equal(t, "false\n", out)
}

func TestInterp_ShortCircuitOr(t *testing.T) {
	src := `bool bomb() { int x = 1 / 0; return true; }
	        bool main() { return true || bomb(); }`
	out, err := run(t, src)
	assert.Nil(t, err)
	assert.Equal(t, "true\n", out)
}

func TestInterp_ArrayValueSemanticsCopyOnAssign(t *testing.T) {
	src := `int main() {
		int[] a = [1, 2, 3];
		int[] b = a;
		b[0] = 99;
		return a[0];
	}`
	out, err := run(t, src)
	assert.Nil(t, err)
	assert.Equal(t, "1\n", out)
}

func TestInterp_ArrayElementAssignMutatesInPlace(t *testing.T) {
	src := `int main() {
		int[] a = [1, 2, 3];
		a[1] = 42;
		return a[1];
	}`
	out, err := run(t, src)
	assert.Nil(t, err)
	assert.Equal(t, "42\n", out)
}

func TestInterp_RecordOrderedFieldPrint(t *testing.T) {
	src := `type P is {int x, int y}
	         void main() { P p = {y: 2, x: 1}; print p; }`
	out, err := run(t, src)
	assert.Nil(t, err)
	assert.Equal(t, "{x:1,y:2}\n", out)
}

func TestInterp_DivisionByZero(t *testing.T) {
	_, err := run(t, `int main() { return 1 / 0; }`)
	assert.NotNil(t, err)
	diag, ok := err.(*Diagnostic)
	assert.True(t, ok)
	assert.Equal(t, RuntimeError, diag.Kind)
}

func TestInterp_ArrayIndexOutOfBounds(t *testing.T) {
	_, err := run(t, `int main() { int[] a = [1]; return a[5]; }`)
	assert.NotNil(t, err)
	diag, ok := err.(*Diagnostic)
	assert.True(t, ok)
	assert.Equal(t, RuntimeError, diag.Kind)
}

func TestInterp_AssertFailure(t *testing.T) {
	_, err := run(t, `void main() { assert false; }`)
	assert.NotNil(t, err)
}

func TestInterp_EmptyArrayLength(t *testing.T) {
	out, err := run(t, `int main() { int[] a = []; return |a|; }`)
	assert.Nil(t, err)
	assert.Equal(t, "0\n", out)
}

func TestInterp_ForLoopSum(t *testing.T) {
	src := `int main() {
		int sum = 0;
		for (int i = 0; i < 5; i = i + 1) {
			sum = sum + i;
		}
		return sum;
	}`
	out, err := run(t, src)
	assert.Nil(t, err)
	assert.Equal(t, "10\n", out)
}

func TestInterp_BreakExitsLoop(t *testing.T) {
	src := `int main() {
		int i = 0;
		while (true) {
			if (i == 3) { break; }
			i = i + 1;
		}
		return i;
	}`
	out, err := run(t, src)
	assert.Nil(t, err)
	assert.Equal(t, "3\n", out)
}

func TestInterp_MethodCallCloneSemantics(t *testing.T) {
	// Mutating a parameter inside a callee must not affect the caller's
	// array, since arguments are cloned at the call boundary.
	src := `void mutate(int[] a) { a[0] = 99; }
	        int main() {
			int[] a = [1, 2, 3];
			mutate(a);
			return a[0];
		}`
	out, err := run(t, src)
	assert.Nil(t, err)
	assert.Equal(t, "1\n", out)
}

func TestInterp_RecursiveMethod(t *testing.T) {
	src := `int fact(int n) {
		if (n <= 1) { return 1; }
		return n * fact(n - 1);
	}
	int main() { return fact(5); }`
	out, err := run(t, src)
	assert.Nil(t, err)
	assert.Equal(t, "120\n", out)
}
