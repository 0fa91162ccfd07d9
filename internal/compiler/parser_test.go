package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse_ValidPrograms(t *testing.T) {
	testData := []string{
		`int main() { return 0; }`,
		`void main() { print 1 + 2 * 3; }`,
		`type Point is {int x, int y}
		 int main() { Point p = {x: 1, y: 2}; return p.x; }`,
		`int[] main() { return [1, 2, 3]; }`,
		`int main() { int[] a = [0; 5]; return |a|; }`,
		`int add(int a, int b) { return a + b; }
		 int main() { return add(1, 2); }`,
		`int main() { int i = 0; while (i < 10) { i = i + 1; } return i; }`,
		`int main() { int sum = 0; for (int i = 0; i < 10; i = i + 1) { sum = sum + i; } return sum; }`,
		`int main() { int x = 1; if (x == 1) { return 1; } else { return 0; } }`,
	}
	for _, src := range testData {
		f, err := Parse("t.while", src)
		assert.Nil(t, err, src)
		assert.NotNil(t, f)
	}
}

func TestParse_SyntaxErrors(t *testing.T) {
	testData := []string{
		`int main( { return 0; }`,
		`int main() { return }`,
		`int main() { undeclared = 1; }`,
		`int main() { break; }`,
		`type T is T
		 int main() { return 0; }`,
	}
	for _, src := range testData {
		_, err := Parse("t.while", src)
		assert.NotNil(t, err, src)
	}
}

func TestParse_ForLoopVariableDoesNotLeak(t *testing.T) {
	// Per the scoping design, a for-loop's induction variable must not be
	// visible after the loop ends, unlike the original Java parser.
	src := `int main() { for (int i = 0; i < 10; i = i + 1) {} return i; }`
	_, err := Parse("t.while", src)
	assert.NotNil(t, err)
}

func TestParse_UnaryMinusOnLiteralIsFolded(t *testing.T) {
	f, err := Parse("t.while", `int main() { return -5; }`)
	assert.Nil(t, err)
	m := f.Methods()[0]
	ret := m.Body.Stmts[0].(*ReturnStmt)
	c, ok := ret.Value.(*ConstantExpr)
	assert.True(t, ok)
	assert.Equal(t, int32(-5), c.Value.Int)
}

func TestParse_DuplicateMethodNameRejected(t *testing.T) {
	src := `int f() { return 1; } int f() { return 2; }`
	_, err := Parse("t.while", src)
	assert.NotNil(t, err)
}

func TestParse_DuplicateRecordFieldRejected(t *testing.T) {
	src := `int main() { {int x} p = {x: 1, x: 2}; return 0; }`
	_, err := Parse("t.while", src)
	assert.NotNil(t, err)
}
