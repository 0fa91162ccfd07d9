package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func parseAndReach(t *testing.T, src string) error {
	t.Helper()
	f, err := Parse("t.while", src)
	assert.Nil(t, err)
	assert.Nil(t, TypeCheck(f))
	return CheckReachability(f)
}

func TestReachability_MissingReturn(t *testing.T) {
	assert.NotNil(t, parseAndReach(t, `int main() { print 1; }`))
}

func TestReachability_ReturnInBothBranches(t *testing.T) {
	assert.Nil(t, parseAndReach(t, `int main() { if (true) { return 1; } else { return 0; } }`))
}

func TestReachability_ReturnOnlyInThenBranch(t *testing.T) {
	assert.NotNil(t, parseAndReach(t, `int main() { if (true) { return 1; } print 2; }`))
}

func TestReachability_WhileNeverGuaranteesReturn(t *testing.T) {
	// The condition isn't known statically, so a return only inside the
	// loop body never counts as covering every path.
	assert.NotNil(t, parseAndReach(t, `int main() { while (true) { return 1; } }`))
}

func TestReachability_UnreachableAfterReturn(t *testing.T) {
	assert.NotNil(t, parseAndReach(t, `int main() { return 1; print 2; }`))
}

func TestReachability_VoidMethodNeedsNoReturn(t *testing.T) {
	assert.Nil(t, parseAndReach(t, `void main() { print 1; }`))
}
