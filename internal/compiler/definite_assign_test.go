package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func parseAndAssign(t *testing.T, src string) error {
	t.Helper()
	f, err := Parse("t.while", src)
	assert.Nil(t, err)
	assert.Nil(t, TypeCheck(f))
	assert.Nil(t, CheckReachability(f))
	return CheckDefiniteAssignment(f)
}

func TestDefiniteAssign_UseBeforeAssignRejected(t *testing.T) {
	assert.NotNil(t, parseAndAssign(t, `int main() { int x; return x; }`))
}

func TestDefiniteAssign_InitialisedDeclIsFine(t *testing.T) {
	assert.Nil(t, parseAndAssign(t, `int main() { int x = 1; return x; }`))
}

func TestDefiniteAssign_AssignedOnBothBranchesIsFine(t *testing.T) {
	src := `int main() { int x; if (true) { x = 1; } else { x = 2; } return x; }`
	assert.Nil(t, parseAndAssign(t, src))
}

func TestDefiniteAssign_AssignedOnOneBranchOnlyRejected(t *testing.T) {
	src := `int main() { int x; if (true) { x = 1; } return x; }`
	assert.NotNil(t, parseAndAssign(t, src))
}

func TestDefiniteAssign_AssignedInsideWhileNotGuaranteed(t *testing.T) {
	src := `int main() { int x; while (true) { x = 1; } return x; }`
	assert.NotNil(t, parseAndAssign(t, src))
}

func TestDefiniteAssign_ParametersStartAssigned(t *testing.T) {
	assert.Nil(t, parseAndAssign(t, `int id(int x) { return x; }`))
}
