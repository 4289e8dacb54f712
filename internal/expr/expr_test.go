package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEqualIgnoresIdentity(t *testing.T) {
	a := &Bin{Op: Add, Left: &Var{Name: "b"}, Right: &Var{Name: "d"}}
	b := &Bin{Op: Add, Left: &Var{Name: "b"}, Right: &Var{Name: "d"}}

	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Hash(), b.Hash())
}

func TestEqualDistinguishesOperator(t *testing.T) {
	a := &Bin{Op: Add, Left: &Var{Name: "b"}, Right: &Var{Name: "d"}}
	b := &Bin{Op: Sub, Left: &Var{Name: "b"}, Right: &Var{Name: "d"}}

	assert.False(t, a.Equal(b))
	assert.NotEqual(t, a.Hash(), b.Hash())
}

func TestEqualDistinguishesShape(t *testing.T) {
	flat := &Bin{Op: Add, Left: &Var{Name: "b"}, Right: &Var{Name: "d"}}
	nested := &Bin{Op: Add, Left: &Bin{Op: Add, Left: &Var{Name: "b"}, Right: &Const{Value: 0}}, Right: &Var{Name: "d"}}

	assert.False(t, flat.Equal(nested))
}

func TestArithmeticOps(t *testing.T) {
	assert.True(t, Add.Arithmetic())
	assert.True(t, Sub.Arithmetic())
	assert.True(t, Mul.Arithmetic())
	assert.False(t, Div.Arithmetic())
	assert.False(t, Eq.Arithmetic())
}

func TestStringRendering(t *testing.T) {
	e := &If{
		Cond: &Bin{Op: Eq, Left: &Var{Name: "k"}, Right: &Const{Value: 119}},
		Then: &Neg{X: &Var{Name: "p"}},
		Else: &Var{Name: "p"},
	}
	assert.Equal(t, "if((k == 119), (-p), p)", e.String())
}

func TestIdentity(t *testing.T) {
	id := Identity("x")
	v, ok := id.(*Var)
	assert.True(t, ok)
	assert.Equal(t, "x", v.Name)
}
