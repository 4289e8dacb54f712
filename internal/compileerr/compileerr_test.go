package compileerr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindsClassify(t *testing.T) {
	err := ErrInputNotFound.New("loop.json")
	assert.True(t, ErrInputNotFound.Is(err))
	assert.False(t, ErrInputSyntax.Is(err))
}

func TestSizeLimitMessage(t *testing.T) {
	err := ErrSizeLimit.New("report", 6_000_000_000, 5_368_709_120)
	assert.Contains(t, err.Error(), "report")
	assert.True(t, ErrSizeLimit.Is(err))
}

func TestUnsupportedConstructWarning(t *testing.T) {
	w := UnsupportedConstruct("Switch", "no Switch node in the restricted grammar")
	assert.Equal(t, "unsupported-construct: Switch: no Switch node in the restricted grammar", w.String())
}
