package cast

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diophantus-project/diophantus/internal/compileerr"
)

const clampSource = `{
  "state_vars": [{"name": "p", "type": "int"}],
  "loop": [
    {
      "kind": "If",
      "cond": {
        "kind": "BinaryOp",
        "op": "&&",
        "left": {
          "kind": "BinaryOp",
          "op": "==",
          "left": {"kind": "Var", "name": "k"},
          "right": {"kind": "Constant", "value": 119}
        },
        "right": {
          "kind": "BinaryOp",
          "op": ">",
          "left": {"kind": "Var", "name": "p"},
          "right": {"kind": "Constant", "value": 1}
        }
      },
      "then": [{"kind": "Update", "target": "p", "op": "--"}]
    }
  ]
}`

func writeFixture(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "program.json")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadDocumentConditionalClamp(t *testing.T) {
	path := writeFixture(t, clampSource)
	doc, err := LoadDocument(path)
	require.NoError(t, err)

	require.Len(t, doc.StateVars, 1)
	assert.Equal(t, "p", doc.StateVars[0].Name)
	assert.Equal(t, KindInt, doc.StateVars[0].Type)

	require.Len(t, doc.Loop, 1)
	ifStmt, ok := doc.Loop[0].(*If)
	require.True(t, ok)
	assert.Nil(t, ifStmt.Else)

	cond, ok := ifStmt.Cond.(*BinaryOp)
	require.True(t, ok)
	assert.Equal(t, "&&", cond.Op)

	require.Len(t, ifStmt.Then, 1)
	upd, ok := ifStmt.Then[0].(*Update)
	require.True(t, ok)
	assert.Equal(t, UpdateDec, upd.Op)
}

func TestLoadDocumentMissingFile(t *testing.T) {
	_, err := LoadDocument(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.True(t, compileerr.ErrInputNotFound.Is(err))
}

func TestLoadDocumentMalformed(t *testing.T) {
	path := writeFixture(t, `{"state_vars": [}`)
	_, err := LoadDocument(path)
	require.Error(t, err)
	assert.True(t, compileerr.ErrInputSyntax.Is(err))
}

func TestLoadDocumentUnrecognizedKind(t *testing.T) {
	path := writeFixture(t, `{"state_vars": [], "loop": [{"kind": "Switch"}]}`)
	_, err := LoadDocument(path)
	require.Error(t, err)
	assert.True(t, compileerr.ErrInputSyntax.Is(err))
}
