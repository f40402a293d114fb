package cli

import (
	"bufio"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reader(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

func TestGetSimpleText(t *testing.T) {
	text, err := GetSimpleText(reader("  hello  \n"), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "hello", text)
}

func TestGetSimpleText_PartialLineBeforeEOF(t *testing.T) {
	text, err := GetSimpleText(reader("no newline"), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "no newline", text)
}

func TestGetSimpleText_EmptyInput(t *testing.T) {
	_, err := GetSimpleText(reader(""), "prompt")
	assert.Error(t, err)
}

func TestGetInt(t *testing.T) {
	n, err := GetInt(reader("150\n"), "prompt")
	require.NoError(t, err)
	assert.Equal(t, 150, n)
}

func TestGetInt_EmptyMeansZero(t *testing.T) {
	n, err := GetInt(reader("\n"), "prompt")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestGetInt_Invalid(t *testing.T) {
	_, err := GetInt(reader("beaucoup\n"), "prompt")
	assert.Error(t, err)

	_, err = GetInt(reader("-5\n"), "prompt")
	assert.Error(t, err)
}

func TestGetList(t *testing.T) {
	items, err := GetList(reader("Laine, Crochet , ,Boutons\n"), "prompt")
	require.NoError(t, err)
	assert.Equal(t, []string{"Laine", "Crochet", "Boutons"}, items)
}

func TestGetList_Empty(t *testing.T) {
	items, err := GetList(reader("\n"), "prompt")
	require.NoError(t, err)
	assert.Nil(t, items)
}

func TestGetSecret_UsesTerminalReader(t *testing.T) {
	orig := readPassword
	defer func() { readPassword = orig }()
	readPassword = func(fd int) ([]byte, error) {
		return []byte("  ya29.secret  "), nil
	}

	secret, err := GetSecret("Paste token")
	require.NoError(t, err)
	assert.Equal(t, "ya29.secret", secret)
}
