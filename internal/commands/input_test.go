package commands

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datalake/internal/mocks"
	"datalake/internal/services/filter"
	"datalake/internal/testutil"
)

func TestReadAtoms_MergesArgsAndFile(t *testing.T) {
	fs := mocks.NewMockFileSystemAdapter(t)
	fs.EXPECT().ReadFile("atoms.txt").Return([]byte("# feed export\n10.0.0.1\n\n8.8.8.8\r\n1.1.1.1\n"), nil)
	exclude, err := filter.NewExcludeFilter([]string{`^10\.`}, testutil.Logger())
	require.NoError(t, err)

	atoms, err := readAtoms(fs, AtomInput{Values: []string{" 1.1.1.1 ", "9.9.9.9"}, File: "atoms.txt"}, exclude)

	require.NoError(t, err)
	assert.Equal(t, []string{"1.1.1.1", "9.9.9.9", "8.8.8.8"}, atoms)
}

func TestReadAtoms_FileError(t *testing.T) {
	fs := mocks.NewMockFileSystemAdapter(t)
	fs.EXPECT().ReadFile("missing.txt").Return(nil, errors.New("no such file"))

	_, err := readAtoms(fs, AtomInput{File: "missing.txt"}, filter.NewNoOpFilter())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.txt")
}

func TestReadAtoms_ArgsOnly(t *testing.T) {
	atoms, err := readAtoms(mocks.NewMockFileSystemAdapter(t), AtomInput{Values: []string{"a", "a", "", "b"}}, filter.NewNoOpFilter())

	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, atoms)
}
