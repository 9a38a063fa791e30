package tree_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/temirov/trusttree/internal/tree"
)

func TestPropagateIsIdempotent(t *testing.T) {
	t.Parallel()

	root := buildTree(t, efiPaths, nil)
	before := root.Clone()

	firstTotal := tree.Propagate(root)
	once := root.Clone()
	secondTotal := tree.Propagate(root)

	assert.Equal(t, 4, firstTotal)
	assert.Equal(t, firstTotal, secondTotal)
	assert.Equal(t, before, once)
	assert.Equal(t, once, root)
}

func TestPropagateRepairsDesynchronizedCounts(t *testing.T) {
	t.Parallel()

	root := buildTree(t, efiPaths, nil)
	fedora := descend(t, root, "boot", "efi", "EFI", "fedora")
	fedora.Count = 99
	root.Count = 0

	require.ErrorIs(t, tree.Verify(root), tree.ErrCountMismatch)

	assert.Equal(t, 4, tree.Propagate(root))
	assert.Equal(t, 3, fedora.Count)
	require.NoError(t, tree.Verify(root))
}

func TestVerifyReportsLocation(t *testing.T) {
	t.Parallel()

	root := buildTree(t, efiPaths, nil)
	descend(t, root, "boot", "efi", "EFI", "BOOT").Count = 7

	verifyError := tree.Verify(root)
	require.ErrorIs(t, verifyError, tree.ErrCountMismatch)
	assert.Contains(t, verifyError.Error(), "/boot/efi/EFI")
}
