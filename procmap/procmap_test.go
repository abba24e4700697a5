package procmap_test

import (
	"os"
	"testing"

	"github.com/nullptrace/godbg/procmap"
	"github.com/stretchr/testify/require"
)

func TestGetBaseAddress_Self(t *testing.T) {
	base, err := procmap.GetBaseAddress(os.Getpid())
	require.NoError(t, err)
	require.NotZero(t, base)
}

func TestGetBaseAddress_NoSuchProcess(t *testing.T) {
	_, err := procmap.GetBaseAddress(1<<30 + 1)
	require.ErrorIs(t, err, procmap.ErrMapsUnavailable)
}

func TestAddOffset(t *testing.T) {
	require.Equal(t, uint64(0x1100), procmap.AddOffset(0x1000, 0x100))
}
