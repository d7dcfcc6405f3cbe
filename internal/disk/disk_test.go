package disk

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemManager_AllocatePage_Sequential(t *testing.T) {
	m := NewMemManager()

	p1, err := m.AllocatePage()
	require.NoError(t, err)
	require.Equal(t, PageID(0), p1)

	p2, err := m.AllocatePage()
	require.NoError(t, err)
	require.Equal(t, PageID(1), p2)

	p3, err := m.AllocatePage()
	require.NoError(t, err)
	require.Equal(t, PageID(2), p3)
}

func TestMemManager_WriteThenRead_RoundTrips(t *testing.T) {
	m := NewMemManager()

	p1, err := m.AllocatePage()
	require.NoError(t, err)
	p2, err := m.AllocatePage()
	require.NoError(t, err)

	page := make([]byte, PageSize)
	for i := 0; i < 10; i++ {
		page[i] = byte(i)
	}
	require.NoError(t, m.WritePage(p2, page))

	out := make([]byte, PageSize)
	require.NoError(t, m.ReadPage(p1, out))
	require.Equal(t, byte(0), out[0])
	require.Equal(t, byte(0), out[9])

	require.NoError(t, m.ReadPage(p2, out))
	require.Equal(t, byte(0), out[0])
	require.Equal(t, byte(5), out[5])
	require.Equal(t, byte(9), out[9])
}

func TestMemManager_DeallocatePage_NothingToDo(t *testing.T) {
	m := NewMemManager()
	pid, err := m.AllocatePage()
	require.NoError(t, err)

	ok, err := m.DeallocatePage(pid)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemManager_InvalidPageID(t *testing.T) {
	m := NewMemManager()
	buf := make([]byte, PageSize)

	require.ErrorIs(t, m.WritePage(MaxPages, buf), ErrInvalidPageID)
	require.ErrorIs(t, m.ReadPage(MaxPages, buf), ErrInvalidPageID)

	_, err := m.DeallocatePage(MaxPages)
	require.ErrorIs(t, err, ErrInvalidPageID)
}

func TestFileManager_CreatesSizedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pages.db")

	fm, err := NewFileManager(path)
	require.NoError(t, err)
	defer fm.Close()

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, int64(PageSize*MaxPages), info.Size())
}

func TestFileManager_AllocateWriteReadRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pages.db")

	fm, err := NewFileManager(path)
	require.NoError(t, err)
	defer fm.Close()

	pid, err := fm.AllocatePage()
	require.NoError(t, err)
	require.Equal(t, PageID(0), pid)

	page := make([]byte, PageSize)
	page[0] = 0xAB
	page[PageSize-1] = 0xCD
	require.NoError(t, fm.WritePage(pid, page))

	out := make([]byte, PageSize)
	require.NoError(t, fm.ReadPage(pid, out))
	require.Equal(t, byte(0xAB), out[0])
	require.Equal(t, byte(0xCD), out[PageSize-1])
}

func TestFileManager_WriteUnallocated_Fails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pages.db")

	fm, err := NewFileManager(path)
	require.NoError(t, err)
	defer fm.Close()

	buf := make([]byte, PageSize)
	require.ErrorIs(t, fm.WritePage(5, buf), ErrUnallocated)
	require.ErrorIs(t, fm.ReadPage(5, buf), ErrUnallocated)
}

func TestFileManager_AllocateDeallocate_ReusesSlot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pages.db")

	fm, err := NewFileManager(path)
	require.NoError(t, err)
	defer fm.Close()

	p1, err := fm.AllocatePage()
	require.NoError(t, err)
	require.Equal(t, PageID(0), p1)

	p2, err := fm.AllocatePage()
	require.NoError(t, err)
	require.Equal(t, PageID(1), p2)

	ok, err := fm.DeallocatePage(p1)
	require.NoError(t, err)
	require.True(t, ok)

	p3, err := fm.AllocatePage()
	require.NoError(t, err)
	require.Equal(t, PageID(0), p3)
}

func TestFileManager_InvalidPageID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pages.db")

	fm, err := NewFileManager(path)
	require.NoError(t, err)
	defer fm.Close()

	buf := make([]byte, PageSize)
	require.ErrorIs(t, fm.WritePage(MaxPages, buf), ErrInvalidPageID)

	_, err = fm.DeallocatePage(MaxPages)
	require.ErrorIs(t, err, ErrInvalidPageID)
}
