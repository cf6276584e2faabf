package xrotate

import (
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFile_AppendsToExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	require.NoError(t, os.WriteFile(path, []byte("old\n"), 0o600))

	r, err := NewFile(path)
	require.NoError(t, err)

	_, err = r.Write([]byte("new\n"))
	require.NoError(t, err)
	require.NoError(t, r.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "old\nnew\n", string(data))
}

func TestNewFile_CreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "app.log")

	r, err := NewFile(path)
	require.NoError(t, err)
	defer r.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestNewFile_DefaultMode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permission bits only")
	}
	path := filepath.Join(t.TempDir(), "mode.log")

	r, err := NewFile(path)
	require.NoError(t, err)
	defer r.Close()

	info, err := os.Stat(path)
	require.NoError(t, err)
	// umask 只会去掉位，不会增加
	assert.Zero(t, info.Mode().Perm()&^DefaultFileMode)
	assert.NotZero(t, info.Mode().Perm()&0o600)
}

func TestNewFile_InvalidInput(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name     string
		filename string
		opts     []FileOption
		wantErr  error
	}{
		{"empty", "", nil, ErrEmptyFilename},
		{"null byte", filepath.Join(dir, "a\x00b.log"), nil, ErrNullByte},
		{"directory", dir + "/", nil, ErrDirectoryPath},
		{"setuid bit", filepath.Join(dir, "x.log"), []FileOption{WithFileMode(os.ModeSetuid | 0o644)}, ErrInvalidFileMode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewFile(tt.filename, tt.opts...)
			assert.Nil(t, r)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNewFile_OpenFailure(t *testing.T) {
	// 父路径是普通文件，无法在其下创建文件
	parent := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(parent, nil, 0o600))

	r, err := NewFile(filepath.Join(parent, "app.log"))
	assert.Nil(t, r)
	assert.Error(t, err)
}

func TestFileRotator_Closed(t *testing.T) {
	r, err := NewFile(filepath.Join(t.TempDir(), "closed.log"))
	require.NoError(t, err)

	require.NoError(t, r.Close())

	_, err = r.Write([]byte("x"))
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, r.Rotate(), ErrClosed)
	assert.ErrorIs(t, r.Close(), ErrClosed)
}

func TestFileRotator_RotateAfterRename(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")
	rotated := filepath.Join(dir, "app.log.1")

	r, err := NewFile(path)
	require.NoError(t, err)
	defer r.Close()

	_, err = r.Write([]byte("before\n"))
	require.NoError(t, err)

	// 外部轮转：先重命名，再通知重新打开
	require.NoError(t, os.Rename(path, rotated))
	require.NoError(t, r.Rotate())

	_, err = r.Write([]byte("after\n"))
	require.NoError(t, err)

	old, err := os.ReadFile(rotated)
	require.NoError(t, err)
	assert.Equal(t, "before\n", string(old))

	cur, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "after\n", string(cur))
}

func TestFileRotator_ConcurrentWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "concurrent.log")
	r, err := NewFile(path)
	require.NoError(t, err)

	const writers, perWriter = 8, 50
	var wg sync.WaitGroup
	for range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range perWriter {
				_, _ = r.Write([]byte("line\n"))
			}
		}()
	}
	wg.Wait()
	require.NoError(t, r.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, data, writers*perWriter*len("line\n"))
}
