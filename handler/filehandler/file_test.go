package filehandler

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipp01105/loggy/core"
	"github.com/philipp01105/loggy/handler"
)

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestNew_RequiresFilename(t *testing.T) {
	s, err := New(Config{})
	assert.Nil(t, s)
	assert.ErrorIs(t, err, ErrNoFilename)
}

func TestNew_UnopenablePath(t *testing.T) {
	dir := t.TempDir()
	// A regular file where a directory is expected
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	s, err := New(Config{Filename: filepath.Join(blocker, "app.log")})
	assert.Nil(t, s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "filehandler")
}

func TestNew_CreatesDirectory(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "nested", "deeper", "app.log")

	s, err := New(Config{Filename: filename})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = os.Stat(filename)
	assert.NoError(t, err)
}

func TestFileSink_WaitFlushesToDisk(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "app.log")

	s, err := New(Config{Filename: filename})
	require.NoError(t, err)
	defer s.Close()

	for _, text := range []string{"first", "second", "third"} {
		s.Add(core.Line{Text: text, Time: time.Now()})
	}
	s.Wait()

	assert.Equal(t, "first\nsecond\nthird\n", readFile(t, filename))
}

func TestFileSink_Appends(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "app.log")
	require.NoError(t, os.WriteFile(filename, []byte("existing\n"), 0644))

	s, err := New(Config{Filename: filename})
	require.NoError(t, err)
	s.Add(core.Line{Text: "appended"})
	s.Wait()
	require.NoError(t, s.Close())

	assert.Equal(t, "existing\nappended\n", readFile(t, filename))
}

func TestFileSink_CloseFlushesAndClosesFile(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "app.log")

	s, err := New(Config{Filename: filename})
	require.NoError(t, err)

	s.Add(core.Line{Text: "buffered"})
	require.NoError(t, s.Close())
	assert.Equal(t, handler.StateStopped, s.State())

	// Either written before teardown, or counted in the final notice
	content := readFile(t, filename)
	assert.True(t, content == "buffered\n" || strings.HasSuffix(content, " dropped 1 entries\n"), "got %q", content)

	// Second close is a no-op
	assert.NoError(t, s.Close())
}

func TestFileSink_IdleFlush(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "app.log")

	s, err := New(Config{
		Filename: filename,
		Config:   handler.Config{FlushInterval: 10 * time.Millisecond},
	})
	require.NoError(t, err)
	defer s.Close()

	s.Add(core.Line{Text: "eventually on disk"})

	// No Wait: the worker flushes on its own once the queue is idle
	assert.Eventually(t, func() bool {
		data, err := os.ReadFile(filename)
		return err == nil && string(data) == "eventually on disk\n"
	}, 2*time.Second, 5*time.Millisecond)
}

func TestFileSink_NameDefaultsToFilename(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "named.log")

	s, err := New(Config{Filename: filename})
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, filename, s.Name())
}

func TestFileSink_RoundTrip(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "app.log")

	s, err := New(Config{Filename: filename})
	require.NoError(t, err)
	defer s.Close()

	var want strings.Builder
	for i := 0; i < 500; i++ {
		text := strings.Repeat("ü", i%7) + " line " + time.Duration(i).String()
		s.Add(core.Line{Text: text})
		want.WriteString(text)
		want.WriteByte('\n')
	}
	s.Wait()

	assert.Equal(t, want.String(), readFile(t, filename))
}
