// file: cmd/commands_test.go
// version: 2.0.0
// guid: 8e9f0a1b-2c3d-4e5f-6a7b-8cd0e0f0a0b0

package cmd

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obodeflix/obodeflix/internal/browse"
	"github.com/obodeflix/obodeflix/internal/client"
	"github.com/obodeflix/obodeflix/internal/importer"
	"github.com/obodeflix/obodeflix/internal/models"
)

func TestPickString(t *testing.T) {
	in := bufio.NewScanner(strings.NewReader("0\n2\n"))
	var out bytes.Buffer

	choice, err := pickString(in, &out, "Folder", []string{"alpha", "beta"})
	require.NoError(t, err)
	assert.Equal(t, "beta", choice)
	assert.Contains(t, out.String(), "1) alpha")
}

func TestPickStringEmptyOptions(t *testing.T) {
	in := bufio.NewScanner(strings.NewReader(""))
	_, err := pickString(in, &bytes.Buffer{}, "Folder", nil)
	assert.Error(t, err)
}

func TestChooseFiles(t *testing.T) {
	chooser := importer.NewChooser([]models.EpisodeFile{
		{Name: "ep1.mkv"}, {Name: "ep2.mkv"}, {Name: "extras.mkv"},
	})
	in := bufio.NewScanner(strings.NewReader("add 2\nadd 1\ndrop 2\ndone\n"))
	var out bytes.Buffer

	require.NoError(t, chooseFiles(in, &out, chooser))

	chosen := chooser.Chosen()
	require.Len(t, chosen, 1)
	assert.Equal(t, "ep2.mkv", chosen[0].Name)
	assert.Len(t, chooser.Available(), 2)
}

func TestChooseFilesInputClosed(t *testing.T) {
	chooser := importer.NewChooser([]models.EpisodeFile{{Name: "a.mkv"}})
	in := bufio.NewScanner(strings.NewReader("all\n"))
	err := chooseFiles(in, &bytes.Buffer{}, chooser)
	assert.Error(t, err)
	assert.Len(t, chooser.Chosen(), 1)
}

func TestRootCommandWiring(t *testing.T) {
	names := map[string]bool{}
	for _, sub := range rootCmd.Commands() {
		names[sub.Name()] = true
	}
	for _, expected := range []string{"serve", "login", "logout", "whoami", "signup", "browse", "stats", "import", "series", "season", "episode", "tag", "backup"} {
		assert.True(t, names[expected], "missing command %s", expected)
	}
}

func TestEpisodeRowShowsDuration(t *testing.T) {
	row := episodeRow(models.Episode{ID: 3, Name: "Asteroid Blues", Duration: 1445, SeasonID: 2})
	assert.Contains(t, row, "24min05s")
	assert.Contains(t, row, "Asteroid Blues")
	assert.Contains(t, row, "season=2")
}

func TestAskInitialPosition(t *testing.T) {
	var out bytes.Buffer
	in := bufio.NewScanner(strings.NewReader("zero\n0\n12\n"))
	// Junk and out-of-range input re-prompts until a usable number.
	assert.Equal(t, 12, askInitialPosition(in, &out))

	in = bufio.NewScanner(strings.NewReader("\n"))
	// Empty input defers to the season's episode count.
	assert.Equal(t, 0, askInitialPosition(in, &out))
}

// syncBuffer guards the output buffer, the prompt loop and the render
// callback write from different goroutines.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func waitForOutput(t *testing.T, out *syncBuffer, want string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if strings.Contains(out.String(), want) {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("output never contained %q, got:\n%s", want, out.String())
}

func TestBrowseDeleteAsksConfirmation(t *testing.T) {
	var inactivated int32
	factory := func(api *client.Client, onChange func(browse.State[models.Tag]), options ...browse.Option[models.Tag]) *browse.Controller[models.Tag] {
		return browse.NewController(func(ctx context.Context, opts client.ListOptions) (models.Page[models.Tag], error) {
			return models.NewPage([]models.Tag{{ID: 1, Name: "anime"}}, 1, opts.Page, opts.Quantity), nil
		}, onChange, options...)
	}
	inactivate := func(ctx context.Context, id int64) error {
		atomic.AddInt32(&inactivated, 1)
		return nil
	}

	reader, writer := io.Pipe()
	out := &syncBuffer{}
	done := make(chan error, 1)
	go func() {
		done <- browseEntity(nil, reader, out, factory, inactivate,
			func(tag models.Tag) int64 { return tag.ID },
			func(tag models.Tag) string { return tag.Name })
	}()

	waitForOutput(t, out, "anime")

	// Declining the confirmation keeps the row.
	io.WriteString(writer, "d 1\n")
	waitForOutput(t, out, "[y/N]")
	io.WriteString(writer, "n\n")
	waitForOutput(t, out, "kept")
	assert.Equal(t, int32(0), atomic.LoadInt32(&inactivated))

	// Accepting it runs the inactivate call.
	io.WriteString(writer, "d 1\ny\nq\n")
	require.NoError(t, <-done)
	assert.Equal(t, int32(1), atomic.LoadInt32(&inactivated))
}
