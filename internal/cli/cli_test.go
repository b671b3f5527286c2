package cli_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/switchboard/internal/cli"
	"github.com/aretw0/switchboard/internal/config"
	"github.com/aretw0/switchboard/internal/logging"
	"github.com/aretw0/switchboard/internal/samples"
	"github.com/aretw0/switchboard/pkg/adapters/file"
	"github.com/aretw0/switchboard/pkg/domain"
	"github.com/aretw0/switchboard/pkg/runner"
)

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

func newStack(t *testing.T, mutate func(*config.Config)) *cli.Stack {
	t.Helper()
	cfg := config.Default()
	if mutate != nil {
		mutate(cfg)
	}
	stack, err := cli.Build(cfg, logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = stack.Close() })
	return stack
}

func writeWorkflow(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, file.Save(path, samples.Greeting()))
	return path
}

func TestOpenWorkflow(t *testing.T) {
	name, w, err := cli.OpenWorkflow("")
	require.NoError(t, err)
	assert.Equal(t, cli.DefaultSample, name)
	assert.NotNil(t, w)

	name, _, err = cli.OpenWorkflow("sample:banking")
	require.NoError(t, err)
	assert.Equal(t, "banking", name)

	_, _, err = cli.OpenWorkflow("sample:nope")
	assert.ErrorIs(t, err, domain.ErrWorkflowNotFound)

	path := writeWorkflow(t, t.TempDir(), "support.yaml")
	name, w, err = cli.OpenWorkflow(path)
	require.NoError(t, err)
	assert.Equal(t, "support", name)
	assert.Len(t, w.Nodes(), len(samples.Greeting().Nodes()))
}

func TestOpenLibrary(t *testing.T) {
	ctx := context.Background()

	dir := t.TempDir()
	writeWorkflow(t, dir, "b.yaml")
	writeWorkflow(t, dir, "a.json")
	repo, def, err := cli.OpenLibrary(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, "a", def)
	names, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)

	_, _, err = cli.OpenLibrary(ctx, t.TempDir())
	assert.ErrorIs(t, err, domain.ErrWorkflowNotFound)

	repo, def, err = cli.OpenLibrary(ctx, "sample:banking")
	require.NoError(t, err)
	assert.Equal(t, "banking", def)
	_, err = repo.Get(ctx, "banking")
	assert.NoError(t, err)
}

func TestBuild_Stores(t *testing.T) {
	stack := newStack(t, func(c *config.Config) { c.Metrics = true })
	assert.NotNil(t, stack.Registry)

	dir := t.TempDir()
	stack = newStack(t, func(c *config.Config) {
		c.Store.Driver = "file"
		c.Store.Dir = dir
		c.Store.EncryptionKey = base64.StdEncoding.EncodeToString(bytes.Repeat([]byte("k"), 32))
	})
	require.Nil(t, stack.Registry)
	require.NoError(t, stack.Sessions.Save(context.Background(), "s1", &domain.Snapshot{SessionID: "s1", CurrentNodeID: "start"}))

	raw, err := os.ReadFile(filepath.Join(dir, "s1.json"))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "start")

	snap, err := stack.Sessions.Load(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "start", snap.CurrentNodeID)
}

func TestNewIOHandler(t *testing.T) {
	var out bytes.Buffer
	h := cli.NewIOHandler(cli.ChatOptions{JSON: true}, strings.NewReader(""), &out, true)
	assert.IsType(t, &runner.JSONHandler{}, h)

	h = cli.NewIOHandler(cli.ChatOptions{}, strings.NewReader(""), &out, false)
	text, ok := h.(*runner.TextHandler)
	require.True(t, ok)
	assert.True(t, text.Headless)
}

func TestChat_PersistsAndResumes(t *testing.T) {
	stack := newStack(t, nil)
	opts := cli.ChatOptions{Source: "sample:greeting", SessionID: "demo", Headless: true}

	var out bytes.Buffer
	h := runner.NewTextHandler(strings.NewReader("I want to manage my account\n"), &out, runner.WithHeadless(true))
	require.NoError(t, cli.Chat(context.Background(), stack, opts, h, logging.NewNop()))

	snap, err := stack.Sessions.Load(context.Background(), "demo")
	require.NoError(t, err)
	assert.Equal(t, "intent_account", snap.CurrentNodeID)
	assert.Equal(t, "greeting", snap.Workflow)

	out.Reset()
	h = runner.NewTextHandler(strings.NewReader("/slots\n"), &out, runner.WithHeadless(true))
	require.NoError(t, cli.Chat(context.Background(), stack, opts, h, logging.NewNop()))
	assert.Contains(t, out.String(), `resumed session demo at "intent_account"`)

	opts.Fresh = true
	out.Reset()
	h = runner.NewTextHandler(strings.NewReader(""), &out, runner.WithHeadless(true))
	require.NoError(t, cli.Chat(context.Background(), stack, opts, h, logging.NewNop()))
	assert.Equal(t, "Hello! How can I help you today?\n", out.String())
}

func TestWatch_ReloadsOnChange(t *testing.T) {
	prev := cli.WatchInterval
	cli.WatchInterval = 10 * time.Millisecond
	t.Cleanup(func() { cli.WatchInterval = prev })

	path := writeWorkflow(t, t.TempDir(), "flow.yaml")
	stack := newStack(t, nil)

	pr, pw := io.Pipe()
	out := &syncBuffer{}
	h := runner.NewTextHandler(pr, out, runner.WithHeadless(true))

	done := make(chan error, 1)
	go func() {
		done <- cli.Watch(context.Background(), stack, cli.ChatOptions{Source: path, SessionID: "dev"}, h, logging.NewNop())
	}()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Hello! How can I help you today?")
	}, 2*time.Second, 10*time.Millisecond)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("# edited\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), `resumed session dev at "start"`)
	}, 2*time.Second, 10*time.Millisecond)
	assert.Contains(t, out.String(), "workflow changed, reloading")

	require.NoError(t, pw.Close())
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop after input closed")
	}
}

func TestWatch_RequiresDocument(t *testing.T) {
	err := cli.Watch(context.Background(), newStack(t, nil), cli.ChatOptions{Source: "sample:greeting"}, nil, logging.NewNop())
	assert.Error(t, err)
}
