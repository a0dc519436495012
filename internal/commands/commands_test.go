package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasklist/internal/config"
	"tasklist/internal/storage"
	"tasklist/internal/todo"
)

type harness struct {
	configPath string
	out        *bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	return &harness{
		configPath: filepath.Join(dir, "config.toml"),
		out:        &bytes.Buffer{},
	}
}

func (h *harness) run(t *testing.T, args ...string) error {
	t.Helper()
	h.out.Reset()
	cmd := New("test", h.out)
	full := append([]string{"tasklist", "--config", h.configPath}, args...)
	return cmd.Run(context.Background(), full)
}

func TestCommands_FirstRunWritesConfigAndDatabase(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run(t, "list"))
	assert.Contains(t, h.out.String(), "No tasks found.")

	_, err := os.Stat(h.configPath)
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(filepath.Dir(h.configPath), config.DefaultDBName))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(filepath.Dir(h.configPath), "tasklist.log"))
	assert.NoError(t, err)
}

func TestCommands_AddListToggleDelete(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run(t, "add", "Buy", "Milk"))
	milkID := strings.TrimSpace(h.out.String())
	require.NotEmpty(t, milkID)

	require.NoError(t, h.run(t, "add", "--category", "work", "Write report"))
	reportID := strings.TrimSpace(h.out.String())

	require.NoError(t, h.run(t, "list", "--json"))
	tasks, err := todo.Decode(strings.TrimSpace(h.out.String()))
	require.NoError(t, err)
	require.Len(t, tasks, 2)

	require.NoError(t, h.run(t, "list", "--category", "work", "--json"))
	tasks, err = todo.Decode(strings.TrimSpace(h.out.String()))
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, reportID, tasks[0].ID)

	require.NoError(t, h.run(t, "list", "--search", "milk", "--json"))
	tasks, err = todo.Decode(strings.TrimSpace(h.out.String()))
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Buy Milk", tasks[0].Text)
	assert.Equal(t, todo.CategoryPersonal, tasks[0].Category)

	require.NoError(t, h.run(t, "toggle", milkID))
	assert.Contains(t, h.out.String(), "completed")

	require.NoError(t, h.run(t, "list"))
	assert.Contains(t, h.out.String(), "Buy Milk")
	assert.Contains(t, h.out.String(), "[x]")
	assert.Contains(t, h.out.String(), "Personal")

	require.NoError(t, h.run(t, "delete", milkID))
	assert.Contains(t, h.out.String(), "deleted")

	require.NoError(t, h.run(t, "list", "--json"))
	tasks, err = todo.Decode(strings.TrimSpace(h.out.String()))
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, reportID, tasks[0].ID)
}

func TestCommands_AddEmptyText(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run(t, "add", "   "))
	assert.Contains(t, h.out.String(), "nothing to add")

	require.NoError(t, h.run(t, "list", "--json"))
	assert.Equal(t, "[]", strings.TrimSpace(h.out.String()))
}

func TestCommands_UnknownIDIsNoop(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run(t, "toggle", "missing"))
	assert.Contains(t, h.out.String(), `no task with id "missing"`)

	require.NoError(t, h.run(t, "delete", "missing"))
	assert.Contains(t, h.out.String(), `no task with id "missing"`)
}

func TestCommands_UnknownCategory(t *testing.T) {
	h := newHarness(t)
	assert.Error(t, h.run(t, "list", "--category", "garden"))
}

func TestCommands_Categories(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run(t, "categories"))
	for _, c := range todo.Categories() {
		assert.Contains(t, h.out.String(), c.ID)
		assert.Contains(t, h.out.String(), c.Name)
	}
}

func TestCommands_CorruptStateStartsEmpty(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.run(t, "add", "doomed"))

	db, err := storage.Open(filepath.Join(filepath.Dir(h.configPath), config.DefaultDBName))
	require.NoError(t, err)
	require.NoError(t, db.Set(context.Background(), todo.DefaultKey, "{not json"))
	require.NoError(t, db.Close())

	require.NoError(t, h.run(t, "list", "--json"))
	assert.Equal(t, "[]", strings.TrimSpace(h.out.String()))

	db, err = storage.Open(filepath.Join(filepath.Dir(h.configPath), config.DefaultDBName))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()
	backup, err := db.Get(context.Background(), todo.DefaultKey+".corrupt")
	require.NoError(t, err)
	assert.Equal(t, "{not json", backup)
}

func TestCommands_DefaultActionRunsTUI(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.run(t, "add", "--category", "home", "Water plants"))

	var got []todo.Task
	var gotCfg config.Config
	cmd := newCommand("test", h.out, func(store *todo.Store, cfg config.Config, _ zerolog.Logger) error {
		got = store.Tasks()
		gotCfg = cfg
		return nil
	})
	require.NoError(t, cmd.Run(context.Background(), []string{"tasklist", "--config", h.configPath}))

	require.Len(t, got, 1)
	assert.Equal(t, "Water plants", got[0].Text)
	assert.Equal(t, config.Default().Keys, gotCfg.Keys)
}

func TestNew_Subcommands(t *testing.T) {
	cmd := New("1.2.3", &bytes.Buffer{})
	assert.Equal(t, "1.2.3", cmd.Version)
	assert.Equal(t, config.AppName, cmd.Name)

	names := make([]string, 0, len(cmd.Commands))
	for _, c := range cmd.Commands {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"add", "list", "toggle", "delete", "categories"}, names)
}
