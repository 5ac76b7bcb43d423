package media

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/gifr/internal/config"
)

const testPlayers = `
[players.mpv]
platforms = ["linux", "darwin"]
args = ["--loop-file=inf"]
args_darwin = ["--loop-file=inf", "--ontop"]

[players.winonly]
platforms = ["windows"]
args = ["/x"]
`

func testRegistry(t *testing.T, goos string) *PlayerRegistry {
	t.Helper()
	r, err := parseRegistry([]byte(testPlayers))
	require.NoError(t, err)
	r.goos = goos
	return r
}

func lookPathFor(installed ...string) func(string) (string, error) {
	return func(name string) (string, error) {
		for _, n := range installed {
			if n == name {
				return "/usr/bin/" + name, nil
			}
		}
		return "", exec.ErrNotFound
	}
}

type recordedStart struct {
	cmds []*exec.Cmd
	err  error
}

func (r *recordedStart) start(cmd *exec.Cmd) error {
	r.cmds = append(r.cmds, cmd)
	return r.err
}

func mediaConfig() config.MediaConfig {
	return config.MediaConfig{
		Linux:         config.MediaPlayers{Video: []string{"mpv", "vlc"}},
		Darwin:        config.MediaPlayers{Video: []string{"iina", "mpv"}},
		DefaultOpener: "xdg-open",
	}
}

func TestLauncher_PicksFirstInstalledPlayer(t *testing.T) {
	rec := &recordedStart{}
	l := newLauncher(mediaConfig(), testRegistry(t, "linux"), lookPathFor("vlc", "mpv"), rec.start)
	assert.Equal(t, "mpv", l.Player())

	require.NoError(t, l.Open("https://i.imgur.com/a.mp4"))
	require.Len(t, rec.cmds, 1)
	assert.Equal(t, []string{"mpv", "--loop-file=inf", "https://i.imgur.com/a.mp4"}, rec.cmds[0].Args)
}

func TestLauncher_PlatformArgs(t *testing.T) {
	rec := &recordedStart{}
	l := newLauncher(mediaConfig(), testRegistry(t, "darwin"), lookPathFor("mpv"), rec.start)

	require.NoError(t, l.Open("https://v.redd.it/x/DASH_720.mp4"))
	assert.Equal(t, []string{"mpv", "--loop-file=inf", "--ontop", "https://v.redd.it/x/DASH_720.mp4"}, rec.cmds[0].Args)
}

func TestLauncher_FallsBackToDefaultOpener(t *testing.T) {
	rec := &recordedStart{}
	l := newLauncher(mediaConfig(), testRegistry(t, "linux"), lookPathFor(), rec.start)
	assert.Equal(t, "xdg-open", l.Player())

	require.NoError(t, l.Open("https://i.imgur.com/a.mp4"))
	assert.Equal(t, []string{"xdg-open", "https://i.imgur.com/a.mp4"}, rec.cmds[0].Args)
}

func TestLauncher_Errors(t *testing.T) {
	cfg := mediaConfig()
	cfg.DefaultOpener = ""

	l := newLauncher(cfg, testRegistry(t, "linux"), lookPathFor(), (&recordedStart{}).start)
	assert.EqualError(t, l.Open("https://i.imgur.com/a.mp4"), "no video player found")

	l = newLauncher(mediaConfig(), testRegistry(t, "linux"), lookPathFor("mpv"), (&recordedStart{}).start)
	assert.Error(t, l.Open(""))

	failing := &recordedStart{err: errors.New("boom")}
	l = newLauncher(mediaConfig(), testRegistry(t, "linux"), lookPathFor("mpv"), failing.start)
	err := l.Open("https://i.imgur.com/a.mp4")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to start mpv")
}

func TestPlayerRegistry_UnsupportedPlatform(t *testing.T) {
	r := testRegistry(t, "linux")
	_, err := r.Command("winonly", "https://x")
	assert.Error(t, err)

	cmd, err := r.Command("unknown-player", "https://x")
	require.NoError(t, err)
	assert.Equal(t, []string{"unknown-player", "https://x"}, cmd.Args)
}

func TestPlayerRegistry_MergeFile(t *testing.T) {
	r := testRegistry(t, "linux")
	path := filepath.Join(t.TempDir(), "players.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[players.mpv]
platforms = ["linux"]
args = ["--fs"]
`), 0o600))

	r.MergeFile(path)
	cmd, err := r.Command("mpv", "u")
	require.NoError(t, err)
	assert.Equal(t, []string{"mpv", "--fs", "u"}, cmd.Args)

	r.MergeFile(filepath.Join(t.TempDir(), "missing.toml"))
	_, ok := r.Definition("winonly")
	assert.True(t, ok)
}

func TestEmbeddedPlayersParse(t *testing.T) {
	r, err := parseRegistry(playersTOML)
	require.NoError(t, err)

	for _, name := range []string{"mpv", "vlc", "iina", "xdg-open", "open"} {
		_, ok := r.Definition(name)
		assert.True(t, ok, "missing built-in player %s", name)
	}
}
