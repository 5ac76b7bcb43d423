package media

import (
	_ "embed"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/pelletier/go-toml/v2"

	"github.com/pders01/gifr/internal/debuglog"
)

//go:embed players.toml
var playersTOML []byte

// PlayerDefinition describes how to invoke a player for looping video.
type PlayerDefinition struct {
	Description string   `toml:"description"`
	Platforms   []string `toml:"platforms"`
	Args        []string `toml:"args,omitempty"`
	ArgsDarwin  []string `toml:"args_darwin,omitempty"`
	ArgsLinux   []string `toml:"args_linux,omitempty"`
	ArgsWindows []string `toml:"args_windows,omitempty"`
}

type PlayersConfig struct {
	Players map[string]PlayerDefinition `toml:"players"`
}

// PlayerRegistry resolves player names to commands.
type PlayerRegistry struct {
	players map[string]PlayerDefinition
	goos    string
}

// NewPlayerRegistry loads the embedded definitions and merges in the
// user's ~/.config/gifr/players.toml if present.
func NewPlayerRegistry() (*PlayerRegistry, error) {
	r, err := parseRegistry(playersTOML)
	if err != nil {
		return nil, err
	}
	if home, err := os.UserHomeDir(); err == nil {
		r.MergeFile(filepath.Join(home, ".config", "gifr", "players.toml"))
	}
	return r, nil
}

func parseRegistry(data []byte) (*PlayerRegistry, error) {
	var cfg PlayersConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing players.toml: %w", err)
	}
	if cfg.Players == nil {
		cfg.Players = make(map[string]PlayerDefinition)
	}
	return &PlayerRegistry{players: cfg.Players, goos: runtime.GOOS}, nil
}

// MergeFile overlays definitions from path. Missing files are ignored;
// malformed ones are logged and skipped.
func (r *PlayerRegistry) MergeFile(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	var user PlayersConfig
	if err := toml.Unmarshal(data, &user); err != nil {
		debuglog.Warnf("ignoring %s: %v", path, err)
		return
	}
	for name, def := range user.Players {
		r.players[name] = def
	}
}

// Command builds the invocation of playerName for url. Unknown players
// are run with the URL as their only argument.
func (r *PlayerRegistry) Command(playerName, url string) (*exec.Cmd, error) {
	def, ok := r.players[playerName]
	if !ok {
		return exec.Command(playerName, url), nil
	}
	if !r.supports(def) {
		return nil, fmt.Errorf("%s not supported on %s", playerName, r.goos)
	}
	args := append(append([]string{}, r.args(def)...), url)
	return exec.Command(playerName, args...), nil
}

func (r *PlayerRegistry) supports(def PlayerDefinition) bool {
	for _, p := range def.Platforms {
		if p == r.goos {
			return true
		}
	}
	return false
}

func (r *PlayerRegistry) args(def PlayerDefinition) []string {
	switch r.goos {
	case "darwin":
		if len(def.ArgsDarwin) > 0 {
			return def.ArgsDarwin
		}
	case "linux":
		if len(def.ArgsLinux) > 0 {
			return def.ArgsLinux
		}
	case "windows":
		if len(def.ArgsWindows) > 0 {
			return def.ArgsWindows
		}
	}
	return def.Args
}

// Definition returns the definition registered under name.
func (r *PlayerRegistry) Definition(name string) (PlayerDefinition, bool) {
	def, ok := r.players[name]
	return def, ok
}
