package media

import (
	"fmt"
	"os/exec"
	"runtime"

	"github.com/pders01/gifr/internal/config"
)

// Launcher opens a media item's source in an external player.
type Launcher struct {
	player   string
	registry *PlayerRegistry
	lookPath func(string) (string, error)
	start    func(*exec.Cmd) error
}

func NewLauncher(cfg *config.Config) *Launcher {
	registry, err := NewPlayerRegistry()
	if err != nil {
		registry = &PlayerRegistry{players: make(map[string]PlayerDefinition), goos: runtime.GOOS}
	}
	return newLauncher(cfg.Media, registry, exec.LookPath, startDetached)
}

func newLauncher(cfg config.MediaConfig, registry *PlayerRegistry, lookPath func(string) (string, error), start func(*exec.Cmd) error) *Launcher {
	l := &Launcher{registry: registry, lookPath: lookPath, start: start}

	var players config.MediaPlayers
	switch registry.goos {
	case "darwin":
		players = cfg.Darwin
	case "windows":
		players = cfg.Windows
	default:
		players = cfg.Linux
	}

	l.player = l.findCommand(players.Video...)
	if l.player == "" {
		l.player = cfg.DefaultOpener
	}
	return l
}

// Player returns the command used to open media, or "" if none was found.
func (l *Launcher) Player() string {
	return l.player
}

// Open starts the player on url without waiting for it to exit.
func (l *Launcher) Open(url string) error {
	if url == "" {
		return fmt.Errorf("no source URL to open")
	}
	if l.player == "" {
		return fmt.Errorf("no video player found")
	}

	cmd, err := l.registry.Command(l.player, url)
	if err != nil {
		cmd = exec.Command(l.player, url)
	}

	if err := l.start(cmd); err != nil {
		return fmt.Errorf("failed to start %s: %w", l.player, err)
	}
	return nil
}

func (l *Launcher) findCommand(commands ...string) string {
	for _, cmd := range commands {
		if _, err := l.lookPath(cmd); err == nil {
			return cmd
		}
	}
	return ""
}

func startDetached(cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() {
		_ = cmd.Wait()
	}()
	return nil
}
