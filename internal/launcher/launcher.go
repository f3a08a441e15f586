// Package launcher starts the dedicated game-server binary for a
// launched match.
package launcher

import (
	"fmt"
	"os/exec"

	"github.com/rs/zerolog"
)

// Exec spawns one dedicated-server process per match. Failures are
// logged, never fatal: the match proceeds and clients report a dead
// server through game_close.
type Exec struct {
	bin string
	log zerolog.Logger
}

func NewExec(bin string, log zerolog.Logger) *Exec {
	return &Exec{bin: bin, log: log.With().Str("component", "launcher").Logger()}
}

func (l *Exec) Start(gameID uint64, port int) error {
	if l.bin == "" {
		l.log.Debug().Uint64("game", gameID).Int("port", port).Msg("no server binary configured, skipping launch")
		return nil
	}
	cmd := exec.Command(l.bin, fmt.Sprintf("-Port=%d", port), "-gameid", fmt.Sprintf("%d", gameID))
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", l.bin, err)
	}
	l.log.Info().Uint64("game", gameID).Int("port", port).Int("pid", cmd.Process.Pid).Msg("dedicated server started")

	// Reap the child so finished servers do not pile up as zombies.
	go func() {
		if err := cmd.Wait(); err != nil {
			l.log.Warn().Err(err).Uint64("game", gameID).Msg("dedicated server exited with error")
		}
	}()
	return nil
}
