package system

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/emersion/go-autostart"
	"github.com/tartampluch/go-countdown/internal/config"
)

// Launcher is the part of autostart.App used here.
type Launcher interface {
	IsEnabled() bool
	Enable() error
	Disable() error
}

// SetAutostart registers or removes the current executable as a login item.
func SetAutostart(enable bool) error {
	execPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrAutostartExec, err)
	}
	// Resolve symlinks if any
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrAutostartExec, err)
	}

	return Apply(&autostart.App{
		Name:        config.AutostartName,
		DisplayName: config.AppName,
		Exec:        []string{execPath},
	}, enable)
}

// Apply brings the launcher to the requested state. It is a no-op when the
// login item is already in that state.
func Apply(l Launcher, enable bool) error {
	log := slog.With(config.LogKeyComponent, config.CompSystem)

	if enable == l.IsEnabled() {
		return nil
	}

	if enable {
		if err := l.Enable(); err != nil {
			return fmt.Errorf("%s: %w", config.ErrAutostartEnable, err)
		}
		log.Info(config.MsgAutostartOn)
		return nil
	}

	if err := l.Disable(); err != nil {
		return fmt.Errorf("%s: %w", config.ErrAutostartDisable, err)
	}
	log.Info(config.MsgAutostartOff)
	return nil
}
