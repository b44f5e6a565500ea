package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"aria/internal/config"
	"aria/internal/executor"
	"aria/internal/logging"
	"aria/internal/simulator"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) newLogger(cfg *config.Config) (*slog.Logger, error) {
	logger, err := logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: os.Stderr,
	})
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

// openExecutor wires the configured backend to a fresh executor. The
// returned cleanup closes the player connection and the catalog.
func (c *commandContext) openExecutor() (*executor.Executor, func(), error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := c.newLogger(cfg)
	if err != nil {
		return nil, nil, err
	}

	session, err := simulator.Open(simulator.Options{
		DatabasePath: cfg.Simulator.DatabasePath,
		DeviceNames:  cfg.Simulator.Devices,
		Logger:       logger,
	})
	if err != nil {
		return nil, nil, err
	}

	exec := executor.New(session, executor.Options{
		Eager:           cfg.Player.Eager,
		CachePath:       cfg.Cache.Path,
		CacheMaxEntries: cfg.Cache.MaxEntries,
		MaxVolume:       cfg.Player.MaxVolume,
		Logger:          logger,
	})

	cleanup := func() {
		_ = exec.Close()
		_ = session.Close()
	}
	return exec, cleanup, nil
}

// openSession opens just the backend, for maintenance commands that do not
// execute playback commands.
func (c *commandContext) openSession() (*simulator.Session, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.newLogger(cfg)
	if err != nil {
		return nil, err
	}
	return simulator.Open(simulator.Options{
		DatabasePath: cfg.Simulator.DatabasePath,
		DeviceNames:  cfg.Simulator.Devices,
		Logger:       logger,
	})
}
