package main

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"shelf/internal/config"
	"shelf/internal/logging"
	"shelf/internal/session"
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
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// withSession opens the library, runs fn and closes it again. Background
// catalog work is drained before returning, and a failed write turns into
// a command error.
func (c *commandContext) withSession(cmd *cobra.Command, fn func(*session.Session) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	s, err := session.Open(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}

	runErr := fn(s)
	s.Wait()
	if runErr == nil {
		if werr := s.WriteErr(); werr != nil {
			runErr = fmt.Errorf("save library: %w", werr)
		}
	}
	if cerr := s.Close(); cerr != nil && runErr == nil {
		runErr = cerr
	}
	return runErr
}

// withItem resolves the id argument before running fn.
func (c *commandContext) withItem(cmd *cobra.Command, ref string, fn func(*session.Session, string) error) error {
	return c.withSession(cmd, func(s *session.Session) error {
		id, err := s.ResolveID(ref)
		if err != nil {
			return err
		}
		return fn(s, id)
	})
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
