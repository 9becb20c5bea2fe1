package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/protoguide/protoguide/internal/auth"
	"github.com/protoguide/protoguide/internal/config"
)

func tokenCommand(c *cli.Context) error {
	cfg, err := config.Load(c.String("env"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	tokens, err := auth.NewService(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.Audience)
	if err != nil {
		return fmt.Errorf("token service: %w", err)
	}

	ttl := c.Duration("ttl")
	if ttl <= 0 {
		ttl = cfg.Auth.TokenTTL()
	}

	tok, err := tokens.Issue(c.String("subject"), c.String("name"), ttl)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.App.Writer, tok)
	return err
}
