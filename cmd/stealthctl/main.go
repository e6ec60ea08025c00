// main.go - stealthctl, a command line wallet for stealth coins.
//
// Usage:
//   stealthctl keygen
//   stealthctl send --to <address> --amount 199900000 --index 3
//   stealthctl check --record coin.json --spend <key>
//   stealthctl sign --record coin.json --spend <key> --to 0x...
//   stealthctl scan --records coins.json --spend <key>
//
// Settings come from an optional config file (--config) and STEALTH_*
// environment variables.

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"stealthcoin/internal/curve"
	"stealthcoin/internal/stealth"
)

const envKey = "env"

// env is the state shared by every command, built once in Before.
type env struct {
	cfg    *Config
	log    *Logger
	params *curve.Params
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "[stealthctl] %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "stealthctl"
	app.Usage = "generate, inspect, claim and sign stealth coins"
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "path to a json, toml or yaml config file",
			EnvVars: []string{envPrefix + "_CONFIG"},
		},
	}
	app.Before = setup
	app.After = teardown
	app.Commands = []*cli.Command{
		&configCmd,
		&keygen,
		&send,
		&decode,
		&check,
		&sign,
		&verify,
		&scan,
	}
	return app
}

func setup(ctx *cli.Context) error {
	cfg, err := LoadConfig(ctx.String("config"))
	if err != nil {
		return err
	}

	auditPath := ""
	if cfg.EnableAudit {
		auditPath = cfg.AuditLogPath
	}
	logger, err := NewLogger(cfg.LogLevel, cfg.LogFile, auditPath)
	if err != nil {
		return err
	}

	params, err := curve.NewParams(cfg.CurveConfig())
	if err != nil {
		logger.Close()
		return fmt.Errorf("failed to build curve parameters: %w", err)
	}

	ctx.App.Metadata[envKey] = &env{cfg: cfg, log: logger, params: params}
	logger.Debug().Str("scalar_dst", cfg.ScalarDST).Int("workers", cfg.Workers).Msg("configuration loaded")
	return nil
}

func teardown(ctx *cli.Context) error {
	if e, ok := ctx.App.Metadata[envKey].(*env); ok {
		return e.log.Close()
	}
	return nil
}

func getEnv(ctx *cli.Context) *env {
	return ctx.App.Metadata[envKey].(*env)
}

// loadKeys derives the wallet keys from the --spend flag.
func loadKeys(ctx *cli.Context, params *curve.Params) (*stealth.Keys, error) {
	spend, err := parseScalar(ctx.String("spend"))
	if err != nil {
		return nil, fmt.Errorf("spend key: %w", err)
	}
	return stealth.DeriveKeys(params, spend)
}

func parseScalar(s string) (*big.Int, error) {
	digits := strings.TrimPrefix(s, "0x")
	if digits == "" {
		return nil, errors.New("empty value")
	}
	v, ok := new(big.Int).SetString(digits, 16)
	if !ok || v.Sign() < 0 {
		return nil, fmt.Errorf("not a hex number: %q", s)
	}
	return v, nil
}

// readInput reads a file, or stdin when path is "-".
func readInput(path string) ([]byte, error) {
	if path == "" {
		return nil, errors.New("no input given")
	}
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func printJSON(ctx *cli.Context, v interface{}) error {
	out, err := json.MarshalIndent(v, "", "\t")
	if err != nil {
		return fmt.Errorf("unable to encode output: %w", err)
	}
	_, err = fmt.Fprintln(ctx.App.Writer, string(out))
	return err
}

func hexInt(v *big.Int) string {
	return "0x" + v.Text(16)
}
