package main

import (
	"github.com/urfave/cli/v2"
)

var configCmd = cli.Command{
	Name:  "config",
	Usage: "print the effective configuration or save it to a file",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "out",
			Usage: "write the configuration to this path instead of printing it",
		},
	},
	Action: configAction,
}

func configAction(ctx *cli.Context) error {
	e := getEnv(ctx)

	if out := ctx.String("out"); out != "" {
		if err := SaveConfig(e.cfg, out); err != nil {
			return err
		}
		e.log.Info().Str("path", out).Msg("configuration saved")
		return nil
	}
	return printJSON(ctx, e.cfg)
}
