package main

import (
	"crypto/rand"

	"github.com/urfave/cli/v2"

	"stealthcoin/internal/stealth"
)

var keygen = cli.Command{
	Name:  "keygen",
	Usage: "create a wallet or show the keys derived from a spend key",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "spend",
			Usage: "existing hex spend key, a fresh one is drawn when empty",
		},
	},
	Action: keygenAction,
}

type keysView struct {
	Spend   string `json:"spend"`
	View    string `json:"view"`
	Address string `json:"address"`
}

func keygenAction(ctx *cli.Context) error {
	e := getEnv(ctx)

	var (
		keys *stealth.Keys
		err  error
	)
	if ctx.String("spend") != "" {
		keys, err = loadKeys(ctx, e.params)
	} else {
		keys, err = stealth.GenerateKeys(e.params, rand.Reader)
	}
	if err != nil {
		return err
	}

	e.log.Info().Msg("wallet keys ready")
	return printJSON(ctx, keysView{
		Spend:   hexInt(keys.Spend),
		View:    hexInt(keys.View),
		Address: keys.PublicAddress().String(),
	})
}
