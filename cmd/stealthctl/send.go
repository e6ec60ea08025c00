package main

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"github.com/urfave/cli/v2"

	"stealthcoin/internal/coin"
	"stealthcoin/internal/stealth"
)

var send = cli.Command{
	Name:  "send",
	Usage: "build a coin for a public address",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "to",
			Usage:    "recipient public address as printed by keygen",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "amount",
			Usage:    "decimal amount",
			Required: true,
		},
		&cli.Uint64Flag{
			Name:  "index",
			Usage: "position the coin will take in the contract",
		},
	},
	Action: sendAction,
}

type sendView struct {
	Proof  *coin.Proof `json:"proof"`
	Record coin.Record `json:"record"`
}

func sendAction(ctx *cli.Context) error {
	e := getEnv(ctx)

	addr, err := stealth.ParsePublicAddress(ctx.String("to"))
	if err != nil {
		return err
	}
	amount, ok := new(big.Int).SetString(ctx.String("amount"), 10)
	if !ok {
		return errors.New("amount must be a decimal integer")
	}

	proof, err := coin.Generate(e.params, rand.Reader, addr, amount, ctx.Uint64("index"))
	if err != nil {
		return fmt.Errorf("failed to generate coin: %w", err)
	}
	compact, err := proof.Compact()
	if err != nil {
		return err
	}

	e.log.Info().Uint64("index", proof.Index).Msg("coin generated")
	return printJSON(ctx, sendView{Proof: proof, Record: compact.Record()})
}
