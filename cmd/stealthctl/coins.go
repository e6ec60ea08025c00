package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"stealthcoin/internal/coin"
	"stealthcoin/internal/curve"
	"stealthcoin/internal/signer"
)

var recordFlag = &cli.StringFlag{
	Name:     "record",
	Usage:    "file holding one coin record as JSON, - for stdin",
	Required: true,
}

var spendFlag = &cli.StringFlag{
	Name:     "spend",
	Usage:    "hex spend key of the wallet",
	Required: true,
}

var toFlag = &cli.StringFlag{
	Name:     "to",
	Usage:    "destination address, 0x followed by 40 hex digits",
	Required: true,
}

var decode = cli.Command{
	Name:   "decode",
	Usage:  "decompress the points of a coin record",
	Flags:  []cli.Flag{recordFlag},
	Action: decodeAction,
}

var check = cli.Command{
	Name:   "check",
	Usage:  "test whether a wallet owns a coin and show its amount",
	Flags:  []cli.Flag{recordFlag, spendFlag},
	Action: checkAction,
}

var sign = cli.Command{
	Name:   "sign",
	Usage:  "authorize sending an owned coin to a destination",
	Flags:  []cli.Flag{recordFlag, spendFlag, toFlag},
	Action: signAction,
}

var verify = cli.Command{
	Name:  "verify",
	Usage: "check a spend signature the way the contract does",
	Flags: []cli.Flag{
		recordFlag,
		toFlag,
		&cli.StringFlag{
			Name:     "signature",
			Usage:    "hex r || s || v",
			Required: true,
		},
	},
	Action: verifyAction,
}

type decodedView struct {
	Index          uint64     `json:"index"`
	Commitment     coin.Point `json:"commitment"`
	OneTimeAddress coin.Point `json:"oneTimeAddress"`
	EphemeralKey   coin.Point `json:"ephemeralKey"`
}

type checkView struct {
	Owned  bool   `json:"owned"`
	Index  uint64 `json:"index"`
	Amount string `json:"amount,omitempty"`
	Mask   string `json:"mask,omitempty"`
}

type signView struct {
	Digest    string `json:"digest"`
	Signature string `json:"signature"`
	Signer    string `json:"signer"`
}

func loadCoin(ctx *cli.Context, e *env) (*coin.FullCoin, error) {
	data, err := readInput(ctx.String("record"))
	if err != nil {
		return nil, fmt.Errorf("failed to read record: %w", err)
	}
	var record coin.Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, err
	}
	return coin.DecodeRecord(e.params, record)
}

func decodeAction(ctx *cli.Context) error {
	e := getEnv(ctx)
	c, err := loadCoin(ctx, e)
	if err != nil {
		return err
	}

	cm, p, r := c.Commitment(), c.OneTimeAddress(), c.EphemeralKey()
	return printJSON(ctx, decodedView{
		Index:          c.Index(),
		Commitment:     curve.ToUncompressed(&cm),
		OneTimeAddress: curve.ToUncompressed(&p),
		EphemeralKey:   curve.ToUncompressed(&r),
	})
}

func checkAction(ctx *cli.Context) error {
	e := getEnv(ctx)
	c, err := loadCoin(ctx, e)
	if err != nil {
		return err
	}
	keys, err := loadKeys(ctx, e.params)
	if err != nil {
		return err
	}

	o, ok, err := c.Claim(keys)
	if err != nil {
		e.log.Warn().Err(err).Uint64("index", c.Index()).Msg("owned coin failed the commitment check")
		return err
	}
	if !ok {
		e.log.Info().Uint64("index", c.Index()).Msg("coin belongs to another wallet")
		return printJSON(ctx, checkView{Owned: false, Index: c.Index()})
	}

	e.log.Info().Uint64("index", c.Index()).Msg("coin claimed")
	return printJSON(ctx, checkView{
		Owned:  true,
		Index:  c.Index(),
		Amount: o.Amount.String(),
		Mask:   hexInt(o.Mask),
	})
}

func signAction(ctx *cli.Context) error {
	e := getEnv(ctx)
	c, err := loadCoin(ctx, e)
	if err != nil {
		return err
	}
	keys, err := loadKeys(ctx, e.params)
	if err != nil {
		return err
	}
	dest, err := signer.ParseAddress(ctx.String("to"))
	if err != nil {
		return err
	}

	o, ok, err := c.Claim(keys)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("coin %d is not owned by this wallet", c.Index())
	}

	sig, err := o.Sign(dest)
	if err != nil {
		return err
	}
	digest := c.HashForSigning(dest)

	e.log.Audit("coin_signed", map[string]interface{}{
		"index":       c.Index(),
		"destination": dest.String(),
	})
	return printJSON(ctx, signView{
		Digest:    "0x" + hex.EncodeToString(digest[:]),
		Signature: "0x" + hex.EncodeToString(sig.Bytes()),
		Signer:    signer.AddressFromPublicKey(&o.PublicKey).String(),
	})
}

func verifyAction(ctx *cli.Context) error {
	e := getEnv(ctx)
	c, err := loadCoin(ctx, e)
	if err != nil {
		return err
	}
	dest, err := signer.ParseAddress(ctx.String("to"))
	if err != nil {
		return err
	}
	raw, err := hex.DecodeString(strings.TrimPrefix(ctx.String("signature"), "0x"))
	if err != nil {
		return fmt.Errorf("signature: %w", err)
	}
	sig, err := signer.ParseSignature(raw)
	if err != nil {
		return err
	}

	if !c.VerifySignature(dest, sig) {
		return signer.ErrSignatureVerification
	}
	fmt.Fprintln(ctx.App.Writer, "signature valid")
	return nil
}
