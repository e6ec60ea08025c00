// main.go - End-to-end stealth coin scenario.
//
// This walks one coin through its whole life:
//   - a recipient derives spend and view keys and publishes (S, V)
//   - a sender generates a coin of 199900000 units for that address
//   - the coin is compacted to the nine-word record the contract stores
//   - every wallet decodes the record and tries to claim it
//   - the owner recovers amount and mask, checks the commitment and signs
//     the spend to a destination address
//   - the signature is checked against the one-time address, as the
//     contract does
//
// Usage:
//   go run main.go

package main

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"os"

	"github.com/rs/zerolog"

	"stealthcoin/internal/coin"
	"stealthcoin/internal/curve"
	"stealthcoin/internal/signer"
	"stealthcoin/internal/stealth"
)

const (
	numWallets = 5
	amount     = 199900000
	recipient  = 2
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if err := run(log); err != nil {
		log.Error().Err(err).Msg("scenario failed")
		os.Exit(1)
	}
}

func run(log zerolog.Logger) error {
	log.Info().Msg("=== Stealth coin scenario ===")

	params := curve.DefaultParams()

	// 1. Wallets
	wallets := make([]*stealth.Keys, numWallets)
	for i := range wallets {
		keys, err := stealth.GenerateKeys(params, rand.Reader)
		if err != nil {
			return fmt.Errorf("failed to create wallet %d: %w", i, err)
		}
		wallets[i] = keys
	}
	log.Info().Int("wallets", numWallets).Int("recipient", recipient).Msg("wallets created")

	// 2. Sender builds the coin
	proof, err := coin.Generate(params, rand.Reader, wallets[recipient].PublicAddress(), big.NewInt(amount), 0)
	if err != nil {
		return fmt.Errorf("failed to generate coin: %w", err)
	}

	// 3. What the chain stores
	compact, err := proof.Compact()
	if err != nil {
		return err
	}
	record, err := json.Marshal(compact.Record())
	if err != nil {
		return err
	}
	log.Info().RawJSON("record", record).Msg("coin posted")

	// 4. Every wallet decodes and tries to claim
	var parsed coin.Record
	if err := json.Unmarshal(record, &parsed); err != nil {
		return err
	}
	full, err := coin.DecodeRecord(params, parsed)
	if err != nil {
		return fmt.Errorf("failed to decode record: %w", err)
	}

	var owned *coin.Ownership
	for i, keys := range wallets {
		o, ok, err := full.Claim(keys)
		if err != nil {
			return fmt.Errorf("wallet %d: %w", i, err)
		}
		if !ok {
			log.Debug().Int("wallet", i).Msg("not the owner")
			continue
		}
		log.Info().Int("wallet", i).Str("amount", o.Amount.String()).Msg("coin claimed")
		owned = o
	}
	if owned == nil {
		return fmt.Errorf("no wallet claimed the coin")
	}
	if owned.Amount.Cmp(big.NewInt(amount)) != 0 || owned.Mask.Cmp(proof.Mask) != 0 {
		return fmt.Errorf("recovered amount or mask differs from what was sent")
	}

	// 5. Spend authorization
	dest, err := signer.ParseAddress("0x00000000000000000000000000000000000000aa")
	if err != nil {
		return err
	}
	sig, err := owned.Sign(dest)
	if err != nil {
		return fmt.Errorf("failed to sign: %w", err)
	}
	if !full.VerifySignature(dest, sig) {
		return signer.ErrSignatureVerification
	}
	log.Info().
		Str("destination", dest.String()).
		Str("signature", "0x"+hex.EncodeToString(sig.Bytes())).
		Msg("spend authorized")

	return nil
}
