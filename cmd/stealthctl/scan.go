package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"stealthcoin/internal/coin"
	"stealthcoin/internal/curve"
	"stealthcoin/internal/stealth"
)

var scan = cli.Command{
	Name:  "scan",
	Usage: "test a list of coin records against one wallet",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "records",
			Usage:    "file holding a JSON array of coin records, - for stdin",
			Required: true,
		},
		spendFlag,
		&cli.IntFlag{
			Name:  "workers",
			Usage: "number of coins checked in parallel, defaults to the configured value",
		},
	},
	Action: scanAction,
}

// scanResult is the outcome for the record at Position in the input.
type scanResult struct {
	Position int     `json:"position"`
	Outcome  Outcome `json:"outcome"`
	Index    uint64  `json:"index,omitempty"`
	Amount   string  `json:"amount,omitempty"`
	Error    string  `json:"error,omitempty"`
}

func scanAction(ctx *cli.Context) error {
	e := getEnv(ctx)

	data, err := readInput(ctx.String("records"))
	if err != nil {
		return fmt.Errorf("failed to read records: %w", err)
	}
	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("records must be a JSON array: %w", err)
	}
	keys, err := loadKeys(ctx, e.params)
	if err != nil {
		return err
	}

	workers := ctx.Int("workers")
	if workers <= 0 {
		workers = e.cfg.Workers
	}

	stats := NewScanStats()
	results, err := scanRecords(ctx.Context, e.params, keys, records, workers, stats)
	if err != nil {
		return err
	}

	owned := make([]scanResult, 0)
	for _, r := range results {
		switch r.Outcome {
		case OutcomeOwned:
			owned = append(owned, r)
		case OutcomeInvalid, OutcomeMismatch:
			e.log.Warn().Int("position", r.Position).Str("outcome", string(r.Outcome)).Msg(r.Error)
		}
	}

	e.log.Info().Int64("coins", stats.Total()).Fields(stats.Summary()).Msg("scan finished")
	return printJSON(ctx, owned)
}

// scanRecords decodes and claims every record with at most workers
// goroutines. Records are parsed one by one, so a bad record is reported
// in its result slot and does not stop the scan.
func scanRecords(ctx context.Context, params *curve.Params, keys *stealth.Keys, records []json.RawMessage, workers int, stats *ScanStats) ([]scanResult, error) {
	results := make([]scanResult, len(records))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range records {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			results[i] = scanOne(params, keys, i, records[i])
			stats.Record(results[i].Outcome, time.Since(start))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func scanOne(params *curve.Params, keys *stealth.Keys, position int, raw json.RawMessage) scanResult {
	res := scanResult{Position: position}

	c, err := decodeRaw(params, raw)
	if err != nil {
		res.Outcome = OutcomeInvalid
		res.Error = err.Error()
		return res
	}
	res.Index = c.Index()

	o, ok, err := c.Claim(keys)
	switch {
	case errors.Is(err, coin.ErrCommitmentMismatch):
		res.Outcome = OutcomeMismatch
		res.Error = err.Error()
	case !ok:
		res.Outcome = OutcomeForeign
	default:
		res.Outcome = OutcomeOwned
		res.Amount = o.Amount.String()
	}
	return res
}

func decodeRaw(params *curve.Params, raw json.RawMessage) (*coin.FullCoin, error) {
	var record coin.Record
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, err
	}
	return coin.DecodeRecord(params, record)
}
