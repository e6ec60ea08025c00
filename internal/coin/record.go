// record.go - Compact on-chain coin layout.
//
// The contract returns a coin as nine uint256 words:
//
//	0 commitment X      3 commitment parity      6 encrypted amount
//	1 one-time X        4 one-time parity        7 encrypted mask
//	2 ephemeral X       5 ephemeral parity       8 index
//
// Call results usually arrive as a JSON object keyed "0".."8"; a plain
// JSON array in the same order is accepted too.

package coin

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"stealthcoin/internal/stealth"
)

// RecordFields is the number of words in a Record.
const RecordFields = 9

const (
	fieldCommitmentX = iota
	fieldOneTimeX
	fieldEphemeralX
	fieldCommitmentParity
	fieldOneTimeParity
	fieldEphemeralParity
	fieldEncryptedAmount
	fieldEncryptedMask
	fieldIndex
)

// ErrMalformedRecord is returned when a record has missing or non-numeric fields.
var ErrMalformedRecord = errors.New("malformed coin record")

// Record is the on-chain form of a coin, one hex string per word.
type Record [RecordFields]string

// CompactCoin is a coin as stored on chain: X coordinates, parity bits,
// ciphertexts and the coin index.
type CompactCoin struct {
	CommitmentX *big.Int
	OneTimeX    *big.Int
	EphemeralX  *big.Int

	CommitmentOdd bool
	OneTimeOdd    bool
	EphemeralOdd  bool

	EncryptedAmount stealth.Ciphertext
	EncryptedMask   stealth.Ciphertext
	Index           uint64
}

// ParseRecord checks the shape of r and converts it to a CompactCoin.
// Curve membership is checked later by Decode.
func ParseRecord(r Record) (*CompactCoin, error) {
	var (
		c   CompactCoin
		err error
	)
	xs := []struct {
		field int
		dst   **big.Int
	}{
		{fieldCommitmentX, &c.CommitmentX},
		{fieldOneTimeX, &c.OneTimeX},
		{fieldEphemeralX, &c.EphemeralX},
	}
	for _, x := range xs {
		if *x.dst, err = parseWord(r[x.field]); err != nil {
			return nil, fmt.Errorf("field %d: %w", x.field, err)
		}
	}

	parities := []struct {
		field int
		dst   *bool
	}{
		{fieldCommitmentParity, &c.CommitmentOdd},
		{fieldOneTimeParity, &c.OneTimeOdd},
		{fieldEphemeralParity, &c.EphemeralOdd},
	}
	for _, p := range parities {
		if *p.dst, err = parseParity(r[p.field]); err != nil {
			return nil, fmt.Errorf("field %d: %w", p.field, err)
		}
	}

	if c.EncryptedAmount, err = stealth.ParseCiphertext(r[fieldEncryptedAmount]); err != nil {
		return nil, fmt.Errorf("field %d: %w", fieldEncryptedAmount, err)
	}
	if c.EncryptedMask, err = stealth.ParseCiphertext(r[fieldEncryptedMask]); err != nil {
		return nil, fmt.Errorf("field %d: %w", fieldEncryptedMask, err)
	}

	index, err := parseWord(r[fieldIndex])
	if err != nil {
		return nil, fmt.Errorf("field %d: %w", fieldIndex, err)
	}
	if !index.IsUint64() {
		return nil, fmt.Errorf("field %d: %w: index does not fit in 64 bits", fieldIndex, ErrMalformedRecord)
	}
	c.Index = index.Uint64()

	return &c, nil
}

// Record formats c in the on-chain layout.
func (c *CompactCoin) Record() Record {
	var r Record
	r[fieldCommitmentX] = formatWord(c.CommitmentX)
	r[fieldOneTimeX] = formatWord(c.OneTimeX)
	r[fieldEphemeralX] = formatWord(c.EphemeralX)
	r[fieldCommitmentParity] = formatParity(c.CommitmentOdd)
	r[fieldOneTimeParity] = formatParity(c.OneTimeOdd)
	r[fieldEphemeralParity] = formatParity(c.EphemeralOdd)
	r[fieldEncryptedAmount] = c.EncryptedAmount.String()
	r[fieldEncryptedMask] = c.EncryptedMask.String()
	r[fieldIndex] = "0x" + strconv.FormatUint(c.Index, 16)
	return r
}

// MarshalJSON writes the record as an object keyed "0".."8".
func (r Record) MarshalJSON() ([]byte, error) {
	m := make(map[string]string, RecordFields)
	for i, v := range r {
		m[strconv.Itoa(i)] = v
	}
	return json.Marshal(m)
}

// UnmarshalJSON accepts an object keyed "0".."8" or an array of nine strings.
func (r *Record) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		if len(list) != RecordFields {
			return fmt.Errorf("%w: expected %d fields, got %d", ErrMalformedRecord, RecordFields, len(list))
		}
		copy(r[:], list)
		return nil
	}

	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	if len(m) != RecordFields {
		return fmt.Errorf("%w: expected %d fields, got %d", ErrMalformedRecord, RecordFields, len(m))
	}
	var out Record
	for i := range out {
		v, ok := m[strconv.Itoa(i)]
		if !ok {
			return fmt.Errorf("%w: missing field %d", ErrMalformedRecord, i)
		}
		out[i] = v
	}
	*r = out
	return nil
}

// parseWord parses a non-negative hex word of at most 256 bits.
func parseWord(s string) (*big.Int, error) {
	digits := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if digits == "" || len(digits) > 64 || strings.IndexFunc(digits, notHex) >= 0 {
		return nil, fmt.Errorf("%w: bad word %q", ErrMalformedRecord, s)
	}
	v, ok := new(big.Int).SetString(digits, 16)
	if !ok {
		return nil, fmt.Errorf("%w: bad word %q", ErrMalformedRecord, s)
	}
	return v, nil
}

func notHex(r rune) bool {
	return !('0' <= r && r <= '9' || 'a' <= r && r <= 'f' || 'A' <= r && r <= 'F')
}

func parseParity(s string) (bool, error) {
	v, err := parseWord(s)
	if err != nil {
		return false, err
	}
	switch {
	case v.Sign() == 0:
		return false, nil
	case v.Cmp(big.NewInt(1)) == 0:
		return true, nil
	default:
		return false, fmt.Errorf("%w: parity must be 0 or 1, got %s", ErrMalformedRecord, s)
	}
}

func formatWord(v *big.Int) string {
	return fmt.Sprintf("0x%064x", v)
}

func formatParity(odd bool) string {
	if odd {
		return "0x1"
	}
	return "0x0"
}
