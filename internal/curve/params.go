// params.go - Curve context shared by every stealth coin operation.
//
// Params bundles the secp256k1 group parameters together with the second,
// independent generator H used by Pedersen commitments and the domain
// separation tag used when hashing into the scalar field. It is an explicit
// value passed to every operation; nothing in this module reads global curve
// state besides the immutable constants of gnark-crypto.

package curve

import (
	"errors"
	"fmt"
	"hash"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/secp256k1"
	"github.com/consensys/gnark-crypto/ecc/secp256k1/fp"
	"github.com/consensys/gnark-crypto/ecc/secp256k1/fr"
	"golang.org/x/crypto/sha3"
)

const (
	// DefaultGeneratorSeed is hashed to the curve to obtain H.
	DefaultGeneratorSeed = "stealthcoin/pedersen/H"
	// DefaultGeneratorDST is the RFC 9380 domain separation tag used for H.
	DefaultGeneratorDST = "STEALTHCOIN-V01-CS01-with-secp256k1_XMD:SHA-256_SVDW_RO_"
	// DefaultScalarDST prefixes every hash-to-scalar input.
	DefaultScalarDST = "stealthcoin/scalar"
)

// Config selects the tunable parts of a curve context.
// Empty fields fall back to the defaults above.
type Config struct {
	GeneratorSeed string
	GeneratorDST  string
	ScalarDST     string
}

// Params holds protocol and curve parameters.
type Params struct {
	G secp256k1.G1Affine // standard base point
	H secp256k1.G1Affine // commitment blinding generator, log_G(H) unknown

	order     *big.Int
	modulus   *big.Int
	scalarDST []byte
	newHash   func() hash.Hash
}

// NewParams builds a curve context from cfg.
func NewParams(cfg Config) (*Params, error) {
	if cfg.GeneratorSeed == "" {
		cfg.GeneratorSeed = DefaultGeneratorSeed
	}
	if cfg.GeneratorDST == "" {
		cfg.GeneratorDST = DefaultGeneratorDST
	}
	if cfg.ScalarDST == "" {
		cfg.ScalarDST = DefaultScalarDST
	}
	if len(cfg.GeneratorDST) > 255 {
		return nil, errors.New("generator dst longer than 255 bytes")
	}

	_, g := secp256k1.Generators()
	h, err := secp256k1.HashToG1([]byte(cfg.GeneratorSeed), []byte(cfg.GeneratorDST))
	if err != nil {
		return nil, fmt.Errorf("failed to derive generator H: %w", err)
	}
	if h.IsInfinity() || h.Equal(&g) {
		return nil, errors.New("derived generator H is degenerate")
	}

	return &Params{
		G:         g,
		H:         h,
		order:     fr.Modulus(),
		modulus:   fp.Modulus(),
		scalarDST: []byte(cfg.ScalarDST),
		newHash:   sha3.NewLegacyKeccak256,
	}, nil
}

// MustParams is NewParams for configurations known to be valid.
func MustParams(cfg Config) *Params {
	p, err := NewParams(cfg)
	if err != nil {
		panic(err)
	}
	return p
}

// DefaultParams returns the context used by the deployed contract.
func DefaultParams() *Params {
	return MustParams(Config{})
}

// Order returns a copy of the group order n.
func (p *Params) Order() *big.Int {
	return new(big.Int).Set(p.order)
}

// FieldModulus returns a copy of the base field prime.
func (p *Params) FieldModulus() *big.Int {
	return new(big.Int).Set(p.modulus)
}

// InScalarRange reports whether 0 <= s < n.
func (p *Params) InScalarRange(s *big.Int) bool {
	return s != nil && s.Sign() >= 0 && s.Cmp(p.order) < 0
}

// ReduceScalar returns s mod n as a new value.
func (p *Params) ReduceScalar(s *big.Int) *big.Int {
	return new(big.Int).Mod(s, p.order)
}

// ScalarBaseMult returns s·G.
func (p *Params) ScalarBaseMult(s *big.Int) secp256k1.G1Affine {
	var res secp256k1.G1Affine
	res.ScalarMultiplication(&p.G, s)
	return res
}

// ScalarMult returns s·P.
func (p *Params) ScalarMult(point *secp256k1.G1Affine, s *big.Int) secp256k1.G1Affine {
	var res secp256k1.G1Affine
	res.ScalarMultiplication(point, s)
	return res
}

// Add returns a + b.
func (p *Params) Add(a, b *secp256k1.G1Affine) secp256k1.G1Affine {
	var res secp256k1.G1Affine
	res.Add(a, b)
	return res
}
