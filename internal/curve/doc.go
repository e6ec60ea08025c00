// Package curve provides the secp256k1 context shared by the stealth coin packages.
//
// Overview:
//   - Params carries the generators G and H, the group order and the scalar hashing tag
//   - Points cross the contract boundary as an X coordinate plus a Y parity bit
//   - Proofs carry points in the 65-byte uncompressed form 0x04 || X || Y
//
// Hashing:
//   - Keccak-256 (legacy padding) for every digest and keystream
//   - H is derived with the RFC 9380 hash-to-curve map so nobody knows log_G(H)
package curve
