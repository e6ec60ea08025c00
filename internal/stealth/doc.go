// Package stealth implements one-time addresses over secp256k1.
//
// A sender pays a PublicAddress (S, V) by picking r, publishing R = r·G and
// P = Hs(r·V)·G + S. Only the holder of v can link P back to S, and only the
// holder of s can spend it with x = Hs(v·R) + s.
package stealth
