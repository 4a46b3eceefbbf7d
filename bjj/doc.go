// Package bjj implements [group.Group] and [group.PlaintextEncoder] on the
// Baby Jubjub curve, using the twisted Edwards arithmetic of gnark-crypto.
//
// Baby Jubjub is defined over the scalar field of BN254 by
//
//	a*x^2 + y^2 = 1 + d*x^2*y^2
//
// and has a prime-order subgroup of size
//
//	2736030358979909402780800718157159386076813972158567259200215660948447373041
//
// All scalars are reduced modulo that order, and [Point.SetBytes] only
// accepts subgroup points.
//
// # Plaintext encoding
//
// A 30-byte plaintext is placed in the y coordinate next to a one-byte
// counter, and the counter is incremented until y yields a subgroup point.
// Decoding reads the plaintext back out of y, so the mapping is exact and
// needs no lookup table:
//
//	g := &bjj.BJJ{}
//	m, err := g.EncodePlaintext(p)   // p is 30 bytes
//	back, err := g.DecodePlaintext(m) // back == p
package bjj
