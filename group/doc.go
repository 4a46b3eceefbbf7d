// Package group defines the abstract prime-order group used by every
// cryptographic component of a trustee board session: the distributed key
// generation run by the trustees, the Schnorr signatures on board messages,
// and the ElGamal encryption of ballots.
//
//   - [Scalar]: integers modulo the group order (secrets, shares, nonces)
//   - [Point]: group elements (public keys, commitments, ciphertext halves)
//   - [Group]: factory for scalars and points, the generator and hashing
//   - [PlaintextEncoder]: reversible mapping of fixed-size plaintexts to points
//
// # Mutable receivers
//
// Arithmetic sets the receiver to the result and returns it, so expressions
// chain without intermediate allocations:
//
//	// c2 = m + r*pk
//	c2 := g.NewPoint().ScalarMult(r, pk)
//	c2 = g.NewPoint().Add(m, c2)
//
// Operations that can fail return errors instead of panicking.
//
// # Implementations
//
// The bjj package implements every interface here on Baby Jubjub. A suite
// (see the suite package) binds a Group, a PlaintextEncoder and a hasher under
// one name, and that name is what a session configuration records.
package group
