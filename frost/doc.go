// Package frost implements the distributed key generation of FROST
// (Flexible Round-Optimized Schnorr Threshold) over an arbitrary
// [group.Group], together with the Schnorr signatures and hashers built on
// the same group.
//
// # Distributed Key Generation
//
// Each of n participants samples a secret polynomial of degree t-1 and
// publishes commitments to its coefficients:
//
//  1. [FROST.NewParticipant] samples the polynomial; [Participant.Round1Broadcast]
//     returns the commitments to publish.
//  2. [FROST.Round1PrivateSend] evaluates the polynomial for each other
//     participant. The result must travel confidentially.
//  3. [FROST.Round2ReceiveShare] checks a received share against the sender's
//     commitments.
//  4. [FROST.Finalize] sums the shares into the participant's [KeyShare].
//
// No participant learns the group secret. Any t key shares can be combined
// with [LagrangeCoefficient] weights, which is how the elgamal package
// decrypts under the group key. [FROST.VerificationKey] recomputes any
// participant's x_i * G from the public commitments alone.
//
// # Schnorr signatures
//
// [Sign] and [Verify] implement single-signer Schnorr signatures whose
// challenge comes from a [Hasher]. Every message posted to a trustee board is
// signed this way.
//
//	sig, err := frost.Sign(g, h, rand.Reader, sk, msg)
//	ok := frost.Verify(g, h, msg, sig, pk)
//
// # Security Considerations
//
// The DKG assumes participants follow the protocol; it detects a bad share
// but has no complaint round. Nonces are sampled fresh for every signature.
package frost
