// Package elgamal implements ElGamal encryption over a [group.Group] with
// threshold decryption under a key produced by the frost DKG.
//
// A ciphertext (C1, C2) = (r*G, m + r*Y) encrypts a point m under the group
// key Y. Ciphertexts can be re-encrypted and shuffled without the secret,
// which is how mixing trustees break the link between ballots and results.
//
// # Threshold decryption
//
// Y = x*G where no one holds x, but each trustee i holds a share x_i with
// verification key x_i*G. Decryption takes t trustees:
//
//  1. each computes a decryption factor D_i = x_i*C1 with [PartialDecrypt],
//     attaching a Chaum-Pedersen proof that log_G(x_i*G) = log_C1(D_i);
//  2. anyone checks the factors with [VerifyFactor];
//  3. [Combine] weights the factors with Lagrange coefficients and
//     returns m = C2 - sum(lambda_i * D_i).
package elgamal
