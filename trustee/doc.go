// Package trustee implements the protocol a trustee runs against the
// board: key generation, mixing and threshold decryption of ballot
// batches.
//
// A trustee is driven entirely by [Trustee.Step]. Each call hands it a
// snapshot of the board; the trustee verifies every message it has not
// seen, adds it to its local board and performs the actions the local
// board now enables:
//
//  1. sign the Configuration
//  2. post a Channel key once every trustee signed the configuration
//  3. post Shares: Feldman commitments plus one share per trustee, each
//     sealed for its recipient's channel
//  4. once every Shares is seen, verify the shares addressed to it and
//     derive its key share; position 0 posts the PublicKey and the others
//     endorse it with PublicKeySigned
//  5. for each Ballots batch, selected trustees mix in selection order
//  6. selected trustees post DecryptionFactors of the final mix
//  7. the first selected trustee posts the Plaintexts, the other selected
//     trustees endorse them with PlaintextsSigned
//
// A step that fails leaves the trustee as it was. Messages a trustee
// produced but has not yet seen on the board are returned again by every
// step until they appear.
package trustee
