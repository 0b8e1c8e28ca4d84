// Package kangaroo provides the public client API for parallel Pollard's
// kangaroo discrete-log search over secp256k1: parsing the public key and
// range bounds, starting and stopping a search, polling progress, and
// checkpointing to resume later.
package kangaroo
