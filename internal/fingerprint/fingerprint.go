// Package fingerprint derives a short, stable identifier for a source
// buffer, used to tell apart multiple parses of the same input file across
// one CLI run (e.g. repeated reparses under "helpdoc check --watch")
// without comparing full buffers in logs.
package fingerprint

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// Len is the number of hex characters a Fingerprint's String() produces.
const Len = 12

// Fingerprint identifies one version of a source buffer.
type Fingerprint [32]byte

// Of hashes data with BLAKE2b-256 and returns its fingerprint.
func Of(data []byte) Fingerprint {
	return Fingerprint(blake2b.Sum256(data))
}

// String renders the fingerprint as a short hex prefix, long enough to
// distinguish reparses of the same file in a log stream without printing a
// full 64-character digest on every line.
func (f Fingerprint) String() string {
	return hex.EncodeToString(f[:])[:Len]
}
