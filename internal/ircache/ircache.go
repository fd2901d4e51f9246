// Package ircache persists a built IR (internal/ir) to a small binary
// cache file keyed by the schema source's content so repeated emitter
// invocations over an unchanged schema skip re-tokenizing, re-parsing and
// re-annotating it. CBOR is used over JSON, as the teacher's caching
// layer does, for a denser and strictly-typed on-disk format.
package ircache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/fxamacker/cbor/v2"

	"github.com/aledsdavies/flatwire/internal/ir"
)

// entry is the on-disk shape: the IR format version it was built against
// plus a content hash of the schema source it was derived from, so a
// stale cache entry (format upgrade, or edited schema) is rejected rather
// than silently served.
type entry struct {
	FormatVersion string
	SourceHash    string
	Decls         []ir.Decl
	Namespace     string
}

// Path returns the cache file path for a given schema file path.
func Path(schemaPath string) string {
	return schemaPath + ".ircache"
}

func hashOf(src []byte) string {
	sum := sha256.Sum256(src)
	return hex.EncodeToString(sum[:])
}

// Load returns the cached IR for src if a fresh cache entry exists at
// path, or (nil, false) if it is missing, stale, or unreadable.
func Load(path string, src []byte) (*ir.IR, bool) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	var e entry
	if err := cbor.Unmarshal(raw, &e); err != nil {
		return nil, false
	}
	if e.FormatVersion != ir.FormatVersion || e.SourceHash != hashOf(src) {
		return nil, false
	}
	return &ir.IR{
		SchemaVersion: e.FormatVersion,
		Namespace:     e.Namespace,
		Declarations:  e.Decls,
	}, true
}

// Store writes m's cache entry for src to path.
func Store(path string, src []byte, m *ir.IR) error {
	e := entry{
		FormatVersion: m.SchemaVersion,
		SourceHash:    hashOf(src),
		Decls:         m.Declarations,
		Namespace:     m.Namespace,
	}
	raw, err := cbor.Marshal(e)
	if err != nil {
		return fmt.Errorf("ircache: encoding: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("ircache: writing %s: %w", path, err)
	}
	return nil
}
