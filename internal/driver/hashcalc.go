package driver

import (
	"crypto/sha256"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"krllint/internal/lint"
	"krllint/internal/version"
)

// Digest is a SHA-256 value.
type Digest [32]byte

// combineDigest: H(content || part1 || part2 ...). parts уже в детерминированном порядке.
func combineDigest(content Digest, parts ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, d := range parts {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

type ruleFingerprint struct {
	ID       string
	Severity string
	Options  lint.Options
}

// Fingerprint hashes everything besides file content that changes a result:
// the enabled rules with their severities and options, and the tool version.
// Map keys are encoded sorted, so equal configurations hash equally.
func Fingerprint(rules []lint.Configured) (Digest, error) {
	list := make([]ruleFingerprint, len(rules))
	for i, c := range rules {
		list[i] = ruleFingerprint{ID: c.Rule.Meta().ID(), Severity: c.Severity.String(), Options: c.Options}
	}
	h := sha256.New()
	enc := msgpack.NewEncoder(h)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(version.Version); err != nil {
		return Digest{}, fmt.Errorf("fingerprint: %w", err)
	}
	if err := enc.Encode(list); err != nil {
		return Digest{}, fmt.Errorf("fingerprint: %w", err)
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out, nil
}

// cacheKey identifies one file result.
func cacheKey(content [32]byte, fingerprint Digest) Digest {
	return combineDigest(content, fingerprint)
}
