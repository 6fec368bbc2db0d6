package easyhd

import (
	"fmt"
	"strconv"
	"strings"
)

// DerivationPath is an ordered sequence of child indices leading from some
// root to a descendant key. An index with the high bit (HardenedOffset) set
// selects hardened derivation. The empty path denotes the root itself.
type DerivationPath []uint32

// ParseDerivationPath converts a path string such as "m/44'/0/1" to its
// binary representation. Hardened indices are marked with a trailing "'",
// "h" or "H". A bare "m" is the empty (root) path. Whitespace around
// components is ignored.
func ParseDerivationPath(s string) (DerivationPath, error) {
	components := strings.Split(s, "/")
	if strings.TrimSpace(components[0]) != "m" {
		return nil, fmt.Errorf("derivation path must start with \"m\"")
	}
	path := DerivationPath{}
	for _, component := range components[1:] {
		component = strings.TrimSpace(component)
		hardened := false
		if strings.HasSuffix(component, "'") || strings.HasSuffix(component, "h") ||
			strings.HasSuffix(component, "H") {
			hardened = true
			component = component[:len(component)-1]
		}
		value, err := strconv.ParseUint(component, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid path component %q: %v", component, err)
		}
		if value >= uint64(HardenedOffset) {
			return nil, fmt.Errorf("path component %q out of range", component)
		}
		index := uint32(value)
		if hardened {
			index |= HardenedOffset
		}
		path = append(path, index)
	}
	return path, nil
}

// String renders the path in "m/44'/0/1" form.
func (p DerivationPath) String() string {
	var sb strings.Builder
	sb.WriteString("m")
	for _, index := range p {
		sb.WriteString("/")
		if index&HardenedOffset != 0 {
			sb.WriteString(strconv.FormatUint(uint64(index&^HardenedOffset), 10))
			sb.WriteString("'")
		} else {
			sb.WriteString(strconv.FormatUint(uint64(index), 10))
		}
	}
	return sb.String()
}

// Extended returns a new path with index appended. The receiver is never
// modified.
func (p DerivationPath) Extended(index uint32) DerivationPath {
	extended := make(DerivationPath, len(p), len(p)+1)
	copy(extended, p)
	return append(extended, index)
}

// Equal returns true if both paths contain the same indices in the same
// order, hardened flags included.
func (p DerivationPath) Equal(other DerivationPath) bool {
	if len(p) != len(other) {
		return false
	}
	for i, index := range p {
		if other[i] != index {
			return false
		}
	}
	return true
}

// pathToDescendant returns the suffix of descendant that extends ancestor.
// It returns false when ancestor is not an index-wise prefix of descendant.
func pathToDescendant(ancestor, descendant DerivationPath) (DerivationPath, bool) {
	if len(descendant) < len(ancestor) {
		return nil, false
	}
	for i, index := range ancestor {
		if descendant[i] != index {
			return nil, false
		}
	}
	return descendant[len(ancestor):], true
}
