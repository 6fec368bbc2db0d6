package easyhd

// DerivedKey is any key that carries the purported derivation path used to
// reach it from some root. The path is attached by the holder's claim; it is
// untrusted metadata until proven by IsPrivateAncestorOf or
// IsPublicAncestorOf, which derive along the relative path and compare the
// resulting public keys.
type DerivedKey interface {
	// Derivation returns the purported derivation path.
	Derivation() DerivationPath
	// PublicKey returns the public key of the underlying key.
	PublicKey() *PublicKey
}

// DerivedPrivateKey is a plain private key coupled with its purported
// derivation path.
type DerivedPrivateKey struct {
	key        *PrivateKey
	derivation DerivationPath
}

// NewDerivedPrivateKey attaches a purported derivation path to a private
// key.
func NewDerivedPrivateKey(key *PrivateKey, derivation DerivationPath) *DerivedPrivateKey {
	return &DerivedPrivateKey{key: key, derivation: derivation}
}

// PrivateKey returns the underlying private key.
func (d *DerivedPrivateKey) PrivateKey() *PrivateKey {
	return d.key
}

// PublicKey returns the corresponding public key, with no side effects.
func (d *DerivedPrivateKey) PublicKey() *PublicKey {
	return d.key.PublicKey()
}

// Derivation returns the purported derivation path.
func (d *DerivedPrivateKey) Derivation() DerivationPath {
	return d.derivation
}

// Neuter returns the corresponding derived public key, preserving the path.
func (d *DerivedPrivateKey) Neuter() *DerivedPublicKey {
	return &DerivedPublicKey{key: d.key.PublicKey(), derivation: d.derivation}
}

// DerivedPublicKey is a plain public key coupled with its purported
// derivation path. It is the verifying counterpart of DerivedPrivateKey.
type DerivedPublicKey struct {
	key        *PublicKey
	derivation DerivationPath
}

// NewDerivedPublicKey attaches a purported derivation path to a public key.
func NewDerivedPublicKey(key *PublicKey, derivation DerivationPath) *DerivedPublicKey {
	return &DerivedPublicKey{key: key, derivation: derivation}
}

// PublicKey returns the underlying public key.
func (d *DerivedPublicKey) PublicKey() *PublicKey {
	return d.key
}

// Derivation returns the purported derivation path.
func (d *DerivedPublicKey) Derivation() DerivationPath {
	return d.derivation
}

// DerivedXPriv is an extended private key coupled with its purported
// derivation path.
type DerivedXPriv struct {
	xpriv      *ExtendedPrivateKey
	derivation DerivationPath
}

// NewDerivedMasterNode creates a master node from seed, wrapped with the
// empty derivation path.
func NewDerivedMasterNode(seed []byte, hint Hint, backend CurveBackend) (*DerivedXPriv, error) {
	xpriv, err := MasterNode(seed, hint, backend)
	if err != nil {
		return nil, err
	}
	return &DerivedXPriv{xpriv: xpriv, derivation: DerivationPath{}}, nil
}

// NewCustomDerivedMasterNode is NewDerivedMasterNode with a caller-supplied
// HMAC key, for non-standard derivation schemes.
func NewCustomDerivedMasterNode(hmacKey, seed []byte, hint Hint, backend CurveBackend) (*DerivedXPriv, error) {
	xpriv, err := CustomMasterNode(hmacKey, seed, hint, backend)
	if err != nil {
		return nil, err
	}
	return &DerivedXPriv{xpriv: xpriv, derivation: DerivationPath{}}, nil
}

// NewDerivedXPriv attaches a purported derivation path to an extended
// private key.
func NewDerivedXPriv(xpriv *ExtendedPrivateKey, derivation DerivationPath) *DerivedXPriv {
	return &DerivedXPriv{xpriv: xpriv, derivation: derivation}
}

// ExtendedKey returns the underlying extended private key.
func (d *DerivedXPriv) ExtendedKey() *ExtendedPrivateKey {
	return d.xpriv
}

// PublicKey returns the corresponding public key, with no side effects.
func (d *DerivedXPriv) PublicKey() *PublicKey {
	return d.xpriv.PublicKey()
}

// Derivation returns the purported derivation path.
func (d *DerivedXPriv) Derivation() DerivationPath {
	return d.derivation
}

// Neuter returns the corresponding derived extended public key, preserving
// the path.
func (d *DerivedXPriv) Neuter() *DerivedXPub {
	return &DerivedXPub{xpub: d.xpriv.Neuter(), derivation: d.derivation}
}

// DeriveChild derives the child at index and extends the path by that
// index.
func (d *DerivedXPriv) DeriveChild(index uint32) (*DerivedXPriv, error) {
	child, err := d.xpriv.DeriveChild(index)
	if err != nil {
		return nil, err
	}
	return &DerivedXPriv{xpriv: child, derivation: d.derivation.Extended(index)}, nil
}

// DerivePath derives the descendant at path relative to this key, extending
// the purported path accordingly. The application is atomic; the first
// failing step aborts the whole derivation.
func (d *DerivedXPriv) DerivePath(path DerivationPath) (*DerivedXPriv, error) {
	current := d
	for _, index := range path {
		next, err := current.DeriveChild(index)
		if err != nil {
			return nil, err
		}
		current = next
	}
	return current, nil
}

// PathToDescendant returns the suffix of other's purported path that
// extends this key's purported path, or false when no path relation exists.
func (d *DerivedXPriv) PathToDescendant(other DerivedKey) (DerivationPath, bool) {
	return pathToDescendant(d.derivation, other.Derivation())
}

// IsPrivateAncestorOf checks whether this key is an ancestor of other by
// deriving along the relative path and comparing public keys byte for byte.
// Absence of a path relation is a legitimate negative, reported as
// (false, nil); an error is returned only when the derive-and-compare step
// itself fails.
func (d *DerivedXPriv) IsPrivateAncestorOf(other DerivedKey) (bool, error) {
	path, ok := d.PathToDescendant(other)
	if !ok {
		return false, nil
	}
	descendant, err := d.xpriv.DerivePath(path)
	if err != nil {
		return false, err
	}
	return descendant.PublicKey().Equal(other.PublicKey()), nil
}

// DerivedXPub is an extended public key coupled with its purported
// derivation path. It is the verifying counterpart of DerivedXPriv.
type DerivedXPub struct {
	xpub       *ExtendedPublicKey
	derivation DerivationPath
}

// NewDerivedXPub attaches a purported derivation path to an extended public
// key.
func NewDerivedXPub(xpub *ExtendedPublicKey, derivation DerivationPath) *DerivedXPub {
	return &DerivedXPub{xpub: xpub, derivation: derivation}
}

// ExtendedKey returns the underlying extended public key.
func (d *DerivedXPub) ExtendedKey() *ExtendedPublicKey {
	return d.xpub
}

// PublicKey returns the underlying public key.
func (d *DerivedXPub) PublicKey() *PublicKey {
	return d.xpub.PublicKey()
}

// Derivation returns the purported derivation path.
func (d *DerivedXPub) Derivation() DerivationPath {
	return d.derivation
}

// DeriveChild derives the non-hardened child at index and extends the path
// by that index. Hardened indices fail with
// ErrHardenedDerivationUnsupported.
func (d *DerivedXPub) DeriveChild(index uint32) (*DerivedXPub, error) {
	child, err := d.xpub.DeriveChild(index)
	if err != nil {
		return nil, err
	}
	return &DerivedXPub{xpub: child, derivation: d.derivation.Extended(index)}, nil
}

// DerivePath derives the descendant at path relative to this key, extending
// the purported path accordingly. The first hardened index aborts the whole
// derivation; no partial result is returned.
func (d *DerivedXPub) DerivePath(path DerivationPath) (*DerivedXPub, error) {
	current := d
	for _, index := range path {
		next, err := current.DeriveChild(index)
		if err != nil {
			return nil, err
		}
		current = next
	}
	return current, nil
}

// PathToDescendant returns the suffix of other's purported path that
// extends this key's purported path, or false when no path relation exists.
func (d *DerivedXPub) PathToDescendant(other DerivedKey) (DerivationPath, bool) {
	return pathToDescendant(d.derivation, other.Derivation())
}

// IsPublicAncestorOf checks whether this key is an ancestor of other by
// deriving along the relative path and comparing public keys byte for byte.
// Absence of a path relation is reported as (false, nil). A relative path
// that requires a hardened step cannot be checked from a public key alone;
// that surfaces as ErrHardenedDerivationUnsupported, never as a silent
// false.
func (d *DerivedXPub) IsPublicAncestorOf(other DerivedKey) (bool, error) {
	path, ok := d.PathToDescendant(other)
	if !ok {
		return false, nil
	}
	descendant, err := d.xpub.DerivePath(path)
	if err != nil {
		return false, err
	}
	return descendant.PublicKey().Equal(other.PublicKey()), nil
}
