/*
Package easyhd ties together several other common packages and makes it easy to
perform BIP32 hierarchical deterministic key derivation (secp256k1, used by
Bitcoin and many other systems).

These operations include:

-- Creating a master key from seed entropy or a BIP39 mnemonic

-- Deriving private and public child keys, hardened and non-hardened

-- Deriving keys along numeric paths ("m/44'/0'/0'/0/1")

-- Verifying ancestor/descendant claims between keys from the same seed

-- Serializing extended keys (xprv/xpub and friends)

-- Saving extended keys to file, possibly passphrase-protected

See the examples for more information.
*/
package easyhd
