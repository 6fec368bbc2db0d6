package easyhd

import (
	"encoding/hex"
	"os"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tyler-smith/go-bip39"
)

// Test vectors from BIP32,
// https://github.com/bitcoin/bips/blob/master/bip-0032.mediawiki#Test_Vectors.
var bip32Vectors = []struct {
	seed  string
	paths []struct {
		path  string
		xpub  string
		xpriv string
	}
}{
	{
		seed: "000102030405060708090a0b0c0d0e0f",
		paths: []struct {
			path  string
			xpub  string
			xpriv string
		}{
			{
				path:  "m",
				xpub:  "xpub661MyMwAqRbcFtXgS5sYJABqqG9YLmC4Q1Rdap9gSE8NqtwybGhePY2gZ29ESFjqJoCu1Rupje8YtGqsefD265TMg7usUDFdp6W1EGMcet8",
				xpriv: "xprv9s21ZrQH143K3QTDL4LXw2F7HEK3wJUD2nW2nRk4stbPy6cq3jPPqjiChkVvvNKmPGJxWUtg6LnF5kejMRNNU3TGtRBeJgk33yuGBxrMPHi",
			},
			{
				path:  "m/0'",
				xpub:  "xpub68Gmy5EdvgibQVfPdqkBBCHxA5htiqg55crXYuXoQRKfDBFA1WEjWgP6LHhwBZeNK1VTsfTFUHCdrfp1bgwQ9xv5ski8PX9rL2dZXvgGDnw",
				xpriv: "xprv9uHRZZhk6KAJC1avXpDAp4MDc3sQKNxDiPvvkX8Br5ngLNv1TxvUxt4cV1rGL5hj6KCesnDYUhd7oWgT11eZG7XnxHrnYeSvkzY7d2bhkJ7",
			},
			{
				path:  "m/0'/1",
				xpub:  "xpub6ASuArnXKPbfEwhqN6e3mwBcDTgzisQN1wXN9BJcM47sSikHjJf3UFHKkNAWbWMiGj7Wf5uMash7SyYq527Hqck2AxYysAA7xmALppuCkwQ",
				xpriv: "xprv9wTYmMFdV23N2TdNG573QoEsfRrWKQgWeibmLntzniatZvR9BmLnvSxqu53Kw1UmYPxLgboyZQaXwTCg8MSY3H2EU4pWcQDnRnrVA1xe8fs",
			},
			{
				path:  "m/0'/1/2'",
				xpub:  "xpub6D4BDPcP2GT577Vvch3R8wDkScZWzQzMMUm3PWbmWvVJrZwQY4VUNgqFJPMM3No2dFDFGTsxxpG5uJh7n7epu4trkrX7x7DogT5Uv6fcLW5",
				xpriv: "xprv9z4pot5VBttmtdRTWfWQmoH1taj2axGVzFqSb8C9xaxKymcFzXBDptWmT7FwuEzG3ryjH4ktypQSAewRiNMjANTtpgP4mLTj34bhnZX7UiM",
			},
			{
				path:  "m/0'/1/2'/2",
				xpub:  "xpub6FHa3pjLCk84BayeJxFW2SP4XRrFd1JYnxeLeU8EqN3vDfZmbqBqaGJAyiLjTAwm6ZLRQUMv1ZACTj37sR62cfN7fe5JnJ7dh8zL4fiyLHV",
				xpriv: "xprvA2JDeKCSNNZky6uBCviVfJSKyQ1mDYahRjijr5idH2WwLsEd4Hsb2Tyh8RfQMuPh7f7RtyzTtdrbdqqsunu5Mm3wDvUAKRHSC34sJ7in334",
			},
			{
				path:  "m/0'/1/2'/2/1000000000",
				xpub:  "xpub6H1LXWLaKsWFhvm6RVpEL9P4KfRZSW7abD2ttkWP3SSQvnyA8FSVqNTEcYFgJS2UaFcxupHiYkro49S8yGasTvXEYBVPamhGW6cFJodrTHy",
				xpriv: "xprvA41z7zogVVwxVSgdKUHDy1SKmdb533PjDz7J6N6mV6uS3ze1ai8FHa8kmHScGpWmj4WggLyQjgPie1rFSruoUihUZREPSL39UNdE3BBDu76",
			},
		},
	},
	{
		seed: "fffcf9f6f3f0edeae7e4e1dedbd8d5d2cfccc9c6c3c0bdbab7b4b1aeaba8a5a29f9c999693908d8a8784817e7b7875726f6c696663605d5a5754514e4b484542",
		paths: []struct {
			path  string
			xpub  string
			xpriv string
		}{
			{
				path:  "m",
				xpub:  "xpub661MyMwAqRbcFW31YEwpkMuc5THy2PSt5bDMsktWQcFF8syAmRUapSCGu8ED9W6oDMSgv6Zz8idoc4a6mr8BDzTJY47LJhkJ8UB7WEGuduB",
				xpriv: "xprv9s21ZrQH143K31xYSDQpPDxsXRTUcvj2iNHm5NUtrGiGG5e2DtALGdso3pGz6ssrdK4PFmM8NSpSBHNqPqm55Qn3LqFtT2emdEXVYsCzC2U",
			},
			{
				path:  "m/0",
				xpub:  "xpub69H7F5d8KSRgmmdJg2KhpAK8SR3DjMwAdkxj3ZuxV27CprR9LgpeyGmXUbC6wb7ERfvrnKZjXoUmmDznezpbZb7ap6r1D3tgFxHmwMkQTPH",
				xpriv: "xprv9vHkqa6EV4sPZHYqZznhT2NPtPCjKuDKGY38FBWLvgaDx45zo9WQRUT3dKYnjwih2yJD9mkrocEZXo1ex8G81dwSM1fwqWpWkeS3v86pgKt",
			},
			{
				path:  "m/0/2147483647'",
				xpub:  "xpub6ASAVgeehLbnwdqV6UKMHVzgqAG8Gr6riv3Fxxpj8ksbH9ebxaEyBLZ85ySDhKiLDBrQSARLq1uNRts8RuJiHjaDMBU4Zn9h8LZNnBC5y4a",
				xpriv: "xprv9wSp6B7kry3Vj9m1zSnLvN3xH8RdsPP1Mh7fAaR7aRLcQMKTR2vidYEeEg2mUCTAwCd6vnxVrcjfy2kRgVsFawNzmjuHc2YmYRmagcEPdU9",
			},
			{
				path:  "m/0/2147483647'/1",
				xpub:  "xpub6DF8uhdarytz3FWdA8TvFSvvAh8dP3283MY7p2V4SeE2wyWmG5mg5EwVvmdMVCQcoNJxGoWaU9DCWh89LojfZ537wTfunKau47EL2dhHKon",
				xpriv: "xprv9zFnWC6h2cLgpmSA46vutJzBcfJ8yaJGg8cX1e5StJh45BBciYTRXSd25UEPVuesF9yog62tGAQtHjXajPPdbRCHuWS6T8XA2ECKADdw4Ef",
			},
			{
				path:  "m/0/2147483647'/1/2147483646'",
				xpub:  "xpub6ERApfZwUNrhLCkDtcHTcxd75RbzS1ed54G1LkBUHQVHQKqhMkhgbmJbZRkrgZw4koxb5JaHWkY4ALHY2grBGRjaDMzQLcgJvLJuZZvRcEL",
				xpriv: "xprvA1RpRA33e1JQ7ifknakTFpgNXPmW2YvmhqLQYMmrj4xJXXWYpDPS3xz7iAxn8L39njGVyuoseXzU6rcxFLJ8HFsTjSyQbLYnMpCqE2VbFWc",
			},
			{
				path:  "m/0/2147483647'/1/2147483646'/2",
				xpub:  "xpub6FnCn6nSzZAw5Tw7cgR9bi15UV96gLZhjDstkXXxvCLsUXBGXPdSnLFbdpq8p9HmGsApME5hQTZ3emM2rnY5agb9rXpVGyy3bdW6EEgAtqt",
				xpriv: "xprvA2nrNbFZABcdryreWet9Ea4LvTJcGsqrMzxHx98MMrotbir7yrKCEXw7nadnHM8Dq38EGfSh6dqA9QWTyefMLEcBYJUuekgW4BYPJcr9E7j",
			},
		},
	},
	{
		seed: "4b381541583be4423346c643850da4b320e46a87ae3d2a4e6da11eba819cd4acba45d239319ac14f863b8d5ab5a0d0c64d2e8a1e7d1457df2e5a3c51c73235be",
		paths: []struct {
			path  string
			xpub  string
			xpriv string
		}{
			{
				path:  "m",
				xpub:  "xpub661MyMwAqRbcEZVB4dScxMAdx6d4nFc9nvyvH3v4gJL378CSRZiYmhRoP7mBy6gSPSCYk6SzXPTf3ND1cZAceL7SfJ1Z3GC8vBgp2epUt13",
				xpriv: "xprv9s21ZrQH143K25QhxbucbDDuQ4naNntJRi4KUfWT7xo4EKsHt2QJDu7KXp1A3u7Bi1j8ph3EGsZ9Xvz9dGuVrtHHs7pXeTzjuxBrCmmhgC6",
			},
			{
				path:  "m/0'",
				xpub:  "xpub68NZiKmJWnxxS6aaHmn81bvJeTESw724CRDs6HbuccFQN9Ku14VQrADWgqbhhTHBaohPX4CjNLf9fq9MYo6oDaPPLPxSb7gwQN3ih19Zm4Y",
				xpriv: "xprv9uPDJpEQgRQfDcW7BkF7eTya6RPxXeJCqCJGHuCJ4GiRVLzkTXBAJMu2qaMWPrS7AANYqdq6vcBcBUdJCVVFceUvJFjaPdGZ2y9WACViL4L",
			},
		},
	},
}

func Test_MasterNode_BIP32Vectors(t *testing.T) {
	assert := assert.New(t)

	backend := Secp256k1()
	for _, vector := range bip32Vectors {
		seed, err := hex.DecodeString(vector.seed)
		assert.NoError(err)

		master, err := MasterNode(seed, Legacy, backend)
		assert.NoError(err)

		for _, want := range vector.paths {
			derivation, err := ParseDerivationPath(want.path)
			assert.NoError(err)

			xpriv, err := master.DerivePath(derivation)
			assert.NoError(err)
			assert.Equal(want.xpriv, xpriv.Serialize())
			assert.Equal(want.xpub, xpriv.Neuter().Serialize())
			assert.EqualValues(len(derivation), xpriv.Info().Depth)

			// Serialization must round-trip.
			parsed, err := ParseExtendedPrivateKey(backend, want.xpriv)
			assert.NoError(err)
			assert.Equal(want.xpriv, parsed.Serialize())

			parsedPub, err := ParseExtendedPublicKey(backend, want.xpub)
			assert.NoError(err)
			assert.Equal(want.xpub, parsedPub.Serialize())
		}
	}
}

func Test_MasterNode_Deterministic(t *testing.T) {
	assert := assert.New(t)

	seed := []byte("some seed, at least sixteen bytes long")
	key1, err := MasterNode(seed, SegWit, Secp256k1())
	assert.NoError(err)
	key2, err := MasterNode(seed, SegWit, Secp256k1())
	assert.NoError(err)

	assert.Equal(key1.Serialize(), key2.Serialize())
	assert.Equal(key1.Info(), key2.Info())
}

func Test_MasterNode_SeedTooShort(t *testing.T) {
	assert := assert.New(t)

	_, err := MasterNode(make([]byte, 15), SegWit, Secp256k1())
	assert.Equal(ErrSeedTooShort, err)

	// Exactly at the boundary: 16 bytes must be accepted, even all-zero.
	key, err := MasterNode(make([]byte, 16), SegWit, Secp256k1())
	assert.NoError(err)
	info := key.Info()
	assert.EqualValues(0, info.Depth)
	assert.EqualValues(0, info.Index)
	assert.Equal([4]byte{}, info.ParentFingerprint)
}

func Test_CustomMasterNode(t *testing.T) {
	assert := assert.New(t)

	seed := []byte("some seed, at least sixteen bytes long")
	standard, err := MasterNode(seed, SegWit, Secp256k1())
	assert.NoError(err)
	custom, err := CustomMasterNode([]byte("other protocol seed"), seed, SegWit, Secp256k1())
	assert.NoError(err)

	assert.NotEqual(standard.Serialize(), custom.Serialize())

	// The standard entry point is the custom one with the BIP32 HMAC key.
	same, err := CustomMasterNode(MasterHMACKey, seed, SegWit, Secp256k1())
	assert.NoError(err)
	assert.Equal(standard.Serialize(), same.Serialize())
}

func Test_MasterNodeFromMnemonic(t *testing.T) {
	assert := assert.New(t)

	entropy := make([]byte, 16)
	mnemonic, err := bip39.NewMnemonic(entropy)
	assert.NoError(err)

	key, err := MasterNodeFromMnemonic(mnemonic, "pass", Legacy, Secp256k1())
	assert.NoError(err)

	fromSeed, err := MasterNode(bip39.NewSeed(mnemonic, "pass"), Legacy, Secp256k1())
	assert.NoError(err)
	assert.Equal(fromSeed.Serialize(), key.Serialize())

	_, err = MasterNodeFromMnemonic("foo bar baz", "", Legacy, Secp256k1())
	assert.Error(err)
}

func Test_ExtendedPrivateKey_DeriveChild(t *testing.T) {
	assert := assert.New(t)

	parent, err := MasterNode([]byte("some seed, at least sixteen bytes long"), SegWit, Secp256k1())
	assert.NoError(err)

	child, err := parent.DeriveChild(5)
	assert.NoError(err)
	info := child.Info()
	assert.EqualValues(1, info.Depth)
	assert.EqualValues(5, info.Index)
	assert.Equal(parent.Fingerprint(), info.ParentFingerprint)
	assert.Equal(parent.Info().Hint, info.Hint)
	assert.NotEqual(parent.Info().ChainCode, info.ChainCode)
}

func Test_ExtendedPrivateKey_DeriveChild_HardenedDeterministic(t *testing.T) {
	assert := assert.New(t)

	parent, err := MasterNode([]byte("some seed, at least sixteen bytes long"), SegWit, Secp256k1())
	assert.NoError(err)

	child1, err := parent.DeriveChild(HardenedOffset)
	assert.NoError(err)
	child2, err := parent.DeriveChild(HardenedOffset)
	assert.NoError(err)

	assert.Equal(child1.Info().ChainCode, child2.Info().ChainCode)
	assert.Equal(child1.PrivateKey().Serialize(), child2.PrivateKey().Serialize())
	assert.EqualValues(HardenedOffset, child1.Info().Index)
}

func Test_ExtendedPublicKey_DeriveChild_Commutes(t *testing.T) {
	assert := assert.New(t)

	parent, err := MasterNode([]byte("some seed, at least sixteen bytes long"), SegWit, Secp256k1())
	assert.NoError(err)

	for _, index := range []uint32{0, 1, 42, HardenedOffset - 1} {
		privChild, err := parent.DeriveChild(index)
		assert.NoError(err)
		pubChild, err := parent.Neuter().DeriveChild(index)
		assert.NoError(err)

		assert.Equal(privChild.Neuter().Serialize(), pubChild.Serialize())
	}
}

func Test_ExtendedPublicKey_DeriveChild_Hardened(t *testing.T) {
	assert := assert.New(t)

	parent, err := MasterNode([]byte("some seed, at least sixteen bytes long"), SegWit, Secp256k1())
	assert.NoError(err)

	// Hardened derivation works with the private key and only with the
	// private key.
	_, err = parent.DeriveChild(HardenedOffset + 7)
	assert.NoError(err)
	_, err = parent.Neuter().DeriveChild(HardenedOffset + 7)
	assert.Equal(ErrHardenedDerivationUnsupported, err)
}

func Test_ExtendedPrivateKey_DerivePath(t *testing.T) {
	assert := assert.New(t)

	root, err := MasterNode([]byte("some seed, at least sixteen bytes long"), SegWit, Secp256k1())
	assert.NoError(err)

	// The empty path is the identity.
	same, err := root.DerivePath(DerivationPath{})
	assert.NoError(err)
	assert.Equal(root.Serialize(), same.Serialize())

	// Path application composes single steps left to right.
	byPath, err := root.DerivePath(DerivationPath{HardenedOffset, 1, 2})
	assert.NoError(err)
	step1, err := root.DeriveChild(HardenedOffset)
	assert.NoError(err)
	step2, err := step1.DeriveChild(1)
	assert.NoError(err)
	step3, err := step2.DeriveChild(2)
	assert.NoError(err)
	assert.Equal(step3.Serialize(), byPath.Serialize())
}

func Test_ExtendedPublicKey_DerivePath_Hardened(t *testing.T) {
	assert := assert.New(t)

	root, err := MasterNode([]byte("some seed, at least sixteen bytes long"), SegWit, Secp256k1())
	assert.NoError(err)

	// A hardened index anywhere in the path fails the whole application.
	_, err = root.Neuter().DerivePath(DerivationPath{0, HardenedOffset + 1, 2})
	assert.Equal(ErrHardenedDerivationUnsupported, err)
}

func Test_ExtendedPrivateKey_MaxDepth(t *testing.T) {
	assert := assert.New(t)

	key, err := MasterNode([]byte("some seed, at least sixteen bytes long"), SegWit, Secp256k1())
	assert.NoError(err)

	for i := 0; i < 255; i++ {
		key, err = key.DeriveChild(0)
		assert.NoError(err)
	}
	assert.EqualValues(255, key.Info().Depth)

	_, err = key.DeriveChild(0)
	assert.Equal(ErrDeriveBeyondMaxDepth, err)
	_, err = key.Neuter().DeriveChild(0)
	assert.Equal(ErrDeriveBeyondMaxDepth, err)
}

func Test_ExtendedPrivateKey_Neuter(t *testing.T) {
	assert := assert.New(t)

	key, err := MasterNode([]byte("some seed, at least sixteen bytes long"), SegWit, Secp256k1())
	assert.NoError(err)

	// The projection is pure; repeating it changes nothing.
	assert.Equal(key.Neuter().Serialize(), key.Neuter().Serialize())
	assert.Equal(key.Info(), key.Neuter().Info())
	assert.True(key.PublicKey().Equal(key.Neuter().PublicKey()))
}

func Test_ExtendedPrivateKey_SaveLoad(t *testing.T) {
	assert := assert.New(t)

	dir, err := os.MkdirTemp("", "xkeytest")
	assert.NoError(err)

	key, err := MasterNode([]byte("some seed, at least sixteen bytes long"), SegWit, Secp256k1())
	assert.NoError(err)

	// Without encryption.
	fileName := path.Join(dir, "master_key")
	assert.NoError(key.Save(fileName, ""))
	keyCopy, err := LoadExtendedPrivateKey(Secp256k1(), fileName, "")
	assert.NoError(err)
	assert.Equal(key.Serialize(), keyCopy.Serialize())

	// With encryption.
	fileNameEnc := path.Join(dir, "master_key_enc")
	assert.NoError(key.Save(fileNameEnc, "potato123"))
	keyCopy, err = LoadExtendedPrivateKey(Secp256k1(), fileNameEnc, "potato123")
	assert.NoError(err)
	assert.Equal(key.Serialize(), keyCopy.Serialize())

	_, err = LoadExtendedPrivateKey(Secp256k1(), fileNameEnc, "wrong passphrase")
	assert.Error(err)

	assert.NoError(os.RemoveAll(dir))

	_, err = LoadExtendedPrivateKey(Secp256k1(), "some_non_existent_file", "")
	assert.Error(err)
}

func Test_Hint_String(t *testing.T) {
	assert := assert.New(t)

	assert.EqualValues("SegWit", SegWit.String())
	assert.EqualValues("Compatibility", Compatibility.String())
	assert.EqualValues("Legacy", Legacy.String())
	assert.EqualValues("Invalid", Hint(999).String())
}
