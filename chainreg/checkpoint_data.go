package chainreg

import (
	"github.com/anchorchain/anchord/checkpoints"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// newHashFromStr converts the passed big-endian hex string into a
// chainhash.Hash. It panics on malformed input since it is only called with
// the hard-coded checkpoint data below.
func newHashFromStr(hexStr string) chainhash.Hash {
	hash, err := chainhash.NewHashFromStr(hexStr)
	if err != nil {
		panic(err)
	}

	return *hash
}

// mainNetCheckpoints are the checkpoints of the main network, ordered from
// oldest to newest. The genesis block is added from the network parameters.
var mainNetCheckpoints = []checkpoints.Checkpoint{
	{Height: 14, Hash: newHashFromStr("eb1a88f40f84c13d061a4ededd50f03977cb815f459b44f0acf8bbc3593cd57e")},
	{Height: 38, Hash: newHashFromStr("db2420ff33b119de3bf0eda27c3e4653aa13a63b21009fb2412b3e45dce9a136")},
	{Height: 776, Hash: newHashFromStr("19fae8ae0a8c77a239ab8551b57f02cf0ac584a6eaab2b4cc9195745839b24b6")},
	{Height: 1863, Hash: newHashFromStr("b9ca005de3783c7be996fc95901394dd08a2213e480015f32ef671e9ed47c7b1")},
	{Height: 2578, Hash: newHashFromStr("2984f39527006fe0206a0ae76717f7f193b3007e61cb39e9befab3902c74bb2b")},
	{Height: 4381, Hash: newHashFromStr("2e52f5d4bd18f4a413697dfd4913728bfb2a2f680377d7096f31c1399df0ece7")},
	{Height: 6347, Hash: newHashFromStr("256b0d65bf31f0a1a2cdaefae07e1b832b8bfe339248af070338a85880cf6f8d")},
	{Height: 9139, Hash: newHashFromStr("01d892847b2c609ea2ff06c804fc36cf784da590ca5657a0661970ddc2ff61d2")},
	{Height: 13782, Hash: newHashFromStr("e0be7d54614fb55329e8a0a9d2865da0ccca54d032fbc30d3a551644d8be9292")},
	{Height: 15420, Hash: newHashFromStr("2a592c35d8b7e26a8d642f2b3e27fb586884b5f12fee6f52b09a1fea5edf2fa1")},
	{Height: 19909, Hash: newHashFromStr("f9c933d941b39698dea5078bd5270cc4af0af11b6302c51ca87cf2a13c1cafdc")},
	{Height: 24938, Hash: newHashFromStr("b33bd09e56e696e5e0547845c9646d2cefc04ef25e1b90bb9018d9fb89f788da")},
	{Height: 28308, Hash: newHashFromStr("77b1e4d7a29655dc33c38d32fa833407f5ad59c7dee76fcc78231387e7311360")},
	{Height: 32000, Hash: newHashFromStr("17f909ef335c27bf44655377622927122c5b6824815a867d52cd31d5aaac2873")},
	{Height: 48398, Hash: newHashFromStr("dfe376d27cf8c6f11beaa29f4a3966f1011847b9af91ff81fbe69fc03178294b")},
	{Height: 71320, Hash: newHashFromStr("4298a1d06c0effb8a6f15205bb5e6d7c6ea3d6ef68a16a40ef9480c49a3cf212")},
	{Height: 219777, Hash: newHashFromStr("e9f0929405524b5a3b2888c392351c902a11b7a167b3e12d63720b62d344230f")},
	{Height: 333777, Hash: newHashFromStr("45bff45918baa567e50568a5e0218e9796b9ef8ea3bdb44e1e6c17f95e687542")},
	{Height: 447777, Hash: newHashFromStr("307f3cb162219d6763439851f4c81ae6d0b867adccc97c6cc8d962b67f0de43a")},
	{Height: 549333, Hash: newHashFromStr("fd66916698a7cb627b8187be3852b9df59d23a73e57d2e03eeee2da06a068bed")},
}
