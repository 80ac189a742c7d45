package orderref

// lemire64 is Lemire's strongly-universal 64-bit hash, ported from
// original_source's utils/lemire_hash.hpp (lemire_64bit_hash_t). It combines
// two independent 32-bit multiplicative hashes of the low/high halves of the
// key into one 64-bit result — good avalanche behavior on the dense,
// monotonically-issued integer order ids this index is built for, without
// the cache-unfriendly mixing rounds a general-purpose hash needs to defend
// against adversarial input.
//
// https://lemire.me/blog/2018/08/15/fast-strongly-universal-64-bit-hashing-everywhere/
func lemire64(x uint64) uint64 {
	return hash32First(x) | (hash32Second(x) << 32)
}

func hash32First(x uint64) uint64 {
	const (
		a = 0x65d200ce55b19ad8
		b = 0x4f2162926e40c299
		c = 0x162dd799029970f8
	)
	low := x & 0xffffffff
	high := x >> 32
	return (a*low + b*high + c) >> 32
}

func hash32Second(x uint64) uint64 {
	const (
		a = 0x68b665e6872bd1f4
		b = 0xb6cfcf9d79b51db2
		c = 0x7a2b92ae912898c2
	)
	low := x & 0xffffffff
	high := x >> 32
	return (a*low + b*high + c) >> 32
}
