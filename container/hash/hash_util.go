package hash

import (
	"bytes"
	"encoding/binary"

	"github.com/spaolacci/murmur3"
)

const primeFactor uint32 = 10000019

func hashBytes(bytes []byte, length uint32) uint32 {
	// https://github.com/greenplum-db/gpos/blob/b53c1acd6285de94044ff91fbee91589543feba1/libgpos/src/utils.cpp#L126
	var hash uint32 = length
	for i := 0; i < int(length); i++ {
		hash = ((hash << 5) ^ (hash >> 27)) ^ uint32(bytes[i])
	}
	return hash
}

// CombineHashes folds two hashes into one, for composite keys.
func CombineHashes(l uint32, r uint32) uint32 {
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, l)
	binary.Write(buf, binary.LittleEndian, r)
	return hashBytes(buf.Bytes(), 4*2)
}

// SumHashes combines two hashes via modular addition, used where
// CombineHashes' order-sensitivity is undesirable.
func SumHashes(l uint32, r uint32) uint32 { return (l%primeFactor + r%primeFactor) % primeFactor }

// GenHashMurMur hashes an arbitrary byte-encoded key with murmur3. This is
// the hash the extendible hash table uses: any Codec-encodable key type is
// hashed by encoding it first.
func GenHashMurMur(key []byte) uint32 {
	h := murmur3.New128()
	h.Write(key)
	hash := h.Sum(nil)
	return binary.LittleEndian.Uint32(hash)
}
