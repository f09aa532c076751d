package poolstate

import (
	"encoding/binary"

	"github.com/gagliardetto/solana-go"

	"github.com/solana-arb/engine/pkg/arberr"
)

// requireLen enforces the data model's malformed-layout rule: the buffer
// must be at least lastOffset+32 bytes, regardless of the actual width of
// the field living at lastOffset.
func requireLen(data []byte, lastOffset int) error {
	if len(data) < lastOffset+32 {
		return arberr.Wrap(arberr.CategoryDecode, arberr.ErrMalformedLayout)
	}
	return nil
}

func readPubkey(data []byte, offset int) solana.PublicKey {
	return solana.PublicKeyFromBytes(data[offset : offset+32])
}

func leUint64(b []byte) uint64 {
	return binary.LittleEndian.Uint64(b)
}

func leUint32(b []byte) uint32 {
	return binary.LittleEndian.Uint32(b)
}

func leUint16(b []byte) uint16 {
	return binary.LittleEndian.Uint16(b)
}
