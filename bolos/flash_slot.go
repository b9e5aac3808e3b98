package bolos

import (
	"encoding/binary"
	"hash/crc32"
)

const (
	PageSize    = 64
	counterSize = 8
	crcSize     = 4

	// SlotSize is the payload carried by one page.
	SlotSize = PageSize - counterSize - crcSize
)

// page is the decoded form of one 64 byte flash page:
// counter (u64 BE) | payload | crc32 IEEE (BE) over counter and payload.
type page struct {
	counter uint64
	payload [SlotSize]byte
}

func pageCrc(counter uint64, payload []byte) uint32 {

	digest := crc32.NewIEEE()

	var counterBytes [counterSize]byte
	binary.BigEndian.PutUint64(counterBytes[:], counter)

	digest.Write(counterBytes[:])
	digest.Write(payload)

	return digest.Sum32()

}

func encodePage(counter uint64, payload [SlotSize]byte) [PageSize]byte {

	var storage [PageSize]byte

	binary.BigEndian.PutUint64(storage[:counterSize], counter)
	copy(storage[counterSize:counterSize+SlotSize], payload[:])
	binary.BigEndian.PutUint32(storage[counterSize+SlotSize:], pageCrc(counter, payload[:]))

	return storage

}

func decodePage(storage []byte) (page, error) {

	var decoded page

	decoded.counter = binary.BigEndian.Uint64(storage[:counterSize])
	copy(decoded.payload[:], storage[counterSize:counterSize+SlotSize])

	found := binary.BigEndian.Uint32(storage[counterSize+SlotSize : PageSize])
	expected := pageCrc(decoded.counter, decoded.payload[:])

	if found != expected {
		return page{}, &WearError{Kind: WearCrc, Expected: expected, Found: found}
	}

	return decoded, nil

}

// ZeroedPages returns the image of slots formatted pages, the state of a
// ring that was never written.
func ZeroedPages(slots int) []byte {

	zeroed := encodePage(0, [SlotSize]byte{})
	image := make([]byte, 0, slots*PageSize)

	for i := 0; i < slots; i++ {
		image = append(image, zeroed[:]...)
	}

	return image

}
