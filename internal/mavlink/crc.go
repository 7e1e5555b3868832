package mavlink

// CRC-16/CCITT-FALSE as used for frame checksums: 16-bit register
// initialized to 0xFFFF, polynomial 0x1021, input folded into the high
// byte. The check value for "123456789" is 0x29B1.

const crcInit uint16 = 0xFFFF

// crcUpdate folds one byte into the running checksum.
func crcUpdate(crc uint16, b byte) uint16 {
	crc ^= uint16(b) << 8
	for i := 0; i < 8; i++ {
		if crc&0x8000 != 0 {
			crc = crc<<1 ^ 0x1021
		} else {
			crc <<= 1
		}
	}
	return crc
}

// Checksum computes the plain checksum over data: the register starts at
// 0xFFFF and absorbs only the given bytes.
func Checksum(data []byte) uint16 {
	crc := crcInit
	for _, b := range data {
		crc = crcUpdate(crc, b)
	}
	return crc
}

// SeededChecksum absorbs the message's CRC-extra byte before any frame
// content, which makes the checksum sensitive to the message definition.
// For the same input it differs from Checksum whenever extra is nonzero.
func SeededChecksum(extra byte, data []byte) uint16 {
	crc := crcUpdate(crcInit, extra)
	for _, b := range data {
		crc = crcUpdate(crc, b)
	}
	return crc
}

// crcExtras holds the per-message checksum seed for well-known message ids.
// These values are interoperability constants shared with peer systems and
// must not change.
var crcExtras = map[uint32]byte{
	0:   50,  // HEARTBEAT
	1:   124, // SYS_STATUS
	30:  39,  // ATTITUDE
	33:  104, // GLOBAL_POSITION_INT
	74:  142, // VFR_HUD
	251: 170, // NAMED_VALUE_FLOAT
	253: 83,  // STATUSTEXT
}

// vendorMessageIDBase is the first id of the custom message range.
const vendorMessageIDBase = 50000

// CRCExtra returns the checksum seed for a message id: the table value for
// well-known ids, an xor fold of the low two id bytes for the vendor range,
// and zero for anything else.
func CRCExtra(msgID uint32) byte {
	if msgID >= vendorMessageIDBase {
		return byte(msgID) ^ byte(msgID>>8)
	}
	return crcExtras[msgID]
}
