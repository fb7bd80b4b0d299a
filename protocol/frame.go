package protocol

import "encoding/binary"

// FrameLength reports the total byte count of the next frame at the head of
// buf, or 0 when not enough bytes are buffered to know. For frames whose size
// depends on a header (map-data, snapshot), the header itself must be fully
// present. An unknown tag also yields 0; use KnownTag to tell the two apart.
// Data behind an unknown tag means the stream is desynced beyond recovery.
func FrameLength(buf []byte) int {
	if len(buf) < 1 {
		return 0
	}
	switch buf[0] {
	case TagConnectRequest:
		return whole(buf, 2)
	case TagConnectResponse:
		return whole(buf, 3)
	case TagMapData:
		if len(buf) < MapDataHeaderSize {
			return 0
		}
		w := int(binary.LittleEndian.Uint16(buf[1:3]))
		h := int(binary.LittleEndian.Uint16(buf[3:5]))
		return whole(buf, MapDataHeaderSize+2*w*h)
	case TagGameStart:
		return whole(buf, 3)
	case TagPlayerInput:
		return whole(buf, 2)
	case TagSnapshot:
		if len(buf) < 2 {
			return 0
		}
		return whole(buf, 2+int(buf[1])*SnapshotPlayerSize)
	case TagCoinCollected:
		return whole(buf, 6)
	case TagPlayerDeath:
		return whole(buf, 2)
	case TagGameOver:
		return whole(buf, 3)
	case TagPlayerDisconnect:
		return 1
	default:
		return 0
	}
}

func whole(buf []byte, size int) int {
	if len(buf) < size {
		return 0
	}
	return size
}

// KnownTag reports whether b is a tag FrameLength can size. TagPlayerPosition
// is reserved and intentionally not sizable.
func KnownTag(b byte) bool {
	switch b {
	case TagConnectRequest, TagConnectResponse, TagMapData, TagGameStart,
		TagPlayerInput, TagSnapshot, TagCoinCollected, TagPlayerDeath,
		TagGameOver, TagPlayerDisconnect:
		return true
	}
	return false
}
