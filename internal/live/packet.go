package live

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"io"
)

// HeaderLen is the fixed size of a packet header.
const HeaderLen = 16

// Operations carried in the packet header.
const (
	OpHeartbeat      uint32 = 2
	OpHeartbeatReply uint32 = 3
	OpMessage        uint32 = 5
	OpAuth           uint32 = 7
	OpAuthReply      uint32 = 8
)

// Body encodings carried in the packet header.
const (
	ProtoJSON      uint16 = 0
	ProtoHeartbeat uint16 = 1
	ProtoZlib      uint16 = 2
	ProtoBrotli    uint16 = 3
)

// Packet is one decoded frame of the live feed.
type Packet struct {
	ProtoVer uint16
	Op       uint32
	Seq      uint32
	Body     []byte
}

// Encode serializes a packet with an uncompressed body.
//
//	0       4       6       8       12      16
//	| len   | hlen  | ver   | op    | seq   | body...
func Encode(op uint32, body []byte) []byte {
	buf := make([]byte, HeaderLen+len(body))
	binary.BigEndian.PutUint32(buf[0:4], uint32(len(buf)))
	binary.BigEndian.PutUint16(buf[4:6], HeaderLen)
	binary.BigEndian.PutUint16(buf[6:8], ProtoHeartbeat)
	binary.BigEndian.PutUint32(buf[8:12], op)
	binary.BigEndian.PutUint32(buf[12:16], 1)
	copy(buf[HeaderLen:], body)
	return buf
}

// Decode splits a websocket message into packets, inflating zlib bodies into
// the packets they contain.
func Decode(data []byte) ([]Packet, error) {
	var out []Packet
	for off := 0; off < len(data); {
		if len(data)-off < HeaderLen {
			return out, fmt.Errorf("short packet header: %d bytes", len(data)-off)
		}
		h := data[off:]
		packetLen := int(binary.BigEndian.Uint32(h[0:4]))
		headerLen := int(binary.BigEndian.Uint16(h[4:6]))
		if headerLen < HeaderLen || packetLen < headerLen || off+packetLen > len(data) {
			return out, fmt.Errorf("bad packet lengths: packet %d header %d available %d", packetLen, headerLen, len(data)-off)
		}

		p := Packet{
			ProtoVer: binary.BigEndian.Uint16(h[6:8]),
			Op:       binary.BigEndian.Uint32(h[8:12]),
			Seq:      binary.BigEndian.Uint32(h[12:16]),
			Body:     h[headerLen:packetLen],
		}
		off += packetLen

		switch {
		case p.Op == OpMessage && p.ProtoVer == ProtoZlib:
			inner, err := inflate(p.Body)
			if err != nil {
				return out, err
			}
			packets, err := Decode(inner)
			out = append(out, packets...)
			if err != nil {
				return out, err
			}
		case p.Op == OpMessage && p.ProtoVer == ProtoBrotli:
			return out, fmt.Errorf("brotli bodies are not supported")
		default:
			out = append(out, p)
		}
	}
	return out, nil
}

func inflate(body []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("zlib: %w", err)
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("zlib: %w", err)
	}
	return data, nil
}
