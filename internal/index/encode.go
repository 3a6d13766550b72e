package index

import (
	"bytes"
	"encoding/binary"
)

// key = invTime(8) + seq(4) + 0x00 + slug
//
// Inverting the timestamp makes bbolt's ascending cursor walk newest first;
// seq is the post's position in the store's canonical order, so date ties
// keep their insertion order.
func makeTimeSeqSlugKey(unixNano int64, seq uint32, slug string) []byte {
	buf := make([]byte, 0, 8+4+1+len(slug))

	tmp8 := make([]byte, 8)
	binary.BigEndian.PutUint64(tmp8, ^uint64(unixNano))
	buf = append(buf, tmp8...)

	tmp4 := make([]byte, 4)
	binary.BigEndian.PutUint32(tmp4, seq)
	buf = append(buf, tmp4...)

	buf = append(buf, 0x00)
	buf = append(buf, []byte(slug)...)
	return buf
}

func slugFromTimeSeqSlugKey(k []byte) string {
	if len(k) < 8+4+2 {
		return ""
	}
	i := bytes.IndexByte(k[12:], 0x00)
	if i < 0 {
		return ""
	}
	pos := 12 + i
	if pos+1 >= len(k) {
		return ""
	}
	return string(k[pos+1:])
}
