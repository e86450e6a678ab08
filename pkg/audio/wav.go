package audio

import (
	"bytes"
	"encoding/binary"
)

// EncodeWAV wraps 16-bit mono PCM samples in a RIFF/WAVE container.
func EncodeWAV(pcm []int16, sampleRate int) []byte {
	dataLen := len(pcm) * 2
	var buf bytes.Buffer
	buf.Grow(44 + dataLen)

	// RIFF chunk
	buf.WriteString("RIFF")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(36+dataLen))
	buf.WriteString("WAVE")

	// fmt chunk: PCM, mono, 16-bit
	buf.WriteString("fmt ")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(16))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1)) // channels
	_ = binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(sampleRate*2)) // byte rate
	_ = binary.Write(&buf, binary.LittleEndian, uint16(2))            // block align
	_ = binary.Write(&buf, binary.LittleEndian, uint16(16))           // bits per sample

	// data chunk
	buf.WriteString("data")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(dataLen))
	_ = binary.Write(&buf, binary.LittleEndian, pcm)

	return buf.Bytes()
}
