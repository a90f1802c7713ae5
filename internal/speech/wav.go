package speech

import (
	"bytes"
	"encoding/binary"
	"errors"
)

const wavHeaderLen = 44

// EncodeWAV wraps raw PCM data in a canonical 44-byte RIFF/WAVE header.
// Zero fields of f fall back to DefaultFormat.
func EncodeWAV(pcm []byte, f Format) []byte {
	if f.SampleRate <= 0 {
		f.SampleRate = DefaultFormat.SampleRate
	}
	if f.Channels <= 0 {
		f.Channels = DefaultFormat.Channels
	}
	if f.BytesPerSample <= 0 {
		f.BytesPerSample = DefaultFormat.BytesPerSample
	}

	dataLen := len(pcm)
	buf := &bytes.Buffer{}
	buf.Grow(wavHeaderLen + dataLen)

	// RIFF header
	buf.WriteString("RIFF")
	_ = binary.Write(buf, binary.LittleEndian, uint32(36+dataLen))
	buf.WriteString("WAVE")

	// fmt subchunk
	buf.WriteString("fmt ")
	_ = binary.Write(buf, binary.LittleEndian, uint32(16))                                      // subchunk1 size
	_ = binary.Write(buf, binary.LittleEndian, uint16(1))                                       // PCM
	_ = binary.Write(buf, binary.LittleEndian, uint16(f.Channels))                              // channels
	_ = binary.Write(buf, binary.LittleEndian, uint32(f.SampleRate))                            // sample rate
	_ = binary.Write(buf, binary.LittleEndian, uint32(f.SampleRate*f.Channels*f.BytesPerSample)) // byte rate
	_ = binary.Write(buf, binary.LittleEndian, uint16(f.Channels*f.BytesPerSample))             // block align
	_ = binary.Write(buf, binary.LittleEndian, uint16(f.BytesPerSample*8))                      // bits per sample

	// data subchunk
	buf.WriteString("data")
	_ = binary.Write(buf, binary.LittleEndian, uint32(dataLen))
	buf.Write(pcm)

	return buf.Bytes()
}

// ErrNotWAV is returned by DecodeWAVHeader for anything but a canonical PCM WAV.
var ErrNotWAV = errors.New("not a canonical PCM WAV")

// DecodeWAVHeader reads the format and PCM payload back out of a clip
// produced by EncodeWAV.
func DecodeWAVHeader(wav []byte) (Format, []byte, error) {
	if len(wav) < wavHeaderLen ||
		string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" ||
		string(wav[12:16]) != "fmt " || string(wav[36:40]) != "data" {
		return Format{}, nil, ErrNotWAV
	}
	le := binary.LittleEndian
	if le.Uint16(wav[20:22]) != 1 {
		return Format{}, nil, ErrNotWAV
	}
	f := Format{
		Channels:       int(le.Uint16(wav[22:24])),
		SampleRate:     int(le.Uint32(wav[24:28])),
		BytesPerSample: int(le.Uint16(wav[34:36])) / 8,
	}
	n := int(le.Uint32(wav[40:44]))
	if wavHeaderLen+n > len(wav) {
		return Format{}, nil, ErrNotWAV
	}
	return f, wav[wavHeaderLen : wavHeaderLen+n], nil
}
