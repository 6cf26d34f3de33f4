package audio

import "encoding/binary"

const (
	framesPerBuffer = 1024

	wavHeaderSize  = 44
	bytesPerSample = 2
)

// EncodeWAV wraps mono 16-bit PCM samples in a RIFF WAV container.
func EncodeWAV(samples []int16, sampleRate int) []byte {
	dataLen := len(samples) * bytesPerSample
	out := make([]byte, wavHeaderSize+dataLen)

	copy(out[0:4], "RIFF")
	binary.LittleEndian.PutUint32(out[4:8], uint32(36+dataLen))
	copy(out[8:12], "WAVE")

	copy(out[12:16], "fmt ")
	binary.LittleEndian.PutUint32(out[16:20], 16) // PCM fmt chunk size
	binary.LittleEndian.PutUint16(out[20:22], 1)  // PCM format
	binary.LittleEndian.PutUint16(out[22:24], 1)  // mono
	binary.LittleEndian.PutUint32(out[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(out[28:32], uint32(sampleRate*bytesPerSample))
	binary.LittleEndian.PutUint16(out[32:34], bytesPerSample)
	binary.LittleEndian.PutUint16(out[34:36], 16) // bits per sample

	copy(out[36:40], "data")
	binary.LittleEndian.PutUint32(out[40:44], uint32(dataLen))

	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[wavHeaderSize+i*bytesPerSample:], uint16(s))
	}
	return out
}
