// Package pcm persists mono 16-bit sample buffers as uncompressed WAV files.
package pcm

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	// HeaderSize is the length of the canonical RIFF/WAVE header written by
	// the encoder.
	HeaderSize = 44

	formatPCM     = 1
	numChannels   = 1
	bitsPerSample = 16
)

// ErrShortWrite is returned when the container on disk is not the size the
// sample count requires.
var ErrShortWrite = errors.New("short write")

// Header holds the fields of a canonical PCM WAV header.
type Header struct {
	AudioFormat   int
	Channels      int
	SampleRate    int
	ByteRate      int
	BlockAlign    int
	BitsPerSample int
	DataSize      int
}

// writeSeeker is an in-memory io.WriteSeeker for WAV encoding.
type writeSeeker struct {
	buf []byte
	pos int
}

func (ws *writeSeeker) Write(p []byte) (int, error) {
	end := ws.pos + len(p)
	if end > len(ws.buf) {
		ws.buf = append(ws.buf, make([]byte, end-len(ws.buf))...)
	}
	copy(ws.buf[ws.pos:], p)
	ws.pos = end
	return len(p), nil
}

func (ws *writeSeeker) Seek(offset int64, whence int) (int64, error) {
	var newPos int
	switch whence {
	case io.SeekStart:
		newPos = int(offset)
	case io.SeekCurrent:
		newPos = ws.pos + int(offset)
	case io.SeekEnd:
		newPos = len(ws.buf) + int(offset)
	default:
		return 0, fmt.Errorf("invalid whence: %d", whence)
	}
	if newPos < 0 || newPos > len(ws.buf) {
		return 0, fmt.Errorf("seek position %d out of bounds [0, %d]", newPos, len(ws.buf))
	}
	ws.pos = newPos
	return int64(ws.pos), nil
}

func encode(w io.WriteSeeker, samples []int16, sampleRate int) error {
	if len(samples) == 0 {
		return fmt.Errorf("no samples to encode")
	}
	if sampleRate <= 0 {
		return fmt.Errorf("invalid sample rate: %d", sampleRate)
	}

	intBuf := &audio.IntBuffer{
		Data: make([]int, len(samples)),
		Format: &audio.Format{
			SampleRate:  sampleRate,
			NumChannels: numChannels,
		},
		SourceBitDepth: bitsPerSample,
	}
	for i, s := range samples {
		intBuf.Data[i] = int(s)
	}

	enc := wav.NewEncoder(w, sampleRate, bitsPerSample, numChannels, formatPCM)
	if err := enc.Write(intBuf); err != nil {
		return fmt.Errorf("write wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("close wav encoder: %w", err)
	}
	return nil
}

// EncodeWAV encodes mono int16 PCM samples to WAV format in memory.
func EncodeWAV(samples []int16, sampleRate int) ([]byte, error) {
	ws := &writeSeeker{}
	if err := encode(ws, samples, sampleRate); err != nil {
		return nil, err
	}
	return ws.buf, nil
}

// WriteFile writes samples to path as a mono 16-bit WAV. The container is
// written to a temporary file in the same directory and renamed into place
// only once it is complete, so a failed write never leaves a partial file
// at path.
func WriteFile(path string, samples []int16, sampleRate int) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".furnace-*.wav.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if err := encode(tmp, samples, sampleRate); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	info, err := tmp.Stat()
	if err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("stat temp file: %w", err)
	}
	if want := int64(HeaderSize + 2*len(samples)); info.Size() != want {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("%w: %s is %d bytes, expected %d", ErrShortWrite, path, info.Size(), want)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}

// DecodeWAV reads a WAV file from bytes and returns the samples and sample rate.
func DecodeWAV(data []byte) ([]int16, int, error) {
	reader := bytes.NewReader(data)
	dec := wav.NewDecoder(reader)
	if !dec.IsValidFile() {
		return nil, 0, fmt.Errorf("invalid WAV file")
	}

	pcmBuf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("decode wav: %w", err)
	}

	samples := make([]int16, len(pcmBuf.Data))
	for i, v := range pcmBuf.Data {
		samples[i] = int16(v)
	}

	return samples, int(dec.SampleRate), nil
}

// ReadFile loads a WAV written by WriteFile and returns its header and samples.
func ReadFile(path string) (Header, []int16, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Header{}, nil, fmt.Errorf("read %s: %w", path, err)
	}
	hdr, err := ReadHeader(data)
	if err != nil {
		return Header{}, nil, err
	}
	samples, _, err := DecodeWAV(data)
	if err != nil {
		return Header{}, nil, err
	}
	return hdr, samples, nil
}

// ReadHeader parses the canonical 44-byte header at the start of data.
func ReadHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, fmt.Errorf("data too short for WAV header")
	}

	r := bytes.NewReader(data)

	// read wraps binary.Read to capture the first error.
	var firstErr error
	read := func(v interface{}) {
		if firstErr != nil {
			return
		}
		firstErr = binary.Read(r, binary.LittleEndian, v)
	}

	var riffID [4]byte
	read(&riffID)
	if firstErr != nil {
		return Header{}, fmt.Errorf("read RIFF header: %w", firstErr)
	}
	if string(riffID[:]) != "RIFF" {
		return Header{}, fmt.Errorf("not a RIFF file")
	}

	var fileSize uint32
	read(&fileSize)

	var waveID [4]byte
	read(&waveID)
	if firstErr != nil {
		return Header{}, fmt.Errorf("read WAVE header: %w", firstErr)
	}
	if string(waveID[:]) != "WAVE" {
		return Header{}, fmt.Errorf("not a WAVE file")
	}

	var fmtID [4]byte
	read(&fmtID)
	var fmtSize uint32
	read(&fmtSize)
	if firstErr == nil && (string(fmtID[:]) != "fmt " || fmtSize != 16) {
		return Header{}, fmt.Errorf("unexpected fmt chunk %q (%d bytes)", fmtID[:], fmtSize)
	}

	var (
		audioFormat, channels, blockAlign, bits uint16
		sampleRate, byteRate                    uint32
	)
	read(&audioFormat)
	read(&channels)
	read(&sampleRate)
	read(&byteRate)
	read(&blockAlign)
	read(&bits)
	if firstErr != nil {
		return Header{}, fmt.Errorf("read WAV format: %w", firstErr)
	}

	var dataID [4]byte
	read(&dataID)
	var dataSize uint32
	read(&dataSize)
	if firstErr != nil {
		return Header{}, fmt.Errorf("read data chunk: %w", firstErr)
	}
	if string(dataID[:]) != "data" {
		return Header{}, fmt.Errorf("unexpected chunk %q after fmt", dataID[:])
	}

	return Header{
		AudioFormat:   int(audioFormat),
		Channels:      int(channels),
		SampleRate:    int(sampleRate),
		ByteRate:      int(byteRate),
		BlockAlign:    int(blockAlign),
		BitsPerSample: int(bits),
		DataSize:      int(dataSize),
	}, nil
}
