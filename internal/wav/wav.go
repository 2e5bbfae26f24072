// Package wav decodes 16-bit PCM mono WAV files into normalised float
// samples. It exists for the command-line harness; the scoring pipeline
// itself only ever sees raw sample buffers.
package wav

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// Decode reads a RIFF/WAV stream and returns its samples normalised to
// [-1, 1] plus the sample rate. Only uncompressed 16-bit PCM mono data is
// supported; unknown chunks are skipped.
func Decode(r io.ReadSeeker) ([]float64, int, error) {
	if err := expectTag(r, "RIFF"); err != nil {
		return nil, 0, err
	}
	var size uint32
	if err := binary.Read(r, binary.LittleEndian, &size); err != nil {
		return nil, 0, fmt.Errorf("read riff size: %w", err)
	}
	if err := expectTag(r, "WAVE"); err != nil {
		return nil, 0, err
	}

	var (
		sampleRate int
		samples    []float64
		haveFmt    bool
	)
	for {
		var tag [4]byte
		if err := binary.Read(r, binary.LittleEndian, &tag); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				break
			}
			return nil, 0, fmt.Errorf("read chunk tag: %w", err)
		}
		var chunkSize uint32
		if err := binary.Read(r, binary.LittleEndian, &chunkSize); err != nil {
			return nil, 0, fmt.Errorf("read chunk size: %w", err)
		}

		switch string(tag[:]) {
		case "fmt ":
			rate, err := decodeFmt(r, chunkSize)
			if err != nil {
				return nil, 0, err
			}
			sampleRate = rate
			haveFmt = true
		case "data":
			if !haveFmt {
				return nil, 0, errors.New("data chunk before fmt chunk")
			}
			pcm := make([]int16, int(chunkSize)/2)
			if err := binary.Read(r, binary.LittleEndian, pcm); err != nil {
				return nil, 0, fmt.Errorf("read pcm data: %w", err)
			}
			samples = make([]float64, len(pcm))
			for i, s := range pcm {
				samples[i] = float64(s) / 32768.0
			}
			return samples, sampleRate, nil
		default:
			skip := int64(chunkSize)
			if chunkSize%2 != 0 {
				skip++
			}
			if _, err := r.Seek(skip, io.SeekCurrent); err != nil {
				return nil, 0, fmt.Errorf("skip chunk %q: %w", tag, err)
			}
		}
	}
	return nil, 0, errors.New("missing data chunk")
}

// ReadFile decodes the WAV file at path.
func ReadFile(path string) ([]float64, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()
	return Decode(f)
}

func expectTag(r io.Reader, want string) error {
	var tag [4]byte
	if err := binary.Read(r, binary.LittleEndian, &tag); err != nil {
		return fmt.Errorf("read %s tag: %w", want, err)
	}
	if string(tag[:]) != want {
		return fmt.Errorf("not a %s stream", want)
	}
	return nil
}

func decodeFmt(r io.ReadSeeker, size uint32) (int, error) {
	var (
		format, channels uint16
		rate, byteRate   uint32
		align, bits      uint16
	)
	for _, field := range []any{&format, &channels, &rate, &byteRate, &align, &bits} {
		if err := binary.Read(r, binary.LittleEndian, field); err != nil {
			return 0, fmt.Errorf("read fmt chunk: %w", err)
		}
	}
	if format != 1 {
		return 0, fmt.Errorf("unsupported audio format %d, want PCM", format)
	}
	if channels != 1 {
		return 0, fmt.Errorf("unsupported channel count %d, want mono", channels)
	}
	if bits != 16 {
		return 0, fmt.Errorf("unsupported sample width %d bits, want 16", bits)
	}
	if size > 16 {
		if _, err := r.Seek(int64(size-16), io.SeekCurrent); err != nil {
			return 0, fmt.Errorf("skip extra fmt bytes: %w", err)
		}
	}
	return int(rate), nil
}
