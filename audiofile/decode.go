package audiofile

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cwbudde/algo-sfx/dsp/buffer"
	"github.com/hajimehoshi/go-mp3"
	"github.com/mewkiz/flac"
)

// Load decodes the file at path, choosing the decoder by extension.
func Load(path string) (*buffer.Audio, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".wav", ".wave":
		a, _, err := ReadWAV(path)
		return a, err
	case ".flac":
		return LoadFLAC(path)
	case ".mp3":
		return LoadMP3(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// LoadFLAC decodes the FLAC file at path.
func LoadFLAC(path string) (*buffer.Audio, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	a, err := DecodeFLAC(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return a, nil
}

// DecodeFLAC decodes a FLAC stream frame by frame.
func DecodeFLAC(r io.Reader) (*buffer.Audio, error) {
	stream, err := flac.New(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	defer stream.Close()

	channels := int(stream.Info.NChannels)
	bits := int(stream.Info.BitsPerSample)
	if channels < 1 || bits < 4 || bits > 32 {
		return nil, fmt.Errorf("%w: flac with %d channels at %d bits", ErrUnsupportedFormat, channels, bits)
	}
	scale := 1 / float64(int64(1)<<(bits-1))

	data := make([][]float64, channels)
	if n := int(stream.Info.NSamples); n > 0 {
		for ch := range data {
			data[ch] = make([]float64, 0, n)
		}
	}

	for {
		frame, err := stream.ParseNext()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("audiofile: flac frame: %w", err)
		}

		for ch := 0; ch < channels && ch < len(frame.Subframes); ch++ {
			samples := frame.Subframes[ch].Samples
			for i := 0; i < int(frame.BlockSize) && i < len(samples); i++ {
				data[ch] = append(data[ch], float64(samples[i])*scale)
			}
		}
	}

	return buffer.FromChannels(data, float64(stream.Info.SampleRate))
}

// LoadMP3 decodes the MP3 file at path. The decoder always produces stereo.
func LoadMP3(path string) (*buffer.Audio, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	a, err := DecodeMP3(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return a, nil
}

// DecodeMP3 decodes an MP3 stream to stereo Audio.
func DecodeMP3(r io.Reader) (*buffer.Audio, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}

	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("audiofile: mp3 decode: %w", err)
	}

	const mp3Channels = 2
	samples := make([]float64, len(raw)/2)
	for i := range samples {
		samples[i] = float64(int16(binary.LittleEndian.Uint16(raw[2*i:]))) / 32768
	}
	samples = samples[:len(samples)-len(samples)%mp3Channels]

	return buffer.FromInterleaved(samples, mp3Channels, float64(dec.SampleRate()))
}
