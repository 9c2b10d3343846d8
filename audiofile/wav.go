package audiofile

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/cwbudde/algo-sfx/dsp/buffer"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// ErrUnsupportedFormat reports a file whose container or encoding cannot be
// decoded.
var ErrUnsupportedFormat = errors.New("audiofile: unsupported format")

// Format is the WAV fmt-chunk encoding tag.
type Format uint16

const (
	FormatPCM       Format = 1
	FormatIEEEFloat Format = 3
)

// String returns the subtype name used in validation reports.
func (f Format) String() string {
	switch f {
	case FormatPCM:
		return "PCM"
	case FormatIEEEFloat:
		return "FLOAT"
	default:
		return fmt.Sprintf("Format(%d)", uint16(f))
	}
}

// WAVInfo describes a decoded WAV file as stored on disk.
type WAVInfo struct {
	SampleRate    int
	Channels      int
	BitsPerSample int
	Format        Format
	Frames        int
}

// Duration returns the playing time of the file.
func (i WAVInfo) Duration() time.Duration {
	if i.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(i.Frames) / float64(i.SampleRate) * float64(time.Second))
}

// Seconds returns the playing time in seconds.
func (i WAVInfo) Seconds() float64 {
	if i.SampleRate <= 0 {
		return 0
	}
	return float64(i.Frames) / float64(i.SampleRate)
}

// IsFloat32 reports whether the file is 32-bit IEEE float.
func (i WAVInfo) IsFloat32() bool {
	return i.Format == FormatIEEEFloat && i.BitsPerSample == 32
}

// ReadWAV decodes the WAV file at path.
func ReadWAV(path string) (*buffer.Audio, WAVInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, WAVInfo{}, err
	}
	defer f.Close()

	a, info, err := DecodeWAV(f)
	if err != nil {
		return nil, WAVInfo{}, fmt.Errorf("%s: %w", path, err)
	}
	return a, info, nil
}

// DecodeWAV decodes a PCM (8/16/24/32-bit) or 32-bit float WAV stream.
func DecodeWAV(r io.ReadSeeker) (*buffer.Audio, WAVInfo, error) {
	d := wav.NewDecoder(r)
	d.ReadInfo()
	if err := d.Err(); err != nil {
		return nil, WAVInfo{}, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	if d.NumChans < 1 || d.SampleRate == 0 {
		return nil, WAVInfo{}, fmt.Errorf("%w: missing fmt chunk", ErrUnsupportedFormat)
	}

	info := WAVInfo{
		SampleRate:    int(d.SampleRate),
		Channels:      int(d.NumChans),
		BitsPerSample: int(d.BitDepth),
		Format:        Format(d.WavAudioFormat),
	}

	switch {
	case info.Format == FormatPCM && info.BitsPerSample%8 == 0 && info.BitsPerSample <= 32:
	case info.Format == FormatIEEEFloat && info.BitsPerSample == 32:
	default:
		return nil, info, fmt.Errorf("%w: %s with %d bits", ErrUnsupportedFormat, info.Format, info.BitsPerSample)
	}

	pcm, err := d.FullPCMBuffer()
	if err != nil {
		return nil, info, fmt.Errorf("audiofile: read samples: %w", err)
	}

	var a *buffer.Audio
	if info.Format == FormatIEEEFloat {
		a, err = fromFloat32Bits(pcm)
	} else {
		a, err = FromIntBuffer(pcm)
	}
	if err != nil {
		return nil, info, err
	}

	info.Frames = a.Frames()
	return a, info, nil
}

// WriteWAVFloat32 encodes a as 32-bit IEEE float WAV. Samples are written
// unclipped.
func WriteWAVFloat32(w io.WriteSeeker, a *buffer.Audio) error {
	channels := a.Channels()
	data := make([]int, a.Frames()*channels)
	for ch := 0; ch < channels; ch++ {
		for i, v := range a.Channel(ch) {
			data[i*channels+ch] = int(int32(math.Float32bits(float32(v))))
		}
	}

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: int(a.SampleRate())},
		Data:           data,
		SourceBitDepth: 32,
	}
	return encode(w, buf, 32, FormatIEEEFloat)
}

// WritePCM encodes a as integer PCM WAV with 16, 24 or 32 bits per sample.
// Samples outside [-1, 1) are clipped.
func WritePCM(w io.WriteSeeker, a *buffer.Audio, bits int) error {
	if bits != 16 && bits != 24 && bits != 32 {
		return fmt.Errorf("audiofile: PCM bit depth must be 16, 24 or 32: %d", bits)
	}

	buf, err := ToIntBuffer(a, bits)
	if err != nil {
		return err
	}
	return encode(w, buf, bits, FormatPCM)
}

func encode(w io.WriteSeeker, buf *audio.IntBuffer, bits int, format Format) error {
	enc := wav.NewEncoder(w, buf.Format.SampleRate, bits, buf.Format.NumChannels, int(format))
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("audiofile: encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("audiofile: finalize: %w", err)
	}
	return nil
}

func fromFloat32Bits(pcm *audio.IntBuffer) (*buffer.Audio, error) {
	floats := make([]float64, len(pcm.Data))
	for i, v := range pcm.Data {
		floats[i] = float64(math.Float32frombits(uint32(int32(v))))
	}
	return buffer.FromInterleaved(floats, pcm.Format.NumChannels, float64(pcm.Format.SampleRate))
}
