package audiofile

import (
	"fmt"

	"github.com/cwbudde/algo-sfx/dsp/buffer"
	"github.com/go-audio/audio"
)

// ToIntBuffer converts a to an interleaved go-audio integer buffer.
func ToIntBuffer(a *buffer.Audio, bits int) (*audio.IntBuffer, error) {
	data, err := a.ToPCM(bits)
	if err != nil {
		return nil, err
	}

	return &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: a.Channels(), SampleRate: int(a.SampleRate())},
		Data:           data,
		SourceBitDepth: bits,
	}, nil
}

// FromIntBuffer converts a go-audio integer buffer to Audio. 8-bit data is
// treated as unsigned, as stored in WAV files.
func FromIntBuffer(b *audio.IntBuffer) (*buffer.Audio, error) {
	format := b.PCMFormat()
	if format == nil {
		return nil, fmt.Errorf("audiofile: buffer has no format")
	}

	bits := b.SourceBitDepth
	data := b.Data
	if bits == 8 {
		data = make([]int, len(b.Data))
		for i, v := range b.Data {
			data[i] = v - 128
		}
	}

	return buffer.FromPCM(data, format.NumChannels, bits, float64(format.SampleRate))
}

// FromFloatBuffer converts an interleaved go-audio float buffer to Audio.
func FromFloatBuffer(b *audio.FloatBuffer) (*buffer.Audio, error) {
	format := b.PCMFormat()
	if format == nil {
		return nil, fmt.Errorf("audiofile: buffer has no format")
	}
	return buffer.FromInterleaved(b.Data, format.NumChannels, float64(format.SampleRate))
}
