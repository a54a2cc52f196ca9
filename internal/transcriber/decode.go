package transcriber

import (
	"context"
	"fmt"
)

const sampleRate = 16000

// decodePCM converts any ffmpeg-readable input to 16kHz mono float32 samples.
func (t *base) decodePCM(ctx context.Context, audioPath string) ([]float32, error) {
	t.logger.Info(ctx, "Decoding audio: %s", audioPath)

	// -nostdin: never wait on the terminal
	// -vn: drop any video stream
	// -f s16le: raw PCM 16-bit little-endian on stdout
	args := []string{
		"-nostdin",
		"-hide_banner",
		"-loglevel", "error",
		"-i", audioPath,
		"-vn",
		"-ar", fmt.Sprint(sampleRate),
		"-ac", "1",
		"-f", "s16le",
		"-",
	}

	out, err := t.executor.Execute(ctx, t.ffmpeg, args...)
	if err != nil {
		return nil, fmt.Errorf("ffmpeg decode: %w", err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("ffmpeg decode: no audio samples in %s", audioPath)
	}

	samples, err := bytesToFloat32(out)
	if err != nil {
		return nil, fmt.Errorf("convert samples: %w", err)
	}

	t.logger.Debug(ctx, "Decoded %d samples (%.1fs)", len(samples), float64(len(samples))/sampleRate)
	return samples, nil
}

// convertToWAV writes a 16kHz mono WAV next to the other working files.
func (t *base) convertToWAV(ctx context.Context, audioPath, wavPath string) error {
	args := []string{
		"-nostdin",
		"-hide_banner",
		"-loglevel", "error",
		"-i", audioPath,
		"-vn",
		"-ar", fmt.Sprint(sampleRate),
		"-ac", "1",
		"-c:a", "pcm_s16le",
		"-y",
		wavPath,
	}

	if _, err := t.executor.Execute(ctx, t.ffmpeg, args...); err != nil {
		return fmt.Errorf("ffmpeg convert: %w", err)
	}
	return nil
}

func bytesToFloat32(data []byte) ([]float32, error) {
	if len(data)%2 != 0 {
		return nil, fmt.Errorf("data length must be even for 16-bit audio")
	}
	floats := make([]float32, len(data)/2)
	for i := range floats {
		sample := int16(data[i*2]) | int16(data[i*2+1])<<8
		floats[i] = float32(sample) / 32768.0
	}
	return floats, nil
}
