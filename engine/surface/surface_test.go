package surface

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
)

func TestPickFormatPrefersLinear(t *testing.T) {
	tests := []struct {
		name    string
		formats []wgpu.TextureFormat
		want    wgpu.TextureFormat
	}{
		{
			name:    "linear after srgb",
			formats: []wgpu.TextureFormat{wgpu.TextureFormatBGRA8UnormSrgb, wgpu.TextureFormatBGRA8Unorm},
			want:    wgpu.TextureFormatBGRA8Unorm,
		},
		{
			name:    "rgba linear",
			formats: []wgpu.TextureFormat{wgpu.TextureFormatRGBA8UnormSrgb, wgpu.TextureFormatRGBA8Unorm},
			want:    wgpu.TextureFormatRGBA8Unorm,
		},
		{
			name:    "fallback to first",
			formats: []wgpu.TextureFormat{wgpu.TextureFormatBGRA8UnormSrgb},
			want:    wgpu.TextureFormatBGRA8UnormSrgb,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pickFormat(tt.formats))
		})
	}
}
