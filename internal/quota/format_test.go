package quota

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 Bytes"},
		{1, "1 Bytes"},
		{1023, "1023 Bytes"},
		{1024, "1 KB"},
		{1536, "1.5 KB"},
		{1024 * 1024, "1 MB"},
		{200 * MiB, "200 MB"},
		{250 * MiB, "250 MB"},
		{500 * MiB, "500 MB"},
		{2 * GiB, "2 GB"},
		{1288490189, "1.2 GB"},
		{2048 * GiB, "2048 GB"},
		{-1536, "-1.5 KB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatBytes(tt.in), "FormatBytes(%d)", tt.in)
	}
}
