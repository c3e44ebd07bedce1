package quota

import (
	"math"
	"strconv"
)

var byteUnits = []string{"Bytes", "KB", "MB", "GB"}

// FormatBytes renders a size in 1024-based units with at most two decimals,
// e.g. "0 Bytes", "1.5 KB", "1 MB".
func FormatBytes(n int64) string {
	if n == 0 {
		return "0 Bytes"
	}
	sign := ""
	v := float64(n)
	if n < 0 {
		sign = "-"
		v = -v
	}
	i := 0
	for v >= 1024 && i < len(byteUnits)-1 {
		v /= 1024
		i++
	}
	v = math.Round(v*100) / 100
	return sign + strconv.FormatFloat(v, 'f', -1, 64) + " " + byteUnits[i]
}
