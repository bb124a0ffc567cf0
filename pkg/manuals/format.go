package manuals

import (
	"fmt"
	"math"
	"strconv"
)

// FormatFileSize renders a byte count the way the site displays it:
// "0 Bytes", "1.5 KB", "2 MB".
func FormatFileSize(bytes int64) string {
	if bytes == 0 {
		return "0 Bytes"
	}
	units := []string{"Bytes", "KB", "MB", "GB"}
	i := int(math.Floor(math.Log(float64(bytes)) / math.Log(1024)))
	if i >= len(units) {
		i = len(units) - 1
	}
	v := float64(bytes) / math.Pow(1024, float64(i))
	v = math.Round(v*100) / 100
	return fmt.Sprintf("%s %s", strconv.FormatFloat(v, 'f', -1, 64), units[i])
}
