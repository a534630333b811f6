package parse

import (
	"fmt"
	"math"
	"strconv"
)

// FormatInterval renders an interval in minutes as a human phrase:
// "cada 30 segundos", "cada minuto", "cada 45 minutos", "cada 1.5 horas".
func FormatInterval(minutes float64) string {
	switch {
	case minutes < 1:
		return fmt.Sprintf("cada %d segundos", int(minutes*60))
	case minutes == 1:
		return "cada minuto"
	case minutes <= 60:
		if minutes == math.Trunc(minutes) {
			return fmt.Sprintf("cada %d minutos", int(minutes))
		}
		return fmt.Sprintf("cada %s minutos", strconv.FormatFloat(minutes, 'f', -1, 64))
	default:
		hours := minutes / 60
		if hours == math.Trunc(hours) {
			return fmt.Sprintf("cada %d horas", int(hours))
		}
		rounded := math.Round(hours*10) / 10
		return fmt.Sprintf("cada %s horas", strconv.FormatFloat(rounded, 'f', -1, 64))
	}
}
