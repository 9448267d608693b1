package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/san-kum/heatsim/internal/heat"
)

// HistoryCSV writes time, center, and surface temperature columns, plus
// any reference series of the same length (e.g. the lumped solution).
func HistoryCSV(w io.Writer, f *heat.Field, extra map[string][]float64, order []string) error {
	cw := csv.NewWriter(w)

	header := append([]string{"time", "center", "surface"}, order...)
	if err := cw.Write(header); err != nil {
		return err
	}

	center, surface := f.Center(), f.Surface()
	record := make([]string, len(header))
	for i := 0; i < f.Rows(); i++ {
		record[0] = strconv.FormatFloat(f.Times[i], 'f', 6, 64)
		record[1] = strconv.FormatFloat(center[i], 'f', 6, 64)
		record[2] = strconv.FormatFloat(surface[i], 'f', 6, 64)
		for k, name := range order {
			record[3+k] = strconv.FormatFloat(extra[name][i], 'f', 6, 64)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
