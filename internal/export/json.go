package export

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/heatsim/internal/heat"
)

// Document is the JSON form of a run.
type Document struct {
	Shape        string             `json:"shape"`
	Solver       string             `json:"solver"`
	Nodes        int                `json:"nodes"`
	Steps        int                `json:"steps"`
	Fourier      float64            `json:"fourier,omitempty"`
	Biot         float64            `json:"biot,omitempty"`
	Times        []float64          `json:"times"`
	Radii        []float64          `json:"radii"`
	Temperatures [][]float64        `json:"temperatures"`
	Metrics      map[string]float64 `json:"metrics,omitempty"`
}

// NewDocument copies f into a Document. Fourier and Biot are left for the
// caller when they are known.
func NewDocument(f *heat.Field, solver string, metrics map[string]float64) *Document {
	doc := &Document{
		Shape:        f.Shape.String(),
		Solver:       solver,
		Nodes:        f.Nodes(),
		Steps:        f.Rows() - 1,
		Times:        f.Times,
		Radii:        f.Radii,
		Temperatures: make([][]float64, f.Rows()),
		Metrics:      metrics,
	}
	for i := range doc.Temperatures {
		doc.Temperatures[i] = f.Row(i)
	}
	return doc
}

func WriteJSON(w io.Writer, doc *Document) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(doc)
}

// JSON writes doc to path, or to stdout when path is "-".
func JSON(path string, doc *Document) error {
	if path == "-" {
		return WriteJSON(os.Stdout, doc)
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteJSON(file, doc)
}
