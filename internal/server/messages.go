package server

import "github.com/san-kum/heatsim/internal/config"

// Message types exchanged on the websocket.
const (
	TypeRun     = "run"
	TypeStop    = "stop"
	TypeStarted = "started"
	TypeRow     = "row"
	TypeDone    = "done"
	TypeStopped = "stopped"
	TypeError   = "error"
)

// Request is sent by the client. Config is required for run; Stride sets
// how many steps separate two streamed rows (default: the server's).
type Request struct {
	Type   string         `json:"type"`
	Config *config.Config `json:"config,omitempty"`
	Stride int            `json:"stride,omitempty"`
}

type Response struct {
	Type         string             `json:"type"`
	Step         int                `json:"step,omitempty"`
	Time         float64            `json:"time,omitempty"`
	Radii        []float64          `json:"radii,omitempty"`
	Temperatures []float64          `json:"temperatures,omitempty"`
	Fourier      float64            `json:"fourier,omitempty"`
	Biot         float64            `json:"biot,omitempty"`
	Steps        int                `json:"steps,omitempty"`
	Metrics      map[string]float64 `json:"metrics,omitempty"`
	Error        string             `json:"error,omitempty"`
}
