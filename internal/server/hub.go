package server

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/san-kum/heatsim/internal/experiment"
	"github.com/san-kum/heatsim/internal/sim"
)

// Hub serves one websocket connection: it reads requests, runs at most
// one simulation at a time, and streams its rows back.
type Hub struct {
	conn   *websocket.Conn
	stride int
	logger *log.Entry

	writeMu sync.Mutex

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewHub(conn *websocket.Conn, stride int, logger *log.Entry) *Hub {
	return &Hub{conn: conn, stride: stride, logger: logger}
}

func (h *Hub) send(resp Response) error {
	h.writeMu.Lock()
	defer h.writeMu.Unlock()
	return h.conn.WriteJSON(&resp)
}

// Serve reads requests until the connection closes or ctx ends.
func (h *Hub) Serve(ctx context.Context) {
	defer h.stop()

	for {
		var req Request
		if err := h.conn.ReadJSON(&req); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.WithError(err).Debug("read failed")
			}
			return
		}

		switch req.Type {
		case TypeRun:
			if err := h.start(ctx, req); err != nil {
				h.reply(Response{Type: TypeError, Error: err.Error()})
			}
		case TypeStop:
			if !h.stop() {
				h.reply(Response{Type: TypeStopped})
			}
		default:
			h.reply(Response{Type: TypeError, Error: fmt.Sprintf("unknown message type %q", req.Type)})
		}
	}
}

func (h *Hub) reply(resp Response) {
	if err := h.send(resp); err != nil {
		h.logger.WithError(err).Warn("write failed")
	}
}

func (h *Hub) start(ctx context.Context, req Request) error {
	if req.Config == nil {
		return errors.New("run request without config")
	}
	exp, err := experiment.New(req.Config)
	if err != nil {
		return err
	}
	if err := exp.Setup(); err != nil {
		return err
	}
	stride := req.Stride
	if stride <= 0 {
		stride = h.stride
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cancel != nil {
		return errors.New("a run is already in progress")
	}
	runCtx, cancel := context.WithCancel(ctx)
	h.cancel = cancel
	h.done = make(chan struct{})

	go h.run(runCtx, exp, stride, h.done)
	return nil
}

// stop cancels the current run and waits for it. It reports whether a run
// was active.
func (h *Hub) stop() bool {
	h.mu.Lock()
	cancel, done := h.cancel, h.done
	h.mu.Unlock()
	if cancel == nil {
		return false
	}
	cancel()
	<-done
	return true
}

func (h *Hub) run(ctx context.Context, exp *experiment.Experiment, stride int, done chan struct{}) {
	defer func() {
		h.mu.Lock()
		if h.cancel != nil {
			h.cancel()
		}
		h.cancel = nil
		h.done = nil
		h.mu.Unlock()
		close(done)
	}()

	p := exp.Params()
	logger := h.logger.WithFields(log.Fields{"shape": p.Shape.String(), "solver": string(exp.Strategy())})
	h.reply(Response{Type: TypeStarted, Radii: p.Radii(), Fourier: p.Fo, Biot: p.Bi, Steps: p.TimeSteps})

	var writeErr error
	exp.GetSimulator().AddObserver(sim.ObserverFunc(func(step int, t float64, row []float64) {
		if writeErr != nil || (step%stride != 0 && step != p.TimeSteps) {
			return
		}
		temps := append([]float64(nil), row...)
		writeErr = h.send(Response{Type: TypeRow, Step: step, Time: t, Temperatures: temps})
	}))

	res, err := exp.Run(ctx)
	switch {
	case errors.Is(err, context.Canceled):
		logger.Debug("run stopped by client")
		h.reply(Response{Type: TypeStopped, Steps: res.StepsTaken})
	case err != nil:
		logger.WithError(err).Warn("run failed")
		h.reply(Response{Type: TypeError, Error: err.Error()})
	case writeErr != nil:
		logger.WithError(writeErr).Warn("streaming failed")
	default:
		logger.WithField("elapsed", res.Elapsed).Info("run streamed")
		h.reply(Response{Type: TypeDone, Steps: res.StepsTaken, Metrics: res.Metrics})
	}
}
