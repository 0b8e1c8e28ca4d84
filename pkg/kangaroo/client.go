package kangaroo

import (
	"fmt"
	"io"
	"log"

	"github.com/dlpsolve/kangaroo/internal/engine"
)

// Client is the high-level entry point: construct with NewClient, Init
// once with a target and range, then Start/Stop/Stats/checkpoint as the
// search runs.
type Client struct {
	engine *engine.Engine
}

// NewClient returns an uninitialized client. Call Init before Start.
func NewClient() *Client {
	return &Client{}
}

// Init validates params and builds the underlying engine. It may be
// called again on the same client as long as the previous engine, if any,
// is not running.
func (c *Client) Init(p Params) error {
	if c.engine != nil && c.engine.IsRunning() {
		return fmt.Errorf("kangaroo: cannot re-initialize while running")
	}
	cfg, err := ParseConfig(p)
	if err != nil {
		return err
	}
	e, err := engine.New(cfg)
	if err != nil {
		return err
	}
	c.engine = e
	log.Printf("kangaroo: initialized range [%s, %s) workers=%d dp_bits=%d",
		cfg.RangeLo.HexPadded64(), cfg.RangeHi.HexPadded64(), cfg.Workers, cfg.DPBits)
	return nil
}

// Start begins the search. It fails if Init has not been called, or if
// the engine is already running.
func (c *Client) Start() error {
	if c.engine == nil {
		return fmt.Errorf("kangaroo: not initialized")
	}
	if err := c.engine.Start(); err != nil {
		return err
	}
	log.Println("kangaroo: search started")
	return nil
}

// Stop is idempotent; it returns once every worker has exited.
func (c *Client) Stop() {
	if c.engine == nil {
		return
	}
	c.engine.Stop()
	log.Println("kangaroo: search stopped")
}

// IsRunning reports whether a search is currently active.
func (c *Client) IsRunning() bool {
	return c.engine != nil && c.engine.IsRunning()
}

// IsSolved reports whether the target has been solved.
func (c *Client) IsSolved() bool {
	return c.engine != nil && c.engine.IsSolved()
}

// Stats returns the current progress snapshot. It returns the zero value
// if the client has not been initialized.
func (c *Client) Stats() Stats {
	if c.engine == nil {
		return Stats{}
	}
	return c.engine.Stats()
}

// Solution returns the recovered scalar, hex-encoded, and true once the
// engine has solved the target.
func (c *Client) Solution() (string, bool) {
	if c.engine == nil {
		return "", false
	}
	sol, ok := c.engine.Solution()
	if !ok {
		return "", false
	}
	return sol.HexPadded64(), true
}

// SaveCheckpoint writes the engine's current state to w. Save is
// permitted while the engine is running; it is a best-effort snapshot,
// not a strong-consistency cut.
func (c *Client) SaveCheckpoint(w io.Writer, timestamp uint64) error {
	if c.engine == nil {
		return fmt.Errorf("kangaroo: not initialized")
	}
	return Save(c.engine, w, timestamp)
}

// LoadCheckpoint restores state from r into the client's engine. It fails,
// leaving state untouched, if the engine is running or the checkpoint is
// malformed.
func (c *Client) LoadCheckpoint(r io.Reader) error {
	if c.engine == nil {
		return fmt.Errorf("kangaroo: not initialized")
	}
	if c.engine.IsRunning() {
		return fmt.Errorf("kangaroo: cannot load checkpoint while running")
	}
	if err := Load(c.engine, r); err != nil {
		return err
	}
	log.Println("kangaroo: checkpoint loaded")
	return nil
}

// Engine exposes the underlying engine for callers that need direct
// access to it.
func (c *Client) Engine() *engine.Engine {
	return c.engine
}
