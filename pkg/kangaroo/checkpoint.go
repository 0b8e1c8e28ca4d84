package kangaroo

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"

	"github.com/dlpsolve/kangaroo/internal/curve"
	"github.com/dlpsolve/kangaroo/internal/dpstore"
	"github.com/dlpsolve/kangaroo/internal/engine"
)

// checkpointVersion identifies this module's checkpoint schema, written on
// every Save and required to be non-empty on Load.
const checkpointVersion = "kangaroo-checkpoint-v1"

// DPRecord is a single serialized distinguished-point observation.
type DPRecord struct {
	PointXYHex string `json:"point_xy_hex"`
	DistanceHex string `json:"distance_hex"`
	IsTame      bool   `json:"is_tame"`
	TObserved   uint64 `json:"t_observed"`
}

// Checkpoint is the self-describing snapshot of engine state: engine
// configuration, lifecycle counters, and the full distinguished-point
// list, letting Load reconstruct the DP store completely rather than
// just its counters.
type Checkpoint struct {
	Version                   string `json:"version"`
	Timestamp                 uint64 `json:"timestamp"`
	TotalJumps                uint64 `json:"total_jumps"`
	DistinguishedPointsCount  uint64 `json:"distinguished_points_count"`
	CollisionsTotal           uint64 `json:"collisions_total"`
	RangeStart                string `json:"range_start"`
	RangeEnd                  string `json:"range_end"`
	NumThreads                int32  `json:"num_threads"`
	DistinguishedBits         int32  `json:"distinguished_bits"`
	DistinguishedPoints       []DPRecord `json:"distinguished_points"`
}

// Validate enforces the checkpoint's load-time invariants: version must
// be non-empty and timestamp must be non-zero. Each distinguished-point
// record is one struct rather than parallel arrays, so field-length
// agreement is structural and needs no separate check.
func (c *Checkpoint) Validate() error {
	if c.Version == "" {
		return fmt.Errorf("kangaroo: checkpoint version must not be empty")
	}
	if c.Timestamp == 0 {
		return fmt.Errorf("kangaroo: checkpoint timestamp must not be zero")
	}
	return nil
}

// saveCheckpoint builds a Checkpoint from the live engine state. This is
// a read against a possibly-running engine and may observe a
// non-linearisable mix of counter and DP-store state; it is advisory,
// not a strong-consistency cut.
func saveCheckpoint(e *engine.Engine, timestamp uint64) Checkpoint {
	cfg := e.Config()
	entries := e.Store().Snapshot()

	records := make([]DPRecord, 0, len(entries))
	for _, ent := range entries {
		records = append(records, DPRecord{
			PointXYHex:  hex.EncodeToString(ent.Fingerprint[:]),
			DistanceHex: ent.Record.Distance.HexPadded64(),
			IsTame:      ent.Record.Herd == dpstore.Tame,
			TObserved:   ent.Record.TObserved,
		})
	}

	return Checkpoint{
		Version:                  checkpointVersion,
		Timestamp:                timestamp,
		TotalJumps:                e.JumpsTotal(),
		DistinguishedPointsCount: uint64(len(records)),
		CollisionsTotal:          e.Store().CollisionsTotal(),
		RangeStart:               cfg.RangeLo.HexPadded64(),
		RangeEnd:                 cfg.RangeHi.HexPadded64(),
		NumThreads:               int32(cfg.Workers),
		DistinguishedBits:        int32(cfg.DPBits),
		DistinguishedPoints:      records,
	}
}

// Save writes a checkpoint of e's current state to w as JSON.
func Save(e *engine.Engine, w io.Writer, timestamp uint64) error {
	cp := saveCheckpoint(e, timestamp)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(cp); err != nil {
		return fmt.Errorf("kangaroo: writing checkpoint: %w", err)
	}
	return nil
}

// Load reads a checkpoint from r and restores it into e. The caller must
// ensure e is stopped first (RestoreCounters enforces this), and on any
// validation failure the engine's existing state is left untouched.
func Load(e *engine.Engine, r io.Reader) error {
	var cp Checkpoint
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(&cp); err != nil {
		return fmt.Errorf("kangaroo: reading checkpoint: %w", err)
	}
	if err := cp.Validate(); err != nil {
		return err
	}

	entries := make([]dpstore.Entry, 0, len(cp.DistinguishedPoints))
	for _, rec := range cp.DistinguishedPoints {
		fpBytes, err := hex.DecodeString(rec.PointXYHex)
		if err != nil || len(fpBytes) != 32 {
			return fmt.Errorf("kangaroo: malformed checkpoint fingerprint %q", rec.PointXYHex)
		}
		var fp dpstore.Fingerprint
		copy(fp[:], fpBytes)

		distance, err := curve.ScalarFromHex(rec.DistanceHex)
		if err != nil {
			return fmt.Errorf("kangaroo: malformed checkpoint distance %q: %w", rec.DistanceHex, err)
		}
		herd := dpstore.Wild
		if rec.IsTame {
			herd = dpstore.Tame
		}
		entries = append(entries, dpstore.Entry{
			Fingerprint: fp,
			Record: dpstore.Record{
				Distance:  distance,
				Herd:      herd,
				TObserved: rec.TObserved,
			},
		})
	}

	if err := e.RestoreCounters(cp.TotalJumps); err != nil {
		return err
	}
	e.Store().Load(entries, cp.DistinguishedPointsCount, cp.CollisionsTotal)
	return nil
}
