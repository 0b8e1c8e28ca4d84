package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dlpsolve/kangaroo/pkg/kangaroo"
)

func main() {
	var (
		pubkey             = flag.String("pubkey", "", "Target public key, hex, compressed or uncompressed")
		rangeLo            = flag.String("range-lo", "", "Range lower bound, hex scalar (inclusive)")
		rangeHi            = flag.String("range-hi", "", "Range upper bound, hex scalar (exclusive)")
		workers            = flag.Int("workers", 4, "Number of parallel walkers")
		dpBits             = flag.Int("dp-bits", 20, "Distinguished-point bit width")
		checkpointPath     = flag.String("checkpoint", "", "Path to checkpoint file to load at start and save periodically")
		checkpointInterval = flag.Duration("checkpoint-interval", 30*time.Second, "How often to write the checkpoint file")
		statsInterval      = flag.Duration("stats-interval", 5*time.Second, "How often to log progress")
	)
	flag.Parse()

	if *pubkey == "" || *rangeLo == "" || *rangeHi == "" {
		fmt.Fprintln(os.Stderr, "Error: -pubkey, -range-lo, and -range-hi are required")
		flag.Usage()
		os.Exit(1)
	}

	client := kangaroo.NewClient()
	params := kangaroo.Params{
		PublicKeyHex: *pubkey,
		RangeLoHex:   *rangeLo,
		RangeHiHex:   *rangeHi,
		Workers:      *workers,
		DPBits:       *dpBits,
	}
	if err := client.Init(params); err != nil {
		log.Fatalf("initialize: %v", err)
	}

	if *checkpointPath != "" {
		if f, err := os.Open(*checkpointPath); err == nil {
			err := client.LoadCheckpoint(f)
			f.Close()
			if err != nil {
				log.Fatalf("load checkpoint: %v", err)
			}
			log.Printf("resumed from checkpoint %s", *checkpointPath)
		}
	}

	if err := client.Start(); err != nil {
		log.Fatalf("start: %v", err)
	}

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)

	statsTicker := time.NewTicker(*statsInterval)
	defer statsTicker.Stop()

	var checkpointTicker <-chan time.Time
	if *checkpointPath != "" {
		t := time.NewTicker(*checkpointInterval)
		defer t.Stop()
		checkpointTicker = t.C
	}

	for {
		select {
		case <-sigc:
			log.Println("received interrupt, stopping")
			client.Stop()
			writeCheckpoint(client, *checkpointPath)
			return

		case <-statsTicker.C:
			logStats(client.Stats())
			if client.IsSolved() {
				client.Stop()
				writeCheckpoint(client, *checkpointPath)
				sol, _ := client.Solution()
				ok, err := kangaroo.VerifySolution(sol, *pubkey)
				if err != nil || !ok {
					log.Fatalf("solver reported solved but verification failed: %v", err)
				}
				fmt.Printf("\n[+] Solved! Private key: %s\n", sol)
				return
			}

		case <-checkpointTicker:
			writeCheckpoint(client, *checkpointPath)
		}
	}
}

func logStats(s kangaroo.Stats) {
	log.Printf("jumps=%d dps=%d collisions=%d elapsed=%ds threads=%d solved=%v",
		s.JumpsTotal, s.DPsTotal, s.CollisionsTotal, s.ElapsedSeconds, s.ThreadsActive, s.IsSolved)
}

func writeCheckpoint(client *kangaroo.Client, path string) {
	if path == "" {
		return
	}
	f, err := os.Create(path)
	if err != nil {
		log.Printf("checkpoint: %v", err)
		return
	}
	defer f.Close()
	if err := client.SaveCheckpoint(f, uint64(time.Now().Unix())); err != nil {
		log.Printf("checkpoint: %v", err)
	}
}
