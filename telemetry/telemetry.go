/*
Package telemetry records rides into an SQLite database.

A Store wraps a GORM connection. Every ride recorded is a Run, holding a
summary of the ride and its Samples, one per recorded step. Samples are
buffered and written in batches:

	store, err := telemetry.Open("rides.db", telemetry.DefaultOptions())
	rec, err := store.Begin(telemetry.RunInfo{Track: "demo", Points: c.N()})
	r.Run(0, func(snap ride.Snapshot) bool {
	    rec.Record(snap)
	    ...
	})
	run, err := rec.Finish()

An empty DSN opens a private in-memory database.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package telemetry

import (
	"errors"
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/npillmayer/coaster"
	"github.com/npillmayer/coaster/ride"
	"github.com/npillmayer/schuko/tracing"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// tracer writes to trace with key 'coaster.telemetry'
func tracer() tracing.Trace {
	return tracing.Select("coaster.telemetry")
}

// ErrFinished is returned when recording into a run which has been finished.
var ErrFinished = errors.New("telemetry: run already finished")

// Run is a recorded ride.
type Run struct {
	gorm.Model
	Track      string  `gorm:"size:255"`
	Points     int     // point count of the track curve
	LiftStart  int
	DecelStart int
	TimeStep   float64 // simulated seconds per step
	Steps      int     // steps taken
	Laps       int     // laps completed
	MaxSpeed   float64
	Degenerate int // steps with a reused frame
	Samples    []Sample
}

// Sample is the state of a ride after a single step.
type Sample struct {
	ID         uint `gorm:"primarykey"`
	RunID      uint `gorm:"index"`
	Step       int
	Lap        int
	Index      int
	Phase      string `gorm:"size:16"`
	Speed      float64
	X, Y, Z    float64
	Degenerate bool
	LiftVolume float64 // zero unless the lift sound plays
	RoarVolume float64 // zero unless the roar plays
}

// Options configure a store.
type Options struct {
	BatchSize int // samples buffered before a write
	Every     int // record every n-th step only
}

// DefaultOptions returns options for recording a ride at a tenth of its
// steps.
func DefaultOptions() Options {
	return Options{BatchSize: 500, Every: 10}
}

// Store is a telemetry database.
type Store struct {
	db   *gorm.DB
	opts Options
}

// Open opens or creates a telemetry database and migrates its schema.
func Open(dsn string, opts Options) (*Store, error) {
	if opts.BatchSize <= 0 || opts.Every <= 0 {
		return nil, fmt.Errorf("%w: batch size %d, sampling every %d steps",
			coaster.ErrInvalidInput, opts.BatchSize, opts.Every)
	}
	memory := dsn == ""
	if memory {
		dsn = "file::memory:"
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		CreateBatchSize:        opts.BatchSize,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("telemetry: cannot open database: %w", err)
	}
	if memory {
		// every connection would see a database of its own
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	if err = db.Exec("PRAGMA journal_mode = MEMORY;").Error; err != nil {
		return nil, fmt.Errorf("telemetry: error setting journal_mode PRAGMA: %w", err)
	}
	if err = db.AutoMigrate(&Run{}, &Sample{}); err != nil {
		return nil, fmt.Errorf("telemetry: migration failed: %w", err)
	}
	tracer().Infof("telemetry store opened, in memory = %v", memory)
	return &Store{db: db, opts: opts}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// RunInfo describes a ride about to be recorded.
type RunInfo struct {
	Track      string
	Points     int
	LiftStart  int
	DecelStart int
	TimeStep   float64
}

// Begin creates a new run and returns a recorder for it.
func (s *Store) Begin(info RunInfo) (*Recorder, error) {
	run := &Run{
		Track:      info.Track,
		Points:     info.Points,
		LiftStart:  info.LiftStart,
		DecelStart: info.DecelStart,
		TimeStep:   info.TimeStep,
	}
	if err := s.db.Create(run).Error; err != nil {
		return nil, fmt.Errorf("telemetry: cannot create run: %w", err)
	}
	tracer().Debugf("recording run %d on %q", run.ID, run.Track)
	return &Recorder{store: s, run: run, pending: make([]Sample, 0, s.opts.BatchSize)}, nil
}

// Recorder records the steps of a single run. It is not safe for concurrent
// use.
type Recorder struct {
	store    *Store
	run      *Run
	pending  []Sample
	finished bool
}

// Run returns the run being recorded. Its summary is complete after Finish.
func (r *Recorder) Run() Run {
	return *r.run
}

// Record adds a snapshot to the run. Every snapshot counts towards the
// run's summary, but only every n-th step is stored as a sample (see
// Options.Every).
func (r *Recorder) Record(snap ride.Snapshot) error {
	if r.finished {
		return ErrFinished
	}
	run := r.run
	run.Steps = snap.Step
	run.Laps = snap.Lap
	if snap.Speed > run.MaxSpeed {
		run.MaxSpeed = snap.Speed
	}
	if snap.Degenerate {
		run.Degenerate++
	}
	if snap.Step%r.store.opts.Every != 0 {
		return nil
	}
	r.pending = append(r.pending, sampleOf(run.ID, snap))
	if len(r.pending) >= r.store.opts.BatchSize {
		return r.Flush()
	}
	return nil
}

func sampleOf(runID uint, snap ride.Snapshot) Sample {
	smp := Sample{
		RunID:      runID,
		Step:       snap.Step,
		Lap:        snap.Lap,
		Index:      snap.Index,
		Phase:      snap.Phase.String(),
		Speed:      snap.Speed,
		X:          snap.Position.X(),
		Y:          snap.Position.Y(),
		Z:          snap.Position.Z(),
		Degenerate: snap.Degenerate,
	}
	if snap.Audio.Lift.Playing {
		smp.LiftVolume = snap.Audio.Lift.Volume
	}
	if snap.Audio.Roar.Playing {
		smp.RoarVolume = snap.Audio.Roar.Volume
	}
	return smp
}

// Flush writes buffered samples.
func (r *Recorder) Flush() error {
	if len(r.pending) == 0 {
		return nil
	}
	err := r.store.db.CreateInBatches(r.pending, r.store.opts.BatchSize).Error
	if err != nil {
		return fmt.Errorf("telemetry: cannot write %d samples: %w", len(r.pending), err)
	}
	tracer().Debugf("run %d: %d samples written", r.run.ID, len(r.pending))
	r.pending = r.pending[:0]
	return nil
}

// Finish flushes buffered samples and stores the summary of the run.
// Recording into a finished run fails with ErrFinished.
func (r *Recorder) Finish() (Run, error) {
	if r.finished {
		return *r.run, ErrFinished
	}
	if err := r.Flush(); err != nil {
		return *r.run, err
	}
	run := r.run
	err := r.store.db.Model(run).Updates(map[string]any{
		"steps":      run.Steps,
		"laps":       run.Laps,
		"max_speed":  run.MaxSpeed,
		"degenerate": run.Degenerate,
	}).Error
	if err != nil {
		return *run, fmt.Errorf("telemetry: cannot update run %d: %w", run.ID, err)
	}
	r.finished = true
	tracer().Infof("run %d finished: %d steps, %d laps, max speed %.3g", run.ID, run.Steps, run.Laps, run.MaxSpeed)
	return *run, nil
}
