package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/npillmayer/coaster/config"
	"github.com/npillmayer/coaster/curve"
	"github.com/npillmayer/coaster/layout"
	"github.com/npillmayer/coaster/physics"
	"github.com/npillmayer/coaster/report"
	"github.com/npillmayer/coaster/ride"
	"github.com/npillmayer/coaster/telemetry"
	"github.com/rs/zerolog"
)

// loadTrack prepares the configured track curve and resolves its physics
// parameters. Without a track file, the demo layout is sampled and its
// landmark knots take the place of the configured fractions.
func loadTrack(s config.Settings, log zerolog.Logger) (string, *curve.Curve, physics.Params, error) {
	var raw *curve.Curve
	var err error
	name := s.Track.File
	subdivisions := s.Track.Subdivisions
	if name == "" {
		name, subdivisions = "demo", 0
		raw, err = demoCurve(&s)
	} else {
		raw, err = curve.Load(name)
	}
	if err != nil {
		return name, nil, physics.Params{}, err
	}
	c, err := curve.Prepare(raw, subdivisions, s.Track.Scale)
	if err != nil {
		return name, nil, physics.Params{}, err
	}
	p, err := s.Physics(c.N())
	if err != nil {
		return name, nil, physics.Params{}, err
	}
	log.Info().Str("track", name).Int("points", c.N()).Float64("length", c.Length()).
		Int("lift", p.LiftStart).Int("decel", p.DecelStart).Msg("track prepared")
	return name, c, p, nil
}

func demoCurve(s *config.Settings) (*curve.Curve, error) {
	demo := layout.Demo()
	controls, err := layout.FindControls(demo.Plan)
	if err != nil {
		return nil, err
	}
	lift, brake, err := demo.Landmarks(controls)
	if err != nil {
		return nil, err
	}
	s.Physics.LiftAt, s.Physics.DecelAt = lift, brake
	return layout.Sample(demo.Plan, controls, s.Track.Spacing)
}

func simulate(s config.Settings, log zerolog.Logger, args []string) error {
	fs := flag.NewFlagSet("simulate", flag.ExitOnError)
	laps := fs.Int("laps", s.Ride.Laps, "laps to ride")
	steps := fs.Int("steps", s.Ride.Steps, "maximum number of steps, 0 for no limit")
	png := fs.String("png", s.Report.PNG, "write speed profile chart to this PNG file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	name, c, p, err := loadTrack(s, log)
	if err != nil {
		return err
	}
	r, err := ride.New(c, p, s.RideOptions())
	if err != nil {
		return err
	}
	var rec *telemetry.Recorder
	if s.Telemetry.Enabled {
		store, err := telemetry.Open(s.Telemetry.DSN, telemetry.Options{
			BatchSize: s.Telemetry.BatchSize,
			Every:     s.Telemetry.Every,
		})
		if err != nil {
			return err
		}
		defer store.Close()
		rec, err = store.Begin(telemetry.RunInfo{
			Track:      name,
			Points:     c.N(),
			LiftStart:  p.LiftStart,
			DecelStart: p.DecelStart,
			TimeStep:   s.Ride.TimeStep,
		})
		if err != nil {
			return err
		}
	}
	if *laps <= 0 && *steps <= 0 {
		*laps = 1
	}
	var prof report.Profile
	var recErr error
	err = r.Run(*steps, func(snap ride.Snapshot) bool {
		prof.Add(float64(snap.Step)*s.Ride.TimeStep, snap)
		if rec != nil {
			if recErr = rec.Record(snap); recErr != nil {
				return false
			}
		}
		if snap.Step%10000 == 0 {
			log.Debug().Int("step", snap.Step).Int("index", snap.Index).
				Stringer("phase", snap.Phase).Float64("speed", snap.Speed).Msg("riding")
		}
		return *laps <= 0 || snap.Lap < *laps
	})
	if err == nil {
		err = recErr
	}
	if err != nil {
		return err
	}
	if rec != nil {
		run, err := rec.Finish()
		if err != nil {
			return err
		}
		log.Info().Uint("run", run.ID).Int("steps", run.Steps).Int("laps", run.Laps).
			Float64("maxSpeed", run.MaxSpeed).Int("degenerate", run.Degenerate).Msg("run recorded")
	}
	fmt.Print(report.Terminal(prof, s.Report.TerminalWidth, s.Report.TerminalHeight))
	return savePNG(prof, *png, s, log)
}

func savePNG(prof report.Profile, path string, s config.Settings, log zerolog.Logger) error {
	if path == "" {
		return nil
	}
	if err := report.SavePNG(prof, path, s.Report.Width, s.Report.Height); err != nil {
		return err
	}
	log.Info().Str("file", path).Msg("speed profile saved")
	return nil
}

func profile(s config.Settings, log zerolog.Logger, args []string) error {
	fs := flag.NewFlagSet("profile", flag.ExitOnError)
	runID := fs.Uint("run", 0, "run to chart, 0 lists all runs")
	png := fs.String("png", s.Report.PNG, "write speed profile chart to this PNG file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if s.Telemetry.DSN == "" {
		return fmt.Errorf("profile needs a telemetry database, set telemetry.dsn")
	}
	store, err := telemetry.Open(s.Telemetry.DSN, telemetry.Options{
		BatchSize: s.Telemetry.BatchSize,
		Every:     s.Telemetry.Every,
	})
	if err != nil {
		return err
	}
	defer store.Close()
	if *runID == 0 {
		runs, err := store.Runs()
		if err != nil {
			return err
		}
		for _, run := range runs {
			fmt.Printf("%4d  %-20s %s  %8d steps  %3d laps  max %6.2f m/s\n", run.ID, run.Track,
				run.CreatedAt.Format("2006-01-02 15:04"), run.Steps, run.Laps, run.MaxSpeed)
		}
		return nil
	}
	t, speed, err := store.SpeedProfile(*runID)
	if err != nil {
		return err
	}
	prof, err := report.FromSamples(t, speed)
	if err != nil {
		return err
	}
	fmt.Print(report.Terminal(prof, s.Report.TerminalWidth, s.Report.TerminalHeight))
	stats, err := store.Phases(*runID)
	if err != nil {
		return err
	}
	for _, st := range stats {
		fmt.Printf("%-13s %6d samples  speed %6.2f .. %6.2f, avg %6.2f m/s\n",
			st.Phase, st.Samples, st.MinSpeed, st.MaxSpeed, st.AvgSpeed)
	}
	return savePNG(prof, *png, s, log)
}

func generate(s config.Settings, log zerolog.Logger, args []string) error {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	out := fs.String("out", "demo.txt", "curve file to write")
	mesh := fs.String("mesh", "", "write rails and supports to this OBJ file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	s.Track.File = ""
	_, c, p, err := loadTrack(s, log)
	if err != nil {
		return err
	}
	if err = curve.Save(*out, c); err != nil {
		return err
	}
	log.Info().Str("file", *out).Int("points", c.N()).Msg("track written")
	if *mesh == "" {
		return nil
	}
	m, err := physics.NewModel(c, p)
	if err != nil {
		return err
	}
	f, err := os.Create(filepath.Clean(*mesh))
	if err != nil {
		return err
	}
	defer f.Close()
	stats, err := writeMesh(f, m, s)
	if err != nil {
		return err
	}
	log.Info().Str("file", *mesh).Int("railVertices", stats.rails).Int("supports", stats.supports).
		Msg("mesh written")
	return f.Close()
}
