package telemetry

import (
	"fmt"

	"github.com/npillmayer/coaster/physics"
)

// Runs returns all recorded runs, oldest first, without their samples.
func (s *Store) Runs() ([]Run, error) {
	var runs []Run
	if err := s.db.Order("id").Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("telemetry: cannot list runs: %w", err)
	}
	return runs, nil
}

// Samples returns the samples of a run, ordered by step.
func (s *Store) Samples(runID uint) ([]Sample, error) {
	var samples []Sample
	err := s.db.Where("run_id = ?", runID).Order("step").Find(&samples).Error
	if err != nil {
		return nil, fmt.Errorf("telemetry: cannot read samples of run %d: %w", runID, err)
	}
	return samples, nil
}

// PhaseStats is the aggregate of a run's samples within one phase.
type PhaseStats struct {
	Phase    string
	Samples  int
	MinSpeed float64
	MaxSpeed float64
	AvgSpeed float64
}

// Phases aggregates the samples of a run per phase, in the order the phases
// are passed during a lap.
func (s *Store) Phases(runID uint) ([]PhaseStats, error) {
	var rows []PhaseStats
	err := s.db.Model(&Sample{}).
		Select("phase, count(*) as samples, min(speed) as min_speed, max(speed) as max_speed, avg(speed) as avg_speed").
		Where("run_id = ?", runID).
		Group("phase").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("telemetry: cannot aggregate run %d: %w", runID, err)
	}
	stats := make([]PhaseStats, 0, len(rows))
	for _, ph := range []physics.Phase{physics.Lift, physics.Fall, physics.Decelerating} {
		for _, row := range rows {
			if row.Phase == ph.String() {
				stats = append(stats, row)
			}
		}
	}
	return stats, nil
}

// SpeedProfile returns simulated time and speed of the samples of a run.
func (s *Store) SpeedProfile(runID uint) (t, speed []float64, err error) {
	var run Run
	if err = s.db.First(&run, runID).Error; err != nil {
		return nil, nil, fmt.Errorf("telemetry: no run %d: %w", runID, err)
	}
	samples, err := s.Samples(runID)
	if err != nil {
		return nil, nil, err
	}
	t = make([]float64, len(samples))
	speed = make([]float64, len(samples))
	for i, smp := range samples {
		t[i] = float64(smp.Step) * run.TimeStep
		speed[i] = smp.Speed
	}
	return t, speed, nil
}
