package ride

import "github.com/npillmayer/coaster/physics"

// AudioOptions configure the sound cues of a ride.
type AudioOptions struct {
	Enabled  bool
	Volume   float64 // volume a cue starts playing with
	LiftFade int     // indices past the peak over which the lift chain fades out
	RoarFade int     // indices past the start of the brakes over which the roar fades out
}

// DefaultAudioOptions returns the cue settings of the reference ride.
func DefaultAudioOptions() AudioOptions {
	return AudioOptions{Enabled: true, Volume: 0.4, LiftFade: 500, RoarFade: 2000}
}

// Cue is the state of a single sound.
type Cue struct {
	Playing bool
	Volume  float64
	Rewound bool // play position has been reset to the beginning
}

func (c *Cue) start(volume float64) {
	if !c.Playing {
		c.Playing, c.Volume, c.Rewound = true, volume, false
	}
}

func (c *Cue) pause() {
	c.Playing = false
}

func (c *Cue) stop() {
	c.Playing, c.Rewound = false, true
}

// fade scales the volume by the remaining fraction of a fade, given the
// position within the fade. Fades are applied once per update, hence they
// compound: volume drops faster than linearly.
func (c *Cue) fade(pos, length int) {
	if length > 0 {
		c.Volume *= 1 - float64(pos)/float64(length)
	}
}

// AudioState is what an audio engine needs to know after a step.
type AudioState struct {
	Lift Cue // rattle of the lift chain
	Roar Cue // roar of the train rushing down the track
}

// AudioCues is the state machine deciding which sound plays where on the
// track. The lift chain rattles from the start of the lift across the peak
// and fades out shortly after it. The roar takes over once the lift sound
// is off, and fades out over the brakes. Elsewhere, i.e. on the brake run,
// both sounds are stopped and rewound.
type AudioCues struct {
	opts       AudioOptions
	liftStart  int
	decelStart int
	peak       int
	state      AudioState
}

// NewAudioCues creates the cue state machine for a track with the given
// landmarks and index of its highest point.
func NewAudioCues(opts AudioOptions, p physics.Params, peak int) *AudioCues {
	return &AudioCues{opts: opts, liftStart: p.LiftStart, decelStart: p.DecelStart, peak: peak}
}

// State returns the current cue state.
func (a *AudioCues) State() AudioState {
	return a.state
}

// Update moves the cue state machine to curve index i.
func (a *AudioCues) Update(i int) AudioState {
	if !a.opts.Enabled {
		return a.state
	}
	lift, roar := &a.state.Lift, &a.state.Roar
	switch {
	case i >= a.liftStart || i < a.peak+a.opts.LiftFade:
		if !lift.Playing {
			lift.start(a.opts.Volume)
			roar.pause()
		}
		if i >= a.peak && i < a.peak+a.opts.LiftFade {
			lift.fade(i-a.peak, a.opts.LiftFade)
		}
	case i >= a.peak && i < a.decelStart+a.opts.RoarFade:
		if lift.Playing {
			lift.pause()
		} else {
			roar.start(a.opts.Volume)
		}
		if i >= a.decelStart && i <= a.decelStart+a.opts.RoarFade {
			roar.fade(i-a.decelStart, a.opts.RoarFade)
		}
	default:
		lift.stop()
		roar.stop()
	}
	return a.state
}
