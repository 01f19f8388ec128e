package ride

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/npillmayer/coaster/physics"
)

// Car is a car of the train, placed on the track.
type Car struct {
	Index       int
	Position    mgl64.Vec3
	Frame       physics.Frame
	Orientation mgl64.Mat4
	Degenerate  bool
}

// Model returns the model matrix of the car: scale, then rotate, then
// translate to its position.
func (car Car) Model(scale float64) mgl64.Mat4 {
	t := mgl64.Translate3D(car.Position.X(), car.Position.Y(), car.Position.Z())
	return t.Mul4(car.Orientation).Mul4(mgl64.Scale3D(scale, scale, scale))
}

// Cars places the cars of the train around the current index, CarDistance
// indices apart, from the rearmost to the foremost one. For an odd number
// of cars the middle one sits exactly at the current index.
//
// Cars does not change the state of the ride. Cars whose frames are
// degenerate get the last valid frame of the ride and are flagged. Other
// errors are traced and leave the car with the last valid frame, unflagged.
func (r *Ride) Cars() []Car {
	c := r.model.Curve()
	n := r.opts.Cars
	cars := make([]Car, n)
	for k := range cars {
		i := c.Wrap(r.index + (2*k-(n-1))*r.opts.CarDistance/2)
		fr, degenerate, err := r.peekFrame(i)
		if err != nil {
			tracer().Errorf("no frame for car %d at %d: %v", k, i, err)
		}
		cars[k] = Car{
			Index:       i,
			Position:    c.At(i),
			Frame:       fr,
			Orientation: fr.Orientation(),
			Degenerate:  degenerate,
		}
	}
	return cars
}

// ModelMatrices returns the model matrices of all cars, see Car.Model.
func (r *Ride) ModelMatrices() []mgl64.Mat4 {
	cars := r.Cars()
	m := make([]mgl64.Mat4, len(cars))
	for k, car := range cars {
		m[k] = car.Model(r.opts.CarScale)
	}
	return m
}

// TrackingView returns the view of the tracking camera onto the centre of
// the train. Without stations configured, the identity is returned.
func (r *Ride) TrackingView() mgl64.Mat4 {
	return r.opts.Stations.View(r.index, r.model.Curve().At(r.index))
}

// OnBoardView returns the view of a camera riding on the centre car.
func (r *Ride) OnBoardView(height float64) mgl64.Mat4 {
	c := r.model.Curve()
	fr, _, err := r.peekFrame(r.index)
	if err != nil {
		tracer().Errorf("no frame for on-board camera at %d: %v", r.index, err)
	}
	return OnBoard(fr, c.At(r.index), height)
}
