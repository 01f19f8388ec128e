package curve

import (
	"fmt"

	"github.com/npillmayer/coaster"
)

// Highest finds the highest point of a curve and returns its height and its
// index. If more than one point reaches the maximum, the first one wins.
// An empty curve is an error; a negative height is a legitimate result.
func Highest(c *Curve) (float64, int, error) {
	return extremum(c, func(y, best float64) bool { return y > best })
}

// Lowest finds the lowest point of a curve and returns its height and its
// index. If more than one point reaches the minimum, the first one wins.
func Lowest(c *Curve) (float64, int, error) {
	return extremum(c, func(y, best float64) bool { return y < best })
}

func extremum(c *Curve, better func(y, best float64) bool) (float64, int, error) {
	if c.N() == 0 {
		return 0, -1, fmt.Errorf("%w: height of empty curve", coaster.ErrInvalidInput)
	}
	best, index := c.points[0].Y(), 0
	for i := 1; i < len(c.points); i++ {
		if y := c.points[i].Y(); better(y, best) {
			best, index = y, i
		}
	}
	return best, index, nil
}

// MaxHeight is the height of the highest point.
func MaxHeight(c *Curve) (float64, error) {
	h, _, err := Highest(c)
	return h, err
}

// IndexOfMax is the index of the highest point.
func IndexOfMax(c *Curve) (int, error) {
	_, i, err := Highest(c)
	return i, err
}

// MinHeight is the height of the lowest point.
func MinHeight(c *Curve) (float64, error) {
	h, _, err := Lowest(c)
	return h, err
}

// IndexOfMin is the index of the lowest point.
func IndexOfMin(c *Curve) (int, error) {
	_, i, err := Lowest(c)
	return i, err
}
