package curve

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/npillmayer/coaster"
)

// Format is a curve file format.
type Format int

// Curve file formats.
const (
	// Text holds one point "x y z" per line. Blank lines and lines starting
	// with '#' are ignored; a single integer on the first data line is taken
	// as a point count and skipped.
	Text Format = iota
	// OBJ is a Wavefront OBJ file of which only vertex records "v x y z"
	// are read.
	OBJ
)

// FormatOf guesses a curve file format from a file name extension.
func FormatOf(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".obj") {
		return OBJ
	}
	return Text
}

// Load reads a closed curve from a file.
func Load(path string) (*Curve, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open curve file: %w", err)
	}
	defer f.Close()
	c, err := Read(f, FormatOf(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	tracer().P("file", path).Infof("loaded %s", c)
	return c, nil
}

// Read reads a closed curve in the given format. A source without any
// points is an error.
func Read(r io.Reader, format Format) (*Curve, error) {
	var pts []mgl64.Vec3
	scanner := bufio.NewScanner(r)
	lineno, first := 0, true
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		switch format {
		case OBJ:
			if fields[0] != "v" {
				continue
			}
			fields = fields[1:]
		default:
			if first && len(fields) == 1 {
				if _, err := strconv.Atoi(fields[0]); err == nil {
					first = false
					continue
				}
			}
		}
		first = false
		p, err := parsePoint(fields)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", coaster.ErrInvalidInput, lineno, err)
		}
		pts = append(pts, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(pts) == 0 {
		return nil, fmt.Errorf("%w: curve source contains no points", coaster.ErrInvalidInput)
	}
	return &Curve{points: pts, closed: true}, nil
}

func parsePoint(fields []string) (mgl64.Vec3, error) {
	var p mgl64.Vec3
	if len(fields) < 3 {
		return p, fmt.Errorf("expected 3 coordinates, got %d", len(fields))
	}
	for i := 0; i < 3; i++ {
		x, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return p, err
		}
		p[i] = x
	}
	return p, nil
}

// Save writes a curve to a file in text format.
func Save(path string, c *Curve) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create curve file: %w", err)
	}
	if err = Write(f, c); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Write writes a curve in text format, headed by its point count.
func Write(w io.Writer, c *Curve) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d\n", c.N())
	for _, p := range c.points {
		fmt.Fprintf(bw, "%s %s %s\n", ftoa(p[0]), ftoa(p[1]), ftoa(p[2]))
	}
	return bw.Flush()
}

func ftoa(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}
