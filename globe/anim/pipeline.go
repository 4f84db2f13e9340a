package anim

import (
	"image"

	"asciiglobe/globe/cloud"
	"asciiglobe/globe/project"
	"asciiglobe/globe/transform"
)

// Renderer produces one frame for a rotation angle.
type Renderer interface {
	Render(theta float64) (*image.RGBA, error)
}

// Pipeline is the default Renderer: rotate the cloud about its centroid,
// project it, and convert the surface to an image.
type Pipeline struct {
	points   []cloud.Point
	glyphs   []rune
	centroid cloud.Point
	proj     *project.Projector
}

// NewPipeline snapshots the cloud's base coordinates and glyphs.
func NewPipeline(c *cloud.Cloud, p *project.Projector) *Pipeline {
	pts := c.Points()
	return &Pipeline{
		points:   pts,
		glyphs:   c.Glyphs(),
		centroid: transform.Centroid(pts),
		proj:     p,
	}
}

// Centroid returns the rotation pivot.
func (p *Pipeline) Centroid() cloud.Point { return p.centroid }

func (p *Pipeline) Render(theta float64) (*image.RGBA, error) {
	rotated := transform.RotateAboutZ(p.points, p.centroid, theta)
	s, err := p.proj.Project(rotated, p.glyphs)
	if err != nil {
		return nil, err
	}
	return s.Image(), nil
}
