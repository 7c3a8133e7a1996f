// Package gallery models the picture carousel shown on a project page: a
// fixed set of slides with next/prev transitions that wrap modulo the slide
// count. State lives only for the request that builds it.
package gallery

// Carousel is a cyclic cursor over n slides, starting at slide 0.
type Carousel struct {
	n       int
	current int
}

// New returns a carousel over n slides positioned at slide 0. A non-positive
// n yields an empty carousel whose transitions are no-ops.
func New(n int) *Carousel {
	if n < 0 {
		n = 0
	}
	return &Carousel{n: n}
}

// Len returns the number of slides.
func (c *Carousel) Len() int {
	return c.n
}

// Current returns the index of the active slide.
func (c *Carousel) Current() int {
	return c.current
}

// Next advances to the following slide, wrapping from the last back to 0,
// and returns the new index.
func (c *Carousel) Next() int {
	if c.n == 0 {
		return 0
	}
	c.current = (c.current + 1) % c.n
	return c.current
}

// Prev moves to the preceding slide, wrapping from 0 to the last slide, and
// returns the new index.
func (c *Carousel) Prev() int {
	if c.n == 0 {
		return 0
	}
	c.current = (c.current - 1 + c.n) % c.n
	return c.current
}

// NextIndex returns the slide that follows i, wrapping modulo n.
func NextIndex(i, n int) int {
	if n <= 0 {
		return 0
	}
	return (i + 1) % n
}

// PrevIndex returns the slide that precedes i, wrapping modulo n.
func PrevIndex(i, n int) int {
	if n <= 0 {
		return 0
	}
	return (i - 1 + n) % n
}
