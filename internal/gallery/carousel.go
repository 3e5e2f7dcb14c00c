package gallery

import "time"

const (
	ScrollStep      = 500
	CardWidth       = 300
	CardGap         = 16
	edgeTolerance   = 10
	ScrollSettle    = 300 * time.Millisecond
	InitialNavCheck = 500 * time.Millisecond
)

// NavState says which carousel buttons are enabled.
type NavState struct {
	PrevEnabled bool
	NextEnabled bool
}

// Carousel models the horizontal scroll container holding the cards.
type Carousel struct {
	ScrollLeft  float64
	ScrollWidth float64
	ClientWidth float64
}

func NewCarousel(viewportWidth int) *Carousel {
	return &Carousel{ClientWidth: float64(viewportWidth)}
}

// Layout sizes the content for n cards and keeps the scroll position in range.
func (c *Carousel) Layout(n int) {
	if n <= 0 {
		c.ScrollWidth = c.ClientWidth
	} else {
		c.ScrollWidth = max(c.ClientWidth, float64(n*(CardWidth+CardGap)-CardGap))
	}
	c.clamp()
}

func (c *Carousel) maxScroll() float64 {
	return max(0, c.ScrollWidth-c.ClientWidth)
}

func (c *Carousel) clamp() {
	c.ScrollLeft = min(max(c.ScrollLeft, 0), c.maxScroll())
}

// Scroll moves by one step; direction is -1 or +1.
func (c *Carousel) Scroll(direction int) {
	c.ScrollLeft += float64(direction * ScrollStep)
	c.clamp()
}

func (c *Carousel) CanScrollLeft() bool {
	return c.ScrollLeft > 0
}

func (c *Carousel) CanScrollRight() bool {
	return c.ScrollLeft < c.ScrollWidth-c.ClientWidth-edgeTolerance
}

func (c *Carousel) Nav() NavState {
	return NavState{PrevEnabled: c.CanScrollLeft(), NextEnabled: c.CanScrollRight()}
}

// CardOffset is the left edge of card i in content coordinates.
func CardOffset(i int) float64 {
	return float64(i * (CardWidth + CardGap))
}

// EnsureVisible centers card i when it is not fully inside the viewport. It
// reports whether the scroll position changed.
func (c *Carousel) EnsureVisible(i int) bool {
	left := CardOffset(i) - c.ScrollLeft
	right := left + CardWidth
	if left >= 0 && right <= c.ClientWidth {
		return false
	}
	before := c.ScrollLeft
	c.ScrollLeft = c.ScrollLeft + left - c.ClientWidth/2 + CardWidth/2
	c.clamp()
	return c.ScrollLeft != before
}
