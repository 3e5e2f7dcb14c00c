package gallery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCarousel_ScrollAndNav(t *testing.T) {
	c := NewCarousel(1000)
	c.Layout(10) // 10*316-16 = 3144

	assert.Equal(t, NavState{PrevEnabled: false, NextEnabled: true}, c.Nav())

	c.Scroll(1)
	assert.Equal(t, float64(500), c.ScrollLeft)
	assert.True(t, c.CanScrollLeft())

	for i := 0; i < 10; i++ {
		c.Scroll(1)
	}
	assert.Equal(t, float64(2144), c.ScrollLeft)
	assert.False(t, c.CanScrollRight())

	c.Scroll(-1)
	assert.Equal(t, float64(1644), c.ScrollLeft)
}

func TestCarousel_FewCardsDisablesNav(t *testing.T) {
	c := NewCarousel(1200)
	c.Layout(2)
	assert.Equal(t, NavState{}, c.Nav())

	c.Layout(0)
	assert.Equal(t, NavState{}, c.Nav())
}

func TestCarousel_EnsureVisible(t *testing.T) {
	c := NewCarousel(1000)
	c.Layout(10)

	assert.False(t, c.EnsureVisible(1))

	// card 6 starts at 1896; centered it starts at 350 in the viewport
	assert.True(t, c.EnsureVisible(6))
	assert.Equal(t, float64(1896-350), c.ScrollLeft)

	// last card clamps to the end
	c.EnsureVisible(9)
	assert.Equal(t, float64(2144), c.ScrollLeft)
}

func TestDropzone(t *testing.T) {
	var d Dropzone

	_, ok := d.Handle(DragEnter, nil)
	assert.False(t, ok)
	assert.True(t, d.Highlighted)

	d.Handle(DragLeave, nil)
	assert.False(t, d.Highlighted)

	d.Handle(DragOver, nil)
	f, ok := d.Handle(Drop, []File{{Name: "notes.txt", ContentType: "text/plain"}})
	assert.False(t, ok)
	assert.Nil(t, f)
	assert.False(t, d.Highlighted)

	f, ok = d.Handle(Drop, []File{{Name: "a.mp4", ContentType: "video/mp4"}, {Name: "b.mp4", ContentType: "video/mp4"}})
	assert.True(t, ok)
	assert.Equal(t, "a.mp4", f.Name)

	_, ok = d.Handle(Drop, nil)
	assert.False(t, ok)
}

func TestDropzone_ContentTypeIsNormalized(t *testing.T) {
	var d Dropzone

	f, ok := d.Handle(Drop, []File{{Name: "a.webm", ContentType: "Video/WebM; codecs=vp9"}})
	assert.True(t, ok)
	assert.Equal(t, "a.webm", f.Name)

	_, ok = d.Handle(Drop, []File{{Name: "a", ContentType: "videox/mp4"}})
	assert.False(t, ok)
}
