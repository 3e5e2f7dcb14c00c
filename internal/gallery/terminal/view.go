package terminal

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/lumiforge/video-bridge/internal/gallery"
)

// View prints gallery view models as plain text.
type View struct {
	mu  sync.Mutex
	out io.Writer

	lastProgress int
	lastStatus   string
}

func NewView(out io.Writer) *View {
	return &View{out: out, lastProgress: -1}
}

func (v *View) printf(format string, args ...any) {
	v.mu.Lock()
	defer v.mu.Unlock()
	fmt.Fprintf(v.out, format, args...)
}

func (v *View) ShowLoading() {
	v.printf("Loading videos...\n")
}

func (v *View) RenderGrid(g gallery.GridView) {
	if g.Empty {
		v.printf("No videos found\n")
		return
	}
	var b strings.Builder
	for _, c := range g.Cards {
		marker := " "
		if c.Active {
			marker = ">"
		}
		fmt.Fprintf(&b, "%s [%d] %-40s %s", marker, c.ID, c.Title, c.Duration)
		if c.Badge != "" {
			fmt.Fprintf(&b, "  (%s)", c.Badge)
		}
		b.WriteByte('\n')
	}
	v.printf("%s", b.String())
}

func (v *View) RenderLoadError(e gallery.ErrorView) {
	v.printf("%s\n  type \"refresh\" to %s\n", e.Message, strings.ToLower(e.Retry))
}

func (v *View) RenderPagination(p gallery.PaginationView) {
	if p.Hidden {
		return
	}
	parts := make([]string, 0, len(p.Items)+2)
	if !p.Prev.Disabled {
		parts = append(parts, "«")
	}
	for _, it := range p.Items {
		if it.Active {
			parts = append(parts, "["+it.Label+"]")
			continue
		}
		parts = append(parts, it.Label)
	}
	if !p.Next.Disabled {
		parts = append(parts, "»")
	}
	v.printf("Pages: %s\n", strings.Join(parts, " "))
}

func (v *View) RenderCount(label string) {
	v.printf("%s\n", label)
}

func (v *View) RenderPlayer(p gallery.PlayerView) {
	if !p.ShowMetadata {
		v.printf("== %s ==\n%s\n", p.Title, p.Info)
		return
	}
	v.printf("== Now playing: %s ==\n%s | Duration: %s\n%s\n", p.Title, p.Info, p.Duration, p.Src)
}

func (v *View) RenderCarouselNav(n gallery.NavState) {
	left, right := "-", "-"
	if n.PrevEnabled {
		left = "<"
	}
	if n.NextEnabled {
		right = ">"
	}
	v.printf("Carousel: %s %s\n", left, right)
}

func (v *View) RenderDropzone(highlighted bool) {
	if highlighted {
		v.printf("Drop the video file here\n")
	}
}

// RenderUpload prints status changes and every tenth percent of progress.
func (v *View) RenderUpload(u gallery.UploadView) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !u.ProgressVisible {
		v.lastProgress = -1
		v.lastStatus = ""
		fmt.Fprintf(v.out, "Selected file: %s\n", u.SelectedFile)
		return
	}
	if u.Status != gallery.UploadingStatus {
		if u.Status != v.lastStatus {
			fmt.Fprintf(v.out, "%s\n", u.Status)
		}
		v.lastStatus = u.Status
		return
	}
	v.lastStatus = u.Status
	step := int(u.Progress) / 10 * 10
	if step != v.lastProgress {
		v.lastProgress = step
		fmt.Fprintf(v.out, "Uploading... %d%%\n", step)
	}
}

func (v *View) RenderProcessing(id int64, jobStatus string) {
	v.printf("Video %d: %s\n", id, jobStatus)
}

func (v *View) Alert(msg string) {
	v.printf("! %s\n", msg)
}

var errNoAutoplay = errors.New("terminal cannot play video")

// Player keeps the source of the featured video; playback is left to the
// user.
type Player struct {
	mu  sync.Mutex
	src string
}

func (p *Player) Load(src, _ string) {
	p.mu.Lock()
	p.src = src
	p.mu.Unlock()
}

func (p *Player) Play() error {
	return errNoAutoplay
}

func (p *Player) Source() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.src
}
