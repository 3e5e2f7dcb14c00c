package gallery

import (
	"fmt"
	"strings"
	"time"

	"github.com/lumiforge/video-bridge/internal/backend"
)

// PageSize is the number of videos per gallery page.
const PageSize = 12

const (
	ThumbnailPlaceholder = "/api/placeholder/300/180"
	PosterPlaceholder    = "/api/placeholder/800/450"

	untitledVideo   = "Untitled Video"
	noSelectionText = "Select a video to play"
	noSelectionInfo = "Choose a video from the carousel below"
)

// PageItem is one entry of the page list: a page link or an ellipsis.
type PageItem struct {
	Page     int
	Label    string
	Active   bool
	Ellipsis bool
}

type PageLink struct {
	Page     int
	Disabled bool
}

type PaginationView struct {
	Hidden     bool
	TotalPages int
	Prev       PageLink
	Items      []PageItem
	Next       PageLink
}

// TotalPages returns ceil(total / PageSize).
func TotalPages(total int) int {
	if total <= 0 {
		return 0
	}
	return (total + PageSize - 1) / PageSize
}

// Pagination renders the windowed page list: first, last and current±1 are
// links, current±2 become ellipses, everything else is skipped.
func Pagination(total, current int) PaginationView {
	totalPages := TotalPages(total)
	if totalPages <= 1 {
		return PaginationView{Hidden: true, TotalPages: totalPages}
	}

	v := PaginationView{
		TotalPages: totalPages,
		Prev:       PageLink{Page: current - 1, Disabled: current == 0},
		Next:       PageLink{Page: current + 1, Disabled: current >= totalPages-1},
	}
	for i := 0; i < totalPages; i++ {
		switch {
		case i == 0 || i == totalPages-1 || (i >= current-1 && i <= current+1):
			v.Items = append(v.Items, PageItem{Page: i, Label: fmt.Sprint(i + 1), Active: i == current})
		case i == current-2 || i == current+2:
			v.Items = append(v.Items, PageItem{Page: i, Label: "…", Ellipsis: true})
		}
	}
	return v
}

// CountLabel renders "Showing X of Y video(s)".
func CountLabel(total int) string {
	suffix := "s"
	if total == 1 {
		suffix = ""
	}
	return fmt.Sprintf("Showing %d of %d video%s", min(PageSize, total), total, suffix)
}

// FormatDuration renders seconds as MM:SS; zero or unknown is "00:00".
func FormatDuration(seconds int) string {
	if seconds <= 0 {
		return "00:00"
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

func durationOf(v backend.VideoRecord) int {
	if v.Duration == nil {
		return 0
	}
	return *v.Duration
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// FormatDate renders a backend timestamp as "2006-01-02 15:04" in local
// time. Empty input is "N/A"; unparseable input is returned as is.
func FormatDate(s string) string {
	if s == "" {
		return "N/A"
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Local().Format("2006-01-02 15:04")
		}
	}
	return s
}

// CardView is one video card in the grid.
type CardView struct {
	ID        int64
	Title     string
	Thumbnail string
	Badge     string
	Duration  string
	Active    bool
}

type GridView struct {
	Cards []CardView
	Empty bool
}

func statusBadge(status string) string {
	switch status {
	case backend.StatusProcessing:
		return "Processing"
	case backend.StatusError:
		return "Error"
	}
	return ""
}

func Card(v backend.VideoRecord, currentID *int64) CardView {
	thumb := v.ThumbnailPath
	if thumb == "" {
		thumb = ThumbnailPlaceholder
	}
	return CardView{
		ID:        v.ID,
		Title:     v.Title,
		Thumbnail: thumb,
		Badge:     statusBadge(v.Status),
		Duration:  FormatDuration(durationOf(v)),
		Active:    currentID != nil && *currentID == v.ID,
	}
}

func Grid(s State) GridView {
	if len(s.Videos) == 0 {
		return GridView{Empty: true}
	}
	cards := make([]CardView, 0, len(s.Videos))
	for _, v := range s.Videos {
		cards = append(cards, Card(v, s.CurrentVideoID))
	}
	return GridView{Cards: cards}
}

// PlayerView is the featured player panel.
type PlayerView struct {
	Src          string
	Poster       string
	Title        string
	Info         string
	Duration     string
	Date         string
	ShowMetadata bool
}

func Player(v backend.VideoRecord) PlayerView {
	poster := v.ThumbnailPath
	if poster == "" {
		poster = PosterPlaceholder
	}
	title := v.Title
	if strings.TrimSpace(title) == "" {
		title = untitledVideo
	}
	date := FormatDate(v.CreatedAt)
	return PlayerView{
		Src:          v.FilePath,
		Poster:       poster,
		Title:        title,
		Info:         "Uploaded: " + date,
		Duration:     FormatDuration(durationOf(v)),
		Date:         date,
		ShowMetadata: true,
	}
}

// EmptyPlayer is shown when no video is selected.
func EmptyPlayer() PlayerView {
	return PlayerView{
		Title: noSelectionText,
		Info:  noSelectionInfo,
	}
}

type ErrorView struct {
	Message string
	Retry   string
}

func LoadError(err error) ErrorView {
	return ErrorView{
		Message: "Failed to load videos: " + err.Error(),
		Retry:   "Try Again",
	}
}

// UploadView is the upload form state.
type UploadView struct {
	ProgressVisible bool
	ButtonDisabled  bool
	Progress        float64
	Status          string
	Failed          bool
	SelectedFile    string
}
