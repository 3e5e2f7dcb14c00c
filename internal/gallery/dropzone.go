package gallery

import "github.com/lumiforge/video-bridge/internal/validation"

// File is a local file picked for upload.
type File struct {
	Name        string
	Path        string
	ContentType string
	Size        int64
}

type DragEvent int

const (
	DragEnter DragEvent = iota
	DragOver
	DragLeave
	Drop
)

// Dropzone tracks the highlight state of the drop target.
type Dropzone struct {
	Highlighted bool
}

// Handle applies a drag event. On Drop it returns the first file when its
// declared type is a video type; anything else is ignored.
func (d *Dropzone) Handle(ev DragEvent, files []File) (*File, bool) {
	switch ev {
	case DragEnter, DragOver:
		d.Highlighted = true
		return nil, false
	case DragLeave:
		d.Highlighted = false
		return nil, false
	}

	d.Highlighted = false
	if len(files) == 0 || !validation.IsVideoContentType(files[0].ContentType) {
		return nil, false
	}
	f := files[0]
	return &f, true
}
