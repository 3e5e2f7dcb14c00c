package gallery

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/lumiforge/video-bridge/internal/backend"
	app_errors "github.com/lumiforge/video-bridge/internal/errors"
	"github.com/lumiforge/video-bridge/internal/logger"
)

const (
	DeleteConfirmation = "Are you sure you want to delete this video? This action cannot be undone."
	UploadingStatus    = "Uploading..."
	UploadDoneStatus   = "Upload complete! Processing video..."

	uploadResetDelay = 2 * time.Second
	uploadErrorDelay = 3 * time.Second
	noFileSelected   = "No file selected"
)

// VideoAPI is the part of the backend registry the gallery uses.
type VideoAPI interface {
	ListVideos(ctx context.Context, p backend.ListParams) (*backend.VideoList, error)
	GetStatus(ctx context.Context, id int64) (*backend.ProcessingStatus, error)
	DeleteVideo(ctx context.Context, id int64) error
}

type FileUploader interface {
	Upload(ctx context.Context, title string, file File, onProgress func(Progress)) (*UploadResponse, error)
}

// View renders view models. Calls are serialized by the Controller.
type View interface {
	ShowLoading()
	RenderGrid(GridView)
	RenderLoadError(ErrorView)
	RenderPagination(PaginationView)
	RenderCount(label string)
	RenderPlayer(PlayerView)
	RenderCarouselNav(NavState)
	RenderDropzone(highlighted bool)
	RenderUpload(UploadView)
	RenderProcessing(id int64, jobStatus string)
	Alert(msg string)
}

// MediaPlayer plays the featured video. Play errors are not surfaced.
type MediaPlayer interface {
	Load(src, poster string)
	Play() error
}

type Confirmer interface {
	Confirm(msg string) bool
}

type Deps struct {
	API           VideoAPI
	Uploader      FileUploader
	View          View
	Player        MediaPlayer
	Confirmer     Confirmer
	ViewportWidth int
}

// Controller runs gallery operations against the store and renders results.
type Controller struct {
	store    *Store
	api      VideoAPI
	uploader FileUploader
	poller   *Poller
	view     View
	player   MediaPlayer
	confirm  Confirmer
	after    func(time.Duration, func())

	viewMu sync.Mutex

	mu       sync.Mutex
	carousel *Carousel
	dropzone Dropzone
	upload   UploadView
	selected *File
}

func NewController(d Deps) *Controller {
	return &Controller{
		store:    NewStore(),
		api:      d.API,
		uploader: d.Uploader,
		poller:   NewPoller(d.API),
		view:     d.View,
		player:   d.Player,
		confirm:  d.Confirmer,
		after:    func(d time.Duration, f func()) { time.AfterFunc(d, f) },
		carousel: NewCarousel(d.ViewportWidth),
		upload:   UploadView{SelectedFile: noFileSelected},
	}
}

func (c *Controller) render(f func(v View)) {
	c.viewMu.Lock()
	defer c.viewMu.Unlock()
	f(c.view)
}

// State returns a snapshot of the selection state.
func (c *Controller) State() State {
	return c.store.Snapshot()
}

// Start performs the initial load and schedules the first carousel check.
func (c *Controller) Start(ctx context.Context) error {
	err := c.LoadVideos(ctx)
	c.after(InitialNavCheck, c.refreshNav)
	return err
}

// LoadVideos fetches the current page. Results of superseded loads are
// dropped without rendering.
func (c *Controller) LoadVideos(ctx context.Context) error {
	log := logger.FromContext(ctx)
	seq, params := c.store.BeginLoad()
	c.render(func(v View) { v.ShowLoading() })

	list, err := c.api.ListVideos(ctx, params)
	if err != nil {
		shown := err
		var se *backend.HTTPError
		if errors.As(err, &se) {
			shown = app_errors.ErrLoadVideosFailed
		}
		log.Error("Error loading videos", "error", err, "skip", params.Skip, "status", params.Status)
		if c.store.FailLoad(seq, err) {
			c.render(func(v View) { v.RenderLoadError(LoadError(shown)) })
		}
		return fmt.Errorf("%w: %w", app_errors.ErrLoadVideosFailed, err)
	}

	if !c.store.FinishLoad(seq, list) {
		log.Debug("Discarding stale video list", "skip", params.Skip)
		return nil
	}
	st := c.store.Snapshot()
	log.Info("Fetched videos", "count", len(st.Videos), "total", st.Total)

	c.mu.Lock()
	c.carousel.Layout(len(st.Videos))
	c.mu.Unlock()

	c.render(func(v View) {
		v.RenderGrid(Grid(st))
		v.RenderPagination(Pagination(st.Total, st.CurrentPage))
		v.RenderCount(CountLabel(st.Total))
	})

	if len(st.Videos) > 0 && st.CurrentVideoID == nil {
		c.PlayVideo(ctx, st.Videos[0].ID)
	}
	c.refreshNav()
	return nil
}

// Refresh reloads the current page.
func (c *Controller) Refresh(ctx context.Context) error {
	return c.LoadVideos(ctx)
}

// SetFilter applies a status filter ("" for all) and reloads from page 0.
func (c *Controller) SetFilter(ctx context.Context, status string) error {
	c.store.SetFilter(status)
	return c.LoadVideos(ctx)
}

// GoToPage loads page p when it exists.
func (c *Controller) GoToPage(ctx context.Context, p int) error {
	if !c.store.SetPage(p) {
		return app_errors.ErrInvalidPage
	}
	return c.LoadVideos(ctx)
}

// PlayVideo features a video from the loaded page. Unknown ids are logged
// and ignored.
func (c *Controller) PlayVideo(ctx context.Context, id int64) bool {
	video, ok := c.store.Select(id)
	if !ok {
		logger.FromContext(ctx).Warn("Video not found on current page", "video_id", id)
		return false
	}

	pv := Player(video)
	st := c.store.Snapshot()
	c.render(func(v View) {
		v.RenderPlayer(pv)
		v.RenderGrid(Grid(st))
	})

	if c.player != nil {
		c.player.Load(pv.Src, pv.Poster)
		if err := c.player.Play(); err != nil {
			logger.FromContext(ctx).Debug("Autoplay prevented", "error", err)
		}
	}

	c.mu.Lock()
	moved := c.carousel.EnsureVisible(c.store.IndexOf(id))
	c.mu.Unlock()
	if moved {
		c.after(ScrollSettle, c.refreshNav)
	}
	return true
}

// DeleteVideo asks for confirmation, deletes the video and reloads. A
// featured video is cleared from the player before the reload starts.
func (c *Controller) DeleteVideo(ctx context.Context, id int64) error {
	if c.confirm == nil || !c.confirm.Confirm(DeleteConfirmation) {
		return app_errors.ErrDeleteCancelled
	}

	if err := c.api.DeleteVideo(ctx, id); err != nil {
		logger.FromContext(ctx).Error("Error deleting video", "video_id", id, "error", err)
		msg := err.Error()
		var se *backend.HTTPError
		if errors.As(err, &se) || errors.Is(err, app_errors.ErrVideoNotFound) {
			msg = app_errors.ErrDeleteFailed.Error()
		}
		c.render(func(v View) { v.Alert("Error: " + msg) })
		return fmt.Errorf("%w: %w", app_errors.ErrDeleteFailed, err)
	}

	if c.store.ClearSelection(id) {
		c.render(func(v View) { v.RenderPlayer(EmptyPlayer()) })
		if c.player != nil {
			c.player.Load("", "")
		}
	}

	return c.LoadVideos(ctx)
}

// SelectFile is the file-picker path; nil clears the selection.
func (c *Controller) SelectFile(f *File) {
	c.mu.Lock()
	c.selected = f
	if f != nil {
		c.upload.SelectedFile = f.Name
	} else {
		c.upload.SelectedFile = noFileSelected
	}
	up := c.upload
	c.mu.Unlock()

	c.render(func(v View) { v.RenderUpload(up) })
}

func (c *Controller) SelectedFile() *File {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected
}

// Drop feeds a drag event to the dropzone. An accepted file goes through
// SelectFile.
func (c *Controller) Drop(ev DragEvent, files []File) bool {
	c.mu.Lock()
	f, ok := c.dropzone.Handle(ev, files)
	highlighted := c.dropzone.Highlighted
	c.mu.Unlock()

	c.render(func(v View) { v.RenderDropzone(highlighted) })
	if ok {
		c.SelectFile(f)
	}
	return ok
}

func (c *Controller) setUpload(mutate func(u *UploadView)) {
	c.mu.Lock()
	mutate(&c.upload)
	up := c.upload
	c.mu.Unlock()

	c.render(func(v View) { v.RenderUpload(up) })
}

// HandleUpload validates the form and sends the file to the bridge. On
// success the form resets and the gallery reloads after a short delay.
func (c *Controller) HandleUpload(ctx context.Context, title string, file *File) (*UploadResponse, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		c.render(func(v View) { v.Alert(app_errors.ErrTitleRequired.Error()) })
		return nil, app_errors.ErrTitleRequired
	}
	if file == nil {
		c.render(func(v View) { v.Alert(app_errors.ErrFileRequired.Error()) })
		return nil, app_errors.ErrFileRequired
	}

	c.setUpload(func(u *UploadView) {
		u.ButtonDisabled = true
		u.ProgressVisible = true
		u.Progress = 0
		u.Failed = false
		u.Status = UploadingStatus
	})

	res, err := c.uploader.Upload(ctx, title, *file, func(p Progress) {
		c.setUpload(func(u *UploadView) { u.Progress = p.Percentage })
	})
	if err != nil {
		logger.FromContext(ctx).Error("Upload error", "error", err)
		c.setUpload(func(u *UploadView) {
			u.Status = "Error: " + err.Error()
			u.Failed = true
		})
		c.after(uploadErrorDelay, func() {
			c.setUpload(func(u *UploadView) {
				u.ButtonDisabled = false
				u.Failed = false
			})
		})
		return nil, err
	}

	c.setUpload(func(u *UploadView) {
		u.Progress = 100
		u.Status = UploadDoneStatus
	})
	c.after(uploadResetDelay, func() {
		c.mu.Lock()
		c.selected = nil
		c.mu.Unlock()
		c.setUpload(func(u *UploadView) {
			*u = UploadView{SelectedFile: noFileSelected}
		})
		_ = c.LoadVideos(context.WithoutCancel(ctx))
	})
	return res, nil
}

// ScrollCarousel moves the carousel one step; the buttons are recomputed
// once the scroll settles.
func (c *Controller) ScrollCarousel(direction int) {
	c.mu.Lock()
	c.carousel.Scroll(direction)
	c.mu.Unlock()
	c.after(ScrollSettle, c.refreshNav)
}

func (c *Controller) refreshNav() {
	c.mu.Lock()
	nav := c.carousel.Nav()
	c.mu.Unlock()
	c.render(func(v View) { v.RenderCarouselNav(nav) })
}

// PollStatus polls the processing job of a video and reloads the gallery
// when it completes.
func (c *Controller) PollStatus(ctx context.Context, id int64) PollResult {
	res := c.poller.Poll(ctx, id, func(st backend.ProcessingStatus) {
		c.render(func(v View) { v.RenderProcessing(id, st.JobStatus) })
	})
	if res.JobStatus == backend.JobCompleted {
		_ = c.LoadVideos(ctx)
	}
	return res
}
