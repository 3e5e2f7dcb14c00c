package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/lumiforge/video-bridge/internal/backend"
	app_errors "github.com/lumiforge/video-bridge/internal/errors"
	"github.com/lumiforge/video-bridge/internal/gallery"
	"github.com/lumiforge/video-bridge/internal/logger"
	"github.com/lumiforge/video-bridge/internal/validation"
)

const helpText = `Commands:
  list | refresh          reload the current page
  page N | next | prev    go to page N (1-based)
  filter STATUS           processing, ready, error or all
  play ID                 feature a video
  left | right            scroll the carousel
  select PATH             pick a file for upload
  drop PATH               drop a file on the upload area
  upload TITLE            upload the selected file
  delete ID               delete a video
  status ID               poll the processing status in the background
  help | quit
`

// Session reads commands from in and drives a gallery Controller. It also
// answers confirmation prompts from the same input.
type Session struct {
	in  *bufio.Scanner
	out io.Writer

	polls sync.WaitGroup
}

func NewSession(in io.Reader, out io.Writer) *Session {
	return &Session{in: bufio.NewScanner(in), out: out}
}

// Confirm asks a yes/no question; anything but "y" or "yes" is a no.
func (s *Session) Confirm(msg string) bool {
	fmt.Fprintf(s.out, "%s [y/N] ", msg)
	if !s.in.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(s.in.Text()))
	return answer == "y" || answer == "yes"
}

// Run processes commands until quit, end of input or ctx cancellation.
// Background status polls are cancelled and waited for before it returns.
func (s *Session) Run(ctx context.Context, c *gallery.Controller) error {
	ctx, cancel := context.WithCancel(ctx)
	defer s.polls.Wait()
	defer cancel()

	if err := c.Start(ctx); err != nil {
		logger.FromContext(ctx).Warn("Initial load failed", "error", err)
	}

	for {
		fmt.Fprint(s.out, "> ")
		if !s.in.Scan() {
			return s.in.Err()
		}
		line := strings.TrimSpace(s.in.Text())
		if line == "" {
			continue
		}
		if err := s.exec(ctx, c, line); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

var errQuit = errors.New("quit")

func (s *Session) exec(ctx context.Context, c *gallery.Controller, line string) error {
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(cmd) {
	case "help", "?":
		fmt.Fprint(s.out, helpText)
		return nil
	case "quit", "exit":
		return errQuit
	case "list", "refresh":
		return c.Refresh(ctx)
	case "page":
		n, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("page number expected: %q", arg)
		}
		return c.GoToPage(ctx, n-1)
	case "next":
		return c.GoToPage(ctx, c.State().CurrentPage+1)
	case "prev":
		return c.GoToPage(ctx, c.State().CurrentPage-1)
	case "filter":
		return s.filter(ctx, c, arg)
	case "play":
		id, err := parseID(arg)
		if err != nil {
			return err
		}
		c.PlayVideo(ctx, id)
		return nil
	case "left":
		c.ScrollCarousel(-1)
		return nil
	case "right":
		c.ScrollCarousel(1)
		return nil
	case "select":
		f, err := localFile(arg)
		if err != nil {
			return err
		}
		c.SelectFile(f)
		return nil
	case "drop":
		f, err := localFile(arg)
		if err != nil {
			return err
		}
		c.Drop(gallery.DragEnter, nil)
		if !c.Drop(gallery.Drop, []gallery.File{*f}) {
			fmt.Fprintf(s.out, "Ignored %s: not a video file\n", f.Name)
		}
		return nil
	case "upload":
		_, err := c.HandleUpload(ctx, arg, c.SelectedFile())
		if errors.Is(err, app_errors.ErrTitleRequired) || errors.Is(err, app_errors.ErrFileRequired) {
			// уже показано через Alert
			return nil
		}
		return err
	case "delete":
		id, err := parseID(arg)
		if err != nil {
			return err
		}
		err = c.DeleteVideo(ctx, id)
		if errors.Is(err, app_errors.ErrDeleteCancelled) {
			return nil
		}
		return err
	case "status":
		id, err := parseID(arg)
		if err != nil {
			return err
		}
		s.polls.Add(1)
		go func() {
			defer s.polls.Done()
			res := c.PollStatus(ctx, id)
			s.reportPoll(id, res)
		}()
		return nil
	}
	return fmt.Errorf("unknown command %q, type help", cmd)
}

func (s *Session) filter(ctx context.Context, c *gallery.Controller, arg string) error {
	switch arg {
	case "", "all":
		return c.SetFilter(ctx, "")
	case backend.StatusProcessing, backend.StatusReady, backend.StatusError:
		return c.SetFilter(ctx, arg)
	}
	return fmt.Errorf("unknown status %q", arg)
}

func (s *Session) reportPoll(id int64, res gallery.PollResult) {
	switch {
	case res.Err != nil:
		fmt.Fprintf(s.out, "Video %d: %v\n", id, res.Err)
	case res.JobStatus == backend.JobFailed:
		fmt.Fprintf(s.out, "Video %d processing failed: %s\n", id, res.ErrorMessage)
	case res.JobStatus != backend.JobCompleted:
		fmt.Fprintf(s.out, "Video %d: still %s after %d checks\n", id, res.JobStatus, res.Attempts)
	}
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("video id expected: %q", arg)
	}
	return id, nil
}

func localFile(path string) (*gallery.File, error) {
	if path == "" {
		return nil, errors.New("file path expected")
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	name := filepath.Base(path)
	return &gallery.File{
		Name:        name,
		Path:        path,
		ContentType: validation.GetContentTypeFromExtension(name),
		Size:        info.Size(),
	}, nil
}
