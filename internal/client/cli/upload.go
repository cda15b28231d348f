package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/myreport/reportcycle/internal/client/media"
	"github.com/myreport/reportcycle/internal/client/upload"
)

// progressObserver prints upload progress on a single line.
type progressObserver struct {
	upload.NopObserver
	w io.Writer
}

func (o *progressObserver) OnProgress(p int) {
	fmt.Fprintf(o.w, "\rUploading... %3d%%", p)
}

func (o *progressObserver) OnUploaded(string) {
	fmt.Fprintln(o.w)
}

func (o *progressObserver) OnProcessing(sec int) {
	fmt.Fprintf(o.w, "\rProcessing... %ds", sec)
}

func (o *progressObserver) OnPublished([]string) {
	fmt.Fprintln(o.w)
}

func (o *progressObserver) OnDeleted(urls []string) {
	if len(urls) > 0 {
		fmt.Fprintf(o.w, "Dropped %d rendition(s) of the last upload.\n", len(urls))
	}
}

// publish uploads the picture at path and returns the finished job.
func (a *App) publish(ctx context.Context, path string) (*upload.Job, error) {
	if err := upload.ValidateSelection(path); err != nil {
		return nil, err
	}

	img, format, err := media.DecodeFile(path)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	orientation := "vertical"
	if media.IsHorizontal(img) {
		orientation = "horizontal"
	}
	printlnFn(fmt.Sprintf("%s %dx%d, %s, overlay text %s", format, b.Dx(), b.Dy(), orientation, media.OverlayTone(img)))

	f, closer, err := upload.Open(path)
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	return a.uploads.Upload(ctx, f)
}

// Upload publishes a picture and prints its renditions.
func (a *App) Upload(ctx context.Context, path string) error {
	if !a.isLoggedIn() {
		printlnFn(upload.MsgLoginFirst)
		return nil
	}
	job, err := a.publish(ctx, path)
	if err != nil {
		return err
	}

	pic := media.Renditions(job.URLs)
	printlnFn("Published:", job.ObjectURL)
	for _, s := range pic.Sources {
		printlnFn(fmt.Sprintf("  %-3s %s %s", s.Size, s.URL, s.Media))
	}
	if pic.Src != "" {
		printlnFn("  src", pic.Src)
	}
	if srcset := pic.SrcSet(); srcset != "" {
		printlnFn("  srcset", srcset)
	}
	return nil
}
