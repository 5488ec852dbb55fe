package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/snapshare/pkg/cache"
	apperr "github.com/matzehuels/snapshare/pkg/errors"
	"github.com/matzehuels/snapshare/pkg/event"
	"github.com/matzehuels/snapshare/pkg/flipbook"
	"github.com/matzehuels/snapshare/pkg/storage/local"
)

// photoExts are the file extensions render picks up.
var photoExts = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

// renderOpts holds flags for the render command.
type renderOpts struct {
	style     string
	title     string
	date      string
	output    string
	quality   int
	maxPixels int
	noCache   bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <dir>",
		Short: "Render a directory of photos into a flipbook PDF",
		Long: `Render every photo in a directory, in file name order, into a flipbook PDF.
Nothing is uploaded or converted.

Styles: memory_archive (default), typography_collage, minimalist_story.
Unknown styles fall back to memory_archive.`,
		Example: `  snapshare render ./party --style minimalist_story -o party.pdf
  snapshare render ./wedding --title "Anna & Ben" --date "June 1, 2026"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.style, "style", "s", string(event.DefaultStyle), "layout style")
	cmd.Flags().StringVar(&opts.title, "title", "", "cover title (default: directory name)")
	cmd.Flags().StringVar(&opts.date, "date", "", "cover date (default: today)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "flipbook.pdf", "output file")
	cmd.Flags().IntVar(&opts.quality, "quality", 0, "JPEG quality 1-100 (default: style default)")
	cmd.Flags().IntVar(&opts.maxPixels, "max-px", 2400, "longest photo edge in pixels, 0 keeps originals")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the photo cache")

	_ = cmd.RegisterFlagCompletionFunc("style", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		names := make([]string, len(event.Styles))
		for i, s := range event.Styles {
			names[i] = s.String()
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, dir string, opts renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	names, err := listPhotos(abs)
	if err != nil {
		return err
	}
	records := make([]event.PhotoRecord, len(names))
	for i, name := range names {
		records[i] = event.PhotoRecord{StorageKey: name, Filename: name, Order: i}
	}
	logger.Debug("found photos", "dir", abs, "count", len(records))

	source, err := local.New(abs, "")
	if err != nil {
		return err
	}
	photoCache, err := newCache(opts.noCache)
	if err != nil {
		return err
	}
	defer photoCache.Close()

	meta := event.Metadata{
		ID:          filepath.Base(abs),
		DisplayName: opts.title,
		DisplayDate: opts.date,
		Style:       event.ParseStyle(opts.style),
	}
	if meta.DisplayName == "" {
		meta.DisplayName = filepath.Base(abs)
	}
	if meta.DisplayDate == "" {
		meta.DisplayDate = time.Now().Format("January 2, 2006")
	}
	if opts.style != "" && !event.Style(opts.style).Valid() {
		printWarning("Unknown style %q, using %s", opts.style, meta.Style)
	}

	renderOpts := flipbook.RenderOptions{
		MaxPixels: opts.maxPixels,
		Cache:     photoCache,
		Keyer:     cache.NewDirKeyer(abs),
		Logger:    logger,
	}
	if opts.quality != 0 {
		if opts.quality < 1 || opts.quality > 100 {
			return apperr.New(apperr.ErrCodeInvalidInput, "quality must be between 1 and 100")
		}
		renderOpts.Qualities = map[event.Style]int{meta.Style: opts.quality}
	}

	prog := newProgress(logger)
	doc, err := flipbook.Render(ctx, meta, records, source, renderOpts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d pages", doc.Report.Pages))

	if err := os.WriteFile(opts.output, doc.Data, 0644); err != nil {
		return err
	}
	printSuccess("Flipbook written")
	printFile(opts.output)
	fmt.Println(reportTable(doc.Report, len(doc.Data), time.Since(prog.start)))
	printSkipped(doc.Report)
	if len(doc.Report.Skipped) > 0 {
		printNextStep("Show decode errors", "snapshare render "+dir+" --verbose")
	}
	return nil
}

// listPhotos returns the photo file names directly inside dir, sorted.
func listPhotos(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if slices.Contains(photoExts, strings.ToLower(filepath.Ext(e.Name()))) {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)
	return names, nil
}
