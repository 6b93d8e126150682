package fetch

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonathan/mock-interview/internal/types"
)

// Importer turns a job posting URL into a title and description that can
// seed an interview form.
type Importer struct {
	Options *Options
	// Render is used when browser mode is on and the HTTP text is too short.
	Render Renderer
	Logger *slog.Logger
}

// NewImporter creates an Importer with headless Chrome as its renderer.
func NewImporter(timeout time.Duration, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	opts := DefaultOptions()
	opts.Timeout = timeout
	return &Importer{
		Options: opts,
		Render:  BrowserRenderer(timeout, logger),
		Logger:  logger,
	}
}

// Import fetches urlStr and extracts the posting. With useBrowser set, pages
// whose text is shorter than MinContentLength are rendered again in a browser;
// a failed render keeps the HTTP text.
func (im *Importer) Import(ctx context.Context, urlStr string, useBrowser bool) (*types.ImportJobResponse, error) {
	logger := im.Logger
	if logger == nil {
		logger = slog.Default()
	}

	platform := DetectPlatform(urlStr)
	contentSelectors := PlatformContentSelectors(platform)
	noiseSelectors := PlatformNoiseSelectors(platform)

	result, err := URL(ctx, urlStr, im.Options)
	if err != nil {
		return nil, err
	}

	html := result.HTML
	text, err := ExtractMainText(html, contentSelectors, noiseSelectors...)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "content extraction failed", Cause: err}
	}

	if useBrowser && im.Render != nil && ShouldUseBrowser(text) {
		logger.InfoContext(ctx, "posting text too short, rendering in browser",
			slog.String("url", urlStr),
			slog.Int("chars", len(text)),
			slog.Int("min_chars", MinContentLength),
		)
		rendered, rerr := im.Render(ctx, urlStr)
		if rerr != nil {
			logger.WarnContext(ctx, "browser rendering failed, using HTTP content",
				slog.String("url", urlStr),
				slog.String("error", rerr.Error()),
			)
		} else if browserText, xerr := ExtractMainText(rendered, contentSelectors, noiseSelectors...); xerr == nil {
			html, text = rendered, browserText
		}
	}

	if text == "" {
		return nil, &Error{URL: urlStr, Message: "no text found in page"}
	}

	logger.InfoContext(ctx, "imported job posting",
		slog.String("url", urlStr),
		slog.String("platform", string(platform)),
		slog.Int("chars", len(text)),
	)

	return &types.ImportJobResponse{
		URL:         urlStr,
		Title:       ExtractTitle(html),
		Description: text,
		Platform:    string(platform),
	}, nil
}
