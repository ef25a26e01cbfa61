package utils

import (
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

// Standard progress bar descriptions
const (
	DescListing  = "Listing"
	DescFetching = "Fetching details"
)

// NewProgressBar creates a consistently styled progress bar on stderr.
//
// Use -1 for unknown totals (spinner mode). Known totals show the count and
// iterations/second.
//
//	bar := utils.NewProgressBar(batches, utils.DescFetching)
//	defer bar.Finish()
func NewProgressBar(total int, description string) *progressbar.ProgressBar {
	return NewProgressBarTo(os.Stderr, total, description)
}

// NewProgressBarTo creates a progress bar rendering to w
func NewProgressBarTo(w io.Writer, total int, description string) *progressbar.ProgressBar {
	opts := []progressbar.Option{
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
	}

	if total < 0 {
		opts = append(opts,
			progressbar.OptionSpinnerType(14),
			progressbar.OptionSetRenderBlankState(true),
		)
	} else {
		opts = append(opts,
			progressbar.OptionShowIts(),
			progressbar.OptionClearOnFinish(),
		)
	}

	return progressbar.NewOptions(total, opts...)
}
