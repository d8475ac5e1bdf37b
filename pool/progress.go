package pool

import "github.com/schollz/progressbar/v3"

// progressBar builds the drain-loop progress bar, one tick per completed
// task. Returns nil when progress display is disabled.
func (p *Pool) progressBar(total int) *progressbar.ProgressBar {
	if !p.cfg.ShowProgress || total == 0 {
		return nil
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription("Processing tasks"),
		progressbar.OptionSetWidth(50),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionEnableColorCodes(true),
	)
}
