// Package spinner shows a progress indicator while regions are scanned.
package spinner

import (
	"sync"
	"time"

	"github.com/briandowns/spinner"
)

var (
	mu     sync.Mutex
	loader *spinner.Spinner
)

// StartSpinner starts the CLI loading spinner.
func StartSpinner() {
	mu.Lock()
	defer mu.Unlock()

	loader = spinner.New(spinner.CharSets[11], 100*time.Millisecond)
	loader.Color("yellow") //nolint:errcheck
	loader.Suffix = " Scanning AWS regions for waste..."
	loader.Start()
}

// StopSpinner stops the CLI loading spinner. It is a no-op when no spinner
// is running.
func StopSpinner() {
	mu.Lock()
	defer mu.Unlock()

	if loader != nil {
		loader.Stop()
		loader = nil
	}
}
