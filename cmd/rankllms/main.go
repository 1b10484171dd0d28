package main

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes for different failure modes
const (
	ExitSuccess    = 0 // Requested ranking produced
	ExitIncomplete = 1 // Ranking withheld: comparison data incomplete
	ExitError      = 2 // Configuration or runtime error
)

// IncompleteDataError indicates the command ran correctly but the stored
// comparisons do not cover every model pair, so no ranking was produced.
type IncompleteDataError struct {
	Message string
}

func (e *IncompleteDataError) Error() string {
	return e.Message
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		var incompleteErr *IncompleteDataError
		if errors.As(err, &incompleteErr) {
			os.Exit(ExitIncomplete)
		}

		os.Exit(ExitError)
	}
}
