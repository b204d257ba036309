// Package options provides shared validation for tool and command inputs.
package options

import "errors"

// ValidateSingleInputSource ensures exactly one input source is specified.
// sources reports, per source, whether it was provided. noSourceMsg and
// multiSourceMsg become the error text for zero and several sources.
func ValidateSingleInputSource(noSourceMsg, multiSourceMsg string, sources ...bool) error {
	sourceCount := 0
	for _, hasSource := range sources {
		if hasSource {
			sourceCount++
		}
	}

	switch {
	case sourceCount == 0:
		return errors.New(noSourceMsg)
	case sourceCount > 1:
		return errors.New(multiSourceMsg)
	}
	return nil
}
