package bundle

import (
	"errors"
	"fmt"
)

// ErrNoAppData reports a script bundle that never assigns the app data record.
var ErrNoAppData = errors.New("script does not assign " + appDataTarget)

// DataLoadError reports that a bundle could not be loaded from Source.
type DataLoadError struct {
	Source string
	Err    error
}

// Error renders the failing source and cause.
func (e *DataLoadError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source == "" {
		return fmt.Sprintf("load bundle: %v", e.Err)
	}
	return fmt.Sprintf("load bundle %s: %v", e.Source, e.Err)
}

// Unwrap returns the underlying cause.
func (e *DataLoadError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// LoadError wraps err as a DataLoadError for source. A nil err stays nil.
func LoadError(source string, err error) error {
	if err == nil {
		return nil
	}
	var existing *DataLoadError
	if errors.As(err, &existing) {
		return err
	}
	return &DataLoadError{Source: source, Err: err}
}
