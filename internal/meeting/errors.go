package meeting

import "errors"

// Error kinds shared by every stage. Components wrap their failures with one
// of these so callers can classify with errors.Is.
var (
	ErrIO                  = errors.New("io error")
	ErrTranscription       = errors.New("transcription error")
	ErrSummaryParse        = errors.New("summary parse error")
	ErrPersistence         = errors.New("persistence error")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrNotFound            = errors.New("not found")
)

// KindError attaches an error kind to an underlying cause.
type KindError struct {
	Kind error
	Err  error
}

func (e *KindError) Error() string {
	if e.Err == nil {
		return e.Kind.Error()
	}
	return e.Err.Error()
}

func (e *KindError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// Wrap tags err with kind. A nil err stays nil.
func Wrap(kind, err error) error {
	if err == nil {
		return nil
	}
	return &KindError{Kind: kind, Err: err}
}
