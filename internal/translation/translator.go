package translation

import "context"

// Translator converts text between languages.
type Translator interface {
	// Translate converts text from sourceLang to targetLang. Language codes
	// are ISO 639-1 ("ko", "en", ...). Any downstream failure is returned
	// as *Error.
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}

// Error is a typed translation failure carrying the request that failed.
type Error struct {
	SourceLang string
	TargetLang string
	Text       string
	Cause      error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := "translation failed (" + e.SourceLang + " -> " + e.TargetLang + ")"
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap exposes the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

func newError(text, sourceLang, targetLang string, cause error) *Error {
	return &Error{
		SourceLang: sourceLang,
		TargetLang: targetLang,
		Text:       text,
		Cause:      cause,
	}
}
