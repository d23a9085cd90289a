package anchor

import "errors"

var (
	// ErrNotFound reports that an anchor matched nothing in a document.
	ErrNotFound = errors.New("anchor: not found")
	// ErrAmbiguous reports that an anchor matched more than one location.
	ErrAmbiguous = errors.New("anchor: ambiguous")
)
