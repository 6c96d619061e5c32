package ports

import (
	"fmt"
	"io"
)

// WriterInteractor prints plain text lines to a single writer.
type WriterInteractor struct {
	w io.Writer
}

// NewWriterInteractor creates an Interactor writing to w
func NewWriterInteractor(w io.Writer) *WriterInteractor {
	return &WriterInteractor{w: w}
}

func (wi *WriterInteractor) Output(message string) {
	fmt.Fprintln(wi.w, message)
}

func (wi *WriterInteractor) Warning(message string) {
	fmt.Fprintln(wi.w, message)
}

func (wi *WriterInteractor) Error(message string, err error) {
	if err == nil {
		fmt.Fprintln(wi.w, message)
		return
	}
	fmt.Fprintf(wi.w, "%s: %v\n", message, err)
}

var _ Interactor = (*WriterInteractor)(nil)
