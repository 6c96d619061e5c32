package ports

// Interactor is the user-facing output channel: report lines, warnings and
// recovered errors go here, never to the diagnostic logger.
type Interactor interface {
	Output(message string)
	Warning(message string)
	Error(message string, err error)
}
