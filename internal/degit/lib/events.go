package lib

// Event codes emitted on the info channel. The core never writes to a
// console directly; the CLI subscribes to these and renders them.
const (
	EvSuccess       = "SUCCESS"
	EvUsingCache    = "USING_CACHE"
	EvFoundMatch    = "FOUND_MATCH"
	EvDownloading   = "DOWNLOADING"
	EvExtracting    = "EXTRACTING"
	EvProxy         = "PROXY"
	EvDestIsEmpty   = "DEST_IS_EMPTY"
	EvDestNotEmpty  = "DEST_NOT_EMPTY"
	EvRemovedFiles  = "REMOVED_FILES"
	EvFileExists    = "FILE_EXISTS"
	EvGitOnlyHost   = "GIT_ONLY_HOST"
	EvFileNotExists = "FILE_DOES_NOT_EXIST"
)

// Event is a progress notification or non-fatal problem report.
type Event struct {
	Code    string
	Message string
	Repo    string
	Dest    string
}

// Emitter fans events out to optional subscriber callbacks. A nil Emitter
// or nil callback drops events silently, so core code can emit
// unconditionally.
type Emitter struct {
	OnInfo func(Event)
	OnWarn func(Event)
}

// Info reports a progress or success notification.
func (e *Emitter) Info(ev Event) {
	if e != nil && e.OnInfo != nil {
		e.OnInfo(ev)
	}
}

// Warn reports a non-fatal problem.
func (e *Emitter) Warn(ev Event) {
	if e != nil && e.OnWarn != nil {
		e.OnWarn(ev)
	}
}
