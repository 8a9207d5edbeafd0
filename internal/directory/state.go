package directory

// LoadStatus is the position of the store in its load lifecycle:
// NotLoaded -> Loading -> Loaded | LoadFailed.
type LoadStatus int

const (
	NotLoaded LoadStatus = iota
	Loading
	Loaded
	LoadFailed
)

func (s LoadStatus) String() string {
	switch s {
	case NotLoaded:
		return "not_loaded"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case LoadFailed:
		return "load_failed"
	default:
		return "unknown"
	}
}

// LoadState reports the outcome of the most recent fetch. Err is set only for LoadFailed.
// A failed load leaves the collection empty, so callers that only look at the employee
// list see the same thing as a successful load of zero records.
type LoadState struct {
	Status LoadStatus
	Count  int
	Err    error
}
