package dataset

// ReadyCallback receives the outcome of a lookup. Exactly one method is
// called, once.
type ReadyCallback interface {
	Callback(ds DataSet)
	NotFound()
	OnError(err error)
}

// Callbacks adapts three funcs to ReadyCallback. Nil funcs are skipped.
type Callbacks struct {
	Ready   func(ds DataSet)
	Missing func()
	Failed  func(err error)
}

func (c Callbacks) Callback(ds DataSet) {
	if c.Ready != nil {
		c.Ready(ds)
	}
}

func (c Callbacks) NotFound() {
	if c.Missing != nil {
		c.Missing()
	}
}

func (c Callbacks) OnError(err error) {
	if c.Failed != nil {
		c.Failed(err)
	}
}
