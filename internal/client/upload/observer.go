package upload

// Observer receives job notifications. Calls are made from the goroutine
// running Upload, except OnProcessing which comes from a ticker goroutine.
type Observer interface {
	OnProgress(percent int)
	OnUploading(busy bool)
	OnProcessing(elapsedSeconds int)
	OnUploaded(objectURL string)
	OnPublished(urls []string)
	OnFailed(message string)
	OnDeleted(urls []string)
}

// NopObserver ignores every notification. Embed it to implement only the
// methods you care about.
type NopObserver struct{}

func (NopObserver) OnProgress(int)       {}
func (NopObserver) OnUploading(bool)     {}
func (NopObserver) OnProcessing(int)     {}
func (NopObserver) OnUploaded(string)    {}
func (NopObserver) OnPublished([]string) {}
func (NopObserver) OnFailed(string)      {}
func (NopObserver) OnDeleted([]string)   {}
