package upload

// User-facing failure messages.
const (
	MsgInvalidType  = "Please select a valid file type. Only these extensions {jpeg,jpg,png,gif,bmp} are accepted."
	MsgLoginFirst   = "You must login first to be able to upload a file."
	MsgUploadFailed = "File upload failed."
	MsgUploadError  = "Upload error."
)

// Error is a failed upload step. Message is meant for the user; Err holds
// the cause, if any.
type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}
