package entity

// The part portion of media data in a resumable upload.
type Part struct {
	ETag       string // Entity tag for the uploaded object.
	PartNumber int64  // Part number that identifies the part.
}
