package httprange

import (
	"errors"
	"strconv"
	"strings"
)

// ContentRange describes the byte window of a single resumable upload
// chunk, per the Content-Range request header.
type ContentRange struct {
	Start, End, Size int64
}

// Get the length of the chunk being uploaded.
func (cr *ContentRange) Length() int64 { return cr.End - cr.Start + 1 }

// Get the current part number of the resumable upload.
func (cr *ContentRange) CurrentPart() int64 { return cr.Start/cr.Length() + 1 }

// Get the total number of parts of the resumable upload.
func (cr *ContentRange) Parts() int64 {
	remainder := 0
	if cr.Size%cr.Length() > 0 {
		remainder = 1
	}
	return cr.Size/cr.Length() + int64(remainder)
}

// Determine whether the chunk contains the last byte of the upload.
func (cr *ContentRange) IsLastByte() bool {
	return cr.End+1 >= cr.Size
}

// Get the completion percentage once this chunk has been received.
func (cr *ContentRange) Percent() int {
	if cr.Size <= 0 {
		return 0
	}
	return int((cr.End + 1) * 100 / cr.Size)
}

func ParseContentRange(s string) (*ContentRange, error) {
	const b = "bytes "
	if s == "" {
		return nil, errors.New("no Content-Range header")
	}
	if !strings.HasPrefix(s, b) {
		return nil, errors.New("invalid unit of Content-Range header")
	}
	r := strings.Split(s[len(b):], "/")
	if len(r) != 2 {
		return nil, errors.New("invalid size of Content-Range header")
	}
	size, err := strconv.ParseInt(strings.TrimSpace(r[1]), 10, 64)
	if err != nil {
		return nil, errors.New("cannot parse size of Content-Range header")
	}
	r = strings.Split(r[0], "-")
	if len(r) != 2 {
		return nil, errors.New("cannot parse Content-Range header, expected format \"start-end\"")
	}
	start, err := strconv.ParseInt(strings.TrimSpace(r[0]), 10, 64)
	if err != nil {
		return nil, errors.New("cannot parse start of Content-Range header")
	}
	end, err := strconv.ParseInt(strings.TrimSpace(r[1]), 10, 64)
	if err != nil {
		return nil, errors.New("cannot parse end of Content-Range header")
	}
	if start > end || end >= size {
		return nil, errors.New("invalid byte window of Content-Range header")
	}
	return &ContentRange{start, end, size}, nil
}
