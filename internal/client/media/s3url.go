package media

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var ErrNotS3URL = errors.New("not an S3 object URL")

var s3URLPattern = regexp.MustCompile(`^https://([^.]+)\.s3\.([^.]+)\.amazonaws\.com/(.+)$`)

// S3Object locates a stored upload. Keys look like
// <country>/d<domain>/u<userId>/<name>.
type S3Object struct {
	Bucket string
	Region string
	Key    string
	Domain int
	UserID int64
}

func ParseS3URL(url string) (S3Object, error) {
	m := s3URLPattern.FindStringSubmatch(url)
	if m == nil {
		return S3Object{}, fmt.Errorf("%w: %s", ErrNotS3URL, url)
	}
	obj := S3Object{Bucket: m[1], Region: m[2], Key: m[3]}

	parts := strings.Split(obj.Key, "/")
	if len(parts) > 1 {
		if v, ok := strings.CutPrefix(parts[1], "d"); ok {
			obj.Domain, _ = strconv.Atoi(v)
		}
	}
	if len(parts) > 2 {
		if v, ok := strings.CutPrefix(parts[2], "u"); ok {
			obj.UserID, _ = strconv.ParseInt(v, 10, 64)
		}
	}
	return obj, nil
}
