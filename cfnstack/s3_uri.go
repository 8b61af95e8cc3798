package cfnstack

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	s3URIWithDirectory = regexp.MustCompile("^s3://(?P<bucket>[^/]+)/(?P<directory>.+[^/])/*$")
	s3URIBucketOnly    = regexp.MustCompile("^s3://(?P<bucket>[^/]+)/*$")
)

// S3URI is where oversized templates are uploaded to, e.g. s3://mybucket/path/to/dir
type S3URI interface {
	Bucket() string
	KeyComponents() []string
	BucketAndKey() string
	String() string
}

type s3URIImpl struct {
	bucket    string
	directory string
}

func (u s3URIImpl) Bucket() string {
	return u.bucket
}

func (u s3URIImpl) KeyComponents() []string {
	if u.directory != "" {
		return []string{
			u.directory,
		}
	}
	return []string{}
}

func (u s3URIImpl) BucketAndKey() string {
	components := []string{u.bucket}
	components = append(components, u.KeyComponents()...)
	return strings.Join(components, "/")
}

func (u s3URIImpl) String() string {
	return fmt.Sprintf("s3://%s", u.BucketAndKey())
}

func S3URIFromString(s3URI string) (S3URI, error) {
	if matches := s3URIWithDirectory.FindStringSubmatch(s3URI); len(matches) == 3 {
		return s3URIImpl{bucket: matches[1], directory: matches[2]}, nil
	}
	if matches := s3URIBucketOnly.FindStringSubmatch(s3URI); len(matches) == 2 {
		return s3URIImpl{bucket: matches[1]}, nil
	}
	return nil, fmt.Errorf("failed to parse s3 uri(=%s): The valid uri pattern for it is s3://mybucket/mydir or s3://mybucket", s3URI)
}
