package blobstore

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrInvalidLocation is wrapped by every Parse error.
var ErrInvalidLocation = errors.New("invalid location")

// Scheme selects the backend of a Location.
type Scheme string

const (
	SchemeFile  Scheme = "file"
	SchemeStdin Scheme = "stdin"
	SchemeS3    Scheme = "s3"
	SchemeMinio Scheme = "minio"
)

// Location is a parsed URI.
type Location struct {
	Scheme   Scheme
	Path     string // SchemeFile only
	Endpoint string // SchemeMinio only, host[:port]
	Bucket   string
	Key      string
}

func (l Location) String() string {
	switch l.Scheme {
	case SchemeStdin:
		return "-"
	case SchemeS3:
		return "s3://" + l.Bucket + "/" + l.Key
	case SchemeMinio:
		return "minio://" + l.Endpoint + "/" + l.Bucket + "/" + l.Key
	}
	return l.Path
}

// Remote reports whether l lives on an object store.
func (l Location) Remote() bool { return l.Scheme == SchemeS3 || l.Scheme == SchemeMinio }

// Parse classifies uri. Anything without a known scheme is a local path.
func Parse(uri string) (Location, error) {
	if uri == "" {
		return Location{}, fmt.Errorf("%w: empty", ErrInvalidLocation)
	}
	if uri == "-" {
		return Location{Scheme: SchemeStdin}, nil
	}
	switch {
	case strings.HasPrefix(uri, "s3://"):
		u, err := url.Parse(uri)
		if err != nil {
			return Location{}, fmt.Errorf("%w: %v", ErrInvalidLocation, err)
		}
		key := strings.TrimPrefix(u.Path, "/")
		if u.Host == "" || key == "" {
			return Location{}, fmt.Errorf("%w: %q: want s3://bucket/key", ErrInvalidLocation, uri)
		}
		return Location{Scheme: SchemeS3, Bucket: u.Host, Key: key}, nil

	case strings.HasPrefix(uri, "minio://"):
		u, err := url.Parse(uri)
		if err != nil {
			return Location{}, fmt.Errorf("%w: %v", ErrInvalidLocation, err)
		}
		bucket, key, _ := strings.Cut(strings.TrimPrefix(u.Path, "/"), "/")
		if u.Host == "" || bucket == "" || key == "" {
			return Location{}, fmt.Errorf("%w: %q: want minio://host[:port]/bucket/key", ErrInvalidLocation, uri)
		}
		return Location{Scheme: SchemeMinio, Endpoint: u.Host, Bucket: bucket, Key: key}, nil

	case strings.HasPrefix(uri, "file://"):
		return Location{Scheme: SchemeFile, Path: strings.TrimPrefix(uri, "file://")}, nil
	}
	if i := strings.Index(uri, "://"); i > 0 && !strings.ContainsAny(uri[:i], `/\.`) {
		return Location{}, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidLocation, uri[:i])
	}
	return Location{Scheme: SchemeFile, Path: uri}, nil
}
