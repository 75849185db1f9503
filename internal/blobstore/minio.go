package blobstore

import (
	"context"
	"errors"
	"io"
	"os"
	"strconv"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Environment variables read by NewMinioFromEnv.
const (
	EnvMinioAccessKey = "MINIO_ACCESS_KEY"
	EnvMinioSecretKey = "MINIO_SECRET_KEY"
	EnvMinioSecure    = "MINIO_SECURE"
)

// Minio stores objects on a MinIO or other S3-compatible server.
type Minio struct {
	client *minio.Client
}

// NewMinio wraps client.
func NewMinio(client *minio.Client) *Minio { return &Minio{client: client} }

// NewMinioFromEnv connects to endpoint with credentials from the environment.
func NewMinioFromEnv(_ context.Context, endpoint string) (Store, error) {
	secure := true
	if v := os.Getenv(EnvMinioSecure); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, errors.New(EnvMinioSecure + ": " + err.Error())
		}
		secure = b
	}
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(os.Getenv(EnvMinioAccessKey), os.Getenv(EnvMinioSecretKey), ""),
		Secure: secure,
	})
	if err != nil {
		return nil, err
	}
	return NewMinio(client), nil
}

// Open streams the object. A missing object is reported here, not on first read.
func (m *Minio) Open(ctx context.Context, loc Location) (io.ReadCloser, error) {
	if _, err := m.client.StatObject(ctx, loc.Bucket, loc.Key, minio.StatObjectOptions{}); err != nil {
		return nil, mapMinioErr(err)
	}
	obj, err := m.client.GetObject(ctx, loc.Bucket, loc.Key, minio.GetObjectOptions{})
	if err != nil {
		return nil, mapMinioErr(err)
	}
	return obj, nil
}

// Put streams r as the object body.
func (m *Minio) Put(ctx context.Context, loc Location, r io.Reader) error {
	_, err := m.client.PutObject(ctx, loc.Bucket, loc.Key, r, -1, minio.PutObjectOptions{
		ContentType: "application/octet-stream",
	})
	return err
}

func mapMinioErr(err error) error {
	resp := minio.ToErrorResponse(err)
	if resp.Code == "NoSuchKey" || resp.Code == "NotFound" || resp.Code == "NoSuchBucket" {
		return ErrNotFound
	}
	return err
}
