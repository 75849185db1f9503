package blobstore

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Client is the subset of *s3.Client used by S3.
type S3Client interface {
	manager.DownloadAPIClient
	manager.UploadAPIClient
}

// S3 stores objects in Amazon S3. Downloads are parallel ranged GETs into
// memory; uploads are multipart above the manager's part size.
type S3 struct {
	downloader *manager.Downloader
	uploader   *manager.Uploader
}

// NewS3 wraps client.
func NewS3(client S3Client) *S3 {
	return &S3{
		downloader: manager.NewDownloader(client),
		uploader:   manager.NewUploader(client),
	}
}

// NewS3FromEnv builds a client from the default AWS configuration chain
// (environment, shared config, instance role).
func NewS3FromEnv(ctx context.Context) (Store, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}
	return NewS3(s3.NewFromConfig(cfg)), nil
}

// Open downloads the whole object.
func (s *S3) Open(ctx context.Context, loc Location) (io.ReadCloser, error) {
	buf := manager.NewWriteAtBuffer(nil)
	_, err := s.downloader.Download(ctx, buf, &s3.GetObjectInput{
		Bucket: aws.String(loc.Bucket),
		Key:    aws.String(loc.Key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(buf.Bytes())), nil
}

// Put uploads r.
func (s *S3) Put(ctx context.Context, loc Location, r io.Reader) error {
	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(loc.Bucket),
		Key:    aws.String(loc.Key),
		Body:   r,
	})
	return err
}
