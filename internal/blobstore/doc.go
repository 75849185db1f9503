// Package blobstore opens and stores index files by URI.
//
// Supported locations:
//
//	path/to/file           local filesystem
//	-                      stdin (read only)
//	s3://bucket/key        Amazon S3, credentials from the default AWS chain
//	minio://host:port/bucket/key
//	                       MinIO or any S3-compatible server; credentials from
//	                       MINIO_ACCESS_KEY / MINIO_SECRET_KEY, TLS unless
//	                       MINIO_SECURE=false
package blobstore
