package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	fig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/circlehq/circle-api/config"
	"github.com/pkg/errors"
)

// BlobStore holds the uploaded bytes. Records reference blobs by storage
// name only, so the same service code runs against the local upload
// directory or an S3 bucket.
type BlobStore interface {
	Save(name string, r io.Reader) error
	SaveThumb(name string, r io.Reader) error
	// Remove tolerates blobs that are already gone; a missing file is not
	// an error on either backend.
	Remove(name string) error
	RemoveThumb(name string) error
	URL(name string) string
	ThumbURL(name string) string
}

type diskStore struct {
	uploadDir string
	thumbDir  string
}

// NewDiskStore ensures the upload and thumbnail directories exist and
// returns a store mapping names to paths beneath them.
func NewDiskStore(uploadDir, thumbDir string) (BlobStore, error) {
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return nil, errors.Wrap(err, "creating upload dir")
	}
	if err := os.MkdirAll(thumbDir, 0o755); err != nil {
		return nil, errors.Wrap(err, "creating thumbnail dir")
	}
	return &diskStore{uploadDir: uploadDir, thumbDir: thumbDir}, nil
}

func (d *diskStore) Save(name string, r io.Reader) error {
	return writeFile(filepath.Join(d.uploadDir, name), r)
}

func (d *diskStore) SaveThumb(name string, r io.Reader) error {
	return writeFile(filepath.Join(d.thumbDir, name), r)
}

func writeFile(path string, r io.Reader) error {
	out, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	defer out.Close()

	if _, err := io.Copy(out, r); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	return nil
}

func (d *diskStore) Remove(name string) error {
	return removeFile(filepath.Join(d.uploadDir, name))
}

func (d *diskStore) RemoveThumb(name string) error {
	return removeFile(filepath.Join(d.thumbDir, name))
}

func removeFile(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "removing %s", path)
	}
	return nil
}

func (d *diskStore) URL(name string) string {
	return "/static/uploads/" + name
}

func (d *diskStore) ThumbURL(name string) string {
	return "/static/thumbnails/" + name
}

type s3Store struct {
	client *s3.Client
	bucket string
	region string
}

// NewS3Store is selected when a bucket is configured. Objects are keyed
// uploads/<name> and thumbnails/<name>.
func NewS3Store(c *config.Config) (BlobStore, error) {
	cfg, err := fig.LoadDefaultConfig(context.TODO(),
		fig.WithRegion(c.AwsRegion),
		fig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.AwsAccessKeyID, c.AwsSecretKey, ""),
		),
	)
	if err != nil {
		return nil, errors.Wrap(err, "unable to load AWS config")
	}

	return &s3Store{
		client: s3.NewFromConfig(cfg),
		bucket: c.AwsBucket,
		region: c.AwsRegion,
	}, nil
}

func (s *s3Store) Save(name string, r io.Reader) error {
	return s.put("uploads/"+name, r)
}

func (s *s3Store) SaveThumb(name string, r io.Reader) error {
	return s.put("thumbnails/"+name, r)
}

func (s *s3Store) put(key string, r io.Reader) error {
	_, err := s.client.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   r,
		ACL:    "public-read",
	})
	if err != nil {
		return errors.Wrapf(err, "uploading %s to S3", key)
	}
	return nil
}

func (s *s3Store) Remove(name string) error {
	return s.del("uploads/" + name)
}

func (s *s3Store) RemoveThumb(name string) error {
	return s.del("thumbnails/" + name)
}

// DeleteObject succeeds for keys that never existed, which matches the
// missing-file tolerance of the disk store.
func (s *s3Store) del(key string) error {
	_, err := s.client.DeleteObject(context.TODO(), &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return errors.Wrapf(err, "deleting %s from S3", key)
	}
	return nil
}

func (s *s3Store) URL(name string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/uploads/%s", s.bucket, s.region, name)
}

func (s *s3Store) ThumbURL(name string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/thumbnails/%s", s.bucket, s.region, name)
}
