package probe

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const (
	s3AccessKeyEnv = "PILOT_S3_ACCESS_KEY"
	s3SecretKeyEnv = "PILOT_S3_SECRET_KEY"
)

// s3Checker asks an S3-compatible endpoint whether the configured
// bucket exists. Credentials come from PILOT_S3_ACCESS_KEY and
// PILOT_S3_SECRET_KEY; without them the probe runs anonymously, which
// is enough for deployments with public-read buckets.
type s3Checker struct {
	client  *minio.Client
	bucket  string
	display string
}

func newS3Checker(u *url.URL) (*s3Checker, error) {
	if u.Host == "" {
		return nil, fmt.Errorf("%w: %s: missing endpoint", ErrInvalidTarget, u.String())
	}
	bucket := strings.Trim(u.Path, "/")
	if bucket == "" || strings.Contains(bucket, "/") {
		return nil, fmt.Errorf("%w: %s: want s3://endpoint/bucket", ErrInvalidTarget, u.String())
	}

	creds := credentials.NewStatic("", "", "", credentials.SignatureAnonymous)
	if access := os.Getenv(s3AccessKeyEnv); access != "" {
		creds = credentials.NewStaticV4(access, os.Getenv(s3SecretKeyEnv), "")
	}

	client, err := minio.New(u.Host, &minio.Options{
		Creds:  creds,
		Secure: u.Query().Get("tls") == "true",
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidTarget, u.String(), err)
	}

	return &s3Checker{
		client:  client,
		bucket:  bucket,
		display: fmt.Sprintf("s3://%s/%s", u.Host, bucket),
	}, nil
}

func (c *s3Checker) String() string { return c.display }

func (c *s3Checker) Check(ctx context.Context) error {
	exists, err := c.client.BucketExists(ctx, c.bucket)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: bucket %q not found", ErrNotServing, c.bucket)
	}
	return nil
}
