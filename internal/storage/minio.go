// Package storage archives exported PDFs in an S3-compatible bucket.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/resumate/resumate/internal/config"
)

// DefaultLinkTTL is how long a presigned export link stays valid.
const DefaultLinkTTL = 24 * time.Hour

// MinIOArchive is a thin wrapper around the minio client.
type MinIOArchive struct {
	client  *minio.Client
	bucket  string
	linkTTL time.Duration
	now     func() time.Time
}

// NewMinIOArchive creates the client and ensures the bucket exists.
func NewMinIOArchive(ctx context.Context, cfg config.MinIOConfig) (*MinIOArchive, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("minio config missing")
	}
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio new: %w", err)
	}
	a := &MinIOArchive{client: mc, bucket: cfg.Bucket, linkTTL: DefaultLinkTTL, now: time.Now}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mc.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
		// ignore "already exists" style errors
		exist, xerr := mc.BucketExists(ctx, a.bucket)
		if xerr != nil || !exist {
			return nil, fmt.Errorf("minio bucket ensure: %w", err)
		}
	}
	return a, nil
}

// ObjectKey is the bucket key for an export created at t.
func ObjectKey(t time.Time, id string) string {
	return path.Join("exports", t.UTC().Format("2006/01/02"), id+".pdf")
}

// Store uploads pdf and returns a presigned download URL.
func (a *MinIOArchive) Store(ctx context.Context, pdf []byte) (string, error) {
	key := ObjectKey(a.now(), uuid.NewString())
	_, err := a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(pdf), int64(len(pdf)), minio.PutObjectOptions{
		ContentType:        "application/pdf",
		ContentDisposition: "attachment; filename=resume.pdf",
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	presigned, err := a.client.PresignedGetObject(ctx, a.bucket, key, a.linkTTL, make(url.Values))
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", key, err)
	}
	return presigned.String(), nil
}

// Ping checks that the bucket is reachable; used by the readiness probe.
func (a *MinIOArchive) Ping(ctx context.Context) error {
	ok, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("bucket %s missing", a.bucket)
	}
	return nil
}
