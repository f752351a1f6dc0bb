// Package s3archive stores finished routes as GeoJSON objects in S3.
package s3archive

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/samirrijal/routemap/internal/core/domain"
)

// putObjectAPI is the part of *s3.Client the archive needs.
type putObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Archive implements ports.RouteArchive.
type Archive struct {
	client putObjectAPI
	bucket string
	prefix string
}

// New loads the default AWS configuration for region and returns an archive
// writing to bucket under prefix.
func New(ctx context.Context, region, bucket, prefix string) (*Archive, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return NewWithClient(s3.NewFromConfig(cfg), bucket, prefix), nil
}

// NewWithClient builds an archive on an existing client.
func NewWithClient(client putObjectAPI, bucket, prefix string) *Archive {
	return &Archive{client: client, bucket: bucket, prefix: prefix}
}

// Key returns the object key for a lookup: <prefix>/YYYY/MM/DD/<id>.geojson.
func (a *Archive) Key(l *domain.Lookup) string {
	return path.Join(a.prefix, l.CreatedAt.UTC().Format("2006/01/02"), l.ID+".geojson")
}

// Put uploads the GeoJSON document of a lookup.
func (a *Archive) Put(ctx context.Context, l *domain.Lookup, geojson []byte) error {
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(a.Key(l)),
		Body:        bytes.NewReader(geojson),
		ContentType: aws.String("application/geo+json"),
		Metadata: map[string]string{
			"session-id": l.SessionID,
			"state":      l.State,
		},
	})
	if err != nil {
		return fmt.Errorf("put s3://%s/%s: %w", a.bucket, a.Key(l), err)
	}
	return nil
}
