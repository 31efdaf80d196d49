package s3

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rotisserie/eris"

	"transcriptome/app/internal/domain/asset"
)

const defaultURLExpiry = 15 * time.Minute

// Config holds the bucket settings for the S3-compatible photo store.
type Config struct {
	Region    string
	Bucket    string
	Endpoint  string // optional; custom endpoint such as MinIO
	Prefix    string
	PathStyle bool
	URLExpiry time.Duration
}

// Store keeps the team photo as an object under Prefix in a single bucket. Photo URLs are
// pre-signed GET URLs.
type Store struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
	prefix  string
	expiry  time.Duration
}

var _ asset.Store = (*Store)(nil)

// New creates an S3 photo store using the default AWS credential chain.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, eris.New("s3 bucket required")
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, eris.Wrap(err, "loading aws configuration")
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return NewWithClient(client, cfg.Bucket, cfg.Prefix, cfg.URLExpiry), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client *s3.Client, bucket, prefix string, expiry time.Duration) *Store {
	if expiry <= 0 {
		expiry = defaultURLExpiry
	}
	return &Store{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  bucket,
		prefix:  prefix,
		expiry:  expiry,
	}
}

// Current returns the first image object under the prefix in key order.
func (s *Store) Current(ctx context.Context) (*asset.Photo, error) {
	keys, err := s.imageKeys(ctx)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, nil
	}
	return s.photo(ctx, keys[0])
}

// Replace deletes every image object under the prefix and uploads r as prefix+name.
func (s *Store) Replace(ctx context.Context, name string, r io.Reader, contentType string) (*asset.Photo, error) {
	if name == "" || strings.Contains(name, "/") {
		return nil, eris.Errorf("invalid photo name %q", name)
	}

	// The SDK needs a seekable body to compute payload checksums.
	body, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, eris.Wrap(err, "reading upload")
		}
		body = bytes.NewReader(data)
	}

	keys, err := s.imageKeys(ctx)
	if err != nil {
		return nil, err
	}
	for _, key := range keys {
		if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: &s.bucket, Key: aws.String(key)}); err != nil {
			return nil, eris.Wrapf(err, "deleting previous photo %s", key)
		}
	}

	key := s.prefix + name
	input := &s3.PutObjectInput{Bucket: &s.bucket, Key: aws.String(key), Body: body}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return nil, eris.Wrapf(err, "uploading photo %s", key)
	}

	return s.photo(ctx, key)
}

func (s *Store) imageKeys(ctx context.Context) ([]string, error) {
	var keys []string
	var token *string
	for {
		out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            &s.bucket,
			Prefix:            aws.String(s.prefix),
			ContinuationToken: token,
		})
		if err != nil {
			return nil, eris.Wrap(err, "listing photos")
		}
		for _, obj := range out.Contents {
			key := aws.ToString(obj.Key)
			name := strings.TrimPrefix(key, s.prefix)
			if strings.Contains(name, "/") || !asset.IsImageName(name) {
				continue
			}
			keys = append(keys, key)
		}
		if aws.ToBool(out.IsTruncated) && out.NextContinuationToken != nil {
			token = out.NextContinuationToken
			continue
		}
		break
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *Store) photo(ctx context.Context, key string) (*asset.Photo, error) {
	signed, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{Bucket: &s.bucket, Key: aws.String(key)},
		func(po *s3.PresignOptions) { po.Expires = s.expiry })
	if err != nil {
		return nil, eris.Wrapf(err, "presigning photo %s", key)
	}
	return &asset.Photo{Name: strings.TrimPrefix(key, s.prefix), URL: signed.URL}, nil
}
