// Package objectstore issues presigned S3 URLs for document uploads and
// downloads. Files never pass through the API: clients PUT directly to
// the bucket and register the resulting key with POST /documents.
package objectstore

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/oklog/ulid/v2"
)

// ErrDisabled is returned when no bucket is configured.
var ErrDisabled = errors.New("object storage is not configured")

// DefaultPresignTTL is used when Config.PresignTTL is zero.
const DefaultPresignTTL = 15 * time.Minute

// Config selects the bucket and how URLs are signed.
type Config struct {
	Region     string
	Bucket     string
	Prefix     string        // optional key prefix, e.g. "claimdesk/"
	Endpoint   string        // S3-compatible endpoint (MinIO, LocalStack); path-style when set
	KMSKeyID   string        // when set, uploads must use SSE-KMS with this key
	PresignTTL time.Duration
}

// Presigner is the subset of *s3.PresignClient the store uses.
type Presigner interface {
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// Remover is the subset of *s3.Client used to delete objects.
type Remover interface {
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Store signs URLs against one bucket. A Store with an empty bucket is
// valid and reports ErrDisabled from every call.
type Store struct {
	cfg     Config
	presign Presigner
	remove  Remover
	now     func() time.Time
}

// New loads AWS credentials from the default chain and builds a Store.
// When cfg.Bucket is empty it returns a disabled Store without touching AWS.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Bucket == "" {
		return &Store{cfg: cfg, now: time.Now}, nil
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewWithClients(cfg, s3.NewPresignClient(client), client), nil
}

// NewWithClients builds a Store around caller-supplied clients.
func NewWithClients(cfg Config, p Presigner, rm Remover) *Store {
	if cfg.PresignTTL <= 0 {
		cfg.PresignTTL = DefaultPresignTTL
	}
	return &Store{cfg: cfg, presign: p, remove: rm, now: time.Now}
}

// Enabled reports whether a bucket is configured.
func (s *Store) Enabled() bool {
	return s != nil && s.cfg.Bucket != "" && s.presign != nil
}

// Upload is a presigned PUT the client performs itself.
type Upload struct {
	URL       string            `json:"url"`
	Key       string            `json:"key"`
	Headers   map[string]string `json:"headers"`
	ExpiresAt time.Time         `json:"expires_at"`
}

// Key builds a time-sortable object key for a file belonging to orgID:
//
//	<prefix>orgs/<org>/clients/<client>/<ulid>-<file>
//
// clientID may be empty for files attached only to a project.
func (s *Store) Key(orgID, clientID, fileName string) string {
	owner := "unassigned"
	if clientID != "" {
		owner = SafeName(clientID)
	}
	return fmt.Sprintf("%sorgs/%s/clients/%s/%s-%s",
		s.cfg.Prefix, orgID, owner, ulid.Make().String(), SafeName(fileName))
}

// OwnedBy reports whether key lives under orgID's key space.
func (s *Store) OwnedBy(orgID, key string) bool {
	return strings.HasPrefix(key, s.cfg.Prefix+"orgs/"+orgID+"/") && !strings.Contains(key, "..")
}

// PresignUpload signs a PUT for key. The returned headers must be sent
// with the upload or the signature will not match.
func (s *Store) PresignUpload(ctx context.Context, key, contentType string) (Upload, error) {
	if !s.Enabled() {
		return Upload{}, ErrDisabled
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}
	headers := map[string]string{"Content-Type": contentType}
	if s.cfg.KMSKeyID != "" {
		input.ServerSideEncryption = types.ServerSideEncryptionAwsKms
		input.SSEKMSKeyId = aws.String(s.cfg.KMSKeyID)
		headers["x-amz-server-side-encryption"] = string(types.ServerSideEncryptionAwsKms)
		headers["x-amz-server-side-encryption-aws-kms-key-id"] = s.cfg.KMSKeyID
	}

	req, err := s.presign.PresignPutObject(ctx, input, func(o *s3.PresignOptions) { o.Expires = s.cfg.PresignTTL })
	if err != nil {
		return Upload{}, fmt.Errorf("presign put %s: %w", key, err)
	}
	return Upload{
		URL:       req.URL,
		Key:       key,
		Headers:   headers,
		ExpiresAt: s.now().UTC().Add(s.cfg.PresignTTL),
	}, nil
}

// PresignDownload signs a GET for key that downloads as fileName.
func (s *Store) PresignDownload(ctx context.Context, key, fileName string) (string, time.Time, error) {
	if !s.Enabled() {
		return "", time.Time{}, ErrDisabled
	}
	input := &s3.GetObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	}
	if fileName != "" {
		input.ResponseContentDisposition = aws.String(fmt.Sprintf("attachment; filename=%q", SafeName(fileName)))
	}
	req, err := s.presign.PresignGetObject(ctx, input, func(o *s3.PresignOptions) { o.Expires = s.cfg.PresignTTL })
	if err != nil {
		return "", time.Time{}, fmt.Errorf("presign get %s: %w", key, err)
	}
	return req.URL, s.now().UTC().Add(s.cfg.PresignTTL), nil
}

// Delete removes key from the bucket.
func (s *Store) Delete(ctx context.Context, key string) error {
	if !s.Enabled() || s.remove == nil {
		return ErrDisabled
	}
	_, err := s.remove.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}

// SafeName reduces a user-supplied file name to letters, digits, dot,
// dash and underscore, at most 100 bytes.
func SafeName(name string) string {
	name = path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	out := strings.Trim(b.String(), ".-")
	if out == "" {
		out = "file"
	}
	if len(out) > 100 {
		out = out[:100]
	}
	return out
}
