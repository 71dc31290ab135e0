// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of erptab

package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/erptab/erptab/internal/config/data"
	"github.com/erptab/erptab/internal/model1"
	"github.com/erptab/erptab/internal/queue"
)

// Sink stores an export and returns where it went.
type Sink interface {
	Put(ctx context.Context, name string, r io.Reader) (string, error)
}

// DirSink writes exports into a local directory.
type DirSink struct {
	Dir string
}

// Put writes the export file.
func (d DirSink) Put(_ context.Context, name string, r io.Reader) (string, error) {
	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	p := filepath.Join(d.Dir, filepath.Base(name))
	f, err := os.Create(p)
	if err != nil {
		return "", fmt.Errorf("create export: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("write export: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close export: %w", err)
	}

	return p, nil
}

// SinkFor returns the S3 sink when ex names a target, otherwise a
// directory sink on ex.Dir or fallbackDir.
func SinkFor(ctx context.Context, ex data.Export, fallbackDir string) (Sink, error) {
	if ex.S3 != "" {
		return LoadS3Sink(ctx, ex.S3Profile, ex.S3Region, ex.S3)
	}
	dir := ex.Dir
	if dir == "" {
		dir = fallbackDir
	}

	return DirSink{Dir: dir}, nil
}

// S3PutAPI is the slice of the S3 client a sink needs.
type S3PutAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// IdentityAPI is the slice of the STS client used to check credentials.
type IdentityAPI interface {
	GetCallerIdentity(ctx context.Context, in *sts.GetCallerIdentityInput, opts ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// CheckIdentity verifies the credentials and returns the account they
// belong to.
func CheckIdentity(ctx context.Context, api IdentityAPI) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, identityTimeout)
	defer cancel()

	out, err := api.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", WrapAWSError(err, "get caller identity")
	}

	return aws.ToString(out.Account), nil
}

const identityTimeout = 10 * time.Second

// S3Sink uploads exports under a bucket prefix.
type S3Sink struct {
	client  S3PutAPI
	bucket  string
	prefix  string
	account string
}

// NewS3Sink returns a sink for a "bucket/prefix" target.
func NewS3Sink(client S3PutAPI, target string) (*S3Sink, error) {
	bucket, prefix, _ := strings.Cut(strings.TrimPrefix(strings.TrimSpace(target), "s3://"), "/")
	if bucket == "" {
		return nil, fmt.Errorf("invalid s3 target %q, expected bucket/prefix", target)
	}

	return &S3Sink{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}, nil
}

// Account returns the AWS account the sink uploads as, when known.
func (s *S3Sink) Account() string {
	return s.account
}

// LoadS3Sink builds a sink using the shared AWS config for profile and
// region. Credentials are checked up front so a bad profile fails here
// rather than on the first export.
func LoadS3Sink(ctx context.Context, profile, region, target string) (*S3Sink, error) {
	var opts []func(*config.LoadOptions) error
	if profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(profile))
	}
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, WrapAWSError(err, "load AWS config")
	}
	account, err := CheckIdentity(ctx, sts.NewFromConfig(cfg))
	if err != nil {
		return nil, err
	}
	sink, err := NewS3Sink(s3.NewFromConfig(cfg), target)
	if err != nil {
		return nil, err
	}
	sink.account = account

	return sink, nil
}

// Put uploads the export.
func (s *S3Sink) Put(ctx context.Context, name string, r io.Reader) (string, error) {
	key := path.Join(s.prefix, path.Base(name))
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        r,
		ContentType: aws.String("text/csv"),
	})
	if err != nil {
		return "", WrapAWSError(err, "put object")
	}

	return "s3://" + s.bucket + "/" + key, nil
}

// ErrAccessDenied is returned when the sink credentials are refused.
var ErrAccessDenied = errors.New("access denied")

// WrapAWSError classifies AWS API errors.
func WrapAWSError(err error, operation string) error {
	if err == nil {
		return nil
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "AccessDenied", "AccessDeniedException", "InvalidAccessKeyId", "SignatureDoesNotMatch",
			"InvalidClientTokenId", "ExpiredToken":
			return fmt.Errorf("%w for %s: %w", ErrAccessDenied, operation, err)
		case "NoSuchBucket":
			return fmt.Errorf("%s: bucket does not exist: %w", operation, err)
		case "SlowDown", "ThrottlingException":
			return fmt.Errorf("rate limited during %s: %w", operation, err)
		default:
			return fmt.Errorf("%s failed: %s (%s)", operation, apiErr.ErrorMessage(), apiErr.ErrorCode())
		}
	}

	return fmt.Errorf("%s failed: %w", operation, err)
}

// Request describes one export job.
type Request struct {
	ID       string
	Table    string
	Header   model1.Header
	Rows     model1.Rows
	Encoding Encoding
}

// FileName returns a timestamped export file name tagged with the short
// request id.
func (r Request) FileName(now time.Time) string {
	name := r.Table + "_" + now.Format("20060102_150405")
	if id := r.shortID(); id != "" {
		name += "_" + id
	}
	return name + ".csv"
}

func (r Request) shortID() string {
	id := strings.ReplaceAll(r.ID, "-", "")
	if len(id) > 8 {
		id = id[:8]
	}
	return id
}

// Run encodes the rows and stores them in the sink.
func Run(ctx context.Context, sink Sink, req Request) (string, error) {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, req.Header, req.Rows, req.Encoding); err != nil {
		return "", err
	}

	return sink.Put(ctx, req.FileName(time.Now()), &buf)
}

// QueueName is the queue export jobs run on.
const QueueName = "export"

// Handler returns a queue handler running export requests.
func Handler(sink Sink, log *zap.Logger, done func(loc string, err error)) queue.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return func(ctx context.Context, j queue.Job) error {
		req, ok := j.Payload.(Request)
		if !ok {
			return fmt.Errorf("export job %s: unexpected payload %T", j.ID, j.Payload)
		}
		req.ID = j.ID
		loc, err := Run(ctx, sink, req)
		if done != nil {
			done(loc, err)
		}
		if err != nil {
			return err
		}
		log.Info("export written",
			zap.String("job", j.ID),
			zap.String("table", req.Table),
			zap.Int("rows", len(req.Rows)),
			zap.String("location", loc))
		return nil
	}
}
