// Package s3source serves Vite manifests stored in an S3 bucket, for
// deployments that upload the build output to object storage instead of
// shipping it next to the binary.
//
//	client, err := s3source.NewClient(ctx, s3source.ClientOptions{Region: "eu-west-1"})
//	r := assets.NewResolver(assets.Config{Dist: "releases/42/dist"},
//	    assets.WithFileSystem(s3source.New(client, "my-bucket", "")))
//
// S3 has no directories. A key is reported as a directory when other keys
// live below it, which is enough for the .vite/manifest.json lookup.
package s3source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// DefaultTimeout bounds each S3 call.
const DefaultTimeout = 10 * time.Second

// API is the subset of *s3.Client used by FS.
type API interface {
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// FS implements assets.FileSystem on top of a bucket. Names are object keys
// relative to Prefix.
type FS struct {
	client  API
	bucket  string
	prefix  string
	Timeout time.Duration
}

// New returns an FS reading keys below prefix in bucket.
func New(client API, bucket, prefix string) *FS {
	return &FS{
		client:  client,
		bucket:  bucket,
		prefix:  strings.Trim(prefix, "/"),
		Timeout: DefaultTimeout,
	}
}

// key maps a slash-separated name to its object key.
func (f *FS) key(name string) string {
	clean := strings.TrimPrefix(path.Clean("/"+name), "/")
	if f.prefix == "" {
		return clean
	}
	if clean == "" {
		return f.prefix
	}
	return f.prefix + "/" + clean
}

func (f *FS) context() (context.Context, context.CancelFunc) {
	if f.Timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), f.Timeout)
}

// Stat reports an object as a file and a key prefix with objects below it
// as a directory.
func (f *FS) Stat(name string) (fs.FileInfo, error) {
	ctx, cancel := f.context()
	defer cancel()

	key := f.key(name)
	if key != "" {
		out, err := f.client.HeadObject(ctx, &s3.HeadObjectInput{
			Bucket: aws.String(f.bucket),
			Key:    aws.String(key),
		})
		if err == nil {
			return &fileInfo{
				name:    path.Base(key),
				size:    aws.ToInt64(out.ContentLength),
				modTime: aws.ToTime(out.LastModified),
			}, nil
		}
		if !isNotFound(err) {
			return nil, &fs.PathError{Op: "stat", Path: name, Err: err}
		}
	}

	dirPrefix := key + "/"
	if key == "" {
		dirPrefix = ""
	}
	list, err := f.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(f.bucket),
		Prefix:  aws.String(dirPrefix),
		MaxKeys: aws.Int32(1),
	})
	if err != nil {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: err}
	}
	if aws.ToInt32(list.KeyCount) == 0 && len(list.Contents) == 0 {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrNotExist}
	}
	return &fileInfo{name: path.Base(name), dir: true}, nil
}

// ReadFile downloads the object stored under name.
func (f *FS) ReadFile(name string) ([]byte, error) {
	ctx, cancel := f.context()
	defer cancel()

	out, err := f.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(f.key(name)),
	})
	if err != nil {
		if isNotFound(err) {
			err = fs.ErrNotExist
		}
		return nil, &fs.PathError{Op: "read", Path: name, Err: err}
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, &fs.PathError{Op: "read", Path: name, Err: err}
	}
	return data, nil
}

func isNotFound(err error) bool {
	var notFound *types.NotFound
	var noSuchKey *types.NoSuchKey
	return errors.As(err, &notFound) || errors.As(err, &noSuchKey)
}

type fileInfo struct {
	name    string
	size    int64
	modTime time.Time
	dir     bool
}

func (fi *fileInfo) Name() string       { return fi.name }
func (fi *fileInfo) Size() int64        { return fi.size }
func (fi *fileInfo) ModTime() time.Time { return fi.modTime }
func (fi *fileInfo) IsDir() bool        { return fi.dir }
func (fi *fileInfo) Sys() any           { return nil }

func (fi *fileInfo) Mode() fs.FileMode {
	if fi.dir {
		return fs.ModeDir | 0o555
	}
	return 0o444
}

// ClientOptions configures NewClient. Zero fields fall back to the SDK's
// shared configuration.
type ClientOptions struct {
	// Region overrides AWS_REGION and the shared config profile.
	Region string

	// Endpoint overrides the S3 endpoint, e.g. for MinIO or R2.
	Endpoint string

	// UsePathStyle addresses buckets as endpoint/bucket/key.
	UsePathStyle bool
}

// NewClient creates an S3 client from the default AWS configuration chain:
// environment, shared config and credentials files, SSO, and container or
// instance roles.
func NewClient(ctx context.Context, opts ClientOptions) (*s3.Client, error) {
	var loadOpts []func(*config.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(opts.Region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("s3source: load AWS config: %w", err)
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
		o.UsePathStyle = opts.UsePathStyle
	}), nil
}
