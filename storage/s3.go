package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	cmap "github.com/orcaman/concurrent-map/v2"
)

const presignViewURLFor = 15 * time.Minute

type S3Storage struct {
	Bucket   Bucket
	s3Client *s3.S3
	// keys being created by this process
	creating cmap.ConcurrentMap[string, bool]
}

func NewS3Storage(bucket *Bucket) (*S3Storage, error) {
	svc, err := bucket.CreateSVC()
	if err != nil {
		return nil, err
	}
	return &S3Storage{
		Bucket:   *bucket,
		s3Client: svc,
		creating: cmap.New[bool](),
	}, nil
}

// CreateSVC creates a S3 client from the bucket's region, endpoint and "key:secret" auth details
func (b *Bucket) CreateSVC() (*s3.S3, error) {
	key, secret, _ := strings.Cut(b.AuthDetails, ":")
	cfg := aws.NewConfig().WithRegion(b.Region)
	if key != "" {
		cfg = cfg.WithCredentials(credentials.NewStaticCredentials(key, secret, ""))
	}
	if b.Endpoint != "" {
		// S3 compatible services usually need path style addressing
		cfg = cfg.WithEndpoint(b.Endpoint).WithS3ForcePathStyle(true)
	}
	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating S3 session: %w", err)
	}
	return s3.New(sess), nil
}

func isS3NotFound(err error) bool {
	var reqErr awserr.RequestFailure
	if errors.As(err, &reqErr) && reqErr.StatusCode() == http.StatusNotFound {
		return true
	}
	var awsErr awserr.Error
	if errors.As(err, &awsErr) {
		switch awsErr.Code() {
		case s3.ErrCodeNoSuchKey, "NotFound":
			return true
		}
	}
	return false
}

func (s *S3Storage) Save(path string, reader io.Reader) (int64, error) {
	counter := &countingReader{r: reader}
	uploader := s3manager.NewUploaderWithClient(s.s3Client)
	input := s3manager.UploadInput{
		Bucket: &s.Bucket.Name,
		Key:    aws.String(s.Bucket.GetRemotePath(path)),
		Body:   counter,
	}
	if s.Bucket.SSEEncryption != "" {
		input.ServerSideEncryption = &s.Bucket.SSEEncryption
	}
	if _, err := uploader.Upload(&input); err != nil {
		return 0, err
	}
	return counter.n, nil
}

// Create reserves the key in this process, then uploads only if no object exists yet.
// Concurrent creates from other processes sharing the bucket are not detected.
func (s *S3Storage) Create(path string, reader io.Reader) (int64, error) {
	key := s.Bucket.GetRemotePath(path)
	if !s.creating.SetIfAbsent(key, true) {
		return 0, fmt.Errorf("%s: %w", path, fs.ErrExist)
	}
	defer s.creating.Remove(key)
	_, err := s.Stat(path)
	if err == nil {
		return 0, fmt.Errorf("%s: %w", path, fs.ErrExist)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return 0, err
	}
	return s.Save(path, reader)
}

func (s *S3Storage) Open(path string) (io.ReadCloser, error) {
	resp, err := s.s3Client.GetObject(&s3.GetObjectInput{
		Bucket: &s.Bucket.Name,
		Key:    aws.String(s.Bucket.GetRemotePath(path)),
	})
	if err != nil {
		if isS3NotFound(err) {
			return nil, fmt.Errorf("%s: %w", path, fs.ErrNotExist)
		}
		return nil, err
	}
	return resp.Body, nil
}

func (s *S3Storage) Stat(path string) (FileInfo, error) {
	resp, err := s.s3Client.HeadObject(&s3.HeadObjectInput{
		Bucket: &s.Bucket.Name,
		Key:    aws.String(s.Bucket.GetRemotePath(path)),
	})
	if err != nil {
		if isS3NotFound(err) {
			return FileInfo{}, fmt.Errorf("%s: %w", path, fs.ErrNotExist)
		}
		return FileInfo{}, err
	}
	return FileInfo{
		Size:    aws.Int64Value(resp.ContentLength),
		ModTime: aws.TimeValue(resp.LastModified),
	}, nil
}

// Serve redirects to a short lived pre-signed URL
func (s *S3Storage) Serve(path string, request *http.Request, writer http.ResponseWriter) {
	req, _ := s.s3Client.GetObjectRequest(&s3.GetObjectInput{
		Bucket: &s.Bucket.Name,
		Key:    aws.String(s.Bucket.GetRemotePath(path)),
	})
	url, err := req.Presign(presignViewURLFor)
	if err != nil {
		slog.Error("S3 presign failed", "path", path, "error", err)
		http.Error(writer, "storage error", http.StatusInternalServerError)
		return
	}
	http.Redirect(writer, request, url, http.StatusFound)
}

func (s *S3Storage) Delete(path string) error {
	_, err := s.s3Client.DeleteObject(&s3.DeleteObjectInput{
		Bucket: &s.Bucket.Name,
		Key:    aws.String(s.Bucket.GetRemotePath(path)),
	})
	if err != nil && !isS3NotFound(err) {
		return err
	}
	return nil
}

func (s *S3Storage) DeleteDir(dir string) error {
	iter := s3manager.NewDeleteListIterator(s.s3Client, &s3.ListObjectsInput{
		Bucket: &s.Bucket.Name,
		Prefix: aws.String(s.Bucket.GetRemotePath(dir) + "/"),
	})
	return s3manager.NewBatchDeleteWithClient(s.s3Client).Delete(aws.BackgroundContext(), iter)
}

func (s *S3Storage) GetBucket() *Bucket {
	return &s.Bucket
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
