package s3

import (
	"context"
	"errors"
	"io"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cropdev/crop-backend/pkg/config"
)

type stubUploader struct {
	input *awss3.PutObjectInput
	body  []byte
	err   error
}

func (s *stubUploader) Upload(_ context.Context, in *awss3.PutObjectInput, _ ...func(*manager.Uploader)) (*manager.UploadOutput, error) {
	s.input = in
	if in.Body != nil {
		s.body, _ = io.ReadAll(in.Body)
	}
	if s.err != nil {
		return nil, s.err
	}
	return &manager.UploadOutput{Key: in.Key}, nil
}

type stubObjects struct {
	deleted  []string
	headErr  error
	pingErr  error
	deleteEr error
}

func (s *stubObjects) DeleteObject(_ context.Context, in *awss3.DeleteObjectInput, _ ...func(*awss3.Options)) (*awss3.DeleteObjectOutput, error) {
	s.deleted = append(s.deleted, aws.ToString(in.Key))
	return &awss3.DeleteObjectOutput{}, s.deleteEr
}

func (s *stubObjects) HeadObject(context.Context, *awss3.HeadObjectInput, ...func(*awss3.Options)) (*awss3.HeadObjectOutput, error) {
	if s.headErr != nil {
		return nil, s.headErr
	}
	return &awss3.HeadObjectOutput{}, nil
}

func (s *stubObjects) HeadBucket(context.Context, *awss3.HeadBucketInput, ...func(*awss3.Options)) (*awss3.HeadBucketOutput, error) {
	return &awss3.HeadBucketOutput{}, s.pingErr
}

func TestUploadSendsMetadataAndReturnsPublicURL(t *testing.T) {
	up := &stubUploader{}
	client := &Client{uploader: up, bucket: "crop-media", publicURL: "https://cdn.example.com"}

	got, err := client.Upload(context.Background(), "image/abc", []byte("png"), "image/png", map[string]string{
		"uploadedBy":   "user-1",
		"originalName": "mi foto.png",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/image/abc", got)
	assert.Equal(t, "crop-media", client.Bucket())
	assert.Equal(t, client.Bucket(), aws.ToString(up.input.Bucket))
	assert.Equal(t, "image/png", aws.ToString(up.input.ContentType))
	assert.Equal(t, "mi+foto.png", up.input.Metadata["originalName"])
	assert.Equal(t, []byte("png"), up.body)
}

func TestUploadPropagatesErrors(t *testing.T) {
	client := &Client{uploader: &stubUploader{err: errors.New("timeout")}, bucket: "b"}
	_, err := client.Upload(context.Background(), "k", []byte("x"), "image/png", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout")
}

func TestPublicURLFallbacks(t *testing.T) {
	assert.Equal(t, "https://cdn.example.com/a/b", (&Client{publicURL: "https://cdn.example.com"}).PublicURL("a/b"))
	assert.Equal(t, "http://minio:9000/crop-media/a/b", (&Client{endpoint: "http://minio:9000", bucket: "crop-media"}).PublicURL("a/b"))
	assert.Equal(t, "https://crop-media.s3.us-east-1.amazonaws.com/a/b", (&Client{bucket: "crop-media", region: "us-east-1"}).PublicURL("a/b"))
	assert.Equal(t, "", (&Client{bucket: "crop-media", region: "auto"}).PublicURL("a/b"))
	assert.Equal(t, "https://cdn.example.com/a/hello%20world", (&Client{publicURL: "https://cdn.example.com"}).PublicURL("a/hello world"))
}

func TestGenerateKey(t *testing.T) {
	key := GenerateKey("/image/")
	require.True(t, strings.HasPrefix(key, "image/"), key)
	assert.Len(t, strings.TrimPrefix(key, "image/"), 36)
	assert.NotEqual(t, key, GenerateKey("image"))
	assert.NotContains(t, GenerateKey(""), "/")
}

func TestExists(t *testing.T) {
	objects := &stubObjects{}
	client := &Client{objects: objects, bucket: "b"}

	ok, err := client.Exists(context.Background(), "k")
	require.NoError(t, err)
	assert.True(t, ok)

	objects.headErr = &types.NotFound{}
	ok, err = client.Exists(context.Background(), "k")
	require.NoError(t, err)
	assert.False(t, ok)

	objects.headErr = errors.New("connection reset")
	_, err = client.Exists(context.Background(), "k")
	require.Error(t, err)
}

func TestDeleteAndPing(t *testing.T) {
	objects := &stubObjects{}
	client := &Client{objects: objects, bucket: "b"}

	require.NoError(t, client.Delete(context.Background(), "image/1"))
	assert.Equal(t, []string{"image/1"}, objects.deleted)

	require.NoError(t, client.Ping(context.Background()))
	objects.pingErr = errors.New("forbidden")
	require.Error(t, client.Ping(context.Background()))
}

func TestSignedURLUsesExpiry(t *testing.T) {
	client := newFromAWSConfig(aws.Config{
		Region:      "auto",
		Credentials: credentials.NewStaticCredentialsProvider("AKID", "SECRET", ""),
	}, config.S3Config{
		BucketName:     "crop-media",
		Endpoint:       "http://localhost:9000",
		ForcePathStyle: true,
	})

	raw, err := client.SignedURL(context.Background(), "image/abc", 10*time.Minute)
	require.NoError(t, err)

	parsed, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "localhost:9000", parsed.Host)
	assert.Equal(t, "/crop-media/image/abc", parsed.Path)
	assert.Equal(t, "600", parsed.Query().Get("X-Amz-Expires"))
}
