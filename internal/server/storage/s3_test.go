package storage

import (
	"context"
	"errors"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testS3Config() S3Config {
	return S3Config{
		Region:       "us-east-1",
		AccessKey:    "minioadmin",
		SecretKey:    "minioadmin",
		Bucket:       "attachments",
		BaseEndpoint: "http://127.0.0.1:9000",
	}
}

// Presigning is local computation, so the real client can be exercised
// without an object store.
func TestS3Presigner_RealSigning(t *testing.T) {
	p, err := NewS3Presigner(context.Background(), testS3Config())
	require.NoError(t, err)

	put, err := p.PresignPut(context.Background(), "posts/2024/05/01/abc")
	require.NoError(t, err)

	u, err := url.Parse(put)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", u.Host)
	assert.Equal(t, "/attachments/posts/2024/05/01/abc", u.Path)
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
	assert.Equal(t, "900", u.Query().Get("X-Amz-Expires"))

	get, err := p.PresignGet(context.Background(), "posts/2024/05/01/abc")
	require.NoError(t, err)
	assert.NotEqual(t, put, get)
	assert.Contains(t, get, "/attachments/posts/2024/05/01/abc")
}

func TestNewS3Presigner_ConfigError(t *testing.T) {
	orig := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = orig })

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			if err := fn(&lo); err != nil {
				t.Fatalf("load options fn error: %v", err)
			}
		}
		if lo.Region != "us-east-1" {
			t.Fatalf("region not applied: %q", lo.Region)
		}
		return aws.Config{}, errors.New("load-fail")
	}

	_, err := NewS3Presigner(context.Background(), testS3Config())
	if err == nil || err.Error() != "load-fail" {
		t.Fatalf("expected load-fail, got %v", err)
	}
}

func TestNewS3Presigner_ClientOptions(t *testing.T) {
	orig := newS3ClientFromConfig
	t.Cleanup(func() { newS3ClientFromConfig = orig })

	var opts s3.Options
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		for _, fn := range optFns {
			fn(&opts)
		}
		return orig(cfg, optFns...)
	}

	_, err := NewS3Presigner(context.Background(), testS3Config())
	require.NoError(t, err)
	require.NotNil(t, opts.BaseEndpoint)
	assert.Equal(t, "http://127.0.0.1:9000", *opts.BaseEndpoint)
	assert.True(t, opts.UsePathStyle)
}

func TestS3Presigner_PresignErrors(t *testing.T) {
	origPut, origGet := presignPutObject, presignGetObject
	t.Cleanup(func() {
		presignPutObject = origPut
		presignGetObject = origGet
	})

	presignPutObject = func(*s3.PresignClient, context.Context, *s3.PutObjectInput, ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return nil, errors.New("put-fail")
	}
	presignGetObject = func(*s3.PresignClient, context.Context, *s3.GetObjectInput, ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return nil, errors.New("get-fail")
	}

	p, err := NewS3Presigner(context.Background(), testS3Config())
	require.NoError(t, err)

	_, err = p.PresignPut(context.Background(), "k")
	assert.ErrorContains(t, err, "put-fail")
	_, err = p.PresignGet(context.Background(), "k")
	assert.ErrorContains(t, err, "get-fail")
}

func TestNewStorageKey(t *testing.T) {
	now := time.Date(2024, 3, 7, 23, 0, 0, 0, time.UTC)

	a := NewStorageKey(now)
	b := NewStorageKey(now)

	assert.Regexp(t, regexp.MustCompile(`^posts/2024/03/07/[0-9a-f-]{36}$`), a)
	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(b, "posts/2024/03/07/"))
}
