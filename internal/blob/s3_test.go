package blob

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	putInput    *s3.PutObjectInput
	putBody     []byte
	deleteInput *s3.DeleteObjectInput
	err         error
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.putInput = in
	body, _ := io.ReadAll(in.Body)
	f.putBody = body
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deleteInput = in
	if f.err != nil {
		return nil, f.err
	}
	return &s3.DeleteObjectOutput{}, nil
}

func TestStore_Put(t *testing.T) {
	client := &fakeS3{}
	store := New(client, "question-connection-profiles", "ap-northeast-1", nil)

	err := store.Put(context.Background(), ProfileImageKey("u1"), []byte{0xFF, 0xD8}, "image/jpeg")
	require.NoError(t, err)

	assert.Equal(t, "question-connection-profiles", aws.ToString(client.putInput.Bucket))
	assert.Equal(t, "profile-images/u1/profile.jpg", aws.ToString(client.putInput.Key))
	assert.Equal(t, "image/jpeg", aws.ToString(client.putInput.ContentType))
	assert.Equal(t, []byte{0xFF, 0xD8}, client.putBody)
}

func TestStore_DeleteWrapsError(t *testing.T) {
	boom := errors.New("access denied")
	store := New(&fakeS3{err: boom}, "b", "r", nil)

	err := store.Delete(context.Background(), "k")
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "k")
}

func TestStore_URLRoundTrip(t *testing.T) {
	store := New(&fakeS3{}, "question-connection-profiles", "ap-northeast-1", nil)
	key := ProfileImageKey("abc-123")

	url := store.URL(key)

	assert.Equal(t, "https://question-connection-profiles.s3.ap-northeast-1.amazonaws.com/profile-images/abc-123/profile.jpg", url)
	assert.Equal(t, key, KeyFromURL(url))
}

func TestKeyFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://b.s3.r.amazonaws.com/a/b/c.jpg", "a/b/c.jpg"},
		{"https://cdn.example.com/a.jpg", ""},
		{"", ""},
		{"https://x.amazonaws.com/y.amazonaws.com/z", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, KeyFromURL(tt.url), tt.url)
	}
}
