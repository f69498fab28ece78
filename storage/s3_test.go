package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"mediaengine/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

func TestObjectKey(t *testing.T) {
	cases := []struct {
		prefix, id, name string
		want             string
	}{
		{"", "abc", "final.mp4", "abc/final.mp4"},
		{"tv/daily/", "abc", "final.mp4", "tv/daily/abc/final.mp4"},
		{"/videos", "abc", "subs.srt", "videos/abc/subs.srt"},
	}
	for _, c := range cases {
		if got := ObjectKey(c.prefix, c.id, c.name); got != c.want {
			t.Errorf("ObjectKey(%q, %q, %q) = %q; want %q", c.prefix, c.id, c.name, got, c.want)
		}
	}
}

func TestContentType(t *testing.T) {
	cases := map[string]string{
		"out/final.MP4": "video/mp4",
		"subs.srt":      "application/x-subrip",
		"blob":          "application/octet-stream",
	}
	for name, want := range cases {
		if got := ContentType(name); got != want {
			t.Errorf("ContentType(%q) = %q; want %q", name, got, want)
		}
	}
}

func TestIsNotFound(t *testing.T) {
	notFound := &smithy.GenericAPIError{Code: "NotFound", Message: "missing"}
	if !isNotFound(fmt.Errorf("head: %w", notFound)) {
		t.Error("wrapped NotFound api error should be reported as not found")
	}
	denied := &smithy.GenericAPIError{Code: "AccessDenied"}
	if isNotFound(denied) {
		t.Error("AccessDenied is not a missing object")
	}
	if isNotFound(errors.New("network down")) {
		t.Error("plain errors are not a missing object")
	}
}

func TestNewS3RequiresBucket(t *testing.T) {
	if _, err := NewS3(context.Background(), config.S3Config{}); err == nil {
		t.Fatal("expected an error without a bucket")
	}
}

type fakeObjects struct {
	objects map[string][]byte
	types   map[string]string
	hide    bool
	headErr error
}

func newFakeObjects() *fakeObjects {
	return &fakeObjects{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeObjects) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	key := aws.ToString(in.Key)
	if !f.hide {
		f.objects[key] = body
	}
	f.types[key] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeObjects) HeadObject(ctx context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	if f.headErr != nil {
		return nil, f.headErr
	}
	if _, ok := f.objects[aws.ToString(in.Key)]; !ok {
		return nil, &smithy.GenericAPIError{Code: "NotFound"}
	}
	return &s3.HeadObjectOutput{}, nil
}

func TestUploadArtifact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "final.mp4")
	if err := os.WriteFile(path, []byte("video"), 0o644); err != nil {
		t.Fatal(err)
	}

	objects := newFakeObjects()
	store := &S3{client: objects, bucket: "media", prefix: "tv/"}

	key, err := store.UploadArtifact(context.Background(), "job-1", path)
	if err != nil {
		t.Fatalf("UploadArtifact: %v", err)
	}
	if key != "tv/job-1/final.mp4" {
		t.Fatalf("key = %q", key)
	}
	if string(objects.objects[key]) != "video" || objects.types[key] != "video/mp4" {
		t.Fatalf("stored %q as %q", objects.objects[key], objects.types[key])
	}

	ok, err := store.Exists(context.Background(), "tv/job-2/final.mp4")
	if err != nil || ok {
		t.Fatalf("Exists on a missing key = %v, %v", ok, err)
	}
}

func TestUploadArtifactVerifiesObject(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subs.srt")
	if err := os.WriteFile(path, []byte("1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	objects := newFakeObjects()
	objects.hide = true
	store := &S3{client: objects, bucket: "media"}
	if _, err := store.UploadArtifact(context.Background(), "job-1", path); err == nil {
		t.Fatal("expected an error when the object is not visible after upload")
	}

	objects = newFakeObjects()
	objects.headErr = errors.New("access denied")
	store = &S3{client: objects, bucket: "media"}
	if _, err := store.UploadArtifact(context.Background(), "job-1", path); err == nil {
		t.Fatal("expected head errors to fail the upload")
	}
}

func TestUploadArtifactMissingFile(t *testing.T) {
	store := &S3{client: newFakeObjects(), bucket: "media"}
	if _, err := store.UploadArtifact(context.Background(), "job-1", filepath.Join(t.TempDir(), "nope.mp4")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
