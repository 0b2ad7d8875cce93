package media

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type capturingPutter struct {
	input  *s3.PutObjectInput
	putErr error
}

func (c *capturingPutter) PutObject(_ context.Context, input *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if c.putErr != nil {
		return nil, c.putErr
	}
	c.input = input
	return &s3.PutObjectOutput{}, nil
}

func dataURL(contentType string, body []byte) string {
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(body)
}

func TestUploadDataURLPutsDecodedObject(t *testing.T) {
	putter := &capturingPutter{}
	storage := newStorage(putter, StorageConfig{Bucket: "emberwords-media", PublicBaseURL: "https://media.example.com/"})

	url, err := storage.UploadDataURL(context.Background(), dataURL("image/jpeg", []byte("jpeg bytes")), "memories/mem-1_42.jpg")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	if url != "https://media.example.com/memories/mem-1_42.jpg" {
		t.Fatalf("unexpected public url %q", url)
	}
	if putter.input == nil {
		t.Fatal("put object was not called")
	}
	if got := *putter.input.Bucket; got != "emberwords-media" {
		t.Fatalf("unexpected bucket %q", got)
	}
	if got := *putter.input.Key; got != "memories/mem-1_42.jpg" {
		t.Fatalf("unexpected key %q", got)
	}
	if got := *putter.input.ContentType; got != "image/jpeg" {
		t.Fatalf("unexpected content type %q", got)
	}
	body, err := io.ReadAll(putter.input.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if string(body) != "jpeg bytes" {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestUploadDataURLDefaultPublicBase(t *testing.T) {
	putter := &capturingPutter{}
	storage := newStorage(putter, StorageConfig{Bucket: "emberwords-media", Region: "eu-west-1"})

	url, err := storage.UploadDataURL(context.Background(), dataURL("image/png", []byte{1}), "memories/a.jpg")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if url != "https://emberwords-media.s3.eu-west-1.amazonaws.com/memories/a.jpg" {
		t.Fatalf("unexpected public url %q", url)
	}
}

func TestUploadDataURLRejectsMalformedInput(t *testing.T) {
	storage := newStorage(&capturingPutter{}, StorageConfig{Bucket: "b"})

	cases := []struct {
		name    string
		dataURL string
		path    string
		want    error
	}{
		{name: "no data prefix", dataURL: "image/jpeg;base64,aGk=", path: "p", want: ErrInvalidDataURL},
		{name: "not base64 encoded", dataURL: "data:image/jpeg,aGk=", path: "p", want: ErrInvalidDataURL},
		{name: "missing content type", dataURL: "data:;base64,aGk=", path: "p", want: ErrInvalidDataURL},
		{name: "invalid base64 payload", dataURL: "data:image/jpeg;base64,!!!", path: "p", want: ErrInvalidDataURL},
		{name: "empty path", dataURL: dataURL("image/jpeg", []byte("x")), path: "  ", want: ErrInvalidPath},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := storage.UploadDataURL(context.Background(), tc.dataURL, tc.path); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestUploadDataURLPropagatesPutFailure(t *testing.T) {
	putter := &capturingPutter{putErr: errors.New("access denied")}
	storage := newStorage(putter, StorageConfig{Bucket: "b"})

	if _, err := storage.UploadDataURL(context.Background(), dataURL("image/jpeg", []byte("x")), "p"); err == nil {
		t.Fatal("expected error from failing put")
	}
}

func TestMemoryImagePath(t *testing.T) {
	now := time.UnixMilli(1700000000000).UTC()
	if got := MemoryImagePath("mem-1", now); got != "memories/mem-1_1700000000000.jpg" {
		t.Fatalf("unexpected path %q", got)
	}
}
