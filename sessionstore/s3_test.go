// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sessionstore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/bureau-foundation/ttyview/lib/testutil"
)

type fakeObject struct {
	data     []byte
	modified time.Time
}

// fakeS3 serves an in-memory bucket, pageSize keys per listing page.
type fakeS3 struct {
	mu       sync.Mutex
	objects  map[string]fakeObject
	pageSize int
	getErr   error
	listed   int
}

func (f *fakeS3) ListObjectsV2(_ context.Context, params *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listed++

	var keys []string
	for key := range f.objects {
		if strings.HasPrefix(key, aws.ToString(params.Prefix)) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	start := 0
	if token := aws.ToString(params.ContinuationToken); token != "" {
		start, _ = strconv.Atoi(token)
	}
	end := min(start+f.pageSize, len(keys))

	output := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(end < len(keys))}
	if end < len(keys) {
		output.NextContinuationToken = aws.String(strconv.Itoa(end))
	}
	for _, key := range keys[start:end] {
		object := f.objects[key]
		output.Contents = append(output.Contents, types.Object{
			Key:          aws.String(key),
			Size:         aws.Int64(int64(len(object.data))),
			LastModified: aws.Time(object.modified),
		})
	}
	return output, nil
}

func (f *fakeS3) GetObject(_ context.Context, params *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	object, ok := f.objects[aws.ToString(params.Key)]
	if !ok {
		return nil, &types.NoSuchKey{Message: aws.String("The specified key does not exist.")}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(object.data))}, nil
}

func TestS3ListPaginates(t *testing.T) {
	t.Parallel()
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	fake := &fakeS3{pageSize: 2, objects: map[string]fakeObject{
		"tty_logs/a":        {data: []byte("1"), modified: base},
		"tty_logs/b":        {data: []byte("22"), modified: base.Add(3 * time.Minute)},
		"tty_logs/c.zst":    {data: []byte("333"), modified: base.Add(time.Minute)},
		"tty_logs/nested/d": {data: []byte("4"), modified: base.Add(time.Hour)},
		"tty_logs/":         {modified: base.Add(time.Hour)},
		"other/e":           {data: []byte("5"), modified: base.Add(time.Hour)},
	}}

	sessions, err := NewS3(fake, "bucket", "tty_logs/").List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if got := names(sessions); strings.Join(got, ",") != "b,c.zst,a" {
		t.Fatalf("List names = %v, want [b c.zst a]", got)
	}
	if sessions[0].Size != 2 {
		t.Errorf("size = %d, want 2", sessions[0].Size)
	}
	if fake.listed < 3 {
		t.Errorf("ListObjectsV2 called %d times, want pagination over at least 3 pages", fake.listed)
	}
}

func TestS3ListEmpty(t *testing.T) {
	t.Parallel()
	sessions, err := NewS3(&fakeS3{pageSize: 10}, "bucket", "tty_logs/").List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if sessions == nil || len(sessions) != 0 {
		t.Fatalf("List = %#v, want empty non-nil slice", sessions)
	}
}

func TestS3Get(t *testing.T) {
	t.Parallel()
	capture := testutil.Capture(testutil.OutputRecord(2, 5, "remote"))
	fake := &fakeS3{pageSize: 10, objects: map[string]fakeObject{
		"tty_logs/raw":     {data: capture},
		"tty_logs/pack.gz": {data: compressed(t, CompressionGzip, capture)},
	}}
	store := NewS3(fake, "bucket", "tty_logs/")
	ctx := context.Background()

	for _, name := range []string{"raw", "pack.gz", "pack"} {
		data, err := store.Get(ctx, name)
		if err != nil {
			t.Fatalf("Get(%q): %v", name, err)
		}
		if !bytes.Equal(data, capture) {
			t.Errorf("Get(%q) returned different bytes", name)
		}
	}

	if _, err := store.Get(ctx, "absent"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(absent) = %v, want ErrNotFound", err)
	}
	if _, err := store.Get(ctx, "a/b"); !errors.Is(err, ErrInvalidName) {
		t.Errorf("Get(a/b) = %v, want ErrInvalidName", err)
	}
}

func TestS3GetErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name         string
		err          error
		wantNotFound bool
	}{
		{name: "generic NotFound code", err: &smithy.GenericAPIError{Code: "NotFound"}, wantNotFound: true},
		{name: "access denied", err: &smithy.GenericAPIError{Code: "AccessDenied"}},
		{name: "transport", err: errors.New("connection refused")},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			store := NewS3(&fakeS3{pageSize: 1, getErr: test.err}, "bucket", "tty_logs/")
			_, err := store.Get(context.Background(), "x")
			if err == nil {
				t.Fatal("Get: expected error")
			}
			if got := errors.Is(err, ErrNotFound); got != test.wantNotFound {
				t.Fatalf("errors.Is(%v, ErrNotFound) = %v, want %v", err, got, test.wantNotFound)
			}
		})
	}
}
