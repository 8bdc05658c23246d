package store

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirxray/internal/config"
)

type fakeObject struct {
	data         []byte
	lastModified time.Time
}

// fakeS3 is an in-memory bucket implementing s3API and uploader.
// Listings are paged two keys at a time.
type fakeS3 struct {
	mu      sync.Mutex
	bucket  string
	objects map[string]fakeObject
	now     time.Time
	headErr error
}

func newFakeS3(bucket string) *fakeS3 {
	return &fakeS3{
		bucket:  bucket,
		objects: make(map[string]fakeObject),
		now:     time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
	}
}

func (f *fakeS3) HeadBucket(_ context.Context, in *s3.HeadBucketInput, _ ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	if aws.ToString(in.Bucket) != f.bucket {
		return nil, &types.NotFound{}
	}
	return &s3.HeadBucketOutput{}, nil
}

func (f *fakeS3) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.headErr != nil {
		return nil, f.headErr
	}
	obj, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NotFound{}
	}
	return &s3.HeadObjectOutput{
		ContentLength: aws.Int64(int64(len(obj.data))),
		LastModified:  aws.Time(obj.lastModified),
	}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	obj, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{
		Body:          io.NopCloser(bytes.NewReader(obj.data)),
		ContentLength: aws.Int64(int64(len(obj.data))),
		LastModified:  aws.Time(obj.lastModified),
	}, nil
}

func (f *fakeS3) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var keys []string
	for k := range f.objects {
		if strings.HasPrefix(k, aws.ToString(in.Prefix)) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	start := 0
	if tok := aws.ToString(in.ContinuationToken); tok != "" {
		start, _ = strconv.Atoi(tok)
	}
	end := min(start+2, len(keys))

	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(end < len(keys))}
	for _, k := range keys[start:end] {
		obj := f.objects[k]
		out.Contents = append(out.Contents, types.Object{
			Key:          aws.String(k),
			Size:         aws.Int64(int64(len(obj.data))),
			LastModified: aws.Time(obj.lastModified),
		})
	}
	if end < len(keys) {
		out.NextContinuationToken = aws.String(strconv.Itoa(end))
	}
	return out, nil
}

func (f *fakeS3) Upload(_ context.Context, in *s3.PutObjectInput, _ ...func(*manager.Uploader)) (*manager.UploadOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(time.Minute)
	f.objects[aws.ToString(in.Key)] = fakeObject{data: data, lastModified: f.now}
	return &manager.UploadOutput{Key: in.Key}, nil
}

func TestS3Store_PutGetStat(t *testing.T) {
	fake := newFakeS3("bucket")
	s := newS3Store(fake, fake, "bucket", "/laptop/")

	put(t, s, "xray_20240115_103000.xray", "payload")
	assert.Contains(t, fake.objects, "laptop/xray_20240115_103000.xray")

	var buf bytes.Buffer
	info, err := s.Get("xray_20240115_103000.xray", &buf)
	require.NoError(t, err)
	assert.Equal(t, "payload", buf.String())
	assert.Equal(t, int64(7), info.Size)
	assert.Equal(t, fake.objects["laptop/xray_20240115_103000.xray"].lastModified, info.StoredAt)

	stat, err := s.Stat("xray_20240115_103000.xray")
	require.NoError(t, err)
	assert.Equal(t, info, stat)
}

func TestS3Store_Missing(t *testing.T) {
	fake := newFakeS3("bucket")
	s := newS3Store(fake, fake, "bucket", "")

	var buf bytes.Buffer
	_, err := s.Get("xray_20240115_103000.xray", &buf)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	_, err = s.Stat("xray_20240115_103000.xray")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestS3Store_PutRefusesOverwrite(t *testing.T) {
	fake := newFakeS3("bucket")
	s := newS3Store(fake, fake, "bucket", "")

	put(t, s, "xray_20240115_103000.xray", "first")
	err := s.Put("xray_20240115_103000.xray", strings.NewReader("second"), 6)
	assert.ErrorIs(t, err, fs.ErrExist)
}

func TestS3Store_PutHeadFailure(t *testing.T) {
	fake := newFakeS3("bucket")
	fake.headErr = errors.New("access denied")
	s := newS3Store(fake, fake, "bucket", "")

	err := s.Put("xray_20240115_103000.xray", strings.NewReader("x"), 1)
	require.Error(t, err)
	assert.Empty(t, fake.objects)
}

func TestS3Store_ListPagesAndFilters(t *testing.T) {
	fake := newFakeS3("bucket")
	s := newS3Store(fake, fake, "bucket", "laptop")

	for _, name := range []string{
		"xray_20240117_080000.xray",
		"xray_20240115_103000.xray",
		"xray_20240116_090000.xray",
	} {
		put(t, s, name, name)
	}
	fake.objects["laptop/nested/xray_20240101_000000.xray"] = fakeObject{data: []byte("x")}
	fake.objects["laptop/readme.txt"] = fakeObject{data: []byte("x")}
	fake.objects["desktop/xray_20240101_000000.xray"] = fakeObject{data: []byte("x")}

	infos, err := s.List()
	require.NoError(t, err)

	var names []string
	for _, info := range infos {
		names = append(names, info.Name)
	}
	assert.Equal(t, []string{
		"xray_20240115_103000.xray",
		"xray_20240116_090000.xray",
		"xray_20240117_080000.xray",
	}, names)
}

func TestS3Store_ValidateSetup(t *testing.T) {
	fake := newFakeS3("bucket")

	assert.NoError(t, newS3Store(fake, fake, "bucket", "").ValidateSetup())
	assert.Error(t, newS3Store(fake, fake, "other", "").ValidateSetup())
}

func TestNewS3Store_RequiresBucket(t *testing.T) {
	_, err := NewS3Store(context.Background(), config.StoreConfig{Type: "s3"})
	assert.Error(t, err)
}
