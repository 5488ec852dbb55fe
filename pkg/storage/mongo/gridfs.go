package mongo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	apperr "github.com/matzehuels/snapshare/pkg/errors"
	"github.com/matzehuels/snapshare/pkg/storage"
)

// Blobs is a storage.BlobStore backed by a GridFS bucket. Writing the same
// key again adds a new revision; reads return the latest one.
type Blobs struct {
	bucket  *gridfs.Bucket
	baseURL string

	// The driver keeps deadlines on the bucket and copies them into each
	// stream at open, so the locks cover only set-and-open.
	readMu  sync.Mutex
	writeMu sync.Mutex
}

type blobMeta struct {
	ContentType string `bson:"content_type"`
}

// NewBlobs opens the files bucket of db. Public URLs are built from baseURL.
func NewBlobs(db *mongo.Database, baseURL string) (*Blobs, error) {
	bucket, err := gridfs.NewBucket(db, options.GridFSBucket().SetName(FilesBucket))
	if err != nil {
		return nil, fmt.Errorf("open gridfs bucket: %w", err)
	}
	return &Blobs{bucket: bucket, baseURL: baseURL}, nil
}

func (b *Blobs) Fetch(ctx context.Context, key string) ([]byte, error) {
	data, _, err := b.Open(ctx, key)
	return data, err
}

func (b *Blobs) Open(ctx context.Context, key string) ([]byte, string, error) {
	if err := apperr.ValidateStorageKey(key); err != nil {
		return nil, "", errors.Join(storage.ErrAccessDenied, err)
	}

	stream, err := b.openDownload(ctx, key)
	if errors.Is(err, gridfs.ErrFileNotFound) {
		return nil, "", storage.ErrNotFound
	}
	if err != nil {
		return nil, "", err
	}
	defer stream.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(stream); err != nil {
		return nil, "", fmt.Errorf("read %s: %w", key, err)
	}

	contentType := "application/octet-stream"
	if f := stream.GetFile(); f != nil && len(f.Metadata) > 0 {
		var meta blobMeta
		if err := bson.Unmarshal(f.Metadata, &meta); err == nil && meta.ContentType != "" {
			contentType = meta.ContentType
		}
	}
	return buf.Bytes(), contentType, nil
}

func (b *Blobs) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if err := apperr.ValidateStorageKey(key); err != nil {
		return "", errors.Join(storage.ErrAccessDenied, err)
	}

	opts := options.GridFSUpload().SetMetadata(blobMeta{ContentType: contentType})
	stream, err := b.openUpload(ctx, key, opts)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	if _, err := stream.Write(data); err != nil {
		_ = stream.Abort()
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	if err := stream.Close(); err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return storage.PublicURL(b.baseURL, key), nil
}

// openDownload applies ctx's deadline, or clears the previous one, and opens
// the latest revision of key.
func (b *Blobs) openDownload(ctx context.Context, key string) (*gridfs.DownloadStream, error) {
	b.readMu.Lock()
	defer b.readMu.Unlock()
	dl, _ := ctx.Deadline()
	if err := b.bucket.SetReadDeadline(dl); err != nil {
		return nil, err
	}
	return b.bucket.OpenDownloadStreamByName(key)
}

func (b *Blobs) openUpload(ctx context.Context, key string, opts *options.UploadOptions) (*gridfs.UploadStream, error) {
	b.writeMu.Lock()
	defer b.writeMu.Unlock()
	dl, _ := ctx.Deadline()
	if err := b.bucket.SetWriteDeadline(dl); err != nil {
		return nil, err
	}
	return b.bucket.OpenUploadStream(key, opts)
}

var _ storage.BlobStore = (*Blobs)(nil)
