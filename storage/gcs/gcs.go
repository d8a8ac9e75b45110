// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gcs publishes report artifacts to a Google Cloud Storage
// bucket.
package gcs

import (
	"context"
	"fmt"
	"mime"
	"path"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/option"
)

// An Uploader writes objects under a fixed prefix of one bucket.
type Uploader struct {
	client *storage.Client
	bucket string
	prefix string
}

// NewUploader returns an Uploader for bucket. Object names are
// prefixed with prefix, which may be empty. Without options the
// client uses application default credentials.
func NewUploader(ctx context.Context, bucket, prefix string, opts ...option.ClientOption) (*Uploader, error) {
	if bucket == "" {
		return nil, fmt.Errorf("no bucket given")
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating storage client: %w", err)
	}
	return &Uploader{client: client, bucket: bucket, prefix: prefix}, nil
}

// CredentialsFile returns the client options to authenticate with
// the service account key in file, or none if file is empty.
func CredentialsFile(file string) []option.ClientOption {
	if file == "" {
		return nil
	}
	return []option.ClientOption{option.WithCredentialsFile(file)}
}

// ObjectName returns the object name for the local file name under
// prefix. Only the base name of the file is kept.
func ObjectName(prefix, name string) string {
	base := path.Base(filepath.ToSlash(name))
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return base
	}
	return prefix + "/" + base
}

// ContentType returns the MIME type stored with an object named name.
func ContentType(name string) string {
	if t := mime.TypeByExtension(path.Ext(name)); t != "" {
		return t
	}
	return "application/octet-stream"
}

// Upload stores data as the object for name and returns its gs:// URL.
func (u *Uploader) Upload(ctx context.Context, name string, data []byte) (string, error) {
	obj := ObjectName(u.prefix, name)
	w := u.client.Bucket(u.bucket).Object(obj).NewWriter(ctx)
	w.ContentType = ContentType(name)
	if _, err := w.Write(data); err != nil {
		w.Close()
		return "", fmt.Errorf("uploading %s: %w", obj, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("uploading %s: %w", obj, err)
	}
	return fmt.Sprintf("gs://%s/%s", u.bucket, obj), nil
}

// A File is a named blob to upload.
type File struct {
	Name string
	Data []byte
}

// maxParallel bounds the number of concurrent uploads in UploadAll.
const maxParallel = 4

// UploadAll uploads files concurrently and returns their URLs in the
// order of files. It stops at the first error.
func (u *Uploader) UploadAll(ctx context.Context, files []File) ([]string, error) {
	urls := make([]string, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallel)
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			url, err := u.Upload(ctx, f.Name, f.Data)
			urls[i] = url
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return urls, nil
}

// Close releases the underlying client.
func (u *Uploader) Close() error {
	return u.client.Close()
}
