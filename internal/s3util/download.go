// Package s3util provides the S3 helpers the server and Lambda share for
// fetching screenshots referenced by key instead of uploaded inline.
package s3util

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"

	"github.com/gleelab/glee-suggester/internal/ocr"
)

// maxObjectSize bounds one downloaded screenshot. Conversation screenshots
// are small; anything past this is not an image we can OCR usefully.
const maxObjectSize = 20 << 20

// DownloadObject fetches one S3 object into memory.
func DownloadObject(ctx context.Context, client *s3.Client, bucket, key string) ([]byte, error) {
	log.Debug().Str("bucket", bucket).Str("key", key).Msg("Downloading screenshot from S3")
	result, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	})
	if err != nil {
		return nil, fmt.Errorf("S3 GetObject %s/%s: %w", bucket, key, err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(io.LimitReader(result.Body, maxObjectSize))
	if err != nil {
		return nil, fmt.Errorf("read S3 object %s/%s: %w", bucket, key, err)
	}
	return data, nil
}

// DownloadImages fetches the given keys and returns them as OCR inputs in
// key order. Any missing object fails the whole batch; a partial screenshot
// set would silently change what the pipeline analyzes.
func DownloadImages(ctx context.Context, client *s3.Client, bucket string, keys []string) ([]ocr.ImageInput, error) {
	images := make([]ocr.ImageInput, 0, len(keys))
	for _, key := range keys {
		data, err := DownloadObject(ctx, client, bucket, key)
		if err != nil {
			return nil, err
		}
		images = append(images, ocr.ImageInput{Name: path.Base(key), Data: data})
	}
	return images, nil
}
