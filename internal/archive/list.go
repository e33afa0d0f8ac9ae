package archive

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Object is an archived design document found in storage.
type Object struct {
	Document     string
	Key          string
	Size         int64
	LastModified time.Time
}

// List returns the archived documents of a Couchbase bucket, sorted by name.
func List(ctx context.Context, client s3.ListObjectsV2APIClient, s3Bucket, prefix, bucket string) ([]Object, error) {
	docsPrefix := DocumentsPrefix(prefix, bucket)

	paginator := s3.NewListObjectsV2Paginator(client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s3Bucket),
		Prefix: aws.String(docsPrefix),
	})

	var objects []Object
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list objects: %w", err)
		}

		for _, obj := range page.Contents {
			if obj.Key == nil {
				continue
			}
			name, ok := documentName(*obj.Key, docsPrefix)
			if !ok {
				continue
			}

			o := Object{
				Document: name,
				Key:      *obj.Key,
				Size:     aws.ToInt64(obj.Size),
			}
			if obj.LastModified != nil {
				o.LastModified = obj.LastModified.UTC()
			}
			objects = append(objects, o)
		}
	}

	sort.Slice(objects, func(i, j int) bool {
		return objects[i].Document < objects[j].Document
	})

	return objects, nil
}

// documentName extracts the document name from an archive key.
// Given docsPrefix="ddsync/beer/docs/" and key="ddsync/beer/docs/dev_beer.json",
// returns "dev_beer".
func documentName(key, docsPrefix string) (string, bool) {
	rel := strings.TrimPrefix(key, docsPrefix)
	if rel == key || strings.Contains(rel, "/") {
		return "", false
	}
	if !strings.HasSuffix(rel, ".json") {
		return "", false
	}
	return strings.TrimSuffix(rel, ".json"), true
}
