package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectURL(t *testing.T) {
	assert.Equal(t, "https://s3.local:9000/labels/scans/a.jpg", ObjectURL("https", "s3.local:9000", "labels", "scans/a.jpg"))
	assert.Equal(t, "http://minio/labels/x.png", ObjectURL("", "minio", "labels", "x.png"))
}
