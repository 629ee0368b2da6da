package storage

import (
	"errors"
	"fmt"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
)

func TestIsNoSuchKey(t *testing.T) {
	assert.False(t, IsNoSuchKey(nil))
	assert.True(t, IsNoSuchKey(fmt.Errorf("stat: %w", minio.ErrorResponse{Code: "NoSuchKey"})))
	assert.True(t, IsNoSuchKey(errors.New("The specified key does not exist.")))
	assert.False(t, IsNoSuchKey(errors.New("connection refused")))
}

func TestExportPrefix(t *testing.T) {
	assert.Equal(t, "template-exports/42/", ExportPrefix(42))
}

func TestParseBucketLookup(t *testing.T) {
	v, err := parseBucketLookup("PATH")
	assert.NoError(t, err)
	assert.Equal(t, minio.BucketLookupPath, v)

	_, err = parseBucketLookup("virtual")
	assert.Error(t, err)
}
