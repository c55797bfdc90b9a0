package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hausmeister/internal/config"
)

func TestNewMinIOStorage_Validation(t *testing.T) {
	_, err := newMinIOStorage(config.MinIOConfig{}, "documents", "")
	assert.ErrorContains(t, err, "endpoint")

	_, err = newMinIOStorage(config.MinIOConfig{Endpoint: "localhost:9000"}, "documents", "")
	assert.ErrorContains(t, err, "credentials")

	_, err = newMinIOStorage(config.MinIOConfig{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b"}, "", "")
	assert.ErrorContains(t, err, "bucket")
}

func TestMinIOStorage_PublicURL(t *testing.T) {
	ms, err := newMinIOStorage(config.MinIOConfig{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b"}, "documents", "")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000/documents/c1/1-a.pdf", ms.PublicURL("c1/1-a.pdf"))

	ms.publicBaseURL = "https://files.example.de/documents"
	assert.Equal(t, "https://files.example.de/documents/c1/1-a.pdf", ms.PublicURL("c1/1-a.pdf"))
}

func TestNew_UnknownDriver(t *testing.T) {
	_, err := New(context.Background(), config.StorageConfig{Driver: "ftp"})
	assert.Error(t, err)
}
