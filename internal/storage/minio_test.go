package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/resumate/resumate/internal/config"
)

func TestObjectKey(t *testing.T) {
	at := time.Date(2026, 3, 7, 23, 30, 0, 0, time.FixedZone("X", -2*3600))
	require.Equal(t, "exports/2026/03/08/abc.pdf", ObjectKey(at, "abc"))
}

func TestNewMinIOArchiveRequiresConfig(t *testing.T) {
	_, err := NewMinIOArchive(context.Background(), config.MinIOConfig{})
	require.Error(t, err)
}
