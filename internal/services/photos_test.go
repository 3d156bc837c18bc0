package services

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"

	"foodtruck_back_end/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Les chemins de rejet s'arrêtent tous avant l'écriture MinIO : pas besoin
// d'un bucket pour les tester.
func TestSavePhotoRejections(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name    string
		dataURI string
		message string
	}{
		{"not a data uri", "https://example.com/photo.png", "photo must be a data URI"},
		{"missing base64 marker", "data:image/png,abcd", "photo must be base64 encoded"},
		{"forbidden type", "data:application/pdf;base64,aGVsbG8=", "photo type is not allowed"},
		{"broken base64", "data:image/png;base64,%%%%", "photo is not valid base64"},
		{"declared image but not one", "data:image/png;base64," +
			base64.StdEncoding.EncodeToString([]byte("pas une image")), "photo content is not a supported image"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := SavePhoto(ctx, tc.dataURI)
			require.Error(t, err)
			ae := apperr.From(err)
			assert.Equal(t, apperr.Validation, ae.Kind)
			assert.Equal(t, tc.message, ae.Message)
		})
	}
}

func TestSavePhotoSizeLimit(t *testing.T) {
	// PNG minimal gonflé au-delà du plafond.
	big := make([]byte, MaxPhotoBytes+1)
	copy(big, []byte("\x89PNG\r\n\x1a\n"))
	dataURI := "data:image/png;base64," + base64.StdEncoding.EncodeToString(big)

	_, err := SavePhoto(context.Background(), dataURI)
	require.Error(t, err)
	assert.True(t, strings.Contains(apperr.From(err).Message, "maximum size"))
}
