package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"foodtruck_back_end/internal/apperr"
	"foodtruck_back_end/internal/database"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

// MaxPhotoBytes plafonne la taille d'une photo décodée.
const MaxPhotoBytes = 2 << 20 // 2 MiB

var allowedPhotoTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// SavePhoto valide un payload data-URI (data:image/png;base64,...), vérifie
// que les octets décodés sont bien une image d'un type autorisé, et l'écrit
// dans MinIO sous un nom unique. Retourne l'URL publique de l'objet.
func SavePhoto(ctx context.Context, dataURI string) (string, error) {
	if !strings.HasPrefix(dataURI, "data:") {
		return "", apperr.New(apperr.Validation, "photo must be a data URI")
	}

	rest := strings.TrimPrefix(dataURI, "data:")
	sep := strings.Index(rest, ";base64,")
	if sep < 0 {
		return "", apperr.New(apperr.Validation, "photo must be base64 encoded")
	}

	declaredType := rest[:sep]
	ext, ok := allowedPhotoTypes[declaredType]
	if !ok {
		return "", apperr.New(apperr.Validation, "photo type is not allowed")
	}

	raw, err := base64.StdEncoding.DecodeString(rest[sep+len(";base64,"):])
	if err != nil {
		return "", apperr.New(apperr.Validation, "photo is not valid base64")
	}
	if len(raw) > MaxPhotoBytes {
		return "", apperr.New(apperr.Validation, "photo exceeds the maximum size")
	}

	// Le type déclaré ne suffit pas : on sniffe les octets décodés.
	sniffed := http.DetectContentType(raw)
	if _, ok := allowedPhotoTypes[sniffed]; !ok {
		return "", apperr.New(apperr.Validation, "photo content is not a supported image")
	}

	objectName := fmt.Sprintf("photos/%s%s", uuid.NewString(), ext)
	bucket := os.Getenv("MINIO_BUCKET")

	_, err = database.MinIO.PutObject(ctx, bucket, objectName, bytes.NewReader(raw), int64(len(raw)),
		minio.PutObjectOptions{ContentType: sniffed})
	if err != nil {
		return "", apperr.Wrap(err, "Photo could not be stored")
	}

	photoURL := fmt.Sprintf("http://%s/%s/%s", os.Getenv("MINIO_ENDPOINT"), bucket, objectName)
	return photoURL, nil
}

// GenerateSignedURL rend une URL de lecture temporaire pour un objet photo.
func GenerateSignedURL(ctx context.Context, objectPath string, duration time.Duration) (string, error) {
	bucket := os.Getenv("MINIO_BUCKET")
	prefix := fmt.Sprintf("http://%s/%s/", os.Getenv("MINIO_ENDPOINT"), bucket)
	key := strings.TrimPrefix(objectPath, prefix)

	reqParams := make(url.Values)
	presignedURL, err := database.MinIO.PresignedGetObject(ctx, bucket, key, duration, reqParams)
	if err != nil {
		return "", err
	}
	return presignedURL.String(), nil
}
