package services

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"atelier_back_end/internal/database"
)

// GenerateSignedURL génère une URL de lecture signée pour une image produit.
// Accepte soit un chemin objet relatif, soit l'URL complète stockée en base.
func GenerateSignedURL(ctx context.Context, objectPath string, duration time.Duration) (string, error) {
	bucket := os.Getenv("MINIO_BUCKET")

	// Nettoie l'URL complète pour ne garder que le chemin relatif au bucket
	key := objectPath
	prefix := fmt.Sprintf("http://%s/%s/", os.Getenv("MINIO_ENDPOINT"), bucket)
	key = strings.TrimPrefix(key, prefix)

	reqParams := make(url.Values)
	presignedURL, err := database.MinIO.PresignedGetObject(ctx, bucket, key, duration, reqParams)
	if err != nil {
		return "", err
	}

	return presignedURL.String(), nil
}

// SignImageURLs signe une liste d'URLs d'images, en ignorant celles qui
// échouent (l'image brute reste consultable côté admin).
func SignImageURLs(ctx context.Context, urls []string) []string {
	if database.MinIO == nil {
		return urls
	}

	signed := make([]string, 0, len(urls))
	for _, u := range urls {
		if u == "" {
			continue
		}
		if s, err := GenerateSignedURL(ctx, u, 24*time.Hour); err == nil {
			signed = append(signed, s)
		} else {
			signed = append(signed, u)
		}
	}
	return signed
}
