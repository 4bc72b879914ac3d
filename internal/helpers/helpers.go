package helpers

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/golang-jwt/jwt/v5"
)

const (
	PostsFolder   = "posts"
	ProfileFolder = "profiles"

	SessionTTL = 24 * time.Hour
)

// SignSessionToken issues the HS256 session credential returned on login.
func SignSessionToken(userID string, isAdmin bool, secret string) (string, error) {
	now := time.Now()
	claims := &SessionClaims{
		IsAdmin: isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateSessionToken parses and verifies a bearer token. Only HS256 is
// accepted.
func ValidateSessionToken(tokenStr, secret string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %v", err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}

	return claims, nil
}

func IsPasswordStrong(password string) bool {
	if len(password) < 8 {
		return false
	}
	hasLower := regexp.MustCompile(`[a-z]`).MatchString(password)
	hasUpper := regexp.MustCompile(`[A-Z]`).MatchString(password)
	hasNumber := regexp.MustCompile(`\d`).MatchString(password)
	return hasLower && hasUpper && hasNumber
}

// UploadImage uploads a single image by local path and returns its public
// URL.
func UploadImage(ctx context.Context, cld *cloudinary.Cloudinary, localPath, folder string) (string, error) {
	if cld == nil {
		return "", errors.New("cloudinary client is not initialized")
	}

	uploadResult, err := cld.Upload.Upload(ctx, localPath, uploader.UploadParams{
		Folder: folder,
		Tags:   []string{"inkpost"},
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image %s: %v", localPath, err)
	}

	return uploadResult.SecureURL, nil
}
