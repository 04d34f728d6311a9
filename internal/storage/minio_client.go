package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"yatube/internal/config"
	"yatube/internal/logger"
)

// ErrNotAnImage is returned when the uploaded bytes are not one of the
// accepted picture formats, whatever the file name says.
var ErrNotAnImage = errors.New("загруженный файл не является изображением")

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

type Storage interface {
	UploadImage(ctx context.Context, authorID int64, fileName string, file io.Reader, size int64) (string, error)
	DeleteImage(ctx context.Context, objectName string) error
	ImageURL(objectName string) string
}

type MinIOClient struct {
	client *minio.Client
	config *config.Config
}

func NewMinIOClient(cfg *config.Config) (*MinIOClient, error) {
	client, err := minio.New(cfg.MinIO.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
		Secure: cfg.MinIO.UseSSL,
		Region: cfg.MinIO.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка создания клиента MinIO: %w", err)
	}

	return &MinIOClient{client: client, config: cfg}, nil
}

// EnsureBucket creates the image bucket on first start and opens it for
// anonymous reads so templates can link objects directly.
func (m *MinIOClient) EnsureBucket(ctx context.Context) error {
	bucket := m.config.MinIO.BucketName

	exists, err := m.client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("ошибка проверки бакета %s: %w", bucket, err)
	}

	if !exists {
		err = m.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: m.config.MinIO.Region})
		if err != nil {
			return fmt.Errorf("ошибка создания бакета %s: %w", bucket, err)
		}
		logger.L.Info("bucket created", zap.String("bucket", bucket))
	}

	if err := m.client.SetBucketPolicy(ctx, bucket, publicReadPolicy(bucket)); err != nil {
		return fmt.Errorf("ошибка установки политики бакета %s: %w", bucket, err)
	}

	return nil
}

// UploadImage stores the picture under posts/<author>/<year>/<month>/<uuid><ext>
// and returns the object name to be saved on the post.
func (m *MinIOClient) UploadImage(ctx context.Context, authorID int64, fileName string, file io.Reader, size int64) (string, error) {
	contentType, ext, body, err := DetectImage(file)
	if err != nil {
		return "", err
	}

	now := time.Now()
	objectName := fmt.Sprintf("posts/%d/%d/%02d/%s%s",
		authorID,
		now.Year(),
		now.Month(),
		uuid.New().String(),
		ext)

	_, err = m.client.PutObject(ctx, m.config.MinIO.BucketName, objectName, body, size,
		minio.PutObjectOptions{
			ContentType: contentType,
			UserMetadata: map[string]string{
				"original-filename": fileName,
				"author-id":         fmt.Sprint(authorID),
				"uploaded-at":       now.Format(time.RFC3339),
			},
		})
	if err != nil {
		return "", fmt.Errorf("ошибка загрузки в MinIO: %w", err)
	}

	logger.L.Debug("image uploaded",
		zap.String("object", objectName),
		zap.String("content_type", contentType),
		zap.Int64("size", size))

	return objectName, nil
}

func (m *MinIOClient) DeleteImage(ctx context.Context, objectName string) error {
	if objectName == "" {
		return nil
	}

	err := m.client.RemoveObject(ctx, m.config.MinIO.BucketName, objectName,
		minio.RemoveObjectOptions{
			GovernanceBypass: true,
		})
	if err != nil {
		return fmt.Errorf("ошибка удаления из MinIO: %w", err)
	}
	return nil
}

func (m *MinIOClient) ImageURL(objectName string) string {
	return BuildImageURL(m.config.MinIO, objectName)
}

// BuildImageURL joins the public base, bucket and object name. An empty object
// name means the post has no picture.
func BuildImageURL(cfg config.MinIO, objectName string) string {
	if objectName == "" {
		return ""
	}

	base := strings.TrimSuffix(cfg.PublicURL, "/")
	if base == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		base = scheme + "://" + cfg.Endpoint
	}

	return fmt.Sprintf("%s/%s/%s", base, cfg.BucketName, strings.TrimPrefix(objectName, "/"))
}

// DetectImage sniffs the leading bytes of file and returns a reader that
// still yields the whole content.
func DetectImage(file io.Reader) (contentType, ext string, body io.Reader, err error) {
	header := make([]byte, 512)
	n, err := io.ReadFull(file, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", "", nil, fmt.Errorf("ошибка чтения изображения: %w", err)
	}
	header = header[:n]

	mtype := mimetype.Detect(header)
	for ct, extension := range allowedImageTypes {
		if mtype.Is(ct) {
			return ct, extension, io.MultiReader(bytes.NewReader(header), file), nil
		}
	}

	return "", "", nil, fmt.Errorf("%w: %s", ErrNotAnImage, mtype.String())
}

func publicReadPolicy(bucket string) string {
	return fmt.Sprintf(`{
	"Version": "2012-10-17",
	"Statement": [{
		"Effect": "Allow",
		"Principal": {"AWS": ["*"]},
		"Action": ["s3:GetObject"],
		"Resource": ["arn:aws:s3:::%s/*"]
	}]
}`, bucket)
}
