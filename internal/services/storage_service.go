// internal/services/storage_service.go
package services

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"

	"github.com/bytemart/bytemart-backend/internal/apperrors"
	"github.com/bytemart/bytemart-backend/internal/config"
	"github.com/bytemart/bytemart-backend/internal/models"
	"github.com/bytemart/bytemart-backend/internal/utils"
)

const (
	MaxFileSize      = 100 * 1024 * 1024 // per file
	MaxFilesPerBatch = 10
)

// Extensions the server must never store: anything a misconfigured host
// could be tricked into executing.
var blockedExtensions = map[string]struct{}{
	".php": {}, ".phtml": {}, ".php3": {}, ".php4": {}, ".php5": {},
	".exe": {}, ".sh": {}, ".bat": {}, ".cmd": {}, ".com": {},
	".cgi": {}, ".pl": {}, ".jsp": {}, ".asp": {}, ".aspx": {},
}

// StorageService writes uploaded binaries to the local upload directory, or
// to S3 when credentials are configured. Files land under a per-seller
// folder with a random hex name that keeps the original extension.
type StorageService struct {
	s3Client *s3.S3
	cfg      *config.Config
}

func NewStorageService(cfg *config.Config) (*StorageService, error) {
	if cfg.AWS.AccessKeyID == "" {
		// Local disk only.
		return &StorageService{cfg: cfg}, nil
	}

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.AWS.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AWS.AccessKeyID,
			cfg.AWS.SecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &StorageService{s3Client: s3.New(sess), cfg: cfg}, nil
}

// SaveUploads streams every file to storage and returns their descriptors.
// Files already written are not cleaned up when a later one fails; the
// caller owns that risk (matching the create-product contract).
func (s *StorageService) SaveUploads(sellerID string, headers []*multipart.FileHeader) ([]models.ProductFile, error) {
	if len(headers) == 0 {
		return nil, apperrors.Validation("at least one file is required", nil)
	}
	if len(headers) > MaxFilesPerBatch {
		return nil, apperrors.Validation(fmt.Sprintf("at most %d files per upload", MaxFilesPerBatch), nil)
	}

	var saved []models.ProductFile
	for _, header := range headers {
		file, err := s.saveOne(sellerID, header)
		if err != nil {
			return nil, err
		}
		saved = append(saved, file)
	}
	return saved, nil
}

func (s *StorageService) saveOne(sellerID string, header *multipart.FileHeader) (models.ProductFile, error) {
	var zero models.ProductFile

	if header.Size > MaxFileSize {
		return zero, apperrors.Validation(fmt.Sprintf("file %s exceeds the %d byte limit", header.Filename, int64(MaxFileSize)), nil)
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if _, blocked := blockedExtensions[ext]; blocked {
		return zero, apperrors.Validation(fmt.Sprintf("file type %s is not allowed", ext), nil)
	}

	suffix, err := utils.RandomHex(16)
	if err != nil {
		return zero, apperrors.Internal(err)
	}
	storedName := suffix + ext

	src, err := header.Open()
	if err != nil {
		return zero, apperrors.Internal(err)
	}
	defer src.Close()

	var path string
	if s.s3Client != nil {
		path, err = s.putS3(sellerID, storedName, src, header)
	} else {
		path, err = s.putLocal(sellerID, storedName, src)
	}
	if err != nil {
		return zero, err
	}

	return models.ProductFile{
		ID:           uuid.NewString(),
		OriginalName: filepath.Base(header.Filename),
		StoredName:   storedName,
		Size:         header.Size,
		MimeType:     header.Header.Get("Content-Type"),
		Path:         path,
	}, nil
}

func (s *StorageService) putLocal(sellerID, storedName string, src io.Reader) (string, error) {
	dir := filepath.Join(s.cfg.Data.UploadDir, sellerID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", apperrors.Internal(err)
	}

	path := filepath.Join(dir, storedName)
	dst, err := os.Create(path)
	if err != nil {
		return "", apperrors.Internal(err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(path)
		return "", apperrors.Internal(err)
	}
	return path, nil
}

func (s *StorageService) putS3(sellerID, storedName string, src io.Reader, header *multipart.FileHeader) (string, error) {
	key := sellerID + "/" + storedName
	body, err := io.ReadAll(src)
	if err != nil {
		return "", apperrors.Internal(err)
	}

	_, err = s.s3Client.PutObject(&s3.PutObjectInput{
		Bucket:        aws.String(s.cfg.AWS.S3Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(header.Header.Get("Content-Type")),
		ContentLength: aws.Int64(int64(len(body))),
	})
	if err != nil {
		return "", apperrors.Internal(fmt.Errorf("failed to upload to S3: %w", err))
	}
	return "s3://" + s.cfg.AWS.S3Bucket + "/" + key, nil
}

// Open returns a reader over a stored file for download streaming.
func (s *StorageService) Open(file models.ProductFile) (io.ReadCloser, error) {
	if key, ok := s.s3Key(file.Path); ok {
		if s.s3Client == nil {
			return nil, apperrors.Internal(fmt.Errorf("file %s stored on S3 but S3 is not configured", file.ID))
		}
		out, err := s.s3Client.GetObject(&s3.GetObjectInput{
			Bucket: aws.String(s.cfg.AWS.S3Bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			return nil, apperrors.Internal(err)
		}
		return out.Body, nil
	}

	f, err := os.Open(file.Path)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return f, nil
}

// Remove deletes a stored file. Best-effort: product deletion must not fail
// because a binary is already gone.
func (s *StorageService) Remove(file models.ProductFile) error {
	if key, ok := s.s3Key(file.Path); ok {
		if s.s3Client == nil {
			return nil
		}
		_, err := s.s3Client.DeleteObject(&s3.DeleteObjectInput{
			Bucket: aws.String(s.cfg.AWS.S3Bucket),
			Key:    aws.String(key),
		})
		return err
	}
	return os.Remove(file.Path)
}

func (s *StorageService) s3Key(path string) (string, bool) {
	prefix := "s3://" + s.cfg.AWS.S3Bucket + "/"
	if strings.HasPrefix(path, prefix) {
		return strings.TrimPrefix(path, prefix), true
	}
	return "", false
}
