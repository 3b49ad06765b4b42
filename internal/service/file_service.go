package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/aula-go-api/internal/dto"
	"github.com/noah-isme/aula-go-api/internal/models"
	"github.com/noah-isme/aula-go-api/internal/repository"
	"github.com/noah-isme/aula-go-api/pkg/cloudinary"
)

// ErrFileRequired indicates the multipart request carried no file.
var ErrFileRequired = errors.New("file is required")

// ErrFileTooLarge indicates the payload exceeded the configured limit.
var ErrFileTooLarge = errors.New("file exceeds maximum allowed size")

// ErrFileTypeNotAllowed indicates the detected MIME type is not permitted.
var ErrFileTypeNotAllowed = errors.New("file type not allowed")

// ErrFileNotFound indicates no stored file record matches the public ID.
var ErrFileNotFound = errors.New("file not found")

// ErrNotFileOwner indicates the file was uploaded by another user.
var ErrNotFileOwner = errors.New("file belongs to another user")

// FileStorage abstracts the upload destination.
type FileStorage interface {
	Upload(ctx context.Context, name string, reader io.Reader) (cloudinary.UploadResult, error)
	Destroy(ctx context.Context, publicID string) error
	SignedURL(publicID string) (string, error)
}

const signedURLTTLSeconds = 15 * 60

// FileService validates and stores attachment and submission files. Every
// upload is recorded with its uploader; delete and signed delivery are
// restricted to the uploader.
type FileService interface {
	Upload(ctx context.Context, userID string, file *multipart.FileHeader) (dto.FileUploadResponse, error)
	Delete(ctx context.Context, userID, publicID string) error
	SignedURL(ctx context.Context, userID, publicID string) (dto.SignedURLResponse, error)
}

type fileService struct {
	storage FileStorage
	files   repository.FileRepository
	maxSize int64
	logger  zerolog.Logger
	tracer  trace.Tracer
}

// NewFileService constructs a file service.
func NewFileService(storage FileStorage, files repository.FileRepository, maxSizeMB int, logger zerolog.Logger) FileService {
	if maxSizeMB <= 0 {
		maxSizeMB = 10
	}
	return &fileService{
		storage: storage,
		files:   files,
		maxSize: int64(maxSizeMB) * 1024 * 1024,
		logger:  logger.With().Str("component", "file_service").Logger(),
		tracer:  otel.Tracer("github.com/noah-isme/aula-go-api/internal/service/file"),
	}
}

func (s *fileService) Upload(ctx context.Context, userID string, file *multipart.FileHeader) (dto.FileUploadResponse, error) {
	ctx, span := s.tracer.Start(ctx, "file.upload")
	defer span.End()

	span.SetAttributes(attribute.String("file.user_id", userID))

	if file == nil {
		span.RecordError(ErrFileRequired)
		span.SetStatus(codes.Error, "validation failed")
		return dto.FileUploadResponse{}, ErrFileRequired
	}
	span.SetAttributes(
		attribute.String("file.original_name", strings.TrimSpace(file.Filename)),
		attribute.Int64("file.request_size", file.Size),
	)

	if file.Size > s.maxSize {
		span.RecordError(ErrFileTooLarge)
		span.SetStatus(codes.Error, "payload too large")
		return dto.FileUploadResponse{}, ErrFileTooLarge
	}

	handle, err := file.Open()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "open failed")
		return dto.FileUploadResponse{}, err
	}
	defer handle.Close()

	buf := bytes.NewBuffer(nil)
	if _, err := io.Copy(buf, io.LimitReader(handle, s.maxSize+1)); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "read failed")
		return dto.FileUploadResponse{}, err
	}
	if int64(buf.Len()) > s.maxSize {
		span.RecordError(ErrFileTooLarge)
		span.SetStatus(codes.Error, "payload too large")
		return dto.FileUploadResponse{}, ErrFileTooLarge
	}

	detected := mimetype.Detect(buf.Bytes())
	span.SetAttributes(attribute.String("file.detected_mime", detected.String()))
	if !isAllowedFileType(detected.String()) {
		span.RecordError(ErrFileTypeNotAllowed)
		span.SetStatus(codes.Error, "type not allowed")
		return dto.FileUploadResponse{}, ErrFileTypeNotAllowed
	}

	result, err := s.storage.Upload(ctx, file.Filename, bytes.NewReader(buf.Bytes()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "storage failed")
		return dto.FileUploadResponse{}, err
	}

	record := models.StoredFile{
		ID:         result.PublicID,
		UploaderID: userID,
		FileName:   file.Filename,
		Format:     result.Format,
		Bytes:      result.Bytes,
		URL:        result.SecureURL,
	}
	if err := s.files.Create(ctx, &record); err != nil {
		// Keep store and records consistent when the record insert fails.
		if destroyErr := s.storage.Destroy(ctx, result.PublicID); destroyErr != nil {
			s.logger.Error().Err(destroyErr).Str("public_id", result.PublicID).Msg("failed to remove orphaned upload")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "record failed")
		return dto.FileUploadResponse{}, err
	}

	span.SetAttributes(attribute.String("file.public_id", result.PublicID))
	span.SetStatus(codes.Ok, "stored")
	s.logger.Info().Str("public_id", result.PublicID).Str("user_id", userID).Msg("file stored")

	return dto.FileUploadResponse{
		PublicID: result.PublicID,
		URL:      result.SecureURL,
		Format:   result.Format,
		Bytes:    result.Bytes,
	}, nil
}

func (s *fileService) Delete(ctx context.Context, userID, publicID string) error {
	ctx, span := s.tracer.Start(ctx, "file.delete")
	defer span.End()

	span.SetAttributes(
		attribute.String("file.public_id", publicID),
		attribute.String("file.user_id", userID),
	)

	if _, err := s.loadOwned(ctx, userID, publicID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "authorization failed")
		return err
	}

	if err := s.storage.Destroy(ctx, publicID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "destroy failed")
		return err
	}

	if err := s.files.Delete(ctx, publicID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, "record delete failed")
		return err
	}

	s.logger.Info().Str("public_id", publicID).Str("user_id", userID).Msg("file deleted")

	return nil
}

func (s *fileService) SignedURL(ctx context.Context, userID, publicID string) (dto.SignedURLResponse, error) {
	ctx, span := s.tracer.Start(ctx, "file.signed_url")
	defer span.End()

	span.SetAttributes(attribute.String("file.public_id", publicID))

	if _, err := s.loadOwned(ctx, userID, publicID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "authorization failed")
		return dto.SignedURLResponse{}, err
	}

	url, err := s.storage.SignedURL(publicID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "signing failed")
		return dto.SignedURLResponse{}, err
	}

	return dto.SignedURLResponse{
		PublicID:  publicID,
		SignedURL: url,
		ExpiresIn: signedURLTTLSeconds,
	}, nil
}

func (s *fileService) loadOwned(ctx context.Context, userID, publicID string) (models.StoredFile, error) {
	record, err := s.files.GetByPublicID(ctx, publicID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.StoredFile{}, ErrFileNotFound
		}
		return models.StoredFile{}, err
	}
	if !record.UploadedBy(userID) {
		return models.StoredFile{}, ErrNotFileOwner
	}
	return record, nil
}

func isAllowedFileType(mime string) bool {
	lower := strings.ToLower(strings.TrimSpace(mime))
	if idx := strings.IndexByte(lower, ';'); idx >= 0 {
		lower = strings.TrimSpace(lower[:idx])
	}
	switch lower {
	case "application/pdf", "application/zip", "application/x-zip-compressed", "text/plain", "image/png", "image/jpeg":
		return true
	default:
		return false
	}
}
