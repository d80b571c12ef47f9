package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/tilinsmath/tuition-api/internal/dto"
	"github.com/tilinsmath/tuition-api/internal/models"
	"github.com/tilinsmath/tuition-api/internal/realtime"
	"github.com/tilinsmath/tuition-api/internal/repository"
)

// ErrNoteNotFound indicates the requested note does not exist.
var ErrNoteNotFound = errors.New("note not found")

// ErrNotPDF indicates an upload whose content is not a PDF document.
var ErrNotPDF = errors.New("file is not a PDF")

// ErrMissingFile indicates an upload request without a file part.
var ErrMissingFile = errors.New("file is required")

const maxNoteSize = 20 << 20 // 20 MiB

// FileUploader abstracts uploading binary data and returning a URL.
type FileUploader interface {
	Upload(ctx context.Context, name string, reader io.Reader) (string, error)
}

// NoteService exposes study-material upload and listing use cases.
type NoteService interface {
	// Upload stores a PDF for a class. The content type is sniffed from
	// the bytes, not trusted from the request.
	Upload(ctx context.Context, classID, title, uploadedBy string, file *multipart.FileHeader) (dto.NoteResponse, error)
	ListByClass(ctx context.Context, classID string) ([]dto.NoteResponse, error)
	Delete(ctx context.Context, id string) error
}

type noteService struct {
	notes     repository.NoteRepository
	classes   repository.ClassRepository
	uploader  FileUploader
	publisher realtime.Publisher
	logger    zerolog.Logger
	now       func() time.Time
}

// NewNoteService builds a new note service.
func NewNoteService(
	notes repository.NoteRepository,
	classes repository.ClassRepository,
	uploader FileUploader,
	publisher realtime.Publisher,
	logger zerolog.Logger,
) NoteService {
	return &noteService{
		notes:     notes,
		classes:   classes,
		uploader:  uploader,
		publisher: publisher,
		logger:    logger.With().Str("component", "note_service").Logger(),
		now:       time.Now,
	}
}

func (s *noteService) Upload(ctx context.Context, classID, title, uploadedBy string, file *multipart.FileHeader) (dto.NoteResponse, error) {
	if file == nil {
		return dto.NoteResponse{}, ErrMissingFile
	}
	if title == "" {
		title = file.Filename
	}

	if _, err := s.classes.GetByID(ctx, classID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.NoteResponse{}, ErrClassNotFound
		}

		return dto.NoteResponse{}, err
	}

	source, err := file.Open()
	if err != nil {
		return dto.NoteResponse{}, fmt.Errorf("open upload: %w", err)
	}
	defer func() { _ = source.Close() }()

	content, err := io.ReadAll(io.LimitReader(source, maxNoteSize+1))
	if err != nil {
		return dto.NoteResponse{}, fmt.Errorf("read upload: %w", err)
	}
	if len(content) > maxNoteSize {
		return dto.NoteResponse{}, fmt.Errorf("file exceeds %d bytes", maxNoteSize)
	}

	if !mimetype.Detect(content).Is("application/pdf") {
		return dto.NoteResponse{}, ErrNotPDF
	}

	url, err := s.uploader.Upload(ctx, file.Filename, bytes.NewReader(content))
	if err != nil {
		return dto.NoteResponse{}, fmt.Errorf("upload note: %w", err)
	}

	note := models.ClassNote{
		ClassID: classID,
		Title:   title,
		FileURL: url,
	}
	if uploadedBy != "" {
		note.UploadedBy = &uploadedBy
	}

	if err := s.notes.Create(ctx, &note); err != nil {
		return dto.NoteResponse{}, err
	}

	s.publisher.Publish(ctx, "notes", realtime.ActionInsert, note.ID)
	s.logger.Info().Str("note_id", note.ID).Str("class_id", classID).Msg("note uploaded")

	return dto.NewNoteResponse(note), nil
}

func (s *noteService) ListByClass(ctx context.Context, classID string) ([]dto.NoteResponse, error) {
	notes, err := s.notes.ListByClass(ctx, classID)
	if err != nil {
		return nil, err
	}

	return dto.NewNoteResponseSlice(notes), nil
}

func (s *noteService) Delete(ctx context.Context, id string) error {
	if err := s.notes.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNoteNotFound
		}

		return err
	}

	s.publisher.Publish(ctx, "notes", realtime.ActionDelete, id)

	return nil
}
