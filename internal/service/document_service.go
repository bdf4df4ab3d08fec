package service

import (
	"context"
	"fmt"

	"github.com/sitegrid/sitegrid-backend/internal/repository"
	"github.com/sitegrid/sitegrid-backend/internal/types"
)

// ============================================
// Document Service
// ============================================

// Documents are metadata records; the blob lives wherever storage_key
// points and is never handled here.
type DocumentService interface {
	Register(ctx context.Context, actorID, projectID, fileName, storageKey string, contentType *string, sizeBytes int64) (*repository.Document, error)
	GetByID(ctx context.Context, actorID, documentID string) (*repository.Document, error)
	ListByProject(ctx context.Context, actorID, projectID string) ([]*repository.Document, error)
	Delete(ctx context.Context, actorID, documentID string) error
}

type documentService struct {
	documentRepo  repository.DocumentRepository
	projectRepo   repository.ProjectRepository
	permissionSvc PermissionService
}

func NewDocumentService(
	documentRepo repository.DocumentRepository,
	projectRepo repository.ProjectRepository,
	permissionSvc PermissionService,
) DocumentService {
	return &documentService{
		documentRepo:  documentRepo,
		projectRepo:   projectRepo,
		permissionSvc: permissionSvc,
	}
}

func (s *documentService) Register(ctx context.Context, actorID, projectID, fileName, storageKey string, contentType *string, sizeBytes int64) (*repository.Document, error) {
	if fileName == "" || storageKey == "" || sizeBytes < 0 {
		return nil, ErrInvalidInput
	}
	if !s.permissionSvc.HasPermission(ctx, projectID, actorID, types.PermDocumentUpload, nil) {
		return nil, ErrForbidden
	}

	version, err := s.documentRepo.NextVersion(ctx, projectID, fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate version: %w", err)
	}

	doc := &repository.Document{
		ProjectID:   projectID,
		FileName:    fileName,
		ContentType: contentType,
		SizeBytes:   sizeBytes,
		StorageKey:  storageKey,
		Version:     version,
		UploadedBy:  actorID,
	}
	if err := s.documentRepo.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to create document: %w", err)
	}
	return doc, nil
}

func (s *documentService) GetByID(ctx context.Context, actorID, documentID string) (*repository.Document, error) {
	doc, err := s.documentRepo.FindByID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to find document: %w", err)
	}
	if doc == nil {
		return nil, ErrNotFound
	}

	resource := &repository.ResourceRef{Type: types.ResourceDocument, ID: documentID}
	if !s.permissionSvc.HasPermission(ctx, doc.ProjectID, actorID, types.PermProjectView, resource) {
		return nil, ErrForbidden
	}
	return doc, nil
}

func (s *documentService) ListByProject(ctx context.Context, actorID, projectID string) ([]*repository.Document, error) {
	if !s.permissionSvc.HasPermission(ctx, projectID, actorID, types.PermProjectView, nil) {
		return nil, ErrForbidden
	}
	return s.documentRepo.FindByProjectID(ctx, projectID)
}

func (s *documentService) Delete(ctx context.Context, actorID, documentID string) error {
	doc, err := s.documentRepo.FindByID(ctx, documentID)
	if err != nil {
		return fmt.Errorf("failed to find document: %w", err)
	}
	if doc == nil {
		return ErrNotFound
	}

	resource := &repository.ResourceRef{Type: types.ResourceDocument, ID: documentID}
	if !s.permissionSvc.HasPermission(ctx, doc.ProjectID, actorID, types.PermDocumentDelete, resource) {
		return ErrForbidden
	}
	return s.documentRepo.Delete(ctx, documentID)
}
