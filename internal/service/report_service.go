package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sitegrid/sitegrid-backend/internal/db"
	"github.com/sitegrid/sitegrid-backend/internal/repository"
	"github.com/sitegrid/sitegrid-backend/internal/types"
)

// ============================================
// Report Service
// ============================================

// reportCacheTTL keeps the read model cheap to hit from dashboards.
const reportCacheTTL = 60 * time.Second

type ReportService interface {
	ProjectApprovalReport(ctx context.Context, actorID, projectID string) (*repository.ProjectApprovalReport, error)
}

type reportService struct {
	reportRepo    repository.ReportRepository
	projectRepo   repository.ProjectRepository
	permissionSvc PermissionService
	cache         *db.RedisDB
}

func NewReportService(
	reportRepo repository.ReportRepository,
	projectRepo repository.ProjectRepository,
	permissionSvc PermissionService,
	cache *db.RedisDB,
) ReportService {
	return &reportService{
		reportRepo:    reportRepo,
		projectRepo:   projectRepo,
		permissionSvc: permissionSvc,
		cache:         cache,
	}
}

func (s *reportService) ProjectApprovalReport(ctx context.Context, actorID, projectID string) (*repository.ProjectApprovalReport, error) {
	if !s.permissionSvc.HasPermission(ctx, projectID, actorID, types.PermProjectView, nil) {
		return nil, ErrForbidden
	}

	cacheKey := "report:approvals:" + projectID
	if s.cache != nil {
		var cached repository.ProjectApprovalReport
		if err := s.cache.GetCache(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	report, err := s.reportRepo.ProjectApprovalReport(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to build report: %w", err)
	}

	if s.cache != nil {
		s.cache.SetCache(ctx, cacheKey, report, reportCacheTTL)
	}

	return report, nil
}
