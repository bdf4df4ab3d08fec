package cron

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/sitegrid/sitegrid-backend/internal/email"
	"github.com/sitegrid/sitegrid-backend/internal/notification"
	"github.com/sitegrid/sitegrid-backend/internal/repository"
)

const (
	staleApprovalAge       = 48 * time.Hour
	inspectionReminderSpan = 24 * time.Hour
	notificationRetention  = 30 * 24 * time.Hour
)

// Scheduler handles scheduled background checks
type Scheduler struct {
	cron             *cron.Cron
	notifSvc         *notification.Service
	emailSvc         *email.Service
	approvalRepo     repository.ApprovalRepository
	rfiRepo          repository.RFIRepository
	inspectionRepo   repository.InspectionRepository
	notificationRepo repository.NotificationRepository
	userRepo         repository.UserRepository
	projectRepo      repository.ProjectRepository
}

// NewScheduler creates a new scheduler
func NewScheduler(notifSvc *notification.Service, emailSvc *email.Service, repos *repository.Repositories) *Scheduler {
	return &Scheduler{
		cron:             cron.New(),
		notifSvc:         notifSvc,
		emailSvc:         emailSvc,
		approvalRepo:     repos.ApprovalRepo,
		rfiRepo:          repos.RFIRepo,
		inspectionRepo:   repos.InspectionRepo,
		notificationRepo: repos.NotificationRepo,
		userRepo:         repos.UserRepo,
		projectRepo:      repos.ProjectRepo,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	// Run every hour - overdue RFI reminders
	s.cron.AddFunc("0 * * * *", func() {
		log.Println("[Cron] Running overdue RFI check...")
		s.checkOverdueRFIs()
	})

	// Run every day at 7 AM - upcoming inspection reminders
	s.cron.AddFunc("0 7 * * *", func() {
		log.Println("[Cron] Running upcoming inspection check...")
		s.checkUpcomingInspections()
	})

	// Run every day at 9 AM - stale approval reminders
	s.cron.AddFunc("0 9 * * *", func() {
		log.Println("[Cron] Running stale approval check...")
		s.checkStaleApprovals()
	})

	// Clean up old notifications - run every Sunday at midnight
	s.cron.AddFunc("0 0 * * 0", func() {
		log.Println("[Cron] Running notification cleanup...")
		s.cleanupOldNotifications()
	})

	s.cron.Start()
	log.Println("[Cron] Scheduler started")
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("[Cron] Scheduler stopped")
}

// checkOverdueRFIs reminds assignees of open RFIs past their due date
func (s *Scheduler) checkOverdueRFIs() {
	ctx := context.Background()

	rfis, err := s.rfiRepo.FindOverdue(ctx)
	if err != nil {
		log.Printf("[Cron] Error finding overdue RFIs: %v", err)
		return
	}

	for _, rfi := range rfis {
		if rfi.AssigneeID == nil {
			continue
		}

		if err := s.notifSvc.SendRFIOverdue(ctx, *rfi.AssigneeID, rfi.Subject, rfi.ID, rfi.ProjectID); err != nil {
			log.Printf("[Cron] Error sending overdue reminder for RFI %s: %v", rfi.ID, err)
			continue
		}

		s.emailOverdueRFI(ctx, rfi)
		log.Printf("[Cron] Sent overdue reminder for RFI #%d", rfi.Number)
	}
}

// emailOverdueRFI sends the overdue email when SMTP is configured
func (s *Scheduler) emailOverdueRFI(ctx context.Context, rfi *repository.RFI) {
	if s.emailSvc == nil || rfi.AssigneeID == nil || rfi.DueDate == nil {
		return
	}

	assignee, err := s.userRepo.FindByID(ctx, *rfi.AssigneeID)
	if err != nil || assignee == nil {
		return
	}
	project, err := s.projectRepo.FindByID(ctx, rfi.ProjectID)
	if err != nil || project == nil {
		return
	}

	if err := s.emailSvc.SendRFIOverdue(assignee.Email, email.RFIOverdueData{
		AssigneeName: assignee.Name,
		Number:       rfi.Number,
		Subject:      rfi.Subject,
		ProjectName:  project.Name,
		DueDate:      rfi.DueDate.Format("Jan 2, 2006"),
	}); err != nil {
		log.Printf("[Cron] Error emailing overdue RFI %s: %v", rfi.ID, err)
	}
}

// checkUpcomingInspections reminds inspectors of inspections within 24 hours
func (s *Scheduler) checkUpcomingInspections() {
	ctx := context.Background()

	inspections, err := s.inspectionRepo.FindUpcoming(ctx, inspectionReminderSpan)
	if err != nil {
		log.Printf("[Cron] Error finding upcoming inspections: %v", err)
		return
	}

	for _, inspection := range inspections {
		if inspection.InspectorID == nil {
			continue
		}

		if err := s.notifSvc.SendInspectionUpcoming(ctx, *inspection.InspectorID, inspection.InspectionType, inspection.ID, inspection.ProjectID); err != nil {
			log.Printf("[Cron] Error sending inspection reminder %s: %v", inspection.ID, err)
		}
	}
}

// checkStaleApprovals nudges the approver of the pending step on requests
// that have sat under review with no movement
func (s *Scheduler) checkStaleApprovals() {
	ctx := context.Background()

	requests, err := s.approvalRepo.FindStalePending(ctx, time.Now().Add(-staleApprovalAge))
	if err != nil {
		log.Printf("[Cron] Error finding stale approvals: %v", err)
		return
	}

	for _, request := range requests {
		for _, step := range request.Steps {
			if step.Status != "pending" || step.ApproverID == nil {
				continue
			}
			if err := s.notifSvc.SendApprovalStale(ctx, *step.ApproverID, request.EntityType, request.ID, request.ProjectID); err != nil {
				log.Printf("[Cron] Error sending stale approval reminder for request %s: %v", request.ID, err)
			}
		}
	}
}

// cleanupOldNotifications removes read notifications past the retention window
func (s *Scheduler) cleanupOldNotifications() {
	ctx := context.Background()

	deleted, err := s.notificationRepo.DeleteOlderThan(ctx, time.Now().Add(-notificationRetention), true)
	if err != nil {
		log.Printf("[Cron] Error cleaning up notifications: %v", err)
		return
	}
	log.Printf("[Cron] Deleted %d old notifications", deleted)
}

// ManualTrigger allows manual triggering of a check (for testing)
func (s *Scheduler) ManualTrigger(checkType string) {
	switch checkType {
	case "rfi_overdue":
		s.checkOverdueRFIs()
	case "inspections":
		s.checkUpcomingInspections()
	case "stale_approvals":
		s.checkStaleApprovals()
	case "cleanup":
		s.cleanupOldNotifications()
	case "all":
		s.checkOverdueRFIs()
		s.checkUpcomingInspections()
		s.checkStaleApprovals()
		s.cleanupOldNotifications()
	}
}
