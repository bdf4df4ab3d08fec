// Package email provides email sending functionality
package email

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"log"
	"net/smtp"
	"strings"
	"time"
)

// Config holds email configuration
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	FromName string
	UseTLS   bool
}

// Service handles email sending
type Service struct {
	config    *Config
	templates map[string]*template.Template
}

// NewService creates a new email service
func NewService(config *Config) *Service {
	s := &Service{
		config:    config,
		templates: make(map[string]*template.Template),
	}
	s.loadTemplates()
	return s
}

// Email represents an email message
type Email struct {
	To       []string
	CC       []string
	BCC      []string
	Subject  string
	Body     string
	HTMLBody string
}

// loadTemplates loads all email templates
func (s *Service) loadTemplates() {

	// Organization Invitation Template
	s.templates["invitation"] = template.Must(template.New("invitation").Parse(`
<!DOCTYPE html>
<html>
<head>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Helvetica, Arial, sans-serif; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #f59e0b; color: white; padding: 24px; border-radius: 8px 8px 0 0; }
        .content { background: #f9fafb; padding: 24px; border-radius: 0 0 8px 8px; }
        .btn { display: inline-block; background: #f59e0b; color: white; padding: 12px 20px; text-decoration: none; border-radius: 6px; margin-top: 16px; }
        .footer { margin-top: 24px; font-size: 12px; color: #6b7280; text-align: center; }
    </style>
</head>
<body>
<div class="container">
    <div class="header">
        <h2>You're Invited to SiteGrid</h2>
    </div>
    <div class="content">
        <p>Hello,</p>
        <p><strong>{{.InvitedBy}}</strong> invited you to join <strong>{{.OrganizationName}}</strong>.</p>

        <a href="{{.InviteURL}}" class="btn">Accept Invitation</a>

        <p style="margin-top: 16px; font-size: 14px; color: #6b7280;">
            This invitation may expire. If you were not expecting this email, you can ignore it.
        </p>
    </div>
    <div class="footer">
        SiteGrid • Construction Project Management
    </div>
</div>
</body>
</html>
`))

	// Approval Pending Template
	s.templates["approval_pending"] = template.Must(template.New("approval_pending").Parse(`
<!DOCTYPE html>
<html>
<head>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Helvetica, Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #2563eb; color: white; padding: 24px; border-radius: 8px 8px 0 0; }
        .content { background: #f9fafb; padding: 24px; border-radius: 0 0 8px 8px; }
        .card { background: white; border-radius: 8px; padding: 20px; margin: 20px 0; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        .btn { display: inline-block; background: #2563eb; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; margin-top: 15px; }
        .footer { text-align: center; color: #6b7280; font-size: 12px; margin-top: 20px; }
    </style>
</head>
<body>
<div class="container">
    <div class="header">
        <h2>Approval Needed</h2>
    </div>
    <div class="content">
        <p>Hi {{.ApproverName}},</p>
        <p>The following item on <strong>{{.ProjectName}}</strong> is waiting for your review:</p>
        <div class="card">
            <h3>{{.EntityName}}</h3>
            <p>Submitted by {{.SubmittedBy}}</p>
        </div>
        <a href="{{.RequestURL}}" class="btn">Review Now</a>
    </div>
    <div class="footer">
        SiteGrid • Construction Project Management
    </div>
</div>
</body>
</html>
`))

	// Approval Decided Template
	s.templates["approval_decided"] = template.Must(template.New("approval_decided").Parse(`
<!DOCTYPE html>
<html>
<head>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Helvetica, Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #16a34a; color: white; padding: 24px; border-radius: 8px 8px 0 0; }
        .content { background: #f9fafb; padding: 24px; border-radius: 0 0 8px 8px; }
        .card { background: white; border-radius: 8px; padding: 20px; margin: 20px 0; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        .decision-approved { color: #16a34a; font-weight: bold; }
        .decision-rejected { color: #ef4444; font-weight: bold; }
        .decision-revision_requested { color: #f59e0b; font-weight: bold; }
        .footer { text-align: center; color: #6b7280; font-size: 12px; margin-top: 20px; }
    </style>
</head>
<body>
<div class="container">
    <div class="header">
        <h2>Approval Update</h2>
    </div>
    <div class="content">
        <p>Hi {{.CreatorName}},</p>
        <div class="card">
            <h3>{{.EntityName}}</h3>
            <p>Decision: <span class="decision-{{.Decision}}">{{.Decision}}</span></p>
            {{if .Comments}}<p>Comments: {{.Comments}}</p>{{end}}
        </div>
    </div>
    <div class="footer">
        SiteGrid • Construction Project Management
    </div>
</div>
</body>
</html>
`))

	// RFI Overdue Template
	s.templates["rfi_overdue"] = template.Must(template.New("rfi_overdue").Parse(`
<!DOCTYPE html>
<html>
<head>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Helvetica, Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #ef4444; color: white; padding: 24px; border-radius: 8px 8px 0 0; }
        .content { background: #f9fafb; padding: 24px; border-radius: 0 0 8px 8px; }
        .footer { text-align: center; color: #6b7280; font-size: 12px; margin-top: 20px; }
    </style>
</head>
<body>
<div class="container">
    <div class="header">
        <h2>RFI Overdue</h2>
    </div>
    <div class="content">
        <p>Hi {{.AssigneeName}},</p>
        <p>RFI #{{.Number}} <strong>{{.Subject}}</strong> on {{.ProjectName}} was due {{.DueDate}} and is still open.</p>
    </div>
    <div class="footer">
        SiteGrid • Construction Project Management
    </div>
</div>
</body>
</html>
`))
}

// InvitationEmailData holds data for invitation emails
type InvitationEmailData struct {
	OrganizationName string
	InvitedBy        string
	InviteURL        string
}

// ApprovalPendingData holds data for approval pending emails
type ApprovalPendingData struct {
	ApproverName string
	ProjectName  string
	EntityName   string
	SubmittedBy  string
	RequestURL   string
}

// ApprovalDecidedData holds data for approval decided emails
type ApprovalDecidedData struct {
	CreatorName string
	EntityName  string
	Decision    string
	Comments    string
}

// RFIOverdueData holds data for RFI overdue emails
type RFIOverdueData struct {
	AssigneeName string
	Number       int
	Subject      string
	ProjectName  string
	DueDate      string
}

// SendInvitation sends an organization invitation email
func (s *Service) SendInvitation(to, organizationName, invitedBy, inviteURL string) error {
	return s.SendWithTemplate([]string{to},
		fmt.Sprintf("You're invited to join %s on SiteGrid", organizationName),
		"invitation",
		InvitationEmailData{
			OrganizationName: organizationName,
			InvitedBy:        invitedBy,
			InviteURL:        inviteURL,
		})
}

// SendApprovalPending sends an approval pending email
func (s *Service) SendApprovalPending(to string, data ApprovalPendingData) error {
	return s.SendWithTemplate([]string{to},
		fmt.Sprintf("Approval needed: %s", data.EntityName),
		"approval_pending", data)
}

// SendApprovalDecided sends an approval decided email
func (s *Service) SendApprovalDecided(to string, data ApprovalDecidedData) error {
	return s.SendWithTemplate([]string{to},
		fmt.Sprintf("Approval update: %s", data.EntityName),
		"approval_decided", data)
}

// SendRFIOverdue sends an RFI overdue email
func (s *Service) SendRFIOverdue(to string, data RFIOverdueData) error {
	return s.SendWithTemplate([]string{to},
		fmt.Sprintf("RFI #%d overdue: %s", data.Number, data.Subject),
		"rfi_overdue", data)
}

// Send sends an email
func (s *Service) Send(email *Email) error {
	if s.config.Host == "" {
		log.Println("Email not configured, skipping send")
		return nil
	}

	// Build message
	var msg bytes.Buffer

	msg.WriteString(fmt.Sprintf("From: %s <%s>\r\n", s.config.FromName, s.config.From))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(email.To, ", ")))
	if len(email.CC) > 0 {
		msg.WriteString(fmt.Sprintf("Cc: %s\r\n", strings.Join(email.CC, ", ")))
	}
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", email.Subject))
	msg.WriteString("MIME-Version: 1.0\r\n")

	if email.HTMLBody != "" {
		msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
		msg.WriteString("\r\n")
		msg.WriteString(email.HTMLBody)
	} else {
		msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
		msg.WriteString("\r\n")
		msg.WriteString(email.Body)
	}

	recipients := append(email.To, email.CC...)
	recipients = append(recipients, email.BCC...)

	auth := smtp.PlainAuth("", s.config.User, s.config.Password, s.config.Host)

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	if s.config.UseTLS {
		tlsConfig := &tls.Config{
			ServerName: s.config.Host,
		}

		conn, err := tls.Dial("tcp", addr, tlsConfig)
		if err != nil {
			return fmt.Errorf("TLS dial error: %w", err)
		}
		defer conn.Close()

		client, err := smtp.NewClient(conn, s.config.Host)
		if err != nil {
			return fmt.Errorf("SMTP client error: %w", err)
		}
		defer client.Close()

		if err = client.Auth(auth); err != nil {
			return fmt.Errorf("auth error: %w", err)
		}

		if err = client.Mail(s.config.From); err != nil {
			return fmt.Errorf("mail error: %w", err)
		}

		for _, rcpt := range recipients {
			if err = client.Rcpt(rcpt); err != nil {
				return fmt.Errorf("rcpt error: %w", err)
			}
		}

		w, err := client.Data()
		if err != nil {
			return fmt.Errorf("data error: %w", err)
		}

		_, err = w.Write(msg.Bytes())
		if err != nil {
			return fmt.Errorf("write error: %w", err)
		}

		err = w.Close()
		if err != nil {
			return fmt.Errorf("close error: %w", err)
		}

		return client.Quit()
	}

	// Non-TLS
	return smtp.SendMail(addr, auth, s.config.From, recipients, msg.Bytes())
}

// SendWithTemplate sends an email using a template
func (s *Service) SendWithTemplate(to []string, subject, templateName string, data interface{}) error {
	tmpl, ok := s.templates[templateName]
	if !ok {
		return fmt.Errorf("template not found: %s", templateName)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("template execution error: %w", err)
	}

	return s.Send(&Email{
		To:       to,
		Subject:  subject,
		HTMLBody: body.String(),
	})
}

// ============================================
// Email Queue
// ============================================

// EmailQueue sends emails asynchronously with retries
type EmailQueue struct {
	service *Service
	queue   chan *queuedEmail
	done    chan bool
}

type queuedEmail struct {
	to           []string
	subject      string
	templateName string
	data         interface{}
	retries      int
}

// NewEmailQueue creates a new email queue
func NewEmailQueue(service *Service, workers int) *EmailQueue {
	q := &EmailQueue{
		service: service,
		queue:   make(chan *queuedEmail, 1000),
		done:    make(chan bool),
	}

	for i := 0; i < workers; i++ {
		go q.worker()
	}

	return q
}

func (q *EmailQueue) worker() {
	for {
		select {
		case email := <-q.queue:
			err := q.service.SendWithTemplate(email.to, email.subject, email.templateName, email.data)
			if err != nil {
				log.Printf("Email send error: %v", err)
				if email.retries < 3 {
					email.retries++
					time.Sleep(time.Second * time.Duration(email.retries*2))
					q.queue <- email
				}
			}
		case <-q.done:
			return
		}
	}
}

// Enqueue adds an email to the queue
func (q *EmailQueue) Enqueue(to []string, subject, templateName string, data interface{}) {
	q.queue <- &queuedEmail{
		to:           to,
		subject:      subject,
		templateName: templateName,
		data:         data,
		retries:      0,
	}
}

// Stop stops the email queue workers
func (q *EmailQueue) Stop() {
	close(q.done)
}
