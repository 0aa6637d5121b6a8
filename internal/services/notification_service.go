// internal/services/notification_service.go
package services

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/ses"
	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"

	"github.com/brightcover/agency-backend/internal/config"
	"github.com/brightcover/agency-backend/internal/models"
)

// NotificationService sends transactional email. Delivery is best-effort:
// every failure is logged and none is ever surfaced to the submitter, since
// the lead is already durably stored by the time a send starts.
type NotificationService struct {
	config    *config.Config
	sesClient *ses.SES
}

type EmailTemplate struct {
	Subject string
	Body    string
}

func NewNotificationService(cfg *config.Config) *NotificationService {
	svc := &NotificationService{config: cfg}

	if cfg.AWS.AccessKeyID != "" {
		sess, err := session.NewSession(&aws.Config{
			Region: aws.String(cfg.AWS.Region),
			Credentials: credentials.NewStaticCredentials(
				cfg.AWS.AccessKeyID,
				cfg.AWS.SecretAccessKey,
				"",
			),
		})
		if err != nil {
			logrus.WithError(err).Warn("Failed to create AWS session, falling back to SMTP")
		} else {
			svc.sesClient = ses.New(sess)
		}
	}

	return svc
}

// NotifyNewLead sends the agency alert and the applicant confirmation for a
// freshly stored lead. Safe to run in a goroutine.
func (s *NotificationService) NotifyNewLead(lead *models.Lead) {
	if err := s.SendAgencyAlert(lead); err != nil {
		logrus.WithError(err).WithField("lead_id", lead.ID).Error("Failed to send agency alert email")
	}
	if err := s.SendLeadConfirmation(lead); err != nil {
		logrus.WithError(err).WithField("lead_id", lead.ID).Error("Failed to send lead confirmation email")
	}
}

// SendAgencyAlert notifies the agency inbox about an incoming quote request.
func (s *NotificationService) SendAgencyAlert(lead *models.Lead) error {
	tmpl := s.getEmailTemplate("agency_alert")

	data := map[string]interface{}{
		"LeadName":     lead.FullName(),
		"Email":        lead.Email,
		"Phone":        lead.Phone,
		"CoverageType": lead.CoverageType,
		"State":        lead.State,
		"LeadURL":      fmt.Sprintf("%s/admin/leads/%s", s.config.Frontend.BaseURL, lead.ID),
		"AgencyName":   s.config.Agency.Name,
	}

	subject := "New Quote Request - " + lead.FullName()
	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(s.config.Agency.NotifyEmail, subject, body)
}

// SendLeadConfirmation acknowledges the applicant's quote request.
func (s *NotificationService) SendLeadConfirmation(lead *models.Lead) error {
	tmpl := s.getEmailTemplate("lead_confirmation")

	data := map[string]interface{}{
		"FirstName":      lead.FirstName,
		"AgencyName":     s.config.Agency.Name,
		"AgencyPhone":    s.config.Agency.Phone,
		"CoverageType":   lead.CoverageType,
		"UnsubscribeURL": fmt.Sprintf("%s/unsubscribe/%s", s.config.Frontend.BaseURL, lead.UnsubscribeToken),
	}

	subject := fmt.Sprintf("We received your quote request, %s", lead.FirstName)
	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(lead.Email, subject, body)
}

// Helper methods
func (s *NotificationService) sendEmail(to, subject, body string) error {
	if s.sesClient != nil {
		return s.sendViaSES(to, subject, body)
	}
	if s.config.Email.SMTPHost != "" {
		return s.sendViaSMTP(to, subject, body)
	}

	// Email not configured, just log
	logrus.WithFields(logrus.Fields{
		"to":      to,
		"subject": subject,
	}).Info("Email transport not configured, skipping send")
	return nil
}

func (s *NotificationService) sendViaSES(to, subject, body string) error {
	input := &ses.SendEmailInput{
		Source: aws.String(fmt.Sprintf("%s <%s>", s.config.Email.FromName, s.config.Email.FromEmail)),
		Destination: &ses.Destination{
			ToAddresses: []*string{aws.String(to)},
		},
		Message: &ses.Message{
			Subject: &ses.Content{
				Charset: aws.String("UTF-8"),
				Data:    aws.String(subject),
			},
			Body: &ses.Body{
				Html: &ses.Content{
					Charset: aws.String("UTF-8"),
					Data:    aws.String(body),
				},
			},
		},
	}

	if _, err := s.sesClient.SendEmail(input); err != nil {
		return fmt.Errorf("ses send failed: %w", err)
	}
	return nil
}

func (s *NotificationService) sendViaSMTP(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.config.Email.FromEmail, s.config.Email.FromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(
		s.config.Email.SMTPHost,
		s.config.Email.SMTPPort,
		s.config.Email.SMTPUsername,
		s.config.Email.SMTPPassword,
	)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send failed: %w", err)
	}
	return nil
}

func (s *NotificationService) renderTemplate(templateStr string, data interface{}) (string, error) {
	tmpl, err := template.New("email").Parse(templateStr)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func (s *NotificationService) getEmailTemplate(templateType string) EmailTemplate {
	templates := map[string]EmailTemplate{
		"agency_alert": {
			Subject: "New Quote Request",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>New Quote Request</h2>
	<p><strong>{{.LeadName}}</strong> requested a {{.CoverageType}} quote.</p>
	<ul>
		<li>Email: {{.Email}}</li>
		<li>Phone: {{.Phone}}</li>
		<li>State: {{.State}}</li>
	</ul>
	<a href="{{.LeadURL}}">Open lead in dashboard</a>
	<p>{{.AgencyName}}</p>
</body>
</html>`,
		},
		"lead_confirmation": {
			Subject: "We received your quote request",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Thanks, {{.FirstName}}!</h2>
	<p>We received your {{.CoverageType}} quote request. A licensed agent from {{.AgencyName}} will reach out shortly.</p>
	<p>Questions in the meantime? Call us at {{.AgencyPhone}}.</p>
	<p style="font-size:12px;color:#888"><a href="{{.UnsubscribeURL}}">Unsubscribe from marketing emails</a></p>
</body>
</html>`,
		},
	}

	if tmpl, exists := templates[templateType]; exists {
		return tmpl
	}

	// Default template
	return EmailTemplate{
		Subject: "Notification",
		Body:    "<p>{{.Message}}</p>",
	}
}
