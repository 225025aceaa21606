// internal/services/notification_service.go
package services

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/sirupsen/logrus"

	"github.com/soukhub/marketplace-backend/internal/config"
	"github.com/soukhub/marketplace-backend/internal/models"
)

type NotificationService struct {
	config *config.Config
}

type EmailTemplate struct {
	Subject string
	Body    string
}

func NewNotificationService(config *config.Config) *NotificationService {
	return &NotificationService{config: config}
}

func (s *NotificationService) SendWelcomeEmail(user *models.User) error {
	tmpl := s.getEmailTemplate("welcome")

	data := map[string]interface{}{
		"Username":     user.Username,
		"PlatformName": s.config.Email.FromName,
		"LoginURL":     fmt.Sprintf("%s/login", s.config.Frontend.BaseURL),
	}

	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(user.Email, tmpl.Subject, body)
}

func (s *NotificationService) SendPasswordResetEmail(user *models.User, resetToken string) error {
	tmpl := s.getEmailTemplate("password_reset")

	data := map[string]interface{}{
		"Username":  user.Username,
		"ResetURL":  fmt.Sprintf("%s/reset-password?token=%s", s.config.Frontend.BaseURL, resetToken),
		"ExpiresIn": "1 hour",
	}

	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(user.Email, tmpl.Subject, body)
}

// SendOrderConfirmationEmail mails the client a receipt. The order must
// carry its preloaded Client.User association; if it does not, the
// email is skipped rather than failed.
func (s *NotificationService) SendOrderConfirmationEmail(order *models.Order) error {
	if order.Client.User.Email == "" {
		return nil
	}

	tmpl := s.getEmailTemplate("order_confirmation")

	data := map[string]interface{}{
		"Username":   order.Client.User.Username,
		"OrderID":    order.ID,
		"ItemCount":  len(order.OrderedItems),
		"ItemsTotal": fmt.Sprintf("%.2f", order.ItemsTotal),
		"Discount":   fmt.Sprintf("%.2f", order.Discount),
		"TotalPrice": fmt.Sprintf("%.2f", order.TotalPrice),
		"OrderURL":   fmt.Sprintf("%s/orders/%s", s.config.Frontend.BaseURL, order.ID),
	}

	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(order.Client.User.Email, tmpl.Subject, body)
}

func (s *NotificationService) SendAccountStatusEmail(user *models.User, oldStatus models.UserStatus) error {
	tmpl := s.getEmailTemplate("account_status")

	data := map[string]interface{}{
		"Username":  user.Username,
		"OldStatus": oldStatus,
		"NewStatus": user.Status,
	}

	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(user.Email, tmpl.Subject, body)
}

func (s *NotificationService) sendEmail(to, subject, body string) error {
	if s.config.Email.SMTPUsername == "" {
		// SMTP not configured; dev environments run without email.
		logrus.WithFields(logrus.Fields{
			"to":      to,
			"subject": subject,
		}).Info("email delivery skipped (SMTP not configured)")
		return nil
	}

	auth := smtp.PlainAuth("", s.config.Email.SMTPUsername, s.config.Email.SMTPPassword, s.config.Email.SMTPHost)

	msg := []byte(fmt.Sprintf("To: %s\r\nFrom: %s <%s>\r\nSubject: %s\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		to, s.config.Email.FromName, s.config.Email.FromEmail, subject, body))

	addr := fmt.Sprintf("%s:%s", s.config.Email.SMTPHost, s.config.Email.SMTPPort)
	return smtp.SendMail(addr, auth, s.config.Email.FromEmail, []string{to}, msg)
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
		"welcome": {
			Subject: "Welcome to SoukHub",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Welcome {{.Username}}!</h2>
	<p>Your {{.PlatformName}} account is ready. Browse local sellers and place your first order:</p>
	<a href="{{.LoginURL}}">Sign in</a>
	<p>Best regards,<br>{{.PlatformName}} Team</p>
</body>
</html>`,
		},
		"password_reset": {
			Subject: "Password Reset Request",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Hello {{.Username}},</h2>
	<p>We received a request to reset your password. The link below expires in {{.ExpiresIn}}:</p>
	<a href="{{.ResetURL}}">Reset Password</a>
	<p>If you did not request this, you can ignore this email.</p>
</body>
</html>`,
		},
		"order_confirmation": {
			Subject: "Order Confirmation",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Thanks for your order, {{.Username}}!</h2>
	<p>We received your order of {{.ItemCount}} item(s).</p>
	<p>Items: {{.ItemsTotal}}<br>Discount: -{{.Discount}}<br><strong>Total: {{.TotalPrice}}</strong></p>
	<a href="{{.OrderURL}}">Track your order</a>
</body>
</html>`,
		},
		"account_status": {
			Subject: "Account Status Update",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Hello {{.Username}},</h2>
	<p>Your account status changed from {{.OldStatus}} to {{.NewStatus}}.</p>
	<p>If you believe this is a mistake, contact support.</p>
</body>
</html>`,
		},
	}

	if tmpl, exists := templates[templateType]; exists {
		return tmpl
	}

	return EmailTemplate{
		Subject: "Notification",
		Body:    "<p>{{.Message}}</p>",
	}
}
