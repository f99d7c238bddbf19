package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"github.com/resend/resend-go/v3"

	"blogcms/internal/config"
	"blogcms/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

// Sender delivers a rendered message; resend's Emails service implements it.
type Sender interface {
	Send(params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

type Service interface {
	NotifyNewComment(ctx context.Context, comment *domain.Comment) error
	NotifyAdminReply(ctx context.Context, parent, reply *domain.Comment) error
}

type service struct {
	sender    Sender
	config    *config.Config
	templates map[string]*template.Template
}

func NewService(cfg *config.Config) (Service, error) {
	client := resend.NewClient(cfg.ResendAPIKey)
	return NewServiceWithSender(cfg, client.Emails)
}

func NewServiceWithSender(cfg *config.Config, sender Sender) (Service, error) {
	templates := make(map[string]*template.Template)
	for _, name := range []string{"new_comment.html", "admin_reply.html"} {
		tmpl, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("failed to parse email template %s: %w", name, err)
		}
		templates[name] = tmpl
	}
	return &service{
		sender:    sender,
		config:    cfg,
		templates: templates,
	}, nil
}

func (s *service) sendEmail(ctx context.Context, toEmail, subject, templateName string, data any) error {
	tmpl, ok := s.templates[templateName]
	if !ok {
		return fmt.Errorf("unknown email template %s", templateName)
	}

	var body bytes.Buffer
	if err := tmpl.ExecuteTemplate(&body, "layout", data); err != nil {
		return fmt.Errorf("failed to execute email template: %w", err)
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", s.config.SiteName, s.config.FromEmail),
		To:      []string{toEmail},
		Html:    body.String(),
		Subject: subject,
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.sender.Send(params)
	return err
}

// NotifyNewComment tells the site operator a submission is waiting. It is a
// no-op when notifications are off or no operator address is configured.
func (s *service) NotifyNewComment(ctx context.Context, comment *domain.Comment) error {
	if !s.config.NotifyOnSubmission || s.config.AdminEmail == "" {
		return nil
	}
	data := struct {
		Title      string
		SiteName   string
		AuthorName string
		Content    string
		Link       string
	}{
		Title:      "New comment awaiting moderation",
		SiteName:   s.config.SiteName,
		AuthorName: comment.AuthorName,
		Content:    comment.Content,
		Link:       fmt.Sprintf("https://%s/admin/comments?filter=pending", s.config.Domain),
	}
	return s.sendEmail(ctx, s.config.AdminEmail, "New comment awaiting moderation", "new_comment.html", data)
}

func (s *service) NotifyAdminReply(ctx context.Context, parent, reply *domain.Comment) error {
	if parent.AuthorEmail == nil || *parent.AuthorEmail == "" {
		return nil
	}
	data := struct {
		Title     string
		SiteName  string
		Name      string
		OwnerName string
		Content   string
		Link      string
	}{
		Title:     "New reply to your comment",
		SiteName:  s.config.SiteName,
		Name:      parent.AuthorName,
		OwnerName: reply.AuthorName,
		Content:   reply.Content,
		Link:      fmt.Sprintf("https://%s/posts/%s#comment-%s", s.config.Domain, reply.PostID, reply.ID),
	}
	return s.sendEmail(ctx, *parent.AuthorEmail, "New reply to your comment", "admin_reply.html", data)
}
