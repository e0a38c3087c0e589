package services

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"strings"

	"github.com/akdamba/portal-backend/internal/pkg/apierr"
	"github.com/akdamba/portal-backend/internal/pkg/logger"
	"github.com/akdamba/portal-backend/internal/platform/sendgrid"
)

const (
	MsgCallbackMissingFields = "Navn og telefonnummer er påkrævet."
	MsgCallbackFailed        = "Der opstod en fejl. Prøv venligst igen."
	MsgCallbackReceived      = "Tak! Vi ringer dig op hurtigst muligt."
)

type CallbackService interface {
	// RequestCallback routes a call-me-back request to the mailbox mapped
	// to the chosen reason and mails it there.
	RequestCallback(ctx context.Context, reason, name, phone string) *apierr.Error
}

type callbackService struct {
	log           *logger.Logger
	content       ContentService
	email         sendgrid.Client
	fallbackEmail string
}

func NewCallbackService(log *logger.Logger, content ContentService, email sendgrid.Client, fallbackEmail string) CallbackService {
	return &callbackService{
		log:           log.With("service", "CallbackService"),
		content:       content,
		email:         email,
		fallbackEmail: strings.TrimSpace(fallbackEmail),
	}
}

func (s *callbackService) RequestCallback(ctx context.Context, reason, name, phone string) *apierr.Error {
	name = strings.TrimSpace(name)
	phone = strings.TrimSpace(phone)
	reason = strings.TrimSpace(reason)

	if name == "" || phone == "" {
		return apierr.New(http.StatusBadRequest, "missing_fields", MsgCallbackMissingFields, nil)
	}

	recipient := s.resolveRecipient(ctx, reason)
	if recipient == "" {
		s.log.Error("No recipient for callback request", "reason", reason)
		return apierr.New(http.StatusInternalServerError, "no_recipient", MsgCallbackFailed, nil)
	}

	if s.email == nil {
		s.log.Error("Callback email client not configured")
		return apierr.New(http.StatusInternalServerError, "email_not_configured", MsgCallbackFailed, nil)
	}

	subject := "Ny opringningsanmodning"
	if reason != "" {
		subject += ": " + reason
	}
	_, err := s.email.Send(ctx, sendgrid.SendEmailRequest{
		To:      []sendgrid.EmailAddress{{Email: recipient}},
		Subject: subject,
		Text:    callbackText(reason, name, phone),
		HTML:    callbackHTML(reason, name, phone),
	})
	if err != nil {
		// Provider detail stays server-side.
		s.log.Error("Callback email dispatch failed", "reason", reason, "error", err.Error())
		return apierr.New(http.StatusInternalServerError, "dispatch_failed", MsgCallbackFailed, err)
	}

	s.log.Info("Callback request dispatched", "reason", reason)
	return nil
}

// resolveRecipient looks the reason up in the CMS-managed mapping. A CMS
// outage must not drop the request, so any lookup failure falls back to
// the default mailbox.
func (s *callbackService) resolveRecipient(ctx context.Context, reason string) string {
	fallback := s.fallbackEmail

	if s.content != nil {
		settings, err := s.content.SiteSettings(ctx)
		if err != nil {
			s.log.Warn("Could not load callback reason mapping", "error", err.Error())
		} else if settings != nil {
			if strings.TrimSpace(settings.CallbackFallbackEmail) != "" {
				fallback = strings.TrimSpace(settings.CallbackFallbackEmail)
			}
			for _, r := range settings.CallbackReasons {
				if strings.EqualFold(strings.TrimSpace(r.Label), reason) && strings.TrimSpace(r.Email) != "" {
					return strings.TrimSpace(r.Email)
				}
			}
		}
	}
	return fallback
}

func callbackText(reason, name, phone string) string {
	if reason == "" {
		reason = "(ikke angivet)"
	}
	return fmt.Sprintf("Ny opringningsanmodning\n\nÅrsag: %s\nNavn: %s\nTelefon: %s\n", reason, name, phone)
}

func callbackHTML(reason, name, phone string) string {
	if reason == "" {
		reason = "(ikke angivet)"
	}
	return fmt.Sprintf(
		"<h2>Ny opringningsanmodning</h2><p><strong>Årsag:</strong> %s</p><p><strong>Navn:</strong> %s</p><p><strong>Telefon:</strong> %s</p>",
		html.EscapeString(reason), html.EscapeString(name), html.EscapeString(phone),
	)
}
