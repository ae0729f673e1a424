package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/medicarepro/booking-system/internal/core/domain"
	"github.com/medicarepro/booking-system/internal/core/ports"
)

type SupportService struct {
	events ports.EventPublisher
	log    zerolog.Logger
}

func NewSupportService(events ports.EventPublisher, log zerolog.Logger) *SupportService {
	return &SupportService{events: events, log: log}
}

// Contact records a support request and forwards it to the support topic.
func (s *SupportService) Contact(ctx context.Context, in ports.ContactInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Subject = strings.TrimSpace(in.Subject)
	in.Message = strings.TrimSpace(in.Message)
	if in.Name == "" || in.Email == "" || in.Subject == "" || in.Message == "" {
		return domain.Invalid("All fields are required")
	}

	s.log.Info().
		Str("name", in.Name).
		Str("email", in.Email).
		Str("subject", in.Subject).
		Msg("support request received")
	publish(ctx, s.events, s.log, domain.EventSupportContact, in.Email, in)
	return nil
}
