package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/aukawellness/studio-api/internal/bookings"
	"github.com/aukawellness/studio-api/internal/i18n"
	"github.com/aukawellness/studio-api/pkg/logging"
)

// Service sends booking confirmations to visitors. Delivery is best effort:
// the booking is already stored when this runs, and callers log failures
// without surfacing them.
type Service struct {
	email      EmailSender
	studioName string
	siteURL    string
	logger     *logging.Logger
}

// NewService creates a notification service. siteURL is the public site
// origin linked from outgoing emails; empty omits the link.
func NewService(email EmailSender, studioName, siteURL string, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	if studioName == "" {
		studioName = "Auka Wellness"
	}
	return &Service{
		email:      email,
		studioName: studioName,
		siteURL:    strings.TrimRight(siteURL, "/"),
		logger:     logger,
	}
}

// SendBookingConfirmation emails the visitor their trial class details in
// the request locale.
func (s *Service) SendBookingConfirmation(ctx context.Context, booking *bookings.Booking) error {
	if s.email == nil {
		s.logger.Debug("notify: email sender not configured, skipping confirmation")
		return nil
	}

	loc := i18n.FromContext(ctx)
	msg := EmailMessage{
		To:      booking.Email,
		ToName:  booking.Name,
		Subject: confirmationSubject(loc, s.studioName),
		Body:    confirmationBody(loc, s.studioName, s.siteURL, booking),
	}

	if err := s.email.Send(ctx, msg); err != nil {
		return fmt.Errorf("notify: booking confirmation: %w", err)
	}
	s.logger.Info("booking confirmation sent", "booking_id", booking.ID, "locale", string(loc))
	return nil
}

func confirmationSubject(loc i18n.Locale, studioName string) string {
	if loc == i18n.LocaleEN {
		return fmt.Sprintf("Your trial class at %s is confirmed", studioName)
	}
	return fmt.Sprintf("Tu clase de prueba en %s está confirmada", studioName)
}

func confirmationBody(loc i18n.Locale, studioName, siteURL string, b *bookings.Booking) string {
	var sb strings.Builder
	if loc == i18n.LocaleEN {
		fmt.Fprintf(&sb, "Hi %s,\n\n", b.Name)
		fmt.Fprintf(&sb, "Your trial class is booked:\n\n")
		fmt.Fprintf(&sb, "  Class: %s\n", b.ClassTitle)
		fmt.Fprintf(&sb, "  Date: %s (%s)\n", b.SelectedDate, b.DayKey)
		fmt.Fprintf(&sb, "  Time: %s\n\n", b.TimeOfDay)
		fmt.Fprintf(&sb, "Please arrive 10 minutes early. See you on the mat!\n\n")
		if siteURL != "" {
			fmt.Fprintf(&sb, "Class schedule and directions: %s/horarios\n\n", siteURL)
		}
		fmt.Fprintf(&sb, "%s\n", studioName)
		return sb.String()
	}
	fmt.Fprintf(&sb, "Hola %s:\n\n", b.Name)
	fmt.Fprintf(&sb, "Tu clase de prueba quedó agendada:\n\n")
	fmt.Fprintf(&sb, "  Clase: %s\n", b.ClassTitle)
	fmt.Fprintf(&sb, "  Fecha: %s (%s)\n", b.SelectedDate, b.DayKey)
	fmt.Fprintf(&sb, "  Hora: %s\n\n", b.TimeOfDay)
	fmt.Fprintf(&sb, "Te esperamos 10 minutos antes. ¡Nos vemos en el mat!\n\n")
	if siteURL != "" {
		fmt.Fprintf(&sb, "Horarios y cómo llegar: %s/horarios\n\n", siteURL)
	}
	fmt.Fprintf(&sb, "%s\n", studioName)
	return sb.String()
}

// Ensure the service satisfies the booking flow's notifier contract.
var _ bookings.ConfirmationSender = (*Service)(nil)
