package service

import (
	"fmt"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"

	"rentiva/internal/config"
	"rentiva/internal/entities"
	"rentiva/internal/logger"
)

// SenderService delivers booking notifications. Sends are fire-and-forget:
// a failed notification never fails the booking flow.
type SenderService struct {
	sendgridCfg config.SendGridConfig
	twilioCfg   config.TwilioConfig
}

func NewSenderService(sendgridCfg config.SendGridConfig, twilioCfg config.TwilioConfig) *SenderService {
	return &SenderService{sendgridCfg: sendgridCfg, twilioCfg: twilioCfg}
}

func (s *SenderService) SendBookingEmail(booking entities.BookingResponse, orgName, status string) {
	loc := localTime()

	data := entities.BookingEmailData{
		CustomerName:     booking.CustomerName,
		BookingCode:      booking.Code,
		CarLabel:         booking.CarLabel,
		PickupFormatted:  booking.PickupDate.In(loc).Format("02 Jan 2006 15:04"),
		DropoffFormatted: booking.DropoffDate.In(loc).Format("02 Jan 2006 15:04"),
		Total:            booking.TotalPrice,
		Status:           status,
		CurrentYear:      time.Now().In(loc).Year(),
	}

	subject := fmt.Sprintf("Your %s booking is %s - Code: %s", orgName, status, data.BookingCode)
	plainBody := fmt.Sprintf(
		"Hello %s,\n\nYour booking with %s is %s.\n\n"+
			"Booking details:\n"+
			"Booking code: %s\n"+
			"Car: %s\n"+
			"Pickup: %s\n"+
			"Dropoff: %s\n"+
			"Total: %.2f EUR\n\n"+
			"Thank you for choosing %s.\n",
		data.CustomerName, orgName, status,
		data.BookingCode, data.CarLabel,
		data.PickupFormatted, data.DropoffFormatted,
		data.Total, orgName,
	)
	htmlBody := fmt.Sprintf(
		"<p>Hello %s,</p><p>Your booking with %s is <strong>%s</strong>.</p>"+
			"<ul><li>Booking code: %s</li><li>Car: %s</li><li>Pickup: %s</li>"+
			"<li>Dropoff: %s</li><li>Total: %.2f EUR</li></ul>"+
			"<p>Thank you for choosing %s.</p>",
		data.CustomerName, orgName, status,
		data.BookingCode, data.CarLabel,
		data.PickupFormatted, data.DropoffFormatted,
		data.Total, orgName,
	)

	go func() {
		if err := s.sendEmail(booking.CustomerEmail, data.CustomerName, subject, plainBody, htmlBody); err != nil {
			logger.Error("booking email failed", "code", data.BookingCode, "error", err)
		}
	}()
}

func (s *SenderService) SendBookingSMS(booking entities.BookingResponse, orgName, status string) {
	loc := localTime()

	message := fmt.Sprintf("%s: booking %s is %s!\nPickup: %s.\nDetails in your email.",
		orgName, booking.Code, status,
		booking.PickupDate.In(loc).Format("02/01 15:04"),
	)

	go func() {
		if err := s.sendSMS(booking.CustomerPhone, message); err != nil {
			logger.Error("booking SMS failed", "code", booking.Code, "error", err)
		}
	}()
}

func (s *SenderService) sendEmail(to, toName, subject, plainText, htmlContent string) error {
	from := mail.NewEmail(s.sendgridCfg.FromName, s.sendgridCfg.FromEmail)
	recipient := mail.NewEmail(toName, to)
	message := mail.NewSingleEmail(from, subject, recipient, plainText, htmlContent)

	client := sendgrid.NewSendClient(s.sendgridCfg.APIKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

func (s *SenderService) sendSMS(to, message string) error {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: s.twilioCfg.AccountSID,
		Password: s.twilioCfg.AuthToken,
	})

	params := &openapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.twilioCfg.FromNumber)
	params.SetBody(message)

	if _, err := client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("failed to send SMS: %w", err)
	}
	return nil
}

func localTime() *time.Location {
	loc, err := time.LoadLocation("Europe/Athens")
	if err != nil {
		return time.FixedZone("EET", 2*60*60)
	}
	return loc
}
