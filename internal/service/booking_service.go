package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"rentiva/internal/db"
	"rentiva/internal/entities"
	httperr "rentiva/internal/errors"
	"rentiva/internal/logger"
	"rentiva/internal/pricing"
	"rentiva/internal/repository"
)

const (
	statusPending   = "pending"
	statusConfirmed = "confirmed"
	statusCanceled  = "canceled"

	paymentPending   = "pending"
	paymentSucceeded = "succeeded"
	paymentRefunded  = "refunded"

	cancellationWindow = 12 * time.Hour
)

// BookingInput is a validated booking request.
type BookingInput struct {
	CarID             int
	CustomerName      string
	CustomerEmail     string
	CustomerPhone     string
	PickupDate        time.Time
	DropoffDate       time.Time
	PickupLocationID  int
	DropoffLocationID int
	ExtraIDs          []int
	InsuranceTypeID   int
}

// BookingService owns the booking lifecycle: quote, Stripe checkout, status
// transitions driven by webhooks, and cancellation with refund.
type BookingService struct {
	orgs     OrgSource
	fleet    FleetSource
	extras   ExtrasSource
	bookings *repository.BookingRepository
	engine   *pricing.Engine
	composer *pricing.Composer
	stripe   *StripeService
	sender   *SenderService
}

func NewBookingService(orgs OrgSource, fleet FleetSource, extras ExtrasSource, bookings *repository.BookingRepository, engine *pricing.Engine, composer *pricing.Composer, stripeSvc *StripeService, sender *SenderService) *BookingService {
	return &BookingService{
		orgs:     orgs,
		fleet:    fleet,
		extras:   extras,
		bookings: bookings,
		engine:   engine,
		composer: composer,
		stripe:   stripeSvc,
		sender:   sender,
	}
}

func (s *BookingService) CreateBooking(ctx context.Context, orgSlug string, input BookingInput) (*entities.StripeSessionResponse, error) {
	org, err := s.orgs.GetBySlug(ctx, orgSlug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, httperr.NotFound("organization not found")
		}
		return nil, httperr.Wrap(500, "failed to load organization", err)
	}

	car, err := s.fleet.GetCar(ctx, org.ID, input.CarID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, httperr.NotFound("car not found")
		}
		return nil, httperr.Wrap(500, "failed to load car", err)
	}

	available, err := s.fleet.IsCarAvailable(ctx, car.ID, input.PickupDate, input.DropoffDate)
	if err != nil {
		return nil, httperr.Wrap(500, "failed to check availability", err)
	}
	if !available {
		return nil, httperr.Conflict("car is not available for the selected dates")
	}

	price, err := s.engine.ComputePrice(ctx, org.ID, car.ID, car.CategoryID, input.PickupDate, input.DropoffDate)
	if err != nil {
		return nil, httperr.Wrap(500, "pricing unavailable", err)
	}

	extrasPrice, insurancePrice, err := addOnPrices(ctx, s.extras, org.ID, input.ExtraIDs, input.InsuranceTypeID, price.RentalDays)
	if err != nil {
		return nil, httperr.Wrap(500, "failed to price add-ons", err)
	}

	quote, err := s.composer.ComposeQuote(ctx, price, input.PickupLocationID, input.DropoffLocationID, extrasPrice, insurancePrice)
	if err != nil {
		return nil, httperr.Wrap(500, "failed to compose quote", err)
	}

	code := fmt.Sprintf("%08X", time.Now().UnixNano()%100000000)

	booking := &db.Booking{
		Code:              code,
		OrgID:             org.ID,
		CarID:             car.ID,
		CustomerName:      input.CustomerName,
		CustomerEmail:     input.CustomerEmail,
		CustomerPhone:     input.CustomerPhone,
		PickupDate:        input.PickupDate,
		DropoffDate:       input.DropoffDate,
		PickupLocationID:  input.PickupLocationID,
		DropoffLocationID: input.DropoffLocationID,
		TotalPrice:        quote.Total,
		Status:            statusPending,
		PaymentStatus:     paymentPending,
		CreatedAt:         time.Now().UTC(),
		UpdatedAt:         time.Now().UTC(),
	}

	amountCents := int64(math.Round(quote.Total * 100))
	sessionURL, sessionID, err := s.stripe.CreateCheckoutSession(amountCents, strings.ToLower(org.Currency), code, input.CustomerEmail)
	if err != nil {
		return nil, httperr.Wrap(500, "failed to create checkout session", err)
	}
	booking.StripeSessionID = sessionID

	if err := s.bookings.Create(ctx, booking); err != nil {
		logger.Error("error creating booking", "code", code, "error", err)
		return nil, httperr.Wrap(500, "failed to create booking", err)
	}

	return &entities.StripeSessionResponse{
		Code:      code,
		URL:       sessionURL,
		SessionID: sessionID,
	}, nil
}

func (s *BookingService) GetBooking(ctx context.Context, code, email string) (*entities.BookingResponse, error) {
	booking, err := s.bookings.GetByCode(ctx, code, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, httperr.NotFound("booking not found")
		}
		return nil, httperr.Wrap(500, "failed to load booking", err)
	}
	return s.toResponse(ctx, booking), nil
}

// GetBySessionID backs the post-checkout confirmation page, where only the
// Stripe session id is known.
func (s *BookingService) GetBySessionID(ctx context.Context, sessionID string) (*entities.BookingResponse, error) {
	booking, err := s.bookings.GetByStripeSessionID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, httperr.NotFound("booking not found")
		}
		return nil, httperr.Wrap(500, "failed to load booking", err)
	}
	return s.toResponse(ctx, booking), nil
}

// CancelBooking refunds and cancels. Cancellation closes 12 hours before
// pickup.
func (s *BookingService) CancelBooking(ctx context.Context, code string) error {
	booking, err := s.bookings.GetByCodeOnly(ctx, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return httperr.NotFound("booking not found")
		}
		return httperr.Wrap(500, "failed to load booking", err)
	}
	if booking.Status == statusCanceled {
		return httperr.Conflict("booking is already canceled")
	}

	if time.Until(booking.PickupDate) < cancellationWindow {
		return httperr.BadRequest("bookings can only be canceled more than 12 hours before pickup")
	}

	if booking.PaymentStatus == paymentSucceeded && booking.StripeSessionID != "" {
		if err := s.stripe.RefundPaymentBySessionID(booking.StripeSessionID); err != nil {
			return httperr.Wrap(500, "failed to refund payment", err)
		}
	}

	if err := s.bookings.Cancel(ctx, code); err != nil {
		return httperr.Wrap(500, "failed to cancel booking", err)
	}

	s.notify(ctx, booking, statusCanceled)
	return nil
}

// ConfirmBySessionID handles a completed checkout: the booking becomes
// confirmed and the customer is notified.
func (s *BookingService) ConfirmBySessionID(ctx context.Context, sessionID, paymentIntentID string) error {
	booking, err := s.bookings.GetByStripeSessionID(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("loading booking for session %s: %w", sessionID, err)
	}
	if err := s.bookings.UpdateStatusAndPayment(ctx, booking.ID, statusConfirmed, paymentSucceeded, paymentIntentID); err != nil {
		return err
	}
	booking.Status = statusConfirmed
	s.notify(ctx, booking, statusConfirmed)
	return nil
}

// MarkRefundedBySessionID handles an out-of-band refund seen on the webhook.
func (s *BookingService) MarkRefundedBySessionID(ctx context.Context, sessionID string) error {
	booking, err := s.bookings.GetByStripeSessionID(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("loading booking for session %s: %w", sessionID, err)
	}
	return s.bookings.UpdateStatusAndPayment(ctx, booking.ID, statusCanceled, paymentRefunded, "")
}

// SessionIDForPaymentIntent proxies the Stripe lookup for webhook handlers.
func (s *BookingService) SessionIDForPaymentIntent(paymentIntentID string) (string, error) {
	return s.stripe.GetSessionIDByPaymentIntentID(paymentIntentID)
}

func (s *BookingService) notify(ctx context.Context, booking *db.Booking, status string) {
	resp := s.toResponse(ctx, booking)

	orgName := "Rentiva"
	if org, err := s.orgs.GetByID(ctx, booking.OrgID); err == nil && org != nil {
		orgName = org.Name
	}

	s.sender.SendBookingEmail(*resp, orgName, status)
	s.sender.SendBookingSMS(*resp, orgName, status)
}

func (s *BookingService) toResponse(ctx context.Context, booking *db.Booking) *entities.BookingResponse {
	carLabel := ""
	if car, err := s.fleet.GetCar(ctx, booking.OrgID, booking.CarID); err == nil {
		carLabel = fmt.Sprintf("%s %s (%d)", car.Make, car.Model, car.Year)
	}
	return &entities.BookingResponse{
		Code:              booking.Code,
		CustomerName:      booking.CustomerName,
		CustomerEmail:     booking.CustomerEmail,
		CustomerPhone:     booking.CustomerPhone,
		CarID:             booking.CarID,
		CarLabel:          carLabel,
		PickupDate:        booking.PickupDate,
		DropoffDate:       booking.DropoffDate,
		PickupLocationID:  booking.PickupLocationID,
		DropoffLocationID: booking.DropoffLocationID,
		TotalPrice:        booking.TotalPrice,
		Status:            booking.Status,
		PaymentStatus:     booking.PaymentStatus,
		CreatedAt:         booking.CreatedAt,
		UpdatedAt:         booking.UpdatedAt,
	}
}
