package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"hicode-bloodlink/internal/adapters/persistence/models"
	"hicode-bloodlink/internal/config"
)

// NotificationService delivers out-of-band messages (OTP codes, reset
// links, emergency broadcasts) to a webhook endpoint. When no webhook is
// configured, messages are logged instead so local development still shows
// the codes.
type NotificationService struct {
	webhookURL string
	enabled    bool
	client     *http.Client
}

// NewNotificationService creates a new notification service
func NewNotificationService(cfg *config.Config) *NotificationService {
	return &NotificationService{
		webhookURL: cfg.Notify.WebhookURL,
		enabled:    cfg.Notify.WebhookURL != "",
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

type webhookMessage struct {
	Recipient string `json:"recipient,omitempty"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
}

func (s *NotificationService) send(msg webhookMessage) {
	if !s.enabled {
		log.Printf("📨 [notify] %s | %s | %s", msg.Recipient, msg.Subject, msg.Body)
		return
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		log.Printf("❌ Failed to encode notification: %v", err)
		return
	}

	resp, err := s.client.Post(s.webhookURL, "application/json", bytes.NewReader(payload))
	if err != nil {
		log.Printf("❌ Failed to deliver notification: %v", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		log.Printf("⚠️ Notification webhook returned status %d", resp.StatusCode)
	}
}

// SendRegistrationOTP delivers the registration verification code
func (s *NotificationService) SendRegistrationOTP(email, code string) {
	s.send(webhookMessage{
		Recipient: email,
		Subject:   "Verify your BloodLink account",
		Body:      fmt.Sprintf("Your verification code is %s. It expires in 10 minutes.", code),
	})
}

// SendPasswordReset delivers the password reset token
func (s *NotificationService) SendPasswordReset(email, token string) {
	s.send(webhookMessage{
		Recipient: email,
		Subject:   "BloodLink password reset",
		Body:      fmt.Sprintf("Use this token to reset your password: %s", token),
	})
}

// NotifyEmergencyRequest broadcasts a new emergency blood request to a
// compatible donor
func (s *NotificationService) NotifyEmergencyRequest(email string, request *models.BloodRequest, bloodTypeLabel string) {
	s.send(webhookMessage{
		Recipient: email,
		Subject:   fmt.Sprintf("🚨 Emergency request: %s needed", bloodTypeLabel),
		Body: fmt.Sprintf("%s at %s needs %d unit(s) of %s (urgency: %s). Open the app to pledge.",
			request.PatientName, request.Hospital, request.QuantityInUnits, bloodTypeLabel, request.Urgency),
	})
}

// NotifyAppointmentReminder reminds a donor of an upcoming appointment
func (s *NotificationService) NotifyAppointmentReminder(email, donorName, location string, scheduledAt time.Time) {
	s.send(webhookMessage{
		Recipient: email,
		Subject:   "Donation appointment reminder",
		Body: fmt.Sprintf("Hi %s, you have a donation appointment on %s at %s.",
			donorName, scheduledAt.Format("02 Jan 2006 15:04"), location),
	})
}

// NotifyDonationCompleted thanks a donor after a completed donation
func (s *NotificationService) NotifyDonationCompleted(email, donorName string, volumeML int) {
	s.send(webhookMessage{
		Recipient: email,
		Subject:   "Thank you for donating",
		Body: fmt.Sprintf("Thank you %s! Your %d ml donation passed testing and is ready to help a patient.",
			donorName, volumeML),
	})
}

// NotifyRequestFulfilled informs the requester their request was fulfilled
func (s *NotificationService) NotifyRequestFulfilled(email string, request *models.BloodRequest) {
	s.send(webhookMessage{
		Recipient: email,
		Subject:   "Blood request fulfilled",
		Body: fmt.Sprintf("Your request for %d unit(s) for patient %s has been fulfilled.",
			request.QuantityInUnits, request.PatientName),
	})
}
