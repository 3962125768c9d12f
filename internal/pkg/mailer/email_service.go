package mailer

import (
	"fmt"
	"os"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendPlanReady(toEmail, planTitle, planId string) error
	SendMaterialFailed(toEmail, fileName, reason string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	frontendURL string
}

func NewEmailService(host string, port int, username, password, senderEmail string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	frontendURL := os.Getenv("FRONTEND_URL")

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
		frontendURL: frontendURL,
	}
}

func (s *emailService) SendPlanReady(toEmail, planTitle, planId string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Your Learning Plan Is Ready")

	planLink := fmt.Sprintf("%s/plans/%s", s.frontendURL, planId)

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Your learning plan is ready!</h2>
			<p>We finished generating <strong>%s</strong>. You can start studying now:</p>
			<a href="%s" style="background-color: #007BFF; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block;">Open Plan</a>
			<p>Or copy this link:</p>
			<p>%s</p>
		</div>
	`, planTitle, planLink, planLink)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send plan ready mail to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Plan ready mail sent to %s\n", toEmail)
	return nil
}

func (s *emailService) SendMaterialFailed(toEmail, fileName, reason string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "We Could Not Process Your Material")

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Processing failed</h2>
			<p>We could not process <strong>%s</strong>.</p>
			<p>Reason: %s</p>
			<p>Please try uploading the file again.</p>
		</div>
	`, fileName, reason)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send material failed mail to %s: %v\n", toEmail, err)
		return err
	}

	return nil
}
