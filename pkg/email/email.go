// pkg/email/email.go
package email

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"
	"time"
)

type EmailService struct {
	apiKey    string
	from      string
	templates *template.Template
}

type EmailData struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Html    string `json:"html"`
}

// Template data structures
type WelcomeEmailData struct {
	Name string
}

type TrialStartedData struct {
	TierName  string
	TrialDays int
	ExpiresAt time.Time
}

type SubscriptionEmailData struct {
	Name         string
	TierName     string
	BillingCycle string
	Price        int
	Currency     string
	ExpiresAt    time.Time
	IsRenewal    bool
}

type SubscriptionCancelledData struct {
	Name     string
	TierName string
}

type SubscriptionExpiryWarningData struct {
	Name       string
	TierName   string
	DaysLeft   int
	ExpiryDate time.Time
}

type PasswordResetData struct {
	Name      string
	ResetLink string
}

type EnrollmentNotificationData struct {
	CoachName    string
	CourseTitle  string
	StudentEmail string
}

type CoachStatsData struct {
	Name           string
	Period         string
	TotalCourses   int64
	TotalViews     int64
	UniqueViews    int64
	TopCourse      string
	TopCourseViews int64
	NewEnrollments int64
	StartDate      time.Time
}

func NewEmailService(apiKey string) (*EmailService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("resend API key is required")
	}

	templates, err := loadTemplates()
	if err != nil {
		return nil, fmt.Errorf("error loading email templates: %v", err)
	}

	return &EmailService{
		apiKey:    apiKey,
		from:      "Coachly <noreply@coachly.app>",
		templates: templates,
	}, nil
}

func (s *EmailService) sendTemplateEmail(to, subject, templateName string, data interface{}) error {
	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, templateName, data); err != nil {
		return fmt.Errorf("template execution error: %v", err)
	}

	emailData := EmailData{
		From:    s.from,
		To:      to,
		Subject: subject,
		Html:    body.String(),
	}

	jsonData, err := json.Marshal(emailData)
	if err != nil {
		return fmt.Errorf("error marshaling email data: %v", err)
	}

	req, err := http.NewRequest("POST", "https://api.resend.com/emails", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("error creating request: %v", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("error sending email: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response body: %v", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("resend API error: %s", string(respBody))
	}

	log.Printf("Email sent to %s: %s", to, subject)

	return nil
}

// Email sending methods
func (s *EmailService) SendWelcomeEmail(email, name string) error {
	data := WelcomeEmailData{
		Name: name,
	}
	return s.sendTemplateEmail(email, "Welcome to Coachly! 🎉", "welcome.html", data)
}

func (s *EmailService) SendTrialStartedEmail(email, tierName string, trialDays int, expiresAt time.Time) error {
	data := TrialStartedData{
		TierName:  tierName,
		TrialDays: trialDays,
		ExpiresAt: expiresAt,
	}
	return s.sendTemplateEmail(email, "Your Free Trial Has Started! 🚀", "trial_started.html", data)
}

func (s *EmailService) SendSubscriptionStartedEmail(
	email string,
	name string,
	tierName string,
	billingCycle string,
	price int,
	currency string,
	expiresAt time.Time,
	isRenewal bool,
) error {
	data := SubscriptionEmailData{
		Name:         name,
		TierName:     tierName,
		BillingCycle: billingCycle,
		Price:        price,
		Currency:     currency,
		ExpiresAt:    expiresAt,
		IsRenewal:    isRenewal,
	}

	subject := "Welcome to Coachly " + tierName + "! 🎉"
	if isRenewal {
		subject = "Your Coachly Subscription Has Been Renewed 🔄"
	}

	return s.sendTemplateEmail(email, subject, "subscription_started.html", data)
}

func (s *EmailService) SendSubscriptionCancelledEmail(email, name, tierName string) error {
	data := SubscriptionCancelledData{
		Name:     name,
		TierName: tierName,
	}
	return s.sendTemplateEmail(email, "Your Subscription Has Been Cancelled", "subscription_cancelled.html", data)
}

func (s *EmailService) SendSubscriptionExpiryWarning(email, name, tierName string, expiryDate time.Time, daysLeft int) error {
	data := SubscriptionExpiryWarningData{
		Name:       name,
		TierName:   tierName,
		DaysLeft:   daysLeft,
		ExpiryDate: expiryDate,
	}
	return s.sendTemplateEmail(email, fmt.Sprintf("Your subscription expires in %d days", daysLeft), "subscription_expiry_warning.html", data)
}

func (s *EmailService) SendPasswordResetEmail(email, name, resetToken string) error {
	data := PasswordResetData{
		Name:      name,
		ResetLink: "https://app.coachly.app/reset-password?token=" + resetToken,
	}
	return s.sendTemplateEmail(email, "Reset Your Password", "password_reset.html", data)
}

func (s *EmailService) SendEnrollmentNotification(coachEmail, coachName, courseTitle, studentEmail string) error {
	data := EnrollmentNotificationData{
		CoachName:    coachName,
		CourseTitle:  courseTitle,
		StudentEmail: studentEmail,
	}
	return s.sendTemplateEmail(coachEmail, "New Student Enrolled! 📋", "enrollment_notification.html", data)
}

func (s *EmailService) SendCoachStats(
	email, name, period string,
	totalCourses, totalViews, uniqueViews int64,
	topCourse string,
	topCourseViews, newEnrollments int64,
	startDate time.Time,
) error {
	data := CoachStatsData{
		Name:           name,
		Period:         period,
		TotalCourses:   totalCourses,
		TotalViews:     totalViews,
		UniqueViews:    uniqueViews,
		TopCourse:      topCourse,
		TopCourseViews: topCourseViews,
		NewEnrollments: newEnrollments,
		StartDate:      startDate,
	}
	return s.sendTemplateEmail(email, fmt.Sprintf("Your %s course report 📊", period), "coach_stats.html", data)
}
