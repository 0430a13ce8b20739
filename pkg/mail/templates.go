package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

var verificationTemplate = template.Must(template.New("verification").Parse(`
<div style="font-family: Arial, sans-serif; padding: 20px; background-color: #f4f4f4;">
  <div style="max-width: 600px; margin: 0 auto; background-color: white; padding: 30px; border-radius: 10px;">
    <h2 style="color: #4CAF50;">Email Verification Required</h2>
    <p style="font-size: 16px; color: #555;">Hello {{.Name}},</p>
    <p style="font-size: 16px; color: #555;">
      Thank you for registering! Please verify your email address to complete your registration.
    </p>
    <div style="text-align: center; margin: 30px 0;">
      <a href="{{.Link}}" style="background-color: #4CAF50; color: white; padding: 15px 30px; text-decoration: none; border-radius: 5px; display: inline-block; font-size: 16px;">
        Verify Email Address
      </a>
    </div>
    <p style="font-size: 14px; color: #888;">
      Or copy and paste this link in your browser:<br>
      <a href="{{.Link}}" style="color: #4CAF50;">{{.Link}}</a>
    </p>
    <p style="font-size: 14px; color: #888;">
      <strong>Important:</strong> This verification link will expire in 24 hours.
    </p>
    <p style="font-size: 14px; color: #888;">
      If you didn't create an account, please ignore this email.
    </p>
  </div>
</div>`))

var approvalRequestTemplate = template.Must(template.New("approval_request").Parse(`
<div style="font-family: Arial, sans-serif; padding: 20px; background-color: #f4f4f4;">
  <div style="max-width: 600px; margin: 0 auto; background-color: white; padding: 30px; border-radius: 10px;">
    <h2 style="color: #333; border-bottom: 2px solid #4CAF50; padding-bottom: 10px;">
      New {{.RoleLabel}} Registration Request
    </h2>
    <p style="font-size: 16px; color: #555;">Someone wants to register on your car rental platform:</p>
    <div style="background-color: #f9f9f9; padding: 15px; border-radius: 5px; margin: 15px 0;">
      <p style="margin: 5px 0;"><strong>Name:</strong> {{.Name}}</p>
      <p style="margin: 5px 0;"><strong>Email:</strong> {{.Email}}</p>
      <p style="margin: 5px 0;"><strong>Role:</strong> {{.RoleLabel}}</p>
      <p style="margin: 5px 0;"><strong>Request Time:</strong> {{.RequestTime}}</p>
    </div>
    <div style="margin: 30px 0; text-align: center;">
      <p style="font-size: 16px; color: #555; margin-bottom: 20px;">
        Click below to approve or reject this registration:
      </p>
      <a href="{{.ApproveLink}}" style="display: inline-block; padding: 12px 30px; margin: 10px; background-color: #4CAF50; color: white; text-decoration: none; border-radius: 5px; font-weight: bold;">
        APPROVE
      </a>
      <a href="{{.RejectLink}}" style="display: inline-block; padding: 12px 30px; margin: 10px; background-color: #f44336; color: white; text-decoration: none; border-radius: 5px; font-weight: bold;">
        REJECT
      </a>
    </div>
    <p style="font-size: 12px; color: #888; text-align: center; border-top: 1px solid #ddd; padding-top: 20px;">
      This is an automated notification from your car rental system.<br>
      If you didn't expect this, please check your platform for unauthorized registration attempts.
    </p>
  </div>
</div>`))

var approvedTemplate = template.Must(template.New("approved").Parse(`
<div style="font-family: Arial, sans-serif; padding: 20px; background-color: #f4f4f4;">
  <div style="max-width: 600px; margin: 0 auto; background-color: white; padding: 30px; border-radius: 10px;">
    <h2 style="color: #4CAF50; text-align: center;">Welcome to Car Rental!</h2>
    <p style="font-size: 16px; color: #555;">Hello {{.Name}},</p>
    <p style="font-size: 16px; color: #555;">
      Great news! Your account has been approved by our administrator.
      You can now login and start using our car rental services.
    </p>
    <div style="text-align: center; margin: 30px 0;">
      <a href="{{.LoginLink}}" style="display: inline-block; padding: 12px 30px; background-color: #4CAF50; color: white; text-decoration: none; border-radius: 5px; font-weight: bold;">
        Login Now
      </a>
    </div>
    <p style="font-size: 14px; color: #888; text-align: center; margin-top: 30px;">
      Thank you for choosing our service!
    </p>
  </div>
</div>`))

var rejectedTemplate = template.Must(template.New("rejected").Parse(`
<div style="font-family: Arial, sans-serif; padding: 20px; background-color: #f4f4f4;">
  <div style="max-width: 600px; margin: 0 auto; background-color: white; padding: 30px; border-radius: 10px;">
    <h2 style="color: #f44336;">Registration Request</h2>
    <p style="font-size: 16px; color: #555;">Hello {{.Name}},</p>
    <p style="font-size: 16px; color: #555;">
      We regret to inform you that your registration request has not been approved at this time.
    </p>
    <p style="font-size: 16px; color: #555;">
      If you have any questions or believe this was a mistake, please contact our support team.
    </p>
    <p style="font-size: 14px; color: #888; text-align: center; margin-top: 30px;">
      Thank you for your interest in our service.
    </p>
  </div>
</div>`))

func render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render %s template: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}

// NewVerificationEmail builds the email-verification message. The link points
// at the backend verify endpoint carrying the one-time token.
func NewVerificationEmail(name, to, backendURL, token string) (Email, error) {
	html, err := render(verificationTemplate, struct {
		Name string
		Link string
	}{
		Name: name,
		Link: fmt.Sprintf("%s/api/user/verify-email/%s", backendURL, token),
	})
	if err != nil {
		return Email{}, err
	}
	return Email{
		To:      to,
		Subject: "Verify Your Email Address",
		HTML:    html,
		Kind:    KindVerification,
	}, nil
}

// NewApprovalRequestEmail builds the admin notification with approve and
// reject links for a pending registration.
func NewApprovalRequestEmail(name, email, role, adminEmail, backendURL, token string) (Email, error) {
	roleLabel := "Regular User"
	subjectRole := "User"
	if role == "owner" {
		roleLabel = "Car Owner"
		subjectRole = "Owner"
	}
	html, err := render(approvalRequestTemplate, struct {
		Name        string
		Email       string
		RoleLabel   string
		RequestTime string
		ApproveLink string
		RejectLink  string
	}{
		Name:        name,
		Email:       email,
		RoleLabel:   roleLabel,
		RequestTime: time.Now().UTC().Format(time.RFC1123),
		ApproveLink: fmt.Sprintf("%s/api/user/approve/%s", backendURL, token),
		RejectLink:  fmt.Sprintf("%s/api/user/reject/%s", backendURL, token),
	})
	if err != nil {
		return Email{}, err
	}
	return Email{
		To:      adminEmail,
		Subject: fmt.Sprintf("New %s Registration Request", subjectRole),
		HTML:    html,
		Kind:    KindApprovalRequest,
	}, nil
}

// NewApprovedEmail tells the applicant their account went live.
func NewApprovedEmail(name, to, frontendURL string) (Email, error) {
	html, err := render(approvedTemplate, struct {
		Name      string
		LoginLink string
	}{
		Name:      name,
		LoginLink: frontendURL + "/login",
	})
	if err != nil {
		return Email{}, err
	}
	return Email{
		To:      to,
		Subject: "Your Account Has Been Approved!",
		HTML:    html,
		Kind:    KindApproved,
	}, nil
}

// NewRejectedEmail tells the applicant their registration was declined.
func NewRejectedEmail(name, to string) (Email, error) {
	html, err := render(rejectedTemplate, struct{ Name string }{Name: name})
	if err != nil {
		return Email{}, err
	}
	return Email{
		To:      to,
		Subject: "Registration Request Update",
		HTML:    html,
		Kind:    KindRejected,
	}, nil
}
