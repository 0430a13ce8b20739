package handler

import (
	"bytes"
	"html/template"

	"rentwheels/pkg/model"
)

// The token-in-path endpoints are opened from email clients, so they
// answer with small standalone HTML pages instead of the JSON envelope.

const pageStyle = `
body { font-family: Arial, sans-serif; display: flex; justify-content: center; align-items: center; height: 100vh; margin: 0; background-color: #f4f4f4; }
.container { background: white; padding: 40px; border-radius: 10px; box-shadow: 0 2px 10px rgba(0,0,0,0.1); text-align: center; max-width: 500px; }
.success { color: #4CAF50; }
.error { color: #f44336; }
.warning { color: #ff9800; }
.details { background: #f9f9f9; padding: 15px; border-radius: 5px; margin: 20px 0; }
`

var errorPageTemplate = template.Must(template.New("error_page").Parse(`<html>
<head><style>` + pageStyle + `</style></head>
<body>
  <div class="container">
    <h2 class="error">{{.Title}}</h2>
    <p>{{.Message}}</p>
  </div>
</body>
</html>`))

var decisionPageTemplate = template.Must(template.New("decision_page").Parse(`<html>
<head><style>` + pageStyle + `</style></head>
<body>
  <div class="container">
    <h2 class="{{.Class}}">{{.Title}}</h2>
    <div class="details">
      <p><strong>Name:</strong> {{.Name}}</p>
      <p><strong>Email:</strong> {{.Email}}</p>
      <p><strong>Role:</strong> {{.RoleLabel}}</p>
    </div>
    <p>{{.Message}}</p>
  </div>
</body>
</html>`))

var verifiedPageTemplate = template.Must(template.New("verified_page").Parse(`<html>
<head>
  <style>` + pageStyle + `</style>
  <script>
    setTimeout(function () { window.location.href = {{.RedirectURL}}; }, 2000);
  </script>
</head>
<body>
  <div class="container">
    <h2 class="success">Account Created Successfully!</h2>
    <div class="details">
      <p><strong>Name:</strong> {{.Name}}</p>
      <p><strong>Email:</strong> {{.Email}}</p>
      <p><strong>Role:</strong> {{.RoleLabel}}</p>
    </div>
    <p>Your email has been verified and your account has been created!</p>
    <p>Redirecting you to login...</p>
  </div>
</body>
</html>`))

func renderPage(tmpl *template.Template, data any) string {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "<html><body><p>An unexpected error occurred.</p></body></html>"
	}
	return buf.String()
}

func errorPage(title, message string) string {
	return renderPage(errorPageTemplate, struct {
		Title   string
		Message string
	}{Title: title, Message: message})
}

func decisionPage(class, title, message string, user *model.User) string {
	return renderPage(decisionPageTemplate, struct {
		Class     string
		Title     string
		Message   string
		Name      string
		Email     string
		RoleLabel string
	}{
		Class:     class,
		Title:     title,
		Message:   message,
		Name:      user.Name,
		Email:     user.Email,
		RoleLabel: roleLabel(user.Role),
	})
}

func verifiedPage(user *model.User, redirectURL string) string {
	return renderPage(verifiedPageTemplate, struct {
		Name        string
		Email       string
		RoleLabel   string
		RedirectURL string
	}{
		Name:        user.Name,
		Email:       user.Email,
		RoleLabel:   roleLabel(user.Role),
		RedirectURL: redirectURL,
	})
}

func roleLabel(role string) string {
	if role == model.RoleOwner {
		return "Car Owner"
	}
	return "Regular User"
}
