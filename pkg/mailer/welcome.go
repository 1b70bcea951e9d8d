package mailer

import (
	"bytes"
	htmpl "html/template"
	texttpl "text/template"
)

// WelcomeData feeds the welcome email sent after registration.
type WelcomeData struct {
	AppName  string
	FullName string
	Email    string
	Role     string
}

const welcomeSubject = "Bienvenido a {{.AppName}}"

const welcomeText = `Hola {{.FullName}},

Tu cuenta ({{.Email}}) fue creada con el rol {{.Role}}.

-- {{.AppName}}
`

const welcomeHTML = `<p>Hola {{.FullName}},</p>
<p>Tu cuenta (<strong>{{.Email}}</strong>) fue creada con el rol <strong>{{.Role}}</strong>.</p>
<p>{{.AppName}}</p>
`

var (
	welcomeSubjectTpl = texttpl.Must(texttpl.New("subject").Parse(welcomeSubject))
	welcomeTextTpl    = texttpl.Must(texttpl.New("text").Parse(welcomeText))
	welcomeHTMLTpl    = htmpl.Must(htmpl.New("html").Parse(welcomeHTML))
)

// RenderWelcome returns subject, plain text and HTML bodies.
func RenderWelcome(d WelcomeData) (subject, text, html string, err error) {
	var sb, tb, hb bytes.Buffer
	if err = welcomeSubjectTpl.Execute(&sb, d); err != nil {
		return
	}
	if err = welcomeTextTpl.Execute(&tb, d); err != nil {
		return
	}
	if err = welcomeHTMLTpl.Execute(&hb, d); err != nil {
		return
	}
	return sb.String(), tb.String(), hb.String(), nil
}
