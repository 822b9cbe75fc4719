// Package render produces the pages a visitor sees instead of a plain redirect.
//
// Injected tracking scripts are operator-supplied and embedded verbatim. They
// are not sanitized here; serving scripts written by untrusted authors needs a
// separate isolation layer (CSP, sandboxed iframes) in front of this package.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/url"
	"strings"

	"linkrelay/internal/model"
)

const (
	// DefaultTitle is shown when a cloaked link has no page title
	DefaultTitle = "Redirecting..."
	// DefaultDescription is shown when a cloaked link has no page description
	DefaultDescription = "Please wait while we redirect you..."
)

//go:embed templates/*.html
var templateFS embed.FS

// Page is the rendered outcome for a resolved link: either a redirect the
// caller issues itself, or a complete HTML document.
type Page struct {
	Redirect bool
	Location string
	HTML     []byte
}

// Renderer renders interstitial, password and error pages
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the embedded page templates
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse page templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// MustNewRenderer is NewRenderer for callers that cannot continue without templates
func MustNewRenderer() *Renderer {
	r, err := NewRenderer()
	if err != nil {
		panic(err)
	}
	return r
}

type interstitialData struct {
	Title         string
	Description   string
	Destination   string
	DelayMillis   int
	HeadScripts   template.HTML
	BodyScripts   template.HTML
	FooterScripts template.HTML
}

// Render returns an immediate redirect unless cloaking is enabled, in which
// case it builds the interstitial document navigating to dest.
func (r *Renderer) Render(link *model.Link, dest string) (*Page, error) {
	if !link.CloakingEnabled {
		return &Page{Redirect: true, Location: dest}, nil
	}

	data := interstitialData{
		Title:       orDefault(link.CloakingPageTitle, DefaultTitle),
		Description: orDefault(link.CloakingPageDescription, DefaultDescription),
		Destination: dest,
		DelayMillis: seconds(link.CloakingDelay, model.DefaultCloakingDelay) * 1000,
	}

	if link.ScriptInjectionEnabled {
		if block := scriptBlock(link.TrackingScripts, link.ScriptDelay); block != "" {
			switch link.ScriptPosition {
			case model.ScriptBody:
				data.BodyScripts = block
			case model.ScriptFooter:
				data.FooterScripts = block
			default:
				data.HeadScripts = block
			}
		}
	}

	html, err := r.execute("interstitial.html", data)
	if err != nil {
		return nil, err
	}
	return &Page{HTML: html}, nil
}

// PasswordPage renders the credential prompt for shortCode. The page is the
// same whether the credential was missing or wrong.
func (r *Renderer) PasswordPage(shortCode string) ([]byte, error) {
	return r.execute("password.html", struct{ Action string }{
		Action: "/" + url.PathEscape(shortCode) + "/unlock",
	})
}

// ErrorPage renders a terminal status page
func (r *Renderer) ErrorPage(status int, title, message string) ([]byte, error) {
	return r.execute("error.html", struct {
		Status  int
		Title   string
		Message string
	}{status, title, message})
}

func (r *Renderer) execute(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// scriptBlock joins the enabled scripts in order into a single <script>
// element, wrapped in a timer when delay is positive.
func scriptBlock(scripts []model.TrackingScript, delay int) template.HTML {
	var bodies []string
	for _, s := range scripts {
		if s.Enabled && strings.TrimSpace(s.Script) != "" {
			bodies = append(bodies, s.Script)
		}
	}
	if len(bodies) == 0 {
		return ""
	}

	joined := strings.Join(bodies, "\n")
	if delay > 0 {
		joined = fmt.Sprintf("setTimeout(function () {\n%s\n}, %d);", joined, delay*1000)
	}
	return template.HTML("<script>" + joined + "</script>")
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func seconds(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
