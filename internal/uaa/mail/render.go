package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed templates/*.html i18n/*.yaml
var assets embed.FS

// bundle is the flattened message catalogue of one language.
type bundle struct {
	tag      language.Tag
	messages map[string]string
}

// Renderer executes the HTML templates with a locale bound msg function.
// English is the fallback for unknown languages and missing keys.
type Renderer struct {
	templates *template.Template
	bundles   []bundle
	matcher   language.Matcher
}

// templateData is what templates see as dot.
type templateData struct {
	User    User
	BaseURL string
	Lang    string
	Title   string
}

// NewRenderer loads the templates and message bundles compiled into the
// binary.
func NewRenderer() (*Renderer, error) {
	return NewRendererFS(assets)
}

// NewRendererFS loads templates/*.html and i18n/messages_<lang>.yaml from
// fsys. messages_en.yaml is required.
func NewRendererFS(fsys fs.FS) (*Renderer, error) {
	tmpl, err := template.New("mail").
		Funcs(template.FuncMap{"msg": func(string, ...any) string { return "" }}).
		ParseFS(fsys, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("mail: parse templates: %w", err)
	}

	files, err := fs.Glob(fsys, "i18n/messages_*.yaml")
	if err != nil {
		return nil, err
	}

	var bundles []bundle
	for _, file := range files {
		b, err := loadBundle(fsys, file)
		if err != nil {
			return nil, err
		}
		// English first, it is the matcher's fallback.
		if b.tag == language.English {
			bundles = append([]bundle{b}, bundles...)
		} else {
			bundles = append(bundles, b)
		}
	}
	if len(bundles) == 0 || bundles[0].tag != language.English {
		return nil, fmt.Errorf("mail: i18n/messages_en.yaml is missing")
	}

	tags := make([]language.Tag, len(bundles))
	for i, b := range bundles {
		tags[i] = b.tag
	}

	return &Renderer{
		templates: tmpl,
		bundles:   bundles,
		matcher:   language.NewMatcher(tags),
	}, nil
}

func loadBundle(fsys fs.FS, file string) (bundle, error) {
	name := strings.TrimSuffix(strings.TrimPrefix(path.Base(file), "messages_"), ".yaml")
	tag, err := language.Parse(name)
	if err != nil {
		return bundle{}, fmt.Errorf("mail: bundle %s: %w", file, err)
	}

	raw, err := fs.ReadFile(fsys, file)
	if err != nil {
		return bundle{}, err
	}
	var tree map[string]any
	if err := yaml.Unmarshal(raw, &tree); err != nil {
		return bundle{}, fmt.Errorf("mail: bundle %s: %w", file, err)
	}

	messages := map[string]string{}
	flatten("", tree, messages)
	return bundle{tag: tag, messages: messages}, nil
}

// flatten turns nested YAML maps into dotted keys.
func flatten(prefix string, node map[string]any, out map[string]string) {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch v := v.(type) {
		case map[string]any:
			flatten(key, v, out)
		case nil:
		default:
			out[key] = fmt.Sprint(v)
		}
	}
}

// Locale resolves a user's lang_key to one of the loaded languages.
func (r *Renderer) Locale(langKey string) language.Tag {
	return r.bundles[r.bundleIndex(langKey)].tag
}

func (r *Renderer) bundleIndex(langKey string) int {
	tag, err := language.Parse(strings.TrimSpace(langKey))
	if err != nil {
		return 0
	}
	_, i, conf := r.matcher.Match(tag)
	if conf == language.No {
		return 0
	}
	return i
}

// Message looks key up for langKey, then in English. A key missing from
// both is returned as is. args are applied with fmt.Sprintf.
func (r *Renderer) Message(langKey, key string, args ...any) string {
	return r.message(r.bundleIndex(langKey), key, args...)
}

func (r *Renderer) message(i int, key string, args ...any) string {
	text, ok := r.bundles[i].messages[key]
	if !ok {
		if text, ok = r.bundles[0].messages[key]; !ok {
			return key
		}
	}
	if len(args) > 0 {
		return fmt.Sprintf(text, args...)
	}
	return text
}

// Render produces the subject and HTML body of a job.
func (r *Renderer) Render(job Job) (subject, body string, err error) {
	i := r.bundleIndex(job.User.LangKey)

	t, err := r.templates.Clone()
	if err != nil {
		return "", "", err
	}
	t.Funcs(template.FuncMap{
		"msg": func(key string, args ...any) string { return r.message(i, key, args...) },
	})

	var buf bytes.Buffer
	data := templateData{
		User:    job.User,
		BaseURL: job.BaseURL,
		Lang:    r.bundles[i].tag.String(),
		Title:   job.TitleKey,
	}
	if err := t.ExecuteTemplate(&buf, job.Template+".html", data); err != nil {
		return "", "", fmt.Errorf("mail: render %s: %w", job.Template, err)
	}

	return r.message(i, job.TitleKey), buf.String(), nil
}
