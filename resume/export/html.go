package export

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"resume-builder/resume/render"
)

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
{{- with .Base }}
<base href="{{ . }}">
{{- end }}
<title>{{ .Title }}</title>
<style>
  body { margin: 0; font-family: "Helvetica Neue", Arial, sans-serif; color: #111; }
  .page { width: {{ .Width }}px; padding: 32px; box-sizing: border-box; }
  .header { display: flex; align-items: center; gap: 24px; }
  .header img { object-fit: cover; }
  .name { font-size: 28px; font-weight: 700; margin: 0; }
  .job-title { font-weight: 600; margin: 4px 0; }
  .contact { color: {{ css .Muted }}; font-size: 13px; }
  hr { border: none; border-top-style: solid; margin: 16px 0; }
  h2 { font-size: 18px; margin: 0 0 8px 0; }
  .entry { margin-bottom: 10px; }
  .entry-head { display: flex; justify-content: space-between; font-weight: 600; }
  .entry-sub { font-size: 13px; font-weight: 600; }
  .entry-desc { white-space: pre-line; font-size: 13px; }
  .summary { white-space: pre-wrap; font-size: 13px; }
  .badges { display: flex; flex-wrap: wrap; gap: 8px; }
  .badge { color: #fff; padding: 4px 10px; font-size: 12px; }
</style>
</head>
<body>
<div class="page">
{{- range .Doc.Sections }}
{{- if .Rule }}
<hr style="border-top-width: {{ .Rule.Weight }}px; border-top-color: {{ css .Rule.Color }};">
{{- end }}
<section class="{{ .Kind }}">
{{- if .Header }}
<div class="header">
  {{- with .Header.Photo }}
  <img src="{{ src .Src }}" alt="{{ .Alt }}" width="{{ .Width }}" height="{{ .Height }}" style="border-radius: {{ css .Radius }};">
  {{- end }}
  <div>
    <p class="name" style="color: {{ css .Header.Color }};">{{ .Header.FullName }}</p>
    {{- if .Header.JobTitle }}<p class="job-title">{{ .Header.JobTitle }}</p>{{ end }}
    {{- if .Header.Contact }}<p class="contact">{{ .Header.Contact }}</p>{{ end }}
  </div>
</div>
{{- else }}
<h2 style="color: {{ css .TitleColor }};">{{ .Title }}</h2>
{{- if .Text }}<div class="summary">{{ .Text }}</div>{{ end }}
{{- range .Entries }}
<div class="entry">
  <div class="entry-head" style="color: {{ css .Color }};"><span>{{ .Title }}</span><span>{{ .DateRange }}</span></div>
  {{- if .Subtitle }}<div class="entry-sub">{{ .Subtitle }}</div>{{ end }}
  {{- if .Description }}<div class="entry-desc">{{ .Description }}</div>{{ end }}
</div>
{{- end }}
{{- if .Badges }}
<div class="badges">
  {{- range .Badges }}<span class="badge" style="background: {{ css .Background }}; border-radius: {{ css .Radius }};">{{ .Label }}</span>{{ end }}
</div>
{{- end }}
{{- end }}
</section>
{{- end }}
</div>
</body>
</html>
`

var pageTmpl = template.Must(template.New("resume").Funcs(template.FuncMap{
	"css": cssValue,
	"src": photoSource,
}).Parse(pageTemplate))

type pageData struct {
	Title string
	Base  string
	Width int
	Muted string
	Doc   render.Document
}

// HTML renders doc as a standalone page at reference width.
func HTML(doc render.Document) ([]byte, error) {
	return renderHTML(doc, "")
}

func renderHTML(doc render.Document, base string) ([]byte, error) {
	title := "Resume"
	if header, ok := doc.Section(render.SectionHeader); ok && header.Header != nil && header.Header.FullName != "" {
		title = header.Header.FullName
	}

	var buf bytes.Buffer
	err := pageTmpl.Execute(&buf, pageData{
		Title: title,
		Base:  base,
		Width: int(render.ReferenceWidth),
		Muted: render.MutedTextColor,
		Doc:   doc,
	})
	if err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}
	return buf.Bytes(), nil
}

// cssValue lets color and radius values through the CSS sanitizer when they
// are plain tokens; anything else is dropped.
func cssValue(v string) template.CSS {
	for _, r := range v {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '#', r == '%', r == '.', r == '-':
		default:
			return ""
		}
	}
	return template.CSS(v)
}

// photoSource admits preview handle and inline image URLs, which the URL
// sanitizer would otherwise reject.
func photoSource(src string) any {
	if strings.HasPrefix(src, "blob:") || strings.HasPrefix(src, "data:image/") {
		return template.URL(src)
	}
	return src
}
