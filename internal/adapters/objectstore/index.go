package objectstore

import (
	"bytes"
	"html/template"
	"net/url"
)

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Certificates</title></head>
<body>
<h1>Certificates</h1>
<ul>
{{- range .}}
<li><a href="files/{{.Path}}">{{.Name}}</a></li>
{{- end}}
</ul>
</body>
</html>
`))

type indexEntry struct {
	Name string
	Path string
}

// renderIndex builds the folder page linking each file relative to the
// folder, so the page works behind any public base URL.
func renderIndex(names []string) ([]byte, error) {
	entries := make([]indexEntry, len(names))
	for i, name := range names {
		entries[i] = indexEntry{Name: name, Path: url.PathEscape(name)}
	}
	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, entries); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
