package main

import "text/template"

var markdownTemplate = template.Must(template.New("markdownTemplate").Parse(
	`
# {{ .Name }}
[Match Page]({{ .URL }})

Home: {{ .HomeTeamID }}

Away: {{ .AwayTeamID }}

{{ range $role, $name := .Officials -}}
{{ $role }}: {{ $name }}

{{ end -}}
{{ range .Tables -}}
Table {{ .Category }}: {{ len .Rows }} rows
{{ end -}}
	`,
))
