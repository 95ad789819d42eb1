package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/tvargenta/encoderd/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"eventOrNone": func(s string) string {
		if s == "" {
			return "—"
		}
		return s
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>encoderd</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.on { color: green; font-weight: bold; }
.off { color: #888; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>encoderd</h1>

<h2>State</h2>
<table>
<tr><th>Indicator</th><td class="{{if .IndicatorOn}}on{{else}}off{{end}}">{{if .IndicatorOn}}ON{{else}}OFF{{end}}</td></tr>
<tr><th>Primed</th><td>{{if .Primed}}yes{{else}}no{{end}}</td></tr>
<tr><th>Last event</th><td>{{eventOrNone (printf "%s" .LastEvent)}}</td></tr>
</table>

<h2>Event Counts</h2>
<table>
<tr><th>ROTARY_CW</th><td>{{.Counts.CW}}</td></tr>
<tr><th>ROTARY_CCW</th><td>{{.Counts.CCW}}</td></tr>
<tr><th>BTN_PRESS</th><td>{{.Counts.Press}}</td></tr>
<tr><th>BTN_RELEASE</th><td>{{.Counts.Release}}</td></tr>
<tr><th>BTN_NEXT</th><td>{{.Counts.Next}}</td></tr>
</table>

<h2>Connectivity</h2>
<table>
<tr><th>Telemetry</th><td class="{{if .BrokerConnected}}connected{{else}}disconnected{{end}}">{{if .BrokerConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{if .Config.Broker}}{{.Config.Broker}}{{else}}disabled{{end}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Chip</th><td>{{.Config.Chip}}</td></tr>
<tr><th>Poll</th><td>{{.Config.PollMs}}ms</td></tr>
<tr><th>Debounce</th><td>{{.Config.DebounceMs}}ms</td></tr>
<tr><th>Heartbeat</th><td>{{if eq .Config.HeartbeatMs 0}}disabled{{else}}{{.Config.HeartbeatMs}}ms{{end}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has an Uptime() method but the template needs a value.
	data := struct {
		status.Snapshot
		Uptime time.Duration
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
	}
	indexTmpl.Execute(w, data)
}
