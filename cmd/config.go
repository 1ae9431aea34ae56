package cmd

import "time"

const (
	DEF_TIMEOUT  = time.Second * 30
	DEF_PRIORITY = 5
)

const DESCRIPTION = `
imgwarm warms remote images before they are rendered. It fetches
the images a page needs in priority order, a few at a time, and
never fetches the same image twice.
`

const (
	WarmDescription = `The warm command loads a manifest (JSON, text or HTML page) 
or a list of urls and preloads the images it names. Unless 
--all is given, the device capability probe decides how many 
of them are worth fetching.

Example:
        imgwarm warm site/index.html --base https://school.example/
        imgwarm warm 10:https://school.example/hero.jpg https://school.example/logo.png

`
	ProbeDescription = `The probe command prints the capability snapshot used to 
plan a warm: cores, memory, network class and image formats.

Example:
        imgwarm probe --network 3g --user-agent iphone

`
	DaemonDescription = `The daemon command runs a long-lived scheduler behind a 
JSON-RPC 2.0 endpoint over HTTP and WebSocket. The endpoint 
requires a bearer token set with --secret or IMGWARM_RPC_SECRET.

Example:
        IMGWARM_RPC_SECRET=s3cret imgwarm daemon

`
	AddDescription = `The add command asks a running daemon to preload a url at 
the given priority (default 5).

Example:
        imgwarm add https://school.example/hero.jpg 10

`
	StatusDescription = `The status command prints whether the daemon has loaded, is 
loading or has queued a url.

Example:
        imgwarm status https://school.example/hero.jpg

`
	StatsDescription = `The stats command prints the daemon's scheduler counters.

Example:
        imgwarm stats

`
)

const HELP_TEMPL = `Usage: {{if .UsageText}}{{.UsageText}}{{else}}{{.HelpName}} {{if .VisibleFlags}}[global options]{{end}}{{if .Commands}} command [command options]{{end}} {{if .ArgsUsage}}{{.ArgsUsage}}{{else}}[arguments...]{{end}}{{end}}
{{.Description}}{{if .VisibleCommands}}
Commands:{{range .VisibleCategories}}{{if .Name}}

{{.Name}}:{{range .VisibleCommands}}
  {{join .Names ", "}}{{"\t"}}{{.Usage}}{{end}}{{else}}{{range .VisibleCommands}}
{{"\t"}}{{index .Names 0}}{{"\t:\t"}}{{.Usage}}{{end}}{{end}}{{end}}{{end}}

Use "{{.HelpName}} help <command>" for more information about any command.

`

const CMD_HELP_TEMPL = `{{if .Description}}{{.Description}}{{else}}{{.HelpName}} - {{.Usage}}

{{end}}Usage:
        {{.HelpName}} {{if .UsageText}}{{.UsageText}}{{else}}[arguments...]{{end}}{{if .VisibleFlags}}

Supported Flags:{{range .VisibleFlags}}
  {{.}}{{end}}{{end}}

`
