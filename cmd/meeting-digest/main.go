package main

import (
	"github.com/alecthomas/kong"
)

var cli struct {
	Config string `help:"Path to the YAML configuration file" default:"config.yaml" type:"path" short:"c"`

	Serve   serveCmd   `cmd:"" default:"1" help:"Run the HTTP upload service (and the inbox watcher when enabled)"`
	Process processCmd `cmd:"" help:"Process one recording and print the meeting record as JSON"`
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("meeting-digest"),
		kong.Description("Transcribe and summarize meeting recordings."),
		kong.UsageOnError(),
	)
	ctx.FatalIfErrorf(ctx.Run())
}
