package cmd

import (
	"fmt"
	"runtime"

	"github.com/urfave/cli"
	"github.com/warpdl/imgwarm/cmd/common"
)

type BuildArgs struct {
	Version   string
	BuildType string
	Date      string
	Commit    string
}

var currentBuildArgs BuildArgs

func Execute(args []string, bArgs BuildArgs) error {
	currentBuildArgs = bArgs
	app := cli.App{
		Name:                  "imgwarm",
		HelpName:              "imgwarm",
		Usage:                 "Warm image caches ahead of rendering.",
		Version:               fmt.Sprintf("%s-%s", bArgs.Version, bArgs.BuildType),
		UsageText:             "imgwarm <command> [arguments...]",
		Description:           DESCRIPTION,
		CustomAppHelpTemplate: HELP_TEMPL,
		OnUsageError:          common.UsageErrorCallback,
		Commands: []cli.Command{
			{
				Name:                   "warm",
				Aliases:                []string{"w"},
				Usage:                  "preload the images of a manifest or url list",
				UsageText:              "warm [flags] <manifest|[priority:]url...>",
				Description:            WarmDescription,
				CustomHelpTemplate:     CMD_HELP_TEMPL,
				OnUsageError:           common.UsageErrorCallback,
				Action:                 warm,
				Flags:                  warmFlags,
				UseShortOptionHandling: true,
			},
			{
				Name:               "probe",
				Aliases:            []string{"p"},
				Usage:              "print the device capability snapshot",
				Description:        ProbeDescription,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				OnUsageError:       common.UsageErrorCallback,
				Action:             probe,
				Flags:              probeFlags,
			},
			{
				Name:               "daemon",
				Usage:              "run the JSON-RPC preload daemon",
				Description:        DaemonDescription,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				OnUsageError:       common.UsageErrorCallback,
				Action:             daemon,
				Flags:              daemonFlags,
			},
			{
				Name:               "add",
				Aliases:            []string{"a"},
				Usage:              "ask the daemon to preload a url",
				UsageText:          "add <url> [priority]",
				Description:        AddDescription,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				OnUsageError:       common.UsageErrorCallback,
				Action:             add,
				Flags:              clientFlags,
			},
			{
				Name:               "status",
				Aliases:            []string{"s"},
				Usage:              "show the daemon's state for a url",
				UsageText:          "status <url>",
				Description:        StatusDescription,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				OnUsageError:       common.UsageErrorCallback,
				Action:             status,
				Flags:              clientFlags,
			},
			{
				Name:               "stats",
				Usage:              "show the daemon's scheduler counters",
				UsageText:          " ",
				Description:        StatsDescription,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				OnUsageError:       common.UsageErrorCallback,
				Action:             stats,
				Flags:              clientFlags,
			},
			{
				Name:    "help",
				Aliases: []string{"h"},
				Usage:   "prints the help message",
				Action:  common.Help,
			},
			{
				Name:               "version",
				Aliases:            []string{"v"},
				Usage:              "prints installed version of imgwarm",
				UsageText:          " ",
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Action:             common.GetVersion,
			},
		},
		Action:      common.Help,
		HideHelp:    true,
		HideVersion: true,
	}
	common.VersionCmdStr = fmt.Sprintf("%s %s (%s_%s)\nBuild: %s=%s\n",
		app.Name,
		app.Version,
		runtime.GOOS,
		runtime.GOARCH,
		bArgs.Date, bArgs.Commit,
	)
	return app.Run(args)
}
