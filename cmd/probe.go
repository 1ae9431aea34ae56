package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli"
	"github.com/warpdl/imgwarm/cmd/common"
	"github.com/warpdl/imgwarm/pkg/capability"
)

// newEnv builds the probe environment from the command flags.
func newEnv() *capability.SystemEnv {
	return &capability.SystemEnv{
		NetworkHint:  network,
		SaveDataHint: saveData,
		UA:           getUserAgent(userAgent),
		AcceptHeader: accept,
	}
}

func probe(ctx *cli.Context) error {
	if ctx.Args().First() == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	caps := capability.Probe(newEnv())
	if err := printCaps(os.Stdout, caps); err != nil {
		common.PrintRuntimeErr(ctx, "probe", "print", err)
	}
	return nil
}

func printCaps(w io.Writer, caps capability.Capabilities) error {
	tier := "mid"
	switch {
	case caps.LowEnd:
		tier = "low"
	case caps.HighEnd:
		tier = "high"
	}
	mem := "unknown"
	if caps.MemoryGB > 0 {
		mem = fmt.Sprintf("%.2f GB", caps.MemoryGB)
	}
	_, err := fmt.Fprintf(w, `
Capabilities
Cores`+"\t\t"+`: %d
Memory`+"\t\t"+`: %s
Network`+"\t\t"+`: %s
Save-Data`+"\t"+`: %t
Mobile`+"\t\t"+`: %t
Formats`+"\t\t"+`: %s
Tier`+"\t\t"+`: %s
`,
		caps.Cores,
		mem,
		caps.Network,
		caps.SaveData,
		caps.Mobile,
		strings.Join(caps.Formats(), ", "),
		tier,
	)
	return err
}

// printJSON writes v indented, for client commands.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
