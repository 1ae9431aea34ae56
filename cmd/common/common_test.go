package common

import (
	"errors"
	"flag"
	"io"
	"testing"

	"github.com/urfave/cli"
	"github.com/vbauerster/mpb/v8"
)

func newTestContext() *cli.Context {
	app := cli.NewApp()
	app.Name = "imgwarm"
	app.Version = "test"
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	ctx := cli.NewContext(app, set, nil)
	ctx.Command = cli.Command{Name: "cmd"}
	return ctx
}

func TestInitWarmBar(t *testing.T) {
	p := mpb.New(mpb.WithOutput(io.Discard))
	bar := InitWarmBar(p, 3)
	if bar == nil {
		t.Fatal("expected bar")
	}
	for i := 0; i < 3; i++ {
		bar.Increment()
	}
	p.Wait()
	if !bar.Completed() {
		t.Fatal("expected bar to complete after total increments")
	}
}

func TestPrintRuntimeErr(t *testing.T) {
	PrintRuntimeErr(nil, "cmd", "action", nil)
	PrintRuntimeErr(newTestContext(), "cmd", "action", errors.New("boom"))
}

func TestPrintErrWithHelp(t *testing.T) {
	ctx := newTestContext()
	called := false
	orig := showAppHelpAndExit
	showAppHelpAndExit = func(*cli.Context, int) {
		called = true
	}
	defer func() { showAppHelpAndExit = orig }()

	if err := PrintErrWithHelp(ctx, errors.New("oops")); err != nil {
		t.Fatalf("PrintErrWithHelp: %v", err)
	}
	if !called {
		t.Fatalf("expected help to be called")
	}
}

func TestPrintErrWithHelpFlagHelpRequested(t *testing.T) {
	ctx := newTestContext()
	called := false
	orig := showAppHelpAndExit
	showAppHelpAndExit = func(*cli.Context, int) {
		called = true
	}
	defer func() { showAppHelpAndExit = orig }()

	if err := PrintErrWithHelp(ctx, errors.New("flag: help requested")); err != nil {
		t.Fatalf("PrintErrWithHelp: %v", err)
	}
	// When error is "flag: help requested", it calls Help() which calls showAppHelpAndExit
	if !called {
		t.Fatalf("expected help to be called")
	}
}

func TestPrintErrWithCmdHelp(t *testing.T) {
	ctx := newTestContext()
	called := false
	orig := showCommandHelp
	showCommandHelp = func(*cli.Context, string) error {
		called = true
		return nil
	}
	defer func() { showCommandHelp = orig }()

	if err := PrintErrWithCmdHelp(ctx, errors.New("oops")); err != nil {
		t.Fatalf("PrintErrWithCmdHelp: %v", err)
	}
	if !called {
		t.Fatalf("expected command help to be called")
	}
}

func TestPrintErrWithCmdHelp_ShowCommandHelpError(t *testing.T) {
	ctx := newTestContext()
	orig := showCommandHelp
	showCommandHelp = func(*cli.Context, string) error {
		return errors.New("boom")
	}
	defer func() { showCommandHelp = orig }()

	if err := PrintErrWithCmdHelp(ctx, errors.New("oops")); err != nil {
		t.Fatalf("PrintErrWithCmdHelp: %v", err)
	}
}

func TestUsageErrorCallback(t *testing.T) {
	ctx := newTestContext()
	orig := showCommandHelp
	showCommandHelp = func(*cli.Context, string) error { return nil }
	defer func() { showCommandHelp = orig }()

	if err := UsageErrorCallback(ctx, errors.New("oops"), false); err != nil {
		t.Fatalf("UsageErrorCallback: %v", err)
	}
}

func TestHelp(t *testing.T) {
	ctx := newTestContext()
	called := false
	orig := showAppHelpAndExit
	showAppHelpAndExit = func(*cli.Context, int) {
		called = true
	}
	defer func() { showAppHelpAndExit = orig }()

	if err := Help(ctx); err != nil {
		t.Fatalf("Help: %v", err)
	}
	if !called {
		t.Fatalf("expected help to be called")
	}
}

func TestHelpWithCommandArg(t *testing.T) {
	app := cli.NewApp()
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	_ = set.Parse([]string{"warm"})
	ctx := cli.NewContext(app, set, nil)
	ctx.Command = cli.Command{Name: "help"}
	called := false
	orig := showCommandHelp
	showCommandHelp = func(*cli.Context, string) error {
		called = true
		return nil
	}
	defer func() { showCommandHelp = orig }()

	if err := Help(ctx); err != nil {
		t.Fatalf("Help: %v", err)
	}
	if !called {
		t.Fatalf("expected command help to be called")
	}
}

func TestHelpWithCommandError(t *testing.T) {
	app := cli.NewApp()
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	_ = set.Parse([]string{"warm"})
	ctx := cli.NewContext(app, set, nil)
	ctx.Command = cli.Command{Name: "help"}
	orig := showCommandHelp
	showCommandHelp = func(*cli.Context, string) error {
		return errors.New("boom")
	}
	defer func() { showCommandHelp = orig }()

	if err := Help(ctx); err == nil {
		t.Fatalf("expected error from Help")
	}
}

func TestGetVersion(t *testing.T) {
	old := VersionCmdStr
	VersionCmdStr = "v1.2.3"
	defer func() { VersionCmdStr = old }()

	if err := GetVersion(newTestContext()); err != nil {
		t.Fatalf("GetVersion: %v", err)
	}
}

func TestIsVersionFlagErr(t *testing.T) {
	tests := []struct {
		estr string
		want bool
	}{
		{"flag provided but not defined: -v", true},
		{"flag provided but not defined: --version", true},
		{"flag provided but not defined: -version", true},
		{"flag provided but not defined: -verbose", false},
		{"flag provided but not defined: -vv", false},
		{"invalid value \"-v\" for flag -c", false},
		{"bad -v", false},
	}
	for _, tt := range tests {
		if got := isVersionFlagErr(tt.estr); got != tt.want {
			t.Errorf("isVersionFlagErr(%q) = %v, want %v", tt.estr, got, tt.want)
		}
	}
}

func TestPrintErrWithHelpVersion(t *testing.T) {
	old := VersionCmdStr
	VersionCmdStr = "v0"
	defer func() { VersionCmdStr = old }()
	called := false
	orig := showAppHelpAndExit
	showAppHelpAndExit = func(*cli.Context, int) { called = true }
	defer func() { showAppHelpAndExit = orig }()

	if err := PrintErrWithHelp(newTestContext(), errors.New("flag provided but not defined: -v")); err != nil {
		t.Fatalf("PrintErrWithHelp: %v", err)
	}
	if called {
		t.Fatal("expected -v to print the version, not help")
	}
}

func TestPrintErrWithHelpVerboseShowsHelp(t *testing.T) {
	called := false
	orig := showAppHelpAndExit
	showAppHelpAndExit = func(*cli.Context, int) { called = true }
	defer func() { showAppHelpAndExit = orig }()

	if err := PrintErrWithHelp(newTestContext(), errors.New("flag provided but not defined: -verbose")); err != nil {
		t.Fatalf("PrintErrWithHelp: %v", err)
	}
	if !called {
		t.Fatal("expected an unknown -verbose flag to show help")
	}
}

func TestUsageErrorCallbackNoCommand(t *testing.T) {
	app := cli.NewApp()
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	ctx := cli.NewContext(app, set, nil)
	ctx.Command = cli.Command{Name: ""}
	orig := showAppHelpAndExit
	showAppHelpAndExit = func(*cli.Context, int) {}
	defer func() { showAppHelpAndExit = orig }()

	if err := UsageErrorCallback(ctx, errors.New("oops"), false); err != nil {
		t.Fatalf("UsageErrorCallback: %v", err)
	}
}
