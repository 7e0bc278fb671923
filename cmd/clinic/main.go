// Command clinic is the terminal client of the clinic service.
//
//	clinic [-server URL] [-session FILE] <action> [field=value ...]
//
// Examples:
//
//	clinic register username=Ann email=ann@x.com password=secret
//	clinic open-booking
//	clinic book doctor_id=1 appointment_date=2030-01-01T10:00:00Z reason=checkup
//	clinic select-tab tab=past
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/c14220110/clinic-appointments/internal/cabinet"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("clinic", flag.ContinueOnError)
	server := fs.String("server", envOr("CLINIC_SERVER", "http://localhost:3000"), "clinic API base URL")
	sessionPath := fs.String("session", defaultSessionPath(), "file keeping the signed-in user")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: clinic [flags] <action> [field=value ...]\n\nflags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(fs.Output(), "\nactions: %s\n", strings.Join(newController(nil, nil).ActionNames(), ", "))
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	form, err := parseForm(fs.Args()[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	session, err := cabinet.NewSession(cabinet.FileStore{Path: *sessionPath})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	c := newController(session, cabinet.NewAPIClient(*server))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	action := fs.Arg(0)
	// every run starts fresh, so tabs need the cabinet loaded first
	if action == "select-tab" {
		if err := c.Navigate(ctx, cabinet.PageCabinet); err != nil {
			return 1
		}
	}
	if err := c.Dispatch(ctx, action, form); err != nil {
		if _, ok := c.Actions()[action]; !ok {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
		return 1
	}
	return 0
}

func newController(session *cabinet.Session, api cabinet.API) *cabinet.Controller {
	return cabinet.NewController(session, api, &terminalView{out: os.Stdout, errOut: os.Stderr})
}

func parseForm(args []string) (cabinet.Form, error) {
	form := cabinet.Form{}
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("expected field=value, got %q", arg)
		}
		form[key] = value
	}
	return form, nil
}

func defaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".clinic-session.json"
	}
	return filepath.Join(dir, "clinic", "session.json")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
