package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	bookingModels "github.com/c14220110/clinic-appointments/internal/booking/models"
	"github.com/c14220110/clinic-appointments/internal/cabinet"
)

// terminalView prints what the controller renders. Times are shown in the
// local zone, from the starts_at instant.
type terminalView struct {
	out    io.Writer
	errOut io.Writer
}

func (v *terminalView) ShowPage(page cabinet.Page, header cabinet.HeaderState) {
	if header.Authenticated {
		fmt.Fprintf(v.out, "[%s] %s\n", page, header.Greeting)
		return
	}
	fmt.Fprintf(v.out, "[%s] not signed in (actions: register, login)\n", page)
}

func (v *terminalView) ShowMessage(text string, isError bool) {
	if isError {
		fmt.Fprintf(v.errOut, "error: %s\n", text)
		return
	}
	fmt.Fprintln(v.out, text)
}

func (v *terminalView) ShowDoctors(doctors []bookingModels.DoctorSummary) {
	if len(doctors) == 0 {
		fmt.Fprintln(v.out, "no doctors available")
		return
	}
	w := tabwriter.NewWriter(v.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSPECIALTY")
	for _, d := range doctors {
		fmt.Fprintf(w, "%d\t%s\t%s\n", d.ID, d.Name, d.Specialty)
	}
	w.Flush()
}

func (v *terminalView) ShowAppointments(tabs cabinet.Tabs) {
	fmt.Fprintf(v.out, "upcoming (%d) | past (%d)\n", len(tabs.Upcoming), len(tabs.Past))
	list := tabs.Upcoming
	if tabs.Selected == cabinet.TabPast {
		list = tabs.Past
	}
	fmt.Fprintf(v.out, "showing %s\n", tabs.Selected)
	if len(list) == 0 {
		fmt.Fprintln(v.out, "no appointments")
		return
	}

	w := tabwriter.NewWriter(v.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tWHEN\tDOCTOR\tSPECIALTY\tREASON")
	for _, a := range list {
		reason := "-"
		if a.Reason != nil {
			reason = *a.Reason
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", a.ID, a.StartsAt.Local().Format("2006-01-02 15:04"), a.DoctorName, a.Specialty, reason)
	}
	w.Flush()
}
