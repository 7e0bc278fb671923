package cabinet

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	authModels "github.com/c14220110/clinic-appointments/internal/auth/models"
	bookingModels "github.com/c14220110/clinic-appointments/internal/booking/models"
	"github.com/c14220110/clinic-appointments/pkg/apierror"
)

var (
	ErrUnknownAction = errors.New("unknown action")
	ErrNotSignedIn   = errors.New("please sign in first")
)

// View renders what the controller decides. Implementations never call back
// into the controller.
type View interface {
	ShowPage(page Page, header HeaderState)
	ShowMessage(text string, isError bool)
	ShowDoctors(doctors []bookingModels.DoctorSummary)
	ShowAppointments(tabs Tabs)
}

// Form carries the fields of one submitted UI form.
type Form map[string]string

func (f Form) Get(key string) string {
	return strings.TrimSpace(f[key])
}

// missing lists the required keys left blank, in the given order.
func (f Form) missing(keys ...string) []string {
	var out []string
	for _, k := range keys {
		if f.Get(k) == "" {
			out = append(out, k)
		}
	}
	return out
}

type Action func(ctx context.Context, form Form) error

type Controller struct {
	Session *Session
	API     API
	View    View
	Now     func() time.Time

	page Page
	tabs Tabs
}

func NewController(session *Session, api API, view View) *Controller {
	return &Controller{Session: session, API: api, View: view, Now: time.Now, page: PageHome}
}

// Actions binds every named UI action to its handler.
func (c *Controller) Actions() map[string]Action {
	return map[string]Action{
		"register":     c.register,
		"login":        c.login,
		"logout":       c.logout,
		"open-home":    c.openPage(PageHome),
		"open-cabinet": c.openPage(PageCabinet),
		"open-booking": c.openPage(PageBooking),
		"book":         c.book,
		"select-tab":   c.selectTab,
	}
}

// ActionNames returns the bound action names, sorted.
func (c *Controller) ActionNames() []string {
	actions := c.Actions()
	names := make([]string, 0, len(actions))
	for name := range actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c *Controller) Dispatch(ctx context.Context, name string, form Form) error {
	action, ok := c.Actions()[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAction, name)
	}
	return action(ctx, form)
}

// Page is the page currently shown.
func (c *Controller) Page() Page { return c.page }

// Tabs is the last rendered appointment split.
func (c *Controller) Tabs() Tabs { return c.tabs }

// Navigate shows p, or the home page when p is protected and nobody is
// signed in, and loads the data the page needs.
func (c *Controller) Navigate(ctx context.Context, p Page) error {
	c.page = Gate(c.Session, p)
	c.View.ShowPage(c.page, Header(c.Session))

	switch c.page {
	case PageCabinet:
		return c.loadAppointments(ctx)
	case PageBooking:
		doctors, err := c.API.Doctors(ctx)
		if err != nil {
			return c.fail(err)
		}
		c.View.ShowDoctors(doctors)
	}
	return nil
}

func (c *Controller) openPage(p Page) Action {
	return func(ctx context.Context, _ Form) error {
		return c.Navigate(ctx, p)
	}
}

func (c *Controller) register(ctx context.Context, form Form) error {
	if missing := form.missing("username", "email", "password"); len(missing) > 0 {
		return c.fail(missingFields(missing))
	}
	res, err := c.API.Register(ctx, form.Get("username"), form.Get("email"), form.Get("password"))
	if err != nil {
		return c.fail(err)
	}
	return c.signIn(ctx, res)
}

func (c *Controller) login(ctx context.Context, form Form) error {
	if missing := form.missing("email", "password"); len(missing) > 0 {
		return c.fail(missingFields(missing))
	}
	res, err := c.API.Login(ctx, form.Get("email"), form.Get("password"))
	if err != nil {
		return c.fail(err)
	}
	return c.signIn(ctx, res)
}

func (c *Controller) signIn(ctx context.Context, res *authModels.AuthResponse) error {
	err := c.Session.SignIn(CurrentUser{
		ID:       res.User.ID,
		Username: res.User.Username,
		Email:    res.User.Email,
		Token:    res.Token,
	})
	if err != nil {
		return c.fail(err)
	}
	c.View.ShowMessage(res.Message, false)
	return c.Navigate(ctx, PageCabinet)
}

// logout leaves protected pages for home; elsewhere only the header changes.
func (c *Controller) logout(ctx context.Context, _ Form) error {
	if err := c.Session.SignOut(); err != nil {
		return c.fail(err)
	}
	c.tabs = Tabs{}
	return c.Navigate(ctx, c.page)
}

// book mirrors the server's required-field check before calling it, then
// refreshes the cabinet on the upcoming tab.
func (c *Controller) book(ctx context.Context, form Form) error {
	user := c.Session.User()
	if user == nil {
		return c.fail(ErrNotSignedIn)
	}
	if missing := form.missing("doctor_id", "appointment_date"); len(missing) > 0 {
		return c.fail(missingFields(missing))
	}
	doctorID, err := strconv.ParseInt(form.Get("doctor_id"), 10, 64)
	if err != nil {
		return c.fail(apierror.NewInvalidParamTypeError("doctor_id", "integer"))
	}

	req := bookingModels.CreateAppointmentRequest{
		UserID:          &user.ID,
		DoctorID:        &doctorID,
		AppointmentDate: form.Get("appointment_date"),
	}
	if reason := form.Get("reason"); reason != "" {
		req.Reason = &reason
	}

	res, err := c.API.Book(ctx, user.Token, req)
	if err != nil {
		return c.fail(err)
	}
	c.View.ShowMessage(res.Message, false)
	return c.Navigate(ctx, PageCabinet)
}

func (c *Controller) selectTab(_ context.Context, form Form) error {
	tab := Tab(form.Get("tab"))
	if tab != TabUpcoming && tab != TabPast {
		return c.fail(fmt.Errorf("unknown tab %q", tab))
	}
	c.tabs.Selected = tab
	c.View.ShowAppointments(c.tabs)
	return nil
}

func (c *Controller) loadAppointments(ctx context.Context) error {
	user := c.Session.User()
	list, err := c.API.Appointments(ctx, user.Token, user.ID)
	if err != nil {
		return c.fail(err)
	}
	c.tabs = Partition(list, c.Now())
	c.View.ShowAppointments(c.tabs)
	return nil
}

// fail shows err's text verbatim and hands it back to the caller.
func (c *Controller) fail(err error) error {
	c.View.ShowMessage(err.Error(), true)
	return err
}

func missingFields(keys []string) error {
	return errors.New("Missing required fields: " + strings.Join(keys, ", "))
}
