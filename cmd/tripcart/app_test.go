package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/tripcart/apiclient"
	"github.com/kbukum/tripcart/errors"
	"github.com/kbukum/tripcart/httpclient"
	"github.com/kbukum/tripcart/logger"
	"github.com/kbukum/tripcart/marketplace"
	"github.com/kbukum/tripcart/notify"
	"github.com/kbukum/tripcart/session"
	"github.com/kbukum/tripcart/store"
	"github.com/kbukum/tripcart/testutil"
	"github.com/kbukum/tripcart/testutil/fakebackend"
)

const password = "correct horse battery"

type shell struct {
	*app
	backend *fakebackend.Backend
	out     *bytes.Buffer
	rec     *testutil.Recorder
}

func newShell(t *testing.T) *shell {
	t.Helper()
	b, srv := fakebackend.Start(t)
	hc, err := httpclient.New(httpclient.Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	rec := testutil.NewRecorder()
	notifier := notify.Multi{notify.NewWriter(&out), rec}
	exec := apiclient.New(hc,
		apiclient.WithLogger(logger.Nop()),
		apiclient.WithNotifier(notifier),
		apiclient.WithSleeper(testutil.NewSleepRecorder().Sleep),
	)
	api := marketplace.New(exec)
	ids := session.NewIdentityStore(store.NewMemory[session.IdentityMirror](), logger.Nop())
	sess := session.New(api, ids, session.WithNotifier(notifier), session.WithLogger(logger.Nop()))
	if _, err := sess.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	a := newApp(api, sess, notifier, logger.Nop(), &out)
	a.now = func() time.Time { return time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC) }
	return &shell{app: a, backend: b, out: &out, rec: rec}
}

// run executes line and returns what it printed.
func (s *shell) run(t *testing.T, line string) (string, error) {
	t.Helper()
	s.out.Reset()
	err := s.runLine(context.Background(), line)
	return s.out.String(), err
}

func (s *shell) mustRun(t *testing.T, line string) string {
	t.Helper()
	out, err := s.run(t, line)
	if err != nil {
		t.Fatalf("%s: %v\n%s", line, err, out)
	}
	return out
}

func (s *shell) login(t *testing.T, name, email string) string {
	t.Helper()
	id, err := s.backend.CreateUser(name, email, password, false)
	if err != nil {
		t.Fatal(err)
	}
	out := s.mustRun(t, `login --email `+email+` --password "`+password+`"`)
	if !strings.Contains(out, "Welcome back, "+name) {
		t.Fatalf("login output = %q", out)
	}
	return id
}

func TestApp_Help(t *testing.T) {
	s := newShell(t)
	out := s.mustRun(t, "help")
	for _, name := range []string{"signup", "login", "requests", "travel", "pay", "admin"} {
		if !strings.Contains(out, name) {
			t.Errorf("help is missing %s", name)
		}
	}
}

func TestApp_UnknownCommandIsTracked(t *testing.T) {
	s := newShell(t)
	out, err := s.run(t, "teleport home")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(out, `Unknown command "teleport"`) {
		t.Errorf("output = %q", out)
	}

	events := s.backend.Events()
	if len(events) != 1 {
		t.Fatalf("expected 1 analytics event, got %d", len(events))
	}
	ev := events[0]
	if ev.Type != "command_not_found" || ev.UserID != nil {
		t.Errorf("event = %+v", ev)
	}
	if ev.Details["command"] != "teleport" {
		t.Errorf("details = %v", ev.Details)
	}

	id := s.login(t, "Ada", "ada@example.com")
	_, _ = s.run(t, "teleport")
	events = s.backend.Events()
	if last := events[len(events)-1]; last.UserID == nil || *last.UserID != id {
		t.Errorf("expected event for user %s, got %+v", id, last)
	}
}

func TestApp_AuthGate(t *testing.T) {
	s := newShell(t)
	out, err := s.run(t, "travel list")
	if err == nil || !strings.Contains(out, "Please log in first.") {
		t.Errorf("travel list while logged out: err=%v out=%q", err, out)
	}
	out, err = s.run(t, "requests create --product Perfume --price 10")
	if err == nil || !strings.Contains(out, "Please log in first.") {
		t.Errorf("requests create while logged out: err=%v out=%q", err, out)
	}
}

func TestApp_LoginRejected(t *testing.T) {
	s := newShell(t)
	if _, err := s.backend.CreateUser("Ada", "ada@example.com", password, false); err != nil {
		t.Fatal(err)
	}
	out, err := s.run(t, "login --email ada@example.com --password wrong-password")
	if err == nil {
		t.Fatal("expected login failure")
	}
	if !strings.Contains(out, "! Error: "+errors.MsgUnauthorized) {
		t.Errorf("output = %q", out)
	}
	if s.rec.CountKind(errors.KindUnauthorized) != 1 {
		t.Errorf("expected one unauthorized notification, got %+v", s.rec.All())
	}
	if s.sess.IsAuthenticated() {
		t.Error("session should stay anonymous")
	}
}

func TestApp_SignupValidation(t *testing.T) {
	s := newShell(t)
	out, err := s.run(t, "signup --name Ada --email nope --password short")
	if err == nil {
		t.Fatal("expected validation failure")
	}
	if s.rec.CountKind(errors.KindBadRequest) != 1 {
		t.Errorf("expected one bad request notification, got %+v", s.rec.All())
	}
	if !strings.Contains(out, "email must be a valid email address") {
		t.Errorf("output = %q", out)
	}
	if s.backend.Hits("POST", "/signup") != 0 {
		t.Error("invalid form reached the backend")
	}
}

func TestApp_SignupAndWhoami(t *testing.T) {
	s := newShell(t)
	out := s.mustRun(t, `signup --name "Ada Lovelace" --email Ada@Example.com --password "`+password+`"`)
	if !strings.Contains(out, "Welcome, Ada Lovelace.") {
		t.Errorf("signup output = %q", out)
	}
	out = s.mustRun(t, "whoami")
	if !strings.Contains(out, "ada@example.com") {
		t.Errorf("whoami output = %q", out)
	}
	if p := s.prompt(); p != "tripcart (Ada Lovelace)> " {
		t.Errorf("prompt = %q", p)
	}

	s.mustRun(t, "logout")
	if out := s.mustRun(t, "whoami"); !strings.Contains(out, "Not logged in.") {
		t.Errorf("whoami after logout = %q", out)
	}
}

func TestApp_Requests(t *testing.T) {
	s := newShell(t)
	s.login(t, "Ada", "ada@example.com")

	out := s.mustRun(t, `requests create --product "Chanel No. 5" --price 120 --seller-location Paris`)
	if !strings.Contains(out, "Request Created") {
		t.Errorf("create output = %q", out)
	}
	out = s.mustRun(t, "requests mine")
	if !strings.Contains(out, "Chanel No. 5") || !strings.Contains(out, "120.00") {
		t.Errorf("mine output = %q", out)
	}

	_, err := s.run(t, "requests create --product Nothing --price 0")
	if err == nil {
		t.Error("expected validation failure for zero price")
	}
}

func TestApp_ListsRefreshAfterCreate(t *testing.T) {
	s := newShell(t)
	s.login(t, "Ada", "ada@example.com")

	out := s.mustRun(t, "requests mine")
	if !strings.Contains(out, "No shopping requests.") {
		t.Fatalf("expected empty list, got %q", out)
	}
	s.mustRun(t, "requests list")
	s.mustRun(t, `requests create --product "Chanel No. 5" --price 120 --seller-location Paris`)
	out = s.mustRun(t, "requests mine")
	if !strings.Contains(out, "Chanel No. 5") {
		t.Errorf("expected new request in list, got %q", out)
	}
	out = s.mustRun(t, "requests list")
	if !strings.Contains(out, "Chanel No. 5") {
		t.Errorf("expected new request in public list, got %q", out)
	}
}

func TestApp_TravelRequiresKYC(t *testing.T) {
	s := newShell(t)
	id := s.login(t, "Tara", "tara@example.com")
	create := "travel create --from Paris --to Delhi --depart 2026-06-10 --arrive 2026-06-11 --space 5"

	out, err := s.run(t, create)
	if err == nil {
		t.Fatal("expected KYC gate")
	}
	if !strings.Contains(out, "KYC Required") {
		t.Errorf("output = %q", out)
	}
	if s.backend.Hits("POST", "/travel-itineraries") != 0 {
		t.Error("itinerary reached the backend without KYC")
	}

	s.backend.SetKYC(id, "https://files.example/kyc.pdf")
	s.mustRun(t, "profile show")
	out = s.mustRun(t, create)
	if !strings.Contains(out, "Trip Posted") {
		t.Errorf("create output = %q", out)
	}
	out = s.mustRun(t, "travel list")
	if !strings.Contains(out, "Paris") || !strings.Contains(out, "2026-06-10") {
		t.Errorf("list output = %q", out)
	}
	if out := s.mustRun(t, "travel more"); !strings.Contains(out, "No more travel plans.") {
		t.Errorf("more output = %q", out)
	}
}

func TestApp_Locations(t *testing.T) {
	s := newShell(t)
	out := s.mustRun(t, "locations lon")
	if !strings.Contains(out, "London") {
		t.Errorf("output = %q", out)
	}
}

func TestApp_REPL(t *testing.T) {
	s := newShell(t)
	in := strings.NewReader("\nlocations ber\nexit\nlocations del\n")
	if err := s.repl(context.Background(), in); err != nil {
		t.Fatal(err)
	}
	out := s.out.String()
	if !strings.Contains(out, "Berlin") {
		t.Errorf("output = %q", out)
	}
	if strings.Contains(out, "Delhi") {
		t.Error("commands after exit were run")
	}
}

func TestApp_BadQuoting(t *testing.T) {
	s := newShell(t)
	out, err := s.run(t, `dispute m1 "never`)
	if err == nil || !strings.Contains(out, "Could not parse command") {
		t.Errorf("err=%v out=%q", err, out)
	}
}
