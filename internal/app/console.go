package app

import (
	"fmt"
	"strings"

	"pkt.systems/termframe/internal/auth"
	"pkt.systems/termframe/internal/frame"
	"pkt.systems/termframe/internal/hub"
	"pkt.systems/termframe/internal/metrics"
	"pkt.systems/termframe/internal/session"
	"pkt.systems/termframe/internal/terminal"
	"pkt.systems/termframe/internal/widget"
)

// console is the per-session application state. Every method runs inside a
// transaction of ctrl.
type console struct {
	app  *App
	ctrl *session.Controller
	user string

	// login frame
	userBox     *widget.TextBox
	passwordBox *widget.TextBox
	codeBox     *widget.ActionTextBox
	loginStatus *widget.Label
	pending     bool
	failures    int

	// main frame
	menu     *widget.MenuBar
	sessions *widget.ListBox
	entries  []hub.Entry
	messages *widget.LogView
	sayBox   *widget.ActionTextBox
	notes    *widget.Panel
	theme    *widget.Spinner
	status   *widget.StatusBar

	about *widget.TextBlock
}

// Status bar panels.
const (
	statusUser = iota
	statusTerm
	statusCount
	statusHint
)

func (c *console) install() error {
	cols, rows := c.ctrl.Size()
	if c.app.cfg.RequireLogin {
		c.ctrl.RegisterFrame(FrameLogin, c.loginFrame(cols, rows))
	}
	c.ctrl.RegisterFrame(FrameMain, c.mainFrame(cols, rows))
	c.ctrl.RegisterFrame(FrameHelp, c.helpFrame(cols, rows))
	c.ctrl.RegisterFrame(FrameAbout, c.aboutFrame(cols, rows))
	if c.app.cfg.RequireLogin {
		return c.ctrl.SetFrame(FrameLogin)
	}
	id := c.ctrl.ID()
	if len(id) > 4 {
		id = id[:4]
	}
	return c.enter("guest-" + strings.ToLower(id))
}

// globalKeys binds the keys every frame shares.
func (c *console) globalKeys(f *frame.Frame) {
	f.SetFunctionKey(terminal.F1, c.showHelp)
	f.SetFunctionKey(terminal.F10, c.quit)
}

func (c *console) showHelp() {
	if c.ctrl.Current() == FrameHelp {
		return
	}
	c.push(FrameHelp)
}

func (c *console) showAbout() {
	if c.ctrl.Current() == FrameAbout {
		return
	}
	c.about.SetText(c.aboutText())
	c.push(FrameAbout)
}

func (c *console) push(name string) {
	if err := c.ctrl.PushFrame(name); err != nil {
		c.ctrl.Logger().Error("push frame failed", "frame", name, "err", err)
	}
}

func (c *console) pop() {
	if err := c.ctrl.PopFrame(); err != nil {
		c.ctrl.Logger().Debug("pop frame failed", "err", err)
	}
}

func (c *console) quit() {
	c.ctrl.Goodbye("Goodbye.")
	c.ctrl.Quit()
	if c.user != "" {
		c.ctrl.Logger().Info("user quit", "user", c.user)
	}
}

// enter switches to the main frame as user.
func (c *console) enter(user string) error {
	c.user = user
	h := c.app.cfg.Hub
	if h != nil {
		h.Update(c.ctrl.ID(), func(e *hub.Entry) { e.User = user })
		h.OnMessage(c.ctrl.ID(), c.receive)
	}
	c.ctrl.Logger().Info("user entered console", "user", user)
	c.status.SetText(statusUser, " "+user)
	c.messages.Append(fmt.Sprintf("Welcome, %s. Press F1 for help.", user))
	c.refresh()
	if err := c.ctrl.SetFrame(FrameMain); err != nil {
		return err
	}
	if h != nil {
		go h.Broadcast("*", user+" joined")
	}
	return nil
}

// receive appends a broadcast message. Hub deliveries run it inside a
// transaction.
func (c *console) receive(from, text string) {
	stamp := c.app.cfg.Now().Format("15:04")
	if from == "*" {
		c.messages.Append(fmt.Sprintf("%s * %s", stamp, text))
	} else {
		c.messages.Append(fmt.Sprintf("%s <%s> %s", stamp, from, text))
	}
	c.refresh()
}

func (c *console) say(text string) {
	text = strings.TrimSpace(text)
	c.sayBox.SetText("")
	if text == "" {
		return
	}
	if h := c.app.cfg.Hub; h != nil {
		go h.Broadcast(c.user, text)
		return
	}
	c.receive(c.user, text)
}

// refresh reloads the session list and the status bar.
func (c *console) refresh() {
	if caps := c.ctrl.Caps(); caps != nil {
		c.status.SetText(statusTerm, " "+caps.Name())
	}
	h := c.app.cfg.Hub
	if h == nil {
		return
	}
	c.entries = h.List()
	items := make([]string, len(c.entries))
	for i, e := range c.entries {
		user := e.User
		if user == "" {
			user = "-"
		}
		items[i] = fmt.Sprintf("%-12s %-10s %dx%d", user, e.Term, e.Cols, e.Rows)
	}
	prev, _ := c.sessions.Selected()
	c.sessions.SetItems(items)
	if prev > 0 {
		c.sessions.Select(min(prev, len(items)-1))
	}
	c.status.SetText(statusCount, fmt.Sprintf(" %d online", len(items)))
}

func (c *console) describeSession(index int, _ string) {
	if index < 0 || index >= len(c.entries) {
		return
	}
	e := c.entries[index]
	c.messages.Append(fmt.Sprintf("session %s: user %s from %s, %s %dx%d, since %s",
		e.ID, e.User, e.Remote, e.Term, e.Cols, e.Rows, e.CreatedAt.Format("15:04:05")))
}

// themes are the message log color schemes of the theme spinner.
var themes = []struct {
	name string
	attr terminal.Attr
	fg   terminal.Color
}{
	{"plain", terminal.AttrNone, terminal.ColorDefault},
	{"green", terminal.AttrNone, terminal.ColorGreen},
	{"amber", terminal.AttrBold, terminal.ColorYellow},
	{"cyan", terminal.AttrNone, terminal.ColorCyan},
}

func (c *console) applyTheme(index int, _ string) {
	if index < 0 || index >= len(themes) {
		return
	}
	t := themes[index]
	c.messages.SetColors(t.attr, t.fg, terminal.ColorDefault)
	c.messages.MarkDirty()
}

func (c *console) checkLogin(user auth.User, err error) {
	c.pending = false
	metrics.Login(err == nil)
	if err != nil {
		c.failures++
		c.ctrl.Logger().Warn("login failed", "user", c.userBox.Text(), "failures", c.failures)
		if c.failures >= maxLoginFailures {
			c.ctrl.Goodbye("Too many failed logins.")
			c.ctrl.Quit()
			return
		}
		c.loginStatus.SetText("Invalid credentials, try again.")
		c.passwordBox.SetText("")
		c.codeBox.SetText("")
		if f, ferr := c.ctrl.Frame(FrameLogin); ferr == nil {
			f.SetFocus(c.passwordBox)
		}
		return
	}
	if err := c.enter(user.Username); err != nil {
		c.ctrl.Logger().Error("enter console failed", "err", err)
	}
}
