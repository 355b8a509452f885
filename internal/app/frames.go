package app

import (
	"fmt"
	"strings"

	"pkt.systems/termframe/internal/frame"
	"pkt.systems/termframe/internal/terminal"
	"pkt.systems/termframe/internal/widget"
)

const (
	anchorAll    = widget.AnchorLeft | widget.AnchorRight | widget.AnchorTop | widget.AnchorBottom
	anchorFooter = widget.AnchorLeft | widget.AnchorRight | widget.AnchorBottom | widget.AnchorFixed
)

func (c *console) loginFrame(cols, rows int) *frame.Frame {
	const w, h = 44, 12
	x, y := max((cols-w)/2, 0), max((rows-h)/2, 0)
	f := frame.New(cols, rows)
	c.globalKeys(f)

	c.userBox = widget.NewTextBox(x+14, y+2, 24)
	c.passwordBox = widget.NewPasswordBox(x+14, y+4, 24)
	c.codeBox = widget.NewActionTextBox(x+14, y+6, 6, func(string) { c.submitLogin() })
	userLabel := widget.NewLabel(x+3, y+2, 10, "@User")
	userLabel.For(c.userBox)
	passwordLabel := widget.NewLabel(x+3, y+4, 10, "@Password")
	passwordLabel.For(c.passwordBox)
	codeLabel := widget.NewLabel(x+3, y+6, 10, "@Code")
	codeLabel.For(c.codeBox)
	c.loginStatus = widget.NewLabel(x+3, y+10, w-6, "")

	f.AddWidgets(
		widget.NewBox(x, y, w, h, "termframe"),
		userLabel, c.userBox,
		passwordLabel, c.passwordBox,
		codeLabel, c.codeBox,
		widget.NewButton(x+14, y+8, "Lo@gin", c.submitLogin),
		widget.NewButton(x+24, y+8, "@Quit", c.quit),
		c.loginStatus,
	)
	f.SetFocus(c.userBox)
	return f
}

// submitLogin validates the form off the event loop and applies the result
// in a new transaction.
func (c *console) submitLogin() {
	if c.pending {
		return
	}
	username := strings.TrimSpace(c.userBox.Text())
	password := c.passwordBox.Text()
	code := strings.TrimSpace(c.codeBox.Text())
	if username == "" {
		c.loginStatus.SetText("User name required.")
		return
	}
	c.pending = true
	c.loginStatus.SetText("Checking...")
	authn := c.app.cfg.Auth
	now := c.app.cfg.Now()
	go func() {
		user, err := authn.Validate(username, password, code, now)
		if doErr := c.ctrl.Do(func() error {
			c.checkLogin(user, err)
			return nil
		}); doErr != nil {
			c.ctrl.Logger().Debug("login result dropped", "err", doErr)
		}
	}()
}

func (c *console) mainFrame(cols, rows int) *frame.Frame {
	const leftW, notesH = 32, 6
	rightW := max(cols-leftW, 10)
	boxH := max(rows-5, 4)
	msgH := max(boxH-notesH, 3)
	f := frame.New(cols, rows)
	c.globalKeys(f)

	c.menu = widget.NewMenuBar(0, 0, cols)
	c.menu.SetAnchor(widget.AnchorLeft | widget.AnchorRight | widget.AnchorTop)
	c.menu.Add("@Refresh", func() {
		c.refresh()
		c.messages.Append("Session list refreshed.")
	})
	c.menu.Add("Hel@p", c.showHelp)
	c.menu.Add("@About", c.showAbout)
	c.menu.Add("@Quit", c.quit)

	sessionsBox := widget.NewBox(0, 1, leftW, boxH, "Sessions")
	sessionsBox.SetAnchor(widget.AnchorLeft | widget.AnchorTop | widget.AnchorBottom)
	c.sessions = widget.NewListBox(1, 2, leftW-2, boxH-2, 1)
	c.sessions.SetAnchor(widget.AnchorLeft | widget.AnchorTop | widget.AnchorBottom)
	c.sessions.OnSelect = c.describeSession

	messagesBox := widget.NewBox(leftW, 1, rightW, msgH, "Messages")
	messagesBox.SetAnchor(anchorAll)
	c.messages = widget.NewLogView(leftW+1, 2, rightW-2, msgH-2, c.app.cfg.Scrollback)
	c.messages.SetAnchor(anchorAll)
	c.messages.SetCanFocus(true)

	notesBox := widget.NewBox(leftW, 1+msgH, rightW, notesH, "Notes")
	notesBox.SetAnchor(anchorFooter)
	c.notes = widget.NewEditPanel(leftW+1, 2+msgH, rightW-2, notesH-2)
	c.notes.SetAnchor(anchorFooter)

	sayLabel := widget.NewLabel(0, rows-4, 5, "@Say:")
	sayLabel.SetAnchor(anchorFooter)
	c.sayBox = widget.NewActionTextBox(5, rows-4, max(cols-21, 1), c.say)
	c.sayBox.SetAnchor(anchorFooter)
	sayLabel.For(c.sayBox)

	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.name
	}
	themeLabel := widget.NewLabel(cols-15, rows-4, 6, "Th@eme")
	themeLabel.SetAnchor(widget.AnchorRight | widget.AnchorBottom | widget.AnchorFixed)
	c.theme = widget.NewSpinner(cols-8, rows-4, names...)
	c.theme.SetAnchor(widget.AnchorRight | widget.AnchorBottom | widget.AnchorFixed)
	c.theme.OnChange = c.applyTheme
	themeLabel.For(c.theme)

	hint := widget.NewTextBlock(0, rows-3, cols, 2,
		"Tab moves between fields, Enter in Say sends to everyone online. "+
			"Ctrl plus a highlighted letter jumps to that field. F1 help, F10 quit.")
	hint.SetAnchor(anchorFooter)

	c.status = widget.NewStatusBar(0, rows-1, cols)
	c.status.SetAnchor(anchorFooter)
	c.status.SetColors(terminal.AttrReverse, terminal.ColorDefault, terminal.ColorDefault)
	c.status.AddPanel(16)
	c.status.AddPanel(14)
	c.status.AddPanel(12)
	c.status.AddPanel(0)
	c.status.SetText(statusHint, " F1 Help  F10 Quit")

	f.AddWidgets(
		c.menu,
		sessionsBox, c.sessions,
		messagesBox, c.messages,
		notesBox, c.notes,
		sayLabel, c.sayBox,
		themeLabel, c.theme,
		hint,
		c.status,
	)
	f.SetFocus(c.sayBox)
	return f
}

const helpText = `termframe console

Keys
  Tab, Shift-Tab     next and previous field
  Up, Down           previous and next field outside lists
  Ctrl+letter        jump to the field or menu item with that letter
  Enter              activate buttons and lists, send in the Say box
  Ctrl-L             repaint the screen
  F1                 this help
  F10                quit

Sessions lists everyone connected. Select a session with Enter to see its
details in Messages. Notes is a scratch pad that keeps Tab for itself; leave
it with Shift-Tab or Ctrl+letter.

Press Escape or OK to return.`

func (c *console) helpFrame(cols, rows int) *frame.Frame {
	f := frame.New(cols, rows)
	c.globalKeys(f)
	f.SetCommandHandler(terminal.KeyEscape, c.pop)

	box := widget.NewBox(0, 0, cols, rows, "Help")
	box.SetAnchor(anchorAll)
	text := widget.NewTextBlock(2, 2, cols-4, rows-6, helpText)
	text.SetAnchor(anchorAll)
	ok := widget.NewButton(cols/2-1, rows-3, "@OK", c.pop)
	ok.SetAnchor(widget.AnchorBottom | widget.AnchorFixed)
	f.AddWidgets(box, text, ok)
	return f
}

func (c *console) aboutFrame(cols, rows int) *frame.Frame {
	const w, h = 52, 13
	x, y := max((cols-w)/2, 0), max((rows-h)/2, 0)
	f := frame.New(cols, rows)
	c.globalKeys(f)
	f.SetCommandHandler(terminal.KeyEscape, c.pop)

	c.about = widget.NewTextBlock(x+2, y+2, w-4, h-5, "")
	f.AddWidgets(
		widget.NewBox(x, y, w, h, "About"),
		c.about,
		widget.NewButton(x+w/2-1, y+h-2, "@OK", c.pop),
	)
	return f
}

func (c *console) aboutText() string {
	var b strings.Builder
	fmt.Fprintf(&b, "termframe %s\n\n", c.app.cfg.Version)
	fmt.Fprintf(&b, "Session   %s\n", c.ctrl.ID())
	fmt.Fprintf(&b, "User      %s\n", c.user)
	cols, rows := c.ctrl.Size()
	if caps := c.ctrl.Caps(); caps != nil {
		fmt.Fprintf(&b, "Terminal  %s (%s family)\n", caps.Name(), caps.Family())
		charset := "no"
		if caps.UsesAlternateSet() {
			charset = "yes"
		}
		fmt.Fprintf(&b, "Line set  %s\n", charset)
	}
	fmt.Fprintf(&b, "Size      %dx%d", cols, rows)
	return b.String()
}
