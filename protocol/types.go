package protocol

import "fmt"

// PageType identifies the variant of a page document
type PageType string

const (
	PageList   PageType = "list"
	PageDetail PageType = "detail"
	PageForm   PageType = "form"
)

// Page is one server-delivered screen: *List, *Detail, *Form or *Unsupported
type Page interface {
	Type() PageType
	PageTitle() string
	PageIcon() string
}

// List is a page of items, optionally backed by a live server-side query
type List struct {
	Title           string     `json:"title"`
	Icon            string     `json:"icon,omitempty"`
	Dynamic         bool       `json:"dynamic,omitempty"`
	IsShowingDetail bool       `json:"isShowingDetail,omitempty"`
	Items           []ListItem `json:"items"`
	Actions         []Action   `json:"actions,omitempty"`
}

func (l *List) Type() PageType { return PageList }
func (l *List) PageTitle() string { return l.Title }
func (l *List) PageIcon() string { return l.Icon }

// ListItem is a single row of a list page
type ListItem struct {
	Title    string      `json:"title"`
	Subtitle string      `json:"subtitle,omitempty"`
	Icon     string      `json:"icon,omitempty"`
	ID       string      `json:"id,omitempty"`
	Detail   *ItemDetail `json:"detail,omitempty"`
	Actions  []Action    `json:"actions,omitempty"`
}

// ItemDetail is the side pane shown for a list item when the list shows details
type ItemDetail struct {
	Markdown string         `json:"markdown"`
	Metadata []MetadataItem `json:"metadata,omitempty"`
}

// Detail is a markdown page with an optional metadata panel
type Detail struct {
	Title    string         `json:"title"`
	Icon     string         `json:"icon,omitempty"`
	Markdown string         `json:"markdown"`
	Metadata []MetadataItem `json:"metadata,omitempty"`
	Actions  []Action       `json:"actions,omitempty"`
}

func (d *Detail) Type() PageType { return PageDetail }
func (d *Detail) PageTitle() string { return d.Title }
func (d *Detail) PageIcon() string { return d.Icon }

// Form is a page of input fields with a single submit directive
type Form struct {
	Title    string     `json:"title"`
	Icon     string     `json:"icon,omitempty"`
	Items    []FormItem `json:"items"`
	OnSubmit Submit     `json:"onSubmit"`
}

func (f *Form) Type() PageType { return PageForm }
func (f *Form) PageTitle() string { return f.Title }
func (f *Form) PageIcon() string { return f.Icon }

// SubmitType selects what a form submission does
type SubmitType string

const (
	SubmitPush SubmitType = "push"
	SubmitRun  SubmitType = "run"
)

// Submit describes a form's submission: push a page or run a command.
// URL defaults to the form's own URL.
type Submit struct {
	Type      SubmitType `json:"type"`
	URL       string     `json:"url,omitempty"`
	OnSuccess OnSuccess  `json:"onSuccess,omitempty"`
}

// Unsupported is any page whose type this client does not know
type Unsupported struct {
	Kind  string
	Title string
}

func (u *Unsupported) Type() PageType { return PageType(u.Kind) }
func (u *Unsupported) PageTitle() string { return u.Title }
func (u *Unsupported) PageIcon() string { return "" }

// MetadataType identifies a metadata panel entry
type MetadataType string

const (
	MetadataLink      MetadataType = "link"
	MetadataLabel     MetadataType = "label"
	MetadataSeparator MetadataType = "separator"
)

// MetadataItem is one entry of a metadata panel. Order is significant.
type MetadataItem struct {
	Type  MetadataType `json:"type"`
	Title string       `json:"title,omitempty"`
	Text  string       `json:"text,omitempty"`
	URL   string       `json:"url,omitempty"`
}

// FormItemType identifies a form field
type FormItemType string

const (
	FieldTextField FormItemType = "textfield"
	FieldTextArea  FormItemType = "textarea"
	FieldCheckbox  FormItemType = "checkbox"
	FieldDropdown  FormItemType = "dropdown"
	FieldFile      FormItemType = "file"
)

// FormItem is a typed form field. ID is the submission key.
type FormItem struct {
	Type        FormItemType
	ID          string
	Title       string
	Required    bool
	Placeholder string // textfield, textarea
	Value       string // textfield, textarea, dropdown
	Label       string // checkbox
	Checked     bool   // checkbox
	Options     []Option
}

// Option is a dropdown choice
type Option struct {
	Title string `json:"title"`
	Value string `json:"value"`
}

// Shortcut is a keyboard shortcut hint attached to an action
type Shortcut struct {
	Modifiers []string `json:"modifiers"`
	Key       string   `json:"key"`
}

func (s Shortcut) String() string {
	if s.Key == "" {
		return ""
	}
	out := ""
	for _, m := range s.Modifiers {
		out += m + "+"
	}
	return out + s.Key
}

// Action is a titled command attached to an item or a whole view
type Action struct {
	Title    string    `json:"title"`
	Icon     string    `json:"icon,omitempty"`
	Shortcut *Shortcut `json:"shortcut,omitempty"`
	OnAction Command   `json:"onAction"`
}

// CommandType identifies a command variant
type CommandType string

const (
	CommandPush CommandType = "push"
	CommandOpen CommandType = "open"
	CommandCopy CommandType = "copy"
	CommandRun  CommandType = "run"
)

// OnSuccess is the local effect of a successful run command
type OnSuccess string

const (
	OnSuccessNone   OnSuccess = ""
	OnSuccessReload OnSuccess = "reload"
	OnSuccessPop    OnSuccess = "pop"
)

// Command is a user- or server-triggered instruction.
// Which fields are meaningful depends on Type.
type Command struct {
	Type      CommandType    `json:"type"`
	Page      string         `json:"page,omitempty"`      // push
	URL       string         `json:"url,omitempty"`       // open
	Text      string         `json:"text,omitempty"`      // copy
	Target    string         `json:"command,omitempty"`   // run
	Data      map[string]any `json:"data,omitempty"`      // run
	OnSuccess OnSuccess      `json:"onSuccess,omitempty"` // run
}

func (c Command) String() string {
	switch c.Type {
	case CommandPush:
		return "push " + c.Page
	case CommandOpen:
		return "open " + c.URL
	case CommandCopy:
		return fmt.Sprintf("copy %q", c.Text)
	case CommandRun:
		return "run " + c.Target
	default:
		return fmt.Sprintf("unknown command %q", string(c.Type))
	}
}

// ParseError indicates a document or command that does not match the schema
type ParseError struct {
	What string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed %s: %v", e.What, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
