package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/buger/jsonparser"
)

// ParsePage decodes a page document. Unknown page types decode to *Unsupported;
// anything that does not match the schema is a *ParseError.
func ParsePage(data []byte) (Page, error) {
	kind, err := jsonparser.GetString(data, "type")
	if err != nil {
		return nil, &ParseError{What: "page", Err: fmt.Errorf("reading type: %w", err)}
	}

	var page Page
	switch PageType(kind) {
	case PageList:
		page = &List{}
	case PageDetail:
		page = &Detail{}
	case PageForm:
		page = &Form{}
	default:
		title, _ := jsonparser.GetString(data, "title")
		return &Unsupported{Kind: kind, Title: title}, nil
	}

	if err := json.Unmarshal(data, page); err != nil {
		return nil, &ParseError{What: kind + " page", Err: err}
	}

	if form, ok := page.(*Form); ok {
		switch form.OnSubmit.Type {
		case SubmitPush, SubmitRun:
		default:
			return nil, &ParseError{What: "form page", Err: fmt.Errorf("unknown onSubmit type %q", form.OnSubmit.Type)}
		}
	}

	return page, nil
}

// ParseCommand decodes a command object, e.g. the body of a run response
func ParseCommand(data []byte) (Command, error) {
	var cmd Command
	if err := json.Unmarshal(data, &cmd); err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			return Command{}, pe
		}
		return Command{}, &ParseError{What: "command", Err: err}
	}
	return cmd, nil
}

// UnmarshalJSON validates the field each command variant needs.
// Unknown types are kept so the dispatcher can report them.
func (c *Command) UnmarshalJSON(data []byte) error {
	type plain Command
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}

	var required string
	switch p.Type {
	case CommandPush:
		required = "page"
	case CommandOpen:
		required = "url"
	case CommandCopy:
		required = "text"
	case CommandRun:
		required = "command"
	case "":
		return &ParseError{What: "command", Err: errors.New("missing type")}
	}
	if required != "" {
		if _, _, _, err := jsonparser.Get(data, required); err != nil {
			return &ParseError{What: string(p.Type) + " command", Err: fmt.Errorf("missing %q", required)}
		}
	}
	if p.OnSuccess != OnSuccessNone && p.OnSuccess != OnSuccessReload && p.OnSuccess != OnSuccessPop {
		return &ParseError{What: "run command", Err: fmt.Errorf("unknown onSuccess %q", p.OnSuccess)}
	}

	*c = Command(p)
	return nil
}

func (m *MetadataItem) UnmarshalJSON(data []byte) error {
	type plain MetadataItem
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	switch p.Type {
	case MetadataLink, MetadataLabel, MetadataSeparator:
	default:
		return &ParseError{What: "metadata item", Err: fmt.Errorf("unknown type %q", p.Type)}
	}
	*m = MetadataItem(p)
	return nil
}

// formItemJSON is the wire shape shared by every form field
type formItemJSON struct {
	Type        FormItemType `json:"type"`
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Required    bool         `json:"required"`
	Placeholder string       `json:"placeholder"`
	Label       string       `json:"label"`
	Items       []Option     `json:"items"`
}

func (f *FormItem) UnmarshalJSON(data []byte) error {
	var raw formItemJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.ID == "" {
		return &ParseError{What: "form item", Err: errors.New("missing id")}
	}

	item := FormItem{
		Type:        raw.Type,
		ID:          raw.ID,
		Title:       raw.Title,
		Required:    raw.Required,
		Placeholder: raw.Placeholder,
		Label:       raw.Label,
		Options:     raw.Items,
	}

	switch raw.Type {
	case FieldTextField, FieldTextArea, FieldDropdown:
		value, dataType, _, err := jsonparser.Get(data, "value")
		switch {
		case err != nil, dataType == jsonparser.Null:
		case dataType == jsonparser.String:
			if item.Value, err = jsonparser.ParseString(value); err != nil {
				return &ParseError{What: "form item " + raw.ID, Err: fmt.Errorf("value: %w", err)}
			}
		default:
			return &ParseError{What: "form item " + raw.ID, Err: fmt.Errorf("value must be a string, got %s", dataType)}
		}
	case FieldCheckbox:
		if checked, err := jsonparser.GetBoolean(data, "value"); err == nil {
			item.Checked = checked
		}
	case FieldFile:
	default:
		return &ParseError{What: "form item " + raw.ID, Err: fmt.Errorf("unknown type %q", raw.Type)}
	}

	if item.Type == FieldDropdown && item.Value == "" && len(item.Options) > 0 {
		item.Value = item.Options[0].Value
	}

	*f = item
	return nil
}
