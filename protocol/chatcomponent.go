package protocol

import (
	"github.com/Jeffail/gabs/v2"

	"github.com/0xkowalskidev/mcstatus/mcerr"
)

// maxChatComponentDepth bounds recursion into the extra array. The wire
// format can't express a cycle, but a hostile or buggy server can still
// send something absurdly deep, so anything past this depth is treated
// as malformed rather than risking unbounded recursion.
const maxChatComponentDepth = 32

// ChatComponent is the normalized form of a Minecraft "chat component":
// either a leaf string (Text set, everything else zero) or a styled node
// with an ordered list of child components in Extra.
type ChatComponent struct {
	Text          string
	Bold          bool
	Italic        bool
	Underlined    bool
	Strikethrough bool
	Obfuscated    bool
	Color         string
	HasColor      bool
	Extra         []ChatComponent
	Unknown       map[string]interface{}
}

// known chat-component field names, used to split object keys into typed
// fields versus the Unknown passthrough bag.
var chatComponentFields = map[string]bool{
	"text": true, "bold": true, "italic": true, "underlined": true,
	"strikethrough": true, "obfuscated": true, "color": true, "extra": true,
}

// DecodeChatComponent parses raw JSON bytes (the modern ping's description
// field, or a whole standalone MOTD document) into a ChatComponent tree.
func DecodeChatComponent(raw []byte) (ChatComponent, error) {
	container, err := gabs.ParseJSON(raw)
	if err != nil {
		return ChatComponent{}, mcerr.Wrap(mcerr.ChatComponentInvalid, err, "parse chat component json")
	}
	return decodeChatValue(container.Data(), 0)
}

func decodeChatValue(v interface{}, depth int) (ChatComponent, error) {
	if depth > maxChatComponentDepth {
		return ChatComponent{}, mcerr.New(mcerr.ChatComponentInvalid, "chat component nesting too deep")
	}

	switch val := v.(type) {
	case string:
		return ChatComponent{Text: val}, nil
	case map[string]interface{}:
		return decodeChatObject(val, depth)
	case []interface{}:
		// Arrays at top level are an implicit root with text="" and
		// extra=<array>.
		extra, err := decodeChatArray(val, depth+1)
		if err != nil {
			return ChatComponent{}, err
		}
		return ChatComponent{Extra: extra}, nil
	default:
		return ChatComponent{}, mcerr.New(mcerr.ChatComponentInvalid, "chat component is not a string, object, or array")
	}
}

func decodeChatObject(obj map[string]interface{}, depth int) (ChatComponent, error) {
	var node ChatComponent

	if text, ok := obj["text"]; ok {
		s, ok := text.(string)
		if !ok {
			return ChatComponent{}, mcerr.New(mcerr.ChatComponentInvalid, "text field is not a string")
		}
		node.Text = s
	}
	if b, ok := obj["bold"].(bool); ok {
		node.Bold = b
	}
	if b, ok := obj["italic"].(bool); ok {
		node.Italic = b
	}
	if b, ok := obj["underlined"].(bool); ok {
		node.Underlined = b
	}
	if b, ok := obj["strikethrough"].(bool); ok {
		node.Strikethrough = b
	}
	if b, ok := obj["obfuscated"].(bool); ok {
		node.Obfuscated = b
	}
	if c, present := obj["color"]; present {
		if c == nil {
			node.HasColor = false
		} else if s, ok := c.(string); ok {
			node.Color = s
			node.HasColor = true
		} else {
			return ChatComponent{}, mcerr.New(mcerr.ChatComponentInvalid, "color field is not a string or null")
		}
	}
	if extraRaw, ok := obj["extra"]; ok {
		extraArr, ok := extraRaw.([]interface{})
		if !ok {
			return ChatComponent{}, mcerr.New(mcerr.ChatComponentInvalid, "extra field is not an array")
		}
		extra, err := decodeChatArray(extraArr, depth+1)
		if err != nil {
			return ChatComponent{}, err
		}
		node.Extra = extra
	}

	for k, v := range obj {
		if chatComponentFields[k] {
			continue
		}
		if node.Unknown == nil {
			node.Unknown = make(map[string]interface{})
		}
		node.Unknown[k] = v
	}

	return node, nil
}

func decodeChatArray(arr []interface{}, depth int) ([]ChatComponent, error) {
	out := make([]ChatComponent, 0, len(arr))
	for _, item := range arr {
		child, err := decodeChatValue(item, depth)
		if err != nil {
			return nil, err
		}
		out = append(out, child)
	}
	return out, nil
}

// PlainText flattens the tree depth-first, concatenating text fields.
// It does not strip Minecraft's legacy "§"-formatting codes embedded
// directly in a text field — callers that need clean text should pair
// this with StripFormatting.
func (c ChatComponent) PlainText() string {
	var out []byte
	c.appendPlainText(&out)
	return string(out)
}

func (c ChatComponent) appendPlainText(out *[]byte) {
	*out = append(*out, c.Text...)
	for _, child := range c.Extra {
		child.appendPlainText(out)
	}
}
