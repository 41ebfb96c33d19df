package rlp

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// UnknownClient is returned for empty or absent extra-data.
const UnknownClient = "unknown"

// ClientIdentity recovers a client software identity string from a raw
// extra-data field. Clients embed their identity in different shapes, so this
// is a best-effort chain of interpretations; it never fails. The canonical
// shape is the 4-element list [[major,minor,patch], name, ...] that geth-style
// clients write, which yields "<name> v<major>.<minor>.<patch>".
func ClientIdentity(extra []byte) string {
	if len(extra) == 0 {
		return UnknownClient
	}

	if item, err := Decode(extra); err == nil && item.IsList {
		if id, ok := versionedIdentity(item); ok {
			return id
		}
		if s, ok := firstStringItem(item); ok {
			return s
		}
	}

	if s := printableASCII(extra); s != "" {
		return s
	}

	return "0x" + hex.EncodeToString(extra)
}

// versionedIdentity matches the [[major,minor,patch(,extra)], name, X, Y]
// shape: a 4-element list whose first element is a 3 or 4 byte string of
// version components.
func versionedIdentity(item Item) (string, bool) {
	if len(item.List) != 4 {
		return "", false
	}
	ver := item.List[0]
	if ver.IsList || (len(ver.Bytes) != 3 && len(ver.Bytes) != 4) {
		return "", false
	}
	parts := make([]string, len(ver.Bytes))
	for i, b := range ver.Bytes {
		parts[i] = fmt.Sprintf("%d", b)
	}
	name := stripControl(string(item.List[1].Bytes))
	if name == "" {
		return "", false
	}
	return fmt.Sprintf("%s v%s", name, strings.Join(parts, ".")), true
}

// firstStringItem returns the first non-empty string element of a list that
// has at least three such elements.
func firstStringItem(item Item) (string, bool) {
	var found []string
	for _, child := range item.List {
		if child.IsList {
			continue
		}
		if s := stripControl(string(child.Bytes)); s != "" {
			found = append(found, s)
		}
	}
	if len(found) >= 3 {
		return found[0], true
	}
	return "", false
}

// printableASCII returns the trimmed string form of b if every byte is
// printable ASCII, else "".
func printableASCII(b []byte) string {
	for _, c := range b {
		if c < 0x20 || c > 0x7e {
			return ""
		}
	}
	return strings.TrimSpace(string(b))
}

func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
}
